package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/kendall-kelly/complaint-desk-api/models"
	"gorm.io/gorm"
)

// ComplaintUpdateRepository persists the complaint audit trail
type ComplaintUpdateRepository struct {
	db *gorm.DB
}

func NewComplaintUpdateRepository(db *gorm.DB) *ComplaintUpdateRepository {
	return &ComplaintUpdateRepository{db: db}
}

// Create appends an audit entry without touching the complaint
func (r *ComplaintUpdateRepository) Create(ctx context.Context, update *models.ComplaintUpdate) error {
	if err := r.db.WithContext(ctx).Create(update).Error; err != nil {
		return fmt.Errorf("creating complaint update: %w", err)
	}
	return nil
}

// CreateWithStatusSync appends the audit entry and copies its status onto the complaint in one transaction.
// It returns ErrNotFound when the complaint does not exist.
func (r *ComplaintUpdateRepository) CreateWithStatusSync(ctx context.Context, update *models.ComplaintUpdate) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := (&ComplaintUpdateRepository{db: tx}).Create(ctx, update); err != nil {
			return err
		}
		if err := setComplaintStatus(tx, update.ComplaintID, update.Status); err != nil {
			return fmt.Errorf("syncing status of complaint %d: %w", update.ComplaintID, err)
		}
		return nil
	})
}

// FindByID returns nil when the update does not exist
func (r *ComplaintUpdateRepository) FindByID(ctx context.Context, id uint) (*models.ComplaintUpdate, error) {
	update, err := first(r.db.WithContext(ctx).Where("update_id = ?", id), &models.ComplaintUpdate{})
	if err != nil {
		return nil, fmt.Errorf("finding complaint update %d: %w", id, err)
	}
	return update, nil
}

// FindByComplaintID returns the complaint's audit trail, newest first, with each author's name
func (r *ComplaintUpdateRepository) FindByComplaintID(ctx context.Context, complaintID uint) ([]models.ComplaintUpdate, error) {
	updates := []models.ComplaintUpdate{}
	err := r.db.WithContext(ctx).Model(&models.ComplaintUpdate{}).
		Select("complaint_updates.*, users.full_name AS updated_by_name").
		Joins("LEFT JOIN users ON users.user_id = complaint_updates.updated_by").
		Where("complaint_updates.complaint_id = ?", complaintID).
		Order("complaint_updates.updated_at DESC").Order("complaint_updates.update_id DESC").
		Find(&updates).Error
	if err != nil {
		return nil, fmt.Errorf("listing updates for complaint %d: %w", complaintID, err)
	}
	return updates, nil
}

// FindLatest returns the most recent update for the complaint, or nil when there is none
func (r *ComplaintUpdateRepository) FindLatest(ctx context.Context, complaintID uint) (*models.ComplaintUpdate, error) {
	update, err := latest(r.db.WithContext(ctx), complaintID)
	if err != nil {
		return nil, fmt.Errorf("finding latest update for complaint %d: %w", complaintID, err)
	}
	return update, nil
}

// Delete removes the update row only. A missing id is not an error.
func (r *ComplaintUpdateRepository) Delete(ctx context.Context, id uint) error {
	if err := r.db.WithContext(ctx).Where("update_id = ?", id).Delete(&models.ComplaintUpdate{}).Error; err != nil {
		return fmt.Errorf("deleting complaint update %d: %w", id, err)
	}
	return nil
}

// DeleteWithStatusResync removes the update and, in the same transaction, sets the complaint's
// status to that of its latest remaining update, or Pending when none remain.
// It returns the status the complaint ended up with.
func (r *ComplaintUpdateRepository) DeleteWithStatusResync(ctx context.Context, update *models.ComplaintUpdate) (string, error) {
	status := models.StatusPending
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := (&ComplaintUpdateRepository{db: tx}).Delete(ctx, update.UpdateID); err != nil {
			return err
		}
		remaining, err := latest(tx, update.ComplaintID)
		if err != nil {
			return fmt.Errorf("finding latest update for complaint %d: %w", update.ComplaintID, err)
		}
		if remaining != nil {
			status = remaining.Status
		}
		if err := setComplaintStatus(tx, update.ComplaintID, status); err != nil {
			return fmt.Errorf("resyncing status of complaint %d: %w", update.ComplaintID, err)
		}
		return nil
	})
	if err != nil {
		return "", err
	}
	return status, nil
}

func latest(tx *gorm.DB, complaintID uint) (*models.ComplaintUpdate, error) {
	return first(tx.Where("complaint_id = ?", complaintID).
		Order("updated_at DESC").Order("update_id DESC"), &models.ComplaintUpdate{})
}

func setComplaintStatus(tx *gorm.DB, complaintID uint, status string) error {
	result := tx.Model(&models.Complaint{}).
		Where("complaint_id = ?", complaintID).
		Updates(map[string]interface{}{"status": status, "updated_at": time.Now()})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
