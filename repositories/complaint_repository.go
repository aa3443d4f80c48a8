package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/kendall-kelly/complaint-desk-api/models"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
)

// ComplaintFilters are the equality filters accepted by FindAll. Empty fields are ignored.
type ComplaintFilters struct {
	Status        string
	Priority      string
	AssignedStaff string
	UserID        string
	Category      string
}

func (f ComplaintFilters) conditions() map[string]interface{} {
	conds := map[string]interface{}{}
	if f.Status != "" {
		conds["status"] = f.Status
	}
	if f.Priority != "" {
		conds["priority"] = f.Priority
	}
	if f.AssignedStaff != "" {
		conds["assigned_staff"] = f.AssignedStaff
	}
	if f.UserID != "" {
		conds["user_id"] = f.UserID
	}
	if f.Category != "" {
		conds["category"] = f.Category
	}
	return conds
}

// ComplaintChanges is a partial update. Nil fields are left untouched;
// an empty AssignedStaff clears the assignment.
type ComplaintChanges struct {
	Status        *string
	Priority      *string
	AssignedStaff *string
}

// IsEmpty reports whether no field was supplied
func (c ComplaintChanges) IsEmpty() bool {
	return c.Status == nil && c.Priority == nil && c.AssignedStaff == nil
}

func (c ComplaintChanges) columns() map[string]interface{} {
	cols := map[string]interface{}{}
	if c.Status != nil {
		cols["status"] = *c.Status
	}
	if c.Priority != nil {
		cols["priority"] = *c.Priority
	}
	if c.AssignedStaff != nil {
		if *c.AssignedStaff == "" {
			cols["assigned_staff"] = nil
		} else {
			cols["assigned_staff"] = *c.AssignedStaff
		}
	}
	return cols
}

// ComplaintRepository persists complaints
type ComplaintRepository struct {
	db *gorm.DB
}

func NewComplaintRepository(db *gorm.DB) *ComplaintRepository {
	return &ComplaintRepository{db: db}
}

func (r *ComplaintRepository) Create(ctx context.Context, complaint *models.Complaint) error {
	if complaint.Status == "" {
		complaint.Status = models.StatusPending
	}
	if complaint.Priority == "" {
		complaint.Priority = models.PriorityMedium
	}
	if err := r.db.WithContext(ctx).Create(complaint).Error; err != nil {
		return fmt.Errorf("creating complaint: %w", err)
	}
	return nil
}

// FindByID returns nil when the complaint does not exist
func (r *ComplaintRepository) FindByID(ctx context.Context, id uint) (*models.Complaint, error) {
	complaint, err := first(r.db.WithContext(ctx).Where("complaint_id = ?", id), &models.Complaint{})
	if err != nil {
		return nil, fmt.Errorf("finding complaint %d: %w", id, err)
	}
	return complaint, nil
}

// FindByUserID returns every complaint owned by the user, newest first
func (r *ComplaintRepository) FindByUserID(ctx context.Context, userID string) ([]models.Complaint, error) {
	complaints := []models.Complaint{}
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").Order("complaint_id DESC").
		Find(&complaints).Error
	if err != nil {
		return nil, fmt.Errorf("listing complaints for %s: %w", userID, err)
	}
	return complaints, nil
}

// FindAll returns one page of complaints matching every non-empty filter, newest first,
// together with the total number of matches. The page and the count are queried concurrently.
func (r *ComplaintRepository) FindAll(ctx context.Context, page, pageSize int, filters ComplaintFilters) ([]models.Complaint, int64, error) {
	conds := filters.conditions()
	complaints := []models.Complaint{}
	var total int64

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return r.db.WithContext(gctx).
			Where(conds).
			Order("created_at DESC").Order("complaint_id DESC").
			Limit(pageSize).Offset(offset(page, pageSize)).
			Find(&complaints).Error
	})
	g.Go(func() error {
		return r.db.WithContext(gctx).Model(&models.Complaint{}).Where(conds).Count(&total).Error
	})
	if err := g.Wait(); err != nil {
		return nil, 0, fmt.Errorf("listing complaints: %w", err)
	}
	return complaints, total, nil
}

// Update writes only the supplied fields and returns the re-read row.
// It returns nil without writing when changes is empty, and nil when the complaint does not exist.
func (r *ComplaintRepository) Update(ctx context.Context, id uint, changes ComplaintChanges) (*models.Complaint, error) {
	if changes.IsEmpty() {
		return nil, nil
	}
	cols := changes.columns()
	cols["updated_at"] = time.Now()

	result := r.db.WithContext(ctx).Model(&models.Complaint{}).
		Where("complaint_id = ?", id).
		Updates(cols)
	if result.Error != nil {
		return nil, fmt.Errorf("updating complaint %d: %w", id, result.Error)
	}
	if result.RowsAffected == 0 {
		return nil, nil
	}
	return r.FindByID(ctx, id)
}

// Delete removes the complaint row only. A missing id is not an error.
func (r *ComplaintRepository) Delete(ctx context.Context, id uint) error {
	if err := r.db.WithContext(ctx).Where("complaint_id = ?", id).Delete(&models.Complaint{}).Error; err != nil {
		return fmt.Errorf("deleting complaint %d: %w", id, err)
	}
	return nil
}

// DeleteCascade removes the complaint with its feedback, attachments and updates in one transaction
func (r *ComplaintRepository) DeleteCascade(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		dependents := []interface{}{&models.Feedback{}, &models.Attachment{}, &models.ComplaintUpdate{}}
		for _, model := range dependents {
			if err := tx.Where("complaint_id = ?", id).Delete(model).Error; err != nil {
				return fmt.Errorf("deleting dependents of complaint %d: %w", id, err)
			}
		}
		return (&ComplaintRepository{db: tx}).Delete(ctx, id)
	})
}
