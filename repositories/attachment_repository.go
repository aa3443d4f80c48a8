package repositories

import (
	"context"
	"fmt"

	"github.com/kendall-kelly/complaint-desk-api/models"
	"gorm.io/gorm"
)

// AttachmentRepository persists attachment metadata
type AttachmentRepository struct {
	db *gorm.DB
}

func NewAttachmentRepository(db *gorm.DB) *AttachmentRepository {
	return &AttachmentRepository{db: db}
}

func (r *AttachmentRepository) Create(ctx context.Context, attachment *models.Attachment) error {
	if err := r.db.WithContext(ctx).Create(attachment).Error; err != nil {
		return fmt.Errorf("creating attachment: %w", err)
	}
	return nil
}

// FindByID returns nil when the attachment does not exist
func (r *AttachmentRepository) FindByID(ctx context.Context, id uint) (*models.Attachment, error) {
	attachment, err := first(r.db.WithContext(ctx).Where("attachment_id = ?", id), &models.Attachment{})
	if err != nil {
		return nil, fmt.Errorf("finding attachment %d: %w", id, err)
	}
	return attachment, nil
}

// FindByComplaintID returns the complaint's attachments, newest first
func (r *AttachmentRepository) FindByComplaintID(ctx context.Context, complaintID uint) ([]models.Attachment, error) {
	attachments := []models.Attachment{}
	err := r.db.WithContext(ctx).
		Where("complaint_id = ?", complaintID).
		Order("uploaded_at DESC").Order("attachment_id DESC").
		Find(&attachments).Error
	if err != nil {
		return nil, fmt.Errorf("listing attachments for complaint %d: %w", complaintID, err)
	}
	return attachments, nil
}

// Delete removes the attachment row. A missing id is not an error.
func (r *AttachmentRepository) Delete(ctx context.Context, id uint) error {
	if err := r.db.WithContext(ctx).Where("attachment_id = ?", id).Delete(&models.Attachment{}).Error; err != nil {
		return fmt.Errorf("deleting attachment %d: %w", id, err)
	}
	return nil
}
