package repositories

import (
	"context"
	"fmt"

	"github.com/kendall-kelly/complaint-desk-api/models"
	"gorm.io/gorm"
)

// RatingSummary aggregates every feedback rating
type RatingSummary struct {
	Average float64 `json:"average_rating"`
	Count   int64   `json:"total_feedback"`
}

// FeedbackRepository persists complaint feedback
type FeedbackRepository struct {
	db *gorm.DB
}

func NewFeedbackRepository(db *gorm.DB) *FeedbackRepository {
	return &FeedbackRepository{db: db}
}

// Create inserts feedback; a second row for the same complaint yields ErrDuplicate
func (r *FeedbackRepository) Create(ctx context.Context, feedback *models.Feedback) error {
	if err := r.db.WithContext(ctx).Create(feedback).Error; err != nil {
		if IsDuplicate(err) {
			return fmt.Errorf("%w: %v", ErrDuplicate, err)
		}
		return fmt.Errorf("creating feedback: %w", err)
	}
	return nil
}

// FindByComplaintID returns nil when the complaint has no feedback
func (r *FeedbackRepository) FindByComplaintID(ctx context.Context, complaintID uint) (*models.Feedback, error) {
	feedback, err := first(r.db.WithContext(ctx).Where("complaint_id = ?", complaintID), &models.Feedback{})
	if err != nil {
		return nil, fmt.Errorf("finding feedback for complaint %d: %w", complaintID, err)
	}
	return feedback, nil
}

// AverageRating returns the mean rating across all feedback, zero when there is none
func (r *FeedbackRepository) AverageRating(ctx context.Context) (RatingSummary, error) {
	var summary RatingSummary
	err := r.db.WithContext(ctx).Model(&models.Feedback{}).
		Select("COALESCE(AVG(rating), 0) AS average, COUNT(*) AS count").
		Scan(&summary).Error
	if err != nil {
		return RatingSummary{}, fmt.Errorf("averaging ratings: %w", err)
	}
	return summary, nil
}
