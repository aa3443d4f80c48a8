package services

import (
	"context"

	"github.com/kendall-kelly/complaint-desk-api/apperror"
	"github.com/kendall-kelly/complaint-desk-api/logger"
	"github.com/kendall-kelly/complaint-desk-api/metrics"
	"github.com/kendall-kelly/complaint-desk-api/models"
	"github.com/kendall-kelly/complaint-desk-api/policy"
	"github.com/kendall-kelly/complaint-desk-api/repositories"
	"go.uber.org/zap"
)

const feedbackExistsMessage = "Feedback already exists for this complaint"

// CreateFeedbackInput is a rating for a complaint
type CreateFeedbackInput struct {
	ComplaintID uint
	Rating      int
	Comments    *string
}

// FeedbackService records at most one rating per complaint
type FeedbackService struct {
	feedback   *repositories.FeedbackRepository
	complaints *ComplaintService
	gate       *policy.Gate
	log        *zap.Logger
}

func NewFeedbackService(feedback *repositories.FeedbackRepository, complaints *ComplaintService, gate *policy.Gate, log *zap.Logger) *FeedbackService {
	return &FeedbackService{
		feedback:   feedback,
		complaints: complaints,
		gate:       gate,
		log:        logger.WithComponent(log, "feedback"),
	}
}

// Create stores feedback for a complaint the caller owns (or any complaint, for roles with
// complaint.read_any and feedback.create). A second submission is a conflict.
func (s *FeedbackService) Create(ctx context.Context, caller Caller, input CreateFeedbackInput) (*models.Feedback, error) {
	if input.Rating < 1 || input.Rating > 5 {
		return nil, apperror.Validation("Invalid request data", []FieldError{{Field: "rating", Code: "range", Message: "rating must be between 1 and 5"}})
	}
	if _, err := s.complaints.Accessible(ctx, caller, input.ComplaintID, policy.FeedbackCreate); err != nil {
		return nil, err
	}

	existing, err := s.feedback.FindByComplaintID(ctx, input.ComplaintID)
	if err != nil {
		return nil, apperror.Database("Failed to create feedback", err)
	}
	if existing != nil {
		return nil, s.conflict(input.ComplaintID)
	}

	feedback := &models.Feedback{
		ComplaintID: input.ComplaintID,
		Rating:      input.Rating,
		Comments:    input.Comments,
	}
	if err := s.feedback.Create(ctx, feedback); err != nil {
		if repositories.IsDuplicate(err) {
			return nil, s.conflict(input.ComplaintID)
		}
		return nil, apperror.Database("Failed to create feedback", err)
	}

	metrics.FeedbackSubmissionsTotal.WithLabelValues("created").Inc()
	s.log.Info("Feedback submitted", zap.Uint("complaint_id", input.ComplaintID), zap.Int("rating", input.Rating))
	return feedback, nil
}

func (s *FeedbackService) GetByComplaint(ctx context.Context, caller Caller, complaintID uint) (*models.Feedback, error) {
	if _, err := s.complaints.Accessible(ctx, caller, complaintID, policy.FeedbackRead); err != nil {
		return nil, err
	}
	feedback, err := s.feedback.FindByComplaintID(ctx, complaintID)
	if err != nil {
		return nil, apperror.Database("Failed to fetch feedback", err)
	}
	if feedback == nil {
		return nil, apperror.NotFound("Feedback not found for this complaint")
	}
	return feedback, nil
}

func (s *FeedbackService) AverageRating(ctx context.Context) (repositories.RatingSummary, error) {
	summary, err := s.feedback.AverageRating(ctx)
	if err != nil {
		return repositories.RatingSummary{}, apperror.Database("Failed to compute average rating", err)
	}
	return summary, nil
}

func (s *FeedbackService) conflict(complaintID uint) error {
	metrics.FeedbackSubmissionsTotal.WithLabelValues("conflict").Inc()
	s.log.Warn("Duplicate feedback rejected", zap.Uint("complaint_id", complaintID))
	return apperror.Conflict(feedbackExistsMessage)
}
