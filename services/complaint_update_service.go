package services

import (
	"context"
	"errors"

	"github.com/kendall-kelly/complaint-desk-api/apperror"
	"github.com/kendall-kelly/complaint-desk-api/logger"
	"github.com/kendall-kelly/complaint-desk-api/metrics"
	"github.com/kendall-kelly/complaint-desk-api/models"
	"github.com/kendall-kelly/complaint-desk-api/policy"
	"github.com/kendall-kelly/complaint-desk-api/repositories"
	"go.uber.org/zap"
)

// CreateUpdateInput is a new audit entry. An empty UpdatedBy means the caller.
type CreateUpdateInput struct {
	ComplaintID uint
	UpdatedBy   string
	Status      string
	Comment     string
}

// ComplaintUpdateService records status changes and keeps complaints.status in step with the audit trail
type ComplaintUpdateService struct {
	updates    *repositories.ComplaintUpdateRepository
	complaints *ComplaintService
	gate       *policy.Gate
	log        *zap.Logger
}

func NewComplaintUpdateService(updates *repositories.ComplaintUpdateRepository, complaints *ComplaintService, gate *policy.Gate, log *zap.Logger) *ComplaintUpdateService {
	return &ComplaintUpdateService{
		updates:    updates,
		complaints: complaints,
		gate:       gate,
		log:        logger.WithComponent(log, "complaint_updates"),
	}
}

// Create appends an update and sets the complaint's status to it atomically
func (s *ComplaintUpdateService) Create(ctx context.Context, caller Caller, input CreateUpdateInput) (*models.ComplaintUpdate, error) {
	author := input.UpdatedBy
	if author == "" {
		author = caller.UserID
	}
	if author != caller.UserID && !caller.Can(s.gate, policy.UpdateCreateForOther) {
		return nil, apperror.Forbidden("updated_by must be the authenticated user")
	}
	if _, err := s.complaints.Accessible(ctx, caller, input.ComplaintID, policy.UpdateCreate); err != nil {
		return nil, err
	}

	update := &models.ComplaintUpdate{
		ComplaintID: input.ComplaintID,
		UpdatedBy:   author,
		Status:      input.Status,
		Comment:     input.Comment,
	}
	if err := s.updates.CreateWithStatusSync(ctx, update); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, apperror.NotFound("Complaint not found")
		}
		return nil, apperror.Database("Failed to create complaint update", err)
	}

	metrics.ComplaintUpdatesTotal.WithLabelValues(update.Status).Inc()
	s.log.Info("Complaint update recorded",
		zap.Uint("update_id", update.UpdateID),
		zap.Uint("complaint_id", update.ComplaintID),
		zap.String("status", update.Status),
	)
	return update, nil
}

// ListByComplaint returns the audit trail newest first
func (s *ComplaintUpdateService) ListByComplaint(ctx context.Context, caller Caller, complaintID uint) ([]models.ComplaintUpdate, error) {
	if _, err := s.complaints.Accessible(ctx, caller, complaintID, policy.UpdateRead); err != nil {
		return nil, err
	}
	updates, err := s.updates.FindByComplaintID(ctx, complaintID)
	if err != nil {
		return nil, apperror.Database("Failed to fetch complaint updates", err)
	}
	return updates, nil
}

func (s *ComplaintUpdateService) Latest(ctx context.Context, caller Caller, complaintID uint) (*models.ComplaintUpdate, error) {
	if _, err := s.complaints.Accessible(ctx, caller, complaintID, policy.UpdateRead); err != nil {
		return nil, err
	}
	update, err := s.updates.FindLatest(ctx, complaintID)
	if err != nil {
		return nil, apperror.Database("Failed to fetch latest update", err)
	}
	if update == nil {
		return nil, apperror.NotFound("No updates found for this complaint")
	}
	return update, nil
}

// Delete removes an update and recomputes the complaint's status. Authors may delete their own;
// anyone else needs update.delete_any.
func (s *ComplaintUpdateService) Delete(ctx context.Context, caller Caller, id uint) error {
	update, err := s.updates.FindByID(ctx, id)
	if err != nil {
		return apperror.Database("Failed to delete complaint update", err)
	}
	if update == nil {
		return apperror.NotFound("Complaint update not found")
	}
	if update.UpdatedBy != caller.UserID && !caller.Can(s.gate, policy.UpdateDeleteAny) {
		return apperror.Forbidden("You can only delete your own updates")
	}

	status, err := s.updates.DeleteWithStatusResync(ctx, update)
	if err != nil && !errors.Is(err, repositories.ErrNotFound) {
		return apperror.Database("Failed to delete complaint update", err)
	}

	s.log.Info("Complaint update deleted",
		zap.Uint("update_id", id),
		zap.Uint("complaint_id", update.ComplaintID),
		zap.String("resynced_status", status),
	)
	return nil
}
