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

// CreateComplaintInput is a new complaint. An empty UserID means the caller.
type CreateComplaintInput struct {
	UserID      string
	Category    string
	Description string
	Priority    string
}

// ComplaintService owns complaint lifecycle and access rules for complaint-scoped data
type ComplaintService struct {
	complaints *repositories.ComplaintRepository
	users      *repositories.UserRepository
	gate       *policy.Gate
	log        *zap.Logger
}

func NewComplaintService(complaints *repositories.ComplaintRepository, users *repositories.UserRepository, gate *policy.Gate, log *zap.Logger) *ComplaintService {
	return &ComplaintService{
		complaints: complaints,
		users:      users,
		gate:       gate,
		log:        logger.WithComponent(log, "complaints"),
	}
}

func (s *ComplaintService) Create(ctx context.Context, caller Caller, input CreateComplaintInput) (*models.Complaint, error) {
	if !caller.Can(s.gate, policy.ComplaintCreate) {
		return nil, apperror.Forbidden("Insufficient permissions to create complaints")
	}

	owner := input.UserID
	if owner == "" {
		owner = caller.UserID
	}
	if owner != caller.UserID {
		if !caller.Can(s.gate, policy.ComplaintCreateForOther) {
			return nil, apperror.Forbidden("You can only file complaints for yourself")
		}
		user, err := s.users.FindByID(ctx, owner)
		if err != nil {
			return nil, apperror.Database("Failed to create complaint", err)
		}
		if user == nil {
			return nil, apperror.Validation("Invalid request data", []FieldError{{Field: "user_id", Code: "exists", Message: "user_id does not reference a registered user"}})
		}
	}

	complaint := &models.Complaint{
		UserID:      owner,
		Category:    input.Category,
		Description: input.Description,
		Status:      models.StatusPending,
		Priority:    input.Priority,
	}
	if err := s.complaints.Create(ctx, complaint); err != nil {
		return nil, apperror.Database("Failed to create complaint", err)
	}

	metrics.ComplaintsCreatedTotal.Inc()
	s.log.Info("Complaint created",
		zap.Uint("complaint_id", complaint.ComplaintID),
		zap.String("user_id", complaint.UserID),
		zap.String("priority", complaint.Priority),
	)
	return complaint, nil
}

// List returns one page of complaints matching filters
func (s *ComplaintService) List(ctx context.Context, page Page, filters repositories.ComplaintFilters) ([]models.Complaint, int64, error) {
	complaints, total, err := s.complaints.FindAll(ctx, page.Number, page.Size, filters)
	if err != nil {
		return nil, 0, apperror.Database("Failed to fetch complaints", err)
	}
	return complaints, total, nil
}

// ListByUser returns a user's complaints; other users' lists need complaint.list_all
func (s *ComplaintService) ListByUser(ctx context.Context, caller Caller, userID string) ([]models.Complaint, error) {
	if caller.UserID != userID && !caller.Can(s.gate, policy.ComplaintListAll) {
		return nil, apperror.Forbidden("You can only view your own complaints")
	}
	complaints, err := s.complaints.FindByUserID(ctx, userID)
	if err != nil {
		return nil, apperror.Database("Failed to fetch complaints", err)
	}
	return complaints, nil
}

func (s *ComplaintService) Get(ctx context.Context, caller Caller, id uint) (*models.Complaint, error) {
	return s.Accessible(ctx, caller, id, "")
}

// Accessible loads a complaint the caller may act on: the caller must hold op (when given) and
// either own the complaint or hold complaint.read_any.
func (s *ComplaintService) Accessible(ctx context.Context, caller Caller, id uint, op policy.Operation) (*models.Complaint, error) {
	if op != "" && !caller.Can(s.gate, op) {
		return nil, apperror.Forbidden("Insufficient permissions")
	}

	complaint, err := s.complaints.FindByID(ctx, id)
	if err != nil {
		return nil, apperror.Database("Failed to fetch complaint", err)
	}
	if complaint == nil {
		return nil, apperror.NotFound("Complaint not found")
	}
	if complaint.UserID != caller.UserID && !caller.Can(s.gate, policy.ComplaintReadAny) {
		return nil, apperror.Forbidden("You do not have access to this complaint")
	}
	return complaint, nil
}

// Update applies a partial change. An empty change set is reported as not found and nothing is written.
func (s *ComplaintService) Update(ctx context.Context, caller Caller, id uint, changes repositories.ComplaintChanges) (*models.Complaint, error) {
	if !caller.Can(s.gate, policy.ComplaintUpdate) {
		return nil, apperror.Forbidden("Insufficient permissions to update complaints")
	}
	if changes.IsEmpty() {
		return nil, apperror.NotFound("No fields to update")
	}

	if changes.AssignedStaff != nil && *changes.AssignedStaff != "" {
		staff, err := s.users.FindByID(ctx, *changes.AssignedStaff)
		if err != nil {
			return nil, apperror.Database("Failed to update complaint", err)
		}
		if staff == nil || !models.IsStaffRole(staff.Role) {
			return nil, apperror.Validation("Invalid request data", []FieldError{{
				Field:   "assigned_staff",
				Code:    "staff_member",
				Message: "assigned_staff must reference a Staff, Manager or Admin user",
			}})
		}
	}

	complaint, err := s.complaints.Update(ctx, id, changes)
	if err != nil {
		return nil, apperror.Database("Failed to update complaint", err)
	}
	if complaint == nil {
		return nil, apperror.NotFound("Complaint not found")
	}

	s.log.Info("Complaint updated", zap.Uint("complaint_id", id), zap.String("updated_by", caller.UserID))
	return complaint, nil
}

// Delete removes a complaint and everything attached to it. Owners may delete their own;
// anyone else needs complaint.delete_any.
func (s *ComplaintService) Delete(ctx context.Context, caller Caller, id uint) error {
	complaint, err := s.complaints.FindByID(ctx, id)
	if err != nil {
		return apperror.Database("Failed to delete complaint", err)
	}
	if complaint == nil {
		return apperror.NotFound("Complaint not found")
	}
	if complaint.UserID != caller.UserID && !caller.Can(s.gate, policy.ComplaintDeleteAny) {
		return apperror.Forbidden("You can only delete your own complaints")
	}

	if err := s.complaints.DeleteCascade(ctx, id); err != nil {
		return apperror.Database("Failed to delete complaint", err)
	}

	s.log.Info("Complaint deleted", zap.Uint("complaint_id", id), zap.String("deleted_by", caller.UserID))
	return nil
}
