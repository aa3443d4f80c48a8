package services

import (
	"context"

	"github.com/kendall-kelly/complaint-desk-api/apperror"
	"github.com/kendall-kelly/complaint-desk-api/logger"
	"github.com/kendall-kelly/complaint-desk-api/models"
	"github.com/kendall-kelly/complaint-desk-api/policy"
	"github.com/kendall-kelly/complaint-desk-api/repositories"
	"go.uber.org/zap"
)

// RegisterInput is a registration request
type RegisterInput struct {
	UserID   string
	FullName string
	Email    string
	Role     string
}

// UserService manages user registration, lookup and role changes
type UserService struct {
	users *repositories.UserRepository
	gate  *policy.Gate
	log   *zap.Logger
}

func NewUserService(users *repositories.UserRepository, gate *policy.Gate, log *zap.Logger) *UserService {
	return &UserService{users: users, gate: gate, log: logger.WithComponent(log, "users")}
}

// Register creates the user row for an identity. When identity is non-nil its subject must match
// the requested user id.
func (s *UserService) Register(ctx context.Context, identity *Identity, input RegisterInput) (*models.User, error) {
	if identity != nil && identity.Subject != input.UserID {
		return nil, apperror.Forbidden("user_id must match the authenticated identity")
	}
	if input.Role == "" {
		input.Role = models.RoleCustomer
	}

	existing, err := s.users.FindByID(ctx, input.UserID)
	if err != nil {
		return nil, apperror.Database("Failed to register user", err)
	}
	if existing != nil {
		return nil, apperror.Conflict("User already exists")
	}

	byEmail, err := s.users.FindByEmail(ctx, input.Email)
	if err != nil {
		return nil, apperror.Database("Failed to register user", err)
	}
	if byEmail != nil {
		return nil, apperror.Conflict("Email is already registered")
	}

	user := &models.User{
		UserID:   input.UserID,
		FullName: input.FullName,
		Email:    input.Email,
		Role:     input.Role,
	}
	if err := s.users.Create(ctx, user); err != nil {
		if repositories.IsDuplicate(err) {
			return nil, apperror.Conflict("User already exists")
		}
		return nil, apperror.Database("Failed to register user", err)
	}

	s.log.Info("User registered", zap.String("user_id", user.UserID), zap.String("role", user.Role))
	return user, nil
}

// Me returns the caller's own profile
func (s *UserService) Me(ctx context.Context, caller Caller) (*models.User, error) {
	return s.find(ctx, caller.UserID)
}

// GetByID returns a user; callers other than the user themself need user.read_any
func (s *UserService) GetByID(ctx context.Context, caller Caller, userID string) (*models.User, error) {
	self := caller.UserID == userID && caller.Can(s.gate, policy.UserReadSelf)
	if !self && !caller.Can(s.gate, policy.UserReadAny) {
		return nil, apperror.Forbidden("You can only view your own profile")
	}
	return s.find(ctx, userID)
}

func (s *UserService) List(ctx context.Context, page Page) ([]models.User, int64, error) {
	users, total, err := s.users.FindAll(ctx, page.Number, page.Size)
	if err != nil {
		return nil, 0, apperror.Database("Failed to fetch users", err)
	}
	return users, total, nil
}

// ListStaff returns every user that complaints can be assigned to
func (s *UserService) ListStaff(ctx context.Context) ([]models.User, error) {
	staff, err := s.users.FindStaffMembers(ctx)
	if err != nil {
		return nil, apperror.Database("Failed to fetch staff members", err)
	}
	return staff, nil
}

// UpdateRole changes another user's role. Nobody may change their own role.
func (s *UserService) UpdateRole(ctx context.Context, caller Caller, userID, role string) (*models.User, error) {
	if caller.UserID == userID {
		return nil, &apperror.Error{
			Kind:    apperror.KindAuthorization,
			Code:    apperror.CodeSelfRoleChange,
			Message: "You cannot change your own role",
		}
	}
	if !caller.Can(s.gate, policy.UserChangeRole) {
		return nil, apperror.Forbidden("Insufficient permissions to change roles")
	}
	if !models.IsValidRole(role) {
		return nil, apperror.Validation("Invalid role", []FieldError{{Field: "role", Code: "user_role", Message: "role must be one of Admin, Manager, Staff, Customer"}})
	}

	user, err := s.users.UpdateRole(ctx, userID, role)
	if err != nil {
		return nil, apperror.Database("Failed to update user role", err)
	}
	if user == nil {
		return nil, apperror.NotFound("User not found")
	}

	s.log.Info("User role changed",
		zap.String("user_id", userID),
		zap.String("role", role),
		zap.String("changed_by", caller.UserID),
	)
	return user, nil
}

func (s *UserService) find(ctx context.Context, userID string) (*models.User, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, apperror.Database("Failed to fetch user", err)
	}
	if user == nil {
		return nil, apperror.NotFound("User not found")
	}
	return user, nil
}
