package repositories

import (
	"context"
	"fmt"

	"github.com/kendall-kelly/complaint-desk-api/models"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
)

// UserRepository persists users
type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	if user.Role == "" {
		user.Role = models.RoleCustomer
	}
	if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
		if IsDuplicate(err) {
			return fmt.Errorf("%w: %v", ErrDuplicate, err)
		}
		return fmt.Errorf("creating user: %w", err)
	}
	return nil
}

// FindByID returns nil when the user does not exist
func (r *UserRepository) FindByID(ctx context.Context, userID string) (*models.User, error) {
	user, err := first(r.db.WithContext(ctx).Where("user_id = ?", userID), &models.User{})
	if err != nil {
		return nil, fmt.Errorf("finding user %s: %w", userID, err)
	}
	return user, nil
}

// FindByEmail returns nil when no user has the email
func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	user, err := first(r.db.WithContext(ctx).Where("email = ?", email), &models.User{})
	if err != nil {
		return nil, fmt.Errorf("finding user by email: %w", err)
	}
	return user, nil
}

// FindStaffMembers returns every user that can be assigned complaints, ordered by name
func (r *UserRepository) FindStaffMembers(ctx context.Context) ([]models.User, error) {
	users := []models.User{}
	err := r.db.WithContext(ctx).
		Where("role IN ?", models.StaffRoles).
		Order("full_name ASC").
		Find(&users).Error
	if err != nil {
		return nil, fmt.Errorf("listing staff: %w", err)
	}
	return users, nil
}

// FindAll returns one page of users, newest first, and the total count
func (r *UserRepository) FindAll(ctx context.Context, page, pageSize int) ([]models.User, int64, error) {
	users := []models.User{}
	var total int64

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return r.db.WithContext(gctx).
			Order("created_at DESC").Order("user_id ASC").
			Limit(pageSize).Offset(offset(page, pageSize)).
			Find(&users).Error
	})
	g.Go(func() error {
		return r.db.WithContext(gctx).Model(&models.User{}).Count(&total).Error
	})
	if err := g.Wait(); err != nil {
		return nil, 0, fmt.Errorf("listing users: %w", err)
	}
	return users, total, nil
}

// UpdateRole sets the user's role and returns the updated row, or nil when the user does not exist
func (r *UserRepository) UpdateRole(ctx context.Context, userID, role string) (*models.User, error) {
	result := r.db.WithContext(ctx).Model(&models.User{}).
		Where("user_id = ?", userID).
		Update("role", role)
	if result.Error != nil {
		return nil, fmt.Errorf("updating role for %s: %w", userID, result.Error)
	}
	if result.RowsAffected == 0 {
		return nil, nil
	}
	return r.FindByID(ctx, userID)
}
