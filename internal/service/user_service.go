package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	apperrors "storefront/internal/errors"
	"storefront/internal/model"
	"storefront/internal/repository"
)

// UpdateProfileInput carries a partial profile update; nil fields are left
// untouched.
type UpdateProfileInput struct {
	FirstName *string
	LastName  *string
	Phone     *string
	Address   *string
	Image     *string
}

// UserStats summarizes the user base for the admin listing.
type UserStats struct {
	TotalUsers         int `json:"total_users"`
	TotalActiveUsers   int `json:"total_active_users"`
	TotalInactiveUsers int `json:"total_inactive_users"`
}

// UserService handles profile and admin user operations.
type UserService interface {
	GetProfile(ctx context.Context, id uuid.UUID) (*model.User, error)
	UpdateProfile(ctx context.Context, id uuid.UUID, input UpdateProfileInput) (*model.User, error)
	ListUsers(ctx context.Context) ([]model.User, UserStats, error)
	ChangeUserStatus(ctx context.Context, id uuid.UUID, active bool) (*model.User, error)
}

type userService struct {
	repo repository.UserRepository
}

// NewUserService builds a UserService.
func NewUserService(repo repository.UserRepository) UserService {
	return &userService{repo: repo}
}

func (s *userService) GetProfile(ctx context.Context, id uuid.UUID) (*model.User, error) {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	return user, nil
}

func (s *userService) UpdateProfile(ctx context.Context, id uuid.UUID, input UpdateProfileInput) (*model.User, error) {
	user, err := s.GetProfile(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.FirstName != nil {
		user.FirstName = *input.FirstName
	}
	if input.LastName != nil {
		user.LastName = *input.LastName
	}
	if input.Phone != nil {
		user.Phone = *input.Phone
	}
	if input.Address != nil {
		user.Address = *input.Address
	}
	if input.Image != nil {
		user.Image = *input.Image
	}

	if err := s.repo.Save(ctx, user); err != nil {
		return nil, fmt.Errorf("save user: %w", err)
	}
	return user, nil
}

func (s *userService) ListUsers(ctx context.Context) ([]model.User, UserStats, error) {
	users, err := s.repo.List(ctx)
	if err != nil {
		return nil, UserStats{}, fmt.Errorf("list users: %w", err)
	}

	stats := UserStats{TotalUsers: len(users)}
	for _, u := range users {
		if u.Active {
			stats.TotalActiveUsers++
		} else {
			stats.TotalInactiveUsers++
		}
	}
	return users, stats, nil
}

func (s *userService) ChangeUserStatus(ctx context.Context, id uuid.UUID, active bool) (*model.User, error) {
	user, err := s.GetProfile(ctx, id)
	if err != nil {
		return nil, err
	}

	user.Active = active
	if err := s.repo.Save(ctx, user); err != nil {
		return nil, fmt.Errorf("save user: %w", err)
	}
	return user, nil
}
