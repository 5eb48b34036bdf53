// internal/service/user_service.go
package service

import (
	"context"
	"fmt"
	"strings"

	"splitledger/internal/domain"
	"splitledger/internal/repository"
	"splitledger/internal/util"
)

// UserService defines the interface for user directory operations.
type UserService interface {
	GetUser(ctx context.Context, id string) (*domain.User, error)
	ListUsers(ctx context.Context) ([]domain.User, error)
	UpdateUser(ctx context.Context, id, name, email string) (*domain.User, error)
	DeleteUser(ctx context.Context, id string) error
}

// userService implements the UserService interface.
type userService struct {
	dbExecutor repository.DBExecutor
	userRepo   repository.UserRepository
}

// NewUserService creates a new instance of UserService.
func NewUserService(dbExecutor repository.DBExecutor, userRepo repository.UserRepository) UserService {
	return &userService{dbExecutor: dbExecutor, userRepo: userRepo}
}

func (s *userService) GetUser(ctx context.Context, id string) (*domain.User, error) {
	user, err := s.userRepo.GetUserByID(ctx, s.dbExecutor, id)
	if err != nil {
		return nil, fmt.Errorf("get user: failed to get user %s: %w", id, err)
	}
	return user, nil
}

func (s *userService) ListUsers(ctx context.Context) ([]domain.User, error) {
	users, err := s.userRepo.ListUsers(ctx, s.dbExecutor)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return users, nil
}

// UpdateUser changes a user's name and email. A duplicate email is
// rejected before the write.
func (s *userService) UpdateUser(ctx context.Context, id, name, email string) (*domain.User, error) {
	user, err := s.userRepo.GetUserByID(ctx, s.dbExecutor, id)
	if err != nil {
		return nil, fmt.Errorf("update user: failed to get user %s: %w", id, err)
	}

	name = strings.TrimSpace(name)
	email = strings.ToLower(strings.TrimSpace(email))
	user.Name = name
	user.Email = email
	if name == "" || !user.ValidEmail() {
		return nil, util.ErrInvalidInput
	}

	if other, err := s.userRepo.GetUserByEmail(ctx, s.dbExecutor, email); err == nil && other.ID != id {
		return nil, util.ErrDuplicateEmail
	} else if err != nil && !util.IsError(err, util.ErrUserNotFound) {
		return nil, fmt.Errorf("update user: failed to check email: %w", err)
	}

	if err := s.userRepo.UpdateUser(ctx, s.dbExecutor, user); err != nil {
		return nil, fmt.Errorf("update user: failed to update user %s: %w", id, err)
	}
	return user, nil
}

func (s *userService) DeleteUser(ctx context.Context, id string) error {
	if err := s.userRepo.DeleteUser(ctx, s.dbExecutor, id); err != nil {
		return fmt.Errorf("delete user: failed to delete user %s: %w", id, err)
	}
	return nil
}
