// internal/repository/user_repo.go
package repository

import (
	"context"

	"splitledger/internal/domain"
)

// UserRepository defines the interface for user data operations.
type UserRepository interface {
	// CreateUser adds a new user using the provided DBExecutor.
	CreateUser(ctx context.Context, q DBExecutor, user *domain.User) error
	// GetUserByID retrieves a user by their ID.
	GetUserByID(ctx context.Context, q DBExecutor, id string) (*domain.User, error)
	// GetUserByEmail retrieves a user by their email address.
	GetUserByEmail(ctx context.Context, q DBExecutor, email string) (*domain.User, error)
	// ListUsers retrieves all users ordered by name.
	ListUsers(ctx context.Context, q DBExecutor) ([]domain.User, error)
	// UpdateUser updates a user's name and email.
	UpdateUser(ctx context.Context, q DBExecutor, user *domain.User) error
	// DeleteUser removes a user. Returns ErrUserNotFound if no row matched.
	DeleteUser(ctx context.Context, q DBExecutor, id string) error
}
