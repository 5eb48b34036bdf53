// internal/service/auth_service.go
package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"splitledger/internal/auth"
	"splitledger/internal/domain"
	"splitledger/internal/repository"
	"splitledger/internal/util"
)

// AuthService defines the interface for registration and login.
type AuthService interface {
	Register(ctx context.Context, name, email, password string) (*domain.User, string, error)
	Login(ctx context.Context, email, password string) (*domain.User, string, error)
}

// authService implements the AuthService interface.
type authService struct {
	dbExecutor repository.DBExecutor
	userRepo   repository.UserRepository
	jwtManager *auth.JWTManager
}

// NewAuthService creates a new instance of AuthService.
func NewAuthService(dbExecutor repository.DBExecutor, userRepo repository.UserRepository, jwtManager *auth.JWTManager) AuthService {
	return &authService{
		dbExecutor: dbExecutor,
		userRepo:   userRepo,
		jwtManager: jwtManager,
	}
}

// Register creates a new account and returns it with a signed token.
func (s *authService) Register(ctx context.Context, name, email, password string) (*domain.User, string, error) {
	name = strings.TrimSpace(name)
	email = strings.ToLower(strings.TrimSpace(email))
	if name == "" {
		return nil, "", util.ErrInvalidInput
	}

	user := domain.NewUser(name, email)
	if !user.ValidEmail() {
		return nil, "", util.ErrInvalidInput
	}
	if err := auth.ValidatePassword(password); err != nil {
		return nil, "", err
	}

	_, err := s.userRepo.GetUserByEmail(ctx, s.dbExecutor, email)
	if err == nil {
		return nil, "", util.ErrDuplicateEmail
	}
	if !errors.Is(err, util.ErrUserNotFound) {
		return nil, "", fmt.Errorf("register: failed to check existing email: %w", err)
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, "", fmt.Errorf("register: %w", err)
	}
	user.PasswordHash = hash

	if err := s.userRepo.CreateUser(ctx, s.dbExecutor, user); err != nil {
		return nil, "", fmt.Errorf("register: failed to create user: %w", err)
	}

	token, err := s.jwtManager.Generate(user)
	if err != nil {
		return nil, "", fmt.Errorf("register: failed to generate token: %w", err)
	}
	return user, token, nil
}

// Login verifies credentials and returns the user with a signed token.
// Unknown email and wrong password are indistinguishable to the caller.
func (s *authService) Login(ctx context.Context, email, password string) (*domain.User, string, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	user, err := s.userRepo.GetUserByEmail(ctx, s.dbExecutor, email)
	if err != nil {
		if util.IsError(err, util.ErrUserNotFound) {
			return nil, "", util.ErrInvalidCredentials
		}
		return nil, "", fmt.Errorf("login: failed to get user by email: %w", err)
	}

	if err := auth.CheckPassword(user.PasswordHash, password); err != nil {
		return nil, "", err
	}

	token, err := s.jwtManager.Generate(user)
	if err != nil {
		return nil, "", fmt.Errorf("login: failed to generate token: %w", err)
	}
	return user, token, nil
}
