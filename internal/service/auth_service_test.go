// internal/service/auth_service_test.go
package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"splitledger/internal/auth"
	"splitledger/internal/domain"
	"splitledger/internal/util"
)

func newTestJWTManager() *auth.JWTManager {
	return auth.NewJWTManager("test-secret", time.Hour)
}

func TestRegister(t *testing.T) {
	t.Run("SuccessfulRegistration", func(t *testing.T) {
		ctx := context.Background()
		mockUserRepo := new(MockUserRepository)
		mockDBExecutor := new(MockDBExecutor)

		service := NewAuthService(mockDBExecutor, mockUserRepo, newTestJWTManager())

		mockUserRepo.On("GetUserByEmail", ctx, mock.Anything, "alice@example.com").Return(nil, util.ErrUserNotFound).Once()
		mockUserRepo.On("CreateUser", ctx, mock.Anything, mock.MatchedBy(func(u *domain.User) bool {
			return u.Email == "alice@example.com" && u.PasswordHash != "" && u.PasswordHash != "secretpass"
		})).Return(nil).Once()

		user, token, err := service.Register(ctx, "Alice", "Alice@Example.com ", "secretpass")

		assert.NoError(t, err)
		assert.NotNil(t, user)
		assert.Equal(t, "alice@example.com", user.Email)
		assert.NotEmpty(t, token)
		mock.AssertExpectationsForObjects(t, mockUserRepo)
	})

	t.Run("DuplicateEmail", func(t *testing.T) {
		ctx := context.Background()
		mockUserRepo := new(MockUserRepository)

		service := NewAuthService(new(MockDBExecutor), mockUserRepo, newTestJWTManager())

		mockUserRepo.On("GetUserByEmail", ctx, mock.Anything, "alice@example.com").
			Return(&domain.User{ID: "user-1", Email: "alice@example.com"}, nil).Once()

		user, token, err := service.Register(ctx, "Alice", "alice@example.com", "secretpass")

		assert.ErrorIs(t, err, util.ErrDuplicateEmail)
		assert.Nil(t, user)
		assert.Empty(t, token)
		mockUserRepo.AssertNotCalled(t, "CreateUser", mock.Anything, mock.Anything, mock.Anything)
		mock.AssertExpectationsForObjects(t, mockUserRepo)
	})

	t.Run("WeakPassword", func(t *testing.T) {
		ctx := context.Background()
		mockUserRepo := new(MockUserRepository)

		service := NewAuthService(new(MockDBExecutor), mockUserRepo, newTestJWTManager())

		user, token, err := service.Register(ctx, "Alice", "alice@example.com", "short")

		assert.ErrorIs(t, err, util.ErrWeakPassword)
		assert.Nil(t, user)
		assert.Empty(t, token)
		mockUserRepo.AssertNotCalled(t, "GetUserByEmail", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("InvalidEmail", func(t *testing.T) {
		ctx := context.Background()
		mockUserRepo := new(MockUserRepository)

		service := NewAuthService(new(MockDBExecutor), mockUserRepo, newTestJWTManager())

		user, token, err := service.Register(ctx, "Alice", "not-an-email", "secretpass")

		assert.ErrorIs(t, err, util.ErrInvalidInput)
		assert.Nil(t, user)
		assert.Empty(t, token)
	})
}

func TestLogin(t *testing.T) {
	hash, _ := auth.HashPassword("secretpass")
	stored := &domain.User{ID: "user-1", Name: "Alice", Email: "alice@example.com", PasswordHash: hash}

	t.Run("SuccessfulLogin", func(t *testing.T) {
		ctx := context.Background()
		mockUserRepo := new(MockUserRepository)
		jwtManager := newTestJWTManager()

		service := NewAuthService(new(MockDBExecutor), mockUserRepo, jwtManager)

		mockUserRepo.On("GetUserByEmail", ctx, mock.Anything, "alice@example.com").Return(stored, nil).Once()

		user, token, err := service.Login(ctx, "alice@example.com", "secretpass")

		assert.NoError(t, err)
		assert.Equal(t, "user-1", user.ID)
		assert.NotEmpty(t, token)

		claims, err := jwtManager.Validate(token)
		assert.NoError(t, err)
		assert.Equal(t, "user-1", claims.UserID)
		mock.AssertExpectationsForObjects(t, mockUserRepo)
	})

	t.Run("WrongPassword", func(t *testing.T) {
		ctx := context.Background()
		mockUserRepo := new(MockUserRepository)

		service := NewAuthService(new(MockDBExecutor), mockUserRepo, newTestJWTManager())

		mockUserRepo.On("GetUserByEmail", ctx, mock.Anything, "alice@example.com").Return(stored, nil).Once()

		user, token, err := service.Login(ctx, "alice@example.com", "wrongpass")

		assert.ErrorIs(t, err, util.ErrInvalidCredentials)
		assert.Nil(t, user)
		assert.Empty(t, token)
		mock.AssertExpectationsForObjects(t, mockUserRepo)
	})

	t.Run("UnknownEmailLooksLikeBadCredentials", func(t *testing.T) {
		ctx := context.Background()
		mockUserRepo := new(MockUserRepository)

		service := NewAuthService(new(MockDBExecutor), mockUserRepo, newTestJWTManager())

		mockUserRepo.On("GetUserByEmail", ctx, mock.Anything, "ghost@example.com").Return(nil, util.ErrUserNotFound).Once()

		user, token, err := service.Login(ctx, "ghost@example.com", "secretpass")

		assert.ErrorIs(t, err, util.ErrInvalidCredentials)
		assert.Nil(t, user)
		assert.Empty(t, token)
		mock.AssertExpectationsForObjects(t, mockUserRepo)
	})
}
