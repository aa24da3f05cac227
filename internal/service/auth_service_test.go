package service_test

import (
	"context"
	"testing"

	"github.com/stockregister/stock-api/internal/auth"
	"github.com/stockregister/stock-api/internal/config"
	"github.com/stockregister/stock-api/internal/domain"
	"github.com/stockregister/stock-api/internal/repository"
	"github.com/stockregister/stock-api/internal/service"
	"github.com/stockregister/stock-api/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func newAuthService(t *testing.T, db *gorm.DB) *service.AuthService {
	t.Helper()
	tokens := auth.NewTokenManager(&config.AuthConfig{
		JWTSecret:       "test-secret",
		TokenTTLMinutes: 60,
	})
	return service.NewAuthService(repository.NewUserRepository(db), tokens, zap.NewNop())
}

func createLoginUser(t *testing.T, db *gorm.DB, username, password string, active bool) *domain.User {
	t.Helper()
	hash, err := auth.HashPassword(password)
	require.NoError(t, err)
	user := &domain.User{
		Username:     username,
		Email:        username + "@example.com",
		PasswordHash: hash,
		IsActive:     active,
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

func TestAuthService_Login(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := newAuthService(t, db)
	ctx := context.Background()

	createLoginUser(t, db, "alice", "s3cret-password", true)
	createLoginUser(t, db, "disabled", "s3cret-password", false)

	t.Run("valid credentials issue a token", func(t *testing.T) {
		resp, err := svc.Login(ctx, &domain.LoginRequest{Username: "alice", Password: "s3cret-password"})
		require.NoError(t, err)
		assert.NotEmpty(t, resp.Token)
		assert.Equal(t, "alice", resp.User.Username)

		var user domain.User
		require.NoError(t, db.First(&user, "username = ?", "alice").Error)
		assert.NotNil(t, user.LastLoginAt, "successful login stamps last_login_at")
	})

	t.Run("wrong password rejected", func(t *testing.T) {
		_, err := svc.Login(ctx, &domain.LoginRequest{Username: "alice", Password: "wrong"})
		assert.ErrorIs(t, err, service.ErrUnauthorized)
	})

	t.Run("unknown user gets the same error", func(t *testing.T) {
		_, err := svc.Login(ctx, &domain.LoginRequest{Username: "nobody", Password: "s3cret-password"})
		assert.ErrorIs(t, err, service.ErrUnauthorized)
	})

	t.Run("inactive user rejected", func(t *testing.T) {
		_, err := svc.Login(ctx, &domain.LoginRequest{Username: "disabled", Password: "s3cret-password"})
		assert.ErrorIs(t, err, service.ErrUnauthorized)
	})
}
