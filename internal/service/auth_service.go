package service

import (
	"context"
	"time"

	"github.com/stockregister/stock-api/internal/auth"
	"github.com/stockregister/stock-api/internal/domain"
	"github.com/stockregister/stock-api/internal/repository"
	"go.uber.org/zap"
)

// AuthService handles password login and identity lookups
type AuthService struct {
	users  *repository.UserRepository
	tokens *auth.TokenManager
	logger *zap.Logger
}

func NewAuthService(users *repository.UserRepository, tokens *auth.TokenManager, logger *zap.Logger) *AuthService {
	return &AuthService{
		users:  users,
		tokens: tokens,
		logger: logger,
	}
}

// Login verifies credentials and issues a bearer token. Unknown users
// and bad passwords produce the same error so usernames can't be probed.
func (s *AuthService) Login(ctx context.Context, req *domain.LoginRequest) (*domain.LoginResponse, error) {
	user, err := s.users.GetByUsername(ctx, req.Username)
	if err != nil {
		s.logger.Error("user lookup failed", zap.Error(err))
		return nil, err
	}
	if user == nil || !user.IsActive || !auth.CheckPassword(user.PasswordHash, req.Password) {
		s.logger.Warn("login rejected", zap.String("username", req.Username))
		return nil, ErrUnauthorized
	}

	token, err := s.tokens.IssueToken(user.ID, user.Username, user.IsSuperuser)
	if err != nil {
		s.logger.Error("token issue failed", zap.Error(err))
		return nil, err
	}

	if err := s.users.TouchLastLogin(ctx, user.ID, time.Now().UTC()); err != nil {
		s.logger.Warn("failed to stamp last login", zap.Error(err))
	}

	s.logger.Info("login succeeded",
		zap.String("user_id", user.ID.String()),
		zap.String("username", user.Username),
	)

	return &domain.LoginResponse{
		Token: token,
		User: domain.UserDTO{
			ID:          user.ID,
			Username:    user.Username,
			Email:       user.Email,
			IsSuperuser: user.IsSuperuser,
			IsActive:    user.IsActive,
		},
	}, nil
}
