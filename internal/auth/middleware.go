package auth

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/stockregister/stock-api/internal/domain"
	"go.uber.org/zap"
)

// IdentityStore resolves authenticated identities and their linked
// accounts. Satisfied by the user and account repositories.
type IdentityStore interface {
	GetUserByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
	GetAccountByUserID(ctx context.Context, userID uuid.UUID) (*domain.Account, error)
}

// Middleware handles authentication for HTTP requests
type Middleware struct {
	tokens *TokenManager
	store  IdentityStore
	logger *zap.Logger
}

// NewMiddleware creates a new authentication middleware
func NewMiddleware(tokens *TokenManager, store IdentityStore, logger *zap.Logger) *Middleware {
	return &Middleware{
		tokens: tokens,
		store:  store,
		logger: logger,
	}
}

// Authenticate validates the bearer token and resolves the actor,
// including the linked account used by all scoping decisions. A user
// without an account row still authenticates but carries no account.
func (m *Middleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			http.Error(w, "Unauthorized: missing authorization header", http.StatusUnauthorized)
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			http.Error(w, "Unauthorized: invalid authorization header format", http.StatusUnauthorized)
			return
		}

		claims, err := m.tokens.ValidateToken(parts[1])
		if err != nil {
			m.logger.Warn("token validation failed",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.String("remote_addr", r.RemoteAddr),
				zap.Error(err),
			)
			http.Error(w, "Unauthorized: "+err.Error(), http.StatusUnauthorized)
			return
		}

		user, err := m.store.GetUserByID(r.Context(), claims.UserID())
		if err != nil || user == nil || !user.IsActive {
			http.Error(w, "Unauthorized: unknown or inactive user", http.StatusUnauthorized)
			return
		}

		// A missing or inactive account is not an error: the actor simply
		// carries no account and every scope fails closed.
		actor := &Actor{
			UserID:      user.ID,
			Username:    user.Username,
			IsSuperuser: user.IsSuperuser,
		}
		if account, err := m.store.GetAccountByUserID(r.Context(), user.ID); err == nil && account != nil && account.IsActive {
			actor.Account = account
		}

		m.logger.Info("request authenticated",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.String("user_id", actor.UserID.String()),
			zap.String("username", actor.Username),
			zap.Bool("has_account", actor.HasAccount()),
			zap.Duration("auth_duration", time.Since(start)),
		)

		next.ServeHTTP(w, r.WithContext(WithActor(r.Context(), actor)))
	})
}
