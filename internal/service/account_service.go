package service

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/stockregister/stock-api/internal/auth"
	"github.com/stockregister/stock-api/internal/domain"
	"github.com/stockregister/stock-api/internal/mapper"
	"github.com/stockregister/stock-api/internal/repository"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// AccountService handles account management. The whole surface is
// admin-only: staff never manage accounts.
type AccountService struct {
	accounts *repository.AccountRepository
	users    *repository.UserRepository
	logger   *zap.Logger
}

func NewAccountService(accounts *repository.AccountRepository, users *repository.UserRepository, logger *zap.Logger) *AccountService {
	return &AccountService{
		accounts: accounts,
		users:    users,
		logger:   logger,
	}
}

// Create provisions a user identity and its linked account in one step
func (s *AccountService) Create(ctx context.Context, req *domain.CreateAccountRequest) (*domain.AccountDTO, error) {
	actor := auth.MustFromContext(ctx)
	if !actor.IsAdmin() {
		return nil, ErrPermissionDenied
	}

	existing, err := s.users.GetByUsername(ctx, req.Username)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrConflict
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		s.logger.Error("password hashing failed", zap.Error(err))
		return nil, err
	}

	role := req.Role
	if role == "" {
		role = domain.RoleStaff
	}
	if !role.IsValid() {
		return nil, ErrInvalidInput
	}

	isActive := true
	if req.IsActive != nil {
		isActive = *req.IsActive
	}

	user := &domain.User{
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: hash,
		IsActive:     isActive,
	}
	account := &domain.Account{
		DepartmentID: req.DepartmentID,
		Role:         role,
		IsActive:     isActive,
	}

	if err := s.accounts.CreateWithUser(ctx, user, account); err != nil {
		s.logger.Error("failed to create account", zap.Error(err))
		return nil, err
	}

	s.logger.Info("account created",
		zap.String("account_id", account.ID.String()),
		zap.String("username", user.Username),
		zap.String("role", string(account.Role)),
	)

	return s.GetByID(ctx, account.ID)
}

func (s *AccountService) GetByID(ctx context.Context, id uuid.UUID) (*domain.AccountDTO, error) {
	actor := auth.MustFromContext(ctx)
	if !actor.IsAdmin() {
		return nil, ErrPermissionDenied
	}

	account, err := s.accounts.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	dto := mapper.ToAccountDTO(account)
	return &dto, nil
}

func (s *AccountService) List(ctx context.Context, page, pageSize int, filters *repository.AccountFilters) (*domain.PaginatedResponse, error) {
	actor := auth.MustFromContext(ctx)
	if !actor.IsAdmin() {
		return nil, ErrPermissionDenied
	}

	page, pageSize = normalizePagination(page, pageSize)

	accounts, total, err := s.accounts.List(ctx, page, pageSize, filters)
	if err != nil {
		return nil, err
	}

	dtos := make([]domain.AccountDTO, len(accounts))
	for i, a := range accounts {
		dtos[i] = mapper.ToAccountDTO(&a)
	}

	return paginated(dtos, total, page, pageSize), nil
}

func (s *AccountService) Update(ctx context.Context, id uuid.UUID, req *domain.UpdateAccountRequest) (*domain.AccountDTO, error) {
	actor := auth.MustFromContext(ctx)
	if !actor.IsAdmin() {
		return nil, ErrPermissionDenied
	}

	account, err := s.accounts.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	if !req.Role.IsValid() {
		return nil, ErrInvalidInput
	}

	account.DepartmentID = req.DepartmentID
	account.Role = req.Role
	account.IsActive = req.IsActive

	if err := s.accounts.Update(ctx, account); err != nil {
		s.logger.Error("failed to update account", zap.Error(err))
		return nil, err
	}

	return s.GetByID(ctx, id)
}

func (s *AccountService) Delete(ctx context.Context, id uuid.UUID) error {
	actor := auth.MustFromContext(ctx)
	if !actor.IsAdmin() {
		return ErrPermissionDenied
	}

	if _, err := s.accounts.GetByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}

	if err := s.accounts.Delete(ctx, id); err != nil {
		s.logger.Error("failed to delete account", zap.Error(err))
		return err
	}

	s.logger.Info("account deleted", zap.String("account_id", id.String()))
	return nil
}

// BulkSetRole flips the role on a set of accounts in one mass update
func (s *AccountService) BulkSetRole(ctx context.Context, ids []uuid.UUID, role domain.Role) (int64, error) {
	actor := auth.MustFromContext(ctx)
	if !actor.IsAdmin() {
		return 0, ErrPermissionDenied
	}
	if !role.IsValid() {
		return 0, ErrInvalidInput
	}

	updated, err := s.accounts.BulkUpdateFields(ctx, ids, map[string]interface{}{"role": role})
	if err != nil {
		s.logger.Error("bulk role update failed", zap.Error(err))
		return 0, err
	}

	s.logger.Info("bulk role update",
		zap.Int("requested", len(ids)),
		zap.Int64("updated", updated),
		zap.String("role", string(role)),
	)
	return updated, nil
}

// BulkSetActive toggles the active flag on a set of accounts
func (s *AccountService) BulkSetActive(ctx context.Context, ids []uuid.UUID, active bool) (int64, error) {
	actor := auth.MustFromContext(ctx)
	if !actor.IsAdmin() {
		return 0, ErrPermissionDenied
	}

	updated, err := s.accounts.BulkUpdateFields(ctx, ids, map[string]interface{}{"is_active": active})
	if err != nil {
		s.logger.Error("bulk active update failed", zap.Error(err))
		return 0, err
	}

	s.logger.Info("bulk active update",
		zap.Int("requested", len(ids)),
		zap.Int64("updated", updated),
		zap.Bool("active", active),
	)
	return updated, nil
}
