package repository

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/stockregister/stock-api/internal/domain"
	"gorm.io/gorm"
)

// AccountFilters holds optional list filters for accounts
type AccountFilters struct {
	Role         *domain.Role
	DepartmentID *uuid.UUID
	IsActive     *bool
	Search       string
}

type AccountRepository struct {
	db *gorm.DB
}

func NewAccountRepository(db *gorm.DB) *AccountRepository {
	return &AccountRepository{db: db}
}

func (r *AccountRepository) Create(ctx context.Context, account *domain.Account) error {
	return r.db.WithContext(ctx).Create(account).Error
}

// CreateWithUser creates the user identity and its account in one transaction
func (r *AccountRepository) CreateWithUser(ctx context.Context, user *domain.User, account *domain.Account) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(user).Error; err != nil {
			return err
		}
		account.UserID = user.ID
		return tx.Create(account).Error
	})
}

func (r *AccountRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Account, error) {
	var account domain.Account
	err := r.db.WithContext(ctx).
		Preload("User").
		Preload("Department").
		Where("id = ?", id).
		First(&account).Error
	if err != nil {
		return nil, err
	}
	return &account, nil
}

func (r *AccountRepository) GetAccountByUserID(ctx context.Context, userID uuid.UUID) (*domain.Account, error) {
	var account domain.Account
	err := r.db.WithContext(ctx).
		Preload("Department").
		Where("user_id = ?", userID).
		First(&account).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &account, nil
}

func (r *AccountRepository) Update(ctx context.Context, account *domain.Account) error {
	return r.db.WithContext(ctx).Save(account).Error
}

// Delete removes an account and everything hanging off it. The cascade
// rules are executed explicitly: complaints the account submitted go
// away (with their comments), complaints assigned to it are unassigned,
// and comments it authored elsewhere are removed.
func (r *AccountRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		submitted := tx.Model(&domain.Complaint{}).Select("id").Where("submitted_by_id = ?", id)
		if err := tx.Where("complaint_id IN (?)", submitted).Delete(&domain.ComplaintComment{}).Error; err != nil {
			return err
		}
		if err := tx.Where("submitted_by_id = ?", id).Delete(&domain.Complaint{}).Error; err != nil {
			return err
		}
		if err := tx.Model(&domain.Complaint{}).Where("assigned_to_id = ?", id).
			Update("assigned_to_id", nil).Error; err != nil {
			return err
		}
		if err := tx.Where("author_id = ?", id).Delete(&domain.ComplaintComment{}).Error; err != nil {
			return err
		}
		return tx.Delete(&domain.Account{}, "id = ?", id).Error
	})
}

func (r *AccountRepository) List(ctx context.Context, page, pageSize int, filters *AccountFilters) ([]domain.Account, int64, error) {
	var accounts []domain.Account
	var total int64

	query := r.db.WithContext(ctx).Model(&domain.Account{}).
		Joins("JOIN users ON users.id = accounts.user_id").
		Joins("LEFT JOIN departments ON departments.id = accounts.department_id")

	if filters != nil {
		if filters.Role != nil {
			query = query.Where("accounts.role = ?", *filters.Role)
		}
		if filters.DepartmentID != nil {
			query = query.Where("accounts.department_id = ?", *filters.DepartmentID)
		}
		if filters.IsActive != nil {
			query = query.Where("accounts.is_active = ?", *filters.IsActive)
		}
		if filters.Search != "" {
			pattern := "%" + strings.ToLower(filters.Search) + "%"
			query = query.Where(
				"LOWER(users.username) LIKE ? OR LOWER(departments.name) LIKE ? OR LOWER(accounts.role) LIKE ?",
				pattern, pattern, pattern,
			)
		}
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	err := query.
		Preload("User").
		Preload("Department").
		Offset(offset).Limit(pageSize).
		Order("accounts.created_at DESC").
		Find(&accounts).Error

	return accounts, total, err
}

// BulkUpdateFields applies a column update to all accounts in the id set.
// Runs as a direct mass update, no save hooks.
func (r *AccountRepository) BulkUpdateFields(ctx context.Context, ids []uuid.UUID, fields map[string]interface{}) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&domain.Account{}).
		Where("id IN ?", ids).
		Updates(fields)
	return result.RowsAffected, result.Error
}
