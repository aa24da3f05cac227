package repository

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/stockregister/stock-api/internal/domain"
	"gorm.io/gorm"
)

// StockFilters holds optional list filters for stock items
type StockFilters struct {
	Status       *domain.StockStatus
	DepartmentID *uuid.UUID
	CategoryID   *uuid.UUID
	Search       string
	Sort         SortOrder
}

type StockRepository struct {
	db *gorm.DB
}

func NewStockRepository(db *gorm.DB) *StockRepository {
	return &StockRepository{db: db}
}

func (r *StockRepository) Create(ctx context.Context, stock *domain.AvailableStock) error {
	return r.db.WithContext(ctx).Create(stock).Error
}

// GetByID fetches a stock item visible to the actor. Rows outside the
// actor's scope behave as if they do not exist.
func (r *StockRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.AvailableStock, error) {
	var stock domain.AvailableStock
	query := r.db.WithContext(ctx).
		Preload("Category").
		Preload("Department").
		Where("available_stocks.id = ?", id)
	query = ApplyStockScope(ctx, query)
	if err := query.First(&stock).Error; err != nil {
		return nil, err
	}
	return &stock, nil
}

func (r *StockRepository) GetBySerialNo(ctx context.Context, serialNo string) (*domain.AvailableStock, error) {
	var stock domain.AvailableStock
	err := r.db.WithContext(ctx).Where("serial_no = ?", serialNo).First(&stock).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &stock, nil
}

func (r *StockRepository) GetByItemID(ctx context.Context, itemID string) (*domain.AvailableStock, error) {
	var stock domain.AvailableStock
	err := r.db.WithContext(ctx).Where("item_id = ?", itemID).First(&stock).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &stock, nil
}

func (r *StockRepository) Update(ctx context.Context, stock *domain.AvailableStock) error {
	return r.db.WithContext(ctx).Save(stock).Error
}

func (r *StockRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&domain.AvailableStock{}, "id = ?", id).Error
}

func (r *StockRepository) List(ctx context.Context, page, pageSize int, filters *StockFilters) ([]domain.AvailableStock, int64, error) {
	var stocks []domain.AvailableStock
	var total int64

	query := r.db.WithContext(ctx).Model(&domain.AvailableStock{})
	query = ApplyStockScope(ctx, query)

	if filters != nil {
		if filters.Status != nil {
			query = query.Where("available_stocks.status = ?", *filters.Status)
		}
		if filters.DepartmentID != nil {
			query = query.Where("available_stocks.department_id = ?", *filters.DepartmentID)
		}
		if filters.CategoryID != nil {
			query = query.Where("available_stocks.category_id = ?", *filters.CategoryID)
		}
		if filters.Search != "" {
			pattern := "%" + strings.ToLower(filters.Search) + "%"
			query = query.Where(
				"LOWER(available_stocks.item_name) LIKE ? OR LOWER(available_stocks.item_id) LIKE ? OR LOWER(available_stocks.serial_no) LIKE ? OR LOWER(available_stocks.location) LIKE ?",
				pattern, pattern, pattern, pattern,
			)
		}
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	order := "available_stocks.created_at DESC"
	if filters != nil && filters.Sort == SortOrderAsc {
		order = "available_stocks.created_at ASC"
	}

	offset := (page - 1) * pageSize
	err := query.
		Preload("Category").
		Preload("Department").
		Offset(offset).Limit(pageSize).
		Order(order).
		Find(&stocks).Error

	return stocks, total, err
}

// BulkUpdateFields applies a column update to every stock item in the id
// set that is visible to the actor. Runs as a direct mass update with no
// save hooks, so per-row validation does not fire.
func (r *StockRepository) BulkUpdateFields(ctx context.Context, ids []uuid.UUID, fields map[string]interface{}) (int64, error) {
	query := r.db.WithContext(ctx).
		Model(&domain.AvailableStock{}).
		Where("available_stocks.id IN ?", ids)
	query = ApplyStockScope(ctx, query)
	result := query.Updates(fields)
	return result.RowsAffected, result.Error
}
