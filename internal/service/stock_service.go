package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/stockregister/stock-api/internal/auth"
	"github.com/stockregister/stock-api/internal/domain"
	"github.com/stockregister/stock-api/internal/mapper"
	"github.com/stockregister/stock-api/internal/repository"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// StockService handles the inventory register. Reads are scoped at the
// repository level; single-row writes go through validation and
// normalization, bulk actions deliberately do not.
type StockService struct {
	stocks      *repository.StockRepository
	categories  *repository.CategoryRepository
	departments *repository.DepartmentRepository
	logger      *zap.Logger
}

func NewStockService(
	stocks *repository.StockRepository,
	categories *repository.CategoryRepository,
	departments *repository.DepartmentRepository,
	logger *zap.Logger,
) *StockService {
	return &StockService{
		stocks:      stocks,
		categories:  categories,
		departments: departments,
		logger:      logger,
	}
}

func (s *StockService) Create(ctx context.Context, req *domain.CreateStockRequest) (*domain.StockDTO, error) {
	actor := auth.MustFromContext(ctx)

	// Staff can only file stock into their own department; the picker
	// never offers anything else, so a mismatch is a forged request.
	if !actor.IsAdmin() {
		dept := actor.DepartmentID()
		if dept == nil || *dept != req.DepartmentID {
			return nil, ErrPermissionDenied
		}
	}

	if _, err := s.categories.GetByID(ctx, req.CategoryID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidInput
		}
		return nil, err
	}
	if _, err := s.departments.GetByID(ctx, req.DepartmentID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidInput
		}
		return nil, err
	}

	if existing, err := s.stocks.GetByItemID(ctx, req.ItemID); err != nil {
		return nil, err
	} else if existing != nil {
		return nil, ErrConflict
	}
	if existing, err := s.stocks.GetBySerialNo(ctx, req.SerialNo); err != nil {
		return nil, err
	} else if existing != nil {
		return nil, ErrConflict
	}

	status := req.Status
	if status == "" {
		status = domain.StockStatusAvailable
	}

	stock := &domain.AvailableStock{
		ItemID:       req.ItemID,
		ItemName:     req.ItemName,
		CategoryID:   req.CategoryID,
		SerialNo:     req.SerialNo,
		DepartmentID: req.DepartmentID,
		Status:       status,
		Location:     req.Location,
		Date:         time.Now().UTC(),
		Description:  req.Description,
	}

	stock.Normalize()
	if err := stock.Validate(); err != nil {
		return nil, err
	}

	if err := s.stocks.Create(ctx, stock); err != nil {
		s.logger.Error("failed to create stock item", zap.Error(err))
		return nil, err
	}

	s.logger.Info("stock item created",
		zap.String("stock_id", stock.ID.String()),
		zap.String("item_id", stock.ItemID),
		zap.String("department_id", stock.DepartmentID.String()),
	)

	return s.GetByID(ctx, stock.ID)
}

func (s *StockService) GetByID(ctx context.Context, id uuid.UUID) (*domain.StockDTO, error) {
	stock, err := s.stocks.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	dto := mapper.ToStockDTO(stock)
	return &dto, nil
}

func (s *StockService) List(ctx context.Context, page, pageSize int, filters *repository.StockFilters) (*domain.PaginatedResponse, error) {
	page, pageSize = normalizePagination(page, pageSize)

	stocks, total, err := s.stocks.List(ctx, page, pageSize, filters)
	if err != nil {
		return nil, err
	}

	dtos := make([]domain.StockDTO, len(stocks))
	for i, st := range stocks {
		dtos[i] = mapper.ToStockDTO(&st)
	}

	return paginated(dtos, total, page, pageSize), nil
}

func (s *StockService) Update(ctx context.Context, id uuid.UUID, req *domain.UpdateStockRequest) (*domain.StockDTO, error) {
	actor := auth.MustFromContext(ctx)

	stock, err := s.stocks.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	if !actor.CanEditStock(stock) {
		return nil, ErrPermissionDenied
	}

	// Moving stock to another department still has to land somewhere the
	// actor controls.
	if !actor.IsAdmin() && req.DepartmentID != stock.DepartmentID {
		dept := actor.DepartmentID()
		if dept == nil || *dept != req.DepartmentID {
			return nil, ErrPermissionDenied
		}
	}

	if req.SerialNo != stock.SerialNo {
		if existing, err := s.stocks.GetBySerialNo(ctx, req.SerialNo); err != nil {
			return nil, err
		} else if existing != nil {
			return nil, ErrConflict
		}
	}

	if _, err := s.categories.GetByID(ctx, req.CategoryID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidInput
		}
		return nil, err
	}

	stock.ItemName = req.ItemName
	stock.CategoryID = req.CategoryID
	stock.SerialNo = req.SerialNo
	stock.DepartmentID = req.DepartmentID
	stock.Status = req.Status
	stock.Location = req.Location
	stock.AssignedTo = req.AssignedTo
	stock.Description = req.Description

	stock.Normalize()
	if err := stock.Validate(); err != nil {
		return nil, err
	}

	if err := s.stocks.Update(ctx, stock); err != nil {
		s.logger.Error("failed to update stock item", zap.Error(err))
		return nil, err
	}

	return s.GetByID(ctx, id)
}

func (s *StockService) Delete(ctx context.Context, id uuid.UUID) error {
	actor := auth.MustFromContext(ctx)

	stock, err := s.stocks.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}

	if !actor.CanEditStock(stock) {
		return ErrPermissionDenied
	}

	if err := s.stocks.Delete(ctx, id); err != nil {
		s.logger.Error("failed to delete stock item", zap.Error(err))
		return err
	}

	s.logger.Info("stock item deleted", zap.String("stock_id", id.String()))
	return nil
}

// BulkMarkStatus flips the status on a set of stock items and clears any
// assignee. Mass update, no per-row validation; scoping still limits
// which ids resolve.
func (s *StockService) BulkMarkStatus(ctx context.Context, ids []uuid.UUID, status domain.StockStatus) (int64, error) {
	actor := auth.MustFromContext(ctx)
	if !actor.IsAdmin() {
		return 0, ErrPermissionDenied
	}
	if !status.IsValid() {
		return 0, ErrInvalidInput
	}

	updated, err := s.stocks.BulkUpdateFields(ctx, ids, map[string]interface{}{
		"status":      status,
		"assigned_to": nil,
	})
	if err != nil {
		s.logger.Error("bulk status update failed", zap.Error(err))
		return 0, err
	}

	s.logger.Info("bulk stock status update",
		zap.Int("requested", len(ids)),
		zap.Int64("updated", updated),
		zap.String("status", string(status)),
	)
	return updated, nil
}
