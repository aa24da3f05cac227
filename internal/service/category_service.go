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

// CategoryService handles category management. Writes are admin-only;
// every authenticated actor may read the full category list.
type CategoryService struct {
	categories *repository.CategoryRepository
	logger     *zap.Logger
}

func NewCategoryService(categories *repository.CategoryRepository, logger *zap.Logger) *CategoryService {
	return &CategoryService{
		categories: categories,
		logger:     logger,
	}
}

func (s *CategoryService) Create(ctx context.Context, req *domain.CreateCategoryRequest) (*domain.CategoryDTO, error) {
	actor := auth.MustFromContext(ctx)
	if !actor.IsAdmin() {
		return nil, ErrPermissionDenied
	}

	existing, err := s.categories.GetByName(ctx, req.Name)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrConflict
	}

	category := &domain.Category{Name: req.Name}
	if err := s.categories.Create(ctx, category); err != nil {
		s.logger.Error("failed to create category", zap.Error(err))
		return nil, err
	}

	s.logger.Info("category created",
		zap.String("category_id", category.ID.String()),
		zap.String("name", category.Name),
	)

	dto := mapper.ToCategoryDTO(category)
	return &dto, nil
}

func (s *CategoryService) GetByID(ctx context.Context, id uuid.UUID) (*domain.CategoryDTO, error) {
	category, err := s.categories.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	dto := mapper.ToCategoryDTO(category)
	return &dto, nil
}

func (s *CategoryService) List(ctx context.Context, page, pageSize int, search string) (*domain.PaginatedResponse, error) {
	page, pageSize = normalizePagination(page, pageSize)

	categories, total, err := s.categories.List(ctx, page, pageSize, search)
	if err != nil {
		return nil, err
	}

	dtos := make([]domain.CategoryDTO, len(categories))
	for i, c := range categories {
		dtos[i] = mapper.ToCategoryDTO(&c)
	}

	return paginated(dtos, total, page, pageSize), nil
}

func (s *CategoryService) Update(ctx context.Context, id uuid.UUID, req *domain.UpdateCategoryRequest) (*domain.CategoryDTO, error) {
	actor := auth.MustFromContext(ctx)
	if !actor.IsAdmin() {
		return nil, ErrPermissionDenied
	}

	category, err := s.categories.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	if req.Name != category.Name {
		existing, err := s.categories.GetByName(ctx, req.Name)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			return nil, ErrConflict
		}
	}

	category.Name = req.Name
	if err := s.categories.Update(ctx, category); err != nil {
		s.logger.Error("failed to update category", zap.Error(err))
		return nil, err
	}

	dto := mapper.ToCategoryDTO(category)
	return &dto, nil
}

func (s *CategoryService) Delete(ctx context.Context, id uuid.UUID) error {
	actor := auth.MustFromContext(ctx)
	if !actor.IsAdmin() {
		return ErrPermissionDenied
	}

	if _, err := s.categories.GetByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}

	if err := s.categories.Delete(ctx, id); err != nil {
		s.logger.Error("failed to delete category", zap.Error(err))
		return err
	}

	s.logger.Info("category deleted", zap.String("category_id", id.String()))
	return nil
}
