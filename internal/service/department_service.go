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

// DepartmentService handles department management. Create, update and
// delete are admin-only; choices are scoped to what the actor may pick.
type DepartmentService struct {
	departments *repository.DepartmentRepository
	logger      *zap.Logger
}

func NewDepartmentService(departments *repository.DepartmentRepository, logger *zap.Logger) *DepartmentService {
	return &DepartmentService{
		departments: departments,
		logger:      logger,
	}
}

func (s *DepartmentService) Create(ctx context.Context, req *domain.CreateDepartmentRequest) (*domain.DepartmentDTO, error) {
	actor := auth.MustFromContext(ctx)
	if !actor.IsAdmin() {
		return nil, ErrPermissionDenied
	}

	existing, err := s.departments.GetByName(ctx, req.Name)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrConflict
	}

	department := &domain.Department{Name: req.Name}
	if err := s.departments.Create(ctx, department); err != nil {
		s.logger.Error("failed to create department", zap.Error(err))
		return nil, err
	}

	s.logger.Info("department created",
		zap.String("department_id", department.ID.String()),
		zap.String("name", department.Name),
	)

	dto := mapper.ToDepartmentDTO(department, 0, 0)
	return &dto, nil
}

func (s *DepartmentService) GetByID(ctx context.Context, id uuid.UUID) (*domain.DepartmentDTO, error) {
	department, err := s.departments.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return s.withCounts(ctx, department)
}

func (s *DepartmentService) List(ctx context.Context, page, pageSize int, search string) (*domain.PaginatedResponse, error) {
	page, pageSize = normalizePagination(page, pageSize)

	departments, total, err := s.departments.List(ctx, page, pageSize, search)
	if err != nil {
		return nil, err
	}

	ids := make([]uuid.UUID, len(departments))
	for i, d := range departments {
		ids[i] = d.ID
	}
	memberCounts, err := s.departments.MemberCounts(ctx, ids)
	if err != nil {
		return nil, err
	}
	stockCounts, err := s.departments.StockCounts(ctx, ids)
	if err != nil {
		return nil, err
	}

	dtos := make([]domain.DepartmentDTO, len(departments))
	for i, d := range departments {
		dtos[i] = mapper.ToDepartmentDTO(&d, memberCounts[d.ID], stockCounts[d.ID])
	}

	return paginated(dtos, total, page, pageSize), nil
}

// Choices lists the departments the actor may pick in foreign-key
// selectors. Staff only see their own department.
func (s *DepartmentService) Choices(ctx context.Context) ([]domain.DepartmentChoiceDTO, error) {
	departments, err := s.departments.Choices(ctx)
	if err != nil {
		return nil, err
	}
	choices := make([]domain.DepartmentChoiceDTO, len(departments))
	for i, d := range departments {
		choices[i] = mapper.ToDepartmentChoiceDTO(&d)
	}
	return choices, nil
}

func (s *DepartmentService) Update(ctx context.Context, id uuid.UUID, req *domain.UpdateDepartmentRequest) (*domain.DepartmentDTO, error) {
	actor := auth.MustFromContext(ctx)
	if !actor.IsAdmin() {
		return nil, ErrPermissionDenied
	}

	department, err := s.departments.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	if req.Name != department.Name {
		existing, err := s.departments.GetByName(ctx, req.Name)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			return nil, ErrConflict
		}
	}

	department.Name = req.Name
	if err := s.departments.Update(ctx, department); err != nil {
		s.logger.Error("failed to update department", zap.Error(err))
		return nil, err
	}

	return s.withCounts(ctx, department)
}

func (s *DepartmentService) Delete(ctx context.Context, id uuid.UUID) error {
	actor := auth.MustFromContext(ctx)
	if !actor.IsAdmin() {
		return ErrPermissionDenied
	}

	if _, err := s.departments.GetByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}

	if err := s.departments.Delete(ctx, id); err != nil {
		s.logger.Error("failed to delete department", zap.Error(err))
		return err
	}

	s.logger.Info("department deleted", zap.String("department_id", id.String()))
	return nil
}

func (s *DepartmentService) withCounts(ctx context.Context, department *domain.Department) (*domain.DepartmentDTO, error) {
	ids := []uuid.UUID{department.ID}
	memberCounts, err := s.departments.MemberCounts(ctx, ids)
	if err != nil {
		return nil, err
	}
	stockCounts, err := s.departments.StockCounts(ctx, ids)
	if err != nil {
		return nil, err
	}
	dto := mapper.ToDepartmentDTO(department, memberCounts[department.ID], stockCounts[department.ID])
	return &dto, nil
}
