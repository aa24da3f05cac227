package repository

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/stockregister/stock-api/internal/domain"
	"gorm.io/gorm"
)

type DepartmentRepository struct {
	db *gorm.DB
}

func NewDepartmentRepository(db *gorm.DB) *DepartmentRepository {
	return &DepartmentRepository{db: db}
}

func (r *DepartmentRepository) Create(ctx context.Context, department *domain.Department) error {
	return r.db.WithContext(ctx).Create(department).Error
}

func (r *DepartmentRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Department, error) {
	var department domain.Department
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&department).Error
	if err != nil {
		return nil, err
	}
	return &department, nil
}

func (r *DepartmentRepository) GetByName(ctx context.Context, name string) (*domain.Department, error) {
	var department domain.Department
	err := r.db.WithContext(ctx).Where("name = ?", name).First(&department).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &department, nil
}

func (r *DepartmentRepository) Update(ctx context.Context, department *domain.Department) error {
	return r.db.WithContext(ctx).Save(department).Error
}

// Delete removes a department with explicit cascades: member accounts
// are detached, the department's stock is deleted, and complaints filed
// under the department are deleted together with their comments.
func (r *DepartmentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&domain.Account{}).Where("department_id = ?", id).
			Update("department_id", nil).Error; err != nil {
			return err
		}
		if err := tx.Where("department_id = ?", id).Delete(&domain.AvailableStock{}).Error; err != nil {
			return err
		}
		deptComplaints := tx.Model(&domain.Complaint{}).Select("id").Where("department_id = ?", id)
		if err := tx.Where("complaint_id IN (?)", deptComplaints).Delete(&domain.ComplaintComment{}).Error; err != nil {
			return err
		}
		if err := tx.Where("department_id = ?", id).Delete(&domain.Complaint{}).Error; err != nil {
			return err
		}
		return tx.Delete(&domain.Department{}, "id = ?", id).Error
	})
}

func (r *DepartmentRepository) List(ctx context.Context, page, pageSize int, search string) ([]domain.Department, int64, error) {
	var departments []domain.Department
	var total int64

	query := r.db.WithContext(ctx).Model(&domain.Department{})
	if search != "" {
		query = query.Where("LOWER(name) LIKE ?", "%"+strings.ToLower(search)+"%")
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	err := query.
		Offset(offset).Limit(pageSize).
		Order("name ASC").
		Find(&departments).Error

	return departments, total, err
}

// MemberCounts returns the number of accounts per department id
func (r *DepartmentRepository) MemberCounts(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]int64, error) {
	return r.countByDepartment(ctx, &domain.Account{}, ids)
}

// StockCounts returns the number of stock items per department id
func (r *DepartmentRepository) StockCounts(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]int64, error) {
	return r.countByDepartment(ctx, &domain.AvailableStock{}, ids)
}

func (r *DepartmentRepository) countByDepartment(ctx context.Context, model interface{}, ids []uuid.UUID) (map[uuid.UUID]int64, error) {
	type row struct {
		DepartmentID uuid.UUID
		Total        int64
	}
	var rows []row
	err := r.db.WithContext(ctx).Model(model).
		Select("department_id, COUNT(*) AS total").
		Where("department_id IN ?", ids).
		Group("department_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	counts := make(map[uuid.UUID]int64, len(rows))
	for _, r := range rows {
		counts[r.DepartmentID] = r.Total
	}
	return counts, nil
}

// Choices lists the departments an actor may pick in foreign-key
// selectors. Staff only ever see their own department.
func (r *DepartmentRepository) Choices(ctx context.Context) ([]domain.Department, error) {
	var departments []domain.Department
	query := r.db.WithContext(ctx).Model(&domain.Department{})
	query = ApplyDepartmentChoiceScope(ctx, query)
	err := query.Order("name ASC").Find(&departments).Error
	return departments, err
}
