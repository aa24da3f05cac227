package repository

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/stockregister/stock-api/internal/domain"
	"gorm.io/gorm"
)

// ComplaintFilters holds optional list filters for complaints
type ComplaintFilters struct {
	Status       *domain.ComplaintStatus
	Priority     *domain.ComplaintPriority
	DepartmentID *uuid.UUID
	Search       string
	Sort         SortOrder
}

type ComplaintRepository struct {
	db *gorm.DB
}

func NewComplaintRepository(db *gorm.DB) *ComplaintRepository {
	return &ComplaintRepository{db: db}
}

func (r *ComplaintRepository) Create(ctx context.Context, complaint *domain.Complaint) error {
	return r.db.WithContext(ctx).Create(complaint).Error
}

// GetByID fetches a complaint visible to the actor. Rows outside the
// actor's scope behave as if they do not exist.
func (r *ComplaintRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Complaint, error) {
	var complaint domain.Complaint
	query := r.db.WithContext(ctx).
		Preload("SubmittedBy.User").
		Preload("AssignedTo.User").
		Preload("Department").
		Where("complaints.id = ?", id)
	query = ApplyComplaintScope(ctx, query)
	if err := query.First(&complaint).Error; err != nil {
		return nil, err
	}
	return &complaint, nil
}

func (r *ComplaintRepository) Update(ctx context.Context, complaint *domain.Complaint) error {
	return r.db.WithContext(ctx).Save(complaint).Error
}

// Delete removes a complaint together with its comment thread
func (r *ComplaintRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("complaint_id = ?", id).Delete(&domain.ComplaintComment{}).Error; err != nil {
			return err
		}
		return tx.Delete(&domain.Complaint{}, "id = ?", id).Error
	})
}

func (r *ComplaintRepository) List(ctx context.Context, page, pageSize int, filters *ComplaintFilters) ([]domain.Complaint, int64, error) {
	var complaints []domain.Complaint
	var total int64

	query := r.db.WithContext(ctx).Model(&domain.Complaint{})
	query = ApplyComplaintScope(ctx, query)

	if filters != nil {
		if filters.Status != nil {
			query = query.Where("complaints.status = ?", *filters.Status)
		}
		if filters.Priority != nil {
			query = query.Where("complaints.priority = ?", *filters.Priority)
		}
		if filters.DepartmentID != nil {
			query = query.Where("complaints.department_id = ?", *filters.DepartmentID)
		}
		if filters.Search != "" {
			pattern := "%" + strings.ToLower(filters.Search) + "%"
			query = query.Where(
				"LOWER(complaints.title) LIKE ? OR LOWER(complaints.description) LIKE ?",
				pattern, pattern,
			)
		}
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	order := "complaints.created_at DESC"
	if filters != nil && filters.Sort == SortOrderAsc {
		order = "complaints.created_at ASC"
	}

	offset := (page - 1) * pageSize
	err := query.
		Preload("SubmittedBy.User").
		Preload("AssignedTo.User").
		Preload("Department").
		Offset(offset).Limit(pageSize).
		Order(order).
		Find(&complaints).Error

	return complaints, total, err
}

// CommentCounts returns the number of comments per complaint id
func (r *ComplaintRepository) CommentCounts(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]int64, error) {
	type row struct {
		ComplaintID uuid.UUID
		Total       int64
	}
	var rows []row
	err := r.db.WithContext(ctx).Model(&domain.ComplaintComment{}).
		Select("complaint_id, COUNT(*) AS total").
		Where("complaint_id IN ?", ids).
		Group("complaint_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	counts := make(map[uuid.UUID]int64, len(rows))
	for _, r := range rows {
		counts[r.ComplaintID] = r.Total
	}
	return counts, nil
}

// BulkUpdateFields applies a column update to every complaint in the id
// set that is visible to the actor. Runs as a direct mass update with no
// save hooks, so per-row validation does not fire.
func (r *ComplaintRepository) BulkUpdateFields(ctx context.Context, ids []uuid.UUID, fields map[string]interface{}) (int64, error) {
	query := r.db.WithContext(ctx).
		Model(&domain.Complaint{}).
		Where("complaints.id IN ?", ids)
	query = ApplyComplaintScope(ctx, query)
	result := query.Updates(fields)
	return result.RowsAffected, result.Error
}

func (r *ComplaintRepository) CreateComment(ctx context.Context, comment *domain.ComplaintComment) error {
	return r.db.WithContext(ctx).Create(comment).Error
}

func (r *ComplaintRepository) GetCommentByID(ctx context.Context, id uuid.UUID) (*domain.ComplaintComment, error) {
	var comment domain.ComplaintComment
	err := r.db.WithContext(ctx).
		Preload("Author.User").
		Where("id = ?", id).
		First(&comment).Error
	if err != nil {
		return nil, err
	}
	return &comment, nil
}

func (r *ComplaintRepository) ListComments(ctx context.Context, complaintID uuid.UUID) ([]domain.ComplaintComment, error) {
	var comments []domain.ComplaintComment
	err := r.db.WithContext(ctx).
		Preload("Author.User").
		Where("complaint_id = ?", complaintID).
		Order("created_at ASC").
		Find(&comments).Error
	return comments, err
}

func (r *ComplaintRepository) DeleteComment(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&domain.ComplaintComment{}, "id = ?", id).Error
}
