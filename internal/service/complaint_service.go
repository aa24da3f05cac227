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

// ComplaintService handles complaint tracking. The submitter is stamped
// from the acting account at creation and never changes afterwards.
type ComplaintService struct {
	complaints  *repository.ComplaintRepository
	departments *repository.DepartmentRepository
	logger      *zap.Logger
}

func NewComplaintService(
	complaints *repository.ComplaintRepository,
	departments *repository.DepartmentRepository,
	logger *zap.Logger,
) *ComplaintService {
	return &ComplaintService{
		complaints:  complaints,
		departments: departments,
		logger:      logger,
	}
}

func (s *ComplaintService) Create(ctx context.Context, req *domain.CreateComplaintRequest) (*domain.ComplaintDTO, error) {
	actor := auth.MustFromContext(ctx)
	if !actor.HasAccount() {
		return nil, ErrNoAccount
	}

	if _, err := s.departments.GetByID(ctx, req.DepartmentID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidInput
		}
		return nil, err
	}

	priority := req.Priority
	if priority == "" {
		priority = domain.PriorityMedium
	}

	complaint := &domain.Complaint{
		Title:         req.Title,
		Description:   req.Description,
		SubmittedByID: actor.Account.ID,
		DepartmentID:  req.DepartmentID,
		Priority:      priority,
		Status:        domain.ComplaintStatusPending,
	}

	if err := complaint.Validate(); err != nil {
		return nil, err
	}

	if err := s.complaints.Create(ctx, complaint); err != nil {
		s.logger.Error("failed to create complaint", zap.Error(err))
		return nil, err
	}

	s.logger.Info("complaint created",
		zap.String("complaint_id", complaint.ID.String()),
		zap.String("submitted_by", complaint.SubmittedByID.String()),
		zap.String("priority", string(complaint.Priority)),
	)

	return s.GetByID(ctx, complaint.ID)
}

func (s *ComplaintService) GetByID(ctx context.Context, id uuid.UUID) (*domain.ComplaintDTO, error) {
	complaint, err := s.complaints.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	counts, err := s.complaints.CommentCounts(ctx, []uuid.UUID{complaint.ID})
	if err != nil {
		return nil, err
	}

	dto := mapper.ToComplaintDTO(complaint, counts[complaint.ID])
	return &dto, nil
}

func (s *ComplaintService) List(ctx context.Context, page, pageSize int, filters *repository.ComplaintFilters) (*domain.PaginatedResponse, error) {
	page, pageSize = normalizePagination(page, pageSize)

	complaints, total, err := s.complaints.List(ctx, page, pageSize, filters)
	if err != nil {
		return nil, err
	}

	ids := make([]uuid.UUID, len(complaints))
	for i, c := range complaints {
		ids[i] = c.ID
	}
	counts, err := s.complaints.CommentCounts(ctx, ids)
	if err != nil {
		return nil, err
	}

	dtos := make([]domain.ComplaintDTO, len(complaints))
	for i, c := range complaints {
		dtos[i] = mapper.ToComplaintDTO(&c, counts[c.ID])
	}

	return paginated(dtos, total, page, pageSize), nil
}

func (s *ComplaintService) Update(ctx context.Context, id uuid.UUID, req *domain.UpdateComplaintRequest) (*domain.ComplaintDTO, error) {
	actor := auth.MustFromContext(ctx)

	complaint, err := s.complaints.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	if !actor.CanEditComplaint(complaint) {
		return nil, ErrPermissionDenied
	}

	complaint.Title = req.Title
	complaint.Description = req.Description
	complaint.DepartmentID = req.DepartmentID
	complaint.Priority = req.Priority
	complaint.Status = req.Status
	complaint.AssignedToID = req.AssignedToID
	complaint.ResolutionNotes = req.ResolutionNotes

	// Stamp the resolution date on the first transition to resolved and
	// never overwrite it afterwards.
	if complaint.Status == domain.ComplaintStatusResolved && complaint.ResolutionDate == nil {
		now := time.Now().UTC()
		complaint.ResolutionDate = &now
	}

	if err := complaint.Validate(); err != nil {
		return nil, err
	}

	if err := s.complaints.Update(ctx, complaint); err != nil {
		s.logger.Error("failed to update complaint", zap.Error(err))
		return nil, err
	}

	return s.GetByID(ctx, id)
}

func (s *ComplaintService) Delete(ctx context.Context, id uuid.UUID) error {
	actor := auth.MustFromContext(ctx)

	complaint, err := s.complaints.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}

	if !actor.CanEditComplaint(complaint) {
		return ErrPermissionDenied
	}

	if err := s.complaints.Delete(ctx, id); err != nil {
		s.logger.Error("failed to delete complaint", zap.Error(err))
		return err
	}

	s.logger.Info("complaint deleted", zap.String("complaint_id", id.String()))
	return nil
}

// BulkMarkInProgress moves complaints to in_progress and assigns them to
// the acting account. Mass update, no per-row validation.
func (s *ComplaintService) BulkMarkInProgress(ctx context.Context, ids []uuid.UUID) (int64, error) {
	actor := auth.MustFromContext(ctx)
	if !actor.IsAdmin() {
		return 0, ErrPermissionDenied
	}
	if !actor.HasAccount() {
		return 0, ErrNoAccount
	}

	return s.bulkUpdate(ctx, ids, map[string]interface{}{
		"status":         domain.ComplaintStatusInProgress,
		"assigned_to_id": actor.Account.ID,
	})
}

// BulkMarkResolved moves complaints to resolved and stamps the
// resolution date. Bypasses the notes requirement, matching the
// register's bulk action.
func (s *ComplaintService) BulkMarkResolved(ctx context.Context, ids []uuid.UUID) (int64, error) {
	actor := auth.MustFromContext(ctx)
	if !actor.IsAdmin() {
		return 0, ErrPermissionDenied
	}

	return s.bulkUpdate(ctx, ids, map[string]interface{}{
		"status":          domain.ComplaintStatusResolved,
		"resolution_date": time.Now().UTC(),
	})
}

// BulkMarkClosed moves complaints to closed
func (s *ComplaintService) BulkMarkClosed(ctx context.Context, ids []uuid.UUID) (int64, error) {
	actor := auth.MustFromContext(ctx)
	if !actor.IsAdmin() {
		return 0, ErrPermissionDenied
	}

	return s.bulkUpdate(ctx, ids, map[string]interface{}{
		"status": domain.ComplaintStatusClosed,
	})
}

// BulkAssignToMe assigns complaints to the acting account without
// touching their status
func (s *ComplaintService) BulkAssignToMe(ctx context.Context, ids []uuid.UUID) (int64, error) {
	actor := auth.MustFromContext(ctx)
	if !actor.IsAdmin() {
		return 0, ErrPermissionDenied
	}
	if !actor.HasAccount() {
		return 0, ErrNoAccount
	}

	return s.bulkUpdate(ctx, ids, map[string]interface{}{
		"assigned_to_id": actor.Account.ID,
	})
}

func (s *ComplaintService) bulkUpdate(ctx context.Context, ids []uuid.UUID, fields map[string]interface{}) (int64, error) {
	updated, err := s.complaints.BulkUpdateFields(ctx, ids, fields)
	if err != nil {
		s.logger.Error("bulk complaint update failed", zap.Error(err))
		return 0, err
	}
	s.logger.Info("bulk complaint update",
		zap.Int("requested", len(ids)),
		zap.Int64("updated", updated),
	)
	return updated, nil
}

// ListComments returns the comment thread for a complaint the actor can
// see
func (s *ComplaintService) ListComments(ctx context.Context, complaintID uuid.UUID) ([]domain.CommentDTO, error) {
	if _, err := s.complaints.GetByID(ctx, complaintID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	comments, err := s.complaints.ListComments(ctx, complaintID)
	if err != nil {
		return nil, err
	}

	dtos := make([]domain.CommentDTO, len(comments))
	for i, c := range comments {
		dtos[i] = mapper.ToCommentDTO(&c)
	}
	return dtos, nil
}

// AddComment appends a comment authored by the acting account
func (s *ComplaintService) AddComment(ctx context.Context, complaintID uuid.UUID, req *domain.CreateCommentRequest) (*domain.CommentDTO, error) {
	actor := auth.MustFromContext(ctx)
	if !actor.HasAccount() {
		return nil, ErrNoAccount
	}

	if _, err := s.complaints.GetByID(ctx, complaintID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	comment := &domain.ComplaintComment{
		ComplaintID: complaintID,
		AuthorID:    actor.Account.ID,
		Comment:     req.Comment,
	}

	if err := s.complaints.CreateComment(ctx, comment); err != nil {
		s.logger.Error("failed to create comment", zap.Error(err))
		return nil, err
	}

	created, err := s.complaints.GetCommentByID(ctx, comment.ID)
	if err != nil {
		return nil, err
	}
	dto := mapper.ToCommentDTO(created)
	return &dto, nil
}

// DeleteComment removes a comment. Superuser only.
func (s *ComplaintService) DeleteComment(ctx context.Context, complaintID, commentID uuid.UUID) error {
	actor := auth.MustFromContext(ctx)
	if !actor.IsSuperuser {
		return ErrPermissionDenied
	}

	comment, err := s.complaints.GetCommentByID(ctx, commentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}
	if comment.ComplaintID != complaintID {
		return ErrNotFound
	}

	if err := s.complaints.DeleteComment(ctx, commentID); err != nil {
		s.logger.Error("failed to delete comment", zap.Error(err))
		return err
	}

	s.logger.Info("comment deleted", zap.String("comment_id", commentID.String()))
	return nil
}
