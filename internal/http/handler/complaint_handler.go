package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stockregister/stock-api/internal/domain"
	"github.com/stockregister/stock-api/internal/repository"
	"github.com/stockregister/stock-api/internal/service"
	"go.uber.org/zap"
)

type ComplaintHandler struct {
	complaintService *service.ComplaintService
	logger           *zap.Logger
}

func NewComplaintHandler(complaintService *service.ComplaintService, logger *zap.Logger) *ComplaintHandler {
	return &ComplaintHandler{
		complaintService: complaintService,
		logger:           logger,
	}
}

// List godoc
// @Summary List complaints
// @Description Get paginated list of complaints visible to the acting user. Staff only see their own submissions.
// @Tags Complaints
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param pageSize query int false "Items per page (max 200)" default(20)
// @Param status query string false "Filter by status" Enums(pending, in_progress, resolved, closed)
// @Param priority query string false "Filter by priority" Enums(low, medium, high, urgent)
// @Param departmentId query string false "Filter by department" format(uuid)
// @Param search query string false "Search by title or description"
// @Param sort query string false "Sort by creation time" Enums(asc, desc) default(desc)
// @Success 200 {object} domain.PaginatedResponse{data=[]domain.ComplaintDTO}
// @Failure 401 {object} domain.ErrorResponse
// @Failure 500 {object} domain.ErrorResponse
// @Security BearerAuth
// @Router /complaints [get]
func (h *ComplaintHandler) List(w http.ResponseWriter, r *http.Request) {
	page, pageSize := parsePagination(r)

	filters := &repository.ComplaintFilters{
		Search: r.URL.Query().Get("search"),
		Sort:   repository.ParseSortOrder(r.URL.Query().Get("sort")),
	}
	if status := r.URL.Query().Get("status"); status != "" {
		s := domain.ComplaintStatus(status)
		filters.Status = &s
	}
	if priority := r.URL.Query().Get("priority"); priority != "" {
		p := domain.ComplaintPriority(priority)
		filters.Priority = &p
	}
	if dept := r.URL.Query().Get("departmentId"); dept != "" {
		id, err := uuid.Parse(dept)
		if err != nil {
			respondJSON(w, http.StatusBadRequest, domain.ErrorResponse{
				Error:   "Bad Request",
				Message: "Invalid departmentId format",
			})
			return
		}
		filters.DepartmentID = &id
	}

	result, err := h.complaintService.List(r.Context(), page, pageSize, filters)
	if err != nil {
		h.logger.Error("failed to list complaints", zap.Error(err))
		respondJSON(w, http.StatusInternalServerError, domain.ErrorResponse{
			Error:   "Internal Server Error",
			Message: "Failed to list complaints",
		})
		return
	}

	respondJSON(w, http.StatusOK, result)
}

// GetByID godoc
// @Summary Get complaint by ID
// @Description Rows outside the acting user's visibility return 404
// @Tags Complaints
// @Produce json
// @Param id path string true "Complaint ID" format(uuid)
// @Success 200 {object} domain.ComplaintDTO
// @Failure 400 {object} domain.ErrorResponse
// @Failure 401 {object} domain.ErrorResponse
// @Failure 404 {object} domain.ErrorResponse
// @Security BearerAuth
// @Router /complaints/{id} [get]
func (h *ComplaintHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondJSON(w, http.StatusBadRequest, domain.ErrorResponse{
			Error:   "Bad Request",
			Message: "Invalid complaint ID format",
		})
		return
	}

	complaint, err := h.complaintService.GetByID(r.Context(), id)
	if err != nil {
		if respondServiceError(w, err, "Complaint") {
			return
		}
		h.logger.Error("failed to get complaint", zap.Error(err))
		respondJSON(w, http.StatusInternalServerError, domain.ErrorResponse{
			Error:   "Internal Server Error",
			Message: "Failed to get complaint",
		})
		return
	}

	respondJSON(w, http.StatusOK, complaint)
}

// Create godoc
// @Summary Submit complaint
// @Description Submit a complaint. The submitter is stamped from the acting account.
// @Tags Complaints
// @Accept json
// @Produce json
// @Param request body domain.CreateComplaintRequest true "Complaint data"
// @Success 201 {object} domain.ComplaintDTO
// @Failure 400 {object} domain.ErrorResponse
// @Failure 401 {object} domain.ErrorResponse
// @Failure 403 {object} domain.ErrorResponse "No linked account"
// @Security BearerAuth
// @Router /complaints [post]
func (h *ComplaintHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateComplaintRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSON(w, http.StatusBadRequest, domain.ErrorResponse{
			Error:   "Bad Request",
			Message: "Invalid request body",
		})
		return
	}

	if err := validate.Struct(req); err != nil {
		respondValidationError(w, err)
		return
	}

	complaint, err := h.complaintService.Create(r.Context(), &req)
	if err != nil {
		if respondServiceError(w, err, "Complaint") {
			return
		}
		h.logger.Error("failed to create complaint", zap.Error(err))
		respondJSON(w, http.StatusInternalServerError, domain.ErrorResponse{
			Error:   "Internal Server Error",
			Message: "Failed to create complaint",
		})
		return
	}

	w.Header().Set("Location", "/api/v1/complaints/"+complaint.ID.String())
	respondJSON(w, http.StatusCreated, complaint)
}

// Update godoc
// @Summary Update complaint
// @Description Update a complaint. Staff can only edit their own submissions while still pending. The submitter never changes.
// @Tags Complaints
// @Accept json
// @Produce json
// @Param id path string true "Complaint ID" format(uuid)
// @Param request body domain.UpdateComplaintRequest true "Complaint data"
// @Success 200 {object} domain.ComplaintDTO
// @Failure 400 {object} domain.ErrorResponse
// @Failure 401 {object} domain.ErrorResponse
// @Failure 403 {object} domain.ErrorResponse
// @Failure 404 {object} domain.ErrorResponse
// @Security BearerAuth
// @Router /complaints/{id} [put]
func (h *ComplaintHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondJSON(w, http.StatusBadRequest, domain.ErrorResponse{
			Error:   "Bad Request",
			Message: "Invalid complaint ID format",
		})
		return
	}

	var req domain.UpdateComplaintRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSON(w, http.StatusBadRequest, domain.ErrorResponse{
			Error:   "Bad Request",
			Message: "Invalid request body",
		})
		return
	}

	if err := validate.Struct(req); err != nil {
		respondValidationError(w, err)
		return
	}

	complaint, err := h.complaintService.Update(r.Context(), id, &req)
	if err != nil {
		if respondServiceError(w, err, "Complaint") {
			return
		}
		h.logger.Error("failed to update complaint", zap.Error(err))
		respondJSON(w, http.StatusInternalServerError, domain.ErrorResponse{
			Error:   "Internal Server Error",
			Message: "Failed to update complaint",
		})
		return
	}

	respondJSON(w, http.StatusOK, complaint)
}

// Delete godoc
// @Summary Delete complaint
// @Description Delete a complaint and its comment thread. Staff can only delete their own submissions while still pending.
// @Tags Complaints
// @Param id path string true "Complaint ID" format(uuid)
// @Success 204 "No Content"
// @Failure 400 {object} domain.ErrorResponse
// @Failure 401 {object} domain.ErrorResponse
// @Failure 403 {object} domain.ErrorResponse
// @Failure 404 {object} domain.ErrorResponse
// @Security BearerAuth
// @Router /complaints/{id} [delete]
func (h *ComplaintHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondJSON(w, http.StatusBadRequest, domain.ErrorResponse{
			Error:   "Bad Request",
			Message: "Invalid complaint ID format",
		})
		return
	}

	if err := h.complaintService.Delete(r.Context(), id); err != nil {
		if respondServiceError(w, err, "Complaint") {
			return
		}
		h.logger.Error("failed to delete complaint", zap.Error(err))
		respondJSON(w, http.StatusInternalServerError, domain.ErrorResponse{
			Error:   "Internal Server Error",
			Message: "Failed to delete complaint",
		})
		return
	}

	respondJSON(w, http.StatusNoContent, nil)
}

// ListComments godoc
// @Summary List complaint comments
// @Tags Complaints
// @Produce json
// @Param id path string true "Complaint ID" format(uuid)
// @Success 200 {array} domain.CommentDTO
// @Failure 400 {object} domain.ErrorResponse
// @Failure 401 {object} domain.ErrorResponse
// @Failure 404 {object} domain.ErrorResponse
// @Security BearerAuth
// @Router /complaints/{id}/comments [get]
func (h *ComplaintHandler) ListComments(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondJSON(w, http.StatusBadRequest, domain.ErrorResponse{
			Error:   "Bad Request",
			Message: "Invalid complaint ID format",
		})
		return
	}

	comments, err := h.complaintService.ListComments(r.Context(), id)
	if err != nil {
		if respondServiceError(w, err, "Complaint") {
			return
		}
		h.logger.Error("failed to list comments", zap.Error(err))
		respondJSON(w, http.StatusInternalServerError, domain.ErrorResponse{
			Error:   "Internal Server Error",
			Message: "Failed to list comments",
		})
		return
	}

	respondJSON(w, http.StatusOK, comments)
}

// AddComment godoc
// @Summary Add complaint comment
// @Description Append a comment to a complaint. The author is stamped from the acting account.
// @Tags Complaints
// @Accept json
// @Produce json
// @Param id path string true "Complaint ID" format(uuid)
// @Param request body domain.CreateCommentRequest true "Comment data"
// @Success 201 {object} domain.CommentDTO
// @Failure 400 {object} domain.ErrorResponse
// @Failure 401 {object} domain.ErrorResponse
// @Failure 403 {object} domain.ErrorResponse "No linked account"
// @Failure 404 {object} domain.ErrorResponse
// @Security BearerAuth
// @Router /complaints/{id}/comments [post]
func (h *ComplaintHandler) AddComment(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondJSON(w, http.StatusBadRequest, domain.ErrorResponse{
			Error:   "Bad Request",
			Message: "Invalid complaint ID format",
		})
		return
	}

	var req domain.CreateCommentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSON(w, http.StatusBadRequest, domain.ErrorResponse{
			Error:   "Bad Request",
			Message: "Invalid request body",
		})
		return
	}

	if err := validate.Struct(req); err != nil {
		respondValidationError(w, err)
		return
	}

	comment, err := h.complaintService.AddComment(r.Context(), id, &req)
	if err != nil {
		if respondServiceError(w, err, "Complaint") {
			return
		}
		h.logger.Error("failed to add comment", zap.Error(err))
		respondJSON(w, http.StatusInternalServerError, domain.ErrorResponse{
			Error:   "Internal Server Error",
			Message: "Failed to add comment",
		})
		return
	}

	respondJSON(w, http.StatusCreated, comment)
}

// DeleteComment godoc
// @Summary Delete complaint comment
// @Description Delete a comment. Superuser only.
// @Tags Complaints
// @Param id path string true "Complaint ID" format(uuid)
// @Param commentId path string true "Comment ID" format(uuid)
// @Success 204 "No Content"
// @Failure 400 {object} domain.ErrorResponse
// @Failure 401 {object} domain.ErrorResponse
// @Failure 403 {object} domain.ErrorResponse
// @Failure 404 {object} domain.ErrorResponse
// @Security BearerAuth
// @Router /complaints/{id}/comments/{commentId} [delete]
func (h *ComplaintHandler) DeleteComment(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondJSON(w, http.StatusBadRequest, domain.ErrorResponse{
			Error:   "Bad Request",
			Message: "Invalid complaint ID format",
		})
		return
	}
	commentID, err := uuid.Parse(chi.URLParam(r, "commentId"))
	if err != nil {
		respondJSON(w, http.StatusBadRequest, domain.ErrorResponse{
			Error:   "Bad Request",
			Message: "Invalid comment ID format",
		})
		return
	}

	if err := h.complaintService.DeleteComment(r.Context(), id, commentID); err != nil {
		if respondServiceError(w, err, "Comment") {
			return
		}
		h.logger.Error("failed to delete comment", zap.Error(err))
		respondJSON(w, http.StatusInternalServerError, domain.ErrorResponse{
			Error:   "Internal Server Error",
			Message: "Failed to delete comment",
		})
		return
	}

	respondJSON(w, http.StatusNoContent, nil)
}

// BulkMarkInProgress godoc
// @Summary Bulk mark complaints in progress
// @Description Move the selected complaints to in_progress and assign them to the acting account. Admin only.
// @Tags Complaints
// @Accept json
// @Produce json
// @Param request body domain.BulkIDsRequest true "Complaint IDs"
// @Success 200 {object} domain.BulkUpdateResponse
// @Failure 400 {object} domain.ErrorResponse
// @Failure 401 {object} domain.ErrorResponse
// @Failure 403 {object} domain.ErrorResponse
// @Security BearerAuth
// @Router /complaints/bulk/mark-in-progress [post]
func (h *ComplaintHandler) BulkMarkInProgress(w http.ResponseWriter, r *http.Request) {
	h.bulk(w, r, h.complaintService.BulkMarkInProgress)
}

// BulkMarkResolved godoc
// @Summary Bulk mark complaints resolved
// @Description Move the selected complaints to resolved and stamp the resolution date. Admin only.
// @Tags Complaints
// @Accept json
// @Produce json
// @Param request body domain.BulkIDsRequest true "Complaint IDs"
// @Success 200 {object} domain.BulkUpdateResponse
// @Failure 400 {object} domain.ErrorResponse
// @Failure 401 {object} domain.ErrorResponse
// @Failure 403 {object} domain.ErrorResponse
// @Security BearerAuth
// @Router /complaints/bulk/mark-resolved [post]
func (h *ComplaintHandler) BulkMarkResolved(w http.ResponseWriter, r *http.Request) {
	h.bulk(w, r, h.complaintService.BulkMarkResolved)
}

// BulkMarkClosed godoc
// @Summary Bulk mark complaints closed
// @Description Move the selected complaints to closed. Admin only.
// @Tags Complaints
// @Accept json
// @Produce json
// @Param request body domain.BulkIDsRequest true "Complaint IDs"
// @Success 200 {object} domain.BulkUpdateResponse
// @Failure 400 {object} domain.ErrorResponse
// @Failure 401 {object} domain.ErrorResponse
// @Failure 403 {object} domain.ErrorResponse
// @Security BearerAuth
// @Router /complaints/bulk/mark-closed [post]
func (h *ComplaintHandler) BulkMarkClosed(w http.ResponseWriter, r *http.Request) {
	h.bulk(w, r, h.complaintService.BulkMarkClosed)
}

// BulkAssignToMe godoc
// @Summary Bulk assign complaints to me
// @Description Assign the selected complaints to the acting account. Admin only.
// @Tags Complaints
// @Accept json
// @Produce json
// @Param request body domain.BulkIDsRequest true "Complaint IDs"
// @Success 200 {object} domain.BulkUpdateResponse
// @Failure 400 {object} domain.ErrorResponse
// @Failure 401 {object} domain.ErrorResponse
// @Failure 403 {object} domain.ErrorResponse
// @Security BearerAuth
// @Router /complaints/bulk/assign-to-me [post]
func (h *ComplaintHandler) BulkAssignToMe(w http.ResponseWriter, r *http.Request) {
	h.bulk(w, r, h.complaintService.BulkAssignToMe)
}

func (h *ComplaintHandler) bulk(w http.ResponseWriter, r *http.Request, fn func(ctx context.Context, ids []uuid.UUID) (int64, error)) {
	req, ok := decodeBulkIDs(w, r)
	if !ok {
		return
	}

	updated, err := fn(r.Context(), req.IDs)
	if err != nil {
		if respondServiceError(w, err, "Complaint") {
			return
		}
		h.logger.Error("bulk complaint update failed", zap.Error(err))
		respondJSON(w, http.StatusInternalServerError, domain.ErrorResponse{
			Error:   "Internal Server Error",
			Message: "Failed to update complaints",
		})
		return
	}

	respondJSON(w, http.StatusOK, domain.BulkUpdateResponse{Updated: updated})
}
