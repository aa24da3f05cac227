package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stockregister/stock-api/internal/domain"
	"github.com/stockregister/stock-api/internal/service"
	"go.uber.org/zap"
)

type DepartmentHandler struct {
	departmentService *service.DepartmentService
	logger            *zap.Logger
}

func NewDepartmentHandler(departmentService *service.DepartmentService, logger *zap.Logger) *DepartmentHandler {
	return &DepartmentHandler{
		departmentService: departmentService,
		logger:            logger,
	}
}

// List godoc
// @Summary List departments
// @Description Get paginated list of departments with account and stock counts
// @Tags Departments
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param pageSize query int false "Items per page (max 200)" default(20)
// @Param search query string false "Search by name"
// @Success 200 {object} domain.PaginatedResponse{data=[]domain.DepartmentDTO}
// @Failure 401 {object} domain.ErrorResponse
// @Failure 500 {object} domain.ErrorResponse
// @Security BearerAuth
// @Router /departments [get]
func (h *DepartmentHandler) List(w http.ResponseWriter, r *http.Request) {
	page, pageSize := parsePagination(r)
	search := r.URL.Query().Get("search")

	result, err := h.departmentService.List(r.Context(), page, pageSize, search)
	if err != nil {
		h.logger.Error("failed to list departments", zap.Error(err))
		respondJSON(w, http.StatusInternalServerError, domain.ErrorResponse{
			Error:   "Internal Server Error",
			Message: "Failed to list departments",
		})
		return
	}

	respondJSON(w, http.StatusOK, result)
}

// Choices godoc
// @Summary List department choices
// @Description Get the departments the acting user may pick in selectors. Staff only see their own department.
// @Tags Departments
// @Produce json
// @Success 200 {array} domain.DepartmentChoiceDTO
// @Failure 401 {object} domain.ErrorResponse
// @Failure 500 {object} domain.ErrorResponse
// @Security BearerAuth
// @Router /departments/choices [get]
func (h *DepartmentHandler) Choices(w http.ResponseWriter, r *http.Request) {
	choices, err := h.departmentService.Choices(r.Context())
	if err != nil {
		h.logger.Error("failed to list department choices", zap.Error(err))
		respondJSON(w, http.StatusInternalServerError, domain.ErrorResponse{
			Error:   "Internal Server Error",
			Message: "Failed to list department choices",
		})
		return
	}

	respondJSON(w, http.StatusOK, choices)
}

// GetByID godoc
// @Summary Get department by ID
// @Tags Departments
// @Produce json
// @Param id path string true "Department ID" format(uuid)
// @Success 200 {object} domain.DepartmentDTO
// @Failure 400 {object} domain.ErrorResponse
// @Failure 401 {object} domain.ErrorResponse
// @Failure 404 {object} domain.ErrorResponse
// @Security BearerAuth
// @Router /departments/{id} [get]
func (h *DepartmentHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondJSON(w, http.StatusBadRequest, domain.ErrorResponse{
			Error:   "Bad Request",
			Message: "Invalid department ID format",
		})
		return
	}

	department, err := h.departmentService.GetByID(r.Context(), id)
	if err != nil {
		if respondServiceError(w, err, "Department") {
			return
		}
		h.logger.Error("failed to get department", zap.Error(err))
		respondJSON(w, http.StatusInternalServerError, domain.ErrorResponse{
			Error:   "Internal Server Error",
			Message: "Failed to get department",
		})
		return
	}

	respondJSON(w, http.StatusOK, department)
}

// Create godoc
// @Summary Create department
// @Description Create a new department. Admin only.
// @Tags Departments
// @Accept json
// @Produce json
// @Param request body domain.CreateDepartmentRequest true "Department data"
// @Success 201 {object} domain.DepartmentDTO
// @Failure 400 {object} domain.ErrorResponse
// @Failure 401 {object} domain.ErrorResponse
// @Failure 403 {object} domain.ErrorResponse
// @Failure 409 {object} domain.ErrorResponse "Duplicate name"
// @Security BearerAuth
// @Router /departments [post]
func (h *DepartmentHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateDepartmentRequest
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

	department, err := h.departmentService.Create(r.Context(), &req)
	if err != nil {
		if respondServiceError(w, err, "Department") {
			return
		}
		h.logger.Error("failed to create department", zap.Error(err))
		respondJSON(w, http.StatusInternalServerError, domain.ErrorResponse{
			Error:   "Internal Server Error",
			Message: "Failed to create department",
		})
		return
	}

	w.Header().Set("Location", "/api/v1/departments/"+department.ID.String())
	respondJSON(w, http.StatusCreated, department)
}

// Update godoc
// @Summary Update department
// @Description Rename a department. Admin only.
// @Tags Departments
// @Accept json
// @Produce json
// @Param id path string true "Department ID" format(uuid)
// @Param request body domain.UpdateDepartmentRequest true "Department data"
// @Success 200 {object} domain.DepartmentDTO
// @Failure 400 {object} domain.ErrorResponse
// @Failure 401 {object} domain.ErrorResponse
// @Failure 403 {object} domain.ErrorResponse
// @Failure 404 {object} domain.ErrorResponse
// @Failure 409 {object} domain.ErrorResponse "Duplicate name"
// @Security BearerAuth
// @Router /departments/{id} [put]
func (h *DepartmentHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondJSON(w, http.StatusBadRequest, domain.ErrorResponse{
			Error:   "Bad Request",
			Message: "Invalid department ID format",
		})
		return
	}

	var req domain.UpdateDepartmentRequest
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

	department, err := h.departmentService.Update(r.Context(), id, &req)
	if err != nil {
		if respondServiceError(w, err, "Department") {
			return
		}
		h.logger.Error("failed to update department", zap.Error(err))
		respondJSON(w, http.StatusInternalServerError, domain.ErrorResponse{
			Error:   "Internal Server Error",
			Message: "Failed to update department",
		})
		return
	}

	respondJSON(w, http.StatusOK, department)
}

// Delete godoc
// @Summary Delete department
// @Description Delete a department, its stock, and its complaints. Member accounts are detached. Admin only.
// @Tags Departments
// @Param id path string true "Department ID" format(uuid)
// @Success 204 "No Content"
// @Failure 400 {object} domain.ErrorResponse
// @Failure 401 {object} domain.ErrorResponse
// @Failure 403 {object} domain.ErrorResponse
// @Failure 404 {object} domain.ErrorResponse
// @Security BearerAuth
// @Router /departments/{id} [delete]
func (h *DepartmentHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondJSON(w, http.StatusBadRequest, domain.ErrorResponse{
			Error:   "Bad Request",
			Message: "Invalid department ID format",
		})
		return
	}

	if err := h.departmentService.Delete(r.Context(), id); err != nil {
		if respondServiceError(w, err, "Department") {
			return
		}
		h.logger.Error("failed to delete department", zap.Error(err))
		respondJSON(w, http.StatusInternalServerError, domain.ErrorResponse{
			Error:   "Internal Server Error",
			Message: "Failed to delete department",
		})
		return
	}

	respondJSON(w, http.StatusNoContent, nil)
}
