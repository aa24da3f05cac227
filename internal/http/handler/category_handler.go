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

type CategoryHandler struct {
	categoryService *service.CategoryService
	logger          *zap.Logger
}

func NewCategoryHandler(categoryService *service.CategoryService, logger *zap.Logger) *CategoryHandler {
	return &CategoryHandler{
		categoryService: categoryService,
		logger:          logger,
	}
}

// List godoc
// @Summary List categories
// @Tags Categories
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param pageSize query int false "Items per page (max 200)" default(20)
// @Param search query string false "Search by name"
// @Success 200 {object} domain.PaginatedResponse{data=[]domain.CategoryDTO}
// @Failure 401 {object} domain.ErrorResponse
// @Failure 500 {object} domain.ErrorResponse
// @Security BearerAuth
// @Router /categories [get]
func (h *CategoryHandler) List(w http.ResponseWriter, r *http.Request) {
	page, pageSize := parsePagination(r)
	search := r.URL.Query().Get("search")

	result, err := h.categoryService.List(r.Context(), page, pageSize, search)
	if err != nil {
		h.logger.Error("failed to list categories", zap.Error(err))
		respondJSON(w, http.StatusInternalServerError, domain.ErrorResponse{
			Error:   "Internal Server Error",
			Message: "Failed to list categories",
		})
		return
	}

	respondJSON(w, http.StatusOK, result)
}

// GetByID godoc
// @Summary Get category by ID
// @Tags Categories
// @Produce json
// @Param id path string true "Category ID" format(uuid)
// @Success 200 {object} domain.CategoryDTO
// @Failure 400 {object} domain.ErrorResponse
// @Failure 401 {object} domain.ErrorResponse
// @Failure 404 {object} domain.ErrorResponse
// @Security BearerAuth
// @Router /categories/{id} [get]
func (h *CategoryHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondJSON(w, http.StatusBadRequest, domain.ErrorResponse{
			Error:   "Bad Request",
			Message: "Invalid category ID format",
		})
		return
	}

	category, err := h.categoryService.GetByID(r.Context(), id)
	if err != nil {
		if respondServiceError(w, err, "Category") {
			return
		}
		h.logger.Error("failed to get category", zap.Error(err))
		respondJSON(w, http.StatusInternalServerError, domain.ErrorResponse{
			Error:   "Internal Server Error",
			Message: "Failed to get category",
		})
		return
	}

	respondJSON(w, http.StatusOK, category)
}

// Create godoc
// @Summary Create category
// @Description Create a new category. Admin only.
// @Tags Categories
// @Accept json
// @Produce json
// @Param request body domain.CreateCategoryRequest true "Category data"
// @Success 201 {object} domain.CategoryDTO
// @Failure 400 {object} domain.ErrorResponse
// @Failure 401 {object} domain.ErrorResponse
// @Failure 403 {object} domain.ErrorResponse
// @Failure 409 {object} domain.ErrorResponse "Duplicate name"
// @Security BearerAuth
// @Router /categories [post]
func (h *CategoryHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateCategoryRequest
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

	category, err := h.categoryService.Create(r.Context(), &req)
	if err != nil {
		if respondServiceError(w, err, "Category") {
			return
		}
		h.logger.Error("failed to create category", zap.Error(err))
		respondJSON(w, http.StatusInternalServerError, domain.ErrorResponse{
			Error:   "Internal Server Error",
			Message: "Failed to create category",
		})
		return
	}

	w.Header().Set("Location", "/api/v1/categories/"+category.ID.String())
	respondJSON(w, http.StatusCreated, category)
}

// Update godoc
// @Summary Update category
// @Description Rename a category. Admin only.
// @Tags Categories
// @Accept json
// @Produce json
// @Param id path string true "Category ID" format(uuid)
// @Param request body domain.UpdateCategoryRequest true "Category data"
// @Success 200 {object} domain.CategoryDTO
// @Failure 400 {object} domain.ErrorResponse
// @Failure 401 {object} domain.ErrorResponse
// @Failure 403 {object} domain.ErrorResponse
// @Failure 404 {object} domain.ErrorResponse
// @Failure 409 {object} domain.ErrorResponse "Duplicate name"
// @Security BearerAuth
// @Router /categories/{id} [put]
func (h *CategoryHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondJSON(w, http.StatusBadRequest, domain.ErrorResponse{
			Error:   "Bad Request",
			Message: "Invalid category ID format",
		})
		return
	}

	var req domain.UpdateCategoryRequest
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

	category, err := h.categoryService.Update(r.Context(), id, &req)
	if err != nil {
		if respondServiceError(w, err, "Category") {
			return
		}
		h.logger.Error("failed to update category", zap.Error(err))
		respondJSON(w, http.StatusInternalServerError, domain.ErrorResponse{
			Error:   "Internal Server Error",
			Message: "Failed to update category",
		})
		return
	}

	respondJSON(w, http.StatusOK, category)
}

// Delete godoc
// @Summary Delete category
// @Description Delete a category and all stock items filed under it. Admin only.
// @Tags Categories
// @Param id path string true "Category ID" format(uuid)
// @Success 204 "No Content"
// @Failure 400 {object} domain.ErrorResponse
// @Failure 401 {object} domain.ErrorResponse
// @Failure 403 {object} domain.ErrorResponse
// @Failure 404 {object} domain.ErrorResponse
// @Security BearerAuth
// @Router /categories/{id} [delete]
func (h *CategoryHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondJSON(w, http.StatusBadRequest, domain.ErrorResponse{
			Error:   "Bad Request",
			Message: "Invalid category ID format",
		})
		return
	}

	if err := h.categoryService.Delete(r.Context(), id); err != nil {
		if respondServiceError(w, err, "Category") {
			return
		}
		h.logger.Error("failed to delete category", zap.Error(err))
		respondJSON(w, http.StatusInternalServerError, domain.ErrorResponse{
			Error:   "Internal Server Error",
			Message: "Failed to delete category",
		})
		return
	}

	respondJSON(w, http.StatusNoContent, nil)
}
