package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stockregister/stock-api/internal/domain"
	"github.com/stockregister/stock-api/internal/repository"
	"github.com/stockregister/stock-api/internal/service"
	"go.uber.org/zap"
)

type StockHandler struct {
	stockService *service.StockService
	logger       *zap.Logger
}

func NewStockHandler(stockService *service.StockService, logger *zap.Logger) *StockHandler {
	return &StockHandler{
		stockService: stockService,
		logger:       logger,
	}
}

// List godoc
// @Summary List stock items
// @Description Get paginated list of stock items visible to the acting user
// @Tags Stocks
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param pageSize query int false "Items per page (max 200)" default(20)
// @Param status query string false "Filter by status" Enums(available, maintenance, retired, inuse)
// @Param departmentId query string false "Filter by department" format(uuid)
// @Param categoryId query string false "Filter by category" format(uuid)
// @Param search query string false "Search by item name, item ID, serial number or location"
// @Param sort query string false "Sort by creation time" Enums(asc, desc) default(desc)
// @Success 200 {object} domain.PaginatedResponse{data=[]domain.StockDTO}
// @Failure 401 {object} domain.ErrorResponse
// @Failure 500 {object} domain.ErrorResponse
// @Security BearerAuth
// @Router /stocks [get]
func (h *StockHandler) List(w http.ResponseWriter, r *http.Request) {
	page, pageSize := parsePagination(r)

	filters := &repository.StockFilters{
		Search: r.URL.Query().Get("search"),
		Sort:   repository.ParseSortOrder(r.URL.Query().Get("sort")),
	}
	if status := r.URL.Query().Get("status"); status != "" {
		s := domain.StockStatus(status)
		filters.Status = &s
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
	if cat := r.URL.Query().Get("categoryId"); cat != "" {
		id, err := uuid.Parse(cat)
		if err != nil {
			respondJSON(w, http.StatusBadRequest, domain.ErrorResponse{
				Error:   "Bad Request",
				Message: "Invalid categoryId format",
			})
			return
		}
		filters.CategoryID = &id
	}

	result, err := h.stockService.List(r.Context(), page, pageSize, filters)
	if err != nil {
		h.logger.Error("failed to list stock items", zap.Error(err))
		respondJSON(w, http.StatusInternalServerError, domain.ErrorResponse{
			Error:   "Internal Server Error",
			Message: "Failed to list stock items",
		})
		return
	}

	respondJSON(w, http.StatusOK, result)
}

// GetByID godoc
// @Summary Get stock item by ID
// @Description Rows outside the acting user's visibility return 404
// @Tags Stocks
// @Produce json
// @Param id path string true "Stock ID" format(uuid)
// @Success 200 {object} domain.StockDTO
// @Failure 400 {object} domain.ErrorResponse
// @Failure 401 {object} domain.ErrorResponse
// @Failure 404 {object} domain.ErrorResponse
// @Security BearerAuth
// @Router /stocks/{id} [get]
func (h *StockHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondJSON(w, http.StatusBadRequest, domain.ErrorResponse{
			Error:   "Bad Request",
			Message: "Invalid stock ID format",
		})
		return
	}

	stock, err := h.stockService.GetByID(r.Context(), id)
	if err != nil {
		if respondServiceError(w, err, "Stock item") {
			return
		}
		h.logger.Error("failed to get stock item", zap.Error(err))
		respondJSON(w, http.StatusInternalServerError, domain.ErrorResponse{
			Error:   "Internal Server Error",
			Message: "Failed to get stock item",
		})
		return
	}

	respondJSON(w, http.StatusOK, stock)
}

// Create godoc
// @Summary Create stock item
// @Description Register a stock item. Staff can only file into their own department.
// @Tags Stocks
// @Accept json
// @Produce json
// @Param request body domain.CreateStockRequest true "Stock data"
// @Success 201 {object} domain.StockDTO
// @Failure 400 {object} domain.ErrorResponse
// @Failure 401 {object} domain.ErrorResponse
// @Failure 403 {object} domain.ErrorResponse
// @Failure 409 {object} domain.ErrorResponse "Duplicate item ID or serial number"
// @Security BearerAuth
// @Router /stocks [post]
func (h *StockHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateStockRequest
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

	stock, err := h.stockService.Create(r.Context(), &req)
	if err != nil {
		if respondServiceError(w, err, "Stock item") {
			return
		}
		h.logger.Error("failed to create stock item", zap.Error(err))
		respondJSON(w, http.StatusInternalServerError, domain.ErrorResponse{
			Error:   "Internal Server Error",
			Message: "Failed to create stock item",
		})
		return
	}

	w.Header().Set("Location", "/api/v1/stocks/"+stock.ID.String())
	respondJSON(w, http.StatusCreated, stock)
}

// Update godoc
// @Summary Update stock item
// @Description Update a stock item. Non-superusers can only edit rows in their own department.
// @Tags Stocks
// @Accept json
// @Produce json
// @Param id path string true "Stock ID" format(uuid)
// @Param request body domain.UpdateStockRequest true "Stock data"
// @Success 200 {object} domain.StockDTO
// @Failure 400 {object} domain.ErrorResponse
// @Failure 401 {object} domain.ErrorResponse
// @Failure 403 {object} domain.ErrorResponse
// @Failure 404 {object} domain.ErrorResponse
// @Failure 409 {object} domain.ErrorResponse "Duplicate serial number"
// @Security BearerAuth
// @Router /stocks/{id} [put]
func (h *StockHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondJSON(w, http.StatusBadRequest, domain.ErrorResponse{
			Error:   "Bad Request",
			Message: "Invalid stock ID format",
		})
		return
	}

	var req domain.UpdateStockRequest
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

	stock, err := h.stockService.Update(r.Context(), id, &req)
	if err != nil {
		if respondServiceError(w, err, "Stock item") {
			return
		}
		h.logger.Error("failed to update stock item", zap.Error(err))
		respondJSON(w, http.StatusInternalServerError, domain.ErrorResponse{
			Error:   "Internal Server Error",
			Message: "Failed to update stock item",
		})
		return
	}

	respondJSON(w, http.StatusOK, stock)
}

// Delete godoc
// @Summary Delete stock item
// @Description Delete a stock item. Non-superusers can only delete rows in their own department.
// @Tags Stocks
// @Param id path string true "Stock ID" format(uuid)
// @Success 204 "No Content"
// @Failure 400 {object} domain.ErrorResponse
// @Failure 401 {object} domain.ErrorResponse
// @Failure 403 {object} domain.ErrorResponse
// @Failure 404 {object} domain.ErrorResponse
// @Security BearerAuth
// @Router /stocks/{id} [delete]
func (h *StockHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondJSON(w, http.StatusBadRequest, domain.ErrorResponse{
			Error:   "Bad Request",
			Message: "Invalid stock ID format",
		})
		return
	}

	if err := h.stockService.Delete(r.Context(), id); err != nil {
		if respondServiceError(w, err, "Stock item") {
			return
		}
		h.logger.Error("failed to delete stock item", zap.Error(err))
		respondJSON(w, http.StatusInternalServerError, domain.ErrorResponse{
			Error:   "Internal Server Error",
			Message: "Failed to delete stock item",
		})
		return
	}

	respondJSON(w, http.StatusNoContent, nil)
}

// BulkMarkAvailable godoc
// @Summary Bulk mark stock as available
// @Description Set the selected stock items to available and clear any assignee. Admin only.
// @Tags Stocks
// @Accept json
// @Produce json
// @Param request body domain.BulkIDsRequest true "Stock IDs"
// @Success 200 {object} domain.BulkUpdateResponse
// @Failure 400 {object} domain.ErrorResponse
// @Failure 401 {object} domain.ErrorResponse
// @Failure 403 {object} domain.ErrorResponse
// @Security BearerAuth
// @Router /stocks/bulk/mark-available [post]
func (h *StockHandler) BulkMarkAvailable(w http.ResponseWriter, r *http.Request) {
	h.bulkMarkStatus(w, r, domain.StockStatusAvailable)
}

// BulkMarkMaintenance godoc
// @Summary Bulk mark stock as under maintenance
// @Description Set the selected stock items to maintenance and clear any assignee. Admin only.
// @Tags Stocks
// @Accept json
// @Produce json
// @Param request body domain.BulkIDsRequest true "Stock IDs"
// @Success 200 {object} domain.BulkUpdateResponse
// @Failure 400 {object} domain.ErrorResponse
// @Failure 401 {object} domain.ErrorResponse
// @Failure 403 {object} domain.ErrorResponse
// @Security BearerAuth
// @Router /stocks/bulk/mark-maintenance [post]
func (h *StockHandler) BulkMarkMaintenance(w http.ResponseWriter, r *http.Request) {
	h.bulkMarkStatus(w, r, domain.StockStatusMaintenance)
}

// BulkMarkRetired godoc
// @Summary Bulk mark stock as retired
// @Description Set the selected stock items to retired and clear any assignee. Admin only.
// @Tags Stocks
// @Accept json
// @Produce json
// @Param request body domain.BulkIDsRequest true "Stock IDs"
// @Success 200 {object} domain.BulkUpdateResponse
// @Failure 400 {object} domain.ErrorResponse
// @Failure 401 {object} domain.ErrorResponse
// @Failure 403 {object} domain.ErrorResponse
// @Security BearerAuth
// @Router /stocks/bulk/mark-retired [post]
func (h *StockHandler) BulkMarkRetired(w http.ResponseWriter, r *http.Request) {
	h.bulkMarkStatus(w, r, domain.StockStatusRetired)
}

func (h *StockHandler) bulkMarkStatus(w http.ResponseWriter, r *http.Request, status domain.StockStatus) {
	req, ok := decodeBulkIDs(w, r)
	if !ok {
		return
	}

	updated, err := h.stockService.BulkMarkStatus(r.Context(), req.IDs, status)
	if err != nil {
		if respondServiceError(w, err, "Stock item") {
			return
		}
		h.logger.Error("bulk stock update failed", zap.Error(err))
		respondJSON(w, http.StatusInternalServerError, domain.ErrorResponse{
			Error:   "Internal Server Error",
			Message: "Failed to update stock items",
		})
		return
	}

	respondJSON(w, http.StatusOK, domain.BulkUpdateResponse{Updated: updated})
}
