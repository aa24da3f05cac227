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

type AccountHandler struct {
	accountService *service.AccountService
	logger         *zap.Logger
}

func NewAccountHandler(accountService *service.AccountService, logger *zap.Logger) *AccountHandler {
	return &AccountHandler{
		accountService: accountService,
		logger:         logger,
	}
}

// List godoc
// @Summary List accounts
// @Description Get paginated list of accounts. Admin only.
// @Tags Accounts
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param pageSize query int false "Items per page (max 200)" default(20)
// @Param role query string false "Filter by role" Enums(admin, staff)
// @Param departmentId query string false "Filter by department" format(uuid)
// @Param isActive query bool false "Filter by active flag"
// @Param search query string false "Search by username, department or role"
// @Success 200 {object} domain.PaginatedResponse{data=[]domain.AccountDTO}
// @Failure 401 {object} domain.ErrorResponse
// @Failure 403 {object} domain.ErrorResponse
// @Security BearerAuth
// @Router /accounts [get]
func (h *AccountHandler) List(w http.ResponseWriter, r *http.Request) {
	page, pageSize := parsePagination(r)

	filters := &repository.AccountFilters{
		Search: r.URL.Query().Get("search"),
	}
	if role := r.URL.Query().Get("role"); role != "" {
		rl := domain.Role(role)
		filters.Role = &rl
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
	if active := r.URL.Query().Get("isActive"); active != "" {
		b := active == "true"
		filters.IsActive = &b
	}

	result, err := h.accountService.List(r.Context(), page, pageSize, filters)
	if err != nil {
		if respondServiceError(w, err, "Account") {
			return
		}
		h.logger.Error("failed to list accounts", zap.Error(err))
		respondJSON(w, http.StatusInternalServerError, domain.ErrorResponse{
			Error:   "Internal Server Error",
			Message: "Failed to list accounts",
		})
		return
	}

	respondJSON(w, http.StatusOK, result)
}

// GetByID godoc
// @Summary Get account by ID
// @Description Admin only.
// @Tags Accounts
// @Produce json
// @Param id path string true "Account ID" format(uuid)
// @Success 200 {object} domain.AccountDTO
// @Failure 400 {object} domain.ErrorResponse
// @Failure 401 {object} domain.ErrorResponse
// @Failure 403 {object} domain.ErrorResponse
// @Failure 404 {object} domain.ErrorResponse
// @Security BearerAuth
// @Router /accounts/{id} [get]
func (h *AccountHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondJSON(w, http.StatusBadRequest, domain.ErrorResponse{
			Error:   "Bad Request",
			Message: "Invalid account ID format",
		})
		return
	}

	account, err := h.accountService.GetByID(r.Context(), id)
	if err != nil {
		if respondServiceError(w, err, "Account") {
			return
		}
		h.logger.Error("failed to get account", zap.Error(err))
		respondJSON(w, http.StatusInternalServerError, domain.ErrorResponse{
			Error:   "Internal Server Error",
			Message: "Failed to get account",
		})
		return
	}

	respondJSON(w, http.StatusOK, account)
}

// Create godoc
// @Summary Create account
// @Description Create a user identity and its linked account. Admin only.
// @Tags Accounts
// @Accept json
// @Produce json
// @Param request body domain.CreateAccountRequest true "Account data"
// @Success 201 {object} domain.AccountDTO
// @Failure 400 {object} domain.ErrorResponse
// @Failure 401 {object} domain.ErrorResponse
// @Failure 403 {object} domain.ErrorResponse
// @Failure 409 {object} domain.ErrorResponse "Duplicate username"
// @Security BearerAuth
// @Router /accounts [post]
func (h *AccountHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateAccountRequest
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

	account, err := h.accountService.Create(r.Context(), &req)
	if err != nil {
		if respondServiceError(w, err, "Account") {
			return
		}
		h.logger.Error("failed to create account", zap.Error(err))
		respondJSON(w, http.StatusInternalServerError, domain.ErrorResponse{
			Error:   "Internal Server Error",
			Message: "Failed to create account",
		})
		return
	}

	w.Header().Set("Location", "/api/v1/accounts/"+account.ID.String())
	respondJSON(w, http.StatusCreated, account)
}

// Update godoc
// @Summary Update account
// @Description Update an account's department, role and active flag. Admin only.
// @Tags Accounts
// @Accept json
// @Produce json
// @Param id path string true "Account ID" format(uuid)
// @Param request body domain.UpdateAccountRequest true "Account data"
// @Success 200 {object} domain.AccountDTO
// @Failure 400 {object} domain.ErrorResponse
// @Failure 401 {object} domain.ErrorResponse
// @Failure 403 {object} domain.ErrorResponse
// @Failure 404 {object} domain.ErrorResponse
// @Security BearerAuth
// @Router /accounts/{id} [put]
func (h *AccountHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondJSON(w, http.StatusBadRequest, domain.ErrorResponse{
			Error:   "Bad Request",
			Message: "Invalid account ID format",
		})
		return
	}

	var req domain.UpdateAccountRequest
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

	account, err := h.accountService.Update(r.Context(), id, &req)
	if err != nil {
		if respondServiceError(w, err, "Account") {
			return
		}
		h.logger.Error("failed to update account", zap.Error(err))
		respondJSON(w, http.StatusInternalServerError, domain.ErrorResponse{
			Error:   "Internal Server Error",
			Message: "Failed to update account",
		})
		return
	}

	respondJSON(w, http.StatusOK, account)
}

// Delete godoc
// @Summary Delete account
// @Description Delete an account, its submitted complaints and authored comments. Admin only.
// @Tags Accounts
// @Param id path string true "Account ID" format(uuid)
// @Success 204 "No Content"
// @Failure 400 {object} domain.ErrorResponse
// @Failure 401 {object} domain.ErrorResponse
// @Failure 403 {object} domain.ErrorResponse
// @Failure 404 {object} domain.ErrorResponse
// @Security BearerAuth
// @Router /accounts/{id} [delete]
func (h *AccountHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondJSON(w, http.StatusBadRequest, domain.ErrorResponse{
			Error:   "Bad Request",
			Message: "Invalid account ID format",
		})
		return
	}

	if err := h.accountService.Delete(r.Context(), id); err != nil {
		if respondServiceError(w, err, "Account") {
			return
		}
		h.logger.Error("failed to delete account", zap.Error(err))
		respondJSON(w, http.StatusInternalServerError, domain.ErrorResponse{
			Error:   "Internal Server Error",
			Message: "Failed to delete account",
		})
		return
	}

	respondJSON(w, http.StatusNoContent, nil)
}

// BulkMakeStaff godoc
// @Summary Bulk set role to staff
// @Description Set the staff role on the selected accounts. Admin only.
// @Tags Accounts
// @Accept json
// @Produce json
// @Param request body domain.BulkIDsRequest true "Account IDs"
// @Success 200 {object} domain.BulkUpdateResponse
// @Failure 400 {object} domain.ErrorResponse
// @Failure 401 {object} domain.ErrorResponse
// @Failure 403 {object} domain.ErrorResponse
// @Security BearerAuth
// @Router /accounts/bulk/make-staff [post]
func (h *AccountHandler) BulkMakeStaff(w http.ResponseWriter, r *http.Request) {
	h.bulkSetRole(w, r, domain.RoleStaff)
}

// BulkMakeAdmin godoc
// @Summary Bulk set role to admin
// @Description Set the admin role on the selected accounts. Admin only.
// @Tags Accounts
// @Accept json
// @Produce json
// @Param request body domain.BulkIDsRequest true "Account IDs"
// @Success 200 {object} domain.BulkUpdateResponse
// @Failure 400 {object} domain.ErrorResponse
// @Failure 401 {object} domain.ErrorResponse
// @Failure 403 {object} domain.ErrorResponse
// @Security BearerAuth
// @Router /accounts/bulk/make-admin [post]
func (h *AccountHandler) BulkMakeAdmin(w http.ResponseWriter, r *http.Request) {
	h.bulkSetRole(w, r, domain.RoleAdmin)
}

// BulkActivate godoc
// @Summary Bulk activate accounts
// @Description Activate the selected accounts. Admin only.
// @Tags Accounts
// @Accept json
// @Produce json
// @Param request body domain.BulkIDsRequest true "Account IDs"
// @Success 200 {object} domain.BulkUpdateResponse
// @Failure 400 {object} domain.ErrorResponse
// @Failure 401 {object} domain.ErrorResponse
// @Failure 403 {object} domain.ErrorResponse
// @Security BearerAuth
// @Router /accounts/bulk/activate [post]
func (h *AccountHandler) BulkActivate(w http.ResponseWriter, r *http.Request) {
	h.bulkSetActive(w, r, true)
}

// BulkDeactivate godoc
// @Summary Bulk deactivate accounts
// @Description Deactivate the selected accounts. Admin only.
// @Tags Accounts
// @Accept json
// @Produce json
// @Param request body domain.BulkIDsRequest true "Account IDs"
// @Success 200 {object} domain.BulkUpdateResponse
// @Failure 400 {object} domain.ErrorResponse
// @Failure 401 {object} domain.ErrorResponse
// @Failure 403 {object} domain.ErrorResponse
// @Security BearerAuth
// @Router /accounts/bulk/deactivate [post]
func (h *AccountHandler) BulkDeactivate(w http.ResponseWriter, r *http.Request) {
	h.bulkSetActive(w, r, false)
}

func (h *AccountHandler) bulkSetRole(w http.ResponseWriter, r *http.Request, role domain.Role) {
	req, ok := decodeBulkIDs(w, r)
	if !ok {
		return
	}

	updated, err := h.accountService.BulkSetRole(r.Context(), req.IDs, role)
	if err != nil {
		if respondServiceError(w, err, "Account") {
			return
		}
		h.logger.Error("bulk role update failed", zap.Error(err))
		respondJSON(w, http.StatusInternalServerError, domain.ErrorResponse{
			Error:   "Internal Server Error",
			Message: "Failed to update accounts",
		})
		return
	}

	respondJSON(w, http.StatusOK, domain.BulkUpdateResponse{Updated: updated})
}

func (h *AccountHandler) bulkSetActive(w http.ResponseWriter, r *http.Request, active bool) {
	req, ok := decodeBulkIDs(w, r)
	if !ok {
		return
	}

	updated, err := h.accountService.BulkSetActive(r.Context(), req.IDs, active)
	if err != nil {
		if respondServiceError(w, err, "Account") {
			return
		}
		h.logger.Error("bulk active update failed", zap.Error(err))
		respondJSON(w, http.StatusInternalServerError, domain.ErrorResponse{
			Error:   "Internal Server Error",
			Message: "Failed to update accounts",
		})
		return
	}

	respondJSON(w, http.StatusOK, domain.BulkUpdateResponse{Updated: updated})
}

// decodeBulkIDs decodes and validates an id-selection payload, writing
// the error response itself on failure
func decodeBulkIDs(w http.ResponseWriter, r *http.Request) (*domain.BulkIDsRequest, bool) {
	var req domain.BulkIDsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSON(w, http.StatusBadRequest, domain.ErrorResponse{
			Error:   "Bad Request",
			Message: "Invalid request body",
		})
		return nil, false
	}
	if err := validate.Struct(req); err != nil {
		respondValidationError(w, err)
		return nil, false
	}
	return &req, true
}
