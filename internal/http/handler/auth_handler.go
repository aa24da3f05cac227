package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/stockregister/stock-api/internal/auth"
	"github.com/stockregister/stock-api/internal/domain"
	"github.com/stockregister/stock-api/internal/mapper"
	"github.com/stockregister/stock-api/internal/service"
	"go.uber.org/zap"
)

type AuthHandler struct {
	authService *service.AuthService
	logger      *zap.Logger
}

func NewAuthHandler(authService *service.AuthService, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		logger:      logger,
	}
}

// Login godoc
// @Summary Log in with username and password
// @Description Verify credentials and issue a bearer token
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body domain.LoginRequest true "Credentials"
// @Success 200 {object} domain.LoginResponse
// @Failure 400 {object} domain.ErrorResponse
// @Failure 401 {object} domain.ErrorResponse
// @Failure 500 {object} domain.ErrorResponse
// @Router /auth/login [post]
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req domain.LoginRequest
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

	result, err := h.authService.Login(r.Context(), &req)
	if err != nil {
		if errors.Is(err, service.ErrUnauthorized) {
			respondJSON(w, http.StatusUnauthorized, domain.ErrorResponse{
				Error:   "Unauthorized",
				Message: "Invalid username or password",
			})
			return
		}
		h.logger.Error("login failed", zap.Error(err))
		respondJSON(w, http.StatusInternalServerError, domain.ErrorResponse{
			Error:   "Internal Server Error",
			Message: "Failed to log in",
		})
		return
	}

	respondJSON(w, http.StatusOK, result)
}

// Me godoc
// @Summary Get the authenticated identity
// @Description Return the acting user and its linked account, if any
// @Tags Auth
// @Produce json
// @Success 200 {object} domain.MeResponse
// @Failure 401 {object} domain.ErrorResponse
// @Security BearerAuth
// @Router /auth/me [get]
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	actor := auth.MustFromContext(r.Context())

	resp := domain.MeResponse{
		User: domain.UserDTO{
			ID:          actor.UserID,
			Username:    actor.Username,
			IsSuperuser: actor.IsSuperuser,
			IsActive:    true,
		},
	}
	if actor.Account != nil {
		dto := mapper.ToAccountDTO(actor.Account)
		dto.Username = actor.Username
		resp.Account = &dto
	}

	respondJSON(w, http.StatusOK, resp)
}
