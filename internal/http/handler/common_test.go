package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stockregister/stock-api/internal/domain"
	"github.com/stockregister/stock-api/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRespondServiceError(t *testing.T) {
	cases := []struct {
		name       string
		err        error
		wantStatus int
		handled    bool
	}{
		{"not found", service.ErrNotFound, http.StatusNotFound, true},
		{"permission denied", service.ErrPermissionDenied, http.StatusForbidden, true},
		{"no account", service.ErrNoAccount, http.StatusForbidden, true},
		{"conflict", service.ErrConflict, http.StatusConflict, true},
		{"invalid input", service.ErrInvalidInput, http.StatusBadRequest, true},
		{"field error", &domain.FieldError{Field: "status", Message: "bad"}, http.StatusBadRequest, true},
		{"unknown error falls through", errors.New("boom"), 0, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			handled := respondServiceError(rec, tc.err, "Stock")
			assert.Equal(t, tc.handled, handled)
			if tc.handled {
				assert.Equal(t, tc.wantStatus, rec.Code)
				assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
			}
		})
	}
}

func TestRespondFieldError_Envelope(t *testing.T) {
	rec := httptest.NewRecorder()
	respondFieldError(rec, &domain.FieldError{Field: "resolutionNotes", Message: "Resolution notes are required"})

	require.Equal(t, http.StatusBadRequest, rec.Code)

	var body domain.APIError
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "Validation Error", body.Title)
	assert.Equal(t, "Resolution notes are required", body.Errors["resolutionNotes"])
}

func TestValidationErrorMessages(t *testing.T) {
	req := &domain.CreateAccountRequest{
		Username: "alice",
		Email:    "not-an-email",
		Password: "short",
	}
	err := validate.Struct(req)
	require.Error(t, err)

	rec := httptest.NewRecorder()
	respondValidationError(rec, err)

	require.Equal(t, http.StatusBadRequest, rec.Code)

	var body domain.APIError
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "Must be a valid email address", body.Errors["email"])
	assert.Equal(t, "Must be at least 8 characters", body.Errors["password"])
}

func TestParsePagination(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/api/v1/stocks?page=3&pageSize=10", nil)
	page, pageSize := parsePagination(r)
	assert.Equal(t, 3, page)
	assert.Equal(t, 10, pageSize)

	r = httptest.NewRequest(http.MethodGet, "/api/v1/stocks?page=-1&pageSize=junk", nil)
	page, pageSize = parsePagination(r)
	assert.Equal(t, 1, page)
	assert.Equal(t, 20, pageSize)
}
