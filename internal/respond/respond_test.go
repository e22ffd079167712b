package respond

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/authkit/authkit-go/internal/model"
	"github.com/authkit/authkit-go/internal/service"
)

func TestStatus(t *testing.T) {
	tests := []struct {
		err  *service.Error
		want int
	}{
		{service.ErrMissingField, http.StatusBadRequest},
		{service.ErrBadEmail, http.StatusBadRequest},
		{service.ErrWeakPassword, http.StatusBadRequest},
		{service.ErrPasswordTooLong, http.StatusBadRequest},
		{service.ErrEmailTaken, http.StatusConflict},
		{service.ErrInvalidCredentials, http.StatusUnauthorized},
		{service.ErrMissingToken, http.StatusUnauthorized},
		{service.ErrTokenBadSignature, http.StatusUnauthorized},
		{service.ErrTokenExpired, http.StatusUnauthorized},
		{service.ErrTokenMalformed, http.StatusForbidden},
		{service.ErrUserNotFound, http.StatusNotFound},
		{service.ErrEndpointDisabled, http.StatusForbidden},
		{service.ErrInternal, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.err.Kind, func(t *testing.T) {
			assert.Equal(t, tt.want, Status(tt.err))
		})
	}
}

func TestErrorHidesInternalDetail(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/profile", nil)

	Error(rec, req, errors.New("dial tcp 10.0.0.5:3306: connection refused"))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var body model.ErrorResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.False(t, body.Success)
	assert.Equal(t, "internal server error", body.Message)
	assert.Equal(t, "internal", body.Code)
}

func TestErrorCarriesKind(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/register", nil)

	Error(rec, req, service.ErrEmailTaken)

	assert.Equal(t, http.StatusConflict, rec.Code)

	var body model.ErrorResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.Equal(t, service.ErrEmailTaken.Message, body.Message)
	assert.Equal(t, "email_taken", body.Code)
}
