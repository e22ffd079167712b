// Package respond writes JSON bodies and maps service errors onto HTTP status
// codes. Handlers and middleware share it so every failure has the same shape.
package respond

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/authkit/authkit-go/internal/model"
	"github.com/authkit/authkit-go/internal/service"
)

// JSON writes v with the given status.
func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// Message writes an error body with an explicit status, message and code.
func Message(w http.ResponseWriter, status int, msg, code string) {
	JSON(w, status, model.ErrorResponse{Success: false, Message: msg, Code: code})
}

// Error writes err as an error body. Internal failures are logged with their
// cause and reported to the client with a generic message only.
func Error(w http.ResponseWriter, r *http.Request, err error) {
	e := service.AsError(err)
	if e == service.ErrInternal {
		slog.ErrorContext(r.Context(), "request failed", "method", r.Method, "path", r.URL.Path, "error", err)
	}
	Message(w, Status(e), e.Message, e.Kind)
}

// Status returns the HTTP status code for a service error.
func Status(e *service.Error) int {
	switch {
	case errors.Is(e, service.ErrTokenMalformed):
		return http.StatusForbidden
	case errors.Is(e, service.ErrUserNotFound):
		return http.StatusNotFound
	}

	switch e.Category {
	case service.CategoryValidation:
		return http.StatusBadRequest
	case service.CategoryConflict:
		return http.StatusConflict
	case service.CategoryAuth:
		return http.StatusUnauthorized
	case service.CategoryForbidden:
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}
