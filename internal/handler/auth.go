package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/authkit/authkit-go/internal/metrics"
	"github.com/authkit/authkit-go/internal/middleware"
	"github.com/authkit/authkit-go/internal/model"
	"github.com/authkit/authkit-go/internal/respond"
	"github.com/authkit/authkit-go/internal/service"
)

const maxBodyBytes = 1 << 20 // 1MB

// AuthHandler handles HTTP requests for authentication.
type AuthHandler struct {
	service         *service.AuthService
	diagnosticsOpen bool
}

// NewAuthHandler creates a new AuthHandler. diagnosticsOpen enables the user
// listing endpoint and must only be true in development.
func NewAuthHandler(svc *service.AuthService, diagnosticsOpen bool) *AuthHandler {
	return &AuthHandler{service: svc, diagnosticsOpen: diagnosticsOpen}
}

// HandleRegister handles POST /api/register requests.
func (h *AuthHandler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeCredentials(w, r)
	if !ok {
		return
	}

	res, err := h.service.Register(r.Context(), req.Email, req.Password)
	if err != nil {
		metrics.RecordAuthOperation("register", service.AsError(err).Kind)
		respond.Error(w, r, err)
		return
	}
	metrics.RecordAuthOperation("register", "success")

	respond.JSON(w, http.StatusCreated, model.AuthResponse{
		Success: true,
		Message: "account created",
		Data:    res.User,
		Token:   res.Token,
	})
}

// HandleLogin handles POST /api/login requests.
func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeCredentials(w, r)
	if !ok {
		return
	}

	res, err := h.service.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		metrics.RecordAuthOperation("login", service.AsError(err).Kind)
		respond.Error(w, r, err)
		return
	}
	metrics.RecordAuthOperation("login", "success")

	respond.JSON(w, http.StatusOK, model.AuthResponse{
		Success: true,
		Message: "login successful",
		Data:    res.User,
		Token:   res.Token,
	})
}

// HandleProfile handles GET /api/profile requests. It must sit behind
// middleware.RequireAuth.
func (h *AuthHandler) HandleProfile(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		respond.Error(w, r, service.ErrMissingToken)
		return
	}

	respond.JSON(w, http.StatusOK, model.ProfileResponse{Success: true, Data: user})
}

// HandleListUsers handles GET /api/users requests.
func (h *AuthHandler) HandleListUsers(w http.ResponseWriter, r *http.Request) {
	if !h.diagnosticsOpen {
		respond.Error(w, r, service.ErrEndpointDisabled)
		return
	}

	users, err := h.service.ListUsers(r.Context())
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.JSON(w, http.StatusOK, model.UserListResponse{
		Success: true,
		Count:   len(users),
		Data:    users,
	})
}

// decodeCredentials reads the request body, writing the error response itself
// when the body cannot be used.
func decodeCredentials(w http.ResponseWriter, r *http.Request) (model.CredentialsRequest, bool) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	var req model.CredentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			respond.Message(w, http.StatusRequestEntityTooLarge, "request body too large", "body_too_large")
			return req, false
		}
		respond.Message(w, http.StatusBadRequest, "invalid request body", "invalid_body")
		return req, false
	}

	return req, true
}
