package handler

import (
	"net/http"

	"github.com/authkit/authkit-go/internal/respond"
)

// Version is reported by the root endpoint.
const Version = "1.0.0"

type indexResponse struct {
	Message   string            `json:"message"`
	Version   string            `json:"version"`
	Endpoints map[string]string `json:"endpoints"`
}

// HandleIndex handles GET / with a short description of the API.
func HandleIndex(w http.ResponseWriter, r *http.Request) {
	respond.JSON(w, http.StatusOK, indexResponse{
		Message: "authkit API is running",
		Version: Version,
		Endpoints: map[string]string{
			"register": "POST /api/register",
			"login":    "POST /api/login",
			"profile":  "GET /api/profile",
			"users":    "GET /api/users (development only)",
		},
	})
}

// HandleHealth handles GET /health.
func HandleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("ok"))
}

// HandleNotFound answers unknown routes.
func HandleNotFound(w http.ResponseWriter, r *http.Request) {
	respond.Message(w, http.StatusNotFound, "route not found", "not_found")
}

// HandleMethodNotAllowed answers known routes called with the wrong method.
func HandleMethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	respond.Message(w, http.StatusMethodNotAllowed, "method not allowed", "method_not_allowed")
}
