package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/authkit/authkit-go/internal/metrics"
	"github.com/authkit/authkit-go/internal/model"
	"github.com/authkit/authkit-go/internal/respond"
	"github.com/authkit/authkit-go/internal/service"
)

type contextKey string

const userKey contextKey = "user"

// Authenticator resolves a bearer token to the account it was issued for.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (model.UserResponse, error)
}

// RequireAuth returns middleware that authenticates the Bearer token from the
// Authorization header and stores the user in the request context.
func RequireAuth(auth Authenticator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, err := auth.Authenticate(r.Context(), bearerToken(r))
			if err != nil {
				metrics.RecordAuthOperation("authenticate", service.AsError(err).Kind)
				respond.Error(w, r, err)
				return
			}
			metrics.RecordAuthOperation("authenticate", "success")

			ctx := context.WithValue(r.Context(), userKey, user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// UserFromContext extracts the authenticated user from the request context.
func UserFromContext(ctx context.Context) (model.UserResponse, bool) {
	user, ok := ctx.Value(userKey).(model.UserResponse)
	return user, ok
}

// bearerToken returns the token from "Authorization: Bearer <token>", or "".
func bearerToken(r *http.Request) string {
	token, found := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
	if !found {
		return ""
	}
	return strings.TrimSpace(token)
}
