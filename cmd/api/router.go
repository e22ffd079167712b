package main

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/authkit/authkit-go/internal/config"
	"github.com/authkit/authkit-go/internal/handler"
	"github.com/authkit/authkit-go/internal/metrics"
	"github.com/authkit/authkit-go/internal/middleware"
	"github.com/authkit/authkit-go/internal/service"
)

// newRouter mounts every route. ctx bounds the rate limiter's background work.
func newRouter(ctx context.Context, cfg config.Config, authService *service.AuthService) chi.Router {
	authHandler := handler.NewAuthHandler(authService, cfg.IsDevelopment())

	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(metrics.Instrument)
	r.Use(middleware.Recoverer)
	r.Use(middleware.CORS(cfg.FrontendURL))

	r.NotFound(handler.HandleNotFound)
	r.MethodNotAllowed(handler.HandleMethodNotAllowed)

	r.Get("/", handler.HandleIndex)
	r.Get("/health", handler.HandleHealth)
	r.Method(http.MethodGet, "/metrics", metrics.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Use(middleware.RateLimit(ctx, cfg.RateLimitMax, cfg.RateLimitWindow))

		r.Post("/register", authHandler.HandleRegister)
		r.Post("/login", authHandler.HandleLogin)
		r.Get("/users", authHandler.HandleListUsers)

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAuth(authService))
			r.Get("/profile", authHandler.HandleProfile)
		})
	})

	return r
}
