package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/authkit/authkit-go/internal/config"
	"github.com/authkit/authkit-go/internal/crypto"
	"github.com/authkit/authkit-go/internal/repository"
	"github.com/authkit/authkit-go/internal/service"
)

func main() {
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	if err := godotenv.Load(); err != nil {
		slog.Warn("no .env file found, using environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	store, closeStore, err := newUserStore(ctx, cfg)
	if err != nil {
		slog.Error("user store unavailable", "backend", cfg.StoreBackend, "error", err)
		os.Exit(1)
	}
	defer closeStore()

	hasher, err := crypto.NewBcryptHasher(cfg.HashCost)
	if err != nil {
		slog.Error("invalid password hash cost", "cost", cfg.HashCost, "error", err)
		os.Exit(1)
	}
	tokens, err := crypto.NewTokenService(cfg.TokenSecret)
	if err != nil {
		slog.Error("invalid token secret", "error", err)
		os.Exit(1)
	}
	authService := service.NewAuthService(store, hasher, tokens, cfg.TokenTTL)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           newRouter(ctx, cfg, authService),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		slog.Info("server starting", "port", cfg.Port, "env", cfg.Env, "store", cfg.StoreBackend)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down server")
	stop()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("server forced shutdown", "error", err)
		os.Exit(1)
	}

	slog.Info("server stopped")
}

// newUserStore opens the configured backend. The returned func releases it.
func newUserStore(ctx context.Context, cfg config.Config) (repository.UserStore, func(), error) {
	if cfg.StoreBackend != config.StoreMySQL {
		return repository.NewMemoryUserStore(), func() {}, nil
	}

	db, err := repository.NewDB(ctx, cfg.DatabaseDSN)
	if err != nil {
		return nil, nil, err
	}

	store := repository.NewMySQLUserStore(db)
	if err := store.EnsureSchema(ctx); err != nil {
		db.Close()
		return nil, nil, err
	}

	return store, func() { db.Close() }, nil
}
