package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/authkit/authkit-go/internal/crypto"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"

	StoreMemory = "memory"
	StoreMySQL  = "mysql"
)

var ErrInsecureSecret = errors.New("TOKEN_SECRET must be set outside development")

type Config struct {
	Port            string
	Env             string
	TokenSecret     string
	TokenTTL        time.Duration
	HashCost        int
	FrontendURL     string
	RateLimitMax    int
	RateLimitWindow time.Duration
	StoreBackend    string
	DatabaseDSN     string
}

// IsDevelopment reports whether development-only behavior is enabled:
// the fallback token secret and the user listing endpoint.
func (c Config) IsDevelopment() bool {
	return c.Env == EnvDevelopment
}

// Load reads the configuration from the environment.
func Load() (Config, error) {
	cfg := Config{
		Port:         getEnv("PORT", "5000"),
		Env:          getEnv("ENVIRONMENT_MODE", EnvDevelopment),
		TokenSecret:  getEnv("TOKEN_SECRET", crypto.DevTokenSecret),
		FrontendURL:  getEnv("FRONTEND_URL", "*"),
		StoreBackend: getEnv("STORE_BACKEND", StoreMemory),
		DatabaseDSN:  getEnv("DATABASE_DSN", "root:password@tcp(127.0.0.1:3306)/authkit?parseTime=true"),
	}

	var err error
	if cfg.TokenTTL, err = getDuration("TOKEN_TTL", crypto.DefaultTokenTTL); err != nil {
		return Config{}, err
	}
	if cfg.RateLimitWindow, err = getDuration("RATE_LIMIT_WINDOW", 15*time.Minute); err != nil {
		return Config{}, err
	}
	if cfg.HashCost, err = getInt("PASSWORD_HASH_COST", crypto.DefaultHashCost); err != nil {
		return Config{}, err
	}
	if cfg.RateLimitMax, err = getInt("RATE_LIMIT_MAX", 100); err != nil {
		return Config{}, err
	}

	if err := cfg.validate(); err != nil {
		return Config{}, err
	}

	if cfg.TokenSecret == crypto.DevTokenSecret {
		slog.Warn("TOKEN_SECRET not set, signing tokens with the insecure development secret")
	}

	return cfg, nil
}

func (c Config) validate() error {
	if c.Env != EnvDevelopment && c.Env != EnvProduction {
		return fmt.Errorf("unknown ENVIRONMENT_MODE %q, want %q or %q", c.Env, EnvDevelopment, EnvProduction)
	}
	if !c.IsDevelopment() && c.TokenSecret == crypto.DevTokenSecret {
		return ErrInsecureSecret
	}
	if c.TokenTTL <= 0 {
		return fmt.Errorf("TOKEN_TTL must be positive, got %s", c.TokenTTL)
	}
	if c.RateLimitMax <= 0 || c.RateLimitWindow <= 0 {
		return fmt.Errorf("rate limit must be positive, got %d per %s", c.RateLimitMax, c.RateLimitWindow)
	}
	if c.StoreBackend != StoreMemory && c.StoreBackend != StoreMySQL {
		return fmt.Errorf("unknown STORE_BACKEND %q", c.StoreBackend)
	}
	return nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("parsing %s: %w", key, err)
	}
	return d, nil
}

func getInt(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("parsing %s: %w", key, err)
	}
	return n, nil
}
