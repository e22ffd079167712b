package service

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/authkit/authkit-go/internal/crypto"
	"github.com/authkit/authkit-go/internal/model"
	"github.com/authkit/authkit-go/internal/repository"
	"github.com/authkit/authkit-go/internal/validate"
)

// dummyPassword is hashed once and verified against when a login names an
// unknown account, so both failure paths cost one hash comparison.
const dummyPassword = "authkit-timing-equalizer"

// AuthService handles registration, login and token authentication.
type AuthService struct {
	store    repository.UserStore
	hasher   crypto.PasswordHasher
	tokens   *crypto.TokenService
	tokenTTL time.Duration

	dummyOnce sync.Once
	dummyHash string
}

// NewAuthService creates a new AuthService.
func NewAuthService(store repository.UserStore, hasher crypto.PasswordHasher, tokens *crypto.TokenService, tokenTTL time.Duration) *AuthService {
	return &AuthService{
		store:    store,
		hasher:   hasher,
		tokens:   tokens,
		tokenTTL: tokenTTL,
	}
}

// Register creates a new user account and returns it with a session token.
func (s *AuthService) Register(ctx context.Context, email, password string) (model.AuthResult, error) {
	if email == "" || password == "" {
		return model.AuthResult{}, ErrMissingField
	}
	if !validate.Email(email) {
		return model.AuthResult{}, ErrBadEmail
	}
	if !validate.Password(password) {
		return model.AuthResult{}, ErrWeakPassword
	}

	email = repository.NormalizeEmail(email)

	_, err := s.store.FindByEmail(ctx, email)
	switch {
	case err == nil:
		return model.AuthResult{}, ErrEmailTaken
	case !errors.Is(err, repository.ErrUserNotFound):
		return model.AuthResult{}, wrapInternal(err, "AUTH_REGISTER_FAILED", "find user by email")
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		if errors.Is(err, crypto.ErrPasswordTooLong) {
			return model.AuthResult{}, ErrPasswordTooLong
		}
		return model.AuthResult{}, wrapInternal(err, "AUTH_HASH_FAILED", "hash password")
	}

	user := &model.User{
		ID:           ulid.Make().String(),
		Email:        email,
		PasswordHash: hash,
		CreatedAt:    time.Now().UTC(),
	}

	// A concurrent registration may have claimed the email since the lookup.
	if err := s.store.Insert(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return model.AuthResult{}, ErrEmailTaken
		}
		return model.AuthResult{}, wrapInternal(err, "AUTH_REGISTER_FAILED", "insert user")
	}

	slog.InfoContext(ctx, "user registered", "user_id", user.ID)

	return s.issue(user)
}

// Login verifies credentials and returns the user with a session token.
// Unknown emails and wrong passwords fail with the same error.
func (s *AuthService) Login(ctx context.Context, email, password string) (model.AuthResult, error) {
	if email == "" || password == "" {
		return model.AuthResult{}, ErrMissingField
	}

	user, err := s.store.FindByEmail(ctx, repository.NormalizeEmail(email))
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			s.burnVerify(password)
			return model.AuthResult{}, ErrInvalidCredentials
		}
		return model.AuthResult{}, wrapInternal(err, "AUTH_LOGIN_FAILED", "find user by email")
	}

	match, err := s.hasher.Verify(password, user.PasswordHash)
	if err != nil {
		return model.AuthResult{}, wrapInternal(err, "AUTH_LOGIN_FAILED", "verify password")
	}
	if !match {
		return model.AuthResult{}, ErrInvalidCredentials
	}

	return s.issue(user)
}

// Authenticate verifies a session token and returns the user it names.
func (s *AuthService) Authenticate(ctx context.Context, token string) (model.UserResponse, error) {
	if token == "" {
		return model.UserResponse{}, ErrMissingToken
	}

	claims, err := s.tokens.Verify(token)
	if err != nil {
		switch {
		case errors.Is(err, crypto.ErrTokenExpired):
			return model.UserResponse{}, ErrTokenExpired
		case errors.Is(err, crypto.ErrTokenBadSignature):
			return model.UserResponse{}, ErrTokenBadSignature
		default:
			return model.UserResponse{}, ErrTokenMalformed
		}
	}

	user, err := s.store.FindByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return model.UserResponse{}, ErrUserNotFound
		}
		return model.UserResponse{}, wrapInternal(err, "AUTH_AUTHENTICATE_FAILED", "find user by id")
	}

	return user.Sanitize(), nil
}

// ListUsers returns every account without password hashes.
func (s *AuthService) ListUsers(ctx context.Context) ([]model.UserResponse, error) {
	users, err := s.store.List(ctx)
	if err != nil {
		return nil, wrapInternal(err, "AUTH_LIST_FAILED", "list users")
	}

	result := make([]model.UserResponse, len(users))
	for i, u := range users {
		result[i] = u.Sanitize()
	}
	return result, nil
}

func (s *AuthService) issue(user *model.User) (model.AuthResult, error) {
	token, err := s.tokens.Issue(user.ID, user.Email, s.tokenTTL)
	if err != nil {
		return model.AuthResult{}, wrapInternal(err, "AUTH_TOKEN_FAILED", "issue token")
	}

	return model.AuthResult{
		User:  user.Sanitize(),
		Token: token,
	}, nil
}

// burnVerify runs a password comparison whose result is discarded.
func (s *AuthService) burnVerify(password string) {
	s.dummyOnce.Do(func() {
		hash, err := s.hasher.Hash(dummyPassword)
		if err != nil {
			slog.Warn("could not prepare dummy password hash", "error", err)
			return
		}
		s.dummyHash = hash
	})
	if s.dummyHash != "" {
		_, _ = s.hasher.Verify(password, s.dummyHash)
	}
}
