package service

import (
	"errors"

	"github.com/samber/oops"
)

// Category groups error kinds by how the transport layer should treat them.
type Category string

const (
	CategoryValidation Category = "validation"
	CategoryConflict   Category = "conflict"
	CategoryAuth       Category = "auth"
	CategoryForbidden  Category = "forbidden"
	CategoryInternal   Category = "internal"
)

// Error is a business-rule failure with a stable, machine-readable kind.
// Each kind has exactly one sentinel value, so errors.Is matches by identity.
type Error struct {
	Category Category
	Kind     string
	Message  string
}

func (e *Error) Error() string {
	return e.Message
}

func newError(category Category, kind, msg string) *Error {
	return &Error{Category: category, Kind: kind, Message: msg}
}

var (
	ErrMissingField       = newError(CategoryValidation, "missing_field", "email and password are required")
	ErrBadEmail           = newError(CategoryValidation, "bad_email", "please provide a valid email")
	ErrWeakPassword       = newError(CategoryValidation, "weak_password", "password must be at least 6 characters")
	ErrPasswordTooLong    = newError(CategoryValidation, "password_too_long", "password must be at most 72 bytes")
	ErrEmailTaken         = newError(CategoryConflict, "email_taken", "an account with this email already exists")
	ErrInvalidCredentials = newError(CategoryAuth, "invalid_credentials", "invalid credentials")
	ErrMissingToken       = newError(CategoryAuth, "missing_token", "access token required")
	ErrTokenMalformed     = newError(CategoryAuth, "token_malformed", "invalid token")
	ErrTokenBadSignature  = newError(CategoryAuth, "token_bad_signature", "invalid token")
	ErrTokenExpired       = newError(CategoryAuth, "token_expired", "token has expired")
	ErrUserNotFound       = newError(CategoryAuth, "user_not_found", "user not found")
	ErrEndpointDisabled   = newError(CategoryForbidden, "endpoint_disabled", "endpoint not available in production")
	ErrInternal           = newError(CategoryInternal, "internal", "internal server error")
)

// internalError wraps an unexpected failure so it matches ErrInternal while
// keeping the cause and its context for logging.
type internalError struct {
	cause error
}

func (e *internalError) Error() string { return e.cause.Error() }

func (e *internalError) Unwrap() []error { return []error{ErrInternal, e.cause} }

func wrapInternal(err error, code, operation string) error {
	return &internalError{
		cause: oops.Code(code).With("operation", operation).Wrap(err),
	}
}

// AsError returns the typed business error carried by err.
// Anything unrecognized is reported as ErrInternal.
func AsError(err error) *Error {
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return ErrInternal
}
