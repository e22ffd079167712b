package repository

import (
	"context"
	"errors"
	"strings"

	"github.com/authkit/authkit-go/internal/model"
)

var (
	ErrUserNotFound   = errors.New("user not found")
	ErrDuplicateEmail = errors.New("email already exists")
)

// UserStore persists user records keyed by normalized email.
type UserStore interface {
	// FindByEmail returns the user with the given email, compared case-insensitively.
	FindByEmail(ctx context.Context, email string) (*model.User, error)

	// FindByID returns the user with the given id.
	FindByID(ctx context.Context, id string) (*model.User, error)

	// Insert stores user, failing with ErrDuplicateEmail if its email is taken.
	// The check and the write happen as one step.
	Insert(ctx context.Context, user *model.User) error

	// List returns every user in creation order.
	List(ctx context.Context) ([]model.User, error)
}

// NormalizeEmail returns the canonical form used as the uniqueness key.
func NormalizeEmail(email string) string {
	return strings.ToLower(email)
}
