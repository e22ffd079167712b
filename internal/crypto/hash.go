package crypto

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// DefaultHashCost is the bcrypt cost used when none is configured.
const DefaultHashCost = 12

var (
	ErrInvalidHashCost  = fmt.Errorf("hash cost must be between %d and %d", bcrypt.MinCost, bcrypt.MaxCost)
	ErrPasswordTooLong  = errors.New("password exceeds 72 bytes")
	ErrInvalidHashFormat = errors.New("invalid encoded hash format")
)

// PasswordHasher hashes passwords and checks candidates against stored digests.
type PasswordHasher interface {
	// Hash produces a salted digest of the password.
	Hash(password string) (string, error)

	// Verify reports whether password matches digest.
	// Returns (false, nil) on mismatch and an error only for an unreadable digest.
	Verify(password, digest string) (bool, error)
}

// BcryptHasher implements PasswordHasher using bcrypt with a fixed cost.
type BcryptHasher struct {
	cost int
}

// NewBcryptHasher creates a BcryptHasher with the given cost factor.
func NewBcryptHasher(cost int) (*BcryptHasher, error) {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		return nil, ErrInvalidHashCost
	}
	return &BcryptHasher{cost: cost}, nil
}

// Cost returns the configured bcrypt cost.
func (h *BcryptHasher) Cost() int {
	return h.cost
}

// Hash hashes a password with a fresh random salt.
// The salt and cost are embedded in the returned digest.
func (h *BcryptHasher) Hash(password string) (string, error) {
	digest, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	if err != nil {
		if errors.Is(err, bcrypt.ErrPasswordTooLong) {
			return "", ErrPasswordTooLong
		}
		return "", fmt.Errorf("generating hash: %w", err)
	}
	return string(digest), nil
}

// Verify checks password against a bcrypt digest in constant time.
func (h *BcryptHasher) Verify(password, digest string) (bool, error) {
	err := bcrypt.CompareHashAndPassword([]byte(digest), []byte(password))
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, bcrypt.ErrMismatchedHashAndPassword):
		return false, nil
	case errors.Is(err, bcrypt.ErrPasswordTooLong):
		// Nothing over the limit was ever stored.
		return false, nil
	default:
		return false, ErrInvalidHashFormat
	}
}
