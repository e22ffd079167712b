package repository

import (
	"context"
	"sync"

	"github.com/authkit/authkit-go/internal/model"
)

// MemoryUserStore keeps users in process memory. Everything is lost on restart.
type MemoryUserStore struct {
	mu      sync.RWMutex
	byEmail map[string]*model.User
	byID    map[string]*model.User
	order   []*model.User
}

// NewMemoryUserStore creates an empty MemoryUserStore.
func NewMemoryUserStore() *MemoryUserStore {
	return &MemoryUserStore{
		byEmail: make(map[string]*model.User),
		byID:    make(map[string]*model.User),
	}
}

// FindByEmail retrieves a user by their email address.
func (s *MemoryUserStore) FindByEmail(_ context.Context, email string) (*model.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.byEmail[NormalizeEmail(email)]
	if !ok {
		return nil, ErrUserNotFound
	}
	clone := *u
	return &clone, nil
}

// FindByID retrieves a user by their ID.
func (s *MemoryUserStore) FindByID(_ context.Context, id string) (*model.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.byID[id]
	if !ok {
		return nil, ErrUserNotFound
	}
	clone := *u
	return &clone, nil
}

// Insert adds user unless its normalized email is already present.
func (s *MemoryUserStore) Insert(_ context.Context, user *model.User) error {
	key := NormalizeEmail(user.Email)

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.byEmail[key]; exists {
		return ErrDuplicateEmail
	}

	stored := *user
	stored.Email = key
	s.byEmail[key] = &stored
	s.byID[stored.ID] = &stored
	s.order = append(s.order, &stored)
	return nil
}

// List returns a snapshot of all users in insertion order.
func (s *MemoryUserStore) List(_ context.Context) ([]model.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	users := make([]model.User, len(s.order))
	for i, u := range s.order {
		users[i] = *u
	}
	return users, nil
}
