package repository

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/authkit/authkit-go/internal/model"
)

func newUser(id, email string) *model.User {
	return &model.User{
		ID:           id,
		Email:        email,
		PasswordHash: "$2a$04$hash",
		CreatedAt:    time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

func TestMemoryUserStore_InsertAndFind(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryUserStore()

	require.NoError(t, store.Insert(ctx, newUser("u1", "User@Example.COM")))

	byEmail, err := store.FindByEmail(ctx, "user@example.com")
	require.NoError(t, err)
	assert.Equal(t, "u1", byEmail.ID)
	assert.Equal(t, "user@example.com", byEmail.Email)

	byMixedCase, err := store.FindByEmail(ctx, "USER@example.com")
	require.NoError(t, err)
	assert.Equal(t, "u1", byMixedCase.ID)

	byID, err := store.FindByID(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, byEmail, byID)
}

func TestMemoryUserStore_NotFound(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryUserStore()

	_, err := store.FindByEmail(ctx, "nobody@example.com")
	assert.ErrorIs(t, err, ErrUserNotFound)

	_, err = store.FindByID(ctx, "missing")
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestMemoryUserStore_DuplicateEmail(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryUserStore()

	require.NoError(t, store.Insert(ctx, newUser("u1", "user@example.com")))

	err := store.Insert(ctx, newUser("u2", "USER@EXAMPLE.COM"))
	assert.ErrorIs(t, err, ErrDuplicateEmail)

	_, err = store.FindByID(ctx, "u2")
	assert.ErrorIs(t, err, ErrUserNotFound, "rejected record must not be stored")
}

func TestMemoryUserStore_ReturnsCopies(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryUserStore()

	original := newUser("u1", "user@example.com")
	require.NoError(t, store.Insert(ctx, original))
	original.PasswordHash = "mutated-after-insert"

	found, err := store.FindByID(ctx, "u1")
	require.NoError(t, err)
	found.Email = "mutated@example.com"

	again, err := store.FindByID(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, "user@example.com", again.Email)
	assert.Equal(t, "$2a$04$hash", again.PasswordHash)
}

func TestMemoryUserStore_ListInInsertionOrder(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryUserStore()

	empty, err := store.List(ctx)
	require.NoError(t, err)
	assert.NotNil(t, empty)
	assert.Empty(t, empty)

	for i := 0; i < 5; i++ {
		require.NoError(t, store.Insert(ctx, newUser(fmt.Sprintf("u%d", i), fmt.Sprintf("user%d@example.com", i))))
	}

	users, err := store.List(ctx)
	require.NoError(t, err)
	require.Len(t, users, 5)
	for i, u := range users {
		assert.Equal(t, fmt.Sprintf("u%d", i), u.ID)
	}
}

func TestMemoryUserStore_ConcurrentInsertSameEmail(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryUserStore()

	const n = 50
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		successes int
		dupes     int
	)

	start := make(chan struct{})
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			<-start
			err := store.Insert(ctx, newUser(fmt.Sprintf("u%d", i), "race@example.com"))

			mu.Lock()
			defer mu.Unlock()
			switch err {
			case nil:
				successes++
			case ErrDuplicateEmail:
				dupes++
			default:
				t.Errorf("Insert() unexpected error: %v", err)
			}
		}(i)
	}
	close(start)
	wg.Wait()

	assert.Equal(t, 1, successes)
	assert.Equal(t, n-1, dupes)

	users, err := store.List(ctx)
	require.NoError(t, err)
	assert.Len(t, users, 1)
}
