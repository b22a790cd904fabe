package boltdb

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lmateo/privmsg/internal/models"
	"github.com/lmateo/privmsg/internal/server/storage"
)

func TestCreateUser(t *testing.T) {
	ctx := context.Background()
	s := setupTestStorage(t)

	user := &models.User{
		ID:           uuid.New().String(),
		Username:     "alice",
		PasswordHash: "hash123",
		CreatedAt:    time.Now(),
	}

	require.NoError(t, s.CreateUser(ctx, user))

	got, err := s.GetUserByUsername(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, user.ID, got.ID)
	assert.Equal(t, user.Username, got.Username)
	assert.Equal(t, user.PasswordHash, got.PasswordHash)
	assert.False(t, got.External)
}

func TestCreateUser_DuplicateUsername(t *testing.T) {
	ctx := context.Background()
	s := setupTestStorage(t)

	first := &models.User{
		ID:           uuid.New().String(),
		Username:     "duplicate",
		PasswordHash: "original-hash",
		CreatedAt:    time.Now(),
	}
	require.NoError(t, s.CreateUser(ctx, first))

	second := &models.User{
		ID:           uuid.New().String(),
		Username:     "duplicate",
		PasswordHash: "other-hash",
		CreatedAt:    time.Now(),
	}
	err := s.CreateUser(ctx, second)
	assert.ErrorIs(t, err, storage.ErrUserAlreadyExists)

	// The first account must be untouched.
	got, err := s.GetUserByUsername(ctx, "duplicate")
	require.NoError(t, err)
	assert.Equal(t, first.ID, got.ID)
	assert.Equal(t, "original-hash", got.PasswordHash)
}

func TestGetUserByID(t *testing.T) {
	ctx := context.Background()
	s := setupTestStorage(t)

	user := &models.User{
		ID:        uuid.New().String(),
		Username:  "bob",
		CreatedAt: time.Now(),
		External:  true,
	}
	require.NoError(t, s.CreateUser(ctx, user))

	got, err := s.GetUserByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "bob", got.Username)
	assert.True(t, got.External)

	_, err = s.GetUserByID(ctx, "no-such-id")
	assert.ErrorIs(t, err, storage.ErrUserNotFound)
}

func TestGetUserByUsername_NotFound(t *testing.T) {
	ctx := context.Background()
	s := setupTestStorage(t)

	_, err := s.GetUserByUsername(ctx, "ghost")
	assert.ErrorIs(t, err, storage.ErrUserNotFound)
}

func TestListUsers(t *testing.T) {
	ctx := context.Background()
	s := setupTestStorage(t)

	for _, name := range []string{"alice", "bob", "carol"} {
		require.NoError(t, s.CreateUser(ctx, &models.User{
			ID:        uuid.New().String(),
			Username:  name,
			CreatedAt: time.Now(),
		}))
	}

	users, err := s.ListUsers(ctx)
	require.NoError(t, err)
	assert.Len(t, users, 3)
}
