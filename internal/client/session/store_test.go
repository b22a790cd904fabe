package session

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestStore(t *testing.T) *Store {
	t.Helper()

	store, err := New(context.Background(), filepath.Join(t.TempDir(), "session.db"))
	require.NoError(t, err)
	t.Cleanup(func() {
		require.NoError(t, store.Close())
	})
	return store
}

func TestStore_SaveGetDelete(t *testing.T) {
	ctx := context.Background()
	store := setupTestStore(t)

	_, err := store.Get(ctx)
	assert.ErrorIs(t, err, ErrNotAuthenticated)

	sess := &Session{
		UserID:       "user-1",
		Username:     "alice",
		AccessToken:  "access",
		RefreshToken: "refresh",
		ExpiresAt:    time.Now().Add(15 * time.Minute),
	}
	require.NoError(t, store.Save(ctx, sess))

	got, err := store.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, "alice", got.Username)
	assert.Equal(t, "access", got.AccessToken)
	assert.False(t, got.Expired())

	require.NoError(t, store.Delete(ctx))
	_, err = store.Get(ctx)
	assert.ErrorIs(t, err, ErrNotAuthenticated)

	assert.ErrorIs(t, store.Delete(ctx), ErrNotAuthenticated)
}

func TestSession_Expired(t *testing.T) {
	sess := &Session{ExpiresAt: time.Now().Add(-time.Minute)}
	assert.True(t, sess.Expired())

	sess.ExpiresAt = time.Now().Add(time.Minute)
	assert.False(t, sess.Expired())
}
