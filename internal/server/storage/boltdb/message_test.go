package boltdb

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lmateo/privmsg/internal/models"
)

func TestSaveMessage_AssignsSequentialIDs(t *testing.T) {
	ctx := context.Background()
	s := setupTestStorage(t)

	for i := 1; i <= 3; i++ {
		msg := &models.Message{
			SenderID:    "u1",
			RecipientID: "u2",
			Text:        fmt.Sprintf("message %d", i),
			CreatedAt:   time.Now(),
		}
		require.NoError(t, s.SaveMessage(ctx, msg))
		assert.Equal(t, uint64(i), msg.ID)
	}
}

func TestListUserMessages(t *testing.T) {
	ctx := context.Background()
	s := setupTestStorage(t)

	send := func(from, to, text string) {
		require.NoError(t, s.SaveMessage(ctx, &models.Message{
			SenderID:    from,
			RecipientID: to,
			Text:        text,
			CreatedAt:   time.Now(),
		}))
	}

	send("alice", "bob", "hi bob")
	send("bob", "alice", "hi alice")
	send("carol", "bob", "hi from carol")
	send("carol", "dave", "unrelated")

	msgs, err := s.ListUserMessages(ctx, "bob")
	require.NoError(t, err)
	require.Len(t, msgs, 3)

	// Insertion order is preserved.
	assert.Equal(t, "hi bob", msgs[0].Text)
	assert.Equal(t, "hi alice", msgs[1].Text)
	assert.Equal(t, "hi from carol", msgs[2].Text)

	msgs, err = s.ListUserMessages(ctx, "dave")
	require.NoError(t, err)
	require.Len(t, msgs, 1)
	assert.Equal(t, "unrelated", msgs[0].Text)

	msgs, err = s.ListUserMessages(ctx, "nobody")
	require.NoError(t, err)
	assert.Empty(t, msgs)
}
