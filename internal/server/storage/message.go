package storage

import (
	"context"

	"github.com/lmateo/privmsg/internal/models"
)

// MessageStorage defines the interface for message persistence.
type MessageStorage interface {
	// SaveMessage appends a message and assigns msg.ID from a monotonic
	// per-store counter starting at 1. Id assignment and append are atomic.
	SaveMessage(ctx context.Context, msg *models.Message) error

	// ListUserMessages returns every message where the user is sender or
	// recipient, in insertion order. Block filtering is applied by the
	// caller: visibility is a property of the viewer, not of the record.
	ListUserMessages(ctx context.Context, userID string) ([]*models.Message, error)
}
