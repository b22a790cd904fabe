package boltdb

import (
	"context"
	"encoding/binary"
	"encoding/json"
	"fmt"

	"go.etcd.io/bbolt"

	"github.com/lmateo/privmsg/internal/models"
)

// SaveMessage appends a message. The id comes from the bucket sequence, so
// ids are monotonically increasing starting at 1 and are never reused; the
// big-endian key keeps bucket iteration in insertion order.
func (s *Storage) SaveMessage(ctx context.Context, msg *models.Message) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(bucketMessages)

		id, err := bucket.NextSequence()
		if err != nil {
			return fmt.Errorf("failed to allocate message id: %w", err)
		}
		msg.ID = id

		data, err := json.Marshal(msg)
		if err != nil {
			return fmt.Errorf("failed to marshal message: %w", err)
		}

		if err := bucket.Put(messageKey(id), data); err != nil {
			return fmt.Errorf("failed to save message: %w", err)
		}

		return nil
	})
}

// ListUserMessages returns every message sent or received by the user, in
// insertion order.
func (s *Storage) ListUserMessages(ctx context.Context, userID string) ([]*models.Message, error) {
	var messages []*models.Message

	err := s.db.View(func(tx *bbolt.Tx) error {
		return tx.Bucket(bucketMessages).ForEach(func(_, data []byte) error {
			var m models.Message
			if err := json.Unmarshal(data, &m); err != nil {
				return fmt.Errorf("failed to unmarshal message: %w", err)
			}
			if m.SenderID == userID || m.RecipientID == userID {
				messages = append(messages, &m)
			}
			return nil
		})
	})
	if err != nil {
		return nil, err
	}

	return messages, nil
}

func messageKey(id uint64) []byte {
	key := make([]byte, 8)
	binary.BigEndian.PutUint64(key, id)
	return key
}
