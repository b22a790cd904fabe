package sqlite

import (
	"context"
	"fmt"

	"github.com/lmateo/privmsg/internal/models"
)

// SaveMessage appends a message. AUTOINCREMENT assigns ids monotonically
// starting at 1 and never reuses them.
func (s *Storage) SaveMessage(ctx context.Context, msg *models.Message) error {
	query := `
		INSERT INTO messages (sender_id, sender_name, recipient_id, recipient_name, body, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`

	result, err := s.db.ExecContext(ctx, query,
		msg.SenderID,
		msg.SenderName,
		msg.RecipientID,
		msg.RecipientName,
		msg.Text,
		msg.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert message: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get message id: %w", err)
	}
	msg.ID = uint64(id)

	return nil
}

// ListUserMessages returns every message sent or received by the user, in
// insertion order.
func (s *Storage) ListUserMessages(ctx context.Context, userID string) ([]*models.Message, error) {
	query := `
		SELECT id, sender_id, sender_name, recipient_id, recipient_name, body, created_at
		FROM messages
		WHERE sender_id = ? OR recipient_id = ?
		ORDER BY id
	`

	rows, err := s.db.QueryContext(ctx, query, userID, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list messages: %w", err)
	}
	defer rows.Close()

	var messages []*models.Message
	for rows.Next() {
		msg := &models.Message{}
		err := rows.Scan(
			&msg.ID,
			&msg.SenderID,
			&msg.SenderName,
			&msg.RecipientID,
			&msg.RecipientName,
			&msg.Text,
			&msg.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan message: %w", err)
		}
		messages = append(messages, msg)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate messages: %w", err)
	}

	return messages, nil
}
