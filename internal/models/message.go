package models

import "time"

// Message is one private text message. Messages are immutable once stored;
// there is no editing or deletion.
//
// IDs are assigned by the store as a monotonically increasing integer
// starting at 1. Sender and recipient usernames are denormalized into the
// record at send time so the mailbox can be rendered without extra lookups.
type Message struct {
	ID            uint64    `json:"id"`
	SenderID      string    `json:"sender_id"`
	SenderName    string    `json:"sender_name"`
	RecipientID   string    `json:"recipient_id"`
	RecipientName string    `json:"recipient_name"`
	Text          string    `json:"text"`
	CreatedAt     time.Time `json:"created_at"`
}
