package api

import "time"

// Message is one private message as exposed by the API.
type Message struct {
	ID            uint64    `json:"id"`
	SenderID      string    `json:"sender_id"`
	SenderName    string    `json:"sender_name"`
	RecipientID   string    `json:"recipient_id"`
	RecipientName string    `json:"recipient_name"`
	Text          string    `json:"text"`
	Timestamp     time.Time `json:"timestamp"`
}

// MessagesResponse is returned by GET /api/v1/messages.
type MessagesResponse struct {
	Messages []Message `json:"messages"`
}

// SendMessageRequest is the body of POST /api/v1/messages.
type SendMessageRequest struct {
	RecipientID string `json:"recipient_id"`
	Text        string `json:"text"`
}

// UserSummary is one entry of the user directory.
type UserSummary struct {
	ID       string `json:"id"`
	Username string `json:"username"`
}

// UsersResponse is returned by GET /api/v1/users. The requesting user is
// excluded from the list.
type UsersResponse struct {
	Users []UserSummary `json:"users"`
}

// BlockRequest is the body of POST /api/v1/blocks.
type BlockRequest struct {
	Username string `json:"username"`
}

// BlockResponse reports the outcome of a block request. Blocking is
// idempotent: blocking an already-blocked user succeeds with
// AlreadyBlocked set.
type BlockResponse struct {
	Username       string `json:"username"`
	AlreadyBlocked bool   `json:"already_blocked"`
}

// ReportRequest is the body of POST /api/v1/reports.
type ReportRequest struct {
	ReportedUser     string `json:"reported_user"`
	Reason           string `json:"reason"`
	ReportedMessage  string `json:"reported_message,omitempty"`
	MessageTimestamp string `json:"message_timestamp,omitempty"`
}
