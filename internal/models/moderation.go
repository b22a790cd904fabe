package models

import "time"

// Report is one abuse report filed by a user against another user.
// The report log is append-only: reports are never deduplicated and never
// trigger automated action.
type Report struct {
	ReportedBy       string    `json:"reported_by"`
	ReportedUser     string    `json:"reported_user"`
	Reason           string    `json:"reason"`
	ReportedMessage  string    `json:"reported_message,omitempty"`
	MessageTimestamp string    `json:"message_timestamp,omitempty"`
	ReportedAt       time.Time `json:"reported_at"`
}
