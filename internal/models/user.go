package models

import "time"

// User represents an account in the system.
//
// Accounts are created either through local registration (with a password)
// or on first sign-in through the external identity provider, in which case
// PasswordHash is empty and External is true. Usernames are unique and
// case-sensitive; the ID is never reused.
type User struct {
	ID           string    `json:"id"`            // UUID, or the asserted id for external accounts
	Username     string    `json:"username"`      // unique, primary lookup key
	PasswordHash string    `json:"password_hash"` // empty for external accounts
	CreatedAt    time.Time `json:"created_at"`
	External     bool      `json:"external"`
}

// RefreshToken represents a refresh token held server-side so that logout
// can revoke it.
type RefreshToken struct {
	Token     string    `json:"token"`
	UserID    string    `json:"user_id"`
	ExpiresAt time.Time `json:"expires_at"`
	CreatedAt time.Time `json:"created_at"`
}
