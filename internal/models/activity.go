package models

import "time"

// LoginStatus classifies the outcome of one authentication attempt.
type LoginStatus string

const (
	// LoginSuccess marks a successful credential login.
	LoginSuccess LoginStatus = "login"
	// LoginFailed marks a credential login with a wrong password.
	LoginFailed LoginStatus = "failed_login"
	// LoginExternal marks a sign-in asserted by the external identity provider.
	LoginExternal LoginStatus = "external_login"
)

// LoginHistoryLimit caps each user's login history. When the history grows
// past the limit the oldest entries are evicted first.
const LoginHistoryLimit = 50

// LoginEvent is one audit entry in a user's login history.
type LoginEvent struct {
	Timestamp time.Time   `json:"timestamp"`
	IP        string      `json:"ip"`
	Status    LoginStatus `json:"status"`
	Username  string      `json:"username"`
}

// SessionStats aggregates login activity per user. LoginCount and the
// last-seen fields are updated on every successful authentication;
// FirstLogin is set once and never changes.
type SessionStats struct {
	LoginCount int       `json:"login_count"`
	FirstLogin time.Time `json:"first_login"`
	LastLogin  time.Time `json:"last_login"`
	LastIP     string    `json:"last_ip"`
}
