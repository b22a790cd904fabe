package storage

import (
	"context"
	"time"

	"github.com/lmateo/privmsg/internal/models"
)

// ActivityStorage defines the interface for the login audit trail.
type ActivityStorage interface {
	// RecordLoginEvent appends an event to the user's login history and
	// evicts the oldest entries beyond models.LoginHistoryLimit. Append
	// and truncation happen in one transaction.
	RecordLoginEvent(ctx context.Context, userID string, event *models.LoginEvent) error

	// GetLoginHistory returns the user's login history in chronological
	// order, at most models.LoginHistoryLimit entries.
	GetLoginHistory(ctx context.Context, userID string) ([]*models.LoginEvent, error)

	// TouchSessionStats updates the user's session statistics for a
	// successful authentication at the given time: the first call creates
	// the record with FirstLogin=now, every call sets LastLogin and LastIP
	// and increments LoginCount by one.
	TouchSessionStats(ctx context.Context, userID, ip string, now time.Time) error

	// GetSessionStats returns the user's session statistics.
	// Returns nil without error if the user has never logged in.
	GetSessionStats(ctx context.Context, userID string) (*models.SessionStats, error)
}
