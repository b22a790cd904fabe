package storage

import (
	"context"

	"github.com/lmateo/privmsg/internal/models"
)

// ModerationStorage defines the interface for block edges, abuse reports
// and the banned-username set.
//
// Block edges are directed and keyed by the acting party: the set returned
// by GetBlockedIDs(x) holds the user ids that x has blocked. The same edge
// set serves both enforcement points (mailbox visibility and send-time
// denial); it is never mirrored.
type ModerationStorage interface {
	// AddBlock records that blockerID blocks targetID. Returns false if
	// the edge already existed; the call is idempotent either way.
	AddBlock(ctx context.Context, blockerID, targetID string) (bool, error)

	// IsBlocked reports whether blockerID has blocked targetID.
	IsBlocked(ctx context.Context, blockerID, targetID string) (bool, error)

	// GetBlockedIDs returns the set of user ids blocked by blockerID.
	GetBlockedIDs(ctx context.Context, blockerID string) (map[string]struct{}, error)

	// SaveReport appends a report. Reports are never deduplicated.
	SaveReport(ctx context.Context, report *models.Report) error

	// ListReports returns all reports in insertion order.
	ListReports(ctx context.Context) ([]*models.Report, error)

	// BanUsername adds a username to the banned set. Banning an already
	// banned username is a no-op.
	BanUsername(ctx context.Context, username string) error

	// UnbanUsername removes a username from the banned set.
	UnbanUsername(ctx context.Context, username string) error

	// IsUsernameBanned reports whether a username is banned. The ban is
	// independent of the account: it holds even if the account is gone.
	IsUsernameBanned(ctx context.Context, username string) (bool, error)
}
