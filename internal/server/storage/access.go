package storage

import "context"

// AccessStorage defines the interface for the network-level IP ban list.
// The set is consulted before every authentication-affecting entry point;
// administration happens out-of-band through the admin tool.
type AccessStorage interface {
	// BlockIP adds an address to the blocked set. Idempotent.
	BlockIP(ctx context.Context, ip string) error

	// UnblockIP removes an address from the blocked set. Idempotent.
	UnblockIP(ctx context.Context, ip string) error

	// IsIPBlocked reports whether an address is in the blocked set.
	IsIPBlocked(ctx context.Context, ip string) (bool, error)

	// ListBlockedIPs returns all blocked addresses.
	ListBlockedIPs(ctx context.Context) ([]string, error)
}
