package sqlite

import (
	"context"
	"fmt"
	"time"
)

// BlockIP adds an address to the blocked set.
func (s *Storage) BlockIP(ctx context.Context, ip string) error {
	query := `INSERT OR IGNORE INTO blocked_ips (ip, blocked_at) VALUES (?, ?)`

	if _, err := s.db.ExecContext(ctx, query, ip, time.Now()); err != nil {
		return fmt.Errorf("failed to block ip: %w", err)
	}

	return nil
}

// UnblockIP removes an address from the blocked set.
func (s *Storage) UnblockIP(ctx context.Context, ip string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM blocked_ips WHERE ip = ?`, ip); err != nil {
		return fmt.Errorf("failed to unblock ip: %w", err)
	}

	return nil
}

// IsIPBlocked reports whether an address is in the blocked set.
func (s *Storage) IsIPBlocked(ctx context.Context, ip string) (bool, error) {
	var count int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(1) FROM blocked_ips WHERE ip = ?`, ip).Scan(&count); err != nil {
		return false, fmt.Errorf("failed to query blocked ip: %w", err)
	}

	return count > 0, nil
}

// ListBlockedIPs returns all blocked addresses.
func (s *Storage) ListBlockedIPs(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT ip FROM blocked_ips ORDER BY ip`)
	if err != nil {
		return nil, fmt.Errorf("failed to list blocked ips: %w", err)
	}
	defer rows.Close()

	var ips []string
	for rows.Next() {
		var ip string
		if err := rows.Scan(&ip); err != nil {
			return nil, fmt.Errorf("failed to scan blocked ip: %w", err)
		}
		ips = append(ips, ip)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate blocked ips: %w", err)
	}

	return ips, nil
}
