package sqlite

import (
	"context"
	"fmt"
	"time"

	"github.com/lmateo/privmsg/internal/models"
)

// AddBlock records a directed block edge. INSERT OR IGNORE keeps the call
// idempotent under the composite primary key.
func (s *Storage) AddBlock(ctx context.Context, blockerID, targetID string) (bool, error) {
	query := `
		INSERT OR IGNORE INTO blocks (blocker_id, target_id, created_at)
		VALUES (?, ?, ?)
	`

	result, err := s.db.ExecContext(ctx, query, blockerID, targetID, time.Now())
	if err != nil {
		return false, fmt.Errorf("failed to insert block: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}

	return rows > 0, nil
}

// IsBlocked reports whether blockerID has blocked targetID.
func (s *Storage) IsBlocked(ctx context.Context, blockerID, targetID string) (bool, error) {
	query := `SELECT COUNT(1) FROM blocks WHERE blocker_id = ? AND target_id = ?`

	var count int
	if err := s.db.QueryRowContext(ctx, query, blockerID, targetID).Scan(&count); err != nil {
		return false, fmt.Errorf("failed to query block: %w", err)
	}

	return count > 0, nil
}

// GetBlockedIDs returns the set of user ids blocked by blockerID.
func (s *Storage) GetBlockedIDs(ctx context.Context, blockerID string) (map[string]struct{}, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT target_id FROM blocks WHERE blocker_id = ?`, blockerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list blocks: %w", err)
	}
	defer rows.Close()

	ids := make(map[string]struct{})
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan block: %w", err)
		}
		ids[id] = struct{}{}
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate blocks: %w", err)
	}

	return ids, nil
}

// SaveReport appends a report to the report log.
func (s *Storage) SaveReport(ctx context.Context, report *models.Report) error {
	query := `
		INSERT INTO reports (reported_by, reported_user, reason, reported_message, message_timestamp, reported_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`

	_, err := s.db.ExecContext(ctx, query,
		report.ReportedBy,
		report.ReportedUser,
		report.Reason,
		report.ReportedMessage,
		report.MessageTimestamp,
		report.ReportedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert report: %w", err)
	}

	return nil
}

// ListReports returns all reports in insertion order.
func (s *Storage) ListReports(ctx context.Context) ([]*models.Report, error) {
	query := `
		SELECT reported_by, reported_user, reason, reported_message, message_timestamp, reported_at
		FROM reports
		ORDER BY id
	`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list reports: %w", err)
	}
	defer rows.Close()

	var reports []*models.Report
	for rows.Next() {
		r := &models.Report{}
		err := rows.Scan(
			&r.ReportedBy,
			&r.ReportedUser,
			&r.Reason,
			&r.ReportedMessage,
			&r.MessageTimestamp,
			&r.ReportedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan report: %w", err)
		}
		reports = append(reports, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate reports: %w", err)
	}

	return reports, nil
}

// BanUsername adds a username to the banned set.
func (s *Storage) BanUsername(ctx context.Context, username string) error {
	query := `INSERT OR IGNORE INTO banned_users (username, banned_at) VALUES (?, ?)`

	if _, err := s.db.ExecContext(ctx, query, username, time.Now()); err != nil {
		return fmt.Errorf("failed to ban username: %w", err)
	}

	return nil
}

// UnbanUsername removes a username from the banned set.
func (s *Storage) UnbanUsername(ctx context.Context, username string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM banned_users WHERE username = ?`, username); err != nil {
		return fmt.Errorf("failed to unban username: %w", err)
	}

	return nil
}

// IsUsernameBanned reports whether a username is banned.
func (s *Storage) IsUsernameBanned(ctx context.Context, username string) (bool, error) {
	var count int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(1) FROM banned_users WHERE username = ?`, username).Scan(&count); err != nil {
		return false, fmt.Errorf("failed to query banned username: %w", err)
	}

	return count > 0, nil
}
