package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/lmateo/privmsg/internal/models"
)

// RecordLoginEvent appends an event to the user's login history and drops
// the oldest entries beyond models.LoginHistoryLimit in one transaction.
func (s *Storage) RecordLoginEvent(ctx context.Context, userID string, event *models.LoginEvent) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // rollback after commit is a no-op

	insert := `
		INSERT INTO login_events (user_id, username, status, ip, created_at)
		VALUES (?, ?, ?, ?, ?)
	`
	if _, err := tx.ExecContext(ctx, insert, userID, event.Username, string(event.Status), event.IP, event.Timestamp); err != nil {
		return fmt.Errorf("failed to insert login event: %w", err)
	}

	truncate := `
		DELETE FROM login_events
		WHERE user_id = ? AND id NOT IN (
			SELECT id FROM login_events
			WHERE user_id = ?
			ORDER BY id DESC
			LIMIT ?
		)
	`
	if _, err := tx.ExecContext(ctx, truncate, userID, userID, models.LoginHistoryLimit); err != nil {
		return fmt.Errorf("failed to truncate login history: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit login event: %w", err)
	}

	return nil
}

// GetLoginHistory returns the user's login history in chronological order.
func (s *Storage) GetLoginHistory(ctx context.Context, userID string) ([]*models.LoginEvent, error) {
	query := `
		SELECT username, status, ip, created_at
		FROM login_events
		WHERE user_id = ?
		ORDER BY id
	`

	rows, err := s.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list login events: %w", err)
	}
	defer rows.Close()

	var history []*models.LoginEvent
	for rows.Next() {
		event := &models.LoginEvent{}
		var status string
		if err := rows.Scan(&event.Username, &status, &event.IP, &event.Timestamp); err != nil {
			return nil, fmt.Errorf("failed to scan login event: %w", err)
		}
		event.Status = models.LoginStatus(status)
		history = append(history, event)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate login events: %w", err)
	}

	return history, nil
}

// TouchSessionStats updates the user's session statistics for a successful
// authentication. The upsert initializes FirstLogin once; every call bumps
// LoginCount and refreshes the last-seen fields.
func (s *Storage) TouchSessionStats(ctx context.Context, userID, ip string, now time.Time) error {
	query := `
		INSERT INTO session_stats (user_id, login_count, first_login, last_login, last_ip)
		VALUES (?, 1, ?, ?, ?)
		ON CONFLICT(user_id) DO UPDATE SET
			login_count = login_count + 1,
			last_login = excluded.last_login,
			last_ip = excluded.last_ip
	`

	if _, err := s.db.ExecContext(ctx, query, userID, now, now, ip); err != nil {
		return fmt.Errorf("failed to touch session stats: %w", err)
	}

	return nil
}

// GetSessionStats returns the user's session statistics, or nil if the
// user has never logged in.
func (s *Storage) GetSessionStats(ctx context.Context, userID string) (*models.SessionStats, error) {
	query := `
		SELECT login_count, first_login, last_login, last_ip
		FROM session_stats
		WHERE user_id = ?
	`

	stats := &models.SessionStats{}
	err := s.db.QueryRowContext(ctx, query, userID).Scan(
		&stats.LoginCount,
		&stats.FirstLogin,
		&stats.LastLogin,
		&stats.LastIP,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get session stats: %w", err)
	}

	return stats, nil
}
