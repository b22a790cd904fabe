package boltdb

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go.etcd.io/bbolt"

	"github.com/lmateo/privmsg/internal/models"
)

// RecordLoginEvent appends an event to the user's login history and drops
// the oldest entries beyond models.LoginHistoryLimit. Read, append and
// truncation run in one transaction.
func (s *Storage) RecordLoginEvent(ctx context.Context, userID string, event *models.LoginEvent) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(bucketLoginHistory)

		var history []*models.LoginEvent
		if data := bucket.Get([]byte(userID)); data != nil {
			if err := json.Unmarshal(data, &history); err != nil {
				return fmt.Errorf("failed to unmarshal login history: %w", err)
			}
		}

		history = append(history, event)
		if len(history) > models.LoginHistoryLimit {
			history = history[len(history)-models.LoginHistoryLimit:]
		}

		data, err := json.Marshal(history)
		if err != nil {
			return fmt.Errorf("failed to marshal login history: %w", err)
		}

		if err := bucket.Put([]byte(userID), data); err != nil {
			return fmt.Errorf("failed to save login history: %w", err)
		}

		return nil
	})
}

// GetLoginHistory returns the user's login history in chronological order.
func (s *Storage) GetLoginHistory(ctx context.Context, userID string) ([]*models.LoginEvent, error) {
	var history []*models.LoginEvent

	err := s.db.View(func(tx *bbolt.Tx) error {
		data := tx.Bucket(bucketLoginHistory).Get([]byte(userID))
		if data == nil {
			return nil
		}

		if err := json.Unmarshal(data, &history); err != nil {
			return fmt.Errorf("failed to unmarshal login history: %w", err)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return history, nil
}

// TouchSessionStats updates the user's session statistics for a successful
// authentication.
func (s *Storage) TouchSessionStats(ctx context.Context, userID, ip string, now time.Time) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(bucketSessionStats)

		stats := &models.SessionStats{FirstLogin: now}
		if data := bucket.Get([]byte(userID)); data != nil {
			stats = &models.SessionStats{}
			if err := json.Unmarshal(data, stats); err != nil {
				return fmt.Errorf("failed to unmarshal session stats: %w", err)
			}
		}

		stats.LoginCount++
		stats.LastLogin = now
		stats.LastIP = ip

		data, err := json.Marshal(stats)
		if err != nil {
			return fmt.Errorf("failed to marshal session stats: %w", err)
		}

		if err := bucket.Put([]byte(userID), data); err != nil {
			return fmt.Errorf("failed to save session stats: %w", err)
		}

		return nil
	})
}

// GetSessionStats returns the user's session statistics, or nil if the
// user has never logged in.
func (s *Storage) GetSessionStats(ctx context.Context, userID string) (*models.SessionStats, error) {
	var stats *models.SessionStats

	err := s.db.View(func(tx *bbolt.Tx) error {
		data := tx.Bucket(bucketSessionStats).Get([]byte(userID))
		if data == nil {
			return nil
		}

		stats = &models.SessionStats{}
		if err := json.Unmarshal(data, stats); err != nil {
			return fmt.Errorf("failed to unmarshal session stats: %w", err)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return stats, nil
}
