package boltdb

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go.etcd.io/bbolt"

	"github.com/lmateo/privmsg/internal/models"
)

// AddBlock records a directed block edge. The read of the current list and
// the write-back run in one transaction.
func (s *Storage) AddBlock(ctx context.Context, blockerID, targetID string) (bool, error) {
	added := false

	err := s.db.Update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(bucketBlocks)

		var blocked []string
		if data := bucket.Get([]byte(blockerID)); data != nil {
			if err := json.Unmarshal(data, &blocked); err != nil {
				return fmt.Errorf("failed to unmarshal block list: %w", err)
			}
		}

		for _, id := range blocked {
			if id == targetID {
				return nil // already blocked, nothing to do
			}
		}

		blocked = append(blocked, targetID)

		data, err := json.Marshal(blocked)
		if err != nil {
			return fmt.Errorf("failed to marshal block list: %w", err)
		}

		if err := bucket.Put([]byte(blockerID), data); err != nil {
			return fmt.Errorf("failed to save block list: %w", err)
		}

		added = true
		return nil
	})
	if err != nil {
		return false, err
	}

	return added, nil
}

// IsBlocked reports whether blockerID has blocked targetID.
func (s *Storage) IsBlocked(ctx context.Context, blockerID, targetID string) (bool, error) {
	ids, err := s.GetBlockedIDs(ctx, blockerID)
	if err != nil {
		return false, err
	}

	_, ok := ids[targetID]
	return ok, nil
}

// GetBlockedIDs returns the set of user ids blocked by blockerID.
func (s *Storage) GetBlockedIDs(ctx context.Context, blockerID string) (map[string]struct{}, error) {
	ids := make(map[string]struct{})

	err := s.db.View(func(tx *bbolt.Tx) error {
		data := tx.Bucket(bucketBlocks).Get([]byte(blockerID))
		if data == nil {
			return nil
		}

		var blocked []string
		if err := json.Unmarshal(data, &blocked); err != nil {
			return fmt.Errorf("failed to unmarshal block list: %w", err)
		}

		for _, id := range blocked {
			ids[id] = struct{}{}
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return ids, nil
}

// SaveReport appends a report to the report log.
func (s *Storage) SaveReport(ctx context.Context, report *models.Report) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(bucketReports)

		seq, err := bucket.NextSequence()
		if err != nil {
			return fmt.Errorf("failed to allocate report id: %w", err)
		}

		data, err := json.Marshal(report)
		if err != nil {
			return fmt.Errorf("failed to marshal report: %w", err)
		}

		if err := bucket.Put(messageKey(seq), data); err != nil {
			return fmt.Errorf("failed to save report: %w", err)
		}

		return nil
	})
}

// ListReports returns all reports in insertion order.
func (s *Storage) ListReports(ctx context.Context) ([]*models.Report, error) {
	var reports []*models.Report

	err := s.db.View(func(tx *bbolt.Tx) error {
		return tx.Bucket(bucketReports).ForEach(func(_, data []byte) error {
			var r models.Report
			if err := json.Unmarshal(data, &r); err != nil {
				return fmt.Errorf("failed to unmarshal report: %w", err)
			}
			reports = append(reports, &r)
			return nil
		})
	})
	if err != nil {
		return nil, err
	}

	return reports, nil
}

// BanUsername adds a username to the banned set.
func (s *Storage) BanUsername(ctx context.Context, username string) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(bucketBannedUsers).Put([]byte(username), []byte(time.Now().Format(time.RFC3339)))
	})
}

// UnbanUsername removes a username from the banned set.
func (s *Storage) UnbanUsername(ctx context.Context, username string) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(bucketBannedUsers).Delete([]byte(username))
	})
}

// IsUsernameBanned reports whether a username is banned.
func (s *Storage) IsUsernameBanned(ctx context.Context, username string) (bool, error) {
	banned := false

	err := s.db.View(func(tx *bbolt.Tx) error {
		banned = tx.Bucket(bucketBannedUsers).Get([]byte(username)) != nil
		return nil
	})
	if err != nil {
		return false, err
	}

	return banned, nil
}
