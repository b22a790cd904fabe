// Package boltdb implements the server storage interfaces on top of a
// single bbolt file. Every logical collection lives in its own bucket;
// bbolt serializes writers, which gives each compound read-modify-write
// cycle the exclusive access the storage contract requires.
package boltdb

import (
	"context"
	"fmt"

	"go.etcd.io/bbolt"

	"github.com/lmateo/privmsg/internal/server/storage"
)

var _ storage.Storage = (*Storage)(nil)

// Bucket names, one per logical collection.
var (
	bucketUsers        = []byte("users")         // username -> JSON user
	bucketTokens       = []byte("tokens")        // token -> JSON refresh token
	bucketMessages     = []byte("messages")      // big-endian id -> JSON message
	bucketBlocks       = []byte("blocks")        // blocker id -> JSON list of blocked ids
	bucketReports      = []byte("reports")       // sequence -> JSON report
	bucketBannedUsers  = []byte("banned_users")  // username -> RFC3339 ban time
	bucketBlockedIPs   = []byte("blocked_ips")   // ip -> RFC3339 block time
	bucketLoginHistory = []byte("login_history") // user id -> JSON list of events
	bucketSessionStats = []byte("session_stats") // user id -> JSON stats
)

// Storage is the bbolt-backed implementation of storage.Storage.
type Storage struct {
	db *bbolt.DB
}

// New opens (or creates) the bbolt database at dbPath and initializes the
// collection buckets.
func New(ctx context.Context, dbPath string) (*Storage, error) {
	db, err := bbolt.Open(dbPath, 0600, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to open boltdb: %w", err)
	}

	s := &Storage{db: db}

	if err := s.initBuckets(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize buckets: %w", err)
	}

	return s, nil
}

// Close closes the database.
func (s *Storage) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *Storage) initBuckets() error {
	buckets := [][]byte{
		bucketUsers,
		bucketTokens,
		bucketMessages,
		bucketBlocks,
		bucketReports,
		bucketBannedUsers,
		bucketBlockedIPs,
		bucketLoginHistory,
		bucketSessionStats,
	}

	return s.db.Update(func(tx *bbolt.Tx) error {
		for _, name := range buckets {
			if _, err := tx.CreateBucketIfNotExists(name); err != nil {
				return fmt.Errorf("failed to create bucket %s: %w", name, err)
			}
		}
		return nil
	})
}
