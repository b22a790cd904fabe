package boltdb

import (
	"context"
	"time"

	"go.etcd.io/bbolt"
)

// BlockIP adds an address to the blocked set.
func (s *Storage) BlockIP(ctx context.Context, ip string) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(bucketBlockedIPs).Put([]byte(ip), []byte(time.Now().Format(time.RFC3339)))
	})
}

// UnblockIP removes an address from the blocked set.
func (s *Storage) UnblockIP(ctx context.Context, ip string) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(bucketBlockedIPs).Delete([]byte(ip))
	})
}

// IsIPBlocked reports whether an address is in the blocked set.
func (s *Storage) IsIPBlocked(ctx context.Context, ip string) (bool, error) {
	blocked := false

	err := s.db.View(func(tx *bbolt.Tx) error {
		blocked = tx.Bucket(bucketBlockedIPs).Get([]byte(ip)) != nil
		return nil
	})
	if err != nil {
		return false, err
	}

	return blocked, nil
}

// ListBlockedIPs returns all blocked addresses.
func (s *Storage) ListBlockedIPs(ctx context.Context) ([]string, error) {
	var ips []string

	err := s.db.View(func(tx *bbolt.Tx) error {
		return tx.Bucket(bucketBlockedIPs).ForEach(func(k, _ []byte) error {
			ips = append(ips, string(k))
			return nil
		})
	})
	if err != nil {
		return nil, err
	}

	return ips, nil
}
