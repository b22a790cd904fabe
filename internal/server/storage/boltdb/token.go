package boltdb

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go.etcd.io/bbolt"

	"github.com/lmateo/privmsg/internal/models"
	"github.com/lmateo/privmsg/internal/server/storage"
)

// SaveRefreshToken stores a refresh token, replacing any existing token
// with the same value.
func (s *Storage) SaveRefreshToken(ctx context.Context, token *models.RefreshToken) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		data, err := json.Marshal(token)
		if err != nil {
			return fmt.Errorf("failed to marshal token: %w", err)
		}

		if err := tx.Bucket(bucketTokens).Put([]byte(token.Token), data); err != nil {
			return fmt.Errorf("failed to save token: %w", err)
		}

		return nil
	})
}

// GetRefreshToken retrieves a refresh token by its value.
func (s *Storage) GetRefreshToken(ctx context.Context, token string) (*models.RefreshToken, error) {
	var rt *models.RefreshToken

	err := s.db.View(func(tx *bbolt.Tx) error {
		data := tx.Bucket(bucketTokens).Get([]byte(token))
		if data == nil {
			return storage.ErrTokenNotFound
		}

		rt = &models.RefreshToken{}
		if err := json.Unmarshal(data, rt); err != nil {
			return fmt.Errorf("failed to unmarshal token: %w", err)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return rt, nil
}

// DeleteRefreshToken deletes a refresh token by its value.
func (s *Storage) DeleteRefreshToken(ctx context.Context, token string) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(bucketTokens)

		if bucket.Get([]byte(token)) == nil {
			return storage.ErrTokenNotFound
		}

		return bucket.Delete([]byte(token))
	})
}

// DeleteUserTokens deletes all refresh tokens of a user.
func (s *Storage) DeleteUserTokens(ctx context.Context, userID string) (int, error) {
	deleted := 0

	err := s.db.Update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(bucketTokens)

		var keys [][]byte
		err := bucket.ForEach(func(k, data []byte) error {
			var rt models.RefreshToken
			if err := json.Unmarshal(data, &rt); err != nil {
				return fmt.Errorf("failed to unmarshal token: %w", err)
			}
			if rt.UserID == userID {
				keys = append(keys, append([]byte(nil), k...))
			}
			return nil
		})
		if err != nil {
			return err
		}

		for _, k := range keys {
			if err := bucket.Delete(k); err != nil {
				return fmt.Errorf("failed to delete token: %w", err)
			}
			deleted++
		}

		return nil
	})
	if err != nil {
		return 0, err
	}

	return deleted, nil
}

// DeleteExpiredTokens removes all tokens whose expiry is in the past.
func (s *Storage) DeleteExpiredTokens(ctx context.Context) (int, error) {
	deleted := 0
	now := time.Now()

	err := s.db.Update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(bucketTokens)

		var keys [][]byte
		err := bucket.ForEach(func(k, data []byte) error {
			var rt models.RefreshToken
			if err := json.Unmarshal(data, &rt); err != nil {
				return fmt.Errorf("failed to unmarshal token: %w", err)
			}
			if now.After(rt.ExpiresAt) {
				keys = append(keys, append([]byte(nil), k...))
			}
			return nil
		})
		if err != nil {
			return err
		}

		for _, k := range keys {
			if err := bucket.Delete(k); err != nil {
				return fmt.Errorf("failed to delete token: %w", err)
			}
			deleted++
		}

		return nil
	})
	if err != nil {
		return 0, err
	}

	return deleted, nil
}
