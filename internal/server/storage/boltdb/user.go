package boltdb

import (
	"context"
	"encoding/json"
	"fmt"

	"go.etcd.io/bbolt"

	"github.com/lmateo/privmsg/internal/models"
	"github.com/lmateo/privmsg/internal/server/storage"
)

// CreateUser creates a new user. The duplicate check and the insert run in
// one write transaction.
func (s *Storage) CreateUser(ctx context.Context, user *models.User) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(bucketUsers)

		if bucket.Get([]byte(user.Username)) != nil {
			return storage.ErrUserAlreadyExists
		}

		data, err := json.Marshal(user)
		if err != nil {
			return fmt.Errorf("failed to marshal user: %w", err)
		}

		if err := bucket.Put([]byte(user.Username), data); err != nil {
			return fmt.Errorf("failed to save user: %w", err)
		}

		return nil
	})
}

// GetUserByUsername retrieves a user by username.
func (s *Storage) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	var user *models.User

	err := s.db.View(func(tx *bbolt.Tx) error {
		data := tx.Bucket(bucketUsers).Get([]byte(username))
		if data == nil {
			return storage.ErrUserNotFound
		}

		user = &models.User{}
		if err := json.Unmarshal(data, user); err != nil {
			return fmt.Errorf("failed to unmarshal user: %w", err)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return user, nil
}

// GetUserByID retrieves a user by ID. Users are keyed by username, so this
// is a bucket scan; the user set is small enough that an id index is not
// worth the bookkeeping.
func (s *Storage) GetUserByID(ctx context.Context, userID string) (*models.User, error) {
	var user *models.User

	err := s.db.View(func(tx *bbolt.Tx) error {
		return tx.Bucket(bucketUsers).ForEach(func(_, data []byte) error {
			var u models.User
			if err := json.Unmarshal(data, &u); err != nil {
				return fmt.Errorf("failed to unmarshal user: %w", err)
			}
			if u.ID == userID {
				user = &u
			}
			return nil
		})
	})
	if err != nil {
		return nil, err
	}

	if user == nil {
		return nil, storage.ErrUserNotFound
	}

	return user, nil
}

// ListUsers returns all users.
func (s *Storage) ListUsers(ctx context.Context) ([]*models.User, error) {
	var users []*models.User

	err := s.db.View(func(tx *bbolt.Tx) error {
		return tx.Bucket(bucketUsers).ForEach(func(_, data []byte) error {
			var u models.User
			if err := json.Unmarshal(data, &u); err != nil {
				return fmt.Errorf("failed to unmarshal user: %w", err)
			}
			users = append(users, &u)
			return nil
		})
	})
	if err != nil {
		return nil, err
	}

	return users, nil
}
