// Package storage defines the persistence interfaces of the server. Each
// interface covers one aggregate; implementations must run every compound
// read-modify-write cycle (check-then-insert, append-then-truncate,
// append-then-id-assign) inside a single storage transaction so that
// concurrent requests cannot lose updates.
package storage

import (
	"context"
	"io"

	"github.com/lmateo/privmsg/internal/models"
)

// UserStorage defines the interface for account persistence.
type UserStorage interface {
	// CreateUser creates a new user. The uniqueness check and the insert
	// are atomic. Returns ErrUserAlreadyExists if the username is taken.
	CreateUser(ctx context.Context, user *models.User) error

	// GetUserByUsername retrieves a user by username.
	// Returns ErrUserNotFound if the user doesn't exist.
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)

	// GetUserByID retrieves a user by ID.
	// Returns ErrUserNotFound if the user doesn't exist.
	GetUserByID(ctx context.Context, userID string) (*models.User, error)

	// ListUsers returns all users in no particular order.
	ListUsers(ctx context.Context) ([]*models.User, error)
}

// Storage bundles every persistence interface the server needs plus the
// Close method of the underlying database.
type Storage interface {
	UserStorage
	TokenStorage
	MessageStorage
	ModerationStorage
	AccessStorage
	ActivityStorage
	io.Closer
}
