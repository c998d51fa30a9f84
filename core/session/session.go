// Package session defines the server-side session kept for a logged in student.
package session

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

var ErrNotFound = errors.New("session not found")

// Identity is what a session remembers about the authenticated student.
type Identity struct {
	Email      string `json:"email"`
	BatchName  string `json:"batchname"`
	BranchName string `json:"branchname"`
}

// Store keeps identities keyed by session ID.
type Store interface {
	// Get returns ErrNotFound for unknown or expired sessions.
	Get(ctx context.Context, id string) (Identity, error)
	Save(ctx context.Context, id string, ident Identity, ttl time.Duration) error
	// Delete removes a session. Deleting an unknown session is not an error.
	Delete(ctx context.Context, id string) error
	// Close releases the connection to the backing store.
	Close() error
}

// NewID returns a new random session ID.
func NewID() string {
	return uuid.New().String()
}
