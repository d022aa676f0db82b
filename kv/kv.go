package kv

import (
	"context"
	"errors"
	"time"
)

// ErrKeyNotFound is returned by Get when the key is absent or expired.
var ErrKeyNotFound = errors.New("key not found")

// Store is the opaque persistence collaborator for session state.
// Long-lived hosts use it so the current session survives restarts;
// short-lived hosts can use the in-memory implementation.
type Store interface {
	// Set stores a key-value pair with optional expiration duration.
	// A zero duration means no expiry.
	Set(ctx context.Context, key, value string, exp time.Duration) error
	// Get retrieves the value associated with the given key.
	Get(ctx context.Context, key string) (string, error)
	// Del removes the key-value pair; deleting an absent key is not
	// an error.
	Del(ctx context.Context, key string) error
}
