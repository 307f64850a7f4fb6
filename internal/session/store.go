// Package session keeps server-side login sessions.
// For single-node deployments, sessions live in process memory.
// For multi-node deployments, they are kept in Redis.
package session

import (
	"context"
	"time"
)

// Store is a key/value store with per-key expiry.
type Store interface {
	// Get retrieves a value by key.
	// Returns ErrNotFound if the key doesn't exist or has expired.
	Get(ctx context.Context, key string) ([]byte, error)

	// Set stores a value with a TTL.
	// If ttl is 0, the value doesn't expire.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// Delete removes a value by key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases the store's resources.
	Close() error
}

// StoreError represents a session store error type.
type StoreError string

const (
	// ErrNotFound indicates the key was not found in the store.
	ErrNotFound StoreError = "session not found"

	// ErrUnavailable indicates the store could not be reached.
	ErrUnavailable StoreError = "session store unavailable"
)

func (e StoreError) Error() string {
	return string(e)
}
