package kv

import (
	"context"
	"errors"
)

// Sentinel errors for store operations.
var (
	// ErrNotFound is returned by Get when the key has no value.
	ErrNotFound = errors.New("kv: key not found")

	// ErrEmptyKey is returned when an operation receives an empty key.
	ErrEmptyKey = errors.New("kv: empty key")
)

// Store is a string key-value persistence boundary.
// Implementations must be safe for concurrent use.
type Store interface {
	// Get returns the value stored under key, or ErrNotFound.
	Get(ctx context.Context, key string) (string, error)

	// Set stores value under key, replacing any previous value.
	Set(ctx context.Context, key, value string) error

	// Remove deletes key. Removing a missing key is not an error.
	Remove(ctx context.Context, key string) error
}
