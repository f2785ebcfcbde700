// Package kv holds the string-keyed, string-valued backends the todo list is
// persisted to. Values are opaque to this package.
package kv

import "context"

// Store is a minimal key-value backend.
type Store interface {
	// Get returns the value stored under key. ok is false when the key is absent.
	Get(ctx context.Context, key string) (value string, ok bool, err error)

	// Set overwrites the value stored under key.
	Set(ctx context.Context, key, value string) error

	// Close releases the backend.
	Close() error
}
