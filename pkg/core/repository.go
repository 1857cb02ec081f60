package core

import "context"

// Store defines the contract of the persistent key-value store notes live in.
// Values are opaque strings, as in browser local storage; encoding is the
// caller's concern. Adhering to this interface keeps the domain independent
// of the backing medium (directory, SQLite, memory).
type Store interface {
	// Get returns the value stored under key, or ErrNotFound.
	Get(ctx context.Context, key string) (string, error)

	// Set replaces the value under key. The write is atomic per key:
	// readers see either the old or the new value, never a mix.
	Set(ctx context.Context, key, value string) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Keys lists stored keys matching a glob pattern ("" or "*" for all).
	Keys(ctx context.Context, pattern string) ([]string, error)

	// Initialize ensures the underlying storage is ready (directories, schema).
	Initialize(ctx context.Context) error
}

// Watchable is implemented by stores that can report changes made by other
// processes, the equivalent of the browser "storage" event.
type Watchable interface {
	Watch(ctx context.Context, pattern string) (<-chan Event, error)
}
