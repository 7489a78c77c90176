// Package storage defines the durable key-value store the session is persisted in.
package storage

import "context"

// KV is a string key-value store that survives process restarts.
// SetMany and Delete apply all keys or none.
type KV interface {
	// Get returns the value and whether the key is present.
	Get(ctx context.Context, key string) (string, bool, error)
	// SetMany writes all pairs together.
	SetMany(ctx context.Context, pairs map[string]string) error
	// Delete removes the keys together; absent keys are ignored.
	Delete(ctx context.Context, keys ...string) error
}

// Watcher is implemented by backends that can observe writes made by other processes.
type Watcher interface {
	// Watch blocks until ctx is done, calling onChange after each external modification.
	Watch(ctx context.Context, onChange func()) error
}

// Backend names accepted by configuration.
const (
	BackendMemory = "memory"
	BackendFile   = "file"
	BackendSQLite = "sqlite"
)
