// Package memstore persists key/value memory entries behind a small Store
// interface with SQLite and Postgres backends.
package memstore

import "context"

// Store is a durable key/value table for the memory provider. Implementations
// must be safe for concurrent use; writes for the same key serialize at the
// database layer.
type Store interface {
	// Get returns the value for key. The bool reports whether the key exists.
	Get(ctx context.Context, key string) (string, bool, error)
	// Set inserts or replaces the value for key.
	Set(ctx context.Context, key, value string) error
	Close() error
}
