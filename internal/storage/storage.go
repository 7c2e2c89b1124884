// Package storage defines the pluggable storage abstraction (spec
// §4.5) and its in-memory engine. Tables are created lazily on first
// access; a missing key on a read/contains/del is never an error —
// NotFound is a dispatcher-level policy decision (internal/service),
// not a storage one.
package storage

import "github.com/sunnywhy/kv/internal/wire"

// Storage is the table-of-hashes abstraction every command dispatches
// against. Implementations must be safe for concurrent use from many
// connection goroutines.
type Storage interface {
	// Get returns the stored value and true if key exists in table.
	Get(table, key string) (wire.Value, bool, error)

	// Set stores value under key in table, returning the previous
	// value and true if one existed.
	Set(table, key string, value wire.Value) (wire.Value, bool, error)

	// Contains reports whether key exists in table.
	Contains(table, key string) (bool, error)

	// Del removes key from table, returning the previous value and
	// true if one existed.
	Del(table, key string) (wire.Value, bool, error)

	// GetAll returns an unordered snapshot of every pair in table.
	GetAll(table string) ([]wire.KvPair, error)

	// GetIter returns a lazy iterator over a snapshot of table, safe
	// against concurrent mutation of the live table.
	GetIter(table string) (Iterator, error)
}

// Iterator walks a storage snapshot one pair at a time.
type Iterator interface {
	// Next returns the next pair and true, or a zero pair and false
	// once exhausted.
	Next() (wire.KvPair, bool)
}
