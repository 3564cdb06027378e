package port

import (
	"context"
	"time"
)

// Record is a single versioned entry in the store. Version starts at 1 on
// first write and increases by one on every successful PutVersioned.
type Record struct {
	Key     string
	Value   []byte
	Version uint64
}

// Store defines the shared key-value state backing the waiting rooms.
// Implementations must be concurrency-safe and atomic at single-key
// granularity; there are no cross-key transactions, so callers must treat
// every read-modify-write as potentially conflicting.
//
// Values are opaque bytes; serialization is the caller's concern.
type Store interface {
	// Get fetches the record at key. Misses return ErrNotFound.
	Get(ctx context.Context, key string) (Record, error)

	// PutVersioned writes value at key only if the stored version equals
	// expect (expect 0 means "key must not exist"). On success it returns the
	// new version; a version mismatch returns ErrConflict and leaves the
	// stored record untouched. ttl <= 0 removes any expiry from the key.
	PutVersioned(ctx context.Context, key string, value []byte, expect uint64, ttl time.Duration) (uint64, error)

	// Delete removes the key. Deleting an absent key is a no-op.
	Delete(ctx context.Context, key string) error

	// List returns every live record whose key starts with prefix. Ordering
	// is backend-defined; callers must not rely on it beyond stability within
	// a single call.
	List(ctx context.Context, prefix string) ([]Record, error)

	// Close releases any resources held by the store.
	Close() error
}

// ErrNotFound signals a missing key in a typed way so callers can
// distinguish misses from transport errors.
var ErrNotFound = errNotFound{}

type errNotFound struct{}

func (e errNotFound) Error() string { return "store: not found" }

// ErrConflict signals that a PutVersioned lost the race against a concurrent
// writer: the stored version no longer matches the one the caller read.
var ErrConflict = errConflict{}

type errConflict struct{}

func (e errConflict) Error() string { return "store: version conflict" }
