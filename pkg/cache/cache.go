package cache

import (
	"context"
	"time"
)

// Entry is a cached value together with the time it was written, so callers
// can apply their own freshness rules on top of the TTL.
type Entry struct {
	Value     []byte    `json:"value"`
	Timestamp time.Time `json:"timestamp"`
}

// Age returns how long ago the entry was written.
func (e *Entry) Age(now time.Time) time.Duration {
	return now.Sub(e.Timestamp)
}

// Cache defines the offline cache collaborator: a TTL key-value store with
// connectivity detection. Mutating flows consult Online to decide between a
// live write and an offline enqueue.
type Cache interface {
	// Put stores value (JSON-encoded) under key with the given TTL.
	Put(ctx context.Context, key string, value any, ttl time.Duration) error

	// Get unmarshals the cached value for key into dest. It returns false
	// when the key is absent or expired.
	Get(ctx context.Context, key string, dest any) (bool, error)

	// GetEntry returns the raw cached entry with its write timestamp, or
	// nil when the key is absent or expired.
	GetEntry(ctx context.Context, key string) (*Entry, error)

	// Online reports whether the backing connectivity probe considers the
	// process connected.
	Online(ctx context.Context) bool
}
