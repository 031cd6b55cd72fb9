// Package cache stores layout checkpoints and other byte payloads.
//
// # Backends
//
//   - [FileCache]: one JSON file per entry under a directory (CLI default)
//   - [RedisCache]: snappy-compressed values in Redis
//   - [MongoCache]: one document per key with a TTL index
//   - [NullCache]: stores nothing
//
// [Open] builds any of them from [Options]. [Instrument] reports hits,
// misses and writes to the observability hooks, and [NewThrottled] routes
// writes through a rate-limited scheduler so a busy layout loop cannot
// flood a shared store.
//
// # Keys
//
// A [Keyer] derives keys from content hashes; [ScopedKeyer] adds a prefix
// so several deployments can share one store.
//
// # Transient failures
//
// Network backends wrap connection errors with [Retryable]; callers retry
// them with [RetryWithBackoff].
package cache

import (
	"context"
	"time"
)

// Cache stores opaque values by key. A zero ttl means no expiry.
// Implementations are safe for concurrent use.
type Cache interface {
	// Get returns the value for key and whether it was found. A missing or
	// expired entry is a miss, not an error.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases the backend.
	Close() error
}
