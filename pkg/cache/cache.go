// Package cache stores transpilation results between runs.
//
// A [Cache] is a byte store with per-entry TTL. Three implementations ship
// with the package:
//
//   - [FileCache]: one JSON file per entry under a directory (CLI default)
//   - [RedisCache]: a shared Redis instance (server deployments)
//   - [NullCache]: stores nothing (--no-cache)
//
// Keys come from a [Keyer] so that every caller derives the same key for the
// same source, backend and pass list. [ScopedKeyer] prefixes keys when several
// tenants share one cache.
//
// Cache failures are never fatal: callers log them and treat the entry as a
// miss.
package cache

import (
	"context"
	"time"
)

// TTLResult is how long a transpilation result stays cached. Results are a
// pure function of their key, so the TTL only bounds disk usage.
const TTLResult = 7 * 24 * time.Hour

// Cache is a key/value byte store.
//
// Get reports a miss with (nil, false, nil); an error means the backend
// itself failed. A ttl of 0 stores without expiry.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}
