package cache

import (
	"context"
	"time"
)

var _ Cache = (*NullCache)(nil)

// NullCache backs --no-cache and the Redis-unreachable fallback. Every
// transpile run against it recomputes the result and reports cache_hit=false.
type NullCache struct{}

// NewNullCache returns a cache that discards writes and misses on every read.
func NewNullCache() Cache { return &NullCache{} }

func (*NullCache) Get(context.Context, string) ([]byte, bool, error) { return nil, false, nil }

func (*NullCache) Set(context.Context, string, []byte, time.Duration) error { return nil }

func (*NullCache) Delete(context.Context, string) error { return nil }

func (*NullCache) Close() error { return nil }
