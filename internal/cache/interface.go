// Package cache provides caching infrastructure for labeld.
package cache

import (
	"context"
	"time"
)

// Cache is a byte store with TTLs. Implementations must be safe for
// concurrent use; values are []byte so the same interface covers the
// in-process and Redis backends.
type Cache interface {
	// Get returns the value for key, or ErrCacheMiss if absent or expired.
	Get(ctx context.Context, key string) ([]byte, error)

	// Set stores value under key. A zero ttl means the backend default.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// Delete removes key. Deleting an absent key is not an error.
	Delete(ctx context.Context, key string) error

	// DeleteByPrefix removes every key under prefix.
	DeleteByPrefix(ctx context.Context, prefix string) error

	// Clear empties the cache.
	Clear(ctx context.Context) error

	// Has reports whether key is present and unexpired.
	Has(ctx context.Context, key string) (bool, error)

	// Close releases backend resources. The cache is unusable afterwards.
	Close() error
}

// Stats is a point-in-time snapshot of cache counters.
type Stats struct {
	Hits    int64   `json:"hits"`
	Misses  int64   `json:"misses"`
	Sets    int64   `json:"sets"`
	Items   int     `json:"items"`
	HitRate float64 `json:"hit_rate"`
	Size    int64   `json:"size"`
}

// StatsProvider is implemented by backends that track counters.
type StatsProvider interface {
	Stats() Stats
	ResetStats()
}

// Error is a sentinel error type for cache conditions.
type Error string

func (e Error) Error() string { return string(e) }

const (
	ErrCacheMiss   Error = "cache miss"
	ErrCacheClosed Error = "cache closed"
)
