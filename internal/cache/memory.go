package cache

import (
	"context"
	"strings"
	"sync"
	"time"
)

// memEntry is a stored value with its deadline. Both the entry and the
// byte slice it holds are owned by the cache; callers always get copies.
type memEntry struct {
	data     []byte
	deadline time.Time
}

func (e memEntry) expired(now time.Time) bool {
	return now.After(e.deadline)
}

// MemoryCache is an in-process Cache backed by a map under a RWMutex.
// It is the fallback backend when no Redis URL is configured.
type MemoryCache struct {
	mu      sync.RWMutex
	entries map[string]memEntry
	closed  bool

	defaultTTL time.Duration
	maxSize    int

	stopCh chan struct{}

	// counters, guarded by mu
	hits   int64
	misses int64
	sets   int64
	bytes  int64
}

// MemoryCacheOptions configures the memory cache.
type MemoryCacheOptions struct {
	DefaultTTL      time.Duration
	MaxSize         int           // entry cap, 0 = unlimited
	CleanupInterval time.Duration // sweep period for expired entries, 0 = no sweeping
}

// NewMemoryCache creates a memory cache with the given options.
func NewMemoryCache(opts MemoryCacheOptions) *MemoryCache {
	c := &MemoryCache{
		entries:    make(map[string]memEntry),
		defaultTTL: opts.DefaultTTL,
		maxSize:    opts.MaxSize,
		stopCh:     make(chan struct{}),
	}

	if opts.CleanupInterval > 0 {
		go c.sweepLoop(opts.CleanupInterval)
	}

	return c
}

// NewSimpleMemoryCache creates an unbounded memory cache with a default TTL
// and a one-minute sweep.
func NewSimpleMemoryCache(ttl time.Duration) *MemoryCache {
	return NewMemoryCache(MemoryCacheOptions{
		DefaultTTL:      ttl,
		CleanupInterval: time.Minute,
	})
}

func (c *MemoryCache) Get(_ context.Context, key string) ([]byte, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return nil, ErrCacheClosed
	}

	entry, ok := c.entries[key]
	if ok && entry.expired(time.Now()) {
		c.evict(key)
		ok = false
	}
	if !ok {
		c.misses++
		return nil, ErrCacheMiss
	}

	c.hits++
	out := make([]byte, len(entry.data))
	copy(out, entry.data)
	return out, nil
}

// Set stores a value in the cache with the specified TTL.
// A zero TTL means the cache's default TTL.
func (c *MemoryCache) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	if ttl == 0 {
		ttl = c.defaultTTL
	}

	stored := make([]byte, len(value))
	copy(stored, value)

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return ErrCacheClosed
	}

	if c.maxSize > 0 && len(c.entries) >= c.maxSize {
		c.sweepLocked(time.Now())
	}

	if old, ok := c.entries[key]; ok {
		c.bytes -= int64(len(old.data))
	}
	c.entries[key] = memEntry{data: stored, deadline: time.Now().Add(ttl)}
	c.bytes += int64(len(stored))
	c.sets++
	return nil
}

func (c *MemoryCache) Delete(_ context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return ErrCacheClosed
	}
	c.evict(key)
	return nil
}

func (c *MemoryCache) DeleteByPrefix(_ context.Context, prefix string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return ErrCacheClosed
	}
	for key := range c.entries {
		if strings.HasPrefix(key, prefix) {
			c.evict(key)
		}
	}
	return nil
}

func (c *MemoryCache) Clear(_ context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return ErrCacheClosed
	}
	c.entries = make(map[string]memEntry)
	c.bytes = 0
	return nil
}

// Has reports whether the key exists and has not expired. It does not
// count as a hit or a miss.
func (c *MemoryCache) Has(_ context.Context, key string) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return false, ErrCacheClosed
	}

	entry, ok := c.entries[key]
	if ok && entry.expired(time.Now()) {
		c.evict(key)
		ok = false
	}
	return ok, nil
}

// Close stops the sweep goroutine. Further calls on the cache return
// ErrCacheClosed. Close is idempotent.
func (c *MemoryCache) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.closed {
		c.closed = true
		close(c.stopCh)
	}
	return nil
}

// Stats returns a snapshot of the cache counters.
func (c *MemoryCache) Stats() Stats {
	c.mu.RLock()
	defer c.mu.RUnlock()

	s := Stats{
		Hits:   c.hits,
		Misses: c.misses,
		Sets:   c.sets,
		Items:  len(c.entries),
		Size:   c.bytes,
	}
	if total := s.Hits + s.Misses; total > 0 {
		s.HitRate = float64(s.Hits) / float64(total) * 100
	}
	return s
}

// ResetStats zeroes the hit/miss/set counters.
func (c *MemoryCache) ResetStats() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.hits, c.misses, c.sets = 0, 0, 0
}

// evict removes key and adjusts the byte count. Caller holds mu.
func (c *MemoryCache) evict(key string) {
	if entry, ok := c.entries[key]; ok {
		c.bytes -= int64(len(entry.data))
		delete(c.entries, key)
	}
}

// sweepLocked drops every expired entry. Caller holds mu.
func (c *MemoryCache) sweepLocked(now time.Time) {
	for key, entry := range c.entries {
		if entry.expired(now) {
			c.evict(key)
		}
	}
}

func (c *MemoryCache) sweepLoop(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			c.mu.Lock()
			if !c.closed {
				c.sweepLocked(time.Now())
			}
			c.mu.Unlock()
		case <-c.stopCh:
			return
		}
	}
}

var (
	_ Cache         = (*MemoryCache)(nil)
	_ StatsProvider = (*MemoryCache)(nil)
)
