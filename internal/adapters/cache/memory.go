package cache

import (
	"context"
	"sync"
	"time"

	"github.com/okian/readiness/internal/domain/model"
	"github.com/okian/readiness/pkg/metrics"
)

type entry struct {
	results []model.AlertResult
	expires time.Time
}

// MemoryCache is an in-process Cache with per-entry expiry.
type MemoryCache struct {
	mu      sync.RWMutex
	entries map[model.Date]entry
	now     func() time.Time
}

var _ Cache = (*MemoryCache)(nil)

// MemoryOption configures a MemoryCache.
type MemoryOption func(*MemoryCache)

// WithClock replaces time.Now, for tests.
func WithClock(now func() time.Time) MemoryOption {
	return func(c *MemoryCache) {
		if now != nil {
			c.now = now
		}
	}
}

// NewMemoryCache creates an empty MemoryCache.
func NewMemoryCache(opts ...MemoryOption) *MemoryCache {
	c := &MemoryCache{
		entries: make(map[model.Date]entry),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *MemoryCache) Get(_ context.Context, day model.Date) ([]model.AlertResult, bool, error) {
	c.mu.RLock()
	e, ok := c.entries[day]
	c.mu.RUnlock()

	if !ok || (!e.expires.IsZero() && !c.now().Before(e.expires)) {
		metrics.RecordCacheRequest("miss")
		return nil, false, nil
	}
	metrics.RecordCacheRequest("hit")
	out := make([]model.AlertResult, len(e.results))
	copy(out, e.results)
	return out, true, nil
}

func (c *MemoryCache) Set(_ context.Context, day model.Date, results []model.AlertResult, ttl time.Duration) error {
	e := entry{results: make([]model.AlertResult, len(results))}
	copy(e.results, results)
	if ttl > 0 {
		e.expires = c.now().Add(ttl)
	}

	c.mu.Lock()
	c.entries[day] = e
	c.mu.Unlock()
	return nil
}

func (c *MemoryCache) Invalidate(_ context.Context, days ...model.Date) error {
	c.mu.Lock()
	for _, d := range days {
		delete(c.entries, d)
	}
	c.mu.Unlock()
	return nil
}

// Close drops every entry.
func (c *MemoryCache) Close() error {
	c.mu.Lock()
	c.entries = make(map[model.Date]entry)
	c.mu.Unlock()
	return nil
}
