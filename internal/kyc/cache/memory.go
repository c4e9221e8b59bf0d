package cache

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"vaultly/internal/kyc/metrics"
	"vaultly/internal/kyc/models"
	id "vaultly/pkg/domain"
	"vaultly/pkg/requestcontext"
)

type memoryEntry struct {
	status    models.KYCStatus
	fetchedAt time.Time
}

// MemoryCache is a per-process TTL cache. Concurrent misses for the same
// account are collapsed into a single fetch.
type MemoryCache struct {
	ttl     time.Duration
	metrics *metrics.Metrics

	group   singleflight.Group
	mu      sync.RWMutex
	entries map[id.AccountID]memoryEntry
}

func NewMemoryCache(ttl time.Duration, m *metrics.Metrics) *MemoryCache {
	return &MemoryCache{
		ttl:     ttl,
		metrics: m,
		entries: make(map[id.AccountID]memoryEntry),
	}
}

func (c *MemoryCache) GetOrFetch(ctx context.Context, accountID id.AccountID, fetch FetchFunc) (models.KYCStatus, error) {
	now := requestcontext.Now(ctx)

	if entry, ok := c.lookup(accountID); ok && now.Sub(entry.fetchedAt) < c.ttl {
		c.metrics.RecordCacheRead("hit")
		return entry.status, nil
	}

	result, err, _ := c.group.Do(accountID.String(), func() (any, error) {
		// A concurrent caller may have refreshed the entry while this one
		// waited on the flight group.
		if entry, ok := c.lookup(accountID); ok && now.Sub(entry.fetchedAt) < c.ttl {
			c.metrics.RecordCacheRead("hit")
			return entry.status, nil
		}

		status, err := fetch(ctx)
		if err != nil {
			if entry, ok := c.lookup(accountID); ok {
				c.metrics.RecordCacheRead("stale")
				return entry.status, nil
			}
			return nil, err
		}

		c.mu.Lock()
		c.entries[accountID] = memoryEntry{status: status, fetchedAt: now}
		c.mu.Unlock()

		c.metrics.RecordCacheRead("miss")
		return status, nil
	})
	if err != nil {
		return models.KYCStatus{}, err
	}
	return result.(models.KYCStatus), nil
}

func (c *MemoryCache) Invalidate(_ context.Context, accountID id.AccountID) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	delete(c.entries, accountID)
	return nil
}

func (c *MemoryCache) ClearAll(_ context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries = make(map[id.AccountID]memoryEntry)
	return nil
}

func (c *MemoryCache) lookup(accountID id.AccountID) (memoryEntry, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	entry, ok := c.entries[accountID]
	return entry, ok
}
