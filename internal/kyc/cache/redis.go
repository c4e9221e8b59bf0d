package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"

	"vaultly/internal/kyc/metrics"
	"vaultly/internal/kyc/models"
	id "vaultly/pkg/domain"
)

const (
	freshKeyPrefix = "kyc:status:"
	staleKeyPrefix = "kyc:status:stale:"

	// Expired values stay readable this long for fallback when the store
	// is unreachable.
	staleRetention = time.Hour
)

// RedisCache is a shared TTL cache for multi-node deployments. Alongside each
// fresh entry it keeps a longer-lived stale copy used only when the
// authoritative fetch fails.
type RedisCache struct {
	rdb     redis.Cmdable
	ttl     time.Duration
	metrics *metrics.Metrics
	group   singleflight.Group
}

func NewRedisCache(rdb redis.Cmdable, ttl time.Duration, m *metrics.Metrics) *RedisCache {
	return &RedisCache{rdb: rdb, ttl: ttl, metrics: m}
}

func (c *RedisCache) GetOrFetch(ctx context.Context, accountID id.AccountID, fetch FetchFunc) (models.KYCStatus, error) {
	if status, ok := c.read(ctx, freshKeyPrefix+accountID.String()); ok {
		c.metrics.RecordCacheRead("hit")
		return status, nil
	}

	result, err, _ := c.group.Do(accountID.String(), func() (any, error) {
		if status, ok := c.read(ctx, freshKeyPrefix+accountID.String()); ok {
			c.metrics.RecordCacheRead("hit")
			return status, nil
		}

		status, err := fetch(ctx)
		if err != nil {
			if stale, ok := c.read(ctx, staleKeyPrefix+accountID.String()); ok {
				c.metrics.RecordCacheRead("stale")
				return stale, nil
			}
			return nil, err
		}

		c.write(ctx, accountID, status)
		c.metrics.RecordCacheRead("miss")
		return status, nil
	})
	if err != nil {
		return models.KYCStatus{}, err
	}
	return result.(models.KYCStatus), nil
}

func (c *RedisCache) Invalidate(ctx context.Context, accountID id.AccountID) error {
	key := accountID.String()
	if err := c.rdb.Del(ctx, freshKeyPrefix+key, staleKeyPrefix+key).Err(); err != nil {
		return fmt.Errorf("invalidate status cache: %w", err)
	}
	return nil
}

func (c *RedisCache) ClearAll(ctx context.Context) error {
	for _, prefix := range []string{freshKeyPrefix, staleKeyPrefix} {
		var cursor uint64
		for {
			keys, next, err := c.rdb.Scan(ctx, cursor, prefix+"*", 100).Result()
			if err != nil {
				return fmt.Errorf("scan status cache: %w", err)
			}
			if len(keys) > 0 {
				if err := c.rdb.Del(ctx, keys...).Err(); err != nil {
					return fmt.Errorf("clear status cache: %w", err)
				}
			}
			cursor = next
			if cursor == 0 {
				break
			}
		}
	}
	return nil
}

// read returns the decoded status and true only on a clean cache hit. Any
// redis or decode error degrades to a miss.
func (c *RedisCache) read(ctx context.Context, key string) (models.KYCStatus, bool) {
	raw, err := c.rdb.Get(ctx, key).Bytes()
	if err != nil {
		// redis.Nil and transport errors both degrade to a miss
		return models.KYCStatus{}, false
	}

	var payload models.StatusPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return models.KYCStatus{}, false
	}
	status, err := models.StatusFromPayload(payload)
	if err != nil {
		return models.KYCStatus{}, false
	}
	return status, true
}

// write is best-effort: a failed cache fill never fails the request.
func (c *RedisCache) write(ctx context.Context, accountID id.AccountID, status models.KYCStatus) {
	raw, err := json.Marshal(status.Payload())
	if err != nil {
		return
	}
	key := accountID.String()
	_ = c.rdb.Set(ctx, freshKeyPrefix+key, raw, c.ttl).Err()
	_ = c.rdb.Set(ctx, staleKeyPrefix+key, raw, staleRetention).Err()
}
