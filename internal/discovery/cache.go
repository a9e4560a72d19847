package discovery

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/imadgeboyega/kiekky-discovery/internal/common/logging"
)

const poolCacheKey = "discovery:pool"

// CachedProfileStore keeps a snapshot of the candidate pool in Redis.
// Single profiles are always read from the underlying store. Any Redis
// failure falls back to the underlying store.
type CachedProfileStore struct {
	next  ProfileStore
	redis *redis.Client
	ttl   time.Duration
}

func NewCachedProfileStore(next ProfileStore, client *redis.Client, ttl time.Duration) *CachedProfileStore {
	return &CachedProfileStore{next: next, redis: client, ttl: ttl}
}

func (c *CachedProfileStore) GetProfile(ctx context.Context, id int64) (*Profile, error) {
	return c.next.GetProfile(ctx, id)
}

func (c *CachedProfileStore) ListCandidates(ctx context.Context) ([]*Profile, error) {
	data, err := c.redis.Get(ctx, poolCacheKey).Bytes()
	switch {
	case err == nil:
		var pool []*Profile
		jsonErr := json.Unmarshal(data, &pool)
		if jsonErr == nil {
			return pool, nil
		}
		logging.Ctx(ctx).Warn().Err(jsonErr).Msg("discarding unreadable candidate pool cache")
	case !errors.Is(err, redis.Nil):
		logging.Ctx(ctx).Warn().Err(err).Msg("candidate pool cache unavailable")
	}

	return c.Refresh(ctx)
}

// Refresh reloads the pool from the underlying store and caches it.
func (c *CachedProfileStore) Refresh(ctx context.Context) ([]*Profile, error) {
	pool, err := c.next.ListCandidates(ctx)
	if err != nil {
		return nil, err
	}

	data, err := json.Marshal(pool)
	if err != nil {
		return pool, nil
	}
	if err := c.redis.Set(ctx, poolCacheKey, data, c.ttl).Err(); err != nil {
		logging.Ctx(ctx).Warn().Err(err).Msg("failed to cache candidate pool")
	}
	return pool, nil
}

// Invalidate drops the cached pool.
func (c *CachedProfileStore) Invalidate(ctx context.Context) error {
	return c.redis.Del(ctx, poolCacheKey).Err()
}
