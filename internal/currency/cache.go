package currency

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// Cache stores the last fetched snapshot per base currency. Entries are
// kept past their freshness window so they can serve as a stale fallback.
type Cache interface {
	Get(ctx context.Context, base string) (Snapshot, bool, error)
	Put(ctx context.Context, snap Snapshot) error
}

// MemoryCache is a process-local Cache.
type MemoryCache struct {
	mu    sync.RWMutex
	snaps map[string]Snapshot
}

func NewMemoryCache() *MemoryCache {
	return &MemoryCache{snaps: make(map[string]Snapshot)}
}

func (c *MemoryCache) Get(_ context.Context, base string) (Snapshot, bool, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	s, ok := c.snaps[Normalize(base)]
	return s, ok, nil
}

func (c *MemoryCache) Put(_ context.Context, snap Snapshot) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.snaps[snap.Base] = snap
	return nil
}

// RedisCache shares snapshots between processes as JSON values.
type RedisCache struct {
	client    redis.Cmdable
	retention time.Duration
}

// NewRedisCache keeps entries for retention; zero keeps them forever.
func NewRedisCache(client redis.Cmdable, retention time.Duration) *RedisCache {
	return &RedisCache{client: client, retention: retention}
}

func redisKey(base string) string {
	return "webquote:fx:" + Normalize(base)
}

func (c *RedisCache) Get(ctx context.Context, base string) (Snapshot, bool, error) {
	data, err := c.client.Get(ctx, redisKey(base)).Bytes()
	if errors.Is(err, redis.Nil) {
		return Snapshot{}, false, nil
	}
	if err != nil {
		return Snapshot{}, false, fmt.Errorf("get fx snapshot: %w", err)
	}

	var s Snapshot
	if err := json.Unmarshal(data, &s); err != nil {
		return Snapshot{}, false, fmt.Errorf("decode fx snapshot: %w", err)
	}
	return NewSnapshot(s.Base, s.Rates, s.FetchedAt, s.Source), true, nil
}

func (c *RedisCache) Put(ctx context.Context, snap Snapshot) error {
	data, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("encode fx snapshot: %w", err)
	}
	if err := c.client.Set(ctx, redisKey(snap.Base), data, c.retention).Err(); err != nil {
		return fmt.Errorf("set fx snapshot: %w", err)
	}
	return nil
}
