package redis

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
)

// Cache wraps the redis client for JSON value caching with version-keyed
// invalidation. All methods are no-ops when redis is unavailable.
type Cache struct {
	client *redis.Client
}

func NewCache(client *redis.Client) *Cache {
	return &Cache{client: client}
}

// Get unmarshals the cached value into dest. Returns false on miss or when
// redis is down.
func (c *Cache) Get(ctx context.Context, key string, dest any) (bool, error) {
	if c.client == nil {
		return false, nil
	}
	raw, err := c.client.Get(ctx, key).Result()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := json.Unmarshal([]byte(raw), dest); err != nil {
		return false, err
	}
	return true, nil
}

func (c *Cache) Set(ctx context.Context, key string, value any, ttl time.Duration) {
	if c.client == nil {
		return
	}
	raw, err := json.Marshal(value)
	if err != nil {
		log.Printf("cache marshal failed for %s: %v", key, err)
		return
	}
	if err := c.client.Set(ctx, key, raw, ttl).Err(); err != nil {
		log.Printf("cache set failed for %s: %v", key, err)
	}
}

// GetVersion returns the current version counter for a key, 0 if unset.
func (c *Cache) GetVersion(ctx context.Context, key string) uint64 {
	if c.client == nil {
		return 0
	}
	v, err := c.client.Get(ctx, key).Uint64()
	if err != nil {
		return 0
	}
	return v
}

// IncrementVersion bumps the version counter so stale list caches miss.
func (c *Cache) IncrementVersion(ctx context.Context, key string) {
	if c.client == nil {
		return
	}
	if err := c.client.Incr(ctx, key).Err(); err != nil {
		log.Printf("cache incr failed for %s: %v", key, err)
	}
}

func (c *Cache) Delete(ctx context.Context, key string) {
	if c.client == nil {
		return
	}
	if err := c.client.Del(ctx, key).Err(); err != nil {
		log.Printf("cache del failed for %s: %v", key, err)
	}
}
