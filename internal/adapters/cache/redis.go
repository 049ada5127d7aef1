package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
)

// Sentinel value marking an entry as claimed but not yet computed
const redisClaimSentinel = "\x00claimed"

// redisCache shares cached entries between instances. Claims are taken with
// SETNX, so only one instance computes a missing entry at a time.
type redisCache[T any] struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

func (c *redisCache[T]) redisKey(key string) string {
	return c.prefix + ":" + key
}

func (c *redisCache[T]) getOrClaim(key string) hitResult[T] {
	ctx := context.Background()

	claimed, err := c.client.SetNX(ctx, c.redisKey(key), redisClaimSentinel, c.ttl).Result()
	if err != nil {
		// Redis is unavailable -> let the caller compute without caching
		return hitResult[T]{claimed: true}
	}
	if claimed {
		return hitResult[T]{claimed: true}
	}

	raw, err := c.client.Get(ctx, c.redisKey(key)).Bytes()
	if err != nil || string(raw) == redisClaimSentinel {
		// Another caller holds the claim -> wait and retry
		return hitResult[T]{}
	}

	var data T
	if err := json.Unmarshal(raw, &data); err != nil {
		return hitResult[T]{}
	}

	return hitResult[T]{data: data, valid: true}
}

func (c *redisCache[T]) set(key string, data T) {
	raw, err := json.Marshal(data)
	if err != nil {
		// Entries that can't be marshalled are simply not shared; the
		// claim is released so other callers can compute them
		c.delete(key)
		return
	}

	c.client.Set(context.Background(), c.redisKey(key), raw, c.ttl)
}

func (c *redisCache[T]) delete(key string) {
	c.client.Del(context.Background(), c.redisKey(key))
}

func (c *redisCache[T]) wait() {
	time.Sleep(50 * time.Millisecond)
}

func NewRedisCache[T any](client *redis.Client, prefix string, ttl time.Duration) Cache[T] {
	return &redisCache[T]{
		client: client,
		prefix: prefix,
		ttl:    ttl,
	}
}
