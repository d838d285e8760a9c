package main

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Cache keys for the read endpoints; every write invalidates all of them.
const (
	cacheKeyTransactions = "transactions"
	cacheKeyPrices       = "prices"
)

const cacheTTL = 60 * time.Second

// initRedis connects to Redis. The cache is optional: callers are expected
// to carry on uncached when this fails.
func initRedis(redisURL string) (*redis.Client, error) {
	opt, err := redis.ParseURL(fmt.Sprintf("redis://%s", redisURL))
	if err != nil {
		// Fallback to simple connection.
		opt = &redis.Options{Addr: redisURL}
	}

	client := redis.NewClient(opt)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}
	return client, nil
}

// cache is a nil-safe cache-aside helper over the optional Redis client.
type cache struct {
	rdb *redis.Client
}

// get loads a cached JSON value into v, reporting whether it was present.
func (c *cache) get(ctx context.Context, key string, v any) bool {
	if c == nil || c.rdb == nil {
		return false
	}
	cached, err := c.rdb.Get(ctx, key).Result()
	if err != nil {
		return false
	}
	return json.Unmarshal([]byte(cached), v) == nil
}

// set stores v as JSON under key. Failures are ignored: the cache is an
// optimization, never a source of truth.
func (c *cache) set(ctx context.Context, key string, v any) {
	if c == nil || c.rdb == nil {
		return
	}
	if data, err := json.Marshal(v); err == nil {
		c.rdb.SetEx(ctx, key, data, cacheTTL)
	}
}

func (c *cache) invalidate(ctx context.Context, keys ...string) {
	if c == nil || c.rdb == nil {
		return
	}
	c.rdb.Del(ctx, keys...)
}
