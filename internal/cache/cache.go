// Package cache keeps computed trend payloads in Redis. A Cache without a
// client misses every read and ignores every write.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/julianstephens/daypoints/internal/config"
	"github.com/julianstephens/daypoints/internal/constants"
)

// ErrMiss is returned by Get when the key is absent or caching is off.
var ErrMiss = errors.New("cache miss")

// Connect dials Redis and checks it answers.
func Connect(ctx context.Context, cfg config.RedisConfig) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, err
	}
	return client, nil
}

type Cache struct {
	client *redis.Client
	ttl    time.Duration
	prefix string
}

// New wraps client. client may be nil.
func New(client *redis.Client, ttl time.Duration) *Cache {
	if ttl <= 0 {
		ttl = constants.DefaultCacheTTL
	}
	return &Cache{client: client, ttl: ttl, prefix: constants.TrendsCachePrefix}
}

// Enabled reports whether a Redis client is attached.
func (c *Cache) Enabled() bool {
	return c != nil && c.client != nil
}

// TrendKey names the cached daily series for one window.
func (c *Cache) TrendKey(endDate string, days int, includeNotes bool) string {
	return fmt.Sprintf("%sdaily:%s:%d:%t", c.prefix, endDate, days, includeNotes)
}

// Get unmarshals the cached value for key into dest.
func (c *Cache) Get(ctx context.Context, key string, dest interface{}) error {
	if !c.Enabled() {
		return ErrMiss
	}

	raw, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return ErrMiss
		}
		return fmt.Errorf("redis get %s: %w", key, err)
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		return fmt.Errorf("unmarshal cache value for %s: %w", key, err)
	}
	return nil
}

// Set stores value under key for the cache TTL.
func (c *Cache) Set(ctx context.Context, key string, value interface{}) error {
	if !c.Enabled() {
		return nil
	}

	payload, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("marshal cache value for %s: %w", key, err)
	}
	if err := c.client.Set(ctx, key, payload, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", key, err)
	}
	return nil
}

// Invalidate drops every trend entry. Any habit, ledger or score write can move
// any window, so there is no finer-grained eviction.
func (c *Cache) Invalidate(ctx context.Context) error {
	if !c.Enabled() {
		return nil
	}

	pattern := c.prefix + "*"
	iter := c.client.Scan(ctx, 0, pattern, 0).Iterator()
	for iter.Next(ctx) {
		key := iter.Val()
		if err := c.client.Del(ctx, key).Err(); err != nil {
			return fmt.Errorf("redis delete %s: %w", key, err)
		}
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("redis scan pattern %s: %w", pattern, err)
	}
	return nil
}

// Close releases the Redis connection if present.
func (c *Cache) Close() error {
	if !c.Enabled() {
		return nil
	}
	return c.client.Close()
}
