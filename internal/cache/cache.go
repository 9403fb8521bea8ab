// Package cache provides a tag-scoped read-through cache on Redis. It is a
// derived, best-effort accelerator over the article store: any entry may be
// flushed wholesale at any time without correctness loss.
package cache

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// TagArticleList spans every article-derived cache entry (detail lookups and
// feed pages). Any successful article write flushes the whole group.
const TagArticleList = "article_list"

// TTLs bound staleness even when an invalidating write is missed.
const (
	ArticleTTL    = 30 * time.Minute
	PreferenceTTL = 15 * time.Minute
	FeedTTL       = 15 * time.Minute
)

// Cache wraps a Redis client. It is constructed once per process and passed
// explicitly to every component that reads or invalidates it.
type Cache struct {
	client *redis.Client
}

// New creates a Cache from a Redis URL.
func New(url string) (*Cache, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, err
	}
	return &Cache{client: redis.NewClient(opts)}, nil
}

// NewWithClient creates a Cache from an existing client.
func NewWithClient(client *redis.Client) *Cache {
	return &Cache{client: client}
}

// Close closes the Redis connection.
func (c *Cache) Close() error {
	return c.client.Close()
}

// Ping verifies the Redis connection.
func (c *Cache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

// GetOrCompute returns the cached value under key, or invokes compute,
// stores the result with the given ttl and tag memberships, and returns it.
// Redis failures degrade to compute-and-return rather than failing the read.
func (c *Cache) GetOrCompute(ctx context.Context, key string, ttl time.Duration, tags []string, compute func(context.Context) ([]byte, error)) ([]byte, error) {
	val, err := c.client.Get(ctx, key).Bytes()
	if err == nil {
		return val, nil
	}
	if !errors.Is(err, redis.Nil) {
		log.Warn().Err(err).Str("key", key).Msg("Cache read failed, falling through to store")
	}

	data, err := compute(ctx)
	if err != nil {
		return nil, err
	}

	pipe := c.client.TxPipeline()
	pipe.Set(ctx, key, data, ttl)
	for _, tag := range tags {
		pipe.SAdd(ctx, tagKey(tag), key)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("Cache write failed")
	}
	return data, nil
}

// FlushTag removes every entry ever stored under the given tag, plus the
// tag's member set itself.
func (c *Cache) FlushTag(ctx context.Context, tag string) error {
	keys, err := c.client.SMembers(ctx, tagKey(tag)).Result()
	if err != nil && !errors.Is(err, redis.Nil) {
		return err
	}

	pipe := c.client.Pipeline()
	if len(keys) > 0 {
		pipe.Del(ctx, keys...)
	}
	pipe.Del(ctx, tagKey(tag))
	_, err = pipe.Exec(ctx)
	return err
}

// Forget deletes specific keys. Tag member sets are left alone; a stale
// member pointing at a deleted key is harmless on the next flush.
func (c *Cache) Forget(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	return c.client.Del(ctx, keys...).Err()
}

func tagKey(tag string) string {
	return "tag:" + tag
}
