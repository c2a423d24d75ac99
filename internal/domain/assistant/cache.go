package assistant

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// NewsCache stores the digest for a day
type NewsCache interface {
	Get(ctx context.Context, day string) ([]NewsItem, bool, error)
	Set(ctx context.Context, day string, items []NewsItem, ttl time.Duration) error
}

const newsKeyPrefix = "comiclib:news:"

// RedisNewsCache keeps the digest in Redis as JSON
type RedisNewsCache struct {
	client *redis.Client
}

// NewRedisNewsCache creates a Redis backed cache. A nil client yields nil,
// which disables caching.
func NewRedisNewsCache(client *redis.Client) NewsCache {
	if client == nil {
		return nil
	}
	return &RedisNewsCache{client: client}
}

func (c *RedisNewsCache) Get(ctx context.Context, day string) ([]NewsItem, bool, error) {
	raw, err := c.client.Get(ctx, newsKeyPrefix+day).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	var items []NewsItem
	if err := json.Unmarshal(raw, &items); err != nil {
		// corrupt entry, treat as a miss
		return nil, false, nil
	}
	return items, true, nil
}

func (c *RedisNewsCache) Set(ctx context.Context, day string, items []NewsItem, ttl time.Duration) error {
	raw, err := json.Marshal(items)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, newsKeyPrefix+day, raw, ttl).Err()
}
