package cache

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "oddsboard:"

// Redis is a Cache shared across API instances. Backend errors degrade to
// cache misses so a Redis outage never fails a request.
type Redis struct {
	client *redis.Client
	logger *slog.Logger
}

// NewRedis connects to the Redis instance at url (redis://host:port/db).
func NewRedis(ctx context.Context, url string, logger *slog.Logger) (*Redis, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	client := redis.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("connect to redis: %w", err)
	}
	return newRedis(client, logger), nil
}

func newRedis(client *redis.Client, logger *slog.Logger) *Redis {
	if logger == nil {
		logger = slog.Default()
	}
	return &Redis{client: client, logger: logger}
}

func (c *Redis) Get(ctx context.Context, key string) ([]byte, string, bool) {
	data, err := c.client.Get(ctx, keyPrefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, "", false
	}
	if err != nil {
		c.logger.Warn("Redis get failed", "key", key, "error", err)
		return nil, "", false
	}
	return data, ComputeETag(data), true
}

func (c *Redis) Set(ctx context.Context, key string, data []byte, ttl time.Duration) string {
	if err := c.client.Set(ctx, keyPrefix+key, data, ttl).Err(); err != nil {
		c.logger.Warn("Redis set failed", "key", key, "error", err)
	}
	return ComputeETag(data)
}

func (c *Redis) Stats(ctx context.Context) map[string]any {
	stats := map[string]any{
		"backend": "redis",
		"enabled": true,
	}
	if err := c.client.Ping(ctx).Err(); err != nil {
		stats["healthy"] = false
		stats["error"] = err.Error()
		return stats
	}
	stats["healthy"] = true
	if n, err := c.client.DBSize(ctx).Result(); err == nil {
		stats["total_keys"] = n
	}
	return stats
}

// Close releases the underlying connection pool.
func (c *Redis) Close() error {
	return c.client.Close()
}
