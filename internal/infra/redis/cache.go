// Package redis implements the dashboard read-through cache on Redis.
package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/avaldes/walletbook/internal/module/dashboard"
	"github.com/avaldes/walletbook/pkg/logger"
)

// KeyPrefix is the prefix for dashboard cache keys. The full key is
// "dashboard:<client_id>:<year>:<month>", so one SCAN over the client's
// prefix drops every period at once.
const KeyPrefix = "dashboard:"

// Cache is a Redis-backed dashboard cache. All operations are best-effort:
// a cache failure degrades to a recompute, never to a request error.
type Cache struct {
	client *redis.Client
	logger *logger.Logger
}

// NewCache creates a new dashboard cache
func NewCache(client *redis.Client, log *logger.Logger) *Cache {
	return &Cache{
		client: client,
		logger: log.WithField("component", "dashboard_cache"),
	}
}

// GetDashboard retrieves a cached dashboard, reporting a miss on any error.
func (c *Cache) GetDashboard(ctx context.Context, key string) (*dashboard.Dashboard, bool) {
	val, err := c.client.Get(ctx, KeyPrefix+key).Result()
	if err == redis.Nil {
		c.logger.Debug("cache miss", "key", key)
		return nil, false
	}
	if err != nil {
		c.logger.WithError(err).Warn("cache read failed", "key", key)
		return nil, false
	}

	var d dashboard.Dashboard
	if err := json.Unmarshal([]byte(val), &d); err != nil {
		c.logger.WithError(err).Warn("cache entry corrupt", "key", key)
		return nil, false
	}

	c.logger.Debug("cache hit", "key", key)
	return &d, true
}

// SetDashboard stores a dashboard under the key with the given TTL.
func (c *Cache) SetDashboard(ctx context.Context, key string, d *dashboard.Dashboard, ttl time.Duration) {
	data, err := json.Marshal(d)
	if err != nil {
		c.logger.WithError(err).Warn("cache marshal failed", "key", key)
		return
	}

	if err := c.client.Set(ctx, KeyPrefix+key, data, ttl).Err(); err != nil {
		c.logger.WithError(err).Warn("cache write failed", "key", key)
	}
}

// Ping checks Redis connectivity.
func (c *Cache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

// InvalidateClient drops every cached dashboard of one client.
func (c *Cache) InvalidateClient(ctx context.Context, clientID uuid.UUID) error {
	pattern := fmt.Sprintf("%s%s:*", KeyPrefix, clientID)
	iter := c.client.Scan(ctx, 0, pattern, 0).Iterator()

	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("failed to scan cache keys: %w", err)
	}

	if len(keys) == 0 {
		return nil
	}

	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("failed to delete cache keys: %w", err)
	}

	return nil
}
