// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// json.go caches JSON-encodable values in Valkey so repeated reads of
// aggregate endpoints skip the database. Cache errors are logged and
// treated as misses; the cache never fails a request.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	// jsonKeyPrefix is the Valkey key prefix for cached values.
	jsonKeyPrefix = "json:"

	// DefaultTTL is how long a value stays cached.
	DefaultTTL = 60 * time.Second

	// StatsKey holds the public homepage counters.
	StatsKey = "stats:public"
)

// JSONCache stores JSON values in Valkey with a fixed TTL.
type JSONCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewJSONCache creates a cache backed by the given Valkey client.
func NewJSONCache(client *redis.Client, ttl time.Duration) *JSONCache {
	if ttl == 0 {
		ttl = DefaultTTL
	}
	return &JSONCache{client: client, ttl: ttl}
}

// Get decodes the value cached under key into dst. Reports false on miss.
func (c *JSONCache) Get(ctx context.Context, key string, dst any) bool {
	val, err := c.client.Get(ctx, jsonKeyPrefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return false
	}
	if err != nil {
		slog.Warn("json cache get error", "key", key, "error", err)
		return false
	}
	if err := json.Unmarshal(val, dst); err != nil {
		slog.Warn("json cache decode error", "key", key, "error", err)
		return false
	}
	slog.Debug("json cache hit", "key", key)
	return true
}

// Set stores v under key with the configured TTL.
func (c *JSONCache) Set(ctx context.Context, key string, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		slog.Warn("json cache encode error", "key", key, "error", err)
		return
	}
	if err := c.client.Set(ctx, jsonKeyPrefix+key, data, c.ttl).Err(); err != nil {
		slog.Warn("json cache set error", "key", key, "error", err)
	}
}

// Invalidate removes the given keys.
func (c *JSONCache) Invalidate(ctx context.Context, keys ...string) {
	if len(keys) == 0 {
		return
	}
	full := make([]string, len(keys))
	for i, k := range keys {
		full[i] = jsonKeyPrefix + k
	}
	if err := c.client.Del(ctx, full...).Err(); err != nil {
		slog.Warn("json cache invalidate error", "keys", keys, "error", err)
	}
	slog.Debug("json cache invalidated", "keys", keys)
}

// InvalidateAll removes every cached value by scanning for the prefix.
func (c *JSONCache) InvalidateAll(ctx context.Context) {
	var cursor uint64
	var deleted int
	for {
		keys, next, err := c.client.Scan(ctx, cursor, jsonKeyPrefix+"*", 100).Result()
		if err != nil {
			slog.Warn("json cache scan error", "error", err)
			return
		}
		if len(keys) > 0 {
			if err := c.client.Del(ctx, keys...).Err(); err != nil {
				slog.Warn("json cache bulk delete error", "error", err)
			}
			deleted += len(keys)
		}
		cursor = next
		if cursor == 0 {
			break
		}
	}
	if deleted > 0 {
		slog.Info("json cache cleared", "deleted", deleted)
	}
}
