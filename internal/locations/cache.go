package locations

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const directoryCacheKey = "clinic-concierge:directory"

// ErrCacheMiss is returned by Load when no directory has been cached.
var ErrCacheMiss = errors.New("locations: directory not cached")

// Cache stores a serialized copy of the clinic directory in Redis so a
// restart does not depend on the upstream being reachable. A nil *Cache is
// a no-op that always misses.
type Cache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewCache wraps a Redis client with the given entry TTL.
func NewCache(client *redis.Client, ttl time.Duration) *Cache {
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &Cache{client: client, ttl: ttl}
}

// Store writes the directory under a fixed key with the configured TTL.
func (c *Cache) Store(ctx context.Context, locs []ClinicLocation) error {
	if c == nil || c.client == nil {
		return nil
	}
	payload, err := json.Marshal(locs)
	if err != nil {
		return fmt.Errorf("locations: marshal directory: %w", err)
	}
	if err := c.client.Set(ctx, directoryCacheKey, payload, c.ttl).Err(); err != nil {
		return fmt.Errorf("locations: cache directory: %w", err)
	}
	return nil
}

// Load reads the cached directory, returning ErrCacheMiss when absent.
func (c *Cache) Load(ctx context.Context) ([]ClinicLocation, error) {
	if c == nil || c.client == nil {
		return nil, ErrCacheMiss
	}
	payload, err := c.client.Get(ctx, directoryCacheKey).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrCacheMiss
	}
	if err != nil {
		return nil, fmt.Errorf("locations: read cached directory: %w", err)
	}
	var locs []ClinicLocation
	if err := json.Unmarshal(payload, &locs); err != nil {
		return nil, fmt.Errorf("locations: decode cached directory: %w", err)
	}
	return locs, nil
}
