// Package cache keeps recently computed dashboard payloads in Redis.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/Yash-Soni1/node-crew/models"
	"github.com/redis/go-redis/v9"
)

const (
	// DashboardKeyPrefix is the Redis key prefix for cached dashboards.
	DashboardKeyPrefix = "tasks:dashboard:"
	// DashboardGenerationKey counts invalidations. It sits outside the
	// prefix so InvalidateAll never deletes it.
	DashboardGenerationKey = "tasks:dashboard-generation"
)

// DashboardCache stores dashboards per scope with a fixed TTL.
type DashboardCache struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewDashboardCache connects to the Redis server at url.
func NewDashboardCache(url string, ttl time.Duration) (*DashboardCache, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}

	rdb := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		rdb.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &DashboardCache{rdb: rdb, ttl: ttl}, nil
}

func NewDashboardCacheWithClient(rdb *redis.Client, ttl time.Duration) *DashboardCache {
	return &DashboardCache{rdb: rdb, ttl: ttl}
}

func (c *DashboardCache) Close() error {
	return c.rdb.Close()
}

func dashboardKey(generation int64, scope string) string {
	return fmt.Sprintf("%sg%d:%s", DashboardKeyPrefix, generation, scope)
}

// Generation returns the current invalidation generation. Readers take it
// before computing a dashboard and pass it to Get and Set, so a dashboard
// computed before an invalidation is stored under a key nobody reads.
func (c *DashboardCache) Generation(ctx context.Context) (int64, error) {
	generation, err := c.rdb.Get(ctx, DashboardGenerationKey).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	return generation, err
}

// Get returns the cached dashboard for scope and whether there was one.
func (c *DashboardCache) Get(ctx context.Context, generation int64, scope string) (*models.Dashboard, bool, error) {
	data, err := c.rdb.Get(ctx, dashboardKey(generation, scope)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	var dashboard models.Dashboard
	if err := json.Unmarshal(data, &dashboard); err != nil {
		return nil, false, fmt.Errorf("corrupt cached dashboard %s: %w", scope, err)
	}
	return &dashboard, true, nil
}

func (c *DashboardCache) Set(ctx context.Context, generation int64, scope string, dashboard *models.Dashboard) error {
	data, err := json.Marshal(dashboard)
	if err != nil {
		return err
	}
	return c.rdb.Set(ctx, dashboardKey(generation, scope), data, c.ttl).Err()
}

// InvalidateAll drops every cached dashboard. Task changes can move counts
// in the global scope and in each assignee's scope at once. The generation
// moves first; deleting the old keys only frees memory early.
func (c *DashboardCache) InvalidateAll(ctx context.Context) error {
	if err := c.rdb.Incr(ctx, DashboardGenerationKey).Err(); err != nil {
		return err
	}
	keys, err := c.scanKeys(ctx, DashboardKeyPrefix+"*")
	if err != nil {
		return err
	}
	if len(keys) == 0 {
		return nil
	}
	return c.rdb.Del(ctx, keys...).Err()
}

func (c *DashboardCache) scanKeys(ctx context.Context, pattern string) ([]string, error) {
	var keys []string
	var cursor uint64

	for {
		var batch []string
		var err error
		batch, cursor, err = c.rdb.Scan(ctx, cursor, pattern, 100).Result()
		if err != nil {
			return keys, err
		}

		keys = append(keys, batch...)

		if cursor == 0 {
			break
		}
	}

	return keys, nil
}
