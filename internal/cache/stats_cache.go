package cache

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// StatsCache handles Redis ZSET tallies of dominant archetypes per category
type StatsCache interface {
	BumpDominant(ctx context.Context, category, archetype string) error
	TopDominant(ctx context.Context, category string, limit int) ([]DominantCount, error)
}

// DominantCount is one archetype's tally in the distribution readback
type DominantCount struct {
	Archetype string `json:"archetype"`
	Count     int64  `json:"count"`
	Rank      int    `json:"rank"`
}

type statsCache struct {
	client *redis.Client
}

// NewStatsCache creates a new stats cache
func NewStatsCache(client *redis.Client) StatsCache {
	return &statsCache{
		client: client,
	}
}

func (c *statsCache) key(category string) string {
	return fmt.Sprintf("stats:%s:dominant", category)
}

func (c *statsCache) BumpDominant(ctx context.Context, category, archetype string) error {
	return c.client.ZIncrBy(ctx, c.key(category), 1, archetype).Err()
}

func (c *statsCache) TopDominant(ctx context.Context, category string, limit int) ([]DominantCount, error) {
	results, err := c.client.ZRevRangeWithScores(ctx, c.key(category), 0, int64(limit-1)).Result()
	if err != nil {
		return nil, err
	}

	counts := make([]DominantCount, len(results))
	for i, z := range results {
		counts[i] = DominantCount{
			Archetype: z.Member.(string),
			Count:     int64(z.Score),
			Rank:      i + 1,
		}
	}
	return counts, nil
}
