package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"resistmap/internal/model"
)

// DefinitionCache keeps validated definitions hot so the submit path skips
// mongo on repeat categories
type DefinitionCache interface {
	Set(ctx context.Context, def *model.Definition) error
	Get(ctx context.Context, category string) (*model.Definition, error)
	Delete(ctx context.Context, category string) error
}

type definitionCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewDefinitionCache(client *redis.Client, ttl time.Duration) DefinitionCache {
	return &definitionCache{
		client: client,
		ttl:    ttl,
	}
}

func (c *definitionCache) Set(ctx context.Context, def *model.Definition) error {
	data, err := json.Marshal(def)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, "def:"+def.Category, data, c.ttl).Err()
}

// Get returns (nil, nil) on a cache miss
func (c *definitionCache) Get(ctx context.Context, category string) (*model.Definition, error) {
	data, err := c.client.Get(ctx, "def:"+category).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var def model.Definition
	err = json.Unmarshal([]byte(data), &def)
	return &def, err
}

func (c *definitionCache) Delete(ctx context.Context, category string) error {
	return c.client.Del(ctx, "def:"+category).Err()
}
