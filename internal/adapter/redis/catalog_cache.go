package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/HamzaAshfaq01/sellsgoods/internal/repository"
	"github.com/redis/go-redis/v9"
)

const groupedCatalogKey = "catalog:grouped"

// ErrCacheMiss is returned when the cached grouped catalog is absent.
var ErrCacheMiss = errors.New("catalog cache miss")

// CatalogCache keeps the landing-page grouped catalog hot for its TTL so
// every landing hit does not re-run the aggregation.
type CatalogCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewCatalogCache(client *redis.Client, ttl time.Duration) *CatalogCache {
	return &CatalogCache{client: client, ttl: ttl}
}

func (c *CatalogCache) GetGrouped(ctx context.Context) ([]repository.CategoryGroup, error) {
	data, err := c.client.Get(ctx, groupedCatalogKey).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrCacheMiss
		}
		return nil, fmt.Errorf("catalog cache get: %w", err)
	}

	var groups []repository.CategoryGroup
	if err := json.Unmarshal(data, &groups); err != nil {
		return nil, fmt.Errorf("catalog cache decode: %w", err)
	}
	return groups, nil
}

func (c *CatalogCache) SetGrouped(ctx context.Context, groups []repository.CategoryGroup) error {
	data, err := json.Marshal(groups)
	if err != nil {
		return fmt.Errorf("catalog cache encode: %w", err)
	}
	if err := c.client.Set(ctx, groupedCatalogKey, data, c.ttl).Err(); err != nil {
		return fmt.Errorf("catalog cache set: %w", err)
	}
	return nil
}

// Invalidate drops the cached grouping. Called after product writes.
func (c *CatalogCache) Invalidate(ctx context.Context) error {
	if err := c.client.Del(ctx, groupedCatalogKey).Err(); err != nil {
		return fmt.Errorf("catalog cache invalidate: %w", err)
	}
	return nil
}
