package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/storetrack/backoffice/internal/domain"
)

const classificationKey = "classification:abc"

// RedisCache implements caching for the revenue classification
type RedisCache struct {
	client            *redis.Client
	classificationTTL time.Duration
}

// NewRedisCache creates a new Redis cache instance
func NewRedisCache(client *redis.Client, classificationTTL time.Duration) *RedisCache {
	return &RedisCache{
		client:            client,
		classificationTTL: classificationTTL,
	}
}

// GetClassification retrieves the cached revenue classification
func (c *RedisCache) GetClassification(ctx context.Context) ([]domain.Classification, error) {
	val, err := c.client.Get(ctx, classificationKey).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}

	var list []domain.Classification
	if err := json.Unmarshal([]byte(val), &list); err != nil {
		return nil, err
	}

	return list, nil
}

// SetClassification stores the revenue classification in cache
func (c *RedisCache) SetClassification(ctx context.Context, list []domain.Classification) error {
	data, err := json.Marshal(list)
	if err != nil {
		return err
	}

	return c.client.Set(ctx, classificationKey, data, c.classificationTTL).Err()
}

// InvalidateClassification drops the cached classification. Called after
// every sale write, since any item change can reshuffle the tiers.
func (c *RedisCache) InvalidateClassification(ctx context.Context) error {
	err := c.client.Del(ctx, classificationKey).Err()
	if err != nil && err != redis.Nil {
		return err
	}
	return nil
}
