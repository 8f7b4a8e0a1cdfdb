package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/taipeitrip/booking-backend/internal/config"
	"github.com/taipeitrip/booking-backend/internal/models"
)

// AttractionPage is the cached payload for one catalog page
type AttractionPage struct {
	NextPage *int                `json:"nextPage"`
	Data     []models.Attraction `json:"data"`
}

// RedisCache is a read-through cache for the attraction catalog. The
// catalog changes rarely, so pages and detail views are cached with a TTL
// and callers fall back to the database on a miss or Redis failure.
type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisCache creates a new catalog cache
func NewRedisCache(cfg config.RedisConfig) *RedisCache {
	return &RedisCache{
		client: redis.NewClient(&redis.Options{Addr: cfg.Addr, Password: cfg.Password, DB: cfg.DB}),
		ttl:    cfg.CacheTTL,
	}
}

// Ping checks the Redis connection
func (c *RedisCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

// GetAttractionPage returns a cached catalog page, or nil on miss
func (c *RedisCache) GetAttractionPage(ctx context.Context, page int, keyword string) (*AttractionPage, error) {
	data, err := c.client.Get(ctx, pageKey(page, keyword)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, err
	}

	var cached AttractionPage
	if err := json.Unmarshal(data, &cached); err != nil {
		return nil, err
	}
	return &cached, nil
}

// SetAttractionPage stores a catalog page
func (c *RedisCache) SetAttractionPage(ctx context.Context, page int, keyword string, value *AttractionPage) error {
	payload, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, pageKey(page, keyword), payload, c.ttl).Err()
}

// GetAttraction returns a cached attraction detail, or nil on miss
func (c *RedisCache) GetAttraction(ctx context.Context, id int64) (*models.Attraction, error) {
	data, err := c.client.Get(ctx, attractionKey(id)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, err
	}

	var attraction models.Attraction
	if err := json.Unmarshal(data, &attraction); err != nil {
		return nil, err
	}
	return &attraction, nil
}

// SetAttraction stores an attraction detail
func (c *RedisCache) SetAttraction(ctx context.Context, attraction *models.Attraction) error {
	payload, err := json.Marshal(attraction)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, attractionKey(attraction.ID), payload, c.ttl).Err()
}

// Close releases the Redis connection
func (c *RedisCache) Close() error {
	return c.client.Close()
}

func pageKey(page int, keyword string) string {
	return fmt.Sprintf("cache:attractions:%d:%s", page, keyword)
}

func attractionKey(id int64) string {
	return fmt.Sprintf("cache:attraction:%d", id)
}
