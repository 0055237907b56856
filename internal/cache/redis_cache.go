package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"pizza-storefront/internal/models"
)

// RedisCache shares coupon lookups across server instances. Cache
// errors degrade to misses; the database remains the source of truth.
type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisCache(url string, ttl time.Duration) (*RedisCache, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, err
	}
	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, err
	}
	return &RedisCache{client: client, ttl: ttl}, nil
}

func couponKey(code string) string {
	return "coupon:" + code
}

func (c *RedisCache) Get(ctx context.Context, code string) (*models.Coupon, bool) {
	raw, err := c.client.Get(ctx, couponKey(code)).Bytes()
	if err != nil {
		return nil, false
	}
	var coupon models.Coupon
	if err := json.Unmarshal(raw, &coupon); err != nil {
		return nil, false
	}
	return &coupon, true
}

func (c *RedisCache) Set(ctx context.Context, code string, coupon *models.Coupon) {
	raw, err := json.Marshal(coupon)
	if err != nil {
		return
	}
	_ = c.client.Set(ctx, couponKey(code), raw, c.ttl).Err()
}

func (c *RedisCache) Invalidate(ctx context.Context, code string) {
	_ = c.client.Del(ctx, couponKey(code)).Err()
}

func (c *RedisCache) Close() error {
	return c.client.Close()
}
