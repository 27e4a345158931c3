package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/nurpe/tourops-pricing/internal/config"
	"github.com/nurpe/tourops-pricing/internal/model"
)

type client interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
}

// ExchangeCache keeps exchange rates as JSON documents in Redis.
type ExchangeCache struct {
	client client
}

func NewRedisClient(ctx context.Context, cfg config.RedisConfig) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr,
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
		PoolSize:     10,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("failed to connect to redis at %s: %w", cfg.Addr, err)
	}
	return rdb, nil
}

func NewExchangeCache(rdb *redis.Client) *ExchangeCache {
	return &ExchangeCache{client: rdb}
}

func (c *ExchangeCache) Get(ctx context.Context, key string) (*model.ExchangeRate, error) {
	raw, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, err
	}
	var rate model.ExchangeRate
	if err := json.Unmarshal(raw, &rate); err != nil {
		return nil, fmt.Errorf("decode cached rate %s: %w", key, err)
	}
	return &rate, nil
}

func (c *ExchangeCache) Set(ctx context.Context, key string, rate model.ExchangeRate, ttl time.Duration) error {
	raw, err := json.Marshal(rate)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, key, raw, ttl).Err()
}

func (c *ExchangeCache) Delete(ctx context.Context, key string) error {
	return c.client.Del(ctx, key).Err()
}
