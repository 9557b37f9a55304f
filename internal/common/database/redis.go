// internal/common/database/redis.go
package database

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"survey-workers/internal/common/config"
	"survey-workers/internal/common/logger"
)

// RedisClient wraps the Redis client backing the auto-save queue.
type RedisClient struct {
	Client *redis.Client
}

// NewRedis builds a client. ReadTimeout stays above the queue's BRPOP poll
// timeout so blocking pops are not cut short.
func NewRedis(cfg config.RedisConfig, pollTimeout time.Duration) *RedisClient {
	readTimeout := 3 * time.Second
	if pollTimeout+time.Second > readTimeout {
		readTimeout = pollTimeout + time.Second
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:         cfg.Address,
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  readTimeout,
		WriteTimeout: 3 * time.Second,
		PoolSize:     10,
		MinIdleConns: 2,
	})

	return &RedisClient{Client: rdb}
}

// ConnectRedis builds the client and waits, with backoff, for the server to answer.
func ConnectRedis(ctx context.Context, cfg config.RedisConfig, pollTimeout time.Duration, log logger.Logger) (*RedisClient, error) {
	rdb := NewRedis(cfg, pollTimeout)
	if err := RetryWithBackoff(ctx, rdb.Ping, 10, connectDelay, log, "Redis connection"); err != nil {
		_ = rdb.Close()
		return nil, err
	}
	log.Info("Redis connected", map[string]interface{}{"address": cfg.Address, "db": cfg.DB})
	return rdb, nil
}

func (c *RedisClient) Ping(ctx context.Context) error {
	if err := c.Client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis ping failed: %w", err)
	}
	return nil
}

func (c *RedisClient) Close() error {
	if c.Client != nil {
		return c.Client.Close()
	}
	return nil
}
