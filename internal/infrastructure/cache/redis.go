package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"freewriter/internal/config"
)

const pingTimeout = 2 * time.Second

// RedisClient owns the connection pool shared by the catalog cache and the token blacklist.
type RedisClient struct {
	Client *redis.Client
}

func NewRedisClient(cfg config.RedisConfig) *RedisClient {
	return &RedisClient{Client: redis.NewClient(clientOptions(cfg))}
}

// clientOptions keeps timeouts short: every cache caller falls back to Postgres on error.
func clientOptions(cfg config.RedisConfig) *redis.Options {
	return &redis.Options{
		Addr:         cfg.Host,
		Password:     cfg.Password,
		DB:           cfg.DB,
		PoolSize:     10,
		MinIdleConns: 2,
		MaxRetries:   1,
		DialTimeout:  3 * time.Second,
		ReadTimeout:  time.Second,
		WriteTimeout: time.Second,
	}
}

func (r *RedisClient) Connect(ctx context.Context) error {
	opts := r.Client.Options()
	log.Info().Str("addr", opts.Addr).Int("db", opts.DB).Msg("[REDIS] Connecting")

	if err := r.ping(ctx); err != nil {
		return err
	}

	log.Info().Msg("[REDIS] Connected")
	return nil
}

// HealthCheck backs the worker readiness probe.
func (r *RedisClient) HealthCheck(ctx context.Context) error {
	if r == nil || r.Client == nil {
		return errors.New("redis client is not initialized")
	}
	return r.ping(ctx)
}

func (r *RedisClient) ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	if err := r.Client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis ping %s: %w", r.Client.Options().Addr, err)
	}
	return nil
}

func (r *RedisClient) Close() error {
	if r == nil || r.Client == nil {
		return nil
	}
	return r.Client.Close()
}
