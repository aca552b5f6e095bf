// Package redis provides a Redis-backed implementation of ports.Cache.
package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/ersonp/lore-reader/internal/domain/entities"
	"github.com/ersonp/lore-reader/internal/infrastructure/config"
	"github.com/ersonp/lore-reader/internal/pkg/logger"
)

// Cache implements ports.Cache on a Redis client. Every call is bounded by
// the configured operation timeout.
type Cache struct {
	log       *logger.Logger
	rdb       *goredis.Client
	opTimeout time.Duration
}

// NewCache connects to Redis and verifies the connection with a ping.
func NewCache(ctx context.Context, cfg config.RedisConfig, log *logger.Logger) (*Cache, error) {
	if cfg.Addr == "" {
		return nil, errors.New("redis addr is required")
	}
	if log == nil {
		log = logger.NewNop()
	}

	rdb := goredis.NewClient(&goredis.Options{
		Addr:        cfg.Addr,
		Username:    cfg.Username,
		Password:    cfg.Password,
		DB:          cfg.DB,
		DialTimeout: cfg.DialTimeout,
	})

	pingCtx, cancel := context.WithTimeout(ctx, dialTimeout(cfg.DialTimeout))
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("%w: redis ping: %w", entities.ErrCacheUnavailable, err)
	}

	log.Info("redis cache connected", "addr", cfg.Addr, "db", cfg.DB)
	return newCache(rdb, cfg.OpTimeout, log), nil
}

func newCache(rdb *goredis.Client, opTimeout time.Duration, log *logger.Logger) *Cache {
	if opTimeout <= 0 {
		opTimeout = 500 * time.Millisecond
	}
	return &Cache{
		log:       log.With("service", "RedisCache"),
		rdb:       rdb,
		opTimeout: opTimeout,
	}
}

func dialTimeout(d time.Duration) time.Duration {
	if d <= 0 {
		return 5 * time.Second
	}
	return d
}

// Get returns the value stored under key.
func (c *Cache) Get(ctx context.Context, key string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, c.opTimeout)
	defer cancel()

	raw, err := c.rdb.Get(ctx, key).Bytes()
	if errors.Is(err, goredis.Nil) {
		return nil, fmt.Errorf("key %q: %w", key, entities.ErrCacheMiss)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: redis get: %w", entities.ErrCacheUnavailable, err)
	}
	return raw, nil
}

// Set stores value under key with the given expiry.
func (c *Cache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	ctx, cancel := context.WithTimeout(ctx, c.opTimeout)
	defer cancel()

	if err := c.rdb.Set(ctx, key, value, ttl).Err(); err != nil {
		return fmt.Errorf("%w: redis set: %w", entities.ErrCacheUnavailable, err)
	}
	return nil
}

// TTL reports the remaining lifetime of key. Used by diagnostics and tests.
func (c *Cache) TTL(ctx context.Context, key string) (time.Duration, error) {
	ctx, cancel := context.WithTimeout(ctx, c.opTimeout)
	defer cancel()

	d, err := c.rdb.TTL(ctx, key).Result()
	if err != nil {
		return 0, fmt.Errorf("%w: redis ttl: %w", entities.ErrCacheUnavailable, err)
	}
	return d, nil
}

// Close releases the client's connections.
func (c *Cache) Close() error {
	return c.rdb.Close()
}
