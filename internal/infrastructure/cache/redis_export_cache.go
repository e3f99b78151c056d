// Package cache keeps rendered bulk exports in Redis.
//
// Entries are keyed by environment and generation. Invalidate bumps the
// generation, so an export rendered before an invalidation is written under
// a key no reader asks for again and simply expires.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"confighub-core/internal/application/dto"

	"github.com/redis/go-redis/v9"
)

const defaultKeyPrefix = "confighub:export:"

// Config holds the Redis connection settings for the export cache
type Config struct {
	Addr     string
	Password string
	DB       int
	TTL      time.Duration
}

// ResultRecorder receives hit, miss and error outcomes of cache lookups
type ResultRecorder interface {
	RecordCacheResult(cache, result string)
}

type nopRecorder struct{}

func (nopRecorder) RecordCacheResult(string, string) {}

// RedisExportCache implements service.ExportCache on Redis
type RedisExportCache struct {
	client   *redis.Client
	ttl      time.Duration
	prefix   string
	recorder ResultRecorder
	logger   *slog.Logger
}

// NewRedisExportCache connects to Redis and verifies the connection
func NewRedisExportCache(cfg Config, logger *slog.Logger) (*RedisExportCache, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.TTL <= 0 {
		cfg.TTL = 5 * time.Minute
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	logger.Info("export cache initialized",
		slog.String("addr", cfg.Addr),
		slog.Duration("ttl", cfg.TTL))

	return &RedisExportCache{
		client:   client,
		ttl:      cfg.TTL,
		prefix:   defaultKeyPrefix,
		recorder: nopRecorder{},
		logger:   logger.With(slog.String("component", "export_cache")),
	}, nil
}

// WithRecorder reports lookup outcomes to r
func (c *RedisExportCache) WithRecorder(r ResultRecorder) *RedisExportCache {
	if r != nil {
		c.recorder = r
	}
	return c
}

func (c *RedisExportCache) key(envName string, generation int64) string {
	return c.prefix + envName + ":" + strconv.FormatInt(generation, 10)
}

func (c *RedisExportCache) generationKey(envName string) string {
	return c.prefix + "gen:" + envName
}

// Generation returns the environment's current cache generation. It must be
// read before the store so a concurrent invalidation is never lost.
func (c *RedisExportCache) Generation(ctx context.Context, envName string) (int64, error) {
	gen, err := c.client.Get(ctx, c.generationKey(envName)).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	if err != nil {
		c.recorder.RecordCacheResult("export", "error")
		return 0, fmt.Errorf("failed to read export cache generation: %w", err)
	}
	return gen, nil
}

// Get returns the export cached for generation. A miss is reported as ok=false with no error.
func (c *RedisExportCache) Get(ctx context.Context, envName string, generation int64) (*dto.FlatVariables, bool, error) {
	key := c.key(envName, generation)
	raw, err := c.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		c.recorder.RecordCacheResult("export", "miss")
		return nil, false, nil
	}
	if err != nil {
		c.recorder.RecordCacheResult("export", "error")
		return nil, false, fmt.Errorf("failed to read export cache: %w", err)
	}

	vars := dto.NewFlatVariables()
	if err := json.Unmarshal(raw, vars); err != nil {
		// a corrupt entry is dropped and treated as a miss
		c.logger.Warn("discarding unreadable export cache entry",
			slog.String("environment", envName),
			slog.Any("error", err))
		_ = c.client.Del(ctx, key).Err()
		c.recorder.RecordCacheResult("export", "miss")
		return nil, false, nil
	}

	c.recorder.RecordCacheResult("export", "hit")
	return vars, true, nil
}

// Set stores an export rendered at generation for the configured TTL
func (c *RedisExportCache) Set(ctx context.Context, envName string, generation int64, vars *dto.FlatVariables) error {
	raw, err := json.Marshal(vars)
	if err != nil {
		return fmt.Errorf("failed to encode export: %w", err)
	}

	if err := c.client.Set(ctx, c.key(envName, generation), raw, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to write export cache: %w", err)
	}
	return nil
}

// Invalidate advances the generation of the given environments. Counters
// never expire; resetting one could revive an entry still within its TTL.
func (c *RedisExportCache) Invalidate(ctx context.Context, envNames ...string) error {
	if len(envNames) == 0 {
		return nil
	}

	_, err := c.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		for _, name := range envNames {
			pipe.Incr(ctx, c.generationKey(name))
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to invalidate export cache: %w", err)
	}
	return nil
}

// Ping checks the Redis connection
func (c *RedisExportCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

// Close closes the Redis client
func (c *RedisExportCache) Close() error {
	return c.client.Close()
}
