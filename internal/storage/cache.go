package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jwebster45206/chronicle/pkg/state"
	"github.com/redis/go-redis/v9"
)

// CachedStorage keeps recently used game states in Redis in front of a
// durable Storage. Reads go through the cache; writes go to the backend
// first and then refresh the cache. Cache failures are logged and never
// fail the operation.
type CachedStorage struct {
	Storage
	client *redis.Client
	ttl    time.Duration
	logger *slog.Logger
}

var _ Storage = (*CachedStorage)(nil)

func NewCachedStorage(backend Storage, client *redis.Client, ttl time.Duration, logger *slog.Logger) *CachedStorage {
	return &CachedStorage{
		Storage: backend,
		client:  client,
		ttl:     ttl,
		logger:  logger,
	}
}

// NewRedisClient parses a redis:// URL into a client.
func NewRedisClient(redisURL string) (*redis.Client, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("invalid redis url: %w", err)
	}
	return redis.NewClient(opts), nil
}

func gameStateKey(id uuid.UUID) string {
	return "gamestate:" + id.String()
}

func (c *CachedStorage) Ping(ctx context.Context) error {
	if err := c.Storage.Ping(ctx); err != nil {
		return err
	}
	if err := c.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis ping failed: %w", err)
	}
	return nil
}

func (c *CachedStorage) Close() error {
	err := c.Storage.Close()
	if cerr := c.client.Close(); cerr != nil {
		c.logger.Error("Failed to close Redis connection", "error", cerr)
		err = errors.Join(err, cerr)
	}
	return err
}

// WaitForConnection waits for Redis to become available (used during startup)
func (c *CachedStorage) WaitForConnection(ctx context.Context) error {
	return waitFor(ctx, "redis", func(ctx context.Context) error {
		return c.client.Ping(ctx).Err()
	}, c.logger)
}

func (c *CachedStorage) SaveGameState(ctx context.Context, id uuid.UUID, gs *state.GameState) error {
	if err := c.Storage.SaveGameState(ctx, id, gs); err != nil {
		return err
	}
	c.store(ctx, id, gs)
	return nil
}

func (c *CachedStorage) LoadGameState(ctx context.Context, id uuid.UUID) (*state.GameState, error) {
	data, err := c.client.Get(ctx, gameStateKey(id)).Bytes()
	switch {
	case err == nil:
		var gs state.GameState
		if err := json.Unmarshal(data, &gs); err == nil {
			return &gs, nil
		}
		c.logger.Warn("Discarding unreadable cached gamestate", "uuid", id)
	case !errors.Is(err, redis.Nil):
		c.logger.Warn("Gamestate cache read failed", "uuid", id, "error", err)
	}

	gs, err := c.Storage.LoadGameState(ctx, id)
	if err != nil || gs == nil {
		return gs, err
	}
	c.store(ctx, id, gs)
	return gs, nil
}

func (c *CachedStorage) DeleteGameState(ctx context.Context, id uuid.UUID) error {
	if err := c.Storage.DeleteGameState(ctx, id); err != nil {
		return err
	}
	if err := c.client.Del(ctx, gameStateKey(id)).Err(); err != nil {
		c.logger.Warn("Gamestate cache delete failed", "uuid", id, "error", err)
	}
	return nil
}

func (c *CachedStorage) store(ctx context.Context, id uuid.UUID, gs *state.GameState) {
	data, err := json.Marshal(gs)
	if err != nil {
		c.logger.Warn("Failed to marshal gamestate for cache", "uuid", id, "error", err)
		return
	}
	if err := c.client.Set(ctx, gameStateKey(id), data, c.ttl).Err(); err != nil {
		c.logger.Warn("Gamestate cache write failed", "uuid", id, "error", err)
	}
}
