package storage

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// Locker guarantees at most one outstanding chat turn per game.
type Locker interface {
	// Acquire returns a token and true if the lock was taken, or false if
	// another turn holds it.
	Acquire(ctx context.Context, gameID uuid.UUID) (string, bool, error)
	// Release drops the lock only if token still owns it.
	Release(ctx context.Context, gameID uuid.UUID, token string) error
}

// releaseScript only deletes the key if we own the lock
var releaseScript = redis.NewScript(`
	if redis.call("get", KEYS[1]) == ARGV[1] then
		return redis.call("del", KEYS[1])
	else
		return 0
	end
`)

// TurnLock is a Redis-backed Locker. The TTL bounds how long a crashed
// turn can block its game.
type TurnLock struct {
	client *redis.Client
	ttl    time.Duration
	logger *slog.Logger
}

var _ Locker = (*TurnLock)(nil)

func NewTurnLock(client *redis.Client, ttl time.Duration, logger *slog.Logger) *TurnLock {
	return &TurnLock{client: client, ttl: ttl, logger: logger}
}

func lockKey(gameID uuid.UUID) string {
	return "game-lock:" + gameID.String()
}

func (l *TurnLock) Acquire(ctx context.Context, gameID uuid.UUID) (string, bool, error) {
	token := uuid.NewString()
	ok, err := l.client.SetNX(ctx, lockKey(gameID), token, l.ttl).Result()
	if err != nil {
		return "", false, fmt.Errorf("failed to acquire game lock: %w", err)
	}
	if !ok {
		return "", false, nil
	}
	return token, true, nil
}

func (l *TurnLock) Release(ctx context.Context, gameID uuid.UUID, token string) error {
	if err := releaseScript.Run(ctx, l.client, []string{lockKey(gameID)}, token).Err(); err != nil {
		l.logger.Error("Failed to release game lock", "error", err, "game_state_id", gameID.String())
		return fmt.Errorf("failed to release game lock: %w", err)
	}
	return nil
}

// MemoryLock is an in-process Locker for single-instance deployments
// without Redis.
type MemoryLock struct {
	mu   sync.Mutex
	held map[uuid.UUID]string
}

var _ Locker = (*MemoryLock)(nil)

func NewMemoryLock() *MemoryLock {
	return &MemoryLock{held: make(map[uuid.UUID]string)}
}

func (m *MemoryLock) Acquire(ctx context.Context, gameID uuid.UUID) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, busy := m.held[gameID]; busy {
		return "", false, nil
	}
	token := uuid.NewString()
	m.held[gameID] = token
	return token, true, nil
}

func (m *MemoryLock) Release(ctx context.Context, gameID uuid.UUID, token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.held[gameID] == token {
		delete(m.held, gameID)
	}
	return nil
}
