package storage

import (
	"context"
	"encoding/json"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jwebster45206/chronicle/pkg/state"
)

// MockStorage is a mock implementation of Storage for testing. Game states
// are stored as copies so callers cannot mutate saved data.
type MockStorage struct {
	mu          sync.RWMutex
	gamestates  map[uuid.UUID][]byte
	preferences map[string]state.Preferences
	pingError   error
	saveError   error
}

// Ensure MockStorage implements Storage interface
var _ Storage = (*MockStorage)(nil)

// NewMockStorage creates a new mock storage
func NewMockStorage() *MockStorage {
	return &MockStorage{
		gamestates:  make(map[uuid.UUID][]byte),
		preferences: make(map[string]state.Preferences),
	}
}

// SetPingError configures the mock to fail on ping with the given error
func (m *MockStorage) SetPingError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pingError = err
}

// SetSaveError configures the mock to fail every save with the given error
func (m *MockStorage) SetSaveError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.saveError = err
}

// Ping mocks storage ping
func (m *MockStorage) Ping(ctx context.Context) error {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.pingError
}

// Close mocks storage close
func (m *MockStorage) Close() error {
	return nil
}

func (m *MockStorage) SaveGameState(ctx context.Context, id uuid.UUID, gs *state.GameState) error {
	if gs == nil {
		return errors.New("gamestate cannot be nil")
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.saveError != nil {
		return m.saveError
	}

	gs.UpdatedAt = time.Now()
	data, err := json.Marshal(gs)
	if err != nil {
		return err
	}
	m.gamestates[id] = data
	return nil
}

func (m *MockStorage) LoadGameState(ctx context.Context, id uuid.UUID) (*state.GameState, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	data, exists := m.gamestates[id]
	if !exists {
		return nil, nil // Return nil for not found
	}
	var gs state.GameState
	if err := json.Unmarshal(data, &gs); err != nil {
		return nil, err
	}
	return &gs, nil
}

func (m *MockStorage) DeleteGameState(ctx context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.gamestates, id)
	return nil
}

func (m *MockStorage) ListGameStates(ctx context.Context, userID string) ([]GameStateSummary, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]GameStateSummary, 0)
	for id, data := range m.gamestates {
		var gs state.GameState
		if err := json.Unmarshal(data, &gs); err != nil {
			return nil, err
		}
		if gs.UserID != userID {
			continue
		}
		out = append(out, GameStateSummary{ID: id, CharacterName: gs.CharacterName, UpdatedAt: gs.UpdatedAt})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UpdatedAt.After(out[j].UpdatedAt) })
	return out, nil
}

func (m *MockStorage) GetPreferences(ctx context.Context, userID string) (*state.Preferences, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	p, exists := m.preferences[userID]
	if !exists {
		return nil, nil
	}
	return &p, nil
}

func (m *MockStorage) SavePreferences(ctx context.Context, prefs *state.Preferences) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.saveError != nil {
		return m.saveError
	}
	prefs.UpdatedAt = time.Now()
	m.preferences[prefs.UserID] = *prefs
	return nil
}
