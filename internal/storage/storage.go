package storage

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jwebster45206/chronicle/pkg/state"
)

// Storage defines a unified interface for all storage operations
type Storage interface {
	// Health and lifecycle
	Ping(ctx context.Context) error
	Close() error

	// GameState operations. LoadGameState returns nil, nil when absent.
	SaveGameState(ctx context.Context, id uuid.UUID, gs *state.GameState) error
	LoadGameState(ctx context.Context, id uuid.UUID) (*state.GameState, error)
	DeleteGameState(ctx context.Context, id uuid.UUID) error
	ListGameStates(ctx context.Context, userID string) ([]GameStateSummary, error)

	// Preferences operations. GetPreferences returns nil, nil when absent.
	GetPreferences(ctx context.Context, userID string) (*state.Preferences, error)
	SavePreferences(ctx context.Context, prefs *state.Preferences) error
}

// GameStateSummary is the listing view of a saved game.
type GameStateSummary struct {
	ID            uuid.UUID `json:"id"`
	CharacterName string    `json:"character_name,omitempty"`
	UpdatedAt     time.Time `json:"updated_at"`
}
