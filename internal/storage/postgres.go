package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jwebster45206/chronicle/pkg/state"
)

const (
	createGameStatesTable = `
		CREATE TABLE IF NOT EXISTS game_states (
			id             UUID PRIMARY KEY,
			user_id        TEXT NOT NULL DEFAULT '',
			character_name TEXT NOT NULL DEFAULT '',
			data           JSONB NOT NULL,
			created_at     TIMESTAMPTZ NOT NULL DEFAULT now(),
			updated_at     TIMESTAMPTZ NOT NULL DEFAULT now()
		)`
	createGameStatesUserIndex = `CREATE INDEX IF NOT EXISTS game_states_user_id_idx ON game_states (user_id, updated_at DESC)`
	createPreferencesTable    = `
		CREATE TABLE IF NOT EXISTS preferences (
			user_id        TEXT PRIMARY KEY,
			theme          TEXT NOT NULL DEFAULT '',
			accent_color   TEXT NOT NULL DEFAULT '',
			language       TEXT NOT NULL DEFAULT '',
			background_url TEXT NOT NULL DEFAULT '',
			updated_at     TIMESTAMPTZ NOT NULL DEFAULT now()
		)`

	upsertGameStateQuery = `
		INSERT INTO game_states (id, user_id, character_name, data, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (id) DO UPDATE SET
			user_id = EXCLUDED.user_id,
			character_name = EXCLUDED.character_name,
			data = EXCLUDED.data,
			updated_at = EXCLUDED.updated_at`
	getGameStateQuery    = `SELECT data FROM game_states WHERE id = $1`
	deleteGameStateQuery = `DELETE FROM game_states WHERE id = $1`
	listGameStatesQuery  = `
		SELECT id::text AS id, character_name, updated_at
		FROM game_states
		WHERE user_id = $1
		ORDER BY updated_at DESC`

	getPreferencesQuery = `
		SELECT user_id, theme, accent_color, language, background_url, updated_at
		FROM preferences WHERE user_id = $1`
	upsertPreferencesQuery = `
		INSERT INTO preferences (user_id, theme, accent_color, language, background_url, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (user_id) DO UPDATE SET
			theme = EXCLUDED.theme,
			accent_color = EXCLUDED.accent_color,
			language = EXCLUDED.language,
			background_url = EXCLUDED.background_url,
			updated_at = EXCLUDED.updated_at`
)

// PostgresStorage persists game states and preferences in PostgreSQL.
// Game states are stored whole as JSONB, with a few columns lifted out
// for listing.
type PostgresStorage struct {
	pool   *pgxpool.Pool
	logger *slog.Logger
}

var _ Storage = (*PostgresStorage)(nil)

type gameStateRow struct {
	ID            string    `db:"id"`
	CharacterName string    `db:"character_name"`
	UpdatedAt     time.Time `db:"updated_at"`
}

type preferencesRow struct {
	UserID        string    `db:"user_id"`
	Theme         string    `db:"theme"`
	AccentColor   string    `db:"accent_color"`
	Language      string    `db:"language"`
	BackgroundURL string    `db:"background_url"`
	UpdatedAt     time.Time `db:"updated_at"`
}

// NewPostgresStorage opens a connection pool. It does not create tables;
// call EnsureSchema for that.
func NewPostgresStorage(ctx context.Context, databaseURL string, logger *slog.Logger) (*PostgresStorage, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to create postgres pool: %w", err)
	}
	return &PostgresStorage{pool: pool, logger: logger}, nil
}

// EnsureSchema creates the tables if they are missing. It never alters
// existing tables.
func (p *PostgresStorage) EnsureSchema(ctx context.Context) error {
	for _, stmt := range []string{createGameStatesTable, createGameStatesUserIndex, createPreferencesTable} {
		if _, err := p.pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("failed to ensure schema: %w", err)
		}
	}
	return nil
}

func (p *PostgresStorage) Ping(ctx context.Context) error {
	if err := p.pool.Ping(ctx); err != nil {
		return fmt.Errorf("postgres ping failed: %w", err)
	}
	return nil
}

func (p *PostgresStorage) Close() error {
	p.pool.Close()
	p.logger.Info("Postgres connection closed")
	return nil
}

// WaitForConnection waits for Postgres to become available (used during startup)
func (p *PostgresStorage) WaitForConnection(ctx context.Context) error {
	return waitFor(ctx, "postgres", p.Ping, p.logger)
}

func (p *PostgresStorage) SaveGameState(ctx context.Context, id uuid.UUID, gs *state.GameState) error {
	gs.UpdatedAt = time.Now()
	if gs.CreatedAt.IsZero() {
		gs.CreatedAt = gs.UpdatedAt
	}

	data, err := json.Marshal(gs)
	if err != nil {
		p.logger.Error("Failed to marshal gamestate", "uuid", id, "error", err)
		return fmt.Errorf("failed to marshal gamestate: %w", err)
	}

	if _, err := p.pool.Exec(ctx, upsertGameStateQuery,
		id.String(), gs.UserID, gs.CharacterName, data, gs.CreatedAt, gs.UpdatedAt); err != nil {
		p.logger.Error("Failed to save gamestate", "uuid", id, "error", err)
		return fmt.Errorf("failed to save gamestate: %w", err)
	}
	return nil
}

func (p *PostgresStorage) LoadGameState(ctx context.Context, id uuid.UUID) (*state.GameState, error) {
	var data []byte
	if err := p.pool.QueryRow(ctx, getGameStateQuery, id.String()).Scan(&data); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			p.logger.Warn("Gamestate not found", "uuid", id)
			return nil, nil
		}
		p.logger.Error("Failed to load gamestate", "uuid", id, "error", err)
		return nil, fmt.Errorf("failed to load gamestate: %w", err)
	}

	var gs state.GameState
	if err := json.Unmarshal(data, &gs); err != nil {
		p.logger.Error("Failed to unmarshal gamestate", "uuid", id, "error", err)
		return nil, fmt.Errorf("failed to unmarshal gamestate: %w", err)
	}
	return &gs, nil
}

func (p *PostgresStorage) DeleteGameState(ctx context.Context, id uuid.UUID) error {
	if _, err := p.pool.Exec(ctx, deleteGameStateQuery, id.String()); err != nil {
		p.logger.Error("Failed to delete gamestate", "uuid", id, "error", err)
		return fmt.Errorf("failed to delete gamestate: %w", err)
	}
	return nil
}

func (p *PostgresStorage) ListGameStates(ctx context.Context, userID string) ([]GameStateSummary, error) {
	var rows []gameStateRow
	if err := pgxscan.Select(ctx, p.pool, &rows, listGameStatesQuery, userID); err != nil {
		p.logger.Error("Failed to list gamestates", "user_id", userID, "error", err)
		return nil, fmt.Errorf("failed to list gamestates: %w", err)
	}

	out := make([]GameStateSummary, 0, len(rows))
	for _, r := range rows {
		id, err := uuid.Parse(r.ID)
		if err != nil {
			return nil, fmt.Errorf("invalid gamestate id %q: %w", r.ID, err)
		}
		out = append(out, GameStateSummary{ID: id, CharacterName: r.CharacterName, UpdatedAt: r.UpdatedAt})
	}
	return out, nil
}

func (p *PostgresStorage) GetPreferences(ctx context.Context, userID string) (*state.Preferences, error) {
	var row preferencesRow
	if err := pgxscan.Get(ctx, p.pool, &row, getPreferencesQuery, userID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		p.logger.Error("Failed to load preferences", "user_id", userID, "error", err)
		return nil, fmt.Errorf("failed to load preferences: %w", err)
	}

	return &state.Preferences{
		UserID:        row.UserID,
		Theme:         row.Theme,
		AccentColor:   row.AccentColor,
		Language:      row.Language,
		BackgroundURL: row.BackgroundURL,
		UpdatedAt:     row.UpdatedAt,
	}, nil
}

func (p *PostgresStorage) SavePreferences(ctx context.Context, prefs *state.Preferences) error {
	prefs.UpdatedAt = time.Now()
	if _, err := p.pool.Exec(ctx, upsertPreferencesQuery,
		prefs.UserID, prefs.Theme, prefs.AccentColor, prefs.Language, prefs.BackgroundURL, prefs.UpdatedAt); err != nil {
		p.logger.Error("Failed to save preferences", "user_id", prefs.UserID, "error", err)
		return fmt.Errorf("failed to save preferences: %w", err)
	}
	return nil
}
