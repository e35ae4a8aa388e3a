package storage

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jwebster45206/chronicle/pkg/response"
	"github.com/jwebster45206/chronicle/pkg/state"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

// setupPostgres starts a throwaway Postgres container. Skipped with -short.
func setupPostgres(t *testing.T) *PostgresStorage {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping postgres integration test in short mode")
	}
	ctx := context.Background()

	container, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("chronicle_test"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(2*time.Minute),
		),
	)
	require.NoError(t, err, "failed to start postgres container")
	t.Cleanup(func() {
		if err := container.Terminate(ctx); err != nil {
			t.Logf("failed to terminate postgres container: %v", err)
		}
	})

	connStr, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	store, err := NewPostgresStorage(ctx, connStr, testLogger())
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	require.NoError(t, store.WaitForConnection(ctx))
	require.NoError(t, store.EnsureSchema(ctx))
	// idempotent
	require.NoError(t, store.EnsureSchema(ctx))
	return store
}

func TestPostgresStorage_GameStateLifecycle(t *testing.T) {
	store := setupPostgres(t)
	ctx := context.Background()

	gs := state.NewGameState("user-1")
	gs.CharacterName = "Alys"
	gs.Health = 72
	gs.Inventory = []string{"Sword"}
	gs.Stats = []response.Stat{{
		Name:   "Stamina",
		Value:  "40",
		Config: response.StatConfig{Kind: response.StatProgress, Max: 100, Color: "#00ff00"},
	}}
	gs.MainQuest = &response.Quest{Title: "Find the keep", Description: "North."}

	require.NoError(t, store.SaveGameState(ctx, gs.ID, gs))

	loaded, err := store.LoadGameState(ctx, gs.ID)
	require.NoError(t, err)
	require.NotNil(t, loaded)
	assert.Equal(t, gs.ID, loaded.ID)
	assert.Equal(t, 72, loaded.Health)
	assert.Equal(t, []string{"Sword"}, loaded.Inventory)
	require.Len(t, loaded.Stats, 1)
	assert.Equal(t, response.StatProgress, loaded.Stats[0].Config.Kind)
	require.NotNil(t, loaded.MainQuest)
	assert.Equal(t, "Find the keep", loaded.MainQuest.Title)

	// upsert
	loaded.Health = 10
	require.NoError(t, store.SaveGameState(ctx, loaded.ID, loaded))
	again, err := store.LoadGameState(ctx, gs.ID)
	require.NoError(t, err)
	assert.Equal(t, 10, again.Health)

	list, err := store.ListGameStates(ctx, "user-1")
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, gs.ID, list[0].ID)
	assert.Equal(t, "Alys", list[0].CharacterName)

	require.NoError(t, store.DeleteGameState(ctx, gs.ID))
	gone, err := store.LoadGameState(ctx, gs.ID)
	require.NoError(t, err)
	assert.Nil(t, gone)

	missing, err := store.LoadGameState(ctx, uuid.New())
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestPostgresStorage_Preferences(t *testing.T) {
	store := setupPostgres(t)
	ctx := context.Background()

	prefs, err := store.GetPreferences(ctx, "user-1")
	require.NoError(t, err)
	assert.Nil(t, prefs)

	require.NoError(t, store.SavePreferences(ctx, &state.Preferences{
		UserID:      "user-1",
		Theme:       "night",
		AccentColor: "#112233",
		Language:    "en",
	}))
	require.NoError(t, store.SavePreferences(ctx, &state.Preferences{
		UserID:        "user-1",
		Theme:         "parchment",
		AccentColor:   "#445566",
		Language:      "fr",
		BackgroundURL: "https://example.com/bg.jpg",
	}))

	prefs, err = store.GetPreferences(ctx, "user-1")
	require.NoError(t, err)
	require.NotNil(t, prefs)
	assert.Equal(t, "parchment", prefs.Theme)
	assert.Equal(t, "#445566", prefs.AccentColor)
	assert.Equal(t, "fr", prefs.Language)
	assert.Equal(t, "https://example.com/bg.jpg", prefs.BackgroundURL)
}
