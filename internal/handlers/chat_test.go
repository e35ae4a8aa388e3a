package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/jwebster45206/chronicle/pkg/chat"
	"github.com/jwebster45206/chronicle/pkg/response"
	"github.com/jwebster45206/chronicle/pkg/state"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedGame(t *testing.T, env *testEnv) *state.GameState {
	t.Helper()
	gs := state.NewGameState("user-1")
	gs.CharacterName = "Aria"
	require.NoError(t, env.storage.SaveGameState(context.Background(), gs.ID, gs))
	return gs
}

func chatBody(id uuid.UUID, message string) string {
	return fmt.Sprintf(`{"gamestate_id":%q,"message":%q}`, id.String(), message)
}

func TestChatHandler_StructuredTurn(t *testing.T) {
	env := newTestEnv()
	gs := seedGame(t, env)
	env.llm.SetChatResponse(`<response>
<message>The goblin strikes you. <event>HEALTH:-10</event></message>
<item1>Torch</item1>
<stat1><name>Stamina</name><value>40</value><config>{"type":"progress","max":50}</config></stat1>
<mainQuest><title>Escape the cave</title><description>Find the exit.</description></mainQuest>
</response>
<event>ITEM_FOUND:Sword</event>`)

	rr := env.do(http.MethodPost, "/v1/chat", chatBody(gs.ID, "I look around"))
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))

	var resp chat.ChatResponse
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&resp))
	assert.False(t, resp.Fallback)
	assert.Equal(t, gs.ID, resp.GameStateID)
	assert.Equal(t, "The goblin strikes you.", resp.Message)
	require.NotNil(t, resp.Update)
	require.Len(t, resp.Update.Stats, 1)
	assert.Equal(t, response.StatProgress, resp.Update.Stats[0].Config.Kind)
	require.Len(t, resp.Events, 2)
	assert.Equal(t, "Santé -10", resp.Events[0].Display)

	saved, err := env.storage.LoadGameState(context.Background(), gs.ID)
	require.NoError(t, err)
	assert.Equal(t, 90, saved.Health)
	assert.Equal(t, []string{"Torch", "Sword"}, saved.Inventory)
	assert.Equal(t, []string{"Santé -10", "Objet trouvé: Sword"}, saved.EventLog)
	require.NotNil(t, saved.MainQuest)
	assert.Equal(t, "Escape the cave", saved.MainQuest.Title)
	require.Len(t, saved.ChatHistory, 2)
	assert.Equal(t, chat.ChatRoleUser, saved.ChatHistory[0].Role)
	assert.Equal(t, "I look around", saved.ChatHistory[0].Content)

	// the prompt carried the player's message
	_, calls := env.llm.GetCalls()
	require.Len(t, calls, 1)
	found := false
	for _, m := range calls[0].Messages {
		if m.Role == chat.ChatRoleUser && m.Content == "I look around" {
			found = true
		}
	}
	assert.True(t, found)
}

func TestChatHandler_MalformedConfigFallsBack(t *testing.T) {
	env := newTestEnv()
	gs := seedGame(t, env)
	raw := `<response><message>You rest.</message><characterName>Bob</characterName>
<stat1><name>Focus</name><value>3</value><config>{not json}</config></stat1></response>
<event>MANA:-5</event>`
	env.llm.SetChatResponse(raw)

	rr := env.do(http.MethodPost, "/v1/chat", chatBody(gs.ID, "I rest"))
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	var resp chat.ChatResponse
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&resp))
	assert.True(t, resp.Fallback)
	assert.Nil(t, resp.Update)
	assert.Contains(t, resp.Message, "<response><message>You rest.</message>")
	assert.NotContains(t, resp.Message, "<event>")

	saved, err := env.storage.LoadGameState(context.Background(), gs.ID)
	require.NoError(t, err)
	assert.Equal(t, "Aria", saved.CharacterName, "structured fields keep their previous values")
	assert.Equal(t, 95, saved.Mana, "inline events still apply")
}

func TestChatHandler_Errors(t *testing.T) {
	tests := []struct {
		name           string
		setup          func(t *testing.T, env *testEnv) string
		expectedStatus int
	}{
		{
			name: "invalid JSON",
			setup: func(t *testing.T, env *testEnv) string {
				return `{invalid json}`
			},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name: "empty message",
			setup: func(t *testing.T, env *testEnv) string {
				return chatBody(uuid.New(), "   ")
			},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name: "missing gamestate_id",
			setup: func(t *testing.T, env *testEnv) string {
				return `{"message":"hello"}`
			},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name: "unknown game",
			setup: func(t *testing.T, env *testEnv) string {
				return chatBody(uuid.New(), "hello")
			},
			expectedStatus: http.StatusNotFound,
		},
		{
			name: "turn already in progress",
			setup: func(t *testing.T, env *testEnv) string {
				gs := seedGame(t, env)
				_, ok, err := env.locker.Acquire(context.Background(), gs.ID)
				require.NoError(t, err)
				require.True(t, ok)
				return chatBody(gs.ID, "hello")
			},
			expectedStatus: http.StatusConflict,
		},
		{
			name: "llm failure",
			setup: func(t *testing.T, env *testEnv) string {
				gs := seedGame(t, env)
				env.llm.SetChatError(errors.New("upstream down"))
				return chatBody(gs.ID, "hello")
			},
			expectedStatus: http.StatusInternalServerError,
		},
		{
			name: "save failure",
			setup: func(t *testing.T, env *testEnv) string {
				gs := seedGame(t, env)
				env.storage.SetSaveError(errors.New("disk full"))
				return chatBody(gs.ID, "hello")
			},
			expectedStatus: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv()
			body := tt.setup(t, env)

			rr := env.do(http.MethodPost, "/v1/chat", body)
			assert.Equal(t, tt.expectedStatus, rr.Code, rr.Body.String())

			var resp ErrorResponse
			require.NoError(t, json.NewDecoder(rr.Body).Decode(&resp))
			assert.NotEmpty(t, resp.Error)
		})
	}
}

func TestChatHandler_ReleasesLock(t *testing.T) {
	env := newTestEnv()
	gs := seedGame(t, env)

	rr := env.do(http.MethodPost, "/v1/chat", chatBody(gs.ID, "first"))
	require.Equal(t, http.StatusOK, rr.Code)

	rr = env.do(http.MethodPost, "/v1/chat", chatBody(gs.ID, "second"))
	require.Equal(t, http.StatusOK, rr.Code)

	saved, err := env.storage.LoadGameState(context.Background(), gs.ID)
	require.NoError(t, err)
	assert.Len(t, saved.ChatHistory, 4)
}
