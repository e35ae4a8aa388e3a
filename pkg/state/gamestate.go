package state

import (
	"time"

	"github.com/google/uuid"
	"github.com/jwebster45206/chronicle/pkg/chat"
	"github.com/jwebster45206/chronicle/pkg/gameevent"
	"github.com/jwebster45206/chronicle/pkg/response"
	"golang.org/x/text/language"
)

const (
	MinVital = 0
	MaxVital = 100

	// PromptHistoryLimit is the number of recent chat messages sent to the model.
	PromptHistoryLimit = 10
)

// GameState is the merged, persisted state of one game.
type GameState struct {
	ID       uuid.UUID `json:"id"`
	UserID   string    `json:"user_id,omitempty"`
	Language string    `json:"language,omitempty"` // display language for event log lines

	Health int `json:"health"`
	Mana   int `json:"mana"`

	CharacterName        string             `json:"character_name,omitempty"`
	CharacterDescription string             `json:"character_description,omitempty"`
	Stats                []response.Stat    `json:"stats"`
	Inventory            []string           `json:"inventory"`
	EventLog             []string           `json:"event_log"`
	MainQuest            *response.Quest    `json:"main_quest,omitempty"`
	SideQuests           []response.Quest   `json:"side_quests"`
	ChatHistory          []chat.ChatMessage `json:"chat_history,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewGameState returns a fresh game with full vitals.
func NewGameState(userID string) *GameState {
	now := time.Now()
	return &GameState{
		ID:          uuid.New(),
		UserID:      userID,
		Health:      MaxVital,
		Mana:        MaxVital,
		Stats:       make([]response.Stat, 0),
		Inventory:   make([]string, 0),
		EventLog:    make([]string, 0),
		SideQuests:  make([]response.Quest, 0),
		ChatHistory: make([]chat.ChatMessage, 0),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// Lang returns the display language for this game.
func (gs *GameState) Lang() language.Tag {
	return gameevent.MatchLanguage(gs.Language)
}

// AppendHistory records one exchange in the chat history.
func (gs *GameState) AppendHistory(role, content string) {
	gs.ChatHistory = append(gs.ChatHistory, chat.ChatMessage{Role: role, Content: content})
}

// HistoryForPrompt returns at most limit of the most recent chat messages.
func (gs *GameState) HistoryForPrompt(limit int) []chat.ChatMessage {
	if limit <= 0 || len(gs.ChatHistory) <= limit {
		return gs.ChatHistory
	}
	return gs.ChatHistory[len(gs.ChatHistory)-limit:]
}

func clampVital(v int) int {
	return max(MinVital, min(MaxVital, v))
}
