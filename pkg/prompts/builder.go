package prompts

import (
	"fmt"
	"strings"

	"github.com/jwebster45206/chronicle/pkg/chat"
	"github.com/jwebster45206/chronicle/pkg/state"
)

// Builder constructs chat messages for the model using a fluent interface.
type Builder struct {
	gs           *state.GameState
	userMessage  string
	historyLimit int
	messages     []chat.ChatMessage
}

// New creates a new prompt builder with default settings.
func New() *Builder {
	return &Builder{
		historyLimit: state.PromptHistoryLimit,
		messages:     make([]chat.ChatMessage, 0),
	}
}

// WithGameState sets the game the turn belongs to.
func (b *Builder) WithGameState(gs *state.GameState) *Builder {
	b.gs = gs
	return b
}

// WithUserMessage sets the player's message for this turn.
func (b *Builder) WithUserMessage(message string) *Builder {
	b.userMessage = message
	return b
}

// WithHistoryLimit sets the chat history window size.
func (b *Builder) WithHistoryLimit(limit int) *Builder {
	b.historyLimit = limit
	return b
}

// Build returns system prompt, state, windowed history, player message and
// reminder, in that order.
func (b *Builder) Build() ([]chat.ChatMessage, error) {
	if b.gs == nil {
		return nil, fmt.Errorf("gamestate is required")
	}
	if strings.TrimSpace(b.userMessage) == "" {
		return nil, fmt.Errorf("user message is required")
	}

	b.messages = make([]chat.ChatMessage, 0, b.historyLimit+4)

	statePrompt, err := GetStatePrompt(b.gs)
	if err != nil {
		return nil, fmt.Errorf("error building state prompt: %w", err)
	}
	b.messages = append(b.messages,
		chat.ChatMessage{Role: chat.ChatRoleSystem, Content: SystemPrompt},
		statePrompt,
	)

	b.messages = append(b.messages, b.gs.HistoryForPrompt(b.historyLimit)...)

	b.messages = append(b.messages,
		chat.ChatMessage{Role: chat.ChatRoleUser, Content: b.userMessage},
		chat.ChatMessage{Role: chat.ChatRoleSystem, Content: UserPostPrompt},
	)

	return b.messages, nil
}

// BuildMessages is a convenience function for the common case.
func BuildMessages(gs *state.GameState, message string, historyLimit int) ([]chat.ChatMessage, error) {
	return New().
		WithGameState(gs).
		WithUserMessage(message).
		WithHistoryLimit(historyLimit).
		Build()
}
