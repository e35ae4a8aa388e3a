package chat

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jwebster45206/chronicle/pkg/gameevent"
	"github.com/jwebster45206/chronicle/pkg/response"
)

// MaxMessageLength bounds a single player message.
const MaxMessageLength = 4000

// ChatRequest represents a chat message sent by the player for one turn.
type ChatRequest struct {
	GameStateID uuid.UUID `json:"gamestate_id"`
	Message     string    `json:"message"`
}

// ChatResponse is returned for a completed turn. When Fallback is set the
// structured view could not be built and Message holds the raw reply with
// event markers removed.
type ChatResponse struct {
	GameStateID uuid.UUID         `json:"gamestate_id,omitempty"`
	Message     string            `json:"message,omitempty"`
	Update      *response.Update  `json:"update,omitempty"`
	Events      []gameevent.Event `json:"events,omitempty"`
	Fallback    bool              `json:"fallback,omitempty"`
}

const (
	ChatRoleUser   = "user"      // Player
	ChatRoleAgent  = "assistant" // Game master
	ChatRoleSystem = "system"    // Instructions
)

// ChatMessage is a single message in the conversation sent to the model.
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

func (cr *ChatRequest) Validate() error {
	if strings.TrimSpace(cr.Message) == "" {
		return fmt.Errorf("message cannot be empty")
	}
	if len(cr.Message) > MaxMessageLength {
		return fmt.Errorf("message exceeds %d characters", MaxMessageLength)
	}
	if cr.GameStateID == uuid.Nil {
		return fmt.Errorf("gamestate_id is required")
	}
	return nil
}
