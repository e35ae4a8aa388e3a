package services

import (
	"context"

	"github.com/jwebster45206/chronicle/pkg/chat"
)

// LLMService defines the interface for interacting with the LLM API
type LLMService interface {
	// InitModel prepares the model on startup
	InitModel(ctx context.Context, modelName string) error

	// Chat returns the raw completion text for the conversation
	Chat(ctx context.Context, messages []chat.ChatMessage) (string, error)

	// Provider names the backing API, used for logs and metrics
	Provider() string
}
