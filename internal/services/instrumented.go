package services

import (
	"context"
	"time"

	"github.com/jwebster45206/chronicle/internal/metrics"
	"github.com/jwebster45206/chronicle/pkg/chat"
)

// Instrumented records request latency for an LLMService.
type Instrumented struct {
	LLMService
}

func NewInstrumented(svc LLMService) *Instrumented {
	return &Instrumented{LLMService: svc}
}

func (i *Instrumented) Chat(ctx context.Context, messages []chat.ChatMessage) (string, error) {
	start := time.Now()
	text, err := i.LLMService.Chat(ctx, messages)

	status := "ok"
	if err != nil {
		status = "error"
	}
	metrics.LLMRequestDuration.WithLabelValues(i.Provider(), status).Observe(time.Since(start).Seconds())

	return text, err
}
