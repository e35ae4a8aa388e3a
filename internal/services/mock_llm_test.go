package services

import (
	"context"
	"errors"
	"testing"

	"github.com/jwebster45206/chronicle/internal/metrics"
	"github.com/jwebster45206/chronicle/pkg/chat"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMockLLMAPI_DefaultAndHooks(t *testing.T) {
	mock := NewMockLLMAPI()
	ctx := context.Background()
	msgs := []chat.ChatMessage{{Role: chat.ChatRoleUser, Content: "hi"}}

	text, err := mock.Chat(ctx, msgs)
	require.NoError(t, err)
	assert.Contains(t, text, "<response>")

	mock.SetChatResponse("plain")
	text, err = mock.Chat(ctx, msgs)
	require.NoError(t, err)
	assert.Equal(t, "plain", text)

	boom := errors.New("boom")
	mock.SetChatError(boom)
	_, err = mock.Chat(ctx, msgs)
	assert.ErrorIs(t, err, boom)

	require.NoError(t, mock.InitModel(ctx, "m"))
	initCalls, chatCalls := mock.GetCalls()
	assert.Equal(t, []string{"m"}, initCalls)
	assert.Len(t, chatCalls, 3)
	assert.Equal(t, msgs, chatCalls[0].Messages)

	mock.Reset()
	initCalls, chatCalls = mock.GetCalls()
	assert.Empty(t, initCalls)
	assert.Empty(t, chatCalls)
}

func TestInstrumented_RecordsLatency(t *testing.T) {
	mock := NewMockLLMAPI()
	svc := NewInstrumented(mock)
	ctx := context.Background()
	msgs := []chat.ChatMessage{{Role: chat.ChatRoleUser, Content: "hi"}}

	_, err := svc.Chat(ctx, msgs)
	require.NoError(t, err)

	mock.SetChatError(errors.New("down"))
	_, err = svc.Chat(ctx, msgs)
	require.Error(t, err)

	assert.Equal(t, "mock", svc.Provider())
	// one series per provider/status pair
	assert.Equal(t, 2, testutil.CollectAndCount(metrics.LLMRequestDuration))
}
