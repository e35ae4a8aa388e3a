package handlers

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/jwebster45206/chronicle/internal/logger"
	"github.com/jwebster45206/chronicle/internal/metrics"
	"github.com/jwebster45206/chronicle/internal/middleware"
	"github.com/jwebster45206/chronicle/internal/services"
	"github.com/jwebster45206/chronicle/internal/storage"
	"github.com/jwebster45206/chronicle/pkg/chat"
	"github.com/jwebster45206/chronicle/pkg/prompts"
)

// ChatHandler runs one chat turn: prompt the model, fold its reply into the
// game state and return the structured view.
type ChatHandler struct {
	llmService   services.LLMService
	storage      storage.Storage
	locker       storage.Locker
	historyLimit int
	logger       *slog.Logger
}

func NewChatHandler(llmService services.LLMService, storage storage.Storage, locker storage.Locker, historyLimit int, logger *slog.Logger) *ChatHandler {
	return &ChatHandler{
		llmService:   llmService,
		storage:      storage,
		locker:       locker,
		historyLimit: historyLimit,
		logger:       logger,
	}
}

func (h *ChatHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	log := middleware.RequestLogger(r, h.logger)

	var request chat.ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		log.Warn("Invalid request body", "error", err)
		writeError(w, http.StatusBadRequest, "Invalid request body. Expected JSON with 'gamestate_id' and 'message' fields.", log)
		return
	}
	if err := request.Validate(); err != nil {
		log.Warn("Invalid chat request", "error", err)
		writeError(w, http.StatusBadRequest, err.Error(), log)
		return
	}

	log = logger.WithGameID(log, request.GameStateID.String())

	token, ok, err := h.locker.Acquire(r.Context(), request.GameStateID)
	if err != nil {
		log.Error("Failed to acquire game lock", "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to start turn. Please try again.", log)
		return
	}
	if !ok {
		log.Info("Turn already in progress")
		writeError(w, http.StatusConflict, "A turn is already in progress for this game.", log)
		return
	}
	defer func() {
		// the request context may already be cancelled
		releaseCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = h.locker.Release(releaseCtx, request.GameStateID, token)
	}()

	gs, err := h.storage.LoadGameState(r.Context(), request.GameStateID)
	if err != nil {
		log.Error("Failed to load game state", "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to load game state.", log)
		return
	}
	if gs == nil {
		writeError(w, http.StatusNotFound, "Game state not found.", log)
		return
	}

	messages, err := prompts.BuildMessages(gs, request.Message, h.historyLimit)
	if err != nil {
		log.Error("Failed to build prompt", "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to build prompt.", log)
		return
	}

	raw, err := h.llmService.Chat(r.Context(), messages)
	if err != nil {
		log.Error("Error generating chat response", "error", err, "provider", h.llmService.Provider())
		metrics.TurnsTotal.WithLabelValues(metrics.OutcomeError).Inc()
		writeError(w, http.StatusInternalServerError, "Failed to generate response. Please try again.", log)
		return
	}

	turn := gs.ProcessTurn(raw)
	outcome := metrics.OutcomeStructured
	switch {
	case turn.Fallback:
		outcome = metrics.OutcomeFallback
		log.Warn("Model reply could not be parsed, falling back to raw text", "error", turn.ParseError)
	case !turn.Update.Structured:
		outcome = metrics.OutcomeDegraded
		log.Debug("Model reply had no response envelope")
	}
	metrics.TurnsTotal.WithLabelValues(outcome).Inc()
	for _, e := range turn.Applied {
		metrics.EventsAppliedTotal.WithLabelValues(e.Type).Inc()
	}

	gs.AppendHistory(chat.ChatRoleUser, request.Message)
	gs.AppendHistory(chat.ChatRoleAgent, raw)

	if err := h.storage.SaveGameState(r.Context(), gs.ID, gs); err != nil {
		log.Error("Failed to save game state", "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to save game state.", log)
		return
	}

	log.Info("Turn completed",
		"outcome", outcome,
		"events", len(turn.Events),
		"applied", len(turn.Applied))

	writeJSON(w, http.StatusOK, chat.ChatResponse{
		GameStateID: gs.ID,
		Message:     turn.Message,
		Update:      turn.Update,
		Events:      turn.Events,
		Fallback:    turn.Fallback,
	}, log)
}
