package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/jwebster45206/chronicle/internal/middleware"
	"github.com/jwebster45206/chronicle/internal/storage"
	"github.com/jwebster45206/chronicle/pkg/gameevent"
	"github.com/jwebster45206/chronicle/pkg/state"
)

type GameStateHandler struct {
	storage storage.Storage
	logger  *slog.Logger
}

func NewGameStateHandler(storage storage.Storage, logger *slog.Logger) *GameStateHandler {
	return &GameStateHandler{
		storage: storage,
		logger:  logger,
	}
}

// CreateGameStateRequest defines the request body for creating a new game state
type CreateGameStateRequest struct {
	UserID               string `json:"user_id"`
	Language             string `json:"language,omitempty"`
	CharacterName        string `json:"character_name,omitempty"`
	CharacterDescription string `json:"character_description,omitempty"`
}

type ListGameStatesResponse struct {
	Games []storage.GameStateSummary `json:"games"`
}

// Create handles POST /v1/gamestate
func (h *GameStateHandler) Create(w http.ResponseWriter, r *http.Request) {
	log := middleware.RequestLogger(r, h.logger)

	var req CreateGameStateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Warn("Invalid request body", "error", err)
		writeError(w, http.StatusBadRequest, "Invalid request body.", log)
		return
	}
	if req.Language != "" && !gameevent.IsSupported(req.Language) {
		writeError(w, http.StatusBadRequest, "Unsupported language: "+req.Language, log)
		return
	}

	gs := state.NewGameState(strings.TrimSpace(req.UserID))
	gs.Language = req.Language
	gs.CharacterName = req.CharacterName
	gs.CharacterDescription = req.CharacterDescription

	if err := h.storage.SaveGameState(r.Context(), gs.ID, gs); err != nil {
		log.Error("Failed to save game state", "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to create game state.", log)
		return
	}

	log.Info("Game state created", "game_id", gs.ID.String(), "user_id", gs.UserID)
	writeJSON(w, http.StatusCreated, gs, log)
}

// Get handles GET /v1/gamestate/{id}
func (h *GameStateHandler) Get(w http.ResponseWriter, r *http.Request) {
	log := middleware.RequestLogger(r, h.logger)

	id, ok := h.parseID(w, r, log)
	if !ok {
		return
	}

	gs, err := h.storage.LoadGameState(r.Context(), id)
	if err != nil {
		log.Error("Failed to load game state", "error", err, "game_id", id.String())
		writeError(w, http.StatusInternalServerError, "Failed to load game state.", log)
		return
	}
	if gs == nil {
		writeError(w, http.StatusNotFound, "Game state not found.", log)
		return
	}
	writeJSON(w, http.StatusOK, gs, log)
}

// Delete handles DELETE /v1/gamestate/{id}
func (h *GameStateHandler) Delete(w http.ResponseWriter, r *http.Request) {
	log := middleware.RequestLogger(r, h.logger)

	id, ok := h.parseID(w, r, log)
	if !ok {
		return
	}

	if err := h.storage.DeleteGameState(r.Context(), id); err != nil {
		log.Error("Failed to delete game state", "error", err, "game_id", id.String())
		writeError(w, http.StatusInternalServerError, "Failed to delete game state.", log)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// List handles GET /v1/gamestate?user_id=
func (h *GameStateHandler) List(w http.ResponseWriter, r *http.Request) {
	log := middleware.RequestLogger(r, h.logger)

	userID := strings.TrimSpace(r.URL.Query().Get("user_id"))
	if userID == "" {
		writeError(w, http.StatusBadRequest, "user_id query parameter is required.", log)
		return
	}

	games, err := h.storage.ListGameStates(r.Context(), userID)
	if err != nil {
		log.Error("Failed to list game states", "error", err, "user_id", userID)
		writeError(w, http.StatusInternalServerError, "Failed to list game states.", log)
		return
	}
	writeJSON(w, http.StatusOK, ListGameStatesResponse{Games: games}, log)
}

func (h *GameStateHandler) parseID(w http.ResponseWriter, r *http.Request, log *slog.Logger) (uuid.UUID, bool) {
	idStr := mux.Vars(r)["id"]
	id, err := uuid.Parse(idStr)
	if err != nil {
		log.Warn("Invalid game state ID", "id", idStr, "error", err)
		writeError(w, http.StatusBadRequest, "Invalid game state ID format", log)
		return uuid.Nil, false
	}
	return id, true
}
