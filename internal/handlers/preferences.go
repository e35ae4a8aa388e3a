package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/jwebster45206/chronicle/internal/middleware"
	"github.com/jwebster45206/chronicle/internal/storage"
	"github.com/jwebster45206/chronicle/pkg/state"
)

type PreferencesHandler struct {
	storage storage.Storage
	logger  *slog.Logger
}

func NewPreferencesHandler(storage storage.Storage, logger *slog.Logger) *PreferencesHandler {
	return &PreferencesHandler{
		storage: storage,
		logger:  logger,
	}
}

// Get handles GET /v1/preferences/{userID}. Users without saved
// preferences get the defaults.
func (h *PreferencesHandler) Get(w http.ResponseWriter, r *http.Request) {
	log := middleware.RequestLogger(r, h.logger)
	userID := mux.Vars(r)["userID"]

	prefs, err := h.storage.GetPreferences(r.Context(), userID)
	if err != nil {
		log.Error("Failed to load preferences", "error", err, "user_id", userID)
		writeError(w, http.StatusInternalServerError, "Failed to load preferences.", log)
		return
	}
	if prefs == nil {
		prefs = state.DefaultPreferences(userID)
	}
	writeJSON(w, http.StatusOK, prefs, log)
}

// Put handles PUT /v1/preferences/{userID}
func (h *PreferencesHandler) Put(w http.ResponseWriter, r *http.Request) {
	log := middleware.RequestLogger(r, h.logger)

	var prefs state.Preferences
	if err := json.NewDecoder(r.Body).Decode(&prefs); err != nil {
		log.Warn("Invalid request body", "error", err)
		writeError(w, http.StatusBadRequest, "Invalid request body.", log)
		return
	}
	prefs.UserID = mux.Vars(r)["userID"]

	if err := prefs.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, err.Error(), log)
		return
	}

	if err := h.storage.SavePreferences(r.Context(), &prefs); err != nil {
		log.Error("Failed to save preferences", "error", err, "user_id", prefs.UserID)
		writeError(w, http.StatusInternalServerError, "Failed to save preferences.", log)
		return
	}
	writeJSON(w, http.StatusOK, prefs, log)
}
