package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/jwebster45206/chronicle/internal/middleware"
	"github.com/jwebster45206/chronicle/pkg/gameevent"
	"github.com/jwebster45206/chronicle/pkg/response"
)

type ParseRequest struct {
	Text     string `json:"text"`
	Language string `json:"language,omitempty"`
}

type ParseResponse struct {
	Message  string            `json:"message"`
	Update   *response.Update  `json:"update,omitempty"`
	Events   []gameevent.Event `json:"events"`
	Fallback bool              `json:"fallback,omitempty"`
	Error    string            `json:"error,omitempty"`
}

// ParseHandler parses a model reply without touching any game state. The
// client uses it to re-render saved transcripts.
type ParseHandler struct {
	logger *slog.Logger
}

func NewParseHandler(logger *slog.Logger) *ParseHandler {
	return &ParseHandler{logger: logger}
}

func (h *ParseHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	log := middleware.RequestLogger(r, h.logger)

	var req ParseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Warn("Invalid request body", "error", err)
		writeError(w, http.StatusBadRequest, "Invalid request body. Expected JSON with 'text' field.", log)
		return
	}

	resp := ParseResponse{
		Events: gameevent.Extract(req.Text, gameevent.MatchLanguage(req.Language)),
	}

	u, err := response.Parse(req.Text)
	if err != nil {
		resp.Fallback = true
		resp.Error = err.Error()
		resp.Message = response.NormalizeMessage(gameevent.Strip(req.Text))
	} else {
		resp.Update = u
		resp.Message = response.NormalizeMessage(gameevent.Strip(u.Message))
	}

	writeJSON(w, http.StatusOK, resp, log)
}
