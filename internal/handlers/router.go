package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/jwebster45206/chronicle/internal/middleware"
	"github.com/jwebster45206/chronicle/internal/services"
	"github.com/jwebster45206/chronicle/internal/storage"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// RouterConfig carries everything the API routes depend on.
type RouterConfig struct {
	LLM          services.LLMService
	Storage      storage.Storage
	Locker       storage.Locker
	HistoryLimit int
	CORSOrigins  []string
	Logger       *slog.Logger
}

// NewRouter wires the API routes and middleware.
func NewRouter(cfg RouterConfig) *mux.Router {
	r := mux.NewRouter()
	r.Use(middleware.RequestID, middleware.Logger(cfg.Logger), middleware.CORS(cfg.CORSOrigins))

	r.Handle("/health", NewHealthHandler(cfg.Storage, cfg.Logger)).Methods(http.MethodGet, http.MethodOptions)
	r.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)

	// API routes sit on the root router so method mismatches answer 405.
	r.Handle("/v1/chat", NewChatHandler(cfg.LLM, cfg.Storage, cfg.Locker, cfg.HistoryLimit, cfg.Logger)).
		Methods(http.MethodPost, http.MethodOptions)
	r.Handle("/v1/parse", NewParseHandler(cfg.Logger)).Methods(http.MethodPost, http.MethodOptions)

	games := NewGameStateHandler(cfg.Storage, cfg.Logger)
	r.HandleFunc("/v1/gamestate", games.Create).Methods(http.MethodPost, http.MethodOptions)
	r.HandleFunc("/v1/gamestate", games.List).Methods(http.MethodGet)
	r.HandleFunc("/v1/gamestate/{id}", games.Get).Methods(http.MethodGet, http.MethodOptions)
	r.HandleFunc("/v1/gamestate/{id}", games.Delete).Methods(http.MethodDelete)

	prefs := NewPreferencesHandler(cfg.Storage, cfg.Logger)
	r.HandleFunc("/v1/preferences/{userID}", prefs.Get).Methods(http.MethodGet, http.MethodOptions)
	r.HandleFunc("/v1/preferences/{userID}", prefs.Put).Methods(http.MethodPut)

	return r
}
