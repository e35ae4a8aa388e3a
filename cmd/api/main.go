package main

import (
	"context"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/jwebster45206/chronicle/internal/config"
	"github.com/jwebster45206/chronicle/internal/handlers"
	"github.com/jwebster45206/chronicle/internal/logger"
	"github.com/jwebster45206/chronicle/internal/services"
	"github.com/jwebster45206/chronicle/internal/storage"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	log := logger.Setup(cfg)

	log.Info("Starting Chronicle API",
		"port", cfg.Port,
		"environment", cfg.Environment,
		"llm_provider", cfg.LLMProvider,
		"model_name", cfg.ModelName)

	llmService := newLLMService(cfg, log)

	startupCtx, startupCancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer startupCancel()

	pg, err := storage.NewPostgresStorage(startupCtx, cfg.DatabaseURL, log)
	if err != nil {
		log.Error("Failed to create storage", "error", err)
		os.Exit(1)
	}
	if err := pg.WaitForConnection(startupCtx); err != nil {
		log.Error("Failed to connect to storage", "error", err)
		os.Exit(1)
	}
	if err := pg.EnsureSchema(startupCtx); err != nil {
		log.Error("Failed to prepare database schema", "error", err)
		os.Exit(1)
	}

	var store storage.Storage = pg
	var locker storage.Locker = storage.NewMemoryLock()
	if cfg.RedisURL != "" {
		client, err := storage.NewRedisClient(cfg.RedisURL)
		if err != nil {
			log.Error("Invalid Redis configuration", "error", err)
			os.Exit(1)
		}
		cached := storage.NewCachedStorage(pg, client, cfg.CacheTTL, log)
		if err := cached.WaitForConnection(startupCtx); err != nil {
			log.Error("Failed to connect to Redis", "error", err)
			os.Exit(1)
		}
		store = cached
		locker = storage.NewTurnLock(client, cfg.TurnLockTTL, log)
		log.Info("Redis cache and turn lock enabled")
	} else {
		log.Warn("REDIS_URL not set, using in-process turn lock; run a single instance only")
	}
	log.Info("Storage connection established successfully")

	if err := llmService.InitModel(startupCtx, cfg.ModelName); err != nil {
		log.Error("Failed to initialize LLM model", "error", err, "model", cfg.ModelName)
		os.Exit(1)
	}

	router := handlers.NewRouter(handlers.RouterConfig{
		LLM:          services.NewInstrumented(llmService),
		Storage:      store,
		Locker:       locker,
		HistoryLimit: cfg.HistoryLimit,
		CORSOrigins:  cfg.CORSOrigins,
		Logger:       log,
	})

	server := &http.Server{
		Addr:        ":" + cfg.Port,
		Handler:     router,
		ReadTimeout: 15 * time.Second,
		// chat turns wait on the model; the LLM client enforces its own timeout
		WriteTimeout: cfg.LLMTimeout + 15*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info("Server starting", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("Server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Server is shutting down...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", "error", err)
	}

	if err := store.Close(); err != nil {
		log.Error("Error closing storage connection", "error", err)
	}

	log.Info("Server exited")
}

func newLLMService(cfg *config.Config, log *slog.Logger) services.LLMService {
	switch strings.ToLower(cfg.LLMProvider) {
	case "anthropic":
		log.Info("Using Anthropic LLM provider")
		return services.NewAnthropicService(cfg.AnthropicAPIKey, cfg.ModelName, cfg.LLMTimeout, log)
	case "openai":
		log.Info("Using OpenAI-compatible LLM provider", "base_url", cfg.OpenAIBaseURL)
		return services.NewOpenAIService(cfg.OpenAIAPIKey, cfg.OpenAIBaseURL, cfg.ModelName, cfg.LLMTimeout, log)
	case "mock":
		log.Warn("Using mock LLM provider")
		return services.NewMockLLMAPI()
	default:
		log.Error("Invalid LLM provider specified", "provider", cfg.LLMProvider, "supported", []string{"openai", "anthropic", "mock"})
		os.Exit(1)
		return nil
	}
}
