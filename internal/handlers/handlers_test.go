package handlers

import (
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"

	"github.com/gorilla/mux"
	"github.com/jwebster45206/chronicle/internal/services"
	"github.com/jwebster45206/chronicle/internal/storage"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelError, // Reduce noise in tests
	}))
}

type testEnv struct {
	router  *mux.Router
	llm     *services.MockLLMAPI
	storage *storage.MockStorage
	locker  *storage.MemoryLock
}

func newTestEnv() *testEnv {
	env := &testEnv{
		llm:     services.NewMockLLMAPI(),
		storage: storage.NewMockStorage(),
		locker:  storage.NewMemoryLock(),
	}
	env.router = NewRouter(RouterConfig{
		LLM:          env.llm,
		Storage:      env.storage,
		Locker:       env.locker,
		HistoryLimit: 10,
		CORSOrigins:  []string{"http://localhost:5173"},
		Logger:       testLogger(),
	})
	return env
}

func (e *testEnv) do(method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	rr := httptest.NewRecorder()
	e.router.ServeHTTP(rr, req)
	return rr
}
