package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// TurnsTotal counts chat turns by outcome: structured, degraded, fallback, error.
	TurnsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "chronicle_turns_total",
			Help: "Total number of chat turns by outcome.",
		},
		[]string{"outcome"},
	)

	EventsAppliedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "chronicle_events_applied_total",
			Help: "Total number of inline game events applied to game state, by type.",
		},
		[]string{"type"},
	)

	LLMRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "chronicle_llm_request_duration_seconds",
			Help:    "Latency of language model requests.",
			Buckets: []float64{0.5, 1, 2, 5, 10, 20, 40, 60, 120},
		},
		[]string{"provider", "status"},
	)

	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "chronicle_http_requests_total",
			Help: "Total number of HTTP requests by route and status code.",
		},
		[]string{"route", "code"},
	)
)

const (
	OutcomeStructured = "structured"
	OutcomeDegraded   = "degraded"
	OutcomeFallback   = "fallback"
	OutcomeError      = "error"
)
