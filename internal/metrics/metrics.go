// Package metrics registers the Prometheus collectors for turn
// processing and the external generation services.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// TurnsTotal counts processed turns by resolved action.
	TurnsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "questforge_turns_total",
			Help: "Total number of processed game turns.",
		},
		[]string{"action"},
	)

	// SessionsEnded counts terminal sessions by outcome.
	SessionsEnded = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "questforge_sessions_ended_total",
			Help: "Total number of sessions reaching a terminal state.",
		},
		[]string{"outcome"}, // "death" or "victory"
	)

	// LLMRequestDuration observes generation call latency by provider.
	LLMRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "questforge_llm_request_duration_seconds",
			Help:    "Histogram of generation service request durations.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"provider"},
	)

	// LLMRequestsTotal counts generation calls by provider and status.
	LLMRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "questforge_llm_requests_total",
			Help: "Total number of generation service requests.",
		},
		[]string{"provider", "status"},
	)

	// ImagesGenerated counts illustration attempts by status.
	ImagesGenerated = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "questforge_images_generated_total",
			Help: "Total number of illustration generation attempts.",
		},
		[]string{"status"},
	)
)
