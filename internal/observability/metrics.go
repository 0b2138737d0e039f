// Package observability provides tracing setup and domain metrics.
package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// WebSocketConnections is the number of live sockets held by the hub.
	WebSocketConnections = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "yourspace_websocket_connections",
		Help: "Number of active WebSocket connections",
	})

	// LiveEventsTotal counts events pushed to sockets, by type.
	LiveEventsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "yourspace_live_events_total",
		Help: "Total live events delivered to WebSocket clients",
	}, []string{"event_type"})

	// WebSocketBackpressureDrops counts messages dropped because a client buffer was full.
	WebSocketBackpressureDrops = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "yourspace_websocket_backpressure_drops_total",
		Help: "Total number of WebSocket messages dropped due to backpressure",
	}, []string{"hub", "reason"})

	// AIGenerations counts profile code generations by provider and outcome.
	AIGenerations = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "yourspace_ai_generations_total",
		Help: "Profile code generation requests by provider and outcome",
	}, []string{"provider", "outcome"})

	// AIGenerationLatency records backend round-trip time.
	AIGenerationLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "yourspace_ai_generation_latency_seconds",
		Help:    "Latency of AI backend calls in seconds",
		Buckets: []float64{0.25, 0.5, 1, 2.5, 5, 10, 20, 40, 60},
	}, []string{"provider"})

	// SanitizerStrips counts sanitizer calls that changed their input.
	SanitizerStrips = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "yourspace_sanitizer_modified_total",
		Help: "Sanitizer invocations whose output differed from the input",
	}, []string{"kind", "source"})
)
