// Bullpen - Relief Pitcher Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bullpen

package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTP Metrics
	RequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bms_requests_total",
			Help: "Total number of requests received",
		},
		[]string{"endpoint", "status"},
	)

	RequestLatency = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "bms_request_latency_seconds",
			Help:    "Latency of requests in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5}, // recommendations are CPU bound and fast
		},
		[]string{"endpoint"},
	)

	ActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "bms_active_requests",
			Help: "Current number of in-flight requests",
		},
	)

	RateLimitHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bms_rate_limit_hits_total",
			Help: "Total number of rate limit rejections",
		},
		[]string{"endpoint"},
	)

	// Model Metrics
	OnlineMAE = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "bms_online_mae",
			Help: "Online mean absolute error over the most recent prediction window",
		},
	)

	OutcomesObserved = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "bms_outcomes_observed_total",
			Help: "Total number of observed outcomes fed to the online error tracker",
		},
	)

	PredictionDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "bms_prediction_duration_seconds",
			Help:    "Duration of a single expected-runs prediction",
			Buckets: []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1},
		},
		[]string{"backend"},
	)

	PredictionFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bms_prediction_failures_total",
			Help: "Total number of predictions that failed and excluded a candidate",
		},
		[]string{"backend"},
	)

	PredictionCacheLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bms_prediction_cache_lookups_total",
			Help: "Prediction cache lookups by result",
		},
		[]string{"backend", "result"}, // "hit", "miss"
	)

	ModelLoaded = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "bms_model_loaded",
			Help: "Whether a model file was loaded (1) or built-in coefficients are in use (0)",
		},
		[]string{"backend", "version"},
	)

	// Recommendation Metrics
	RecommendationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bms_recommendations_total",
			Help: "Total number of recommendations by decision",
		},
		[]string{"decision"}, // "selected", "none_available", "error"
	)

	CandidatesEvaluated = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "bms_candidates_per_request",
			Help:    "Number of bullpen candidates per recommendation request",
			Buckets: []float64{1, 2, 4, 6, 8, 10, 15, 20, 40},
		},
	)

	// WebSocket Metrics
	WSConnections = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "bms_websocket_clients",
			Help: "Current number of connected decision feed clients",
		},
	)

	WSMessagesSent = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "bms_websocket_messages_sent_total",
			Help: "Total number of decision feed messages sent",
		},
	)

	WSErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bms_websocket_errors_total",
			Help: "Total number of decision feed errors",
		},
		[]string{"error_type"},
	)

	// Circuit Breaker Metrics
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "bms_circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	CircuitBreakerRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bms_circuit_breaker_requests_total",
			Help: "Total number of requests through circuit breaker",
		},
		[]string{"name", "result"}, // result: "success", "failure", "rejected"
	)

	CircuitBreakerConsecutiveFailures = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "bms_circuit_breaker_consecutive_failures",
			Help: "Current number of consecutive failures",
		},
		[]string{"name"},
	)

	CircuitBreakerTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bms_circuit_breaker_state_transitions_total",
			Help: "Total number of circuit breaker state transitions",
		},
		[]string{"name", "from_state", "to_state"},
	)

	// Decision Event Metrics
	EventsPublished = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bms_events_published_total",
			Help: "Total number of decision events published",
		},
		[]string{"status"}, // "success", "failure", "rejected"
	)

	EventsRelayed = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "bms_events_relayed_total",
			Help: "Total number of decision events relayed to feed clients",
		},
	)

	EventsDecodeFailed = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "bms_events_decode_failed_total",
			Help: "Total number of decision events that could not be decoded",
		},
	)

	// System Metrics
	AppInfo = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "bms_app_info",
			Help: "Application version and build information",
		},
		[]string{"version", "go_version"},
	)
)

// RecordRequest records a completed HTTP request.
func RecordRequest(endpoint string, status int, duration time.Duration) {
	RequestsTotal.WithLabelValues(endpoint, strconv.Itoa(status)).Inc()
	RequestLatency.WithLabelValues(endpoint).Observe(duration.Seconds())
}

// TrackActiveRequest tracks in-flight requests
func TrackActiveRequest(inc bool) {
	if inc {
		ActiveRequests.Inc()
	} else {
		ActiveRequests.Dec()
	}
}

// RecordRecommendation records the outcome of a recommendation request.
func RecordRecommendation(decision string, candidates int) {
	RecommendationsTotal.WithLabelValues(decision).Inc()
	if candidates > 0 {
		CandidatesEvaluated.Observe(float64(candidates))
	}
}

// RecordPrediction records a single predictor call for backend.
func RecordPrediction(backend string, duration time.Duration, err error) {
	PredictionDuration.WithLabelValues(backend).Observe(duration.Seconds())
	if err != nil {
		PredictionFailures.WithLabelValues(backend).Inc()
	}
}

// RecordModel records which model is serving predictions.
func RecordModel(backend, version string, loaded bool) {
	v := 0.0
	if loaded {
		v = 1
	}
	ModelLoaded.WithLabelValues(backend, version).Set(v)
}

// RecordEventPublish records a decision event publish attempt.
func RecordEventPublish(status string) {
	EventsPublished.WithLabelValues(status).Inc()
}

// RecordPredictionCache records a prediction cache lookup for backend.
func RecordPredictionCache(backend string, hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	PredictionCacheLookups.WithLabelValues(backend, result).Inc()
}
