// Bullpen - Relief Pitcher Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bullpen

/*
Package metrics provides Prometheus metrics collection and export for observability.

Metrics are registered with the default registry through promauto and exposed
at /metrics in Prometheus text format:

	curl http://localhost:8080/metrics

# Available Metrics

HTTP Metrics:
  - bms_requests_total: Requests by endpoint and status (counter)
  - bms_request_latency_seconds: Request latency by endpoint (histogram)
  - bms_active_requests: In-flight requests (gauge)
  - bms_rate_limit_hits_total: Rate limit rejections (counter)

Model Metrics:
  - bms_online_mae: Mean absolute error over the recent outcome window (gauge)
  - bms_prediction_duration_seconds: Predictor latency by backend (histogram)
  - bms_prediction_failures_total: Failed predictions by backend (counter)
  - bms_model_loaded: 1 when a model file is serving, 0 for built-in coefficients

Recommendation Metrics:
  - bms_recommendations_total: Recommendations by decision (counter)
  - bms_candidates_per_request: Bullpen size per request (histogram)

Circuit Breaker Metrics:
  - bms_circuit_breaker_state: 0=closed, 1=half-open, 2=open (gauge)
  - bms_circuit_breaker_requests_total: Requests by result (counter)

Decision Feed Metrics:
  - bms_events_published_total: Decision events by publish status (counter)
  - bms_websocket_clients: Connected feed clients (gauge)

# Online Error Tracking

MAETracker keeps a fixed-size ring of absolute errors and updates
bms_online_mae on every observation:

	tracker := metrics.NewMAETracker(500, metrics.OnlineMAE)
	mae, err := tracker.Observe(predicted, actual)

# Thread Safety

All recording functions and MAETracker are safe for concurrent use.
*/
package metrics
