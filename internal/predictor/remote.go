// Bullpen - Relief Pitcher Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bullpen

package predictor

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"
	gobreaker "github.com/sony/gobreaker/v2"
	"golang.org/x/time/rate"

	"github.com/tomtom215/bullpen/internal/metrics"
	"github.com/tomtom215/bullpen/internal/models"
)

// maxResponseBytes bounds the model server response body.
const maxResponseBytes = 64 << 10

// RemoteConfig configures a RemotePredictor.
type RemoteConfig struct {
	// URL is the model server base URL. Predictions are POSTed to URL/predict.
	URL string

	// Timeout bounds a single HTTP round trip. Default: 2s.
	Timeout time.Duration

	// RateLimit is the sustained request rate per second. Zero disables
	// limiting. Default: 50.
	RateLimit float64

	// Burst is the limiter bucket size. Default: 20.
	Burst int

	// KBatters is sent to the server as the forecast horizon.
	KBatters int

	// BreakerName labels the circuit breaker in metrics. Default: model-server.
	BreakerName string

	// HTTPClient overrides the default client.
	HTTPClient *http.Client
}

// predictRequest is the wire request for POST /predict.
type predictRequest struct {
	RelieverID string   `json:"reliever_id"`
	KBatters   int      `json:"k_batters"`
	Features   Features `json:"features"`
}

// predictResponse is the wire response for POST /predict.
type predictResponse struct {
	ExpectedRuns *float64 `json:"expected_runs"`
}

// RemotePredictor asks an external model server for expected runs. Calls
// wait on a token bucket and run through a circuit breaker, so a failing
// server degrades into per-candidate prediction errors.
type RemotePredictor struct {
	endpoint string
	kBatters int
	client   *http.Client
	limiter  *rate.Limiter
	cb       *gobreaker.CircuitBreaker[float64]
	name     string
	logger   zerolog.Logger
}

// NewRemotePredictor creates a client for the model server described by cfg.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewRemotePredictor(cfg RemoteConfig, logger zerolog.Logger) (*RemotePredictor, error) {
	base := strings.TrimRight(strings.TrimSpace(cfg.URL), "/")
	if base == "" {
		return nil, errors.New("remote model url is required")
	}
	if !strings.HasPrefix(base, "http://") && !strings.HasPrefix(base, "https://") {
		return nil, fmt.Errorf("remote model url must be http or https: %q", cfg.URL)
	}

	if cfg.Timeout <= 0 {
		cfg.Timeout = 2 * time.Second
	}
	if cfg.Burst <= 0 {
		cfg.Burst = 20
	}
	if cfg.BreakerName == "" {
		cfg.BreakerName = "model-server"
	}

	client := cfg.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: cfg.Timeout}
	}

	limit := rate.Inf
	if cfg.RateLimit > 0 {
		limit = rate.Limit(cfg.RateLimit)
	}

	p := &RemotePredictor{
		endpoint: base + "/predict",
		kBatters: cfg.KBatters,
		client:   client,
		limiter:  rate.NewLimiter(limit, cfg.Burst),
		name:     cfg.BreakerName,
		logger:   logger.With().Str("component", "remote-predictor").Logger(),
	}
	p.cb = newBreaker(cfg.BreakerName, p.logger)
	return p, nil
}

// newBreaker builds the circuit breaker shared by every call.
// Opens after 60% failures with at least 10 requests, probes after 30s.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func newBreaker(name string, logger zerolog.Logger) *gobreaker.CircuitBreaker[float64] {
	metrics.CircuitBreakerState.WithLabelValues(name).Set(0)
	metrics.CircuitBreakerConsecutiveFailures.WithLabelValues(name).Set(0)

	return gobreaker.NewCircuitBreaker[float64](gobreaker.Settings{
		Name:        name,
		MaxRequests: 3,
		Interval:    time.Minute,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < 10 {
				return false
			}
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			shouldTrip := failureRatio >= 0.6
			if shouldTrip {
				logger.Warn().
					Uint32("failures", counts.TotalFailures).
					Float64("failure_rate", failureRatio*100).
					Msg("opening circuit")
			}
			return shouldTrip
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			fromStr, toStr := StateToString(from), StateToString(to)
			logger.Info().Str("breaker", name).Str("from", fromStr).Str("to", toStr).Msg("circuit breaker state transition")

			metrics.CircuitBreakerState.WithLabelValues(name).Set(StateToFloat(to))
			metrics.CircuitBreakerTransitions.WithLabelValues(name, fromStr, toStr).Inc()
			if to == gobreaker.StateClosed {
				metrics.CircuitBreakerConsecutiveFailures.WithLabelValues(name).Set(0)
			}
		},
	})
}

// Predict implements recommend.Predictor.
func (p *RemotePredictor) Predict(ctx context.Context, state models.GameState, c models.Candidate) (float64, error) {
	if err := p.limiter.Wait(ctx); err != nil {
		return 0, fmt.Errorf("rate limiter: %w", err)
	}

	body, err := json.Marshal(predictRequest{
		RelieverID: c.ID,
		KBatters:   p.kBatters,
		Features:   BuildFeatures(state, c),
	})
	if err != nil {
		return 0, fmt.Errorf("encode request: %w", err)
	}

	v, err := p.cb.Execute(func() (float64, error) {
		return p.call(ctx, body)
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			metrics.CircuitBreakerRequests.WithLabelValues(p.name, "rejected").Inc()
			return 0, fmt.Errorf("model server unavailable: %w", err)
		}
		metrics.CircuitBreakerRequests.WithLabelValues(p.name, "failure").Inc()
		metrics.CircuitBreakerConsecutiveFailures.WithLabelValues(p.name).Set(float64(p.cb.Counts().ConsecutiveFailures))
		return 0, err
	}

	metrics.CircuitBreakerRequests.WithLabelValues(p.name, "success").Inc()
	metrics.CircuitBreakerConsecutiveFailures.WithLabelValues(p.name).Set(0)
	return v, nil
}

func (p *RemotePredictor) call(ctx context.Context, body []byte) (float64, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.endpoint, bytes.NewReader(body))
	if err != nil {
		return 0, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return 0, fmt.Errorf("model server request: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return 0, fmt.Errorf("read model server response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return 0, &StatusError{StatusCode: resp.StatusCode, Body: truncate(string(data), 200)}
	}

	var out predictResponse
	if err := json.Unmarshal(data, &out); err != nil {
		return 0, fmt.Errorf("decode model server response: %w", err)
	}
	if out.ExpectedRuns == nil {
		return 0, errors.New("model server response missing expected_runs")
	}
	return *out.ExpectedRuns, nil
}

// State returns the circuit breaker state.
func (p *RemotePredictor) State() gobreaker.State {
	return p.cb.State()
}

// String describes the predictor for logs.
func (p *RemotePredictor) String() string {
	return "remote(" + p.endpoint + ")"
}

// StatusError is returned when the model server answers with a non-2xx status.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("model server returned status %d", e.StatusCode)
	}
	return fmt.Sprintf("model server returned status %d: %s", e.StatusCode, e.Body)
}

// StateToFloat converts circuit breaker state to numeric value for metrics
func StateToFloat(state gobreaker.State) float64 {
	switch state {
	case gobreaker.StateClosed:
		return 0
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return -1
	}
}

// StateToString converts circuit breaker state to string for logging
func StateToString(state gobreaker.State) string {
	switch state {
	case gobreaker.StateClosed:
		return "closed"
	case gobreaker.StateHalfOpen:
		return "half-open"
	case gobreaker.StateOpen:
		return "open"
	default:
		return "unknown"
	}
}

func truncate(s string, n int) string {
	s = strings.TrimSpace(s)
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
