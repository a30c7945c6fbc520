// Bullpen - Relief Pitcher Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bullpen

package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/tomtom215/bullpen/internal/events"
	"github.com/tomtom215/bullpen/internal/logging"
	"github.com/tomtom215/bullpen/internal/metrics"
	"github.com/tomtom215/bullpen/internal/predictor"
	"github.com/tomtom215/bullpen/internal/recommend"
	ws "github.com/tomtom215/bullpen/internal/websocket"
)

// DefaultRequestTimeout bounds a single recommendation when none is configured.
const DefaultRequestTimeout = 5 * time.Second

// DecisionPublisher publishes a decision event. Implemented by
// events.Publisher.
type DecisionPublisher interface {
	PublishDecision(ctx context.Context, ev *events.DecisionEvent) error
}

// HandlerOptions carries the handler's collaborators. Engine, Predictor
// and MAE are required; Publisher and Hub are nil when events are disabled.
type HandlerOptions struct {
	Engine         *recommend.Engine
	Predictor      recommend.Predictor
	Model          predictor.Info
	MAE            *metrics.MAETracker
	Publisher      DecisionPublisher
	EventsBackend  string
	Hub            *ws.Hub
	RequestTimeout time.Duration
	CORSOrigins    []string
	Logger         zerolog.Logger
}

// Handler contains dependencies for API handlers.
//
// Handler methods are split across files:
//   - handler.go: Handler struct, constructor, shared helpers (this file)
//   - handlers_recommend.go: recommendation endpoint
//   - handlers_outcomes.go: online MAE feedback
//   - handlers_health.go: liveness and model status
//   - handlers_ws.go: live decision feed
type Handler struct {
	engine         *recommend.Engine
	predictor      recommend.Predictor
	model          predictor.Info
	mae            *metrics.MAETracker
	publisher      DecisionPublisher
	eventsBackend  string
	wsHub          *ws.Hub
	requestTimeout time.Duration
	corsOrigins    []string
	logger         zerolog.Logger
	startTime      time.Time
}

// NewHandler validates opts and builds a Handler.
//
//nolint:gocritic // HandlerOptions is built once at startup
func NewHandler(opts HandlerOptions) (*Handler, error) {
	if opts.Engine == nil {
		return nil, errors.New("api: engine is required")
	}
	if opts.Predictor == nil {
		return nil, recommend.ErrPredictorIsRequired
	}
	if opts.MAE == nil {
		return nil, errors.New("api: MAE tracker is required")
	}

	timeout := opts.RequestTimeout
	if timeout <= 0 {
		timeout = DefaultRequestTimeout
	}

	return &Handler{
		engine:         opts.Engine,
		predictor:      opts.Predictor,
		model:          opts.Model,
		mae:            opts.MAE,
		publisher:      opts.Publisher,
		eventsBackend:  opts.EventsBackend,
		wsHub:          opts.Hub,
		requestTimeout: timeout,
		corsOrigins:    opts.CORSOrigins,
		logger:         opts.Logger.With().Str("component", "api").Logger(),
		startTime:      time.Now(),
	}, nil
}

// EventsEnabled reports whether decisions are published and a feed is served.
func (h *Handler) EventsEnabled() bool {
	return h.publisher != nil
}

// getUpgrader creates a WebSocket upgrader with origin checking and a
// handshake timeout.
func (h *Handler) getUpgrader() websocket.Upgrader {
	return websocket.Upgrader{
		ReadBufferSize:   1024,
		WriteBufferSize:  1024,
		CheckOrigin:      h.checkWebSocketOrigin,
		HandshakeTimeout: 10 * time.Second,
	}
}

// checkWebSocketOrigin accepts the configured CORS origins. Requests
// without an Origin header come from non-browser clients and are allowed
// only when CORS is open.
func (h *Handler) checkWebSocketOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	for _, allowed := range h.corsOrigins {
		if allowed == "*" {
			return true
		}
		if origin != "" && allowed == origin {
			return true
		}
	}
	logging.Ctx(r.Context()).Warn().Str("origin", origin).Msg("WebSocket connection rejected: origin not allowed")
	return false
}

// logRequestError records a server-side failure with the request's ids.
func logRequestError(r *http.Request, err error, code string) {
	logging.Ctx(r.Context()).Error().
		Err(err).
		Str("code", code).
		Str("method", r.Method).
		Str("path", r.URL.Path).
		Msg("Request failed")
}
