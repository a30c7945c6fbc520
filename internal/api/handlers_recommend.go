// Bullpen - Relief Pitcher Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bullpen

package api

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/bullpen/internal/events"
	"github.com/tomtom215/bullpen/internal/logging"
	"github.com/tomtom215/bullpen/internal/metrics"
	"github.com/tomtom215/bullpen/internal/models"
	"github.com/tomtom215/bullpen/internal/recommend"
	"github.com/tomtom215/bullpen/internal/validation"
)

// publishTimeout bounds the best-effort decision publish after a response
// has been computed.
const publishTimeout = 2 * time.Second

// decodeBody reads a single JSON document into dst, rejecting unknown
// fields, trailing data and oversized bodies.
func decodeBody(w http.ResponseWriter, r *http.Request, dst interface{}) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	if err := dec.Decode(dst); err != nil {
		var maxErr *http.MaxBytesError
		switch {
		case errors.As(err, &maxErr):
			return fmt.Errorf("request body exceeds %d bytes", maxErr.Limit)
		case errors.Is(err, io.EOF):
			return errors.New("request body is empty")
		default:
			return fmt.Errorf("invalid JSON body: %w", err)
		}
	}
	if dec.More() {
		return errors.New("request body must contain a single JSON object")
	}
	return nil
}

// Recommend handles POST /api/v1/recommend (and the legacy POST /recommend).
// It ranks the bullpen for the given game state and returns the best
// reliever with an explanation for every candidate.
func (h *Handler) Recommend(w http.ResponseWriter, r *http.Request) {
	var req RecommendRequest
	if err := decodeBody(w, r, &req); err != nil {
		NewResponseWriter(w, r).BadRequest(err.Error())
		return
	}
	if verr := validation.ValidateStruct(&req); verr != nil {
		writeDomainError(w, r, verr)
		return
	}

	state, err := req.State.GameState()
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	candidates := req.Candidates()

	rec, err := h.recommend(r.Context(), state, candidates)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	metrics.RecordRecommendation(string(rec.Decision), len(candidates))
	h.publishDecision(r, rec)

	logger := logging.Ctx(r.Context())
	event := logger.Info().
		Str("decision", string(rec.Decision)).
		Int("candidates", rec.Stats.Candidates).
		Int("excluded", rec.Stats.Excluded).
		Int64("latency_ms", rec.Stats.LatencyMS)
	if rec.Best != nil {
		event = event.Str("best", rec.Best.Candidate.ID)
	}
	event.Msg("Recommendation served")

	WriteSuccess(w, r, NewRecommendResponse(state, rec))
}

func (h *Handler) recommend(ctx context.Context, state models.GameState, candidates []models.Candidate) (*recommend.Recommendation, error) {
	ctx, cancel := context.WithTimeout(ctx, h.requestTimeout)
	defer cancel()

	rec, err := h.engine.Recommend(ctx, state, candidates, h.predictor)
	if err != nil && errors.Is(ctx.Err(), context.DeadlineExceeded) {
		// Every prediction failed because the budget ran out, not because
		// the candidates are unusable.
		return nil, fmt.Errorf("recommendation exceeded %s: %w", h.requestTimeout, context.DeadlineExceeded)
	}
	return rec, err
}

// publishDecision emits the decision event. Failures are logged and never
// affect the response.
func (h *Handler) publishDecision(r *http.Request, rec *recommend.Recommendation) {
	if h.publisher == nil {
		return
	}

	ev := events.NewDecisionEvent(logging.RequestIDFromContext(r.Context()), rec)

	// Detached from the request so a client disconnect does not drop the event.
	ctx, cancel := context.WithTimeout(context.WithoutCancel(r.Context()), publishTimeout)
	defer cancel()

	if err := h.publisher.PublishDecision(ctx, &ev); err != nil {
		logging.Ctx(r.Context()).Warn().Err(err).Str("event_id", ev.EventID).Msg("Decision event not published")
	}
}
