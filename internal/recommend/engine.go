// Bullpen - Relief Pitcher Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bullpen

package recommend

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strings"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/tomtom215/bullpen/internal/models"
)

// Engine ranks relief candidates by predicted runs plus usage penalties.
// It holds no per-request state and is safe for concurrent use.
type Engine struct {
	config  *Config
	policy  *PenaltyPolicy
	logger  zerolog.Logger
	metrics engineMetrics
}

// engineMetrics tracks engine counters.
type engineMetrics struct {
	requests           atomic.Int64
	selections         atomic.Int64
	noneAvailable      atomic.Int64
	predictionFailures atomic.Int64
	failedRequests     atomic.Int64
	totalLatencyMS     atomic.Int64
}

// Metrics is a point-in-time snapshot of engine counters.
type Metrics struct {
	Requests           int64   `json:"requests" yaml:"requests"`
	Selections         int64   `json:"selections" yaml:"selections"`
	NoneAvailable      int64   `json:"none_available" yaml:"none_available"`
	PredictionFailures int64   `json:"prediction_failures" yaml:"prediction_failures"`
	FailedRequests     int64   `json:"failed_requests" yaml:"failed_requests"`
	AvgLatencyMS       float64 `json:"avg_latency_ms" yaml:"avg_latency_ms"`
}

// NewEngine creates an engine. A nil cfg uses DefaultConfig.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewEngine(cfg *Config, logger zerolog.Logger) (*Engine, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	policy, err := NewPenaltyPolicy(cfg.Penalty)
	if err != nil {
		return nil, err
	}

	return &Engine{
		config: cfg.Clone(),
		policy: policy,
		logger: logger.With().Str("component", "recommend").Logger(),
	}, nil
}

// Config returns a copy of the engine configuration.
func (e *Engine) Config() *Config {
	return e.config.Clone()
}

// Policy returns the engine's penalty policy.
func (e *Engine) Policy() *PenaltyPolicy {
	return e.policy
}

// Metrics returns a snapshot of engine counters.
func (e *Engine) Metrics() Metrics {
	m := Metrics{
		Requests:           e.metrics.requests.Load(),
		Selections:         e.metrics.selections.Load(),
		NoneAvailable:      e.metrics.noneAvailable.Load(),
		PredictionFailures: e.metrics.predictionFailures.Load(),
		FailedRequests:     e.metrics.failedRequests.Load(),
	}
	if m.Requests > 0 {
		m.AvgLatencyMS = float64(e.metrics.totalLatencyMS.Load()) / float64(m.Requests)
	}
	return m
}

// Recommend evaluates every candidate against state and returns the ranked
// recommendation. Candidates are never mutated.
//
// Fatal errors: *EmptyCandidateListError, *DuplicateCandidateIDError,
// *models.InvalidCandidateError, *NoViableCandidateError and context errors
// observed before evaluation starts. A predictor failure for a single
// candidate only excludes that candidate.
func (e *Engine) Recommend(ctx context.Context, state models.GameState, candidates []models.Candidate, predictor Predictor) (*Recommendation, error) {
	start := time.Now()
	e.metrics.requests.Add(1)

	rec, err := e.recommend(ctx, state, candidates, predictor)

	latency := time.Since(start)
	e.metrics.totalLatencyMS.Add(latency.Milliseconds())

	if err != nil {
		e.metrics.failedRequests.Add(1)
		e.logger.Debug().Err(err).Int("candidates", len(candidates)).Msg("recommendation failed")
		return nil, err
	}

	rec.Stats.LatencyMS = latency.Milliseconds()
	if rec.Best != nil {
		e.metrics.selections.Add(1)
		e.logger.Debug().
			Str("best", rec.Best.Candidate.ID).
			Str("adjusted_score", rec.Best.AdjustedScore.String()).
			Int("candidates", rec.Stats.Candidates).
			Int("excluded", rec.Stats.Excluded).
			Str("state", state.String()).
			Dur("latency", latency).
			Msg("reliever recommended")
	} else {
		e.metrics.noneAvailable.Add(1)
		e.logger.Debug().
			Int("candidates", rec.Stats.Candidates).
			Int("unavailable", rec.Stats.Unavailable).
			Str("state", state.String()).
			Msg("no available reliever")
	}

	return rec, nil
}

func (e *Engine) recommend(ctx context.Context, state models.GameState, candidates []models.Candidate, predictor Predictor) (*Recommendation, error) {
	if predictor == nil {
		return nil, ErrPredictorIsRequired
	}
	if err := validateCandidates(candidates); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// Work on a private copy so a predictor cannot observe or alter the
	// caller's slice.
	cands := make([]models.Candidate, len(candidates))
	copy(cands, candidates)

	entries := e.evaluateAll(ctx, state, cands, predictor)

	rec := &Recommendation{
		Ranked:   make([]Entry, 0, len(entries)),
		Excluded: make([]Entry, 0),
		Stats:    Stats{Candidates: len(entries)},
	}

	var failures []*PredictionError
	for i := range entries {
		if entries[i].Status == StatusExcluded {
			rec.Excluded = append(rec.Excluded, entries[i].Entry)
			failures = append(failures, entries[i].failure)
			continue
		}
		rec.Ranked = append(rec.Ranked, entries[i].Entry)
	}

	if len(rec.Ranked) == 0 {
		return nil, &NoViableCandidateError{Failures: failures}
	}

	e.rank(rec.Ranked)

	for i := range rec.Ranked {
		rec.Ranked[i].Rank = i + 1
		if rec.Ranked[i].Status == StatusUnavailable {
			rec.Stats.Unavailable++
		} else {
			rec.Stats.Ranked++
		}
		rec.Ranked[i].Explanation = explain(rec.Ranked[i], i == 0)
	}
	for i := range rec.Excluded {
		rec.Excluded[i].Explanation = explain(rec.Excluded[i], false)
	}
	rec.Stats.Excluded = len(rec.Excluded)

	if !rec.Ranked[0].AdjustedScore.IsUnavailable() {
		best := rec.Ranked[0]
		rec.Best = &best
		rec.Decision = DecisionSelected
	} else {
		rec.Decision = DecisionNoneAvailable
	}

	return rec, nil
}

// evaluated pairs an entry with its prediction failure, if any.
type evaluated struct {
	Entry
	failure *PredictionError
}

// evaluateAll runs the predictor for every candidate with bounded
// concurrency. Results are stored by input index.
func (e *Engine) evaluateAll(ctx context.Context, state models.GameState, cands []models.Candidate, predictor Predictor) []evaluated {
	results := make([]evaluated, len(cands))

	limit := e.config.MaxConcurrency
	if limit <= 0 || limit > len(cands) {
		limit = len(cands)
	}

	var g errgroup.Group
	g.SetLimit(limit)
	for i := range cands {
		g.Go(func() error {
			results[i] = e.evaluate(ctx, state, i, cands[i], predictor)
			return nil
		})
	}
	_ = g.Wait() // evaluate never returns an error

	return results
}

// evaluate produces the entry for a single candidate.
func (e *Engine) evaluate(ctx context.Context, state models.GameState, pos int, c models.Candidate, predictor Predictor) evaluated {
	entry := evaluated{Entry: Entry{
		Candidate: c,
		Position:  pos,
		Penalty:   e.policy.Compute(c),
	}}

	raw, err := safePredict(ctx, predictor, state, c)
	if err != nil {
		e.metrics.predictionFailures.Add(1)
		e.logger.Warn().
			Str("candidate", c.ID).
			Err(err).
			Msg("prediction failed, candidate excluded")

		entry.Status = StatusExcluded
		entry.AdjustedScore = Unavailable()
		entry.ExclusionReason = err.Error()
		entry.failure = &PredictionError{CandidateID: c.ID, Cause: err}
		return entry
	}

	entry.RawExpectedRuns = raw
	entry.AdjustedScore = adjust(raw, entry.Penalty)
	if entry.Penalty.Unavailable {
		entry.Status = StatusUnavailable
	} else {
		entry.Status = StatusRanked
	}

	e.logger.Debug().
		Str("candidate", c.ID).
		Float64("raw", raw).
		Float64("b2b_penalty", entry.Penalty.BackToBack).
		Float64("high_pitch_penalty", entry.Penalty.HighPitchCount).
		Bool("unavailable", entry.Penalty.Unavailable).
		Str("adjusted", entry.AdjustedScore.String()).
		Msg("candidate evaluated")

	return entry
}

// safePredict calls the predictor, converting panics and non-finite
// outputs into errors.
func safePredict(ctx context.Context, predictor Predictor, state models.GameState, c models.Candidate) (raw float64, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("predictor panicked: %v", r)
		}
	}()

	raw, err = predictor.Predict(ctx, state, c)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(raw) || math.IsInf(raw, 0) {
		return 0, fmt.Errorf("predictor returned non-finite value %v", raw)
	}
	return raw, nil
}

// adjust adds the penalty components to raw in a fixed order so the result
// equals raw + back-to-back + high-pitch exactly.
func adjust(raw float64, p PenaltyBreakdown) Score {
	if p.Unavailable {
		return Unavailable()
	}
	return Finite(raw).Add(p.BackToBack).Add(p.HighPitchCount)
}

// rank sorts entries: finite scores ascending, ties by the configured
// tie-break, unavailable entries last in input order.
func (e *Engine) rank(entries []Entry) {
	byID := e.config.TieBreak == TieBreakID

	sort.SliceStable(entries, func(i, j int) bool {
		a, b := entries[i], entries[j]

		aOut, bOut := a.AdjustedScore.IsUnavailable(), b.AdjustedScore.IsUnavailable()
		switch {
		case aOut && bOut:
			return a.Position < b.Position
		case aOut != bOut:
			return bOut
		}

		if !a.AdjustedScore.Equal(b.AdjustedScore) {
			return a.AdjustedScore.Less(b.AdjustedScore)
		}
		if byID && a.Candidate.ID != b.Candidate.ID {
			return a.Candidate.ID < b.Candidate.ID
		}
		if a.Position != b.Position {
			return a.Position < b.Position
		}
		return a.Candidate.ID < b.Candidate.ID
	})
}

// validateCandidates rejects empty lists, malformed candidates and
// duplicate ids.
func validateCandidates(candidates []models.Candidate) error {
	if len(candidates) == 0 {
		return &EmptyCandidateListError{}
	}

	seen := make(map[string]int, len(candidates))
	for i, c := range candidates {
		if err := c.Validate(); err != nil {
			return err
		}
		if first, ok := seen[c.ID]; ok {
			return &DuplicateCandidateIDError{ID: c.ID, FirstIndex: first, SecondIndex: i}
		}
		seen[c.ID] = i
	}
	return nil
}

// explain renders a one-line summary of an entry.
func explain(e Entry, best bool) string {
	id := e.Candidate.ID

	if e.Status == StatusExcluded {
		return fmt.Sprintf("%s: excluded, %s", id, e.ExclusionReason)
	}

	var parts []string
	if e.Penalty.BackToBack > 0 {
		parts = append(parts, fmt.Sprintf("back-to-back +%.3f", e.Penalty.BackToBack))
	}
	if e.Penalty.HighPitchCount > 0 {
		parts = append(parts, fmt.Sprintf("%d pitches last outing +%.3f", e.Candidate.PitchCountLastOuting, e.Penalty.HighPitchCount))
	}
	penalties := "no penalties"
	if len(parts) > 0 {
		penalties = strings.Join(parts, ", ")
	}

	if e.Status == StatusUnavailable {
		return fmt.Sprintf("%s: marked unavailable, never selectable (raw %.3f, %s)", id, e.RawExpectedRuns, penalties)
	}

	line := fmt.Sprintf("%s: raw %.3f, %s, adjusted %s, rank %d", id, e.RawExpectedRuns, penalties, e.AdjustedScore, e.Rank)
	if best {
		line += " (best)"
	}
	return line
}
