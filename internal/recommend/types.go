// Bullpen - Relief Pitcher Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bullpen

package recommend

import (
	"context"

	"github.com/tomtom215/bullpen/internal/models"
)

// Predictor estimates the runs the opposing team will score with the
// candidate on the mound. Implementations must be safe for concurrent use.
type Predictor interface {
	Predict(ctx context.Context, state models.GameState, candidate models.Candidate) (float64, error)
}

// PredictorFunc adapts an ordinary function to the Predictor interface.
type PredictorFunc func(ctx context.Context, state models.GameState, candidate models.Candidate) (float64, error)

// Predict calls f.
func (f PredictorFunc) Predict(ctx context.Context, state models.GameState, candidate models.Candidate) (float64, error) {
	return f(ctx, state, candidate)
}

// EntryStatus classifies a candidate's place in the recommendation.
type EntryStatus int

const (
	// StatusRanked is an available candidate with a finite adjusted score.
	StatusRanked EntryStatus = iota
	// StatusUnavailable is a candidate the manager marked unavailable.
	StatusUnavailable
	// StatusExcluded is a candidate whose prediction failed.
	StatusExcluded
)

// String returns a human-readable name for the status.
func (s EntryStatus) String() string {
	switch s {
	case StatusRanked:
		return "ranked"
	case StatusUnavailable:
		return "unavailable"
	case StatusExcluded:
		return "excluded"
	default:
		return "unknown"
	}
}

// MarshalText encodes the status by name.
func (s EntryStatus) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Decision summarises the outcome of a recommendation.
type Decision string

const (
	// DecisionSelected means a best candidate was chosen.
	DecisionSelected Decision = "selected"
	// DecisionNoneAvailable means every evaluated candidate is unavailable.
	DecisionNoneAvailable Decision = "none_available"
)

// Entry is the explanation for one candidate.
type Entry struct {
	// Candidate is a copy of the evaluated candidate.
	Candidate models.Candidate `json:"candidate" yaml:"candidate"`

	// Position is the candidate's index in the input list.
	Position int `json:"position" yaml:"position"`

	// Rank is the 1-based rank among Ranked entries, 0 when excluded.
	Rank int `json:"rank" yaml:"rank"`

	// Status classifies the entry.
	Status EntryStatus `json:"status" yaml:"status"`

	// RawExpectedRuns is the predictor output, exactly as returned.
	RawExpectedRuns float64 `json:"raw_expected_runs" yaml:"raw_expected_runs"`

	// Penalty is the usage penalty breakdown.
	Penalty PenaltyBreakdown `json:"penalty" yaml:"penalty"`

	// AdjustedScore is RawExpectedRuns plus the penalty total.
	AdjustedScore Score `json:"adjusted_score" yaml:"adjusted_score"`

	// ExclusionReason is set when Status is StatusExcluded.
	ExclusionReason string `json:"exclusion_reason,omitempty" yaml:"exclusion_reason,omitempty"`

	// Explanation is a one-line human-readable summary.
	Explanation string `json:"explanation" yaml:"explanation"`
}

// Stats holds per-request bookkeeping.
type Stats struct {
	Candidates  int   `json:"candidates" yaml:"candidates"`
	Ranked      int   `json:"ranked" yaml:"ranked"`
	Unavailable int   `json:"unavailable" yaml:"unavailable"`
	Excluded    int   `json:"excluded" yaml:"excluded"`
	LatencyMS   int64 `json:"latency_ms" yaml:"latency_ms"`
}

// Recommendation is the ranked result of a single Recommend call.
type Recommendation struct {
	// Decision is selected when Best is set, none_available otherwise.
	Decision Decision `json:"decision" yaml:"decision"`

	// Best is the head of Ranked when its score is finite, nil otherwise.
	Best *Entry `json:"best" yaml:"best"`

	// Ranked lists finite entries ascending by adjusted score followed by
	// unavailable entries in input order.
	Ranked []Entry `json:"ranked" yaml:"ranked"`

	// Excluded lists entries whose prediction failed, in input order.
	Excluded []Entry `json:"excluded" yaml:"excluded"`

	// Stats holds request bookkeeping.
	Stats Stats `json:"stats" yaml:"stats"`
}

// Entry returns the explanation for the candidate with the given id,
// whether ranked or excluded.
func (r *Recommendation) Entry(id string) (Entry, bool) {
	for _, e := range r.Ranked {
		if e.Candidate.ID == id {
			return e, true
		}
	}
	for _, e := range r.Excluded {
		if e.Candidate.ID == id {
			return e, true
		}
	}
	return Entry{}, false
}

// Margin is how many adjusted runs separate Best from the next finite
// entry. It reports false when there is no Best or no finite runner-up.
func (r *Recommendation) Margin() (float64, bool) {
	if r.Best == nil || len(r.Ranked) < 2 {
		return 0, false
	}
	best, _ := r.Best.AdjustedScore.Value()
	next, ok := r.Ranked[1].AdjustedScore.Value()
	if !ok {
		return 0, false
	}
	return next - best, true
}
