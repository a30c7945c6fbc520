// Bullpen - Relief Pitcher Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bullpen

package api

import (
	"github.com/tomtom215/bullpen/internal/models"
	"github.com/tomtom215/bullpen/internal/recommend"
)

// RecommendResponse is the data payload of a recommendation.
type RecommendResponse struct {
	Recommendation RecommendationSummary `json:"recommendation" yaml:"recommendation"`
	Ranked         []CandidateResponse   `json:"ranked" yaml:"ranked"`
	Excluded       []CandidateResponse   `json:"excluded" yaml:"excluded"`
	Explanations   map[string]string     `json:"explanations" yaml:"explanations"`
	State          StateEcho             `json:"state" yaml:"state"`
	Stats          recommend.Stats       `json:"stats" yaml:"stats"`
}

// RecommendationSummary names the decision and the chosen reliever, if any.
type RecommendationSummary struct {
	Decision recommend.Decision `json:"decision" yaml:"decision"`
	Best     *CandidateResponse `json:"best" yaml:"best"`

	// Margin is the adjusted-run gap to the runner-up, absent when no
	// other reliever has a finite score.
	Margin *float64 `json:"margin,omitempty" yaml:"margin,omitempty"`
}

// CandidateResponse is one evaluated reliever. ExpectedRuns is null for
// excluded relievers.
type CandidateResponse struct {
	RelieverID      string                     `json:"reliever_id" yaml:"reliever_id"`
	Rank            int                        `json:"rank" yaml:"rank"`
	Position        int                        `json:"position" yaml:"position"`
	Status          string                     `json:"status" yaml:"status"`
	ExpectedRuns    *float64                   `json:"expected_runs" yaml:"expected_runs"`
	Penalty         recommend.PenaltyBreakdown `json:"penalty" yaml:"penalty"`
	AdjustedScore   recommend.Score            `json:"adjusted_score" yaml:"adjusted_score"`
	ExclusionReason string                     `json:"exclusion_reason,omitempty" yaml:"exclusion_reason,omitempty"`
	Explanation     string                     `json:"explanation" yaml:"explanation"`
	Notes           string                     `json:"notes,omitempty" yaml:"notes,omitempty"`
}

// StateEcho is the normalized game state the recommendation was made for.
type StateEcho struct {
	Outs          int      `json:"outs" yaml:"outs"`
	Runners       string   `json:"runners" yaml:"runners"`
	Inning        int      `json:"inning" yaml:"inning"`
	ScoreDiff     int      `json:"score_diff" yaml:"score_diff"`
	Home          bool     `json:"home" yaml:"home"`
	ParkID        string   `json:"park_id" yaml:"park_id"`
	BatterHand    string   `json:"batter_hand" yaml:"batter_hand"`
	BatterSegment int      `json:"batter_segment" yaml:"batter_segment"`
	LeverageHint  *float64 `json:"leverage_hint,omitempty" yaml:"leverage_hint,omitempty"`
	HighLeverage  bool     `json:"high_leverage" yaml:"high_leverage"`
}

// NewCandidateResponse renders one entry. ExpectedRuns stays nil for
// excluded relievers.
func NewCandidateResponse(e *recommend.Entry) CandidateResponse {
	out := CandidateResponse{
		RelieverID:      e.Candidate.ID,
		Rank:            e.Rank,
		Position:        e.Position,
		Status:          e.Status.String(),
		Penalty:         e.Penalty,
		AdjustedScore:   e.AdjustedScore,
		ExclusionReason: e.ExclusionReason,
		Explanation:     e.Explanation,
		Notes:           e.Candidate.Notes,
	}
	if e.Status != recommend.StatusExcluded {
		runs := e.RawExpectedRuns
		out.ExpectedRuns = &runs
	}
	return out
}

func newStateEcho(s models.GameState) StateEcho {
	echo := StateEcho{
		Outs:          s.Outs(),
		Runners:       s.Bases().String(),
		Inning:        s.Inning(),
		ScoreDiff:     s.ScoreDifferential(),
		Home:          s.IsHome(),
		ParkID:        s.ParkID(),
		BatterHand:    string(s.BatterHand()),
		BatterSegment: int(s.Segment()),
		HighLeverage:  s.LeverageProxy(),
	}
	if hint, ok := s.LeverageHint(); ok {
		echo.LeverageHint = &hint
	}
	return echo
}

// NewRecommendResponse renders rec for the wire. Every candidate, ranked
// or excluded, gets an explanation keyed by reliever id.
func NewRecommendResponse(state models.GameState, rec *recommend.Recommendation) RecommendResponse {
	resp := RecommendResponse{
		Recommendation: RecommendationSummary{Decision: rec.Decision},
		Ranked:         make([]CandidateResponse, 0, len(rec.Ranked)),
		Excluded:       make([]CandidateResponse, 0, len(rec.Excluded)),
		Explanations:   make(map[string]string, len(rec.Ranked)+len(rec.Excluded)),
		State:          newStateEcho(state),
		Stats:          rec.Stats,
	}

	for i := range rec.Ranked {
		c := NewCandidateResponse(&rec.Ranked[i])
		resp.Ranked = append(resp.Ranked, c)
		resp.Explanations[c.RelieverID] = c.Explanation
	}
	for i := range rec.Excluded {
		c := NewCandidateResponse(&rec.Excluded[i])
		resp.Excluded = append(resp.Excluded, c)
		resp.Explanations[c.RelieverID] = c.Explanation
	}
	if rec.Best != nil {
		best := NewCandidateResponse(rec.Best)
		resp.Recommendation.Best = &best
	}
	if margin, ok := rec.Margin(); ok {
		resp.Recommendation.Margin = &margin
	}
	return resp
}

// OutcomesResponse reports the online error after recording observations.
type OutcomesResponse struct {
	Recorded    int     `json:"recorded" yaml:"recorded"`
	MAE         float64 `json:"mae" yaml:"mae"`
	WindowCount int     `json:"window_count" yaml:"window_count"`
	Window      int     `json:"window" yaml:"window"`
	Total       uint64  `json:"total" yaml:"total"`
}

// HealthResponse is the liveness payload.
type HealthResponse struct {
	Status       string  `json:"status" yaml:"status"`
	ModelLoaded  bool    `json:"model_loaded" yaml:"model_loaded"`
	ModelBackend string  `json:"model_backend" yaml:"model_backend"`
	ModelVersion string  `json:"model_version" yaml:"model_version"`
	KBatters     int     `json:"k_batters" yaml:"k_batters"`
	Events       string  `json:"events" yaml:"events"`
	FeedClients  int     `json:"feed_clients" yaml:"feed_clients"`
	Uptime       float64 `json:"uptime" yaml:"uptime"`

	// Engine reports request outcomes since start; Penalty and TieBreak
	// the ranking policy in force.
	Engine   recommend.Metrics       `json:"engine" yaml:"engine"`
	Penalty  recommend.PenaltyConfig `json:"penalty" yaml:"penalty"`
	TieBreak string                  `json:"tie_break" yaml:"tie_break"`
}
