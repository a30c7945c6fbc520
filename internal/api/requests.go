// Bullpen - Relief Pitcher Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bullpen

package api

import (
	"github.com/tomtom215/bullpen/internal/models"
)

// maxBodyBytes bounds request bodies. Forty relievers fit in a few KB.
const maxBodyBytes = 256 << 10

// GameStateRequest is the wire form of models.GameState.
type GameStateRequest struct {
	Outs          int      `json:"outs" yaml:"outs" validate:"gte=0,lte=2"`
	Runners       string   `json:"runners" yaml:"runners" validate:"required,base_state"`
	Inning        int      `json:"inning" yaml:"inning" validate:"gte=1,lte=30"`
	ScoreDiff     int      `json:"score_diff" yaml:"score_diff" validate:"gte=-50,lte=50"`
	Home          bool     `json:"home" yaml:"home"`
	ParkID        string   `json:"park_id" yaml:"park_id" validate:"required,max=32"`
	BatterHand    string   `json:"batter_hand" yaml:"batter_hand" validate:"omitempty,batter_hand"`
	BatterSegment int      `json:"batter_segment" yaml:"batter_segment" validate:"gte=1,lte=3"`
	LeverageHint  *float64 `json:"leverage_hint,omitempty" yaml:"leverage_hint,omitempty" validate:"omitempty,gte=0,lte=10"`
}

// RelieverRequest is the wire form of models.Candidate. An absent
// rest_days means the reliever has not appeared this season.
type RelieverRequest struct {
	ID                string `json:"reliever_id" yaml:"reliever_id" validate:"required,max=64"`
	Throws            string `json:"throws" yaml:"throws" validate:"required,pitcher_hand"`
	RestDays          *int   `json:"rest_days,omitempty" yaml:"rest_days,omitempty" validate:"omitempty,gte=0,lte=365"`
	PitchesLastOuting *int   `json:"pitches_last_outing,omitempty" yaml:"pitches_last_outing,omitempty" validate:"omitempty,gte=0,lte=200"`
	Available         *bool  `json:"available,omitempty" yaml:"available,omitempty"`
	Notes             string `json:"notes,omitempty" yaml:"notes,omitempty" validate:"max=256"`
}

// RecommendRequest is the body of POST /api/v1/recommend.
type RecommendRequest struct {
	State   GameStateRequest  `json:"state" yaml:"state" validate:"required"`
	Bullpen []RelieverRequest `json:"bullpen" yaml:"bullpen" validate:"required,min=1,max=40,dive"`
}

// GameState converts the request into a validated models.GameState.
func (g *GameStateRequest) GameState() (models.GameState, error) {
	bases, err := models.ParseBaseState(g.Runners)
	if err != nil {
		return models.GameState{}, &models.InvalidGameStateError{Field: "runners", Value: g.Runners, Reason: "is not a base state"}
	}

	hand := models.HandSwitch
	if g.BatterHand != "" {
		hand = models.Handedness(g.BatterHand)
	}

	return models.NewGameState(models.GameStateParams{
		Outs:              g.Outs,
		Bases:             bases,
		Inning:            g.Inning,
		ScoreDifferential: g.ScoreDiff,
		IsHome:            g.Home,
		ParkID:            g.ParkID,
		BatterHand:        hand,
		Segment:           models.LineupSegment(g.BatterSegment),
		LeverageHint:      g.LeverageHint,
	})
}

// Candidate converts the request into a models.Candidate. Available
// defaults to true.
func (rr *RelieverRequest) Candidate() models.Candidate {
	c := models.Candidate{
		ID:                  rr.ID,
		Throws:              models.Handedness(rr.Throws),
		DaysSinceLastOuting: models.NeverAppeared,
		IsAvailable:         true,
		Notes:               rr.Notes,
	}
	if rr.RestDays != nil {
		c.DaysSinceLastOuting = models.RestDays(*rr.RestDays)
	}
	if rr.PitchesLastOuting != nil {
		c.PitchCountLastOuting = *rr.PitchesLastOuting
	}
	if rr.Available != nil {
		c.IsAvailable = *rr.Available
	}
	return c
}

// Candidates converts the bullpen in request order.
func (req *RecommendRequest) Candidates() []models.Candidate {
	out := make([]models.Candidate, len(req.Bullpen))
	for i := range req.Bullpen {
		out[i] = req.Bullpen[i].Candidate()
	}
	return out
}

// OutcomeObservation is one predicted/actual pair reported after the fact.
type OutcomeObservation struct {
	RelieverID    string   `json:"reliever_id" yaml:"reliever_id" validate:"max=64"`
	PredictedRuns *float64 `json:"predicted_runs" yaml:"predicted_runs" validate:"required,gte=0,lte=50"`
	ActualRuns    *float64 `json:"actual_runs" yaml:"actual_runs" validate:"required,gte=0,lte=50"`
}

// OutcomesRequest is the body of POST /api/v1/outcomes.
type OutcomesRequest struct {
	Observations []OutcomeObservation `json:"observations" yaml:"observations" validate:"required,min=1,max=500,dive"`
}
