// Bullpen - Relief Pitcher Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bullpen

package predictor

import (
	"math"
	"testing"

	"github.com/tomtom215/bullpen/internal/models"
)

func mustState(t *testing.T, p models.GameStateParams) models.GameState {
	t.Helper()

	if p.ParkID == "" {
		p.ParkID = "SEA"
	}
	if p.BatterHand == "" {
		p.BatterHand = models.HandRight
	}
	if p.Segment == 0 {
		p.Segment = models.SegmentTop
	}
	if p.Inning == 0 {
		p.Inning = 1
	}

	state, err := models.NewGameState(p)
	if err != nil {
		t.Fatalf("NewGameState() error: %v", err)
	}
	return state
}

func TestBuildFeatures(t *testing.T) {
	t.Parallel()

	hint := 2.5

	tests := []struct {
		name      string
		state     models.GameStateParams
		candidate models.Candidate
		check     func(t *testing.T, f Features)
	}{
		{
			name:      "late close with traffic",
			state:     models.GameStateParams{Outs: 1, Bases: models.FirstAndThird, Inning: 8, ScoreDifferential: -1, IsHome: true},
			candidate: models.Candidate{ID: "R1", Throws: models.HandRight, DaysSinceLastOuting: 2, PitchCountLastOuting: 10},
			check: func(t *testing.T, f Features) {
				if f.RunnersOn != 2 || f.CloseGame != 1 || f.LateInning != 1 || f.Home != 1 {
					t.Errorf("features = %+v", f)
				}
				if want := 1.8; math.Abs(f.LeverageScore-want) > 1e-9 {
					t.Errorf("LeverageScore = %v, want %v", f.LeverageScore, want)
				}
				if f.Platoon != 1 {
					t.Errorf("Platoon = %d, want 1 for same-handed matchup", f.Platoon)
				}
			},
		},
		{
			name:      "early blowout",
			state:     models.GameStateParams{Bases: models.BasesEmpty, Inning: 3, ScoreDifferential: 6},
			candidate: models.Candidate{ID: "R2", Throws: models.HandLeft, DaysSinceLastOuting: 1},
			check: func(t *testing.T, f Features) {
				if f.CloseGame != 0 || f.LateInning != 0 || f.LeverageScore != 0 {
					t.Errorf("features = %+v", f)
				}
				if f.Platoon != 0 {
					t.Errorf("Platoon = %d, want 0 for opposite hands", f.Platoon)
				}
			},
		},
		{
			name:      "switch hitter has no platoon",
			state:     models.GameStateParams{BatterHand: models.HandSwitch},
			candidate: models.Candidate{ID: "R3", Throws: models.HandRight, DaysSinceLastOuting: 1},
			check: func(t *testing.T, f Features) {
				if f.Platoon != 0 {
					t.Errorf("Platoon = %d, want 0", f.Platoon)
				}
			},
		},
		{
			name:      "rest capped and fatigue",
			state:     models.GameStateParams{},
			candidate: models.Candidate{ID: "R4", Throws: models.HandRight, DaysSinceLastOuting: 12, PitchCountLastOuting: 21},
			check: func(t *testing.T, f Features) {
				if f.RestDays != MaxRestDays || f.Fatigued != 1 {
					t.Errorf("RestDays=%d Fatigued=%d", f.RestDays, f.Fatigued)
				}
			},
		},
		{
			name:      "never appeared is fully rested",
			state:     models.GameStateParams{},
			candidate: models.Candidate{ID: "R5", Throws: models.HandRight, DaysSinceLastOuting: models.NeverAppeared, PitchCountLastOuting: 20},
			check: func(t *testing.T, f Features) {
				if f.RestDays != MaxRestDays || f.Fatigued != 0 {
					t.Errorf("RestDays=%d Fatigued=%d", f.RestDays, f.Fatigued)
				}
			},
		},
		{
			name:      "leverage hint overrides proxy",
			state:     models.GameStateParams{Inning: 9, Bases: models.BasesLoaded, LeverageHint: &hint},
			candidate: models.Candidate{ID: "R6", Throws: models.HandLeft, DaysSinceLastOuting: 0},
			check: func(t *testing.T, f Features) {
				if f.LeverageScore != 2.5 {
					t.Errorf("LeverageScore = %v, want 2.5", f.LeverageScore)
				}
				if f.RestDays != 0 {
					t.Errorf("RestDays = %d, want 0", f.RestDays)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			tt.check(t, BuildFeatures(mustState(t, tt.state), tt.candidate))
		})
	}
}

func TestFeatures_Numeric(t *testing.T) {
	t.Parallel()

	f := Features{RunnersOn: 1, LateInning: 1, CloseGame: 1, RestDays: 0}
	n := f.Numeric()

	if len(n) != len(NumericFeatures) {
		t.Fatalf("Numeric() has %d entries, want %d", len(n), len(NumericFeatures))
	}
	for _, name := range NumericFeatures {
		if _, ok := n[name]; !ok {
			t.Errorf("Numeric() missing %q", name)
		}
	}
	if n[FeatureLateAndClose] != 1 || n[FeatureAnyRunners] != 1 || n[FeatureNoRest] != 1 {
		t.Errorf("derived terms = %v/%v/%v", n[FeatureLateAndClose], n[FeatureAnyRunners], n[FeatureNoRest])
	}
}
