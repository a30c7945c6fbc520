// Bullpen - Relief Pitcher Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bullpen

package models

import (
	"errors"
	"math"
	"testing"
)

func validParams() GameStateParams {
	return GameStateParams{
		Outs:              1,
		Bases:             FirstAndThird,
		Inning:            8,
		ScoreDifferential: -1,
		IsHome:            true,
		ParkID:            "SEA",
		BatterHand:        HandRight,
		Segment:           SegmentMiddle,
	}
}

func TestParseBaseState(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input     string
		want      BaseState
		runnersOn int
	}{
		{"---", BasesEmpty, 0},
		{"1--", RunnerOnFirst, 1},
		{"-2-", RunnerOnSecond, 1},
		{"--3", RunnerOnThird, 1},
		{"12-", FirstAndSecond, 2},
		{"1-3", FirstAndThird, 2},
		{"-23", SecondAndThird, 2},
		{"123", BasesLoaded, 3},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			t.Parallel()

			got, err := ParseBaseState(tt.input)
			if err != nil {
				t.Fatalf("ParseBaseState(%q) error: %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("ParseBaseState(%q) = %v, want %v", tt.input, got, tt.want)
			}
			if got.String() != tt.input {
				t.Errorf("String() = %q, want %q", got.String(), tt.input)
			}
			if got.RunnersOn() != tt.runnersOn {
				t.Errorf("RunnersOn() = %d, want %d", got.RunnersOn(), tt.runnersOn)
			}
		})
	}
}

func TestParseBaseState_Invalid(t *testing.T) {
	t.Parallel()

	for _, input := range []string{"", "1", "321", "1-2", "xyz", "----"} {
		if _, err := ParseBaseState(input); err == nil {
			t.Errorf("ParseBaseState(%q) expected error", input)
		}
	}
}

func TestParseHandedness(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input   string
		want    Handedness
		wantErr bool
	}{
		{"L", HandLeft, false},
		{"r", HandRight, false},
		{" s ", HandSwitch, false},
		{"B", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		got, err := ParseHandedness(tt.input)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseHandedness(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseHandedness(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestNewGameState_Valid(t *testing.T) {
	t.Parallel()

	hint := 1.8
	p := validParams()
	p.LeverageHint = &hint

	gs, err := NewGameState(p)
	if err != nil {
		t.Fatalf("NewGameState() error: %v", err)
	}

	if gs.Outs() != 1 || gs.Bases() != FirstAndThird || gs.Inning() != 8 {
		t.Errorf("unexpected fields: %s", gs)
	}
	if gs.ScoreDifferential() != -1 || !gs.IsHome() || gs.ParkID() != "SEA" {
		t.Errorf("unexpected fields: %s", gs)
	}
	if gs.BatterHand() != HandRight || gs.Segment() != SegmentMiddle {
		t.Errorf("unexpected fields: %s", gs)
	}
	if got, ok := gs.LeverageHint(); !ok || got != 1.8 {
		t.Errorf("LeverageHint() = %v, %v; want 1.8, true", got, ok)
	}

	// Mutating the caller's hint must not leak into the state.
	hint = 99
	if got, _ := gs.LeverageHint(); got != 1.8 {
		t.Errorf("LeverageHint() changed to %v after caller mutation", got)
	}
}

func TestNewGameState_Invalid(t *testing.T) {
	t.Parallel()

	nan := math.NaN()
	negative := -0.5

	tests := []struct {
		name   string
		mutate func(*GameStateParams)
		field  string
	}{
		{"negative_outs", func(p *GameStateParams) { p.Outs = -1 }, "outs"},
		{"three_outs", func(p *GameStateParams) { p.Outs = 3 }, "outs"},
		{"bad_bases", func(p *GameStateParams) { p.Bases = BaseState(8) }, "bases"},
		{"zero_inning", func(p *GameStateParams) { p.Inning = 0 }, "inning"},
		{"empty_park", func(p *GameStateParams) { p.ParkID = "  " }, "park_id"},
		{"bad_batter", func(p *GameStateParams) { p.BatterHand = "X" }, "batter_hand"},
		{"missing_batter", func(p *GameStateParams) { p.BatterHand = "" }, "batter_hand"},
		{"bad_segment", func(p *GameStateParams) { p.Segment = 0 }, "batter_segment"},
		{"nan_hint", func(p *GameStateParams) { p.LeverageHint = &nan }, "leverage_hint"},
		{"negative_hint", func(p *GameStateParams) { p.LeverageHint = &negative }, "leverage_hint"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			p := validParams()
			tt.mutate(&p)

			_, err := NewGameState(p)
			if err == nil {
				t.Fatal("expected error")
			}

			var stateErr *InvalidGameStateError
			if !errors.As(err, &stateErr) {
				t.Fatalf("expected *InvalidGameStateError, got %T", err)
			}
			if stateErr.Field != tt.field {
				t.Errorf("Field = %q, want %q", stateErr.Field, tt.field)
			}
		})
	}
}

func TestGameState_ZeroValueIsInvalid(t *testing.T) {
	t.Parallel()

	var zero GameState
	_, err := NewGameState(zero.Params())

	var stateErr *InvalidGameStateError
	if !errors.As(err, &stateErr) {
		t.Fatalf("NewGameState(zero) error = %v, want *InvalidGameStateError", err)
	}
	if stateErr.Field != "inning" {
		t.Errorf("Field = %q, want inning", stateErr.Field)
	}
}

func TestGameState_LeverageProxy(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		inning int
		diff   int
		want   bool
	}{
		{"sixth_inning_tied", 6, 0, false},
		{"seventh_inning_tied", 7, 0, true},
		{"eighth_down_two", 8, -2, true},
		{"eighth_up_two", 8, 2, true},
		{"eighth_up_three", 8, 3, false},
		{"ninth_down_three", 9, -3, false},
		{"extra_innings_one_run", 12, 1, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			p := validParams()
			p.Inning = tt.inning
			p.ScoreDifferential = tt.diff

			gs, err := NewGameState(p)
			if err != nil {
				t.Fatalf("NewGameState() error: %v", err)
			}
			if got := gs.LeverageProxy(); got != tt.want {
				t.Errorf("LeverageProxy() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestGameState_ParamsRoundTrip(t *testing.T) {
	t.Parallel()

	gs, err := NewGameState(validParams())
	if err != nil {
		t.Fatalf("NewGameState() error: %v", err)
	}

	again, err := NewGameState(gs.Params())
	if err != nil {
		t.Fatalf("NewGameState(Params()) error: %v", err)
	}
	if again != gs {
		t.Errorf("round trip changed state: %s != %s", again, gs)
	}
}
