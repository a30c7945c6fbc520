// Bullpen - Relief Pitcher Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bullpen

package models

import (
	"fmt"
	"math"
	"strings"
)

// BaseState enumerates the eight base occupancy combinations.
type BaseState int

const (
	// BasesEmpty means no runners on base.
	BasesEmpty BaseState = iota
	// RunnerOnFirst means a runner on first only.
	RunnerOnFirst
	// RunnerOnSecond means a runner on second only.
	RunnerOnSecond
	// RunnerOnThird means a runner on third only.
	RunnerOnThird
	// FirstAndSecond means runners on first and second.
	FirstAndSecond
	// FirstAndThird means runners on first and third.
	FirstAndThird
	// SecondAndThird means runners on second and third.
	SecondAndThird
	// BasesLoaded means runners on every base.
	BasesLoaded
)

// baseStateCodes maps each base state to its runner string.
var baseStateCodes = [...]string{
	BasesEmpty:     "---",
	RunnerOnFirst:  "1--",
	RunnerOnSecond: "-2-",
	RunnerOnThird:  "--3",
	FirstAndSecond: "12-",
	FirstAndThird:  "1-3",
	SecondAndThird: "-23",
	BasesLoaded:    "123",
}

// ParseBaseState parses a runner string such as "1-3" into a BaseState.
func ParseBaseState(s string) (BaseState, error) {
	for i, code := range baseStateCodes {
		if code == s {
			return BaseState(i), nil
		}
	}
	return BasesEmpty, fmt.Errorf("unknown runner encoding %q (want one of %s)", s, strings.Join(baseStateCodes[:], ", "))
}

// Valid reports whether b is one of the eight defined base states.
func (b BaseState) Valid() bool {
	return b >= BasesEmpty && b <= BasesLoaded
}

// String returns the runner string encoding.
func (b BaseState) String() string {
	if !b.Valid() {
		return "unknown"
	}
	return baseStateCodes[b]
}

// RunnersOn returns the number of occupied bases (0-3).
func (b BaseState) RunnersOn() int {
	if !b.Valid() {
		return 0
	}
	return 3 - strings.Count(baseStateCodes[b], "-")
}

// Handedness is the throwing hand of a pitcher or batting side of a hitter.
type Handedness string

const (
	// HandLeft is a left-handed pitcher or batter.
	HandLeft Handedness = "L"
	// HandRight is a right-handed pitcher or batter.
	HandRight Handedness = "R"
	// HandSwitch is a switch hitter or an unknown batter.
	HandSwitch Handedness = "S"
)

// ParseHandedness accepts L, R or S (case-insensitive).
func ParseHandedness(s string) (Handedness, error) {
	switch h := Handedness(strings.ToUpper(strings.TrimSpace(s))); h {
	case HandLeft, HandRight, HandSwitch:
		return h, nil
	default:
		return "", fmt.Errorf("unknown handedness %q (want L, R or S)", s)
	}
}

// ValidPitcher reports whether h is a valid throwing hand.
func (h Handedness) ValidPitcher() bool {
	return h == HandLeft || h == HandRight
}

// ValidBatter reports whether h is a valid batting side.
func (h Handedness) ValidBatter() bool {
	return h == HandLeft || h == HandRight || h == HandSwitch
}

// LineupSegment identifies which third of the batting order is due up.
type LineupSegment int

const (
	// SegmentTop covers the 1-3 hitters.
	SegmentTop LineupSegment = iota + 1
	// SegmentMiddle covers the 4-6 hitters.
	SegmentMiddle
	// SegmentBottom covers the 7-9 hitters.
	SegmentBottom
)

// Valid reports whether s is a defined segment.
func (s LineupSegment) Valid() bool {
	return s >= SegmentTop && s <= SegmentBottom
}

// String returns a human-readable segment name.
func (s LineupSegment) String() string {
	switch s {
	case SegmentTop:
		return "top"
	case SegmentMiddle:
		return "middle"
	case SegmentBottom:
		return "bottom"
	default:
		return "unknown"
	}
}

// GameStateParams carries the raw fields used to build a GameState.
type GameStateParams struct {
	// Outs in the inning (0-2).
	Outs int

	// Bases is the base occupancy.
	Bases BaseState

	// Inning number, 1 or greater.
	Inning int

	// ScoreDifferential is batting team runs minus fielding team runs.
	ScoreDifferential int

	// IsHome is true when the fielding team is at home.
	IsHome bool

	// ParkID identifies the ballpark.
	ParkID string

	// BatterHand is the expected batter's side (S for switch or unknown).
	BatterHand Handedness

	// Segment is the lineup segment due up.
	Segment LineupSegment

	// LeverageHint optionally overrides the computed leverage score
	// used in feature computation. Nil means no hint.
	LeverageHint *float64
}

// GameState is an immutable description of the current game situation.
// The zero value is not a valid state (inning 0, no park): values must come
// from NewGameState, which is the only place the fields are checked.
type GameState struct {
	outs              int
	bases             BaseState
	inning            int
	scoreDifferential int
	isHome            bool
	parkID            string
	batterHand        Handedness
	segment           LineupSegment
	leverageHint      float64
	hasLeverageHint   bool
}

// NewGameState validates p and returns the corresponding GameState.
// The returned error is always an *InvalidGameStateError.
func NewGameState(p GameStateParams) (GameState, error) {
	if p.Outs < 0 || p.Outs > 2 {
		return GameState{}, invalidState("outs", p.Outs, "must be 0, 1 or 2")
	}
	if !p.Bases.Valid() {
		return GameState{}, invalidState("bases", int(p.Bases), "not a defined base state")
	}
	if p.Inning < 1 {
		return GameState{}, invalidState("inning", p.Inning, "must be at least 1")
	}
	if strings.TrimSpace(p.ParkID) == "" {
		return GameState{}, invalidState("park_id", p.ParkID, "is required")
	}
	if !p.BatterHand.ValidBatter() {
		return GameState{}, invalidState("batter_hand", string(p.BatterHand), "must be L, R or S")
	}
	if !p.Segment.Valid() {
		return GameState{}, invalidState("batter_segment", int(p.Segment), "must be 1 (top), 2 (middle) or 3 (bottom)")
	}

	gs := GameState{
		outs:              p.Outs,
		bases:             p.Bases,
		inning:            p.Inning,
		scoreDifferential: p.ScoreDifferential,
		isHome:            p.IsHome,
		parkID:            p.ParkID,
		batterHand:        p.BatterHand,
		segment:           p.Segment,
	}

	if p.LeverageHint != nil {
		hint := *p.LeverageHint
		if math.IsNaN(hint) || math.IsInf(hint, 0) || hint < 0 {
			return GameState{}, invalidState("leverage_hint", hint, "must be a finite non-negative number")
		}
		gs.leverageHint = hint
		gs.hasLeverageHint = true
	}

	return gs, nil
}

// Outs returns the number of outs.
func (g GameState) Outs() int { return g.outs }

// Bases returns the base occupancy.
func (g GameState) Bases() BaseState { return g.bases }

// Inning returns the inning number.
func (g GameState) Inning() int { return g.inning }

// ScoreDifferential returns batting team runs minus fielding team runs.
func (g GameState) ScoreDifferential() int { return g.scoreDifferential }

// IsHome reports whether the fielding team is at home.
func (g GameState) IsHome() bool { return g.isHome }

// ParkID returns the ballpark identifier.
func (g GameState) ParkID() string { return g.parkID }

// BatterHand returns the expected batter's side.
func (g GameState) BatterHand() Handedness { return g.batterHand }

// Segment returns the lineup segment due up.
func (g GameState) Segment() LineupSegment { return g.segment }

// LeverageHint returns the caller supplied leverage hint, if any.
func (g GameState) LeverageHint() (float64, bool) {
	return g.leverageHint, g.hasLeverageHint
}

// LeverageProxy reports a high-leverage situation: seventh inning or later
// with the score within two runs.
func (g GameState) LeverageProxy() bool {
	diff := g.scoreDifferential
	if diff < 0 {
		diff = -diff
	}
	return g.inning >= 7 && diff <= 2
}

// Params returns the fields of g as GameStateParams, suitable for building a
// modified copy through NewGameState.
func (g GameState) Params() GameStateParams {
	p := GameStateParams{
		Outs:              g.outs,
		Bases:             g.bases,
		Inning:            g.inning,
		ScoreDifferential: g.scoreDifferential,
		IsHome:            g.isHome,
		ParkID:            g.parkID,
		BatterHand:        g.batterHand,
		Segment:           g.segment,
	}
	if g.hasLeverageHint {
		hint := g.leverageHint
		p.LeverageHint = &hint
	}
	return p
}

// String implements fmt.Stringer for logging.
func (g GameState) String() string {
	return fmt.Sprintf("inning=%d outs=%d bases=%s diff=%+d park=%s batter=%s segment=%s",
		g.inning, g.outs, g.bases, g.scoreDifferential, g.parkID, g.batterHand, g.segment)
}
