// Bullpen - Relief Pitcher Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bullpen

package predictor

import (
	"github.com/tomtom215/bullpen/internal/models"
)

// Feature names used as coefficient keys in model files.
const (
	FeatureOuts          = "outs"
	FeatureRunnersOn     = "runners_on"
	FeatureInning        = "inning"
	FeatureCloseGame     = "close_game"
	FeatureLateInning    = "late_inning"
	FeaturePlatoon       = "platoon"
	FeatureRestDays      = "rest_days"
	FeatureFatigued      = "fatigued"
	FeatureHome          = "home"
	FeatureLeverage      = "leverage_score"
	FeatureLateAndClose  = "late_and_close"
	FeatureAnyRunners    = "any_runners"
	FeatureNoRest        = "no_rest"
	FeatureBatterSegment = "batter_segment"
	FeatureParkID        = "park_id"
)

// Feature builder constants.
const (
	// MaxRestDays caps rest so long layoffs do not dominate the model.
	MaxRestDays = 5

	// FatigueThreshold is the pitch count above which a reliever is fatigued.
	FatigueThreshold = 20

	// LateInning is the first inning considered late.
	LateInning = 7

	leverageLateWeight    = 0.7
	leverageCloseWeight   = 0.6
	leverageTrafficWeight = 0.5
)

// NumericFeatures lists the features a linear model may weight, in a fixed
// order.
var NumericFeatures = []string{
	FeatureOuts,
	FeatureRunnersOn,
	FeatureInning,
	FeatureCloseGame,
	FeatureLateInning,
	FeaturePlatoon,
	FeatureRestDays,
	FeatureFatigued,
	FeatureHome,
	FeatureLeverage,
	FeatureLateAndClose,
	FeatureAnyRunners,
	FeatureNoRest,
}

// Features is the model input derived from a game state and one candidate.
type Features struct {
	Outs          int     `json:"outs" yaml:"outs"`
	RunnersOn     int     `json:"runners_on" yaml:"runners_on"`
	Inning        int     `json:"inning" yaml:"inning"`
	CloseGame     int     `json:"close_game" yaml:"close_game"`
	LateInning    int     `json:"late_inning" yaml:"late_inning"`
	Platoon       int     `json:"platoon" yaml:"platoon"`
	RestDays      int     `json:"rest_days" yaml:"rest_days"`
	Fatigued      int     `json:"fatigued" yaml:"fatigued"`
	Home          int     `json:"home" yaml:"home"`
	ParkID        string  `json:"park_id" yaml:"park_id"`
	BatterSegment int     `json:"batter_segment" yaml:"batter_segment"`
	LeverageScore float64 `json:"leverage_score" yaml:"leverage_score"`
}

// BuildFeatures converts a game state and candidate into model features.
// It is pure and never fails: the inputs are already validated.
func BuildFeatures(state models.GameState, c models.Candidate) Features {
	f := Features{
		Outs:          clamp(state.Outs(), 0, 2),
		RunnersOn:     state.Bases().RunnersOn(),
		Inning:        state.Inning(),
		CloseGame:     boolToInt(abs(state.ScoreDifferential()) <= 1),
		LateInning:    boolToInt(state.Inning() >= LateInning),
		Platoon:       platoon(c.Throws, state.BatterHand()),
		RestDays:      restDays(c.DaysSinceLastOuting),
		Fatigued:      boolToInt(c.PitchCountLastOuting > FatigueThreshold),
		Home:          boolToInt(state.IsHome()),
		ParkID:        state.ParkID(),
		BatterSegment: int(state.Segment()),
	}

	if hint, ok := state.LeverageHint(); ok {
		f.LeverageScore = hint
	} else {
		f.LeverageScore = leverageLateWeight*float64(f.LateInning) +
			leverageCloseWeight*float64(f.CloseGame) +
			leverageTrafficWeight*float64(boolToInt(f.RunnersOn >= 2))
	}

	return f
}

// Numeric returns the weightable features keyed by name, including derived
// indicator terms.
func (f Features) Numeric() map[string]float64 {
	return map[string]float64{
		FeatureOuts:         float64(f.Outs),
		FeatureRunnersOn:    float64(f.RunnersOn),
		FeatureInning:       float64(f.Inning),
		FeatureCloseGame:    float64(f.CloseGame),
		FeatureLateInning:   float64(f.LateInning),
		FeaturePlatoon:      float64(f.Platoon),
		FeatureRestDays:     float64(f.RestDays),
		FeatureFatigued:     float64(f.Fatigued),
		FeatureHome:         float64(f.Home),
		FeatureLeverage:     f.LeverageScore,
		FeatureLateAndClose: float64(f.LateInning * f.CloseGame),
		FeatureAnyRunners:   float64(boolToInt(f.RunnersOn > 0)),
		FeatureNoRest:       float64(boolToInt(f.RestDays == 0)),
	}
}

// platoon is 1 when the pitcher holds the handedness advantage, 0 otherwise.
func platoon(throws, bats models.Handedness) int {
	if bats == models.HandSwitch {
		return 0
	}
	return boolToInt(throws == bats)
}

func restDays(d models.RestDays) int {
	if !d.Appeared() {
		return MaxRestDays
	}
	return clamp(int(d), 0, MaxRestDays)
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
