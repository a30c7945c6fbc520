// Bullpen - Relief Pitcher Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bullpen

package recommend

import (
	"github.com/tomtom215/bullpen/internal/models"
)

// PenaltyBreakdown records each usage penalty applied to a candidate.
// Components are recorded even when the candidate is unavailable.
type PenaltyBreakdown struct {
	// BackToBack is the back-to-back penalty (0 when not applied).
	BackToBack float64 `json:"back_to_back" yaml:"back_to_back"`

	// HighPitchCount is the high workload penalty (0 when not applied).
	HighPitchCount float64 `json:"high_pitch_count" yaml:"high_pitch_count"`

	// Unavailable is true when the manager marked the reliever unavailable.
	Unavailable bool `json:"unavailable" yaml:"unavailable"`

	// Total is the finite sum of components, or the sentinel when
	// Unavailable is set.
	Total Score `json:"total" yaml:"total"`
}

// Finite returns the sum of the finite components regardless of
// availability.
func (b PenaltyBreakdown) Finite() float64 {
	return b.BackToBack + b.HighPitchCount
}

// PenaltyPolicy computes usage penalties from rest, workload and
// availability.
type PenaltyPolicy struct {
	config PenaltyConfig
}

// NewPenaltyPolicy validates cfg and returns a policy.
func NewPenaltyPolicy(cfg PenaltyConfig) (*PenaltyPolicy, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &PenaltyPolicy{config: cfg}, nil
}

// Config returns the policy's penalty constants.
func (p *PenaltyPolicy) Config() PenaltyConfig {
	return p.config
}

// Compute returns the penalty breakdown for c. It has no side effects.
//
// A reliever who never appeared is fully rested: no back-to-back penalty,
// and its pitch count (zero unless provided) is judged like any other.
func (p *PenaltyPolicy) Compute(c models.Candidate) PenaltyBreakdown {
	var b PenaltyBreakdown

	if c.DaysSinceLastOuting.Appeared() && c.BackToBack() {
		b.BackToBack = p.config.BackToBack
	}
	if c.PitchCountLastOuting > p.config.PitchCountThreshold {
		b.HighPitchCount = p.config.HighPitchCount
	}

	if !c.IsAvailable {
		b.Unavailable = true
		b.Total = Unavailable()
		return b
	}

	b.Total = Finite(b.Finite())
	return b
}
