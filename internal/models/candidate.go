// Bullpen - Relief Pitcher Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bullpen

package models

import (
	"strconv"
	"strings"
)

// RestDays is the number of days since a reliever last pitched.
// Zero means the reliever pitched yesterday (or earlier today).
type RestDays int

// NeverAppeared marks a reliever with no recorded outing.
const NeverAppeared RestDays = -1

// Appeared reports whether the reliever has a recorded outing.
func (r RestDays) Appeared() bool {
	return r != NeverAppeared
}

// String returns the day count, or "never" for the sentinel.
func (r RestDays) String() string {
	if r == NeverAppeared {
		return "never"
	}
	return strconv.Itoa(int(r))
}

// Candidate is a reliever under consideration.
type Candidate struct {
	// ID uniquely identifies the reliever (roster id, name or jersey number).
	ID string `json:"reliever_id" yaml:"reliever_id"`

	// Throws is the pitching hand, L or R.
	Throws Handedness `json:"throws" yaml:"throws"`

	// DaysSinceLastOuting is the rest in days, or NeverAppeared.
	DaysSinceLastOuting RestDays `json:"rest_days" yaml:"rest_days"`

	// PitchCountLastOuting is the pitch count of the most recent outing.
	// Zero when the reliever never appeared unless explicitly set.
	PitchCountLastOuting int `json:"pitches_last_outing" yaml:"pitches_last_outing"`

	// IsAvailable is the manager's explicit override (injury, emergency-only).
	IsAvailable bool `json:"available" yaml:"available"`

	// Notes carries free-form context such as injury status.
	Notes string `json:"notes,omitempty" yaml:"notes,omitempty"`
}

// BackToBack reports whether the reliever pitched on consecutive days.
func (c Candidate) BackToBack() bool {
	return c.DaysSinceLastOuting == 0
}

// Validate checks the candidate fields. The returned error is always an
// *InvalidCandidateError.
func (c Candidate) Validate() error {
	if strings.TrimSpace(c.ID) == "" {
		return &InvalidCandidateError{ID: c.ID, Field: "reliever_id", Reason: "is required"}
	}
	if !c.Throws.ValidPitcher() {
		return &InvalidCandidateError{ID: c.ID, Field: "throws", Reason: "must be L or R, got " + strconv.Quote(string(c.Throws))}
	}
	if c.DaysSinceLastOuting < NeverAppeared {
		return &InvalidCandidateError{ID: c.ID, Field: "rest_days", Reason: "must be non-negative"}
	}
	if c.PitchCountLastOuting < 0 {
		return &InvalidCandidateError{ID: c.ID, Field: "pitches_last_outing", Reason: "must be non-negative"}
	}
	return nil
}
