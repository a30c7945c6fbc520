// Bullpen - Relief Pitcher Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bullpen

package recommend

import (
	"fmt"
	"strconv"

	"github.com/goccy/go-json"
)

// unavailableLabel is the textual form of an unavailable score.
const unavailableLabel = "unavailable"

// Score is either a finite number of expected runs or the unavailable
// sentinel. The sentinel compares greater than every finite score and never
// participates in arithmetic, so no NaN can arise from summing penalties.
type Score struct {
	value       float64
	unavailable bool
}

// Finite returns a finite score.
func Finite(v float64) Score {
	return Score{value: v}
}

// Unavailable returns the sentinel score.
func Unavailable() Score {
	return Score{unavailable: true}
}

// IsUnavailable reports whether s is the sentinel.
func (s Score) IsUnavailable() bool {
	return s.unavailable
}

// Value returns the finite value and true, or 0 and false for the sentinel.
func (s Score) Value() (float64, bool) {
	if s.unavailable {
		return 0, false
	}
	return s.value, true
}

// Add returns s plus delta. The sentinel absorbs any addition.
func (s Score) Add(delta float64) Score {
	if s.unavailable {
		return s
	}
	return Score{value: s.value + delta}
}

// Less reports whether s ranks strictly ahead of other.
func (s Score) Less(other Score) bool {
	switch {
	case s.unavailable:
		return false
	case other.unavailable:
		return true
	default:
		return s.value < other.value
	}
}

// Equal reports whether both scores rank equally.
func (s Score) Equal(other Score) bool {
	if s.unavailable || other.unavailable {
		return s.unavailable == other.unavailable
	}
	return s.value == other.value
}

// String formats the score for logs and explanations.
func (s Score) String() string {
	if s.unavailable {
		return unavailableLabel
	}
	return strconv.FormatFloat(s.value, 'f', 3, 64)
}

// MarshalJSON encodes finite scores as numbers and the sentinel as the
// string "unavailable".
func (s Score) MarshalJSON() ([]byte, error) {
	if s.unavailable {
		return json.Marshal(unavailableLabel)
	}
	return json.Marshal(s.value)
}

// UnmarshalJSON accepts the encoding produced by MarshalJSON.
func (s *Score) UnmarshalJSON(data []byte) error {
	var label string
	if err := json.Unmarshal(data, &label); err == nil {
		if label != unavailableLabel {
			return fmt.Errorf("invalid score %q", label)
		}
		*s = Unavailable()
		return nil
	}

	var v float64
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*s = Finite(v)
	return nil
}

// MarshalYAML mirrors MarshalJSON for YAML output.
func (s Score) MarshalYAML() (interface{}, error) {
	if s.unavailable {
		return unavailableLabel, nil
	}
	return s.value, nil
}
