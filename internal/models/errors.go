// Bullpen - Relief Pitcher Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bullpen

package models

import "fmt"

// InvalidGameStateError reports a malformed or out-of-range game state field.
type InvalidGameStateError struct {
	Field  string
	Value  interface{}
	Reason string
}

func (e *InvalidGameStateError) Error() string {
	return fmt.Sprintf("invalid game state: %s %s (got %v)", e.Field, e.Reason, e.Value)
}

func invalidState(field string, value interface{}, reason string) *InvalidGameStateError {
	return &InvalidGameStateError{Field: field, Value: value, Reason: reason}
}

// InvalidCandidateError reports a malformed candidate record.
type InvalidCandidateError struct {
	ID     string
	Field  string
	Reason string
}

func (e *InvalidCandidateError) Error() string {
	if e.ID == "" {
		return fmt.Sprintf("invalid candidate: %s %s", e.Field, e.Reason)
	}
	return fmt.Sprintf("invalid candidate %q: %s %s", e.ID, e.Field, e.Reason)
}
