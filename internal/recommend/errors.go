// Bullpen - Relief Pitcher Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bullpen

package recommend

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for errors.Is checks against the typed errors below.
var (
	ErrEmptyCandidateList  = errors.New("candidate list is empty")
	ErrDuplicateCandidate  = errors.New("duplicate candidate id")
	ErrPrediction          = errors.New("prediction failed")
	ErrNoViableCandidate   = errors.New("no viable candidate")
	ErrUnknownOption       = errors.New("unknown penalty option")
	ErrPredictorIsRequired = errors.New("predictor is required")
)

// EmptyCandidateListError is returned when Recommend receives no candidates.
type EmptyCandidateListError struct{}

func (e *EmptyCandidateListError) Error() string {
	return ErrEmptyCandidateList.Error()
}

// Is matches ErrEmptyCandidateList.
func (e *EmptyCandidateListError) Is(target error) bool {
	return target == ErrEmptyCandidateList
}

// DuplicateCandidateIDError is returned when two candidates share an id.
type DuplicateCandidateIDError struct {
	ID          string
	FirstIndex  int
	SecondIndex int
}

func (e *DuplicateCandidateIDError) Error() string {
	return fmt.Sprintf("duplicate candidate id %q at positions %d and %d", e.ID, e.FirstIndex, e.SecondIndex)
}

// Is matches ErrDuplicateCandidate.
func (e *DuplicateCandidateIDError) Is(target error) bool {
	return target == ErrDuplicateCandidate
}

// PredictionError records a predictor failure for a single candidate.
type PredictionError struct {
	CandidateID string
	Cause       error
}

func (e *PredictionError) Error() string {
	return fmt.Sprintf("prediction failed for candidate %q: %v", e.CandidateID, e.Cause)
}

// Unwrap returns the underlying predictor error.
func (e *PredictionError) Unwrap() error {
	return e.Cause
}

// Is matches ErrPrediction.
func (e *PredictionError) Is(target error) bool {
	return target == ErrPrediction
}

// NoViableCandidateError is returned when the predictor failed for every
// candidate.
type NoViableCandidateError struct {
	Failures []*PredictionError
}

func (e *NoViableCandidateError) Error() string {
	ids := make([]string, len(e.Failures))
	for i, f := range e.Failures {
		ids[i] = f.CandidateID
	}
	return fmt.Sprintf("no viable candidate: prediction failed for all %d candidates (%s)",
		len(e.Failures), strings.Join(ids, ", "))
}

// Unwrap exposes every prediction failure to errors.Is and errors.As.
func (e *NoViableCandidateError) Unwrap() []error {
	errs := make([]error, len(e.Failures))
	for i, f := range e.Failures {
		errs[i] = f
	}
	return errs
}

// Is matches ErrNoViableCandidate.
func (e *NoViableCandidateError) Is(target error) bool {
	return target == ErrNoViableCandidate
}

// UnknownOptionError reports unrecognised penalty configuration keys.
type UnknownOptionError struct {
	Keys []string
}

func (e *UnknownOptionError) Error() string {
	return fmt.Sprintf("unknown penalty option(s): %s (recognised: %s, %s, %s)",
		strings.Join(e.Keys, ", "), OptionBackToBackPenalty, OptionHighPitchPenalty, OptionPitchCountThreshold)
}

// Is matches ErrUnknownOption.
func (e *UnknownOptionError) Is(target error) bool {
	return target == ErrUnknownOption
}
