// Bullpen - Relief Pitcher Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bullpen

package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/tomtom215/bullpen/internal/models"
	"github.com/tomtom215/bullpen/internal/recommend"
	"github.com/tomtom215/bullpen/internal/validation"
)

// errorMapping is the HTTP rendering of a domain error.
type errorMapping struct {
	status  int
	code    string
	details interface{}
}

// mapError classifies err. Unknown errors are internal; their text is not
// exposed to the client.
func mapError(err error) errorMapping {
	var (
		verr      *validation.RequestValidationError
		stateErr  *models.InvalidGameStateError
		candErr   *models.InvalidCandidateError
		emptyErr  *recommend.EmptyCandidateListError
		dupErr    *recommend.DuplicateCandidateIDError
		viableErr *recommend.NoViableCandidateError
	)

	switch {
	case errors.As(err, &verr):
		return errorMapping{status: http.StatusBadRequest, code: ErrCodeValidationFailed, details: verr.Details()}
	case errors.As(err, &stateErr):
		return errorMapping{status: http.StatusBadRequest, code: ErrCodeInvalidGameState,
			details: map[string]interface{}{"field": stateErr.Field, "value": stateErr.Value}}
	case errors.As(err, &candErr):
		return errorMapping{status: http.StatusBadRequest, code: ErrCodeInvalidCandidate,
			details: map[string]interface{}{"reliever_id": candErr.ID, "field": candErr.Field}}
	case errors.As(err, &emptyErr):
		return errorMapping{status: http.StatusBadRequest, code: ErrCodeEmptyCandidateList}
	case errors.As(err, &dupErr):
		return errorMapping{status: http.StatusBadRequest, code: ErrCodeDuplicateCandidateID,
			details: map[string]interface{}{"reliever_id": dupErr.ID, "positions": []int{dupErr.FirstIndex, dupErr.SecondIndex}}}
	case errors.As(err, &viableErr):
		failures := make([]map[string]string, len(viableErr.Failures))
		for i, f := range viableErr.Failures {
			failures[i] = map[string]string{"reliever_id": f.CandidateID, "reason": f.Error()}
		}
		return errorMapping{status: http.StatusUnprocessableEntity, code: ErrCodeNoViableCandidate,
			details: map[string]interface{}{"failures": failures}}
	case errors.Is(err, context.DeadlineExceeded):
		return errorMapping{status: http.StatusServiceUnavailable, code: ErrCodeServiceUnavailable}
	default:
		return errorMapping{status: http.StatusInternalServerError, code: ErrCodeInternalError}
	}
}

// writeDomainError renders err in the standard envelope and logs server
// side failures.
func writeDomainError(w http.ResponseWriter, r *http.Request, err error) {
	m := mapError(err)

	message := err.Error()
	switch m.status {
	case http.StatusInternalServerError:
		message = "internal error"
	case http.StatusServiceUnavailable:
		message = "request timed out"
	}
	if m.status >= http.StatusInternalServerError {
		logRequestError(r, err, m.code)
	}

	NewResponseWriter(w, r).ErrorWithDetails(m.status, m.code, message, m.details)
}
