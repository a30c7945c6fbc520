// Bullpen - Relief Pitcher Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bullpen

// Package validation provides struct validation using go-playground/validator v10.
//
// A thread-safe singleton validator reports field names from json tags and
// registers the domain tags used by the API request bodies:
//
//   - base_state: runner encoding accepted by models.ParseBaseState
//   - pitcher_hand: L or R
//   - batter_hand: L, R or S
//
// Example:
//
//	type Reliever struct {
//	    ID     string `json:"reliever_id" validate:"required,max=64"`
//	    Throws string `json:"throws" validate:"required,pitcher_hand"`
//	}
//
//	if verr := validation.ValidateStruct(&req); verr != nil {
//	    resp.Error(http.StatusBadRequest, "VALIDATION_FAILED", verr.Error(), verr.Details())
//	    return
//	}
package validation
