// Bullpen - Relief Pitcher Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bullpen

// Package recommend selects and explains the best relief pitcher for a game
// situation.
//
// # Scoring
//
// For every candidate the engine asks a Predictor for the expected runs the
// opposing team will score, then adds usage penalties from the PenaltyPolicy:
//
//	adjusted = raw expected runs + back-to-back penalty + high pitch count penalty
//
// A reliever marked unavailable receives the Unavailable score instead. It
// ranks behind every finite score and can never be selected, but its full
// breakdown is still reported.
//
// # Ranking
//
// Candidates are sorted ascending by adjusted score. Equal scores are ordered
// by candidate id (or by input position, see TieBreak). Unavailable candidates follow
// in input order. The head of the list is the recommendation when its score
// is finite; otherwise Recommendation.Best is nil and Decision is
// none_available, which is a normal outcome rather than an error.
//
// # Failures
//
// A predictor error, panic or non-finite output excludes only that candidate.
// Its entry appears in Recommendation.Excluded with the reason. When every
// candidate fails, Recommend returns *NoViableCandidateError. Empty candidate
// lists, duplicate ids and malformed candidates fail the call immediately.
//
// # Usage
//
//	engine, err := recommend.NewEngine(recommend.DefaultConfig(), logger)
//	if err != nil {
//	    return err
//	}
//
//	rec, err := engine.Recommend(ctx, state, bullpen, predictor)
//	if err != nil {
//	    return err
//	}
//	if rec.Best == nil {
//	    // nobody is available
//	}
//
// # Thread Safety
//
// The engine keeps no per-request state. Predictor calls for a single request
// run concurrently up to Config.MaxConcurrency, so Predictor implementations
// must be safe for concurrent use.
package recommend
