// Bullpen - Relief Pitcher Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bullpen

// Package predictor implements expected-runs predictors for the
// recommendation engine.
//
// BuildFeatures turns a game state and a candidate into the model inputs:
// outs, runners on, inning, close and late indicators, platoon advantage,
// capped rest, fatigue, home, park, lineup segment and a leverage score.
//
// Two backends are provided. LinearPredictor evaluates a LinearModel loaded
// from a YAML file (or built-in coefficients) and rescales it to the
// configured batter horizon. RemotePredictor calls an external model server
// through a rate limiter and circuit breaker.
package predictor
