// Bullpen - Relief Pitcher Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bullpen

// Package logging provides centralized zerolog-based logging for Bullpen.
//
// The server initializes the global logger once from configuration:
//
//	logging.Init(logging.Config{Level: cfg.Logging.Level, Format: cfg.Logging.Format})
//	logging.Info().Str("addr", addr).Msg("Server starting")
//
// Components take a zerolog.Logger by value, usually built with
// WithComponent. Request-scoped logging goes through Ctx, which attaches the
// request ID set by the HTTP middleware:
//
//	logging.Ctx(r.Context()).Warn().Err(err).Msg("Prediction failed")
//
// SlogHandler bridges zerolog to log/slog for libraries such as sutureslog.
//
// Environment Variables:
//   - LOG_LEVEL: trace, debug, info, warn, error (default: info)
//   - LOG_FORMAT: json, console (default: json)
//   - LOG_CALLER: true/false (default: false)
package logging
