// Bullpen - Relief Pitcher Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bullpen

package middleware

import (
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/bullpen/internal/logging"
)

// AccessLog writes one structured line per request. Server errors log at
// warn, everything else at debug so that production runs at info stay quiet.
// It must run inside RequestID to pick up the request ID.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func AccessLog(logger zerolog.Logger) func(http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			wrapper := &metricsResponseWriter{ResponseWriter: w, statusCode: http.StatusOK}

			ctx := logging.ContextWithLogger(r.Context(), logger)
			next(wrapper, r.WithContext(ctx))

			event := logging.Ctx(ctx).Debug()
			if wrapper.statusCode >= http.StatusInternalServerError {
				event = logging.Ctx(ctx).Warn()
			}
			event.
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Int("status", wrapper.statusCode).
				Dur("duration", time.Since(start)).
				Str("remote", r.RemoteAddr).
				Msg("HTTP request")
		}
	}
}
