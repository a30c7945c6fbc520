// Bullpen - Relief Pitcher Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bullpen

package api

import (
	"net/http"
	"time"

	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"

	"github.com/tomtom215/bullpen/internal/config"
	"github.com/tomtom215/bullpen/internal/metrics"
)

// ChiMiddlewareConfig holds configuration for Chi middleware factories.
type ChiMiddlewareConfig struct {
	CORSAllowedOrigins []string
	CORSAllowedMethods []string
	CORSAllowedHeaders []string
	CORSExposedHeaders []string
	CORSMaxAge         int // seconds

	RateLimitRequests int
	RateLimitWindow   time.Duration
	RateLimitDisabled bool
}

// ChiMiddlewareConfigFromSecurity maps the security config section.
func ChiMiddlewareConfigFromSecurity(sec *config.SecurityConfig) *ChiMiddlewareConfig {
	return &ChiMiddlewareConfig{
		CORSAllowedOrigins: sec.CORSOrigins,
		CORSAllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		CORSAllowedHeaders: []string{"Content-Type", "Accept", "X-Request-ID"},
		CORSExposedHeaders: []string{"X-Request-ID", "Retry-After"},
		CORSMaxAge:         86400,

		RateLimitRequests: sec.RateLimitReqs,
		RateLimitWindow:   sec.RateLimitWindow,
		RateLimitDisabled: sec.RateLimitDisabled,
	}
}

// ChiMiddleware provides Chi-compatible middleware built from config.
type ChiMiddleware struct {
	config *ChiMiddlewareConfig
	cors   func(http.Handler) http.Handler
}

// NewChiMiddleware creates the middleware factory. Credentials are never
// allowed: the API is unauthenticated and CORS defaults to "*".
func NewChiMiddleware(cfg *ChiMiddlewareConfig) *ChiMiddleware {
	return &ChiMiddleware{
		config: cfg,
		cors: cors.Handler(cors.Options{
			AllowedOrigins:   cfg.CORSAllowedOrigins,
			AllowedMethods:   cfg.CORSAllowedMethods,
			AllowedHeaders:   cfg.CORSAllowedHeaders,
			ExposedHeaders:   cfg.CORSExposedHeaders,
			AllowCredentials: false,
			MaxAge:           cfg.CORSMaxAge,
		}),
	}
}

// CORS returns the go-chi/cors middleware.
func (m *ChiMiddleware) CORS() func(http.Handler) http.Handler {
	return m.cors
}

// RateLimit returns a per-IP httprate limiter, or a no-op when disabled.
// Rejections use the standard error envelope.
func (m *ChiMiddleware) RateLimit() func(http.Handler) http.Handler {
	if m.config.RateLimitDisabled {
		return func(next http.Handler) http.Handler {
			return next
		}
	}

	return httprate.Limit(
		m.config.RateLimitRequests,
		m.config.RateLimitWindow,
		httprate.WithKeyFuncs(httprate.KeyByIP),
		httprate.WithLimitHandler(func(w http.ResponseWriter, r *http.Request) {
			metrics.RateLimitHits.WithLabelValues(apiPrefix).Inc()
			NewResponseWriter(w, r).TooManyRequests("rate limit exceeded, retry later")
		}),
	)
}
