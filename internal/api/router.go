// Bullpen - Relief Pitcher Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bullpen

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/tomtom215/bullpen/internal/middleware"
)

// apiPrefix is the versioned route group. It also labels rate limit hits.
const apiPrefix = "/api/v1"

// chiMiddleware adapts http.HandlerFunc middleware to Chi's func(http.Handler) http.Handler.
func chiMiddleware(mw func(http.HandlerFunc) http.HandlerFunc) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return mw(next.ServeHTTP)
	}
}

// Router wires handlers and middleware into a chi mux.
type Router struct {
	handler       *Handler
	chiMiddleware *ChiMiddleware
	logger        zerolog.Logger
}

// NewRouter creates a router.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func NewRouter(handler *Handler, cm *ChiMiddleware, logger zerolog.Logger) *Router {
	return &Router{handler: handler, chiMiddleware: cm, logger: logger}
}

// SetupChi configures all HTTP routes.
func (router *Router) SetupChi() http.Handler {
	r := chi.NewRouter()

	// Global middleware, applied to all routes in order.
	r.Use(chiMiddleware(middleware.RequestID))
	r.Use(chiMiddleware(middleware.AccessLog(router.logger)))
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(router.chiMiddleware.CORS()) // global so OPTIONS preflight is answered

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		NewResponseWriter(w, r).NotFound("no route for " + r.URL.Path)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		NewResponseWriter(w, r).MethodNotAllowed(r.Method + " is not allowed on " + r.URL.Path)
	})

	// Unversioned endpoints kept for probes and existing clients.
	r.Get("/health", router.handler.Health)
	r.Handle("/metrics", promhttp.Handler())
	r.With(chiMiddleware(middleware.PrometheusMetrics)).Post("/recommend", router.handler.Recommend)

	r.Route(apiPrefix, func(r chi.Router) {
		r.Use(router.chiMiddleware.RateLimit())
		r.Use(chiMiddleware(middleware.PrometheusMetrics))

		r.Get("/health", router.handler.Health)
		r.Post("/recommend", router.handler.Recommend)
		r.Post("/outcomes", router.handler.Outcomes)
		if router.handler.wsHub != nil {
			r.Get("/decisions/ws", router.handler.DecisionFeed)
		}
	})

	return r
}
