// Bullpen - Relief Pitcher Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bullpen

/*
Package middleware provides HTTP middleware components for the API.

Key Components:

  - RequestID: X-Request-ID propagation into the request context
  - AccessLog: one zerolog line per request
  - PrometheusMetrics: bms_requests_total and bms_request_latency_seconds

Each middleware has the http.HandlerFunc -> http.HandlerFunc shape and is
mounted on the chi router through the api package adapter. The expected
order, outermost first, is RequestID, AccessLog, PrometheusMetrics.
*/
package middleware
