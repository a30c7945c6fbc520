// Bullpen - Relief Pitcher Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bullpen

// Package services adapts components whose lifecycle does not already match
// suture.Service. The websocket hub and the decision relay implement Serve
// themselves. HTTPServerService translates the blocking ListenAndServe and
// Shutdown pair into a context-aware Serve, and CacheJanitor turns the
// prediction cache's bulk expiry into a supervised ticker loop.
package services
