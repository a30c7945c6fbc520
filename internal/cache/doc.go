// Bullpen - Relief Pitcher Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bullpen

/*
Package cache provides a bounded, thread-safe LRU cache with per-entry TTL.

The predictor package uses it to memoize expected-runs predictions from the
remote model server: identical feature vectors for the same reliever within
the TTL are answered locally.

Operations are O(1). Expired entries are dropped lazily on access, or in
bulk with CleanupExpired.

Usage:

	c := cache.NewLRU[float64](4096, 30*time.Second)
	c.Add("R1|...", 1.25)
	if v, ok := c.Get("R1|..."); ok {
	    // cached
	}
*/
package cache
