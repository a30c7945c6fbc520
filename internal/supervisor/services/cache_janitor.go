// Bullpen - Relief Pitcher Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bullpen

package services

import (
	"context"
	"time"

	"github.com/rs/zerolog"
)

// minJanitorInterval keeps a tiny TTL from turning the sweep into a busy loop.
const minJanitorInterval = time.Second

// ExpiringCache is a cache whose expired entries can be swept in bulk.
// *cache.LRU implements it.
type ExpiringCache interface {
	CleanupExpired() int
	Len() int
}

// CacheJanitor periodically drops expired entries so a cache that is full
// of stale predictions does not evict live ones first.
type CacheJanitor struct {
	cache    ExpiringCache
	interval time.Duration
	logger   zerolog.Logger
	name     string
}

// NewCacheJanitor creates the service. Intervals under a second are raised
// to one second.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func NewCacheJanitor(name string, c ExpiringCache, interval time.Duration, logger zerolog.Logger) *CacheJanitor {
	if interval < minJanitorInterval {
		interval = minJanitorInterval
	}
	return &CacheJanitor{
		cache:    c,
		interval: interval,
		logger:   logger.With().Str("component", name).Logger(),
		name:     name,
	}
}

// Serve implements suture.Service. It sweeps once per interval until ctx is
// canceled.
func (j *CacheJanitor) Serve(ctx context.Context) error {
	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if removed := j.cache.CleanupExpired(); removed > 0 {
				j.logger.Debug().Int("removed", removed).Int("size", j.cache.Len()).Msg("expired cache entries dropped")
			}
		}
	}
}

// String implements fmt.Stringer for supervisor logs.
func (j *CacheJanitor) String() string {
	return j.name
}
