// Bullpen - Relief Pitcher Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bullpen

package predictor

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/bullpen/internal/cache"
	"github.com/tomtom215/bullpen/internal/metrics"
	"github.com/tomtom215/bullpen/internal/models"
	"github.com/tomtom215/bullpen/internal/recommend"
)

// Backend names.
const (
	BackendLinear = "linear"
	BackendRemote = "remote"
)

// Options selects and configures a predictor backend.
type Options struct {
	Backend   string
	ModelPath string
	KBatters  int
	Remote    RemoteConfig

	// CacheSize bounds memoized remote predictions; 0 disables the cache.
	CacheSize int
	CacheTTL  time.Duration

	// Cache, when set, memoizes remote predictions instead of a cache built
	// from CacheSize and CacheTTL. The caller owns its expiry sweep.
	Cache *cache.LRU[float64]
}

// Info describes the predictor serving requests.
type Info struct {
	Backend     string `json:"backend"`
	Version     string `json:"version"`
	ModelLoaded bool   `json:"model_loaded"`
	KBatters    int    `json:"k_batters"`
}

// New builds the predictor described by opts, wrapped with metrics.
// For the linear backend a missing model file falls back to the built-in
// coefficients and Info.ModelLoaded is false.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func New(opts Options, logger zerolog.Logger) (recommend.Predictor, Info, error) {
	switch opts.Backend {
	case "", BackendLinear:
		model, loaded, err := LoadLinearModelOrDefault(opts.ModelPath)
		if err != nil {
			return nil, Info{}, err
		}
		p, err := NewLinearPredictor(model, opts.KBatters)
		if err != nil {
			return nil, Info{}, err
		}
		if !loaded {
			logger.Warn().Str("path", opts.ModelPath).Msg("model file not found, using built-in coefficients")
		}
		info := Info{Backend: BackendLinear, Version: model.Version, ModelLoaded: loaded, KBatters: p.KBatters()}
		metrics.RecordModel(info.Backend, info.Version, info.ModelLoaded)
		return Instrument(BackendLinear, p), info, nil

	case BackendRemote:
		remote := opts.Remote
		if remote.KBatters == 0 {
			remote.KBatters = opts.KBatters
		}
		p, err := NewRemotePredictor(remote, logger)
		if err != nil {
			return nil, Info{}, err
		}
		info := Info{Backend: BackendRemote, Version: remote.URL, ModelLoaded: true, KBatters: remote.KBatters}
		metrics.RecordModel(info.Backend, info.Version, info.ModelLoaded)
		instrumented := Instrument(BackendRemote, p)
		c := opts.Cache
		if c == nil && opts.CacheSize > 0 {
			c = cache.NewLRU[float64](opts.CacheSize, opts.CacheTTL)
		}
		if c != nil {
			return Cached(BackendRemote, instrumented, c), info, nil
		}
		return instrumented, info, nil

	default:
		return nil, Info{}, fmt.Errorf("unknown model backend %q", opts.Backend)
	}
}

// Instrument wraps p so every call is timed and failures are counted under
// backend.
func Instrument(backend string, p recommend.Predictor) recommend.Predictor {
	return recommend.PredictorFunc(func(ctx context.Context, state models.GameState, c models.Candidate) (float64, error) {
		start := time.Now()
		v, err := p.Predict(ctx, state, c)
		metrics.RecordPrediction(backend, time.Since(start), err)
		return v, err
	})
}
