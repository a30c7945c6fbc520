// Bullpen - Relief Pitcher Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bullpen

package predictor

import (
	"context"

	"github.com/goccy/go-json"

	"github.com/tomtom215/bullpen/internal/cache"
	"github.com/tomtom215/bullpen/internal/metrics"
	"github.com/tomtom215/bullpen/internal/models"
	"github.com/tomtom215/bullpen/internal/recommend"
)

// Cached memoizes p keyed by reliever id and feature vector. Only
// successful predictions are stored.
func Cached(backend string, p recommend.Predictor, c *cache.LRU[float64]) recommend.Predictor {
	return recommend.PredictorFunc(func(ctx context.Context, state models.GameState, cand models.Candidate) (float64, error) {
		key, err := cacheKey(state, cand)
		if err != nil {
			return p.Predict(ctx, state, cand)
		}
		if v, ok := c.Get(key); ok {
			metrics.RecordPredictionCache(backend, true)
			return v, nil
		}
		metrics.RecordPredictionCache(backend, false)

		v, err := p.Predict(ctx, state, cand)
		if err != nil {
			return 0, err
		}
		c.Add(key, v)
		return v, nil
	})
}

func cacheKey(state models.GameState, cand models.Candidate) (string, error) {
	b, err := json.Marshal(BuildFeatures(state, cand))
	if err != nil {
		return "", err
	}
	return cand.ID + "|" + string(b), nil
}
