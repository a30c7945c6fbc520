// Bullpen - Relief Pitcher Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bullpen

package predictor

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/bullpen/internal/cache"
	"github.com/tomtom215/bullpen/internal/models"
	"github.com/tomtom215/bullpen/internal/recommend"
)

func TestCached(t *testing.T) {
	var calls atomic.Int32
	fail := atomic.Bool{}
	inner := recommend.PredictorFunc(func(_ context.Context, _ models.GameState, c models.Candidate) (float64, error) {
		calls.Add(1)
		if fail.Load() {
			return 0, errors.New("model server unavailable")
		}
		if c.ID == "R1" {
			return 0.8, nil
		}
		return 1.1, nil
	})
	p := Cached("test", inner, cache.NewLRU[float64](16, time.Minute))

	ctx := context.Background()
	state := mustState(t, models.GameStateParams{Inning: 8, Outs: 1, ParkID: "BOS"})
	r1 := models.Candidate{ID: "R1", Throws: models.HandRight, DaysSinceLastOuting: 2}
	r2 := models.Candidate{ID: "R2", Throws: models.HandRight, DaysSinceLastOuting: 2}

	for i := 0; i < 3; i++ {
		if v, err := p.Predict(ctx, state, r1); err != nil || v != 0.8 {
			t.Fatalf("Predict(R1) = %v, %v", v, err)
		}
	}
	if calls.Load() != 1 {
		t.Errorf("inner calls = %d, want 1 for repeated input", calls.Load())
	}

	// Same features, different reliever: separate entry.
	if v, _ := p.Predict(ctx, state, r2); v != 1.1 {
		t.Errorf("Predict(R2) = %v, want 1.1", v)
	}

	// A different state changes the feature vector.
	later := mustState(t, models.GameStateParams{Inning: 9, Outs: 1, ParkID: "BOS"})
	if _, err := p.Predict(ctx, later, r1); err != nil {
		t.Fatal(err)
	}
	if calls.Load() != 3 {
		t.Errorf("inner calls = %d, want 3", calls.Load())
	}

	// Errors are returned and not cached.
	fail.Store(true)
	fresh := models.Candidate{ID: "R9", Throws: models.HandLeft, DaysSinceLastOuting: 0}
	for i := 0; i < 2; i++ {
		if _, err := p.Predict(ctx, state, fresh); err == nil {
			t.Fatal("expected inner error")
		}
	}
	if calls.Load() != 5 {
		t.Errorf("inner calls = %d, want failures retried", calls.Load())
	}
}

func TestNew_RemoteCacheOption(t *testing.T) {
	opts := Options{
		Backend:   BackendRemote,
		KBatters:  3,
		Remote:    RemoteConfig{URL: "http://127.0.0.1:1", BreakerName: "test-remote-cache"},
		CacheSize: 8,
		CacheTTL:  time.Minute,
	}
	p, info, err := New(opts, zerolog.Nop())
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if p == nil || info.Backend != BackendRemote {
		t.Errorf("New() = %v, %+v", p, info)
	}
}

func TestNew_RemoteSharedCache(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"expected_runs": 0.65}`))
	}))
	defer server.Close()

	shared := cache.NewLRU[float64](8, time.Minute)
	opts := Options{
		Backend:  BackendRemote,
		KBatters: 3,
		Remote:   RemoteConfig{URL: server.URL, BreakerName: "test-remote-shared-cache", Timeout: time.Second},
		Cache:    shared,
	}
	p, _, err := New(opts, zerolog.Nop())
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	state := mustState(t, models.GameStateParams{Inning: 7, ParkID: "SEA"})
	c := models.Candidate{ID: "R5", Throws: models.HandRight, DaysSinceLastOuting: 3}
	for i := 0; i < 2; i++ {
		v, err := p.Predict(context.Background(), state, c)
		if err != nil {
			t.Fatalf("Predict() error = %v", err)
		}
		if v != 0.65 {
			t.Errorf("Predict() = %v, want 0.65", v)
		}
	}
	if got := calls.Load(); got != 1 {
		t.Errorf("server calls = %d, want 1", got)
	}
	if got := shared.Len(); got != 1 {
		t.Errorf("shared cache Len() = %d, want 1", got)
	}
}
