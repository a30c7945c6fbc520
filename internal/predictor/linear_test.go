// Bullpen - Relief Pitcher Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bullpen

package predictor

import (
	"context"
	"errors"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/tomtom215/bullpen/internal/models"
)

const testModelYAML = `version: "2026.03"
k_batters: 3
intercept: 0.2
coefficients:
  runners_on: 0.1
  fatigued: 0.3
park_effects:
  COL: 0.15
segment_effects:
  1: 0.05
`

func writeModel(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "bms.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write model: %v", err)
	}
	return path
}

func TestLoadLinearModel(t *testing.T) {
	t.Parallel()

	m, err := LoadLinearModel(writeModel(t, testModelYAML))
	if err != nil {
		t.Fatalf("LoadLinearModel() error: %v", err)
	}
	if m.Version != "2026.03" || m.KBatters != 3 || m.Intercept != 0.2 {
		t.Errorf("model = %+v", m)
	}
	if m.Coefficients[FeatureFatigued] != 0.3 || m.ParkEffects["COL"] != 0.15 || m.SegmentEffects[1] != 0.05 {
		t.Errorf("model maps = %+v", m)
	}
}

func TestLoadLinearModel_Invalid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		content string
		wantErr string
	}{
		{"unknown field", "k_batters: 3\nslope: 1\n", "slope"},
		{"unknown feature", "k_batters: 3\ncoefficients:\n  weather: 1\n", "weather"},
		{"zero horizon", "k_batters: 0\n", "k_batters"},
		{"bad segment", "k_batters: 3\nsegment_effects:\n  4: 0.1\n", "segment"},
		{"not yaml", "k_batters: [\n", "parse"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := LoadLinearModel(writeModel(t, tt.content))
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error = %v, want mention of %q", err, tt.wantErr)
			}
		})
	}
}

func TestLoadLinearModelOrDefault(t *testing.T) {
	t.Parallel()

	t.Run("missing file falls back", func(t *testing.T) {
		t.Parallel()

		m, loaded, err := LoadLinearModelOrDefault(filepath.Join(t.TempDir(), "absent.yaml"))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if loaded || m.Version != BuiltinModelVersion {
			t.Errorf("loaded=%v version=%q, want builtin", loaded, m.Version)
		}
	})

	t.Run("present file loads", func(t *testing.T) {
		t.Parallel()

		_, loaded, err := LoadLinearModelOrDefault(writeModel(t, testModelYAML))
		if err != nil || !loaded {
			t.Errorf("loaded=%v err=%v", loaded, err)
		}
	})

	t.Run("broken file is an error", func(t *testing.T) {
		t.Parallel()

		_, _, err := LoadLinearModelOrDefault(writeModel(t, "k_batters: -1\n"))
		if err == nil {
			t.Error("expected error for invalid model file")
		}
	})

	t.Run("missing file error matches ErrNotExist", func(t *testing.T) {
		t.Parallel()

		_, err := LoadLinearModel(filepath.Join(t.TempDir(), "absent.yaml"))
		if !errors.Is(err, os.ErrNotExist) {
			t.Errorf("error = %v, want os.ErrNotExist", err)
		}
	})
}

func TestDefaultLinearModel_Valid(t *testing.T) {
	t.Parallel()

	if err := DefaultLinearModel().Validate(); err != nil {
		t.Fatalf("DefaultLinearModel().Validate() error: %v", err)
	}
}

func TestLinearPredictor_Predict(t *testing.T) {
	t.Parallel()

	model, err := LoadLinearModel(writeModel(t, testModelYAML))
	if err != nil {
		t.Fatalf("LoadLinearModel() error: %v", err)
	}

	state := mustState(t, models.GameStateParams{Bases: models.FirstAndSecond, ParkID: "COL", Segment: models.SegmentTop})
	fatigued := models.Candidate{ID: "F", Throws: models.HandLeft, DaysSinceLastOuting: 1, PitchCountLastOuting: 30}
	fresh := models.Candidate{ID: "N", Throws: models.HandLeft, DaysSinceLastOuting: 1, PitchCountLastOuting: 10}

	p, err := NewLinearPredictor(model, 3)
	if err != nil {
		t.Fatalf("NewLinearPredictor() error: %v", err)
	}

	// 0.2 + 0.1*2 runners + 0.3 fatigued + 0.15 park + 0.05 segment
	got, err := p.Predict(context.Background(), state, fatigued)
	if err != nil {
		t.Fatalf("Predict() error: %v", err)
	}
	if want := 0.9; math.Abs(got-want) > 1e-9 {
		t.Errorf("Predict(fatigued) = %v, want %v", got, want)
	}

	rested, _ := p.Predict(context.Background(), state, fresh)
	if rested >= got {
		t.Errorf("fresh reliever (%v) should allow fewer runs than fatigued (%v)", rested, got)
	}

	// Doubling the horizon doubles expected runs.
	p9, err := NewLinearPredictor(model, 6)
	if err != nil {
		t.Fatalf("NewLinearPredictor() error: %v", err)
	}
	got9, _ := p9.Predict(context.Background(), state, fatigued)
	if math.Abs(got9-2*got) > 1e-9 {
		t.Errorf("k=6 prediction = %v, want %v", got9, 2*got)
	}
}

func TestLinearPredictor_ClampsAtZero(t *testing.T) {
	t.Parallel()

	model := &LinearModel{KBatters: 3, Intercept: -5}
	p, err := NewLinearPredictor(model, 0)
	if err != nil {
		t.Fatalf("NewLinearPredictor() error: %v", err)
	}
	if p.KBatters() != 3 {
		t.Errorf("KBatters = %d, want model horizon 3", p.KBatters())
	}

	got, err := p.Predict(context.Background(), mustState(t, models.GameStateParams{}), models.Candidate{ID: "x", Throws: models.HandRight})
	if err != nil || got != 0 {
		t.Errorf("Predict() = %v, %v; want 0, nil", got, err)
	}
}

func TestLinearPredictor_CanceledContext(t *testing.T) {
	t.Parallel()

	p, err := NewLinearPredictor(DefaultLinearModel(), 3)
	if err != nil {
		t.Fatalf("NewLinearPredictor() error: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := p.Predict(ctx, mustState(t, models.GameStateParams{}), models.Candidate{ID: "x", Throws: models.HandRight}); !errors.Is(err, context.Canceled) {
		t.Errorf("error = %v, want context.Canceled", err)
	}
}

func TestNew(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		opts       Options
		wantErr    bool
		wantLoaded bool
		backend    string
	}{
		{"default linear without file", Options{ModelPath: "/nonexistent/bms.yaml", KBatters: 3}, false, false, BackendLinear},
		{"remote", Options{Backend: BackendRemote, Remote: RemoteConfig{URL: "http://models:9000"}}, false, true, BackendRemote},
		{"remote without url", Options{Backend: BackendRemote}, true, false, ""},
		{"unknown backend", Options{Backend: "oracle"}, true, false, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			p, info, err := New(tt.opts, zerolog.Nop())
			if tt.wantErr {
				if err == nil {
					t.Error("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("New() error: %v", err)
			}
			if p == nil {
				t.Fatal("New() returned nil predictor")
			}
			if info.Backend != tt.backend || info.ModelLoaded != tt.wantLoaded {
				t.Errorf("info = %+v", info)
			}
		})
	}
}

func TestLoadLinearModel_ShippedModel(t *testing.T) {
	t.Parallel()

	m, err := LoadLinearModel(filepath.Join("..", "..", "models", "bms.yaml"))
	if err != nil {
		t.Fatalf("LoadLinearModel() error = %v", err)
	}
	if m.KBatters != 3 || m.ParkEffects["COL"] <= 0 {
		t.Errorf("model = %+v", m)
	}
}
