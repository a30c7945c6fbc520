// Bullpen - Relief Pitcher Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bullpen

package predictor

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"math"
	"os"
	"sort"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/tomtom215/bullpen/internal/models"
)

// BuiltinModelVersion identifies the built-in coefficients.
const BuiltinModelVersion = "builtin"

// LinearModel is an additive expected-runs model over the numeric features,
// with per-park and per-lineup-segment offsets.
type LinearModel struct {
	// Version is a free-form label reported in health and metrics.
	Version string `yaml:"version"`

	// KBatters is the batter horizon the coefficients were fit for.
	KBatters int `yaml:"k_batters"`

	// Intercept is the baseline expected runs.
	Intercept float64 `yaml:"intercept"`

	// Coefficients weight NumericFeatures by name. Missing names weigh 0.
	Coefficients map[string]float64 `yaml:"coefficients"`

	// ParkEffects adds a constant per park id. Unknown parks add 0.
	ParkEffects map[string]float64 `yaml:"park_effects"`

	// SegmentEffects adds a constant per lineup segment (1, 2 or 3).
	SegmentEffects map[int]float64 `yaml:"segment_effects"`
}

// DefaultLinearModel returns the built-in coefficients used when no model
// file is available. They reproduce the shape of the synthetic training
// target: late close games, traffic on base, zero rest and fatigue all add
// runs, and a same-handed matchup removes some.
func DefaultLinearModel() *LinearModel {
	return &LinearModel{
		Version:   BuiltinModelVersion,
		KBatters:  3,
		Intercept: 0.1,
		Coefficients: map[string]float64{
			FeatureLateAndClose: 0.2,
			FeatureAnyRunners:   0.25,
			FeatureNoRest:       0.15,
			FeatureFatigued:     0.08,
			FeaturePlatoon:      -0.05,
		},
		ParkEffects:    map[string]float64{},
		SegmentEffects: map[int]float64{1: 0.03, 2: 0.01, 3: -0.02},
	}
}

// Validate checks the model is usable.
func (m *LinearModel) Validate() error {
	if m.KBatters <= 0 {
		return fmt.Errorf("k_batters must be positive, got %d", m.KBatters)
	}
	if !finite(m.Intercept) {
		return fmt.Errorf("intercept must be finite, got %v", m.Intercept)
	}

	known := make(map[string]bool, len(NumericFeatures))
	for _, name := range NumericFeatures {
		known[name] = true
	}

	names := make([]string, 0, len(m.Coefficients))
	for name := range m.Coefficients {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if !known[name] {
			return fmt.Errorf("unknown feature %q in coefficients", name)
		}
		if !finite(m.Coefficients[name]) {
			return fmt.Errorf("coefficient %q must be finite", name)
		}
	}
	for park, v := range m.ParkEffects {
		if !finite(v) {
			return fmt.Errorf("park effect %q must be finite", park)
		}
	}
	for seg, v := range m.SegmentEffects {
		if !models.LineupSegment(seg).Valid() {
			return fmt.Errorf("segment effect key %d is not a lineup segment", seg)
		}
		if !finite(v) {
			return fmt.Errorf("segment effect %d must be finite", seg)
		}
	}
	return nil
}

// Evaluate returns the model output for f over the model's own horizon.
func (m *LinearModel) Evaluate(f Features) float64 {
	sum := m.Intercept
	numeric := f.Numeric()
	for _, name := range NumericFeatures {
		sum += m.Coefficients[name] * numeric[name]
	}
	sum += m.ParkEffects[f.ParkID]
	sum += m.SegmentEffects[f.BatterSegment]
	return sum
}

// LoadLinearModel reads a YAML model file. Unknown fields are rejected.
// A missing file yields an error matching os.ErrNotExist.
func LoadLinearModel(path string) (*LinearModel, error) {
	data, err := os.ReadFile(path) //nolint:gosec // operator-provided model path
	if err != nil {
		return nil, fmt.Errorf("read model file: %w", err)
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var m LinearModel
	if err := dec.Decode(&m); err != nil {
		return nil, fmt.Errorf("parse model file %s: %w", path, err)
	}
	if m.Version == "" {
		m.Version = "unversioned"
	}
	if err := m.Validate(); err != nil {
		return nil, fmt.Errorf("invalid model file %s: %w", path, err)
	}
	return &m, nil
}

// LoadLinearModelOrDefault loads path, falling back to DefaultLinearModel
// when the file does not exist. loaded reports whether the file was used.
func LoadLinearModelOrDefault(path string) (model *LinearModel, loaded bool, err error) {
	if path == "" {
		return DefaultLinearModel(), false, nil
	}
	m, err := LoadLinearModel(path)
	if errors.Is(err, os.ErrNotExist) {
		return DefaultLinearModel(), false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return m, true, nil
}

// LinearPredictor serves predictions from a LinearModel rescaled to a
// configured batter horizon.
type LinearPredictor struct {
	model    *LinearModel
	kBatters int
	scale    float64
}

// NewLinearPredictor creates a predictor forecasting over kBatters batters.
// A non-positive kBatters uses the model's own horizon.
func NewLinearPredictor(model *LinearModel, kBatters int) (*LinearPredictor, error) {
	if model == nil {
		return nil, errors.New("model is required")
	}
	if err := model.Validate(); err != nil {
		return nil, err
	}
	if kBatters <= 0 {
		kBatters = model.KBatters
	}
	return &LinearPredictor{
		model:    model,
		kBatters: kBatters,
		scale:    float64(kBatters) / float64(model.KBatters),
	}, nil
}

// Model returns the underlying model.
func (p *LinearPredictor) Model() *LinearModel {
	return p.model
}

// KBatters returns the forecast horizon.
func (p *LinearPredictor) KBatters() int {
	return p.kBatters
}

// Predict returns expected runs over the horizon, never below zero.
func (p *LinearPredictor) Predict(ctx context.Context, state models.GameState, c models.Candidate) (float64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	v := p.model.Evaluate(BuildFeatures(state, c)) * p.scale
	if v < 0 {
		v = 0
	}
	return v, nil
}

// String describes the predictor for logs.
func (p *LinearPredictor) String() string {
	return "linear(" + p.model.Version + ", k=" + strconv.Itoa(p.kBatters) + ")"
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
