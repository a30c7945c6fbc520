// Bullpen - Relief Pitcher Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bullpen

package recommend

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
)

// Option keys accepted by PenaltyConfigFromOptions.
const (
	OptionBackToBackPenalty   = "b2b_penalty"
	OptionHighPitchPenalty    = "high_pitch_penalty"
	OptionPitchCountThreshold = "pitch_count_threshold"
)

// TieBreak selects how candidates with equal adjusted scores are ordered.
type TieBreak string

const (
	// TieBreakID orders ties by candidate id, then input position.
	TieBreakID TieBreak = "id"
	// TieBreakPosition orders ties by original input position, then id.
	TieBreakPosition TieBreak = "position"
)

// PenaltyConfig holds the usage penalty constants.
type PenaltyConfig struct {
	// BackToBack is added when a reliever pitched the previous day.
	// Default: 1.0.
	BackToBack float64 `json:"b2b_penalty" yaml:"b2b_penalty"`

	// HighPitchCount is added when the last outing exceeded the threshold.
	// Default: 0.5.
	HighPitchCount float64 `json:"high_pitch_penalty" yaml:"high_pitch_penalty"`

	// PitchCountThreshold is the pitch count that must be exceeded
	// (strictly) to incur the high workload penalty. Default: 20.
	PitchCountThreshold int `json:"pitch_count_threshold" yaml:"pitch_count_threshold"`
}

// DefaultPenaltyConfig returns the default penalty constants.
func DefaultPenaltyConfig() PenaltyConfig {
	return PenaltyConfig{
		BackToBack:          1.0,
		HighPitchCount:      0.5,
		PitchCountThreshold: 20,
	}
}

// Validate checks penalty constants are positive and finite.
func (c PenaltyConfig) Validate() error {
	if !positiveFinite(c.BackToBack) {
		return fmt.Errorf("%s must be a positive finite number, got %v", OptionBackToBackPenalty, c.BackToBack)
	}
	if !positiveFinite(c.HighPitchCount) {
		return fmt.Errorf("%s must be a positive finite number, got %v", OptionHighPitchPenalty, c.HighPitchCount)
	}
	if c.PitchCountThreshold < 0 {
		return fmt.Errorf("%s must be non-negative, got %d", OptionPitchCountThreshold, c.PitchCountThreshold)
	}
	return nil
}

// PenaltyConfigFromOptions builds a PenaltyConfig from a loosely typed option
// map, starting from the defaults. Keys other than the recognised option
// names are rejected with an *UnknownOptionError. Values may be numbers or
// numeric strings.
func PenaltyConfigFromOptions(opts map[string]interface{}) (PenaltyConfig, error) {
	cfg := DefaultPenaltyConfig()

	var unknown []string
	for key := range opts {
		switch key {
		case OptionBackToBackPenalty, OptionHighPitchPenalty, OptionPitchCountThreshold:
		default:
			unknown = append(unknown, key)
		}
	}
	if len(unknown) > 0 {
		sort.Strings(unknown)
		return PenaltyConfig{}, &UnknownOptionError{Keys: unknown}
	}

	if raw, ok := opts[OptionBackToBackPenalty]; ok {
		v, err := toFloat(raw)
		if err != nil {
			return PenaltyConfig{}, fmt.Errorf("%s: %w", OptionBackToBackPenalty, err)
		}
		cfg.BackToBack = v
	}
	if raw, ok := opts[OptionHighPitchPenalty]; ok {
		v, err := toFloat(raw)
		if err != nil {
			return PenaltyConfig{}, fmt.Errorf("%s: %w", OptionHighPitchPenalty, err)
		}
		cfg.HighPitchCount = v
	}
	if raw, ok := opts[OptionPitchCountThreshold]; ok {
		v, err := toInt(raw)
		if err != nil {
			return PenaltyConfig{}, fmt.Errorf("%s: %w", OptionPitchCountThreshold, err)
		}
		cfg.PitchCountThreshold = v
	}

	if err := cfg.Validate(); err != nil {
		return PenaltyConfig{}, err
	}
	return cfg, nil
}

// Config holds engine configuration.
type Config struct {
	// Penalty holds the usage penalty constants.
	Penalty PenaltyConfig `json:"penalty"`

	// TieBreak orders candidates with equal adjusted scores.
	// Default: id.
	TieBreak TieBreak `json:"tie_break"`

	// MaxConcurrency bounds concurrent predictor calls per request.
	// Zero evaluates every candidate concurrently. Default: 8.
	MaxConcurrency int `json:"max_concurrency"`
}

// DefaultMaxConcurrency is the default bound on concurrent predictor calls.
const DefaultMaxConcurrency = 8

// DefaultConfig returns the default engine configuration.
func DefaultConfig() *Config {
	return &Config{
		Penalty:        DefaultPenaltyConfig(),
		TieBreak:       TieBreakID,
		MaxConcurrency: DefaultMaxConcurrency,
	}
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	if err := c.Penalty.Validate(); err != nil {
		return fmt.Errorf("penalty: %w", err)
	}
	switch c.TieBreak {
	case TieBreakPosition, TieBreakID:
	default:
		return fmt.Errorf("tie_break must be %q or %q, got %q", TieBreakPosition, TieBreakID, c.TieBreak)
	}
	if c.MaxConcurrency < 0 {
		return fmt.Errorf("max_concurrency must be non-negative, got %d", c.MaxConcurrency)
	}
	return nil
}

// Clone returns a copy of the configuration.
func (c *Config) Clone() *Config {
	clone := *c
	return &clone
}

func positiveFinite(v float64) bool {
	return v > 0 && !math.IsInf(v, 0) && !math.IsNaN(v)
}

func toFloat(raw interface{}) (float64, error) {
	switch v := raw.(type) {
	case float64:
		return v, nil
	case float32:
		return float64(v), nil
	case int:
		return float64(v), nil
	case int64:
		return float64(v), nil
	case uint64:
		return float64(v), nil
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return 0, fmt.Errorf("not a number: %q", v)
		}
		return f, nil
	default:
		return 0, fmt.Errorf("unsupported type %T", raw)
	}
}

func toInt(raw interface{}) (int, error) {
	switch v := raw.(type) {
	case int:
		return v, nil
	case int64:
		return int(v), nil
	case uint64:
		return int(v), nil
	case float64:
		if v != math.Trunc(v) {
			return 0, fmt.Errorf("not an integer: %v", v)
		}
		return int(v), nil
	case string:
		i, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return 0, fmt.Errorf("not an integer: %q", v)
		}
		return i, nil
	default:
		return 0, fmt.Errorf("unsupported type %T", raw)
	}
}
