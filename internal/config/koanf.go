// Bullpen - Relief Pitcher Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bullpen

package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"

	"github.com/tomtom215/bullpen/internal/recommend"
)

// DefaultConfigPaths lists the paths where config files are searched in order of priority.
// The first file found will be used.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/bullpen/config.yaml",
	"/etc/bullpen/config.yml",
}

// ConfigPathEnvVar is the environment variable that can override the config file path.
const ConfigPathEnvVar = "CONFIG_PATH"

// defaultConfig returns a Config struct with all sensible default values.
// These defaults are applied first, then overridden by config file and env vars.
func defaultConfig() *Config {
	penalty := recommend.DefaultPenaltyConfig()

	return &Config{
		Server: ServerConfig{
			Host:            "0.0.0.0",
			Port:            8080,
			ReadTimeout:     10 * time.Second,
			WriteTimeout:    15 * time.Second,
			IdleTimeout:     60 * time.Second,
			RequestTimeout:  10 * time.Second,
			ShutdownTimeout: 10 * time.Second,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Caller: false,
		},
		Recommend: RecommendConfig{
			Penalty: map[string]interface{}{
				recommend.OptionBackToBackPenalty:   penalty.BackToBack,
				recommend.OptionHighPitchPenalty:    penalty.HighPitchCount,
				recommend.OptionPitchCountThreshold: penalty.PitchCountThreshold,
			},
			TieBreak:       string(recommend.TieBreakID),
			MaxConcurrency: recommend.DefaultMaxConcurrency,
		},
		Model: ModelConfig{
			Backend:         "linear",
			Path:            "models/bms.yaml",
			KBatters:        3,
			RemoteURL:       "",
			RemoteTimeout:   2 * time.Second,
			RemoteRateLimit: 50,
			RemoteBurst:     20,
			CacheSize:       4096,
			CacheTTL:        30 * time.Second,
		},
		Events: EventsConfig{
			Enabled:        false,
			Backend:        EventsBackendMemory,
			Topic:          "bullpen.decisions",
			NATSURL:        "nats://127.0.0.1:4222",
			EmbeddedHost:   "127.0.0.1",
			EmbeddedPort:   4222,
			PublishTimeout: 2 * time.Second,
			QueueGroup:     "",
		},
		Security: SecurityConfig{
			CORSOrigins:       []string{"*"},
			RateLimitReqs:     600,
			RateLimitWindow:   time.Minute,
			RateLimitDisabled: false,
		},
		Metrics: MetricsConfig{
			MAEWindow: 500,
		},
	}
}

// LoadWithKoanf loads configuration using Koanf v2 with layered sources.
//
// Loading order (later sources override earlier):
//  1. Built-in defaults
//  2. Config file (if found)
//  3. Environment variables
func LoadWithKoanf() (*Config, error) {
	k := koanf.New(".")

	// Layer 1: Load defaults from struct
	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	// Layer 2: Load config file (optional)
	if configPath := findConfigFile(); configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	}

	// Layer 3: Environment variables (highest priority)
	// P_B2B -> recommend.penalty.b2b_penalty
	// MODEL_PATH -> model.path
	if err := k.Load(env.Provider("", ".", envTransformFunc), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := processSliceFields(k); err != nil {
		return nil, fmt.Errorf("failed to process slice fields: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// findConfigFile searches for a config file in the default paths.
// Returns the path to the first file found, or empty string if none found.
func findConfigFile() string {
	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
	}

	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	return ""
}

// sliceConfigPaths defines which config paths should be parsed as comma-separated slices
var sliceConfigPaths = []string{
	"security.cors_origins",
}

// processSliceFields converts comma-separated string values to slices for known slice fields.
// Env vars come in as strings, but the config expects slices.
func processSliceFields(k *koanf.Koanf) error {
	for _, path := range sliceConfigPaths {
		strVal, ok := k.Get(path).(string)
		if !ok || strVal == "" {
			continue
		}

		parts := strings.Split(strVal, ",")
		trimmed := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				trimmed = append(trimmed, p)
			}
		}
		if len(trimmed) > 0 {
			if err := k.Set(path, trimmed); err != nil {
				return fmt.Errorf("failed to set %s: %w", path, err)
			}
		}
	}
	return nil
}

// envMappings maps lowercased environment variable names to koanf paths.
var envMappings = map[string]string{
	// Server
	"http_host":          "server.host",
	"http_port":          "server.port",
	"http_read_timeout":  "server.read_timeout",
	"http_write_timeout": "server.write_timeout",
	"http_idle_timeout":  "server.idle_timeout",
	"http_timeout":       "server.request_timeout",
	"shutdown_timeout":   "server.shutdown_timeout",

	// Logging
	"log_level":  "logging.level",
	"log_format": "logging.format",
	"log_caller": "logging.caller",

	// Recommendation engine
	"p_b2b":                     "recommend.penalty.b2b_penalty",
	"p_high_pitch":              "recommend.penalty.high_pitch_penalty",
	"pitch_count_threshold":     "recommend.penalty.pitch_count_threshold",
	"tie_break":                 "recommend.tie_break",
	"recommend_max_concurrency": "recommend.max_concurrency",

	// Model
	"model_backend":           "model.backend",
	"model_path":              "model.path",
	"k_batters":               "model.k_batters",
	"model_remote_url":        "model.remote_url",
	"model_remote_timeout":    "model.remote_timeout",
	"model_remote_rate_limit": "model.remote_rate_limit",
	"model_remote_burst":      "model.remote_burst",
	"model_cache_size":        "model.cache_size",
	"model_cache_ttl":         "model.cache_ttl",

	// Decision events
	"events_enabled":         "events.enabled",
	"events_backend":         "events.backend",
	"events_topic":           "events.topic",
	"events_publish_timeout": "events.publish_timeout",
	"events_queue_group":     "events.queue_group",
	"nats_url":               "events.nats_url",
	"nats_host":              "events.embedded_host",
	"nats_port":              "events.embedded_port",

	// Security
	"cors_origins":        "security.cors_origins",
	"rate_limit_requests": "security.rate_limit_reqs",
	"rate_limit_window":   "security.rate_limit_window",
	"disable_rate_limit":  "security.rate_limit_disabled",

	// Metrics
	"mae_window": "metrics.mae_window",
}

// envTransformFunc transforms environment variable names to koanf config paths.
//
// Examples:
//   - P_B2B -> recommend.penalty.b2b_penalty
//   - MODEL_PATH -> model.path
//   - HTTP_PORT -> server.port
func envTransformFunc(key string) string {
	if mapped, ok := envMappings[strings.ToLower(key)]; ok {
		return mapped
	}

	// Unmapped keys are skipped so random environment variables
	// don't pollute config
	return ""
}

// WatchConfigFile sets up a file watcher for hot-reload capability.
// The caller is responsible for mutex protection when swapping
// configuration during reloads.
func WatchConfigFile(path string, callback func()) error {
	return file.Provider(path).Watch(func(event interface{}, err error) {
		if err != nil {
			return
		}
		callback()
	})
}
