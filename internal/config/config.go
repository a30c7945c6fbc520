// Bullpen - Relief Pitcher Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bullpen

package config

import (
	"fmt"
	"time"

	"github.com/tomtom215/bullpen/internal/recommend"
)

// Config holds all application configuration loaded from defaults, an
// optional config file and environment variables.
//
// Configuration Loading Order (Koanf v2):
//  1. Defaults: Built-in sensible defaults for all settings
//  2. Config File: Optional YAML config file (config.yaml)
//  3. Environment Variables: Override any mapped setting
//
// Example:
//
//	cfg, err := config.Load()
//	if err != nil {
//	    log.Fatal("Failed to load config:", err)
//	}
//	engineCfg, err := cfg.Recommend.EngineConfig()
//
// Thread Safety:
// Config is immutable after Load() and safe for concurrent read access.
type Config struct {
	Server    ServerConfig    `koanf:"server"`
	Logging   LoggingConfig   `koanf:"logging"`
	Recommend RecommendConfig `koanf:"recommend"`
	Model     ModelConfig     `koanf:"model"`
	Events    EventsConfig    `koanf:"events"`
	Security  SecurityConfig  `koanf:"security"`
	Metrics   MetricsConfig   `koanf:"metrics"`
}

// ServerConfig holds HTTP server settings
//
// Environment Variables:
//   - HTTP_HOST: Bind address (default: 0.0.0.0)
//   - HTTP_PORT: Listen port (default: 8080)
//   - HTTP_TIMEOUT: Per-request handler timeout (default: 10s)
//   - SHUTDOWN_TIMEOUT: Graceful shutdown budget (default: 10s)
type ServerConfig struct {
	Host            string        `koanf:"host"`
	Port            int           `koanf:"port"`
	ReadTimeout     time.Duration `koanf:"read_timeout"`
	WriteTimeout    time.Duration `koanf:"write_timeout"`
	IdleTimeout     time.Duration `koanf:"idle_timeout"`
	RequestTimeout  time.Duration `koanf:"request_timeout"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
}

// Addr returns the host:port listen address.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// LoggingConfig holds logging configuration.
//
// Environment Variables:
//   - LOG_LEVEL: trace, debug, info, warn, error (default: info)
//   - LOG_FORMAT: json, console (default: json)
//   - LOG_CALLER: true/false - include caller file:line (default: false)
type LoggingConfig struct {
	// Level is the minimum log level: trace, debug, info, warn, error.
	// Default: info
	Level string `koanf:"level"`

	// Format is the output format: json or console.
	// Default: json
	Format string `koanf:"format"`

	// Caller includes caller file and line number in logs.
	// Default: false
	Caller bool `koanf:"caller"`
}

// RecommendConfig holds recommendation engine settings.
//
// Penalty is kept as a raw option map so unrecognised keys in a config file
// are reported instead of silently ignored.
//
// Environment Variables:
//   - P_B2B: Back-to-back penalty in runs (default: 1.0)
//   - P_HIGH_PITCH: High workload penalty in runs (default: 0.5)
//   - PITCH_COUNT_THRESHOLD: Pitches that must be exceeded for the workload penalty (default: 20)
//   - TIE_BREAK: id or position (default: id)
//   - RECOMMEND_MAX_CONCURRENCY: Concurrent predictor calls per request (default: 8)
type RecommendConfig struct {
	Penalty        map[string]interface{} `koanf:"penalty"`
	TieBreak       string                 `koanf:"tie_break"`
	MaxConcurrency int                    `koanf:"max_concurrency"`
}

// EngineConfig converts the section into an engine configuration.
func (r RecommendConfig) EngineConfig() (*recommend.Config, error) {
	penalty, err := recommend.PenaltyConfigFromOptions(r.Penalty)
	if err != nil {
		return nil, err
	}

	cfg := recommend.DefaultConfig()
	cfg.Penalty = penalty
	if r.TieBreak != "" {
		cfg.TieBreak = recommend.TieBreak(r.TieBreak)
	}
	cfg.MaxConcurrency = r.MaxConcurrency

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ModelConfig selects the expected-runs predictor.
//
// Environment Variables:
//   - MODEL_BACKEND: linear or remote (default: linear)
//   - MODEL_PATH: Linear model file (default: models/bms.yaml)
//   - K_BATTERS: Forecast horizon in batters (default: 3)
//   - MODEL_REMOTE_URL: Model server base URL (required for remote)
//   - MODEL_REMOTE_TIMEOUT: Per-call timeout (default: 2s)
//   - MODEL_REMOTE_RATE_LIMIT: Calls per second, 0 = unlimited (default: 50)
//   - MODEL_REMOTE_BURST: Limiter burst (default: 20)
//   - MODEL_CACHE_SIZE: Remote predictions kept in memory, 0 disables (default: 4096)
//   - MODEL_CACHE_TTL: Lifetime of a cached prediction (default: 30s)
type ModelConfig struct {
	Backend         string        `koanf:"backend"`
	Path            string        `koanf:"path"`
	KBatters        int           `koanf:"k_batters"`
	RemoteURL       string        `koanf:"remote_url"`
	RemoteTimeout   time.Duration `koanf:"remote_timeout"`
	RemoteRateLimit float64       `koanf:"remote_rate_limit"`
	RemoteBurst     int           `koanf:"remote_burst"`
	CacheSize       int           `koanf:"cache_size"`
	CacheTTL        time.Duration `koanf:"cache_ttl"`
}

// EventsConfig controls the decision event feed.
//
// Backends:
//   - memory: in-process Go channels (single instance)
//   - nats: external NATS server at NATSURL (core pub/sub)
//   - embedded: NATS server started inside the process
//
// Environment Variables:
//   - EVENTS_ENABLED: Publish decision events (default: false)
//   - EVENTS_BACKEND: memory, nats or embedded (default: memory)
//   - EVENTS_TOPIC: Topic/subject (default: bullpen.decisions)
//   - NATS_URL: External NATS URL (default: nats://127.0.0.1:4222)
//   - NATS_HOST, NATS_PORT: Embedded server listen address
//   - EVENTS_QUEUE_GROUP: Share events between relays (default: empty, every
//     instance receives every event)
type EventsConfig struct {
	Enabled        bool          `koanf:"enabled"`
	Backend        string        `koanf:"backend"`
	Topic          string        `koanf:"topic"`
	NATSURL        string        `koanf:"nats_url"`
	EmbeddedHost   string        `koanf:"embedded_host"`
	EmbeddedPort   int           `koanf:"embedded_port"`
	PublishTimeout time.Duration `koanf:"publish_timeout"`
	QueueGroup     string        `koanf:"queue_group"`
}

// Events backend names.
const (
	EventsBackendMemory   = "memory"
	EventsBackendNATS     = "nats"
	EventsBackendEmbedded = "embedded"
)

// SecurityConfig holds CORS and inbound rate limiting settings.
//
// Environment Variables:
//   - CORS_ORIGINS: Comma-separated allowed origins (default: *)
//   - RATE_LIMIT_REQUESTS: Requests per window per client IP (default: 600)
//   - RATE_LIMIT_WINDOW: Window length (default: 1m)
//   - DISABLE_RATE_LIMIT: Turn rate limiting off (default: false)
type SecurityConfig struct {
	CORSOrigins       []string      `koanf:"cors_origins"`
	RateLimitReqs     int           `koanf:"rate_limit_reqs"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window"`
	RateLimitDisabled bool          `koanf:"rate_limit_disabled"`
}

// MetricsConfig holds online model monitoring settings.
//
// Environment Variables:
//   - MAE_WINDOW: Observations averaged by bms_online_mae (default: 500)
type MetricsConfig struct {
	MAEWindow int `koanf:"mae_window"`
}

// Load loads configuration using Koanf with layered sources.
func Load() (*Config, error) {
	return LoadWithKoanf()
}
