// Bullpen - Relief Pitcher Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bullpen

package config

import (
	"fmt"
	"strings"
	"time"
)

// Validate checks that required configuration is present and valid
func (c *Config) Validate() error {
	if err := c.validateServer(); err != nil {
		return err
	}

	if err := c.validateRecommend(); err != nil {
		return err
	}

	if err := c.validateModel(); err != nil {
		return err
	}

	if err := c.validateEvents(); err != nil {
		return err
	}

	if err := c.validateSecurity(); err != nil {
		return err
	}

	if err := c.validateMetrics(); err != nil {
		return err
	}

	return c.validateLogging()
}

func (c *Config) validateServer() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("HTTP_PORT must be between 1 and 65535")
	}
	if c.Server.RequestTimeout <= 0 {
		return fmt.Errorf("HTTP_TIMEOUT must be positive")
	}
	if c.Server.ShutdownTimeout <= 0 {
		return fmt.Errorf("SHUTDOWN_TIMEOUT must be positive")
	}
	return nil
}

// validateRecommend builds the engine configuration once so that penalty
// values and unknown penalty keys are rejected at startup.
func (c *Config) validateRecommend() error {
	if _, err := c.Recommend.EngineConfig(); err != nil {
		return fmt.Errorf("recommend: %w", err)
	}
	return nil
}

// Model limits
const (
	maxKBatters = 27
)

var validModelBackends = map[string]bool{
	"linear": true,
	"remote": true,
}

func (c *Config) validateModel() error {
	if !validModelBackends[c.Model.Backend] {
		return fmt.Errorf("MODEL_BACKEND must be one of: linear, remote")
	}
	if c.Model.KBatters < 1 || c.Model.KBatters > maxKBatters {
		return fmt.Errorf("K_BATTERS must be between 1 and %d", maxKBatters)
	}
	if c.Model.Backend != "remote" {
		return nil
	}
	return c.validateRemoteModel()
}

func (c *Config) validateRemoteModel() error {
	if c.Model.RemoteURL == "" {
		return fmt.Errorf("MODEL_REMOTE_URL is required when MODEL_BACKEND=remote")
	}
	if err := validateHTTPURL(c.Model.RemoteURL, "MODEL_REMOTE_URL"); err != nil {
		return err
	}
	if c.Model.RemoteTimeout <= 0 {
		return fmt.Errorf("MODEL_REMOTE_TIMEOUT must be positive")
	}
	if c.Model.RemoteRateLimit < 0 {
		return fmt.Errorf("MODEL_REMOTE_RATE_LIMIT must be non-negative")
	}
	if c.Model.RemoteBurst < 1 {
		return fmt.Errorf("MODEL_REMOTE_BURST must be at least 1")
	}
	if c.Model.CacheSize < 0 {
		return fmt.Errorf("MODEL_CACHE_SIZE must be non-negative")
	}
	if c.Model.CacheSize > 0 && c.Model.CacheTTL <= 0 {
		return fmt.Errorf("MODEL_CACHE_TTL must be positive when the cache is enabled")
	}
	return nil
}

var validEventsBackends = map[string]bool{
	EventsBackendMemory:   true,
	EventsBackendNATS:     true,
	EventsBackendEmbedded: true,
}

// validateEvents validates the decision event feed (only if enabled)
func (c *Config) validateEvents() error {
	if !c.Events.Enabled {
		return nil
	}

	if !validEventsBackends[c.Events.Backend] {
		return fmt.Errorf("EVENTS_BACKEND must be one of: memory, nats, embedded")
	}
	if strings.TrimSpace(c.Events.Topic) == "" {
		return fmt.Errorf("EVENTS_TOPIC is required when events are enabled")
	}
	if c.Events.PublishTimeout <= 0 {
		return fmt.Errorf("EVENTS_PUBLISH_TIMEOUT must be positive")
	}

	switch c.Events.Backend {
	case EventsBackendNATS:
		if err := validateNATSURL(c.Events.NATSURL); err != nil {
			return fmt.Errorf("NATS_URL: %w", err)
		}
	case EventsBackendEmbedded:
		if c.Events.EmbeddedPort < 1 || c.Events.EmbeddedPort > 65535 {
			return fmt.Errorf("NATS_PORT must be between 1 and 65535")
		}
	}
	return nil
}

// validateSecurity validates security configuration
func (c *Config) validateSecurity() error {
	if len(c.Security.CORSOrigins) == 0 {
		return fmt.Errorf("CORS_ORIGINS must list at least one origin (use * to allow all)")
	}
	return c.validateRateLimits()
}

// hasWildcardCORS checks if CORS is configured with wildcard origins
func (c *Config) hasWildcardCORS() bool {
	for _, origin := range c.Security.CORSOrigins {
		if origin == "*" {
			return true
		}
	}
	return false
}

// ShouldWarnAboutCORS returns true if CORS configuration should be logged
// at startup
func (c *Config) ShouldWarnAboutCORS() bool {
	return c.hasWildcardCORS()
}

// Rate limit constants
const (
	minRateLimitRequests = 1           // Minimum 1 request allowed
	maxRateLimitRequests = 100000      // Maximum 100K requests per window
	minRateLimitWindow   = time.Second // Minimum 1 second window
	maxRateLimitWindow   = time.Hour   // Maximum 1 hour window
)

// validateRateLimits validates rate limiting configuration bounds.
func (c *Config) validateRateLimits() error {
	if c.Security.RateLimitDisabled {
		return nil
	}

	if c.Security.RateLimitReqs < minRateLimitRequests || c.Security.RateLimitReqs > maxRateLimitRequests {
		return fmt.Errorf("RATE_LIMIT_REQUESTS must be between %d and %d", minRateLimitRequests, maxRateLimitRequests)
	}
	if c.Security.RateLimitWindow < minRateLimitWindow || c.Security.RateLimitWindow > maxRateLimitWindow {
		return fmt.Errorf("RATE_LIMIT_WINDOW must be between %v and %v", minRateLimitWindow, maxRateLimitWindow)
	}
	return nil
}

func (c *Config) validateMetrics() error {
	if c.Metrics.MAEWindow < 1 {
		return fmt.Errorf("MAE_WINDOW must be at least 1")
	}
	return nil
}

// validLogLevels defines the allowed log levels
var validLogLevels = map[string]bool{
	"trace": true,
	"debug": true,
	"info":  true,
	"warn":  true,
	"error": true,
}

// validLogFormats defines the allowed log formats
var validLogFormats = map[string]bool{
	"json":    true,
	"console": true,
}

// validateLogging validates logging configuration
func (c *Config) validateLogging() error {
	if !validLogLevels[c.Logging.Level] {
		return fmt.Errorf("LOG_LEVEL must be one of: trace, debug, info, warn, error")
	}
	if c.Logging.Format != "" && !validLogFormats[c.Logging.Format] {
		return fmt.Errorf("LOG_FORMAT must be one of: json, console")
	}
	return nil
}
