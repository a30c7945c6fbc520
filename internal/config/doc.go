// Bullpen - Relief Pitcher Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bullpen

/*
Package config provides centralized configuration management for Bullpen.

Configuration is loaded with Koanf v2 from three layers, later layers
overriding earlier ones:

  - Built-in defaults (defaultConfig)
  - An optional YAML file (CONFIG_PATH, then config.yaml, /etc/bullpen/config.yaml)
  - Mapped environment variables (P_B2B, MODEL_PATH, HTTP_PORT, ...)

# Configuration Structure

  - ServerConfig: HTTP listen address and timeouts
  - LoggingConfig: zerolog level, format and caller
  - RecommendConfig: penalty options, tie break and concurrency
  - ModelConfig: predictor backend, model file and horizon
  - EventsConfig: decision event backend (memory, nats, embedded)
  - SecurityConfig: CORS origins and inbound rate limiting
  - MetricsConfig: online MAE window

# Penalty Options

The recommend.penalty section is decoded as a raw option map and converted by
recommend.PenaltyConfigFromOptions, so a misspelled key in a config file fails
startup rather than silently keeping the default:

	recommend:
	  penalty:
	    b2b_penalty: 1.0
	    high_pitch_penalty: 0.5
	    pitch_count_threshold: 20

# Thread Safety

The Config returned by Load is read-only after startup and safe for
concurrent use.
*/
package config
