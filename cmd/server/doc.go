// Bullpen - Relief Pitcher Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bullpen

/*
Package main is the entry point for the Bullpen recommendation server.

Bullpen ranks the relief pitchers available to a manager for the current
game state. Each candidate's expected runs allowed over the next few batters
comes from a pluggable predictor; availability rules and workload penalties
are applied on top, and the lowest adjusted score is recommended.

# Application Architecture

Services run under a Suture v4 supervisor tree:

	RootSupervisor ("bullpen")
	├── MessagingSupervisor ("messaging-layer")
	│   ├── WebSocket Hub (decision feed clients)
	│   └── Decision Relay (event bus -> hub, when events are enabled)
	└── APISupervisor ("api-layer")
	    ├── Prediction Cache Janitor (remote backend with cache_size > 0)
	    └── HTTP Server

Initialization order:

 1. Configuration: Koanf v2 with defaults, optional YAML file, environment
 2. Logging: zerolog with JSON/console output
 3. Predictor: linear model file (or built-in coefficients) or remote model server
 4. Engine: penalty and tie-break configuration
 5. Events: Watermill bus on Go channels, external NATS or embedded NATS
 6. HTTP: Chi router with request ID, access log, CORS, rate limit, metrics
 7. Supervisor tree, served until SIGINT or SIGTERM

# Configuration

Common environment variables:

	HTTP_PORT=8080
	LOG_LEVEL=info
	MODEL_BACKEND=linear
	MODEL_PATH=models/bms.yaml
	P_B2B=1.0
	P_HIGH_PITCH=0.5
	EVENTS_ENABLED=true
	EVENTS_BACKEND=embedded

See internal/config for the complete list. CONFIG_PATH points at a YAML
file whose keys mirror the koanf tags.

# Shutdown

On SIGINT or SIGTERM the root context is canceled, the HTTP server drains
within SHUTDOWN_TIMEOUT and the event bus is closed. Services that fail to
stop in time are logged and the process exits non-zero.
*/
package main
