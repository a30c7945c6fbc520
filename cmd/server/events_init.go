// Bullpen - Relief Pitcher Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bullpen

package main

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/tomtom215/bullpen/internal/config"
	"github.com/tomtom215/bullpen/internal/events"
	ws "github.com/tomtom215/bullpen/internal/websocket"
)

// EventComponents holds the decision feed pipeline:
// recommend handler -> Publisher -> Bus -> DecisionRelay -> Hub -> websocket clients.
type EventComponents struct {
	bus       *events.Bus
	publisher *events.Publisher
	hub       *ws.Hub
	relay     *events.DecisionRelay
}

// InitEvents builds the pipeline when EVENTS_ENABLED=true. It returns nil,
// nil when events are disabled. The caller owns Close.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func InitEvents(cfg *config.EventsConfig, logger zerolog.Logger) (*EventComponents, error) {
	if !cfg.Enabled {
		logger.Info().Msg("Decision events disabled (EVENTS_ENABLED=false)")
		return nil, nil
	}

	bus, err := events.NewBus(cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("init events bus: %w", err)
	}

	hub := ws.NewHub(logger)
	c := &EventComponents{
		bus:       bus,
		publisher: events.NewPublisher(bus.Publisher(), bus.Topic(), cfg.PublishTimeout, logger),
		hub:       hub,
		relay:     events.NewDecisionRelay(bus.Subscriber(), bus.Topic(), hub, logger),
	}

	logger.Info().
		Str("backend", bus.Backend()).
		Str("topic", bus.Topic()).
		Str("url", bus.URL()).
		Msg("Decision events enabled")
	return c, nil
}

// Close shuts down the bus and, for the embedded backend, its server.
func (c *EventComponents) Close() error {
	if c == nil {
		return nil
	}
	return c.bus.Close()
}
