// Bullpen - Relief Pitcher Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bullpen

package api

import (
	"net/http"
	"time"
)

// eventsDisabled is reported by Health when no publisher is configured.
const eventsDisabled = "disabled"

// Health handles GET /health and GET /api/v1/health.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	events := eventsDisabled
	if h.EventsEnabled() && h.eventsBackend != "" {
		events = h.eventsBackend
	}

	clients := 0
	if h.wsHub != nil {
		clients = h.wsHub.GetClientCount()
	}

	WriteSuccess(w, r, HealthResponse{
		Status:       "ok",
		ModelLoaded:  h.model.ModelLoaded,
		ModelBackend: h.model.Backend,
		ModelVersion: h.model.Version,
		KBatters:     h.model.KBatters,
		Events:       events,
		FeedClients:  clients,
		Uptime:       time.Since(h.startTime).Seconds(),
		Engine:       h.engine.Metrics(),
		Penalty:      h.engine.Policy().Config(),
		TieBreak:     string(h.engine.Config().TieBreak),
	})
}
