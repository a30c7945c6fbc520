// Bullpen - Relief Pitcher Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bullpen

package api

import (
	"net/http"

	"github.com/tomtom215/bullpen/internal/logging"
	ws "github.com/tomtom215/bullpen/internal/websocket"
)

// DecisionFeed handles GET /api/v1/decisions/ws, upgrading the connection
// to a websocket that receives every decision event as it is relayed.
func (h *Handler) DecisionFeed(w http.ResponseWriter, r *http.Request) {
	if h.wsHub == nil {
		NewResponseWriter(w, r).ServiceUnavailable("decision feed is disabled")
		return
	}

	upgrader := h.getUpgrader()
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade has already written an HTTP error.
		logging.Ctx(r.Context()).Warn().Err(err).Msg("WebSocket upgrade failed")
		return
	}

	client := ws.NewClient(h.wsHub, conn)
	client.Attach()
	logging.Ctx(r.Context()).Debug().Uint64("client_id", client.ID()).Msg("Decision feed client attached")
}
