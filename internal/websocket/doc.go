// Bullpen - Relief Pitcher Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bullpen

/*
Package websocket implements the live decision feed served at
/api/v1/decisions/ws.

A Hub owns the set of connected clients and fans out every decision event
it receives through BroadcastRaw. Each Client runs two goroutines: readPump
answers pings and detects disconnects, writePump writes queued messages and
keeps the connection alive.

Frames are JSON:

	{"type": "decision", "data": {...decision event...}}
	{"type": "pong", "data": null}

The Hub implements suture.Service and is normally run under the messaging
layer of the supervisor tree. Slow clients whose buffer fills are dropped
instead of stalling the broadcast.
*/
package websocket
