// Bullpen - Relief Pitcher Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bullpen

/*
Package events publishes a DecisionEvent for every successful
recommendation and relays those events to live feed clients.

Backends (events.backend):

  - memory: watermill gochannel, in-process only
  - nats: watermill-nats over core NATS at events.nats_url
  - embedded: an in-process nats-server, then the same as nats

Publishing is best effort. Publisher runs through a gobreaker circuit
breaker and a publish timeout; callers log failures and carry on.
DecisionRelay is a suture service that subscribes to the topic and hands
each payload to a Broadcaster, normally the websocket hub.

Payload:

	{
	  "event_id": "9f0c...",
	  "timestamp": "2026-04-01T19:05:00Z",
	  "request_id": "req-1",
	  "decision": "selected",
	  "best_id": "R2",
	  "candidates": [{"id": "R2", "adjusted_score": 0.41, "status": "ranked"}]
	}
*/
package events
