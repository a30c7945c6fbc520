// Bullpen - Relief Pitcher Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bullpen

/*
Package api provides the HTTP surface of the recommendation service.

# Endpoints

	POST /api/v1/recommend      rank a bullpen for a game state
	POST /recommend             legacy alias of /api/v1/recommend
	POST /api/v1/outcomes       report actual runs to the online MAE tracker
	GET  /api/v1/health         model and events status (also /health)
	GET  /api/v1/decisions/ws   live decision feed, only when events are enabled
	GET  /metrics               Prometheus exposition

# Response Envelope

Every JSON endpoint answers with the same envelope:

	{"success": true,  "data": {...},  "meta": {"request_id": "...", "timestamp": "...", "duration_ms": 1}}
	{"success": false, "error": {"code": "INVALID_GAME_STATE", "message": "...", "details": {...}}, "meta": {...}}

Error codes are stable and map to HTTP statuses:

	VALIDATION_FAILED, INVALID_GAME_STATE, INVALID_CANDIDATE,
	EMPTY_CANDIDATE_LIST, DUPLICATE_CANDIDATE_ID, BAD_REQUEST    400
	NOT_FOUND                                                    404
	METHOD_NOT_ALLOWED                                           405
	NO_VIABLE_CANDIDATE                                          422
	TOO_MANY_REQUESTS                                            429
	INTERNAL_ERROR                                               500
	SERVICE_UNAVAILABLE                                          503

An adjusted score is a JSON number, or the string "unavailable" for a
reliever the manager marked unavailable.

# Middleware

Global: request id, access log, real IP, panic recovery, CORS. The /api/v1
group adds per-IP rate limiting (go-chi/httprate) and Prometheus request
metrics.
*/
package api
