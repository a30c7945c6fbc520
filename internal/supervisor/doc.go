// Bullpen - Relief Pitcher Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bullpen

/*
Package supervisor runs the service's long-lived components under a suture v4
supervisor tree.

# Tree

	bullpen
	├── messaging-layer
	│   ├── websocket-hub     (events enabled)
	│   └── decision-relay    (events enabled)
	└── api-layer
	    └── http-server

Each layer counts failures independently. A relay whose broker connection
drops is restarted with backoff without touching the HTTP server.

# Usage

	tree := supervisor.NewSupervisorTree(logging.NewSlogLogger(logger), supervisor.DefaultTreeConfig())
	tree.AddMessagingService(hub)
	tree.AddMessagingService(relay)
	tree.AddAPIService(services.NewHTTPServerService(newServer, cfg.Server.ShutdownTimeout, logger))

	if err := tree.Serve(ctx); err != nil && !errors.Is(err, context.Canceled) {
	    logger.Error().Err(err).Msg("Supervisor stopped")
	}

Supervisor events reach zerolog through sutureslog and logging.SlogHandler.
*/
package supervisor
