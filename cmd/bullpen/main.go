// Bullpen - Relief Pitcher Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bullpen

// Command bullpen ranks relievers for a game state from the command line.
//
//	bullpen recommend --input request.yaml --format table
//	bullpen features --input request.json
//
// Request files use the same shape as POST /api/v1/recommend, in JSON or
// YAML. Results go to stdout, logs and errors to stderr.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().Run(ctx, os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		stop()
		os.Exit(1)
	}
}
