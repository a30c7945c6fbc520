// Bullpen - Relief Pitcher Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bullpen

//go:build integration

// Package testinfra starts real dependencies in Docker for integration
// tests, using testcontainers-go.
//
// The package only builds with the integration tag:
//
//	go test -tags integration ./internal/events/...
//
// # NATS
//
//	func TestDecisionFeedOverNATS(t *testing.T) {
//	    testinfra.SkipIfNoDocker(t)
//	    broker, err := testinfra.NewNATSContainer(context.Background())
//	    if err != nil {
//	        t.Fatal(err)
//	    }
//	    t.Cleanup(func() { testinfra.CleanupContainer(t, broker) })
//	    // connect to broker.URL
//	}
//
// Tests skip when Docker is unavailable.
package testinfra
