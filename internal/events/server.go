// Bullpen - Relief Pitcher Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bullpen

package events

import (
	"errors"
	"fmt"
	"time"

	"github.com/nats-io/nats-server/v2/server"
)

const (
	embeddedServerName = "bullpen-events"
	embeddedMaxPayload = 1024 * 1024
	embeddedReadyWait  = 10 * time.Second
)

// EmbeddedServer runs an in-process NATS server so a single instance can
// serve the decision feed without external infrastructure.
type EmbeddedServer struct {
	server    *server.Server
	clientURL string
}

// NewEmbeddedServer starts a NATS server on host:port. Port -1 picks a
// random free port.
func NewEmbeddedServer(host string, port int) (*EmbeddedServer, error) {
	opts := &server.Options{
		ServerName: embeddedServerName,
		Host:       host,
		Port:       port,
		MaxPayload: embeddedMaxPayload,
		NoLog:      true,
		NoSigs:     true,
	}

	ns, err := server.NewServer(opts)
	if err != nil {
		return nil, fmt.Errorf("create NATS server: %w", err)
	}

	go ns.Start()

	if !ns.ReadyForConnections(embeddedReadyWait) {
		ns.Shutdown()
		return nil, errors.New("NATS server not ready within timeout")
	}

	return &EmbeddedServer{
		server:    ns,
		clientURL: ns.ClientURL(),
	}, nil
}

// ClientURL returns the connection URL for clients.
func (s *EmbeddedServer) ClientURL() string {
	return s.clientURL
}

// IsRunning reports whether the server is accepting connections.
func (s *EmbeddedServer) IsRunning() bool {
	return s.server.Running()
}

// Shutdown stops the server and waits for it to exit.
func (s *EmbeddedServer) Shutdown() {
	s.server.Shutdown()
	s.server.WaitForShutdown()
}
