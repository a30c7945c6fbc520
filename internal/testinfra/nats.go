// Bullpen - Relief Pitcher Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bullpen

//go:build integration

package testinfra

import (
	"context"
	"fmt"
	"time"

	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

const (
	// DefaultNATSImage is the official NATS server image
	DefaultNATSImage = "nats:2.12-alpine"

	// DefaultNATSPort is the NATS client port
	DefaultNATSPort = "4222"
)

// NATSContainer is a running NATS broker for integration tests.
type NATSContainer struct {
	testcontainers.Container
	URL string
}

// NATSOption configures the NATS container.
type NATSOption func(*natsConfig)

type natsConfig struct {
	image        string
	startTimeout time.Duration
}

// WithNATSImage sets a custom NATS image.
func WithNATSImage(image string) NATSOption {
	return func(c *natsConfig) {
		c.image = image
	}
}

// WithNATSStartTimeout sets how long to wait for the broker.
func WithNATSStartTimeout(timeout time.Duration) NATSOption {
	return func(c *natsConfig) {
		c.startTimeout = timeout
	}
}

// NewNATSContainer starts a NATS broker and returns its client URL.
//
//	nats, err := testinfra.NewNATSContainer(ctx)
//	if err != nil {
//	    t.Fatal(err)
//	}
//	t.Cleanup(func() { testinfra.CleanupContainer(t, nats) })
func NewNATSContainer(ctx context.Context, opts ...NATSOption) (*NATSContainer, error) {
	cfg := &natsConfig{
		image:        DefaultNATSImage,
		startTimeout: 30 * time.Second,
	}
	for _, opt := range opts {
		opt(cfg)
	}

	req := testcontainers.ContainerRequest{
		Image:        cfg.image,
		ExposedPorts: []string{DefaultNATSPort + "/tcp"},
		WaitingFor: wait.ForAll(
			wait.ForListeningPort(DefaultNATSPort+"/tcp"),
			wait.ForLog("Server is ready"),
		).WithStartupTimeout(cfg.startTimeout),
	}

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		return nil, fmt.Errorf("create nats container: %w", err)
	}

	host, err := container.Host(ctx)
	if err != nil {
		container.Terminate(ctx) //nolint:errcheck
		return nil, fmt.Errorf("get container host: %w", err)
	}
	port, err := container.MappedPort(ctx, DefaultNATSPort)
	if err != nil {
		container.Terminate(ctx) //nolint:errcheck
		return nil, fmt.Errorf("get mapped port: %w", err)
	}

	return &NATSContainer{
		Container: container,
		URL:       fmt.Sprintf("nats://%s:%s", host, port.Port()),
	}, nil
}
