// Bullpen - Relief Pitcher Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bullpen

package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog"
)

// defaultShutdownTimeout bounds connection draining when none is given.
const defaultShutdownTimeout = 10 * time.Second

// HTTPServer is the lifecycle subset of *http.Server.
type HTTPServer interface {
	ListenAndServe() error
	Shutdown(ctx context.Context) error
}

// ServerFactory builds a fresh server for each run. An *http.Server cannot
// be restarted after Shutdown, so the supervisor needs a new one per restart.
type ServerFactory func() HTTPServer

// HTTPServerService runs an HTTP server under a suture supervisor.
//
//	svc := services.NewHTTPServerService(func() services.HTTPServer {
//	    return &http.Server{Addr: cfg.Server.Addr(), Handler: router}
//	}, cfg.Server.ShutdownTimeout, logger)
//	tree.AddAPIService(svc)
type HTTPServerService struct {
	newServer       ServerFactory
	shutdownTimeout time.Duration
	logger          zerolog.Logger
	name            string
}

// NewHTTPServerService creates the service. A non-positive shutdownTimeout
// uses ten seconds.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func NewHTTPServerService(factory ServerFactory, shutdownTimeout time.Duration, logger zerolog.Logger) *HTTPServerService {
	if shutdownTimeout <= 0 {
		shutdownTimeout = defaultShutdownTimeout
	}
	return &HTTPServerService{
		newServer:       factory,
		shutdownTimeout: shutdownTimeout,
		logger:          logger.With().Str("component", "http-server").Logger(),
		name:            "http-server",
	}
}

// Serve implements suture.Service. A listen failure is returned so the
// supervisor restarts the service with backoff. On context cancellation the
// server drains for at most the shutdown timeout and ctx.Err() is returned.
func (h *HTTPServerService) Serve(ctx context.Context) error {
	server := h.newServer()

	errCh := make(chan error, 1)
	go func() {
		err := server.ListenAndServe()
		if errors.Is(err, http.ErrServerClosed) {
			err = nil
		}
		errCh <- err
	}()

	if s, ok := server.(*http.Server); ok {
		h.logger.Info().Str("addr", s.Addr).Msg("HTTP server listening")
	}

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("http server failed: %w", err)
		}
		return errors.New("http server stopped unexpectedly")

	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), h.shutdownTimeout)
		defer cancel()

		h.logger.Info().Dur("timeout", h.shutdownTimeout).Msg("Draining HTTP connections")
		if err := server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("http server shutdown failed: %w", err)
		}
		<-errCh
		return ctx.Err()
	}
}

// String identifies the service in supervisor events.
func (h *HTTPServerService) String() string {
	return h.name
}
