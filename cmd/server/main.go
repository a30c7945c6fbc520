// Bullpen - Relief Pitcher Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bullpen

package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/tomtom215/bullpen/internal/config"
	"github.com/tomtom215/bullpen/internal/logging"
)

func main() {
	// Load configuration first to get logging settings
	cfg, err := config.Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Caller: cfg.Logging.Caller,
	})
	logger := logging.Logger()

	logger.Info().
		Str("version", version).
		Str("addr", cfg.Server.Addr()).
		Str("model_backend", cfg.Model.Backend).
		Bool("events", cfg.Events.Enabled).
		Msg("Starting Bullpen")

	if cfg.ShouldWarnAboutCORS() {
		logger.Warn().Msg("CORS allows every origin (CORS_ORIGINS=*); restrict it when the API is exposed publicly")
	}

	app, err := NewApp(cfg, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to initialize service")
	}
	defer func() {
		if err := app.Close(); err != nil {
			logger.Error().Err(err).Msg("Error closing event bus")
		}
	}()

	logger.Info().
		Str("backend", app.model.Backend).
		Str("version", app.model.Version).
		Bool("model_loaded", app.model.ModelLoaded).
		Int("k_batters", app.model.KBatters).
		Msg("Predictor ready")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := app.tree.ServeBackground(ctx)
	select {
	case <-ctx.Done():
		logger.Info().Msg("Shutdown signal received, stopping services")
	case err := <-errCh:
		if err != nil && !errors.Is(err, context.Canceled) {
			logger.Error().Err(err).Msg("Supervisor tree error")
		}
	}

	for err := range errCh {
		if err != nil && !errors.Is(err, context.Canceled) {
			logger.Error().Err(err).Msg("Supervisor shutdown error")
		}
	}

	if unstopped, _ := app.tree.UnstoppedServiceReport(); len(unstopped) > 0 {
		for _, svc := range unstopped {
			logger.Warn().Str("service", svc.Name).Msg("Service failed to stop within timeout")
		}
		os.Exit(1)
	}

	logger.Info().Msg("Bullpen stopped")
}
