// Bullpen - Relief Pitcher Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bullpen

package main

import (
	"fmt"
	"net/http"
	"runtime"

	"github.com/rs/zerolog"

	"github.com/tomtom215/bullpen/internal/api"
	"github.com/tomtom215/bullpen/internal/cache"
	"github.com/tomtom215/bullpen/internal/config"
	"github.com/tomtom215/bullpen/internal/logging"
	"github.com/tomtom215/bullpen/internal/metrics"
	"github.com/tomtom215/bullpen/internal/predictor"
	"github.com/tomtom215/bullpen/internal/recommend"
	"github.com/tomtom215/bullpen/internal/supervisor"
	"github.com/tomtom215/bullpen/internal/supervisor/services"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

// App is the wired service: everything main needs to run and stop it.
type App struct {
	tree    *supervisor.SupervisorTree
	handler http.Handler
	events  *EventComponents
	model   predictor.Info
}

// NewApp wires configuration into predictor, engine, API, event pipeline
// and supervisor tree. Nothing is started; call tree.Serve.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func NewApp(cfg *config.Config, logger zerolog.Logger) (*App, error) {
	metrics.AppInfo.WithLabelValues(version, runtime.Version()).Set(1)

	var predictionCache *cache.LRU[float64]
	if cfg.Model.Backend == predictor.BackendRemote && cfg.Model.CacheSize > 0 {
		predictionCache = cache.NewLRU[float64](cfg.Model.CacheSize, cfg.Model.CacheTTL)
	}

	pred, info, err := predictor.New(predictor.Options{
		Backend:   cfg.Model.Backend,
		ModelPath: cfg.Model.Path,
		KBatters:  cfg.Model.KBatters,
		Remote: predictor.RemoteConfig{
			URL:       cfg.Model.RemoteURL,
			Timeout:   cfg.Model.RemoteTimeout,
			RateLimit: cfg.Model.RemoteRateLimit,
			Burst:     cfg.Model.RemoteBurst,
		},
		Cache: predictionCache,
	}, logger)
	if err != nil {
		return nil, fmt.Errorf("init predictor: %w", err)
	}

	engineCfg, err := cfg.Recommend.EngineConfig()
	if err != nil {
		return nil, fmt.Errorf("recommend config: %w", err)
	}
	engine, err := recommend.NewEngine(engineCfg, logger)
	if err != nil {
		return nil, fmt.Errorf("init engine: %w", err)
	}

	ev, err := InitEvents(&cfg.Events, logger)
	if err != nil {
		return nil, err
	}

	opts := api.HandlerOptions{
		Engine:         engine,
		Predictor:      pred,
		Model:          info,
		MAE:            metrics.NewMAETracker(cfg.Metrics.MAEWindow, metrics.OnlineMAE),
		RequestTimeout: cfg.Server.RequestTimeout,
		CORSOrigins:    cfg.Security.CORSOrigins,
		Logger:         logger,
	}
	if ev != nil {
		opts.Publisher = ev.publisher
		opts.EventsBackend = ev.bus.Backend()
		opts.Hub = ev.hub
	}
	handler, err := api.NewHandler(opts)
	if err != nil {
		_ = ev.Close()
		return nil, err
	}

	router := api.NewRouter(handler, api.NewChiMiddleware(api.ChiMiddlewareConfigFromSecurity(&cfg.Security)), logger).SetupChi()

	tree := supervisor.NewSupervisorTree(logging.NewSlogLogger(logger), supervisor.TreeConfig{
		ShutdownTimeout: cfg.Server.ShutdownTimeout,
	})
	if ev != nil {
		tree.AddMessagingService(ev.hub)
		tree.AddMessagingService(ev.relay)
	}
	if predictionCache != nil {
		tree.AddAPIService(services.NewCacheJanitor("prediction-cache-janitor", predictionCache, cfg.Model.CacheTTL, logger))
	}
	server := cfg.Server
	tree.AddAPIService(services.NewHTTPServerService(func() services.HTTPServer {
		return &http.Server{
			Addr:              server.Addr(),
			Handler:           router,
			ReadTimeout:       server.ReadTimeout,
			ReadHeaderTimeout: server.ReadTimeout,
			WriteTimeout:      server.WriteTimeout,
			IdleTimeout:       server.IdleTimeout,
		}
	}, server.ShutdownTimeout, logger))

	return &App{tree: tree, handler: router, events: ev, model: info}, nil
}

// Close releases resources held outside the supervisor tree.
func (a *App) Close() error {
	return a.events.Close()
}
