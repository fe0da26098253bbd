// Tilerouter - Adaptive Edge Routing for Map Tiles
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tilerouter

package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/tomtom215/tilerouter/internal/api"
	"github.com/tomtom215/tilerouter/internal/config"
	"github.com/tomtom215/tilerouter/internal/edge"
	"github.com/tomtom215/tilerouter/internal/logging"
	"github.com/tomtom215/tilerouter/internal/selector"
	"github.com/tomtom215/tilerouter/internal/supervisor"
	"github.com/tomtom215/tilerouter/internal/supervisor/services"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logging.Init(logging.Config{
		Level:     cfg.Logging.Level,
		Format:    cfg.Logging.Format,
		Caller:    cfg.Logging.Caller,
		Timestamp: true,
	})

	logging.Info().
		Str("selector_url", cfg.Selector.URL).
		Str("function", cfg.Selector.Function).
		Float64("latitude", cfg.Routing.Latitude).
		Float64("longitude", cfg.Routing.Longitude).
		Msg("Starting Tilerouter")

	sel, err := selector.NewClient(&cfg.Selector, nil)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to create selector client")
	}

	opts := edge.OptionsFromConfig(&cfg.Routing)
	opts.Logger = logging.NewRoutingLogger()
	// Per-attempt deadlines come from the request context; the transport
	// only needs connection reuse across edges.
	opts.HTTPClient = &http.Client{
		Transport: &http.Transport{
			Proxy:               http.ProxyFromEnvironment,
			MaxIdleConnsPerHost: 16,
			IdleConnTimeout:     90 * time.Second,
		},
	}
	client := edge.NewClient(sel, opts)

	handler := api.NewHandler(client, cfg.Server.OptimizePerMinute)
	router := api.NewRouter(handler, api.NewChiMiddleware(api.ChiMiddlewareConfigFromServer(&cfg.Server)))

	server := &http.Server{
		Addr:              cfg.Server.Addr(),
		Handler:           router.SetupChi(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       cfg.Server.Timeout,
		WriteTimeout:      cfg.Server.Timeout,
		IdleTimeout:       60 * time.Second,
	}

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger(), supervisor.DefaultTreeConfig())
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to create supervisor tree")
	}

	tree.AddRoutingService(services.NewRoutingService(client, cfg.Routing.Latitude, cfg.Routing.Longitude))
	tree.AddAPIService(services.NewHTTPServerService(server, cfg.Server.ShutdownTimeout))
	logging.Info().Str("addr", server.Addr).Msg("Services added to supervisor tree")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := tree.Serve(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logging.Error().Err(err).Msg("Supervisor tree error")
	}

	unstopped, _ := tree.UnstoppedServiceReport()
	for _, svc := range unstopped {
		logging.Warn().Str("service", svc.Name).Msg("Service failed to stop within timeout")
	}

	// Covers the case where the routing service never ran.
	client.Destroy()

	logging.Info().Msg("Tilerouter stopped")
	if len(unstopped) > 0 {
		os.Exit(1)
	}
}
