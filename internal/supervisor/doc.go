// Tilerouter - Adaptive Edge Routing for Map Tiles
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tilerouter

/*
Package supervisor provides process supervision for Tilerouter using suture v4.

# Overview

	RootSupervisor ("tilerouter")
	├── RoutingSupervisor ("routing-layer")
	│   └── RoutingService (edge client: topology lookup, health monitor)
	└── APISupervisor ("api-layer")
	    └── HTTPServerService (tile gateway)

A crash in one layer restarts only that layer. Restarts back off according
to TreeConfig (failure threshold, decay and backoff).

# Logging

Supervisor events (service panics, terminations, backoff) are routed through
sutureslog to a *slog.Logger. In production that logger is
logging.NewSlogLogger(), which writes through zerolog.

# Usage

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger(), supervisor.DefaultTreeConfig())
	if err != nil {
		return err
	}
	tree.AddRoutingService(services.NewRoutingService(client, lat, lon))
	tree.AddAPIService(services.NewHTTPServerService(server, cfg.Server.ShutdownTimeout))

	return tree.Serve(ctx)

See the services subpackage for the service wrappers.
*/
package supervisor
