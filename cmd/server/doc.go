// Tilerouter - Adaptive Edge Routing for Map Tiles
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tilerouter

/*
Package main is the entry point for the Tilerouter tile gateway.

Tilerouter serves map tiles through a set of CDN edges. It asks an
edge-selection function for the edges nearest a configured location, then
fetches every tile from the current edge, failing over down an ordered
stack when an edge errors or times out. A background health monitor
re-ranks the stack from the selector's health report.

# Application Architecture

	RootSupervisor ("tilerouter")
	├── RoutingSupervisor ("routing-layer")
	│   └── Edge routing (topology lookup, health monitor)
	└── APISupervisor ("api-layer")
	    └── Tile gateway HTTP server

Startup order:

 1. Configuration: Koanf v2 (defaults, config.yaml, environment)
 2. Logging: zerolog with JSON/console output
 3. Selector client: HTTP + circuit breaker
 4. Edge client: failover stack and health monitor
 5. Supervisor tree: Suture v4
 6. HTTP server: Chi router with CORS, rate limiting and metrics

# Configuration

	SELECTOR_URL=https://project.functions.example.com
	ROUTING_LATITUDE=52.37
	ROUTING_LONGITUDE=4.89
	HTTP_PORT=3857
	LOG_LEVEL=debug

# Signal Handling

SIGINT and SIGTERM cancel the root context. The HTTP server drains
in-flight requests and the routing service stops the health monitor.
*/
package main
