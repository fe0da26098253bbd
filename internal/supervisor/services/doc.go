// Tilerouter - Adaptive Edge Routing for Map Tiles
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tilerouter

/*
Package services provides suture.Service wrappers for Tilerouter components.

Each wrapper translates a component's lifecycle into suture's context-aware
Serve method and implements fmt.Stringer so suture can name it in logs.

# Available Services

RoutingService:
  - Initializes the edge client for the configured location on start
  - Destroys it (stops the health monitor) when the context ends
  - A failed topology lookup is not a service failure; the client serves
    the default config and GetTile retries the lookup lazily

HTTPServerService:
  - Runs the tile gateway's ListenAndServe
  - Calls Shutdown with a timeout when the context ends
  - A listen failure is returned so the supervisor restarts the server
*/
package services
