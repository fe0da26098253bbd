// Tilerouter - Adaptive Edge Routing for Map Tiles
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tilerouter

// Package main provides the Tilerouter tile gateway.
//
// @title Tilerouter API
// @version 1.0
// @description Adaptive edge routing for map tiles. Tiles are fetched from the
// @description current CDN edge and fail over down an ordered edge stack.
// @description
// @description ## Error Responses
// @description
// @description All error responses, including tile errors, follow this format:
// @description ```json
// @description {
// @description   "status": "error",
// @description   "data": null,
// @description   "error": {"code": "EDGES_EXHAUSTED", "message": "No edge could serve the tile"},
// @description   "metadata": {"timestamp": "2026-10-15T12:34:56Z", "request_id": "..."}
// @description }
// @description ```
//
// @license.name AGPL-3.0-or-later
// @license.url https://www.gnu.org/licenses/agpl-3.0.html
//
// @host localhost:3857
// @BasePath /
// @schemes http https
//
// @tag.name Tiles
// @tag.description Tile delivery through the edge failover stack
//
// @tag.name Routing
// @tag.description Routing state, latency optimization and edge health
//
// @tag.name Replication
// @tag.description Tile replication requests forwarded to the edge selector
//
// @tag.name Core
// @tag.description Liveness
package main
