// Tilerouter - Adaptive Edge Routing for Map Tiles
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tilerouter

// Package api is the tile gateway: a chi router that serves map tiles
// through one adaptive edge client and exposes its routing state.
//
// Routes:
//
//	GET  /tiles/{provider}/{z}/{x}/{y}.png  tile bytes, failing over across edges
//	GET  /api/v1/routing                    current edge, failover stack, topology
//	POST /api/v1/routing/optimize           re-rank edges by measured latency
//	GET  /api/v1/edges/health               selector health report
//	POST /api/v1/replicate                  forward a replication request
//	GET  /api/v1/health/live                liveness
//	GET  /metrics                           Prometheus exposition
//
// JSON endpoints answer with an APIResponse envelope. Tile errors are JSON
// too; only successful tile responses are image/png.
package api
