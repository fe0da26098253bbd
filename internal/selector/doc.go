// Tilerouter - Adaptive Edge Routing for Map Tiles
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tilerouter

/*
Package selector is the HTTP client for the remote edge-selection service.

The service exposes a single function endpoint that serves three modes:

	POST {url}/functions/v1/{function}

	topology lookup: {"latitude","longitude"}      -> {"primary","fallback","allEdges","timestamp"}
	health check:    {} + header X-Path: /health-check -> {"edges":[...]}
	replication:     {"tileData","regions"}          -> {"results":[...]}

Every call runs through one circuit breaker (sony/gobreaker) named
"edge-selector". An open breaker rejects calls immediately with
gobreaker.ErrOpenState; callers in the edge package treat that like any
other lookup failure.

Errors:
  - *StatusError: the service answered with a non-2xx status
  - ErrMalformedResponse: the body could not be decoded or failed validation

Client implements edge.Selector.
*/
package selector
