// Tilerouter - Adaptive Edge Routing for Map Tiles
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tilerouter

/*
Package middleware provides HTTP middleware for the tile gateway.

Key Components:

  - RequestID: accepts or generates X-Request-ID and seeds the logging
    context with request and correlation IDs
  - PrometheusMetrics: request count, latency and in-flight gauge, labeled
    by chi route pattern so tile coordinates do not explode label cardinality

Both are plain func(http.Handler) http.Handler and can be passed to
chi's r.Use.
*/
package middleware
