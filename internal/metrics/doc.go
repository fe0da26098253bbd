// Tilerouter - Adaptive Edge Routing for Map Tiles
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tilerouter

/*
Package metrics provides Prometheus metrics for Tilerouter.

# Overview

The package provides metrics for:
  - Tile attempts per edge and their outcome
  - Failovers (an edge other than the stack head served the tile)
  - Exhausted tile requests (every edge failed)
  - Health monitor ticks and latency probes
  - Failover stack size
  - Selector circuit breaker state transitions
  - Tile gateway HTTP request latency and throughput

# Metrics Endpoint

Metrics are exposed at /metrics in Prometheus text format:

	curl http://localhost:3857/metrics

# Available Metrics

Edge Routing:
  - tile_edge_attempts_total{edge,outcome}: outcome is success, http_error, transport_error, read_error
  - tile_failovers_total{edge}
  - tile_fetch_exhausted_total
  - tile_fetch_duration_seconds{result}
  - edge_health_ticks_total{outcome}: outcome is applied, no_healthy, error
  - edge_latency_probe_seconds{edge}
  - edge_latency_probe_failures_total{edge}
  - edge_route_optimizations_total{outcome}: outcome is applied, no_reachable, no_catalog
  - edge_failover_stack_size

Circuit Breaker:
  - circuit_breaker_state{name}: 0=closed, 1=half-open, 2=open
  - circuit_breaker_requests_total{name,result}
  - circuit_breaker_consecutive_failures{name}
  - circuit_breaker_state_transitions_total{name,from_state,to_state}

HTTP:
  - api_requests_total{method,endpoint,status}
  - api_request_duration_seconds{method,endpoint}
  - api_active_requests

All collectors are registered on the default registry via promauto.
*/
package metrics
