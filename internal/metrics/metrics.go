// Tilerouter - Adaptive Edge Routing for Map Tiles
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tilerouter

package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Outcome labels for tile attempts.
const (
	OutcomeSuccess        = "success"
	OutcomeHTTPError      = "http_error"
	OutcomeTransportError = "transport_error"
	OutcomeReadError      = "read_error"
)

var (
	// Edge Routing Metrics
	TileEdgeAttempts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tile_edge_attempts_total",
			Help: "Total number of tile fetch attempts per edge",
		},
		[]string{"edge", "outcome"},
	)

	TileFailovers = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tile_failovers_total",
			Help: "Total number of times a non-head edge served a tile and was promoted",
		},
		[]string{"edge"},
	)

	TileFetchExhausted = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "tile_fetch_exhausted_total",
			Help: "Total number of tile requests for which every edge failed",
		},
	)

	TileFetchDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "tile_fetch_duration_seconds",
			Help:    "Duration of a tile request across all attempted edges",
			Buckets: []float64{.01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10, 20},
		},
		[]string{"result"},
	)

	HealthTicks = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "edge_health_ticks_total",
			Help: "Total number of health monitor ticks by outcome",
		},
		[]string{"outcome"},
	)

	LatencyProbeDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "edge_latency_probe_seconds",
			Help:    "Round-trip time of successful edge latency probes",
			Buckets: []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2, 3},
		},
		[]string{"edge"},
	)

	LatencyProbeFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "edge_latency_probe_failures_total",
			Help: "Total number of latency probes that failed or timed out",
		},
		[]string{"edge"},
	)

	RouteOptimizations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "edge_route_optimizations_total",
			Help: "Total number of on-demand route optimizations by outcome",
		},
		[]string{"outcome"},
	)

	FailoverStackSize = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "edge_failover_stack_size",
			Help: "Current number of edges in the failover stack",
		},
	)

	// Circuit Breaker Metrics
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	CircuitBreakerRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_requests_total",
			Help: "Total number of requests through circuit breaker",
		},
		[]string{"name", "result"}, // result: "success", "failure", "rejected"
	)

	CircuitBreakerConsecutiveFailures = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_consecutive_failures",
			Help: "Current number of consecutive failures",
		},
		[]string{"name"},
	)

	CircuitBreakerTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_state_transitions_total",
			Help: "Total number of circuit breaker state transitions",
		},
		[]string{"name", "from_state", "to_state"},
	)

	// API Metrics
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_requests_total",
			Help: "Total number of tile gateway requests",
		},
		[]string{"method", "endpoint", "status"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "api_request_duration_seconds",
			Help:    "Duration of tile gateway requests in seconds",
			Buckets: []float64{.001, .005, .01, .05, .1, .5, 1, 5, 10},
		},
		[]string{"method", "endpoint"},
	)

	APIActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "api_active_requests",
			Help: "Number of tile gateway requests currently being served",
		},
	)
)

// RecordTileAttempt records the outcome of one tile attempt against an edge.
func RecordTileAttempt(edge, outcome string) {
	TileEdgeAttempts.WithLabelValues(edge, outcome).Inc()
}

// RecordTileFetch records a finished tile request. failedOver is true when an
// edge other than the stack head served the tile.
func RecordTileFetch(edge string, duration time.Duration, err error, failedOver bool) {
	if err != nil {
		TileFetchExhausted.Inc()
		TileFetchDuration.WithLabelValues("exhausted").Observe(duration.Seconds())
		return
	}
	if failedOver {
		TileFailovers.WithLabelValues(edge).Inc()
	}
	TileFetchDuration.WithLabelValues("success").Observe(duration.Seconds())
}

// RecordHealthTick records one health monitor tick.
func RecordHealthTick(outcome string) {
	HealthTicks.WithLabelValues(outcome).Inc()
}

// RecordLatencyProbe records one latency probe; reachable=false counts a failure.
func RecordLatencyProbe(edge string, elapsed time.Duration, reachable bool) {
	if !reachable {
		LatencyProbeFailures.WithLabelValues(edge).Inc()
		return
	}
	LatencyProbeDuration.WithLabelValues(edge).Observe(elapsed.Seconds())
}

// RecordRouteOptimization records the outcome of an on-demand optimization.
func RecordRouteOptimization(outcome string) {
	RouteOptimizations.WithLabelValues(outcome).Inc()
}

// SetFailoverStackSize updates the failover stack size gauge.
func SetFailoverStackSize(n int) {
	FailoverStackSize.Set(float64(n))
}

// RecordAPIRequest records a tile gateway request.
func RecordAPIRequest(method, endpoint string, status int, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, endpoint, strconv.Itoa(status)).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// TrackActiveRequest increments or decrements the in-flight request gauge.
func TrackActiveRequest(inc bool) {
	if inc {
		APIActiveRequests.Inc()
	} else {
		APIActiveRequests.Dec()
	}
}
