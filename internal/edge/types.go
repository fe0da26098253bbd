// Tilerouter - Adaptive Edge Routing for Map Tiles
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tilerouter

package edge

import (
	"context"
	"time"
)

// Edge is one content edge as reported by the edge-selection service.
// Identity is BaseURL.
type Edge struct {
	Region    string   `json:"region"`
	BaseURL   string   `json:"url"`
	Distance  *float64 `json:"distance,omitempty"`
	Healthy   *bool    `json:"healthy,omitempty"`
	LatencyMs *float64 `json:"latency,omitempty"`
}

// distance returns the reported distance, treating a missing value as 0.
func (e Edge) distance() float64 {
	if e.Distance == nil {
		return 0
	}
	return *e.Distance
}

// healthy reports whether the edge is explicitly marked healthy.
func (e Edge) healthy() bool {
	return e.Healthy != nil && *e.Healthy
}

// RoutingConfig is the result of a topology lookup. It is replaced
// wholesale, never patched.
type RoutingConfig struct {
	Primary   string    `json:"primary" validate:"required,http_url"`
	Fallback  string    `json:"fallback" validate:"required,http_url"`
	AllEdges  []Edge    `json:"allEdges"`
	FetchedAt time.Time `json:"timestamp"`
}

// clone returns a deep copy so callers cannot mutate client state.
func (c RoutingConfig) clone() RoutingConfig {
	out := c
	if c.AllEdges != nil {
		out.AllEdges = make([]Edge, len(c.AllEdges))
		copy(out.AllEdges, c.AllEdges)
	}
	return out
}

// ReplicationResult is the per-region outcome of a replication request.
type ReplicationResult struct {
	Region  string `json:"region"`
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

// HealthReport is the edge health snapshot returned by the selection service.
type HealthReport struct {
	Edges []Edge `json:"edges"`
}

// Selector is the remote edge-selection service. Implementations must be
// safe for concurrent use.
type Selector interface {
	// Lookup returns the topology for a geographic location.
	Lookup(ctx context.Context, latitude, longitude float64) (RoutingConfig, error)

	// HealthCheck returns the current health of every known edge.
	HealthCheck(ctx context.Context) (HealthReport, error)

	// Replicate asks the service to push payload to the named regions.
	Replicate(ctx context.Context, payload any, regions []string) ([]ReplicationResult, error)
}
