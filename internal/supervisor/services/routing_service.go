// Tilerouter - Adaptive Edge Routing for Map Tiles
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tilerouter

package services

import (
	"context"

	"github.com/tomtom215/tilerouter/internal/edge"
	"github.com/tomtom215/tilerouter/internal/logging"
)

// RoutingClient is the part of *edge.Client the routing service drives.
type RoutingClient interface {
	Initialize(ctx context.Context, latitude, longitude float64) edge.RoutingConfig
	RoutingConfig() (edge.RoutingConfig, bool)
	Destroy()
}

// RoutingService owns an edge client's lifetime under the supervisor.
type RoutingService struct {
	client    RoutingClient
	latitude  float64
	longitude float64
	name      string
}

// NewRoutingService creates a routing service that initializes client at
// the given location.
func NewRoutingService(client RoutingClient, latitude, longitude float64) *RoutingService {
	return &RoutingService{
		client:    client,
		latitude:  latitude,
		longitude: longitude,
		name:      "edge-routing",
	}
}

// Serve implements suture.Service. It initializes the client, blocks until
// ctx is canceled and then destroys the client.
func (s *RoutingService) Serve(ctx context.Context) error {
	logger := logging.WithComponent("supervisor")

	cfg := s.client.Initialize(ctx, s.latitude, s.longitude)
	if _, installed := s.client.RoutingConfig(); installed {
		logger.Info().
			Str("service", s.name).
			Str("primary", cfg.Primary).
			Str("fallback", cfg.Fallback).
			Msg("edge routing ready")
	} else {
		logger.Warn().
			Str("service", s.name).
			Msg("edge topology unavailable, tile requests will retry the lookup")
	}

	<-ctx.Done()

	s.client.Destroy()
	return ctx.Err()
}

// String implements fmt.Stringer.
func (s *RoutingService) String() string {
	return s.name
}
