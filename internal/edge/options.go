// Tilerouter - Adaptive Edge Routing for Map Tiles
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tilerouter

package edge

import (
	"net/http"
	"time"

	"github.com/benbjohnson/clock"

	"github.com/tomtom215/tilerouter/internal/config"
	"github.com/tomtom215/tilerouter/internal/logging"
)

// Default routing parameters.
const (
	DefaultTileTimeout    = 5 * time.Second
	DefaultProbeTimeout   = 3 * time.Second
	DefaultHealthInterval = 30 * time.Second
	DefaultProvider       = "osm"
	DefaultPrimaryEdge    = config.DefaultPrimaryEdge
	DefaultFallbackEdge   = config.DefaultFallbackEdge
)

// Options configures a Client. Zero values fall back to the defaults above.
type Options struct {
	TileTimeout     time.Duration
	ProbeTimeout    time.Duration
	HealthInterval  time.Duration
	DefaultPrimary  string
	DefaultFallback string
	DefaultProvider string

	// HTTPClient is used for tile fetches and latency probes. Per-request
	// timeouts come from TileTimeout and ProbeTimeout.
	HTTPClient *http.Client

	// Clock drives the health monitor and timestamps. Tests inject a mock.
	Clock clock.Clock

	Logger *logging.RoutingLogger
}

// OptionsFromConfig maps the routing config section onto Options.
func OptionsFromConfig(cfg *config.RoutingConfig) Options {
	return Options{
		TileTimeout:     cfg.TileTimeout,
		ProbeTimeout:    cfg.ProbeTimeout,
		HealthInterval:  cfg.HealthInterval,
		DefaultPrimary:  cfg.DefaultPrimary,
		DefaultFallback: cfg.DefaultFallback,
		DefaultProvider: cfg.DefaultProvider,
	}
}

func (o Options) withDefaults() Options {
	if o.TileTimeout <= 0 {
		o.TileTimeout = DefaultTileTimeout
	}
	if o.ProbeTimeout <= 0 {
		o.ProbeTimeout = DefaultProbeTimeout
	}
	if o.HealthInterval <= 0 {
		o.HealthInterval = DefaultHealthInterval
	}
	if o.DefaultPrimary == "" {
		o.DefaultPrimary = DefaultPrimaryEdge
	}
	if o.DefaultFallback == "" {
		o.DefaultFallback = DefaultFallbackEdge
	}
	if o.DefaultProvider == "" {
		o.DefaultProvider = DefaultProvider
	}
	if o.HTTPClient == nil {
		o.HTTPClient = &http.Client{}
	}
	if o.Clock == nil {
		o.Clock = clock.New()
	}
	if o.Logger == nil {
		o.Logger = logging.NewRoutingLogger()
	}
	return o
}
