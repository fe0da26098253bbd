// Tilerouter - Adaptive Edge Routing for Map Tiles
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tilerouter

package config

import "time"

// Config holds all Tilerouter configuration.
//
// Configuration Categories:
//   - Selector: the remote edge-selection service (topology, health, replication)
//   - Routing: failover timeouts, health monitor cadence, default edges
//   - Server: the tile gateway HTTP listener
//   - Logging: zerolog output settings
type Config struct {
	Selector SelectorConfig `koanf:"selector"`
	Routing  RoutingConfig  `koanf:"routing"`
	Server   ServerConfig   `koanf:"server"`
	Logging  LoggingConfig  `koanf:"logging"`
}

// SelectorConfig holds edge-selection service settings.
type SelectorConfig struct {
	// URL is the base URL of the function host, e.g. https://project.functions.example.com
	URL string `koanf:"url"`

	// Function is the function name invoked for all three RPC modes.
	Function string `koanf:"function" validate:"required"`

	// Timeout bounds each selector call. Health checks additionally use
	// Routing.ProbeTimeout.
	Timeout time.Duration `koanf:"timeout"`

	// Breaker configures the circuit breaker around selector calls.
	Breaker BreakerConfig `koanf:"breaker"`
}

// BreakerConfig holds circuit breaker settings for the selector client.
type BreakerConfig struct {
	MaxRequests  uint32        `koanf:"max_requests" validate:"min=1"`
	Interval     time.Duration `koanf:"interval"`
	OpenTimeout  time.Duration `koanf:"open_timeout"`
	MinRequests  uint32        `koanf:"min_requests" validate:"min=1"`
	FailureRatio float64       `koanf:"failure_ratio" validate:"gt=0,lte=1"`
}

// RoutingConfig holds edge routing settings.
type RoutingConfig struct {
	TileTimeout     time.Duration `koanf:"tile_timeout"`     // Per-edge tile attempt timeout
	ProbeTimeout    time.Duration `koanf:"probe_timeout"`    // Latency and health probe timeout
	HealthInterval  time.Duration `koanf:"health_interval"`  // Health monitor period
	DefaultPrimary  string        `koanf:"default_primary"`  // Returned when the topology lookup fails
	DefaultFallback string        `koanf:"default_fallback"` // Returned when the topology lookup fails
	DefaultProvider string        `koanf:"default_provider" validate:"required"`
	Latitude        float64       `koanf:"latitude" validate:"min=-90,max=90"`
	Longitude       float64       `koanf:"longitude" validate:"min=-180,max=180"`
}

// ServerConfig holds tile gateway HTTP settings.
type ServerConfig struct {
	Port              int           `koanf:"port" validate:"min=1,max=65535"`
	Host              string        `koanf:"host"`
	Timeout           time.Duration `koanf:"timeout"`
	ShutdownTimeout   time.Duration `koanf:"shutdown_timeout"`
	RateLimitReqs     int           `koanf:"rate_limit_reqs" validate:"min=0"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window"`
	RateLimitDisabled bool          `koanf:"rate_limit_disabled"`
	CORSOrigins       []string      `koanf:"cors_origins"`
	OptimizePerMinute int           `koanf:"optimize_per_minute" validate:"min=1"` // Budget for on-demand latency optimization
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: trace, debug, info, warn, error.
	Level string `koanf:"level"`

	// Format is the output format: json or console.
	Format string `koanf:"format"`

	// Caller includes caller file:line in log output.
	Caller bool `koanf:"caller"`
}

// Load reads configuration from defaults, the optional config file and the
// environment.
func Load() (*Config, error) {
	return LoadWithKoanf()
}

// Addr returns the host:port listen address.
func (s ServerConfig) Addr() string {
	return joinHostPort(s.Host, s.Port)
}
