// Tilerouter - Adaptive Edge Routing for Map Tiles
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tilerouter

package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// DefaultConfigPaths lists the locations searched for a config file, in order.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/tilerouter/config.yaml",
	"/etc/tilerouter/config.yml",
}

// ConfigPathEnvVar overrides DefaultConfigPaths when set.
const ConfigPathEnvVar = "CONFIG_PATH"

// Default edges returned to callers when the topology lookup fails.
const (
	DefaultPrimaryEdge  = "https://cdn-us-west.example.com"
	DefaultFallbackEdge = "https://cdn-us-east.example.com"
)

func defaultConfig() *Config {
	return &Config{
		Selector: SelectorConfig{
			URL:      "",
			Function: "cdn-edge-router",
			Timeout:  10 * time.Second,
			Breaker: BreakerConfig{
				MaxRequests:  3,
				Interval:     time.Minute,
				OpenTimeout:  30 * time.Second,
				MinRequests:  5,
				FailureRatio: 0.6,
			},
		},
		Routing: RoutingConfig{
			TileTimeout:     5 * time.Second,
			ProbeTimeout:    3 * time.Second,
			HealthInterval:  30 * time.Second,
			DefaultPrimary:  DefaultPrimaryEdge,
			DefaultFallback: DefaultFallbackEdge,
			DefaultProvider: "osm",
			Latitude:        0.0,
			Longitude:       0.0,
		},
		Server: ServerConfig{
			Port:              3857,
			Host:              "0.0.0.0",
			Timeout:           30 * time.Second,
			ShutdownTimeout:   10 * time.Second,
			RateLimitReqs:     600,
			RateLimitWindow:   time.Minute,
			RateLimitDisabled: false,
			CORSOrigins:       []string{},
			OptimizePerMinute: 6,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Caller: false,
		},
	}
}

// LoadWithKoanf loads configuration using the three koanf layers and validates it.
func LoadWithKoanf() (*Config, error) {
	k := koanf.New(".")

	// Layer 1: defaults
	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	// Layer 2: config file (optional)
	if configPath := findConfigFile(); configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	}

	// Layer 3: environment variables (highest priority)
	if err := k.Load(env.Provider("", ".", envTransformFunc), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := processSliceFields(k); err != nil {
		return nil, fmt.Errorf("failed to process slice fields: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// findConfigFile returns the first existing config file, or "".
func findConfigFile() string {
	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
	}
	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// sliceConfigPaths are parsed from comma-separated env values.
var sliceConfigPaths = []string{
	"server.cors_origins",
}

// processSliceFields converts comma-separated string values to slices.
// Env vars always arrive as strings while YAML lists arrive as slices.
func processSliceFields(k *koanf.Koanf) error {
	for _, path := range sliceConfigPaths {
		strVal, ok := k.Get(path).(string)
		if !ok || strVal == "" {
			continue
		}
		parts := strings.Split(strVal, ",")
		trimmed := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				trimmed = append(trimmed, p)
			}
		}
		if len(trimmed) == 0 {
			continue
		}
		if err := k.Set(path, trimmed); err != nil {
			return fmt.Errorf("failed to set %s: %w", path, err)
		}
	}
	return nil
}

// envMappings maps environment variable names (lower-cased) to koanf paths.
// Unmapped variables are ignored so unrelated environment does not leak in.
var envMappings = map[string]string{
	// Selector
	"selector_url":                   "selector.url",
	"selector_function":              "selector.function",
	"selector_timeout":               "selector.timeout",
	"selector_breaker_max_requests":  "selector.breaker.max_requests",
	"selector_breaker_interval":      "selector.breaker.interval",
	"selector_breaker_open_timeout":  "selector.breaker.open_timeout",
	"selector_breaker_min_requests":  "selector.breaker.min_requests",
	"selector_breaker_failure_ratio": "selector.breaker.failure_ratio",

	// Routing
	"routing_tile_timeout":     "routing.tile_timeout",
	"routing_probe_timeout":    "routing.probe_timeout",
	"routing_health_interval":  "routing.health_interval",
	"routing_default_primary":  "routing.default_primary",
	"routing_default_fallback": "routing.default_fallback",
	"routing_default_provider": "routing.default_provider",
	"routing_latitude":         "routing.latitude",
	"routing_longitude":        "routing.longitude",

	// Server
	"http_port":             "server.port",
	"http_host":             "server.host",
	"http_timeout":          "server.timeout",
	"http_shutdown_timeout": "server.shutdown_timeout",
	"rate_limit_requests":   "server.rate_limit_reqs",
	"rate_limit_window":     "server.rate_limit_window",
	"disable_rate_limit":    "server.rate_limit_disabled",
	"cors_origins":          "server.cors_origins",
	"optimize_rate_limit":   "server.optimize_per_minute",

	// Logging
	"log_level":  "logging.level",
	"log_format": "logging.format",
	"log_caller": "logging.caller",
}

// envTransformFunc transforms environment variable names to koanf config paths.
//
// Examples:
//   - SELECTOR_URL -> selector.url
//   - ROUTING_HEALTH_INTERVAL -> routing.health_interval
//   - HTTP_PORT -> server.port
func envTransformFunc(key string) string {
	if mapped, ok := envMappings[strings.ToLower(key)]; ok {
		return mapped
	}
	return ""
}
