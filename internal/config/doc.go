// Tilerouter - Adaptive Edge Routing for Map Tiles
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tilerouter

// Package config loads Tilerouter configuration with Koanf v2.
//
// Configuration is layered (highest priority wins):
//
//  1. Built-in defaults (defaultConfig)
//  2. Optional YAML file: $CONFIG_PATH, ./config.yaml, /etc/tilerouter/config.yaml
//  3. Environment variables (see envTransformFunc for the full mapping)
//
// Example config.yaml:
//
//	selector:
//	  url: https://project.functions.example.com
//	  function: cdn-edge-router
//	routing:
//	  health_interval: 30s
//	  latitude: 37.7
//	  longitude: -122.4
//	server:
//	  port: 3857
//
// Example environment:
//
//	SELECTOR_URL=https://project.functions.example.com
//	ROUTING_HEALTH_INTERVAL=30s
//	HTTP_PORT=3857
//	LOG_LEVEL=debug
//
// Load validates the result; an invalid configuration is returned as an
// error naming the offending environment variable.
package config
