// Tilerouter - Adaptive Edge Routing for Map Tiles
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tilerouter

// Package logging provides centralized zerolog-based structured logging for Tilerouter.
//
// # Overview
//
// The package provides:
//   - Zero-allocation structured logging via zerolog
//   - JSON output format for production, console output for development
//   - Context-aware logging with correlation ID propagation
//   - A routing logger with domain-specific methods for edge failover events
//   - slog adapter for Suture v4 integration
//
// # Quick Start
//
//	logging.Init(logging.Config{
//	    Level:  "info",
//	    Format: "json",
//	})
//
//	logging.Info().Str("edge", edgeURL).Msg("Edge promoted")
//	logging.Ctx(ctx).Warn().Err(err).Msg("Tile attempt failed")
//
// # Configuration
//
// Environment Variables (read by internal/config):
//
//	LOG_LEVEL   - Minimum log level: trace, debug, info, warn, error (default: info)
//	LOG_FORMAT  - Output format: json, console (default: json)
//	LOG_CALLER  - Include caller file:line: true, false (default: false)
//
// # Component Loggers
//
//	edgeLogger := logging.WithComponent("edge")
//	edgeLogger.Info().Msg("Routing initialized")
//
// # Testing
//
//	var buf bytes.Buffer
//	logger := logging.NewTestLogger(&buf)
//	rl := logging.NewRoutingLoggerWithLogger(logger)
//
// # Thread Safety
//
// All exported functions are safe for concurrent use. The global logger
// is protected by sync.RWMutex for configuration changes.
package logging
