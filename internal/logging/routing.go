// Tilerouter - Adaptive Edge Routing for Map Tiles
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tilerouter

package logging

import (
	"context"
	"time"

	"github.com/rs/zerolog"
)

// RoutingLogger provides specialized logging for edge routing decisions.
// Each method emits one event with a stable message so log queries can
// follow a tile request across failover attempts.
type RoutingLogger struct {
	logger zerolog.Logger
}

// NewRoutingLogger creates a routing logger on top of the global logger.
func NewRoutingLogger() *RoutingLogger {
	return &RoutingLogger{logger: WithComponent("edge")}
}

// NewRoutingLoggerWithLogger creates a routing logger with a custom logger.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func NewRoutingLoggerWithLogger(logger zerolog.Logger) *RoutingLogger {
	return &RoutingLogger{logger: logger.With().Str("component", "edge").Logger()}
}

func (r *RoutingLogger) ctx(ctx context.Context) zerolog.Logger {
	return withContextFields(r.logger, ctx)
}

// LogInitialized logs a successful topology lookup.
func (r *RoutingLogger) LogInitialized(ctx context.Context, primary, fallback string, edges int) {
	l := r.ctx(ctx)
	l.Info().
		Str("primary", primary).
		Str("fallback", fallback).
		Int("known_edges", edges).
		Msg("edge routing initialized")
}

// LogInitFailed logs a failed topology lookup that fell back to defaults.
func (r *RoutingLogger) LogInitFailed(ctx context.Context, err error) {
	l := r.ctx(ctx)
	l.Error().Err(err).Msg("edge routing initialization failed, using default edges")
}

// LogAttemptFailed logs one failed tile attempt against an edge.
// status is 0 when no HTTP response was received.
func (r *RoutingLogger) LogAttemptFailed(ctx context.Context, edge string, attempt, total, status int, err error) {
	l := r.ctx(ctx)
	event := l.Warn().
		Str("edge", edge).
		Int("attempt", attempt).
		Int("total", total)
	if status != 0 {
		event = event.Int("status", status)
	}
	if err != nil {
		event = event.Err(err)
	}
	event.Msg("edge failed")
}

// LogFailover logs promotion of an edge after earlier edges failed.
func (r *RoutingLogger) LogFailover(ctx context.Context, edge string, attempt int) {
	l := r.ctx(ctx)
	l.Info().Str("edge", edge).Int("attempt", attempt).Msg("failed over to edge")
}

// LogExhausted logs a tile request for which every edge failed.
func (r *RoutingLogger) LogExhausted(ctx context.Context, edges []string) {
	l := r.ctx(ctx)
	l.Error().Strs("edges", edges).Msg("all edges failed")
}

// LogStackReplaced logs a wholesale failover stack replacement.
func (r *RoutingLogger) LogStackReplaced(ctx context.Context, reason string, stack []string, current string) {
	l := r.ctx(ctx)
	l.Info().
		Str("reason", reason).
		Strs("stack", stack).
		Str("current_edge", current).
		Msg("failover stack replaced")
}

// LogProbeSkipped logs a probe result that left routing state untouched.
func (r *RoutingLogger) LogProbeSkipped(ctx context.Context, probe, reason string, err error) {
	l := r.ctx(ctx)
	event := l.Warn().Str("probe", probe).Str("reason", reason)
	if err != nil {
		event = event.Err(err)
	}
	event.Msg("probe inconclusive, routing unchanged")
}

// LogLatency logs one latency measurement at debug level.
func (r *RoutingLogger) LogLatency(ctx context.Context, edge string, elapsed time.Duration, reachable bool) {
	l := r.ctx(ctx)
	l.Debug().
		Str("edge", edge).
		Dur("elapsed", elapsed).
		Bool("reachable", reachable).
		Msg("latency probe")
}

// LogMonitor logs a health monitor lifecycle transition.
func (r *RoutingLogger) LogMonitor(state string, interval time.Duration) {
	r.logger.Info().Str("state", state).Dur("interval", interval).Msg("health monitor")
}
