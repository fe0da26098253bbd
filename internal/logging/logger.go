// Tilerouter - Adaptive Edge Routing for Map Tiles
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tilerouter

package logging

import (
	"io"
	"os"
	"strings"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
)

// ServiceName is attached to every line written by the global logger.
const ServiceName = "tilerouter"

// Config holds logging configuration.
type Config struct {
	Level     string    // trace, debug, info, warn, error, fatal, panic or disabled
	Format    string    // json or console
	Caller    bool      // add file:line
	Timestamp bool      // add a "time" field
	Output    io.Writer // nil means os.Stderr
}

// DefaultConfig returns JSON at info level with timestamps on stderr.
func DefaultConfig() Config {
	return Config{
		Level:     "info",
		Format:    "json",
		Timestamp: true,
		Output:    os.Stderr,
	}
}

// global is swapped whole by Init; readers never see a half-built logger.
var global atomic.Pointer[zerolog.Logger]

//nolint:gochecknoinits // package-level helpers must work before Init
func init() {
	Init(DefaultConfig())
}

// Init replaces the global logger. Later calls reconfigure it.
func Init(cfg Config) {
	zerolog.TimeFieldFormat = time.RFC3339
	zerolog.SetGlobalLevel(parseLevel(cfg.Level))

	logger := build(cfg)
	global.Store(&logger)
}

func build(cfg Config) zerolog.Logger {
	out := cfg.Output
	if out == nil {
		out = os.Stderr
	}
	if strings.EqualFold(cfg.Format, "console") {
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: "15:04:05"}
	}

	lc := zerolog.New(out).With().Str("service", ServiceName)
	if cfg.Timestamp {
		lc = lc.Timestamp()
	}
	if cfg.Caller {
		lc = lc.Caller()
	}
	return lc.Logger()
}

// parseLevel accepts zerolog level names plus "warning". Anything it cannot
// read falls back to info.
func parseLevel(level string) zerolog.Level {
	level = strings.ToLower(strings.TrimSpace(level))
	if level == "warning" {
		level = "warn"
	}
	parsed, err := zerolog.ParseLevel(level)
	if err != nil || parsed == zerolog.NoLevel {
		return zerolog.InfoLevel
	}
	return parsed
}

// Logger returns a copy of the global logger.
func Logger() zerolog.Logger {
	return *global.Load()
}

// With starts a child logger context from the global logger.
func With() zerolog.Context {
	return global.Load().With()
}

func Info() *zerolog.Event  { return global.Load().Info() }
func Warn() *zerolog.Event  { return global.Load().Warn() }
func Error() *zerolog.Event { return global.Load().Error() }

// Fatal logs and then calls os.Exit(1).
func Fatal() *zerolog.Event { return global.Load().Fatal() }

// NewTestLogger returns an unleveled logger writing to w, for tests and for
// components that take an injected logger.
func NewTestLogger(w io.Writer) zerolog.Logger {
	return zerolog.New(w).With().Timestamp().Logger()
}
