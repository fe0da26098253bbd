// Tilerouter - Adaptive Edge Routing for Map Tiles
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tilerouter

package config

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
)

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

// structValidator returns the shared validator instance (caches struct info).
func structValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
	})
	return validate
}

// Validate checks that required configuration is present and valid.
func (c *Config) Validate() error {
	if err := c.validateTags(); err != nil {
		return err
	}
	if err := c.validateSelector(); err != nil {
		return err
	}
	if err := c.validateRouting(); err != nil {
		return err
	}
	if err := c.validateServer(); err != nil {
		return err
	}
	return c.validateLogging()
}

// validateTags runs the struct tag rules (ranges, required fields).
func (c *Config) validateTags() error {
	err := structValidator().Struct(c)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	fe := fieldErrs[0]
	if fe.Param() != "" {
		return fmt.Errorf("%s failed %s=%s (got %v)", fe.Namespace(), fe.Tag(), fe.Param(), fe.Value())
	}
	return fmt.Errorf("%s failed %s", fe.Namespace(), fe.Tag())
}

// validateSelector validates the edge-selection service settings.
func (c *Config) validateSelector() error {
	if c.Selector.URL == "" {
		return fmt.Errorf("SELECTOR_URL is required")
	}
	if err := validateHTTPURL(c.Selector.URL, "SELECTOR_URL"); err != nil {
		return fmt.Errorf("SELECTOR_URL is invalid: %w", err)
	}
	if strings.Contains(c.Selector.Function, "/") {
		return fmt.Errorf("SELECTOR_FUNCTION must be a bare function name, got %q", c.Selector.Function)
	}
	if err := requirePositive(c.Selector.Timeout, "SELECTOR_TIMEOUT"); err != nil {
		return err
	}
	if err := requirePositive(c.Selector.Breaker.Interval, "SELECTOR_BREAKER_INTERVAL"); err != nil {
		return err
	}
	return requirePositive(c.Selector.Breaker.OpenTimeout, "SELECTOR_BREAKER_OPEN_TIMEOUT")
}

// validateRouting validates timeouts and the default edges.
func (c *Config) validateRouting() error {
	if err := requirePositive(c.Routing.TileTimeout, "ROUTING_TILE_TIMEOUT"); err != nil {
		return err
	}
	if err := requirePositive(c.Routing.ProbeTimeout, "ROUTING_PROBE_TIMEOUT"); err != nil {
		return err
	}
	if err := requirePositive(c.Routing.HealthInterval, "ROUTING_HEALTH_INTERVAL"); err != nil {
		return err
	}
	if c.Routing.ProbeTimeout >= c.Routing.HealthInterval {
		return fmt.Errorf("ROUTING_PROBE_TIMEOUT (%v) must be shorter than ROUTING_HEALTH_INTERVAL (%v)",
			c.Routing.ProbeTimeout, c.Routing.HealthInterval)
	}
	if err := validateHTTPURL(c.Routing.DefaultPrimary, "ROUTING_DEFAULT_PRIMARY"); err != nil {
		return err
	}
	return validateHTTPURL(c.Routing.DefaultFallback, "ROUTING_DEFAULT_FALLBACK")
}

// validateServer validates the gateway listener settings.
func (c *Config) validateServer() error {
	if err := requirePositive(c.Server.Timeout, "HTTP_TIMEOUT"); err != nil {
		return err
	}
	if err := requirePositive(c.Server.ShutdownTimeout, "HTTP_SHUTDOWN_TIMEOUT"); err != nil {
		return err
	}
	if !c.Server.RateLimitDisabled {
		if c.Server.RateLimitReqs <= 0 {
			return fmt.Errorf("RATE_LIMIT_REQUESTS must be positive when rate limiting is enabled")
		}
		return requirePositive(c.Server.RateLimitWindow, "RATE_LIMIT_WINDOW")
	}
	return nil
}

// validateLogging validates the log level and format.
func (c *Config) validateLogging() error {
	validLevels := map[string]bool{
		"trace": true, "debug": true, "info": true, "warn": true, "error": true,
	}
	if !validLevels[strings.ToLower(c.Logging.Level)] {
		return fmt.Errorf("LOG_LEVEL must be one of trace, debug, info, warn, error, got: %s", c.Logging.Level)
	}
	format := strings.ToLower(c.Logging.Format)
	if format != "json" && format != "console" {
		return fmt.Errorf("LOG_FORMAT must be json or console, got: %s", c.Logging.Format)
	}
	return nil
}

func requirePositive(d time.Duration, fieldName string) error {
	if d <= 0 {
		return fmt.Errorf("%s must be positive, got %v", fieldName, d)
	}
	return nil
}
