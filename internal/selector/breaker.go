// Tilerouter - Adaptive Edge Routing for Map Tiles
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tilerouter

package selector

import (
	"context"
	"errors"

	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/tomtom215/tilerouter/internal/config"
	"github.com/tomtom215/tilerouter/internal/logging"
	"github.com/tomtom215/tilerouter/internal/metrics"
)

// BreakerName labels the selector circuit breaker in logs and metrics.
const BreakerName = "edge-selector"

// Breaker wraps a gobreaker circuit breaker and mirrors its state into
// Prometheus.
//
// The breaker uses real time for its interval and open timeout. Tests that
// need to observe the open state trip it with consecutive failures instead
// of waiting.
type Breaker struct {
	cb   *gobreaker.CircuitBreaker[struct{}]
	name string
}

// NewBreaker creates a breaker from config. It trips once at least
// MinRequests calls were seen in the current interval and the failure
// ratio reaches FailureRatio.
func NewBreaker(name string, cfg config.BreakerConfig) *Breaker {
	metrics.CircuitBreakerState.WithLabelValues(name).Set(0)
	metrics.CircuitBreakerConsecutiveFailures.WithLabelValues(name).Set(0)

	logger := logging.WithComponent("selector")

	cb := gobreaker.NewCircuitBreaker[struct{}](gobreaker.Settings{
		Name:        name,
		MaxRequests: cfg.MaxRequests,
		Interval:    cfg.Interval,
		Timeout:     cfg.OpenTimeout,

		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < cfg.MinRequests {
				return false
			}
			ratio := float64(counts.TotalFailures) / float64(counts.Requests)
			if ratio >= cfg.FailureRatio {
				logger.Warn().
					Str("breaker", name).
					Uint32("failures", counts.TotalFailures).
					Float64("failure_rate", ratio*100).
					Msg("opening circuit")
				return true
			}
			return false
		},

		// A caller giving up is not a service failure.
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, context.Canceled)
		},

		OnStateChange: func(name string, from, to gobreaker.State) {
			fromStr := stateToString(from)
			toStr := stateToString(to)

			logger.Info().Str("breaker", name).Str("from", fromStr).Str("to", toStr).Msg("circuit state transition")

			metrics.CircuitBreakerState.WithLabelValues(name).Set(stateToFloat(to))
			metrics.CircuitBreakerTransitions.WithLabelValues(name, fromStr, toStr).Inc()
			if to == gobreaker.StateClosed {
				metrics.CircuitBreakerConsecutiveFailures.WithLabelValues(name).Set(0)
			}
		},
	})

	return &Breaker{cb: cb, name: name}
}

// Execute runs fn under the breaker.
func (b *Breaker) Execute(fn func() error) error {
	_, err := b.cb.Execute(func() (struct{}, error) {
		return struct{}{}, fn()
	})

	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			metrics.CircuitBreakerRequests.WithLabelValues(b.name, "rejected").Inc()
			return err
		}
		metrics.CircuitBreakerRequests.WithLabelValues(b.name, "failure").Inc()
		metrics.CircuitBreakerConsecutiveFailures.WithLabelValues(b.name).Set(float64(b.cb.Counts().ConsecutiveFailures))
		return err
	}

	metrics.CircuitBreakerRequests.WithLabelValues(b.name, "success").Inc()
	metrics.CircuitBreakerConsecutiveFailures.WithLabelValues(b.name).Set(0)
	return nil
}

// State returns the current breaker state.
func (b *Breaker) State() gobreaker.State {
	return b.cb.State()
}

// Name returns the breaker name.
func (b *Breaker) Name() string {
	return b.name
}

func stateToString(state gobreaker.State) string {
	switch state {
	case gobreaker.StateClosed:
		return "closed"
	case gobreaker.StateHalfOpen:
		return "half-open"
	case gobreaker.StateOpen:
		return "open"
	default:
		return "unknown"
	}
}

func stateToFloat(state gobreaker.State) float64 {
	switch state {
	case gobreaker.StateClosed:
		return 0
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return -1
	}
}
