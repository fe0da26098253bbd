// Tilerouter - Adaptive Edge Routing for Map Tiles
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tilerouter

package edge

import (
	"cmp"
	"context"
	"slices"
	"sync"
	"time"

	"github.com/benbjohnson/clock"

	"github.com/tomtom215/tilerouter/internal/logging"
	"github.com/tomtom215/tilerouter/internal/metrics"
)

// Health tick outcomes.
const (
	healthApplied   = "applied"
	healthNoHealthy = "no_healthy"
	healthError     = "error"
)

// HealthMonitor runs a probe on a fixed period until stopped.
//
// Ticks run sequentially in the monitor goroutine. Start and Stop are
// idempotent and may be called from any goroutine.
type HealthMonitor struct {
	clock    clock.Clock
	interval time.Duration
	probe    func(context.Context)
	log      *logging.RoutingLogger

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
}

// NewHealthMonitor creates a stopped monitor that calls probe every interval.
func NewHealthMonitor(clk clock.Clock, interval time.Duration, probe func(context.Context), log *logging.RoutingLogger) *HealthMonitor {
	return &HealthMonitor{
		clock:    clk,
		interval: interval,
		probe:    probe,
		log:      log,
	}
}

// Start begins periodic probing. It reports false if already running.
func (m *HealthMonitor) Start() bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.cancel != nil {
		return false
	}

	ctx, cancel := context.WithCancel(context.Background())
	ticker := m.clock.Ticker(m.interval)
	m.cancel = cancel
	m.done = make(chan struct{})

	go m.run(ctx, ticker, m.done)

	m.log.LogMonitor("started", m.interval)
	return true
}

// Stop halts probing and waits for an in-flight tick to return. It reports
// false if the monitor was not running.
func (m *HealthMonitor) Stop() bool {
	m.mu.Lock()
	cancel, done := m.cancel, m.done
	m.cancel, m.done = nil, nil
	m.mu.Unlock()

	if cancel == nil {
		return false
	}
	cancel()
	<-done

	m.log.LogMonitor("stopped", m.interval)
	return true
}

// Running reports whether the monitor is started.
func (m *HealthMonitor) Running() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.cancel != nil
}

// Tick runs one probe synchronously.
func (m *HealthMonitor) Tick(ctx context.Context) {
	m.probe(ctx)
}

func (m *HealthMonitor) run(ctx context.Context, ticker *clock.Ticker, done chan struct{}) {
	defer close(done)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.Tick(ctx)
		}
	}
}

// reorderByHealth is the health monitor probe: it asks the selection service
// for edge health and, when at least one edge is healthy, replaces the
// failover stack with the healthy edges ordered by distance.
func (c *Client) reorderByHealth(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, c.opts.ProbeTimeout)
	defer cancel()

	report, err := c.selector.HealthCheck(ctx)
	if err != nil {
		metrics.RecordHealthTick(healthError)
		c.log.LogProbeSkipped(ctx, "health", "health check failed", err)
		return
	}

	urls := healthyByDistance(report.Edges)
	if len(urls) == 0 {
		metrics.RecordHealthTick(healthNoHealthy)
		c.log.LogProbeSkipped(ctx, "health", "no healthy edges reported", nil)
		return
	}

	stack, current := c.replaceStack(urls, false)
	metrics.RecordHealthTick(healthApplied)
	c.log.LogStackReplaced(ctx, "health", stack, current)
}

// healthyByDistance returns the base URLs of healthy edges, nearest first.
// Edges without a distance sort as 0; ties keep their reported order.
func healthyByDistance(edges []Edge) []string {
	healthy := make([]Edge, 0, len(edges))
	for _, e := range edges {
		if e.healthy() && e.BaseURL != "" {
			healthy = append(healthy, e)
		}
	}
	slices.SortStableFunc(healthy, func(a, b Edge) int {
		return cmp.Compare(a.distance(), b.distance())
	})

	urls := make([]string, len(healthy))
	for i, e := range healthy {
		urls[i] = e.BaseURL
	}
	return urls
}
