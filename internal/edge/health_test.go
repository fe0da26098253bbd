// Tilerouter - Adaptive Edge Routing for Map Tiles
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tilerouter

package edge

import (
	"context"
	"errors"
	"io"
	"slices"
	"sync/atomic"
	"testing"
	"time"

	"github.com/benbjohnson/clock"

	"github.com/tomtom215/tilerouter/internal/logging"
)

func initializedClient(t *testing.T, sel *fakeSelector) (*Client, *clock.Mock) {
	t.Helper()
	sel.lookup = func(float64, float64) (RoutingConfig, error) {
		return RoutingConfig{Primary: "https://a.example.com", Fallback: "https://b.example.com"}, nil
	}
	c, mock := newTestClient(t, sel, nil)
	c.Initialize(context.Background(), 0, 0)
	return c, mock
}

// Scenario: a health tick reorders by distance and drops unhealthy edges.
func TestHealthTick_ReordersByDistance(t *testing.T) {
	sel := &fakeSelector{}
	c, _ := initializedClient(t, sel)
	sel.setHealth(func() (HealthReport, error) {
		return HealthReport{Edges: []Edge{
			{BaseURL: "https://c.example.com", Healthy: ptr(true), Distance: ptr(50.0)},
			{BaseURL: "https://a.example.com", Healthy: ptr(true), Distance: ptr(10.0)},
			{BaseURL: "https://b.example.com", Healthy: ptr(false), Distance: ptr(1.0)},
		}}, nil
	})

	c.monitor.Tick(context.Background())

	checkStack(t, c, "https://a.example.com", "https://c.example.com")
	checkCurrent(t, c, "https://a.example.com")
}

// Scenario: the selector reports edge-b healthy and edge-a unhealthy.
func TestHealthTick_UnhealthyPrimaryDropped(t *testing.T) {
	sel := &fakeSelector{lookup: func(float64, float64) (RoutingConfig, error) {
		return RoutingConfig{Primary: "https://edge-a", Fallback: "https://edge-b"}, nil
	}}
	c, _ := newTestClient(t, sel, nil)
	c.Initialize(context.Background(), 37.7, -122.4)
	checkStack(t, c, "https://edge-a", "https://edge-b")

	sel.setHealth(func() (HealthReport, error) {
		return HealthReport{Edges: []Edge{
			{BaseURL: "https://edge-b", Healthy: ptr(true), Distance: ptr(1.0)},
			{BaseURL: "https://edge-a", Healthy: ptr(false), Distance: ptr(5.0)},
		}}, nil
	})

	c.monitor.Tick(context.Background())

	checkStack(t, c, "https://edge-b")
	checkCurrent(t, c, "https://edge-b")
}

func TestHealthTick_CurrentEdgeDropped(t *testing.T) {
	sel := &fakeSelector{}
	c, _ := initializedClient(t, sel)
	c.promote("https://b.example.com")
	sel.setHealth(func() (HealthReport, error) {
		return HealthReport{Edges: []Edge{
			{BaseURL: "https://c.example.com", Healthy: ptr(true), Distance: ptr(50.0)},
			{BaseURL: "https://a.example.com", Healthy: ptr(true), Distance: ptr(10.0)},
			{BaseURL: "https://b.example.com", Healthy: ptr(false)},
		}}, nil
	})

	c.monitor.Tick(context.Background())

	checkStack(t, c, "https://a.example.com", "https://c.example.com")
	checkCurrent(t, c, "https://a.example.com")
}

func TestHealthTick_CurrentEdgeKeptWhenStillHealthy(t *testing.T) {
	sel := &fakeSelector{}
	c, _ := initializedClient(t, sel)
	c.promote("https://b.example.com")
	sel.setHealth(func() (HealthReport, error) {
		return HealthReport{Edges: []Edge{
			{BaseURL: "https://b.example.com", Healthy: ptr(true), Distance: ptr(90.0)},
			{BaseURL: "https://a.example.com", Healthy: ptr(true), Distance: ptr(10.0)},
		}}, nil
	})

	c.monitor.Tick(context.Background())

	checkStack(t, c, "https://a.example.com", "https://b.example.com")
	checkCurrent(t, c, "https://b.example.com")
}

func TestHealthTick_NoMutation(t *testing.T) {
	tests := []struct {
		name   string
		health func() (HealthReport, error)
	}{
		{
			name:   "probe error",
			health: func() (HealthReport, error) { return HealthReport{}, errors.New("timeout") },
		},
		{
			name: "no healthy edges",
			health: func() (HealthReport, error) {
				return HealthReport{Edges: []Edge{
					{BaseURL: "https://a.example.com", Healthy: ptr(false)},
					{BaseURL: "https://c.example.com"},
				}}, nil
			},
		},
		{
			name:   "empty report",
			health: func() (HealthReport, error) { return HealthReport{}, nil },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sel := &fakeSelector{}
			c, _ := initializedClient(t, sel)
			c.promote("https://b.example.com")
			sel.setHealth(tt.health)

			c.monitor.Tick(context.Background())

			checkStack(t, c, "https://b.example.com", "https://a.example.com")
			checkCurrent(t, c, "https://b.example.com")
		})
	}
}

func TestHealthyByDistance(t *testing.T) {
	edges := []Edge{
		{BaseURL: "far", Healthy: ptr(true), Distance: ptr(100.0)},
		{BaseURL: "unknown-1", Healthy: ptr(true)},
		{BaseURL: "near", Healthy: ptr(true), Distance: ptr(5.0)},
		{BaseURL: "unknown-2", Healthy: ptr(true)},
		{BaseURL: "down", Healthy: ptr(false), Distance: ptr(0.0)},
		{BaseURL: "", Healthy: ptr(true)},
	}

	got := healthyByDistance(edges)

	want := []string{"unknown-1", "unknown-2", "near", "far"}
	if !slices.Equal(got, want) {
		t.Errorf("healthyByDistance() = %v, want %v", got, want)
	}
}

func TestHealthMonitor_TicksOnInterval(t *testing.T) {
	sel := &fakeSelector{}
	c, mock := initializedClient(t, sel)

	mock.Add(29 * time.Second)
	if got := sel.healthCount(); got != 0 {
		t.Fatalf("health checks before interval = %d, want 0", got)
	}

	mock.Add(time.Second)
	waitFor(t, "first health tick", func() bool { return sel.healthCount() == 1 })

	mock.Add(30 * time.Second)
	waitFor(t, "second health tick", func() bool { return sel.healthCount() == 2 })

	c.Destroy()
	mock.Add(time.Minute)
	time.Sleep(20 * time.Millisecond)
	if got := sel.healthCount(); got != 2 {
		t.Errorf("health checks after Destroy = %d, want 2", got)
	}
}

func TestHealthMonitor_StartsOnce(t *testing.T) {
	sel := &fakeSelector{}
	c, mock := initializedClient(t, sel)

	// A second successful Initialize must not start a second ticker.
	c.Initialize(context.Background(), 1, 1)

	mock.Add(30 * time.Second)
	waitFor(t, "health tick", func() bool { return sel.healthCount() >= 1 })
	time.Sleep(20 * time.Millisecond)
	if got := sel.healthCount(); got != 1 {
		t.Errorf("health checks after one interval = %d, want 1", got)
	}
}

func TestHealthMonitor_StartStopIdempotent(t *testing.T) {
	var ticks atomic.Int32
	mock := clock.NewMock()
	m := NewHealthMonitor(mock, time.Second, func(context.Context) { ticks.Add(1) },
		logging.NewRoutingLoggerWithLogger(logging.NewTestLogger(io.Discard)))

	if m.Stop() {
		t.Error("Stop() on a stopped monitor should report false")
	}
	if !m.Start() {
		t.Error("first Start() should report true")
	}
	if m.Start() {
		t.Error("second Start() should report false")
	}
	if !m.Running() {
		t.Error("Running() = false after Start")
	}

	mock.Add(time.Second)
	waitFor(t, "tick", func() bool { return ticks.Load() == 1 })

	if !m.Stop() {
		t.Error("first Stop() should report true")
	}
	if m.Stop() {
		t.Error("second Stop() should report false")
	}
	if m.Running() {
		t.Error("Running() = true after Stop")
	}

	// Restart after stop.
	if !m.Start() {
		t.Error("Start() after Stop should report true")
	}
	mock.Add(time.Second)
	waitFor(t, "tick after restart", func() bool { return ticks.Load() == 2 })
	m.Stop()
}
