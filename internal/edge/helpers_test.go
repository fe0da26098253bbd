// Tilerouter - Adaptive Edge Routing for Map Tiles
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tilerouter

package edge

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"slices"
	"sync"
	"testing"
	"time"

	"github.com/benbjohnson/clock"

	"github.com/tomtom215/tilerouter/internal/logging"
)

// fakeSelector is an in-memory Selector with per-mode hooks.
type fakeSelector struct {
	mu sync.Mutex

	lookup    func(lat, lon float64) (RoutingConfig, error)
	health    func() (HealthReport, error)
	replicate func(payload any, regions []string) ([]ReplicationResult, error)

	lookupCalls [][2]float64
	healthCalls int
}

func (f *fakeSelector) Lookup(_ context.Context, lat, lon float64) (RoutingConfig, error) {
	f.mu.Lock()
	f.lookupCalls = append(f.lookupCalls, [2]float64{lat, lon})
	fn := f.lookup
	f.mu.Unlock()
	return fn(lat, lon)
}

func (f *fakeSelector) HealthCheck(_ context.Context) (HealthReport, error) {
	f.mu.Lock()
	f.healthCalls++
	fn := f.health
	f.mu.Unlock()
	if fn == nil {
		return HealthReport{}, nil
	}
	return fn()
}

func (f *fakeSelector) Replicate(_ context.Context, payload any, regions []string) ([]ReplicationResult, error) {
	return f.replicate(payload, regions)
}

func (f *fakeSelector) setHealth(fn func() (HealthReport, error)) {
	f.mu.Lock()
	f.health = fn
	f.mu.Unlock()
}

func (f *fakeSelector) lookupCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.lookupCalls)
}

func (f *fakeSelector) healthCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.healthCalls
}

// staticSelector returns a selector whose lookup always yields cfg.
func staticSelector(cfg RoutingConfig) *fakeSelector {
	return &fakeSelector{
		lookup: func(float64, float64) (RoutingConfig, error) { return cfg, nil },
	}
}

// newTestClient builds a client with a mock clock and a silent logger.
func newTestClient(t *testing.T, sel Selector, mutate func(*Options)) (*Client, *clock.Mock) {
	t.Helper()
	mock := clock.NewMock()
	opts := Options{
		TileTimeout:    time.Second,
		ProbeTimeout:   time.Second,
		HealthInterval: 30 * time.Second,
		Clock:          mock,
		Logger:         logging.NewRoutingLoggerWithLogger(logging.NewTestLogger(io.Discard)),
	}
	if mutate != nil {
		mutate(&opts)
	}
	c := NewClient(sel, opts)
	t.Cleanup(c.Destroy)
	return c, mock
}

// tileEdge is an httptest edge that serves tiles with a fixed status and
// records the paths it was asked for.
type tileEdge struct {
	*httptest.Server
	mu    sync.Mutex
	paths []string
}

func newTileEdge(t *testing.T, status int, body string) *tileEdge {
	t.Helper()
	e := &tileEdge{}
	e.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		e.mu.Lock()
		e.paths = append(e.paths, r.URL.Path)
		e.mu.Unlock()
		w.WriteHeader(status)
		_, _ = io.WriteString(w, body)
	}))
	t.Cleanup(e.Close)
	return e
}

// newHangingEdge answers only after the client gives up.
func newHangingEdge(t *testing.T) *httptest.Server {
	t.Helper()
	s := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(5 * time.Second):
		}
	}))
	t.Cleanup(s.Close)
	return s
}

// deadEdgeURL returns the URL of a server that is no longer listening.
func deadEdgeURL(t *testing.T) string {
	t.Helper()
	s := httptest.NewServer(http.NotFoundHandler())
	url := s.URL
	s.Close()
	return url
}

func (e *tileEdge) requests() []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return slices.Clone(e.paths)
}

func ptr[T any](v T) *T {
	return &v
}

func checkStack(t *testing.T, c *Client, want ...string) {
	t.Helper()
	if got := c.FailoverStack(); !slices.Equal(got, want) {
		t.Errorf("FailoverStack() = %v, want %v", got, want)
	}
}

func checkCurrent(t *testing.T, c *Client, want string) {
	t.Helper()
	got, ok := c.CurrentEdge()
	if !ok {
		t.Errorf("CurrentEdge() absent, want %s", want)
		return
	}
	if got != want {
		t.Errorf("CurrentEdge() = %s, want %s", got, want)
	}
}

// waitFor polls cond until it holds or the deadline passes.
func waitFor(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for %s", what)
}
