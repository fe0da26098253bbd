// Tilerouter - Adaptive Edge Routing for Map Tiles
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tilerouter

package edge

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sync"

	"github.com/tomtom215/tilerouter/internal/logging"
	"github.com/tomtom215/tilerouter/internal/metrics"
	"github.com/tomtom215/tilerouter/internal/validation"
)

// Client routes tile requests across content edges.
//
// A Client owns its routing state (current edge, routing config, failover
// stack) and its health monitor. All methods are safe for concurrent use;
// network calls happen outside the state lock, so a health tick or an
// optimization may replace the stack while a tile request is walking an
// older snapshot of it.
type Client struct {
	selector   Selector
	opts       Options
	httpClient *http.Client
	log        *logging.RoutingLogger
	monitor    *HealthMonitor

	mu          sync.RWMutex
	currentEdge string
	routing     *RoutingConfig
	stack       *FailoverStack
}

// NewClient creates an uninitialized client. Call Initialize, or let the
// first GetTile do it.
func NewClient(selector Selector, opts Options) *Client {
	opts = opts.withDefaults()
	c := &Client{
		selector:   selector,
		opts:       opts,
		httpClient: opts.HTTPClient,
		log:        opts.Logger,
		stack:      NewFailoverStack(),
	}
	c.monitor = NewHealthMonitor(opts.Clock, opts.HealthInterval, c.reorderByHealth, opts.Logger)
	return c
}

// Initialize looks up the edge topology for a location and installs it.
//
// On success the primary becomes the current edge, the failover stack is
// reset to [primary, fallback] and the health monitor is started if it is
// not already running. On any failure a static default config is returned
// and routing state is left untouched, so the next GetTile on a
// never-initialized client retries the lookup. Initialize never fails.
func (c *Client) Initialize(ctx context.Context, latitude, longitude float64) RoutingConfig {
	cfg, err := c.selector.Lookup(ctx, latitude, longitude)
	if err == nil && (cfg.Primary == "" || cfg.Fallback == "") {
		err = errors.New("topology lookup returned no primary or fallback edge")
	}
	if err != nil {
		c.log.LogInitFailed(ctx, err)
		return c.defaultConfig()
	}

	installed := cfg.clone()

	c.mu.Lock()
	c.routing = &installed
	c.currentEdge = installed.Primary
	c.stack.Replace([]string{installed.Primary, installed.Fallback})
	size := c.stack.Len()
	c.mu.Unlock()

	metrics.SetFailoverStackSize(size)
	c.log.LogInitialized(ctx, cfg.Primary, cfg.Fallback, len(cfg.AllEdges))

	c.monitor.Start()

	return cfg.clone()
}

func (c *Client) defaultConfig() RoutingConfig {
	return RoutingConfig{
		Primary:   c.opts.DefaultPrimary,
		Fallback:  c.opts.DefaultFallback,
		AllEdges:  []Edge{},
		FetchedAt: c.opts.Clock.Now().UTC(),
	}
}

// GetTile fetches one tile, trying each edge of the failover stack in order.
//
// The first 2xx response wins. If it came from an edge other than the head,
// that edge becomes the current edge and moves to the front of the stack.
// Each attempt is bounded by the tile timeout and there is no retry. When
// every edge fails the returned error wraps ErrTileFetchExhausted and the
// stack is unchanged. An empty provider uses the default provider; any
// other provider must pass validation.IsTileProvider, otherwise
// ErrInvalidProvider is returned before any edge is contacted.
func (c *Client) GetTile(ctx context.Context, z, x, y int, provider string) ([]byte, error) {
	if provider == "" {
		provider = c.opts.DefaultProvider
	}
	if !validation.IsTileProvider(provider) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidProvider, provider)
	}
	if _, ok := c.CurrentEdge(); !ok {
		c.Initialize(ctx, 0, 0)
	}

	ctx = logging.ContextWithNewCorrelationID(ctx)
	start := c.opts.Clock.Now()
	tilePath := fmt.Sprintf("/tiles/%s/%d/%d/%d.png", provider, z, x, y)

	edges := c.FailoverStack()
	for i, edgeURL := range edges {
		data, status, outcome, err := c.fetchTile(ctx, edgeURL+tilePath)
		metrics.RecordTileAttempt(edgeURL, outcome)
		if err != nil {
			c.log.LogAttemptFailed(ctx, edgeURL, i+1, len(edges), status, err)
			continue
		}

		if i > 0 {
			c.promote(edgeURL)
			c.log.LogFailover(ctx, edgeURL, i+1)
		}
		metrics.RecordTileFetch(edgeURL, c.opts.Clock.Since(start), nil, i > 0)
		return data, nil
	}

	err := fmt.Errorf("tile %s/%d/%d/%d after %d attempts: %w", provider, z, x, y, len(edges), ErrTileFetchExhausted)
	metrics.RecordTileFetch("", c.opts.Clock.Since(start), err, false)
	c.log.LogExhausted(ctx, edges)
	return nil, err
}

// fetchTile performs one bounded GET. status is 0 when no response arrived.
func (c *Client) fetchTile(ctx context.Context, tileURL string) (data []byte, status int, outcome string, err error) {
	ctx, cancel := context.WithTimeout(ctx, c.opts.TileTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, tileURL, http.NoBody)
	if err != nil {
		return nil, 0, metrics.OutcomeTransportError, fmt.Errorf("create tile request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, 0, metrics.OutcomeTransportError, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return nil, resp.StatusCode, metrics.OutcomeHTTPError, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	data, err = io.ReadAll(resp.Body)
	if err != nil {
		return nil, resp.StatusCode, metrics.OutcomeReadError, fmt.Errorf("read tile body: %w", err)
	}
	return data, resp.StatusCode, metrics.OutcomeSuccess, nil
}

// promote makes edgeURL the current edge and moves it to the head of the
// stack. If a concurrent replacement already dropped it, only the current
// edge changes.
func (c *Client) promote(edgeURL string) {
	c.mu.Lock()
	c.currentEdge = edgeURL
	c.stack.Promote(edgeURL)
	c.mu.Unlock()
}

// replaceStack installs urls as the new failover stack. With forceCurrent the
// head always becomes the current edge; otherwise the current edge only moves
// when it is no longer in the stack.
func (c *Client) replaceStack(urls []string, forceCurrent bool) (stack []string, current string) {
	c.mu.Lock()
	c.stack.Replace(urls)
	if forceCurrent || !c.stack.Contains(c.currentEdge) {
		c.currentEdge = c.stack.Head()
	}
	stack, current = c.stack.Snapshot(), c.currentEdge
	c.mu.Unlock()

	metrics.SetFailoverStackSize(len(stack))
	return stack, current
}

// ReplicateTiles asks the selection service to replicate payload to regions.
// Errors are returned unchanged in kind; there is no local recovery.
func (c *Client) ReplicateTiles(ctx context.Context, payload any, regions []string) ([]ReplicationResult, error) {
	results, err := c.selector.Replicate(ctx, payload, regions)
	if err != nil {
		return nil, fmt.Errorf("replicate tiles: %w", err)
	}
	return results, nil
}

// CheckEdgeHealth returns the selection service's health report as-is.
func (c *Client) CheckEdgeHealth(ctx context.Context) (HealthReport, error) {
	report, err := c.selector.HealthCheck(ctx)
	if err != nil {
		return HealthReport{}, fmt.Errorf("check edge health: %w", err)
	}
	return report, nil
}

// CurrentEdge returns the edge most recently chosen for tile traffic.
func (c *Client) CurrentEdge() (string, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.currentEdge, c.currentEdge != ""
}

// FailoverStack returns a copy of the failover order.
func (c *Client) FailoverStack() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.stack.Snapshot()
}

// RoutingConfig returns a copy of the installed routing config.
func (c *Client) RoutingConfig() (RoutingConfig, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.routing == nil {
		return RoutingConfig{}, false
	}
	return c.routing.clone(), true
}

// Edges returns the known edge catalog, or ErrNoRoutingConfig before a
// successful Initialize.
func (c *Client) Edges() ([]Edge, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.routing == nil {
		return nil, ErrNoRoutingConfig
	}
	return c.routing.clone().AllEdges, nil
}

// HealthMonitorRunning reports whether periodic health checks are active.
func (c *Client) HealthMonitorRunning() bool {
	return c.monitor.Running()
}

// Destroy stops the health monitor. Routing state stays readable and a later
// successful Initialize restarts monitoring. That includes the lazy
// Initialize inside GetTile, which runs when no current edge is set, so a
// client that must stay quiet after Destroy should not be used for tiles.
// Safe to call more than once.
func (c *Client) Destroy() {
	c.monitor.Stop()
}
