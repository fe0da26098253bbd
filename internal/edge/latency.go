// Tilerouter - Adaptive Edge Routing for Map Tiles
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tilerouter

package edge

import (
	"cmp"
	"context"
	"errors"
	"math"
	"net/http"
	"slices"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/tomtom215/tilerouter/internal/metrics"
)

// Route optimization outcomes.
const (
	optimizeApplied     = "applied"
	optimizeNoReachable = "no_reachable"
	optimizeNoCatalog   = "no_catalog"
)

// MeasureLatency sends HEAD {edgeURL}/health and returns the round trip in
// milliseconds. Any HTTP response counts as reachable, whatever its status.
// A transport error or timeout returns +Inf.
func (c *Client) MeasureLatency(ctx context.Context, edgeURL string) float64 {
	ctx, cancel := context.WithTimeout(ctx, c.opts.ProbeTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodHead, edgeURL+"/health", http.NoBody)
	if err != nil {
		metrics.RecordLatencyProbe(edgeURL, 0, false)
		c.log.LogLatency(ctx, edgeURL, 0, false)
		return math.Inf(1)
	}

	start := c.opts.Clock.Now()
	resp, err := c.httpClient.Do(req)
	elapsed := c.opts.Clock.Since(start)
	if err != nil {
		metrics.RecordLatencyProbe(edgeURL, elapsed, false)
		c.log.LogLatency(ctx, edgeURL, elapsed, false)
		return math.Inf(1)
	}
	resp.Body.Close()

	metrics.RecordLatencyProbe(edgeURL, elapsed, true)
	c.log.LogLatency(ctx, edgeURL, elapsed, true)
	return float64(elapsed) / float64(time.Millisecond)
}

type latencySample struct {
	url string
	ms  float64
}

// OptimizeRouting probes every known edge concurrently and, once all probes
// have finished, replaces the failover stack with the reachable edges
// ordered fastest first. The fastest edge becomes the current edge.
//
// It does nothing before a successful Initialize, or when no edge answered.
// It reports whether the stack was replaced.
func (c *Client) OptimizeRouting(ctx context.Context) bool {
	edges, err := c.Edges()
	if errors.Is(err, ErrNoRoutingConfig) {
		metrics.RecordRouteOptimization(optimizeNoCatalog)
		c.log.LogProbeSkipped(ctx, "latency", "routing not initialized", nil)
		return false
	}

	samples := make([]latencySample, len(edges))
	var g errgroup.Group
	for i, e := range edges {
		g.Go(func() error {
			samples[i] = latencySample{url: e.BaseURL, ms: c.MeasureLatency(ctx, e.BaseURL)}
			return nil
		})
	}
	_ = g.Wait()

	reachable := slices.DeleteFunc(samples, func(s latencySample) bool {
		return math.IsInf(s.ms, 1) || s.url == ""
	})
	if len(reachable) == 0 {
		metrics.RecordRouteOptimization(optimizeNoReachable)
		c.log.LogProbeSkipped(ctx, "latency", "no edge reachable", nil)
		return false
	}

	slices.SortStableFunc(reachable, func(a, b latencySample) int {
		return cmp.Compare(a.ms, b.ms)
	})
	urls := make([]string, len(reachable))
	for i, s := range reachable {
		urls[i] = s.url
	}

	stack, current := c.replaceStack(urls, true)
	metrics.RecordRouteOptimization(optimizeApplied)
	c.log.LogStackReplaced(ctx, "latency", stack, current)
	return true
}
