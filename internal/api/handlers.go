// Tilerouter - Adaptive Edge Routing for Map Tiles
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tilerouter

package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"
	"golang.org/x/time/rate"

	"github.com/tomtom215/tilerouter/internal/edge"
	"github.com/tomtom215/tilerouter/internal/validation"
)

// EdgeHeader names the edge that served a tile.
const EdgeHeader = "X-Tile-Edge"

// maxReplicateBody bounds POST /api/v1/replicate.
const maxReplicateBody = 8 << 20

// TileRouter is the part of *edge.Client the gateway uses.
type TileRouter interface {
	GetTile(ctx context.Context, z, x, y int, provider string) ([]byte, error)
	OptimizeRouting(ctx context.Context) bool
	CheckEdgeHealth(ctx context.Context) (edge.HealthReport, error)
	ReplicateTiles(ctx context.Context, payload any, regions []string) ([]edge.ReplicationResult, error)
	CurrentEdge() (string, bool)
	FailoverStack() []string
	RoutingConfig() (edge.RoutingConfig, bool)
	HealthMonitorRunning() bool
}

// Handler serves the gateway endpoints.
type Handler struct {
	router          TileRouter
	optimizeLimiter *rate.Limiter
	startTime       time.Time
}

// NewHandler creates a handler. optimizePerMinute caps on-demand
// optimizations across all clients, since each one probes every edge.
func NewHandler(router TileRouter, optimizePerMinute int) *Handler {
	if optimizePerMinute <= 0 {
		optimizePerMinute = 1
	}
	return &Handler{
		router:          router,
		optimizeLimiter: rate.NewLimiter(rate.Every(time.Minute/time.Duration(optimizePerMinute)), optimizePerMinute),
		startTime:       time.Now(),
	}
}

// RoutingState is the body of GET /api/v1/routing.
type RoutingState struct {
	CurrentEdge          string              `json:"currentEdge,omitempty"`
	FailoverStack        []string            `json:"failoverStack"`
	Config               *edge.RoutingConfig `json:"config,omitempty"`
	HealthMonitorRunning bool                `json:"healthMonitorRunning"`
}

// OptimizeResult is the body of POST /api/v1/routing/optimize.
type OptimizeResult struct {
	Applied       bool     `json:"applied"`
	CurrentEdge   string   `json:"currentEdge,omitempty"`
	FailoverStack []string `json:"failoverStack"`
}

// ReplicateRequest is the body of POST /api/v1/replicate.
type ReplicateRequest struct {
	TileData json.RawMessage `json:"tileData" validate:"required"`
	Regions  []string        `json:"regions" validate:"required,min=1,dive,required"`
}

// Tile serves GET /tiles/{provider}/{z}/{x}/{y}.png.
//
// @Summary Get a map tile
// @Description Fetches the tile from the current edge, failing over down the edge stack.
// @Description The edge that served the tile is returned in X-Tile-Edge.
// @Tags Tiles
// @Produce png
// @Param provider path string true "Tile provider (lowercase letters, digits, - and _)"
// @Param z path int true "Zoom level (0-24)"
// @Param x path int true "Tile column (0 to 2^z-1)"
// @Param y path int true "Tile row (0 to 2^z-1)"
// @Success 200 {file} binary "PNG tile"
// @Failure 400 {object} APIResponse "Invalid tile coordinates or provider"
// @Failure 502 {object} APIResponse "Every edge failed"
// @Router /tiles/{provider}/{z}/{x}/{y}.png [get]
func (h *Handler) Tile(w http.ResponseWriter, r *http.Request) {
	coord, apiErr := parseTileCoordinate(r)
	if apiErr != nil {
		respondAPIError(w, r, http.StatusBadRequest, apiErr, nil)
		return
	}

	data, err := h.router.GetTile(r.Context(), coord.Z, coord.X, coord.Y, coord.Provider)
	if err != nil {
		if errors.Is(err, edge.ErrInvalidProvider) {
			respondError(w, r, http.StatusBadRequest, CodeValidation, "provider must be a lowercase provider name", nil)
			return
		}
		if errors.Is(err, edge.ErrTileFetchExhausted) {
			respondError(w, r, http.StatusBadGateway, CodeEdgesExhausted, "No edge could serve the tile", err)
			return
		}
		respondError(w, r, http.StatusInternalServerError, CodeInternal, "Tile fetch failed", err)
		return
	}

	if current, ok := h.router.CurrentEdge(); ok {
		w.Header().Set(EdgeHeader, current)
	}
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.Header().Set("Cache-Control", "public, max-age=3600")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

func parseTileCoordinate(r *http.Request) (validation.TileCoordinate, *APIError) {
	coord := validation.TileCoordinate{Provider: chi.URLParam(r, "provider")}

	for _, p := range []struct {
		name string
		dst  *int
	}{
		{"z", &coord.Z},
		{"x", &coord.X},
		{"y", &coord.Y},
	} {
		n, err := strconv.Atoi(chi.URLParam(r, p.name))
		if err != nil {
			return coord, &APIError{
				Code:    CodeValidation,
				Message: fmt.Sprintf("%s must be an integer", p.name),
				Details: map[string]any{"field": p.name},
			}
		}
		*p.dst = n
	}

	if apiErr := validateRequest(&coord); apiErr != nil {
		return coord, apiErr
	}
	return coord, nil
}

// Routing serves GET /api/v1/routing.
//
// @Summary Get routing state
// @Description Returns the current edge, the failover stack, the installed topology and whether health monitoring is running.
// @Tags Routing
// @Produce json
// @Success 200 {object} APIResponse{data=RoutingState} "Routing state"
// @Router /api/v1/routing [get]
func (h *Handler) Routing(w http.ResponseWriter, r *http.Request) {
	state := RoutingState{
		FailoverStack:        h.router.FailoverStack(),
		HealthMonitorRunning: h.router.HealthMonitorRunning(),
	}
	if current, ok := h.router.CurrentEdge(); ok {
		state.CurrentEdge = current
	}
	if cfg, ok := h.router.RoutingConfig(); ok {
		state.Config = &cfg
	}
	respondData(w, r, state)
}

// Optimize serves POST /api/v1/routing/optimize.
//
// @Summary Re-rank edges by latency
// @Description Probes every known edge and reorders the failover stack fastest first. Limited to a fixed budget per minute.
// @Tags Routing
// @Produce json
// @Success 200 {object} APIResponse{data=OptimizeResult} "Optimization result (applied=false when nothing changed)"
// @Failure 429 {object} APIResponse "Optimization budget exhausted"
// @Router /api/v1/routing/optimize [post]
func (h *Handler) Optimize(w http.ResponseWriter, r *http.Request) {
	if !h.optimizeLimiter.Allow() {
		respondError(w, r, http.StatusTooManyRequests, CodeRateLimited, "Optimization budget exhausted, try again later", nil)
		return
	}

	result := OptimizeResult{Applied: h.router.OptimizeRouting(r.Context())}
	if current, ok := h.router.CurrentEdge(); ok {
		result.CurrentEdge = current
	}
	result.FailoverStack = h.router.FailoverStack()
	respondData(w, r, result)
}

// EdgeHealth serves GET /api/v1/edges/health.
//
// @Summary Get edge health
// @Description Returns the edge selector's health report unchanged.
// @Tags Routing
// @Produce json
// @Success 200 {object} APIResponse{data=edge.HealthReport} "Health report"
// @Failure 502 {object} APIResponse "Edge selector unavailable"
// @Router /api/v1/edges/health [get]
func (h *Handler) EdgeHealth(w http.ResponseWriter, r *http.Request) {
	report, err := h.router.CheckEdgeHealth(r.Context())
	if err != nil {
		respondError(w, r, http.StatusBadGateway, CodeSelectorFailed, "Edge health check failed", err)
		return
	}
	respondData(w, r, report)
}

// Replicate serves POST /api/v1/replicate.
//
// @Summary Replicate tile data to regions
// @Tags Replication
// @Accept json
// @Produce json
// @Param request body ReplicateRequest true "Tile payload and target regions"
// @Success 200 {object} APIResponse "Per-region replication results"
// @Failure 400 {object} APIResponse "Invalid request body"
// @Failure 502 {object} APIResponse "Edge selector unavailable"
// @Router /api/v1/replicate [post]
func (h *Handler) Replicate(w http.ResponseWriter, r *http.Request) {
	var req ReplicateRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxReplicateBody)).Decode(&req); err != nil {
		respondError(w, r, http.StatusBadRequest, CodeInvalidBody, "Request body must be a JSON object", err)
		return
	}
	if apiErr := validateRequest(&req); apiErr != nil {
		respondAPIError(w, r, http.StatusBadRequest, apiErr, nil)
		return
	}

	results, err := h.router.ReplicateTiles(r.Context(), req.TileData, req.Regions)
	if err != nil {
		respondError(w, r, http.StatusBadGateway, CodeSelectorFailed, "Replication request failed", err)
		return
	}
	respondData(w, r, map[string]any{"results": results})
}

// HealthLive serves GET /api/v1/health/live.
//
// @Summary Liveness probe
// @Description Returns 200 while the process is alive, regardless of edge or selector state.
// @Tags Core
// @Produce json
// @Success 200 {object} APIResponse "Service is alive"
// @Router /api/v1/health/live [get]
func (h *Handler) HealthLive(w http.ResponseWriter, r *http.Request) {
	respondData(w, r, map[string]any{
		"status":         "alive",
		"uptime_seconds": int64(time.Since(h.startTime).Seconds()),
	})
}
