// Tilerouter - Adaptive Edge Routing for Map Tiles
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tilerouter

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/tomtom215/tilerouter/internal/middleware"
)

// Router wires handlers and middleware into a chi mux.
type Router struct {
	handler       *Handler
	chiMiddleware *ChiMiddleware
}

// NewRouter creates a router; a nil middleware factory uses the defaults.
func NewRouter(handler *Handler, chiMiddleware *ChiMiddleware) *Router {
	if chiMiddleware == nil {
		chiMiddleware = NewChiMiddleware(nil)
	}
	return &Router{handler: handler, chiMiddleware: chiMiddleware}
}

// SetupChi builds the gateway's http.Handler.
func (router *Router) SetupChi() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(router.chiMiddleware.CORS()) // global so OPTIONS preflight is answered
	r.Use(middleware.PrometheusMetrics)

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		respondError(w, r, http.StatusNotFound, "NOT_FOUND", "Route not found", nil)
	})

	r.Get("/api/v1/health/live", router.handler.HealthLive)
	r.Handle("/metrics", promhttp.Handler())

	r.Group(func(r chi.Router) {
		r.Use(router.chiMiddleware.RateLimit())

		r.Get("/tiles/{provider}/{z}/{x}/{y}.png", router.handler.Tile)

		r.Get("/api/v1/routing", router.handler.Routing)
		r.Post("/api/v1/routing/optimize", router.handler.Optimize)
		r.Get("/api/v1/edges/health", router.handler.EdgeHealth)
		r.Post("/api/v1/replicate", router.handler.Replicate)
	})

	return r
}
