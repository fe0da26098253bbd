// Tilerouter - Adaptive Edge Routing for Map Tiles
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tilerouter

package edge

import "errors"

var (
	// ErrTileFetchExhausted is returned by GetTile when every edge in the
	// failover stack failed.
	ErrTileFetchExhausted = errors.New("all edges failed")

	// ErrNoRoutingConfig is returned when an operation needs a topology and
	// none has been installed yet.
	ErrNoRoutingConfig = errors.New("no routing config")

	// ErrInvalidProvider is returned by GetTile for a provider name that is
	// not a single safe path segment.
	ErrInvalidProvider = errors.New("invalid tile provider")
)
