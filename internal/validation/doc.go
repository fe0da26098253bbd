// Tilerouter - Adaptive Edge Routing for Map Tiles
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tilerouter

// Package validation provides struct validation using go-playground/validator v10.
//
// It holds a thread-safe singleton validator configured with:
//   - JSON field names in error messages (the names clients actually send)
//   - the "tile_provider" tag for path-safe provider names
//   - a struct-level rule for TileCoordinate (x and y must be below 2^z)
//
// Errors are returned as *RequestValidationError, which converts to the
// gateway's VALIDATION_ERROR response format:
//
//	req := validation.TileCoordinate{Provider: "osm", Z: 3, X: 4, Y: 2}
//	if err := validation.ValidateStruct(&req); err != nil {
//	    apiErr := err.ToAPIError()
//	    respondError(w, r, http.StatusBadRequest, apiErr.Code, apiErr.Message, nil)
//	    return
//	}
package validation
