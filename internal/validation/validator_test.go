// Tilerouter - Adaptive Edge Routing for Map Tiles
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tilerouter

package validation

import (
	"strings"
	"testing"
)

func TestValidateStruct_TileCoordinate(t *testing.T) {
	tests := []struct {
		name      string
		tile      TileCoordinate
		wantField string
		wantTag   string
	}{
		{name: "valid", tile: TileCoordinate{Provider: "osm", Z: 3, X: 7, Y: 0}},
		{name: "zoom zero origin", tile: TileCoordinate{Provider: "osm", Z: 0, X: 0, Y: 0}},
		{name: "provider with dash", tile: TileCoordinate{Provider: "open-topo_2", Z: 1, X: 1, Y: 1}},
		{name: "x outside grid", tile: TileCoordinate{Provider: "osm", Z: 3, X: 8, Y: 0}, wantField: "x", wantTag: "tile_range"},
		{name: "y outside grid", tile: TileCoordinate{Provider: "osm", Z: 0, X: 0, Y: 1}, wantField: "y", wantTag: "tile_range"},
		{name: "negative x", tile: TileCoordinate{Provider: "osm", Z: 2, X: -1, Y: 0}, wantField: "x", wantTag: "min"},
		{name: "zoom too deep", tile: TileCoordinate{Provider: "osm", Z: 25}, wantField: "z", wantTag: "max"},
		{name: "missing provider", tile: TileCoordinate{Z: 1}, wantField: "provider", wantTag: "required"},
		{name: "provider path traversal", tile: TileCoordinate{Provider: "../etc", Z: 1}, wantField: "provider", wantTag: "tile_provider"},
		{name: "uppercase provider", tile: TileCoordinate{Provider: "OSM", Z: 1}, wantField: "provider", wantTag: "tile_provider"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateStruct(&tt.tile)
			if tt.wantField == "" {
				if err != nil {
					t.Fatalf("ValidateStruct() = %v, want nil", err)
				}
				return
			}
			if err == nil {
				t.Fatal("ValidateStruct() = nil, want error")
			}
			first := err.Errors()[0]
			if first.Field() != tt.wantField || first.Tag() != tt.wantTag {
				t.Errorf("first error = %s/%s, want %s/%s (%v)", first.Field(), first.Tag(), tt.wantField, tt.wantTag, err)
			}
		})
	}
}

func TestToAPIError(t *testing.T) {
	type request struct {
		Regions []string `json:"regions" validate:"required,min=1"`
		Name    string   `json:"name" validate:"required"`
	}

	err := ValidateStruct(&request{Regions: []string{}})
	if err == nil {
		t.Fatal("expected validation error")
	}

	apiErr := err.ToAPIError()
	if apiErr.Code != "VALIDATION_ERROR" {
		t.Errorf("Code = %s", apiErr.Code)
	}
	if !strings.Contains(apiErr.Message, "regions must be at least 1 items") {
		t.Errorf("Message = %q", apiErr.Message)
	}
	if !strings.Contains(apiErr.Message, "name is required") {
		t.Errorf("Message = %q", apiErr.Message)
	}
	if fields, ok := apiErr.Details["fields"].([]map[string]any); !ok || len(fields) != 2 {
		t.Errorf("Details = %v", apiErr.Details)
	}
}

func TestToAPIError_Single(t *testing.T) {
	err := ValidateStruct(&TileCoordinate{Provider: "osm", Z: 1, X: 5})
	if err == nil {
		t.Fatal("expected validation error")
	}
	apiErr := err.ToAPIError()
	if apiErr.Message != "x must be between 0 and 1 for this zoom level" {
		t.Errorf("Message = %q", apiErr.Message)
	}
	if apiErr.Details["field"] != "x" {
		t.Errorf("Details = %v", apiErr.Details)
	}
}

func TestGetValidator_Singleton(t *testing.T) {
	if GetValidator() != GetValidator() {
		t.Error("GetValidator() should return the same instance")
	}
}
