// Tilerouter - Adaptive Edge Routing for Map Tiles
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tilerouter

package api

import (
	"fmt"
	"net/http"
	"os"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
)

// Every JSON and tile route carries a swag @Router annotation so the
// generated API docs match the router.
func TestRoutesHaveSwaggerAnnotations(t *testing.T) {
	src, err := os.ReadFile("handlers.go")
	if err != nil {
		t.Fatalf("read handlers.go: %v", err)
	}

	routes, ok := newTestServer(t, &fakeRouter{}, 1).(chi.Routes)
	if !ok {
		t.Fatal("SetupChi() should return chi.Routes")
	}

	seen := 0
	err = chi.Walk(routes, func(method, route string, _ http.Handler, _ ...func(http.Handler) http.Handler) error {
		if route == "/metrics" {
			return nil
		}
		seen++
		want := fmt.Sprintf("@Router %s [%s]", route, strings.ToLower(method))
		if !strings.Contains(string(src), want) {
			t.Errorf("missing annotation %q", want)
		}
		return nil
	})
	if err != nil {
		t.Fatalf("chi.Walk() error = %v", err)
	}
	if seen != 6 {
		t.Errorf("walked %d annotated routes, want 6", seen)
	}
}
