// Tilerouter - Adaptive Edge Routing for Map Tiles
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tilerouter

package selector

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/goccy/go-json"
	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/tomtom215/tilerouter/internal/config"
)

func testSelectorConfig(url string) *config.SelectorConfig {
	return &config.SelectorConfig{
		URL:      url,
		Function: "cdn-edge-router",
		Timeout:  2 * time.Second,
		Breaker: config.BreakerConfig{
			MaxRequests:  1,
			Interval:     time.Minute,
			OpenTimeout:  time.Minute,
			MinRequests:  2,
			FailureRatio: 0.5,
		},
	}
}

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := NewClient(testSelectorConfig(server.URL), server.Client())
	if err != nil {
		t.Fatalf("NewClient() error = %v", err)
	}
	return client
}

func TestClient_Lookup(t *testing.T) {
	var gotBody map[string]float64
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method = %s, want POST", r.Method)
		}
		if r.URL.Path != "/functions/v1/cdn-edge-router" {
			t.Errorf("path = %s", r.URL.Path)
		}
		if r.Header.Get("X-Path") != "" {
			t.Errorf("lookup must not set X-Path, got %q", r.Header.Get("X-Path"))
		}
		if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
			t.Errorf("decode body: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{
			"primary": "https://edge-a.example.com",
			"fallback": "https://edge-b.example.com",
			"allEdges": [
				{"region": "us-west", "url": "https://edge-a.example.com", "distance": 120.5},
				{"region": "us-east", "url": "https://edge-b.example.com"}
			],
			"timestamp": "2026-03-01T12:00:00Z"
		}`)
	})

	cfg, err := client.Lookup(context.Background(), 37.77, -122.42)
	if err != nil {
		t.Fatalf("Lookup() error = %v", err)
	}

	if gotBody["latitude"] != 37.77 || gotBody["longitude"] != -122.42 {
		t.Errorf("request body = %v", gotBody)
	}
	if cfg.Primary != "https://edge-a.example.com" || cfg.Fallback != "https://edge-b.example.com" {
		t.Errorf("primary/fallback = %s/%s", cfg.Primary, cfg.Fallback)
	}
	if len(cfg.AllEdges) != 2 {
		t.Fatalf("AllEdges len = %d, want 2", len(cfg.AllEdges))
	}
	if cfg.AllEdges[0].Distance == nil || *cfg.AllEdges[0].Distance != 120.5 {
		t.Errorf("AllEdges[0].Distance = %v", cfg.AllEdges[0].Distance)
	}
	if cfg.AllEdges[1].Distance != nil {
		t.Errorf("AllEdges[1].Distance should be absent")
	}
	if !cfg.FetchedAt.Equal(time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)) {
		t.Errorf("FetchedAt = %v", cfg.FetchedAt)
	}
}

func TestClient_Lookup_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantErr func(error) bool
	}{
		{
			name:   "missing fallback",
			status: http.StatusOK,
			body:   `{"primary":"https://edge-a.example.com","allEdges":[]}`,
			wantErr: func(err error) bool {
				return errors.Is(err, ErrMalformedResponse)
			},
		},
		{
			name:   "primary not a URL",
			status: http.StatusOK,
			body:   `{"primary":"edge-a","fallback":"https://edge-b.example.com"}`,
			wantErr: func(err error) bool {
				return errors.Is(err, ErrMalformedResponse)
			},
		},
		{
			name:   "undecodable body",
			status: http.StatusOK,
			body:   `<html>`,
			wantErr: func(err error) bool {
				return errors.Is(err, ErrMalformedResponse)
			},
		},
		{
			name:   "server error",
			status: http.StatusInternalServerError,
			body:   "boom\n",
			wantErr: func(err error) bool {
				var se *StatusError
				return errors.As(err, &se) && se.StatusCode == 500 && se.Body == "boom" && se.Mode == "lookup"
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = io.WriteString(w, tt.body)
			})

			_, err := client.Lookup(context.Background(), 0, 0)
			if err == nil {
				t.Fatal("Lookup() expected error")
			}
			if !tt.wantErr(err) {
				t.Errorf("Lookup() error = %v", err)
			}
		})
	}
}

func TestClient_HealthCheck(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("X-Path"); got != HealthCheckPath {
			t.Errorf("X-Path = %q, want %q", got, HealthCheckPath)
		}
		body, _ := io.ReadAll(r.Body)
		if strings.TrimSpace(string(body)) != "{}" {
			t.Errorf("health body = %s, want {}", body)
		}
		_, _ = io.WriteString(w, `{"edges":[
			{"region":"eu","url":"https://edge-c.example.com","healthy":true,"distance":10},
			{"region":"us","url":"https://edge-d.example.com","healthy":false}
		]}`)
	})

	report, err := client.HealthCheck(context.Background())
	if err != nil {
		t.Fatalf("HealthCheck() error = %v", err)
	}
	if len(report.Edges) != 2 {
		t.Fatalf("edges = %d, want 2", len(report.Edges))
	}
	if report.Edges[0].Healthy == nil || !*report.Edges[0].Healthy {
		t.Error("edge 0 should be healthy")
	}
	if report.Edges[1].Healthy == nil || *report.Edges[1].Healthy {
		t.Error("edge 1 should be unhealthy")
	}
}

func TestClient_Replicate(t *testing.T) {
	var got struct {
		TileData map[string]string `json:"tileData"`
		Regions  []string          `json:"regions"`
	}
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode body: %v", err)
		}
		_, _ = io.WriteString(w, `{"results":[
			{"region":"us-west","success":true},
			{"region":"eu-central","success":false,"error":"quota exceeded"}
		]}`)
	})

	results, err := client.Replicate(context.Background(), map[string]string{"key": "osm/3/4/2"}, []string{"us-west", "eu-central"})
	if err != nil {
		t.Fatalf("Replicate() error = %v", err)
	}

	if got.TileData["key"] != "osm/3/4/2" || len(got.Regions) != 2 {
		t.Errorf("request = %+v", got)
	}
	if len(results) != 2 {
		t.Fatalf("results = %d, want 2", len(results))
	}
	if !results[0].Success || results[1].Success || results[1].Error != "quota exceeded" {
		t.Errorf("results = %+v", results)
	}
}

func TestClient_BreakerOpens(t *testing.T) {
	var calls atomic.Int32
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusBadGateway)
	})

	for i := 0; i < 2; i++ {
		if _, err := client.HealthCheck(context.Background()); err == nil {
			t.Fatalf("call %d: expected error", i)
		}
	}

	if state := client.Breaker().State(); state != gobreaker.StateOpen {
		t.Fatalf("breaker state = %v, want open", state)
	}

	_, err := client.HealthCheck(context.Background())
	if !errors.Is(err, gobreaker.ErrOpenState) {
		t.Errorf("expected ErrOpenState, got %v", err)
	}
	if calls.Load() != 2 {
		t.Errorf("server saw %d calls, want 2", calls.Load())
	}
}

func TestClient_CanceledContextDoesNotTrip(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"edges":[]}`)
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	for i := 0; i < 3; i++ {
		if _, err := client.HealthCheck(ctx); !errors.Is(err, context.Canceled) {
			t.Fatalf("call %d: error = %v, want context.Canceled", i, err)
		}
	}
	if state := client.Breaker().State(); state != gobreaker.StateClosed {
		t.Errorf("breaker state = %v, want closed", state)
	}
}

func TestNewClient_InvalidEndpoint(t *testing.T) {
	tests := []struct {
		name     string
		url      string
		function string
	}{
		{"empty url", "", "cdn-edge-router"},
		{"empty function", "https://fn.example.com", ""},
		{"bad scheme", "ftp://fn.example.com", "cdn-edge-router"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testSelectorConfig(tt.url)
			cfg.Function = tt.function
			if _, err := NewClient(cfg, nil); err == nil {
				t.Error("NewClient() expected error")
			}
		})
	}
}

func TestFunctionEndpoint(t *testing.T) {
	got, err := functionEndpoint("https://fn.example.com/base/", "cdn-edge-router")
	if err != nil {
		t.Fatalf("functionEndpoint() error = %v", err)
	}
	if want := "https://fn.example.com/base/functions/v1/cdn-edge-router"; got != want {
		t.Errorf("functionEndpoint() = %s, want %s", got, want)
	}
}

func TestReadBodyForError_Truncates(t *testing.T) {
	body := readBodyForError(strings.NewReader(strings.Repeat("x", maxErrorBodySize*2)))
	if !strings.HasSuffix(string(body), "(truncated)") {
		t.Error("expected truncation marker")
	}
}
