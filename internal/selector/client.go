// Tilerouter - Adaptive Edge Routing for Map Tiles
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tilerouter

package selector

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/goccy/go-json"

	"github.com/tomtom215/tilerouter/internal/config"
	"github.com/tomtom215/tilerouter/internal/edge"
	"github.com/tomtom215/tilerouter/internal/validation"
)

// maxErrorBodySize limits how much of a non-2xx body is kept for errors.
const maxErrorBodySize = 4 * 1024

// HealthCheckPath is sent in the X-Path header to select health mode.
const HealthCheckPath = "/health-check"

// ErrMalformedResponse is returned when a 2xx body cannot be decoded or
// fails validation.
var ErrMalformedResponse = errors.New("malformed selector response")

// StatusError is returned when the service answers with a non-2xx status.
type StatusError struct {
	Mode       string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("selector %s: HTTP %d", e.Mode, e.StatusCode)
	}
	return fmt.Sprintf("selector %s: HTTP %d: %s", e.Mode, e.StatusCode, e.Body)
}

// Client calls the edge-selection function over HTTP.
type Client struct {
	endpoint   string
	httpClient *http.Client
	breaker    *Breaker
}

var _ edge.Selector = (*Client)(nil)

// NewClient creates a selector client. httpClient may be nil, in which case
// a client with cfg.Timeout is used.
func NewClient(cfg *config.SelectorConfig, httpClient *http.Client) (*Client, error) {
	endpoint, err := functionEndpoint(cfg.URL, cfg.Function)
	if err != nil {
		return nil, err
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}
	return &Client{
		endpoint:   endpoint,
		httpClient: httpClient,
		breaker:    NewBreaker(BreakerName, cfg.Breaker),
	}, nil
}

// Breaker exposes the client's circuit breaker.
func (c *Client) Breaker() *Breaker {
	return c.breaker
}

type lookupRequest struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

type replicateRequest struct {
	TileData any      `json:"tileData"`
	Regions  []string `json:"regions"`
}

type replicateResponse struct {
	Results []edge.ReplicationResult `json:"results"`
}

// Lookup returns the edge topology for a location.
func (c *Client) Lookup(ctx context.Context, latitude, longitude float64) (edge.RoutingConfig, error) {
	var cfg edge.RoutingConfig
	if err := c.invoke(ctx, "lookup", lookupRequest{Latitude: latitude, Longitude: longitude}, nil, &cfg); err != nil {
		return edge.RoutingConfig{}, err
	}
	if verr := validation.ValidateStruct(&cfg); verr != nil {
		return edge.RoutingConfig{}, fmt.Errorf("%w: %w", ErrMalformedResponse, verr)
	}
	return cfg, nil
}

// HealthCheck returns the health of every known edge.
func (c *Client) HealthCheck(ctx context.Context) (edge.HealthReport, error) {
	var report edge.HealthReport
	headers := http.Header{"X-Path": []string{HealthCheckPath}}
	if err := c.invoke(ctx, "health", struct{}{}, headers, &report); err != nil {
		return edge.HealthReport{}, err
	}
	return report, nil
}

// Replicate asks the service to push payload to regions.
func (c *Client) Replicate(ctx context.Context, payload any, regions []string) ([]edge.ReplicationResult, error) {
	var resp replicateResponse
	if err := c.invoke(ctx, "replicate", replicateRequest{TileData: payload, Regions: regions}, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Results, nil
}

// invoke performs one POST through the circuit breaker and decodes the
// response into out.
func (c *Client) invoke(ctx context.Context, mode string, body any, headers http.Header, out any) error {
	data, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("marshal %s request: %w", mode, err)
	}

	return c.breaker.Execute(func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(data))
		if err != nil {
			return fmt.Errorf("create %s request: %w", mode, err)
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Accept", "application/json")
		for k, vs := range headers {
			for _, v := range vs {
				req.Header.Add(k, v)
			}
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return fmt.Errorf("selector %s: %w", mode, err)
		}
		defer resp.Body.Close()

		if resp.StatusCode < 200 || resp.StatusCode > 299 {
			return &StatusError{
				Mode:       mode,
				StatusCode: resp.StatusCode,
				Body:       strings.TrimSpace(string(readBodyForError(resp.Body))),
			}
		}

		if err := decodeJSONResponse(resp, out); err != nil {
			return fmt.Errorf("%w: %s: %w", ErrMalformedResponse, mode, err)
		}
		return nil
	})
}

func decodeJSONResponse(resp *http.Response, result any) error {
	decoder := json.NewDecoder(resp.Body)
	return decoder.Decode(result)
}

// readBodyForError reads at most maxErrorBodySize bytes of an error body.
func readBodyForError(r io.Reader) []byte {
	body, err := io.ReadAll(io.LimitReader(r, maxErrorBodySize))
	if err != nil {
		return []byte("(failed to read response body)")
	}
	if len(body) == maxErrorBodySize {
		return append(body, []byte("... (truncated)")...)
	}
	return body
}

// functionEndpoint builds {base}/functions/v1/{function}.
func functionEndpoint(base, function string) (string, error) {
	if base == "" {
		return "", errors.New("selector URL is required")
	}
	if function == "" {
		return "", errors.New("selector function is required")
	}
	u, err := url.Parse(base)
	if err != nil {
		return "", fmt.Errorf("invalid selector URL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return "", fmt.Errorf("invalid selector URL scheme %q", u.Scheme)
	}
	return u.JoinPath("functions", "v1", function).String(), nil
}
