// Tilerouter - Adaptive Edge Routing for Map Tiles
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tilerouter

package api

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/tilerouter/internal/logging"
	"github.com/tomtom215/tilerouter/internal/validation"
)

// Error codes returned in APIError.Code.
const (
	CodeValidation     = "VALIDATION_ERROR"
	CodeInvalidBody    = "INVALID_BODY"
	CodeEdgesExhausted = "EDGES_EXHAUSTED"
	CodeSelectorFailed = "SELECTOR_FAILED"
	CodeRateLimited    = "RATE_LIMITED"
	CodeInternal       = "INTERNAL_ERROR"
)

// APIResponse is the envelope for every JSON response.
type APIResponse struct {
	Status   string    `json:"status"`
	Data     any       `json:"data"`
	Metadata Metadata  `json:"metadata"`
	Error    *APIError `json:"error,omitempty"`
}

// Metadata accompanies every response.
type Metadata struct {
	Timestamp time.Time `json:"timestamp"`
	RequestID string    `json:"request_id,omitempty"`
}

// APIError describes a failed request.
type APIError struct {
	Code    string         `json:"code"`
	Message string         `json:"message"`
	Details map[string]any `json:"details,omitempty"`
}

// sanitizeLogValue escapes control characters so request-derived values
// cannot forge log lines.
func sanitizeLogValue(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if r < 0x20 || r == 0x7F {
			fmt.Fprintf(&b, "\\x%02x", r)
		} else {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func respondJSON(w http.ResponseWriter, status int, response *APIResponse) {
	data, err := json.Marshal(response)
	if err != nil {
		logging.Error().Err(err).Msg("Failed to marshal JSON response")
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	if _, err := w.Write(data); err != nil {
		logging.Error().Err(err).Msg("Failed to write JSON response")
	}
}

func respondData(w http.ResponseWriter, r *http.Request, data any) {
	respondJSON(w, http.StatusOK, &APIResponse{
		Status:   "success",
		Data:     data,
		Metadata: newMetadata(r),
	})
}

func respondError(w http.ResponseWriter, r *http.Request, status int, code, message string, err error) {
	respondAPIError(w, r, status, &APIError{Code: code, Message: message}, err)
}

func respondAPIError(w http.ResponseWriter, r *http.Request, status int, apiErr *APIError, err error) {
	if err != nil {
		logging.Ctx(r.Context()).Warn().
			Str("code", apiErr.Code).
			Str("path", sanitizeLogValue(r.URL.Path)).
			Str("error", sanitizeLogValue(err.Error())).
			Msg("API error")
	}

	respondJSON(w, status, &APIResponse{
		Status:   "error",
		Metadata: newMetadata(r),
		Error:    apiErr,
	})
}

func newMetadata(r *http.Request) Metadata {
	return Metadata{
		Timestamp: time.Now().UTC(),
		RequestID: logging.RequestIDFromContext(r.Context()),
	}
}

// validateRequest returns nil or a VALIDATION_ERROR ready to send.
func validateRequest(v any) *APIError {
	validationErr := validation.ValidateStruct(v)
	if validationErr == nil {
		return nil
	}

	apiErr := validationErr.ToAPIError()
	return &APIError{
		Code:    apiErr.Code,
		Message: apiErr.Message,
		Details: apiErr.Details,
	}
}
