// Tilerouter - Adaptive Edge Routing for Map Tiles
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tilerouter

package validation

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

// MaxZoom is the deepest zoom level the gateway accepts.
const MaxZoom = 24

var (
	validate     *validator.Validate
	validateOnce sync.Once

	providerPattern = regexp.MustCompile(`^[a-z0-9][a-z0-9_-]{0,63}$`)
)

// TileCoordinate identifies one slippy-map tile.
type TileCoordinate struct {
	Provider string `json:"provider" validate:"required,tile_provider"`
	Z        int    `json:"z" validate:"min=0,max=24"`
	X        int    `json:"x" validate:"min=0"`
	Y        int    `json:"y" validate:"min=0"`
}

// ValidationError is a single field failure.
type ValidationError struct {
	field   string
	tag     string
	param   string
	value   any
	message string
}

// Field returns the JSON name of the failing field.
func (e *ValidationError) Field() string { return e.field }

// Tag returns the failing validation tag.
func (e *ValidationError) Tag() string { return e.tag }

// Param returns the tag parameter, e.g. "1" for "min=1".
func (e *ValidationError) Param() string { return e.param }

// Value returns the rejected value.
func (e *ValidationError) Value() any { return e.value }

func (e *ValidationError) Error() string { return e.message }

// RequestValidationError collects every field failure of one struct.
type RequestValidationError struct {
	errors []ValidationError
}

// Errors returns the individual field failures.
func (ve *RequestValidationError) Errors() []ValidationError {
	return ve.errors
}

func (ve *RequestValidationError) Error() string {
	if len(ve.errors) == 0 {
		return "validation failed"
	}
	messages := make([]string, len(ve.errors))
	for i := range ve.errors {
		messages[i] = ve.errors[i].message
	}
	return strings.Join(messages, "; ")
}

// APIError mirrors the gateway's error body without importing it.
type APIError struct {
	Code    string
	Message string
	Details map[string]any
}

// ToAPIError converts the failures to a VALIDATION_ERROR.
func (ve *RequestValidationError) ToAPIError() *APIError {
	switch len(ve.errors) {
	case 0:
		return &APIError{Code: "VALIDATION_ERROR", Message: "Validation failed"}
	case 1:
		err := ve.errors[0]
		return &APIError{
			Code:    "VALIDATION_ERROR",
			Message: err.message,
			Details: map[string]any{"field": err.field, "tag": err.tag, "value": err.value},
		}
	}

	fields := make([]map[string]any, len(ve.errors))
	for i, err := range ve.errors {
		fields[i] = map[string]any{"field": err.field, "tag": err.tag, "message": err.message}
	}
	return &APIError{
		Code:    "VALIDATION_ERROR",
		Message: ve.Error(),
		Details: map[string]any{"fields": fields},
	}
}

// GetValidator returns the singleton validator.
func GetValidator() *validator.Validate {
	validateOnce.Do(func() {
		v := validator.New(validator.WithRequiredStructEnabled())

		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
			if name == "-" {
				return ""
			}
			if name == "" {
				return fld.Name
			}
			return name
		})

		// Registration only fails for an empty tag or nil func.
		_ = v.RegisterValidation("tile_provider", func(fl validator.FieldLevel) bool {
			return IsTileProvider(fl.Field().String())
		})

		v.RegisterStructValidation(validateTileRange, TileCoordinate{})

		validate = v
	})
	return validate
}

// IsTileProvider reports whether name can be used as a single tile URL
// path segment: lowercase letters, digits, '-' and '_', at most 64 bytes.
func IsTileProvider(name string) bool {
	return providerPattern.MatchString(name)
}

// validateTileRange rejects x or y outside the 2^z grid.
func validateTileRange(sl validator.StructLevel) {
	tc, ok := sl.Current().Interface().(TileCoordinate)
	if !ok || tc.Z < 0 || tc.Z > MaxZoom {
		return
	}
	size := 1 << tc.Z
	if tc.X >= size {
		sl.ReportError(tc.X, "x", "X", "tile_range", fmt.Sprint(size-1))
	}
	if tc.Y >= size {
		sl.ReportError(tc.Y, "y", "Y", "tile_range", fmt.Sprint(size-1))
	}
}

// ValidateStruct validates s and returns nil or a *RequestValidationError.
func ValidateStruct(s any) *RequestValidationError {
	err := GetValidator().Struct(s)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return &RequestValidationError{errors: []ValidationError{{
			field:   "unknown",
			tag:     "unknown",
			message: err.Error(),
		}}}
	}

	out := make([]ValidationError, len(fieldErrs))
	for i, fe := range fieldErrs {
		out[i] = ValidationError{
			field:   fe.Field(),
			tag:     fe.Tag(),
			param:   fe.Param(),
			value:   fe.Value(),
			message: translateError(fe),
		}
	}
	return &RequestValidationError{errors: out}
}

var errorMessageTemplates = map[string]string{
	"required":      "%s is required",
	"http_url":      "%s must be an http or https URL",
	"tile_provider": "%s must be a lowercase provider name (letters, digits, - and _)",
}

var errorMessageWithParam = map[string]string{
	"tile_range": "%s must be between 0 and %s for this zoom level",
	"oneof":      "%s must be one of: %s",
	"gte":        "%s must be greater than or equal to %s",
	"lte":        "%s must be less than or equal to %s",
}

func translateError(fe validator.FieldError) string {
	field, tag, param := fe.Field(), fe.Tag(), fe.Param()

	if template, ok := errorMessageTemplates[tag]; ok {
		return fmt.Sprintf(template, field)
	}
	if template, ok := errorMessageWithParam[tag]; ok {
		return fmt.Sprintf(template, field, param)
	}
	return translateMinMax(fe, field, tag, param)
}

// translateMinMax words min/max by kind: characters for strings, items for
// slices, plain numbers otherwise.
func translateMinMax(fe validator.FieldError, field, tag, param string) string {
	unit := ""
	switch fe.Kind() {
	case reflect.String:
		unit = " characters"
	case reflect.Slice, reflect.Array, reflect.Map:
		unit = " items"
	}

	switch tag {
	case "min":
		return fmt.Sprintf("%s must be at least %s%s", field, param, unit)
	case "max":
		return fmt.Sprintf("%s must be at most %s%s", field, param, unit)
	default:
		return fmt.Sprintf("%s failed %s validation", field, tag)
	}
}
