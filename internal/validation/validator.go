// Bullpen - Relief Pitcher Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bullpen

package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	"github.com/tomtom215/bullpen/internal/models"
)

// singleton validator instance
var (
	validate     *validator.Validate
	validateOnce sync.Once
)

// FieldError is a single field validation failure.
type FieldError struct {
	Field   string      `json:"field"`
	Tag     string      `json:"tag"`
	Param   string      `json:"param,omitempty"`
	Value   interface{} `json:"value,omitempty"`
	Message string      `json:"message"`
}

// Error returns a human-readable error message.
func (e FieldError) Error() string {
	return e.Message
}

// RequestValidationError collects the field failures of one request body.
type RequestValidationError struct {
	errors []FieldError
}

// Errors returns the field failures in struct order.
func (ve *RequestValidationError) Errors() []FieldError {
	return ve.errors
}

// Error implements the error interface, returning a combined error message.
func (ve *RequestValidationError) Error() string {
	if len(ve.errors) == 0 {
		return "validation failed"
	}

	messages := make([]string, len(ve.errors))
	for i, err := range ve.errors {
		messages[i] = err.Message
	}
	return strings.Join(messages, "; ")
}

// Details returns the failures in the shape used by the API error envelope.
func (ve *RequestValidationError) Details() map[string]interface{} {
	if len(ve.errors) == 1 {
		e := ve.errors[0]
		return map[string]interface{}{"field": e.Field, "tag": e.Tag, "value": e.Value}
	}
	return map[string]interface{}{"fields": ve.errors}
}

// GetValidator returns the singleton validator instance.
// Field names in errors follow the json tags so clients see the names they sent.
func GetValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())

		validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			if name == "" {
				return fld.Name
			}
			return name
		})

		// Registration only fails for an empty tag or nil func.
		_ = validate.RegisterValidation("base_state", validateBaseState)
		_ = validate.RegisterValidation("pitcher_hand", validatePitcherHand)
		_ = validate.RegisterValidation("batter_hand", validateBatterHand)
	})

	return validate
}

func validateBaseState(fl validator.FieldLevel) bool {
	_, err := models.ParseBaseState(fl.Field().String())
	return err == nil
}

func validatePitcherHand(fl validator.FieldLevel) bool {
	return models.Handedness(fl.Field().String()).ValidPitcher()
}

func validateBatterHand(fl validator.FieldLevel) bool {
	return models.Handedness(fl.Field().String()).ValidBatter()
}

// ValidateStruct validates a struct using the singleton validator.
// Returns nil if validation passes, or *RequestValidationError if validation fails.
func ValidateStruct(s interface{}) *RequestValidationError {
	err := GetValidator().Struct(s)
	if err == nil {
		return nil
	}

	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		return &RequestValidationError{
			errors: []FieldError{{Field: "unknown", Tag: "unknown", Message: err.Error()}},
		}
	}

	fieldErrors := make([]FieldError, len(validationErrs))
	for i, fe := range validationErrs {
		field := fieldPath(fe)
		fieldErrors[i] = FieldError{
			Field:   field,
			Tag:     fe.Tag(),
			Param:   fe.Param(),
			Value:   fe.Value(),
			Message: translateError(fe, field),
		}
	}

	return &RequestValidationError{errors: fieldErrors}
}

// fieldPath strips the root struct name from the namespace:
// RecommendRequest.bullpen[1].rest_days -> bullpen[1].rest_days
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.IndexByte(ns, '.'); i >= 0 {
		return ns[i+1:]
	}
	return fe.Field()
}

var errorMessageTemplates = map[string]string{
	"required":     "%s is required",
	"base_state":   "%s must be one of: ---, 1--, -2-, --3, 12-, 1-3, -23, 123",
	"pitcher_hand": "%s must be L or R",
	"batter_hand":  "%s must be L, R or S",
}

var errorMessageWithParam = map[string]string{
	"oneof": "%s must be one of: %s",
	"gte":   "%s must be greater than or equal to %s",
	"lte":   "%s must be less than or equal to %s",
	"gt":    "%s must be greater than %s",
	"lt":    "%s must be less than %s",
	"min":   "%s must be at least %s",
	"max":   "%s must be at most %s",
}

func translateError(fe validator.FieldError, field string) string {
	tag := fe.Tag()

	if template, ok := errorMessageTemplates[tag]; ok {
		return fmt.Sprintf(template, field)
	}

	if template, ok := errorMessageWithParam[tag]; ok {
		if (tag == "min" || tag == "max") && fe.Kind() == reflect.Slice {
			return fmt.Sprintf("%s must have %s %s entries", field, minMaxWord(tag), fe.Param())
		}
		if (tag == "min" || tag == "max") && fe.Kind() == reflect.String {
			return fmt.Sprintf("%s must be %s %s characters", field, minMaxWord(tag), fe.Param())
		}
		return fmt.Sprintf(template, field, fe.Param())
	}

	return fmt.Sprintf("%s failed %s validation", field, tag)
}

func minMaxWord(tag string) string {
	if tag == "min" {
		return "at least"
	}
	return "at most"
}
