package httpapi

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

// fieldMessages holds the client-facing message per "Struct.Field|tag".
var fieldMessages = map[string]string{
	"recommendationRequest.Genres|required":    "At least 1 genre is required",
	"recommendationRequest.Genres|min":         "At least 1 genre is required",
	"recommendationRequest.Genres[0]|required": "Genres must not be blank",
	"recommendationRequest.Platform|oneof":     "Platform should be 'pc', 'browser' or 'all'",
	"recommendationRequest.RAMGB|min":          "Ram number must be greater than 0",
	"historyRequest.PageSize|min":              "Page size must be between 1 and 100",
	"historyRequest.PageSize|max":              "Page size must be between 1 and 100",
	"historyRequest.PageNumber|min":            "Page number must be greater than 0",
}

// FieldError is one failed validation rule.
type FieldError struct {
	Field   string
	Tag     string
	Message string
}

// RequestValidationError collects every failed rule of a request.
type RequestValidationError struct {
	Fields []FieldError
}

// Error implements the error interface.
func (ve *RequestValidationError) Error() string {
	if len(ve.Fields) == 0 {
		return "validation failed"
	}
	return strings.Join(ve.Messages(), "; ")
}

// Messages returns the client-facing message of every failed rule.
func (ve *RequestValidationError) Messages() []string {
	out := make([]string, len(ve.Fields))
	for i, f := range ve.Fields {
		out[i] = f.Message
	}
	return out
}

// newFieldError builds a RequestValidationError for a value that could not
// be bound at all, e.g. a non-numeric query parameter.
func newFieldError(field, message string) *RequestValidationError {
	return &RequestValidationError{Fields: []FieldError{{Field: field, Tag: "type", Message: message}}}
}

// getValidator returns the shared validator instance.
func getValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
	})
	return validate
}

// validateStruct runs the struct tags of s and translates failures.
func validateStruct(s any) *RequestValidationError {
	err := getValidator().Struct(s)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return &RequestValidationError{Fields: []FieldError{{Message: err.Error()}}}
	}

	out := &RequestValidationError{Fields: make([]FieldError, 0, len(verrs))}
	for _, fe := range verrs {
		out.Fields = append(out.Fields, FieldError{
			Field:   fe.Field(),
			Tag:     fe.Tag(),
			Message: messageFor(fe),
		})
	}
	return out
}

func messageFor(fe validator.FieldError) string {
	ns := fe.StructNamespace()
	// Slice elements share one message whatever their index.
	if i := strings.Index(ns, "["); i >= 0 {
		ns = ns[:i] + "[0]"
	}
	if msg, ok := fieldMessages[ns+"|"+fe.Tag()]; ok {
		return msg
	}
	return fmt.Sprintf("%s failed on the '%s' rule", fe.Field(), fe.Tag())
}
