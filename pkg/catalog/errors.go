package catalog

import (
	"errors"
	"fmt"
)

// Common errors returned by the catalog client.
var (
	// ErrNoMatches is returned when the upstream reports no games for a filter.
	ErrNoMatches = errors.New("no games match the filter")

	// ErrUnavailable is returned when the upstream cannot be reached,
	// answers with an unexpected status or sends an unreadable body.
	ErrUnavailable = errors.New("catalog unavailable")
)

// ErrorClass represents a classification of upstream failures.
type ErrorClass string

const (
	// ErrorClassClient represents 4xx client errors.
	ErrorClassClient ErrorClass = "client"

	// ErrorClassServer represents 5xx server errors.
	ErrorClassServer ErrorClass = "server"

	// ErrorClassNetwork represents network/timeout errors.
	ErrorClassNetwork ErrorClass = "network"

	// ErrorClassDecode represents bodies that could not be decoded.
	ErrorClassDecode ErrorClass = "decode"

	// ErrorClassBreakerOpen represents calls rejected by the circuit breaker.
	ErrorClassBreakerOpen ErrorClass = "breaker_open"
)

// Error is an upstream failure with additional context.
// Every *Error matches ErrUnavailable.
type Error struct {
	Endpoint   string
	StatusCode int
	ErrorClass ErrorClass
	Message    string
	Err        error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("catalog %s error on %s (status %d): %s: %v",
			e.ErrorClass, e.Endpoint, e.StatusCode, e.Message, e.Err)
	}
	return fmt.Sprintf("catalog %s error on %s (status %d): %s",
		e.ErrorClass, e.Endpoint, e.StatusCode, e.Message)
}

// Unwrap implements error unwrapping for errors.Is/As.
func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports whether target is ErrUnavailable.
func (e *Error) Is(target error) bool {
	return target == ErrUnavailable
}
