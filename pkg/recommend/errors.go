package recommend

import "errors"

// Errors returned by the engine. Callers map them to transport statuses.
var (
	// ErrNotFound means no eligible game exists for the filter.
	ErrNotFound = errors.New("no eligible game found")

	// ErrExternalFailure means the catalog was unreachable or answered
	// with an error status.
	ErrExternalFailure = errors.New("external catalog failure")

	// ErrInvalidInput means the request broke an operation precondition.
	ErrInvalidInput = errors.New("invalid input")
)
