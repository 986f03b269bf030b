package httpapi

import (
	"context"
	"errors"
	"net/http"

	"github.com/Sternrassler/game-picker/pkg/recommend"
	"github.com/goccy/go-json"
	"github.com/rs/zerolog"
)

// Response is the envelope of every API response.
type Response struct {
	Data       any      `json:"data"`
	Message    string   `json:"message,omitempty"`
	Errors     []string `json:"errors,omitempty"`
	StatusCode int      `json:"status_code"`
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	data, err := json.Marshal(body)
	if err != nil {
		http.Error(w, `{"message":"An unexpected error occurred","status_code":500}`, http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write(data)
}

func writeSuccess(w http.ResponseWriter, data any) {
	writeJSON(w, http.StatusOK, Response{Data: data, StatusCode: http.StatusOK})
}

// writeError maps err to a status and writes the error envelope.
// Unexpected errors are logged; their text never reaches the client.
func writeError(w http.ResponseWriter, logger zerolog.Logger, err error) {
	var verr *RequestValidationError

	switch {
	case errors.As(err, &verr):
		writeJSON(w, http.StatusBadRequest, Response{
			Message:    "Validation failed",
			Errors:     verr.Messages(),
			StatusCode: http.StatusBadRequest,
		})
	case errors.Is(err, recommend.ErrInvalidInput):
		writeJSON(w, http.StatusBadRequest, Response{
			Message:    err.Error(),
			StatusCode: http.StatusBadRequest,
		})
	case errors.Is(err, recommend.ErrNotFound):
		writeJSON(w, http.StatusNotFound, Response{
			Message:    err.Error(),
			StatusCode: http.StatusNotFound,
		})
	case errors.Is(err, recommend.ErrExternalFailure):
		logger.Warn().Err(err).Msg("Catalog failure")
		writeJSON(w, http.StatusBadGateway, Response{
			Message:    "External service error",
			StatusCode: http.StatusBadGateway,
		})
	case errors.Is(err, context.Canceled):
		logger.Debug().Err(err).Msg("Request canceled by client")
		writeJSON(w, http.StatusInternalServerError, Response{
			Message:    "An unexpected error occurred",
			StatusCode: http.StatusInternalServerError,
		})
	default:
		logger.Error().Err(err).Msg("Unexpected error")
		writeJSON(w, http.StatusInternalServerError, Response{
			Message:    "An unexpected error occurred",
			StatusCode: http.StatusInternalServerError,
		})
	}
}
