package httpapi

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/Sternrassler/game-picker/pkg/recommend"
	"github.com/goccy/go-json"
	"github.com/rs/zerolog"
)

const (
	defaultPageSize   = 10
	defaultPageNumber = 1
	defaultSortBy     = "Title"
	defaultSortOrder  = "asc"

	maxBodyBytes = 64 << 10

	readyTimeout = 2 * time.Second
)

// Engine is the recommendation surface served over HTTP.
// *recommend.Engine implements it.
type Engine interface {
	PickRecommendation(ctx context.Context, f recommend.Filter) (*recommend.Recommendation, error)
	GetHistory(ctx context.Context, q recommend.HistoryQuery) (*recommend.HistoryPage, error)
}

type recommendationRequest struct {
	Genres   []string `json:"genres" validate:"required,min=1,dive,required"`
	Platform string   `json:"platform" validate:"omitempty,oneof=pc browser all"`
	RAMGB    *int     `json:"ram_gb" validate:"omitempty,min=1"`
}

// normalize trims genres and lowercases the platform before validation,
// matching the case-insensitive platform rule.
func (r *recommendationRequest) normalize() {
	for i, g := range r.Genres {
		r.Genres[i] = strings.TrimSpace(g)
	}
	r.Platform = strings.ToLower(strings.TrimSpace(r.Platform))
}

type historyRequest struct {
	PageSize   int `validate:"min=1,max=100"`
	PageNumber int `validate:"min=1"`
	SortBy     string
	SortOrder  string
}

type handler struct {
	engine Engine
	ready  func(ctx context.Context) error
	logger zerolog.Logger
}

func (h *handler) pickRecommendation(w http.ResponseWriter, r *http.Request) {
	var req recommendationRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, h.logger, err)
		return
	}
	req.normalize()
	if verr := validateStruct(&req); verr != nil {
		writeError(w, h.logger, verr)
		return
	}

	rec, err := h.engine.PickRecommendation(r.Context(), recommend.Filter{
		Genres:   req.Genres,
		Platform: req.Platform,
		RAMGB:    req.RAMGB,
	})
	if err != nil {
		writeError(w, requestLogger(r, h.logger), err)
		return
	}

	writeSuccess(w, rec)
}

func (h *handler) getHistory(w http.ResponseWriter, r *http.Request) {
	req, err := parseHistoryRequest(r)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	if verr := validateStruct(req); verr != nil {
		writeError(w, h.logger, verr)
		return
	}

	page, err := h.engine.GetHistory(r.Context(), recommend.HistoryQuery{
		PageSize:   req.PageSize,
		PageNumber: req.PageNumber,
		SortBy:     req.SortBy,
		SortOrder:  req.SortOrder,
	})
	if err != nil {
		writeError(w, requestLogger(r, h.logger), err)
		return
	}

	writeSuccess(w, page)
}

func (h *handler) health(w http.ResponseWriter, _ *http.Request) {
	writeSuccess(w, map[string]string{"status": "ok"})
}

func (h *handler) readiness(w http.ResponseWriter, r *http.Request) {
	if h.ready != nil {
		ctx, cancel := context.WithTimeout(r.Context(), readyTimeout)
		defer cancel()
		if err := h.ready(ctx); err != nil {
			reqLogger := requestLogger(r, h.logger)
			reqLogger.Warn().Err(err).Msg("Readiness check failed")
			writeJSON(w, http.StatusServiceUnavailable, Response{
				Message:    "Service unavailable",
				StatusCode: http.StatusServiceUnavailable,
			})
			return
		}
	}
	writeSuccess(w, map[string]string{"status": "ready"})
}

func decodeBody(r *http.Request, dst any) error {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		return newFieldError("body", "Request body could not be read")
	}
	if len(strings.TrimSpace(string(body))) == 0 {
		return newFieldError("body", "Request body is required")
	}
	if err := json.Unmarshal(body, dst); err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) && typeErr.Field != "" {
			return newFieldError(typeErr.Field, "Field '"+typeErr.Field+"' has an invalid type")
		}
		return newFieldError("body", "Request body is not valid JSON")
	}
	return nil
}

func parseHistoryRequest(r *http.Request) (*historyRequest, error) {
	q := r.URL.Query()
	req := &historyRequest{
		PageSize:   defaultPageSize,
		PageNumber: defaultPageNumber,
		SortBy:     defaultSortBy,
		SortOrder:  defaultSortOrder,
	}

	if v := q.Get("page_size"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return nil, newFieldError("page_size", "Page size must be between 1 and 100")
		}
		req.PageSize = n
	}
	if v := q.Get("page_number"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return nil, newFieldError("page_number", "Page number must be greater than 0")
		}
		req.PageNumber = n
	}
	if v := strings.TrimSpace(q.Get("sort_by")); v != "" {
		req.SortBy = v
	}
	if v := strings.TrimSpace(q.Get("sort_order")); v != "" {
		req.SortOrder = v
	}
	return req, nil
}
