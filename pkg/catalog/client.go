// Package catalog provides the FreeToGame HTTP client used to look up
// candidate games and their hardware requirements.
package catalog

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	gobreaker "github.com/sony/gobreaker/v2"
)

const (
	endpointFilter = "/api/filter"
	endpointGame   = "/api/game"

	// maxBodyBytes caps how much of an upstream body is read.
	maxBodyBytes = 8 << 20
)

// Bodies the upstream sends instead of an empty list.
var noMatchMarkers = []string{
	"no active giveaways available",
	"no games found",
}

// Client talks to the FreeToGame API.
type Client struct {
	httpClient *http.Client
	baseURL    *url.URL
	breaker    *gobreaker.CircuitBreaker[fetchResult]
	config     Config
	logger     zerolog.Logger
}

// Config holds the client configuration.
type Config struct {
	// BaseURL of the FreeToGame API, without the /api suffix.
	BaseURL string

	// User-Agent header sent with every request.
	UserAgent string

	// Timeout bounds each upstream request.
	Timeout time.Duration

	// Breaker guards the upstream against repeated failures.
	Breaker BreakerConfig
}

// DefaultConfig returns a safe default configuration.
func DefaultConfig() Config {
	return Config{
		BaseURL:   "https://www.freetogame.com",
		UserAgent: "game-picker/1.0",
		Timeout:   10 * time.Second,
		Breaker:   DefaultBreakerConfig(),
	}
}

// New creates a new catalog client.
func New(cfg Config) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("base url is required")
	}

	base, err := url.Parse(strings.TrimRight(cfg.BaseURL, "/"))
	if err != nil || base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("base url must be absolute (got %q)", cfg.BaseURL)
	}

	if cfg.UserAgent == "" {
		return nil, fmt.Errorf("user-agent is required")
	}

	if cfg.Timeout <= 0 {
		return nil, fmt.Errorf("timeout must be > 0 (got %s)", cfg.Timeout)
	}

	if cfg.Breaker.FailureThreshold < 1 {
		return nil, fmt.Errorf("breaker failure_threshold must be >= 1 (got %d)", cfg.Breaker.FailureThreshold)
	}

	if cfg.Breaker.Name == "" {
		cfg.Breaker.Name = DefaultBreakerConfig().Name
	}

	logger := log.With().Str("component", "catalog-client").Logger()

	return &Client{
		httpClient: &http.Client{Timeout: cfg.Timeout},
		baseURL:    base,
		breaker:    newBreaker(cfg.Breaker, logger),
		config:     cfg,
		logger:     logger,
	}, nil
}

// GetFilteredGames lists games tagged with every genre on the given
// platform. Genres are joined with "." as the upstream expects; an empty
// platform is omitted. ErrNoMatches is returned when the upstream reports
// no games.
func (c *Client) GetFilteredGames(ctx context.Context, genres []string, platform string) ([]Game, error) {
	query := url.Values{}
	if tag := joinTags(genres); tag != "" {
		query.Set("tag", tag)
	}
	if p := strings.ToLower(strings.TrimSpace(platform)); p != "" {
		query.Set("platform", p)
	}

	res, err := c.get(ctx, endpointFilter, query)
	if err != nil {
		return nil, err
	}

	if containsNoMatchMarker(res.body) {
		c.logger.Debug().
			Str("endpoint", endpointFilter).
			Str("tag", query.Get("tag")).
			Msg("Upstream reported no matches")
		return nil, ErrNoMatches
	}

	if !isSuccess(res.status) {
		return nil, c.statusError(endpointFilter, res)
	}

	var games []Game
	if err := json.Unmarshal(res.body, &games); err != nil {
		return nil, c.decodeError(endpointFilter, err)
	}

	return games, nil
}

// GetGame fetches the full detail of a game. A missing game yields
// (nil, nil).
func (c *Client) GetGame(ctx context.Context, id int) (*Game, error) {
	query := url.Values{}
	query.Set("id", strconv.Itoa(id))

	res, err := c.get(ctx, endpointGame, query)
	if err != nil {
		return nil, err
	}

	if res.status == http.StatusNotFound {
		return nil, nil
	}

	if !isSuccess(res.status) {
		return nil, c.statusError(endpointGame, res)
	}

	// The upstream reports unknown ids as {"status":0,"status_message":...}.
	var probe struct {
		Status json.RawMessage `json:"status"`
	}
	if err := json.Unmarshal(res.body, &probe); err != nil {
		return nil, c.decodeError(endpointGame, err)
	}
	if string(bytes.TrimSpace(probe.Status)) == "0" {
		return nil, nil
	}

	var game Game
	if err := json.Unmarshal(res.body, &game); err != nil {
		return nil, c.decodeError(endpointGame, err)
	}
	if game.ID == 0 {
		return nil, nil
	}

	return &game, nil
}

// get performs a breaker-guarded GET. Transport failures and 5xx responses
// count against the breaker; any other response is handed back as is.
func (c *Client) get(ctx context.Context, endpoint string, query url.Values) (fetchResult, error) {
	startTime := time.Now()
	defer func() {
		catalogRequestDuration.WithLabelValues(endpoint).Observe(time.Since(startTime).Seconds())
	}()

	res, err := c.breaker.Execute(func() (fetchResult, error) {
		return c.fetch(ctx, endpoint, query)
	})
	if err == nil {
		return res, nil
	}

	if isBreakerRejection(err) {
		catalogErrorsTotal.WithLabelValues(string(ErrorClassBreakerOpen)).Inc()
		catalogRequestsTotal.WithLabelValues(endpoint, "breaker_open").Inc()
		c.logger.Warn().Str("endpoint", endpoint).Msg("Request rejected by circuit breaker")
		return fetchResult{}, &Error{
			Endpoint:   endpoint,
			ErrorClass: ErrorClassBreakerOpen,
			Message:    "circuit breaker open",
			Err:        err,
		}
	}

	return fetchResult{}, err
}

func (c *Client) fetch(ctx context.Context, endpoint string, query url.Values) (fetchResult, error) {
	u := *c.baseURL
	u.Path = strings.TrimRight(u.Path, "/") + endpoint
	u.RawQuery = query.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return fetchResult{}, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", c.config.UserAgent)
	req.Header.Set("Accept", "application/json")

	c.logger.Debug().
		Str("endpoint", endpoint).
		Str("query", u.RawQuery).
		Msg("Executing catalog request")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error().Err(err).Str("endpoint", endpoint).Msg("HTTP request failed")
		catalogErrorsTotal.WithLabelValues(string(ErrorClassNetwork)).Inc()
		catalogRequestsTotal.WithLabelValues(endpoint, "network_error").Inc()
		return fetchResult{}, &Error{
			Endpoint:   endpoint,
			ErrorClass: ErrorClassNetwork,
			Message:    "request failed",
			Err:        err,
		}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		catalogErrorsTotal.WithLabelValues(string(ErrorClassNetwork)).Inc()
		catalogRequestsTotal.WithLabelValues(endpoint, "network_error").Inc()
		return fetchResult{}, &Error{
			Endpoint:   endpoint,
			StatusCode: resp.StatusCode,
			ErrorClass: ErrorClassNetwork,
			Message:    "read body",
			Err:        err,
		}
	}

	catalogRequestsTotal.WithLabelValues(endpoint, strconv.Itoa(resp.StatusCode)).Inc()
	res := fetchResult{status: resp.StatusCode, body: body}

	if resp.StatusCode >= 500 {
		return res, c.statusError(endpoint, res)
	}
	return res, nil
}

// statusError builds the error for an unexpected upstream status.
func (c *Client) statusError(endpoint string, res fetchResult) error {
	errClass := classifyStatus(res.status)
	catalogErrorsTotal.WithLabelValues(string(errClass)).Inc()

	c.logger.Warn().
		Str("endpoint", endpoint).
		Int("status", res.status).
		Str("error_class", string(errClass)).
		Msg("Catalog request error")

	return &Error{
		Endpoint:   endpoint,
		StatusCode: res.status,
		ErrorClass: errClass,
		Message:    http.StatusText(res.status),
	}
}

func (c *Client) decodeError(endpoint string, err error) error {
	catalogErrorsTotal.WithLabelValues(string(ErrorClassDecode)).Inc()
	c.logger.Warn().Err(err).Str("endpoint", endpoint).Msg("Undecodable catalog response")

	return &Error{
		Endpoint:   endpoint,
		StatusCode: http.StatusOK,
		ErrorClass: ErrorClassDecode,
		Message:    "malformed response body",
		Err:        err,
	}
}

// SetHTTPClient sets a custom HTTP client (for testing).
func (c *Client) SetHTTPClient(client *http.Client) {
	c.httpClient = client
}

// BreakerState returns the current circuit breaker state.
func (c *Client) BreakerState() gobreaker.State {
	return c.breaker.State()
}

// classifyStatus categorizes a non-2xx status for observability.
func classifyStatus(status int) ErrorClass {
	if status >= 500 {
		return ErrorClassServer
	}
	return ErrorClassClient
}

func isSuccess(status int) bool {
	return status >= 200 && status < 300
}

func joinTags(genres []string) string {
	tags := make([]string, 0, len(genres))
	for _, g := range genres {
		if g = strings.ToLower(strings.TrimSpace(g)); g != "" {
			tags = append(tags, g)
		}
	}
	return strings.Join(tags, ".")
}

func containsNoMatchMarker(body []byte) bool {
	lower := bytes.ToLower(body)
	for _, marker := range noMatchMarkers {
		if bytes.Contains(lower, []byte(marker)) {
			return true
		}
	}
	return false
}
