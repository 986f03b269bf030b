// Package testutil provides testing utilities for the game picker.
package testutil

import (
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/goccy/go-json"
)

// NoGiveawaysBody is what FreeToGame answers when a filter matches nothing.
const NoGiveawaysBody = `{"status":0,"status_message":"No active giveaways available at the moment, please try again later."}`

// NoGameBody is what FreeToGame answers for an unknown game id.
const NoGameBody = `{"status":0,"status_message":"No game found at the moment, please try again later."}`

// MockResponse defines the behavior for a mock catalog endpoint response.
type MockResponse struct {
	StatusCode int
	Body       string
	Headers    map[string]string
	Delay      time.Duration
}

// MockGame is the minimal shape of a FreeToGame game used by the mock.
type MockGame struct {
	ID       int    `json:"id"`
	Title    string `json:"title"`
	Genre    string `json:"genre"`
	Platform string `json:"platform"`
	GameURL  string `json:"game_url"`
	// Memory is published under minimum_system_requirements by /api/game.
	Memory string `json:"-"`
}

// MockCatalog is a configurable fake FreeToGame server for testing.
// /api/filter returns every registered game whose genre matches one of the
// requested tags; /api/game returns the detail of a registered game.
type MockCatalog struct {
	server    *httptest.Server
	mu        sync.RWMutex
	games     map[int]MockGame
	order     []int
	overrides map[string]MockResponse

	// Tracking
	requestCount  int
	pathCounts    map[string]int
	lastQuery     map[string]string
	lastUserAgent string
}

// NewMockCatalog creates a new mock catalog server.
func NewMockCatalog() *MockCatalog {
	mock := &MockCatalog{
		games:      make(map[int]MockGame),
		overrides:  make(map[string]MockResponse),
		pathCounts: make(map[string]int),
		lastQuery:  make(map[string]string),
	}

	mock.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mock.mu.Lock()
		mock.requestCount++
		mock.pathCounts[r.URL.Path]++
		mock.lastQuery[r.URL.Path] = r.URL.RawQuery
		mock.lastUserAgent = r.UserAgent()
		override, exists := mock.overrides[r.URL.Path]
		mock.mu.Unlock()

		if exists {
			writeResponse(w, override)
			return
		}

		switch r.URL.Path {
		case "/api/filter":
			mock.handleFilter(w, r)
		case "/api/game":
			mock.handleGame(w, r)
		default:
			http.NotFound(w, r)
		}
	}))

	return mock
}

// URL returns the mock server URL.
func (m *MockCatalog) URL() string {
	return m.server.URL
}

// Close shuts down the mock server.
func (m *MockCatalog) Close() {
	m.server.Close()
}

// Reset clears all tracking counters.
func (m *MockCatalog) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.requestCount = 0
	m.pathCounts = make(map[string]int)
	m.lastQuery = make(map[string]string)
}

// AddGame registers a game served by both endpoints.
func (m *MockCatalog) AddGame(g MockGame) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.games[g.ID]; !exists {
		m.order = append(m.order, g.ID)
	}
	m.games[g.ID] = g
}

// SetResponse makes path answer with resp instead of the built-in behavior.
func (m *MockCatalog) SetResponse(path string, resp MockResponse) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.overrides[path] = resp
}

// ClearResponse restores the built-in behavior for path.
func (m *MockCatalog) ClearResponse(path string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.overrides, path)
}

// GetRequestCount returns the number of requests made to the server.
func (m *MockCatalog) GetRequestCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.requestCount
}

// GetPathCount returns the number of requests made to path.
func (m *MockCatalog) GetPathCount(path string) int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.pathCounts[path]
}

// LastQuery returns the raw query of the last request to path.
func (m *MockCatalog) LastQuery(path string) string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.lastQuery[path]
}

// LastUserAgent returns the User-Agent of the last request.
func (m *MockCatalog) LastUserAgent() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.lastUserAgent
}

func (m *MockCatalog) handleFilter(w http.ResponseWriter, r *http.Request) {
	tags := strings.Split(r.URL.Query().Get("tag"), ".")

	m.mu.RLock()
	matches := make([]map[string]any, 0)
	for _, id := range m.order {
		g := m.games[id]
		for _, tag := range tags {
			if tag != "" && strings.EqualFold(g.Genre, tag) {
				matches = append(matches, summary(g))
				break
			}
		}
	}
	m.mu.RUnlock()

	if len(matches) == 0 {
		writeResponse(w, MockResponse{StatusCode: http.StatusNotFound, Body: NoGiveawaysBody})
		return
	}
	writeJSON(w, http.StatusOK, matches)
}

func (m *MockCatalog) handleGame(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(r.URL.Query().Get("id"))

	m.mu.RLock()
	g, exists := m.games[id]
	m.mu.RUnlock()

	if err != nil || !exists {
		writeResponse(w, MockResponse{StatusCode: http.StatusNotFound, Body: NoGameBody})
		return
	}

	detail := summary(g)
	if g.Memory != "" {
		detail["minimum_system_requirements"] = map[string]string{
			"os":     "Windows 10",
			"memory": g.Memory,
		}
	}
	writeJSON(w, http.StatusOK, detail)
}

func summary(g MockGame) map[string]any {
	return map[string]any{
		"id":       g.ID,
		"title":    g.Title,
		"genre":    g.Genre,
		"platform": g.Platform,
		"game_url": g.GameURL,
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	body, err := json.Marshal(v)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeResponse(w, MockResponse{StatusCode: status, Body: string(body)})
}

func writeResponse(w http.ResponseWriter, resp MockResponse) {
	if resp.Delay > 0 {
		time.Sleep(resp.Delay)
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	for key, value := range resp.Headers {
		w.Header().Set(key, value)
	}
	w.WriteHeader(resp.StatusCode)
	if resp.Body != "" {
		w.Write([]byte(resp.Body))
	}
}

// NewServerErrorResponse creates a 500 Internal Server Error response.
func NewServerErrorResponse() MockResponse {
	return MockResponse{
		StatusCode: http.StatusInternalServerError,
		Body:       `{"error": "Internal server error"}`,
	}
}

// NewMalformedResponse creates a 200 response whose body is not JSON.
func NewMalformedResponse() MockResponse {
	return MockResponse{
		StatusCode: http.StatusOK,
		Body:       `<html>maintenance</html>`,
	}
}
