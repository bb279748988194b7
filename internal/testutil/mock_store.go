// Package testutil provides testing utilities for the top-sellers fetcher.
package testutil

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
	"time"
)

// MockResponse defines the behavior for a canned mock response.
type MockResponse struct {
	StatusCode int
	Body       string
	Delay      time.Duration
}

// MockStore is a configurable mock storefront server for testing.
// Search pages are keyed by the "page" query parameter, app details by
// the "appids" query parameter, matching the real endpoints.
type MockStore struct {
	server *httptest.Server
	mu     sync.RWMutex

	searchPages map[int]MockResponse
	appDetails  map[int]MockResponse
	handlers    map[string]func(w http.ResponseWriter, r *http.Request)

	// Tracking
	RequestCount      int
	SearchCount       int
	DetailsCount      int
	LastRequestHeader http.Header
}

// NewMockStore creates a new mock storefront server.
func NewMockStore() *MockStore {
	mock := &MockStore{
		searchPages: make(map[int]MockResponse),
		appDetails:  make(map[int]MockResponse),
		handlers:    make(map[string]func(w http.ResponseWriter, r *http.Request)),
	}

	mock.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mock.mu.Lock()
		mock.RequestCount++
		mock.LastRequestHeader = r.Header.Clone()
		mock.mu.Unlock()

		// Check for custom handler
		mock.mu.RLock()
		handler, exists := mock.handlers[r.URL.Path]
		mock.mu.RUnlock()

		if exists {
			handler(w, r)
			return
		}

		switch r.URL.Path {
		case "/search/results/":
			mock.searchHandler(w, r)
		case "/api/appdetails/":
			mock.detailsHandler(w, r)
		default:
			http.NotFound(w, r)
		}
	}))

	return mock
}

// URL returns the mock server URL.
func (m *MockStore) URL() string {
	return m.server.URL
}

// Close shuts down the mock server.
func (m *MockStore) Close() {
	m.server.Close()
}

// SetHandler sets a custom handler for a specific path.
func (m *MockStore) SetHandler(path string, handler func(w http.ResponseWriter, r *http.Request)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.handlers[path] = handler
}

// SetSearchPage configures the response body for one search results page.
func (m *MockStore) SetSearchPage(page int, body string) {
	m.SetSearchPageResponse(page, MockResponse{StatusCode: http.StatusOK, Body: body})
}

// SetSearchPageResponse configures a full response for one search results page.
func (m *MockStore) SetSearchPageResponse(page int, resp MockResponse) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.searchPages[page] = resp
}

// SetAppDetails configures the response body for one appid.
func (m *MockStore) SetAppDetails(appid int, body string) {
	m.SetAppDetailsResponse(appid, MockResponse{StatusCode: http.StatusOK, Body: body})
}

// SetAppDetailsResponse configures a full response for one appid.
func (m *MockStore) SetAppDetailsResponse(appid int, resp MockResponse) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.appDetails[appid] = resp
}

// SearchItem builds a listing entry with the logo URL the real search
// endpoint would emit for the given appid.
func SearchItem(name string, appid int) string {
	logo := fmt.Sprintf(
		"https://shared.fastly.steamstatic.com/store_item_assets/steam/apps/%d/capsule_sm_120.jpg",
		appid)
	return fmt.Sprintf(`{"name": %q, "logo": %q}`, name, logo)
}

// GetRequestCount returns the number of requests made to the server.
func (m *MockStore) GetRequestCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.RequestCount
}

// GetSearchCount returns the number of search page requests.
func (m *MockStore) GetSearchCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.SearchCount
}

// GetDetailsCount returns the number of app details requests.
func (m *MockStore) GetDetailsCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.DetailsCount
}

func (m *MockStore) searchHandler(w http.ResponseWriter, r *http.Request) {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))

	m.mu.Lock()
	m.SearchCount++
	resp, ok := m.searchPages[page]
	m.mu.Unlock()

	if !ok {
		// Pages past the configured set are empty, like the real endpoint
		resp = MockResponse{StatusCode: http.StatusOK, Body: `{"items": []}`}
	}

	writeResponse(w, resp)
}

func (m *MockStore) detailsHandler(w http.ResponseWriter, r *http.Request) {
	appid, _ := strconv.Atoi(r.URL.Query().Get("appids"))

	m.mu.Lock()
	m.DetailsCount++
	resp, ok := m.appDetails[appid]
	m.mu.Unlock()

	if !ok {
		resp = MockResponse{
			StatusCode: http.StatusOK,
			Body:       fmt.Sprintf(`{"%d": {"success": false}}`, appid),
		}
	}

	writeResponse(w, resp)
}

func writeResponse(w http.ResponseWriter, resp MockResponse) {
	if resp.Delay > 0 {
		time.Sleep(resp.Delay)
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(resp.StatusCode)
	if resp.Body != "" {
		w.Write([]byte(resp.Body))
	}
}
