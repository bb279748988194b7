// Package client provides the storefront HTTP client for the search and
// app-details endpoints, with error classification, metrics and an
// optional Redis response cache for details.
package client

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/steamfetch/steam-topsellers/pkg/cache"
)

// Storefront endpoint paths.
const (
	searchEndpoint  = "/search/results/"
	detailsEndpoint = "/api/appdetails/"
)

// DefaultBaseURL is the public storefront host.
const DefaultBaseURL = "https://store.steampowered.com"

// Prometheus metrics for storefront client operations.
var (
	storeRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "store_requests_total",
		Help: "Total storefront requests by endpoint and status",
	}, []string{"endpoint", "status"})

	storeRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "store_request_duration_seconds",
		Help:    "Storefront request duration in seconds by endpoint",
		Buckets: []float64{0.1, 0.5, 1, 2, 5, 10},
	}, []string{"endpoint"})

	storeErrorsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "store_errors_total",
		Help: "Total storefront errors by class",
	}, []string{"class"})
)

// Listing is one search-result entry. The endpoint returns more fields;
// only the ones the pipeline consumes are decoded.
type Listing struct {
	Name string `json:"name"`
	Logo string `json:"logo"`
}

// searchPage is the wire shape of a search results page.
type searchPage struct {
	Items []Listing `json:"items"`
}

// Client is the storefront HTTP client.
type Client struct {
	httpClient *http.Client
	baseURL    string
	cache      *cache.Manager
	config     Config
	logger     zerolog.Logger
}

// Config holds the client configuration.
type Config struct {
	// BaseURL of the storefront (default: DefaultBaseURL).
	BaseURL string

	// User-Agent header sent with every request.
	UserAgent string

	// Timeout per request. Zero means no timeout; the fetcher waits
	// as long as the upstream takes unless told otherwise.
	Timeout time.Duration

	// Cache is an optional response cache for app details.
	// Nil disables caching entirely.
	Cache *cache.Manager
}

// DefaultConfig returns a safe default configuration.
func DefaultConfig() Config {
	return Config{
		BaseURL:   DefaultBaseURL,
		UserAgent: "steam-topsellers/0.1.0",
		Timeout:   0,
	}
}

// New creates a new storefront client.
func New(cfg Config) (*Client, error) {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}

	if cfg.UserAgent == "" {
		return nil, fmt.Errorf("user-agent is required")
	}

	logger := log.With().Str("component", "store-client").Logger()

	return &Client{
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		baseURL: cfg.BaseURL,
		cache:   cfg.Cache,
		config:  cfg,
		logger:  logger,
	}, nil
}

// SearchResults fetches one page of top-seller search listings.
// Page numbers are 1-based. A response without an "items" key yields an
// empty slice, not an error.
func (c *Client) SearchResults(ctx context.Context, page int) ([]Listing, error) {
	query := url.Values{
		"filter":    []string{"globaltopsellers"},
		"category1": []string{"998"}, // Games
		"page":      []string{strconv.Itoa(page)},
		"json":      []string{"1"},
	}

	body, err := c.get(ctx, searchEndpoint, query)
	if err != nil {
		return nil, err
	}

	var result searchPage
	if err := json.Unmarshal(body, &result); err != nil {
		storeErrorsTotal.WithLabelValues(string(ErrorClassNetwork)).Inc()
		return nil, &StoreError{
			ErrorClass: ErrorClassNetwork,
			Endpoint:   searchEndpoint,
			Message:    "malformed search response",
			Err:        err,
		}
	}

	c.logger.Debug().
		Int("page", page).
		Int("items", len(result.Items)).
		Msg("Search page fetched")

	return result.Items, nil
}

// AppDetails fetches the detail payload for one appid. The upstream shape
// is opaque to this system, so the raw JSON body is returned verbatim.
// A configured cache is consulted first and updated on success.
func (c *Client) AppDetails(ctx context.Context, appid int) (json.RawMessage, error) {
	query := url.Values{
		"appids": []string{strconv.Itoa(appid)},
	}

	cacheKey := cache.Key{Endpoint: detailsEndpoint, Query: query}
	if c.cache != nil {
		entry, err := c.cache.Get(ctx, cacheKey)
		if err == nil {
			c.logger.Debug().
				Int("appid", appid).
				Msg("App details served from cache")
			storeRequestsTotal.WithLabelValues(detailsEndpoint, "cache").Inc()
			return json.RawMessage(entry.Data), nil
		}
		if err != cache.ErrCacheMiss {
			c.logger.Warn().Err(err).Int("appid", appid).Msg("Cache get error")
		}
	}

	body, err := c.get(ctx, detailsEndpoint, query)
	if err != nil {
		return nil, err
	}

	if !json.Valid(body) {
		storeErrorsTotal.WithLabelValues(string(ErrorClassNetwork)).Inc()
		return nil, &StoreError{
			ErrorClass: ErrorClassNetwork,
			Endpoint:   detailsEndpoint,
			Message:    fmt.Sprintf("malformed details response for appid %d", appid),
		}
	}

	if c.cache != nil {
		if err := c.cache.Set(ctx, cacheKey, body, http.StatusOK); err != nil {
			c.logger.Warn().Err(err).Int("appid", appid).Msg("Failed to cache response")
		}
	}

	return json.RawMessage(body), nil
}

// get performs a single GET request against a storefront endpoint and
// returns the response body of a 2xx response. No retries: a failed
// request is reported to the caller as-is.
func (c *Client) get(ctx context.Context, endpoint string, query url.Values) ([]byte, error) {
	start := time.Now()
	defer func() {
		storeRequestDuration.WithLabelValues(endpoint).Observe(time.Since(start).Seconds())
	}()

	reqURL := c.baseURL + endpoint + "?" + query.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", c.config.UserAgent)
	req.Header.Set("Accept", "application/json")

	c.logger.Debug().
		Str("endpoint", endpoint).
		Msg("Executing storefront request")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		storeErrorsTotal.WithLabelValues(string(ErrorClassNetwork)).Inc()
		storeRequestsTotal.WithLabelValues(endpoint, "network_error").Inc()
		return nil, &StoreError{
			ErrorClass: ErrorClassNetwork,
			Endpoint:   endpoint,
			Message:    "request failed",
			Err:        err,
		}
	}
	defer resp.Body.Close()

	storeRequestsTotal.WithLabelValues(endpoint, strconv.Itoa(resp.StatusCode)).Inc()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		class := classifyStatus(resp.StatusCode)
		storeErrorsTotal.WithLabelValues(string(class)).Inc()

		c.logger.Warn().
			Str("endpoint", endpoint).
			Int("status_code", resp.StatusCode).
			Str("error_class", string(class)).
			Msg("Storefront request error")

		return nil, &StoreError{
			StatusCode: resp.StatusCode,
			ErrorClass: class,
			Endpoint:   endpoint,
			Message:    resp.Status,
		}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		storeErrorsTotal.WithLabelValues(string(ErrorClassNetwork)).Inc()
		return nil, &StoreError{
			StatusCode: resp.StatusCode,
			ErrorClass: ErrorClassNetwork,
			Endpoint:   endpoint,
			Message:    "read response body",
			Err:        err,
		}
	}

	return body, nil
}

// SetHTTPClient sets a custom HTTP client (for testing).
func (c *Client) SetHTTPClient(client *http.Client) {
	c.httpClient = client
}
