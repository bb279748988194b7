// Package cache provides optional caching of storefront detail responses
// with a Redis backend.
//
// The storefront API emits no cache validators (no ETag, no usable Expires),
// so entries carry a fixed TTL assigned when they are stored. Search result
// pages are never cached by the client; top-seller listings churn and a
// stale page would defeat the point of the fetch.
package cache

import (
	"time"
)

// Entry represents a cached detail response.
type Entry struct {
	// Data is the raw response body
	Data []byte `json:"data"`

	// Expires is when the entry becomes stale
	Expires time.Time `json:"expires"`

	// StatusCode is the HTTP status code of the cached response
	StatusCode int `json:"status_code"`

	// CachedAt is when we cached this response
	CachedAt time.Time `json:"cached_at"`
}

// IsExpired returns true if the cache entry has expired.
func (e *Entry) IsExpired() bool {
	return time.Now().After(e.Expires)
}

// TTL returns the time until expiration.
// Returns 0 if already expired.
func (e *Entry) TTL() time.Duration {
	ttl := time.Until(e.Expires)
	if ttl < 0 {
		return 0
	}
	return ttl
}
