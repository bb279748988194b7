package cache

import (
	"fmt"
	"net/url"
	"sort"
	"strings"
)

// Key represents a unique identifier for a cached storefront response.
type Key struct {
	// Endpoint is the storefront endpoint path (e.g. "/api/appdetails/")
	Endpoint string

	// Query are the request's query parameters (e.g. {"appids": ["730"]})
	Query url.Values
}

// String generates a deterministic cache key string.
// Format: store:endpoint:query1=val1:query2=val2
//
// Example:
//
//	store:api/appdetails:appids=730
func (k Key) String() string {
	parts := []string{"store"}

	// Add endpoint (normalize path)
	endpoint := strings.Trim(k.Endpoint, "/")
	if endpoint != "" {
		parts = append(parts, endpoint)
	}

	// Add query params (sorted for determinism)
	if len(k.Query) > 0 {
		queryKeys := make([]string, 0, len(k.Query))
		for key := range k.Query {
			queryKeys = append(queryKeys, key)
		}
		sort.Strings(queryKeys)

		for _, key := range queryKeys {
			parts = append(parts, fmt.Sprintf("%s=%s", key, k.Query.Get(key)))
		}
	}

	return strings.Join(parts, ":")
}
