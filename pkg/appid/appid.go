// Package appid extracts Steam appids from store asset URLs.
//
// Search listings do not carry the appid directly, but their logo URL
// embeds it as the first path segment below a fixed asset prefix:
//
//	https://shared.fastly.steamstatic.com/store_item_assets/steam/apps/<appid>/capsule_sm_120.jpg
package appid

import (
	"fmt"
	"strconv"
	"strings"
)

// AssetPrefix is the fixed prefix of store item asset URLs.
const AssetPrefix = "https://shared.fastly.steamstatic.com/store_item_assets/steam/apps/"

// ExtractError indicates that an appid could not be derived from a logo URL.
type ExtractError struct {
	URL string
	Err error
}

// Error implements the error interface.
func (e *ExtractError) Error() string {
	return fmt.Sprintf("could not extract appid from logo URL %q: %v", e.URL, e.Err)
}

// Unwrap implements error unwrapping for errors.Is/As.
func (e *ExtractError) Unwrap() error {
	return e.Err
}

// Extract derives the numeric appid from a store asset URL.
// It fails with *ExtractError when the URL lacks the asset prefix or the
// leading path segment is not a positive base-10 integer.
func Extract(logoURL string) (int, error) {
	rest, ok := strings.CutPrefix(logoURL, AssetPrefix)
	if !ok {
		return 0, &ExtractError{URL: logoURL, Err: fmt.Errorf("missing asset prefix %q", AssetPrefix)}
	}

	segment, _, _ := strings.Cut(rest, "/")
	id, err := strconv.Atoi(segment)
	if err != nil {
		return 0, &ExtractError{URL: logoURL, Err: err}
	}
	if id <= 0 {
		return 0, &ExtractError{URL: logoURL, Err: fmt.Errorf("appid must be positive, got %d", id)}
	}

	return id, nil
}
