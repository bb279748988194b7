package client

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestStoreError_Error(t *testing.T) {
	tests := []struct {
		name     string
		err      *StoreError
		contains []string
	}{
		{
			name: "with wrapped error",
			err: &StoreError{
				StatusCode: 500,
				ErrorClass: ErrorClassServer,
				Endpoint:   "/search/results/",
				Message:    "500 Internal Server Error",
				Err:        errors.New("boom"),
			},
			contains: []string{"server", "500", "/search/results/", "boom"},
		},
		{
			name: "without wrapped error",
			err: &StoreError{
				StatusCode: 403,
				ErrorClass: ErrorClassClient,
				Endpoint:   "/api/appdetails/",
				Message:    "403 Forbidden",
			},
			contains: []string{"client", "403", "/api/appdetails/"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg := tt.err.Error()
			for _, want := range tt.contains {
				if !strings.Contains(msg, want) {
					t.Errorf("Error() = %q, want it to contain %q", msg, want)
				}
			}
		})
	}
}

func TestStoreError_Unwrap(t *testing.T) {
	inner := errors.New("connection refused")
	err := &StoreError{
		ErrorClass: ErrorClassNetwork,
		Endpoint:   "/search/results/",
		Message:    "request failed",
		Err:        inner,
	}

	wrapped := fmt.Errorf("fetch page 1: %w", err)

	var storeErr *StoreError
	if !errors.As(wrapped, &storeErr) {
		t.Fatal("errors.As should find *StoreError through wrapping")
	}
	if !errors.Is(wrapped, inner) {
		t.Error("errors.Is should find the inner error through Unwrap")
	}
}

func TestClassifyStatus(t *testing.T) {
	tests := []struct {
		statusCode int
		want       ErrorClass
	}{
		{400, ErrorClassClient},
		{403, ErrorClassClient},
		{404, ErrorClassClient},
		{429, ErrorClassClient},
		{500, ErrorClassServer},
		{502, ErrorClassServer},
		{503, ErrorClassServer},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("%d", tt.statusCode), func(t *testing.T) {
			if got := classifyStatus(tt.statusCode); got != tt.want {
				t.Errorf("classifyStatus(%d) = %q, want %q", tt.statusCode, got, tt.want)
			}
		})
	}
}
