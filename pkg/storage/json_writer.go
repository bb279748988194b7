// Package storage persists the collected detail records to disk.
package storage

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// DefaultPath is the default output file.
const DefaultPath = "search_results.json"

// JSONWriter writes a result collection as a pretty-printed JSON array,
// overwriting any existing file at its path.
type JSONWriter struct {
	path   string
	logger zerolog.Logger
}

// NewJSONWriter creates a writer for the given path.
// An empty path selects DefaultPath.
func NewJSONWriter(path string) *JSONWriter {
	if path == "" {
		path = DefaultPath
	}
	return &JSONWriter{
		path:   path,
		logger: log.With().Str("component", "storage").Logger(),
	}
}

// Path returns the configured output path.
func (w *JSONWriter) Path() string {
	return w.path
}

// Write serializes the records with 4-space indentation and replaces the
// file in one shot. There is no partial-write recovery: a failed write
// leaves whatever the OS left behind and the error is the caller's to
// treat as fatal.
func (w *JSONWriter) Write(records []json.RawMessage) error {
	if records == nil {
		// Keep the output a JSON array even when nothing was fetched
		records = []json.RawMessage{}
	}

	data, err := json.MarshalIndent(records, "", "    ")
	if err != nil {
		return fmt.Errorf("marshal results: %w", err)
	}

	if err := os.WriteFile(w.path, data, 0o644); err != nil {
		return fmt.Errorf("write results file %s: %w", w.path, err)
	}

	w.logger.Info().
		Str("path", w.path).
		Int("records", len(records)).
		Msg("Results saved")

	return nil
}
