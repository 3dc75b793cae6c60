// Package testutil provides helpers shared by tests: a logger that writes to
// t.Log and small fixture writers.
package testutil

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
)

// NewTestLogger returns a logger that writes to t.Log().
// Logs only appear on test failure or when running with -v.
func NewTestLogger(t testing.TB) *slog.Logger {
	t.Helper()
	return slog.New(slog.NewTextHandler(testWriter{t}, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))
}

type testWriter struct {
	t testing.TB
}

func (w testWriter) Write(p []byte) (n int, err error) {
	w.t.Helper()
	w.t.Log(string(p))
	return len(p), nil
}

// WriteFile writes content to dir/name, creating parent directories, and
// returns the full path.
func WriteFile(t testing.TB, dir, name, content string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(p), 0o750); err != nil {
		t.Fatalf("mkdir %s: %v", filepath.Dir(p), err)
	}
	if err := os.WriteFile(p, []byte(content), 0o600); err != nil {
		t.Fatalf("write %s: %v", p, err)
	}
	return p
}

// PricingSchemaYAML is a schema fixture with a composite key, bounds and a
// compare constraint.
const PricingSchemaYAML = `dataset_id: pricing
version: 1.0.0
primary_key: [state, source_name]
fields:
  - name: state
    dtype: string
    required: true
  - name: source_name
    dtype: string
    required: true
  - name: price
    dtype: number
    required: true
    min: 0
    max: 100
  - name: list_price
    dtype: number
constraints:
  - name: price_le_list
    type: compare
    expression: price <= list_price or list_price != list_price
`

// PricingHeader is the header row matching PricingSchemaYAML.
const PricingHeader = "state,source_name,price,list_price\n"
