// Package history records validation runs so results can be listed and
// compared over time.
package history

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned by GetRun for an unknown id.
var ErrNotFound = errors.New("run not found")

// DefaultLimit caps ListRuns when Filter.Limit is zero.
const DefaultLimit = 20

// Run is one recorded validation run. Report holds the JSON report.
type Run struct {
	ID            string    `json:"id"`
	DatasetID     string    `json:"dataset_id"`
	SchemaVersion string    `json:"schema_version"`
	Input         string    `json:"input"`
	Status        string    `json:"status"`
	ErrorCount    int       `json:"error_count"`
	WarningCount  int       `json:"warning_count"`
	StartedAt     time.Time `json:"started_at"`
	CompletedAt   time.Time `json:"completed_at"`
	Report        []byte    `json:"-"`
}

// Duration returns how long the run took.
func (r Run) Duration() time.Duration {
	return r.CompletedAt.Sub(r.StartedAt)
}

// Filter narrows ListRuns.
type Filter struct {
	DatasetID string
	Status    string
	Limit     int
}

// Store persists runs.
type Store interface {
	Migrate(ctx context.Context) error
	RecordRun(ctx context.Context, run Run) (Run, error)
	ListRuns(ctx context.Context, f Filter) ([]Run, error)
	GetRun(ctx context.Context, id string) (Run, error)
	Close() error
}
