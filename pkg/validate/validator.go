package validate

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"slices"
	"strings"
	"time"

	"github.com/leapstack-labs/leapcheck/pkg/core"
	"github.com/leapstack-labs/leapcheck/pkg/schema"
)

// FileResult is the outcome of validating one input.
type FileResult struct {
	Path   string
	Rows   int
	Passed bool
}

// Option configures a Validator.
type Option func(*Validator)

// WithLogger sets the logger used for progress at debug level.
func WithLogger(logger *slog.Logger) Option {
	return func(v *Validator) {
		if logger != nil {
			v.logger = logger
		}
	}
}

// WithClock sets the clock that resolves max_date "today".
func WithClock(now func() time.Time) Option {
	return func(v *Validator) {
		if now != nil {
			v.now = now
		}
	}
}

// WithFailFast stops a file at the first row that produces an error.
func WithFailFast(enabled bool) Option {
	return func(v *Validator) { v.failFast = enabled }
}

// WithStrict promotes every warning to an error.
func WithStrict(enabled bool) Option {
	return func(v *Validator) { v.strict = enabled }
}

// WithTracker makes the Validator record uniqueness in t instead of a
// fresh tracker.
func WithTracker(t *Tracker) Option {
	return func(v *Validator) { v.tracker = t }
}

// Validator validates tabular inputs against one schema. Uniqueness is
// tracked across every input the same Validator sees. A Validator must not
// be used from several goroutines at once.
type Validator struct {
	schema    *schema.Schema
	logger    *slog.Logger
	now       func() time.Time
	failFast  bool
	strict    bool
	tracker   *Tracker
	collector *Collector
	rows      *RowValidator
	eval      *Evaluator
}

// New returns a Validator for s. The schema is validated first.
func New(s *schema.Schema, opts ...Option) (*Validator, error) {
	if s == nil {
		return nil, fmt.Errorf("schema is required")
	}
	if err := s.Validate(); err != nil {
		return nil, fmt.Errorf("invalid schema %s: %w", s.DatasetID, err)
	}

	v := &Validator{
		schema: s,
		logger: slog.New(slog.DiscardHandler),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(v)
	}
	if v.tracker == nil {
		v.tracker = NewTracker(s)
	}
	v.collector = NewCollector(v.strict)
	v.rows = NewRowValidator(s, v.tracker)
	v.eval = NewEvaluator(v.now)
	return v, nil
}

// Schema returns the schema being enforced.
func (v *Validator) Schema() *schema.Schema { return v.schema }

// Collector returns the collector holding this Validator's messages.
func (v *Validator) Collector() *Collector { return v.collector }

// Messages returns the messages collected so far in detection order.
func (v *Validator) Messages() []core.Message { return v.collector.Messages() }

// Report summarizes every input validated so far.
func (v *Validator) Report() core.Report { return v.collector.Report() }

// HasErrors reports whether any error has been recorded.
func (v *Validator) HasErrors() bool { return v.collector.HasErrors() }

// ValidateFile validates the CSV file at path. A missing file is reported
// as an error message, not returned as an error.
func (v *Validator) ValidateFile(ctx context.Context, path string) (FileResult, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			v.collector.Error(path, "Input file not found: %s", path)
			return FileResult{Path: path}, nil
		}
		return FileResult{Path: path}, fmt.Errorf("open input %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()
	return v.ValidateReader(ctx, path, f)
}

// ValidateReader validates CSV content read from r. name identifies the
// input in messages.
func (v *Validator) ValidateReader(ctx context.Context, name string, r io.Reader) (FileResult, error) {
	return v.ValidateSource(ctx, name, NewCSVSource(r))
}

// ValidateSource validates the rows of src. It returns an error only when
// ctx is cancelled; every data problem becomes a message.
func (v *Validator) ValidateSource(ctx context.Context, name string, src Source) (FileResult, error) {
	res := FileResult{Path: name}
	errorsBefore := v.collector.ErrorCount()
	v.logger.Debug("validating input", slog.String("input", name), slog.String("dataset", v.schema.DatasetID))

	header, err := src.Header()
	if err != nil {
		v.collector.Add(v.malformed(name, 1, err))
		return res, nil
	}
	v.checkHeader(name, header)

	for {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		row, err := src.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		rowNum := res.Rows + 2
		if err != nil {
			v.collector.Add(v.malformed(name, rowNum, err))
			break
		}
		res.Rows++

		if failed := v.checkRow(name, row, rowNum); failed && v.failFast {
			v.logger.Debug("fail-fast stop", slog.String("input", name), slog.Int("row", rowNum))
			break
		}
	}

	v.finalize(name)

	res.Passed = v.collector.ErrorCount() == errorsBefore
	v.logger.Debug("input validated",
		slog.String("input", name),
		slog.Int("rows", res.Rows),
		slog.Bool("passed", res.Passed))
	return res, nil
}

// checkHeader reports field rules the dtype cannot apply, declared columns
// missing from header and observed columns the schema does not declare.
func (v *Validator) checkHeader(name string, header []string) {
	for i := range v.schema.Fields {
		f := &v.schema.Fields[i]
		if f.IgnoresBounds() {
			v.collector.Add(core.Message{
				Level:   core.LevelError,
				Message: fmt.Sprintf("Invalid rule for field '%s' in %s: min/max require dtype number, got %s", f.Name, name, f.Type),
				File:    name,
				Column:  f.Name,
			})
		}
	}

	var missing, extra []string
	for _, f := range v.schema.Fields {
		if !slices.Contains(header, f.Name) {
			missing = append(missing, f.Name)
		}
	}
	for _, col := range header {
		if _, ok := v.schema.Field(col); !ok {
			extra = append(extra, col)
		}
	}
	if len(missing) > 0 {
		v.collector.Error(name, "Missing required columns in %s: %s", name, strings.Join(missing, ", "))
	}
	if len(extra) > 0 {
		v.collector.Warn(name, "Extra columns in %s: %s", name, strings.Join(extra, ", "))
	}
}

// checkRow runs field rules, key tracking and constraints for one row and
// reports whether any error was produced.
func (v *Validator) checkRow(name string, row Row, rowNum int) bool {
	msgs := v.rows.Validate(row, rowNum)
	v.tracker.ObserveKey(name, row, rowNum)
	for i := range v.schema.Constraints {
		if m, failed := v.eval.Evaluate(&v.schema.Constraints[i], row, rowNum); failed {
			msgs = append(msgs, m)
		}
	}
	for i := range msgs {
		msgs[i].File = name
	}
	v.collector.Add(msgs...)
	return len(msgs) > 0
}

// finalize reports composite primary key repeats found in this input.
func (v *Validator) finalize(name string) {
	for _, d := range v.tracker.TakeKeyDuplicates() {
		parts := make([]string, len(d.Values))
		for i, col := range v.tracker.KeyColumns() {
			parts[i] = col + "=" + d.Values[i]
		}
		text := fmt.Sprintf("Row %d: duplicate primary key (%s) first seen at row %d", d.Row, strings.Join(parts, ", "), d.FirstRow)
		if d.FirstFile != d.File {
			text += " in " + d.FirstFile
		}
		v.collector.Add(core.Message{
			Level:   core.LevelError,
			Message: text,
			Row:     d.Row,
			File:    name,
		})
	}
}

func (v *Validator) malformed(name string, rowNum int, err error) core.Message {
	return core.Message{
		Level:   core.LevelError,
		Message: fmt.Sprintf("Row %d: malformed CSV record (%v)", rowNum, err),
		Row:     rowNum,
		File:    name,
	}
}
