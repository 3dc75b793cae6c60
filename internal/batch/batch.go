// Package batch validates a set of inputs against one schema, in parallel
// when each input has its own uniqueness state.
package batch

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"runtime"
	"time"

	"github.com/leapstack-labs/leapcheck/internal/source"
	"github.com/leapstack-labs/leapcheck/pkg/core"
	"github.com/leapstack-labs/leapcheck/pkg/schema"
	"github.com/leapstack-labs/leapcheck/pkg/validate"
	"golang.org/x/sync/errgroup"
)

// Options configures a Runner.
type Options struct {
	// Jobs bounds the number of inputs validated at once. Zero means
	// runtime.NumCPU().
	Jobs int

	// ShareTrackers validates every input with one Validator so unique
	// values and primary keys are checked across inputs. Inputs then run
	// one after another.
	ShareTrackers bool

	FailFast bool
	Strict   bool
	Logger   *slog.Logger
	Clock    func() time.Time
}

// Result holds per-input outcomes in input order and the merged messages.
type Result struct {
	Files    []validate.FileResult
	Messages []core.Message
}

// Report summarizes the merged messages.
func (r *Result) Report() core.Report {
	return core.NewReport(r.Messages)
}

// Passed reports whether no input produced an error.
func (r *Result) Passed() bool {
	return r.Report().Passed()
}

// Runner validates inputs against a schema.
type Runner struct {
	schema *schema.Schema
	opts   Options
}

// New returns a Runner for s.
func New(s *schema.Schema, opts Options) *Runner {
	if opts.Jobs <= 0 {
		opts.Jobs = runtime.NumCPU()
	}
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.DiscardHandler)
	}
	return &Runner{schema: s, opts: opts}
}

// Run validates inputs. Messages are merged in input order regardless of
// completion order. An error is returned only for cancellation or a failure
// to read an input that exists.
func (r *Runner) Run(ctx context.Context, inputs []source.Input) (*Result, error) {
	if r.opts.ShareTrackers {
		return r.runShared(ctx, inputs)
	}
	return r.runParallel(ctx, inputs)
}

func (r *Runner) newValidator() (*validate.Validator, error) {
	return validate.New(r.schema,
		validate.WithLogger(r.opts.Logger),
		validate.WithClock(r.opts.Clock),
		validate.WithFailFast(r.opts.FailFast),
		validate.WithStrict(r.opts.Strict),
	)
}

// runShared validates inputs sequentially with one Validator.
func (r *Runner) runShared(ctx context.Context, inputs []source.Input) (*Result, error) {
	v, err := r.newValidator()
	if err != nil {
		return nil, err
	}
	res := &Result{Files: make([]validate.FileResult, 0, len(inputs))}
	for _, in := range inputs {
		fr, err := validateInput(ctx, v, in)
		if err != nil {
			return nil, err
		}
		res.Files = append(res.Files, fr)
	}
	res.Messages = v.Messages()
	return res, nil
}

type outcome struct {
	file     validate.FileResult
	messages []core.Message
}

// runParallel validates each input with its own Validator.
func (r *Runner) runParallel(ctx context.Context, inputs []source.Input) (*Result, error) {
	outcomes := make([]outcome, len(inputs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.opts.Jobs)
	for i, in := range inputs {
		g.Go(func() error {
			v, err := r.newValidator()
			if err != nil {
				return err
			}
			fr, err := validateInput(gctx, v, in)
			if err != nil {
				return err
			}
			outcomes[i] = outcome{file: fr, messages: v.Messages()}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	res := &Result{Files: make([]validate.FileResult, len(inputs))}
	for i, o := range outcomes {
		res.Files[i] = o.file
		res.Messages = append(res.Messages, o.messages...)
	}
	r.opts.Logger.Debug("batch complete", slog.Int("inputs", len(inputs)), slog.Int("jobs", r.opts.Jobs))
	return res, nil
}

func validateInput(ctx context.Context, v *validate.Validator, in source.Input) (validate.FileResult, error) {
	if in.Local {
		return v.ValidateFile(ctx, in.Name)
	}

	rc, err := in.Open(ctx)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			v.Collector().Error(in.Name, "Input file not found: %s", in.Name)
			return validate.FileResult{Path: in.Name}, nil
		}
		return validate.FileResult{}, fmt.Errorf("open %s: %w", in.Name, err)
	}
	defer func() { _ = rc.Close() }()
	return v.ValidateReader(ctx, in.Name, rc)
}
