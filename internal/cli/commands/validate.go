package commands

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/leapstack-labs/leapcheck/internal/batch"
	"github.com/leapstack-labs/leapcheck/internal/cli/output"
	"github.com/leapstack-labs/leapcheck/internal/history"
	"github.com/leapstack-labs/leapcheck/internal/source"
	"github.com/leapstack-labs/leapcheck/pkg/core"
	"github.com/leapstack-labs/leapcheck/pkg/schema"
	"github.com/leapstack-labs/leapcheck/pkg/validate"
	"github.com/spf13/cobra"
)

// ValidateOptions holds options for the validate command.
type ValidateOptions struct {
	Input         string // CSV file, directory or s3:// URL
	Schema        string // Explicit schema file
	DatasetID     string // Dataset id resolved in the schemas directory
	ReportJSON    string // Path to write the JSON report
	SampleCheck   bool   // Also validate the dataset's sample file
	Watch         bool   // Re-run when the input or schema changes
	FailFast      bool
	Strict        bool
	Jobs          int
	ShareTrackers bool
	Record        bool
}

// NewValidateCommand creates the validate command.
func NewValidateCommand() *cobra.Command {
	opts := &ValidateOptions{}
	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Validate CSV files against a dataset schema",
		Long: `Validate one CSV file, every matching file in a directory, or objects
under an s3:// prefix against a dataset schema.

The schema is taken from --schema, looked up by --dataset-id in the schemas
directory, or auto-detected when the directory holds exactly one schema.

Every finding is printed as "[LEVEL] message row=N column=C". Errors go to
stderr. The command exits 1 when any error was found.

Output adapts to environment:
  - Terminal: Styled output with colors
  - Piped/Scripted: Markdown format
  - JSON: The report document on stdout`,
		Example: `  # Validate one file by dataset id
  leapcheck validate --input data/pricing/current.csv --dataset-id pricing

  # Validate a directory, treating warnings as errors
  leapcheck validate --input data/pricing --dataset-id pricing --strict

  # Write a JSON report and record the run
  leapcheck validate --input data.csv --schema pricing.schema.yaml --report-json out/report.json --record

  # Re-run on every change
  leapcheck validate --input data/pricing --dataset-id pricing --watch`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			applyConfigDefaults(cmd, opts)
			return runValidate(cmd, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.Input, "input", "i", "", "CSV file, directory or s3:// URL to validate")
	cmd.Flags().StringVarP(&opts.Schema, "schema", "s", "", "Path to schema file")
	cmd.Flags().StringVarP(&opts.DatasetID, "dataset-id", "d", "", "Dataset identifier to load schema")
	cmd.Flags().StringVar(&opts.ReportJSON, "report-json", "", "Path to write JSON report")
	cmd.Flags().BoolVar(&opts.SampleCheck, "sample-check", false, "Also validate <samples_dir>/<dataset_id>_sample.csv")
	cmd.Flags().BoolVarP(&opts.Watch, "watch", "w", false, "Re-run validation when the input or schema changes")
	cmd.Flags().BoolVar(&opts.FailFast, "fail-fast", false, "Stop reading a file after its first failing row")
	cmd.Flags().BoolVar(&opts.Strict, "strict", false, "Treat warnings as errors")
	cmd.Flags().IntVarP(&opts.Jobs, "jobs", "j", 0, "Files validated in parallel (0 = number of CPUs)")
	cmd.Flags().BoolVar(&opts.ShareTrackers, "share-trackers", false, "Check unique values and primary keys across all files")
	cmd.Flags().BoolVar(&opts.Record, "record", false, "Record the run in the history store")
	_ = cmd.MarkFlagRequired("input")

	return cmd
}

// applyConfigDefaults fills options whose flags were not set from the
// loaded configuration.
func applyConfigDefaults(cmd *cobra.Command, opts *ValidateOptions) {
	cfg := getConfig()
	flags := cmd.Flags()
	if !flags.Changed("fail-fast") {
		opts.FailFast = cfg.FailFast
	}
	if !flags.Changed("strict") {
		opts.Strict = cfg.Strict
	}
	if !flags.Changed("jobs") {
		opts.Jobs = cfg.Jobs
	}
	if !flags.Changed("share-trackers") {
		opts.ShareTrackers = cfg.ShareTrackers
	}
	if !flags.Changed("record") {
		opts.Record = cfg.History.Enabled
	}
}

func runValidate(cmd *cobra.Command, opts *ValidateOptions) error {
	cmdCtx := NewCommandContext(cmd)
	ctx := cmd.Context()

	resolver := schema.NewResolver(cmdCtx.Cfg.SchemasDir)
	sc, schemaPath, err := resolver.Resolve(opts.Schema, opts.DatasetID)
	if err != nil {
		return err
	}
	cmdCtx.Logger.Debug("schema loaded",
		slog.String("dataset", sc.DatasetID),
		slog.String("version", sc.Version),
		slog.String("path", schemaPath))

	rep, err := runValidation(ctx, cmdCtx, sc, opts)
	if err != nil {
		return err
	}

	if opts.Watch {
		return watchValidation(ctx, cmdCtx, opts, schemaPath, func() {
			cmdCtx.Renderer.Println("")
			cmdCtx.Renderer.Info("Change detected, re-running validation")
			reloaded, _, err := resolver.Resolve(schemaPath, "")
			if err != nil {
				cmdCtx.Renderer.Error(err.Error())
				return
			}
			if _, err := runValidation(ctx, cmdCtx, reloaded, opts); err != nil {
				cmdCtx.Renderer.Error(err.Error())
			}
		})
	}

	if !rep.Passed() {
		return ErrValidationFailed
	}
	return nil
}

// runValidation performs one full validation pass and prints its results.
func runValidation(ctx context.Context, cmdCtx *CommandContext, sc *schema.Schema, opts *ValidateOptions) (core.Report, error) {
	r := cmdCtx.Renderer
	cfg := cmdCtx.Cfg
	started := time.Now()

	var store *source.ObjectStore
	if source.IsRemote(opts.Input) && cfg.ObjectStore != nil {
		var err error
		store, err = source.NewObjectStore(cfg.ObjectStore.Source())
		if err != nil {
			return core.Report{}, err
		}
	}

	inputs, err := source.Discover(ctx, opts.Input, sc.FilePattern, store)
	if err != nil {
		return core.Report{}, err
	}
	for _, in := range inputs {
		r.Info("Validating %s", in.Name)
	}

	// Findings produced outside the batch, such as a missing sample file.
	extra := validate.NewCollector(opts.Strict)
	if opts.SampleCheck {
		r.Info("Running sample validation")
		samplePath := filepath.Join(cfg.SamplesDir, sc.DatasetID+"_sample.csv")
		if _, err := os.Stat(samplePath); err == nil {
			inputs = append(inputs, source.LocalFile(samplePath))
		} else {
			extra.Warn(samplePath, "Sample file not found for dataset '%s' at %s", sc.DatasetID, samplePath)
		}
	}

	runner := batch.New(sc, batch.Options{
		Jobs:          opts.Jobs,
		ShareTrackers: opts.ShareTrackers,
		FailFast:      opts.FailFast,
		Strict:        opts.Strict,
		Logger:        cmdCtx.Logger,
	})
	res, err := runner.Run(ctx, inputs)
	if err != nil {
		return core.Report{}, err
	}

	messages := append(res.Messages, extra.Messages()...)
	rep := core.NewReport(messages)

	for _, m := range rep.Messages {
		r.Message(m)
	}

	if opts.ReportJSON != "" {
		if err := writeReport(opts.ReportJSON, rep); err != nil {
			return rep, err
		}
		r.Info("Wrote report to %s", opts.ReportJSON)
	}

	if opts.Record {
		if err := recordRun(ctx, cmdCtx, sc, opts.Input, rep, started); err != nil {
			// A history failure never changes the validation outcome.
			cmdCtx.Logger.Error("failed to record run", slog.Any("error", err))
			r.Warning("run not recorded: " + err.Error())
		}
	}

	if r.EffectiveMode() == output.ModeJSON {
		if err := r.JSON(rep); err != nil {
			return rep, err
		}
	} else {
		r.Summary(rep, len(res.Files))
	}
	return rep, nil
}

// writeReport writes rep as indented JSON, creating parent directories.
func writeReport(path string, rep core.Report) error {
	if err := os.MkdirAll(filepath.Dir(path), 0750); err != nil {
		return fmt.Errorf("failed to create report directory: %w", err)
	}
	data, err := json.MarshalIndent(rep, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode report: %w", err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0600); err != nil {
		return fmt.Errorf("failed to write report %s: %w", path, err)
	}
	return nil
}

func recordRun(ctx context.Context, cmdCtx *CommandContext, sc *schema.Schema, input string, rep core.Report, started time.Time) error {
	store, err := openHistory(ctx, cmdCtx.Cfg)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	payload, err := json.Marshal(rep)
	if err != nil {
		return err
	}
	run, err := store.RecordRun(ctx, history.Run{
		DatasetID:     sc.DatasetID,
		SchemaVersion: sc.Version,
		Input:         input,
		Status:        rep.Status,
		ErrorCount:    rep.ErrorCount,
		WarningCount:  rep.WarningCount,
		StartedAt:     started,
		CompletedAt:   time.Now(),
		Report:        payload,
	})
	if err != nil {
		return err
	}
	cmdCtx.Renderer.Info("Recorded run %s", run.ID)
	return nil
}

// isCancelled reports whether err came from context cancellation.
func isCancelled(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}
