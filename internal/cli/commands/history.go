package commands

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"

	"github.com/leapstack-labs/leapcheck/internal/cli/output"
	"github.com/leapstack-labs/leapcheck/internal/history"
	"github.com/spf13/cobra"
)

// HistoryOptions holds options for the history command.
type HistoryOptions struct {
	DatasetID string
	Status    string
	Limit     int
}

// NewHistoryCommand creates the history command.
func NewHistoryCommand() *cobra.Command {
	opts := &HistoryOptions{}
	cmd := &cobra.Command{
		Use:   "history [run-id]",
		Short: "Show recorded validation runs",
		Long: `List validation runs recorded with --record (or history.enabled), newest
first. Pass a run id to print that run's full JSON report.

The store is a SQLite file by default (history.dsn) and may be a
postgres:// URL shared by several machines.`,
		Example: `  # Recent runs
  leapcheck history

  # Failed runs of one dataset
  leapcheck history --dataset-id pricing --status failed

  # Report of one run
  leapcheck history 3f2a9c1e-...`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmdCtx := NewCommandContext(cmd)
			store, err := openHistory(cmd.Context(), cmdCtx.Cfg)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			if len(args) == 1 {
				return showRun(cmd, cmdCtx.Renderer, store, args[0])
			}
			return listRuns(cmd, cmdCtx.Renderer, store, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.DatasetID, "dataset-id", "d", "", "Only runs of this dataset")
	cmd.Flags().StringVar(&opts.Status, "status", "", "Only runs with this status (passed|failed)")
	cmd.Flags().IntVarP(&opts.Limit, "limit", "n", history.DefaultLimit, "Maximum number of runs")

	return cmd
}

func listRuns(cmd *cobra.Command, r *output.Renderer, store history.Store, opts *HistoryOptions) error {
	runs, err := store.ListRuns(cmd.Context(), history.Filter{
		DatasetID: opts.DatasetID,
		Status:    opts.Status,
		Limit:     opts.Limit,
	})
	if err != nil {
		return err
	}

	if r.EffectiveMode() == output.ModeJSON {
		if runs == nil {
			runs = []history.Run{}
		}
		return r.JSON(runs)
	}

	r.Header(1, "Validation Runs")
	if len(runs) == 0 {
		r.Println(r.Muted("No runs recorded"))
		return nil
	}
	rows := make([][]string, 0, len(runs))
	for _, run := range runs {
		rows = append(rows, []string{
			shortID(run.ID),
			run.DatasetID,
			run.SchemaVersion,
			run.Status,
			fmt.Sprintf("%d", run.ErrorCount),
			fmt.Sprintf("%d", run.WarningCount),
			run.StartedAt.Local().Format("2006-01-02 15:04:05"),
			run.Duration().Round(time.Millisecond).String(),
			run.Input,
		})
	}
	r.Table([]string{"Run", "Dataset", "Version", "Status", "Errors", "Warnings", "Started", "Duration", "Input"}, rows)
	return nil
}

func showRun(cmd *cobra.Command, r *output.Renderer, store history.Store, id string) error {
	run, err := store.GetRun(cmd.Context(), id)
	if err != nil {
		return err
	}
	var buf bytes.Buffer
	if err := json.Indent(&buf, run.Report, "", "  "); err != nil {
		return fmt.Errorf("stored report for %s is not valid JSON: %w", id, err)
	}
	buf.WriteByte('\n')
	_, err = r.Writer().Write(buf.Bytes())
	return err
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
