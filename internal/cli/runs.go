package cli

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/rvieira/salesetl/internal/store"
)

// RunsOptions holds flags for the runs command.
type RunsOptions struct {
	*RootOptions
	Limit int
}

// NewRunsCommand creates the runs command, the audit view over the run ledger.
func NewRunsCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &RunsOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "runs",
		Short: "List pipeline runs from the ledger",
		Long: `List entries of the run ledger, newest first.

The ledger is append-only: every pipeline invocation leaves exactly one
entry, terminal as success or failed, with row counters and the failure
message when one was captured.

Example:
  salesetl runs --db ./sales.db --limit 20`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return listRuns(opts, cmd)
		},
	}

	cmd.Flags().IntVar(&opts.Limit, "limit", 20, "maximum runs to list (0 = all)")

	return cmd
}

func listRuns(opts *RunsOptions, cmd *cobra.Command) error {
	cfg, err := loadConfig(opts.RootOptions)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to load config", err)
	}
	setupLogging(opts.RootOptions, cfg)

	st, err := store.Open(cfg.Database.Path)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to open database", err)
	}
	defer st.Close()

	runs, err := st.ListRuns(cmd.Context(), opts.Limit)
	if err != nil {
		return WrapExitError(ExitFailure, "failed to list runs", err)
	}

	formatter := &OutputFormatter{
		Format:  opts.Format,
		Writer:  cmd.OutOrStdout(),
		Verbose: opts.Verbose,
	}
	if opts.Format == "json" {
		return formatter.Success(runsJSON(runs))
	}

	rows := make([][]string, 0, len(runs))
	for _, run := range runs {
		finished := "-"
		if run.FinishedAt != nil {
			finished = run.FinishedAt.Format(time.RFC3339)
		}
		rows = append(rows, []string{
			run.ID,
			run.SourceName,
			string(run.Status),
			run.StartedAt.Format(time.RFC3339),
			finished,
			formatCount(run.RowsRead),
			formatCount(run.RowsInserted),
			formatCount(run.RowsSkipped),
			run.ErrorMessage,
		})
	}
	writeTable(cmd.OutOrStdout(),
		[]string{"RUN", "SOURCE", "STATUS", "STARTED", "FINISHED", "READ", "INSERTED", "SKIPPED", "ERROR"},
		rows,
	)
	return nil
}

// runJSON is the ledger entry shape exposed on the JSON surface.
type runJSON struct {
	RunID        string `json:"run_id"`
	SourceName   string `json:"source_name"`
	Status       string `json:"status"`
	StartedAt    string `json:"started_at"`
	FinishedAt   string `json:"finished_at,omitempty"`
	RowsRead     int    `json:"rows_read"`
	RowsInserted int    `json:"rows_inserted"`
	RowsSkipped  int    `json:"rows_skipped"`
	ErrorMessage string `json:"error_message,omitempty"`
}

func runsJSON(runs []store.Run) []runJSON {
	out := make([]runJSON, 0, len(runs))
	for _, run := range runs {
		rj := runJSON{
			RunID:        run.ID,
			SourceName:   run.SourceName,
			Status:       string(run.Status),
			StartedAt:    run.StartedAt.Format(time.RFC3339),
			RowsRead:     run.RowsRead,
			RowsInserted: run.RowsInserted,
			RowsSkipped:  run.RowsSkipped,
			ErrorMessage: run.ErrorMessage,
		}
		if run.FinishedAt != nil {
			rj.FinishedAt = run.FinishedAt.Format(time.RFC3339)
		}
		out = append(out, rj)
	}
	return out
}
