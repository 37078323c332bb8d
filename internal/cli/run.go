package cli

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/rvieira/salesetl/internal/pipeline"
	"github.com/rvieira/salesetl/internal/store"
)

// RunOptions holds flags for the run command.
type RunOptions struct {
	*RootOptions
}

// NewRunCommand creates the run command.
func NewRunCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &RunOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "run [file]",
		Short: "Load a sales CSV into the warehouse",
		Long: `Run the ETL pipeline over a sales CSV file.

The pipeline validates and normalizes the file, resolves store and product
dimensions, and inserts fact rows deduplicated by content hash. Re-running
the same file is safe: previously loaded rows are skipped, and every attempt
is recorded in the run ledger.

When no file is given, the configured default CSV is loaded.

Example:
  salesetl run --db ./sales.db ./data/sample_sales.csv
  salesetl run --config etc/salesetl.yaml`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			path := ""
			if len(args) == 1 {
				path = args[0]
			}
			return runLoad(opts, path, cmd)
		},
	}

	return cmd
}

func runLoad(opts *RunOptions, path string, cmd *cobra.Command) error {
	cfg, err := loadConfig(opts.RootOptions)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to load config", err)
	}
	setupLogging(opts.RootOptions, cfg)

	if path == "" {
		path = cfg.Source.DefaultCSV
	}

	slog.Info("opening database", "path", cfg.Database.Path)
	st, err := store.Open(cfg.Database.Path)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to open database", err)
	}
	defer func() {
		if closeErr := st.Close(); closeErr != nil {
			slog.Error("error closing database", "error", closeErr)
		}
	}()

	result, err := pipeline.New(st, slog.Default()).Run(cmd.Context(), path)
	if err != nil {
		return WrapExitError(ExitFailure, "load failed", err)
	}

	formatter := &OutputFormatter{
		Format:  opts.Format,
		Writer:  cmd.OutOrStdout(),
		Verbose: opts.Verbose,
	}
	if opts.Format == "json" {
		return formatter.Success(result)
	}
	return formatter.Success(fmt.Sprintf(
		"Load complete. read=%d inserted=%d skipped=%d (run %s)",
		result.RowsRead, result.RowsInserted, result.RowsSkipped, result.RunID,
	))
}
