package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rvieira/salesetl/internal/seed"
)

// SeedOptions holds flags for the seed command.
type SeedOptions struct {
	*RootOptions
	Year   int
	PerDay int
	Seed   int64
	Dirty  bool
}

// NewSeedCommand creates the seed command.
func NewSeedCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &SeedOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "seed [output-file]",
		Short: "Generate a synthetic sales CSV",
		Long: `Generate a synthetic sales CSV for local development and demos.

The file spans one calendar year across five stores and a fifteen-product
catalog, with retail seasonality, price jitter and tiered discounts. With
--dirty, a few duplicate rows and whitespace-padded fields are mixed in so
the loader's deduplication and normalization can be exercised end to end.

Generation is deterministic for a fixed --seed.

Example:
  salesetl seed ./data/sample_sales.csv --year 2025 --dirty`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			path := ""
			if len(args) == 1 {
				path = args[0]
			}
			return runSeed(opts, path, cmd)
		},
	}

	cmd.Flags().IntVar(&opts.Year, "year", 0, "calendar year to generate (default from config)")
	cmd.Flags().IntVar(&opts.PerDay, "per-day", 0, "max transactions per store per day (default from config)")
	cmd.Flags().Int64Var(&opts.Seed, "seed", -1, "random seed (default from config)")
	cmd.Flags().BoolVar(&opts.Dirty, "dirty", false, "include duplicate rows and dirty whitespace")

	return cmd
}

func runSeed(opts *SeedOptions, path string, cmd *cobra.Command) error {
	cfg, err := loadConfig(opts.RootOptions)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to load config", err)
	}
	setupLogging(opts.RootOptions, cfg)

	if path == "" {
		path = cfg.Seed.Output
	}
	genOpts := seed.Options{
		Year:           cfg.Seed.Year,
		MaxPerStoreDay: cfg.Seed.TransactionsPerDay,
		Seed:           cfg.Seed.RandomSeed,
		Dirty:          opts.Dirty,
	}
	if opts.Year != 0 {
		genOpts.Year = opts.Year
	}
	if opts.PerDay != 0 {
		genOpts.MaxPerStoreDay = opts.PerDay
	}
	if opts.Seed >= 0 {
		genOpts.Seed = opts.Seed
	}

	n, err := seed.Generate(path, genOpts)
	if err != nil {
		return WrapExitError(ExitFailure, "seed generation failed", err)
	}

	formatter := &OutputFormatter{
		Format:  opts.Format,
		Writer:  cmd.OutOrStdout(),
		Verbose: opts.Verbose,
	}
	if opts.Format == "json" {
		return formatter.Success(map[string]any{"output": path, "rows": n})
	}
	return formatter.Success(fmt.Sprintf("Generated %d sales rows in %s", n, path))
}
