package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/rvieira/salesetl/internal/store"
)

// ReportOptions holds flags for the report command.
type ReportOptions struct {
	*RootOptions
	Start string
	End   string
	Limit int
}

// reportKinds names the available aggregates.
var reportKinds = []string{"monthly", "daily", "products", "stores", "categories"}

// NewReportCommand creates the report command, the read-side projection over
// the warehouse. Every report is a single aggregate query pushed down to
// SQLite; nothing is computed in process.
func NewReportCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ReportOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "report <monthly|daily|products|stores|categories>",
		Short: "Read-only sales aggregates",
		Long: `Project read-only aggregates from the loaded sales data.

Reports:
  monthly     revenue, units and discounts per month
  daily       revenue, units and discounts per day
  products    top products by revenue (see --limit)
  stores      per-store revenue, units and transaction counts
  categories  per-category revenue and units

Example:
  salesetl report monthly --start 2025-01-01 --end 2025-12-31
  salesetl report products --start 2025-11-01 --end 2025-11-30 --limit 5 --format json`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReport(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Start, "start", "", "period start date (YYYY-MM-DD, required)")
	cmd.Flags().StringVar(&opts.End, "end", "", "period end date (YYYY-MM-DD, required)")
	cmd.Flags().IntVar(&opts.Limit, "limit", 10, "row limit for the products report")
	_ = cmd.MarkFlagRequired("start")
	_ = cmd.MarkFlagRequired("end")

	return cmd
}

func runReport(opts *ReportOptions, kind string, cmd *cobra.Command) error {
	cfg, err := loadConfig(opts.RootOptions)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to load config", err)
	}
	setupLogging(opts.RootOptions, cfg)

	start, err := time.Parse("2006-01-02", opts.Start)
	if err != nil {
		return WrapExitError(ExitCommandError, fmt.Sprintf("invalid --start %q", opts.Start), err)
	}
	end, err := time.Parse("2006-01-02", opts.End)
	if err != nil {
		return WrapExitError(ExitCommandError, fmt.Sprintf("invalid --end %q", opts.End), err)
	}
	if end.Before(start) {
		return NewExitError(ExitCommandError, "--end must not be before --start")
	}

	st, err := store.Open(cfg.Database.Path)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to open database", err)
	}
	defer st.Close()

	formatter := &OutputFormatter{
		Format:  opts.Format,
		Writer:  cmd.OutOrStdout(),
		Verbose: opts.Verbose,
	}

	ctx := cmd.Context()
	switch kind {
	case "monthly":
		return monthlyReport(ctx, st, start, end, formatter, cmd)
	case "daily":
		return dailyReport(ctx, st, start, end, formatter, cmd)
	case "products":
		return productsReport(ctx, st, start, end, opts.Limit, formatter, cmd)
	case "stores":
		return storesReport(ctx, st, start, end, formatter, cmd)
	case "categories":
		return categoriesReport(ctx, st, start, end, formatter, cmd)
	default:
		return NewExitError(ExitCommandError,
			fmt.Sprintf("unknown report %q: must be one of %v", kind, reportKinds))
	}
}

func monthlyReport(ctx context.Context, st *store.Store, start, end time.Time, f *OutputFormatter, cmd *cobra.Command) error {
	data, err := st.RevenueByMonth(ctx, start, end)
	if err != nil {
		return WrapExitError(ExitFailure, "monthly report failed", err)
	}
	if f.Format == "json" {
		return f.Success(data)
	}

	rows := make([][]string, 0, len(data))
	for _, m := range data {
		rows = append(rows, []string{
			m.Month, formatMoney(m.Revenue), formatCount(m.Units), formatMoney(m.Discount), formatCount(m.Rows),
		})
	}
	writeTable(cmd.OutOrStdout(), []string{"MONTH", "REVENUE", "UNITS", "DISCOUNT", "ROWS"}, rows)
	return nil
}

func dailyReport(ctx context.Context, st *store.Store, start, end time.Time, f *OutputFormatter, cmd *cobra.Command) error {
	data, err := st.RevenueByDay(ctx, start, end)
	if err != nil {
		return WrapExitError(ExitFailure, "daily report failed", err)
	}
	if f.Format == "json" {
		return f.Success(data)
	}

	rows := make([][]string, 0, len(data))
	for _, d := range data {
		rows = append(rows, []string{
			d.Date, formatMoney(d.Revenue), formatCount(d.Units), formatMoney(d.Discount),
		})
	}
	writeTable(cmd.OutOrStdout(), []string{"DATE", "REVENUE", "UNITS", "DISCOUNT"}, rows)
	return nil
}

func productsReport(ctx context.Context, st *store.Store, start, end time.Time, limit int, f *OutputFormatter, cmd *cobra.Command) error {
	data, err := st.TopProducts(ctx, start, end, limit)
	if err != nil {
		return WrapExitError(ExitFailure, "products report failed", err)
	}
	if f.Format == "json" {
		return f.Success(data)
	}

	rows := make([][]string, 0, len(data))
	for _, p := range data {
		rows = append(rows, []string{
			p.SKU, p.ProductName, p.Category, formatCount(p.Units), formatMoney(p.Revenue),
		})
	}
	writeTable(cmd.OutOrStdout(), []string{"SKU", "PRODUCT", "CATEGORY", "UNITS", "REVENUE"}, rows)
	return nil
}

func storesReport(ctx context.Context, st *store.Store, start, end time.Time, f *OutputFormatter, cmd *cobra.Command) error {
	data, err := st.StorePerformance(ctx, start, end)
	if err != nil {
		return WrapExitError(ExitFailure, "stores report failed", err)
	}
	if f.Format == "json" {
		return f.Success(data)
	}

	rows := make([][]string, 0, len(data))
	for _, s := range data {
		rows = append(rows, []string{
			s.StoreName, formatMoney(s.Revenue), formatCount(s.Units), formatCount(s.Transactions),
		})
	}
	writeTable(cmd.OutOrStdout(), []string{"STORE", "REVENUE", "UNITS", "TRANSACTIONS"}, rows)
	return nil
}

func categoriesReport(ctx context.Context, st *store.Store, start, end time.Time, f *OutputFormatter, cmd *cobra.Command) error {
	data, err := st.CategoryPerformance(ctx, start, end)
	if err != nil {
		return WrapExitError(ExitFailure, "categories report failed", err)
	}
	if f.Format == "json" {
		return f.Success(data)
	}

	rows := make([][]string, 0, len(data))
	for _, c := range data {
		rows = append(rows, []string{
			c.Category, formatMoney(c.Revenue), formatCount(c.Units),
		})
	}
	writeTable(cmd.OutOrStdout(), []string{"CATEGORY", "REVENUE", "UNITS"}, rows)
	return nil
}
