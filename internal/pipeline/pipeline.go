package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/rvieira/salesetl/internal/store"
)

// RunResult summarizes one successful pipeline invocation.
type RunResult struct {
	RunID        string `json:"run_id"`
	RowsRead     int    `json:"rows_read"`
	RowsInserted int    `json:"rows_inserted"`
	RowsSkipped  int    `json:"rows_skipped"`
}

// Pipeline sequences the ETL stages as one unit of work per invocation.
type Pipeline struct {
	store *store.Store
	log   *slog.Logger
}

// New creates a pipeline over an open store.
// A nil logger falls back to slog.Default().
func New(st *store.Store, log *slog.Logger) *Pipeline {
	if log == nil {
		log = slog.Default()
	}
	return &Pipeline{store: st, log: log}
}

// Run executes one complete pipeline invocation over the given file:
// begin run -> extract -> validate -> normalize+hash -> resolve dimensions ->
// load facts -> complete run.
//
// Exactly one ledger entry is created per invocation and it always reaches a
// terminal state before Run returns (short of a process crash). If creating
// the ledger entry itself fails there is nothing to update and the error
// propagates directly. Any later failure rolls back every uncommitted write,
// records the message in the ledger (best-effort), and is returned to the
// caller. rows_read is recorded even on failure once extraction succeeded.
func (p *Pipeline) Run(ctx context.Context, path string) (RunResult, error) {
	sourceName := filepath.Base(path)

	runID, err := p.store.BeginRun(ctx, sourceName)
	if err != nil {
		return RunResult{}, fmt.Errorf("begin run for %s: %w", sourceName, err)
	}
	p.log.Info("run started", "run_id", runID, "source", sourceName)

	result, err := p.execute(ctx, runID, path)
	if err != nil {
		p.log.Error("run failed", "run_id", runID, "error", err)
		if failErr := p.store.FailRun(ctx, runID, err.Error(), result.RowsRead); failErr != nil {
			// Best-effort: the original pipeline error still wins.
			p.log.Error("failed to record run failure", "run_id", runID, "error", failErr)
		}
		return RunResult{}, err
	}

	p.log.Info("run completed",
		"run_id", runID,
		"rows_read", result.RowsRead,
		"rows_inserted", result.RowsInserted,
		"rows_skipped", result.RowsSkipped,
	)
	return result, nil
}

// execute runs every stage after the ledger begin. On error the returned
// RunResult still carries RowsRead so the failure path can record it.
func (p *Pipeline) execute(ctx context.Context, runID, path string) (RunResult, error) {
	result := RunResult{RunID: runID}

	table, err := Extract(path)
	if err != nil {
		return result, err
	}
	result.RowsRead = len(table.Rows)
	p.log.Debug("extracted", "rows", result.RowsRead)

	if err := Validate(table); err != nil {
		return result, err
	}

	records, err := Normalize(table)
	if err != nil {
		return result, err
	}
	p.log.Debug("normalized", "records", len(records))

	tx, err := p.store.Begin(ctx)
	if err != nil {
		return result, err
	}
	defer tx.Rollback() // No-op if committed

	storeMap, err := p.store.ResolveStores(ctx, tx, storeKeys(records))
	if err != nil {
		return result, &DimensionWriteError{Dimension: "store", Err: err}
	}
	productMap, err := p.store.ResolveProducts(ctx, tx, productKeys(records))
	if err != nil {
		return result, &DimensionWriteError{Dimension: "product", Err: err}
	}
	p.log.Debug("dimensions resolved", "stores", len(storeMap), "products", len(productMap))

	for _, rec := range records {
		inserted, err := p.store.InsertFact(ctx, tx, store.FactRow{
			SaleDate:    rec.SaleDate,
			StoreID:     storeMap[rec.StoreName],
			ProductID:   productMap[rec.SKU],
			Quantity:    rec.Quantity,
			UnitPrice:   rec.UnitPrice,
			Discount:    rec.Discount,
			TotalAmount: rec.TotalAmount,
			ContentHash: rec.ContentHash,
		})
		if err != nil {
			return result, &FactWriteError{Err: err}
		}
		if inserted {
			result.RowsInserted++
		} else {
			result.RowsSkipped++
		}
	}

	if err := tx.Commit(); err != nil {
		return result, &FactWriteError{Err: fmt.Errorf("commit: %w", err)}
	}

	// The batch is committed; the ledger update happens outside the
	// transaction on purpose (see store docs).
	if err := p.store.CompleteRun(ctx, runID, result.RowsRead, result.RowsInserted, result.RowsSkipped); err != nil {
		return result, err
	}

	return result, nil
}

// storeKeys collects the distinct store natural keys of a batch in first-seen
// order. The batch-wide map is built once per run and handed to the fact
// loader; no dimension state is shared across runs.
func storeKeys(records []NormalizedRecord) []store.StoreKey {
	seen := make(map[string]bool, len(records))
	keys := make([]store.StoreKey, 0, len(records))
	for _, rec := range records {
		if seen[rec.StoreName] {
			continue
		}
		seen[rec.StoreName] = true
		keys = append(keys, store.StoreKey{Name: rec.StoreName, City: rec.City, State: rec.State})
	}
	return keys
}

// productKeys collects the distinct product natural keys of a batch in
// first-seen order.
func productKeys(records []NormalizedRecord) []store.ProductKey {
	seen := make(map[string]bool, len(records))
	keys := make([]store.ProductKey, 0, len(records))
	for _, rec := range records {
		if seen[rec.SKU] {
			continue
		}
		seen[rec.SKU] = true
		keys = append(keys, store.ProductKey{SKU: rec.SKU, Name: rec.ProductName, Category: rec.Category})
	}
	return keys
}
