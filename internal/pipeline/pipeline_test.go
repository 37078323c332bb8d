package pipeline

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rvieira/salesetl/internal/store"
	"github.com/rvieira/salesetl/internal/testutil"
)

const csvHeader = "sale_date,store_name,city,state,sku,product_name,category,quantity,unit_price,discount\n"

func newTestPipeline(t *testing.T) (*Pipeline, *store.Store) {
	t.Helper()

	st, err := store.Open(filepath.Join(t.TempDir(), "sales.db"))
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })

	st.SetClock(testutil.NewFixedClock(
		time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
		time.Second,
	))

	return New(st, nil), st
}

func TestRun_Scenario(t *testing.T) {
	p, st := newTestPipeline(t)
	ctx := context.Background()

	path := writeFile(t, "sales.csv", csvHeader+
		"2025-01-01,Loja A,SP,SP,SKU-1,Mouse,Peri,2,50.0,0.0\n")

	result, err := p.Run(ctx, path)
	require.NoError(t, err)

	assert.Equal(t, 1, result.RowsRead)
	assert.Equal(t, 1, result.RowsInserted)
	assert.Equal(t, 0, result.RowsSkipped)

	// One store row, one product row, one fact with the derived total
	var stores, products int
	require.NoError(t, st.DB().QueryRow("SELECT COUNT(*) FROM dim_store").Scan(&stores))
	require.NoError(t, st.DB().QueryRow("SELECT COUNT(*) FROM dim_product").Scan(&products))
	assert.Equal(t, 1, stores)
	assert.Equal(t, 1, products)

	var total float64
	require.NoError(t, st.DB().QueryRow("SELECT total_amount FROM fact_sales").Scan(&total))
	assert.Equal(t, 100.0, total)

	run, err := st.GetRun(ctx, result.RunID)
	require.NoError(t, err)
	assert.Equal(t, store.StatusSuccess, run.Status)
	assert.Equal(t, "sales.csv", run.SourceName)
	assert.Equal(t, 1, run.RowsRead)
	assert.Equal(t, 1, run.RowsInserted)
	assert.Equal(t, 0, run.RowsSkipped)
}

func TestRun_Idempotence(t *testing.T) {
	p, _ := newTestPipeline(t)
	ctx := context.Background()

	path := writeFile(t, "sales.csv", csvHeader+
		"2025-01-01,Loja A,SP,SP,SKU-1,Mouse,Peri,2,50.0,0.0\n"+
		"2025-01-02,Loja A,SP,SP,SKU-2,Teclado,Peri,1,189.9,10.0\n"+
		"2025-01-03,Loja B,Curitiba,PR,SKU-1,Mouse,Peri,5,49.9,0.0\n")

	first, err := p.Run(ctx, path)
	require.NoError(t, err)
	assert.Equal(t, 3, first.RowsInserted)
	assert.Equal(t, 0, first.RowsSkipped)

	// Identical file again: nothing new lands
	second, err := p.Run(ctx, path)
	require.NoError(t, err)
	assert.Equal(t, 3, second.RowsRead)
	assert.Equal(t, 0, second.RowsInserted)
	assert.Equal(t, 3, second.RowsSkipped)
}

func TestRun_PartialBatchDuplicate(t *testing.T) {
	p, _ := newTestPipeline(t)

	// Two rows with identical business fields in one file
	path := writeFile(t, "sales.csv", csvHeader+
		"2025-01-01,Loja A,SP,SP,SKU-1,Mouse,Peri,2,50.0,0.0\n"+
		"2025-01-01,Loja A,SP,SP,SKU-1,Mouse,Peri,2,50.0,0.0\n")

	result, err := p.Run(context.Background(), path)
	require.NoError(t, err)

	assert.Equal(t, 2, result.RowsRead)
	assert.Equal(t, 1, result.RowsInserted, "first occurrence wins")
	assert.Equal(t, 1, result.RowsSkipped)
}

func TestRun_DedupAcrossCosmeticDifferences(t *testing.T) {
	p, _ := newTestPipeline(t)

	// Same sale, one row padded with whitespace and lower-cased state
	path := writeFile(t, "sales.csv", csvHeader+
		"2025-01-01,Loja A,São Paulo,SP,SKU-1,Mouse,Peri,2,50.0,0.0\n"+
		"2025-01-01,  Loja A ,São Paulo,sp,SKU-1,Mouse,Peri,2,50.0,0.0\n")

	result, err := p.Run(context.Background(), path)
	require.NoError(t, err)

	assert.Equal(t, 1, result.RowsInserted)
	assert.Equal(t, 1, result.RowsSkipped)
}

func TestRun_DimensionStabilityAcrossRuns(t *testing.T) {
	p, st := newTestPipeline(t)
	ctx := context.Background()

	first := writeFile(t, "first.csv", csvHeader+
		"2025-01-01,Loja A,SP,SP,SKU-1,Mouse,Peri,2,50.0,0.0\n")
	second := writeFile(t, "second.csv", csvHeader+
		"2025-02-01,Loja A,SP,SP,SKU-1,Mouse,Peri,1,50.0,0.0\n")

	_, err := p.Run(ctx, first)
	require.NoError(t, err)
	var id1 int64
	require.NoError(t, st.DB().QueryRow("SELECT store_id FROM dim_store WHERE store_name = 'Loja A'").Scan(&id1))

	_, err = p.Run(ctx, second)
	require.NoError(t, err)
	var id2 int64
	require.NoError(t, st.DB().QueryRow("SELECT store_id FROM dim_store WHERE store_name = 'Loja A'").Scan(&id2))

	assert.Equal(t, id1, id2, "resolving the same store twice yields the same surrogate id")

	var storeCount int
	require.NoError(t, st.DB().QueryRow("SELECT COUNT(*) FROM dim_store").Scan(&storeCount))
	assert.Equal(t, 1, storeCount)
}

func TestRun_MissingColumnsFailsRun(t *testing.T) {
	p, st := newTestPipeline(t)
	ctx := context.Background()

	// quantity and discount columns are absent
	path := writeFile(t, "sales.csv",
		"sale_date,store_name,city,state,sku,product_name,category,unit_price\n"+
			"2025-01-01,Loja A,SP,SP,SKU-1,Mouse,Peri,50.0\n")

	_, err := p.Run(ctx, path)
	require.Error(t, err)

	var schemaErr *SchemaError
	require.ErrorAs(t, err, &schemaErr)
	assert.ElementsMatch(t, []string{"quantity", "discount"}, schemaErr.Missing)

	// The ledger entry is terminal, carries the message and the row count
	// reached before the failure
	runs, err := st.ListRuns(ctx, 0)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, store.StatusFailed, runs[0].Status)
	assert.Contains(t, runs[0].ErrorMessage, "quantity")
	assert.Contains(t, runs[0].ErrorMessage, "discount")
	assert.Equal(t, 1, runs[0].RowsRead, "extraction succeeded, so rows_read is recorded")
}

func TestRun_MissingFileFailsRun(t *testing.T) {
	p, st := newTestPipeline(t)
	ctx := context.Background()

	_, err := p.Run(ctx, filepath.Join(t.TempDir(), "nope.csv"))
	require.Error(t, err)
	assert.True(t, IsSourceReadError(err))

	runs, err := st.ListRuns(ctx, 0)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, store.StatusFailed, runs[0].Status)
	assert.Equal(t, 0, runs[0].RowsRead)
	assert.NotEmpty(t, runs[0].ErrorMessage)
}

func TestRun_CoercionFailureWritesNothing(t *testing.T) {
	p, st := newTestPipeline(t)
	ctx := context.Background()

	// Second row has a non-numeric quantity; the whole run fails, no row
	// is silently dropped
	path := writeFile(t, "sales.csv", csvHeader+
		"2025-01-01,Loja A,SP,SP,SKU-1,Mouse,Peri,2,50.0,0.0\n"+
		"2025-01-02,Loja B,PR,PR,SKU-2,Teclado,Peri,two,189.9,0.0\n")

	_, err := p.Run(ctx, path)
	require.Error(t, err)

	var coercionErr *CoercionError
	require.ErrorAs(t, err, &coercionErr)
	assert.Equal(t, 1, coercionErr.Row)
	assert.Equal(t, "quantity", coercionErr.Field)

	facts, err := st.CountFacts(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, facts, "no partial state from a failed run")

	var stores int
	require.NoError(t, st.DB().QueryRow("SELECT COUNT(*) FROM dim_store").Scan(&stores))
	assert.Equal(t, 0, stores)
}

func TestRun_NoRunEverLeftRunning(t *testing.T) {
	p, st := newTestPipeline(t)
	ctx := context.Background()

	good := writeFile(t, "good.csv", csvHeader+
		"2025-01-01,Loja A,SP,SP,SKU-1,Mouse,Peri,2,50.0,0.0\n")
	bad := writeFile(t, "bad.csv", "wrong,header\nx,y\n")

	_, err := p.Run(ctx, good)
	require.NoError(t, err)
	_, err = p.Run(ctx, bad)
	require.Error(t, err)

	runs, err := st.ListRuns(ctx, 0)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	for _, run := range runs {
		assert.NotEqual(t, store.StatusRunning, run.Status,
			"every invocation reaches a terminal state")
		require.NotNil(t, run.FinishedAt)
	}
}

func TestRun_EmptyFileSucceeds(t *testing.T) {
	p, st := newTestPipeline(t)
	ctx := context.Background()

	path := writeFile(t, "empty.csv", csvHeader)

	result, err := p.Run(ctx, path)
	require.NoError(t, err)
	assert.Equal(t, 0, result.RowsRead)
	assert.Equal(t, 0, result.RowsInserted)

	run, err := st.GetRun(ctx, result.RunID)
	require.NoError(t, err)
	assert.Equal(t, store.StatusSuccess, run.Status)
}

func TestRun_LedgerIsAppendOnly(t *testing.T) {
	p, st := newTestPipeline(t)
	ctx := context.Background()

	path := writeFile(t, "sales.csv", csvHeader+
		"2025-01-01,Loja A,SP,SP,SKU-1,Mouse,Peri,2,50.0,0.0\n")

	for i := 0; i < 3; i++ {
		_, err := p.Run(ctx, path)
		require.NoError(t, err)
	}

	runs, err := st.ListRuns(ctx, 0)
	require.NoError(t, err)
	assert.Len(t, runs, 3, "one ledger entry per invocation, never overwritten")
}
