// Package store provides SQLite-backed storage for the sales warehouse.
//
// The schema is a small star: two dimensions, one fact table, and an
// append-only run ledger:
//   - dim_store: store dimension, natural key store_name
//   - dim_product: product dimension, natural key sku
//   - fact_sales: one immutable row per sale, deduplicated by content_hash
//   - etl_runs: audit trail of pipeline invocations
//
// # Idempotency
//
// Every write path goes through INSERT ... ON CONFLICT DO NOTHING against a
// UNIQUE constraint:
//   - dim_store(store_name), dim_product(sku): insert-if-absent, else the
//     existing surrogate id is read back (insert-else-lookup)
//   - fact_sales(content_hash): a fact whose fingerprint already exists is
//     silently skipped, never inserted twice
//
// RowsAffected() distinguishes inserted from skipped, so duplicate detection
// is a first-class result rather than a caught constraint violation. The
// constraints make conditional inserts atomic, which is what keeps concurrent
// pipeline invocations against the same database correct without any
// in-process locking.
//
// # Transactions
//
// Dimension and fact writes for one run share a single *sql.Tx obtained from
// Store.Begin; a mid-run failure rolls the whole batch back. Run ledger writes
// (BeginRun, CompleteRun, FailRun) execute on the base connection outside that
// transaction so the audit trail survives a rollback.
//
// # Database Configuration
//
//   - WAL mode: concurrent reads during writes
//   - synchronous=NORMAL: balance durability/performance
//   - busy_timeout=5000: wait for locks up to 5 seconds
//   - foreign_keys=ON: enforce referential integrity
package store
