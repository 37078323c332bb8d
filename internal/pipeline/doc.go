// Package pipeline implements the batch ETL pipeline that loads delimited
// sales files into the warehouse.
//
// One invocation is one run: extract -> validate -> normalize+hash ->
// resolve dimensions -> load facts, bracketed by a run ledger entry. The
// stages are strictly sequential and batch-wide; no stage starts before its
// predecessor succeeded for the whole batch.
//
// # Idempotence
//
// Every record carries a content hash - a deterministic SHA-256 fingerprint
// of its ten business fields. The fact table enforces hash uniqueness, so
// re-running the pipeline on already-loaded data inserts nothing and is
// always safe. There is no retry logic anywhere in the pipeline; callers
// recover from transient failures by invoking Run again.
//
// # Failure handling
//
// Errors are classified (SourceReadError, SchemaError, CoercionError,
// DimensionWriteError, FactWriteError) and every one of them is fatal for
// the whole run: uncommitted writes roll back, the ledger entry transitions
// to failed with the captured message, and the error propagates to the
// caller. A single bad row fails the run rather than being dropped silently.
package pipeline
