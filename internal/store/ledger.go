package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// RunStatus is the lifecycle state of a pipeline run.
type RunStatus string

const (
	// StatusRunning means the run started and has not reached a terminal state.
	StatusRunning RunStatus = "running"

	// StatusSuccess is terminal: the run committed all its work.
	StatusSuccess RunStatus = "success"

	// StatusFailed is terminal: the run aborted and its writes were rolled back.
	StatusFailed RunStatus = "failed"
)

// Run is one row of the run ledger.
type Run struct {
	ID           string
	SourceName   string
	StartedAt    time.Time
	FinishedAt   *time.Time
	Status       RunStatus
	RowsRead     int
	RowsInserted int
	RowsSkipped  int
	ErrorMessage string
}

// timestampFormat stores ledger instants as RFC 3339 UTC text.
const timestampFormat = time.RFC3339Nano

// BeginRun creates a ledger entry in state running and returns its id.
//
// Run ids are UUIDv7: time-sortable, so the ledger reads chronologically even
// across processes. The insert executes on the base connection, outside any
// run transaction, so the entry exists even if a later stage crashes.
func (s *Store) BeginRun(ctx context.Context, sourceName string) (string, error) {
	runID := uuid.Must(uuid.NewV7()).String()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO etl_runs (run_id, source_name, started_at, status)
		VALUES (?, ?, ?, ?)
	`, runID, sourceName, s.clock.Now().Format(timestampFormat), StatusRunning)
	if err != nil {
		return "", fmt.Errorf("begin run: %w", err)
	}

	return runID, nil
}

// CompleteRun transitions a running run to success and records its counters.
// Returns an error if the run does not exist or is already terminal; the
// orchestrator's structure guarantees neither happens.
func (s *Store) CompleteRun(ctx context.Context, runID string, rowsRead, rowsInserted, rowsSkipped int) error {
	result, err := s.db.ExecContext(ctx, `
		UPDATE etl_runs
		SET finished_at   = ?,
		    rows_read     = ?,
		    rows_inserted = ?,
		    rows_skipped  = ?,
		    status        = ?
		WHERE run_id = ? AND status = ?
	`, s.clock.Now().Format(timestampFormat), rowsRead, rowsInserted, rowsSkipped,
		StatusSuccess, runID, StatusRunning)
	if err != nil {
		return fmt.Errorf("complete run %s: %w", runID, err)
	}

	return requireTransition(result, runID, StatusSuccess)
}

// FailRun transitions a running run to failed and records the error message.
// rowsRead carries how far the run got before failing; zero when extraction
// itself failed.
func (s *Store) FailRun(ctx context.Context, runID, errorMessage string, rowsRead int) error {
	result, err := s.db.ExecContext(ctx, `
		UPDATE etl_runs
		SET finished_at   = ?,
		    rows_read     = ?,
		    status        = ?,
		    error_message = ?
		WHERE run_id = ? AND status = ?
	`, s.clock.Now().Format(timestampFormat), rowsRead,
		StatusFailed, errorMessage, runID, StatusRunning)
	if err != nil {
		return fmt.Errorf("fail run %s: %w", runID, err)
	}

	return requireTransition(result, runID, StatusFailed)
}

// requireTransition verifies the guarded UPDATE actually moved a running row.
// Zero rows affected means the run is missing or already terminal, which the
// state machine forbids.
func requireTransition(result sql.Result, runID string, to RunStatus) error {
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("transition run %s: rows affected: %w", runID, err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("transition run %s to %s: run not found or not running", runID, to)
	}
	return nil
}

// GetRun returns a single ledger entry by id.
func (s *Store) GetRun(ctx context.Context, runID string) (Run, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT run_id, source_name, started_at, finished_at, status,
		       rows_read, rows_inserted, rows_skipped, error_message
		FROM etl_runs
		WHERE run_id = ?
	`, runID)

	run, err := scanRun(row)
	if err != nil {
		return Run{}, fmt.Errorf("get run %s: %w", runID, err)
	}
	return run, nil
}

// ListRuns returns ledger entries newest first.
// limit <= 0 returns all runs. Ordering is deterministic: started_at is the
// primary key order-wise, run_id (time-sortable) breaks exact ties.
func (s *Store) ListRuns(ctx context.Context, limit int) ([]Run, error) {
	query := `
		SELECT run_id, source_name, started_at, finished_at, status,
		       rows_read, rows_inserted, rows_skipped, error_message
		FROM etl_runs
		ORDER BY started_at DESC, run_id DESC
	`
	args := []any{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("list runs: %w", err)
		}
		runs = append(runs, run)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate runs: %w", err)
	}

	// Return empty slice instead of nil
	if runs == nil {
		runs = []Run{}
	}

	return runs, nil
}

// scanner abstracts *sql.Row and *sql.Rows for scanRun.
type scanner interface {
	Scan(dest ...any) error
}

func scanRun(sc scanner) (Run, error) {
	var (
		run        Run
		startedAt  string
		finishedAt sql.NullString
		errMsg     sql.NullString
	)

	err := sc.Scan(
		&run.ID,
		&run.SourceName,
		&startedAt,
		&finishedAt,
		&run.Status,
		&run.RowsRead,
		&run.RowsInserted,
		&run.RowsSkipped,
		&errMsg,
	)
	if err != nil {
		return Run{}, err
	}

	run.StartedAt, err = time.Parse(timestampFormat, startedAt)
	if err != nil {
		return Run{}, fmt.Errorf("parse started_at: %w", err)
	}

	if finishedAt.Valid {
		t, err := time.Parse(timestampFormat, finishedAt.String)
		if err != nil {
			return Run{}, fmt.Errorf("parse finished_at: %w", err)
		}
		run.FinishedAt = &t
	}

	if errMsg.Valid {
		run.ErrorMessage = errMsg.String
	}

	return run, nil
}
