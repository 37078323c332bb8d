package store

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"github.com/rvieira/salesetl/internal/testutil"
)

// openTestStore creates a store in a temp directory with a deterministic
// clock, cleaned up when the test ends.
func openTestStore(t *testing.T) *Store {
	t.Helper()

	s, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })

	s.SetClock(testutil.NewFixedClock(
		time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
		time.Second,
	))
	return s
}

// beginTestTx starts a transaction that rolls back on cleanup unless the
// test commits it first.
func beginTestTx(t *testing.T, s *Store) *sql.Tx {
	t.Helper()

	tx, err := s.Begin(context.Background())
	if err != nil {
		t.Fatalf("Begin() failed: %v", err)
	}
	t.Cleanup(func() { _ = tx.Rollback() })
	return tx
}
