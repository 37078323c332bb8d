package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// dateFormat is the canonical storage form of sale_date.
// TEXT in ISO-8601 date form sorts and compares correctly in SQLite.
const dateFormat = "2006-01-02"

// FactRow is one sale ready for insertion into fact_sales.
// StoreID and ProductID are dimension surrogate ids resolved beforehand;
// ContentHash is the deduplication key.
type FactRow struct {
	SaleDate    time.Time
	StoreID     int64
	ProductID   int64
	Quantity    int
	UnitPrice   float64
	Discount    float64
	TotalAmount float64
	ContentHash string
}

// InsertFact attempts to insert one fact row.
// Returns inserted=false without error when a fact with the same content_hash
// already exists - duplicate detection is a result, not an exception.
//
// Uses ON CONFLICT(content_hash) DO NOTHING against the UNIQUE constraint,
// so the conditional insert is atomic under concurrent runs.
func (s *Store) InsertFact(ctx context.Context, tx *sql.Tx, row FactRow) (inserted bool, err error) {
	result, err := tx.ExecContext(ctx, `
		INSERT INTO fact_sales
		(sale_date, store_id, product_id, quantity, unit_price, discount, total_amount, content_hash)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(content_hash) DO NOTHING
	`,
		row.SaleDate.Format(dateFormat),
		row.StoreID,
		row.ProductID,
		row.Quantity,
		row.UnitPrice,
		row.Discount,
		row.TotalAmount,
		row.ContentHash,
	)
	if err != nil {
		return false, fmt.Errorf("insert fact: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("insert fact: rows affected: %w", err)
	}

	return rowsAffected > 0, nil
}

// CountFacts returns the total number of fact rows.
func (s *Store) CountFacts(ctx context.Context) (int, error) {
	var count int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM fact_sales`).Scan(&count); err != nil {
		return 0, fmt.Errorf("count facts: %w", err)
	}
	return count, nil
}

// HasFact checks whether a fact with the given content hash exists.
func (s *Store) HasFact(ctx context.Context, contentHash string) (bool, error) {
	var count int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM fact_sales WHERE content_hash = ?`, contentHash,
	).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("check fact: %w", err)
	}
	return count > 0, nil
}
