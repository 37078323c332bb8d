package store

import (
	"context"
	"database/sql"
	"fmt"
)

// StoreKey is the natural key of a row in the store dimension.
// store_name alone carries the uniqueness; city and state ride along on
// first insert and are never updated afterwards.
type StoreKey struct {
	Name  string
	City  string
	State string
}

// ProductKey is the natural key of a row in the product dimension.
// sku alone carries the uniqueness.
type ProductKey struct {
	SKU      string
	Name     string
	Category string
}

// ResolveStores maps store natural keys to surrogate ids, inserting rows for
// keys seen for the first time and reusing existing ids otherwise.
//
// Uses INSERT ... ON CONFLICT(store_name) DO NOTHING followed by a lookup when
// the insert was a no-op. The UNIQUE constraint makes the conditional insert
// atomic, so two concurrent runs resolving the same store can never create two
// rows for one natural key.
//
// Duplicate keys in the input resolve once; the returned map covers every
// distinct store_name in keys.
func (s *Store) ResolveStores(ctx context.Context, tx *sql.Tx, keys []StoreKey) (map[string]int64, error) {
	mapping := make(map[string]int64, len(keys))

	for _, key := range keys {
		if _, ok := mapping[key.Name]; ok {
			continue
		}

		result, err := tx.ExecContext(ctx, `
			INSERT INTO dim_store (store_name, city, state)
			VALUES (?, ?, ?)
			ON CONFLICT(store_name) DO NOTHING
		`, key.Name, key.City, key.State)
		if err != nil {
			return nil, fmt.Errorf("resolve store %q: insert: %w", key.Name, err)
		}

		rowsAffected, err := result.RowsAffected()
		if err != nil {
			return nil, fmt.Errorf("resolve store %q: rows affected: %w", key.Name, err)
		}

		var id int64
		if rowsAffected > 0 {
			// New row inserted - get the auto-generated id
			id, err = result.LastInsertId()
			if err != nil {
				return nil, fmt.Errorf("resolve store %q: last insert id: %w", key.Name, err)
			}
		} else {
			// Conflict - row already exists, fetch the existing id
			err = tx.QueryRowContext(ctx,
				`SELECT store_id FROM dim_store WHERE store_name = ?`, key.Name,
			).Scan(&id)
			if err != nil {
				return nil, fmt.Errorf("resolve store %q: select existing: %w", key.Name, err)
			}
		}

		mapping[key.Name] = id
	}

	return mapping, nil
}

// ResolveProducts maps product natural keys to surrogate ids, inserting rows
// for SKUs seen for the first time and reusing existing ids otherwise.
// Symmetric to ResolveStores; see there for the insert-else-lookup contract.
func (s *Store) ResolveProducts(ctx context.Context, tx *sql.Tx, keys []ProductKey) (map[string]int64, error) {
	mapping := make(map[string]int64, len(keys))

	for _, key := range keys {
		if _, ok := mapping[key.SKU]; ok {
			continue
		}

		result, err := tx.ExecContext(ctx, `
			INSERT INTO dim_product (sku, product_name, category)
			VALUES (?, ?, ?)
			ON CONFLICT(sku) DO NOTHING
		`, key.SKU, key.Name, key.Category)
		if err != nil {
			return nil, fmt.Errorf("resolve product %q: insert: %w", key.SKU, err)
		}

		rowsAffected, err := result.RowsAffected()
		if err != nil {
			return nil, fmt.Errorf("resolve product %q: rows affected: %w", key.SKU, err)
		}

		var id int64
		if rowsAffected > 0 {
			id, err = result.LastInsertId()
			if err != nil {
				return nil, fmt.Errorf("resolve product %q: last insert id: %w", key.SKU, err)
			}
		} else {
			err = tx.QueryRowContext(ctx,
				`SELECT product_id FROM dim_product WHERE sku = ?`, key.SKU,
			).Scan(&id)
			if err != nil {
				return nil, fmt.Errorf("resolve product %q: select existing: %w", key.SKU, err)
			}
		}

		mapping[key.SKU] = id
	}

	return mapping, nil
}
