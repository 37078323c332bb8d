package store

import (
	"context"
	"fmt"
	"time"
)

// The read side is a thin projection: every aggregate below is a single
// sum/group-by pushed down to SQLite over the star schema. Nothing here
// mutates state, and results only ever reflect committed runs.

// MonthRevenue is revenue, units and discount totals for one YYYY-MM bucket.
type MonthRevenue struct {
	Month    string  `json:"month"`
	Revenue  float64 `json:"revenue"`
	Units    int     `json:"units"`
	Discount float64 `json:"discount"`
	Rows     int     `json:"rows"`
}

// DayRevenue is revenue, units and discount totals for one calendar day.
type DayRevenue struct {
	Date     string  `json:"date"`
	Revenue  float64 `json:"revenue"`
	Units    int     `json:"units"`
	Discount float64 `json:"discount"`
}

// ProductRevenue ranks one product by revenue within a period.
type ProductRevenue struct {
	SKU         string  `json:"sku"`
	ProductName string  `json:"product_name"`
	Category    string  `json:"category"`
	Units       int     `json:"units"`
	Revenue     float64 `json:"revenue"`
}

// StoreRevenue summarizes one store's performance within a period.
type StoreRevenue struct {
	StoreName    string  `json:"store_name"`
	Revenue      float64 `json:"revenue"`
	Units        int     `json:"units"`
	Transactions int     `json:"transaction_count"`
}

// CategoryRevenue summarizes one product category within a period.
type CategoryRevenue struct {
	Category string  `json:"category"`
	Revenue  float64 `json:"revenue"`
	Units    int     `json:"units"`
}

// RevenueByMonth returns revenue, units, discount and row counts grouped by
// month over [start, end], ordered chronologically.
func (s *Store) RevenueByMonth(ctx context.Context, start, end time.Time) ([]MonthRevenue, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT strftime('%Y-%m', sale_date) AS month,
		       SUM(total_amount),
		       SUM(quantity),
		       SUM(discount),
		       COUNT(*)
		FROM fact_sales
		WHERE sale_date BETWEEN ? AND ?
		GROUP BY 1
		ORDER BY 1
	`, start.Format(dateFormat), end.Format(dateFormat))
	if err != nil {
		return nil, fmt.Errorf("query monthly revenue: %w", err)
	}
	defer rows.Close()

	var result []MonthRevenue
	for rows.Next() {
		var m MonthRevenue
		if err := rows.Scan(&m.Month, &m.Revenue, &m.Units, &m.Discount, &m.Rows); err != nil {
			return nil, fmt.Errorf("scan monthly revenue: %w", err)
		}
		result = append(result, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate monthly revenue: %w", err)
	}

	if result == nil {
		result = []MonthRevenue{}
	}
	return result, nil
}

// RevenueByDay returns daily revenue totals over [start, end], ordered
// chronologically.
func (s *Store) RevenueByDay(ctx context.Context, start, end time.Time) ([]DayRevenue, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT sale_date,
		       SUM(total_amount),
		       SUM(quantity),
		       SUM(discount)
		FROM fact_sales
		WHERE sale_date BETWEEN ? AND ?
		GROUP BY 1
		ORDER BY 1
	`, start.Format(dateFormat), end.Format(dateFormat))
	if err != nil {
		return nil, fmt.Errorf("query daily revenue: %w", err)
	}
	defer rows.Close()

	var result []DayRevenue
	for rows.Next() {
		var d DayRevenue
		if err := rows.Scan(&d.Date, &d.Revenue, &d.Units, &d.Discount); err != nil {
			return nil, fmt.Errorf("scan daily revenue: %w", err)
		}
		result = append(result, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate daily revenue: %w", err)
	}

	if result == nil {
		result = []DayRevenue{}
	}
	return result, nil
}

// TopProducts returns the top limit products by revenue over [start, end].
// SKU breaks revenue ties so the ranking is deterministic.
func (s *Store) TopProducts(ctx context.Context, start, end time.Time, limit int) ([]ProductRevenue, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT p.sku,
		       p.product_name,
		       p.category,
		       SUM(f.quantity),
		       SUM(f.total_amount) AS revenue
		FROM fact_sales f
		JOIN dim_product p ON f.product_id = p.product_id
		WHERE f.sale_date BETWEEN ? AND ?
		GROUP BY p.sku, p.product_name, p.category
		ORDER BY revenue DESC, p.sku ASC
		LIMIT ?
	`, start.Format(dateFormat), end.Format(dateFormat), limit)
	if err != nil {
		return nil, fmt.Errorf("query top products: %w", err)
	}
	defer rows.Close()

	var result []ProductRevenue
	for rows.Next() {
		var p ProductRevenue
		if err := rows.Scan(&p.SKU, &p.ProductName, &p.Category, &p.Units, &p.Revenue); err != nil {
			return nil, fmt.Errorf("scan top products: %w", err)
		}
		result = append(result, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate top products: %w", err)
	}

	if result == nil {
		result = []ProductRevenue{}
	}
	return result, nil
}

// StorePerformance returns per-store revenue, units and transaction counts
// over [start, end], highest revenue first.
func (s *Store) StorePerformance(ctx context.Context, start, end time.Time) ([]StoreRevenue, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT d.store_name,
		       SUM(f.total_amount) AS revenue,
		       SUM(f.quantity),
		       COUNT(*)
		FROM fact_sales f
		JOIN dim_store d ON f.store_id = d.store_id
		WHERE f.sale_date BETWEEN ? AND ?
		GROUP BY d.store_name
		ORDER BY revenue DESC, d.store_name ASC
	`, start.Format(dateFormat), end.Format(dateFormat))
	if err != nil {
		return nil, fmt.Errorf("query store performance: %w", err)
	}
	defer rows.Close()

	var result []StoreRevenue
	for rows.Next() {
		var sr StoreRevenue
		if err := rows.Scan(&sr.StoreName, &sr.Revenue, &sr.Units, &sr.Transactions); err != nil {
			return nil, fmt.Errorf("scan store performance: %w", err)
		}
		result = append(result, sr)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate store performance: %w", err)
	}

	if result == nil {
		result = []StoreRevenue{}
	}
	return result, nil
}

// CategoryPerformance returns per-category revenue and units over
// [start, end], highest revenue first.
func (s *Store) CategoryPerformance(ctx context.Context, start, end time.Time) ([]CategoryRevenue, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT p.category,
		       SUM(f.total_amount) AS revenue,
		       SUM(f.quantity)
		FROM fact_sales f
		JOIN dim_product p ON f.product_id = p.product_id
		WHERE f.sale_date BETWEEN ? AND ?
		GROUP BY 1
		ORDER BY revenue DESC, p.category ASC
	`, start.Format(dateFormat), end.Format(dateFormat))
	if err != nil {
		return nil, fmt.Errorf("query category performance: %w", err)
	}
	defer rows.Close()

	var result []CategoryRevenue
	for rows.Next() {
		var c CategoryRevenue
		if err := rows.Scan(&c.Category, &c.Revenue, &c.Units); err != nil {
			return nil, fmt.Errorf("scan category performance: %w", err)
		}
		result = append(result, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate category performance: %w", err)
	}

	if result == nil {
		result = []CategoryRevenue{}
	}
	return result, nil
}
