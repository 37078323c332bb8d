package pipeline

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/unicode/norm"
)

// NormalizedRecord is one sales record after cleaning and coercion,
// carrying the derived total amount and content hash.
type NormalizedRecord struct {
	SaleDate    time.Time
	StoreName   string
	City        string
	State       string
	SKU         string
	ProductName string
	Category    string
	Quantity    int
	UnitPrice   float64
	Discount    float64
	TotalAmount float64
	ContentHash string
}

// dateLayouts are the accepted ISO-8601 forms of sale_date, tried in order.
var dateLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	"2006-01-02 15:04:05",
}

// Normalize turns a validated table into a batch of NormalizedRecords:
//
//   - text fields are trimmed and normalized to Unicode NFC form, so byte-level
//     encoding differences never produce distinct dimension rows or hashes
//   - state is additionally upper-cased
//   - sale_date is parsed as an ISO-8601 date
//   - quantity is coerced to a non-negative integer; unit_price and discount
//     to non-negative decimals; a missing discount becomes 0
//   - total_amount = quantity * unit_price - discount; a discount exceeding
//     the gross value makes it negative, and that is preserved as-is
//   - content_hash is computed from the ten business fields
//
// Fails with a CoercionError identifying the first field that cannot be
// coerced. Pure function: no I/O, input left untouched.
func Normalize(t Table) ([]NormalizedRecord, error) {
	idx := make(map[string]int, len(RequiredColumns))
	for _, col := range RequiredColumns {
		idx[col] = t.ColumnIndex(col)
	}

	records := make([]NormalizedRecord, 0, len(t.Rows))
	for i, row := range t.Rows {
		cell := func(col string) string {
			j := idx[col]
			if j < 0 || j >= len(row) {
				return ""
			}
			return row[j]
		}

		rec := NormalizedRecord{
			StoreName:   cleanText(cell("store_name")),
			City:        cleanText(cell("city")),
			State:       strings.ToUpper(cleanText(cell("state"))),
			SKU:         cleanText(cell("sku")),
			ProductName: cleanText(cell("product_name")),
			Category:    cleanText(cell("category")),
		}

		saleDate, err := parseDate(cell("sale_date"))
		if err != nil {
			return nil, &CoercionError{Row: i, Field: "sale_date", Value: cell("sale_date"), Err: err}
		}
		rec.SaleDate = saleDate

		qty, err := parseQuantity(cell("quantity"))
		if err != nil {
			return nil, &CoercionError{Row: i, Field: "quantity", Value: cell("quantity"), Err: err}
		}
		rec.Quantity = qty

		price, err := parseAmount(cell("unit_price"), false)
		if err != nil {
			return nil, &CoercionError{Row: i, Field: "unit_price", Value: cell("unit_price"), Err: err}
		}
		rec.UnitPrice = price

		discount, err := parseAmount(cell("discount"), true)
		if err != nil {
			return nil, &CoercionError{Row: i, Field: "discount", Value: cell("discount"), Err: err}
		}
		rec.Discount = discount

		rec.TotalAmount = float64(rec.Quantity)*rec.UnitPrice - rec.Discount
		rec.ContentHash = ContentHash(rec)

		records = append(records, rec)
	}

	return records, nil
}

// cleanText trims surrounding whitespace and applies Unicode NFC
// normalization.
func cleanText(s string) string {
	return norm.NFC.String(strings.TrimSpace(s))
}

func parseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, fmt.Errorf("empty date")
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("not an ISO-8601 date")
}

func parseQuantity(s string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("not an integer")
	}
	if n < 0 {
		return 0, fmt.Errorf("negative quantity")
	}
	return n, nil
}

// parseAmount coerces a decimal field. When optional is true, an empty value
// becomes 0 (absent discounts default to no discount).
func parseAmount(s string, optional bool) (float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		if optional {
			return 0, nil
		}
		return 0, fmt.Errorf("empty value")
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("not a number")
	}
	if v < 0 {
		return 0, fmt.Errorf("negative value")
	}
	return v, nil
}
