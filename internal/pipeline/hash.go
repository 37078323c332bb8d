package pipeline

import (
	"crypto/sha256"
	"encoding/hex"
	"strconv"
	"strings"
)

// DomainRecord is the domain prefix for record content hashes.
// Version suffix enables future algorithm migration.
const DomainRecord = "salesetl/record/v1"

// fieldDelimiter joins the canonical field renderings before hashing.
const fieldDelimiter = "|"

// ContentHash computes the deterministic fingerprint of a record's ten
// business fields: sale_date, store_name, city, state, sku, product_name,
// category, quantity, unit_price, discount - in that order, each rendered in
// its canonical string form, joined by a fixed delimiter, and hashed with
// SHA-256 under a domain-separation prefix.
//
// The hash is a pure function of the field values: two records with identical
// business fields produce the same hash regardless of load order, file, or
// run. It is the sole deduplication key for the fact table.
//
// Derived values (total_amount) are deliberately excluded - they carry no
// information beyond the fields they are computed from.
func ContentHash(rec NormalizedRecord) string {
	fields := []string{
		rec.SaleDate.Format("2006-01-02"),
		rec.StoreName,
		rec.City,
		rec.State,
		rec.SKU,
		rec.ProductName,
		rec.Category,
		strconv.Itoa(rec.Quantity),
		canonicalDecimal(rec.UnitPrice),
		canonicalDecimal(rec.Discount),
	}

	return hashWithDomain(DomainRecord, []byte(strings.Join(fields, fieldDelimiter)))
}

// canonicalDecimal renders a decimal in its shortest exact form, so 50,
// 50.0 and 5e1 all hash identically.
func canonicalDecimal(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// hashWithDomain computes SHA-256 with domain separation.
// Format: SHA256(domain + 0x00 + data). The null byte separator prevents
// domain/data boundary ambiguity.
func hashWithDomain(domain string, data []byte) string {
	h := sha256.New()
	h.Write([]byte(domain))
	h.Write([]byte{0x00})
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}
