package pipeline

// RequiredColumns are the ten business fields every sales file must carry.
// Their order is also the canonical field order for content hashing.
var RequiredColumns = []string{
	"sale_date",
	"store_name",
	"city",
	"state",
	"sku",
	"product_name",
	"category",
	"quantity",
	"unit_price",
	"discount",
}

// Validate confirms the table's column set is a superset of RequiredColumns.
//
// Returns a SchemaError naming every absent column - callers must be able to
// fix all problems from one error. Side-effect-free; the table passes through
// unchanged on success.
func Validate(t Table) error {
	var missing []string
	for _, required := range RequiredColumns {
		if t.ColumnIndex(required) < 0 {
			missing = append(missing, required)
		}
	}

	if len(missing) > 0 {
		return &SchemaError{Missing: missing}
	}
	return nil
}
