package pipeline

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fullColumns() []string {
	cols := make([]string, len(RequiredColumns))
	copy(cols, RequiredColumns)
	return cols
}

func TestValidate_AllColumnsPresent(t *testing.T) {
	table := Table{Columns: fullColumns()}
	assert.NoError(t, Validate(table))
}

func TestValidate_ExtraColumnsAllowed(t *testing.T) {
	table := Table{Columns: append(fullColumns(), "channel", "salesperson")}
	assert.NoError(t, Validate(table))
}

func TestValidate_ReportsEveryMissingColumn(t *testing.T) {
	// Drop quantity and discount
	var cols []string
	for _, c := range fullColumns() {
		if c == "quantity" || c == "discount" {
			continue
		}
		cols = append(cols, c)
	}

	err := Validate(Table{Columns: cols})
	require.Error(t, err)

	var schemaErr *SchemaError
	require.ErrorAs(t, err, &schemaErr)
	assert.ElementsMatch(t, []string{"quantity", "discount"}, schemaErr.Missing,
		"one error must name every absent column")
	assert.True(t, IsSchemaError(err))
}

func TestValidate_EmptyTable(t *testing.T) {
	err := Validate(Table{})

	var schemaErr *SchemaError
	require.ErrorAs(t, err, &schemaErr)
	assert.Len(t, schemaErr.Missing, len(RequiredColumns))
}
