package pipeline

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeFile drops content into a temp file and returns its path.
func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestExtract_ReadsRows(t *testing.T) {
	path := writeFile(t, "sales.csv",
		"sale_date,store_name,city,state,sku,product_name,category,quantity,unit_price,discount\n"+
			"2025-01-01,Loja A,São Paulo,SP,SKU-1,Mouse,Periféricos,2,50.0,0.0\n"+
			"2025-01-02,Loja B,Curitiba,PR,SKU-2,Teclado,Periféricos,1,189.9,10.0\n")

	table, err := Extract(path)
	require.NoError(t, err)

	assert.Len(t, table.Columns, 10)
	assert.Len(t, table.Rows, 2)
	assert.Equal(t, "Loja A", table.Rows[0][1])
}

func TestExtract_HeaderCaseInsensitive(t *testing.T) {
	path := writeFile(t, "sales.csv",
		"Sale_Date,STORE_NAME, city ,state,sku,product_name,category,quantity,unit_price,discount\n"+
			"2025-01-01,Loja A,SP,SP,SKU-1,Mouse,Peri,2,50.0,0.0\n")

	table, err := Extract(path)
	require.NoError(t, err)

	assert.Equal(t, 0, table.ColumnIndex("sale_date"))
	assert.Equal(t, 1, table.ColumnIndex("store_name"))
	assert.Equal(t, 2, table.ColumnIndex("city"), "header names are trimmed")
	assert.Equal(t, -1, table.ColumnIndex("no_such_column"))
}

func TestExtract_PreservesCellWhitespace(t *testing.T) {
	path := writeFile(t, "sales.csv",
		"sale_date,store_name,city,state,sku,product_name,category,quantity,unit_price,discount\n"+
			"2025-01-01,  Loja A ,SP,sp,SKU-1,Mouse,Peri,2,50.0,0.0\n")

	table, err := Extract(path)
	require.NoError(t, err)

	assert.Equal(t, "  Loja A ", table.Rows[0][1],
		"cleaning is Normalize's job, not Extract's")
}

func TestExtract_MissingFile(t *testing.T) {
	_, err := Extract(filepath.Join(t.TempDir(), "nope.csv"))

	require.Error(t, err)
	assert.True(t, IsSourceReadError(err))
}

func TestExtract_MalformedCSV(t *testing.T) {
	// Unbalanced quote makes the file unparseable
	path := writeFile(t, "bad.csv", "a,b,c\n\"unterminated,1,2\n")

	_, err := Extract(path)
	require.Error(t, err)
	assert.True(t, IsSourceReadError(err))
}

func TestExtract_EmptyFile(t *testing.T) {
	path := writeFile(t, "empty.csv", "")

	_, err := Extract(path)
	require.Error(t, err)
	assert.True(t, IsSourceReadError(err))
}

func TestExtract_HeaderOnly(t *testing.T) {
	path := writeFile(t, "header.csv",
		"sale_date,store_name,city,state,sku,product_name,category,quantity,unit_price,discount\n")

	table, err := Extract(path)
	require.NoError(t, err)
	assert.Empty(t, table.Rows)
}
