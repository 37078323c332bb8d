package pipeline

import (
	"encoding/csv"
	"fmt"
	"os"
	"strings"
)

// Table is the raw tabular structure read from a source file.
// Columns are the header names, trimmed and lower-cased; Rows hold the cell
// values exactly as they appear in the file.
type Table struct {
	Columns []string
	Rows    [][]string
}

// ColumnIndex returns the position of a column by its lower-cased name,
// or -1 if the table does not carry it.
func (t Table) ColumnIndex(name string) int {
	for i, col := range t.Columns {
		if col == name {
			return i
		}
	}
	return -1
}

// Extract reads a delimited file into a Table.
//
// The header row is matched case-insensitively: column names are trimmed and
// lower-cased on read. Cell values are left untouched; all cleaning happens
// in Normalize. Fails with SourceReadError if the file is missing, unreadable,
// or not parseable as CSV. No side effects beyond reading.
func Extract(path string) (Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return Table{}, &SourceReadError{Path: path, Err: err}
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.TrimLeadingSpace = false // whitespace is data until Normalize says otherwise

	records, err := r.ReadAll()
	if err != nil {
		return Table{}, &SourceReadError{Path: path, Err: err}
	}

	if len(records) == 0 {
		return Table{}, &SourceReadError{Path: path, Err: fmt.Errorf("file has no header row")}
	}

	columns := make([]string, len(records[0]))
	for i, name := range records[0] {
		columns[i] = strings.ToLower(strings.TrimSpace(name))
	}

	return Table{Columns: columns, Rows: records[1:]}, nil
}
