package pipeline

import (
	"errors"
	"fmt"
	"strings"
)

// SourceReadError indicates the input file is missing, unreadable, or not
// parseable as tabular data. No rows were processed and no state was written.
type SourceReadError struct {
	Path string
	Err  error
}

func (e *SourceReadError) Error() string {
	return fmt.Sprintf("read source %s: %v", e.Path, e.Err)
}

func (e *SourceReadError) Unwrap() error { return e.Err }

// SchemaError indicates the input is missing required columns.
// Missing names every absent column, not just the first, so one error is
// enough to fix the whole file.
type SchemaError struct {
	Missing []string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("missing required columns: %s", strings.Join(e.Missing, ", "))
}

// CoercionError indicates a field value that cannot be coerced to its
// declared type. Row is the zero-based data row index (header excluded).
type CoercionError struct {
	Row   int
	Field string
	Value string
	Err   error
}

func (e *CoercionError) Error() string {
	return fmt.Sprintf("row %d: cannot coerce field %q from %q: %v", e.Row, e.Field, e.Value, e.Err)
}

func (e *CoercionError) Unwrap() error { return e.Err }

// DimensionWriteError indicates an unexpected persistence failure while
// resolving dimension rows. Always fatal; the run rolls back.
type DimensionWriteError struct {
	Dimension string // "store" or "product"
	Err       error
}

func (e *DimensionWriteError) Error() string {
	return fmt.Sprintf("write %s dimension: %v", e.Dimension, e.Err)
}

func (e *DimensionWriteError) Unwrap() error { return e.Err }

// FactWriteError indicates an unexpected persistence failure while inserting
// fact rows. Duplicate hashes are not errors; this covers everything else.
type FactWriteError struct {
	Err error
}

func (e *FactWriteError) Error() string {
	return fmt.Sprintf("write facts: %v", e.Err)
}

func (e *FactWriteError) Unwrap() error { return e.Err }

// IsSourceReadError reports whether err is a SourceReadError.
// Uses errors.As to handle wrapped errors.
func IsSourceReadError(err error) bool {
	var e *SourceReadError
	return errors.As(err, &e)
}

// IsSchemaError reports whether err is a SchemaError.
func IsSchemaError(err error) bool {
	var e *SchemaError
	return errors.As(err, &e)
}

// IsCoercionError reports whether err is a CoercionError.
func IsCoercionError(err error) bool {
	var e *CoercionError
	return errors.As(err, &e)
}
