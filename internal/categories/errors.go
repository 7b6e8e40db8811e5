// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package categories

import (
	"fmt"
	"strings"
)

// QueryError reports that the requested table or columns could not be read.
// Ranking continues on an empty table.
type QueryError struct {
	Source  string
	Table   string
	Columns []string
	Err     error
}

func (e *QueryError) Error() string {
	return fmt.Sprintf("querying %s from table %q in %s: %v",
		strings.Join(e.Columns, ", "), e.Table, e.Source, e.Err)
}

func (e *QueryError) Unwrap() error { return e.Err }

// SchemaError reports that a step needed a column the table does not have.
// The table is left unmodified.
type SchemaError struct {
	Op     string
	Column string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("%s: column %q not found", e.Op, e.Column)
}

// RowsError reports rows whose year could not be derived. Those rows carry an
// empty year and never match a ranking.
type RowsError struct {
	Column    string
	Malformed int
	Total     int
}

func (e *RowsError) Error() string {
	return fmt.Sprintf("deriving %s: %d of %d rows malformed", e.Column, e.Malformed, e.Total)
}
