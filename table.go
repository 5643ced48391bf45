package entity

import (
	"strings"

	"github.com/iancoleman/strcase"
)

// Table is an untyped query result. Each row holds one cell per column,
// positionally aligned with Columns.
type Table struct {
	Columns []string
	Rows    [][]any
}

// ColumnIndex returns the position of the named column, or -1.
// An exact match wins over a case-insensitive one, which wins over a match
// on the snake_case form of name.
func (tb Table) ColumnIndex(name string) int {
	for i, col := range tb.Columns {
		if col == name {
			return i
		}
	}

	for i, col := range tb.Columns {
		if strings.EqualFold(col, name) {
			return i
		}
	}

	snake := strcase.ToSnake(name)
	for i, col := range tb.Columns {
		if strings.EqualFold(col, snake) {
			return i
		}
	}

	return -1
}

// Len returns the number of rows.
func (tb Table) Len() int {
	return len(tb.Rows)
}

// Cell returns the value at row r and the named column. ok is false when the
// column does not exist or the row is too short.
func (tb Table) Cell(r int, column string) (cell any, ok bool) {
	c := tb.ColumnIndex(column)
	if c < 0 || r < 0 || r >= len(tb.Rows) || c >= len(tb.Rows[r]) {
		return nil, false
	}

	return tb.Rows[r][c], true
}
