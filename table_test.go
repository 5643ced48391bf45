package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTableColumnIndex(t *testing.T) {
	t.Parallel()

	tb := Table{Columns: []string{"ID", "id", "User_Name", "joined_at"}}

	assert.Equal(t, 1, tb.ColumnIndex("id"))
	assert.Equal(t, 0, tb.ColumnIndex("ID"))
	assert.Equal(t, 0, tb.ColumnIndex("Id"))
	assert.Equal(t, 2, tb.ColumnIndex("user_name"))
	assert.Equal(t, 3, tb.ColumnIndex("JoinedAt"))
	assert.Equal(t, -1, tb.ColumnIndex("missing"))
}

func TestTableCell(t *testing.T) {
	t.Parallel()

	tb := Table{
		Columns: []string{"id", "name"},
		Rows: [][]any{
			{1, "ann"},
			{2},
		},
	}

	assert.Equal(t, 2, tb.Len())

	cell, ok := tb.Cell(0, "Name")
	assert.True(t, ok)
	assert.Equal(t, "ann", cell)

	_, ok = tb.Cell(1, "name")
	assert.False(t, ok)

	_, ok = tb.Cell(0, "email")
	assert.False(t, ok)

	_, ok = tb.Cell(5, "id")
	assert.False(t, ok)
}
