package document

import (
	"fmt"
	"strconv"
	"strings"
)

// Table is a single tabular block. Cells are kept flattened in row-major
// order, rows are derived at render time from the column layout.
type Table struct {
	Attrs Attrs
	Cells []Chunk
}

// NewTable creates empty table with a copy of provided attributes.
func NewTable(attrs Attrs) *Table {
	return &Table{Attrs: attrs.Clone()}
}

// AddCell appends copy of the chunk as a new cell.
func (t *Table) AddCell(c Chunk) {
	t.Cells = append(t.Cells, c.Clone())
}

// LastCell returns pointer to the most recently added cell or nil.
func (t *Table) LastCell() *Chunk {
	if len(t.Cells) == 0 {
		return nil
	}
	return &t.Cells[len(t.Cells)-1]
}

// Empty reports whether table has no cells. Empty tables are never rendered.
func (t *Table) Empty() bool {
	return t == nil || len(t.Cells) == 0
}

// Columns parses "columns" attribute - comma separated relative column
// widths. Zero width marks spacer column which is not rendered. Absent
// attribute results in nil slice and no error.
func (t *Table) Columns() ([]int, error) {
	value, ok := t.Attrs.Get("columns")
	if !ok {
		return nil, nil
	}
	parts := strings.Split(value, ",")
	columns := make([]int, 0, len(parts))
	for _, p := range parts {
		w, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil || w < 0 {
			return nil, fmt.Errorf("columns must be comma separated non-negative integers, got %q", value)
		}
		columns = append(columns, w)
	}
	return columns, nil
}

// Placement positions a single cell in the table grid.
type Placement struct {
	Index  int // index in Cells
	Row    int
	Column int
	Span   int
}

// Layout flows cells into rows of the given column count. Each cell occupies
// "colspan" column slots (1 when absent or malformed, clamped to the space
// left in the row). Without colspans row boundaries are exactly index mod
// columns.
func (t *Table) Layout(columns int) []Placement {
	if columns <= 0 || t.Empty() {
		return nil
	}
	out := make([]Placement, 0, len(t.Cells))
	row, col := 0, 0
	for i := range t.Cells {
		if col >= columns {
			row, col = row+1, 0
		}
		span := 1
		if v, ok, err := t.Cells[i].Attrs.Int("colspan"); ok && err == nil && v > 1 {
			span = v
		}
		span = min(span, columns-col)
		out = append(out, Placement{Index: i, Row: row, Column: col, Span: span})
		col += span
	}
	return out
}
