package document

import (
	"textpdf/utils/debug"
)

// long contents are shortened in dumps
const dumpTextLimit = 120

// DumpBlock returns readable tree of the block, used for debug logging.
func DumpBlock(kind BlockKind, chunks []Chunk) string {
	tw := debug.NewTreeWriter(debug.WithTextLimit(dumpTextLimit))
	tw.Line(0, "Block[%s] chunks: %d", kind, len(chunks))
	for i, c := range chunks {
		tw.Line(1, "Chunk[%d] value[%t] attrs%s", i, c.IsValue, c.Attrs)
		tw.TextBlock(2, "contents", c.Contents)
	}
	return tw.String()
}

// String returns readable tree of the table, used for debug logging.
func (t *Table) String() string {
	if t == nil {
		return "<nil Table>"
	}
	tw := debug.NewTreeWriter(debug.WithTextLimit(dumpTextLimit))
	tw.Line(0, "Table attrs%s cells: %d", t.Attrs, len(t.Cells))
	for i, c := range t.Cells {
		tw.Line(1, "Cell[%d] attrs%s", i, c.Attrs)
		tw.TextBlock(2, "contents", c.Contents)
	}
	return tw.String()
}
