package document

// Sink consumes finished blocks and structural events and owns the actual
// rendering. Implementations are not safe for concurrent use.
type Sink interface {
	// Open prepares output. Second Open while already open must fail.
	Open() error
	// Close finalizes output, safe to call on never opened sink.
	Close() error
	IsOpen() bool

	// Page geometry takes effect immediately if sink is open, otherwise it
	// becomes default for Open.
	SetPageSize(size PageSize)
	SetPageMargin(m Margins)

	// WriteBlock renders one finished block. Unknown kind is reported by the
	// sink and ignored, returned error means output is broken.
	WriteBlock(kind BlockKind, chunks []Chunk) error
	NewPage()
	AddHrule(rule Hrule)
	AddImage(src string) error
	WriteTable(table *Table) error
}
