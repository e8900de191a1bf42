// Package debug helps to produce readable dumps of internal structures for
// debug logs and reports.
package debug

import (
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"
)

// TreeWriter accumulates indented lines, one level of depth per indent step.
type TreeWriter struct {
	b      strings.Builder
	indent string
	limit  int
}

type Option func(*TreeWriter)

// WithIndent replaces default two spaces indentation step.
func WithIndent(step string) Option {
	return func(tw *TreeWriter) {
		tw.indent = step
	}
}

// WithTextLimit shortens text values longer than n runes, 0 means no limit.
func WithTextLimit(n int) Option {
	return func(tw *TreeWriter) {
		tw.limit = max(n, 0)
	}
}

func NewTreeWriter(opts ...Option) *TreeWriter {
	tw := &TreeWriter{indent: "  "}
	for _, o := range opts {
		o(tw)
	}
	return tw
}

func (tw *TreeWriter) String() string {
	return tw.b.String()
}

func (tw *TreeWriter) pad(depth int) {
	for range depth {
		tw.b.WriteString(tw.indent)
	}
}

func (tw *TreeWriter) Line(depth int, format string, args ...any) {
	tw.pad(depth)
	fmt.Fprintf(&tw.b, format, args...)
	tw.b.WriteByte('\n')
}

// TextBlock writes labeled text value quoted, so whitespace and control
// characters are visible. Empty value is written as is.
func (tw *TreeWriter) TextBlock(depth int, label, value string) {
	tw.pad(depth)
	tw.b.WriteString(label)
	tw.b.WriteString(": ")
	tw.b.WriteString(tw.encodeText(value))
	tw.b.WriteByte('\n')
}

func (tw *TreeWriter) encodeText(raw string) string {
	if raw == "" {
		return raw
	}
	n := utf8.RuneCountInString(raw)
	if tw.limit == 0 || n <= tw.limit {
		return strconv.Quote(raw)
	}
	cut := 0
	for range tw.limit {
		_, size := utf8.DecodeRuneInString(raw[cut:])
		cut += size
	}
	return strconv.Quote(raw[:cut]) + fmt.Sprintf("... (%d more)", n-tw.limit)
}
