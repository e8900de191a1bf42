package interp

import (
	"regexp"
	"strings"

	"textpdf/document"
)

var reNewlineRun = regexp.MustCompile(`\s*\n+\s*`)

// normalizeText removes whitespace runs containing line breaks and trims
// the rest.
func normalizeText(s string) string {
	return strings.TrimSpace(reNewlineRun.ReplaceAllString(s, ""))
}

// assembler accumulates pending text and chunks of the block being built.
type assembler struct {
	pending strings.Builder
	chunks  []document.Chunk
}

func (a *assembler) appendText(s string) {
	a.pending.WriteString(s)
}

func (a *assembler) hasPending() bool {
	return a.pending.Len() > 0
}

// takePending returns pending text and clears it.
func (a *assembler) takePending() string {
	s := a.pending.String()
	a.pending.Reset()
	return s
}

// emit appends copy of the entry with contents to the chunk list.
func (a *assembler) emit(entry *document.Chunk, contents string) {
	entry.Contents = contents
	a.chunks = append(a.chunks, entry.Clone())
}

// reset drops chunk list, whatever was collected so far is lost.
func (a *assembler) reset() {
	a.chunks = nil
}

// finish hands collected chunks over and starts a new list.
func (a *assembler) finish() []document.Chunk {
	chunks := a.chunks
	a.chunks = nil
	return chunks
}

func (a *assembler) empty() bool {
	return len(a.chunks) == 0
}
