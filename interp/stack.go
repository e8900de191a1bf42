package interp

import "textpdf/document"

// stack keeps attribute snapshots of open inline elements, innermost last.
// Entries are values, everything leaving the stack is cloned.
type stack struct {
	entries []document.Chunk
}

// push adds entry inheriting attributes of the current top overlaid with own.
func (s *stack) push(own document.Attrs) *document.Chunk {
	var attrs document.Attrs
	if top := s.top(); top != nil {
		attrs = top.Attrs.Clone()
	} else {
		attrs = document.Attrs{}
	}
	attrs.Overlay(own)
	s.entries = append(s.entries, document.Chunk{Attrs: attrs})
	return &s.entries[len(s.entries)-1]
}

func (s *stack) pop() (document.Chunk, bool) {
	if len(s.entries) == 0 {
		return document.Chunk{}, false
	}
	c := s.entries[len(s.entries)-1]
	s.entries[len(s.entries)-1] = document.Chunk{}
	s.entries = s.entries[:len(s.entries)-1]
	return c, true
}

func (s *stack) top() *document.Chunk {
	if len(s.entries) == 0 {
		return nil
	}
	return &s.entries[len(s.entries)-1]
}

func (s *stack) depth() int {
	return len(s.entries)
}
