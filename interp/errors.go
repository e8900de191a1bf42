package interp

import (
	"errors"
	"fmt"
)

// Sentinels for fatal structural problems. StructureError wraps one of them.
var (
	ErrNoRoot           = errors.New("root element 'textpdf' not found")
	ErrRootDuplicated   = errors.New("root element must appear exactly once")
	ErrDocumentNotOpen  = errors.New("document not open yet, check that root element is 'textpdf'")
	ErrNotInTable       = errors.New("element is not a child of table")
	ErrCellOutsideTable = errors.New("cell outside of table")
	ErrSinkOpen         = errors.New("unable to open document")
	ErrSinkWrite        = errors.New("unable to write document")
)

// StructureError is fatal, interpretation stops.
type StructureError struct {
	Tag  string
	Line int
	Err  error
}

func (e *StructureError) Error() string {
	if e.Tag == "" {
		return fmt.Sprintf("line %d: %v", e.Line, e.Err)
	}
	return fmt.Sprintf("line %d: <%s>: %v", e.Line, e.Tag, e.Err)
}

func (e *StructureError) Unwrap() error {
	return e.Err
}

// AttributeError describes recoverable problem with element or its
// attributes. It is reported and interpretation continues.
type AttributeError struct {
	Tag  string
	Attr string
	Line int
	Err  error
}

func (e *AttributeError) Error() string {
	if e.Attr == "" {
		return fmt.Sprintf("line %d: <%s>: %v", e.Line, e.Tag, e.Err)
	}
	return fmt.Sprintf("line %d: <%s %s>: %v", e.Line, e.Tag, e.Attr, e.Err)
}

func (e *AttributeError) Unwrap() error {
	return e.Err
}
