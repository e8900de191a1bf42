// Package interp drives document sink from the stream of markup events,
// resolving attribute inheritance and assembling blocks of chunks.
package interp

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"go.uber.org/multierr"
	"go.uber.org/zap"

	"textpdf/binding"
	"textpdf/document"
	"textpdf/markup"
)

// State of the interpreter.
type State int

const (
	StateClosed State = iota
	StateOpen
	StateInBlock
	StateInTable
	StateFinished
)

func (s State) String() string {
	switch s {
	case StateClosed:
		return "closed"
	case StateOpen:
		return "open"
	case StateInBlock:
		return "in-block"
	case StateInTable:
		return "in-table"
	case StateFinished:
		return "finished"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

const (
	tagRoot      = "textpdf"
	tagPage      = "page"
	tagPageBreak = "pagebreak"
	tagBreak     = "break"
	tagTable     = "table"
	tagCell      = "cell"
	tagValue     = "value"
	tagHspace    = "hspace"
	tagHrule     = "hrule"
	tagImg       = "img"
)

const defaultValueStyle = "bold,underline"

// Interpreter is a single-use state machine. It is not safe for concurrent
// use, independent documents need independent interpreters.
type Interpreter struct {
	sink   document.Sink
	binder *binding.Binder
	log    *zap.Logger

	state    State
	stack    stack
	asm      assembler
	table    *document.Table
	line     int
	warnings error
}

// New creates interpreter writing to sink. Nil binder means there is no data
// and value placeholders are left blank silently.
func New(sink document.Sink, binder *binding.Binder, log *zap.Logger) *Interpreter {
	return &Interpreter{
		sink:   sink,
		binder: binder,
		log:    log.Named("interp"),
	}
}

// State returns current interpreter state.
func (in *Interpreter) State() State {
	return in.state
}

// Warnings returns all recoverable problems reported so far combined with
// multierr, nil if there were none.
func (in *Interpreter) Warnings() error {
	return in.warnings
}

// Run consumes all events from tokenizer. Context is checked between events.
func (in *Interpreter) Run(ctx context.Context, tok *markup.Tokenizer) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		ev, err := tok.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return err
		}
		if err := in.Handle(ev); err != nil {
			return err
		}
	}
	if in.state == StateClosed {
		return &StructureError{Line: in.line, Err: ErrNoRoot}
	}
	return nil
}

// Handle processes single event. Returned error is always fatal.
func (in *Interpreter) Handle(ev markup.Event) error {
	in.line = ev.Line
	switch ev.Kind {
	case markup.EventOpen:
		return in.open(strings.ToLower(ev.Name), ev.Attrs)
	case markup.EventText:
		in.text(ev.Text)
		return nil
	case markup.EventClose:
		return in.close(strings.ToLower(ev.Name))
	default:
		return fmt.Errorf("unexpected event %s", ev.Kind)
	}
}

func (in *Interpreter) fatal(tag string, err error) error {
	return &StructureError{Tag: tag, Line: in.line, Err: err}
}

func (in *Interpreter) report(tag, attr string, err error) {
	aerr := &AttributeError{Tag: tag, Attr: attr, Line: in.line, Err: err}
	in.log.Warn("Template problem", zap.Int("line", in.line), zap.String("element", tag), zap.String("attribute", attr), zap.Error(err))
	in.warnings = multierr.Append(in.warnings, aerr)
}

func isBlockLevel(tag string) bool {
	if _, ok := document.ParseBlockKind(tag); ok {
		return true
	}
	return tag == tagTable
}

func (in *Interpreter) open(tag string, attrs document.Attrs) error {
	if tag == tagRoot {
		if in.state != StateClosed {
			return in.fatal(tag, ErrRootDuplicated)
		}
		if err := in.sink.Open(); err != nil {
			return in.fatal(tag, fmt.Errorf("%w: %w", ErrSinkOpen, err))
		}
		in.state = StateOpen
		return nil
	}
	if in.state == StateClosed || in.state == StateFinished || !in.sink.IsOpen() {
		return in.fatal(tag, ErrDocumentNotOpen)
	}

	if isBlockLevel(tag) {
		in.asm.reset()
	}

	if in.state == StateInTable {
		if tag != tagCell {
			return in.fatal(tag, ErrNotInTable)
		}
		in.table.AddCell(document.Chunk{Attrs: attrs})
		in.asm.takePending()
		return nil
	}

	switch tag {
	case tagTable:
		in.table = document.NewTable(attrs)
		in.state = StateInTable
		return nil
	case tagCell:
		return in.fatal(tag, ErrCellOutsideTable)
	case tagPage:
		in.setupPage(attrs)
		in.sink.NewPage()
		return nil
	case tagHrule:
		in.sink.AddHrule(in.hrule(attrs))
		return nil
	case tagImg:
		src, ok := attrs.Get("src")
		if !ok || strings.TrimSpace(src) == "" {
			in.report(tag, "src", errors.New("image requires 'src' attribute"))
			return nil
		}
		if err := in.sink.AddImage(src); err != nil {
			in.report(tag, "src", err)
		}
		return nil
	}

	if parent := in.stack.top(); parent != nil && in.asm.hasPending() {
		in.asm.emit(parent, in.asm.takePending())
	}
	entry := in.stack.push(attrs)
	in.state = StateInBlock

	switch tag {
	case tagValue:
		entry.IsValue = true
		in.bind(entry, attrs)
	case tagHspace:
		in.hspace(attrs)
	}
	return nil
}

func (in *Interpreter) bind(entry *document.Chunk, own document.Attrs) {
	id, ok := own.Get("id")
	if !ok {
		in.report(tagValue, "id", errors.New("value element requires 'id' attribute"))
		return
	}
	if in.binder == nil {
		return
	}
	text, err := in.binder.Resolve(id)
	if err != nil {
		in.report(tagValue, "id", err)
		return
	}
	in.asm.appendText(text)
	if !own.Has("font-style") {
		entry.Attrs.Set("font-style", defaultValueStyle)
	}
}

func (in *Interpreter) hspace(attrs document.Attrs) {
	size, ok, err := attrs.Int("size")
	switch {
	case err != nil:
		in.report(tagHspace, "size", err)
	case !ok:
		in.report(tagHspace, "size", errors.New("hspace requires 'size' attribute"))
	case size < 0:
		in.report(tagHspace, "size", fmt.Errorf("size must not be negative, got %d", size))
	default:
		in.asm.appendText(strings.Repeat(" ", size))
	}
}

func (in *Interpreter) setupPage(attrs document.Attrs) {
	if name, ok := attrs.Get("size"); ok {
		if size, ok := document.LookupPageSize(name); ok {
			in.sink.SetPageSize(size)
		} else {
			in.report(tagPage, "size", fmt.Errorf("unknown page size %q", name))
		}
	}
	if value, ok := attrs.Get("margin"); ok {
		m, err := document.ParseMargins(value)
		if err != nil {
			in.report(tagPage, "margin", err)
		} else {
			in.sink.SetPageMargin(m)
		}
	}
}

func (in *Interpreter) hrule(attrs document.Attrs) document.Hrule {
	rule := document.DefaultHrule
	if v, ok, err := attrs.Int("width"); err != nil {
		in.report(tagHrule, "width", err)
	} else if ok {
		rule.Width = v
	}
	if v, ok, err := attrs.Int("percent"); err != nil {
		in.report(tagHrule, "percent", err)
	} else if ok {
		rule.Percent = v
	}
	return rule
}

func (in *Interpreter) text(s string) {
	if in.state == StateClosed || in.state == StateFinished {
		return
	}
	in.asm.appendText(normalizeText(s))
}

func (in *Interpreter) close(tag string) error {
	switch {
	case tag == tagRoot:
		in.state = StateFinished
		if err := in.sink.Close(); err != nil {
			return in.fatal(tag, fmt.Errorf("%w: %w", ErrSinkWrite, err))
		}
		return nil
	case in.state == StateInTable && tag == tagCell:
		if cell := in.table.LastCell(); cell != nil {
			cell.Contents = in.asm.takePending()
		}
		return nil
	case in.state == StateInTable && tag == tagTable:
		table := in.table
		in.table = nil
		in.asm.takePending()
		in.state = in.inlineState()
		if table.Empty() {
			return nil
		}
		if ce := in.log.Check(zap.DebugLevel, "Table completed"); ce != nil {
			ce.Write(zap.Stringer("table", table))
		}
		if err := in.sink.WriteTable(table); err != nil {
			return in.fatal(tag, fmt.Errorf("%w: %w", ErrSinkWrite, err))
		}
		return nil
	case tag == tagPage || tag == tagHrule || tag == tagImg:
		// never pushed
		return nil
	}

	entry, ok := in.stack.pop()
	if !ok {
		return nil
	}
	defer func() { in.state = in.inlineState() }()

	switch tag {
	case tagPageBreak:
		in.sink.NewPage()
		return nil
	case tagBreak:
		in.asm.appendText("\n")
		return nil
	}

	if in.asm.hasPending() || tag == tagValue || tag == tagHspace {
		in.asm.emit(&entry, in.asm.takePending())
	}

	kind, ok := document.ParseBlockKind(tag)
	if !ok {
		return nil
	}
	if in.asm.empty() {
		if kind != document.BlockPara {
			return nil
		}
		in.asm.emit(&entry, " ")
	}
	chunks := in.asm.finish()
	if ce := in.log.Check(zap.DebugLevel, "Block completed"); ce != nil {
		ce.Write(zap.String("block", document.DumpBlock(kind, chunks)))
	}
	if err := in.sink.WriteBlock(kind, chunks); err != nil {
		return in.fatal(tag, fmt.Errorf("%w: %w", ErrSinkWrite, err))
	}
	return nil
}

func (in *Interpreter) inlineState() State {
	switch {
	case in.table != nil:
		return StateInTable
	case in.stack.depth() > 0:
		return StateInBlock
	default:
		return StateOpen
	}
}
