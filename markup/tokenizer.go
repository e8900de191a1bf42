// Package markup turns template source into a pull-based stream of element
// open, text and element close events.
package markup

import (
	"bytes"
	"errors"
	"fmt"
	"html"
	"io"
	"iter"
	"regexp"
	"strings"

	parse "github.com/tdewolff/parse/v2"
	"github.com/tdewolff/parse/v2/xml"
	"golang.org/x/net/html/charset"

	"textpdf/document"
)

// EventKind is type of the markup event.
type EventKind int

const (
	EventOpen EventKind = iota + 1
	EventText
	EventClose
)

func (k EventKind) String() string {
	switch k {
	case EventOpen:
		return "open"
	case EventText:
		return "text"
	case EventClose:
		return "close"
	default:
		return fmt.Sprintf("EventKind(%d)", int(k))
	}
}

// Event is a single markup event. Name is element name as written in the
// source, Attrs are set only for EventOpen, Text only for EventText. Line is
// 1-based source line where event starts.
type Event struct {
	Kind  EventKind
	Name  string
	Attrs document.Attrs
	Text  string
	Line  int
}

// SyntaxError reports malformed markup.
type SyntaxError struct {
	Line int
	Msg  string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("markup syntax error at line %d: %s", e.Line, e.Msg)
}

var (
	utf8BOM    = []byte{0xEF, 0xBB, 0xBF}
	xmlDeclEnc = regexp.MustCompile(`^\s*<\?xml[^>]*encoding\s*=\s*["']([A-Za-z0-9._:-]+)["']`)
)

// Tokenizer produces lazy, finite, non-restartable sequence of events.
type Tokenizer struct {
	lex     *xml.Lexer
	line    int
	open    []string
	pending []Event
	done    bool
	err     error
}

// NewTokenizer reads the whole template. If XML declaration names non UTF-8
// encoding the source is decoded first.
func NewTokenizer(r io.Reader) (*Tokenizer, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("unable to read markup: %w", err)
	}
	data = bytes.TrimPrefix(data, utf8BOM)

	if m := xmlDeclEnc.FindSubmatch(data); m != nil && !strings.EqualFold(string(m[1]), "utf-8") {
		cr, err := charset.NewReaderLabel(string(m[1]), bytes.NewReader(data))
		if err != nil {
			return nil, fmt.Errorf("unsupported markup encoding %q: %w", m[1], err)
		}
		if data, err = io.ReadAll(cr); err != nil {
			return nil, fmt.Errorf("unable to decode markup from %q: %w", m[1], err)
		}
	}
	return &Tokenizer{
		lex:  xml.NewLexer(parse.NewInputBytes(data)),
		line: 1,
	}, nil
}

// Next returns next event or io.EOF when input is exhausted. Any other error
// is fatal and repeated on subsequent calls.
func (t *Tokenizer) Next() (Event, error) {
	for len(t.pending) == 0 {
		if t.err != nil {
			return Event{}, t.err
		}
		if t.done {
			return Event{}, io.EOF
		}
		t.advance()
	}
	ev := t.pending[0]
	t.pending = t.pending[1:]
	return ev, nil
}

// All returns sequence over the remaining events. Iteration stops after the
// first error, io.EOF is not reported.
func (t *Tokenizer) All() iter.Seq2[Event, error] {
	return func(yield func(Event, error) bool) {
		for {
			ev, err := t.Next()
			if errors.Is(err, io.EOF) {
				return
			}
			if !yield(ev, err) || err != nil {
				return
			}
		}
	}
}

func (t *Tokenizer) fail(format string, args ...any) {
	t.err = &SyntaxError{Line: t.line, Msg: fmt.Sprintf(format, args...)}
}

func (t *Tokenizer) advance() {
	tt, data := t.lex.Next()
	line := t.line
	t.line += bytes.Count(data, []byte{'\n'})

	switch tt {
	case xml.ErrorToken:
		if err := t.lex.Err(); err != nil && !errors.Is(err, io.EOF) {
			t.err = &SyntaxError{Line: line, Msg: err.Error()}
			return
		}
		if len(t.open) > 0 {
			t.fail("unexpected end of input, element %q is not closed", t.open[len(t.open)-1])
			return
		}
		t.done = true

	case xml.StartTagToken:
		name := string(t.lex.Text())
		attrs, void := t.attributes()
		if t.err != nil {
			return
		}
		t.pending = append(t.pending, Event{Kind: EventOpen, Name: name, Attrs: attrs, Line: line})
		if void {
			t.pending = append(t.pending, Event{Kind: EventClose, Name: name, Line: t.line})
		} else {
			t.open = append(t.open, name)
		}

	case xml.EndTagToken:
		name := string(t.lex.Text())
		if len(t.open) == 0 {
			t.fail("unexpected closing element %q", name)
			return
		}
		if top := t.open[len(t.open)-1]; top != name {
			t.fail("closing element %q does not match %q", name, top)
			return
		}
		t.open = t.open[:len(t.open)-1]
		t.pending = append(t.pending, Event{Kind: EventClose, Name: name, Line: line})

	case xml.TextToken:
		t.pending = append(t.pending, Event{Kind: EventText, Text: html.UnescapeString(string(data)), Line: line})

	case xml.CDATAToken:
		text := bytes.TrimSuffix(bytes.TrimPrefix(data, []byte("<![CDATA[")), []byte("]]>"))
		t.pending = append(t.pending, Event{Kind: EventText, Text: string(text), Line: line})

	case xml.StartTagPIToken:
		// processing instructions (including XML declaration) are skipped
		t.skipPI()

	default:
		// comments and doctype
	}
}

// attributes collects attributes of the current start tag, void is set for
// self-closing tags.
func (t *Tokenizer) attributes() (attrs document.Attrs, void bool) {
	attrs = document.NewAttrs()
	for {
		tt, data := t.lex.Next()
		t.line += bytes.Count(data, []byte{'\n'})
		switch tt {
		case xml.AttributeToken:
			attrs.Set(string(t.lex.Text()), unquote(t.lex.AttrVal()))
		case xml.StartTagCloseToken:
			return attrs, false
		case xml.StartTagCloseVoidToken:
			return attrs, true
		default:
			if err := t.lex.Err(); err != nil && !errors.Is(err, io.EOF) {
				t.fail("%s", err.Error())
			} else {
				t.fail("unterminated start tag")
			}
			return nil, false
		}
	}
}

func (t *Tokenizer) skipPI() {
	for {
		tt, data := t.lex.Next()
		t.line += bytes.Count(data, []byte{'\n'})
		switch tt {
		case xml.AttributeToken:
			continue
		case xml.StartTagClosePIToken:
			return
		default:
			t.fail("unterminated processing instruction")
			return
		}
	}
}

func unquote(val []byte) string {
	if n := len(val); n >= 2 && (val[0] == '"' || val[0] == '\'') && val[n-1] == val[0] {
		val = val[1 : n-1]
	}
	return html.UnescapeString(string(val))
}
