// Package html renders document model as a single hypertext page.
package html

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/beevik/etree"
	"go.uber.org/zap"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/ianaindex"
	"golang.org/x/text/encoding/unicode"

	"textpdf/common"
	"textpdf/config"
	"textpdf/document"
)

var (
	ErrAlreadyOpen = errors.New("html document is already open")
	ErrNotOpen     = errors.New("html document is not open")
)

var blockTags = map[document.BlockKind]string{
	document.BlockTitle:   "h1",
	document.BlockChapter: "h2",
	document.BlockSection: "h3",
	document.BlockPara:    "p",
}

// Sink builds element tree in memory and serializes it on Close.
type Sink struct {
	out   io.Writer
	cfg   *config.HTMLConfig
	log   *zap.Logger
	title string

	doc  *etree.Document
	body *etree.Element
	open bool
}

// Option configures Sink.
type Option func(*Sink)

// WithTitle sets page title, it takes precedence over configured one.
func WithTitle(title string) Option {
	return func(s *Sink) { s.title = title }
}

func New(out io.Writer, cfg *config.HTMLConfig, log *zap.Logger, opts ...Option) *Sink {
	s := &Sink{out: out, cfg: cfg, log: log.Named("html")}
	for _, o := range opts {
		o(s)
	}
	return s
}

func (s *Sink) Open() error {
	if s.open {
		return ErrAlreadyOpen
	}
	if _, err := s.encoding(); err != nil {
		return err
	}

	s.doc = etree.NewDocument()
	html := s.doc.CreateElement("html")
	head := html.CreateElement("head")

	title := s.title
	if title == "" {
		title = s.cfg.Title
	}
	head.CreateElement("title").CreateText(title)

	meta := head.CreateElement("meta")
	meta.CreateAttr("charset", s.cfg.Encoding)
	for _, m := range [...]struct{ name, content string }{
		{"author", s.cfg.Author},
		{"generator", s.cfg.Generator},
	} {
		if m.content == "" {
			continue
		}
		meta := head.CreateElement("meta")
		meta.CreateAttr("name", m.name)
		meta.CreateAttr("content", m.content)
	}
	for _, href := range s.cfg.Stylesheets {
		link := head.CreateElement("link")
		link.CreateAttr("rel", "stylesheet")
		link.CreateAttr("type", "text/css")
		link.CreateAttr("href", href)
	}
	for _, src := range s.cfg.Scripts {
		script := head.CreateElement("script")
		script.CreateAttr("src", src)
		script.CreateText("")
	}

	s.body = html.CreateElement("body")
	s.body.CreateText("\n")
	s.open = true
	return nil
}

// encoding returns nil for UTF-8 output.
func (s *Sink) encoding() (encoding.Encoding, error) {
	enc, err := ianaindex.IANA.Encoding(s.cfg.Encoding)
	if err != nil {
		return nil, fmt.Errorf("unknown output encoding '%s': %w", s.cfg.Encoding, err)
	}
	if enc == nil {
		return nil, fmt.Errorf("unsupported output encoding '%s'", s.cfg.Encoding)
	}
	if enc == unicode.UTF8 {
		return nil, nil
	}
	return enc, nil
}

func (s *Sink) Close() error {
	if !s.open {
		return nil
	}
	s.open = false
	s.appendExtra()

	enc, err := s.encoding()
	if err != nil {
		return err
	}
	w := s.out
	if enc != nil {
		w = encoding.HTMLEscapeUnsupported(enc.NewEncoder()).Writer(s.out)
	}

	if s.cfg.Declaration != "" {
		if _, err := io.WriteString(w, s.cfg.Declaration+"\n"); err != nil {
			return fmt.Errorf("unable to write html: %w", err)
		}
	}
	if _, err := s.doc.WriteTo(w); err != nil {
		return fmt.Errorf("unable to write html: %w", err)
	}
	return nil
}

// appendExtra moves configured raw markup to the end of the body.
func (s *Sink) appendExtra() {
	extra := strings.TrimSpace(s.cfg.Extra)
	if extra == "" {
		return
	}
	frag := etree.NewDocument()
	if err := frag.ReadFromString("<extra>" + extra + "</extra>"); err != nil {
		s.log.Warn("Ignoring malformed extra html", zap.Error(err))
		return
	}
	for _, tok := range append([]etree.Token(nil), frag.Root().Child...) {
		s.body.AddChild(tok)
	}
	s.body.CreateText("\n")
}

func (s *Sink) IsOpen() bool {
	return s.open
}

// Page geometry has no meaning for hypertext.
func (s *Sink) SetPageSize(document.PageSize) {}

func (s *Sink) SetPageMargin(document.Margins) {}

func (s *Sink) NewPage() {
	if !s.open {
		return
	}
	hr := s.body.CreateElement("hr")
	hr.CreateAttr("class", "pagebreak")
	s.body.CreateText("\n")
}

func (s *Sink) AddHrule(rule document.Hrule) {
	if !s.open {
		return
	}
	hr := s.body.CreateElement("hr")
	if rule != document.DefaultHrule {
		hr.CreateAttr("style", fmt.Sprintf("width:%d%%;border-width:%dpx", rule.Percent, rule.Width))
	}
	s.body.CreateText("\n")
}

func (s *Sink) AddImage(src string) error {
	if !s.open {
		return ErrNotOpen
	}
	img := s.body.CreateElement("img")
	img.CreateAttr("src", src)
	img.CreateAttr("alt", "")
	s.body.CreateText("\n")
	return nil
}

func (s *Sink) WriteBlock(kind document.BlockKind, chunks []document.Chunk) error {
	if !s.open {
		return ErrNotOpen
	}
	tag, ok := blockTags[kind]
	if !ok {
		s.log.Warn("Unknown block kind ignored", zap.Stringer("kind", kind))
		return nil
	}

	block := s.body.CreateElement(tag)
	block.CreateAttr("class", kind.String())
	styled := false
	for _, c := range chunks {
		switch {
		case c.IsValue:
			s.valueField(block, c)
		case !styled:
			// first text chunk defines block look
			styled = true
			if css := blockCSS(c.Attrs); css != "" {
				block.CreateAttr("style", css)
			}
			appendText(block, c.Contents)
		default:
			span := block.CreateElement("span")
			if css := inlineCSS(c.Attrs); css != "" {
				span.CreateAttr("style", css)
			}
			appendText(span, c.Contents)
		}
	}
	s.body.CreateText("\n")
	return nil
}

// valueField renders data bound chunk as form input.
func (s *Sink) valueField(parent *etree.Element, c document.Chunk) {
	id := c.Attrs.Value("id")
	input := parent.CreateElement("input")
	input.CreateAttr("type", "text")
	if id != "" {
		input.CreateAttr("id", id)
		input.CreateAttr("name", id)
	}
	if n, ok, err := c.Attrs.Int("minlen"); err == nil && ok && n > 0 {
		input.CreateAttr("size", fmt.Sprint(n))
	}
	input.CreateAttr("value", c.Contents)
	if css := inlineCSS(c.Attrs); css != "" {
		input.CreateAttr("style", css)
	}

	if s.cfg.ValueMode != common.ValueModeCombo {
		return
	}
	input.CreateAttr("readonly", "readonly")
	sel := parent.CreateElement("select")
	if id != "" {
		sel.CreateAttr("id", id+"-required")
		sel.CreateAttr("name", id+"-required")
	}
	for _, o := range []struct{ value, label string }{{"1", "required"}, {"0", "optional"}} {
		opt := sel.CreateElement("option")
		opt.CreateAttr("value", o.value)
		opt.SetText(o.label)
	}
}

// appendText adds text turning line breaks into br elements. Element always
// gets explicit end tag, "<td/>" is not valid html.
func appendText(e *etree.Element, text string) {
	for i, part := range strings.Split(text, "\n") {
		if i > 0 {
			e.CreateElement("br")
		}
		if part != "" {
			e.CreateText(part)
		}
	}
	if len(e.Child) == 0 {
		e.CreateText("")
	}
}
