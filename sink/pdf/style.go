package pdf

import (
	"strings"

	"go.uber.org/zap"
	"golang.org/x/text/width"

	"textpdf/config"
	"textpdf/document"
)

const (
	familySans  = "sans"
	familySerif = "serif"
	familyMono  = "mono"
)

// raise and lowering of super- and subscript text and their default size
const (
	superRise   = 6
	subRise     = -3
	scriptSize  = 8
	defaultSize = 12
)

type fontSpec struct {
	family    string
	bold      bool
	italic    bool
	underline bool
	size      float64
}

// style returns fpdf style string, underline is handled separately as it
// does not change metrics.
func (f fontSpec) style() string {
	switch {
	case f.bold && f.italic:
		return "BI"
	case f.bold:
		return "B"
	case f.italic:
		return "I"
	}
	return ""
}

type blockStyle struct {
	font        fontSpec
	align       string
	indent      float64
	spaceBefore float64
	spaceAfter  float64
}

type run struct {
	text string
	font fontSpec
	rise float64
}

var familyAliases = map[string]string{
	"hei":     familySans,
	"heiti":   familySans,
	"sans":    familySans,
	"song":    familySerif,
	"songti":  familySerif,
	"serif":   familySerif,
	"mono":    familyMono,
	"courier": familyMono,
}

func newBlockStyle(cfg config.BlockConfig) blockStyle {
	bs := blockStyle{
		font: fontSpec{
			family: cfg.Family,
			size:   cfg.Size,
		},
		align:       cfg.Align,
		indent:      cfg.Indent,
		spaceBefore: cfg.SpaceBefore,
		spaceAfter:  cfg.SpaceAfter,
	}
	if bs.font.family == "" {
		bs.font.family = familySerif
	}
	if bs.font.size <= 0 {
		bs.font.size = defaultSize
	}
	if bs.align == "" {
		bs.align = "left"
	}
	bs.font.bold, bs.font.italic, bs.font.underline, _ = parseFontStyles(strings.Split(cfg.Style, ","))
	return bs
}

func parseFontStyles(items []string) (bold, italic, underline bool, unknown []string) {
	for _, item := range items {
		switch strings.ToLower(strings.TrimSpace(item)) {
		case "bold":
			bold = true
		case "italic":
			italic = true
		case "underline":
			underline = true
		case "", "normal":
		default:
			unknown = append(unknown, item)
		}
	}
	return
}

func (s *Sink) blockStyle(kind document.BlockKind) (blockStyle, bool) {
	bs, ok := s.blocks[kind]
	return bs, ok
}

// overrideBlock applies layout attributes of the first chunk in the block.
func (s *Sink) overrideBlock(bs blockStyle, first document.Chunk) blockStyle {
	if v, ok := first.Attrs.Get("align"); ok {
		switch a := strings.ToLower(strings.TrimSpace(v)); a {
		case "left", "center", "right":
			bs.align = a
		default:
			s.warn("align", v, nil)
		}
	}
	for _, f := range []struct {
		name string
		dst  *float64
	}{
		{"indent", &bs.indent},
		{"space-before", &bs.spaceBefore},
		{"space-after", &bs.spaceAfter},
	} {
		v, ok, err := first.Attrs.Float(f.name)
		switch {
		case err != nil:
			s.warn(f.name, first.Attrs.Value(f.name), err)
		case ok && v < 0:
			s.warn(f.name, first.Attrs.Value(f.name), nil)
		case ok:
			*f.dst = v
		}
	}
	return bs
}

// chunkRun resolves chunk attributes against block defaults.
func (s *Sink) chunkRun(c document.Chunk, bs blockStyle) run {
	r := run{text: c.Contents, font: bs.font}

	if v, ok := c.Attrs.Get("font-family"); ok {
		if fam, known := familyAliases[strings.ToLower(strings.TrimSpace(v))]; known {
			r.font.family = fam
		} else {
			s.warn("font-family", v, nil)
		}
	}

	sizeSet := false
	if v, ok, err := c.Attrs.Int("font-size"); err != nil || (ok && v <= 0) {
		s.warn("font-size", c.Attrs.Value("font-size"), err)
	} else if ok {
		r.font.size, sizeSet = float64(v), true
	}

	if styles, ok := c.FontStyles(); ok {
		var unknown []string
		r.font.bold, r.font.italic, r.font.underline, unknown = parseFontStyles(styles)
		for _, u := range unknown {
			s.warn("font-style", u, nil)
		}
	}

	switch {
	case c.Attrs.Bool("super"):
		r.rise = superRise
	case c.Attrs.Bool("sub"):
		r.rise = subRise
	}
	if r.rise != 0 && !sizeSet {
		r.font.size = scriptSize
	}

	if n, ok, err := c.Attrs.Int("minlen"); err != nil {
		s.warn("minlen", c.Attrs.Value("minlen"), err)
	} else if ok {
		if r.text == "" && n > 0 {
			r.font.underline = true
		}
		r.text = padToColumns(r.text, n)
	}
	return r
}

// padToColumns appends spaces until text occupies at least n display
// columns. East Asian wide and fullwidth runes take two columns.
func padToColumns(text string, n int) string {
	cols := 0
	for _, r := range text {
		switch width.LookupRune(r).Kind() {
		case width.EastAsianWide, width.EastAsianFullwidth:
			cols += 2
		default:
			cols++
		}
	}
	if cols >= n {
		return text
	}
	return text + strings.Repeat(" ", n-cols)
}

func (s *Sink) warn(attr, value string, err error) {
	fields := []zap.Field{zap.String("attribute", attr), zap.String("value", value)}
	if err != nil {
		fields = append(fields, zap.Error(err))
	}
	s.log.Warn("Ignoring bad attribute value", fields...)
}
