package pdf

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"regexp"
	"strconv"
	"strings"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest"
	"go.uber.org/zap/zaptest/observer"

	"textpdf/binding"
	"textpdf/config"
	"textpdf/document"
	"textpdf/interp"
	"textpdf/markup"
)

func testConfig(t *testing.T) *config.PDFConfig {
	t.Helper()
	cfg, err := config.LoadConfiguration("")
	if err != nil {
		t.Fatalf("unable to load default configuration: %v", err)
	}
	cfg.Document.PDF.Compress = false
	return &cfg.Document.PDF
}

var reCount = regexp.MustCompile(`/Count (\d+)`)

func pageCount(t *testing.T, data []byte) int {
	t.Helper()
	m := reCount.FindSubmatch(data)
	if m == nil {
		t.Fatal("no page tree in output")
	}
	n, _ := strconv.Atoi(string(m[1]))
	return n
}

func render(t *testing.T, src string, log *zap.Logger, opts ...Option) []byte {
	t.Helper()
	var out bytes.Buffer
	sink := New(&out, testConfig(t), log, opts...)

	tok, err := markup.NewTokenizer(strings.NewReader(src))
	if err != nil {
		t.Fatalf("NewTokenizer: %v", err)
	}
	data := &binding.Data{Values: map[string]any{"name": "Alice"}}
	if err := interp.New(sink, data.Binder(), log).Run(context.Background(), tok); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if !bytes.HasPrefix(out.Bytes(), []byte("%PDF-")) {
		t.Fatalf("output is not pdf: %q", out.String()[:min(out.Len(), 16)])
	}
	return out.Bytes()
}

func TestEndToEnd(t *testing.T) {
	data := render(t, `<textpdf>
		<title>Report</title>
		<para>Hello <value id="name"/></para>
		<pagebreak/>
		<para>Second page</para>
	</textpdf>`, zaptest.NewLogger(t))

	if n := pageCount(t, data); n != 2 {
		t.Errorf("pages = %d, want 2", n)
	}
	for _, s := range []string{"(Report) Tj", "(Alice) Tj", "(Second page) Tj", "/Keywords"} {
		if !bytes.Contains(data, []byte(s)) {
			t.Errorf("output does not contain %q", s)
		}
	}
}

func TestPageBreaksCollapse(t *testing.T) {
	data := render(t, `<textpdf><pagebreak/><pagebreak/><para>x</para><pagebreak/></textpdf>`, zaptest.NewLogger(t))
	if n := pageCount(t, data); n != 1 {
		t.Errorf("pages = %d, want 1", n)
	}
}

func TestEmptyDocument(t *testing.T) {
	data := render(t, `<textpdf/>`, zaptest.NewLogger(t))
	if n := pageCount(t, data); n != 1 {
		t.Errorf("pages = %d, want 1", n)
	}
}

func TestPageSize(t *testing.T) {
	data := render(t, `<textpdf><page size="a5" margin="20,20,20,20"/><para>small</para></textpdf>`, zaptest.NewLogger(t))
	if !bytes.Contains(data, []byte("/MediaBox [0 0 420.00 595.00]")) {
		t.Error("expected a5 page")
	}
}

func TestAutomaticPageBreak(t *testing.T) {
	var b strings.Builder
	b.WriteString("<textpdf>")
	for range 200 {
		b.WriteString("<para>line of text</para>")
	}
	b.WriteString("</textpdf>")

	data := render(t, b.String(), zaptest.NewLogger(t))
	if n := pageCount(t, data); n < 2 {
		t.Errorf("pages = %d, expected text to overflow", n)
	}
}

func TestTable(t *testing.T) {
	data := render(t, `<textpdf><table columns="1,0,2">
		<cell>a</cell><cell>spacer</cell><cell align="right">b</cell>
		<cell colspan="3">wide</cell>
	</table></textpdf>`, zaptest.NewLogger(t))

	for _, s := range []string{"(a) Tj", "(b) Tj", "(wide) Tj"} {
		if !bytes.Contains(data, []byte(s)) {
			t.Errorf("output does not contain %q", s)
		}
	}
	if bytes.Contains(data, []byte("(spacer) Tj")) {
		t.Error("spacer column must not be rendered")
	}
}

var (
	reTextPos = regexp.MustCompile(`BT [\d.]+ ([\d.-]+) Td`)
	reRect    = regexp.MustCompile(`[\d.]+ ([\d.-]+) [\d.]+ (-[\d.]+) re S`)
)

func TestTableRowSplitAcrossPages(t *testing.T) {
	long := strings.Repeat("word ", 1500)
	data := render(t, `<textpdf><para>before</para><table columns="1"><cell>`+long+`</cell></table></textpdf>`, zaptest.NewLogger(t))

	if n := pageCount(t, data); n < 2 {
		t.Fatalf("pages = %d, long row must continue on the next page", n)
	}
	bottom := float64(document.DefaultMargins.Bottom)
	texts := reTextPos.FindAllSubmatch(data, -1)
	if len(texts) == 0 {
		t.Fatal("no text in output")
	}
	for _, m := range texts {
		if y, _ := strconv.ParseFloat(string(m[1]), 64); y < bottom {
			t.Fatalf("text placed below bottom margin at y=%.2f", y)
		}
	}
	rects := reRect.FindAllSubmatch(data, -1)
	if len(rects) < 2 {
		t.Fatalf("expected cell border on every page, got %d", len(rects))
	}
	for _, m := range rects {
		top, _ := strconv.ParseFloat(string(m[1]), 64)
		h, _ := strconv.ParseFloat(string(m[2]), 64)
		if top+h < bottom-0.01 {
			t.Errorf("cell border reaches below bottom margin: top=%.2f height=%.2f", top, h)
		}
	}
}

func TestTableWithoutColumns(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	data := render(t, `<textpdf><table><cell>lost</cell></table></textpdf>`, zap.New(core))

	if bytes.Contains(data, []byte("(lost) Tj")) {
		t.Error("table without columns must be skipped")
	}
	if logs.FilterMessageSnippet("Table skipped").Len() != 1 {
		t.Errorf("expected warning, got %v", logs.All())
	}
}

func TestBadAttributesReported(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	render(t, `<textpdf><para align="middle" font-family="comic" font-size="big">x</para></textpdf>`, zap.New(core))

	attrs := map[string]bool{}
	for _, e := range logs.FilterMessage("Ignoring bad attribute value").All() {
		attrs[e.ContextMap()["attribute"].(string)] = true
	}
	for _, a := range []string{"align", "font-family", "font-size"} {
		if !attrs[a] {
			t.Errorf("bad %s was not reported, got %v", a, attrs)
		}
	}
}

func TestImage(t *testing.T) {
	var buf bytes.Buffer
	img := image.NewNRGBA(image.Rect(0, 0, 4, 4))
	img.Set(1, 1, color.NRGBA{R: 255, A: 255})
	if err := png.Encode(&buf, img); err != nil {
		t.Fatal(err)
	}
	loads := 0
	loader := func(src string) ([]byte, error) {
		loads++
		if src != "dot.png" {
			return nil, errors.New("not found")
		}
		return buf.Bytes(), nil
	}

	core, logs := observer.New(zapcore.WarnLevel)
	data := render(t, `<textpdf><img src="dot.png"/><img src="dot.png"/><img src="missing.png"/><para>after</para></textpdf>`,
		zap.New(core), WithImageLoader(loader))

	if loads != 2 {
		t.Errorf("loader called %d times, want 2 (cached)", loads)
	}
	if !bytes.Contains(data, []byte("/Subtype /Image")) {
		t.Error("image is not embedded")
	}
	if !bytes.Contains(data, []byte("(after) Tj")) {
		t.Error("document broken after failed image")
	}
	if logs.FilterMessage("Template problem").Len() != 1 {
		t.Errorf("expected single image failure, got %v", logs.All())
	}
}

func TestImageWithoutLoader(t *testing.T) {
	var out bytes.Buffer
	s := New(&out, testConfig(t), zaptest.NewLogger(t))
	if err := s.Open(); err != nil {
		t.Fatal(err)
	}
	if err := s.AddImage("x.png"); !errors.Is(err, ErrNoLoader) {
		t.Errorf("AddImage error = %v, want ErrNoLoader", err)
	}
	if err := s.Close(); err != nil {
		t.Fatal(err)
	}
}

func TestOpenClose(t *testing.T) {
	var out bytes.Buffer
	s := New(&out, testConfig(t), zaptest.NewLogger(t), WithTitle("Doc"))

	if err := s.Close(); err != nil || out.Len() != 0 {
		t.Fatalf("Close on never opened sink: err=%v, written=%d", err, out.Len())
	}
	if err := s.Open(); err != nil {
		t.Fatal(err)
	}
	if err := s.Open(); !errors.Is(err, ErrAlreadyOpen) {
		t.Errorf("second Open error = %v, want ErrAlreadyOpen", err)
	}
	if !s.IsOpen() {
		t.Error("sink must be open")
	}
	if err := s.WriteBlock("sidebar", []document.Chunk{{Contents: "x"}}); err != nil {
		t.Errorf("unknown block kind must not fail: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatal(err)
	}
	if s.IsOpen() {
		t.Error("sink must be closed")
	}
}

func TestMissingFont(t *testing.T) {
	cfg := testConfig(t)
	cfg.Fonts.Serif.Regular = "/nonexistent/font.ttf"

	var out bytes.Buffer
	if err := New(&out, cfg, zaptest.NewLogger(t)).Open(); err == nil {
		t.Fatal("expected error for missing font")
	}
}
