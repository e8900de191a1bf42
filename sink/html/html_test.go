package html

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest"
	"go.uber.org/zap/zaptest/observer"

	"textpdf/binding"
	"textpdf/common"
	"textpdf/config"
	"textpdf/document"
	"textpdf/interp"
	"textpdf/markup"
)

func testConfig(t *testing.T) *config.HTMLConfig {
	t.Helper()
	cfg, err := config.LoadConfiguration("")
	if err != nil {
		t.Fatalf("unable to load default configuration: %v", err)
	}
	return &cfg.Document.HTML
}

func render(t *testing.T, cfg *config.HTMLConfig, src string, log *zap.Logger, opts ...Option) string {
	t.Helper()
	var out bytes.Buffer
	sink := New(&out, cfg, log, opts...)

	tok, err := markup.NewTokenizer(strings.NewReader(src))
	if err != nil {
		t.Fatalf("NewTokenizer: %v", err)
	}
	data := &binding.Data{Values: map[string]any{"name": "Alice"}}
	if err := interp.New(sink, data.Binder(), log).Run(context.Background(), tok); err != nil {
		t.Fatalf("Run: %v", err)
	}
	return out.String()
}

func TestSkeleton(t *testing.T) {
	cfg := testConfig(t)
	cfg.Author = "Bob"
	cfg.Stylesheets = []string{"main.css"}
	cfg.Scripts = []string{"app.js"}
	cfg.Extra = `<div id="footer">end</div>`

	got := render(t, cfg, `<textpdf/>`, zaptest.NewLogger(t), WithTitle("Invoice"))

	for _, want := range []string{
		"<!DOCTYPE html>\n<html><head><title>Invoice</title>",
		`<meta charset="utf-8"/>`,
		`<meta name="author" content="Bob"/>`,
		`<meta name="generator" content="textpdf"/>`,
		`<link rel="stylesheet" type="text/css" href="main.css"/>`,
		`<script src="app.js"></script>`,
		`<div id="footer">end</div>`,
		"</body></html>",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("output does not contain %q\n%s", want, got)
		}
	}
}

func TestBlocks(t *testing.T) {
	got := render(t, testConfig(t), `<textpdf>
		<title font-style="bold" align="center">Report</title>
		<chapter>One</chapter>
		<section>Sub</section>
		<para indent="10">plain<span font-style="italic">slanted</span>line<break/>next</para>
	</textpdf>`, zaptest.NewLogger(t))

	for _, want := range []string{
		`<h1 class="title" style="font-weight:bold;text-align:center">Report</h1>`,
		`<h2 class="chapter">One</h2>`,
		`<h3 class="section">Sub</h3>`,
		`<p class="para" style="text-indent:10px">plain<span style="font-style:italic">slanted</span><span>line</span><span><br/>next</span></p>`,
	} {
		if !strings.Contains(got, want) {
			t.Errorf("output does not contain %q\n%s", want, got)
		}
	}
}

func TestValueModes(t *testing.T) {
	src := `<textpdf><para>Name: <value id="name" minlen="10"/></para></textpdf>`

	t.Run("input", func(t *testing.T) {
		got := render(t, testConfig(t), src, zaptest.NewLogger(t))
		want := `<input type="text" id="name" name="name" size="10" value="Alice" style="font-weight:bold;text-decoration:underline"/>`
		if !strings.Contains(got, want) {
			t.Errorf("output does not contain %q\n%s", want, got)
		}
		if strings.Contains(got, "<select") {
			t.Error("input mode must not produce select")
		}
	})

	t.Run("combo", func(t *testing.T) {
		cfg := testConfig(t)
		cfg.ValueMode = common.ValueModeCombo
		got := render(t, cfg, src, zaptest.NewLogger(t))
		for _, want := range []string{
			`readonly="readonly"`,
			`<select id="name-required" name="name-required"><option value="1">required</option><option value="0">optional</option></select>`,
		} {
			if !strings.Contains(got, want) {
				t.Errorf("output does not contain %q\n%s", want, got)
			}
		}
	})
}

func TestTable(t *testing.T) {
	got := render(t, testConfig(t), `<textpdf><table columns="1,0,3" width="50">
		<cell>a</cell><cell>gap</cell><cell align="right">b</cell>
		<cell colspan="3"></cell>
	</table></textpdf>`, zaptest.NewLogger(t))

	want := `<table border="2" width="50%"><tr><td width="25%">a</td><td width="75%" align="right">b</td></tr><tr><td width="100%" colspan="3"></td></tr></table>`
	if !strings.Contains(got, want) {
		t.Errorf("output does not contain %q\n%s", want, got)
	}
}

func TestTableWithoutColumns(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	got := render(t, testConfig(t), `<textpdf><table columns="a,b"><cell>x</cell></table></textpdf>`, zap.New(core))

	if strings.Contains(got, "<table") {
		t.Error("table without valid columns must be skipped")
	}
	if logs.FilterMessageSnippet("Table skipped").Len() != 1 {
		t.Errorf("expected warning, got %v", logs.All())
	}
}

func TestRulesAndImages(t *testing.T) {
	got := render(t, testConfig(t), `<textpdf><hrule/><hrule width="3" percent="50"/><pagebreak/><img src="a.png"/></textpdf>`, zaptest.NewLogger(t))

	for _, want := range []string{
		"<hr/>",
		`<hr style="width:50%;border-width:3px"/>`,
		`<hr class="pagebreak"/>`,
		`<img src="a.png" alt=""/>`,
	} {
		if !strings.Contains(got, want) {
			t.Errorf("output does not contain %q\n%s", want, got)
		}
	}
}

func TestEncoding(t *testing.T) {
	cfg := testConfig(t)
	cfg.Encoding = "ISO-8859-1"
	got := render(t, cfg, `<textpdf><para>café ✓</para></textpdf>`, zaptest.NewLogger(t))

	if !strings.Contains(got, "caf\xe9 &#10003;") {
		t.Errorf("unexpected encoded output: %q", got)
	}
}

func TestUnknownEncoding(t *testing.T) {
	cfg := testConfig(t)
	cfg.Encoding = "no-such-charset"
	if err := New(&bytes.Buffer{}, cfg, zaptest.NewLogger(t)).Open(); err == nil {
		t.Fatal("expected error for unknown encoding")
	}
}

func TestMalformedExtra(t *testing.T) {
	cfg := testConfig(t)
	cfg.Extra = "<div>"
	core, logs := observer.New(zapcore.WarnLevel)
	got := render(t, cfg, `<textpdf/>`, zap.New(core))

	if !strings.HasSuffix(strings.TrimSpace(got), "</body></html>") {
		t.Errorf("unexpected output %q", got)
	}
	if logs.FilterMessageSnippet("extra html").Len() != 1 {
		t.Errorf("expected warning, got %v", logs.All())
	}
}

func TestOpenClose(t *testing.T) {
	var out bytes.Buffer
	s := New(&out, testConfig(t), zaptest.NewLogger(t))

	if err := s.Close(); err != nil || out.Len() != 0 {
		t.Fatalf("Close on never opened sink: err=%v, written=%d", err, out.Len())
	}
	if err := s.WriteBlock(document.BlockPara, nil); !errors.Is(err, ErrNotOpen) {
		t.Errorf("WriteBlock before Open = %v, want ErrNotOpen", err)
	}
	if err := s.Open(); err != nil {
		t.Fatal(err)
	}
	if err := s.Open(); !errors.Is(err, ErrAlreadyOpen) {
		t.Errorf("second Open = %v, want ErrAlreadyOpen", err)
	}
	if err := s.WriteBlock("aside", []document.Chunk{{Contents: "x"}}); err != nil {
		t.Errorf("unknown kind must be ignored: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatal(err)
	}
	if strings.Contains(out.String(), "aside") {
		t.Error("unknown block must not be rendered")
	}
}
