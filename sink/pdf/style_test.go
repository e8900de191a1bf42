package pdf

import (
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest"
	"go.uber.org/zap/zaptest/observer"

	"textpdf/document"
)

func TestChunkRun(t *testing.T) {
	base := blockStyle{font: fontSpec{family: familySerif, bold: true, size: 12}}
	tests := []struct {
		name  string
		text  string
		attrs []string
		want  run
	}{
		{"block defaults", "x", nil,
			run{text: "x", font: fontSpec{family: familySerif, bold: true, size: 12}}},
		{"alias hei", "x", []string{"font-family", "hei"},
			run{text: "x", font: fontSpec{family: familySans, bold: true, size: 12}}},
		{"alias songti", "x", []string{"font-family", "SongTi"},
			run{text: "x", font: fontSpec{family: familySerif, bold: true, size: 12}}},
		{"alias courier", "x", []string{"font-family", "courier"},
			run{text: "x", font: fontSpec{family: familyMono, bold: true, size: 12}}},
		{"font size", "x", []string{"font-size", "20"},
			run{text: "x", font: fontSpec{family: familySerif, bold: true, size: 20}}},
		{"style replaces defaults", "x", []string{"font-style", "italic,underline"},
			run{text: "x", font: fontSpec{family: familySerif, italic: true, underline: true, size: 12}}},
		{"super", "2", []string{"super", "true"},
			run{text: "2", font: fontSpec{family: familySerif, bold: true, size: scriptSize}, rise: superRise}},
		{"sub keeps explicit size", "2", []string{"sub", "TRUE", "font-size", "10"},
			run{text: "2", font: fontSpec{family: familySerif, bold: true, size: 10}, rise: subRise}},
		{"super not true", "2", []string{"super", "yes"},
			run{text: "2", font: fontSpec{family: familySerif, bold: true, size: 12}}},
		{"minlen pads", "ab", []string{"minlen", "4"},
			run{text: "ab  ", font: fontSpec{family: familySerif, bold: true, size: 12}}},
		{"minlen empty underlined", "", []string{"minlen", "3"},
			run{text: "   ", font: fontSpec{family: familySerif, bold: true, underline: true, size: 12}}},
		{"minlen wide rune", "中", []string{"minlen", "2"},
			run{text: "中", font: fontSpec{family: familySerif, bold: true, size: 12}}},
	}
	s := New(nil, testConfig(t), zaptest.NewLogger(t))
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := document.Chunk{Contents: tt.text, Attrs: document.NewAttrs(tt.attrs...)}
			if got := s.chunkRun(c, base); got != tt.want {
				t.Errorf("chunkRun() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestChunkRun_BadValues(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	s := New(nil, testConfig(t), zap.New(core))
	base := blockStyle{font: fontSpec{family: familySans, size: 12}}

	got := s.chunkRun(document.Chunk{Contents: "x", Attrs: document.NewAttrs(
		"font-family", "comic", "font-size", "-1", "font-style", "bold,shiny", "minlen", "many",
	)}, base)

	want := run{text: "x", font: fontSpec{family: familySans, bold: true, size: 12}}
	if got != want {
		t.Errorf("chunkRun() = %+v, want %+v", got, want)
	}
	if n := logs.FilterMessage("Ignoring bad attribute value").Len(); n != 4 {
		t.Errorf("warnings = %d, want 4: %v", n, logs.All())
	}
}

func TestPadToColumns(t *testing.T) {
	tests := []struct {
		text string
		n    int
		want string
	}{
		{"", 3, "   "},
		{"abc", 3, "abc"},
		{"abcd", 3, "abcd"},
		{"中a", 5, "中a  "},
		{"中文", 4, "中文"},
		{"ｆｕｌｌ", 9, "ｆｕｌｌ "},
		{"x", 0, "x"},
		{"x", -2, "x"},
	}
	for _, tt := range tests {
		if got := padToColumns(tt.text, tt.n); got != tt.want {
			t.Errorf("padToColumns(%q, %d) = %q, want %q", tt.text, tt.n, got, tt.want)
		}
	}
}
