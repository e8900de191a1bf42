package common

import (
	"errors"
	"testing"
)

func TestOutputFmt(t *testing.T) {
	tests := []struct {
		name string
		want OutputFmt
		ext  string
	}{
		{"pdf", OutputFmtPdf, ".pdf"},
		{"HTML", OutputFmtHtml, ".html"},
	}
	for _, tt := range tests {
		got, err := ParseOutputFmt(tt.name)
		if err != nil {
			t.Fatalf("ParseOutputFmt(%q) error = %v", tt.name, err)
		}
		if got != tt.want || got.Ext() != tt.ext {
			t.Errorf("ParseOutputFmt(%q) = %v (%s)", tt.name, got, got.Ext())
		}
	}
	if _, err := ParseOutputFmt("epub"); !errors.Is(err, ErrInvalidOutputFmt) {
		t.Errorf("ParseOutputFmt(\"epub\") error = %v, want ErrInvalidOutputFmt", err)
	}
	if OutputFmt(7).String() != "OutputFmt(7)" {
		t.Errorf("String() = %s", OutputFmt(7))
	}
}

func TestValueMode_Text(t *testing.T) {
	var m ValueMode
	if err := m.UnmarshalText([]byte("combo")); err != nil || m != ValueModeCombo {
		t.Fatalf("UnmarshalText = %v, %v", m, err)
	}
	b, _ := m.MarshalText()
	if string(b) != "combo" {
		t.Errorf("MarshalText = %s", b)
	}
	if err := m.UnmarshalText([]byte("select")); err == nil {
		t.Error("expected error")
	}
}

func TestMustParseOutputFmt(t *testing.T) {
	if got := MustParseOutputFmt("Pdf"); got != OutputFmtPdf {
		t.Errorf("MustParseOutputFmt(\"Pdf\") = %v, want %v", got, OutputFmtPdf)
	}

	defer func() {
		if r := recover(); r == nil {
			t.Error("MustParseOutputFmt should have panicked")
		}
	}()
	MustParseOutputFmt("docx")
}

func TestEnumNames(t *testing.T) {
	names := OutputFmtNames()
	if len(names) != 2 || names[0] != "pdf" || names[1] != "html" {
		t.Errorf("OutputFmtNames() = %v", names)
	}
	names[0] = "changed"
	if OutputFmtNames()[0] != "pdf" {
		t.Error("OutputFmtNames() returned shared slice")
	}
	if !ValueModeCombo.IsValid() || ValueMode(5).IsValid() {
		t.Error("ValueMode.IsValid() mismatch")
	}
}
