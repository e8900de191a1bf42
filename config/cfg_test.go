package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"textpdf/common"
)

func TestLoadConfiguration_NoFile(t *testing.T) {
	cfg, err := LoadConfiguration("")
	if err != nil {
		t.Fatalf("LoadConfiguration() with empty path error = %v", err)
	}

	if cfg.Version != 1 {
		t.Errorf("Default config version = %d, want 1", cfg.Version)
	}

	pdf := cfg.Document.PDF
	if pdf.Blocks.Title.Family != "sans" || pdf.Blocks.Title.Size != 18 || pdf.Blocks.Title.Align != "center" {
		t.Errorf("unexpected title defaults: %+v", pdf.Blocks.Title)
	}
	if pdf.Blocks.Para.Indent != 22 || pdf.Blocks.Para.SpaceBefore != 6 {
		t.Errorf("unexpected para defaults: %+v", pdf.Blocks.Para)
	}
	if pdf.LineHeight != 1.5 {
		t.Errorf("LineHeight = %f, want 1.5", pdf.LineHeight)
	}
	if cfg.Document.HTML.ValueMode != common.ValueModeInput {
		t.Errorf("ValueMode = %s, want input", cfg.Document.HTML.ValueMode)
	}
	if cfg.Document.HTML.Declaration != "<!DOCTYPE html>" {
		t.Errorf("Declaration = %q", cfg.Document.HTML.Declaration)
	}
	if cfg.Document.DataQuery == "" {
		t.Error("DataQuery should have default")
	}
}

func TestLoadConfiguration_WithFile(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.yaml")

	configContent := `version: 1
document:
  output_name_template: "{{ .Name | upper }}-{{ .Format }}"
  file_name_transliterate: true
  pdf:
    line_height: 1.2
    blocks:
      para:
        family: sans
        size: 10
        style: italic
        align: right
        indent: 0
        space_before: 2
        space_after: 2
  html:
    encoding: windows-1251
    value_mode: combo
    stylesheets: ["a.css", "b.css"]
logging:
  console:
    level: normal
  file:
    level: debug
    destination: /tmp/test.log
    mode: append
reporting:
  destination: /tmp/test-report.zip
`
	if err := os.WriteFile(configPath, []byte(configContent), 0644); err != nil {
		t.Fatalf("Failed to write config file: %v", err)
	}

	cfg, err := LoadConfiguration(configPath)
	if err != nil {
		t.Fatalf("LoadConfiguration() error = %v", err)
	}

	if cfg.Document.OutputNameTemplate != "{{ .Name | upper }}-{{ .Format }}" {
		t.Errorf("OutputNameTemplate was expanded: %q", cfg.Document.OutputNameTemplate)
	}
	if !cfg.Document.FileNameTransliterate {
		t.Error("Expected FileNameTransliterate to be true")
	}
	if cfg.Document.PDF.LineHeight != 1.2 {
		t.Errorf("LineHeight = %f, want 1.2", cfg.Document.PDF.LineHeight)
	}
	if p := cfg.Document.PDF.Blocks.Para; p.Family != "sans" || p.Style != "italic" || p.Align != "right" {
		t.Errorf("Para = %+v", p)
	}
	// values absent from the file keep defaults
	if cfg.Document.PDF.Blocks.Title.Size != 18 {
		t.Errorf("Title size = %f, want 18", cfg.Document.PDF.Blocks.Title.Size)
	}
	if cfg.Document.HTML.ValueMode != common.ValueModeCombo {
		t.Errorf("ValueMode = %s, want combo", cfg.Document.HTML.ValueMode)
	}
	if len(cfg.Document.HTML.Stylesheets) != 2 {
		t.Errorf("Stylesheets = %v", cfg.Document.HTML.Stylesheets)
	}
	if cfg.Logging.FileLogger.Mode != "append" {
		t.Errorf("File logger mode = %s", cfg.Logging.FileLogger.Mode)
	}
}

func TestLoadConfiguration_NonExistentFile(t *testing.T) {
	if _, err := LoadConfiguration("/nonexistent/config.yaml"); err == nil {
		t.Error("Expected error for nonexistent file")
	}
}

func TestLoadConfiguration_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"invalid yaml", "version: 1\ndocument:\n  pdf: true\n  invalid indent\n"},
		{"unknown field", "version: 1\nunknown_field: value\n"},
		{"bad value mode", "version: 1\ndocument:\n  html:\n    value_mode: select\n"},
		{"bad block family", "version: 1\ndocument:\n  pdf:\n    blocks:\n      title:\n        family: fantasy\n"},
		{"bad line height", "version: 1\ndocument:\n  pdf:\n    line_height: 0.5\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			configPath := filepath.Join(t.TempDir(), "config.yaml")
			if err := os.WriteFile(configPath, []byte(tt.content), 0644); err != nil {
				t.Fatalf("Failed to write config file: %v", err)
			}
			if _, err := LoadConfiguration(configPath); err == nil {
				t.Error("Expected error")
			}
		})
	}
}

func TestPrepareAndDump(t *testing.T) {
	data, err := Prepare()
	if err != nil {
		t.Fatalf("Prepare() error = %v", err)
	}
	if !strings.Contains(string(data), "blocks:") {
		t.Error("prepared configuration misses pdf blocks")
	}

	cfg, err := LoadConfiguration("")
	if err != nil {
		t.Fatalf("LoadConfiguration() error = %v", err)
	}
	out, err := Dump(cfg)
	if err != nil {
		t.Fatalf("Dump() error = %v", err)
	}
	if !strings.Contains(string(out), "value_mode: input") {
		t.Errorf("dumped configuration does not contain value mode:\n%s", out)
	}
}

func TestUnmarshalConfig_WrapsValidationError(t *testing.T) {
	_, err := unmarshalConfig([]byte("version: 99\n"), &Config{}, true)
	if err == nil {
		t.Fatal("expected validation error, got nil")
	}
	if !strings.Contains(err.Error(), "validat") {
		t.Errorf("expected error to mention validation, got: %v", err)
	}
	if errors.Unwrap(err) == nil {
		t.Errorf("expected wrapped error, got bare error: %v", err)
	}
}
