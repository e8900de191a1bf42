package config

import (
	"bytes"
	_ "embed"
	"fmt"
	"os"

	yaml "gopkg.in/yaml.v3"

	"github.com/rupor-github/gencfg"

	"textpdf/common"
)

//go:embed config.yaml.tmpl
var ConfigTmpl []byte

type (
	TemplateFieldName string

	FontConfig struct {
		Regular    string `yaml:"regular" sanitize:"assure_file_access"`
		Bold       string `yaml:"bold" sanitize:"assure_file_access"`
		Italic     string `yaml:"italic" sanitize:"assure_file_access"`
		BoldItalic string `yaml:"bold_italic" sanitize:"assure_file_access"`
	}

	FontsConfig struct {
		Sans  FontConfig `yaml:"sans"`
		Serif FontConfig `yaml:"serif"`
		Mono  FontConfig `yaml:"mono"`
	}

	BlockConfig struct {
		Family      string  `yaml:"family" validate:"oneof=sans serif mono"`
		Size        float64 `yaml:"size" validate:"gt=0"`
		Style       string  `yaml:"style"`
		Align       string  `yaml:"align" validate:"oneof=left center right"`
		Indent      float64 `yaml:"indent" validate:"gte=0"`
		SpaceBefore float64 `yaml:"space_before" validate:"gte=0"`
		SpaceAfter  float64 `yaml:"space_after" validate:"gte=0"`
	}

	BlocksConfig struct {
		Title   BlockConfig `yaml:"title"`
		Chapter BlockConfig `yaml:"chapter"`
		Section BlockConfig `yaml:"section"`
		Para    BlockConfig `yaml:"para"`
	}

	ImagesConfig struct {
		JPEGQuality int  `yaml:"jpeq_quality_level" validate:"min=40,max=100"`
		Grayscale   bool `yaml:"grayscale"`
		// rasterization width for images which have no natural size
		SVGWidth int `yaml:"svg_width" validate:"min=0"`
	}

	PDFConfig struct {
		Creator    string       `yaml:"creator"`
		Author     string       `yaml:"author"`
		Subject    string       `yaml:"subject"`
		Compress   bool         `yaml:"compress"`
		LineHeight float64      `yaml:"line_height" validate:"gte=1"`
		Fonts      FontsConfig  `yaml:"fonts"`
		Blocks     BlocksConfig `yaml:"blocks"`
		Images     ImagesConfig `yaml:"images"`
	}

	HTMLConfig struct {
		Declaration string           `yaml:"declaration"`
		Title       string           `yaml:"title"`
		Author      string           `yaml:"author"`
		Generator   string           `yaml:"generator"`
		Encoding    string           `yaml:"encoding" validate:"required"`
		Stylesheets []string         `yaml:"stylesheets" validate:"dive,required"`
		Scripts     []string         `yaml:"scripts" validate:"dive,required"`
		Extra       string           `yaml:"extra"`
		ValueMode   common.ValueMode `yaml:"value_mode" validate:"gte=0"`
	}

	DocumentConfig struct {
		OutputNameTemplate    string     `yaml:"output_name_template"`
		FileNameTransliterate bool       `yaml:"file_name_transliterate"`
		DataQuery             string     `yaml:"data_query"`
		PDF                   PDFConfig  `yaml:"pdf"`
		HTML                  HTMLConfig `yaml:"html"`
	}

	Config struct {
		Version   int            `yaml:"version" validate:"eq=1"`
		Document  DocumentConfig `yaml:"document"`
		Logging   LoggingConfig  `yaml:"logging"`
		Reporting ReporterConfig `yaml:"reporting"`
	}
)

const (
	// NOTE: must match yaml field name above, alternative is to use struct
	// field name and reflection which I want to avoid for now
	OutputNameTemplateFieldName TemplateFieldName = "output_name_template"
	HTMLExtraFieldName          TemplateFieldName = "extra"
)

var requiredOptions = append([]func(*gencfg.ProcessingOptions){},
	gencfg.WithDoNotExpandField(string(OutputNameTemplateFieldName)),
	gencfg.WithDoNotExpandField(string(HTMLExtraFieldName)),
)

func unmarshalConfig(data []byte, cfg *Config, process bool) (*Config, error) {
	// We want to use only fields we defined so we cannot use yaml.Unmarshal
	// directly here
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil {
		return nil, fmt.Errorf("failed to decode configuration data: %w", err)
	}
	if process {
		// sanitize and validate what has been loaded
		if err := gencfg.Sanitize(cfg); err != nil {
			return nil, fmt.Errorf("failed to sanitize configuration: %w", err)
		}
		if err := gencfg.Validate(cfg); err != nil {
			return nil, fmt.Errorf("failed to validate configuration: %w", err)
		}
	}
	return cfg, nil
}

// LoadConfiguration reads the configuration from the file at the given path,
// superimposes its values on top of expanded configuration tamplate to provide
// sane defaults and performs validation.
func LoadConfiguration(path string, options ...func(*gencfg.ProcessingOptions)) (*Config, error) {
	haveFile := len(path) > 0

	data, err := gencfg.Process(ConfigTmpl, append(requiredOptions, options...)...)
	if err != nil {
		return nil, fmt.Errorf("failed to process configuration template: %w", err)
	}
	cfg, err := unmarshalConfig(data, &Config{}, !haveFile)
	if err != nil {
		return nil, fmt.Errorf("failed to process configuration template: %w", err)
	}
	if !haveFile {
		return cfg, nil
	}

	// overwrite cfg values with values from the file
	data, err = os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	cfg, err = unmarshalConfig(data, cfg, haveFile)
	if err != nil {
		return nil, fmt.Errorf("failed to process configuration file: %w", err)
	}
	return cfg, nil
}

// Prepare generates configuration file from template and returns it as a byte
// slice.
func Prepare() ([]byte, error) {
	return gencfg.Process(ConfigTmpl, requiredOptions...)
}

func Dump(cfg *Config) ([]byte, error) {
	data, err := yaml.Marshal(*cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal config to yaml: %v", err)
	}
	return data, nil
}
