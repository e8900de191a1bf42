package pdf

import (
	"fmt"

	"go.uber.org/zap"

	"textpdf/config"
)

var coreFonts = map[string]string{
	familySans:  "helvetica",
	familySerif: "times",
	familyMono:  "courier",
}

// fontFace is fpdf font family registered for one of our families.
type fontFace struct {
	name string
	utf8 bool
}

type widthKey struct {
	family string
	style  string
	size   float64
}

// registerFonts adds configured TrueType fonts. Families without regular
// face keep using PDF core fonts, missing styled faces fall back to regular.
func (s *Sink) registerFonts(cfg config.FontsConfig) error {
	s.faces = make(map[string]fontFace, len(coreFonts))
	for fam, core := range coreFonts {
		s.faces[fam] = fontFace{name: core}
	}

	for fam, fc := range map[string]config.FontConfig{
		familySans:  cfg.Sans,
		familySerif: cfg.Serif,
		familyMono:  cfg.Mono,
	} {
		if fc.Regular == "" {
			continue
		}
		name := "textpdf-" + fam
		for style, file := range map[string]string{
			"":   fc.Regular,
			"B":  fc.Bold,
			"I":  fc.Italic,
			"BI": fc.BoldItalic,
		} {
			if file == "" {
				file = fc.Regular
			}
			s.doc.AddUTF8Font(name, style, file)
			if err := s.doc.Error(); err != nil {
				return fmt.Errorf("unable to load %s font '%s': %w", fam, file, err)
			}
		}
		s.faces[fam] = fontFace{name: name, utf8: true}
		s.log.Debug("Using TrueType font", zap.String("family", fam), zap.String("file", fc.Regular))
	}

	s.translate = s.doc.UnicodeTranslatorFromDescriptor("")
	return s.doc.Error()
}

// setFont makes f current font of the document.
func (s *Sink) setFont(f fontSpec) {
	style := f.style()
	if f.underline {
		style += "U"
	}
	s.doc.SetFont(s.faces[f.family].name, style, f.size)
}

// encode prepares text for the current font encoding.
func (s *Sink) encode(family, text string) string {
	if s.faces[family].utf8 || s.translate == nil {
		return text
	}
	return s.translate(text)
}

func (s *Sink) runeWidth(f fontSpec, r rune) float64 {
	key := widthKey{family: f.family, style: f.style(), size: f.size}
	widths, ok := s.widths[key]
	if !ok {
		widths = make(map[rune]float64)
		s.widths[key] = widths
	}
	if w, ok := widths[r]; ok {
		return w
	}
	s.setFont(fontSpec{family: f.family, bold: f.bold, italic: f.italic, size: f.size})
	w := s.doc.GetStringWidth(s.encode(f.family, string(r)))
	widths[r] = w
	return w
}
