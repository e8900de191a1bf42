package html

import (
	"fmt"
	"strings"

	"textpdf/document"
)

var cssFamilies = map[string]string{
	"hei":     "sans-serif",
	"heiti":   "sans-serif",
	"sans":    "sans-serif",
	"song":    "serif",
	"songti":  "serif",
	"serif":   "serif",
	"mono":    "monospace",
	"courier": "monospace",
}

// inlineCSS converts text styling attributes into style declarations.
// Malformed values are silently dropped, PDF output reports them.
func inlineCSS(a document.Attrs) string {
	var decl []string
	if fam, ok := cssFamilies[strings.ToLower(strings.TrimSpace(a.Value("font-family")))]; ok {
		decl = append(decl, "font-family:"+fam)
	}
	if v, ok, err := a.Int("font-size"); ok && err == nil && v > 0 {
		decl = append(decl, fmt.Sprintf("font-size:%dpt", v))
	}
	for _, st := range a.List("font-style") {
		switch strings.ToLower(st) {
		case "bold":
			decl = append(decl, "font-weight:bold")
		case "italic":
			decl = append(decl, "font-style:italic")
		case "underline":
			decl = append(decl, "text-decoration:underline")
		}
	}
	switch {
	case a.Bool("super"):
		decl = append(decl, "vertical-align:super")
	case a.Bool("sub"):
		decl = append(decl, "vertical-align:sub")
	}
	return strings.Join(decl, ";")
}

// blockCSS adds paragraph level layout to inline styling.
func blockCSS(a document.Attrs) string {
	decl := []string{}
	if css := inlineCSS(a); css != "" {
		decl = append(decl, css)
	}
	switch align := strings.ToLower(strings.TrimSpace(a.Value("align"))); align {
	case "left", "center", "right":
		decl = append(decl, "text-align:"+align)
	}
	for _, p := range [...]struct{ attr, prop string }{
		{"indent", "text-indent"},
		{"space-before", "margin-top"},
		{"space-after", "margin-bottom"},
	} {
		if v, ok, err := a.Float(p.attr); ok && err == nil && v >= 0 {
			decl = append(decl, fmt.Sprintf("%s:%gpx", p.prop, v))
		}
	}
	return strings.Join(decl, ";")
}
