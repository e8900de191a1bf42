// Package common keeps enumerations shared by configuration, conversion and
// command line.
package common

//go:generate go tool go-enum --names --nocase --marshal --mustparse --file=$GOFILE

// Specification of requested output type.
// ENUM(pdf, html)
type OutputFmt int

func (o OutputFmt) Ext() string {
	switch o {
	case OutputFmtPdf:
		return ".pdf"
	case OutputFmtHtml:
		return ".html"
	default:
		// this should never happen
		panic("unsupported format requested")
	}
}

// Specification of how hypertext output renders data bound values:
// input is a text input field, combo is a read-only field with
// required/optional selector.
// ENUM(input, combo)
type ValueMode int
