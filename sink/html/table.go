package html

import (
	"fmt"
	"strings"

	"go.uber.org/zap"

	"textpdf/document"
)

func (s *Sink) WriteTable(t *document.Table) error {
	if !s.open {
		return ErrNotOpen
	}
	if t.Empty() {
		return nil
	}
	columns, err := t.Columns()
	total := 0
	for _, c := range columns {
		total += c
	}
	if err != nil || total == 0 {
		s.log.Warn("Table skipped, unable to determine columns", zap.String("columns", t.Attrs.Value("columns")), zap.Error(err))
		return nil
	}

	width := "100%"
	if v, ok, err := t.Attrs.Int("width"); ok && err == nil && v > 0 && v <= 100 {
		width = fmt.Sprintf("%d%%", v)
	}
	table := s.body.CreateElement("table")
	table.CreateAttr("border", "2")
	table.CreateAttr("width", width)

	var tr = table.CreateElement("tr")
	row := 0
	for _, p := range t.Layout(len(columns)) {
		if p.Row != row {
			tr, row = table.CreateElement("tr"), p.Row
		}
		w := 0
		for _, c := range columns[p.Column : p.Column+p.Span] {
			w += c
		}
		if w == 0 {
			continue
		}
		cell := t.Cells[p.Index]
		td := tr.CreateElement("td")
		td.CreateAttr("width", fmt.Sprintf("%d%%", w*100/total))
		if p.Span > 1 {
			td.CreateAttr("colspan", fmt.Sprint(p.Span))
		}
		if align := strings.ToLower(strings.TrimSpace(cell.Attrs.Value("align"))); align == "center" || align == "right" {
			td.CreateAttr("align", align)
		}
		if css := inlineCSS(cell.Attrs); css != "" {
			td.CreateAttr("style", css)
		}
		appendText(td, cell.Contents)
	}
	s.body.CreateText("\n")
	return nil
}
