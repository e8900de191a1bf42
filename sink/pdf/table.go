package pdf

import (
	"errors"
	"strings"

	"go.uber.org/zap"

	"textpdf/document"
)

type cellBox struct {
	x, width float64
	runs     []run
	lines    []line
	align    string
}

// WriteTable renders table rows top to bottom. A row which does not fit goes
// to the next page, a row taller than the whole page is split between pages.
func (s *Sink) WriteTable(t *document.Table) error {
	if !s.open {
		return errors.New("pdf document is not open")
	}
	if t.Empty() {
		return nil
	}
	columns, err := t.Columns()
	if err != nil || len(columns) == 0 {
		s.log.Warn("Table skipped, unable to determine columns", zap.String("columns", t.Attrs.Value("columns")), zap.Error(err))
		return nil
	}
	total := 0
	for _, c := range columns {
		total += c
	}
	if total == 0 {
		s.log.Warn("Table skipped, all columns have zero width", zap.String("columns", t.Attrs.Value("columns")))
		return nil
	}

	left, textW := s.textArea()
	percent := 100
	if v, ok, err := t.Attrs.Int("width"); err != nil || (ok && (v <= 0 || v > 100)) {
		s.warn("width", t.Attrs.Value("width"), err)
	} else if ok {
		percent = v
	}
	tableW := textW * float64(percent) / 100

	offsets := make([]float64, len(columns)+1)
	offsets[0] = left
	for i, c := range columns {
		offsets[i+1] = offsets[i] + tableW*float64(c)/float64(total)
	}

	s.ensurePage()
	para := s.blocks[document.BlockPara]
	para.indent = 0

	var row []cellBox
	current := 0
	for _, p := range t.Layout(len(columns)) {
		if p.Row != current {
			s.drawRow(row)
			row, current = nil, p.Row
		}
		w := offsets[p.Column+p.Span] - offsets[p.Column]
		if w <= 0 {
			// spacer column
			continue
		}
		cell := t.Cells[p.Index]
		box := cellBox{x: offsets[p.Column], width: w, align: para.align}
		if v, ok := cell.Attrs.Get("align"); ok {
			switch a := strings.ToLower(strings.TrimSpace(v)); a {
			case "left", "center", "right":
				box.align = a
			default:
				s.warn("align", v, nil)
			}
		}
		box.runs = []run{s.chunkRun(cell, para)}
		box.lines = s.breakLines(box.runs, w-2*cellPadding, w-2*cellPadding)
		row = append(row, box)
	}
	s.drawRow(row)
	s.y += para.spaceBefore
	return s.doc.Error()
}

func (s *Sink) drawRow(row []cellBox) {
	if len(row) == 0 {
		return
	}
	var height float64
	for _, c := range row {
		height = max(height, s.linesHeight(c.lines))
	}
	if s.y+height+2*cellPadding > s.contentBottom() && !s.atTop() {
		s.breakPage()
	}

	s.doc.SetLineWidth(0.5)
	next := make([]int, len(row))
	for {
		limit := s.contentBottom() - s.y - 2*cellPadding
		take := make([]int, len(row))
		var (
			segment float64
			placed  bool
			rest    bool
		)
		for i, c := range row {
			var h float64
			j := next[i]
			for ; j < len(c.lines); j++ {
				lh := s.lineHeight(c.lines[j])
				// at the top of the page at least one line goes in
				if h+lh > limit && (j > next[i] || !s.atTop()) {
					break
				}
				h += lh
			}
			take[i] = j
			placed = placed || j > next[i]
			rest = rest || j < len(c.lines)
			segment = max(segment, h)
		}
		if !placed && rest {
			s.breakPage()
			continue
		}

		segment += 2 * cellPadding
		for i, c := range row {
			s.doc.Rect(c.x, s.y, c.width, segment, "D")
			y := s.y + cellPadding
			for _, l := range c.lines[next[i]:take[i]] {
				s.drawLine(c.runs, l, c.x+cellPadding, y, c.width-2*cellPadding, c.align)
				y += s.lineHeight(l)
			}
		}
		s.y += segment
		next = take
		if !rest {
			return
		}
		s.breakPage()
	}
}

func (s *Sink) linesHeight(lines []line) float64 {
	var h float64
	for _, l := range lines {
		h += s.lineHeight(l)
	}
	return h
}
