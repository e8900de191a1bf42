package pdf

type glyph struct {
	run int
	r   rune
	w   float64
}

type line struct {
	glyphs []glyph
	width  float64
	size   float64 // largest font size on the line
}

// breakLines flows runs into lines. Any rune is a break opportunity so text
// without spaces still wraps, but the last space on the line is preferred.
// The first line may have a different width (indent).
func (s *Sink) breakLines(runs []run, first, rest float64) []line {
	var (
		lines []line
		cur   []glyph
		curW  float64
		size  float64
	)
	avail := first
	push := func(glyphs []glyph) {
		lines = append(lines, makeLine(runs, glyphs, size))
		avail = rest
	}

	for ri, r := range runs {
		size = r.font.size
		for _, c := range r.text {
			switch c {
			case '\n':
				push(cur)
				cur, curW = nil, 0
				continue
			case '\r':
				continue
			case '\t':
				c = ' '
			}
			w := s.runeWidth(r.font, c)
			if curW+w > avail && len(cur) > 0 {
				if c == ' ' {
					push(cur)
					cur, curW = nil, 0
					continue
				}
				if k := lastSpace(cur); k > 0 {
					tail := append([]glyph(nil), cur[k+1:]...)
					push(cur[:k])
					cur, curW = tail, sumWidth(tail)
				} else {
					push(cur)
					cur, curW = nil, 0
				}
			}
			cur = append(cur, glyph{run: ri, r: c, w: w})
			curW += w
		}
	}
	if len(cur) > 0 || len(lines) == 0 {
		push(cur)
	}
	return lines
}

func makeLine(runs []run, glyphs []glyph, fallback float64) line {
	l := line{glyphs: glyphs}
	for _, g := range glyphs {
		l.size = max(l.size, runs[g.run].font.size)
	}
	if l.size == 0 {
		l.size = fallback
	}
	// trailing spaces do not count for alignment
	end := len(glyphs)
	for end > 0 && glyphs[end-1].r == ' ' {
		end--
	}
	l.width = sumWidth(glyphs[:end])
	return l
}

func lastSpace(glyphs []glyph) int {
	for i := len(glyphs) - 1; i >= 0; i-- {
		if glyphs[i].r == ' ' {
			return i
		}
	}
	return -1
}

func sumWidth(glyphs []glyph) float64 {
	var w float64
	for _, g := range glyphs {
		w += g.w
	}
	return w
}

func (s *Sink) lineHeight(l line) float64 {
	return l.size * s.cfg.LineHeight
}

func alignOffset(align string, avail, width float64) float64 {
	switch align {
	case "center":
		return max((avail-width)/2, 0)
	case "right":
		return max(avail-width, 0)
	}
	return 0
}

// drawLine renders line with its top at y, x is the left edge of available
// space.
func (s *Sink) drawLine(runs []run, l line, x, y, avail float64, align string) {
	lh := s.lineHeight(l)
	baseline := y + (lh+l.size)/2 - l.size*0.2
	x += alignOffset(align, avail, l.width)

	for start := 0; start < len(l.glyphs); {
		ri := l.glyphs[start].run
		end := start
		var w float64
		for end < len(l.glyphs) && l.glyphs[end].run == ri {
			w += l.glyphs[end].w
			end++
		}
		text := make([]rune, 0, end-start)
		for _, g := range l.glyphs[start:end] {
			text = append(text, g.r)
		}
		r := runs[ri]
		s.setFont(r.font)
		s.doc.Text(x, baseline-r.rise, s.encode(r.font.family, string(text)))
		x += w
		start = end
	}
}

// layoutText places text lines starting at the current position breaking
// pages when needed.
func (s *Sink) layoutText(runs []run, bs blockStyle) {
	left, textW := s.textArea()
	lines := s.breakLines(runs, textW-bs.indent, textW)
	for i, l := range lines {
		lh := s.lineHeight(l)
		if s.y+lh > s.contentBottom() && !s.atTop() {
			s.breakPage()
		}
		x, avail := left, textW
		if i == 0 {
			x, avail = left+bs.indent, textW-bs.indent
		}
		s.drawLine(runs, l, x, s.y, avail, bs.align)
		s.y += lh
	}
}
