// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package convert

import (
	"math"
	"slices"
	"sort"
	"strings"
	"unicode"
)

const (
	// defaultFontSize is assumed for text the PDF reports without a size.
	defaultFontSize = 10.0
	// cellGapFactor is the horizontal gap, in font sizes, that separates
	// two table cells on one line.
	cellGapFactor = 2.0
	// wordGapFactor is the gap, in font sizes, that separates two words.
	wordGapFactor = 0.15
	// paragraphGapFactor is the vertical gap, in font sizes, that starts a
	// new paragraph.
	paragraphGapFactor = 1.8
	// baselineTolerance is the vertical distance, in font sizes, within
	// which text counts as sitting on the same line.
	baselineTolerance = 0.5
	// maxHeadingLen caps the length of a line promoted to a heading.
	maxHeadingLen = 120
)

// fragment is a positioned run of text on one baseline. A zero W means the
// width is unknown.
type fragment struct {
	X, Y, W float64
	Size    float64
	S       string
}

func (f fragment) size() float64 {
	if f.Size <= 0 {
		return defaultFontSize
	}
	return f.Size
}

// line is a row of text on a page. Cells hold the runs separated by wide
// horizontal gaps; ordinary lines have a single cell.
type line struct {
	Y     float64
	Size  float64
	Cells []string
}

func (l line) text() string { return strings.Join(l.Cells, " ") }

type page struct {
	Number int
	Lines  []line
}

// buildLine joins fragments into a line, splitting cells on wide gaps.
// It reports false when the fragments carry no visible text.
func buildLine(y float64, frags []fragment) (line, bool) {
	sort.SliceStable(frags, func(i, j int) bool { return frags[i].X < frags[j].X })

	l := line{Y: y}
	var cell strings.Builder
	flush := func() {
		if s := strings.TrimSpace(cell.String()); s != "" {
			l.Cells = append(l.Cells, s)
		}
		cell.Reset()
	}

	var prevEnd float64
	for i, f := range frags {
		size := f.size()
		if size > l.Size {
			l.Size = size
		}
		w := f.W
		if w <= 0 {
			w = float64(len([]rune(f.S))) * size * 0.5
		}

		if i > 0 {
			gap := f.X - prevEnd
			switch {
			case gap > size*cellGapFactor:
				flush()
			case gap > size*wordGapFactor && !endsWithSpace(cell.String()) && !startsWithSpace(f.S):
				cell.WriteByte(' ')
			}
		}
		cell.WriteString(f.S)
		prevEnd = f.X + w
	}
	flush()

	return l, len(l.Cells) > 0
}

func endsWithSpace(s string) bool {
	return s != "" && unicode.IsSpace(rune(s[len(s)-1]))
}

func startsWithSpace(s string) bool {
	return s != "" && unicode.IsSpace(rune(s[0]))
}

// mergeGlyphs joins glyphs, given in content-stream order, into fragments.
// A glyph extends the current fragment when it sits on the same baseline at
// the same size and starts within a cell gap of the fragment's end; gaps
// wider than a word gap become spaces. Control glyphs such as the line
// break that ends a TJ array are dropped.
func mergeGlyphs(glyphs []fragment) []fragment {
	var (
		out   []fragment
		cur   fragment
		text  strings.Builder
		end   float64
		known bool
		open  bool
	)
	flush := func() {
		if open {
			cur.S = text.String()
			cur.W = 0
			if known {
				cur.W = end - cur.X
			}
			out = append(out, cur)
		}
		text.Reset()
		open = false
	}

	for _, g := range glyphs {
		if strings.TrimFunc(g.S, unicode.IsControl) == "" {
			continue
		}
		size := g.size()
		gap := g.X - end
		if open && math.Abs(g.Y-cur.Y) <= size*baselineTolerance &&
			math.Abs(size-cur.size()) < 0.5 && gap >= -size && gap <= size*cellGapFactor {
			if gap > size*wordGapFactor && !endsWithSpace(text.String()) && !startsWithSpace(g.S) {
				text.WriteByte(' ')
			}
		} else {
			flush()
			cur = fragment{X: g.X, Y: g.Y, Size: g.Size}
			end, known, open = g.X, true, true
		}
		text.WriteString(g.S)
		if g.W > 0 {
			end = math.Max(end, g.X+g.W)
		} else {
			known = false
			end = math.Max(end, g.X)
		}
	}
	flush()
	return out
}

// groupRows clusters fragments whose baselines lie within half a font size
// of each other and returns one line per cluster, top to bottom.
func groupRows(frags []fragment) []line {
	sorted := slices.Clone(frags)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Y > sorted[j].Y })

	var (
		lines []line
		row   []fragment
		rowY  float64
	)
	flush := func() {
		if l, ok := buildLine(rowY, row); ok {
			lines = append(lines, l)
		}
		row = nil
	}
	for _, f := range sorted {
		if len(row) > 0 && rowY-f.Y > f.size()*baselineTolerance {
			flush()
		}
		if len(row) == 0 {
			rowY = f.Y
		}
		row = append(row, f)
	}
	if len(row) > 0 {
		flush()
	}
	return lines
}

// normalizeRepeat maps a line to the key used to spot repeated headers and
// footers. Digits collapse so "Page 3 of 9" matches "Page 4 of 9".
func normalizeRepeat(l line) string {
	var b strings.Builder
	lastDigit := false
	for _, r := range strings.ToLower(strings.Join(strings.Fields(l.text()), " ")) {
		if unicode.IsDigit(r) {
			if !lastDigit {
				b.WriteByte('#')
			}
			lastDigit = true
			continue
		}
		lastDigit = false
		b.WriteRune(r)
	}
	return b.String()
}

// stripRepeated removes the first and last line of each page when the same
// line (after normalization) opens or closes at least half of the pages.
// Documents with fewer than two pages are returned unchanged.
func stripRepeated(pages []page) []page {
	if len(pages) < 2 {
		return pages
	}
	threshold := (len(pages) + 1) / 2
	if threshold < 2 {
		threshold = 2
	}

	heads := map[string]int{}
	feet := map[string]int{}
	for _, pg := range pages {
		if n := len(pg.Lines); n > 0 {
			heads[normalizeRepeat(pg.Lines[0])]++
			feet[normalizeRepeat(pg.Lines[n-1])]++
		}
	}

	out := make([]page, len(pages))
	for i, pg := range pages {
		lines := pg.Lines
		if len(lines) > 0 && heads[normalizeRepeat(lines[0])] >= threshold {
			lines = lines[1:]
		}
		if n := len(lines); n > 0 && feet[normalizeRepeat(lines[n-1])] >= threshold {
			lines = lines[:n-1]
		}
		out[i] = page{Number: pg.Number, Lines: lines}
	}
	return out
}

// bodyFontSize returns the most common line font size, used as the baseline
// for heading detection.
func bodyFontSize(pages []page) float64 {
	counts := map[float64]int{}
	for _, pg := range pages {
		for _, l := range pg.Lines {
			counts[l.Size]++
		}
	}
	best, bestN := defaultFontSize, 0
	for size, n := range counts {
		if n > bestN || (n == bestN && size < best) {
			best, bestN = size, n
		}
	}
	return best
}

// renderPage lays out one page: tables, headings, list items, and
// paragraphs, separated by blank lines.
func renderPage(pg page, body float64, opts Options) string {
	var blocks []string
	var para []line

	flushPara := func() {
		if len(para) > 0 {
			blocks = append(blocks, joinParagraph(para))
			para = nil
		}
	}

	lines := pg.Lines
	for i := 0; i < len(lines); {
		l := lines[i]

		if n := tableRun(lines[i:]); n > 0 {
			flushPara()
			rows := make([][]string, n)
			for k := range n {
				rows[k] = lines[i+k].Cells
			}
			if !(opts.SkipEmptyTables && isEmptyTable(rows)) {
				blocks = append(blocks, renderTable(rows, opts.tableHeader()))
			}
			i += n
			continue
		}

		text := l.text()
		switch {
		case headingLevel(l, body) > 0:
			flushPara()
			blocks = append(blocks, strings.Repeat("#", headingLevel(l, body))+" "+text)
		case isListItem(text):
			flushPara()
			blocks = append(blocks, "- "+strings.TrimSpace(strings.TrimLeft(text, "•●▪‣◦-*")))
		default:
			if len(para) > 0 {
				prev := para[len(para)-1]
				if prev.Y-l.Y > l.Size*paragraphGapFactor {
					flushPara()
				}
			}
			para = append(para, l)
		}
		i++
	}
	flushPara()

	return strings.Join(blocks, "\n\n")
}

// tableRun returns how many leading lines form a table: at least two
// consecutive, closely spaced lines with the same number (two or more) of
// cells.
func tableRun(lines []line) int {
	if len(lines) == 0 || len(lines[0].Cells) < 2 {
		return 0
	}
	cols := len(lines[0].Cells)
	n := 1
	for n < len(lines) && len(lines[n].Cells) == cols &&
		lines[n-1].Y-lines[n].Y <= lines[n].Size*paragraphGapFactor {
		n++
	}
	if n < 2 {
		return 0
	}
	return n
}

// isEmptyTable reports whether every data cell (all rows but the header)
// is blank or punctuation only.
func isEmptyTable(rows [][]string) bool {
	for _, row := range rows[1:] {
		for _, cell := range row {
			if strings.TrimFunc(cell, func(r rune) bool {
				return unicode.IsSpace(r) || unicode.IsPunct(r)
			}) != "" {
				return false
			}
		}
	}
	return true
}

// renderTable writes rows as a Markdown table under header. The first row
// is the table header.
func renderTable(rows [][]string, header string) string {
	var b strings.Builder
	b.WriteString(header)
	b.WriteString("\n\n")

	writeRow := func(cells []string) {
		b.WriteString("|")
		for _, c := range cells {
			b.WriteString(" ")
			b.WriteString(strings.ReplaceAll(c, "|", `\|`))
			b.WriteString(" |")
		}
		b.WriteString("\n")
	}

	writeRow(rows[0])
	sep := make([]string, len(rows[0]))
	for i := range sep {
		sep[i] = "---"
	}
	writeRow(sep)
	for _, row := range rows[1:] {
		writeRow(row)
	}
	return strings.TrimSuffix(b.String(), "\n")
}

// headingLevel returns 1 or 2 for short single-cell lines set noticeably
// larger than body text, and 0 otherwise.
func headingLevel(l line, body float64) int {
	if len(l.Cells) != 1 || len(l.Cells[0]) > maxHeadingLen || body <= 0 {
		return 0
	}
	switch ratio := l.Size / body; {
	case ratio >= 1.5:
		return 1
	case ratio >= 1.2:
		return 2
	default:
		return 0
	}
}

func isListItem(text string) bool {
	for _, bullet := range []string{"• ", "● ", "▪ ", "‣ ", "◦ ", "- ", "* "} {
		if strings.HasPrefix(text, bullet) {
			return true
		}
	}
	return false
}

// joinParagraph joins wrapped lines, undoing end-of-line hyphenation.
func joinParagraph(lines []line) string {
	var b strings.Builder
	for i, l := range lines {
		text := l.text()
		if i > 0 {
			prev := b.String()
			if strings.HasSuffix(prev, "-") && startsLower(text) {
				b.Reset()
				b.WriteString(strings.TrimSuffix(prev, "-"))
			} else {
				b.WriteByte(' ')
			}
		}
		b.WriteString(text)
	}
	return b.String()
}

func startsLower(s string) bool {
	for _, r := range s {
		return unicode.IsLower(r)
	}
	return false
}
