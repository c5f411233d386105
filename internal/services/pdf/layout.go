// layout.go rebuilds visual lines from the parser's positioned output (PEA-2).
//
// The content-stream parser emits one fragment per character, in stream
// order, with no spaces or line breaks. Everything here works off the
// X/Y geometry instead: fragments cluster into rows by baseline, rows
// merge into words by horizontal gap, and wide gaps inside a row mark
// table cell boundaries.
package pdf

import (
	"sort"
	"strings"

	"github.com/ledongthuc/pdf"
)

// Layout tuning constants. All values are in PDF points.
const (
	// rowTolerance groups fragments whose baselines differ by less
	// than this into the same visual row.
	rowTolerance = 5.0

	// columnGap is the horizontal distance that separates two cells
	// in a table row. Word spacing inside a cell stays well under it.
	columnGap = 20.0

	// wordGapFactor scales with font size: fragments closer than
	// 0.3em belong to the same word.
	wordGapFactor = 0.3

	// fallbackWordGap applies when the parser reports no font size.
	fallbackWordGap = 3.0
)

// word is a merged run of fragments with its horizontal extent.
type word struct {
	text  string
	x     float64
	width float64
}

// groupRows clusters fragments into visual rows. Rows come back top to
// bottom (PDF Y grows upward) with fragments left to right. The first
// fragment of a row anchors its baseline.
func groupRows(texts []pdf.Text) [][]pdf.Text {
	if len(texts) == 0 {
		return nil
	}

	sorted := make([]pdf.Text, len(texts))
	copy(sorted, texts)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Y > sorted[j].Y
	})

	var rows [][]pdf.Text
	cur := []pdf.Text{sorted[0]}
	curY := sorted[0].Y
	for _, t := range sorted[1:] {
		if curY-t.Y > rowTolerance {
			rows = append(rows, cur)
			cur = nil
			curY = t.Y
		}
		cur = append(cur, t)
	}
	rows = append(rows, cur)

	for _, row := range rows {
		sort.SliceStable(row, func(i, j int) bool {
			return row[i].X < row[j].X
		})
	}
	return rows
}

// mergeWords joins a row's fragments back into words. Two fragments
// belong to the same word when the gap between them is below a fraction
// of the font size; whitespace fragments only separate, they are never
// kept.
func mergeWords(row []pdf.Text) []word {
	var words []word
	var cur strings.Builder
	var curX, curEnd float64

	flush := func() {
		if cur.Len() == 0 {
			return
		}
		words = append(words, word{text: cur.String(), x: curX, width: curEnd - curX})
		cur.Reset()
	}

	for _, t := range row {
		if strings.TrimSpace(t.S) == "" {
			flush()
			continue
		}
		gapLimit := fallbackWordGap
		if t.FontSize > 0 {
			gapLimit = t.FontSize * wordGapFactor
		}
		if cur.Len() > 0 && t.X-curEnd > gapLimit {
			flush()
		}
		if cur.Len() == 0 {
			curX = t.X
		}
		cur.WriteString(t.S)
		curEnd = t.X + t.W
	}
	flush()
	return words
}

// lineText renders one visual row as plain text, words joined by single
// spaces.
func lineText(row []pdf.Text) string {
	words := mergeWords(row)
	if len(words) == 0 {
		return ""
	}
	parts := make([]string, len(words))
	for i, w := range words {
		parts[i] = w.text
	}
	return strings.Join(parts, " ")
}

// rowCells splits one visual row into table cells. A gap wider than
// columnGap starts a new cell; words closer than that join the current
// cell with a space.
func rowCells(row []pdf.Text) []string {
	words := mergeWords(row)
	if len(words) == 0 {
		return nil
	}

	var cells []string
	var cell strings.Builder
	cell.WriteString(words[0].text)
	prevEnd := words[0].x + words[0].width
	for _, w := range words[1:] {
		if w.x-prevEnd > columnGap {
			cells = append(cells, cell.String())
			cell.Reset()
		} else {
			cell.WriteString(" ")
		}
		cell.WriteString(w.text)
		prevEnd = w.x + w.width
	}
	cells = append(cells, cell.String())
	return cells
}

// pageLines renders a page's fragments as ordered text lines, skipping
// rows that merge to nothing.
func pageLines(texts []pdf.Text) []string {
	return rowsToLines(groupRows(texts))
}

func rowsToLines(rows [][]pdf.Text) []string {
	lines := make([]string, 0, len(rows))
	for _, row := range rows {
		if line := lineText(row); line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}
