// tables.go detects and cleans tables from positioned page text (PEA-4).
package pdf

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/ledongthuc/pdf"

	"github.com/Shimizu-Technology/pdf-excel-api/internal/models"
)

// Table detection thresholds.
const (
	// minTableRows is the smallest run of multi-cell rows treated as a
	// table: a header plus at least one data row.
	minTableRows = 2

	// minTableColumns rejects degenerate single-column "tables".
	minTableColumns = 2

	// columnConfidence is the fraction of a candidate's rows that must
	// agree on the dominant column count.
	columnConfidence = 0.5
)

// extractAllTables walks every page and collects detected tables. Table
// indexes restart at 1 on each page and follow detection order, so a
// table dropped during cleaning leaves a gap rather than renumbering the
// rest. When the whole document yields nothing, the text-based fallback
// runs instead.
func extractAllTables(reader *pdf.Reader, numPages int, opts models.ConvertOptions) []models.Table {
	var tables []models.Table
	for pageNum := 1; pageNum <= numPages; pageNum++ {
		page := reader.Page(pageNum)
		if page.V.IsNull() {
			continue
		}
		for i, grid := range tablesFromRows(groupRows(page.Content().Text)) {
			table, ok := cleanTable(grid, opts.RemoveEmptyRows)
			if !ok {
				continue
			}
			table.Page = pageNum
			table.Index = i + 1
			tables = append(tables, table)
		}
	}

	if len(tables) == 0 {
		tables = fallbackAllTables(reader, numPages, opts)
	}
	return tables
}

// tablesFromRows finds rectangular regions in a page's visual rows. A
// run of consecutive rows that each split into at least two cells is a
// candidate; any row that does not ends the run.
func tablesFromRows(rows [][]pdf.Text) [][][]string {
	var tables [][][]string
	var band [][]string

	flush := func() {
		if grid, ok := buildGrid(band); ok {
			tables = append(tables, grid)
		}
		band = nil
	}

	for _, row := range rows {
		cells := rowCells(row)
		if len(cells) < minTableColumns {
			flush()
			continue
		}
		band = append(band, cells)
	}
	flush()
	return tables
}

// buildGrid validates a candidate band and normalizes it to a uniform
// column count. The dominant count must win at least half the rows,
// otherwise the band is just ragged prose that happened to have gaps.
func buildGrid(band [][]string) ([][]string, bool) {
	if len(band) < minTableRows {
		return nil, false
	}

	votes := make(map[int]int)
	for _, cells := range band {
		votes[len(cells)]++
	}
	width, best := 0, 0
	for w, n := range votes {
		if n > best || (n == best && w > width) {
			width, best = w, n
		}
	}
	if width < minTableColumns {
		return nil, false
	}
	if float64(best)/float64(len(band)) < columnConfidence {
		return nil, false
	}

	grid := make([][]string, len(band))
	for i, cells := range band {
		grid[i] = normalizeWidth(cells, width)
	}
	return grid, true
}

// normalizeWidth pads short rows with empty cells and folds overflow
// into the last column so every row matches the voted width.
func normalizeWidth(cells []string, width int) []string {
	out := make([]string, width)
	for i, c := range cells {
		if i < width {
			out[i] = c
		} else {
			out[width-1] += " " + c
		}
	}
	return out
}

// cleanTable turns a raw grid into a Table. The first row is always
// consumed as the header; when it is entirely empty the names are
// synthesized as Column_N, sized to the first data row. Empty-row
// removal checks raw cells before they are trimmed, so rows of pure
// whitespace survive it and only become empty during cell cleanup.
func cleanTable(grid [][]string, removeEmpty bool) (models.Table, bool) {
	if len(grid) == 0 {
		return models.Table{}, false
	}

	header := grid[0]
	data := grid[1:]

	if allEmpty(header) {
		width := 0
		if len(data) > 0 {
			width = len(data[0])
		}
		header = make([]string, width)
		for i := range header {
			header[i] = fmt.Sprintf("Column_%d", i+1)
		}
	} else {
		header = cleanCells(header)
	}

	var rows [][]string
	for _, raw := range data {
		if removeEmpty && allEmpty(raw) {
			continue
		}
		rows = append(rows, cleanCells(raw))
	}
	if len(header) == 0 || len(rows) == 0 {
		return models.Table{}, false
	}

	return models.Table{Header: header, Rows: rows}, true
}

// allEmpty reports whether every cell is the empty string exactly.
// Whitespace-only cells do not count as empty.
func allEmpty(cells []string) bool {
	for _, c := range cells {
		if c != "" {
			return false
		}
	}
	return true
}

// cleanCells trims every cell and converts the literal string "None" to
// empty. Upstream table sources render absent cells as "None" when they
// stringify missing values.
func cleanCells(cells []string) []string {
	out := make([]string, len(cells))
	for i, c := range cells {
		c = strings.TrimSpace(c)
		if c == "None" {
			c = ""
		}
		out[i] = c
	}
	return out
}

// --- Text-based fallback (PEA-12) ---
//
// Some documents carry tabular data as plain text: tab- or
// pipe-delimited exports, aligned columns, CSV fragments. When geometry
// detection finds nothing in the whole document, the fallback scans text
// lines for delimiter patterns instead. Best-effort only: candidates
// that fail to parse are dropped silently and no error is ever surfaced
// from here.

var multiSpace = regexp.MustCompile(`\s{2,}`)

// fallbackAllTables scans every page's text lines for delimited runs.
func fallbackAllTables(reader *pdf.Reader, numPages int, opts models.ConvertOptions) []models.Table {
	var tables []models.Table
	for pageNum := 1; pageNum <= numPages; pageNum++ {
		page := reader.Page(pageNum)
		if page.V.IsNull() {
			continue
		}
		for i, grid := range fallbackGrids(pageLines(page.Content().Text)) {
			table, ok := cleanTable(grid, opts.RemoveEmptyRows)
			if !ok {
				continue
			}
			table.Page = pageNum
			table.Index = i + 1
			tables = append(tables, table)
		}
	}
	return tables
}

// fallbackGrids groups consecutive delimited lines into candidate grids.
// A non-delimited line ends the current run.
func fallbackGrids(lines []string) [][][]string {
	var grids [][][]string
	var run []string

	flush := func() {
		if grid, ok := parseDelimited(run); ok {
			grids = append(grids, grid)
		}
		run = nil
	}

	for _, line := range lines {
		line = strings.TrimSpace(line)
		if isDelimited(line) {
			run = append(run, line)
			continue
		}
		flush()
	}
	flush()
	return grids
}

// isDelimited reports whether a line looks like a table row: at least
// two whitespace-separated tokens plus a delimiter hint.
func isDelimited(line string) bool {
	if len(strings.Fields(line)) < 2 {
		return false
	}
	return strings.ContainsAny(line, "\t|,") || strings.Contains(line, "  ")
}

// parseDelimited splits a run of lines into a grid padded to the longest
// row. Lines that do not split into at least two cells are skipped;
// fewer than two surviving rows means no table.
func parseDelimited(run []string) ([][]string, bool) {
	if len(run) < minTableRows {
		return nil, false
	}

	var grid [][]string
	width := 0
	for _, line := range run {
		cells := splitLine(line)
		if len(cells) < minTableColumns {
			continue
		}
		if len(cells) > width {
			width = len(cells)
		}
		grid = append(grid, cells)
	}
	if len(grid) < minTableRows {
		return nil, false
	}

	for i, cells := range grid {
		for len(cells) < width {
			cells = append(cells, "")
		}
		grid[i] = cells
	}
	return grid, true
}

// splitLine picks the strongest delimiter present in the line: tab, then
// pipe, then comma, then runs of two or more spaces.
func splitLine(line string) []string {
	switch {
	case strings.Contains(line, "\t"):
		return trimCells(strings.Split(line, "\t"))
	case strings.Contains(line, "|"):
		return splitPipes(line)
	case strings.Contains(line, ","):
		return trimCells(strings.Split(line, ","))
	default:
		return multiSpace.Split(line, -1)
	}
}

// splitPipes drops the empty edge cells that lines like "|a|b|" produce.
func splitPipes(line string) []string {
	var cells []string
	for _, c := range strings.Split(line, "|") {
		if c = strings.TrimSpace(c); c != "" {
			cells = append(cells, c)
		}
	}
	return cells
}

func trimCells(cells []string) []string {
	for i, c := range cells {
		cells[i] = strings.TrimSpace(c)
	}
	return cells
}
