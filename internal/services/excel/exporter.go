// Package excel renders extraction results as styled xlsx workbooks (PEA-3).
//
// The exporter never propagates its own failures: if any sheet cannot be
// written, the partial workbook is discarded and replaced by a single
// "Error" sheet describing what went wrong, so the caller always gets a
// downloadable file. Extraction and validation failures are someone
// else's problem and arrive here already handled.
package excel

import (
	"fmt"
	"math"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/xuri/excelize/v2"

	"github.com/Shimizu-Technology/pdf-excel-api/internal/models"
)

// defaultSheet is the sheet excelize seeds every new workbook with. It
// is removed once the real sheets exist.
const defaultSheet = "Sheet1"

const timestampLayout = "2006-01-02 15:04:05"

// Excel forbids these characters in sheet names.
var invalidSheetChars = regexp.MustCompile(`[\\/*?:\[\]]`)

// Exporter writes workbooks. Safe to reuse across conversions; each
// call builds a fresh workbook.
type Exporter struct {
	styles *styleConfig
}

func New() *Exporter {
	return &Exporter{styles: newStyleConfig()}
}

// Export serializes the extraction result into an xlsx workbook.
// A build or serialization failure yields an "Error" workbook instead
// of an error; the error return is non-nil only when even that minimal
// workbook cannot be produced.
func (e *Exporter) Export(result *models.ExtractionResult, filename string) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := e.build(f, result, filename); err != nil {
		return e.errorWorkbook(err, filename)
	}
	buf, err := f.WriteToBuffer()
	if err != nil {
		return e.errorWorkbook(err, filename)
	}
	return buf.Bytes(), nil
}

func (e *Exporter) build(f *excelize.File, r *models.ExtractionResult, filename string) error {
	st, err := e.styles.resolve(f)
	if err != nil {
		return err
	}

	switch r.Mode {
	case models.ModeText:
		if hasText(r.Pages) {
			if err := e.addTextSheet(f, st, r, filename); err != nil {
				return err
			}
		}
	case models.ModeTables:
		if len(r.Tables) == 0 {
			if err := e.addSummarySheet(f, st, "No tables found in PDF", filename); err != nil {
				return err
			}
		} else if err := e.addTableSheets(f, st, r.Tables, filename); err != nil {
			return err
		}
	case models.ModeBoth:
		if hasText(r.Pages) {
			if err := e.addTextSheet(f, st, r, filename); err != nil {
				return err
			}
		}
		if len(r.Tables) > 0 {
			if err := e.addTableSheets(f, st, r.Tables, filename); err != nil {
				return err
			}
		}
	}

	// Nothing extracted in any mode still yields a workbook.
	if len(f.GetSheetList()) == 1 {
		if err := e.addSummarySheet(f, st, "No data extracted", filename); err != nil {
			return err
		}
	}

	if err := f.DeleteSheet(defaultSheet); err != nil {
		return err
	}
	f.SetActiveSheet(0)
	return nil
}

// addTextSheet writes extracted text one paragraph per row. Page-split
// results get a bold "Page N:" label per page and a blank spacer row
// between pages; blank paragraphs are dropped either way.
func (e *Exporter) addTextSheet(f *excelize.File, st *sheetStyles, r *models.ExtractionResult, filename string) error {
	const sheet = "Extracted Text"
	if _, err := f.NewSheet(sheet); err != nil {
		return err
	}
	if err := setCell(f, sheet, 1, 1, "Text Extracted from: "+filename, st.title); err != nil {
		return err
	}
	if err := setCell(f, sheet, 1, 2, "Extracted on: "+timestamp(), st.stamp); err != nil {
		return err
	}

	row := 3
	if r.SplitByPages {
		for i, page := range r.Pages {
			if err := setCell(f, sheet, 1, row, fmt.Sprintf("Page %d:", i+1), st.label); err != nil {
				return err
			}
			row++
			var err error
			if row, err = writeParagraphs(f, st, sheet, page, row); err != nil {
				return err
			}
			row++
		}
	} else if len(r.Pages) > 0 {
		if _, err := writeParagraphs(f, st, sheet, r.Pages[0], row); err != nil {
			return err
		}
	}

	return f.SetColWidth(sheet, "A", "A", 80)
}

func writeParagraphs(f *excelize.File, st *sheetStyles, sheet, text string, row int) (int, error) {
	for _, line := range strings.Split(text, "\n") {
		para := strings.TrimSpace(line)
		if para == "" {
			continue
		}
		if err := setCell(f, sheet, 1, row, para, st.paragraph); err != nil {
			return row, err
		}
		row++
	}
	return row, nil
}

// addTableSheets writes one sheet per table: a title row, a page
// provenance row when the source page is known, then the styled header
// and the data grid.
func (e *Exporter) addTableSheets(f *excelize.File, st *sheetStyles, tables []models.Table, filename string) error {
	used := make(map[string]bool)
	for i, t := range tables {
		name := sheetName(i+1, t.Page, used)
		if _, err := f.NewSheet(name); err != nil {
			return err
		}
		if err := setCell(f, name, 1, 1, fmt.Sprintf("Table %d from: %s", i+1, filename), st.title); err != nil {
			return err
		}

		start := 3
		if t.Page > 0 {
			if err := setCell(f, name, 1, 2, fmt.Sprintf("Source: Page %d", t.Page), st.stamp); err != nil {
				return err
			}
			start = 4
		}

		for c, h := range t.Header {
			if err := setCell(f, name, c+1, start, h, st.headerCell); err != nil {
				return err
			}
		}
		for ri, cells := range t.Rows {
			for c, value := range cells {
				if err := setCell(f, name, c+1, start+1+ri, value, st.cell); err != nil {
					return err
				}
			}
		}

		if err := setColumnWidths(f, name, t); err != nil {
			return err
		}
	}
	return nil
}

func (e *Exporter) addSummarySheet(f *excelize.File, st *sheetStyles, message, filename string) error {
	const sheet = "Summary"
	if _, err := f.NewSheet(sheet); err != nil {
		return err
	}
	lines := []struct {
		row   int
		text  string
		style int
	}{
		{1, "PDF to Excel Conversion Summary", st.title},
		{3, "Original File: " + filename, st.body},
		{4, "Conversion Date: " + timestamp(), st.body},
		{6, "Status: " + message, st.body},
	}
	for _, l := range lines {
		if err := setCell(f, sheet, 1, l.row, l.text, l.style); err != nil {
			return err
		}
	}
	return f.SetColWidth(sheet, "A", "A", 60)
}

// errorWorkbook builds the fallback workbook from scratch. Partial
// sheets from the failed attempt are abandoned with their file.
func (e *Exporter) errorWorkbook(cause error, filename string) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	st, err := e.styles.resolve(f)
	if err != nil {
		return nil, err
	}
	const sheet = "Error"
	if _, err := f.NewSheet(sheet); err != nil {
		return nil, err
	}
	lines := []struct {
		row   int
		text  string
		style int
	}{
		{1, "Conversion Error", st.errorTitle},
		{3, "File: " + filename, st.body},
		{4, "Error occurred at: " + timestamp(), st.body},
		{6, "Error Details:", st.label},
		{7, cause.Error(), st.paragraph},
	}
	for _, l := range lines {
		if err := setCell(f, sheet, 1, l.row, l.text, l.style); err != nil {
			return nil, err
		}
	}
	if err := f.SetColWidth(sheet, "A", "A", 80); err != nil {
		return nil, err
	}
	if err := f.DeleteSheet(defaultSheet); err != nil {
		return nil, err
	}
	f.SetActiveSheet(0)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// sheetName builds a workbook-unique sheet name for the nth table.
// Excel rejects names over 31 characters or containing certain
// punctuation, so the generated name is stripped and truncated first.
func sheetName(n, page int, used map[string]bool) string {
	name := fmt.Sprintf("Table_%d", n)
	if page > 0 {
		name = fmt.Sprintf("Table_%d_Page_%d", n, page)
	}
	name = truncateSheetName(invalidSheetChars.ReplaceAllString(name, ""))

	base := name
	for i := 2; used[name]; i++ {
		suffix := fmt.Sprintf("_%d", i)
		name = truncateSheetName(base)
		if utf8.RuneCountInString(name)+len(suffix) > 31 {
			name = string([]rune(name)[:31-len(suffix)])
		}
		name += suffix
	}
	used[name] = true
	return name
}

func truncateSheetName(name string) string {
	if utf8.RuneCountInString(name) > 31 {
		return string([]rune(name)[:31])
	}
	return name
}

// setColumnWidths sizes each column to its widest content. Chinese
// characters render roughly half again as wide as Latin ones (PEA-10),
// so they count 1.5 units; the result is clamped to [10, 50] plus a
// little padding.
func setColumnWidths(f *excelize.File, sheet string, t models.Table) error {
	for c, h := range t.Header {
		max := float64(utf8.RuneCountInString(h))
		for _, row := range t.Rows {
			if c < len(row) {
				if w := displayWidth(row[c]); w > max {
					max = w
				}
			}
		}
		width := math.Min(max+2, 50)
		width = math.Max(width, 10)

		col, err := excelize.ColumnNumberToName(c + 1)
		if err != nil {
			return err
		}
		if err := f.SetColWidth(sheet, col, col, width); err != nil {
			return err
		}
	}
	return nil
}

func displayWidth(s string) float64 {
	var w float64
	for _, r := range s {
		if r >= 0x4E00 && r <= 0x9FFF {
			w += 1.5
		} else {
			w++
		}
	}
	return w
}

func setCell(f *excelize.File, sheet string, col, row int, value string, style int) error {
	cell, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return err
	}
	if err := f.SetCellValue(sheet, cell, value); err != nil {
		return err
	}
	return f.SetCellStyle(sheet, cell, cell, style)
}

func hasText(pages []string) bool {
	for _, p := range pages {
		if strings.TrimSpace(p) != "" {
			return true
		}
	}
	return false
}

func timestamp() string {
	return time.Now().Format(timestampLayout)
}
