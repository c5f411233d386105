// Tests for workbook generation (PEA-3, PEA-10).
package excel

import (
	"bytes"
	"errors"
	"reflect"
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"

	"github.com/Shimizu-Technology/pdf-excel-api/internal/models"
)

func openWorkbook(t *testing.T, b []byte) *excelize.File {
	t.Helper()
	f, err := excelize.OpenReader(bytes.NewReader(b))
	if err != nil {
		t.Fatalf("OpenReader: %v", err)
	}
	t.Cleanup(func() { f.Close() })
	return f
}

func cellValue(t *testing.T, f *excelize.File, sheet, cell string) string {
	t.Helper()
	v, err := f.GetCellValue(sheet, cell)
	if err != nil {
		t.Fatalf("GetCellValue(%s!%s): %v", sheet, cell, err)
	}
	return v
}

func TestExport_TextSheet(t *testing.T) {
	e := New()
	result := &models.ExtractionResult{
		Mode:      models.ModeText,
		Pages:     []string{"First paragraph\nSecond paragraph\n\n  \n"},
		PageCount: 1,
	}

	b, err := e.Export(result, "report.pdf")
	if err != nil {
		t.Fatalf("Export: %v", err)
	}
	f := openWorkbook(t, b)

	if got := f.GetSheetList(); !reflect.DeepEqual(got, []string{"Extracted Text"}) {
		t.Fatalf("sheets = %v", got)
	}
	if got := cellValue(t, f, "Extracted Text", "A1"); got != "Text Extracted from: report.pdf" {
		t.Errorf("A1 = %q", got)
	}
	if got := cellValue(t, f, "Extracted Text", "A2"); !strings.HasPrefix(got, "Extracted on: ") {
		t.Errorf("A2 = %q", got)
	}
	if got := cellValue(t, f, "Extracted Text", "A3"); got != "First paragraph" {
		t.Errorf("A3 = %q", got)
	}
	if got := cellValue(t, f, "Extracted Text", "A4"); got != "Second paragraph" {
		t.Errorf("A4 = %q", got)
	}
	// Blank lines in the source never become rows.
	if got := cellValue(t, f, "Extracted Text", "A5"); got != "" {
		t.Errorf("A5 = %q, want empty", got)
	}

	w, err := f.GetColWidth("Extracted Text", "A")
	if err != nil {
		t.Fatalf("GetColWidth: %v", err)
	}
	if w < 79.9 || w > 80.1 {
		t.Errorf("column A width = %v, want 80", w)
	}
}

func TestExport_TextSheetSplitPages(t *testing.T) {
	e := New()
	result := &models.ExtractionResult{
		Mode:         models.ModeText,
		Pages:        []string{"第一頁內容", "Second page text"},
		SplitByPages: true,
		PageCount:    2,
	}

	b, err := e.Export(result, "報表.pdf")
	if err != nil {
		t.Fatalf("Export: %v", err)
	}
	f := openWorkbook(t, b)

	wantCells := map[string]string{
		"A3": "Page 1:",
		"A4": "第一頁內容",
		"A5": "",
		"A6": "Page 2:",
		"A7": "Second page text",
	}
	for cell, want := range wantCells {
		if got := cellValue(t, f, "Extracted Text", cell); got != want {
			t.Errorf("%s = %q, want %q", cell, got, want)
		}
	}
}

func TestExport_TableSheets(t *testing.T) {
	e := New()
	result := &models.ExtractionResult{
		Mode: models.ModeTables,
		Tables: []models.Table{
			{
				Header: []string{"No", "項目"},
				Rows:   [][]string{{"1", "營業收入合計"}, {"2", "稅後淨利"}},
				Page:   1,
				Index:  1,
			},
			{
				Header: []string{"Name", "Amount"},
				Rows:   [][]string{{"Alice", "120"}},
				Page:   2,
				Index:  1,
			},
		},
		PageCount: 2,
	}

	b, err := e.Export(result, "q3.pdf")
	if err != nil {
		t.Fatalf("Export: %v", err)
	}
	f := openWorkbook(t, b)

	want := []string{"Table_1_Page_1", "Table_2_Page_2"}
	if got := f.GetSheetList(); !reflect.DeepEqual(got, want) {
		t.Fatalf("sheets = %v, want %v", got, want)
	}

	if got := cellValue(t, f, "Table_1_Page_1", "A1"); got != "Table 1 from: q3.pdf" {
		t.Errorf("A1 = %q", got)
	}
	if got := cellValue(t, f, "Table_1_Page_1", "A2"); got != "Source: Page 1" {
		t.Errorf("A2 = %q", got)
	}

	// Header lands on row 4 when a provenance row is present.
	if got := cellValue(t, f, "Table_1_Page_1", "B4"); got != "項目" {
		t.Errorf("B4 = %q", got)
	}
	if got := cellValue(t, f, "Table_1_Page_1", "B5"); got != "營業收入合計" {
		t.Errorf("B5 = %q", got)
	}
	if got := cellValue(t, f, "Table_2_Page_2", "A5"); got != "Alice" {
		t.Errorf("A5 = %q", got)
	}
}

func TestExport_ColumnWidths(t *testing.T) {
	e := New()
	result := &models.ExtractionResult{
		Mode: models.ModeTables,
		Tables: []models.Table{
			{
				Header: []string{"No", "項目"},
				Rows:   [][]string{{"1", "營業收入合計"}},
				Page:   1,
				Index:  1,
			},
		},
		PageCount: 1,
	}

	b, err := e.Export(result, "q3.pdf")
	if err != nil {
		t.Fatalf("Export: %v", err)
	}
	f := openWorkbook(t, b)

	// "No" column: widest content is 2 units, clamped up to the 10 floor.
	wA, err := f.GetColWidth("Table_1_Page_1", "A")
	if err != nil {
		t.Fatalf("GetColWidth: %v", err)
	}
	if wA < 9.9 || wA > 10.1 {
		t.Errorf("column A width = %v, want 10", wA)
	}

	// Six Chinese characters at 1.5 units each, plus padding.
	wB, err := f.GetColWidth("Table_1_Page_1", "B")
	if err != nil {
		t.Fatalf("GetColWidth: %v", err)
	}
	if wB < 10.9 || wB > 11.1 {
		t.Errorf("column B width = %v, want 11", wB)
	}
}

func TestExport_BothModes(t *testing.T) {
	e := New()
	result := &models.ExtractionResult{
		Mode:  models.ModeBoth,
		Pages: []string{"Revenue grew in Q3"},
		Tables: []models.Table{
			{Header: []string{"A", "B"}, Rows: [][]string{{"1", "2"}}, Page: 1, Index: 1},
		},
		PageCount: 1,
	}

	b, err := e.Export(result, "q3.pdf")
	if err != nil {
		t.Fatalf("Export: %v", err)
	}
	f := openWorkbook(t, b)

	want := []string{"Extracted Text", "Table_1_Page_1"}
	if got := f.GetSheetList(); !reflect.DeepEqual(got, want) {
		t.Fatalf("sheets = %v, want %v", got, want)
	}
}

func TestExport_NoTables(t *testing.T) {
	e := New()
	result := &models.ExtractionResult{Mode: models.ModeTables, PageCount: 1}

	b, err := e.Export(result, "empty.pdf")
	if err != nil {
		t.Fatalf("Export: %v", err)
	}
	f := openWorkbook(t, b)

	if got := f.GetSheetList(); !reflect.DeepEqual(got, []string{"Summary"}) {
		t.Fatalf("sheets = %v", got)
	}
	if got := cellValue(t, f, "Summary", "A6"); got != "Status: No tables found in PDF" {
		t.Errorf("A6 = %q", got)
	}
}

func TestExport_NoContent(t *testing.T) {
	e := New()
	result := &models.ExtractionResult{
		Mode:      models.ModeText,
		Pages:     []string{"   \n  "},
		PageCount: 1,
	}

	b, err := e.Export(result, "blank.pdf")
	if err != nil {
		t.Fatalf("Export: %v", err)
	}
	f := openWorkbook(t, b)

	if got := f.GetSheetList(); !reflect.DeepEqual(got, []string{"Summary"}) {
		t.Fatalf("sheets = %v", got)
	}
	if got := cellValue(t, f, "Summary", "A6"); got != "Status: No data extracted" {
		t.Errorf("A6 = %q", got)
	}
	if got := cellValue(t, f, "Summary", "A3"); got != "Original File: blank.pdf" {
		t.Errorf("A3 = %q", got)
	}
}

func TestErrorWorkbook(t *testing.T) {
	e := New()

	b, err := e.errorWorkbook(errors.New("style table exploded"), "report.pdf")
	if err != nil {
		t.Fatalf("errorWorkbook: %v", err)
	}
	f := openWorkbook(t, b)

	if got := f.GetSheetList(); !reflect.DeepEqual(got, []string{"Error"}) {
		t.Fatalf("sheets = %v", got)
	}
	if got := cellValue(t, f, "Error", "A1"); got != "Conversion Error" {
		t.Errorf("A1 = %q", got)
	}
	if got := cellValue(t, f, "Error", "A3"); got != "File: report.pdf" {
		t.Errorf("A3 = %q", got)
	}
	if got := cellValue(t, f, "Error", "A7"); got != "style table exploded" {
		t.Errorf("A7 = %q", got)
	}
}

func TestSheetName(t *testing.T) {
	used := make(map[string]bool)

	if got := sheetName(1, 0, used); got != "Table_1" {
		t.Errorf("got %q", got)
	}
	if got := sheetName(2, 3, used); got != "Table_2_Page_3" {
		t.Errorf("got %q", got)
	}
	// A collision picks up a numeric suffix.
	if got := sheetName(1, 0, used); got != "Table_1_2" {
		t.Errorf("duplicate name = %q", got)
	}
}

func TestTruncateSheetName(t *testing.T) {
	long := strings.Repeat("x", 40)
	if got := truncateSheetName(long); len(got) != 31 {
		t.Errorf("len = %d, want 31", len(got))
	}
	if got := truncateSheetName("short"); got != "short" {
		t.Errorf("got %q", got)
	}
	if got := invalidSheetChars.ReplaceAllString("Q3: results [draft]", ""); got != "Q3 results draft" {
		t.Errorf("stripped = %q", got)
	}
}

func TestDisplayWidth(t *testing.T) {
	if got := displayWidth("abc"); got != 3 {
		t.Errorf("ascii width = %v", got)
	}
	if got := displayWidth("中文"); got != 3 {
		t.Errorf("cjk width = %v", got)
	}
	if got := displayWidth("a中"); got != 2.5 {
		t.Errorf("mixed width = %v", got)
	}
}
