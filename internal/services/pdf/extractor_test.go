// extractor_test.go tests the extraction pipeline end to end on
// generated documents.
//
// Go Pattern: The fixtures come from internal/pdftest, which writes real
// parseable PDF bytes. Tests here exercise the same code paths an upload
// takes, with no mocks in between.
package pdf

import (
	"errors"
	"reflect"
	"strings"
	"testing"

	"github.com/Shimizu-Technology/pdf-excel-api/internal/models"
	"github.com/Shimizu-Technology/pdf-excel-api/internal/pdftest"
)

func TestExtract_TextLines(t *testing.T) {
	data := pdftest.Build(pdftest.SimplePage("Hello World", "Second line"))

	opts := models.DefaultConvertOptions()
	opts.SplitByPages = true
	result, err := Extract(data, opts)
	if err != nil {
		t.Fatalf("Extract() error: %v", err)
	}

	if result.PageCount != 1 {
		t.Errorf("page count = %d, want 1", result.PageCount)
	}
	if len(result.Pages) != 1 {
		t.Fatalf("pages = %d, want 1", len(result.Pages))
	}
	if got, want := result.Pages[0], "Hello World\nSecond line"; got != want {
		t.Errorf("page text = %q, want %q", got, want)
	}
}

func TestExtract_PageBreak(t *testing.T) {
	data := pdftest.Build(
		pdftest.SimplePage("first page"),
		pdftest.SimplePage("second page"),
	)

	// Default: all pages joined into a single entry.
	result, err := Extract(data, models.DefaultConvertOptions())
	if err != nil {
		t.Fatalf("Extract() error: %v", err)
	}
	if len(result.Pages) != 1 {
		t.Fatalf("joined pages = %d entries, want 1", len(result.Pages))
	}
	want := "first page" + models.PageBreakSeparator + "second page"
	if result.Pages[0] != want {
		t.Errorf("joined text = %q, want %q", result.Pages[0], want)
	}

	// One entry per page when splitting.
	opts := models.DefaultConvertOptions()
	opts.SplitByPages = true
	result, err = Extract(data, opts)
	if err != nil {
		t.Fatalf("Extract() error: %v", err)
	}
	if result.PageCount != 2 {
		t.Errorf("page count = %d, want 2", result.PageCount)
	}
	if len(result.Pages) != 2 {
		t.Fatalf("split pages = %d entries, want 2", len(result.Pages))
	}
	if result.Pages[1] != "second page" {
		t.Errorf("second page = %q, want %q", result.Pages[1], "second page")
	}
}

func TestExtract_CollapseWhitespace(t *testing.T) {
	data := pdftest.Build(pdftest.SimplePage("line one", "line two"))

	opts := models.DefaultConvertOptions()
	opts.PreserveFormatting = false
	result, err := Extract(data, opts)
	if err != nil {
		t.Fatalf("Extract() error: %v", err)
	}
	if got, want := result.Pages[0], "line one line two"; got != want {
		t.Errorf("collapsed text = %q, want %q", got, want)
	}
}

func TestCollapseWhitespace_KeepsFullWidthSpace(t *testing.T) {
	// The U+3000 between the Chinese words must survive while the ASCII
	// runs around it collapse.
	got := collapseWhitespace("中文　測試  one\t\ttwo")
	if want := "中文　測試 one two"; got != want {
		t.Errorf("collapseWhitespace() = %q, want %q", got, want)
	}
}

func TestExtract_MergeTextBlocks(t *testing.T) {
	data := pdftest.Build(pdftest.SimplePage(
		"The report begins with a short",
		"introduction that wraps lines.",
		"Next Section",
	))

	opts := models.DefaultConvertOptions()
	opts.MergeTextBlocks = true
	result, err := Extract(data, opts)
	if err != nil {
		t.Fatalf("Extract() error: %v", err)
	}

	want := "The report begins with a short introduction that wraps lines.\nNext Section"
	if result.Pages[0] != want {
		t.Errorf("merged text = %q, want %q", result.Pages[0], want)
	}
}

func TestMergeTextBlocks(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
	}{
		{
			name: "lowercase continuation merges",
			text: "First part\ncontinues here",
			want: "First part continues here",
		},
		{
			name: "uppercase start breaks the block",
			text: "First part\nSecond part",
			want: "First part\nSecond part",
		},
		{
			name: "blank line ends the block",
			text: "one\n\ntwo",
			want: "one\ntwo",
		},
		{
			name: "long blocks stop accumulating",
			text: strings.Repeat("x", 100) + "\nmore",
			want: strings.Repeat("x", 100) + "\nmore",
		},
		{
			name: "chinese lines merge freely",
			text: "報表第一段\n接續的內容",
			want: "報表第一段 接續的內容",
		},
		{
			name: "empty input",
			text: "",
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := mergeTextBlocks(tt.text); got != tt.want {
				t.Errorf("mergeTextBlocks(%q) = %q, want %q", tt.text, got, tt.want)
			}
		})
	}
}

func TestExtract_Tables(t *testing.T) {
	data := pdftest.Build(pdftest.TablePage([][]string{
		{"Name", "Amount"},
		{"Widget", "10"},
		{"Gadget", "25"},
	}))

	opts := models.DefaultConvertOptions()
	opts.Mode = models.ModeTables
	result, err := Extract(data, opts)
	if err != nil {
		t.Fatalf("Extract() error: %v", err)
	}

	if len(result.Pages) != 0 {
		t.Errorf("tables mode extracted %d text entries, want 0", len(result.Pages))
	}
	if len(result.Tables) != 1 {
		t.Fatalf("tables = %d, want 1", len(result.Tables))
	}

	table := result.Tables[0]
	if !reflect.DeepEqual(table.Header, []string{"Name", "Amount"}) {
		t.Errorf("header = %q, want [Name Amount]", table.Header)
	}
	wantRows := [][]string{{"Widget", "10"}, {"Gadget", "25"}}
	if !reflect.DeepEqual(table.Rows, wantRows) {
		t.Errorf("rows = %q, want %q", table.Rows, wantRows)
	}
	if table.Page != 1 || table.Index != 1 {
		t.Errorf("table position = page %d index %d, want page 1 index 1", table.Page, table.Index)
	}
}

func TestExtract_BothModes(t *testing.T) {
	data := pdftest.Build(
		pdftest.SimplePage("Introduction text only."),
		pdftest.TablePage([][]string{{"A", "B"}, {"1", "2"}}),
	)

	opts := models.DefaultConvertOptions()
	opts.Mode = models.ModeBoth
	opts.SplitByPages = true
	result, err := Extract(data, opts)
	if err != nil {
		t.Fatalf("Extract() error: %v", err)
	}

	if len(result.Pages) != 2 {
		t.Fatalf("pages = %d, want 2", len(result.Pages))
	}
	if !strings.Contains(result.Pages[0], "Introduction") {
		t.Errorf("first page = %q, want the introduction text", result.Pages[0])
	}
	if len(result.Tables) != 1 {
		t.Fatalf("tables = %d, want 1", len(result.Tables))
	}
	if result.Tables[0].Page != 2 {
		t.Errorf("table page = %d, want 2", result.Tables[0].Page)
	}
}

func TestExtract_FallbackTables(t *testing.T) {
	// No geometry here reads as a table: every line is a single run of
	// words. The comma-delimited block is picked up by the fallback.
	data := pdftest.Build(pdftest.SimplePage(
		"Monthly summary",
		"Name, Amount",
		"Widget, 10",
		"Gadget, 25",
	))

	opts := models.DefaultConvertOptions()
	opts.Mode = models.ModeTables
	result, err := Extract(data, opts)
	if err != nil {
		t.Fatalf("Extract() error: %v", err)
	}

	if len(result.Tables) != 1 {
		t.Fatalf("tables = %d, want 1", len(result.Tables))
	}
	table := result.Tables[0]
	if !reflect.DeepEqual(table.Header, []string{"Name", "Amount"}) {
		t.Errorf("header = %q, want [Name Amount]", table.Header)
	}
	wantRows := [][]string{{"Widget", "10"}, {"Gadget", "25"}}
	if !reflect.DeepEqual(table.Rows, wantRows) {
		t.Errorf("rows = %q, want %q", table.Rows, wantRows)
	}
	if table.Page != 1 || table.Index != 1 {
		t.Errorf("table position = page %d index %d, want page 1 index 1", table.Page, table.Index)
	}
}

func TestExtract_TablesModeWithoutTables(t *testing.T) {
	data := pdftest.Build(pdftest.SimplePage("just prose here"))

	opts := models.DefaultConvertOptions()
	opts.Mode = models.ModeTables
	result, err := Extract(data, opts)
	if err != nil {
		t.Fatalf("Extract() error: %v", err)
	}

	if result.Tables == nil || len(result.Tables) != 0 {
		t.Errorf("Tables = %#v, want empty slice", result.Tables)
	}
	if result.Pages != nil {
		t.Errorf("Pages = %#v, want nil in tables mode", result.Pages)
	}
}

func TestExtract_Validation(t *testing.T) {
	tests := []struct {
		name      string
		data      []byte
		wantCheck string
	}{
		{
			name:      "not a pdf",
			data:      []byte("hello"),
			wantCheck: CheckHeader,
		},
		{
			name:      "missing EOF marker",
			data:      []byte("%PDF-1.4\ntruncated"),
			wantCheck: CheckEOFMarker,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Extract(tt.data, models.DefaultConvertOptions())

			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("Extract() error = %v, want *ValidationError", err)
			}
			if verr.Check != tt.wantCheck {
				t.Errorf("check = %q, want %q", verr.Check, tt.wantCheck)
			}
		})
	}
}

func TestExtract_CorruptStructure(t *testing.T) {
	// Passes the byte-level checks but has no readable object structure.
	data := []byte("%PDF-1.4\nnot really objects\n%%EOF\n")

	_, err := Extract(data, models.DefaultConvertOptions())

	var xerr *ExtractionError
	if !errors.As(err, &xerr) {
		t.Fatalf("Extract() error = %v, want *ExtractionError", err)
	}
}

func TestInfo(t *testing.T) {
	data := pdftest.BuildWithInfo(
		&pdftest.Info{Title: "Quarterly Report", Author: "Finance Team"},
		pdftest.SimplePage("Revenue grew in the third quarter."),
		pdftest.TablePage([][]string{{"Q", "Rev"}, {"Q3", "12"}}),
	)

	info, err := Info(data)
	if err != nil {
		t.Fatalf("Info() error: %v", err)
	}

	if info.PageCount != 2 {
		t.Errorf("page count = %d, want 2", info.PageCount)
	}
	if info.Version != "1.4" {
		t.Errorf("version = %q, want %q", info.Version, "1.4")
	}
	if info.Encrypted {
		t.Error("encrypted = true, want false")
	}
	if info.FileSize != int64(len(data)) {
		t.Errorf("file size = %d, want %d", info.FileSize, len(data))
	}
	if info.Title != "Quarterly Report" {
		t.Errorf("title = %q, want %q", info.Title, "Quarterly Report")
	}
	if info.Author != "Finance Team" {
		t.Errorf("author = %q, want %q", info.Author, "Finance Team")
	}
	if info.TextPages != 2 {
		t.Errorf("text pages = %d, want 2", info.TextPages)
	}
	if info.TablePages != 1 {
		t.Errorf("table pages = %d, want 1", info.TablePages)
	}
	if info.CharCount == 0 {
		t.Error("char count = 0, want > 0")
	}
}
