// Package pdf extracts text and tables from PDF uploads (PEA-2, PEA-4).
//
// Two pure Go libraries split the work: pdfcpu reads the document
// structure (page count, version, encryption) and ledongthuc/pdf
// provides positioned text for layout analysis. No CGO or external
// binaries required, so deployment stays a single static binary.
package pdf

import (
	"bytes"
	"fmt"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/ledongthuc/pdf"

	"github.com/Shimizu-Technology/pdf-excel-api/internal/models"
)

// whitespaceRun matches runs of ASCII whitespace only. Unicode spacing
// such as the full-width U+3000 is meaningful in Chinese text and must
// survive collapsing.
var whitespaceRun = regexp.MustCompile(`[ \t\n\r\f\v]+`)

// Extract runs the full pipeline on an in-memory upload: validation, a
// structural probe, then text and/or table extraction per the options.
//
// Go Pattern: We take []byte instead of an io.Reader because the data
// arrives as an HTTP upload already buffered in memory, and both parsers
// need random access (io.ReaderAt / io.ReadSeeker) anyway.
func Extract(data []byte, opts models.ConvertOptions) (*models.ExtractionResult, error) {
	if err := Validate(data); err != nil {
		return nil, err
	}

	probe, err := probeDocument(data)
	if err != nil {
		return nil, &ExtractionError{Err: err}
	}
	if probe.encrypted {
		return nil, &ExtractionError{Err: fmt.Errorf("document is encrypted")}
	}

	return extract(data, probe.pageCount, opts)
}

// extract does the parsing work after validation has passed. The
// ledongthuc parser panics on some malformed files instead of returning
// an error, so the whole pass runs under a recover.
func extract(data []byte, pageCount int, opts models.ConvertOptions) (result *models.ExtractionResult, err error) {
	defer func() {
		if r := recover(); r != nil {
			result = nil
			err = &ExtractionError{Err: fmt.Errorf("parser panic: %v", r)}
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, &ExtractionError{Err: err}
	}

	numPages := reader.NumPage()
	if pageCount == 0 {
		pageCount = numPages
	}

	result = &models.ExtractionResult{
		Mode:         opts.Mode,
		SplitByPages: opts.SplitByPages,
		PageCount:    pageCount,
	}

	if opts.Mode == models.ModeText || opts.Mode == models.ModeBoth {
		result.Pages = packPages(extractPages(reader, numPages, opts), opts.SplitByPages)
	}
	if opts.Mode == models.ModeTables || opts.Mode == models.ModeBoth {
		result.Tables = extractAllTables(reader, numPages, opts)
		if result.Tables == nil {
			// Empty, not nil: the result shape follows the requested
			// mode, not what the document happened to contain.
			result.Tables = []models.Table{}
		}
	}

	return result, nil
}

// extractPages renders each page as text and applies the formatting
// options. Pages that fail to render come back as empty strings so page
// numbering stays stable.
func extractPages(reader *pdf.Reader, numPages int, opts models.ConvertOptions) []string {
	pages := make([]string, 0, numPages)
	for i := 1; i <= numPages; i++ {
		text := pageText(reader, i)
		if !opts.PreserveFormatting {
			text = collapseWhitespace(text)
		}
		if opts.MergeTextBlocks {
			text = mergeTextBlocks(text)
		}
		pages = append(pages, text)
	}
	return pages
}

// collapseWhitespace folds ASCII whitespace runs into single spaces and
// trims the ends.
func collapseWhitespace(text string) string {
	return strings.TrimSpace(whitespaceRun.ReplaceAllString(text, " "))
}

// pageText reconstructs one page's text from positioned fragments. The
// parser returns content-stream order with no line breaks, so visual
// lines are rebuilt from the geometry. Pages with no positioned
// fragments fall back to the reader's plain-text view.
func pageText(reader *pdf.Reader, pageNum int) string {
	page := reader.Page(pageNum)
	if page.V.IsNull() {
		return ""
	}
	texts := page.Content().Text
	if len(texts) == 0 {
		plain, err := page.GetPlainText(nil)
		if err != nil {
			return ""
		}
		return strings.TrimSpace(plain)
	}
	return strings.Join(pageLines(texts), "\n")
}

// packPages applies the page-split option: either one entry per page, or
// a single entry with all pages joined by the page-break separator.
func packPages(pages []string, split bool) []string {
	if split {
		return pages
	}
	return []string{strings.Join(pages, models.PageBreakSeparator)}
}

// mergeTextBlocks joins continuation lines into paragraph blocks. A line
// continues the current block when it does not start with an upper-case
// letter and the block is still under 100 characters; blank lines always
// end the block. Chinese has no letter case, so Chinese lines merge
// freely until the length cap.
func mergeTextBlocks(text string) string {
	var blocks []string
	var current string

	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			if current != "" {
				blocks = append(blocks, current)
				current = ""
			}
			continue
		}
		if current != "" && !startsUpper(line) && utf8.RuneCountInString(current) < 100 {
			current += " " + line
		} else {
			if current != "" {
				blocks = append(blocks, current)
			}
			current = line
		}
	}
	if current != "" {
		blocks = append(blocks, current)
	}
	return strings.Join(blocks, "\n")
}

func startsUpper(s string) bool {
	r, _ := utf8.DecodeRuneInString(s)
	return unicode.IsUpper(r)
}
