// info.go reports document structure without running a conversion (PEA-7).
package pdf

import (
	"bytes"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/ledongthuc/pdf"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"

	"github.com/Shimizu-Technology/pdf-excel-api/internal/models"
)

// docProbe is what the structural pass learns before any content parsing
// happens.
type docProbe struct {
	pageCount int
	version   string
	encrypted bool
}

// probeDocument reads the cross-reference structure with pdfcpu. It is
// the first thing to touch the bytes after validation and the only place
// encryption is detected. Relaxed validation keeps slightly damaged but
// readable files working.
func probeDocument(data []byte) (*docProbe, error) {
	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed

	ctx, err := api.ReadContext(bytes.NewReader(data), conf)
	if err != nil {
		return nil, fmt.Errorf("reading document structure: %w", err)
	}
	if err := ctx.EnsurePageCount(); err != nil {
		return nil, fmt.Errorf("resolving page count: %w", err)
	}

	probe := &docProbe{
		pageCount: ctx.PageCount,
		encrypted: ctx.Encrypt != nil,
	}
	if ctx.HeaderVersion != nil {
		probe.version = ctx.HeaderVersion.String()
	}
	return probe, nil
}

// Info describes a document without converting it. The page census
// (pages with text, pages with tables, character total) needs a full
// content pass, so Info costs about as much as a conversion. Encrypted
// documents are not an error here: they come back with Encrypted set
// and no census.
func Info(data []byte) (*models.DocumentInfo, error) {
	if err := Validate(data); err != nil {
		return nil, err
	}

	probe, err := probeDocument(data)
	if err != nil {
		return nil, &ExtractionError{Err: err}
	}

	info := &models.DocumentInfo{
		PageCount: probe.pageCount,
		Version:   probe.version,
		Encrypted: probe.encrypted,
		FileSize:  int64(len(data)),
	}
	if !probe.encrypted {
		fillContentInfo(data, info)
	}
	return info, nil
}

// fillContentInfo adds metadata and the per-page content census. A
// document whose pages cannot be parsed still has valid structural
// info, so census failures are swallowed by a recover rather than
// surfaced.
func fillContentInfo(data []byte, info *models.DocumentInfo) {
	defer func() {
		recover() // census is best-effort
	}()

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return
	}

	readMetadata(reader, info)

	numPages := reader.NumPage()
	for i := 1; i <= numPages; i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		rows := groupRows(page.Content().Text)

		if text := strings.Join(rowsToLines(rows), "\n"); text != "" {
			info.TextPages++
			info.CharCount += utf8.RuneCountInString(text)
		}
		if len(tablesFromRows(rows)) > 0 {
			info.TablePages++
		}
	}
}

// readMetadata copies the document information dictionary. Text() on the
// values decodes UTF-16 strings, which is how Chinese titles are usually
// stored.
func readMetadata(reader *pdf.Reader, info *models.DocumentInfo) {
	trailer := reader.Trailer()
	if trailer.IsNull() {
		return
	}
	dict := trailer.Key("Info")
	if dict.IsNull() {
		return
	}

	info.Title = strings.TrimSpace(dict.Key("Title").Text())
	info.Author = strings.TrimSpace(dict.Key("Author").Text())
	info.Subject = strings.TrimSpace(dict.Key("Subject").Text())
	info.Creator = strings.TrimSpace(dict.Key("Creator").Text())
	info.Producer = strings.TrimSpace(dict.Key("Producer").Text())
}
