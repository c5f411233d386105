// convert.go handles PDF to Excel conversion HTTP endpoints (PEA-2, PEA-3, PEA-5).
//
// POST /api/v1/convert — Upload PDF file, download the converted workbook
// POST /api/v1/convert/preview — Upload PDF file, preview extraction as JSON
package handlers

import (
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/Shimizu-Technology/pdf-excel-api/internal/models"
	pdfservice "github.com/Shimizu-Technology/pdf-excel-api/internal/services/pdf"
	"github.com/Shimizu-Technology/pdf-excel-api/internal/services/sanitize"
)

// maxUploadSize caps the request body: the 50 MiB document limit plus
// 1 MiB of multipart framing. The document-level size check is the one
// that reports oversize with real numbers; this cap only stops a client
// from streaming gigabytes at the parser.
const maxUploadSize = pdfservice.MaxFileSize + 1<<20

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// ConvertPDF converts an uploaded PDF into an xlsx workbook.
// POST /api/v1/convert
//
// Accepts multipart file upload with field name "file" plus option
// fields; responds with the workbook as an attachment. Export failures
// still download — as a workbook holding a single "Error" sheet.
func (h *Handler) ConvertPDF(c *gin.Context) {
	data, filename, ok := readUpload(c)
	if !ok {
		return
	}
	opts, ok := parseOptions(c)
	if !ok {
		return
	}

	result, err := pdfservice.Extract(data, opts)
	if err != nil {
		log.Printf("Conversion failed for %s: %v", filename, err)
		writeExtractionError(c, err)
		return
	}

	if opts.SanitizeData || opts.RedactNumbers {
		result, _ = h.Sanitizer.Result(result, sanitizeOptions(opts))
	}

	workbook, err := h.Exporter.Export(result, filename)
	if err != nil {
		log.Printf("Workbook generation failed for %s: %v", filename, err)
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error:   "export_failed",
			Message: "Failed to generate the Excel workbook",
			Code:    http.StatusInternalServerError,
		})
		return
	}

	base := sanitizeFilename(strings.TrimSuffix(filename, filepath.Ext(filename)))
	if base == "" {
		base = "document"
	}

	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s_converted.xlsx"`, base))
	c.Header("X-Conversion-ID", uuid.New().String())
	c.Header("X-Page-Count", strconv.Itoa(result.PageCount))
	c.Data(http.StatusOK, xlsxContentType, workbook)
}

// PreviewConvert runs the same pipeline but returns the extracted
// content as JSON instead of a workbook, truncated to the configured
// preview limits.
// POST /api/v1/convert/preview
func (h *Handler) PreviewConvert(c *gin.Context) {
	data, filename, ok := readUpload(c)
	if !ok {
		return
	}
	opts, ok := parseOptions(c)
	if !ok {
		return
	}

	result, err := pdfservice.Extract(data, opts)
	if err != nil {
		log.Printf("Preview failed for %s: %v", filename, err)
		writeExtractionError(c, err)
		return
	}

	var sum models.RedactionSummary
	if opts.SanitizeData || opts.RedactNumbers {
		result, sum = h.Sanitizer.Result(result, sanitizeOptions(opts))
	}

	resp := models.PreviewResponse{
		ConversionID: uuid.New().String(),
		Filename:     filename,
		Mode:         result.Mode,
		PageCount:    result.PageCount,
		Redactions:   sum,
	}

	if result.Mode != models.ModeTables {
		text := strings.Join(result.Pages, models.PageBreakSeparator)
		resp.Text, resp.TextTruncated = truncateRunes(text, h.Cfg.PreviewChars)
	}
	for _, t := range result.Tables {
		tp := models.TablePreview{
			Header:    t.Header,
			Rows:      t.Rows,
			Page:      t.Page,
			Index:     t.Index,
			TotalRows: len(t.Rows),
		}
		if len(tp.Rows) > h.Cfg.PreviewRows {
			tp.Rows = tp.Rows[:h.Cfg.PreviewRows]
			tp.Truncated = true
		}
		resp.Tables = append(resp.Tables, tp)
	}

	c.JSON(http.StatusOK, resp)
}

// readUpload pulls the PDF bytes out of a multipart request. On failure
// it writes the error response and returns ok=false.
func readUpload(c *gin.Context) (data []byte, filename string, ok bool) {
	// Limit request body size before any of it is read.
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxUploadSize)

	file, header, err := c.Request.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			c.JSON(http.StatusRequestEntityTooLarge, models.ErrorResponse{
				Error:   "file_too_large",
				Message: fmt.Sprintf("Upload exceeds the %d MiB limit", pdfservice.MaxFileSize>>20),
				Code:    http.StatusRequestEntityTooLarge,
			})
			return nil, "", false
		}
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "invalid_request",
			Message: "No PDF file provided. Upload a file with the field name 'file'. Max size: 50MB.",
			Code:    http.StatusBadRequest,
		})
		return nil, "", false
	}
	defer file.Close()

	// Validate file extension
	ext := strings.ToLower(filepath.Ext(header.Filename))
	if ext != ".pdf" {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "invalid_file_type",
			Message: fmt.Sprintf("Unsupported file format '%s'. Only .pdf files are accepted.", ext),
			Code:    http.StatusBadRequest,
		})
		return nil, "", false
	}

	// Read the entire file into memory for the PDF library.
	// Go Pattern: io.ReadAll reads the entire reader into a byte slice.
	// For PDFs up to 50MB this is fine — the parser needs random access.
	data, err = io.ReadAll(file)
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "read_error",
			Message: "Failed to read uploaded file",
			Code:    http.StatusBadRequest,
		})
		return nil, "", false
	}
	return data, header.Filename, true
}

// parseOptions reads the conversion flags from the form. Absent fields
// keep their defaults; an unknown mode writes a 400 and returns
// ok=false.
func parseOptions(c *gin.Context) (models.ConvertOptions, bool) {
	opts := models.DefaultConvertOptions()

	if mode := c.PostForm("mode"); mode != "" {
		opts.Mode = models.Mode(mode)
		if !opts.Mode.Valid() {
			c.JSON(http.StatusBadRequest, models.ErrorResponse{
				Error:   "invalid_mode",
				Message: fmt.Sprintf("Unsupported mode '%s'. Use text, tables, or both.", mode),
				Code:    http.StatusBadRequest,
			})
			return opts, false
		}
	}

	opts.PreserveFormatting = formBool(c, "preserve_formatting", opts.PreserveFormatting)
	opts.SplitByPages = formBool(c, "split_by_pages", opts.SplitByPages)
	opts.MergeTextBlocks = formBool(c, "merge_text_blocks", opts.MergeTextBlocks)
	opts.RemoveEmptyRows = formBool(c, "remove_empty_rows", opts.RemoveEmptyRows)
	opts.SanitizeData = formBool(c, "sanitize_data", opts.SanitizeData)
	opts.RedactNumbers = formBool(c, "redact_numbers", opts.RedactNumbers)
	return opts, true
}

// formBool reads a boolean form field, keeping the default when the
// field is absent or unparseable. Accepts true/false, 1/0, on/off.
func formBool(c *gin.Context, field string, def bool) bool {
	v, present := c.GetPostForm(field)
	if !present {
		return def
	}
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "true", "1", "on":
		return true
	case "false", "0", "off":
		return false
	}
	return def
}

func sanitizeOptions(opts models.ConvertOptions) sanitize.Options {
	return sanitize.Options{
		Basic:         opts.SanitizeData,
		RedactNumbers: opts.RedactNumbers,
	}
}

// writeExtractionError maps the pipeline's typed errors onto HTTP
// statuses: oversize 413, other validation failures 400, parser
// failures 422, anything unrecognized 500.
func writeExtractionError(c *gin.Context, err error) {
	var verr *pdfservice.ValidationError
	if errors.As(err, &verr) {
		status := http.StatusBadRequest
		code := "invalid_pdf"
		if verr.Check == pdfservice.CheckFileSize {
			status = http.StatusRequestEntityTooLarge
			code = "file_too_large"
		}
		c.JSON(status, models.ErrorResponse{
			Error:   code,
			Message: verr.Message,
			Code:    status,
		})
		return
	}

	var eerr *pdfservice.ExtractionError
	if errors.As(err, &eerr) {
		c.JSON(http.StatusUnprocessableEntity, models.ErrorResponse{
			Error:   "extraction_failed",
			Message: "PDF content extraction failed: " + eerr.Err.Error(),
			Code:    http.StatusUnprocessableEntity,
		})
		return
	}

	c.JSON(http.StatusInternalServerError, models.ErrorResponse{
		Error:   "conversion_failed",
		Message: "Unexpected error during conversion",
		Code:    http.StatusInternalServerError,
	})
}

// truncateRunes clips s to limit runes. A limit of zero or less means
// no truncation.
func truncateRunes(s string, limit int) (string, bool) {
	if limit <= 0 || utf8.RuneCountInString(s) <= limit {
		return s, false
	}
	return string([]rune(s)[:limit]), true
}

// sanitizeFilename removes characters that aren't safe for filenames.
// Go Pattern: Keep it simple — replace unsafe characters with hyphens
// and trim the result. This only feeds the Content-Disposition header,
// not any filesystem path.
func sanitizeFilename(name string) string {
	replacer := strings.NewReplacer(
		"/", "-", "\\", "-", ":", "-", "*", "-",
		"?", "-", "\"", "-", "<", "-", ">", "-",
		"|", "-", "\n", " ", "\r", "",
	)
	name = replacer.Replace(name)

	// Collapse multiple hyphens/spaces
	for strings.Contains(name, "  ") {
		name = strings.ReplaceAll(name, "  ", " ")
	}
	for strings.Contains(name, "--") {
		name = strings.ReplaceAll(name, "--", "-")
	}

	name = strings.TrimSpace(name)

	// Limit length
	if utf8.RuneCountInString(name) > 100 {
		name = string([]rune(name)[:100])
	}

	return name
}
