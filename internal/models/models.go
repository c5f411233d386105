// Package models defines the data structures used throughout the application.
//
// Go Pattern: Models are plain structs with JSON tags for serialization.
// There is no ORM and no persistence layer here — every value below is
// created fresh for one conversion request and garbage-collected once the
// response is written.
package models

import "time"

// Mode selects what the extractor produces for a conversion.
// Go Pattern: We use string constants instead of enums (Go doesn't have enums).
// This is a common pattern — define a type alias and named constants.
type Mode string

const (
	ModeText   Mode = "text"   // per-page text only
	ModeTables Mode = "tables" // detected tables only
	ModeBoth   Mode = "both"   // text and tables
)

// Valid reports whether m is one of the three supported modes.
func (m Mode) Valid() bool {
	switch m {
	case ModeText, ModeTables, ModeBoth:
		return true
	}
	return false
}

// ConvertOptions holds the caller-facing flags for one conversion.
// Defaults mirror the form defaults: formatting preserved, empty rows
// removed, everything else off.
type ConvertOptions struct {
	Mode               Mode
	PreserveFormatting bool // collapse whitespace runs when false
	SplitByPages       bool // one text entry per page instead of a single joined string
	MergeTextBlocks    bool // merge consecutive short lines into paragraphs
	RemoveEmptyRows    bool // drop all-empty table rows during cleaning
	SanitizeData       bool // apply the PII pattern set
	RedactNumbers      bool // replace runs of 4+ digits
}

// DefaultConvertOptions returns the options used when the caller sends no flags.
func DefaultConvertOptions() ConvertOptions {
	return ConvertOptions{
		Mode:               ModeText,
		PreserveFormatting: true,
		RemoveEmptyRows:    true,
	}
}

// Table is one detected table: a header row plus data rows.
//
// Invariant: len(row) == len(Header) for every row. The extractor enforces
// this during cleaning (short rows are padded with "", overflow cells are
// folded into the last column) so downstream consumers never re-check it.
// Page and Index are provenance only, not part of the tabular content.
// Page is 1-based; 0 means the source page is unknown and downstream
// consumers omit the provenance entirely.
type Table struct {
	Header []string   `json:"header"`
	Rows   [][]string `json:"rows"`
	Page   int        `json:"page,omitempty"`
	Index  int        `json:"index"`
}

// ExtractionResult is what one conversion extracted.
//
// Go Pattern: This is a tagged union expressed as a struct — Mode says which
// fields are meaningful, and consumers switch exhaustively on it instead of
// inspecting shapes at runtime. The shape follows the REQUESTED mode, never
// what was found: tables mode with nothing detected yields an empty Tables
// slice, not nil fields all around.
//
// When SplitByPages is false, Pages holds exactly one element: all pages
// joined with PageBreakSeparator. When true, one element per source page,
// in page order.
type ExtractionResult struct {
	Mode         Mode     `json:"mode"`
	Pages        []string `json:"pages,omitempty"`
	SplitByPages bool     `json:"split_by_pages,omitempty"`
	Tables       []Table  `json:"tables,omitempty"`
	PageCount    int      `json:"page_count"`
}

// PageBreakSeparator joins per-page text when the caller did not ask for a
// page split. The literal is part of the output contract — re-splitting on
// it must recover the per-page sequence.
const PageBreakSeparator = "\n\n--- Page Break ---\n\n"

// RedactionSummary counts placeholder tokens per category after sanitization.
type RedactionSummary struct {
	Emails      int `json:"emails"`
	Phones      int `json:"phones"`
	SSNs        int `json:"ssns"`
	Cards       int `json:"cards"`
	NationalIDs int `json:"national_ids"`
	GenericIDs  int `json:"generic_ids"`
	Numbers     int `json:"numbers"`
}

// Total returns the number of redactions across all categories.
func (r RedactionSummary) Total() int {
	return r.Emails + r.Phones + r.SSNs + r.Cards + r.NationalIDs + r.GenericIDs + r.Numbers
}

// DocumentInfo describes an uploaded PDF without converting it.
type DocumentInfo struct {
	PageCount  int    `json:"page_count"`
	Version    string `json:"pdf_version"`
	Encrypted  bool   `json:"encrypted"`
	FileSize   int64  `json:"file_size_bytes"`
	Title      string `json:"title,omitempty"`
	Author     string `json:"author,omitempty"`
	Subject    string `json:"subject,omitempty"`
	Creator    string `json:"creator,omitempty"`
	Producer   string `json:"producer,omitempty"`
	TextPages  int    `json:"text_pages"`
	TablePages int    `json:"table_pages"`
	CharCount  int    `json:"char_count"`
}

// --- Request/Response DTOs (Data Transfer Objects) ---
// Go Pattern: Separate structs for API output vs internal state. This keeps
// the API contract explicit and independent of how the pipeline works.

// PreviewResponse is the JSON body for POST /api/v1/convert/preview.
// Text and table content are truncated to the configured preview limits;
// the Truncated flags say whether anything was cut.
type PreviewResponse struct {
	ConversionID  string           `json:"conversion_id"`
	Filename      string           `json:"filename"`
	Mode          Mode             `json:"mode"`
	PageCount     int              `json:"page_count"`
	Text          string           `json:"text,omitempty"`
	TextTruncated bool             `json:"text_truncated,omitempty"`
	Tables        []TablePreview   `json:"tables,omitempty"`
	Redactions    RedactionSummary `json:"redactions"`
}

// TablePreview is one table clipped to the preview row limit.
type TablePreview struct {
	Header    []string   `json:"header"`
	Rows      [][]string `json:"rows"`
	Page      int        `json:"page,omitempty"`
	Index     int        `json:"index"`
	TotalRows int        `json:"total_rows"`
	Truncated bool       `json:"truncated,omitempty"`
}

// ErrorResponse is a standard error format for all API errors.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Code    int    `json:"code"`
}

// HealthResponse is returned by the health check endpoint.
type HealthResponse struct {
	Status  string    `json:"status"`
	Version string    `json:"version"`
	Uptime  string    `json:"uptime"`
	Started time.Time `json:"started"`
}
