// Package sanitize redacts personally identifiable information from
// extracted content before it reaches a workbook (PEA-6).
//
// Matching is regex-based and intentionally conservative: a pattern that
// sometimes catches legitimate content is preferred over one that leaks.
// Placeholders carry no digits or @ signs, so running the sanitizer over
// already-sanitized text changes nothing.
package sanitize

import (
	"regexp"

	"github.com/Shimizu-Technology/pdf-excel-api/internal/models"
)

// Placeholder tokens substituted for matched content.
const (
	EmailPlaceholder  = "[EMAIL_REDACTED]"
	PhonePlaceholder  = "[PHONE_REDACTED]"
	SSNPlaceholder    = "[SSN_REDACTED]"
	CardPlaceholder   = "[CARD_REDACTED]"
	IDPlaceholder     = "[ID_REDACTED]"
	NumberPlaceholder = "[NUMBER_REDACTED]"
)

// Options selects which pattern groups apply.
type Options struct {
	Basic         bool // emails, phones, SSNs, cards, ID numbers
	RedactNumbers bool // any run of 4+ digits, applied after Basic
}

// Sanitizer holds the compiled pattern set. Construct once with New and
// reuse; the patterns are immutable after compilation.
type Sanitizer struct {
	email     *regexp.Regexp
	phone     *regexp.Regexp
	ssn       *regexp.Regexp
	card      *regexp.Regexp
	chineseID *regexp.Regexp
	genericID *regexp.Regexp
	numeric   *regexp.Regexp
}

// New compiles the pattern set.
//
// Word boundaries here are ASCII boundaries, which treat Chinese
// characters as non-word: an ID number embedded directly in Chinese
// prose still gets caught.
func New() *Sanitizer {
	return &Sanitizer{
		email: regexp.MustCompile(`\b[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}\b`),
		// International prefix optional, separators tolerated. No
		// leading boundary: phones hide inside longer digit runs.
		phone:     regexp.MustCompile(`(\+?\d{1,3}[-.\s]?)?\(?\d{3}\)?[-.\s]?\d{3}[-.\s]?\d{4}`),
		ssn:       regexp.MustCompile(`\b\d{3}-\d{2}-\d{4}\b`),
		card:      regexp.MustCompile(`\b\d{4}[-\s]?\d{4}[-\s]?\d{4}[-\s]?\d{4}\b`),
		chineseID: regexp.MustCompile(`\b\d{15}|\d{17}[\dXx]\b`),
		genericID: regexp.MustCompile(`\b\d{6,12}\b`),
		numeric:   regexp.MustCompile(`\b\d{4,}\b`),
	}
}

// String sanitizes one string. Matches are counted into sum as they are
// replaced, so the summary reflects substitutions actually made rather
// than pattern hits that a later pattern would have shadowed.
//
// The basic patterns run in a fixed order, most specific first within
// each category; order is part of the contract because the patterns
// overlap on long digit runs.
func (s *Sanitizer) String(text string, opts Options, sum *models.RedactionSummary) string {
	if text == "" {
		return text
	}

	if opts.Basic {
		text = replace(s.email, text, EmailPlaceholder, &sum.Emails)
		text = replace(s.phone, text, PhonePlaceholder, &sum.Phones)
		text = replace(s.ssn, text, SSNPlaceholder, &sum.SSNs)
		text = replace(s.card, text, CardPlaceholder, &sum.Cards)
		text = replace(s.chineseID, text, IDPlaceholder, &sum.NationalIDs)
		text = replace(s.genericID, text, IDPlaceholder, &sum.GenericIDs)
	}
	if opts.RedactNumbers {
		text = replace(s.numeric, text, NumberPlaceholder, &sum.Numbers)
	}
	return text
}

func replace(re *regexp.Regexp, text, placeholder string, n *int) string {
	return re.ReplaceAllStringFunc(text, func(string) string {
		*n++
		return placeholder
	})
}

// Table sanitizes every cell, header row included, and returns a new
// table of identical dimensions.
func (s *Sanitizer) Table(t models.Table, opts Options, sum *models.RedactionSummary) models.Table {
	out := models.Table{
		Header: make([]string, len(t.Header)),
		Rows:   make([][]string, len(t.Rows)),
		Page:   t.Page,
		Index:  t.Index,
	}
	for i, h := range t.Header {
		out.Header[i] = s.String(h, opts, sum)
	}
	for i, row := range t.Rows {
		out.Rows[i] = make([]string, len(row))
		for j, cell := range row {
			out.Rows[i][j] = s.String(cell, opts, sum)
		}
	}
	return out
}

// Result sanitizes an extraction result field by field and reports what
// was redacted. The input is not modified.
func (s *Sanitizer) Result(r *models.ExtractionResult, opts Options) (*models.ExtractionResult, models.RedactionSummary) {
	var sum models.RedactionSummary

	out := &models.ExtractionResult{
		Mode:         r.Mode,
		SplitByPages: r.SplitByPages,
		PageCount:    r.PageCount,
	}
	if r.Pages != nil {
		out.Pages = make([]string, len(r.Pages))
		for i, page := range r.Pages {
			out.Pages[i] = s.String(page, opts, &sum)
		}
	}
	if r.Tables != nil {
		out.Tables = make([]models.Table, len(r.Tables))
		for i, table := range r.Tables {
			out.Tables[i] = s.Table(table, opts, &sum)
		}
	}
	return out, sum
}
