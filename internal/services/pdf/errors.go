// errors.go defines the error types the extraction pipeline reports (PEA-2).
package pdf

import "fmt"

// Validation check identifiers. Handlers map these to HTTP status codes,
// so the strings are part of the API surface.
const (
	CheckFileSize  = "file_size"
	CheckHeader    = "pdf_header"
	CheckEOFMarker = "eof_marker"
)

// ValidationError reports an upload that was rejected before any parsing
// was attempted.
type ValidationError struct {
	Check   string // which check failed (CheckFileSize, CheckHeader, CheckEOFMarker)
	Message string // human-readable explanation
	Size    int64  // actual size in bytes (file size check only)
	MaxSize int64  // configured limit in bytes (file size check only)
}

func (e *ValidationError) Error() string {
	return e.Message
}

// ExtractionError reports an upload that passed validation but could not
// be parsed. The underlying parser panics on some malformed files instead
// of returning an error, so recovered panics end up here too.
type ExtractionError struct {
	Err error
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("extraction failed: %v", e.Err)
}

func (e *ExtractionError) Unwrap() error {
	return e.Err
}
