// validator.go rejects bad uploads before any parser touches them (PEA-2).
package pdf

import (
	"bytes"
	"fmt"
)

// MaxFileSize is the largest upload the service accepts.
const MaxFileSize int64 = 50 << 20 // 50 MiB

var (
	pdfHeader = []byte("%PDF-")
	eofMarker = []byte("%%EOF")
)

// Validate runs the pre-parse checks in a fixed order: size, then header,
// then EOF marker. The first failure wins, so an oversized upload is
// never scanned for markers.
func Validate(data []byte) error {
	if size := int64(len(data)); size > MaxFileSize {
		return &ValidationError{
			Check:   CheckFileSize,
			Message: fmt.Sprintf("file is %d bytes, maximum allowed is %d", size, MaxFileSize),
			Size:    size,
			MaxSize: MaxFileSize,
		}
	}

	if !bytes.HasPrefix(data, pdfHeader) {
		return &ValidationError{
			Check:   CheckHeader,
			Message: "file does not start with a %PDF- header",
		}
	}

	// The marker usually sits in the last kilobyte, but incremental
	// updates can leave bytes after it, so scan the whole body.
	if !bytes.Contains(data, eofMarker) {
		return &ValidationError{
			Check:   CheckEOFMarker,
			Message: "file has no %%EOF marker",
		}
	}

	return nil
}
