// info.go handles the PDF inspection endpoint (PEA-7).
//
// POST /api/v1/pdf/info — Upload PDF file, get document metadata as JSON
package handlers

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	pdfservice "github.com/Shimizu-Technology/pdf-excel-api/internal/services/pdf"
)

// PDFInfo describes an uploaded PDF without converting it: page count,
// version, encryption, document metadata, and a best-effort content
// census. Encrypted documents are not an error here — they come back
// with Encrypted set and no census.
// POST /api/v1/pdf/info
func (h *Handler) PDFInfo(c *gin.Context) {
	data, filename, ok := readUpload(c)
	if !ok {
		return
	}

	info, err := pdfservice.Info(data)
	if err != nil {
		log.Printf("Info failed for %s: %v", filename, err)
		writeExtractionError(c, err)
		return
	}

	c.JSON(http.StatusOK, info)
}
