// gate.go serializes conversions so only one runs at a time (PEA-9).
//
// A conversion holds the whole PDF, its extracted pages, and the
// workbook in memory at once. On a single-user service there is nothing
// to gain from running two of those concurrently, so a second upload is
// turned away with 429 rather than queued behind the first.
package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Shimizu-Technology/pdf-excel-api/internal/models"
)

// Gate admits one request at a time.
//
// Go Pattern: A buffered channel of capacity 1 is Go's try-lock. The
// select with a default arm either takes the slot immediately or
// reports it occupied — it never blocks, which is exactly what a
// reject-don't-queue policy needs.
type Gate struct {
	slot chan struct{}
}

// NewGate creates a gate with a single slot.
func NewGate() *Gate {
	return &Gate{slot: make(chan struct{}, 1)}
}

// Serialize returns Gin middleware that rejects a request while another
// request holds the gate. The slot is released when the handler chain
// finishes, panics included.
func (g *Gate) Serialize() gin.HandlerFunc {
	return func(c *gin.Context) {
		select {
		case g.slot <- struct{}{}:
			defer func() { <-g.slot }()
			c.Next()
		default:
			c.Header("Retry-After", "5")
			c.JSON(http.StatusTooManyRequests, models.ErrorResponse{
				Error:   "conversion_in_progress",
				Message: "Another conversion is in progress. Retry in a few seconds.",
				Code:    http.StatusTooManyRequests,
			})
			c.Abort()
		}
	}
}
