// Package handlers contains HTTP handler functions for the API.
//
// Go Pattern: Handlers in Gin receive a *gin.Context which provides:
// - Request data (params, query, body, headers)
// - Response methods (JSON, Data, Status)
// - Middleware data (c.Get/c.Set)
//
// Handlers are plain methods on a Handler struct that holds the shared
// dependencies, so tests can build one with whatever pieces they need.
package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Shimizu-Technology/pdf-excel-api/internal/config"
	"github.com/Shimizu-Technology/pdf-excel-api/internal/models"
	"github.com/Shimizu-Technology/pdf-excel-api/internal/services/excel"
	"github.com/Shimizu-Technology/pdf-excel-api/internal/services/sanitize"
)

// Handler holds shared dependencies for all HTTP handlers.
// Go Pattern: Dependency injection via struct fields. Instead of global
// variables or service locators, we pass dependencies explicitly.
type Handler struct {
	Sanitizer *sanitize.Sanitizer
	Exporter  *excel.Exporter
	Cfg       *config.Config
	Version   string
	Started   time.Time
}

// NewHandler creates a new handler with all dependencies.
func NewHandler(san *sanitize.Sanitizer, exp *excel.Exporter, cfg *config.Config, version string) *Handler {
	return &Handler{
		Sanitizer: san,
		Exporter:  exp,
		Cfg:       cfg,
		Version:   version,
		Started:   time.Now(),
	}
}

// HealthCheck returns the API health status.
// GET /api/v1/health
func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, models.HealthResponse{
		Status:  "ok",
		Version: h.Version,
		Uptime:  time.Since(h.Started).Round(time.Second).String(),
		Started: h.Started,
	})
}
