// Package router sets up all HTTP routes for the API.
package router

import (
	"github.com/gin-gonic/gin"

	"github.com/Shimizu-Technology/pdf-excel-api/internal/config"
	"github.com/Shimizu-Technology/pdf-excel-api/internal/handlers"
	"github.com/Shimizu-Technology/pdf-excel-api/internal/middleware"
	"github.com/Shimizu-Technology/pdf-excel-api/internal/services/excel"
	"github.com/Shimizu-Technology/pdf-excel-api/internal/services/sanitize"
)

// Setup creates and configures the Gin router with all routes.
func Setup(san *sanitize.Sanitizer, exp *excel.Exporter, cfg *config.Config, version string) *gin.Engine {
	r := gin.Default()
	r.Use(middleware.CORS(cfg.AllowedOrigins))

	h := handlers.NewHandler(san, exp, cfg, version)
	gate := middleware.NewGate()

	// --- Public routes ---
	r.GET("/api/v1/health", h.HealthCheck)

	// API Documentation (PEA-8)
	r.GET("/api/docs", h.ServeSwaggerUI)
	r.GET("/api/docs/openapi.yaml", h.ServeOpenAPISpec)

	// --- Conversion routes (PEA-9: one at a time) ---
	// Every route that parses an uploaded PDF goes through the gate,
	// including info — parsing is the expensive part, not exporting.
	convert := r.Group("/api/v1")
	convert.Use(gate.Serialize())
	{
		convert.POST("/convert", h.ConvertPDF)
		convert.POST("/convert/preview", h.PreviewConvert)
		convert.POST("/pdf/info", h.PDFInfo)
	}

	return r
}
