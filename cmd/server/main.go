// Package main is the entry point for the PDF to Excel API server.
package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Shimizu-Technology/pdf-excel-api/internal/config"
	"github.com/Shimizu-Technology/pdf-excel-api/internal/router"
	"github.com/Shimizu-Technology/pdf-excel-api/internal/services/excel"
	"github.com/Shimizu-Technology/pdf-excel-api/internal/services/sanitize"
)

// Version is set at build time via -ldflags.
var Version = "dev"

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Printf("🚀 PDF to Excel API %s starting...", Version)

	// Step 1: Load Configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("❌ Failed to load config: %v", err)
	}
	log.Printf("📋 Config loaded: port=%s, gin_mode=%s, preview=%d rows/%d chars",
		cfg.Port, cfg.GinMode, cfg.PreviewRows, cfg.PreviewChars)

	os.Setenv("GIN_MODE", cfg.GinMode)

	// Step 2: Create Services
	// No database, no workers — the whole pipeline is in-memory and
	// synchronous. The sanitizer compiles its patterns once here.
	san := sanitize.New()
	exp := excel.New()
	log.Println("✅ Sanitizer and workbook writer initialized")

	// Step 3: Setup HTTP Router
	r := router.Setup(san, exp, cfg, Version)

	// Step 4: Start the HTTP Server
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Port),
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("🌐 Server listening on http://localhost:%s", cfg.Port)
		log.Printf("📖 Health check: http://localhost:%s/api/v1/health", cfg.Port)

		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("❌ Server failed: %v", err)
		}
	}()

	// Step 5: Graceful Shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	sig := <-quit
	log.Printf("🛑 Received signal %v, shutting down gracefully...", sig)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("⚠️  Server forced to shutdown: %v", err)
	}

	log.Println("👋 Server stopped. Goodbye!")
}
