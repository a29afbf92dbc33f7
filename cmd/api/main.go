package main

import (
	"context"
	"log"

	"github.com/jus-waa/Intern-Attendance-Tracker/cmd/api/docs"
	"github.com/jus-waa/Intern-Attendance-Tracker/internal/app"
	"github.com/jus-waa/Intern-Attendance-Tracker/internal/config"
	"github.com/jus-waa/Intern-Attendance-Tracker/internal/infrastructure/database"
	"github.com/jus-waa/Intern-Attendance-Tracker/internal/infrastructure/observability"
)

// @title           Intern Attendance Tracker API
// @version         1.0
// @description     Shift-aware attendance tracking for interns: check-in/check-out classification, absence marking, auto timeouts and school-level archival.
func main() {
	// Load configuration first and validate before any resource initialization
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Configuration loading failed: %v", err)
	}

	// Validate configuration before initializing any resources
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Configuration validation failed: %v", err)
	}

	// Programmatically set swagger info
	docs.SwaggerInfo.BasePath = "/api/v1"

	// Initialize logger after config validation
	logger, err := observability.NewLogger(cfg.Logging.Level, cfg.Logging.Encoding)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer func() {
		if err := logger.Sync(); err != nil {
			log.Printf("Failed to sync logger: %v", err)
		}
	}()
	metrics := observability.NewMetrics()
	// Initialize database after config validation
	db, err := database.NewMariaDB(context.Background(), &cfg.Database, metrics, logger)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	container, err := app.NewContainer(cfg, db.DB, logger)
	if err != nil {
		log.Fatalf("Failed to initialize application: %v", err)
	}
	server := app.NewServer(container)

	if err := server.Start(); err != nil {
		log.Fatalf("Server error: %v", err)
	}
}
