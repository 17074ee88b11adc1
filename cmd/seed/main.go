package main

import (
	"log/slog"
	"os"

	"github.com/popcorn-picks/backend/internal/config"
	"github.com/popcorn-picks/backend/internal/database"
	"github.com/popcorn-picks/backend/internal/logging"
)

func main() {
	logging.Setup()

	cfg := config.Load()
	if cfg.DBPassword == "" {
		slog.Error("DB_PASSWORD environment variable is required")
		os.Exit(1)
	}

	if err := database.Connect(cfg); err != nil {
		slog.Error("database connection failed", "error", err)
		os.Exit(1)
	}
	if err := database.Migrate(); err != nil {
		slog.Error("migration failed", "error", err)
		os.Exit(1)
	}

	if err := database.SeedDemoData(database.DB); err != nil {
		slog.Error("seeding failed", "error", err)
		os.Exit(1)
	}

	slog.Info("seeding completed")
}
