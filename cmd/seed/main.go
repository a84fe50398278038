package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"time"

	"github.com/SAP-F-2025/score-service/internal/config"
	"github.com/SAP-F-2025/score-service/internal/seed"
	"github.com/SAP-F-2025/score-service/pkg"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	file := flag.String("file", cfg.SeedFile, "path to the TOML fixture file")
	flag.Parse()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.LogLevel,
	}))

	if err := run(cfg, *file, logger); err != nil {
		log.Fatalf("Seed failed: %v", err)
	}
}

func run(cfg *config.Config, file string, logger *slog.Logger) error {
	fixtures, err := seed.Load(file)
	if err != nil {
		return err
	}

	db, err := pkg.InitDatabase(cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	if sqlDB, err := db.DB(); err == nil {
		defer sqlDB.Close()
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	_, err = seed.Apply(ctx, db, fixtures, logger)
	return err
}
