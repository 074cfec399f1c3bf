package main

import (
	"fmt"
	"os"

	"jobcards-parser/internal/app"
	"jobcards-parser/internal/config"
	"jobcards-parser/internal/fetcher"
	"jobcards-parser/internal/observability"
	"jobcards-parser/internal/scraper"
	"jobcards-parser/internal/storage"
	"jobcards-parser/internal/storage/sqlstore"
)

func main() {
	if err := run(); err != nil {
		os.Exit(1)
	}
}

func run() error {
	// No argument runs against the built-in defaults
	configPath := ""
	if len(os.Args) > 1 {
		configPath = os.Args[1]
	}

	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		return err
	}

	logger := observability.NewLogger(cfg.Observability)
	defer func() { _ = logger.Close() }()

	ctx, cancel := app.GracefulShutdown(logger)
	defer cancel()

	f, err := fetcher.New(cfg, logger)
	if err != nil {
		logger.Error("Failed to create fetcher", "error", err.Error())
		return err
	}
	defer func() {
		if err := f.Close(); err != nil {
			logger.Warn("Failed to close fetcher", "error", err.Error())
		}
	}()

	var repo storage.Repository
	if cfg.StorageEnabled() {
		r, err := sqlstore.Open(cfg.Storage.Driver, cfg.Storage.DSN, cfg.GetCommandTimeout(), logger)
		if err != nil {
			logger.Error("Failed to open storage", "driver", cfg.Storage.Driver, "error", err.Error())
			return err
		}
		defer func() {
			if err := r.Close(); err != nil {
				logger.Warn("Failed to close storage", "error", err.Error())
			}
		}()
		repo = r
	}

	source := scraper.NewListingSource(cfg.Source.URL, f, scraper.NewScraper(cfg.Source.Selectors), logger.With("component", "scraper"))
	pipeline := app.NewPipeline(cfg, logger.With("component", "pipeline"), source, repo)

	if _, err := pipeline.Run(ctx); err != nil {
		logger.Error("Run failed", "error", err.Error())
		return err
	}
	return nil
}
