package config

import (
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Environment variables that override values from the config file.
const (
	EnvURL        = "JOBCARDS_URL"
	EnvStorageDSN = "JOBCARDS_STORAGE_DSN"
	EnvLogLevel   = "JOBCARDS_LOG_LEVEL"
)

// LoadConfig reads filePath over the defaults, applies environment overrides
// and validates the result. An empty filePath yields the defaults.
func LoadConfig(filePath string) (*Config, error) {
	// .env is optional
	_ = godotenv.Load()

	cfg := Default()

	if filePath != "" {
		if err := decodeFile(filePath, cfg); err != nil {
			return nil, err
		}
	}

	if cfg.Source.SelectorsFile != "" {
		selectorsPath := cfg.Source.SelectorsFile
		// Relative selector paths are resolved next to the config file
		if !filepath.IsAbs(selectorsPath) && filePath != "" {
			selectorsPath = filepath.Join(filepath.Dir(filePath), selectorsPath)
		}
		selectors, err := LoadSelectors(selectorsPath)
		if err != nil {
			return nil, err
		}
		cfg.Source.Selectors = *selectors
	}

	applyEnv(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation error: %w", err)
	}

	return cfg, nil
}

func decodeFile(filePath string, cfg *Config) error {
	file, err := os.Open(filePath)
	if err != nil {
		return fmt.Errorf("failed to open config file: %w", err)
	}
	defer func() {
		if closeErr := file.Close(); closeErr != nil {
			log.Printf("Warning: failed to close config file: %v", closeErr)
		}
	}()

	decoder := yaml.NewDecoder(file)
	decoder.KnownFields(true)
	if err := decoder.Decode(cfg); err != nil {
		return fmt.Errorf("failed to parse config: %w", err)
	}
	return nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv(EnvURL); v != "" {
		cfg.Source.URL = v
	}
	if v := os.Getenv(EnvStorageDSN); v != "" {
		cfg.Storage.DSN = v
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		cfg.Observability.LogLevel = v
	}
}
