package config

import (
	"fmt"
	"time"
)

type Config struct {
	Source        SourceConfig        `yaml:"source"`
	HTTP          HttpConfig          `yaml:"http"`
	Rod           RodConfig           `yaml:"rod"`
	Output        OutputConfig        `yaml:"output"`
	Storage       StorageConfig       `yaml:"storage"`
	Observability ObservabilityConfig `yaml:"observability"`
}

type SourceConfig struct {
	URL string `yaml:"url"`
	// SelectorsFile, when set, replaces Selectors with the contents of the file.
	SelectorsFile string          `yaml:"selectors_file"`
	Selectors     SelectorsConfig `yaml:"selectors"`
}

type SelectorsConfig struct {
	CardContainer string `yaml:"card_container"`
	Title         string `yaml:"title"`
	Subtitle      string `yaml:"subtitle"`
	Location      string `yaml:"location"`
	Posted        string `yaml:"posted"`
	ApplyLink     string `yaml:"apply_link"`
	Content       string `yaml:"content"`
}

type HttpConfig struct {
	UserAgent      string `yaml:"user_agent"`
	AcceptLanguage string `yaml:"accept_language"`
	// 0 means no timeout.
	TotalTimeoutMS         int `yaml:"total_timeout_ms"`
	MaxIdleConnections     int `yaml:"max_idle_connections"`
	IdleConnectionTimeoutS int `yaml:"idle_connection_timeout_s"`
}

type RodConfig struct {
	Enabled      bool   `yaml:"enabled"`
	ChromePath   string `yaml:"chrome_path"`
	PageTimeoutS int    `yaml:"page_timeout_s"`
}

type OutputConfig struct {
	CSVPath        string `yaml:"csv_path"`
	JSONPath       string `yaml:"json_path"`
	IncludeContent bool   `yaml:"include_content"`
}

type StorageConfig struct {
	// Empty disables the storage sink.
	Driver           string `yaml:"driver"`
	DSN              string `yaml:"dsn"`
	CommandTimeoutMS int    `yaml:"command_timeout_ms"`
}

type ObservabilityConfig struct {
	LogPath       string `yaml:"log_path"`
	LogLevel      string `yaml:"log_level"`
	LogMaxSizeMB  int    `yaml:"log_max_size_mb"`
	LogMaxBackups int    `yaml:"log_max_backups"`
	LogMaxAgeDays int    `yaml:"log_max_age_days"`
}

// Default returns the configuration used when no config file is given.
// It targets the Real Python fake jobs board.
func Default() *Config {
	return &Config{
		Source: SourceConfig{
			URL: "https://realpython.github.io/fake-jobs/",
			Selectors: SelectorsConfig{
				CardContainer: "#ResultsContainer .column .card .card-content",
				Title:         ".media-content .title",
				Subtitle:      ".media-content .subtitle",
				Location:      ".content .location",
				Posted:        ".content p time",
				ApplyLink:     ".card-footer-item:last-child",
				Content:       ".content p",
			},
		},
		HTTP: HttpConfig{
			UserAgent:              "jobcards-parser/1.0",
			AcceptLanguage:         "en-US,en;q=0.9",
			MaxIdleConnections:     10,
			IdleConnectionTimeoutS: 90,
		},
		Rod: RodConfig{
			PageTimeoutS: 30,
		},
		Output: OutputConfig{
			CSVPath:        "demo.csv",
			JSONPath:       "demo.json",
			IncludeContent: true,
		},
		Storage: StorageConfig{
			CommandTimeoutMS: 5000,
		},
		Observability: ObservabilityConfig{
			LogLevel:      "info",
			LogMaxSizeMB:  10,
			LogMaxBackups: 3,
			LogMaxAgeDays: 28,
		},
	}
}

// Validation
func (c *Config) Validate() error {
	if c.Source.URL == "" {
		return fmt.Errorf("source.url is required")
	}
	if err := validateSelectors(&c.Source.Selectors); err != nil {
		return fmt.Errorf("source.selectors: %w", err)
	}
	if c.HTTP.TotalTimeoutMS < 0 {
		return fmt.Errorf("http.total_timeout_ms must be >= 0")
	}
	if c.HTTP.MaxIdleConnections < 0 {
		return fmt.Errorf("http.max_idle_connections must be >= 0")
	}
	if c.Output.CSVPath == "" {
		return fmt.Errorf("output.csv_path is required")
	}
	if c.Output.JSONPath == "" {
		return fmt.Errorf("output.json_path is required")
	}
	if c.Output.CSVPath == c.Output.JSONPath {
		return fmt.Errorf("output.csv_path and output.json_path must differ")
	}
	switch c.Storage.Driver {
	case "":
	case "mssql", "postgres", "sqlite":
		if c.Storage.DSN == "" {
			return fmt.Errorf("storage.dsn is required when storage.driver is set")
		}
		if c.Storage.CommandTimeoutMS <= 0 {
			return fmt.Errorf("storage.command_timeout_ms must be > 0")
		}
	default:
		return fmt.Errorf("storage.driver must be 'mssql', 'postgres' or 'sqlite'")
	}
	switch c.Observability.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("observability.log_level must be one of debug, info, warn, error")
	}
	if c.Rod.Enabled && c.Rod.PageTimeoutS <= 0 {
		return fmt.Errorf("rod.page_timeout_s must be > 0")
	}
	return nil
}

// Getters
func (c *Config) GetTotalTimeout() time.Duration {
	return time.Duration(c.HTTP.TotalTimeoutMS) * time.Millisecond
}

func (c *Config) GetIdleConnectionTimeout() time.Duration {
	return time.Duration(c.HTTP.IdleConnectionTimeoutS) * time.Second
}

func (c *Config) GetCommandTimeout() time.Duration {
	return time.Duration(c.Storage.CommandTimeoutMS) * time.Millisecond
}

func (c *Config) GetRodPageTimeout() time.Duration {
	return time.Duration(c.Rod.PageTimeoutS) * time.Second
}

func (c *Config) StorageEnabled() bool {
	return c.Storage.Driver != ""
}
