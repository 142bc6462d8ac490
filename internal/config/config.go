// Package config loads CLI configuration from an optional yaml file with
// environment variable overrides.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

// Default values for the configuration.
const (
	DefaultLogLevel     = "info"
	DefaultExportFormat = "json"
	DefaultInputSlot    = "default"
)

// Config holds all CLI settings. File values override the defaults and
// environment variables override the file.
type Config struct {
	// DataDir is where the sqlite database lives. Defaults to
	// ~/.readimeter.
	DataDir string `yaml:"data_dir" env:"READIMETER_DATA_DIR"`

	// LogLevel is one of: debug | info | warn | error.
	LogLevel string `yaml:"log_level" env:"READIMETER_LOG_LEVEL"`

	// ExportFormat is the default export encoding: json | csv.
	ExportFormat string `yaml:"export_format" env:"READIMETER_EXPORT_FORMAT"`

	// InputSlot is the saved-inputs slot the CLI reads and writes by
	// default.
	InputSlot string `yaml:"input_slot" env:"READIMETER_INPUT_SLOT"`
}

// Load builds the configuration: defaults, then the yaml file at path (when
// path is empty, the default location is used if it exists), then
// environment overrides, then validation.
func Load(path string) (*Config, error) {
	cfg, err := defaults()
	if err != nil {
		return nil, err
	}

	explicit := path != ""
	if !explicit {
		path = filepath.Join(cfg.DataDir, "config.yaml")
	}

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("config: parse yaml %q: %w", path, err)
		}
	case os.IsNotExist(err) && !explicit:
		// no config file is fine unless one was asked for
	default:
		return nil, fmt.Errorf("config: read %q: %w", path, err)
	}

	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("config: parse env: %w", err)
	}

	if err := validate(cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}

	return cfg, nil
}

// defaults returns a Config pre-populated with default values.
func defaults() (*Config, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("config: resolve home directory: %w", err)
	}

	return &Config{
		DataDir:      filepath.Join(home, ".readimeter"),
		LogLevel:     DefaultLogLevel,
		ExportFormat: DefaultExportFormat,
		InputSlot:    DefaultInputSlot,
	}, nil
}

// validate checks structural constraints on the parsed configuration.
func validate(cfg *Config) error {
	switch cfg.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log_level %q unknown: want debug|info|warn|error", cfg.LogLevel)
	}
	switch cfg.ExportFormat {
	case "json", "csv":
	default:
		return fmt.Errorf("export_format %q unknown: want json|csv", cfg.ExportFormat)
	}
	if cfg.DataDir == "" {
		return fmt.Errorf("data_dir must not be empty")
	}
	if cfg.InputSlot == "" {
		return fmt.Errorf("input_slot must not be empty")
	}
	return nil
}
