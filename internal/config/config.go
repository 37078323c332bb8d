// Package config provides configuration management for the sales ETL tool.
package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Configuration validation errors.
var (
	ErrMissingDatabasePath = errors.New("database.path is required")
	ErrMissingDefaultCSV   = errors.New("source.default_csv is required")
	ErrInvalidLogLevel     = errors.New("logging.level must be one of: debug, info, warn, error")
	ErrInvalidSeedRows     = errors.New("seed.transactions_per_day must be non-negative")
)

// Config represents the complete tool configuration.
type Config struct {
	Database DatabaseConfig `yaml:"database"`
	Source   SourceConfig   `yaml:"source"`
	Logging  LoggingConfig  `yaml:"logging"`
	Seed     SeedConfig     `yaml:"seed"`
}

// DatabaseConfig locates the SQLite warehouse.
type DatabaseConfig struct {
	Path string `yaml:"path"`
}

// SourceConfig defines input file defaults.
type SourceConfig struct {
	// DefaultCSV is the file loaded when `run` is invoked without an argument.
	DefaultCSV string `yaml:"default_csv"`
}

// LoggingConfig defines logging behavior.
type LoggingConfig struct {
	Level string `yaml:"level"`
}

// SeedConfig defines defaults for the synthetic data generator.
type SeedConfig struct {
	Output             string `yaml:"output"`
	Year               int    `yaml:"year"`
	TransactionsPerDay int    `yaml:"transactions_per_day"`
	RandomSeed         int64  `yaml:"random_seed"`
}

// Default returns the configuration used when no config file is given.
func Default() *Config {
	return &Config{
		Database: DatabaseConfig{Path: "sales.db"},
		Source:   SourceConfig{DefaultCSV: "data/sample_sales.csv"},
		Logging:  LoggingConfig{Level: "info"},
		Seed: SeedConfig{
			Output:             "data/sample_sales.csv",
			Year:               2025,
			TransactionsPerDay: 3,
			RandomSeed:         42,
		},
	}
}

// Load reads and validates a YAML configuration file.
// Fields absent from the file keep their defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}

	return cfg, nil
}

// Validate checks the configuration for consistency.
func (c *Config) Validate() error {
	if c.Database.Path == "" {
		return ErrMissingDatabasePath
	}
	if c.Source.DefaultCSV == "" {
		return ErrMissingDefaultCSV
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return ErrInvalidLogLevel
	}
	if c.Seed.TransactionsPerDay < 0 {
		return ErrInvalidSeedRows
	}
	return nil
}
