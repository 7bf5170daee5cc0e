package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Warehouse WarehouseConfig `yaml:"warehouse"`
	Query     QueryConfig     `yaml:"query"`
	Analysis  AnalysisConfig  `yaml:"analysis"`
}

type ServerConfig struct {
	Port     int    `yaml:"port"`
	LogLevel string `yaml:"log_level"`
}

type WarehouseConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Database string `yaml:"database"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	SSLMode  string `yaml:"ssl_mode"`
}

type QueryConfig struct {
	RowLimit int           `yaml:"row_limit"`
	Timeout  time.Duration `yaml:"timeout"`
}

type AnalysisConfig struct {
	WindowDays  int    `yaml:"window_days"`
	Sensitivity string `yaml:"sensitivity"`
}

// Default returns the documented defaults: 1000-row bound, 300s query
// ceiling, 7-day window at medium sensitivity.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port:     8080,
			LogLevel: "info",
		},
		Warehouse: WarehouseConfig{
			Host:    "localhost",
			Port:    5432,
			SSLMode: "disable",
		},
		Query: QueryConfig{
			RowLimit: 1000,
			Timeout:  300 * time.Second,
		},
		Analysis: AnalysisConfig{
			WindowDays:  7,
			Sensitivity: "medium",
		},
	}
}

// Load reads a YAML config file over the defaults, then applies
// environment overrides.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path) // #nosec G304 - operator-supplied path
		if err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	LoadFromEnv(cfg)
	return cfg, nil
}
