package config

import (
	"os"
	"strconv"
	"time"
)

// LoadFromEnv overrides configuration from LAKEGUARD_* environment
// variables.
func LoadFromEnv(cfg *Config) {
	if port := os.Getenv("LAKEGUARD_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			cfg.Server.Port = p
		}
	}
	if level := os.Getenv("LAKEGUARD_LOG_LEVEL"); level != "" {
		cfg.Server.LogLevel = level
	}

	if host := os.Getenv("LAKEGUARD_WAREHOUSE_HOST"); host != "" {
		cfg.Warehouse.Host = host
	}
	if port := os.Getenv("LAKEGUARD_WAREHOUSE_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			cfg.Warehouse.Port = p
		}
	}
	if db := os.Getenv("LAKEGUARD_WAREHOUSE_DB"); db != "" {
		cfg.Warehouse.Database = db
	}
	if user := os.Getenv("LAKEGUARD_WAREHOUSE_USER"); user != "" {
		cfg.Warehouse.User = user
	}
	if pass := os.Getenv("LAKEGUARD_WAREHOUSE_PASSWORD"); pass != "" {
		cfg.Warehouse.Password = pass
	}

	if limit := os.Getenv("LAKEGUARD_QUERY_ROW_LIMIT"); limit != "" {
		if n, err := strconv.Atoi(limit); err == nil {
			cfg.Query.RowLimit = n
		}
	}
	if timeout := os.Getenv("LAKEGUARD_QUERY_TIMEOUT_SECONDS"); timeout != "" {
		if n, err := strconv.Atoi(timeout); err == nil {
			cfg.Query.Timeout = time.Duration(n) * time.Second
		}
	}

	if days := os.Getenv("LAKEGUARD_ANALYSIS_WINDOW_DAYS"); days != "" {
		if n, err := strconv.Atoi(days); err == nil {
			cfg.Analysis.WindowDays = n
		}
	}
	if level := os.Getenv("LAKEGUARD_ANALYSIS_SENSITIVITY"); level != "" {
		cfg.Analysis.Sensitivity = level
	}
}

// GetEnvOrDefault returns environment variable or default value
func GetEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
