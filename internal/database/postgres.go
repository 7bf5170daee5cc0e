package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq" // PostgreSQL driver
	"go.uber.org/zap"
)

// Config holds warehouse connection configuration.
type Config struct {
	Host     string
	Port     int
	Database string
	User     string
	Password string
	SSLMode  string
}

// Warehouse is the execution collaborator: an externally owned connection
// pool the analysis core borrows per invocation. database/sql serializes
// concurrent use; no caller may assume exclusive ownership.
type Warehouse struct {
	db      *sql.DB
	logger  *zap.Logger
	timeout time.Duration
}

// NewWarehouse opens a pooled connection to the warehouse. timeout is the
// execution ceiling applied to every query; zero means no ceiling beyond
// the caller's context.
func NewWarehouse(cfg Config, timeout time.Duration, logger *zap.Logger) (*Warehouse, error) {
	if cfg.SSLMode == "" {
		cfg.SSLMode = "disable"
	}

	dsn := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.Database, cfg.SSLMode)

	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("open warehouse: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	return &Warehouse{db: db, logger: logger, timeout: timeout}, nil
}

// Close closes the connection pool.
func (w *Warehouse) Close() error {
	return w.db.Close()
}

// Ping verifies the warehouse connection.
func (w *Warehouse) Ping(ctx context.Context) error {
	return w.db.PingContext(ctx)
}

// queryContext runs a query under the configured execution ceiling. A
// timeout or failure aborts the whole invocation; partial result sets are
// never returned.
func (w *Warehouse) queryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, context.CancelFunc, error) {
	cancel := context.CancelFunc(func() {})
	if w.timeout > 0 {
		ctx, cancel = context.WithTimeout(ctx, w.timeout)
	}

	rows, err := w.db.QueryContext(ctx, query, args...)
	if err != nil {
		cancel()
		return nil, nil, fmt.Errorf("warehouse execution: %w", err)
	}
	return rows, cancel, nil
}
