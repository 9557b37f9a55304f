// internal/common/database/postgres.go
package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq"

	"survey-workers/internal/common/config"
	"survey-workers/internal/common/logger"
)

const (
	connectRetries = 15
	connectDelay   = 2 * time.Second
)

// PostgresClient holds the pool the postgres record store inserts through.
type PostgresClient struct {
	DB *sql.DB
}

// NewPostgres configures a lib/pq pool without dialing.
func NewPostgres(cfg config.PostgresConfig) (*PostgresClient, error) {
	db, err := sql.Open("postgres", cfg.GetDSN())
	if err != nil {
		return nil, fmt.Errorf("failed to open postgres: %w", err)
	}

	db.SetMaxOpenConns(cfg.MaxConnections)
	db.SetMaxIdleConns(cfg.MaxIdle)
	db.SetConnMaxLifetime(5 * time.Minute)
	db.SetConnMaxIdleTime(5 * time.Minute)

	return &PostgresClient{DB: db}, nil
}

// ConnectPostgres opens the pool and waits, with backoff, for the server to answer.
func ConnectPostgres(ctx context.Context, cfg config.PostgresConfig, log logger.Logger) (*PostgresClient, error) {
	pg, err := NewPostgres(cfg)
	if err != nil {
		return nil, err
	}
	if err := RetryWithBackoff(ctx, pg.Ping, connectRetries, connectDelay, log, "PostgreSQL connection"); err != nil {
		_ = pg.Close()
		return nil, err
	}

	log.Info("PostgreSQL connected", map[string]interface{}{
		"host":           cfg.Host,
		"database":       cfg.Database,
		"maxConnections": cfg.MaxConnections,
	})
	return pg, nil
}

func (c *PostgresClient) Ping(ctx context.Context) error {
	if err := c.DB.PingContext(ctx); err != nil {
		return fmt.Errorf("postgres ping failed: %w", err)
	}
	return nil
}

func (c *PostgresClient) Close() error {
	if c.DB != nil {
		return c.DB.Close()
	}
	return nil
}
