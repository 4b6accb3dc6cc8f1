// Package db opens the PostgreSQL connection that backs the price cache.
package db

import (
	"fmt"
	"log/slog"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const connectTimeout = 60 * time.Second

// retryInterval は接続リトライの間隔です。
var retryInterval = 3 * time.Second

// Opener opens a gorm connection for a DSN.
type Opener func(dsn string) (*gorm.DB, error)

// OpenPostgres is the production Opener.
func OpenPostgres(dsn string) (*gorm.DB, error) {
	return gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
}

// OpenDB connects to PostgreSQL, retrying for up to a minute, and applies
// migrations when cfg.RunMigrations is set.
func OpenDB(cfg Config) (*gorm.DB, error) {
	dsn := BuildDSN(cfg)

	db, err := ConnectWithRetry(dsn, connectTimeout, OpenPostgres)
	if err != nil {
		return nil, err
	}

	if cfg.RunMigrations {
		if err := Migrate(dsn); err != nil {
			return nil, fmt.Errorf("failed to migrate: %w", err)
		}
	}
	return db, nil
}

// ConnectWithRetry calls opener until it succeeds or timeout elapses.
func ConnectWithRetry(dsn string, timeout time.Duration, opener Opener) (*gorm.DB, error) {
	deadline := time.Now().Add(timeout)
	for {
		db, err := opener(dsn)
		if err == nil {
			return db, nil
		}
		if time.Now().After(deadline) {
			return nil, fmt.Errorf("DB connect failed after %s: %w", timeout, err)
		}
		slog.Warn("DB connect failed, retrying...", "error", err)
		time.Sleep(retryInterval)
	}
}
