package database

import (
	"context"
	"database/sql"
	"fmt"
	"path/filepath"
	"strings"

	"event-checkin/config"

	_ "modernc.org/sqlite"
)

// InitSQLite 開啟 SQLite 檔案並套用 migrations
func InitSQLite(ctx context.Context, config *config.SQLiteConfig) (*sql.DB, error) {
	if strings.TrimSpace(config.Path) == "" {
		return nil, fmt.Errorf("sqlite path is required")
	}

	dsn := filepath.Clean(config.Path) + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=synchronous(NORMAL)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	// SQLite 單一 writer，避免 database is locked
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}

	if err := ApplySQLiteMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return db, nil
}
