// Package database implements the storage contract on SQLite.
package database

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"database/sql"

	_ "github.com/mattn/go-sqlite3" // sqlite3 driver
	"github.com/rs/zerolog"
)

// DB wraps the SQLite connection and the resolved booking table name.
type DB struct {
	*sql.DB
	table  string
	logger *zerolog.Logger
}

// TableName resolves the booking collection for an environment. The
// development namespace is kept separate from production data.
func TableName(env string) string {
	switch env {
	case "development":
		return "bookings_dev"
	default:
		return "bookings"
	}
}

// NewDB opens the database at path, creating it and its tables when
// absent. env selects the booking table namespace.
func NewDB(path, env string, logger *zerolog.Logger) (*DB, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	// WAL mode and a busy timeout keep concurrent readers happy.
	dsn := path + "?_journal_mode=WAL&_synchronous=NORMAL&_busy_timeout=5000"
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(time.Hour)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	instance := &DB{
		DB:     db,
		table:  TableName(env),
		logger: logger,
	}

	if err := instance.createTables(); err != nil {
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	logger.Info().Str("path", path).Str("table", instance.table).Msg("Database initialized")
	return instance, nil
}

func (db *DB) createTables() error {
	queries := []string{
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
			id TEXT PRIMARY KEY,
			device TEXT NOT NULL,
			name TEXT NOT NULL,
			partner TEXT NOT NULL,
			place TEXT NOT NULL,
			date INTEGER NOT NULL,
			end_time INTEGER NOT NULL DEFAULT 0,
			returned BOOLEAN NOT NULL DEFAULT 0,
			owner TEXT NOT NULL DEFAULT '',
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`, db.table),
		fmt.Sprintf(`CREATE INDEX IF NOT EXISTS idx_%[1]s_date ON %[1]s(date)`, db.table),
		fmt.Sprintf(`CREATE INDEX IF NOT EXISTS idx_%[1]s_device_date ON %[1]s(device, date)`, db.table),

		`CREATE TABLE IF NOT EXISTS users (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			username TEXT UNIQUE NOT NULL,
			pin_code TEXT NOT NULL,
			full_name TEXT NOT NULL DEFAULT '',
			first_name TEXT NOT NULL DEFAULT '',
			last_name TEXT NOT NULL DEFAULT '',
			display_name TEXT NOT NULL DEFAULT '',
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE INDEX IF NOT EXISTS idx_users_username ON users(username)`,

		`CREATE TABLE IF NOT EXISTS audit_log (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			event_type TEXT NOT NULL,
			payload TEXT NOT NULL DEFAULT '',
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,
	}

	for _, query := range queries {
		if _, err := db.Exec(query); err != nil {
			return fmt.Errorf("error executing query %s: %w", query, err)
		}
	}
	return nil
}

func (db *DB) Close() error {
	return db.DB.Close()
}
