package db

import (
	"database/sql"
	"fmt"

	"albion-flipper/internal/logger"
	_ "modernc.org/sqlite"
)

// DB wraps a SQLite database connection.
type DB struct {
	sql *sql.DB
}

// Open opens (or creates) the SQLite database at path and runs migrations.
func Open(path string) (*DB, error) {
	sqlDB, err := sql.Open("sqlite", path+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("ping db: %w", err)
	}
	d := &DB{sql: sqlDB}
	if err := d.migrate(); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("migrate db: %w", err)
	}
	logger.Success("DB", fmt.Sprintf("Opened %s", path))
	return d, nil
}

// Close closes the database connection.
func (d *DB) Close() error {
	return d.sql.Close()
}

func (d *DB) migrate() error {
	version := 0
	d.sql.QueryRow("SELECT version FROM schema_version ORDER BY version DESC LIMIT 1").Scan(&version)

	if version < 1 {
		_, err := d.sql.Exec(`
			CREATE TABLE IF NOT EXISTS schema_version (version INTEGER PRIMARY KEY);

			CREATE TABLE IF NOT EXISTS config (
				key   TEXT PRIMARY KEY,
				value TEXT NOT NULL
			);

			CREATE TABLE IF NOT EXISTS favorites (
				item_id   TEXT PRIMARY KEY,
				item_name TEXT NOT NULL DEFAULT '',
				added_at  TEXT NOT NULL
			);

			CREATE TABLE IF NOT EXISTS fetch_history (
				id            INTEGER PRIMARY KEY AUTOINCREMENT,
				ticket        TEXT NOT NULL,
				timestamp     TEXT NOT NULL,
				from_location TEXT NOT NULL,
				to_location   TEXT NOT NULL,
				sort_type     TEXT NOT NULL,
				count         INTEGER NOT NULL,
				top_profit    REAL NOT NULL DEFAULT 0,
				premium       INTEGER NOT NULL DEFAULT 0,
				duration_ms   INTEGER NOT NULL DEFAULT 0
			);

			INSERT OR IGNORE INTO schema_version (version) VALUES (1);
		`)
		if err != nil {
			return fmt.Errorf("migration v1: %w", err)
		}
		logger.Info("DB", "Applied migration v1")
	}

	if version < 2 {
		_, err := d.sql.Exec(`
			CREATE TABLE IF NOT EXISTS fetch_results (
				id                  INTEGER PRIMARY KEY AUTOINCREMENT,
				fetch_id            INTEGER NOT NULL REFERENCES fetch_history(id) ON DELETE CASCADE,
				item_id             TEXT NOT NULL,
				item_name           TEXT NOT NULL,
				quality             INTEGER NOT NULL,
				buy_price           REAL NOT NULL,
				sell_price          REAL NOT NULL,
				profit              REAL NOT NULL,
				profit_percent      REAL NOT NULL,
				item_profit         REAL NOT NULL,
				item_profit_percent REAL NOT NULL,
				sold_per_day        REAL NOT NULL,
				from_location       TEXT NOT NULL,
				to_location         TEXT NOT NULL,
				buy_time            TEXT NOT NULL DEFAULT '',
				sell_time           TEXT NOT NULL DEFAULT ''
			);
			CREATE INDEX IF NOT EXISTS idx_fetch_results_fetch ON fetch_results(fetch_id);

			INSERT OR IGNORE INTO schema_version (version) VALUES (2);
		`)
		if err != nil {
			return fmt.Errorf("migration v2: %w", err)
		}
		logger.Info("DB", "Applied migration v2")
	}

	return nil
}
