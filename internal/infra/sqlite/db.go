// Package sqlite implements the engine's three keyed stores — profiles,
// progress ledgers, and ranking snapshots — plus the workout catalog, on a
// single local SQLite database.
//
// Documents that are maps or sets in the domain (the daily XP map, the
// follower/following lists) are stored as JSON in TEXT columns; everything
// queried or sorted on gets its own column.
package sqlite

import (
	"database/sql"
	"fmt"
	"path/filepath"

	_ "modernc.org/sqlite"
)

// DB wraps the SQLite handle shared by all stores.
type DB struct {
	db *sql.DB
}

// Open creates or opens the database inside dir and applies migrations.
func Open(dir string) (*DB, error) {
	return OpenPath(filepath.Join(dir, "stride.db"))
}

// OpenPath opens the database at an explicit path.
func OpenPath(path string) (*DB, error) {
	sqlDB, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite at %s: %w", path, err)
	}

	// Single writer at a time keeps modernc's driver happy under Go's pool.
	sqlDB.SetMaxOpenConns(1)

	db := &DB{db: sqlDB}
	if err := db.migrate(); err != nil {
		sqlDB.Close()
		return nil, err
	}
	return db, nil
}

// Close releases the underlying handle.
func (db *DB) Close() error {
	return db.db.Close()
}

// migrate applies pragmas and the schema. Each string is a single statement
// (SQLite executes one at a time).
func (db *DB) migrate() error {
	stmts := []string{
		`PRAGMA journal_mode = WAL`,
		`PRAGMA busy_timeout = 5000`,

		// Per-user profile documents.
		`CREATE TABLE IF NOT EXISTS profiles (
			user_id    TEXT PRIMARY KEY,
			username   TEXT NOT NULL,
			theme      TEXT NOT NULL DEFAULT '',
			weight_kg  REAL NOT NULL DEFAULT 0,
			total_xp   INTEGER NOT NULL DEFAULT 0,
			daily_xp   TEXT NOT NULL DEFAULT '{}',
			followers  TEXT NOT NULL DEFAULT '[]',
			following  TEXT NOT NULL DEFAULT '[]',
			country    TEXT NOT NULL DEFAULT 'Unknown',
			continent  TEXT NOT NULL DEFAULT 'Unknown',
			lat        REAL,
			long       REAL,
			created_at TEXT NOT NULL DEFAULT (datetime('now')),
			updated_at TEXT NOT NULL DEFAULT (datetime('now'))
		)`,

		// Progress ledger: one row per (user, workout, date).
		`CREATE TABLE IF NOT EXISTS progress_records (
			user_id       TEXT NOT NULL,
			workout_name  TEXT NOT NULL,
			date          TEXT NOT NULL,
			value         REAL NOT NULL DEFAULT 0,
			completed     INTEGER NOT NULL DEFAULT 0,
			unit          TEXT NOT NULL DEFAULT '',
			intensity     TEXT NOT NULL DEFAULT '',
			calories      INTEGER NOT NULL DEFAULT 0,
			is_additional INTEGER NOT NULL DEFAULT 0,
			updated_at    TEXT NOT NULL DEFAULT (datetime('now')),
			PRIMARY KEY (user_id, workout_name, date)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_progress_user_date ON progress_records(user_id, date)`,

		// Denormalized ranking snapshots, refreshed on every recompute.
		`CREATE TABLE IF NOT EXISTS ranking_snapshots (
			user_id    TEXT PRIMARY KEY,
			username   TEXT NOT NULL,
			theme      TEXT NOT NULL DEFAULT '',
			total_xp   INTEGER NOT NULL DEFAULT 0,
			daily_xp   INTEGER NOT NULL DEFAULT 0,
			weekly_xp  INTEGER NOT NULL DEFAULT 0,
			monthly_xp INTEGER NOT NULL DEFAULT 0,
			country    TEXT NOT NULL DEFAULT 'Unknown',
			continent  TEXT NOT NULL DEFAULT 'Unknown',
			lat        REAL,
			long       REAL,
			updated_at TEXT NOT NULL DEFAULT (datetime('now'))
		)`,
		`CREATE INDEX IF NOT EXISTS idx_snapshots_total ON ranking_snapshots(total_xp DESC)`,
		`CREATE INDEX IF NOT EXISTS idx_snapshots_country ON ranking_snapshots(country)`,
		`CREATE INDEX IF NOT EXISTS idx_snapshots_continent ON ranking_snapshots(continent)`,

		// Immutable workout catalog reference data.
		`CREATE TABLE IF NOT EXISTS workout_catalog (
			name         TEXT PRIMARY KEY,
			category     TEXT NOT NULL DEFAULT '',
			icon         TEXT NOT NULL DEFAULT '',
			metric_label TEXT NOT NULL DEFAULT '',
			unit         TEXT NOT NULL DEFAULT '',
			target       REAL NOT NULL DEFAULT 0
		)`,
	}

	for _, stmt := range stmts {
		if _, err := db.db.Exec(stmt); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}
	return nil
}
