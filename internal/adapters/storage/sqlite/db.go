package sqlite

import (
	"context"
	"database/sql"
	"errors"

	_ "modernc.org/sqlite"
)

var (
	ErrNotFound = errors.New("not found")
)

// Open abre (o crea) el archivo sqlite. Un solo writer: sqlite
// serializa escrituras de todos modos, así que limitamos el pool a una
// conexión y evitamos SQLITE_BUSY en el caso común de un hogar.
func Open(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	db.SetMaxOpenConns(1)

	if _, err := db.Exec(`PRAGMA journal_mode = WAL`); err != nil {
		_ = db.Close()
		return nil, err
	}
	if _, err := db.Exec(`PRAGMA foreign_keys = ON`); err != nil {
		_ = db.Close()
		return nil, err
	}

	return db, nil
}

// EnsureSchema crea las tablas si no existen. Mismo esquema que el
// backend Postgres salvo el seq, que acá es el rowid autoincremental.
// care_day y alert_expiry son TEXT YYYY-MM-DD en ambos backends.
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS pets (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			species TEXT NOT NULL,
			notes TEXT NOT NULL DEFAULT '',
			created_at TIMESTAMP NOT NULL,
			active BOOLEAN NOT NULL DEFAULT TRUE
		)`,
		`CREATE TABLE IF NOT EXISTS care_items (
			id TEXT PRIMARY KEY,
			pet_id TEXT NOT NULL REFERENCES pets(id),
			name TEXT NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			notes TEXT NOT NULL DEFAULT '',
			category TEXT NOT NULL,
			display_order INTEGER NOT NULL DEFAULT 0,
			created_at TIMESTAMP NOT NULL,
			active BOOLEAN NOT NULL DEFAULT TRUE
		)`,
		`CREATE TABLE IF NOT EXISTS task_logs (
			seq INTEGER PRIMARY KEY AUTOINCREMENT,
			id TEXT NOT NULL UNIQUE,
			task_id TEXT NOT NULL REFERENCES care_items(id),
			care_day TEXT NOT NULL,
			action TEXT NOT NULL,
			completed_by TEXT NOT NULL DEFAULT '',
			notes TEXT NOT NULL DEFAULT '',
			ts TIMESTAMP NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_task_logs_task_day ON task_logs (task_id, care_day)`,
		`CREATE INDEX IF NOT EXISTS idx_task_logs_day ON task_logs (care_day)`,
		`CREATE TABLE IF NOT EXISTS pet_timers (
			pet_id TEXT PRIMARY KEY REFERENCES pets(id),
			ends_at TIMESTAMP NOT NULL,
			label TEXT NOT NULL,
			alert_sent BOOLEAN NOT NULL DEFAULT FALSE
		)`,
		`CREATE TABLE IF NOT EXISTS users (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL UNIQUE,
			created_at TIMESTAMP NOT NULL,
			last_seen TIMESTAMP NOT NULL,
			phone_number TEXT NOT NULL DEFAULT '',
			wants_alerts BOOLEAN NOT NULL DEFAULT FALSE,
			alert_expiry TEXT
		)`,
	}

	for _, stmt := range stmts {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}
