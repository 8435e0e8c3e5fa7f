package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
)

var (
	ErrNotFound = errors.New("not found")
)

// Open abre una conexión pool a Postgres usando pgx (database/sql).
func Open(dsn string) (*sql.DB, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, err
	}

	// defaults razonables para un hogar (ajustable luego)
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxIdleTime(5 * time.Minute)
	db.SetConnMaxLifetime(30 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}

	return db, nil
}

// EnsureSchema crea las tablas si no existen. care_day y alert_expiry
// se guardan como TEXT YYYY-MM-DD: comparan bien lexicográficamente y
// escanean directo al tipo Day sin pelear con zonas horarias.
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS pets (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			species TEXT NOT NULL,
			notes TEXT NOT NULL DEFAULT '',
			created_at TIMESTAMPTZ NOT NULL,
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
			created_at TIMESTAMPTZ NOT NULL,
			active BOOLEAN NOT NULL DEFAULT TRUE
		)`,
		`CREATE TABLE IF NOT EXISTS task_logs (
			seq BIGSERIAL PRIMARY KEY,
			id TEXT NOT NULL UNIQUE,
			task_id TEXT NOT NULL REFERENCES care_items(id),
			care_day TEXT NOT NULL,
			action TEXT NOT NULL,
			completed_by TEXT NOT NULL DEFAULT '',
			notes TEXT NOT NULL DEFAULT '',
			ts TIMESTAMPTZ NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_task_logs_task_day ON task_logs (task_id, care_day)`,
		`CREATE INDEX IF NOT EXISTS idx_task_logs_day ON task_logs (care_day)`,
		`CREATE TABLE IF NOT EXISTS pet_timers (
			pet_id TEXT PRIMARY KEY REFERENCES pets(id),
			ends_at TIMESTAMPTZ NOT NULL,
			label TEXT NOT NULL,
			alert_sent BOOLEAN NOT NULL DEFAULT FALSE
		)`,
		`CREATE TABLE IF NOT EXISTS users (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL UNIQUE,
			created_at TIMESTAMPTZ NOT NULL,
			last_seen TIMESTAMPTZ NOT NULL,
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
