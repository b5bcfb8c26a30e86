package storage

import (
	"context"
	"database/sql"
	"fmt"
)

// Migrate applies the relational schema: one relation per entity, dates
// stored as YYYY-MM-DD text, records keyed uniquely per (date, task_id).
func Migrate(ctx context.Context, db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS tasks (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			color TEXT,
			is_archived INTEGER DEFAULT 0,
			metric_unit TEXT,
			metric_phases TEXT,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);`,
		`CREATE TABLE IF NOT EXISTS records (
			id TEXT PRIMARY KEY,
			task_id TEXT NOT NULL,
			date TEXT NOT NULL,
			intensity INTEGER,
			value REAL,
			logged_at DATETIME,
			FOREIGN KEY(task_id) REFERENCES tasks(id)
		);`,
		`CREATE TABLE IF NOT EXISTS pacts (
			id TEXT PRIMARY KEY,
			title TEXT NOT NULL,
			partner TEXT,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);`,
		`CREATE TABLE IF NOT EXISTS notes (
			id TEXT PRIMARY KEY,
			date TEXT NOT NULL,
			body TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS settings (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS unlocks (
			artifact_id TEXT PRIMARY KEY,
			unlocked_at DATETIME NOT NULL
		);`,
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_records_date_task ON records(date, task_id);`,
		`CREATE INDEX IF NOT EXISTS idx_records_task_id ON records(task_id);`,
		`CREATE INDEX IF NOT EXISTS idx_notes_date ON notes(date);`,
	}

	for _, stmt := range stmts {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}
	return nil
}
