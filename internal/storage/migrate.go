package storage

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
)

func Migrate(ctx context.Context, db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS tasks (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			parent_id INTEGER NULL,
			title TEXT NOT NULL,
			notes TEXT,

			lane TEXT NOT NULL,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			due_at DATETIME,
			completed_at DATETIME,

			FOREIGN KEY(parent_id) REFERENCES tasks(id)
		);`,
		// Per-event audit trail; the engine never reads it back, the week
		// report does.
		`CREATE TABLE IF NOT EXISTS events (
			id TEXT PRIMARY KEY,
			task_id INTEGER NULL,
			kind TEXT NOT NULL,
			points INTEGER NOT NULL,
			event_date TEXT NOT NULL,
			occurred_at DATETIME NOT NULL,
			FOREIGN KEY(task_id) REFERENCES tasks(id)
		);`,
		// Engagement state is one opaque blob per key; the engine owns its shape.
		`CREATE TABLE IF NOT EXISTS snapshots (
			key TEXT PRIMARY KEY,
			data BLOB NOT NULL,
			updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);`,
		`CREATE INDEX IF NOT EXISTS idx_tasks_parent_id ON tasks(parent_id);`,
		`CREATE INDEX IF NOT EXISTS idx_tasks_lane ON tasks(lane);`,
		`CREATE INDEX IF NOT EXISTS idx_events_event_date ON events(event_date);`,
	}

	for _, stmt := range stmts {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}

	// Columns added after the first release; ignore if already present.
	alterStmts := []string{
		`ALTER TABLE tasks ADD COLUMN assignee TEXT;`,
	}
	for _, stmt := range alterStmts {
		_, err := db.ExecContext(ctx, stmt)
		if err != nil && !strings.Contains(err.Error(), "duplicate column") {
			return fmt.Errorf("migrate alter: %w", err)
		}
	}

	return nil
}
