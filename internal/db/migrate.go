package db

import (
	"database/sql"
	"fmt"
	"strings"
)

// Migrate runs all schema migrations. Every statement is idempotent, so
// the full list is replayed on each open.
func Migrate(db *sql.DB) error {
	for i, stmt := range migrations {
		if _, err := db.Exec(stmt); err != nil {
			// ALTER TABLE ADD COLUMN has no IF NOT EXISTS form.
			if strings.Contains(err.Error(), "duplicate column name") {
				continue
			}
			return fmt.Errorf("migration %d: %w", i, err)
		}
	}
	return nil
}

var migrations = []string{
	// Tracker connection settings, a single row.
	`CREATE TABLE IF NOT EXISTS settings (
		id             INTEGER PRIMARY KEY CHECK(id = 1),
		org_url        TEXT NOT NULL DEFAULT '',
		project        TEXT NOT NULL DEFAULT '',
		assigned_to    TEXT NOT NULL DEFAULT '',
		area_path      TEXT NOT NULL DEFAULT '',
		iteration_path TEXT NOT NULL DEFAULT '',
		updated_at     TEXT NOT NULL DEFAULT ''
	)`,

	`INSERT OR IGNORE INTO settings (id) VALUES (1)`,

	`ALTER TABLE settings ADD COLUMN auth_helper_path TEXT NOT NULL DEFAULT ''`,

	// Creation journal: one row per run, one row per remote item it created.
	`CREATE TABLE IF NOT EXISTS create_runs (
		id         TEXT PRIMARY KEY,
		kind       TEXT NOT NULL CHECK(kind IN ('hierarchy','single')),
		title      TEXT NOT NULL,
		status     TEXT NOT NULL CHECK(status IN ('complete','partial','failed')),
		error      TEXT NOT NULL DEFAULT '',
		created_at TEXT NOT NULL
	)`,

	`ALTER TABLE create_runs ADD COLUMN epic_id INTEGER`,

	`CREATE INDEX IF NOT EXISTS idx_create_runs_created ON create_runs(created_at)`,

	`CREATE TABLE IF NOT EXISTS created_items (
		run_id           TEXT NOT NULL REFERENCES create_runs(id) ON DELETE CASCADE,
		seq              INTEGER NOT NULL,
		remote_id        INTEGER NOT NULL,
		type             TEXT NOT NULL,
		title            TEXT NOT NULL,
		parent_remote_id INTEGER NOT NULL DEFAULT 0,
		web_url          TEXT NOT NULL DEFAULT '',
		PRIMARY KEY (run_id, seq)
	)`,

	`CREATE INDEX IF NOT EXISTS idx_created_items_remote ON created_items(remote_id)`,
}
