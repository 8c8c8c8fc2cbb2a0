package db

import (
	"database/sql"
	"fmt"
	"strings"
)

var migrations = []string{
	`CREATE TABLE IF NOT EXISTS tree_snapshots (
		id           TEXT PRIMARY KEY,
		cycle_id     INTEGER NOT NULL,
		objective_id INTEGER NOT NULL,
		title        TEXT NOT NULL DEFAULT '',
		node_count   INTEGER NOT NULL DEFAULT 0,
		payload      TEXT NOT NULL,
		fetched_at   TEXT NOT NULL
	)`,
	`CREATE UNIQUE INDEX IF NOT EXISTS idx_tree_snapshots_key
		ON tree_snapshots (cycle_id, objective_id)`,
	`CREATE INDEX IF NOT EXISTS idx_tree_snapshots_fetched
		ON tree_snapshots (fetched_at)`,
	`ALTER TABLE tree_snapshots ADD COLUMN source TEXT NOT NULL DEFAULT 'api'`,
}

// Migrate runs every statement in order. It is safe to call repeatedly.
func Migrate(db *sql.DB) error {
	for i, stmt := range migrations {
		if _, err := db.Exec(stmt); err != nil {
			// ALTER TABLE statements are re-run on every open.
			if strings.Contains(err.Error(), "duplicate column name") {
				continue
			}
			return fmt.Errorf("migration %d: %w", i, err)
		}
	}
	return nil
}
