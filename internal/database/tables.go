package database

import (
	"database/sql"
	"fmt"
)

// initJobsTable creates the jobs history table.
func initJobsTable(tx *sql.Tx) error {
	const query = `
	CREATE TABLE IF NOT EXISTS jobs (
		id TEXT PRIMARY KEY,
		url TEXT NOT NULL,
		format TEXT NOT NULL,
		quality TEXT NOT NULL,
		title TEXT DEFAULT '',
		status TEXT NOT NULL,
		percent REAL DEFAULT 0,
		error TEXT DEFAULT '',
		created_at TIMESTAMP NOT NULL,
		updated_at TIMESTAMP NOT NULL
	)`

	if _, err := tx.Exec(query); err != nil {
		return fmt.Errorf("failed to create jobs table: %w", err)
	}
	return nil
}
