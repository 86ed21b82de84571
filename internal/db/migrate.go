package db

import (
	"database/sql"
	"fmt"
	"strings"
)

// Migrate runs all schema migrations.
func Migrate(db *sql.DB) error {
	for i, stmt := range migrations {
		if _, err := db.Exec(stmt); err != nil {
			// Tolerate "duplicate column name" errors from ALTER TABLE
			// since the migration system re-runs all statements.
			if strings.Contains(err.Error(), "duplicate column name") {
				continue
			}
			return fmt.Errorf("migration %d: %w", i, err)
		}
	}
	return nil
}

var migrations = []string{
	`CREATE TABLE IF NOT EXISTS work_day_records (
		employee_id  TEXT NOT NULL,
		date         TEXT NOT NULL,
		clock_in_at  TEXT,
		clock_out_at TEXT,
		version      INTEGER NOT NULL DEFAULT 1,
		created_at   TEXT NOT NULL,
		updated_at   TEXT NOT NULL,
		PRIMARY KEY (employee_id, date)
	)`,

	`CREATE TABLE IF NOT EXISTS break_intervals (
		employee_id TEXT NOT NULL,
		date        TEXT NOT NULL,
		position    INTEGER NOT NULL,
		start_at    TEXT NOT NULL,
		end_at      TEXT,
		PRIMARY KEY (employee_id, date, position),
		FOREIGN KEY (employee_id, date)
			REFERENCES work_day_records(employee_id, date)
			ON DELETE CASCADE
	)`,

	`CREATE INDEX IF NOT EXISTS idx_work_day_records_employee_date
		ON work_day_records(employee_id, date DESC)`,

	`CREATE TABLE IF NOT EXISTS notifications (
		id          TEXT PRIMARY KEY,
		employee_id TEXT NOT NULL,
		title       TEXT NOT NULL,
		message     TEXT NOT NULL,
		is_read     INTEGER NOT NULL DEFAULT 0,
		created_at  TEXT NOT NULL
	)`,

	`CREATE INDEX IF NOT EXISTS idx_notifications_employee
		ON notifications(employee_id, created_at DESC)`,
}
