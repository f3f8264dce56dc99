package db

import "database/sql"

// SchemaSQL is the complete schema for fresh warden installs.
const SchemaSQL = `
-- Transitions (append-only audit of phase status changes)
CREATE TABLE IF NOT EXISTS transitions (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	issue_number INTEGER NOT NULL,
	phase TEXT NOT NULL,
	from_status TEXT NOT NULL,
	to_status TEXT NOT NULL,
	agent_type TEXT,
	reason TEXT,
	recorded_at DATETIME NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_transitions_issue ON transitions(issue_number);
`

// InitSchema applies the schema to the database.
func InitSchema(database *sql.DB) error {
	_, err := database.Exec(SchemaSQL)
	return err
}
