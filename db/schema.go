// ABOUTME: Database schema definitions
// ABOUTME: Contacts are stored as JSON documents with a few columns lifted out for queries
package db

import (
	"database/sql"
)

const schema = `
CREATE TABLE IF NOT EXISTS contacts (
	id TEXT PRIMARY KEY,
	position INTEGER NOT NULL,
	name TEXT NOT NULL DEFAULT '',
	email TEXT,
	giving_level TEXT,
	total_amount REAL NOT NULL DEFAULT 0,
	doc TEXT NOT NULL,
	updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_contacts_position ON contacts(position);
CREATE INDEX IF NOT EXISTS idx_contacts_email ON contacts(email);
CREATE INDEX IF NOT EXISTS idx_contacts_giving_level ON contacts(giving_level);

CREATE TABLE IF NOT EXISTS import_log (
	id TEXT PRIMARY KEY,
	source TEXT NOT NULL,
	file_name TEXT,
	decoded INTEGER NOT NULL DEFAULT 0,
	imported INTEGER NOT NULL DEFAULT 0,
	duplicates INTEGER NOT NULL DEFAULT 0,
	imported_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
	metadata TEXT
);

CREATE INDEX IF NOT EXISTS idx_import_log_imported_at ON import_log(imported_at DESC);
`

func InitSchema(db *sql.DB) error {
	_, err := db.Exec(schema)
	return err
}
