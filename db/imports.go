// ABOUTME: Database operations for the import_log table
// ABOUTME: Records every vCard or JSON import with its counts
package db

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/harperreed/donorbase/models"
)

// Import sources.
const (
	SourceVCF     = "vcf"
	SourceMigrate = "migrate"
)

// ImportLog is one recorded import run.
type ImportLog struct {
	ID         string
	Source     string
	FileName   string
	Decoded    int
	Imported   int
	Duplicates int
	ImportedAt time.Time
	Metadata   string
}

// CreateImportLog records an import run. An empty ID is filled in.
func CreateImportLog(db *sql.DB, entry *ImportLog) error {
	if entry.ImportedAt.IsZero() {
		entry.ImportedAt = time.Now().UTC()
	}
	if entry.ID == "" {
		entry.ID = models.NewID(entry.ImportedAt)
	}

	_, err := db.Exec(`
		INSERT INTO import_log (id, source, file_name, decoded, imported, duplicates, imported_at, metadata)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, entry.ID, entry.Source, nullString(entry.FileName), entry.Decoded, entry.Imported, entry.Duplicates,
		entry.ImportedAt, nullString(entry.Metadata))
	if err != nil {
		return fmt.Errorf("failed to create import log: %w", err)
	}
	return nil
}

// ListImportLogs returns the most recent imports first.
func ListImportLogs(db *sql.DB, limit int) ([]ImportLog, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := db.Query(`
		SELECT id, source, file_name, decoded, imported, duplicates, imported_at, metadata
		FROM import_log
		ORDER BY imported_at DESC, id DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query import logs: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var logs []ImportLog
	for rows.Next() {
		var entry ImportLog
		var fileName, metadata sql.NullString

		if err := rows.Scan(&entry.ID, &entry.Source, &fileName, &entry.Decoded, &entry.Imported,
			&entry.Duplicates, &entry.ImportedAt, &metadata); err != nil {
			return nil, fmt.Errorf("failed to scan import log: %w", err)
		}
		entry.FileName = fileName.String
		entry.Metadata = metadata.String
		logs = append(logs, entry)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating import logs: %w", err)
	}
	return logs, nil
}
