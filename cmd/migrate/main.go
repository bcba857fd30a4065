// ABOUTME: Migration utility that loads a JSON contact dump into the donorbase database.
// ABOUTME: Provides dry-run and backup capabilities for safe imports.

package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"github.com/harperreed/donorbase/db"
	"github.com/harperreed/donorbase/models"
	"github.com/harperreed/donorbase/scoring"
)

type options struct {
	input  string
	dbPath string
	dryRun bool
	backup bool
	now    time.Time
}

type report struct {
	Read       int
	Imported   int
	Duplicates int
	NewIDs     int
	Total      int
	BackupPath string
}

func main() {
	input := flag.String("input", "", "Path to JSON contact dump (required)")
	dbPath := flag.String("db", "", "Path to database file (required)")
	dryRun := flag.Bool("dry-run", false, "Show what would happen without making changes")
	backup := flag.Bool("backup", true, "Create backup before migration")
	flag.Parse()

	if *input == "" || *dbPath == "" {
		log.Fatal("Error: -input and -db flags are required")
	}

	r, err := migrate(context.Background(), options{
		input:  *input,
		dbPath: *dbPath,
		dryRun: *dryRun,
		backup: *backup,
		now:    time.Now(),
	})
	if err != nil {
		log.Fatalf("Migration failed: %v", err)
	}

	prefix := ""
	if *dryRun {
		prefix = "[DRY RUN] "
	}
	log.Printf("%sRead %d record(s): %d imported, %d duplicate id(s) dropped, %d id(s) assigned, %d contact(s) stored",
		prefix, r.Read, r.Imported, r.Duplicates, r.NewIDs, r.Total)
	log.Println("Migration completed successfully")
}

func migrate(ctx context.Context, opts options) (report, error) {
	var r report

	data, err := os.ReadFile(opts.input)
	if err != nil {
		return r, fmt.Errorf("failed to read input: %w", err)
	}

	var incoming []models.Contact
	if err := json.Unmarshal(data, &incoming); err != nil {
		return r, fmt.Errorf("failed to parse input: %w", err)
	}
	r.Read = len(incoming)

	if opts.backup && !opts.dryRun {
		if _, err := os.Stat(opts.dbPath); err == nil {
			r.BackupPath, err = db.Backup(opts.dbPath, opts.now)
			if err != nil {
				return r, err
			}
			log.Printf("Backup created: %s", r.BackupPath)
		}
	}

	database, err := openTarget(opts)
	if err != nil {
		return r, err
	}
	defer func() { _ = database.Close() }()

	store := db.NewContactStore(database, zap.NewNop())
	existing, err := store.Load(ctx)
	if err != nil {
		return r, err
	}

	merged := mergeContacts(existing, incoming, opts.now, &r)

	// Dry runs write to the scratch copy, so the count is still real.
	if err := store.Replace(ctx, merged); err != nil {
		return r, err
	}
	if r.Total, err = store.Count(ctx); err != nil {
		return r, err
	}

	if opts.dryRun {
		return r, nil
	}

	meta, _ := json.Marshal(map[string]int{"new_ids": r.NewIDs})
	entry := &db.ImportLog{
		Source:     db.SourceMigrate,
		FileName:   filepath.Base(opts.input),
		Decoded:    r.Read,
		Imported:   r.Imported,
		Duplicates: r.Duplicates,
		ImportedAt: opts.now.UTC(),
		Metadata:   string(meta),
	}
	if err := db.CreateImportLog(database, entry); err != nil {
		return r, err
	}
	return r, nil
}

// openTarget opens the database, using a scratch in-memory copy for dry runs so nothing is
// written to disk.
func openTarget(opts options) (*sql.DB, error) {
	if !opts.dryRun {
		return db.OpenDatabase(opts.dbPath)
	}
	scratch, err := db.OpenDatabase(":memory:")
	if err != nil {
		return nil, err
	}
	if _, err := os.Stat(opts.dbPath); err != nil {
		return scratch, nil
	}

	source, err := db.OpenDatabase(opts.dbPath)
	if err != nil {
		_ = scratch.Close()
		return nil, err
	}
	defer func() { _ = source.Close() }()

	list, err := db.NewContactStore(source, zap.NewNop()).Load(context.Background())
	if err == nil {
		err = db.NewContactStore(scratch, zap.NewNop()).Replace(context.Background(), list)
	}
	if err != nil {
		_ = scratch.Close()
		return nil, err
	}
	return scratch, nil
}

// mergeContacts appends incoming records to existing. Records without an id get one, later
// records repeating an id are dropped, and every imported record is rescored.
func mergeContacts(existing, incoming []models.Contact, now time.Time, r *report) []models.Contact {
	seen := make(map[string]bool, len(existing)+len(incoming))
	for _, c := range existing {
		seen[c.ID] = true
	}

	out := append([]models.Contact{}, existing...)
	for _, c := range incoming {
		if c.ID == "" {
			c.ID = models.NewID(now)
			r.NewIDs++
		}
		if seen[c.ID] {
			r.Duplicates++
			continue
		}
		seen[c.ID] = true

		c = c.Clone()
		if c.CreatedDate == "" {
			c.CreatedDate = models.Today(now)
		}
		if c.LastModified == "" {
			c.LastModified = c.CreatedDate
		}
		if !models.IsValidPriority(c.Priority) {
			c.Priority = models.PriorityMedium
		}
		c.DataCompleteness = scoring.Completeness(&c)

		out = append(out, c)
		r.Imported++
	}
	return out
}
