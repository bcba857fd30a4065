package main

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/harperreed/donorbase/db"
	"github.com/harperreed/donorbase/models"
)

var fixedNow = time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)

const dump = `[
  {"id": "a1", "firstName": "Jane", "lastName": "Doe", "email": "jane@example.org", "projectRoles": ["donor"]},
  {"firstName": "Sam", "lastName": "Lee"},
  {"id": "a1", "firstName": "Jane", "lastName": "Again"}
]`

func writeDump(t *testing.T, dir string) string {
	t.Helper()
	path := filepath.Join(dir, "dump.json")
	require.NoError(t, os.WriteFile(path, []byte(dump), 0644))
	return path
}

func TestMigrate(t *testing.T) {
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "donorbase.db")

	r, err := migrate(context.Background(), options{
		input:  writeDump(t, dir),
		dbPath: dbPath,
		now:    fixedNow,
	})
	require.NoError(t, err)
	assert.Equal(t, report{Read: 3, Imported: 2, Duplicates: 1, NewIDs: 1, Total: 2}, r)

	database, err := db.OpenDatabase(dbPath)
	require.NoError(t, err)
	defer func() { _ = database.Close() }()

	list, err := db.NewContactStore(database, zap.NewNop()).Load(context.Background())
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "a1", list[0].ID)
	assert.Equal(t, "Doe", list[0].LastName)
	assert.Equal(t, 73, list[0].DataCompleteness)
	assert.NotEmpty(t, list[1].ID)
	assert.Equal(t, "2026-03-14", list[1].CreatedDate)
	assert.Equal(t, []string{}, list[1].ProjectRoles)

	logs, err := db.ListImportLogs(database, 5)
	require.NoError(t, err)
	require.Len(t, logs, 1)
	assert.Equal(t, db.SourceMigrate, logs[0].Source)
	assert.Equal(t, "dump.json", logs[0].FileName)
}

func TestMigrateTwiceDropsExistingIDs(t *testing.T) {
	dir := t.TempDir()
	opts := options{input: writeDump(t, dir), dbPath: filepath.Join(dir, "donorbase.db"), now: fixedNow}

	_, err := migrate(context.Background(), opts)
	require.NoError(t, err)

	opts.backup = true
	opts.now = fixedNow.Add(time.Minute)
	r, err := migrate(context.Background(), opts)
	require.NoError(t, err)

	// a1 is already stored; Sam gets a fresh id again
	assert.Equal(t, 1, r.Imported)
	assert.Equal(t, 2, r.Duplicates)
	assert.Equal(t, 3, r.Total)
	assert.FileExists(t, r.BackupPath)
}

func TestMigrateDryRunWritesNothing(t *testing.T) {
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "donorbase.db")

	r, err := migrate(context.Background(), options{
		input:  writeDump(t, dir),
		dbPath: dbPath,
		dryRun: true,
		backup: true,
		now:    fixedNow,
	})
	require.NoError(t, err)
	assert.Equal(t, 2, r.Imported)
	assert.Equal(t, 2, r.Total)
	assert.Empty(t, r.BackupPath)
	assert.NoFileExists(t, dbPath)
}

func TestMigrateBadInput(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "dump.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0644))

	_, err := migrate(context.Background(), options{input: path, dbPath: filepath.Join(dir, "x.db"), now: fixedNow})
	assert.Error(t, err)
}

func TestMergeContactsRescores(t *testing.T) {
	var r report
	out := mergeContacts(nil, []models.Contact{{ID: "x", FirstName: "A", LastName: "B", Priority: "someday"}}, fixedNow, &r)

	require.Len(t, out, 1)
	assert.Equal(t, 50, out[0].DataCompleteness)
	assert.Equal(t, models.PriorityMedium, out[0].Priority)
}
