package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	for _, key := range []string{"DONORBASE_DB_PATH", "DONORBASE_LOG_LEVEL", "DONORBASE_LOG_FORMAT", "DONORBASE_DEFAULT_COUNTRY"} {
		t.Setenv(key, "")
	}
}

func TestLoadFromMissingFileUsesDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := LoadFrom(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "USA", cfg.DefaultCountry)
}

func TestLoadFromFileThenEnv(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("db_path: /tmp/file.db\nlog_level: debug\nfollow_up_days: 14\n"), 0600))

	t.Setenv("DONORBASE_DB_PATH", "/tmp/env.db")

	cfg, err := LoadFrom(path)
	require.NoError(t, err)
	assert.Equal(t, "/tmp/env.db", cfg.DBPath)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, 14, cfg.FollowUpDays)
	assert.Equal(t, "console", cfg.LogFormat)
}

func TestLoadFromRejectsBadValues(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()

	bad := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("log_level: [oops"), 0600))
	_, err := LoadFrom(bad)
	assert.Error(t, err)

	t.Setenv("DONORBASE_LOG_FORMAT", "xml")
	_, err = LoadFrom(filepath.Join(dir, "missing.yaml"))
	assert.ErrorContains(t, err, "log_format")
}

func TestSaveRoundTrip(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	cfg := Default()
	cfg.DBPath = "/data/donors.db"
	cfg.LogFormat = "json"
	require.NoError(t, cfg.Save(path))

	loaded, err := LoadFrom(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}
