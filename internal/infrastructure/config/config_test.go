package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	assert.Equal(t, ConnectorMock, cfg.Connector)
	assert.Equal(t, 100, cfg.Mock.Count)
	assert.NoError(t, cfg.Validate())
}

func TestLoad(t *testing.T) {
	t.Run("missing config file", func(t *testing.T) {
		_, err := Load(t.TempDir())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "config file not found")
	})

	t.Run("values merge over defaults", func(t *testing.T) {
		base := t.TempDir()
		writeConfig(t, base, "connector: sqlite\nsqlite:\n  path: data/test.db\n")

		cfg, err := Load(base)
		require.NoError(t, err)
		assert.Equal(t, ConnectorSQLite, cfg.Connector)
		assert.Equal(t, "data/test.db", cfg.SQLite.Path)
		// untouched defaults survive
		assert.Equal(t, 100, cfg.Mock.Count)
		assert.Equal(t, "http://localhost:5000/api", cfg.BaseURL)
	})

	t.Run("unknown connector rejected", func(t *testing.T) {
		base := t.TempDir()
		writeConfig(t, base, "connector: carrierpigeon\n")

		_, err := Load(base)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "unknown connector")
	})

	t.Run("jsonfile connector needs a path", func(t *testing.T) {
		base := t.TempDir()
		writeConfig(t, base, "connector: jsonfile\n")

		_, err := Load(base)
		require.Error(t, err)
	})

	t.Run("env override wins", func(t *testing.T) {
		base := t.TempDir()
		writeConfig(t, base, "connector: mock\n")
		t.Setenv("FACTOID_CONNECTOR", "sqlite")
		t.Setenv("FACTOID_SQLITE_PATH", "/tmp/override.db")

		cfg, err := Load(base)
		require.NoError(t, err)
		assert.Equal(t, ConnectorSQLite, cfg.Connector)
		assert.Equal(t, "/tmp/override.db", cfg.SQLite.Path)
	})
}

func TestWriteDefault(t *testing.T) {
	base := t.TempDir()

	require.NoError(t, WriteDefault(base))
	assert.True(t, Exists(base))

	// loadable out of the box
	cfg, err := Load(base)
	require.NoError(t, err)
	assert.Equal(t, ConnectorMock, cfg.Connector)

	t.Run("refuses to overwrite", func(t *testing.T) {
		err := WriteDefault(base)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "already exists")
	})
}

func TestWrite(t *testing.T) {
	base := t.TempDir()
	cfg := Default()
	cfg.Connector = ConnectorJSONFile
	cfg.JSONFile.Path = "snapshot.json"

	require.NoError(t, Write(base, cfg))

	loaded, err := Load(base)
	require.NoError(t, err)
	assert.Equal(t, ConnectorJSONFile, loaded.Connector)
	assert.Equal(t, "snapshot.json", loaded.JSONFile.Path)
}

func TestSQLitePath(t *testing.T) {
	cfg := Default()
	cfg.SQLite.Path = "data/factoids.db"
	assert.Equal(t, filepath.Join("/base", "data/factoids.db"), SQLitePath("/base", cfg))

	cfg.SQLite.Path = "/abs/factoids.db"
	assert.Equal(t, "/abs/factoids.db", SQLitePath("/base", cfg))
}

func writeConfig(t *testing.T, base, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(ConfigDir(base), 0755))
	require.NoError(t, os.WriteFile(ConfigFilePath(base), []byte(content), 0644))
}
