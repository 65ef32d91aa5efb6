package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// DefaultConfigYAML is the default configuration content.
const DefaultConfigYAML = `# Factoid-Core Configuration

# connector: mock | jsonfile | sqlite
connector: mock

base_url: http://localhost:5000/api
contact: Unknown contact

mock:
  count: 100

# jsonfile:
#   path: factoids.json

sqlite:
  path: .factoid/factoids.db
`

// WriteDefault creates the .factoid directory and writes a default config file.
func WriteDefault(basePath string) error {
	configDir := ConfigDir(basePath)
	configFile := ConfigFilePath(basePath)

	if err := os.MkdirAll(configDir, 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	if _, err := os.Stat(configFile); err == nil {
		return fmt.Errorf("config file already exists: %s", configFile)
	}

	if err := os.WriteFile(configFile, []byte(DefaultConfigYAML), 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}

	return nil
}

// Write writes the given config to the config file.
func Write(basePath string, cfg *Config) error {
	if err := os.MkdirAll(ConfigDir(basePath), 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}

	if err := os.WriteFile(ConfigFilePath(basePath), data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}

	return nil
}

// SQLitePath resolves the sqlite database path relative to basePath.
func SQLitePath(basePath string, cfg *Config) string {
	return resolvePath(basePath, cfg.SQLite.Path)
}

// JSONPath resolves the snapshot file path relative to basePath.
func JSONPath(basePath string, cfg *Config) string {
	return resolvePath(basePath, cfg.JSONFile.Path)
}

func resolvePath(basePath, path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(basePath, path)
}
