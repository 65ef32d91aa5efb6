// Package config provides configuration loading and management.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

const (
	// DefaultConfigDir is the directory name for factoid configuration.
	DefaultConfigDir = ".factoid"
	// DefaultConfigFile is the default config file name.
	DefaultConfigFile = "config.yaml"

	// ConnectorMock serves a generated in-memory population, read-only.
	ConnectorMock = "mock"
	// ConnectorJSONFile serves a JSON snapshot file, read-only.
	ConnectorJSONFile = "jsonfile"
	// ConnectorSQLite serves a mutable sqlite database.
	ConnectorSQLite = "sqlite"
)

// Config holds static infrastructure configuration (read-only after init).
type Config struct {
	Connector string         `yaml:"connector,omitempty"`
	BaseURL   string         `yaml:"base_url,omitempty"`
	Contact   string         `yaml:"contact,omitempty"`
	Mock      MockConfig     `yaml:"mock,omitempty"`
	JSONFile  JSONFileConfig `yaml:"jsonfile,omitempty"`
	SQLite    SQLiteConfig   `yaml:"sqlite,omitempty"`
}

// MockConfig holds configuration for the generated mock backend.
type MockConfig struct {
	// Count is the number of factoids to generate.
	Count int `yaml:"count,omitempty"`
}

// JSONFileConfig holds configuration for the read-only JSON file backend.
type JSONFileConfig struct {
	// Path is the file path to the JSON snapshot.
	Path string `yaml:"path,omitempty"`
}

// SQLiteConfig holds configuration for the SQLite relational database.
type SQLiteConfig struct {
	// Path is the file path to the SQLite database.
	Path string `yaml:"path,omitempty"`
}

// Default returns a Config with default values.
func Default() *Config {
	return &Config{
		Connector: ConnectorMock,
		BaseURL:   "http://localhost:5000/api",
		Contact:   "Unknown contact",
		Mock: MockConfig{
			Count: 100,
		},
		SQLite: SQLiteConfig{
			Path: filepath.Join(DefaultConfigDir, "factoids.db"),
		},
	}
}

// Load loads configuration from the .factoid directory in the given path.
func Load(basePath string) (*Config, error) {
	configFile := ConfigFilePath(basePath)

	data, err := os.ReadFile(configFile)
	if os.IsNotExist(err) {
		return nil, fmt.Errorf("config file not found: %s (run 'factoid init' first)", configFile)
	}
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	// Start with defaults
	cfg := Default()

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	// Apply environment variable overrides
	cfg.applyEnvOverrides()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// applyEnvOverrides applies environment variable overrides.
func (c *Config) applyEnvOverrides() {
	if name := os.Getenv("FACTOID_CONNECTOR"); name != "" {
		c.Connector = name
	}
	if path := os.Getenv("FACTOID_SQLITE_PATH"); path != "" {
		c.SQLite.Path = path
	}
	if path := os.Getenv("FACTOID_JSON_PATH"); path != "" {
		c.JSONFile.Path = path
	}
}

// Validate checks that the selected connector is usable.
func (c *Config) Validate() error {
	switch c.Connector {
	case ConnectorMock:
		if c.Mock.Count < 0 {
			return fmt.Errorf("mock count must not be negative: %d", c.Mock.Count)
		}
	case ConnectorJSONFile:
		if c.JSONFile.Path == "" {
			return fmt.Errorf("jsonfile connector needs a path")
		}
	case ConnectorSQLite:
		if c.SQLite.Path == "" {
			return fmt.Errorf("sqlite connector needs a path")
		}
	default:
		return fmt.Errorf("unknown connector: %q", c.Connector)
	}
	return nil
}

// ConfigDir returns the path to the .factoid config directory.
func ConfigDir(basePath string) string {
	return filepath.Join(basePath, DefaultConfigDir)
}

// ConfigFilePath returns the path to the config file.
func ConfigFilePath(basePath string) string {
	return filepath.Join(basePath, DefaultConfigDir, DefaultConfigFile)
}

// Exists checks if a factoid config exists in the given path.
func Exists(basePath string) bool {
	_, err := os.Stat(ConfigFilePath(basePath))
	return err == nil
}
