package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Default config file path.
const DefaultConfigPath = "~/.config/bikeshare/config.yaml"

// Dataset source formats.
const (
	FormatCSV    = "csv"
	FormatSQLite = "sqlite"
)

// Config holds all bikeshare configuration.
type Config struct {
	Data    DataConfig    `yaml:"data"`
	Session SessionConfig `yaml:"session"`
	Logging LoggingConfig `yaml:"logging"`
}

type DataConfig struct {
	Dir      string          `yaml:"dir"`
	Datasets []DatasetConfig `yaml:"datasets"`
}

// DatasetConfig maps a dataset identifier to its backing source.
type DatasetConfig struct {
	Name   string `yaml:"name"`
	Path   string `yaml:"path"`
	Format string `yaml:"format,omitempty"`
}

type SessionConfig struct {
	PageSize   int  `yaml:"page_size"`
	ShowTiming bool `yaml:"show_timing"`
}

type LoggingConfig struct {
	Level      string `yaml:"level"`
	File       string `yaml:"file"`
	MaxSize    int    `yaml:"max_size"`
	MaxBackups int    `yaml:"max_backups"`
	MaxAge     int    `yaml:"max_age"`
	JSON       bool   `yaml:"json"`
}

// Load reads a YAML config file at path and merges it with defaults.
// Returns an error if the file cannot be read, contains invalid YAML,
// or fails validation.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks the configuration for values the loader and session
// cannot work with.
func (c *Config) Validate() error {
	if c.Session.PageSize < 1 {
		return fmt.Errorf("invalid config: session.page_size must be at least 1, got %d", c.Session.PageSize)
	}

	if len(c.Data.Datasets) == 0 {
		return fmt.Errorf("invalid config: no datasets configured")
	}

	seen := make(map[string]bool, len(c.Data.Datasets))
	for i, ds := range c.Data.Datasets {
		name := NormalizeName(ds.Name)
		if name == "" {
			return fmt.Errorf("invalid config: dataset %d has no name", i)
		}
		if seen[name] {
			return fmt.Errorf("invalid config: duplicate dataset %q", name)
		}
		seen[name] = true

		if ds.Path == "" {
			return fmt.Errorf("invalid config: dataset %q has no path", name)
		}

		switch ds.Format {
		case "", FormatCSV, FormatSQLite:
		default:
			return fmt.Errorf("invalid config: dataset %q has unknown format %q", name, ds.Format)
		}
	}

	return nil
}

// Dataset returns the entry for name, matched case-insensitively.
func (c *Config) Dataset(name string) (DatasetConfig, bool) {
	name = NormalizeName(name)
	for _, ds := range c.Data.Datasets {
		if NormalizeName(ds.Name) == name {
			return ds, true
		}
	}
	return DatasetConfig{}, false
}

// DatasetNames returns the normalized dataset identifiers in config order.
func (c *Config) DatasetNames() []string {
	names := make([]string, 0, len(c.Data.Datasets))
	for _, ds := range c.Data.Datasets {
		names = append(names, NormalizeName(ds.Name))
	}
	return names
}

// ResolvePath returns the absolute-or-relative path of the dataset's source,
// joined to the data directory unless it is already absolute.
func (c *Config) ResolvePath(ds DatasetConfig) (string, error) {
	path, err := expandPath(ds.Path)
	if err != nil {
		return "", err
	}
	if filepath.IsAbs(path) {
		return path, nil
	}

	dir, err := expandPath(c.Data.Dir)
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, path), nil
}

// SourceFormat returns the dataset's explicit format, or one inferred from
// the file extension.
func (ds DatasetConfig) SourceFormat() string {
	if ds.Format != "" {
		return ds.Format
	}
	switch strings.ToLower(filepath.Ext(ds.Path)) {
	case ".db", ".sqlite", ".sqlite3":
		return FormatSQLite
	default:
		return FormatCSV
	}
}

// NormalizeName lowercases and trims a dataset identifier.
func NormalizeName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// expandPath replaces a leading ~ with the user's home directory.
func expandPath(path string) (string, error) {
	if len(path) > 0 && path[0] == '~' {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolving home directory: %w", err)
		}
		return filepath.Join(home, path[1:]), nil
	}
	return path, nil
}

// LoadOrCreate loads the config from the default path. If the file does
// not exist, it creates the directory structure and writes defaults.
func LoadOrCreate() (*Config, error) {
	path, err := expandPath(DefaultConfigPath)
	if err != nil {
		return nil, err
	}
	return LoadOrCreateAt(path)
}

// LoadOrCreateAt loads the config from the given path. If the file does
// not exist, it creates the directory structure and writes defaults.
func LoadOrCreateAt(path string) (*Config, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		cfg := DefaultConfig()

		dir := filepath.Dir(path)
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("creating config directory: %w", err)
		}

		data, err := yaml.Marshal(cfg)
		if err != nil {
			return nil, fmt.Errorf("marshaling default config: %w", err)
		}

		if err := os.WriteFile(path, data, 0644); err != nil {
			return nil, fmt.Errorf("writing default config: %w", err)
		}

		return cfg, nil
	}

	return Load(path)
}
