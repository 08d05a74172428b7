package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// Storage backends.
const (
	BackendXBEL   = "xbel"
	BackendSQLite = "sqlite"
)

// Config holds application configuration.
type Config struct {
	Backend    string `json:"backend"`
	XBELPath   string `json:"xbelPath"`
	SQLitePath string `json:"sqlitePath"`
	LogLevel   string `json:"logLevel"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	dir, err := DefaultDataDir()
	if err != nil {
		dir = "."
	}
	return Config{
		Backend:    BackendXBEL,
		XBELPath:   filepath.Join(dir, "bookmarks.xbel"),
		SQLitePath: filepath.Join(dir, "bookmarks.db"),
		LogLevel:   "warn",
	}
}

// LoadConfig reads config from the JSON file.
// Creates the file with defaults if it doesn't exist.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			config := DefaultConfig()
			if saveErr := SaveConfig(path, &config); saveErr != nil {
				// Non-fatal: return defaults even if save fails
				slog.Debug("could not write default config", "path", path, "err", saveErr)
			}
			return &config, nil
		}
		return nil, err
	}

	var config Config
	if err := json.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	// Apply defaults for missing fields
	defaults := DefaultConfig()
	if config.Backend == "" {
		config.Backend = defaults.Backend
	}
	if config.XBELPath == "" {
		config.XBELPath = defaults.XBELPath
	}
	if config.SQLitePath == "" {
		config.SQLitePath = defaults.SQLitePath
	}
	if config.LogLevel == "" {
		config.LogLevel = defaults.LogLevel
	}

	switch config.Backend {
	case BackendXBEL, BackendSQLite:
	default:
		return nil, fmt.Errorf("%s: %w: %q", path, ErrUnknownBackend, config.Backend)
	}

	config.XBELPath = expandHome(config.XBELPath)
	config.SQLitePath = expandHome(config.SQLitePath)

	return &config, nil
}

// SaveConfig writes config to the JSON file.
// Creates the directory if it doesn't exist.
func SaveConfig(path string, config *Config) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(config, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

// DefaultConfigFilePath returns the default config path: ~/.config/xbm/config.json
func DefaultConfigFilePath() (string, error) {
	dir, err := DefaultDataDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.json"), nil
}

// Level returns the configured log level, falling back to warn.
func (c *Config) Level() slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return slog.LevelWarn
	}
	return level
}

func expandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}
