// Package config provides XDG path helpers.
package config

import (
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
)

// Environment overrides.
const (
	EnvDBPath     = "TINYTRACKER_DB"
	EnvConfigPath = "TINYTRACKER_CONFIG"
)

// LoadEnv loads KEY=VALUE overrides from the given .env files. Missing files are
// ignored; variables already set in the environment win.
func LoadEnv(paths ...string) error {
	existing := make([]string, 0, len(paths))
	for _, p := range paths {
		if _, err := os.Stat(p); err == nil {
			existing = append(existing, p)
		}
	}
	if len(existing) == 0 {
		return nil
	}
	return godotenv.Load(existing...)
}

// XDGConfigHome returns the XDG config home or a default fallback.
func XDGConfigHome() string {
	if v := os.Getenv("XDG_CONFIG_HOME"); v != "" {
		return v
	}
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return "."
	}
	return filepath.Join(home, ".config")
}

// XDGDataHome returns the XDG data home or a default fallback.
func XDGDataHome() string {
	if v := os.Getenv("XDG_DATA_HOME"); v != "" {
		return v
	}
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return "."
	}
	return filepath.Join(home, ".local", "share")
}

// DefaultEnvPath returns the .env file read next to the config.
func DefaultEnvPath() string {
	return filepath.Join(XDGConfigHome(), "tinytracker", ".env")
}

// DefaultDBPath returns the path for the SQLite database.
func DefaultDBPath() string {
	if v := os.Getenv(EnvDBPath); v != "" {
		return v
	}
	return filepath.Join(XDGDataHome(), "tinytracker", "tinytracker.db")
}

// DefaultConfigPath returns the TOML config path.
func DefaultConfigPath() string {
	if v := os.Getenv(EnvConfigPath); v != "" {
		return v
	}
	return filepath.Join(XDGConfigHome(), "tinytracker", "config.toml")
}
