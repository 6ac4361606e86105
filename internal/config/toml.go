// Package config provides configuration helpers and TOML parsing.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/verte-zerg/tinytracker/internal/model"
)

// FileConfig represents the TOML configuration file.
type FileConfig struct {
	Sleep SleepConfig `toml:"sleep"`
	Pace  PaceConfig  `toml:"pace"`
}

// SleepConfig maps per-child sleep settings.
type SleepConfig struct {
	DayStart *string `toml:"day-start"`
	DayEnd   *string `toml:"day-end"`
}

// PaceConfig maps pace comparison settings.
type PaceConfig struct {
	EvenEpsilon *float64 `toml:"even-epsilon"`
}

// LoadConfig reads a TOML config from the given path. Missing file is not an error.
func LoadConfig(path string) (FileConfig, error) {
	if path == "" {
		return FileConfig{}, fmt.Errorf("config path is empty")
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return FileConfig{}, nil
		}
		return FileConfig{}, fmt.Errorf("failed to stat config: %w", err)
	}
	var cfg FileConfig
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return FileConfig{}, fmt.Errorf("failed to decode config: %w", err)
	}
	return cfg, nil
}

// DayWindow resolves the configured daytime window, falling back to the given default
// for unset values.
func (c FileConfig) DayWindow(fallback model.DayWindow) (model.DayWindow, error) {
	window := fallback
	if c.Sleep.DayStart != nil {
		mins, err := ParseClock(*c.Sleep.DayStart)
		if err != nil {
			return model.DayWindow{}, fmt.Errorf("invalid sleep.day-start: %w", err)
		}
		window.StartMins = mins
	}
	if c.Sleep.DayEnd != nil {
		mins, err := ParseClock(*c.Sleep.DayEnd)
		if err != nil {
			return model.DayWindow{}, fmt.Errorf("invalid sleep.day-end: %w", err)
		}
		window.EndMins = mins
	}
	return window, nil
}

// ParseClock converts "HH:MM" into minutes since midnight.
func ParseClock(value string) (int, error) {
	hh, mm, ok := strings.Cut(strings.TrimSpace(value), ":")
	if !ok {
		return 0, fmt.Errorf("expected HH:MM, got %q", value)
	}
	h, err := strconv.Atoi(hh)
	if err != nil || h < 0 || h > 23 {
		return 0, fmt.Errorf("invalid hour in %q", value)
	}
	m, err := strconv.Atoi(mm)
	if err != nil || m < 0 || m > 59 {
		return 0, fmt.Errorf("invalid minute in %q", value)
	}
	return h*60 + m, nil
}
