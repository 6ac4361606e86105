package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/verte-zerg/tinytracker/internal/config"
)

// parseWhen resolves a user-supplied time. Empty means now; "HH:MM" is the most
// recent such wall-clock time at or before now; RFC3339 and "2006-01-02 15:04"
// are taken as given.
func parseWhen(value string, now time.Time) (time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return now, nil
	}
	if mins, err := config.ParseClock(value); err == nil {
		local := now.In(time.Local)
		at := time.Date(local.Year(), local.Month(), local.Day(), mins/60, mins%60, 0, 0, time.Local)
		if at.After(now) {
			at = at.AddDate(0, 0, -1)
		}
		return at, nil
	}
	if at, err := time.Parse(time.RFC3339, value); err == nil {
		return at, nil
	}
	if at, err := time.ParseInLocation("2006-01-02 15:04", value, time.Local); err == nil {
		return at, nil
	}
	return time.Time{}, fmt.Errorf("invalid time %q (use HH:MM, \"YYYY-MM-DD HH:MM\" or RFC3339)", value)
}

// resolveWhen combines --at and --ago. Only one of them may be set.
func resolveWhen(at string, ago time.Duration, now time.Time) (time.Time, error) {
	if at != "" && ago != 0 {
		return time.Time{}, fmt.Errorf("--at and --ago are mutually exclusive")
	}
	if ago < 0 {
		return time.Time{}, fmt.Errorf("--ago must be >= 0")
	}
	if ago > 0 {
		return now.Add(-ago), nil
	}
	return parseWhen(at, now)
}
