package stats

import (
	"github.com/verte-zerg/tinytracker/internal/model"
)

// futureStartTolerance is how far a sleep start may lie ahead of now before it is
// read as belonging to the previous day.
const futureStartTolerance = 3 * msPerHour

// Default daytime window: 06:30-19:30.
const (
	DefaultDayWindowStart = 390
	DefaultDayWindowEnd   = 1170
)

// DefaultDayWindow returns the fallback daytime window.
func DefaultDayWindow() model.DayWindow {
	return model.DayWindow{StartMins: DefaultDayWindowStart, EndMins: DefaultDayWindowEnd}
}

// NormalizeSleepInterval repairs a sleep interval whose start was stored against the
// wrong calendar day. A start more than three hours ahead of nowMs is moved back one
// day; if the end then still precedes the start, the start is moved back one more
// day. Intervals that remain inverted are unrecoverable and yield false.
func NormalizeSleepInterval(startMs, endMs, nowMs int64) (model.SleepInterval, bool) {
	if startMs <= 0 || endMs <= 0 {
		return model.SleepInterval{}, false
	}
	if startMs > nowMs+futureStartTolerance {
		startMs -= msPerDay
		if endMs < startMs {
			startMs -= msPerDay
		}
	}
	if endMs < startMs {
		return model.SleepInterval{}, false
	}
	return model.SleepInterval{StartMs: startMs, EndMs: endMs}, true
}

// normalizeActiveStart applies the future-start rule to an in-progress session.
func normalizeActiveStart(startMs, nowMs int64) int64 {
	if startMs > nowMs+futureStartTolerance {
		return startMs - msPerDay
	}
	return startMs
}

// IsWithinWindowLocal reports whether minute-of-day m lies in [start, end]. A window
// with start > end wraps past midnight.
func IsWithinWindowLocal(m, start, end int) bool {
	if start <= end {
		return m >= start && m <= end
	}
	return m >= start || m <= end
}

// ClassifyNapOvernight classifies a sleep by its local start time against the daytime window.
func ClassifyNapOvernight(startMs int64, window model.DayWindow) model.SleepKind {
	window = resolveDayWindow(window)
	if IsWithinWindowLocal(MinutesOfDayLocal(startMs), window.StartMins, window.EndMins) {
		return model.SleepNap
	}
	return model.SleepOvernight
}

// resolveDayWindow falls back to the default window when none is configured.
func resolveDayWindow(w model.DayWindow) model.DayWindow {
	if w.StartMins == 0 && w.EndMins == 0 {
		return DefaultDayWindow()
	}
	return w
}
