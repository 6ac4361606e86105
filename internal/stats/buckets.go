// Package stats contains the pace aggregation engine and its reporting.
//
// Every function in this package is best-effort: malformed records (non-positive
// timestamps, non-finite or non-positive quantities) are skipped rather than
// reported, so one bad record never blanks a whole aggregate. The only "no data"
// signal is a nil result from the average builders and from NormalizeSleepInterval.
package stats

import (
	"math"
	"time"

	"github.com/verte-zerg/tinytracker/internal/model"
)

const (
	bucketMinutes  = 15
	minutesPerDay  = 24 * 60
	lastBucket     = model.BucketCount - 1
	msPerMinute    = int64(time.Minute / time.Millisecond)
	msPerHour      = int64(time.Hour / time.Millisecond)
	msPerDay       = 24 * msPerHour
	defaultHistory = 7
)

// StartOfDayLocal returns local midnight at or before tsMs.
func StartOfDayLocal(tsMs int64) int64 {
	t := time.UnixMilli(tsMs).In(time.Local)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.Local).UnixMilli()
}

// EndOfDayLocal returns the local midnight that follows the day containing tsMs.
func EndOfDayLocal(tsMs int64) int64 {
	t := time.UnixMilli(tsMs).In(time.Local)
	return time.Date(t.Year(), t.Month(), t.Day()+1, 0, 0, 0, 0, time.Local).UnixMilli()
}

// MinutesOfDayLocal returns the local hour*60+minute of tsMs.
func MinutesOfDayLocal(tsMs int64) int {
	t := time.UnixMilli(tsMs).In(time.Local)
	return t.Hour()*60 + t.Minute()
}

// BucketIndexCeilFromMinutes rounds minutes up to the next 15-minute mark and returns
// its bucket index. An event at 08:01 belongs to the 08:15 mark so that the
// cumulative value at a mark includes everything up to it.
func BucketIndexCeilFromMinutes(minutes float64) int {
	if math.IsNaN(minutes) {
		return 0
	}
	if minutes < 0 {
		minutes = 0
	}
	if minutes > minutesPerDay {
		minutes = minutesPerDay
	}
	idx := int(math.Ceil(minutes / bucketMinutes))
	if idx > lastBucket {
		idx = lastBucket
	}
	return idx
}

// BucketIndexCeilFromMs returns the ceiling bucket index of tsMs in local time.
func BucketIndexCeilFromMs(tsMs int64) int {
	return BucketIndexCeilFromMinutes(float64(MinutesOfDayLocal(tsMs)))
}

// BucketLabel formats the HH:MM mark of a bucket.
func BucketLabel(bucket int) string {
	if bucket < 0 {
		bucket = 0
	}
	if bucket > lastBucket {
		bucket = lastBucket
	}
	mins := bucket * bucketMinutes
	return time.Date(2000, 1, 1, mins/60, mins%60, 0, 0, time.UTC).Format("15:04")
}

// cumulate turns per-bucket increments into a running sum in place.
func cumulate(increments *[model.BucketCount]float64) {
	for i := 1; i < model.BucketCount; i++ {
		increments[i] += increments[i-1]
	}
}

func finitePositive(v float64) bool {
	return v > 0 && !math.IsInf(v, 0) && !math.IsNaN(v)
}
