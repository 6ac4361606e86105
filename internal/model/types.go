// Package model defines shared data structures.
package model

// BucketCount is the number of 15-minute buckets in a day.
const BucketCount = 96

// Activity identifies one of the tracked activity kinds.
type Activity string

// Tracked activities.
const (
	ActivityFeeding Activity = "feeding"
	ActivityNursing Activity = "nursing"
	ActivitySolids  Activity = "solids"
	ActivitySleep   Activity = "sleep"
)

// Activities lists the tracked activities in display order.
var Activities = []Activity{ActivityFeeding, ActivityNursing, ActivitySolids, ActivitySleep}

// Unit returns the display unit for aggregated values of the activity.
func (a Activity) Unit() string {
	switch a {
	case ActivityFeeding:
		return "oz"
	case ActivityNursing, ActivitySleep:
		return "hrs"
	case ActivitySolids:
		return "foods"
	default:
		return ""
	}
}

// Feeding is a single bottle feeding. Timestamps are Unix milliseconds.
type Feeding struct {
	ID        string
	Timestamp int64
	Ounces    float64
}

// NursingSession is a breastfeeding session. Timestamp wins over StartTime when both are set.
type NursingSession struct {
	ID               string
	Timestamp        int64
	StartTime        int64
	LeftDurationSec  float64
	RightDurationSec float64
}

// At returns the instant the session is attributed to, or 0 when unknown.
func (n NursingSession) At() int64 {
	if n.Timestamp > 0 {
		return n.Timestamp
	}
	return n.StartTime
}

// SolidsSession is a solids meal; each food counts as one unit.
type SolidsSession struct {
	ID        string
	Timestamp int64
	Foods     []string
}

// SleepSession is a sleep record. EndTime is 0 while the session is active.
type SleepSession struct {
	ID        string
	StartTime int64
	EndTime   int64
	IsActive  bool
}

// SleepInterval is a normalized sleep interval in Unix milliseconds.
type SleepInterval struct {
	StartMs int64
	EndMs   int64
}

// DurationMs returns the interval length.
func (s SleepInterval) DurationMs() int64 {
	return s.EndMs - s.StartMs
}

// BucketAverage is the trailing per-bucket average of cumulative daily values.
type BucketAverage struct {
	Buckets  [BucketCount]float64
	DaysUsed int
}

// At returns the average at the given bucket, clamping the index into range.
func (b BucketAverage) At(bucket int) float64 {
	if bucket < 0 {
		bucket = 0
	}
	if bucket >= BucketCount {
		bucket = BucketCount - 1
	}
	return b.Buckets[bucket]
}

// Comparison describes today's value against the historical average at one bucket.
type Comparison struct {
	Delta       float64
	Unit        string
	EvenEpsilon float64
}

// DayWindow is the daytime window, in minutes since local midnight, used to tell naps from overnight sleep.
type DayWindow struct {
	StartMins int
	EndMins   int
}

// SleepKind is the nap/overnight classification of a sleep session.
type SleepKind string

// Sleep classifications.
const (
	SleepNap       SleepKind = "NAP"
	SleepOvernight SleepKind = "OVERNIGHT"
)

// PaceConfig defines options for pace reports.
type PaceConfig struct {
	// NowMs is the evaluation instant; today is the local day containing it.
	NowMs int64
	// Bucket overrides the bucket derived from NowMs.
	Bucket      *int
	DayWindow   DayWindow
	EvenEpsilon float64
}
