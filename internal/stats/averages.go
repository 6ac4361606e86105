package stats

import (
	"sort"
	"time"

	"github.com/verte-zerg/tinytracker/internal/model"
)

// dayIncrements maps a local day start to that day's per-bucket increments.
type dayIncrements map[int64]*[model.BucketCount]float64

func (d dayIncrements) day(dayStartMs int64) *[model.BucketCount]float64 {
	inc, ok := d[dayStartMs]
	if !ok {
		inc = &[model.BucketCount]float64{}
		d[dayStartMs] = inc
	}
	return inc
}

type point struct {
	at     int64
	amount float64
}

// BuildFeedAvgBuckets averages the cumulative ounces per bucket over the last seven
// days with feedings before todayStartMs. It returns nil when there is no history.
func BuildFeedAvgBuckets(entries []model.Feeding, todayStartMs int64) *model.BucketAverage {
	return buildPointAvgBuckets(feedPoints(entries), todayStartMs)
}

// BuildNursingAvgBuckets averages cumulative nursing hours per bucket.
func BuildNursingAvgBuckets(entries []model.NursingSession, todayStartMs int64) *model.BucketAverage {
	return buildPointAvgBuckets(nursingPoints(entries), todayStartMs)
}

// BuildSolidsAvgBuckets averages the cumulative number of foods per bucket.
func BuildSolidsAvgBuckets(entries []model.SolidsSession, todayStartMs int64) *model.BucketAverage {
	return buildPointAvgBuckets(solidsPoints(entries), todayStartMs)
}

// BuildSleepAvgBuckets averages cumulative sleep hours per bucket, spreading every
// session over the buckets it overlaps.
func BuildSleepAvgBuckets(entries []model.SleepSession, todayStartMs int64) *model.BucketAverage {
	return BuildSleepAvgBucketsAt(entries, todayStartMs, time.Now().UnixMilli())
}

// BuildSleepAvgBucketsAt is BuildSleepAvgBuckets with an explicit normalization instant.
func BuildSleepAvgBucketsAt(entries []model.SleepSession, todayStartMs, nowMs int64) *model.BucketAverage {
	days := dayIncrements{}
	for _, s := range entries {
		if s.EndTime <= 0 {
			continue
		}
		iv, ok := NormalizeSleepInterval(s.StartTime, s.EndTime, nowMs)
		if !ok {
			continue
		}
		if iv.EndMs > todayStartMs {
			iv.EndMs = todayStartMs
		}
		if iv.EndMs <= iv.StartMs {
			continue
		}
		distributeSleep(days, iv.StartMs, iv.EndMs)
	}
	return averageRecentDays(days, defaultHistory)
}

func buildPointAvgBuckets(points []point, todayStartMs int64) *model.BucketAverage {
	days := dayIncrements{}
	for _, p := range points {
		if p.at >= todayStartMs {
			continue
		}
		inc := days.day(StartOfDayLocal(p.at))
		inc[BucketIndexCeilFromMs(p.at)] += p.amount
	}
	return averageRecentDays(days, defaultHistory)
}

// averageRecentDays cumulates and averages the most recent limit days.
func averageRecentDays(days dayIncrements, limit int) *model.BucketAverage {
	if len(days) == 0 {
		return nil
	}
	keys := make([]int64, 0, len(days))
	for k := range days {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] > keys[j] })
	if len(keys) > limit {
		keys = keys[:limit]
	}

	var out model.BucketAverage
	for _, k := range keys {
		inc := days[k]
		cumulate(inc)
		for i := range out.Buckets {
			out.Buckets[i] += inc[i]
		}
	}
	n := float64(len(keys))
	for i := range out.Buckets {
		out.Buckets[i] /= n
	}
	out.DaysUsed = len(keys)
	return &out
}

// distributeSleep splits [startMs, endMs) across local days and buckets.
func distributeSleep(days dayIncrements, startMs, endMs int64) {
	for dayStart := StartOfDayLocal(startMs); dayStart < endMs; dayStart = EndOfDayLocal(dayStart) {
		dayEnd := EndOfDayLocal(dayStart)
		s := max(startMs, dayStart)
		e := min(endMs, dayEnd)
		if e <= s {
			continue
		}
		addSleepOverlap(days.day(dayStart), dayStart, s, e)
	}
}

// addSleepOverlap adds the hours of [s, e) falling in each 15-minute slice of the
// day. A slice is credited to the wall-clock mark at its end, so the cumulative
// value at bucket i covers sleep through mark i; the slice ending at midnight folds
// into the last bucket. Marks follow the local clock across DST transitions.
func addSleepOverlap(inc *[model.BucketCount]float64, dayStartMs, s, e int64) {
	const sliceMs = bucketMinutes * msPerMinute
	dayEndMs := EndOfDayLocal(dayStartMs)
	first := (s - dayStartMs) / sliceMs
	last := (e - 1 - dayStartMs) / sliceMs
	for k := first; k <= last; k++ {
		sliceStart := dayStartMs + k*sliceMs
		sliceEnd := sliceStart + sliceMs
		overlap := min(e, sliceEnd) - max(s, sliceStart)
		if overlap <= 0 {
			continue
		}
		b := lastBucket
		if sliceEnd < dayEndMs {
			b = BucketIndexCeilFromMs(sliceEnd)
		}
		inc[b] += float64(overlap) / float64(msPerHour)
	}
}

func feedPoints(entries []model.Feeding) []point {
	out := make([]point, 0, len(entries))
	for _, f := range entries {
		if f.Timestamp <= 0 || !finitePositive(f.Ounces) {
			continue
		}
		out = append(out, point{at: f.Timestamp, amount: f.Ounces})
	}
	return out
}

func nursingPoints(entries []model.NursingSession) []point {
	out := make([]point, 0, len(entries))
	for _, n := range entries {
		at := n.At()
		if at <= 0 {
			continue
		}
		total := nonNegative(n.LeftDurationSec) + nonNegative(n.RightDurationSec)
		if !finitePositive(total) {
			continue
		}
		out = append(out, point{at: at, amount: total / 3600})
	}
	return out
}

func solidsPoints(entries []model.SolidsSession) []point {
	out := make([]point, 0, len(entries))
	for _, s := range entries {
		if s.Timestamp <= 0 || len(s.Foods) == 0 {
			continue
		}
		out = append(out, point{at: s.Timestamp, amount: float64(len(s.Foods))})
	}
	return out
}

// nonNegative treats missing or malformed durations as zero.
func nonNegative(v float64) float64 {
	if !finitePositive(v) {
		return 0
	}
	return v
}
