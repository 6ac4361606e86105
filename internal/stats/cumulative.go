package stats

import (
	"github.com/verte-zerg/tinytracker/internal/model"
)

// CalcFeedCumulativeAtBucket returns the ounces fed in [dayStartMs, dayEndMs) up to
// and including bucket.
func CalcFeedCumulativeAtBucket(entries []model.Feeding, bucket int, dayStartMs, dayEndMs int64) float64 {
	return seriesAt(FeedCumulativeSeries(entries, dayStartMs, dayEndMs), bucket)
}

// CalcNursingCumulativeAtBucket returns nursing hours up to and including bucket.
func CalcNursingCumulativeAtBucket(entries []model.NursingSession, bucket int, dayStartMs, dayEndMs int64) float64 {
	return seriesAt(NursingCumulativeSeries(entries, dayStartMs, dayEndMs), bucket)
}

// CalcSolidsCumulativeAtBucket returns the number of foods up to and including bucket.
func CalcSolidsCumulativeAtBucket(entries []model.SolidsSession, bucket int, dayStartMs, dayEndMs int64) float64 {
	return seriesAt(SolidsCumulativeSeries(entries, dayStartMs, dayEndMs), bucket)
}

// CalcSleepCumulativeAtBucket returns sleep hours within the day up to bucket. An
// in-progress session counts from its start until nowMs.
func CalcSleepCumulativeAtBucket(entries []model.SleepSession, bucket int, dayStartMs, dayEndMs int64, active *model.SleepSession, nowMs int64) float64 {
	return seriesAt(SleepCumulativeSeries(entries, dayStartMs, dayEndMs, active, nowMs), bucket)
}

// FeedCumulativeSeries returns the running ounces for every bucket of one day.
func FeedCumulativeSeries(entries []model.Feeding, dayStartMs, dayEndMs int64) [model.BucketCount]float64 {
	return pointSeries(feedPoints(entries), dayStartMs, dayEndMs)
}

// NursingCumulativeSeries returns the running nursing hours for every bucket of one day.
func NursingCumulativeSeries(entries []model.NursingSession, dayStartMs, dayEndMs int64) [model.BucketCount]float64 {
	return pointSeries(nursingPoints(entries), dayStartMs, dayEndMs)
}

// SolidsCumulativeSeries returns the running food count for every bucket of one day.
func SolidsCumulativeSeries(entries []model.SolidsSession, dayStartMs, dayEndMs int64) [model.BucketCount]float64 {
	return pointSeries(solidsPoints(entries), dayStartMs, dayEndMs)
}

// SleepCumulativeSeries returns the running sleep hours for every bucket of one day.
func SleepCumulativeSeries(entries []model.SleepSession, dayStartMs, dayEndMs int64, active *model.SleepSession, nowMs int64) [model.BucketCount]float64 {
	var inc [model.BucketCount]float64
	for _, s := range entries {
		if s.EndTime <= 0 {
			continue
		}
		iv, ok := NormalizeSleepInterval(s.StartTime, s.EndTime, nowMs)
		if !ok {
			continue
		}
		addClippedSleep(&inc, dayStartMs, dayEndMs, iv.StartMs, iv.EndMs)
	}
	if active != nil && active.StartTime > 0 && active.EndTime <= 0 {
		start := normalizeActiveStart(active.StartTime, nowMs)
		addClippedSleep(&inc, dayStartMs, dayEndMs, start, nowMs)
	}
	cumulate(&inc)
	return inc
}

func addClippedSleep(inc *[model.BucketCount]float64, dayStartMs, dayEndMs, s, e int64) {
	s = max(s, dayStartMs)
	e = min(e, dayEndMs)
	if e <= s {
		return
	}
	addSleepOverlap(inc, dayStartMs, s, e)
}

func pointSeries(points []point, dayStartMs, dayEndMs int64) [model.BucketCount]float64 {
	var inc [model.BucketCount]float64
	for _, p := range points {
		if p.at < dayStartMs || p.at >= dayEndMs {
			continue
		}
		inc[BucketIndexCeilFromMs(p.at)] += p.amount
	}
	cumulate(&inc)
	return inc
}

func seriesAt(series [model.BucketCount]float64, bucket int) float64 {
	if bucket < 0 {
		return 0
	}
	if bucket > lastBucket {
		bucket = lastBucket
	}
	return series[bucket]
}
