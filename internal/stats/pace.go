package stats

import (
	"github.com/verte-zerg/tinytracker/internal/model"
)

// Dataset holds the raw records a pace report is computed from.
type Dataset struct {
	Feedings    []model.Feeding
	Nursing     []model.NursingSession
	Solids      []model.SolidsSession
	Sleep       []model.SleepSession
	ActiveSleep *model.SleepSession
}

// ActivityPace is today's progress for one activity against its trailing average.
type ActivityPace struct {
	Activity   model.Activity
	Unit       string
	Today      float64
	Average    *model.BucketAverage
	Comparison *model.Comparison
	// TodaySeries is today's cumulative value at every bucket.
	TodaySeries [model.BucketCount]float64
}

// AverageAt returns the trailing average at bucket, or 0 when there is no history.
func (p ActivityPace) AverageAt(bucket int) float64 {
	if p.Average == nil {
		return 0
	}
	return p.Average.At(bucket)
}

// ResolveBucket returns the bucket a pace report is evaluated at.
func ResolveBucket(cfg model.PaceConfig) int {
	if cfg.Bucket != nil {
		return max(0, min(*cfg.Bucket, lastBucket))
	}
	return BucketIndexCeilFromMs(cfg.NowMs)
}

// BuildPace computes the pace of every activity for the day containing cfg.NowMs.
func BuildPace(data Dataset, cfg model.PaceConfig) []ActivityPace {
	dayStart := StartOfDayLocal(cfg.NowMs)
	dayEnd := EndOfDayLocal(cfg.NowMs)
	bucket := ResolveBucket(cfg)

	paces := make([]ActivityPace, 0, len(model.Activities))
	for _, activity := range model.Activities {
		var series [model.BucketCount]float64
		var avg *model.BucketAverage
		switch activity {
		case model.ActivityFeeding:
			series = FeedCumulativeSeries(data.Feedings, dayStart, dayEnd)
			avg = BuildFeedAvgBuckets(data.Feedings, dayStart)
		case model.ActivityNursing:
			series = NursingCumulativeSeries(data.Nursing, dayStart, dayEnd)
			avg = BuildNursingAvgBuckets(data.Nursing, dayStart)
		case model.ActivitySolids:
			series = SolidsCumulativeSeries(data.Solids, dayStart, dayEnd)
			avg = BuildSolidsAvgBuckets(data.Solids, dayStart)
		case model.ActivitySleep:
			series = SleepCumulativeSeries(data.Sleep, dayStart, dayEnd, data.ActiveSleep, cfg.NowMs)
			avg = BuildSleepAvgBucketsAt(data.Sleep, dayStart, cfg.NowMs)
		}
		today := seriesAt(series, bucket)
		paces = append(paces, ActivityPace{
			Activity:    activity,
			Unit:        activity.Unit(),
			Today:       today,
			Average:     avg,
			Comparison:  BuildComparison(today, avg, bucket, activity.Unit(), cfg.EvenEpsilon),
			TodaySeries: series,
		})
	}
	return paces
}
