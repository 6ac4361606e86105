package stats

import (
	"sort"

	"github.com/verte-zerg/tinytracker/internal/model"
)

// Time-of-day boundaries, in minutes since midnight.
const (
	morningStart   = 6 * 60
	afternoonStart = 12 * 60
	eveningStart   = 17 * 60
	nightStart     = 21 * 60
	midDayStart    = 10 * 60
	midDayEnd      = 14 * 60
)

// FeedingPatterns summarizes bottle feedings over a period.
type FeedingPatterns struct {
	Count            int
	MorningPct       float64
	AfternoonPct     float64
	EveningPct       float64
	NightPct         float64
	AvgIntervalHours float64
	AvgOuncesPerFeed float64
	// DailyTotals holds ounces per day with feedings, oldest first.
	DailyTotals []float64
	// AmountTrend is the slope of DailyTotals in ounces per day.
	AmountTrend float64
	// MidDayTimeTrend is the drift of the mean 10:00-14:00 feeding time, in minutes per day.
	MidDayTimeTrend float64
}

// SleepSummary summarizes completed sleep sessions over a period.
type SleepSummary struct {
	NapCount            int
	OvernightCount      int
	AvgNapHours         float64
	AvgOvernightHours   float64
	AvgDailyHours       float64
	LongestStretchHours float64
	// DailyTotals holds sleep hours per local day, oldest first.
	DailyTotals []float64
	DailyTrend  float64
}

// AnalyzeAdvancedFeedingPatterns returns nil when there are no valid feedings.
func AnalyzeAdvancedFeedingPatterns(entries []model.Feeding) *FeedingPatterns {
	points := feedPoints(entries)
	if len(points) == 0 {
		return nil
	}
	sort.Slice(points, func(i, j int) bool { return points[i].at < points[j].at })

	var morning, afternoon, evening, night int
	var totalOz float64
	perDay := map[int64]float64{}
	midDay := map[int64][]float64{}
	for _, p := range points {
		m := MinutesOfDayLocal(p.at)
		switch {
		case m >= morningStart && m < afternoonStart:
			morning++
		case m >= afternoonStart && m < eveningStart:
			afternoon++
		case m >= eveningStart && m < nightStart:
			evening++
		default:
			night++
		}
		totalOz += p.amount
		day := StartOfDayLocal(p.at)
		perDay[day] += p.amount
		if m >= midDayStart && m < midDayEnd {
			midDay[day] = append(midDay[day], float64(m))
		}
	}

	count := float64(len(points))
	out := &FeedingPatterns{
		Count:            len(points),
		MorningPct:       float64(morning) / count * 100,
		AfternoonPct:     float64(afternoon) / count * 100,
		EveningPct:       float64(evening) / count * 100,
		NightPct:         float64(night) / count * 100,
		AvgOuncesPerFeed: totalOz / count,
	}
	if len(points) > 1 {
		span := points[len(points)-1].at - points[0].at
		out.AvgIntervalHours = float64(span) / float64(len(points)-1) / float64(msPerHour)
	}

	out.DailyTotals = valuesByDay(perDay)
	out.AmountTrend = TrendSlope(out.DailyTotals)

	midDayMeans := make(map[int64]float64, len(midDay))
	for day, mins := range midDay {
		midDayMeans[day] = mean(mins)
	}
	out.MidDayTimeTrend = TrendSlope(valuesByDay(midDayMeans))
	return out
}

// AnalyzeSleepSessions classifies completed sessions as naps or overnight sleep and
// averages their durations. It returns nil when no session normalizes.
func AnalyzeSleepSessions(entries []model.SleepSession, window model.DayWindow, nowMs int64) *SleepSummary {
	var napHours, overnightHours []float64
	longest := 0.0
	days := dayIncrements{}
	for _, s := range entries {
		if s.EndTime <= 0 {
			continue
		}
		iv, ok := NormalizeSleepInterval(s.StartTime, s.EndTime, nowMs)
		if !ok || iv.DurationMs() <= 0 {
			continue
		}
		hours := float64(iv.DurationMs()) / float64(msPerHour)
		if ClassifyNapOvernight(iv.StartMs, window) == model.SleepNap {
			napHours = append(napHours, hours)
		} else {
			overnightHours = append(overnightHours, hours)
		}
		longest = max(longest, hours)
		distributeSleep(days, iv.StartMs, iv.EndMs)
	}
	if len(napHours)+len(overnightHours) == 0 {
		return nil
	}

	totals := make(map[int64]float64, len(days))
	for day, inc := range days {
		var sum float64
		for _, v := range inc {
			sum += v
		}
		totals[day] = sum
	}
	daily := valuesByDay(totals)
	return &SleepSummary{
		NapCount:            len(napHours),
		OvernightCount:      len(overnightHours),
		AvgNapHours:         mean(napHours),
		AvgOvernightHours:   mean(overnightHours),
		AvgDailyHours:       mean(daily),
		LongestStretchHours: longest,
		DailyTotals:         daily,
		DailyTrend:          TrendSlope(daily),
	}
}

// valuesByDay returns map values ordered by day, oldest first.
func valuesByDay(byDay map[int64]float64) []float64 {
	keys := make([]int64, 0, len(byDay))
	for k := range byDay {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	out := make([]float64, len(keys))
	for i, k := range keys {
		out[i] = byDay[k]
	}
	return out
}

func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}
