package stats

import (
	"testing"
	"time"

	"github.com/verte-zerg/tinytracker/internal/model"
)

func TestAnalyzeAdvancedFeedingPatterns(t *testing.T) {
	useZone(t, time.UTC)
	if fp := AnalyzeAdvancedFeedingPatterns(nil); fp != nil {
		t.Fatalf("expected nil without feedings")
	}
	entries := []model.Feeding{
		{Timestamp: ms(8, 7, 0), Ounces: 4},
		{Timestamp: ms(8, 11, 0), Ounces: 4},
		{Timestamp: ms(9, 12, 0), Ounces: 5},
		{Timestamp: ms(9, 18, 0), Ounces: 5},
		{Timestamp: ms(10, 13, 0), Ounces: 6},
		{Timestamp: ms(10, 23, 0), Ounces: 6},
	}
	fp := AnalyzeAdvancedFeedingPatterns(entries)
	if fp == nil {
		t.Fatalf("expected patterns")
	}
	if fp.Count != 6 {
		t.Fatalf("expected 6 feedings, got %d", fp.Count)
	}
	pct := 100.0 / 6
	if !almostEqual(fp.MorningPct, 2*pct) || !almostEqual(fp.AfternoonPct, 2*pct) ||
		!almostEqual(fp.EveningPct, pct) || !almostEqual(fp.NightPct, pct) {
		t.Fatalf("unexpected split: %+v", fp)
	}
	if !almostEqual(fp.AvgOuncesPerFeed, 5) {
		t.Fatalf("expected 5 oz per feed, got %v", fp.AvgOuncesPerFeed)
	}
	// 07:00 on day 8 to 23:00 on day 10 is 64h over five gaps.
	if !almostEqual(fp.AvgIntervalHours, 64.0/5) {
		t.Fatalf("unexpected interval %v", fp.AvgIntervalHours)
	}
	if len(fp.DailyTotals) != 3 || !almostEqual(fp.AmountTrend, 2) {
		t.Fatalf("unexpected daily totals %v trend %v", fp.DailyTotals, fp.AmountTrend)
	}
	// Mid-day feedings drift 11:00 -> 12:00 -> 13:00.
	if !almostEqual(fp.MidDayTimeTrend, 60) {
		t.Fatalf("expected mid-day drift of 60 min/day, got %v", fp.MidDayTimeTrend)
	}
}

func TestAnalyzeSleepSessions(t *testing.T) {
	useZone(t, time.UTC)
	now := ms(10, 20, 0)
	entries := []model.SleepSession{
		{StartTime: ms(9, 13, 0), EndTime: ms(9, 14, 30)},
		{StartTime: ms(9, 20, 0), EndTime: ms(10, 6, 0)},
		{StartTime: ms(10, 10, 0), EndTime: ms(10, 10, 30)},
		{StartTime: ms(10, 15, 0)},
	}
	ss := AnalyzeSleepSessions(entries, model.DayWindow{}, now)
	if ss == nil {
		t.Fatalf("expected summary")
	}
	if ss.NapCount != 2 || ss.OvernightCount != 1 {
		t.Fatalf("unexpected counts: %+v", ss)
	}
	if !almostEqual(ss.AvgNapHours, 1) || !almostEqual(ss.AvgOvernightHours, 10) {
		t.Fatalf("unexpected averages: %+v", ss)
	}
	if !almostEqual(ss.LongestStretchHours, 10) {
		t.Fatalf("unexpected longest stretch %v", ss.LongestStretchHours)
	}
	// Day 9: 1.5h + 4h; day 10: 6h + 0.5h.
	if len(ss.DailyTotals) != 2 || !almostEqual(ss.DailyTotals[0], 5.5) || !almostEqual(ss.DailyTotals[1], 6.5) {
		t.Fatalf("unexpected daily totals %v", ss.DailyTotals)
	}
	if !almostEqual(ss.AvgDailyHours, 6) {
		t.Fatalf("unexpected daily average %v", ss.AvgDailyHours)
	}

	// A window covering the evening turns the 20:00 start into a nap.
	ss = AnalyzeSleepSessions(entries, model.DayWindow{StartMins: 600, EndMins: 1260}, now)
	if ss.NapCount != 3 || ss.OvernightCount != 0 {
		t.Fatalf("unexpected counts with custom window: %+v", ss)
	}
	if ss := AnalyzeSleepSessions(nil, model.DayWindow{}, now); ss != nil {
		t.Fatalf("expected nil without sessions")
	}
}
