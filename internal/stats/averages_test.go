package stats

import (
	"math"
	"testing"
	"time"

	"github.com/verte-zerg/tinytracker/internal/model"
)

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestBuildFeedAvgBucketsEndToEnd(t *testing.T) {
	useZone(t, time.UTC)
	var entries []model.Feeding
	for day := 3; day <= 9; day++ {
		entries = append(entries,
			model.Feeding{Timestamp: ms(day, 8, 0), Ounces: 4},
			model.Feeding{Timestamp: ms(day, 14, 0), Ounces: 5},
		)
	}
	// Today's feeding must not leak into the average.
	entries = append(entries, model.Feeding{Timestamp: ms(10, 7, 0), Ounces: 10})

	avg := BuildFeedAvgBuckets(entries, ms(10, 0, 0))
	if avg == nil {
		t.Fatalf("expected average")
	}
	if avg.DaysUsed != 7 {
		t.Fatalf("expected 7 days, got %d", avg.DaysUsed)
	}
	at0815 := BucketIndexCeilFromMinutes(8*60 + 15)
	at1415 := BucketIndexCeilFromMinutes(14*60 + 15)
	if got := avg.At(at0815); !almostEqual(got, 4) {
		t.Fatalf("avg at 08:15 = %v, want 4", got)
	}
	if got := avg.At(at1415); !almostEqual(got, 9) {
		t.Fatalf("avg at 14:15 = %v, want 9", got)
	}
	if got := avg.At(BucketIndexCeilFromMinutes(7 * 60)); got != 0 {
		t.Fatalf("avg before first feeding = %v, want 0", got)
	}
}

func TestBuildFeedAvgBucketsCapsAtSevenDays(t *testing.T) {
	useZone(t, time.UTC)
	today := time.Date(2024, time.March, 25, 0, 0, 0, 0, time.UTC)
	var entries []model.Feeding
	for d := 1; d <= 20; d++ {
		// Older days feed more so the selection is visible in the average.
		at := today.AddDate(0, 0, -d).Add(9 * time.Hour)
		entries = append(entries, model.Feeding{Timestamp: at.UnixMilli(), Ounces: float64(d)})
	}
	avg := BuildFeedAvgBuckets(entries, today.UnixMilli())
	if avg == nil || avg.DaysUsed != 7 {
		t.Fatalf("expected 7 days used, got %+v", avg)
	}
	// Most recent seven days fed 1..7 oz.
	if got := avg.At(lastBucket); !almostEqual(got, 4) {
		t.Fatalf("expected mean of 1..7 = 4, got %v", got)
	}
}

func TestBuildFeedAvgBucketsNilWithoutHistory(t *testing.T) {
	useZone(t, time.UTC)
	if avg := BuildFeedAvgBuckets(nil, ms(10, 0, 0)); avg != nil {
		t.Fatalf("expected nil for empty input, got %+v", avg)
	}
	onlyToday := []model.Feeding{{Timestamp: ms(10, 9, 0), Ounces: 3}}
	if avg := BuildFeedAvgBuckets(onlyToday, ms(10, 0, 0)); avg != nil {
		t.Fatalf("expected nil when all entries are today, got %+v", avg)
	}
	bad := []model.Feeding{
		{Timestamp: ms(9, 9, 0), Ounces: math.NaN()},
		{Timestamp: ms(9, 10, 0), Ounces: -2},
		{Timestamp: 0, Ounces: 4},
	}
	if avg := BuildFeedAvgBuckets(bad, ms(10, 0, 0)); avg != nil {
		t.Fatalf("expected malformed entries to be skipped, got %+v", avg)
	}
}

func TestBuildFeedAvgBucketsFewerDays(t *testing.T) {
	useZone(t, time.UTC)
	entries := []model.Feeding{
		{Timestamp: ms(8, 8, 0), Ounces: 2},
		{Timestamp: ms(9, 8, 0), Ounces: 6},
	}
	avg := BuildFeedAvgBuckets(entries, ms(10, 0, 0))
	if avg == nil || avg.DaysUsed != 2 {
		t.Fatalf("expected 2 days used, got %+v", avg)
	}
	if got := avg.At(32); !almostEqual(got, 4) {
		t.Fatalf("expected average 4, got %v", got)
	}
}

func TestBuildNursingAndSolidsAvgBuckets(t *testing.T) {
	useZone(t, time.UTC)
	nursing := []model.NursingSession{
		{StartTime: ms(9, 6, 0), LeftDurationSec: 900, RightDurationSec: 900},
		{Timestamp: ms(9, 12, 0), StartTime: ms(9, 1, 0), LeftDurationSec: 1800},
		{Timestamp: ms(9, 13, 0)},
	}
	avg := BuildNursingAvgBuckets(nursing, ms(10, 0, 0))
	if avg == nil || avg.DaysUsed != 1 {
		t.Fatalf("expected one nursing day, got %+v", avg)
	}
	if got := avg.At(24); !almostEqual(got, 0.5) {
		t.Fatalf("nursing at 06:00 = %v, want 0.5", got)
	}
	if got := avg.At(4); got != 0 {
		t.Fatalf("timestamp should win over start time, got %v at 01:00", got)
	}
	if got := avg.At(48); !almostEqual(got, 1) {
		t.Fatalf("nursing at 12:00 = %v, want 1", got)
	}

	solids := []model.SolidsSession{
		{Timestamp: ms(9, 11, 50), Foods: []string{"apple", "pear"}},
		{Timestamp: ms(9, 17, 0)},
	}
	savg := BuildSolidsAvgBuckets(solids, ms(10, 0, 0))
	if savg == nil {
		t.Fatalf("expected solids average")
	}
	if got := savg.At(48); got != 2 {
		t.Fatalf("solids at 12:00 = %v, want 2", got)
	}
	if got := savg.At(lastBucket); got != 2 {
		t.Fatalf("empty meals should not count, got %v", got)
	}
}

func TestBuildSleepAvgBucketsDistributesAcrossDays(t *testing.T) {
	useZone(t, time.UTC)
	now := ms(10, 12, 0)
	entries := []model.SleepSession{
		// Overnight 22:00 -> 06:00 spans two days.
		{StartTime: ms(8, 22, 0), EndTime: ms(9, 6, 0)},
		// A nap from 13:10 to 13:40 crosses three slices.
		{StartTime: ms(9, 13, 10), EndTime: ms(9, 13, 40)},
		// Active and inverted sessions are skipped.
		{StartTime: ms(9, 15, 0)},
		{StartTime: ms(9, 18, 0), EndTime: ms(9, 17, 0)},
	}
	avg := BuildSleepAvgBucketsAt(entries, ms(10, 0, 0), now)
	if avg == nil {
		t.Fatalf("expected sleep average")
	}
	if avg.DaysUsed != 2 {
		t.Fatalf("expected 2 days, got %d", avg.DaysUsed)
	}
	// Day 8 holds 2h (22:00-24:00); day 9 holds 6h + 0.5h.
	if got := avg.At(lastBucket); !almostEqual(got, (2+6.5)/2) {
		t.Fatalf("daily average = %v, want 4.25", got)
	}
	// By 06:00 day 9 has slept 6h and day 8 nothing yet.
	if got := avg.At(24); !almostEqual(got, 3) {
		t.Fatalf("avg at 06:00 = %v, want 3", got)
	}
	// 13:10-13:15 lands on the 13:15 mark, the rest by 13:45.
	nap := 5.0 / 60
	if got := avg.At(53) - avg.At(52); !almostEqual(got, nap/2) {
		t.Fatalf("13:15 increment = %v, want %v", got, nap/2)
	}
	if got := avg.At(55) - avg.At(52); !almostEqual(got, 0.5/2) {
		t.Fatalf("nap increment = %v, want 0.25", got)
	}
}

func TestBuildSleepAvgBucketsClipsAtToday(t *testing.T) {
	useZone(t, time.UTC)
	entries := []model.SleepSession{{StartTime: ms(9, 23, 0), EndTime: ms(10, 5, 0)}}
	avg := BuildSleepAvgBucketsAt(entries, ms(10, 0, 0), ms(10, 9, 0))
	if avg == nil || avg.DaysUsed != 1 {
		t.Fatalf("expected one historical day, got %+v", avg)
	}
	if got := avg.At(lastBucket); !almostEqual(got, 1) {
		t.Fatalf("expected only the hour before midnight, got %v", got)
	}
}

func TestBuildSleepAvgBucketsDSTDayMatchesWallClock(t *testing.T) {
	loc, err := time.LoadLocation("America/New_York")
	if err != nil {
		t.Skipf("tzdata unavailable: %v", err)
	}
	useZone(t, loc)

	entries := []model.SleepSession{{StartTime: ms(10, 13, 0), EndTime: ms(10, 13, 30)}}
	avg := BuildSleepAvgBucketsAt(entries, ms(11, 0, 0), ms(11, 9, 0))
	if avg == nil || avg.DaysUsed != 1 {
		t.Fatalf("expected one day of history, got %+v", avg)
	}
	if avg.Buckets[52] != 0 || !almostEqual(avg.Buckets[54], 0.5) {
		t.Fatalf("13:00=%v 13:30=%v, want 0 and 0.5", avg.Buckets[52], avg.Buckets[54])
	}
}
