package stats

import (
	"testing"
	"time"

	"github.com/verte-zerg/tinytracker/internal/model"
)

func TestNormalizeSleepIntervalIdempotent(t *testing.T) {
	useZone(t, time.UTC)
	now := ms(10, 8, 0)
	// Start recorded as 22:00 "today" while it is 08:00: it belongs to yesterday.
	iv, ok := NormalizeSleepInterval(ms(10, 22, 0), ms(10, 6, 30), now)
	if !ok {
		t.Fatalf("expected interval to normalize")
	}
	if iv.StartMs != ms(9, 22, 0) || iv.EndMs != ms(10, 6, 30) {
		t.Fatalf("unexpected interval: %+v", iv)
	}
	again, ok := NormalizeSleepInterval(iv.StartMs, iv.EndMs, now)
	if !ok || again != iv {
		t.Fatalf("expected idempotent result, got %+v ok=%v", again, ok)
	}
}

func TestNormalizeSleepIntervalSecondCorrection(t *testing.T) {
	useZone(t, time.UTC)
	now := ms(10, 1, 0)
	// Start lands more than 3h ahead of now, and one day back still ends before it.
	iv, ok := NormalizeSleepInterval(ms(11, 23, 0), ms(10, 0, 30), now)
	if !ok {
		t.Fatalf("expected interval to normalize")
	}
	if iv.StartMs != ms(9, 23, 0) {
		t.Fatalf("expected start moved back two days, got %s", time.UnixMilli(iv.StartMs).UTC())
	}
}

func TestNormalizeSleepIntervalUnrecoverable(t *testing.T) {
	now := time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC).UnixMilli()
	if _, ok := NormalizeSleepInterval(now, now-100000, now); ok {
		t.Fatalf("expected inverted interval to be rejected")
	}
	if _, ok := NormalizeSleepInterval(0, now, now); ok {
		t.Fatalf("expected missing start to be rejected")
	}
}

func TestNormalizeSleepIntervalKeepsToleratedFutureStart(t *testing.T) {
	now := time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC).UnixMilli()
	start := now + 2*msPerHour
	iv, ok := NormalizeSleepInterval(start, start+msPerHour, now)
	if !ok || iv.StartMs != start {
		t.Fatalf("expected start within tolerance to be kept, got %+v ok=%v", iv, ok)
	}
}

func TestClassifyNapOvernightDefaultWindow(t *testing.T) {
	useZone(t, time.UTC)
	if got := ClassifyNapOvernight(ms(10, 13, 0), model.DayWindow{}); got != model.SleepNap {
		t.Fatalf("13:00 = %s, want NAP", got)
	}
	if got := ClassifyNapOvernight(ms(10, 2, 0), model.DayWindow{}); got != model.SleepOvernight {
		t.Fatalf("02:00 = %s, want OVERNIGHT", got)
	}
	if got := ClassifyNapOvernight(ms(10, 19, 30), DefaultDayWindow()); got != model.SleepNap {
		t.Fatalf("window end should be inclusive, got %s", got)
	}
}

func TestIsWithinWindowLocalWraps(t *testing.T) {
	cases := []struct {
		m, start, end int
		want          bool
	}{
		{600, 390, 1170, true},
		{100, 390, 1170, false},
		{1400, 1380, 300, true},
		{200, 1380, 300, true},
		{600, 1380, 300, false},
	}
	for _, tc := range cases {
		if got := IsWithinWindowLocal(tc.m, tc.start, tc.end); got != tc.want {
			t.Fatalf("IsWithinWindowLocal(%d, %d, %d) = %v, want %v", tc.m, tc.start, tc.end, got, tc.want)
		}
	}
}
