package stats

import (
	"context"
	"fmt"
	"time"

	"github.com/verte-zerg/tinytracker/internal/model"
	"github.com/verte-zerg/tinytracker/internal/store"
)

// HistoryDays is how far back a report loads records.
const HistoryDays = 30

// Report contains precomputed data for pace rendering.
type Report struct {
	NowMs        int64
	TodayStartMs int64
	Bucket       int
	Paces        []ActivityPace
	ActiveSleep  *model.SleepSession
	Feeding      *FeedingPatterns
	Sleep        *SleepSummary
	DayWindow    model.DayWindow
}

// Pace returns the pace entry for an activity.
func (r Report) Pace(activity model.Activity) (ActivityPace, bool) {
	for _, p := range r.Paces {
		if p.Activity == activity {
			return p, true
		}
	}
	return ActivityPace{}, false
}

// LoadDataset reads the records a report needs from the store.
func LoadDataset(ctx context.Context, st *store.Store, nowMs int64) (Dataset, error) {
	since := time.UnixMilli(StartOfDayLocal(nowMs)).AddDate(0, 0, -HistoryDays).UnixMilli()
	var data Dataset
	var err error
	if data.Feedings, err = st.ListFeedings(ctx, since); err != nil {
		return Dataset{}, fmt.Errorf("failed to list feedings: %w", err)
	}
	if data.Nursing, err = st.ListNursing(ctx, since); err != nil {
		return Dataset{}, fmt.Errorf("failed to list nursing sessions: %w", err)
	}
	if data.Solids, err = st.ListSolids(ctx, since); err != nil {
		return Dataset{}, fmt.Errorf("failed to list solids: %w", err)
	}
	if data.Sleep, err = st.ListSleep(ctx, since); err != nil {
		return Dataset{}, fmt.Errorf("failed to list sleep sessions: %w", err)
	}
	if data.ActiveSleep, err = st.ActiveSleep(ctx); err != nil {
		return Dataset{}, fmt.Errorf("failed to load active sleep: %w", err)
	}
	return data, nil
}

// BuildReport loads records and prepares data for pace rendering.
func BuildReport(ctx context.Context, st *store.Store, cfg model.PaceConfig) (Report, error) {
	data, err := LoadDataset(ctx, st, cfg.NowMs)
	if err != nil {
		return Report{}, err
	}
	return BuildReportFrom(data, cfg), nil
}

// BuildReportFrom prepares a report from already loaded records.
func BuildReportFrom(data Dataset, cfg model.PaceConfig) Report {
	window := resolveDayWindow(cfg.DayWindow)
	return Report{
		NowMs:        cfg.NowMs,
		TodayStartMs: StartOfDayLocal(cfg.NowMs),
		Bucket:       ResolveBucket(cfg),
		Paces:        BuildPace(data, cfg),
		ActiveSleep:  data.ActiveSleep,
		Feeding:      AnalyzeAdvancedFeedingPatterns(data.Feedings),
		Sleep:        AnalyzeSleepSessions(data.Sleep, window, cfg.NowMs),
		DayWindow:    window,
	}
}
