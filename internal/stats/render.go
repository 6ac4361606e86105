package stats

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/verte-zerg/tinytracker/internal/model"
)

// ActivityTitle returns the display name of an activity.
func ActivityTitle(a model.Activity) string {
	switch a {
	case model.ActivityFeeding:
		return "Feeding"
	case model.ActivityNursing:
		return "Nursing"
	case model.ActivitySolids:
		return "Solids"
	case model.ActivitySleep:
		return "Sleep"
	default:
		return string(a)
	}
}

// RenderPace prints today's pace for every activity.
func RenderPace(w io.Writer, r Report) error {
	if _, err := fmt.Fprintf(w, "Pace as of %s\n", BucketLabel(r.Bucket)); err != nil {
		return err
	}
	headers := []string{"Activity", "Today", "Avg", "Days", "Pace"}
	rows := make([][]string, 0, len(r.Paces))
	for _, p := range r.Paces {
		avg := "-"
		days := "0"
		if p.Average != nil {
			avg = FormatAmount(p.AverageAt(r.Bucket), p.Unit)
			days = fmt.Sprintf("%d", p.Average.DaysUsed)
		}
		rows = append(rows, []string{
			ActivityTitle(p.Activity),
			FormatAmount(p.Today, p.Unit),
			avg,
			days,
			FormatComparison(p.Comparison),
		})
	}
	for _, line := range formatTable(headers, rows, map[int]bool{1: true, 2: true, 3: true}) {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	if r.ActiveSleep != nil {
		if _, err := fmt.Fprintln(w, ActiveSleepLine(*r.ActiveSleep, r.NowMs)); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintln(w, "")
	return err
}

// ActiveSleepLine describes an in-progress sleep session.
func ActiveSleepLine(s model.SleepSession, nowMs int64) string {
	start := normalizeActiveStart(s.StartTime, nowMs)
	elapsed := float64(max(0, nowMs-start)) / float64(msPerHour)
	return fmt.Sprintf("Sleeping since %s (%s)", time.UnixMilli(start).In(time.Local).Format("15:04"), FormatAmount(elapsed, "hrs"))
}

// RenderPaceCurve plots today's cumulative curve against the trailing average.
func RenderPaceCurve(w io.Writer, p ActivityPace, totalWidth, height int, useColor bool) error {
	series := []Series{{Name: "Today", Values: p.TodaySeries[:]}}
	if p.Average != nil {
		series = append(series, Series{
			Name:   fmt.Sprintf("%d-day avg", p.Average.DaysUsed),
			Values: p.Average.Buckets[:],
		})
	}
	width := 0
	if totalWidth > 0 {
		width = PlotWidthFor(totalWidth)
	}
	title := fmt.Sprintf("%s (%s, cumulative)", ActivityTitle(p.Activity), p.Unit)
	return PlotSeriesWithOptions(w, title, series, PlotOptions{
		Width:       width,
		Height:      height,
		ForceColor:  useColor,
		SharedScale: true,
	})
}

// RenderSummary prints feeding patterns and sleep summaries.
func RenderSummary(w io.Writer, r Report) error {
	if err := RenderFeedingPatterns(w, r.Feeding); err != nil {
		return err
	}
	return RenderSleepSummary(w, r.Sleep, r.DayWindow)
}

// smoothingDays is the moving-average window for the smoothed daily sparklines.
const smoothingDays = 3

// RenderFeedingPatterns prints the feeding pattern table.
func RenderFeedingPatterns(w io.Writer, fp *FeedingPatterns) error {
	if fp == nil {
		_, err := fmt.Fprint(w, "No feedings found.\n\n")
		return err
	}
	if _, err := fmt.Fprintln(w, "Feeding Patterns"); err != nil {
		return err
	}
	rows := [][]string{
		{"Feedings", fmt.Sprintf("%d", fp.Count)},
		{"Avg per feed", FormatAmount(fp.AvgOuncesPerFeed, "oz")},
		{"Avg interval", FormatAmount(fp.AvgIntervalHours, "hrs")},
		{"Morning", fmt.Sprintf("%.0f%%", fp.MorningPct)},
		{"Afternoon", fmt.Sprintf("%.0f%%", fp.AfternoonPct)},
		{"Evening", fmt.Sprintf("%.0f%%", fp.EveningPct)},
		{"Night", fmt.Sprintf("%.0f%%", fp.NightPct)},
		{"Daily totals", Sparkline(fp.DailyTotals)},
		{"Smoothed", Sparkline(MovingAverage(fp.DailyTotals, smoothingDays))},
		{"Amount trend", fmt.Sprintf("%+.2f oz/day %s", fp.AmountTrend, trendArrow(fp.AmountTrend))},
		{"Mid-day timing", fmt.Sprintf("%+.1f min/day %s", fp.MidDayTimeTrend, timingWord(fp.MidDayTimeTrend))},
	}
	return writeKeyValueTable(w, rows)
}

// RenderSleepSummary prints the nap/overnight table.
func RenderSleepSummary(w io.Writer, ss *SleepSummary, window model.DayWindow) error {
	if ss == nil {
		_, err := fmt.Fprint(w, "No sleep sessions found.\n\n")
		return err
	}
	header := fmt.Sprintf("Sleep (day window %s-%s)", minutesLabel(window.StartMins), minutesLabel(window.EndMins))
	if _, err := fmt.Fprintln(w, header); err != nil {
		return err
	}
	rows := [][]string{
		{"Naps", fmt.Sprintf("%d", ss.NapCount)},
		{"Avg nap", FormatAmount(ss.AvgNapHours, "hrs")},
		{"Overnight", fmt.Sprintf("%d", ss.OvernightCount)},
		{"Avg overnight", FormatAmount(ss.AvgOvernightHours, "hrs")},
		{"Avg per day", FormatAmount(ss.AvgDailyHours, "hrs")},
		{"Longest stretch", FormatAmount(ss.LongestStretchHours, "hrs")},
		{"Daily totals", Sparkline(ss.DailyTotals)},
		{"Smoothed", Sparkline(MovingAverage(ss.DailyTotals, smoothingDays))},
		{"Daily trend", fmt.Sprintf("%+.2f hrs/day %s", ss.DailyTrend, trendArrow(ss.DailyTrend))},
	}
	return writeKeyValueTable(w, rows)
}

func writeKeyValueTable(w io.Writer, rows [][]string) error {
	for _, line := range formatTable(nil, rows, nil) {
		if _, err := fmt.Fprintln(w, "  "+strings.TrimRight(line, " ")); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintln(w, "")
	return err
}

func trendArrow(slope float64) string {
	switch {
	case slope > trendEpsilon:
		return "↑"
	case slope < -trendEpsilon:
		return "↓"
	default:
		return "→"
	}
}

func timingWord(slope float64) string {
	switch {
	case slope > trendEpsilon:
		return "(later)"
	case slope < -trendEpsilon:
		return "(earlier)"
	default:
		return "(steady)"
	}
}

const trendEpsilon = 0.01

func minutesLabel(mins int) string {
	return fmt.Sprintf("%02d:%02d", mins/60, mins%60)
}
