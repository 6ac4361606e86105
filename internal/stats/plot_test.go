package stats

import (
	"bytes"
	"strings"
	"testing"

	"github.com/verte-zerg/tinytracker/internal/model"
)

func TestPlotSeriesPerSeriesScale(t *testing.T) {
	var buf bytes.Buffer
	err := PlotSeriesWithOptions(&buf, "Test Plot", []Series{
		{Name: "A", Values: []float64{1, 2, 3, 2, 1}},
		{Name: "B", Values: []float64{1, 1, 2, 3, 4}},
	}, PlotOptions{Width: 5, Height: 4})
	if err != nil {
		t.Fatalf("PlotSeriesWithOptions failed: %v", err)
	}
	out := buf.String()
	for _, want := range []string{"Test Plot", scaleNote, "Legend:", "100%"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in output:\n%s", want, out)
		}
	}
}

func TestRenderPaceCurveSharedScale(t *testing.T) {
	p := ActivityPace{Activity: model.ActivityFeeding, Unit: "oz"}
	avg := &model.BucketAverage{DaysUsed: 7}
	for i := range p.TodaySeries {
		p.TodaySeries[i] = float64(i) / 10
		avg.Buckets[i] = float64(i) / 8
	}
	p.Average = avg

	var buf bytes.Buffer
	// Wide enough for one column per bucket.
	total := model.BucketCount + axisLabelWidth + 3
	if err := RenderPaceCurve(&buf, p, total, 6, false); err != nil {
		t.Fatalf("RenderPaceCurve failed: %v", err)
	}
	out := buf.String()
	for _, want := range []string{"Feeding (oz, cumulative)", "min=0.00 max=11.88", "Today", "7-day avg"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in output:\n%s", want, out)
		}
	}
	if strings.Contains(out, scaleNote) {
		t.Fatalf("shared scale plot should not print the per-series note")
	}
	lines := strings.Split(strings.TrimSpace(out), "\n")
	// title, range, 6 plot rows, legend
	if len(lines) != 9 {
		t.Fatalf("expected 9 lines, got %d:\n%s", len(lines), out)
	}
	if !strings.HasPrefix(lines[2], " 11.9 │ ") {
		t.Fatalf("unexpected top axis label: %q", lines[2])
	}
}

func TestRenderPaceCurveWithoutHistory(t *testing.T) {
	p := ActivityPace{Activity: model.ActivitySleep, Unit: "hrs"}
	p.TodaySeries[95] = 2
	var buf bytes.Buffer
	if err := RenderPaceCurve(&buf, p, 40, 4, false); err != nil {
		t.Fatalf("RenderPaceCurve failed: %v", err)
	}
	if strings.Contains(buf.String(), "avg") {
		t.Fatalf("expected no average series without history:\n%s", buf.String())
	}
}
