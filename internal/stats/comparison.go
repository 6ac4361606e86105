package stats

import (
	"fmt"
	"math"

	"github.com/verte-zerg/tinytracker/internal/model"
)

// DefaultEvenEpsilon is the absolute delta below which today counts as on pace.
const DefaultEvenEpsilon = 0.05

// Pace directions.
const (
	DirectionAhead  = "ahead"
	DirectionBehind = "behind"
	DirectionEven   = "even"
)

// BuildComparison compares today's cumulative value with the historical average at
// bucket. It returns nil when there is no history, so callers can show an empty
// state instead of "0, on pace".
func BuildComparison(todayValue float64, avg *model.BucketAverage, bucket int, unit string, evenEpsilon float64) *model.Comparison {
	if avg == nil || avg.DaysUsed == 0 {
		return nil
	}
	if math.IsNaN(todayValue) || math.IsInf(todayValue, 0) {
		todayValue = 0
	}
	if !(evenEpsilon > 0) || math.IsInf(evenEpsilon, 0) {
		evenEpsilon = DefaultEvenEpsilon
	}
	return &model.Comparison{
		Delta:       todayValue - avg.At(bucket),
		Unit:        unit,
		EvenEpsilon: evenEpsilon,
	}
}

// Direction classifies a comparison as ahead, behind or even.
func Direction(c model.Comparison) string {
	switch {
	case math.Abs(c.Delta) < c.EvenEpsilon:
		return DirectionEven
	case c.Delta > 0:
		return DirectionAhead
	default:
		return DirectionBehind
	}
}

// FormatComparison renders a comparison the way the pace indicator shows it.
func FormatComparison(c *model.Comparison) string {
	if c == nil {
		return "no history yet"
	}
	switch Direction(*c) {
	case DirectionEven:
		return "= on pace"
	case DirectionAhead:
		return fmt.Sprintf("↑ %s ahead of pace", FormatAmount(math.Abs(c.Delta), c.Unit))
	default:
		return fmt.Sprintf("↓ %s behind pace", FormatAmount(math.Abs(c.Delta), c.Unit))
	}
}

// FormatAmount renders a value with its unit.
func FormatAmount(v float64, unit string) string {
	switch unit {
	case "hrs":
		mins := int(math.Round(v * 60))
		if mins < 60 {
			return fmt.Sprintf("%dm", mins)
		}
		return fmt.Sprintf("%dh %dm", mins/60, mins%60)
	case "foods":
		return fmt.Sprintf("%.1f foods", v)
	default:
		return fmt.Sprintf("%.1f %s", v, unit)
	}
}
