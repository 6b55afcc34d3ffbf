package analytics

import (
	"time"

	"github.com/castbook/castbook-api-go/internal/domain"
)

// Chart granularities. GranularityDefault compares the trailing 30 days
// against the 30 days before that.
const (
	GranularityDay     = "day"
	GranularityWeek    = "week"
	GranularityMonth   = "month"
	GranularityYear    = "year"
	GranularityDefault = "default"
)

// Granularities lists the values accepted by PercentChange.
var Granularities = []string{
	GranularityDay,
	GranularityWeek,
	GranularityMonth,
	GranularityYear,
	GranularityDefault,
}

// ValidGranularity reports whether g names a supported granularity.
func ValidGranularity(g string) bool {
	for _, known := range Granularities {
		if g == known {
			return true
		}
	}
	return false
}

// period is a half-open time range [Start, End).
type period struct {
	Start time.Time
	End   time.Time
}

func (p period) contains(t time.Time) bool {
	return !t.Before(p.Start) && t.Before(p.End)
}

// PercentChange compares the current period's received total against the
// most recent prior period that had a strictly positive total, walking
// backward period by period within a fixed bound (7 days, 4 weeks, 6 months,
// 3 years, or a single prior 30-day window in default mode). On a hit it
// returns (current-prior)/prior*100; with no positive prior period in the
// bound it returns 100 when the current total is positive and 0 otherwise.
//
// This is deliberately "change since the last positive period", not an
// adjacent-period delta: zero periods between two earnings are skipped, so a
// gap month does not zero out the indicator.
func PercentChange(earnings []domain.JobEarning, now time.Time, granularity string) float64 {
	current := periodAt(now, granularity, 0)
	lookback := lookbackBound(granularity)

	currentTotal := periodTotal(earnings, current)

	for back := 1; back <= lookback; back++ {
		prior := periodTotal(earnings, periodAt(now, granularity, -back))
		if prior > 0 {
			return (currentTotal - prior) / prior * 100
		}
	}

	if currentTotal > 0 {
		return 100
	}
	return 0
}

func lookbackBound(granularity string) int {
	switch granularity {
	case GranularityDay:
		return 7
	case GranularityWeek:
		return 4
	case GranularityMonth:
		return 6
	case GranularityYear:
		return 3
	default:
		return 1
	}
}

// periodAt returns the period `offset` steps away from the one containing
// now (offset 0 = current, negative = past).
func periodAt(now time.Time, granularity string, offset int) period {
	switch granularity {
	case GranularityDay:
		start := startOfDay(now).AddDate(0, 0, offset)
		return period{Start: start, End: start.AddDate(0, 0, 1)}
	case GranularityWeek:
		start := startOfWeek(now).AddDate(0, 0, 7*offset)
		return period{Start: start, End: start.AddDate(0, 0, 7)}
	case GranularityMonth:
		start := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location()).AddDate(0, offset, 0)
		return period{Start: start, End: start.AddDate(0, 1, 0)}
	case GranularityYear:
		start := time.Date(now.Year()+offset, time.January, 1, 0, 0, 0, 0, now.Location())
		return period{Start: start, End: start.AddDate(1, 0, 0)}
	default:
		// Trailing 30-day windows anchored at now.
		end := now.AddDate(0, 0, 30*offset)
		return period{Start: end.AddDate(0, 0, -30), End: end}
	}
}

func periodTotal(earnings []domain.JobEarning, p period) float64 {
	var total float64
	for _, e := range earnings {
		if p.contains(e.Date) {
			total += e.Amount
		}
	}
	return total
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// startOfWeek returns the Monday midnight of the week containing t.
func startOfWeek(t time.Time) time.Time {
	daysSinceMonday := (int(t.Weekday()) + 6) % 7
	return startOfDay(t).AddDate(0, 0, -daysSinceMonday)
}
