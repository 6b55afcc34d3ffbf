package analytics

import (
	"math"
	"time"

	"github.com/castbook/castbook-api-go/internal/domain"
)

// Series buckets earnings into a fixed-length chronological chart series:
// the last 7 days, 4 weeks, 6 months, or 3 years up to and including the
// period containing now. Empty buckets are kept so the series length never
// varies with the data. Unknown granularities fall back to the month series.
func Series(earnings []domain.JobEarning, now time.Time, granularity string) []domain.SeriesPoint {
	count := seriesLength(granularity)

	points := make([]domain.SeriesPoint, 0, count)
	for offset := -(count - 1); offset <= 0; offset++ {
		p := periodAt(now, seriesGranularity(granularity), offset)
		points = append(points, domain.SeriesPoint{
			Label:  seriesLabel(p.Start, seriesGranularity(granularity)),
			Amount: periodTotal(earnings, p),
		})
	}
	return points
}

// YAxisMax suggests a chart ceiling: 1.2x the series maximum rounded up to
// the nearest 1000, never below 1000.
func YAxisMax(points []domain.SeriesPoint) float64 {
	var max float64
	for _, p := range points {
		if p.Amount > max {
			max = p.Amount
		}
	}

	ceiling := math.Ceil(max*1.2/1000) * 1000
	if ceiling < 1000 {
		return 1000
	}
	return ceiling
}

func seriesLength(granularity string) int {
	switch granularity {
	case GranularityDay:
		return 7
	case GranularityWeek:
		return 4
	case GranularityYear:
		return 3
	default:
		return 6
	}
}

// seriesGranularity maps unknown values to the month series.
func seriesGranularity(granularity string) string {
	switch granularity {
	case GranularityDay, GranularityWeek, GranularityYear:
		return granularity
	default:
		return GranularityMonth
	}
}

func seriesLabel(start time.Time, granularity string) string {
	switch granularity {
	case GranularityDay:
		return start.Format("Mon")
	case GranularityWeek:
		return start.Format("Jan 02")
	case GranularityYear:
		return start.Format("2006")
	default:
		return start.Format("Jan")
	}
}
