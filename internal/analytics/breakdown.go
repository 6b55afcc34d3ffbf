package analytics

import (
	"time"

	"github.com/castbook/castbook-api-go/internal/domain"
)

// MonthlyBreakdown buckets earnings into a fixed six-slot window spanning
// three calendar months before now through two months after. Slots are
// always present even when empty, labeled by month abbreviation, and ordered
// by the slot's underlying date, never by label, so two "Jan" slots a year
// apart cannot collide. Earnings outside the window are silently dropped.
//
// The two future slots are intentional chart padding: they are empty under
// normal data but the client renders them as the tail of the chart.
func MonthlyBreakdown(earnings []domain.JobEarning, now time.Time) []domain.MonthBucket {
	firstOfMonth := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())

	buckets := make([]domain.MonthBucket, 0, 6)
	for offset := -3; offset <= 2; offset++ {
		start := firstOfMonth.AddDate(0, offset, 0)
		bucket := domain.MonthBucket{
			Label: start.Format("Jan"),
			Start: start,
		}
		for _, e := range earnings {
			if e.Date.Year() == start.Year() && e.Date.Month() == start.Month() {
				bucket.Total += e.Amount
				bucket.JobCount++
				bucket.Jobs = append(bucket.Jobs, e)
			}
		}
		buckets = append(buckets, bucket)
	}
	return buckets
}
