package analytics_test

import (
	"testing"
	"time"

	"github.com/castbook/castbook-api-go/internal/analytics"
	"github.com/castbook/castbook-api-go/internal/domain"
)

func TestMonthlyBreakdown_AlwaysSixOrderedSlots(t *testing.T) {
	now := date(2026, 8, 15)

	buckets := analytics.MonthlyBreakdown(nil, now)

	if len(buckets) != 6 {
		t.Fatalf("expected 6 slots, got %d", len(buckets))
	}
	for i, b := range buckets {
		if b.Total != 0 || b.JobCount != 0 {
			t.Errorf("slot %d not empty: %+v", i, b)
		}
		if i > 0 && !buckets[i-1].Start.Before(b.Start) {
			t.Errorf("slots not in chronological order at %d", i)
		}
	}
	if buckets[0].Start != date(2026, 5, 1) {
		t.Errorf("first slot = %v, want May 1", buckets[0].Start)
	}
	if buckets[5].Start != date(2026, 10, 1) {
		t.Errorf("last slot = %v, want Oct 1", buckets[5].Start)
	}
}

func TestMonthlyBreakdown_AssignsByCalendarMonth(t *testing.T) {
	now := date(2026, 8, 15)
	earnings := []domain.JobEarning{
		{JobID: "j1", Amount: 100, Date: date(2026, 7, 3)},
		{JobID: "j2", Amount: 250, Date: date(2026, 7, 28)},
		{JobID: "j3", Amount: 80, Date: date(2026, 8, 1)},
	}

	buckets := analytics.MonthlyBreakdown(earnings, now)

	july := buckets[2]
	if july.Label != "Jul" {
		t.Fatalf("slot 2 label = %q, want Jul", july.Label)
	}
	if !almostEqual(july.Total, 350) {
		t.Errorf("july total = %v, want 350", july.Total)
	}
	if july.JobCount != 2 {
		t.Errorf("july job count = %d, want 2", july.JobCount)
	}

	august := buckets[3]
	if !almostEqual(august.Total, 80) || august.JobCount != 1 {
		t.Errorf("august = %+v, want total 80 / 1 job", august)
	}
}

func TestMonthlyBreakdown_DropsOutOfWindowEntries(t *testing.T) {
	now := date(2026, 8, 15)
	earnings := []domain.JobEarning{
		{JobID: "old", Amount: 999, Date: date(2026, 4, 30)},   // one day before window
		{JobID: "future", Amount: 888, Date: date(2026, 11, 1)}, // one day after window
	}

	buckets := analytics.MonthlyBreakdown(earnings, now)

	for _, b := range buckets {
		if b.Total != 0 {
			t.Errorf("expected all slots empty, slot %s has %v", b.Label, b.Total)
		}
	}
}

// A window spanning a year boundary must stay ordered by date even though
// month labels repeat across years.
func TestMonthlyBreakdown_YearBoundary(t *testing.T) {
	now := date(2026, 1, 20)

	buckets := analytics.MonthlyBreakdown(nil, now)

	if buckets[0].Start != date(2025, 10, 1) {
		t.Errorf("first slot = %v, want Oct 2025", buckets[0].Start)
	}
	if buckets[5].Start != date(2026, 3, 1) {
		t.Errorf("last slot = %v, want Mar 2026", buckets[5].Start)
	}
	if buckets[3].Label != "Jan" || buckets[3].Start.Year() != 2026 {
		t.Errorf("slot 3 = %s %d, want Jan 2026", buckets[3].Label, buckets[3].Start.Year())
	}
}

// The two future slots are intentional chart padding and must be present.
func TestMonthlyBreakdown_FuturePadding(t *testing.T) {
	now := date(2026, 8, 15)

	buckets := analytics.MonthlyBreakdown(nil, now)

	if buckets[4].Start != date(2026, 9, 1) || buckets[5].Start != date(2026, 10, 1) {
		t.Errorf("future slots = %v, %v; want Sep 1 and Oct 1", buckets[4].Start, buckets[5].Start)
	}
}

func TestMonthlyBreakdown_EndOfMonthNow(t *testing.T) {
	// Jan 31: naive month arithmetic would skid past short months.
	now := time.Date(2026, 1, 31, 23, 0, 0, 0, time.UTC)

	buckets := analytics.MonthlyBreakdown(nil, now)

	want := []time.Time{
		date(2025, 10, 1), date(2025, 11, 1), date(2025, 12, 1),
		date(2026, 1, 1), date(2026, 2, 1), date(2026, 3, 1),
	}
	for i, b := range buckets {
		if !b.Start.Equal(want[i]) {
			t.Errorf("slot %d start = %v, want %v", i, b.Start, want[i])
		}
	}
}
