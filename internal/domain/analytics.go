package domain

import "time"

// ============================================================
// Derived aggregates: engine output, recomputed on every call,
// never persisted.
// ============================================================

// AmountSummary holds the per-status payment totals.
// TotalIncome counts only received payments; Upcoming is
// pending + invoiced + partially_paid. Cancelled is tracked but
// excluded from every other total.
type AmountSummary struct {
	Pending       float64 `json:"pending"`
	Invoiced      float64 `json:"invoiced"`
	PartiallyPaid float64 `json:"partially_paid"`
	Received      float64 `json:"received"`
	Overdue       float64 `json:"overdue"`
	Cancelled     float64 `json:"cancelled"`
	TotalIncome   float64 `json:"total_income"`
	Upcoming      float64 `json:"upcoming"`
}

// JobEarning is one job's entry in the received-payments view: the summed
// amount of its received payments and the date the money is attributed to.
type JobEarning struct {
	JobID      string    `json:"job_id"`
	Title      string    `json:"title"`
	ClientName string    `json:"client_name"`
	Amount     float64   `json:"amount"`
	Date       time.Time `json:"date"`
}

// MonthBucket is one slot of the six-month chart window.
type MonthBucket struct {
	Label    string       `json:"label"` // month abbreviation, e.g. "Jan"
	Start    time.Time    `json:"start"` // first day of the month
	Total    float64      `json:"total"`
	JobCount int          `json:"job_count"`
	Jobs     []JobEarning `json:"jobs,omitempty"`
}

// SeriesPoint is one bucket of a chart series.
type SeriesPoint struct {
	Label  string  `json:"label"`
	Amount float64 `json:"amount"`
}

// DashboardSnapshot is the full aggregate view returned to the mobile client.
type DashboardSnapshot struct {
	UserID     string             `json:"user_id"`
	Summary    AmountSummary      `json:"summary"`
	Months     []MonthBucket      `json:"months"`
	Changes    map[string]float64 `json:"changes"` // granularity → percent change
	ComputedAt time.Time          `json:"computed_at"`
}

// SeriesResponse pairs a chart series with its suggested y-axis ceiling.
type SeriesResponse struct {
	Granularity string        `json:"granularity"`
	Points      []SeriesPoint `json:"points"`
	YAxisMax    float64       `json:"y_axis_max"`
}
