// Package domain contains the plain records and value objects shared by all
// layers. Records are owned by the Supabase store; the analytics engine only
// reads them.
package domain

import "time"

// Payment statuses. A payment is in exactly one status at a time; the status
// is the single source of truth for which aggregate bucket its amount lands in.
const (
	PaymentPending       = "pending"
	PaymentInvoiced      = "invoiced"
	PaymentPartiallyPaid = "partially_paid"
	PaymentReceived      = "received"
	PaymentOverdue       = "overdue"
	PaymentCancelled     = "cancelled"
)

// PaymentStatuses lists every valid status, in display order.
var PaymentStatuses = []string{
	PaymentPending,
	PaymentInvoiced,
	PaymentPartiallyPaid,
	PaymentReceived,
	PaymentOverdue,
	PaymentCancelled,
}

// ValidPaymentStatus reports whether s is a known payment status.
func ValidPaymentStatus(s string) bool {
	for _, known := range PaymentStatuses {
		if s == known {
			return true
		}
	}
	return false
}

// Job represents a booked gig. FixedPrice is nil for hourly-rate jobs.
// Notes is free text and may embed a "Client:" marker used for best-effort
// client name extraction.
type Job struct {
	ID         string     `json:"id"`
	UserID     string     `json:"user_id"`
	Title      string     `json:"title"`
	AgencyID   string     `json:"agency_id,omitempty"`
	FixedPrice *float64   `json:"fixed_price,omitempty"`
	StartDate  *time.Time `json:"start_date,omitempty"`
	Notes      string     `json:"notes,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
}

// Payment represents money owed or collected for a job. PaidDate is set
// exactly when Status is "received".
type Payment struct {
	ID       string     `json:"id"`
	UserID   string     `json:"user_id"`
	JobID    string     `json:"job_id"`
	Amount   float64    `json:"amount"`
	DueDate  time.Time  `json:"due_date"`
	PaidDate *time.Time `json:"paid_date,omitempty"`
	Status   string     `json:"status"`
}

// Agency represents a booking agency a job can be associated with.
type Agency struct {
	ID            string    `json:"id"`
	UserID        string    `json:"user_id"`
	Name          string    `json:"name"`
	Email         string    `json:"email,omitempty"`
	CommissionPct float64   `json:"commission_pct"`
	CreatedAt     time.Time `json:"created_at"`
}
