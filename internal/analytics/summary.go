// Package analytics is the amount-aggregation engine: pure, stateless
// functions over in-memory job and payment slices. Every operation takes the
// reference time explicitly and performs no I/O, so results depend only on
// the inputs. Callers recompute from scratch whenever source data changes.
package analytics

import "github.com/castbook/castbook-api-go/internal/domain"

// CategorizeAmounts partitions payments into the six status buckets and sums
// the amount per bucket. TotalIncome is strictly the received bucket;
// Upcoming is pending + invoiced + partially_paid. Cancelled is tracked but
// contributes to no other total. An empty input yields all-zero buckets.
func CategorizeAmounts(payments []domain.Payment) domain.AmountSummary {
	var s domain.AmountSummary
	for _, p := range payments {
		switch p.Status {
		case domain.PaymentPending:
			s.Pending += p.Amount
		case domain.PaymentInvoiced:
			s.Invoiced += p.Amount
		case domain.PaymentPartiallyPaid:
			s.PartiallyPaid += p.Amount
		case domain.PaymentReceived:
			s.Received += p.Amount
		case domain.PaymentOverdue:
			s.Overdue += p.Amount
		case domain.PaymentCancelled:
			s.Cancelled += p.Amount
		}
	}
	s.TotalIncome = s.Received
	s.Upcoming = s.Pending + s.Invoiced + s.PartiallyPaid
	return s
}
