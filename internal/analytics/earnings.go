package analytics

import (
	"strings"
	"time"

	"github.com/castbook/castbook-api-go/internal/domain"
)

// UnknownClient is the sentinel used when no client name can be extracted.
const UnknownClient = "Unknown Client"

// BuildEarnings derives the received-payments view: one entry per job that
// has at least one received payment. Jobs without received payments are
// dropped entirely; they contribute nothing to charts.
//
// The entry amount is the sum of the job's received payments (a job can have
// several; they are summed, not taken individually). The entry date is the
// most recent non-nil paid date among them, falling back to the job's start
// date, then to its creation timestamp. When several received payments share
// the latest paid date, the first one seen wins; input order is not a
// contract.
func BuildEarnings(jobs []domain.Job, payments []domain.Payment) []domain.JobEarning {
	received := make(map[string][]domain.Payment, len(jobs))
	for _, p := range payments {
		if p.Status == domain.PaymentReceived {
			received[p.JobID] = append(received[p.JobID], p)
		}
	}

	earnings := make([]domain.JobEarning, 0, len(received))
	for _, job := range jobs {
		ps := received[job.ID]
		if len(ps) == 0 {
			continue
		}

		var total float64
		var latest *time.Time
		for i := range ps {
			total += ps[i].Amount
			if ps[i].PaidDate == nil {
				continue
			}
			if latest == nil || ps[i].PaidDate.After(*latest) {
				latest = ps[i].PaidDate
			}
		}

		date := job.CreatedAt
		if latest != nil {
			date = *latest
		} else if job.StartDate != nil {
			date = *job.StartDate
		}

		earnings = append(earnings, domain.JobEarning{
			JobID:      job.ID,
			Title:      job.Title,
			ClientName: ExtractClientName(job.Title, job.Notes),
			Amount:     total,
			Date:       date,
		})
	}
	return earnings
}

// ExtractClientName pulls a client name out of unstructured job text.
// It tries the title first (text after the last "for "), then a "Client:"
// marker in the notes, and falls back to the UnknownClient sentinel.
// Best-effort by nature; both patterns come from how users actually write
// job titles ("Lookbook shoot for Acme") and notes ("Client: Acme Studios").
func ExtractClientName(title, notes string) string {
	if idx := strings.LastIndex(title, "for "); idx >= 0 {
		if name := strings.TrimSpace(title[idx+len("for "):]); name != "" {
			return name
		}
	}

	if idx := strings.Index(notes, "Client:"); idx >= 0 {
		rest := notes[idx+len("Client:"):]
		if nl := strings.IndexByte(rest, '\n'); nl >= 0 {
			rest = rest[:nl]
		}
		if name := strings.TrimSpace(rest); name != "" {
			return name
		}
	}

	return UnknownClient
}
