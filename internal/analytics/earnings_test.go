package analytics_test

import (
	"testing"
	"time"

	"github.com/castbook/castbook-api-go/internal/analytics"
	"github.com/castbook/castbook-api-go/internal/domain"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func datePtr(y int, m time.Month, d int) *time.Time {
	t := date(y, m, d)
	return &t
}

func TestBuildEarnings_DropsJobsWithoutReceivedPayments(t *testing.T) {
	jobs := []domain.Job{
		{ID: "j1", Title: "Runway show", CreatedAt: date(2026, 1, 1)},
		{ID: "j2", Title: "Catalog shoot", CreatedAt: date(2026, 1, 2)},
	}
	payments := []domain.Payment{
		pay("j1", 300, domain.PaymentPending, nil),
		pay("j2", 400, domain.PaymentReceived, datePtr(2026, 2, 1)),
	}

	earnings := analytics.BuildEarnings(jobs, payments)

	if len(earnings) != 1 {
		t.Fatalf("expected 1 earning, got %d", len(earnings))
	}
	if earnings[0].JobID != "j2" {
		t.Errorf("expected j2, got %s", earnings[0].JobID)
	}
}

func TestBuildEarnings_SumsMultipleReceivedPayments(t *testing.T) {
	jobs := []domain.Job{
		{ID: "j2", Title: "Campaign", CreatedAt: date(2026, 1, 1)},
	}
	payments := []domain.Payment{
		pay("j2", 50, domain.PaymentReceived, datePtr(2026, 3, 1)),
		pay("j2", 75, domain.PaymentReceived, datePtr(2026, 3, 15)),
	}

	earnings := analytics.BuildEarnings(jobs, payments)

	if len(earnings) != 1 {
		t.Fatalf("expected 1 earning, got %d", len(earnings))
	}
	if !almostEqual(earnings[0].Amount, 125) {
		t.Errorf("amount = %v, want 125", earnings[0].Amount)
	}
	if !earnings[0].Date.Equal(date(2026, 3, 15)) {
		t.Errorf("date = %v, want 2026-03-15", earnings[0].Date)
	}
}

func TestBuildEarnings_DateFallbacks(t *testing.T) {
	created := date(2026, 1, 10)
	start := datePtr(2026, 2, 20)

	tests := []struct {
		name string
		job  domain.Job
		paid *time.Time
		want time.Time
	}{
		{
			name: "paid date wins",
			job:  domain.Job{ID: "j1", StartDate: start, CreatedAt: created},
			paid: datePtr(2026, 3, 5),
			want: date(2026, 3, 5),
		},
		{
			name: "start date when no paid date",
			job:  domain.Job{ID: "j1", StartDate: start, CreatedAt: created},
			paid: nil,
			want: *start,
		},
		{
			name: "created at when nothing else",
			job:  domain.Job{ID: "j1", CreatedAt: created},
			paid: nil,
			want: created,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			payments := []domain.Payment{pay("j1", 100, domain.PaymentReceived, tc.paid)}
			earnings := analytics.BuildEarnings([]domain.Job{tc.job}, payments)
			if len(earnings) != 1 {
				t.Fatalf("expected 1 earning, got %d", len(earnings))
			}
			if !earnings[0].Date.Equal(tc.want) {
				t.Errorf("date = %v, want %v", earnings[0].Date, tc.want)
			}
		})
	}
}

func TestBuildEarnings_EmptyInputs(t *testing.T) {
	if got := analytics.BuildEarnings(nil, nil); len(got) != 0 {
		t.Errorf("expected empty view, got %d entries", len(got))
	}
}

func TestExtractClientName(t *testing.T) {
	tests := []struct {
		name  string
		title string
		notes string
		want  string
	}{
		{"from title", "Editorial shoot for Vogue", "", "Vogue"},
		{"last 'for' wins", "Stand-in for fitting for Acme Studio", "", "Acme Studio"},
		{"from notes marker", "Lookbook shoot", "Rate confirmed.\nClient: Maison Blanche\nInvoice sent.", "Maison Blanche"},
		{"title beats notes", "Shoot for Elle", "Client: Someone Else", "Elle"},
		{"trailing 'for' falls through to notes", "Waiting for ", "Client: Backup Co", "Backup Co"},
		{"fallback sentinel", "Test shoot", "no markers here", analytics.UnknownClient},
		{"empty everything", "", "", analytics.UnknownClient},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := analytics.ExtractClientName(tc.title, tc.notes); got != tc.want {
				t.Errorf("ExtractClientName(%q, %q) = %q, want %q", tc.title, tc.notes, got, tc.want)
			}
		})
	}
}
