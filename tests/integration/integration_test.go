package integration_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/castbook/castbook-api-go/internal/domain"
	"github.com/castbook/castbook-api-go/internal/handler"
	"github.com/castbook/castbook-api-go/internal/infra/cache"
	"github.com/castbook/castbook-api-go/internal/infra/observability"
	"github.com/castbook/castbook-api-go/internal/infra/resilience"
	"github.com/castbook/castbook-api-go/internal/infra/supabase"
	"github.com/castbook/castbook-api-go/internal/service"

	"go.uber.org/zap"
)

// mockPostgREST is an in-memory PostgREST lookalike, just enough of the
// filter syntax (col=eq.value, limit, order) to back the Supabase client.
type mockPostgREST struct {
	mu     sync.Mutex
	tables map[string][]map[string]any
}

func newMockPostgREST() *mockPostgREST {
	return &mockPostgREST{tables: map[string][]map[string]any{
		"jobs": {}, "payments": {}, "agencies": {},
	}}
}

func (m *mockPostgREST) handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		table := strings.TrimPrefix(r.URL.Path, "/rest/v1/")
		m.mu.Lock()
		defer m.mu.Unlock()

		rows, ok := m.tables[table]
		if !ok {
			http.NotFound(w, r)
			return
		}

		filters := map[string]string{}
		for key, vals := range r.URL.Query() {
			if key == "order" || key == "limit" || key == "select" {
				continue
			}
			if len(vals) > 0 && strings.HasPrefix(vals[0], "eq.") {
				filters[key] = strings.TrimPrefix(vals[0], "eq.")
			}
		}

		matches := func(row map[string]any) bool {
			for col, want := range filters {
				got, _ := row[col].(string)
				if got != want {
					return false
				}
			}
			return true
		}

		switch r.Method {
		case http.MethodGet:
			out := []map[string]any{}
			for _, row := range rows {
				if matches(row) {
					out = append(out, row)
				}
			}
			writeRows(w, out)

		case http.MethodPost:
			var row map[string]any
			json.NewDecoder(r.Body).Decode(&row)
			if _, ok := row["created_at"]; !ok {
				row["created_at"] = time.Now().UTC().Format(time.RFC3339)
			}
			m.tables[table] = append(rows, row)
			writeRows(w, []map[string]any{row})

		case http.MethodPatch:
			var updates map[string]any
			json.NewDecoder(r.Body).Decode(&updates)
			out := []map[string]any{}
			for i, row := range rows {
				if matches(row) {
					for k, v := range updates {
						row[k] = v
					}
					rows[i] = row
					out = append(out, row)
				}
			}
			writeRows(w, out)

		case http.MethodDelete:
			kept := []map[string]any{}
			for _, row := range rows {
				if !matches(row) {
					kept = append(kept, row)
				}
			}
			m.tables[table] = kept
			w.WriteHeader(http.StatusNoContent)
		}
	})
}

func writeRows(w http.ResponseWriter, rows []map[string]any) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(rows)
}

func newTestRouter(t *testing.T, backendURL string) http.Handler {
	t.Helper()

	logger := zap.NewNop()
	metrics := observability.NewMetrics()
	cb := resilience.NewCircuitBreaker("test")
	cfg := resilience.Config{MaxRetries: 1, InitialBackoff: 10 * time.Millisecond, MaxConcurrency: 10}
	httpClient := &http.Client{Timeout: 5 * time.Second}

	store := supabase.NewClient(httpClient, backendURL, "anon", "service", cb, cfg, logger)
	bookingSvc := service.NewBookingService(store, metrics, logger)
	dashboardSvc := service.NewDashboardService(
		store,
		cache.New[*domain.DashboardSnapshot](time.Minute),
		resilience.NewBulkhead(4),
		metrics,
		logger,
	)

	return handler.NewRouter(bookingSvc, dashboardSvc, metrics, "", logger)
}

func doJSON(t *testing.T, router http.Handler, method, path string, payload any) *httptest.ResponseRecorder {
	t.Helper()

	var body *bytes.Reader
	if payload != nil {
		raw, _ := json.Marshal(payload)
		body = bytes.NewReader(raw)
	} else {
		body = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, body)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

// TestIntegration_FullFlow creates a job and a payment against a mock
// PostgREST backend, marks the payment received, and checks the dashboard
// aggregates reflect the income.
func TestIntegration_FullFlow(t *testing.T) {
	backend := httptest.NewServer(newMockPostgREST().handler())
	defer backend.Close()

	router := newTestRouter(t, backend.URL)

	// --- Create a job ---
	rec := doJSON(t, router, http.MethodPost, "/v1/users/model-1/jobs", map[string]any{
		"title":       "Paris Editorial for Vogue",
		"fixed_price": 1200.0,
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create job: expected 201, got %d. Body: %s", rec.Code, rec.Body.String())
	}
	var job domain.Job
	if err := json.NewDecoder(rec.Body).Decode(&job); err != nil {
		t.Fatalf("decode job: %v", err)
	}
	if job.ID == "" {
		t.Fatal("expected job ID to be assigned")
	}

	// --- Create an invoiced payment ---
	rec = doJSON(t, router, http.MethodPost, "/v1/users/model-1/payments", map[string]any{
		"job_id": job.ID,
		"amount": 1200.0,
		"status": "invoiced",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create payment: expected 201, got %d. Body: %s", rec.Code, rec.Body.String())
	}
	var payment domain.Payment
	if err := json.NewDecoder(rec.Body).Decode(&payment); err != nil {
		t.Fatalf("decode payment: %v", err)
	}
	if payment.Status != "invoiced" {
		t.Errorf("expected invoiced payment, got %s", payment.Status)
	}

	// --- Dashboard before the money arrives ---
	rec = doJSON(t, router, http.MethodGet, "/v1/users/model-1/dashboard", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("dashboard: expected 200, got %d. Body: %s", rec.Code, rec.Body.String())
	}
	var before domain.DashboardSnapshot
	if err := json.NewDecoder(rec.Body).Decode(&before); err != nil {
		t.Fatalf("decode dashboard: %v", err)
	}
	if before.Summary.TotalIncome != 0 {
		t.Errorf("expected no income yet, got %f", before.Summary.TotalIncome)
	}
	if before.Summary.Upcoming != 1200 {
		t.Errorf("expected 1200 upcoming, got %f", before.Summary.Upcoming)
	}

	// --- Mark the payment received ---
	rec = doJSON(t, router, http.MethodPatch,
		"/v1/users/model-1/payments/"+payment.ID+"/status",
		map[string]any{"status": "received"},
	)
	if rec.Code != http.StatusOK {
		t.Fatalf("status change: expected 200, got %d. Body: %s", rec.Code, rec.Body.String())
	}
	var received domain.Payment
	if err := json.NewDecoder(rec.Body).Decode(&received); err != nil {
		t.Fatalf("decode payment: %v", err)
	}
	if received.Status != "received" {
		t.Errorf("expected received, got %s", received.Status)
	}
	if received.PaidDate == nil {
		t.Error("marking received must stamp the paid date")
	}

	// --- Dashboard after (cache was invalidated by the mutation) ---
	rec = doJSON(t, router, http.MethodGet, "/v1/users/model-1/dashboard", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("dashboard: expected 200, got %d. Body: %s", rec.Code, rec.Body.String())
	}
	var after domain.DashboardSnapshot
	if err := json.NewDecoder(rec.Body).Decode(&after); err != nil {
		t.Fatalf("decode dashboard: %v", err)
	}
	if after.Summary.TotalIncome != 1200 {
		t.Errorf("expected 1200 income, got %f", after.Summary.TotalIncome)
	}
	if after.Summary.Upcoming != 0 {
		t.Errorf("expected no upcoming after receipt, got %f", after.Summary.Upcoming)
	}
	if len(after.Months) != 6 {
		t.Errorf("expected 6 month slots, got %d", len(after.Months))
	}

	// The earning lands in the current-month slot.
	var windowTotal float64
	for _, m := range after.Months {
		windowTotal += m.Total
	}
	if windowTotal != 1200 {
		t.Errorf("expected month window total 1200, got %f", windowTotal)
	}

	// --- Chart series ---
	rec = doJSON(t, router, http.MethodGet, "/v1/users/model-1/dashboard/series?granularity=month", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("series: expected 200, got %d. Body: %s", rec.Code, rec.Body.String())
	}
	var series domain.SeriesResponse
	if err := json.NewDecoder(rec.Body).Decode(&series); err != nil {
		t.Fatalf("decode series: %v", err)
	}
	if len(series.Points) != 6 {
		t.Errorf("expected 6 series points, got %d", len(series.Points))
	}
	if series.YAxisMax != 2000 {
		t.Errorf("expected y-axis max 2000, got %f", series.YAxisMax)
	}
}

// TestIntegration_CancelledIsTerminal verifies the transition rule end to end.
func TestIntegration_CancelledIsTerminal(t *testing.T) {
	backend := httptest.NewServer(newMockPostgREST().handler())
	defer backend.Close()

	router := newTestRouter(t, backend.URL)

	rec := doJSON(t, router, http.MethodPost, "/v1/users/model-1/jobs", map[string]any{
		"title": "Lookbook for Zara",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create job: expected 201, got %d", rec.Code)
	}
	var job domain.Job
	json.NewDecoder(rec.Body).Decode(&job)

	rec = doJSON(t, router, http.MethodPost, "/v1/users/model-1/payments", map[string]any{
		"job_id": job.ID,
		"amount": 300.0,
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create payment: expected 201, got %d. Body: %s", rec.Code, rec.Body.String())
	}
	var payment domain.Payment
	json.NewDecoder(rec.Body).Decode(&payment)

	rec = doJSON(t, router, http.MethodPatch,
		"/v1/users/model-1/payments/"+payment.ID+"/status",
		map[string]any{"status": "cancelled"},
	)
	if rec.Code != http.StatusOK {
		t.Fatalf("cancel: expected 200, got %d. Body: %s", rec.Code, rec.Body.String())
	}

	rec = doJSON(t, router, http.MethodPatch,
		"/v1/users/model-1/payments/"+payment.ID+"/status",
		map[string]any{"status": "pending"},
	)
	if rec.Code != http.StatusUnprocessableEntity {
		t.Errorf("expected 422 reviving a cancelled payment, got %d. Body: %s", rec.Code, rec.Body.String())
	}
}
