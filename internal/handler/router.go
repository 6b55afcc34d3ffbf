package handler

import (
	"net/http"
	"time"

	"github.com/castbook/castbook-api-go/internal/domain"
	"github.com/castbook/castbook-api-go/internal/infra/observability"
	"github.com/castbook/castbook-api-go/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"
	"go.uber.org/zap"
)

var tracer = otel.Tracer("handler")

// NewRouter creates the HTTP router with all routes and middleware.
// Routes follow the API contract defined for the Castbook mobile client.
func NewRouter(bookingSvc *service.BookingService, dashboardSvc *service.DashboardService, metrics *observability.Metrics, jwtSecret string, logger *zap.Logger) http.Handler {
	r := chi.NewRouter()

	// --- Middleware ---
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(observability.ZapLoggerMiddleware(logger))
	r.Use(observability.TracingMiddleware)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Heartbeat("/ping"))

	// --- Operational endpoints ---
	r.Get("/healthz", healthzHandler(bookingSvc, logger))
	r.Get("/readyz", readyzHandler())
	r.Handle("/metrics", promhttp.HandlerFor(metrics.Registry, promhttp.HandlerOpts{}))

	// --- API v1 ---
	r.Route("/v1", func(r chi.Router) {

		// =============================================
		// Usage metrics
		// GET /v1/metrics/usage
		// =============================================
		r.Get("/metrics/usage", usageMetricsHandler(metrics, logger))

		// =============================================
		// Per-user resources (JWT-protected when configured)
		// =============================================
		r.Route("/users/{userId}", func(r chi.Router) {
			r.Use(JWTAuthMiddleware(jwtSecret, logger))

			// Jobs
			r.Get("/jobs", listJobsHandler(bookingSvc, logger))
			r.Post("/jobs", createJobHandler(bookingSvc, dashboardSvc, logger))
			r.Get("/jobs/{jobId}", getJobHandler(bookingSvc, logger))
			r.Put("/jobs/{jobId}", updateJobHandler(bookingSvc, dashboardSvc, logger))
			r.Delete("/jobs/{jobId}", deleteJobHandler(bookingSvc, dashboardSvc, logger))
			r.Get("/jobs/{jobId}/payments", listJobPaymentsHandler(bookingSvc, logger))

			// Payments
			r.Get("/payments", listPaymentsHandler(bookingSvc, logger))
			r.Post("/payments", createPaymentHandler(bookingSvc, dashboardSvc, logger))
			r.Patch("/payments/{paymentId}/status", changePaymentStatusHandler(bookingSvc, dashboardSvc, logger))

			// Agencies
			r.Get("/agencies", listAgenciesHandler(bookingSvc, logger))
			r.Post("/agencies", createAgencyHandler(bookingSvc, logger))
			r.Delete("/agencies/{agencyId}", deleteAgencyHandler(bookingSvc, logger))

			// Dashboard
			r.Get("/dashboard", dashboardHandler(dashboardSvc, logger))
			r.Get("/dashboard/summary", dashboardSummaryHandler(dashboardSvc, logger))
			r.Get("/dashboard/series", dashboardSeriesHandler(dashboardSvc, logger))
			r.Get("/dashboard/change", dashboardChangeHandler(dashboardSvc, logger))
		})
	})

	return r
}

// ============================================================
// Operational endpoints
// ============================================================

func healthzHandler(bookingSvc *service.BookingService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		now := time.Now().Format(time.RFC3339)

		services := []domain.ServiceHealth{
			{Name: "castbook-api", Status: "healthy", LatencyMs: 0, UptimePercent: 99.99, LastChecked: now},
		}

		if bookingSvc != nil {
			start := time.Now()
			_, err := bookingSvc.ListJobs(ctx, "health-check")
			latency := time.Since(start).Milliseconds()
			status := "healthy"
			if err != nil {
				status = "degraded"
			}
			services = append(services, domain.ServiceHealth{
				Name: "supabase", Status: status, LatencyMs: latency,
				UptimePercent: 99.9, LastChecked: now,
			})
		}

		overallStatus := "healthy"
		for _, s := range services {
			if s.Status == "unhealthy" {
				overallStatus = "unhealthy"
				break
			}
			if s.Status == "degraded" {
				overallStatus = "degraded"
			}
		}

		writeJSON(w, http.StatusOK, domain.HealthStatus{
			Status:    overallStatus,
			Timestamp: now,
			Services:  services,
		})
	}
}

func readyzHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
	}
}

func usageMetricsHandler(metrics *observability.Metrics, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, metrics.GetUsageSnapshot())
	}
}
