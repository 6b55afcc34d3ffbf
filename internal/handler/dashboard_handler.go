package handler

import (
	"net/http"
	"time"

	"github.com/castbook/castbook-api-go/internal/analytics"
	"github.com/castbook/castbook-api-go/internal/service"

	"github.com/go-chi/chi/v5"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

// ============================================================
// Dashboard — /v1/users/{userId}/dashboard
// ============================================================

func dashboardHandler(svc *service.DashboardService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "GET /v1/users/{userId}/dashboard")
		defer span.End()

		userID := chi.URLParam(r, "userId")
		span.SetAttributes(attribute.String("user.id", userID))

		snapshot, err := svc.Snapshot(ctx, userID, time.Now())
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}

		writeJSON(w, http.StatusOK, snapshot)
	}
}

func dashboardSummaryHandler(svc *service.DashboardService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "GET /v1/users/{userId}/dashboard/summary")
		defer span.End()

		userID := chi.URLParam(r, "userId")

		summary, err := svc.Summary(ctx, userID, time.Now())
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}

		writeJSON(w, http.StatusOK, summary)
	}
}

func dashboardSeriesHandler(svc *service.DashboardService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "GET /v1/users/{userId}/dashboard/series")
		defer span.End()

		userID := chi.URLParam(r, "userId")
		granularity := r.URL.Query().Get("granularity")
		if granularity == "" {
			granularity = analytics.GranularityMonth
		}
		span.SetAttributes(attribute.String("granularity", granularity))

		series, err := svc.Series(ctx, userID, time.Now(), granularity)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}

		writeJSON(w, http.StatusOK, series)
	}
}

func dashboardChangeHandler(svc *service.DashboardService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "GET /v1/users/{userId}/dashboard/change")
		defer span.End()

		userID := chi.URLParam(r, "userId")
		granularity := r.URL.Query().Get("granularity")
		if granularity == "" {
			granularity = analytics.GranularityDefault
		}

		change, err := svc.Change(ctx, userID, time.Now(), granularity)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}

		writeJSON(w, http.StatusOK, map[string]any{
			"granularity":    granularity,
			"percent_change": change,
		})
	}
}
