package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/castbook/castbook-api-go/internal/domain"
	"github.com/castbook/castbook-api-go/internal/service"

	"github.com/go-chi/chi/v5"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

// ============================================================
// Jobs — /v1/users/{userId}/jobs
// ============================================================

type jobRequest struct {
	Title      string   `json:"title"`
	AgencyID   string   `json:"agency_id,omitempty"`
	FixedPrice *float64 `json:"fixed_price,omitempty"`
	StartDate  string   `json:"start_date,omitempty"`
	Notes      string   `json:"notes,omitempty"`
}

func (req *jobRequest) toDomain(userID, jobID string) (*domain.Job, error) {
	job := &domain.Job{
		ID:         jobID,
		UserID:     userID,
		Title:      req.Title,
		AgencyID:   req.AgencyID,
		FixedPrice: req.FixedPrice,
		Notes:      req.Notes,
	}
	if req.StartDate != "" {
		t, err := time.Parse("2006-01-02", req.StartDate)
		if err != nil {
			t, err = time.Parse(time.RFC3339, req.StartDate)
			if err != nil {
				return nil, err
			}
		}
		job.StartDate = &t
	}
	return job, nil
}

func listJobsHandler(svc *service.BookingService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "GET /v1/users/{userId}/jobs")
		defer span.End()

		userID := chi.URLParam(r, "userId")
		span.SetAttributes(attribute.String("user.id", userID))

		jobs, err := svc.ListJobs(ctx, userID)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}

		writeJSON(w, http.StatusOK, map[string]any{"jobs": jobs, "count": len(jobs)})
	}
}

func getJobHandler(svc *service.BookingService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "GET /v1/users/{userId}/jobs/{jobId}")
		defer span.End()

		userID := chi.URLParam(r, "userId")
		jobID := chi.URLParam(r, "jobId")

		job, err := svc.GetJob(ctx, userID, jobID)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}

		writeJSON(w, http.StatusOK, job)
	}
}

func createJobHandler(svc *service.BookingService, dashboardSvc *service.DashboardService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "POST /v1/users/{userId}/jobs")
		defer span.End()

		userID := chi.URLParam(r, "userId")

		var req jobRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		job, err := req.toDomain(userID, "")
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid start_date")
			return
		}

		created, err := svc.CreateJob(ctx, job)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}

		dashboardSvc.InvalidateUser(userID)
		writeJSON(w, http.StatusCreated, created)
	}
}

func updateJobHandler(svc *service.BookingService, dashboardSvc *service.DashboardService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "PUT /v1/users/{userId}/jobs/{jobId}")
		defer span.End()

		userID := chi.URLParam(r, "userId")
		jobID := chi.URLParam(r, "jobId")

		var req jobRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		job, err := req.toDomain(userID, jobID)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid start_date")
			return
		}

		updated, err := svc.UpdateJob(ctx, job)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}

		dashboardSvc.InvalidateUser(userID)
		writeJSON(w, http.StatusOK, updated)
	}
}

func deleteJobHandler(svc *service.BookingService, dashboardSvc *service.DashboardService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "DELETE /v1/users/{userId}/jobs/{jobId}")
		defer span.End()

		userID := chi.URLParam(r, "userId")
		jobID := chi.URLParam(r, "jobId")

		if err := svc.DeleteJob(ctx, userID, jobID); err != nil {
			handleServiceError(w, err, logger)
			return
		}

		dashboardSvc.InvalidateUser(userID)
		w.WriteHeader(http.StatusNoContent)
	}
}

func listJobPaymentsHandler(svc *service.BookingService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "GET /v1/users/{userId}/jobs/{jobId}/payments")
		defer span.End()

		userID := chi.URLParam(r, "userId")
		jobID := chi.URLParam(r, "jobId")

		payments, err := svc.ListPaymentsByJob(ctx, userID, jobID)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}

		writeJSON(w, http.StatusOK, map[string]any{"payments": payments, "count": len(payments)})
	}
}
