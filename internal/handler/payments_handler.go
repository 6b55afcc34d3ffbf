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
// Payments — /v1/users/{userId}/payments
// ============================================================

type paymentRequest struct {
	JobID    string  `json:"job_id"`
	Amount   float64 `json:"amount"`
	DueDate  string  `json:"due_date,omitempty"`
	PaidDate string  `json:"paid_date,omitempty"`
	Status   string  `json:"status,omitempty"`
}

type statusChangeRequest struct {
	Status   string `json:"status"`
	PaidDate string `json:"paid_date,omitempty"`
}

func parseDateField(value string) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	t, err := time.Parse("2006-01-02", value)
	if err != nil {
		t, err = time.Parse(time.RFC3339, value)
		if err != nil {
			return nil, err
		}
	}
	return &t, nil
}

func listPaymentsHandler(svc *service.BookingService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "GET /v1/users/{userId}/payments")
		defer span.End()

		userID := chi.URLParam(r, "userId")
		status := r.URL.Query().Get("status")
		span.SetAttributes(attribute.String("user.id", userID))

		payments, err := svc.ListPayments(ctx, userID, status)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}

		writeJSON(w, http.StatusOK, map[string]any{"payments": payments, "count": len(payments)})
	}
}

func createPaymentHandler(svc *service.BookingService, dashboardSvc *service.DashboardService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "POST /v1/users/{userId}/payments")
		defer span.End()

		userID := chi.URLParam(r, "userId")

		var req paymentRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		dueDate, err := parseDateField(req.DueDate)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid due_date")
			return
		}
		paidDate, err := parseDateField(req.PaidDate)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid paid_date")
			return
		}

		payment := &domain.Payment{
			UserID:   userID,
			JobID:    req.JobID,
			Amount:   req.Amount,
			PaidDate: paidDate,
			Status:   req.Status,
		}
		if dueDate != nil {
			payment.DueDate = *dueDate
		}

		created, err := svc.CreatePayment(ctx, payment)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}

		dashboardSvc.InvalidateUser(userID)
		writeJSON(w, http.StatusCreated, created)
	}
}

func changePaymentStatusHandler(svc *service.BookingService, dashboardSvc *service.DashboardService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "PATCH /v1/users/{userId}/payments/{paymentId}/status")
		defer span.End()

		userID := chi.URLParam(r, "userId")
		paymentID := chi.URLParam(r, "paymentId")

		var req statusChangeRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		if req.Status == "" {
			writeError(w, http.StatusBadRequest, "status is required")
			return
		}

		paidDate, err := parseDateField(req.PaidDate)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid paid_date")
			return
		}

		updated, err := svc.ChangePaymentStatus(ctx, userID, paymentID, req.Status, paidDate)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}

		dashboardSvc.InvalidateUser(userID)
		writeJSON(w, http.StatusOK, updated)
	}
}
