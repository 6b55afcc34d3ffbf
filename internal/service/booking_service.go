package service

import (
	"context"
	"time"

	"github.com/castbook/castbook-api-go/internal/domain"
	"github.com/castbook/castbook-api-go/internal/infra/observability"
	"github.com/castbook/castbook-api-go/internal/port"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.uber.org/zap"
)

var bookingTracer = otel.Tracer("service/booking")

// BookingService owns the jobs/payments/agencies operations, including
// payment status transitions. The analytics engine never mutates payments;
// every status change goes through here.
type BookingService struct {
	store   port.BookingStore
	metrics *observability.Metrics
	logger  *zap.Logger
}

// NewBookingService creates the booking service.
func NewBookingService(store port.BookingStore, metrics *observability.Metrics, logger *zap.Logger) *BookingService {
	return &BookingService{
		store:   store,
		metrics: metrics,
		logger:  logger,
	}
}

// ============================================================
// Jobs
// ============================================================

func (s *BookingService) ListJobs(ctx context.Context, userID string) ([]domain.Job, error) {
	ctx, span := bookingTracer.Start(ctx, "BookingService.ListJobs")
	defer span.End()

	return s.store.ListJobs(ctx, userID)
}

func (s *BookingService) GetJob(ctx context.Context, userID, jobID string) (*domain.Job, error) {
	ctx, span := bookingTracer.Start(ctx, "BookingService.GetJob")
	defer span.End()

	return s.store.GetJob(ctx, userID, jobID)
}

func (s *BookingService) CreateJob(ctx context.Context, job *domain.Job) (*domain.Job, error) {
	ctx, span := bookingTracer.Start(ctx, "BookingService.CreateJob")
	defer span.End()

	if job.Title == "" {
		return nil, &domain.ErrValidation{Field: "title", Message: "required"}
	}
	if job.FixedPrice != nil && *job.FixedPrice < 0 {
		return nil, &domain.ErrValidation{Field: "fixed_price", Message: "must be non-negative"}
	}

	if job.ID == "" {
		job.ID = uuid.New().String()
	}
	if job.CreatedAt.IsZero() {
		job.CreatedAt = time.Now().UTC()
	}

	return s.store.CreateJob(ctx, job)
}

func (s *BookingService) UpdateJob(ctx context.Context, job *domain.Job) (*domain.Job, error) {
	ctx, span := bookingTracer.Start(ctx, "BookingService.UpdateJob")
	defer span.End()

	if job.Title == "" {
		return nil, &domain.ErrValidation{Field: "title", Message: "required"}
	}
	if job.FixedPrice != nil && *job.FixedPrice < 0 {
		return nil, &domain.ErrValidation{Field: "fixed_price", Message: "must be non-negative"}
	}

	return s.store.UpdateJob(ctx, job)
}

func (s *BookingService) DeleteJob(ctx context.Context, userID, jobID string) error {
	ctx, span := bookingTracer.Start(ctx, "BookingService.DeleteJob")
	defer span.End()

	return s.store.DeleteJob(ctx, userID, jobID)
}

// ============================================================
// Payments
// ============================================================

func (s *BookingService) ListPayments(ctx context.Context, userID, status string) ([]domain.Payment, error) {
	ctx, span := bookingTracer.Start(ctx, "BookingService.ListPayments")
	defer span.End()

	if status == "" {
		return s.store.ListPayments(ctx, userID)
	}
	if !domain.ValidPaymentStatus(status) {
		return nil, &domain.ErrValidation{Field: "status", Message: "unknown payment status"}
	}
	return s.store.ListPaymentsByStatus(ctx, userID, status)
}

func (s *BookingService) ListPaymentsByJob(ctx context.Context, userID, jobID string) ([]domain.Payment, error) {
	ctx, span := bookingTracer.Start(ctx, "BookingService.ListPaymentsByJob")
	defer span.End()

	return s.store.ListPaymentsByJob(ctx, userID, jobID)
}

func (s *BookingService) CreatePayment(ctx context.Context, payment *domain.Payment) (*domain.Payment, error) {
	ctx, span := bookingTracer.Start(ctx, "BookingService.CreatePayment")
	defer span.End()

	if payment.JobID == "" {
		return nil, &domain.ErrValidation{Field: "job_id", Message: "required"}
	}
	if payment.Amount < 0 {
		return nil, &domain.ErrValidation{Field: "amount", Message: "must be non-negative"}
	}
	if payment.Status == "" {
		payment.Status = domain.PaymentPending
	}
	if !domain.ValidPaymentStatus(payment.Status) {
		return nil, &domain.ErrValidation{Field: "status", Message: "unknown payment status"}
	}

	// The job must exist and belong to the same user.
	if _, err := s.store.GetJob(ctx, payment.UserID, payment.JobID); err != nil {
		return nil, err
	}

	if payment.ID == "" {
		payment.ID = uuid.New().String()
	}
	if payment.DueDate.IsZero() {
		payment.DueDate = time.Now().UTC()
	}

	// paid_date tracks the received status exactly.
	if payment.Status == domain.PaymentReceived {
		if payment.PaidDate == nil {
			now := time.Now().UTC()
			payment.PaidDate = &now
		}
	} else {
		payment.PaidDate = nil
	}

	return s.store.CreatePayment(ctx, payment)
}

// ChangePaymentStatus moves a payment to a new status. Marking a payment
// received stamps its paid date (the caller may supply one); leaving
// received clears it. Cancelled is terminal.
func (s *BookingService) ChangePaymentStatus(ctx context.Context, userID, paymentID, newStatus string, paidDate *time.Time) (*domain.Payment, error) {
	ctx, span := bookingTracer.Start(ctx, "BookingService.ChangePaymentStatus")
	defer span.End()

	if !domain.ValidPaymentStatus(newStatus) {
		return nil, &domain.ErrValidation{Field: "status", Message: "unknown payment status"}
	}

	payment, err := s.store.GetPayment(ctx, userID, paymentID)
	if err != nil {
		return nil, err
	}

	if payment.Status == newStatus {
		return payment, nil
	}
	if payment.Status == domain.PaymentCancelled {
		return nil, &domain.ErrInvalidTransition{From: payment.Status, To: newStatus}
	}

	updates := map[string]any{"status": newStatus}
	switch {
	case newStatus == domain.PaymentReceived:
		stamp := time.Now().UTC()
		if paidDate != nil {
			stamp = paidDate.UTC()
		}
		updates["paid_date"] = stamp.Format(time.RFC3339)
	case payment.Status == domain.PaymentReceived:
		updates["paid_date"] = nil
	}

	updated, err := s.store.UpdatePaymentStatus(ctx, userID, paymentID, updates)
	if err != nil {
		return nil, err
	}

	s.metrics.IncrPaymentTransition(newStatus)
	s.logger.Info("payment status changed",
		zap.String("payment_id", paymentID),
		zap.String("from", payment.Status),
		zap.String("to", newStatus),
	)

	return updated, nil
}

// ============================================================
// Agencies
// ============================================================

func (s *BookingService) ListAgencies(ctx context.Context, userID string) ([]domain.Agency, error) {
	ctx, span := bookingTracer.Start(ctx, "BookingService.ListAgencies")
	defer span.End()

	return s.store.ListAgencies(ctx, userID)
}

func (s *BookingService) CreateAgency(ctx context.Context, agency *domain.Agency) (*domain.Agency, error) {
	ctx, span := bookingTracer.Start(ctx, "BookingService.CreateAgency")
	defer span.End()

	if agency.Name == "" {
		return nil, &domain.ErrValidation{Field: "name", Message: "required"}
	}
	if agency.CommissionPct < 0 || agency.CommissionPct > 100 {
		return nil, &domain.ErrValidation{Field: "commission_pct", Message: "must be between 0 and 100"}
	}

	if agency.ID == "" {
		agency.ID = uuid.New().String()
	}
	if agency.CreatedAt.IsZero() {
		agency.CreatedAt = time.Now().UTC()
	}

	return s.store.CreateAgency(ctx, agency)
}

func (s *BookingService) DeleteAgency(ctx context.Context, userID, agencyID string) error {
	ctx, span := bookingTracer.Start(ctx, "BookingService.DeleteAgency")
	defer span.End()

	return s.store.DeleteAgency(ctx, userID, agencyID)
}
