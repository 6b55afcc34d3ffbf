package supabase

import (
	"context"
	"fmt"

	"github.com/castbook/castbook-api-go/internal/domain"

	"go.opentelemetry.io/otel/attribute"
)

// paymentRow maps the Supabase payments table columns.
type paymentRow struct {
	ID       string  `json:"id"`
	UserID   string  `json:"user_id"`
	JobID    string  `json:"job_id"`
	Amount   float64 `json:"amount"`
	DueDate  string  `json:"due_date"`
	PaidDate *string `json:"paid_date"`
	Status   string  `json:"status"`
}

func (r paymentRow) toDomain() domain.Payment {
	return domain.Payment{
		ID:       r.ID,
		UserID:   r.UserID,
		JobID:    r.JobID,
		Amount:   r.Amount,
		DueDate:  parseTime(r.DueDate),
		PaidDate: parseTimePtr(r.PaidDate),
		Status:   r.Status,
	}
}

func paymentsToDomain(rows []paymentRow) []domain.Payment {
	payments := make([]domain.Payment, 0, len(rows))
	for _, r := range rows {
		payments = append(payments, r.toDomain())
	}
	return payments
}

// ListPayments fetches all payments for a user, ordered by due date.
func (c *Client) ListPayments(ctx context.Context, userID string) ([]domain.Payment, error) {
	ctx, span := tracer.Start(ctx, "Supabase.ListPayments")
	defer span.End()
	span.SetAttributes(attribute.String("user.id", userID))

	var rows []paymentRow
	path := fmt.Sprintf("payments?user_id=eq.%s&order=due_date.desc", userID)
	if err := c.getJSON(ctx, path, &rows); err != nil {
		return nil, &domain.ErrExternalService{Service: "supabase/payments", Err: err}
	}
	return paymentsToDomain(rows), nil
}

// ListPaymentsByStatus fetches a user's payments in one status bucket.
func (c *Client) ListPaymentsByStatus(ctx context.Context, userID, status string) ([]domain.Payment, error) {
	ctx, span := tracer.Start(ctx, "Supabase.ListPaymentsByStatus")
	defer span.End()
	span.SetAttributes(
		attribute.String("user.id", userID),
		attribute.String("payment.status", status),
	)

	var rows []paymentRow
	path := fmt.Sprintf("payments?user_id=eq.%s&status=eq.%s&order=due_date.desc", userID, status)
	if err := c.getJSON(ctx, path, &rows); err != nil {
		return nil, &domain.ErrExternalService{Service: "supabase/payments", Err: err}
	}
	return paymentsToDomain(rows), nil
}

// ListPaymentsByJob fetches the payments attached to one job.
func (c *Client) ListPaymentsByJob(ctx context.Context, userID, jobID string) ([]domain.Payment, error) {
	ctx, span := tracer.Start(ctx, "Supabase.ListPaymentsByJob")
	defer span.End()
	span.SetAttributes(attribute.String("job.id", jobID))

	var rows []paymentRow
	path := fmt.Sprintf("payments?user_id=eq.%s&job_id=eq.%s&order=due_date.desc", userID, jobID)
	if err := c.getJSON(ctx, path, &rows); err != nil {
		return nil, &domain.ErrExternalService{Service: "supabase/payments", Err: err}
	}
	return paymentsToDomain(rows), nil
}

// GetPayment fetches a single payment scoped to the user.
func (c *Client) GetPayment(ctx context.Context, userID, paymentID string) (*domain.Payment, error) {
	ctx, span := tracer.Start(ctx, "Supabase.GetPayment")
	defer span.End()
	span.SetAttributes(attribute.String("payment.id", paymentID))

	var rows []paymentRow
	path := fmt.Sprintf("payments?id=eq.%s&user_id=eq.%s&limit=1", paymentID, userID)
	if err := c.getJSON(ctx, path, &rows); err != nil {
		return nil, &domain.ErrExternalService{Service: "supabase/payments", Err: err}
	}
	if len(rows) == 0 {
		return nil, &domain.ErrNotFound{Resource: "payment", ID: paymentID}
	}

	payment := rows[0].toDomain()
	return &payment, nil
}

// CreatePayment inserts a payment and returns the stored row.
func (c *Client) CreatePayment(ctx context.Context, payment *domain.Payment) (*domain.Payment, error) {
	ctx, span := tracer.Start(ctx, "Supabase.CreatePayment")
	defer span.End()
	span.SetAttributes(attribute.String("job.id", payment.JobID))

	payload := map[string]any{
		"id":        payment.ID,
		"user_id":   payment.UserID,
		"job_id":    payment.JobID,
		"amount":    payment.Amount,
		"due_date":  formatTime(payment.DueDate),
		"paid_date": formatTimePtr(payment.PaidDate),
		"status":    payment.Status,
	}

	var rows []paymentRow
	if err := c.postJSON(ctx, "payments", payload, &rows); err != nil {
		return nil, &domain.ErrExternalService{Service: "supabase/payments", Err: err}
	}
	if len(rows) == 0 {
		return payment, nil
	}

	created := rows[0].toDomain()
	return &created, nil
}

// UpdatePaymentStatus patches status-related columns and returns the stored
// row. The service layer decides which columns change; paid_date handling in
// particular belongs there, not here.
func (c *Client) UpdatePaymentStatus(ctx context.Context, userID, paymentID string, updates map[string]any) (*domain.Payment, error) {
	ctx, span := tracer.Start(ctx, "Supabase.UpdatePaymentStatus")
	defer span.End()
	span.SetAttributes(attribute.String("payment.id", paymentID))

	var rows []paymentRow
	path := fmt.Sprintf("payments?id=eq.%s&user_id=eq.%s", paymentID, userID)
	if err := c.patchJSON(ctx, path, updates, &rows); err != nil {
		return nil, &domain.ErrExternalService{Service: "supabase/payments", Err: err}
	}
	if len(rows) == 0 {
		return nil, &domain.ErrNotFound{Resource: "payment", ID: paymentID}
	}

	updated := rows[0].toDomain()
	return &updated, nil
}
