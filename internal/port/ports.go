// Package port defines the interfaces (ports) for external dependencies.
// Following hexagonal architecture, these ports decouple the domain/service
// layer from concrete implementations.
package port

import (
	"context"

	"github.com/castbook/castbook-api-go/internal/domain"
)

// BookingStore defines all data operations for jobs, payments and agencies.
// Implemented by the Supabase adapter (or any other persistence layer).
type BookingStore interface {
	// Jobs
	ListJobs(ctx context.Context, userID string) ([]domain.Job, error)
	GetJob(ctx context.Context, userID, jobID string) (*domain.Job, error)
	CreateJob(ctx context.Context, job *domain.Job) (*domain.Job, error)
	UpdateJob(ctx context.Context, job *domain.Job) (*domain.Job, error)
	DeleteJob(ctx context.Context, userID, jobID string) error

	// Payments
	ListPayments(ctx context.Context, userID string) ([]domain.Payment, error)
	ListPaymentsByStatus(ctx context.Context, userID, status string) ([]domain.Payment, error)
	ListPaymentsByJob(ctx context.Context, userID, jobID string) ([]domain.Payment, error)
	GetPayment(ctx context.Context, userID, paymentID string) (*domain.Payment, error)
	CreatePayment(ctx context.Context, payment *domain.Payment) (*domain.Payment, error)
	UpdatePaymentStatus(ctx context.Context, userID, paymentID string, updates map[string]any) (*domain.Payment, error)

	// Agencies
	ListAgencies(ctx context.Context, userID string) ([]domain.Agency, error)
	CreateAgency(ctx context.Context, agency *domain.Agency) (*domain.Agency, error)
	DeleteAgency(ctx context.Context, userID, agencyID string) error
}

// Cache provides generic caching with TTL.
type Cache[T any] interface {
	Get(key string) (T, bool)
	Set(key string, value T)
	Delete(key string)
}
