package service_test

import (
	"context"
	"sync"
	"time"

	"github.com/castbook/castbook-api-go/internal/domain"
)

// fakeStore is an in-memory BookingStore for service tests.
type fakeStore struct {
	mu       sync.Mutex
	jobs     map[string]domain.Job
	payments map[string]domain.Payment
	agencies map[string]domain.Agency

	listJobsCalls     int
	listPaymentsCalls int
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		jobs:     make(map[string]domain.Job),
		payments: make(map[string]domain.Payment),
		agencies: make(map[string]domain.Agency),
	}
}

func (f *fakeStore) ListJobs(ctx context.Context, userID string) ([]domain.Job, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.listJobsCalls++
	var out []domain.Job
	for _, j := range f.jobs {
		if j.UserID == userID {
			out = append(out, j)
		}
	}
	return out, nil
}

func (f *fakeStore) GetJob(ctx context.Context, userID, jobID string) (*domain.Job, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	j, ok := f.jobs[jobID]
	if !ok || j.UserID != userID {
		return nil, &domain.ErrNotFound{Resource: "job", ID: jobID}
	}
	return &j, nil
}

func (f *fakeStore) CreateJob(ctx context.Context, job *domain.Job) (*domain.Job, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.jobs[job.ID] = *job
	return job, nil
}

func (f *fakeStore) UpdateJob(ctx context.Context, job *domain.Job) (*domain.Job, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.jobs[job.ID]; !ok {
		return nil, &domain.ErrNotFound{Resource: "job", ID: job.ID}
	}
	f.jobs[job.ID] = *job
	return job, nil
}

func (f *fakeStore) DeleteJob(ctx context.Context, userID, jobID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.jobs, jobID)
	return nil
}

func (f *fakeStore) ListPayments(ctx context.Context, userID string) ([]domain.Payment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.listPaymentsCalls++
	var out []domain.Payment
	for _, p := range f.payments {
		if p.UserID == userID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *fakeStore) ListPaymentsByStatus(ctx context.Context, userID, status string) ([]domain.Payment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []domain.Payment
	for _, p := range f.payments {
		if p.UserID == userID && p.Status == status {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *fakeStore) ListPaymentsByJob(ctx context.Context, userID, jobID string) ([]domain.Payment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []domain.Payment
	for _, p := range f.payments {
		if p.UserID == userID && p.JobID == jobID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *fakeStore) GetPayment(ctx context.Context, userID, paymentID string) (*domain.Payment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.payments[paymentID]
	if !ok || p.UserID != userID {
		return nil, &domain.ErrNotFound{Resource: "payment", ID: paymentID}
	}
	return &p, nil
}

func (f *fakeStore) CreatePayment(ctx context.Context, payment *domain.Payment) (*domain.Payment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.payments[payment.ID] = *payment
	return payment, nil
}

func (f *fakeStore) UpdatePaymentStatus(ctx context.Context, userID, paymentID string, updates map[string]any) (*domain.Payment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.payments[paymentID]
	if !ok || p.UserID != userID {
		return nil, &domain.ErrNotFound{Resource: "payment", ID: paymentID}
	}
	if s, ok := updates["status"].(string); ok {
		p.Status = s
	}
	if raw, ok := updates["paid_date"]; ok {
		if raw == nil {
			p.PaidDate = nil
		} else if s, ok := raw.(string); ok {
			t, err := time.Parse(time.RFC3339, s)
			if err != nil {
				return nil, err
			}
			p.PaidDate = &t
		}
	}
	f.payments[paymentID] = p
	return &p, nil
}

func (f *fakeStore) ListAgencies(ctx context.Context, userID string) ([]domain.Agency, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []domain.Agency
	for _, a := range f.agencies {
		if a.UserID == userID {
			out = append(out, a)
		}
	}
	return out, nil
}

func (f *fakeStore) CreateAgency(ctx context.Context, agency *domain.Agency) (*domain.Agency, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.agencies[agency.ID] = *agency
	return agency, nil
}

func (f *fakeStore) DeleteAgency(ctx context.Context, userID, agencyID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.agencies, agencyID)
	return nil
}
