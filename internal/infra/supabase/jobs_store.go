package supabase

import (
	"context"
	"fmt"

	"github.com/castbook/castbook-api-go/internal/domain"

	"go.opentelemetry.io/otel/attribute"
)

// jobRow maps the Supabase jobs table columns to our domain.
type jobRow struct {
	ID         string   `json:"id"`
	UserID     string   `json:"user_id"`
	Title      string   `json:"title"`
	AgencyID   *string  `json:"agency_id"`
	FixedPrice *float64 `json:"fixed_price"`
	StartDate  *string  `json:"start_date"`
	Notes      *string  `json:"notes"`
	CreatedAt  string   `json:"created_at"`
}

func (r jobRow) toDomain() domain.Job {
	return domain.Job{
		ID:         r.ID,
		UserID:     r.UserID,
		Title:      r.Title,
		AgencyID:   strOrEmpty(r.AgencyID),
		FixedPrice: r.FixedPrice,
		StartDate:  parseTimePtr(r.StartDate),
		Notes:      strOrEmpty(r.Notes),
		CreatedAt:  parseTime(r.CreatedAt),
	}
}

func jobPayload(job *domain.Job) map[string]any {
	payload := map[string]any{
		"id":          job.ID,
		"user_id":     job.UserID,
		"title":       job.Title,
		"fixed_price": job.FixedPrice,
		"start_date":  formatTimePtr(job.StartDate),
		"notes":       job.Notes,
		"created_at":  formatTime(job.CreatedAt),
	}
	if job.AgencyID != "" {
		payload["agency_id"] = job.AgencyID
	}
	return payload
}

// ListJobs fetches all jobs for a user, newest first.
func (c *Client) ListJobs(ctx context.Context, userID string) ([]domain.Job, error) {
	ctx, span := tracer.Start(ctx, "Supabase.ListJobs")
	defer span.End()
	span.SetAttributes(attribute.String("user.id", userID))

	var rows []jobRow
	path := fmt.Sprintf("jobs?user_id=eq.%s&order=created_at.desc", userID)
	if err := c.getJSON(ctx, path, &rows); err != nil {
		return nil, &domain.ErrExternalService{Service: "supabase/jobs", Err: err}
	}

	jobs := make([]domain.Job, 0, len(rows))
	for _, r := range rows {
		jobs = append(jobs, r.toDomain())
	}
	return jobs, nil
}

// GetJob fetches a single job scoped to the user.
func (c *Client) GetJob(ctx context.Context, userID, jobID string) (*domain.Job, error) {
	ctx, span := tracer.Start(ctx, "Supabase.GetJob")
	defer span.End()
	span.SetAttributes(attribute.String("job.id", jobID))

	var rows []jobRow
	path := fmt.Sprintf("jobs?id=eq.%s&user_id=eq.%s&limit=1", jobID, userID)
	if err := c.getJSON(ctx, path, &rows); err != nil {
		return nil, &domain.ErrExternalService{Service: "supabase/jobs", Err: err}
	}
	if len(rows) == 0 {
		return nil, &domain.ErrNotFound{Resource: "job", ID: jobID}
	}

	job := rows[0].toDomain()
	return &job, nil
}

// CreateJob inserts a job and returns the stored row.
func (c *Client) CreateJob(ctx context.Context, job *domain.Job) (*domain.Job, error) {
	ctx, span := tracer.Start(ctx, "Supabase.CreateJob")
	defer span.End()

	var rows []jobRow
	if err := c.postJSON(ctx, "jobs", jobPayload(job), &rows); err != nil {
		return nil, &domain.ErrExternalService{Service: "supabase/jobs", Err: err}
	}
	if len(rows) == 0 {
		return job, nil
	}

	created := rows[0].toDomain()
	return &created, nil
}

// UpdateJob patches a job's mutable fields and returns the stored row.
func (c *Client) UpdateJob(ctx context.Context, job *domain.Job) (*domain.Job, error) {
	ctx, span := tracer.Start(ctx, "Supabase.UpdateJob")
	defer span.End()
	span.SetAttributes(attribute.String("job.id", job.ID))

	updates := map[string]any{
		"title":       job.Title,
		"fixed_price": job.FixedPrice,
		"start_date":  formatTimePtr(job.StartDate),
		"notes":       job.Notes,
	}
	if job.AgencyID != "" {
		updates["agency_id"] = job.AgencyID
	}

	var rows []jobRow
	path := fmt.Sprintf("jobs?id=eq.%s&user_id=eq.%s", job.ID, job.UserID)
	if err := c.patchJSON(ctx, path, updates, &rows); err != nil {
		return nil, &domain.ErrExternalService{Service: "supabase/jobs", Err: err}
	}
	if len(rows) == 0 {
		return nil, &domain.ErrNotFound{Resource: "job", ID: job.ID}
	}

	updated := rows[0].toDomain()
	return &updated, nil
}

// DeleteJob removes a job scoped to the user.
func (c *Client) DeleteJob(ctx context.Context, userID, jobID string) error {
	ctx, span := tracer.Start(ctx, "Supabase.DeleteJob")
	defer span.End()
	span.SetAttributes(attribute.String("job.id", jobID))

	path := fmt.Sprintf("jobs?id=eq.%s&user_id=eq.%s", jobID, userID)
	if err := c.delete(ctx, path); err != nil {
		return &domain.ErrExternalService{Service: "supabase/jobs", Err: err}
	}
	return nil
}
