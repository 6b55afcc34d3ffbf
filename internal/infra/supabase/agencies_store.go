package supabase

import (
	"context"
	"fmt"

	"github.com/castbook/castbook-api-go/internal/domain"

	"go.opentelemetry.io/otel/attribute"
)

// agencyRow maps the Supabase agencies table columns.
type agencyRow struct {
	ID            string  `json:"id"`
	UserID        string  `json:"user_id"`
	Name          string  `json:"name"`
	Email         *string `json:"email"`
	CommissionPct float64 `json:"commission_pct"`
	CreatedAt     string  `json:"created_at"`
}

func (r agencyRow) toDomain() domain.Agency {
	return domain.Agency{
		ID:            r.ID,
		UserID:        r.UserID,
		Name:          r.Name,
		Email:         strOrEmpty(r.Email),
		CommissionPct: r.CommissionPct,
		CreatedAt:     parseTime(r.CreatedAt),
	}
}

// ListAgencies fetches a user's agencies, alphabetically.
func (c *Client) ListAgencies(ctx context.Context, userID string) ([]domain.Agency, error) {
	ctx, span := tracer.Start(ctx, "Supabase.ListAgencies")
	defer span.End()
	span.SetAttributes(attribute.String("user.id", userID))

	var rows []agencyRow
	path := fmt.Sprintf("agencies?user_id=eq.%s&order=name.asc", userID)
	if err := c.getJSON(ctx, path, &rows); err != nil {
		return nil, &domain.ErrExternalService{Service: "supabase/agencies", Err: err}
	}

	agencies := make([]domain.Agency, 0, len(rows))
	for _, r := range rows {
		agencies = append(agencies, r.toDomain())
	}
	return agencies, nil
}

// CreateAgency inserts an agency and returns the stored row.
func (c *Client) CreateAgency(ctx context.Context, agency *domain.Agency) (*domain.Agency, error) {
	ctx, span := tracer.Start(ctx, "Supabase.CreateAgency")
	defer span.End()

	payload := map[string]any{
		"id":             agency.ID,
		"user_id":        agency.UserID,
		"name":           agency.Name,
		"email":          agency.Email,
		"commission_pct": agency.CommissionPct,
		"created_at":     formatTime(agency.CreatedAt),
	}

	var rows []agencyRow
	if err := c.postJSON(ctx, "agencies", payload, &rows); err != nil {
		return nil, &domain.ErrExternalService{Service: "supabase/agencies", Err: err}
	}
	if len(rows) == 0 {
		return agency, nil
	}

	created := rows[0].toDomain()
	return &created, nil
}

// DeleteAgency removes an agency scoped to the user.
func (c *Client) DeleteAgency(ctx context.Context, userID, agencyID string) error {
	ctx, span := tracer.Start(ctx, "Supabase.DeleteAgency")
	defer span.End()
	span.SetAttributes(attribute.String("agency.id", agencyID))

	path := fmt.Sprintf("agencies?id=eq.%s&user_id=eq.%s", agencyID, userID)
	if err := c.delete(ctx, path); err != nil {
		return &domain.ErrExternalService{Service: "supabase/agencies", Err: err}
	}
	return nil
}
