package service

import (
	"context"
	"fmt"
	"time"

	"github.com/castbook/castbook-api-go/internal/analytics"
	"github.com/castbook/castbook-api-go/internal/domain"
	"github.com/castbook/castbook-api-go/internal/infra/observability"
	"github.com/castbook/castbook-api-go/internal/infra/resilience"
	"github.com/castbook/castbook-api-go/internal/port"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

var dashboardTracer = otel.Tracer("service/dashboard")

// DashboardService computes the aggregated dashboard views: status buckets,
// monthly breakdown, percentage changes and chart series. All aggregation is
// read-only; results are cached per user with a short TTL.
type DashboardService struct {
	store    port.BookingStore
	cache    port.Cache[*domain.DashboardSnapshot]
	bulkhead *resilience.Bulkhead
	metrics  *observability.Metrics
	logger   *zap.Logger
}

// NewDashboardService creates the dashboard service.
func NewDashboardService(
	store port.BookingStore,
	cache port.Cache[*domain.DashboardSnapshot],
	bulkhead *resilience.Bulkhead,
	metrics *observability.Metrics,
	logger *zap.Logger,
) *DashboardService {
	return &DashboardService{
		store:    store,
		cache:    cache,
		bulkhead: bulkhead,
		metrics:  metrics,
		logger:   logger,
	}
}

// Snapshot returns the full dashboard for a user, computed relative to now.
// Snapshots are cached; InvalidateUser drops the cached entry after writes.
func (s *DashboardService) Snapshot(ctx context.Context, userID string, now time.Time) (*domain.DashboardSnapshot, error) {
	ctx, span := dashboardTracer.Start(ctx, "DashboardService.Snapshot")
	defer span.End()
	span.SetAttributes(attribute.String("user.id", userID))

	cacheKey := snapshotKey(userID)
	if cached, ok := s.cache.Get(cacheKey); ok {
		s.metrics.IncrCacheHit("dashboard")
		span.SetAttributes(attribute.Bool("cache.hit", true))
		return cached, nil
	}
	s.metrics.IncrCacheMiss("dashboard")

	if err := s.bulkhead.Acquire(ctx); err != nil {
		return nil, &domain.ErrTimeout{Operation: "dashboard snapshot"}
	}
	defer s.bulkhead.Release()

	start := time.Now()
	jobs, payments, err := s.fetchJobsAndPayments(ctx, userID)
	if err != nil {
		s.metrics.IncrRequest("error")
		s.metrics.IncrExternalError("supabase")
		return nil, err
	}
	s.metrics.IncrRequest("success")

	earnings := analytics.BuildEarnings(jobs, payments)

	changes := make(map[string]float64, len(analytics.Granularities))
	for _, g := range analytics.Granularities {
		changes[g] = analytics.PercentChange(earnings, now, g)
	}

	snapshot := &domain.DashboardSnapshot{
		UserID:     userID,
		Summary:    analytics.CategorizeAmounts(payments),
		Months:     analytics.MonthlyBreakdown(earnings, now),
		Changes:    changes,
		ComputedAt: now,
	}

	s.cache.Set(cacheKey, snapshot)
	s.metrics.RecordRequestDuration("dashboard_snapshot", time.Since(start))
	s.logger.Debug("dashboard snapshot computed",
		zap.String("user_id", userID),
		zap.Int("jobs", len(jobs)),
		zap.Int("payments", len(payments)),
	)

	return snapshot, nil
}

// Summary returns only the status buckets, without the month breakdown.
func (s *DashboardService) Summary(ctx context.Context, userID string, now time.Time) (*domain.AmountSummary, error) {
	snapshot, err := s.Snapshot(ctx, userID, now)
	if err != nil {
		return nil, err
	}
	return &snapshot.Summary, nil
}

// Series returns the chart series for one granularity, ending at now.
func (s *DashboardService) Series(ctx context.Context, userID string, now time.Time, granularity string) (*domain.SeriesResponse, error) {
	ctx, span := dashboardTracer.Start(ctx, "DashboardService.Series")
	defer span.End()
	span.SetAttributes(
		attribute.String("user.id", userID),
		attribute.String("granularity", granularity),
	)

	if !analytics.ValidGranularity(granularity) {
		return nil, &domain.ErrValidation{Field: "granularity", Message: "unknown granularity"}
	}

	jobs, payments, err := s.fetchJobsAndPayments(ctx, userID)
	if err != nil {
		return nil, err
	}

	earnings := analytics.BuildEarnings(jobs, payments)
	points := analytics.Series(earnings, now, granularity)

	return &domain.SeriesResponse{
		Granularity: granularity,
		Points:      points,
		YAxisMax:    analytics.YAxisMax(points),
	}, nil
}

// Change returns the percentage change for one granularity at now.
func (s *DashboardService) Change(ctx context.Context, userID string, now time.Time, granularity string) (float64, error) {
	ctx, span := dashboardTracer.Start(ctx, "DashboardService.Change")
	defer span.End()

	if !analytics.ValidGranularity(granularity) {
		return 0, &domain.ErrValidation{Field: "granularity", Message: "unknown granularity"}
	}

	jobs, payments, err := s.fetchJobsAndPayments(ctx, userID)
	if err != nil {
		return 0, err
	}

	earnings := analytics.BuildEarnings(jobs, payments)
	return analytics.PercentChange(earnings, now, granularity), nil
}

// InvalidateUser drops the cached snapshot for a user. Called after any
// mutation of the user's jobs or payments.
func (s *DashboardService) InvalidateUser(userID string) {
	s.cache.Delete(snapshotKey(userID))
}

// fetchJobsAndPayments loads both collections concurrently.
func (s *DashboardService) fetchJobsAndPayments(ctx context.Context, userID string) ([]domain.Job, []domain.Payment, error) {
	var (
		jobs     []domain.Job
		payments []domain.Payment
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		jobs, err = s.store.ListJobs(gctx, userID)
		return err
	})
	g.Go(func() error {
		var err error
		payments, err = s.store.ListPayments(gctx, userID)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}

	return jobs, payments, nil
}

func snapshotKey(userID string) string {
	return fmt.Sprintf("dashboard:%s", userID)
}
