// AngelaMos | 2026
// service.go

package dashboard

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"github.com/tharunrega/smansys/internal/core"
	"github.com/tharunrega/smansys/internal/user"
)

const (
	activityWindow = 7 * 24 * time.Hour
	recentLimit    = 5
)

// UserStats is the read side of the user store the dashboard aggregates over.
type UserStats interface {
	CountActive(ctx context.Context) (int, error)
	Count(ctx context.Context, f user.Filter) (int, error)
	CountActiveSince(ctx context.Context, since time.Time) (int, error)
	CountByRole(ctx context.Context) (map[string]int, error)
	DailySignups(ctx context.Context, f user.Filter) ([]user.DailyCount, error)
	Find(ctx context.Context, f user.Filter, offset, limit int) ([]user.User, error)
	RoleStats(ctx context.Context, since time.Time) ([]user.RoleStat, error)
}

type Service struct {
	users  UserStats
	tracer trace.Tracer
	now    func() time.Time
}

func NewService(users UserStats) *Service {
	return &Service{
		users:  users,
		tracer: otel.Tracer("smansys/dashboard"),
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// Now is the reference instant for window resolution.
func (s *Service) Now() time.Time {
	return s.now()
}

// Overview runs every aggregate concurrently. The first failure cancels the
// rest and no partial result is returned.
func (s *Service) Overview(
	ctx context.Context,
	q Query,
	w Window,
) (*OverviewResponse, error) {
	ctx, span := s.tracer.Start(ctx, "dashboard.overview",
		trace.WithAttributes(
			attribute.String("dashboard.range", q.DateRange),
			attribute.String("dashboard.role", q.Role),
		))
	defer span.End()

	full := q.Filter(w)
	base := full.Base()
	activeSince := s.now().Add(-activityWindow)

	var (
		resp = OverviewResponse{Filters: appliedFilters(q)}
		ov   = &resp.Overview
	)
	resp.Trends.Period = w

	g, gctx := errgroup.WithContext(ctx)

	s.aggregate(gctx, g, "roleDistribution", func(ctx context.Context) (err error) {
		ov.RoleDistribution, err = s.users.CountByRole(ctx)
		return err
	})
	s.aggregate(gctx, g, "matchingUsers", func(ctx context.Context) (err error) {
		ov.MatchingUsers, err = s.users.Count(ctx, full)
		return err
	})
	s.aggregate(gctx, g, "newUsers", func(ctx context.Context) (err error) {
		ov.NewUsers, err = s.users.Count(ctx, base)
		return err
	})
	s.aggregate(gctx, g, "activeUsers", func(ctx context.Context) (err error) {
		ov.ActiveUsers, err = s.users.CountActiveSince(ctx, activeSince)
		return err
	})
	s.aggregate(gctx, g, "userGrowth", func(ctx context.Context) (err error) {
		resp.Trends.UserGrowth, err = s.users.DailySignups(ctx, base)
		return err
	})
	s.aggregate(gctx, g, "recentUsers", func(ctx context.Context) error {
		users, err := s.users.Find(ctx, full, 0, recentLimit)
		if err != nil {
			return err
		}
		resp.RecentUsers = user.ToSummaryList(users)
		return nil
	})
	s.aggregate(gctx, g, "totalUsers", func(ctx context.Context) (err error) {
		ov.TotalUsers, err = s.users.CountActive(ctx)
		return err
	})

	if err := g.Wait(); err != nil {
		span.SetStatus(codes.Error, "aggregation failed")
		return nil, fmt.Errorf("dashboard overview: %w", err)
	}

	if ov.RoleDistribution == nil {
		ov.RoleDistribution = map[string]int{}
	}
	return &resp, nil
}

// Analytics pages through the full filter and adds per-role statistics over
// all active users.
func (s *Service) Analytics(
	ctx context.Context,
	q Query,
	w Window,
) (*AnalyticsResponse, error) {
	ctx, span := s.tracer.Start(ctx, "dashboard.analytics",
		trace.WithAttributes(
			attribute.String("dashboard.range", q.DateRange),
			attribute.Int("dashboard.page", q.Page),
		))
	defer span.End()

	full := q.Filter(w)
	page := q.PageParams()
	activeSince := s.now().Add(-activityWindow)

	var (
		users []user.User
		total int
		stats []user.RoleStat
	)

	g, gctx := errgroup.WithContext(ctx)

	s.aggregate(gctx, g, "users", func(ctx context.Context) (err error) {
		users, err = s.users.Find(ctx, full, page.Offset(), page.Limit)
		return err
	})
	s.aggregate(gctx, g, "total", func(ctx context.Context) (err error) {
		total, err = s.users.Count(ctx, full)
		return err
	})
	s.aggregate(gctx, g, "roleStats", func(ctx context.Context) (err error) {
		stats, err = s.users.RoleStats(ctx, activeSince)
		return err
	})

	if err := g.Wait(); err != nil {
		span.SetStatus(codes.Error, "aggregation failed")
		return nil, fmt.Errorf("dashboard analytics: %w", err)
	}

	return &AnalyticsResponse{
		Users:      user.ToListItems(users),
		Pagination: core.NewPagination(page, total),
		Statistics: Statistics{
			Period:    w,
			RoleStats: stats,
			Filters:   appliedFilters(q),
		},
	}, nil
}

func (s *Service) aggregate(
	ctx context.Context,
	g *errgroup.Group,
	name string,
	fn func(ctx context.Context) error,
) {
	g.Go(func() error {
		ctx, span := s.tracer.Start(ctx, "dashboard.aggregate."+name)
		defer span.End()

		if err := fn(ctx); err != nil {
			core.SetSpanError(ctx, err)
			return fmt.Errorf("%s: %w", name, err)
		}
		return nil
	})
}
