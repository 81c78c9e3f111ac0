package adminservice

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	eventdomain "github.com/Black-And-White-Club/campus-events/app/modules/event/domain"
	"github.com/Black-And-White-Club/campus-events/app/observability/attr"
	"github.com/Black-And-White-Club/campus-events/app/observability/metrics"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"
)

const serviceName = "AdminService"

// dashboardStatuses fixes the order of the chart bars and guarantees every
// status appears in by_status even with no events.
var dashboardStatuses = []eventdomain.EventStatus{
	eventdomain.EventPendingApproval,
	eventdomain.EventApproved,
	eventdomain.EventRejected,
	eventdomain.EventCompleted,
}

type AdminService struct {
	clubs    ClubCounter
	events   EventCounter
	students StudentCounter
	logger   *slog.Logger
	metrics  metrics.OperationMetrics
	tracer   trace.Tracer
}

func NewAdminService(
	clubs ClubCounter,
	events EventCounter,
	students StudentCounter,
	logger *slog.Logger,
	m metrics.OperationMetrics,
	tracer trace.Tracer,
) *AdminService {
	if logger == nil {
		logger = slog.Default()
	}
	if m == nil {
		m = metrics.NewNoop()
	}
	return &AdminService{clubs: clubs, events: events, students: students, logger: logger, metrics: m, tracer: tracer}
}

var _ Service = (*AdminService)(nil)

func (s *AdminService) observe(ctx context.Context, op string, fn func(ctx context.Context) error) error {
	if s.tracer != nil {
		var span trace.Span
		ctx, span = s.tracer.Start(ctx, op)
		defer span.End()
	}
	s.metrics.RecordOperationAttempt(ctx, op, serviceName)
	start := time.Now()
	defer func() { s.metrics.RecordOperationDuration(ctx, op, serviceName, time.Since(start)) }()

	if err := fn(ctx); err != nil {
		s.metrics.RecordOperationFailure(ctx, op, serviceName)
		trace.SpanFromContext(ctx).RecordError(err)
		s.logger.ErrorContext(ctx, "Dashboard query failed",
			attr.ExtractCorrelationID(ctx),
			attr.String("operation", op),
			attr.Error(err),
		)
		return fmt.Errorf("%s: %w", op, err)
	}
	s.metrics.RecordOperationSuccess(ctx, op, serviceName)
	return nil
}

// Stats runs the dashboard counts concurrently.
func (s *AdminService) Stats(ctx context.Context) (*Stats, error) {
	stats := &Stats{}
	err := s.observe(ctx, "DashboardStats", func(ctx context.Context) error {
		g, gctx := errgroup.WithContext(ctx)

		g.Go(func() error {
			c, err := s.clubs.CountClubs(gctx)
			stats.Clubs = c
			return err
		})
		g.Go(func() error {
			ev, err := s.eventStats(gctx)
			stats.Events = ev
			return err
		})
		g.Go(func() error {
			n, err := s.students.CountStudents(gctx)
			stats.Students = n
			return err
		})
		g.Go(func() error {
			n, err := s.events.CountVenues(gctx)
			stats.Venues = n
			return err
		})
		g.Go(func() error {
			n, err := s.events.CountActiveRegistrations(gctx)
			stats.ActiveRegistrations = n
			return err
		})
		return g.Wait()
	})
	if err != nil {
		return nil, err
	}
	return stats, nil
}

func (s *AdminService) eventStats(ctx context.Context) (EventStats, error) {
	counts, err := s.events.CountEventsByStatus(ctx)
	if err != nil {
		return EventStats{}, err
	}
	out := EventStats{ByStatus: make(map[string]int, len(dashboardStatuses))}
	for _, st := range dashboardStatuses {
		out.ByStatus[string(st)] = 0
	}
	for _, c := range counts {
		out.ByStatus[string(c.Status)] += c.Count
		out.Total += c.Count
	}
	return out, nil
}

func (s *AdminService) EventsChart(ctx context.Context) ([]byte, error) {
	var png []byte
	err := s.observe(ctx, "DashboardChart", func(ctx context.Context) error {
		ev, err := s.eventStats(ctx)
		if err != nil {
			return err
		}
		png, err = renderEventsChart(ev)
		return err
	})
	return png, err
}
