package auditservice

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/Black-And-White-Club/campus-events/app/modules/audit/auditevents"
	auditdb "github.com/Black-And-White-Club/campus-events/app/modules/audit/infrastructure/repositories"
	"github.com/Black-And-White-Club/campus-events/app/observability/attr"
	"github.com/Black-And-White-Club/campus-events/app/observability/metrics"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

const (
	serviceName = "AuditService"

	DefaultLimit = 50
	MaxLimit     = 200
)

// Service reads and writes the admin audit log.
type Service interface {
	// Persist stores an entry delivered by the bus. Redelivery of the same
	// messageID is a no-op and reports false.
	Persist(ctx context.Context, messageID string, entry auditevents.AdminActionRecorded) (bool, error)
	ListRecent(ctx context.Context, limit int) ([]auditdb.Entry, error)
}

// AuditService implements Service.
type AuditService struct {
	repo    auditdb.Repository
	logger  *slog.Logger
	metrics metrics.OperationMetrics
	tracer  trace.Tracer
}

func NewAuditService(repo auditdb.Repository, logger *slog.Logger, m metrics.OperationMetrics, tracer trace.Tracer) *AuditService {
	if logger == nil {
		logger = slog.Default()
	}
	if m == nil {
		m = metrics.NewNoop()
	}
	return &AuditService{repo: repo, logger: logger, metrics: m, tracer: tracer}
}

var _ Service = (*AuditService)(nil)

// ClampLimit applies the default for non-positive values and caps at MaxLimit.
func ClampLimit(limit int) int {
	switch {
	case limit <= 0:
		return DefaultLimit
	case limit > MaxLimit:
		return MaxLimit
	default:
		return limit
	}
}

func (s *AuditService) span(ctx context.Context, op string) (context.Context, trace.Span) {
	if s.tracer == nil {
		return ctx, trace.SpanFromContext(ctx)
	}
	return s.tracer.Start(ctx, op, trace.WithAttributes(attribute.String("operation", op)))
}

func (s *AuditService) Persist(ctx context.Context, messageID string, entry auditevents.AdminActionRecorded) (bool, error) {
	const op = "PersistAuditEntry"
	ctx, span := s.span(ctx, op)
	defer span.End()

	s.metrics.RecordOperationAttempt(ctx, op, serviceName)
	start := time.Now()
	defer func() { s.metrics.RecordOperationDuration(ctx, op, serviceName, time.Since(start)) }()

	row := &auditdb.Entry{
		ActorID:     entry.ActorID,
		ActorRole:   entry.ActorRole,
		ActionType:  entry.ActionType,
		TargetType:  entry.TargetType,
		TargetID:    entry.TargetID,
		Description: entry.Description,
		CreatedAt:   entry.OccurredAt.UTC(),
	}
	if messageID != "" {
		row.MessageID = &messageID
	}
	if row.CreatedAt.IsZero() {
		row.CreatedAt = time.Now().UTC()
	}

	inserted, err := s.repo.Append(ctx, nil, row)
	if err != nil {
		s.metrics.RecordOperationFailure(ctx, op, serviceName)
		span.RecordError(err)
		return false, fmt.Errorf("%s: %w", op, err)
	}
	if !inserted {
		s.logger.InfoContext(ctx, "Duplicate audit message ignored",
			attr.ExtractCorrelationID(ctx),
			attr.String("message_id", messageID),
		)
	}
	s.metrics.RecordOperationSuccess(ctx, op, serviceName)
	return inserted, nil
}

func (s *AuditService) ListRecent(ctx context.Context, limit int) ([]auditdb.Entry, error) {
	const op = "ListRecentAuditEntries"
	ctx, span := s.span(ctx, op)
	defer span.End()

	s.metrics.RecordOperationAttempt(ctx, op, serviceName)
	entries, err := s.repo.ListRecent(ctx, nil, ClampLimit(limit))
	if err != nil {
		s.metrics.RecordOperationFailure(ctx, op, serviceName)
		span.RecordError(err)
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if entries == nil {
		entries = []auditdb.Entry{}
	}
	s.metrics.RecordOperationSuccess(ctx, op, serviceName)
	return entries, nil
}
