package clubservice

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/Black-And-White-Club/campus-events/app/modules/audit/auditevents"
	clubdb "github.com/Black-And-White-Club/campus-events/app/modules/club/infrastructure/repositories"
	studentdb "github.com/Black-And-White-Club/campus-events/app/modules/student/infrastructure/repositories"
	"github.com/Black-And-White-Club/campus-events/app/observability/attr"
	"github.com/Black-And-White-Club/campus-events/app/observability/metrics"
	"github.com/Black-And-White-Club/campus-events/app/shared/apperrors"
	"github.com/Black-And-White-Club/campus-events/app/shared/clock"
	"github.com/Black-And-White-Club/campus-events/app/shared/results"
	"github.com/uptrace/bun"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

const serviceName = "ClubService"

// ClubService implements the Service interface.
type ClubService struct {
	repo     clubdb.Repository
	students studentdb.Repository
	audit    auditevents.Recorder
	clock    clock.Clock
	logger   *slog.Logger
	metrics  metrics.OperationMetrics
	tracer   trace.Tracer
	db       *bun.DB
}

// NewClubService creates a new ClubService.
func NewClubService(
	repo clubdb.Repository,
	students studentdb.Repository,
	audit auditevents.Recorder,
	clk clock.Clock,
	logger *slog.Logger,
	m metrics.OperationMetrics,
	tracer trace.Tracer,
	db *bun.DB,
) *ClubService {
	if logger == nil {
		logger = slog.Default()
	}
	if audit == nil {
		audit = auditevents.Discard
	}
	if clk == nil {
		clk = clock.RealClock{}
	}
	return &ClubService{
		repo:     repo,
		students: students,
		audit:    audit,
		clock:    clk,
		logger:   logger,
		metrics:  m,
		tracer:   tracer,
		db:       db,
	}
}

var _ Service = (*ClubService)(nil)

// -----------------------------------------------------------------------------
// Generic Helpers (Defined as functions because methods cannot have type params)
// -----------------------------------------------------------------------------

type opResult[S any] = results.OperationResult[S, *apperrors.Error]

func success[S any](s S) opResult[S] {
	return results.SuccessResult[S, *apperrors.Error](s)
}

func failure[S any](f *apperrors.Error) opResult[S] {
	return results.FailureResult[S, *apperrors.Error](f)
}

func unwrap[S any](result opResult[S], err error) (S, error) {
	var zero S
	if err != nil {
		return zero, err
	}
	if result.IsFailure() {
		return zero, *result.Failure
	}
	return *result.Success, nil
}

// withTelemetry wraps a service operation with tracing, metrics, and panic recovery.
func withTelemetry[S any](
	s *ClubService,
	ctx context.Context,
	operationName string,
	identifier string,
	op func(ctx context.Context) (opResult[S], error),
) (result opResult[S], err error) {
	var span trace.Span
	if s.tracer != nil {
		ctx, span = s.tracer.Start(ctx, operationName, trace.WithAttributes(
			attribute.String("operation", operationName),
			attribute.String("identifier", identifier),
		))
	} else {
		span = trace.SpanFromContext(ctx)
	}
	defer span.End()

	if s.metrics != nil {
		s.metrics.RecordOperationAttempt(ctx, operationName, serviceName)
	}
	startTime := time.Now()
	defer func() {
		if s.metrics != nil {
			s.metrics.RecordOperationDuration(ctx, operationName, serviceName, time.Since(startTime))
		}
	}()

	s.logger.InfoContext(ctx, "Operation triggered", attr.ExtractCorrelationID(ctx), attr.String("operation", operationName))

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic in %s: %v", operationName, r)
			s.logger.ErrorContext(ctx, "Critical panic recovered",
				attr.ExtractCorrelationID(ctx),
				attr.String("identifier", identifier),
				attr.Error(err),
			)
			if s.metrics != nil {
				s.metrics.RecordOperationFailure(ctx, operationName, serviceName)
			}
			span.RecordError(err)
			result = opResult[S]{}
		}
	}()

	result, err = op(ctx)

	if err != nil {
		wrappedErr := fmt.Errorf("%s: %w", operationName, err)
		s.logger.ErrorContext(ctx, "Operation failed with error",
			attr.ExtractCorrelationID(ctx),
			attr.String("operation", operationName),
			attr.String("identifier", identifier),
			attr.Error(wrappedErr),
		)
		if s.metrics != nil {
			s.metrics.RecordOperationFailure(ctx, operationName, serviceName)
		}
		span.RecordError(wrappedErr)
		return result, wrappedErr
	}

	if result.IsFailure() {
		s.logger.WarnContext(ctx, "Operation returned failure result",
			attr.ExtractCorrelationID(ctx),
			attr.String("operation", operationName),
			attr.String("identifier", identifier),
			attr.String("failure", (*result.Failure).Message),
		)
		if s.metrics != nil {
			s.metrics.RecordOperationFailure(ctx, operationName, serviceName)
		}
		return result, nil
	}

	if s.metrics != nil {
		s.metrics.RecordOperationSuccess(ctx, operationName, serviceName)
	}
	return result, nil
}

var errDomainFailure = errors.New("domain failure")

// runInTx ensures the operation runs within a transaction. A failure result
// rolls it back.
func runInTx[S any](
	s *ClubService,
	ctx context.Context,
	fn func(ctx context.Context, db bun.IDB) (opResult[S], error),
) (opResult[S], error) {
	if s.db == nil {
		return fn(ctx, nil)
	}

	var result opResult[S]
	err := s.db.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		var txErr error
		result, txErr = fn(ctx, tx)
		if txErr != nil {
			return txErr
		}
		if result.IsFailure() {
			return errDomainFailure
		}
		return nil
	})
	if errors.Is(err, errDomainFailure) {
		return result, nil
	}
	return result, err
}

func (s *ClubService) conn() bun.IDB {
	if s.db == nil {
		return nil
	}
	return s.db
}

func (s *ClubService) record(ctx context.Context, entry auditevents.AdminActionRecorded) {
	entry.OccurredAt = s.clock.Now().UTC()
	s.audit.Record(ctx, entry)
}
