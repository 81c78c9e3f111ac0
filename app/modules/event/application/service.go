package eventservice

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/Black-And-White-Club/campus-events/app/modules/audit/auditevents"
	eventdb "github.com/Black-And-White-Club/campus-events/app/modules/event/infrastructure/repositories"
	studentdb "github.com/Black-And-White-Club/campus-events/app/modules/student/infrastructure/repositories"
	"github.com/Black-And-White-Club/campus-events/app/observability/attr"
	"github.com/Black-And-White-Club/campus-events/app/observability/metrics"
	"github.com/Black-And-White-Club/campus-events/app/shared/apperrors"
	"github.com/Black-And-White-Club/campus-events/app/shared/clock"
	"github.com/Black-And-White-Club/campus-events/app/shared/results"
	"github.com/olebedev/when"
	"github.com/uptrace/bun"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

const serviceName = "EventService"

// EventService implements the Service interface.
type EventService struct {
	repo     eventdb.Repository
	students studentdb.Repository
	clubs    ClubLookup
	audit    auditevents.Recorder
	clock    clock.Clock
	parser   *when.Parser
	logger   *slog.Logger
	metrics  metrics.RegistrationMetrics
	tracer   trace.Tracer
	db       *bun.DB
}

// NewEventService creates a new EventService.
func NewEventService(
	repo eventdb.Repository,
	students studentdb.Repository,
	clubs ClubLookup,
	audit auditevents.Recorder,
	clk clock.Clock,
	logger *slog.Logger,
	m metrics.RegistrationMetrics,
	tracer trace.Tracer,
	db *bun.DB,
) *EventService {
	if logger == nil {
		logger = slog.Default()
	}
	if audit == nil {
		audit = auditevents.Discard
	}
	if clk == nil {
		clk = clock.RealClock{}
	}
	return &EventService{
		repo:     repo,
		students: students,
		clubs:    clubs,
		audit:    audit,
		clock:    clk,
		parser:   newDeadlineParser(),
		logger:   logger,
		metrics:  m,
		tracer:   tracer,
		db:       db,
	}
}

var _ Service = (*EventService)(nil)

// -----------------------------------------------------------------------------
// Generic Helpers
// -----------------------------------------------------------------------------

type opResult[S any] = results.OperationResult[S, *apperrors.Error]

func success[S any](s S) opResult[S] {
	return results.SuccessResult[S, *apperrors.Error](s)
}

func failure[S any](f *apperrors.Error) opResult[S] {
	return results.FailureResult[S, *apperrors.Error](f)
}

// unwrap turns an operation result into the (value, error) pair public
// methods return.
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

type operationFunc[S any] func(ctx context.Context) (opResult[S], error)

// withTelemetry wraps a service operation with tracing, metrics, and panic recovery.
func withTelemetry[S any](
	s *EventService,
	ctx context.Context,
	operationName string,
	identifier string,
	op operationFunc[S],
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

	s.logger.InfoContext(ctx, "Operation completed successfully",
		attr.ExtractCorrelationID(ctx),
		attr.String("operation", operationName),
		attr.String("identifier", identifier),
	)
	if s.metrics != nil {
		s.metrics.RecordOperationSuccess(ctx, operationName, serviceName)
	}
	return result, nil
}

// errDomainFailure aborts a transaction whose operation returned a failure
// result. It never leaves runInTx.
var errDomainFailure = errors.New("domain failure")

// runInTx runs fn in a transaction. The transaction commits only when fn
// returns a success result.
func runInTx[S any](
	s *EventService,
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

// read runs fn outside a transaction against the service's connection.
func read[S any](s *EventService, ctx context.Context, fn func(ctx context.Context, db bun.IDB) (opResult[S], error)) (opResult[S], error) {
	return fn(ctx, s.conn())
}
