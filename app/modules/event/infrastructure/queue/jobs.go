package eventqueue

import (
	"context"
	"fmt"
	"log/slog"

	eventdb "github.com/Black-And-White-Club/campus-events/app/modules/event/infrastructure/repositories"
	"github.com/Black-And-White-Club/campus-events/app/observability/attr"
	"github.com/riverqueue/river"
)

// Maintenance is the slice of the event service the workers drive.
type Maintenance interface {
	CompletePastEvents(ctx context.Context) (int, error)
	AuditCounters(ctx context.Context) ([]eventdb.CounterDrift, error)
}

// CompletePastEventsJob moves approved events whose date has passed to Completed.
type CompletePastEventsJob struct{}

// Kind returns the job type identifier for River
func (CompletePastEventsJob) Kind() string { return "event_complete_past" }

// CounterAuditJob compares stored registration counters with the live count.
type CounterAuditJob struct{}

// Kind returns the job type identifier for River
func (CounterAuditJob) Kind() string { return "event_counter_audit" }

// CompletePastEventsWorker runs CompletePastEventsJob.
type CompletePastEventsWorker struct {
	river.WorkerDefaults[CompletePastEventsJob]
	service Maintenance
	logger  *slog.Logger
}

func NewCompletePastEventsWorker(service Maintenance, logger *slog.Logger) *CompletePastEventsWorker {
	return &CompletePastEventsWorker{service: service, logger: logger}
}

func (w *CompletePastEventsWorker) Work(ctx context.Context, job *river.Job[CompletePastEventsJob]) error {
	n, err := w.service.CompletePastEvents(ctx)
	if err != nil {
		w.logger.ErrorContext(ctx, "Failed to complete past events",
			attr.Int64("job_id", job.ID),
			attr.Error(err),
		)
		return fmt.Errorf("complete past events: %w", err)
	}
	if n > 0 {
		w.logger.InfoContext(ctx, "Completed past events", attr.Int("count", n))
	}
	return nil
}

// CounterAuditWorker runs CounterAuditJob. Drift is reported, never repaired.
type CounterAuditWorker struct {
	river.WorkerDefaults[CounterAuditJob]
	service Maintenance
	logger  *slog.Logger
}

func NewCounterAuditWorker(service Maintenance, logger *slog.Logger) *CounterAuditWorker {
	return &CounterAuditWorker{service: service, logger: logger}
}

func (w *CounterAuditWorker) Work(ctx context.Context, job *river.Job[CounterAuditJob]) error {
	drifts, err := w.service.AuditCounters(ctx)
	if err != nil {
		w.logger.ErrorContext(ctx, "Counter audit failed",
			attr.Int64("job_id", job.ID),
			attr.Error(err),
		)
		return fmt.Errorf("audit counters: %w", err)
	}
	w.logger.DebugContext(ctx, "Counter audit finished", attr.Int("drifted_events", len(drifts)))
	return nil
}
