package eventservice

import (
	"context"
	"time"

	eventdb "github.com/Black-And-White-Club/campus-events/app/modules/event/infrastructure/repositories"
	"github.com/Black-And-White-Club/campus-events/app/observability/attr"
	"github.com/uptrace/bun"
)

// CompletePastEvents marks approved events dated before today as Completed.
func (s *EventService) CompletePastEvents(ctx context.Context) (int, error) {
	now := s.clock.Now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	result, err := withTelemetry(s, ctx, "CompletePastEvents", today.Format(dateLayout), func(ctx context.Context) (opResult[int], error) {
		return runInTx(s, ctx, func(ctx context.Context, db bun.IDB) (opResult[int], error) {
			n, err := s.repo.CompletePastEvents(ctx, db, today)
			if err != nil {
				return opResult[int]{}, err
			}
			return success(n), nil
		})
	})
	return unwrap(result, err)
}

// AuditCounters reports events whose stored registration counter disagrees
// with their Registered rows. Drift is reported, never corrected.
func (s *EventService) AuditCounters(ctx context.Context) ([]eventdb.CounterDrift, error) {
	result, err := withTelemetry(s, ctx, "AuditCounters", "", func(ctx context.Context) (opResult[[]eventdb.CounterDrift], error) {
		return read(s, ctx, func(ctx context.Context, db bun.IDB) (opResult[[]eventdb.CounterDrift], error) {
			drift, err := s.repo.FindCounterDrift(ctx, db)
			if err != nil {
				return opResult[[]eventdb.CounterDrift]{}, err
			}
			return success(nonNil(drift)), nil
		})
	})
	drift, err := unwrap(result, err)
	if err != nil {
		return nil, err
	}

	for _, d := range drift {
		s.logger.WarnContext(ctx, "Registration counter drift detected",
			attr.ExtractCorrelationID(ctx),
			attr.Int64("event_id", d.EventID),
			attr.Int("stored", d.Stored),
			attr.Int("live", d.Live),
		)
		if s.metrics != nil {
			s.metrics.SetCounterDrift(d.EventID, d.Stored-d.Live)
		}
	}
	return drift, nil
}
