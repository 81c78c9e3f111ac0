package eventqueue

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	eventdb "github.com/Black-And-White-Club/campus-events/app/modules/event/infrastructure/repositories"
	"github.com/riverqueue/river"
	"github.com/riverqueue/river/rivertype"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeMaintenance struct {
	trace []string

	CompletePastEventsFunc func(ctx context.Context) (int, error)
	AuditCountersFunc      func(ctx context.Context) ([]eventdb.CounterDrift, error)
}

func (f *fakeMaintenance) CompletePastEvents(ctx context.Context) (int, error) {
	f.trace = append(f.trace, "CompletePastEvents")
	if f.CompletePastEventsFunc != nil {
		return f.CompletePastEventsFunc(ctx)
	}
	return 0, nil
}

func (f *fakeMaintenance) AuditCounters(ctx context.Context) ([]eventdb.CounterDrift, error) {
	f.trace = append(f.trace, "AuditCounters")
	if f.AuditCountersFunc != nil {
		return f.AuditCountersFunc(ctx)
	}
	return nil, nil
}

func discard() *slog.Logger { return slog.New(slog.NewTextHandler(io.Discard, nil)) }

func TestCompletePastEventsWorker(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		wantErr bool
	}{
		{name: "success"},
		{name: "service failure is retried", err: assert.AnError, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fake := &fakeMaintenance{
				CompletePastEventsFunc: func(ctx context.Context) (int, error) { return 2, tt.err },
			}
			w := NewCompletePastEventsWorker(fake, discard())

			err := w.Work(context.Background(), &river.Job[CompletePastEventsJob]{JobRow: &rivertype.JobRow{ID: 1}})

			if tt.wantErr {
				require.ErrorIs(t, err, assert.AnError)
			} else {
				require.NoError(t, err)
			}
			assert.Equal(t, []string{"CompletePastEvents"}, fake.trace)
		})
	}
}

func TestCounterAuditWorker(t *testing.T) {
	fake := &fakeMaintenance{
		AuditCountersFunc: func(ctx context.Context) ([]eventdb.CounterDrift, error) {
			return []eventdb.CounterDrift{{EventID: 3, Stored: 5, Live: 4}}, nil
		},
	}
	w := NewCounterAuditWorker(fake, discard())

	require.NoError(t, w.Work(context.Background(), &river.Job[CounterAuditJob]{JobRow: &rivertype.JobRow{ID: 7}}))
	assert.Equal(t, []string{"AuditCounters"}, fake.trace)

	fake.AuditCountersFunc = func(ctx context.Context) ([]eventdb.CounterDrift, error) { return nil, assert.AnError }
	assert.Error(t, w.Work(context.Background(), &river.Job[CounterAuditJob]{JobRow: &rivertype.JobRow{ID: 8}}))
}

func TestRiverConfig(t *testing.T) {
	cfg := riverConfig(&fakeMaintenance{}, Config{
		CompleteEventsEvery: time.Hour,
		CounterAuditEvery:   15 * time.Minute,
	}, discard())

	assert.Len(t, cfg.PeriodicJobs, 2)
	assert.Equal(t, 1, cfg.Queues[queueName].MaxWorkers)
	assert.NotNil(t, cfg.Workers)
}

func TestJobKinds(t *testing.T) {
	assert.Equal(t, "event_complete_past", CompletePastEventsJob{}.Kind())
	assert.Equal(t, "event_counter_audit", CounterAuditJob{}.Kind())
}
