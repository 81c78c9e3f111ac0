package event

import (
	"context"
	"fmt"
	"sync"

	"github.com/Black-And-White-Club/campus-events/app/modules/audit/auditevents"
	eventservice "github.com/Black-And-White-Club/campus-events/app/modules/event/application"
	eventhandlers "github.com/Black-And-White-Club/campus-events/app/modules/event/infrastructure/handlers"
	eventqueue "github.com/Black-And-White-Club/campus-events/app/modules/event/infrastructure/queue"
	eventdb "github.com/Black-And-White-Club/campus-events/app/modules/event/infrastructure/repositories"
	studentdb "github.com/Black-And-White-Club/campus-events/app/modules/student/infrastructure/repositories"
	"github.com/Black-And-White-Club/campus-events/app/observability"
	"github.com/Black-And-White-Club/campus-events/app/observability/attr"
	"github.com/Black-And-White-Club/campus-events/app/observability/metrics"
	"github.com/Black-And-White-Club/campus-events/app/shared/clock"
	"github.com/Black-And-White-Club/campus-events/config"
	"github.com/go-chi/chi/v5"
	"github.com/uptrace/bun"
)

// Module represents the event module.
type Module struct {
	Service       eventservice.Service
	queue         *eventqueue.Service
	cancelFunc    context.CancelFunc
	observability observability.Observability
}

// Deps carries what the event module borrows from other modules.
type Deps struct {
	Students studentdb.Repository
	Clubs    eventservice.ClubLookup
	Audit    auditevents.Recorder
	Guard    eventhandlers.Guard
}

// NewEventModule creates and initializes the event module. Routes are mounted
// on httpRouter when it is non-nil; the River queue is created when enabled.
func NewEventModule(
	ctx context.Context,
	cfg *config.Config,
	obs observability.Observability,
	deps Deps,
	httpRouter chi.Router,
	db *bun.DB,
) (*Module, error) {
	logger := obs.Logger
	tracer := obs.Tracer

	logger.InfoContext(ctx, "event.NewEventModule initializing")

	repo := eventdb.NewRepository(db)
	service := eventservice.NewEventService(
		repo,
		deps.Students,
		deps.Clubs,
		deps.Audit,
		clock.RealClock{},
		logger,
		metrics.NewRegistrationMetrics(obs.Registry),
		tracer,
		db,
	)

	if httpRouter != nil {
		eventhandlers.NewEventHandlers(service, logger, tracer).Mount(httpRouter, deps.Guard)
	}

	m := &Module{Service: service, observability: obs}

	if cfg.Queue.Enabled {
		q, err := eventqueue.NewService(ctx, cfg.Postgres.DSN, service, eventqueue.Config{
			CompleteEventsEvery: cfg.Queue.CompleteEventsEvery,
			CounterAuditEvery:   cfg.Queue.CounterAuditEvery,
			MaxWorkers:          cfg.Queue.MaxWorkers,
		}, logger, metrics.NewOperationMetrics(obs.Registry, "queue"))
		if err != nil {
			return nil, fmt.Errorf("failed to create event queue: %w", err)
		}
		m.queue = q
	}

	return m, nil
}

// Run starts the queue, if any, and blocks until ctx is cancelled.
func (m *Module) Run(ctx context.Context, wg *sync.WaitGroup) {
	logger := m.observability.Logger
	logger.InfoContext(ctx, "Starting event module")

	ctx, cancel := context.WithCancel(ctx)
	m.cancelFunc = cancel
	defer cancel()

	if wg != nil {
		defer wg.Done()
	}

	if m.queue != nil {
		if err := m.queue.Start(ctx); err != nil {
			logger.ErrorContext(ctx, "Event queue failed to start", attr.Error(err))
		}
	}

	<-ctx.Done()
	logger.InfoContext(ctx, "Event module goroutine stopped")
}

// Close shuts down the event module.
func (m *Module) Close(ctx context.Context) error {
	logger := m.observability.Logger
	logger.Info("Stopping event module")

	if m.cancelFunc != nil {
		m.cancelFunc()
	}

	if m.queue != nil {
		if err := m.queue.Stop(ctx); err != nil {
			return fmt.Errorf("error stopping event queue: %w", err)
		}
	}

	logger.Info("Event module stopped")
	return nil
}

// HealthCheck reports the queue's health when it is enabled.
func (m *Module) HealthCheck(ctx context.Context) error {
	if m.queue == nil {
		return nil
	}
	return m.queue.HealthCheck(ctx)
}
