package audit

import (
	"context"
	"fmt"
	"sync"

	auditservice "github.com/Black-And-White-Club/campus-events/app/modules/audit/application"
	"github.com/Black-And-White-Club/campus-events/app/modules/audit/auditevents"
	auditbus "github.com/Black-And-White-Club/campus-events/app/modules/audit/infrastructure/bus"
	audithandlers "github.com/Black-And-White-Club/campus-events/app/modules/audit/infrastructure/handlers"
	auditdb "github.com/Black-And-White-Club/campus-events/app/modules/audit/infrastructure/repositories"
	"github.com/Black-And-White-Club/campus-events/app/observability"
	"github.com/Black-And-White-Club/campus-events/app/observability/attr"
	"github.com/Black-And-White-Club/campus-events/app/observability/metrics"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/go-chi/chi/v5"
	"github.com/uptrace/bun"
)

// Module represents the audit module: the bus publisher other modules record
// through, the subscriber that persists entries, and the audit log route.
type Module struct {
	Service       auditservice.Service
	recorder      *auditbus.Publisher
	router        *message.Router
	handlers      *audithandlers.AuditHandlers
	cancelFunc    context.CancelFunc
	observability observability.Observability
}

// NewAuditModule creates the audit module on top of the shared event bus.
func NewAuditModule(
	ctx context.Context,
	obs observability.Observability,
	publisher message.Publisher,
	subscriber message.Subscriber,
	db *bun.DB,
) (*Module, error) {
	logger := obs.Logger
	logger.InfoContext(ctx, "audit.NewAuditModule initializing")

	service := auditservice.NewAuditService(
		auditdb.NewRepository(db),
		logger,
		metrics.NewOperationMetrics(obs.Registry, "audit"),
		obs.Tracer,
	)

	router, err := auditbus.NewRouter(subscriber, auditbus.NewConsumer(service, logger), logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create audit router: %w", err)
	}

	return &Module{
		Service:       service,
		recorder:      auditbus.NewPublisher(publisher, logger),
		router:        router,
		handlers:      audithandlers.NewAuditHandlers(service, logger),
		observability: obs,
	}, nil
}

// Recorder is handed to modules that perform audited actions.
func (m *Module) Recorder() auditevents.Recorder {
	return m.recorder
}

// Mount registers the audit log route.
func (m *Module) Mount(r chi.Router, auth audithandlers.Authenticator) {
	m.handlers.Mount(r, auth)
}

// Run consumes audit messages until ctx is cancelled.
func (m *Module) Run(ctx context.Context, wg *sync.WaitGroup) {
	logger := m.observability.Logger
	logger.InfoContext(ctx, "Starting audit module")

	ctx, cancel := context.WithCancel(ctx)
	m.cancelFunc = cancel
	defer cancel()

	if wg != nil {
		defer wg.Done()
	}

	if err := m.router.Run(ctx); err != nil {
		logger.ErrorContext(ctx, "Audit router stopped with error", attr.Error(err))
	}
	logger.InfoContext(ctx, "Audit module goroutine stopped")
}

// Close stops the audit subscriber.
func (m *Module) Close() error {
	m.observability.Logger.Info("Stopping audit module")
	if m.cancelFunc != nil {
		m.cancelFunc()
	}
	if err := m.router.Close(); err != nil {
		return fmt.Errorf("error closing audit router: %w", err)
	}
	return nil
}
