package club

import (
	"context"

	"github.com/Black-And-White-Club/campus-events/app/modules/audit/auditevents"
	clubservice "github.com/Black-And-White-Club/campus-events/app/modules/club/application"
	clubhandlers "github.com/Black-And-White-Club/campus-events/app/modules/club/infrastructure/handlers"
	clubdb "github.com/Black-And-White-Club/campus-events/app/modules/club/infrastructure/repositories"
	studentdb "github.com/Black-And-White-Club/campus-events/app/modules/student/infrastructure/repositories"
	"github.com/Black-And-White-Club/campus-events/app/observability"
	"github.com/Black-And-White-Club/campus-events/app/observability/metrics"
	"github.com/Black-And-White-Club/campus-events/app/shared/clock"
	"github.com/go-chi/chi/v5"
	"github.com/uptrace/bun"
)

// Module represents the club module.
type Module struct {
	ClubService clubservice.Service
	repo        clubdb.Repository
	handlers    *clubhandlers.ClubHandlers
}

// NewClubModule creates and initializes the club module. Routes are mounted
// separately with Mount because the auth guard is built from this module's
// repository.
func NewClubModule(
	ctx context.Context,
	obs observability.Observability,
	students studentdb.Repository,
	audit auditevents.Recorder,
	db *bun.DB,
) *Module {
	logger := obs.Logger
	tracer := obs.Tracer

	logger.InfoContext(ctx, "club.NewClubModule initializing")

	repo := clubdb.NewRepository(db)
	service := clubservice.NewClubService(
		repo,
		students,
		audit,
		clock.RealClock{},
		logger,
		metrics.NewOperationMetrics(obs.Registry, "club"),
		tracer,
		db,
	)

	return &Module{
		ClubService: service,
		repo:        repo,
		handlers:    clubhandlers.NewClubHandlers(service, logger, tracer),
	}
}

// Mount registers the club routes.
func (m *Module) Mount(r chi.Router, guard clubhandlers.Guard) {
	m.handlers.Mount(r, guard)
}

// Repository exposes the head lookups used by the auth and event modules.
func (m *Module) Repository() clubdb.Repository {
	return m.repo
}
