package app

import (
	"context"
	"fmt"
	"net/http"
	"sync"

	"github.com/Black-And-White-Club/campus-events/app/eventbus"
	"github.com/Black-And-White-Club/campus-events/app/modules/admin"
	adminservice "github.com/Black-And-White-Club/campus-events/app/modules/admin/application"
	"github.com/Black-And-White-Club/campus-events/app/modules/audit"
	"github.com/Black-And-White-Club/campus-events/app/modules/auth"
	"github.com/Black-And-White-Club/campus-events/app/modules/club"
	"github.com/Black-And-White-Club/campus-events/app/modules/event"
	studentdb "github.com/Black-And-White-Club/campus-events/app/modules/student/infrastructure/repositories"
	"github.com/Black-And-White-Club/campus-events/app/observability"
	"github.com/Black-And-White-Club/campus-events/config"
	"github.com/Black-And-White-Club/campus-events/db/bundb"
	"github.com/uptrace/bun"
)

// App wires every module onto one router, database and event bus.
type App struct {
	Config        *config.Config
	Observability observability.Observability
	DB            *bun.DB
	EventBus      *eventbus.EventBus
	Router        http.Handler

	AuthModule  *auth.Module
	ClubModule  *club.Module
	EventModule *event.Module
	AuditModule *audit.Module
	AdminModule *admin.Module

	wg sync.WaitGroup
}

// NewApp opens the database and event bus and builds the modules. Module order
// follows their dependencies: audit records for clubs and events, and the club
// repository answers head lookups for auth and events.
func NewApp(ctx context.Context, cfg *config.Config, obs observability.Observability) (*App, error) {
	logger := obs.Logger

	db, err := bundb.Open(ctx, cfg.Postgres.DSN)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	bus, err := eventbus.NewEventBus(ctx, cfg.NATS.URL, logger)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create event bus: %w", err)
	}

	a := &App{
		Config:        cfg,
		Observability: obs,
		DB:            db,
		EventBus:      bus,
	}
	if err := a.initModules(ctx); err != nil {
		_ = bus.Close()
		db.Close()
		return nil, err
	}
	return a, nil
}

func (a *App) initModules(ctx context.Context) error {
	cfg, obs, db := a.Config, a.Observability, a.DB

	router := newRouter(cfg, obs, a.healthChecks())
	students := studentdb.NewRepository(db)

	auditModule, err := audit.NewAuditModule(ctx, obs, a.EventBus.Publisher(), a.EventBus.Subscriber(), db)
	if err != nil {
		return fmt.Errorf("failed to initialize audit module: %w", err)
	}

	clubModule := club.NewClubModule(ctx, obs, students, auditModule.Recorder(), db)

	authModule, err := auth.NewModule(ctx, cfg, obs, students, clubModule.Repository(), router, db)
	if err != nil {
		return fmt.Errorf("failed to initialize auth module: %w", err)
	}
	clubModule.Mount(router, authModule)

	eventModule, err := event.NewEventModule(ctx, cfg, obs, event.Deps{
		Students: students,
		Clubs:    clubModule.Repository(),
		Audit:    auditModule.Recorder(),
		Guard:    authModule,
	}, router, db)
	if err != nil {
		return fmt.Errorf("failed to initialize event module: %w", err)
	}

	auditModule.Mount(router, authModule)

	adminModule := admin.NewAdminModule(ctx, obs,
		clubModule.ClubService,
		eventModule.Service,
		adminservice.StudentCounterFunc(func(ctx context.Context) (int, error) {
			return students.Count(ctx, nil)
		}),
		router,
		authModule,
	)

	a.Router = router
	a.AuthModule = authModule
	a.ClubModule = clubModule
	a.EventModule = eventModule
	a.AuditModule = auditModule
	a.AdminModule = adminModule
	return nil
}

func (a *App) healthChecks() map[string]func(ctx context.Context) error {
	return map[string]func(ctx context.Context) error{
		"database": a.DB.PingContext,
		"eventbus": func(context.Context) error { return a.EventBus.HealthCheck() },
		"queue": func(ctx context.Context) error {
			if a.EventModule == nil {
				return nil
			}
			return a.EventModule.HealthCheck(ctx)
		},
	}
}
