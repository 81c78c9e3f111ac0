package admin

import (
	"context"

	adminservice "github.com/Black-And-White-Club/campus-events/app/modules/admin/application"
	adminhandlers "github.com/Black-And-White-Club/campus-events/app/modules/admin/infrastructure/handlers"
	"github.com/Black-And-White-Club/campus-events/app/observability"
	"github.com/Black-And-White-Club/campus-events/app/observability/metrics"
	"github.com/go-chi/chi/v5"
)

// Module represents the admin dashboard module. It owns no tables and reads
// through the club, event and student modules.
type Module struct {
	Service adminservice.Service
}

// NewAdminModule creates the module and mounts its routes when httpRouter is non-nil.
func NewAdminModule(
	ctx context.Context,
	obs observability.Observability,
	clubs adminservice.ClubCounter,
	events adminservice.EventCounter,
	students adminservice.StudentCounter,
	httpRouter chi.Router,
	auth adminhandlers.Authenticator,
) *Module {
	obs.Logger.InfoContext(ctx, "admin.NewAdminModule initializing")

	service := adminservice.NewAdminService(
		clubs,
		events,
		students,
		obs.Logger,
		metrics.NewOperationMetrics(obs.Registry, "admin"),
		obs.Tracer,
	)
	if httpRouter != nil {
		adminhandlers.NewAdminHandlers(service, obs.Logger).Mount(httpRouter, auth)
	}
	return &Module{Service: service}
}
