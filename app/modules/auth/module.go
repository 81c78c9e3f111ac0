package auth

import (
	"context"
	"net/http"

	authservice "github.com/Black-And-White-Club/campus-events/app/modules/auth/application"
	authhandlers "github.com/Black-And-White-Club/campus-events/app/modules/auth/infrastructure/handlers"
	authjwt "github.com/Black-And-White-Club/campus-events/app/modules/auth/infrastructure/jwt"
	authdb "github.com/Black-And-White-Club/campus-events/app/modules/auth/infrastructure/repositories"
	studentdb "github.com/Black-And-White-Club/campus-events/app/modules/student/infrastructure/repositories"
	"github.com/Black-And-White-Club/campus-events/app/observability"
	"github.com/Black-And-White-Club/campus-events/config"
	"github.com/go-chi/chi/v5"
	"github.com/uptrace/bun"
	"golang.org/x/time/rate"
)

// Module represents the auth module.
type Module struct {
	service  authservice.Service
	handlers *authhandlers.AuthHandlers
	limiter  *authhandlers.IPRateLimiter
}

// NewModule creates a new auth module and mounts its routes under /auth.
func NewModule(
	ctx context.Context,
	cfg *config.Config,
	obs observability.Observability,
	students studentdb.Repository,
	heads authservice.HeadLookup,
	httpRouter chi.Router,
	db *bun.DB,
) (*Module, error) {
	logger := obs.Logger
	tracer := obs.Tracer

	logger.InfoContext(ctx, "Initializing auth module")

	jwtProvider := authjwt.NewProvider(cfg.JWT.Secret)

	service := authservice.NewService(
		jwtProvider,
		students,
		authdb.NewRepository(db),
		heads,
		authservice.Config{DefaultTTL: cfg.JWT.DefaultTTL},
		logger,
		tracer,
		db,
	)

	handlers := authhandlers.NewAuthHandlers(service, logger, tracer)
	limiter := authhandlers.NewIPRateLimiter(rate.Limit(cfg.HTTP.RateLimit), cfg.HTTP.RateBurst)

	m := &Module{
		service:  service,
		handlers: handlers,
		limiter:  limiter,
	}

	if httpRouter != nil {
		httpRouter.Route("/auth", func(r chi.Router) {
			r.Group(func(r chi.Router) {
				r.Use(authhandlers.RateLimitMiddleware(limiter))
				r.Post("/student/register", handlers.HandleStudentRegister)
				r.Post("/student/login", handlers.HandleStudentLogin)
				r.Post("/admin/login", handlers.HandleStaffLogin)
			})

			r.Group(func(r chi.Router) {
				r.Use(m.RequireAuth)
				r.Get("/me", handlers.HandleMe)
			})
		})
	}

	return m, nil
}

// RequireAuth validates the bearer token for routes of other modules.
func (m *Module) RequireAuth(next http.Handler) http.Handler {
	return authhandlers.RequireAuth(m.service)(next)
}

// OptionalAuth attaches claims when a bearer token is sent.
func (m *Module) OptionalAuth(next http.Handler) http.Handler {
	return authhandlers.OptionalAuth(m.service)(next)
}

// RateLimit applies the shared per-IP limiter.
func (m *Module) RateLimit(next http.Handler) http.Handler {
	return authhandlers.RateLimitMiddleware(m.limiter)(next)
}

// GetService returns the auth service for use by other modules.
func (m *Module) GetService() authservice.Service {
	return m.service
}
