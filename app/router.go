package app

import (
	"context"
	"net/http"
	"sort"
	"time"

	authhandlers "github.com/Black-And-White-Club/campus-events/app/modules/auth/infrastructure/handlers"
	"github.com/Black-And-White-Club/campus-events/app/observability"
	"github.com/Black-And-White-Club/campus-events/app/observability/attr"
	"github.com/Black-And-White-Club/campus-events/app/shared/httpjson"
	"github.com/Black-And-White-Club/campus-events/config"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const healthTimeout = 3 * time.Second

// newRouter builds the root router with the shared middleware stack and the
// operational endpoints. Modules mount their own routes on it.
func newRouter(cfg *config.Config, obs observability.Observability, checks map[string]func(ctx context.Context) error) chi.Router {
	r := chi.NewRouter()
	r.Use(
		middleware.RequestID,
		middleware.RealIP,
		authhandlers.CorrelationMiddleware,
		middleware.Recoverer,
		authhandlers.CORSMiddleware(cfg.HTTP.AllowedOrigins),
	)

	r.Get("/health", healthHandler(obs, checks))
	r.Handle("/metrics", promhttp.HandlerFor(obs.Registry, promhttp.HandlerOpts{Registry: obs.Registry}))
	return r
}

// healthHandler answers 200 when every check passes and 503 otherwise.
func healthHandler(obs observability.Observability, checks map[string]func(ctx context.Context) error) http.HandlerFunc {
	names := make([]string, 0, len(checks))
	for name := range checks {
		names = append(names, name)
	}
	sort.Strings(names)

	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), healthTimeout)
		defer cancel()

		status := "ok"
		code := http.StatusOK
		results := make(map[string]string, len(checks))
		for _, name := range names {
			if err := checks[name](ctx); err != nil {
				obs.Logger.WarnContext(ctx, "Health check failed",
					attr.ExtractCorrelationID(ctx),
					attr.String("check", name),
					attr.Error(err),
				)
				results[name] = "unavailable"
				status = "unavailable"
				code = http.StatusServiceUnavailable
				continue
			}
			results[name] = "ok"
		}
		httpjson.WriteJSON(w, code, map[string]any{"status": status, "checks": results})
	}
}
