package adminhandlers

import (
	"log/slog"
	"net/http"
	"strconv"

	adminservice "github.com/Black-And-White-Club/campus-events/app/modules/admin/application"
	authdomain "github.com/Black-And-White-Club/campus-events/app/modules/auth/domain"
	authhandlers "github.com/Black-And-White-Club/campus-events/app/modules/auth/infrastructure/handlers"
	"github.com/Black-And-White-Club/campus-events/app/shared/httpjson"
	"github.com/go-chi/chi/v5"
)

// Authenticator is the part of the auth module the dashboard routes need.
type Authenticator interface {
	RequireAuth(next http.Handler) http.Handler
}

type AdminHandlers struct {
	service adminservice.Service
	logger  *slog.Logger
}

func NewAdminHandlers(service adminservice.Service, logger *slog.Logger) *AdminHandlers {
	return &AdminHandlers{service: service, logger: logger}
}

// Mount registers the dashboard routes. Paths are absolute because other
// modules also register routes under /admin.
func (h *AdminHandlers) Mount(r chi.Router, auth Authenticator) {
	r.Group(func(r chi.Router) {
		r.Use(auth.RequireAuth, authhandlers.RequireCapability(authdomain.CapViewDashboard))
		r.Get("/admin/dashboard", h.HandleDashboard)
		r.Get("/admin/dashboard/chart.png", h.HandleChart)
	})
}

func (h *AdminHandlers) HandleDashboard(w http.ResponseWriter, r *http.Request) {
	stats, err := h.service.Stats(r.Context())
	if err != nil {
		httpjson.WriteError(w, r, h.logger, err, "Failed to fetch dashboard statistics")
		return
	}
	httpjson.WriteJSON(w, http.StatusOK, map[string]any{"success": true, "stats": stats})
}

func (h *AdminHandlers) HandleChart(w http.ResponseWriter, r *http.Request) {
	png, err := h.service.EventsChart(r.Context())
	if err != nil {
		httpjson.WriteError(w, r, h.logger, err, "Failed to render dashboard chart")
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "no-store")
	w.Header().Set("Content-Length", strconv.Itoa(len(png)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(png)
}
