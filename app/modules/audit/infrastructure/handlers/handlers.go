package audithandlers

import (
	"log/slog"
	"net/http"
	"strconv"

	auditservice "github.com/Black-And-White-Club/campus-events/app/modules/audit/application"
	authdomain "github.com/Black-And-White-Club/campus-events/app/modules/auth/domain"
	authhandlers "github.com/Black-And-White-Club/campus-events/app/modules/auth/infrastructure/handlers"
	"github.com/Black-And-White-Club/campus-events/app/shared/apperrors"
	"github.com/Black-And-White-Club/campus-events/app/shared/httpjson"
	"github.com/go-chi/chi/v5"
)

var errInvalidLimit = apperrors.Validation("Invalid limit")

// Authenticator is the part of the auth module the audit routes need.
type Authenticator interface {
	RequireAuth(next http.Handler) http.Handler
}

type AuditHandlers struct {
	service auditservice.Service
	logger  *slog.Logger
}

func NewAuditHandlers(service auditservice.Service, logger *slog.Logger) *AuditHandlers {
	return &AuditHandlers{service: service, logger: logger}
}

// Mount registers GET /admin/audit-log.
func (h *AuditHandlers) Mount(r chi.Router, auth Authenticator) {
	r.With(auth.RequireAuth, authhandlers.RequireCapability(authdomain.CapViewAuditLog)).
		Get("/admin/audit-log", h.HandleListAuditLog)
}

func (h *AuditHandlers) HandleListAuditLog(w http.ResponseWriter, r *http.Request) {
	const fallback = "Failed to fetch audit log"

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			httpjson.WriteError(w, r, h.logger, errInvalidLimit, fallback)
			return
		}
		limit = n
	}

	entries, err := h.service.ListRecent(r.Context(), limit)
	if err != nil {
		httpjson.WriteError(w, r, h.logger, err, fallback)
		return
	}
	httpjson.WriteJSON(w, http.StatusOK, map[string]any{"success": true, "count": len(entries), "logs": entries})
}
