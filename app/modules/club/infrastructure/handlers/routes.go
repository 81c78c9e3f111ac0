package clubhandlers

import (
	"net/http"

	authdomain "github.com/Black-And-White-Club/campus-events/app/modules/auth/domain"
	authhandlers "github.com/Black-And-White-Club/campus-events/app/modules/auth/infrastructure/handlers"
	"github.com/go-chi/chi/v5"
)

// Guard supplies the auth middleware owned by the auth module.
type Guard interface {
	RequireAuth(next http.Handler) http.Handler
	OptionalAuth(next http.Handler) http.Handler
	RateLimit(next http.Handler) http.Handler
}

// Mount registers /clubs and the /admin/clubs management routes on r.
func (h *ClubHandlers) Mount(r chi.Router, guard Guard) {
	can := authhandlers.RequireCapability

	r.Route("/clubs", func(r chi.Router) {
		r.Get("/", h.HandleListClubs)
		r.Get("/{clubId}", h.HandleGetClub)
		r.Get("/{clubId}/members", h.HandleListMembers)
		r.With(guard.RateLimit, guard.OptionalAuth, authhandlers.RequireCapabilityIfAuthenticated(authdomain.CapJoinClub)).
			Post("/{clubId}/join", h.HandleJoin)
	})

	r.Group(func(r chi.Router) {
		r.Use(guard.RequireAuth)
		r.With(can(authdomain.CapCreateClub)).Post("/admin/clubs", h.HandleCreateClub)
		r.With(can(authdomain.CapUpdateClub)).Put("/admin/clubs/{clubId}", h.HandleUpdateClub)
		r.With(can(authdomain.CapDeleteClub)).Delete("/admin/clubs/{clubId}", h.HandleDeleteClub)
		r.With(can(authdomain.CapUpdateClub)).Put("/admin/clubs/{clubId}/head", h.HandleAssignHead)
	})
}
