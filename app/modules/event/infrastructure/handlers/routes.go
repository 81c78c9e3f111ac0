package eventhandlers

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

// Mount registers the event routes on r.
func (h *EventHandlers) Mount(r chi.Router, guard Guard) {
	can := authhandlers.RequireCapability

	r.Get("/venues", h.HandleListVenues)

	r.Route("/events", func(r chi.Router) {
		r.Get("/", h.HandleListEvents)
		r.Get("/my-registrations", h.HandleMyRegistrations)
		r.Get("/student/{studentId}", h.HandleStudentRegistrations)
		r.Get("/{eventId}", h.HandleGetEvent)
		r.Get("/{eventId}/winners", h.HandleListWinners)

		// Registration stays open to anonymous callers identified by email.
		r.Group(func(r chi.Router) {
			r.Use(guard.RateLimit, guard.OptionalAuth)
			r.With(authhandlers.RequireCapabilityIfAuthenticated(authdomain.CapRegisterEvent)).
				Post("/{eventId}/register", h.HandleRegister)
			r.With(authhandlers.RequireCapabilityIfAuthenticated(authdomain.CapCancelRegistration)).
				Delete("/{eventId}/register", h.HandleCancel)
		})

		r.Group(func(r chi.Router) {
			r.Use(guard.RequireAuth)

			r.With(can(authdomain.CapApproveEvent)).Get("/pending", h.HandleListPending)
			r.With(can(authdomain.CapApproveEvent)).Put("/{eventId}/approve", h.HandleApprove)
			r.With(can(authdomain.CapRejectEvent)).Put("/{eventId}/reject", h.HandleReject)
			r.With(can(authdomain.CapViewAuditLog)).Get("/{eventId}/activity", h.HandleActivity)

			r.With(can(authdomain.CapCreateEvent)).Post("/", h.HandleCreateEvent)
			r.With(can(authdomain.CapViewEventRegistrations)).Get("/{eventId}/registrations", h.HandleRoster)
			r.With(can(authdomain.CapViewEventRegistrations)).Get("/{eventId}/registrations/export", h.HandleExportRoster)
			r.With(can(authdomain.CapViewEventRegistrations)).Put("/{eventId}/registrations/{registrationId}/attendance", h.HandleAttendance)
			r.With(can(authdomain.CapCreateEvent)).Post("/{eventId}/winners", h.HandleSaveWinners)
		})
	})
}
