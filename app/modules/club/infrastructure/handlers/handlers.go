package clubhandlers

import (
	"log/slog"
	"net/http"
	"strconv"

	authdomain "github.com/Black-And-White-Club/campus-events/app/modules/auth/domain"
	clubservice "github.com/Black-And-White-Club/campus-events/app/modules/club/application"
	"github.com/Black-And-White-Club/campus-events/app/shared/apperrors"
	"github.com/Black-And-White-Club/campus-events/app/shared/httpjson"
	"github.com/go-chi/chi/v5"
	"go.opentelemetry.io/otel/trace"
)

var (
	errInvalidClubID    = apperrors.Validation("Invalid club id")
	errNotAuthenticated = apperrors.Unauthenticated("Access denied. No token provided.")
)

// ClubHandlers serves the public club endpoints and the admin club management endpoints.
type ClubHandlers struct {
	service clubservice.Service
	logger  *slog.Logger
	tracer  trace.Tracer
}

// NewClubHandlers creates a new ClubHandlers instance.
func NewClubHandlers(service clubservice.Service, logger *slog.Logger, tracer trace.Tracer) *ClubHandlers {
	return &ClubHandlers{
		service: service,
		logger:  logger,
		tracer:  tracer,
	}
}

func clubID(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, "clubId"), 10, 64)
	if err != nil || id <= 0 {
		return 0, errInvalidClubID
	}
	return id, nil
}

func adminID(r *http.Request) (int64, error) {
	c, ok := authdomain.ClaimsFromContext(r.Context())
	if !ok {
		return 0, errNotAuthenticated
	}
	return c.UserID, nil
}

func (h *ClubHandlers) HandleListClubs(w http.ResponseWriter, r *http.Request) {
	clubs, err := h.service.ListClubs(r.Context())
	if err != nil {
		httpjson.WriteError(w, r, h.logger, err, "Failed to fetch clubs")
		return
	}
	httpjson.WriteJSON(w, http.StatusOK, map[string]any{"success": true, "count": len(clubs), "clubs": clubs})
}

func (h *ClubHandlers) HandleGetClub(w http.ResponseWriter, r *http.Request) {
	const fallback = "Failed to fetch club"
	id, err := clubID(r)
	if err != nil {
		httpjson.WriteError(w, r, h.logger, err, fallback)
		return
	}
	club, err := h.service.GetClub(r.Context(), id)
	if err != nil {
		httpjson.WriteError(w, r, h.logger, err, fallback)
		return
	}
	httpjson.WriteJSON(w, http.StatusOK, map[string]any{"success": true, "club": club})
}

func (h *ClubHandlers) HandleListMembers(w http.ResponseWriter, r *http.Request) {
	const fallback = "Failed to fetch club members"
	id, err := clubID(r)
	if err != nil {
		httpjson.WriteError(w, r, h.logger, err, fallback)
		return
	}
	members, err := h.service.ListMembers(r.Context(), id)
	if err != nil {
		httpjson.WriteError(w, r, h.logger, err, fallback)
		return
	}
	httpjson.WriteJSON(w, http.StatusOK, map[string]any{"success": true, "count": len(members), "members": members})
}

// HandleJoin takes {"email": "..."}.
func (h *ClubHandlers) HandleJoin(w http.ResponseWriter, r *http.Request) {
	const fallback = "Failed to join club"
	id, err := clubID(r)
	if err != nil {
		httpjson.WriteError(w, r, h.logger, err, fallback)
		return
	}
	var body struct {
		Email string `json:"email"`
	}
	if err := httpjson.Decode(r, &body); err != nil {
		httpjson.WriteError(w, r, h.logger, err, fallback)
		return
	}
	res, err := h.service.JoinClub(r.Context(), id, body.Email)
	if err != nil {
		httpjson.WriteError(w, r, h.logger, err, fallback)
		return
	}
	httpjson.WriteJSON(w, http.StatusOK, map[string]any{"success": true, "message": res.Message, "membership": res})
}

func (h *ClubHandlers) HandleCreateClub(w http.ResponseWriter, r *http.Request) {
	const fallback = "Failed to create club"
	admin, err := adminID(r)
	if err != nil {
		httpjson.WriteError(w, r, h.logger, err, fallback)
		return
	}
	var req clubservice.CreateClubRequest
	if err := httpjson.Decode(r, &req); err != nil {
		httpjson.WriteError(w, r, h.logger, err, fallback)
		return
	}
	club, err := h.service.CreateClub(r.Context(), admin, req)
	if err != nil {
		httpjson.WriteError(w, r, h.logger, err, fallback)
		return
	}
	httpjson.WriteJSON(w, http.StatusCreated, map[string]any{"success": true, "message": "Club created successfully", "club": club})
}

func (h *ClubHandlers) HandleUpdateClub(w http.ResponseWriter, r *http.Request) {
	const fallback = "Failed to update club"
	admin, err := adminID(r)
	if err != nil {
		httpjson.WriteError(w, r, h.logger, err, fallback)
		return
	}
	id, err := clubID(r)
	if err != nil {
		httpjson.WriteError(w, r, h.logger, err, fallback)
		return
	}
	var req clubservice.UpdateClubRequest
	if err := httpjson.Decode(r, &req); err != nil {
		httpjson.WriteError(w, r, h.logger, err, fallback)
		return
	}
	club, err := h.service.UpdateClub(r.Context(), admin, id, req)
	if err != nil {
		httpjson.WriteError(w, r, h.logger, err, fallback)
		return
	}
	httpjson.WriteJSON(w, http.StatusOK, map[string]any{"success": true, "message": "Club updated successfully", "club": club})
}

func (h *ClubHandlers) HandleDeleteClub(w http.ResponseWriter, r *http.Request) {
	const fallback = "Failed to delete club"
	admin, err := adminID(r)
	if err != nil {
		httpjson.WriteError(w, r, h.logger, err, fallback)
		return
	}
	id, err := clubID(r)
	if err != nil {
		httpjson.WriteError(w, r, h.logger, err, fallback)
		return
	}
	if err := h.service.DeleteClub(r.Context(), admin, id); err != nil {
		httpjson.WriteError(w, r, h.logger, err, fallback)
		return
	}
	httpjson.WriteJSON(w, http.StatusOK, map[string]any{"success": true, "message": "Club deleted successfully"})
}

// HandleAssignHead takes {"student_id": n}.
func (h *ClubHandlers) HandleAssignHead(w http.ResponseWriter, r *http.Request) {
	const fallback = "Failed to assign club head"
	admin, err := adminID(r)
	if err != nil {
		httpjson.WriteError(w, r, h.logger, err, fallback)
		return
	}
	id, err := clubID(r)
	if err != nil {
		httpjson.WriteError(w, r, h.logger, err, fallback)
		return
	}
	var body struct {
		StudentID int64 `json:"student_id"`
	}
	if err := httpjson.Decode(r, &body); err != nil {
		httpjson.WriteError(w, r, h.logger, err, fallback)
		return
	}
	membership, err := h.service.AssignHead(r.Context(), admin, id, body.StudentID)
	if err != nil {
		httpjson.WriteError(w, r, h.logger, err, fallback)
		return
	}
	httpjson.WriteJSON(w, http.StatusOK, map[string]any{"success": true, "message": "Club head assigned successfully", "membership": membership})
}
