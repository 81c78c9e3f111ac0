package eventhandlers

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	authdomain "github.com/Black-And-White-Club/campus-events/app/modules/auth/domain"
	eventservice "github.com/Black-And-White-Club/campus-events/app/modules/event/application"
	"github.com/Black-And-White-Club/campus-events/app/shared/apperrors"
	"github.com/Black-And-White-Club/campus-events/app/shared/httpjson"
	"github.com/go-chi/chi/v5"
	"go.opentelemetry.io/otel/trace"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

var (
	errInvalidEventID        = apperrors.Validation("Invalid event id")
	errInvalidStudentID      = apperrors.Validation("Invalid student id")
	errInvalidRegistrationID = apperrors.Validation("Invalid registration id")
	errAttendedNotBool       = apperrors.Validation("attended must be a boolean")
	errNotAuthenticated      = apperrors.Unauthenticated("Access denied. No token provided.")
)

// EventHandlers serves the event, registration and venue endpoints.
type EventHandlers struct {
	service eventservice.Service
	logger  *slog.Logger
	tracer  trace.Tracer
}

// NewEventHandlers creates a new EventHandlers instance.
func NewEventHandlers(service eventservice.Service, logger *slog.Logger, tracer trace.Tracer) *EventHandlers {
	return &EventHandlers{
		service: service,
		logger:  logger,
		tracer:  tracer,
	}
}

type registerBody struct {
	Email string `json:"email"`
	Name  string `json:"name"`
	Phone string `json:"phone"`
}

type registerResponse struct {
	Success      bool                          `json:"success"`
	Message      string                        `json:"message"`
	Registration eventservice.RegistrationView `json:"registration"`
}

type messageResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

func pathID(r *http.Request, name string, invalid *apperrors.Error) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil || id <= 0 {
		return 0, invalid
	}
	return id, nil
}

func claims(r *http.Request) (*authdomain.Claims, error) {
	c, ok := authdomain.ClaimsFromContext(r.Context())
	if !ok {
		return nil, errNotAuthenticated
	}
	return c, nil
}

// HandleRegister registers the student identified by email. A fresh row
// answers 201, a reactivated one 200.
func (h *EventHandlers) HandleRegister(w http.ResponseWriter, r *http.Request) {
	const fallback = "Failed to register for event"
	eventID, err := pathID(r, "eventId", errInvalidEventID)
	if err != nil {
		httpjson.WriteError(w, r, h.logger, err, fallback)
		return
	}
	var body registerBody
	if err := httpjson.Decode(r, &body); err != nil {
		httpjson.WriteError(w, r, h.logger, err, fallback)
		return
	}

	res, err := h.service.Register(r.Context(), eventservice.RegisterRequest{
		EventID: eventID,
		Email:   body.Email,
		Name:    body.Name,
		Phone:   body.Phone,
	})
	if err != nil {
		httpjson.WriteError(w, r, h.logger, err, fallback)
		return
	}

	status := http.StatusCreated
	if res.Reactivated {
		status = http.StatusOK
	}
	httpjson.WriteJSON(w, status, registerResponse{Success: true, Message: res.Message, Registration: res.Registration})
}

// HandleCancel cancels the active registration of the student identified by email.
func (h *EventHandlers) HandleCancel(w http.ResponseWriter, r *http.Request) {
	const fallback = "Failed to cancel registration"
	eventID, err := pathID(r, "eventId", errInvalidEventID)
	if err != nil {
		httpjson.WriteError(w, r, h.logger, err, fallback)
		return
	}
	var body registerBody
	if err := httpjson.Decode(r, &body); err != nil {
		httpjson.WriteError(w, r, h.logger, err, fallback)
		return
	}

	if err := h.service.CancelRegistration(r.Context(), eventID, body.Email); err != nil {
		httpjson.WriteError(w, r, h.logger, err, fallback)
		return
	}
	httpjson.WriteJSON(w, http.StatusOK, messageResponse{Success: true, Message: "Registration cancelled successfully"})
}

func (h *EventHandlers) HandleMyRegistrations(w http.ResponseWriter, r *http.Request) {
	const fallback = "Failed to fetch user events"
	regs, err := h.service.MyRegistrations(r.Context(), r.URL.Query().Get("email"))
	if err != nil {
		httpjson.WriteError(w, r, h.logger, err, fallback)
		return
	}
	httpjson.WriteJSON(w, http.StatusOK, map[string]any{"success": true, "count": len(regs), "events": regs})
}

func (h *EventHandlers) HandleStudentRegistrations(w http.ResponseWriter, r *http.Request) {
	const fallback = "Failed to fetch user events"
	studentID, err := pathID(r, "studentId", errInvalidStudentID)
	if err != nil {
		httpjson.WriteError(w, r, h.logger, err, fallback)
		return
	}
	regs, err := h.service.StudentRegistrations(r.Context(), studentID)
	if err != nil {
		httpjson.WriteError(w, r, h.logger, err, fallback)
		return
	}
	httpjson.WriteJSON(w, http.StatusOK, map[string]any{"success": true, "count": len(regs), "events": regs})
}

// HandleListEvents lists approved and completed events. Optional query
// filters: type, club_id.
func (h *EventHandlers) HandleListEvents(w http.ResponseWriter, r *http.Request) {
	const fallback = "Failed to fetch events"
	filter := eventservice.ListFilter{EventType: r.URL.Query().Get("type")}
	if raw := r.URL.Query().Get("club_id"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			httpjson.WriteError(w, r, h.logger, apperrors.Validation("Invalid club id"), fallback)
			return
		}
		filter.ClubID = id
	}
	events, err := h.service.ListEvents(r.Context(), filter)
	if err != nil {
		httpjson.WriteError(w, r, h.logger, err, fallback)
		return
	}
	httpjson.WriteJSON(w, http.StatusOK, map[string]any{"success": true, "count": len(events), "events": events})
}

func (h *EventHandlers) HandleListPending(w http.ResponseWriter, r *http.Request) {
	const fallback = "Failed to fetch pending events"
	events, err := h.service.ListPendingEvents(r.Context())
	if err != nil {
		httpjson.WriteError(w, r, h.logger, err, fallback)
		return
	}
	httpjson.WriteJSON(w, http.StatusOK, map[string]any{"success": true, "count": len(events), "events": events})
}

func (h *EventHandlers) HandleGetEvent(w http.ResponseWriter, r *http.Request) {
	const fallback = "Failed to fetch event"
	eventID, err := pathID(r, "eventId", errInvalidEventID)
	if err != nil {
		httpjson.WriteError(w, r, h.logger, err, fallback)
		return
	}
	event, err := h.service.GetEvent(r.Context(), eventID)
	if err != nil {
		httpjson.WriteError(w, r, h.logger, err, fallback)
		return
	}
	httpjson.WriteJSON(w, http.StatusOK, map[string]any{"success": true, "event": event})
}

func (h *EventHandlers) HandleListVenues(w http.ResponseWriter, r *http.Request) {
	const fallback = "Failed to fetch venues"
	venues, err := h.service.ListVenues(r.Context())
	if err != nil {
		httpjson.WriteError(w, r, h.logger, err, fallback)
		return
	}
	httpjson.WriteJSON(w, http.StatusOK, map[string]any{"success": true, "venues": venues})
}

// HandleCreateEvent submits a new event for approval.
func (h *EventHandlers) HandleCreateEvent(w http.ResponseWriter, r *http.Request) {
	const fallback = "Failed to create event"
	c, err := claims(r)
	if err != nil {
		httpjson.WriteError(w, r, h.logger, err, fallback)
		return
	}
	var req eventservice.CreateEventRequest
	if err := httpjson.Decode(r, &req); err != nil {
		httpjson.WriteError(w, r, h.logger, err, fallback)
		return
	}
	event, err := h.service.CreateEvent(r.Context(), c.UserID, req)
	if err != nil {
		httpjson.WriteError(w, r, h.logger, err, fallback)
		return
	}
	httpjson.WriteJSON(w, http.StatusCreated, map[string]any{
		"success": true,
		"message": "Event created successfully and submitted for approval",
		"event":   event,
	})
}

type decisionBody struct {
	Notes  string `json:"approval_notes"`
	Reason string `json:"rejection_reason"`
}

func (h *EventHandlers) HandleApprove(w http.ResponseWriter, r *http.Request) {
	const fallback = "Failed to approve event"
	c, eventID, body, ok := h.decisionInput(w, r, fallback)
	if !ok {
		return
	}
	event, err := h.service.ApproveEvent(r.Context(), eventID, c.UserID, body.Notes)
	if err != nil {
		httpjson.WriteError(w, r, h.logger, err, fallback)
		return
	}
	httpjson.WriteJSON(w, http.StatusOK, map[string]any{"success": true, "message": "Event approved successfully", "event": event})
}

func (h *EventHandlers) HandleReject(w http.ResponseWriter, r *http.Request) {
	const fallback = "Failed to reject event"
	c, eventID, body, ok := h.decisionInput(w, r, fallback)
	if !ok {
		return
	}
	event, err := h.service.RejectEvent(r.Context(), eventID, c.UserID, body.Reason)
	if err != nil {
		httpjson.WriteError(w, r, h.logger, err, fallback)
		return
	}
	httpjson.WriteJSON(w, http.StatusOK, map[string]any{"success": true, "message": "Event rejected", "event": event})
}

func (h *EventHandlers) decisionInput(w http.ResponseWriter, r *http.Request, fallback string) (*authdomain.Claims, int64, decisionBody, bool) {
	var body decisionBody
	c, err := claims(r)
	if err != nil {
		httpjson.WriteError(w, r, h.logger, err, fallback)
		return nil, 0, body, false
	}
	eventID, err := pathID(r, "eventId", errInvalidEventID)
	if err != nil {
		httpjson.WriteError(w, r, h.logger, err, fallback)
		return nil, 0, body, false
	}
	if err := httpjson.Decode(r, &body); err != nil {
		httpjson.WriteError(w, r, h.logger, err, fallback)
		return nil, 0, body, false
	}
	return c, eventID, body, true
}

func (h *EventHandlers) HandleRoster(w http.ResponseWriter, r *http.Request) {
	const fallback = "Failed to fetch registrations"
	c, err := claims(r)
	if err != nil {
		httpjson.WriteError(w, r, h.logger, err, fallback)
		return
	}
	eventID, err := pathID(r, "eventId", errInvalidEventID)
	if err != nil {
		httpjson.WriteError(w, r, h.logger, err, fallback)
		return
	}
	roster, err := h.service.Roster(r.Context(), c.UserID, eventID)
	if err != nil {
		httpjson.WriteError(w, r, h.logger, err, fallback)
		return
	}
	httpjson.WriteJSON(w, http.StatusOK, map[string]any{"success": true, "count": len(roster), "registrations": roster})
}

// HandleExportRoster streams the roster as an XLSX attachment.
func (h *EventHandlers) HandleExportRoster(w http.ResponseWriter, r *http.Request) {
	const fallback = "Failed to export registrations"
	c, err := claims(r)
	if err != nil {
		httpjson.WriteError(w, r, h.logger, err, fallback)
		return
	}
	eventID, err := pathID(r, "eventId", errInvalidEventID)
	if err != nil {
		httpjson.WriteError(w, r, h.logger, err, fallback)
		return
	}
	export, err := h.service.ExportRoster(r.Context(), c.UserID, eventID)
	if err != nil {
		httpjson.WriteError(w, r, h.logger, err, fallback)
		return
	}
	w.Header().Set("Content-Type", xlsxContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", export.Filename))
	w.Header().Set("Content-Length", strconv.Itoa(len(export.Content)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(export.Content)
}

// HandleAttendance takes {"attended": bool}.
func (h *EventHandlers) HandleAttendance(w http.ResponseWriter, r *http.Request) {
	const fallback = "Failed to update attendance"
	c, err := claims(r)
	if err != nil {
		httpjson.WriteError(w, r, h.logger, err, fallback)
		return
	}
	eventID, err := pathID(r, "eventId", errInvalidEventID)
	if err != nil {
		httpjson.WriteError(w, r, h.logger, err, fallback)
		return
	}
	registrationID, err := pathID(r, "registrationId", errInvalidRegistrationID)
	if err != nil {
		httpjson.WriteError(w, r, h.logger, err, fallback)
		return
	}

	var body struct {
		Attended json.RawMessage `json:"attended"`
	}
	if err := httpjson.Decode(r, &body); err != nil {
		httpjson.WriteError(w, r, h.logger, err, fallback)
		return
	}
	var attended bool
	if len(body.Attended) == 0 || json.Unmarshal(body.Attended, &attended) != nil {
		httpjson.WriteError(w, r, h.logger, errAttendedNotBool, fallback)
		return
	}

	if err := h.service.MarkAttendance(r.Context(), c.UserID, eventID, registrationID, attended); err != nil {
		httpjson.WriteError(w, r, h.logger, err, fallback)
		return
	}
	httpjson.WriteJSON(w, http.StatusOK, messageResponse{Success: true, Message: "Attendance updated successfully"})
}

func (h *EventHandlers) HandleListWinners(w http.ResponseWriter, r *http.Request) {
	const fallback = "Failed to fetch winners"
	eventID, err := pathID(r, "eventId", errInvalidEventID)
	if err != nil {
		httpjson.WriteError(w, r, h.logger, err, fallback)
		return
	}
	winners, err := h.service.ListWinners(r.Context(), eventID)
	if err != nil {
		httpjson.WriteError(w, r, h.logger, err, fallback)
		return
	}
	httpjson.WriteJSON(w, http.StatusOK, map[string]any{"success": true, "winners": winners})
}

func (h *EventHandlers) HandleSaveWinners(w http.ResponseWriter, r *http.Request) {
	const fallback = "Failed to save winners"
	c, err := claims(r)
	if err != nil {
		httpjson.WriteError(w, r, h.logger, err, fallback)
		return
	}
	eventID, err := pathID(r, "eventId", errInvalidEventID)
	if err != nil {
		httpjson.WriteError(w, r, h.logger, err, fallback)
		return
	}
	var body struct {
		Winners []eventservice.WinnerInput `json:"winners"`
	}
	if err := httpjson.Decode(r, &body); err != nil {
		httpjson.WriteError(w, r, h.logger, err, fallback)
		return
	}
	winners, err := h.service.SaveWinners(r.Context(), c.UserID, eventID, body.Winners)
	if err != nil {
		httpjson.WriteError(w, r, h.logger, err, fallback)
		return
	}
	httpjson.WriteJSON(w, http.StatusOK, map[string]any{"success": true, "message": "Winners saved successfully", "winners": winners})
}

func (h *EventHandlers) HandleActivity(w http.ResponseWriter, r *http.Request) {
	const fallback = "Failed to fetch registration activity"
	eventID, err := pathID(r, "eventId", errInvalidEventID)
	if err != nil {
		httpjson.WriteError(w, r, h.logger, err, fallback)
		return
	}
	entries, err := h.service.ListActivity(r.Context(), eventID)
	if err != nil {
		httpjson.WriteError(w, r, h.logger, err, fallback)
		return
	}
	httpjson.WriteJSON(w, http.StatusOK, map[string]any{"success": true, "count": len(entries), "activity": entries})
}
