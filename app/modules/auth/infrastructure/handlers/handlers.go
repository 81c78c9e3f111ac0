package authhandlers

import (
	"context"
	"log/slog"
	"net/http"

	authservice "github.com/Black-And-White-Club/campus-events/app/modules/auth/application"
	authdomain "github.com/Black-And-White-Club/campus-events/app/modules/auth/domain"
	"github.com/Black-And-White-Club/campus-events/app/shared/apperrors"
	"github.com/Black-And-White-Club/campus-events/app/shared/httpjson"
	"go.opentelemetry.io/otel/trace"
)

// AuthHandlers serves the login and registration endpoints.
type AuthHandlers struct {
	service authservice.Service
	logger  *slog.Logger
	tracer  trace.Tracer
}

// NewAuthHandlers creates a new AuthHandlers instance.
func NewAuthHandlers(service authservice.Service, logger *slog.Logger, tracer trace.Tracer) *AuthHandlers {
	return &AuthHandlers{
		service: service,
		logger:  logger,
		tracer:  tracer,
	}
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type sessionResponse struct {
	Success bool `json:"success"`
	*authservice.Session
}

// HandleStudentRegister creates a student login and returns a session.
func (h *AuthHandlers) HandleStudentRegister(w http.ResponseWriter, r *http.Request) {
	var req authservice.RegisterStudentRequest
	if err := httpjson.Decode(r, &req); err != nil {
		httpjson.WriteError(w, r, h.logger, err, "Registration failed")
		return
	}

	session, err := h.service.RegisterStudent(r.Context(), req)
	if err != nil {
		httpjson.WriteError(w, r, h.logger, err, "Registration failed")
		return
	}
	httpjson.WriteJSON(w, http.StatusCreated, sessionResponse{Success: true, Session: session})
}

// HandleStudentLogin authenticates a student.
func (h *AuthHandlers) HandleStudentLogin(w http.ResponseWriter, r *http.Request) {
	h.login(w, r, h.service.LoginStudent)
}

// HandleStaffLogin authenticates a faculty or admin account.
func (h *AuthHandlers) HandleStaffLogin(w http.ResponseWriter, r *http.Request) {
	h.login(w, r, h.service.LoginStaff)
}

func (h *AuthHandlers) login(w http.ResponseWriter, r *http.Request, fn func(ctx context.Context, email, password string) (*authservice.Session, error)) {
	var req loginRequest
	if err := httpjson.Decode(r, &req); err != nil {
		httpjson.WriteError(w, r, h.logger, err, "Login failed")
		return
	}
	if req.Email == "" || req.Password == "" {
		httpjson.WriteError(w, r, h.logger, apperrors.Validation("Email and password are required"), "Login failed")
		return
	}

	session, err := fn(r.Context(), req.Email, req.Password)
	if err != nil {
		httpjson.WriteError(w, r, h.logger, err, "Login failed")
		return
	}
	httpjson.WriteJSON(w, http.StatusOK, sessionResponse{Success: true, Session: session})
}

// HandleMe echoes the caller's validated claims.
func (h *AuthHandlers) HandleMe(w http.ResponseWriter, r *http.Request) {
	claims, ok := authdomain.ClaimsFromContext(r.Context())
	if !ok {
		httpjson.WriteError(w, r, h.logger, authservice.ErrMissingToken, "Failed to load session")
		return
	}
	httpjson.WriteJSON(w, http.StatusOK, map[string]any{
		"success":      true,
		"id":           claims.UserID,
		"email":        claims.Email,
		"role":         claims.Role,
		"capabilities": claims.Role.Capabilities(),
		"expiresAt":    claims.ExpiresAt,
	})
}
