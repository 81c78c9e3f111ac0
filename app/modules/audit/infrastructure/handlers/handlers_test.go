package audithandlers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Black-And-White-Club/campus-events/app/modules/audit/auditevents"
	auditdb "github.com/Black-And-White-Club/campus-events/app/modules/audit/infrastructure/repositories"
	authdomain "github.com/Black-And-White-Club/campus-events/app/modules/auth/domain"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeService struct {
	trace []string

	ListRecentFunc func(ctx context.Context, limit int) ([]auditdb.Entry, error)
}

func (f *fakeService) Persist(context.Context, string, auditevents.AdminActionRecorded) (bool, error) {
	f.trace = append(f.trace, "Persist")
	return true, nil
}

func (f *fakeService) ListRecent(ctx context.Context, limit int) ([]auditdb.Entry, error) {
	f.trace = append(f.trace, "ListRecent")
	if f.ListRecentFunc != nil {
		return f.ListRecentFunc(ctx, limit)
	}
	return []auditdb.Entry{}, nil
}

type headerAuth struct{}

func (headerAuth) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		role := r.Header.Get("X-Test-Role")
		if role == "" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		claims := &authdomain.Claims{UserID: 1, Role: authdomain.Role(role)}
		next.ServeHTTP(w, r.WithContext(authdomain.WithClaims(r.Context(), claims)))
	})
}

func serve(svc *fakeService, path string, role authdomain.Role) *httptest.ResponseRecorder {
	r := chi.NewRouter()
	NewAuditHandlers(svc, slog.New(slog.NewTextHandler(io.Discard, nil))).Mount(r, headerAuth{})
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if role != "" {
		req.Header.Set("X-Test-Role", string(role))
	}
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)
	return rr
}

func TestHandleListAuditLog(t *testing.T) {
	tests := []struct {
		name       string
		path       string
		role       authdomain.Role
		err        error
		wantStatus int
		wantLimit  int
		wantCalled bool
	}{
		{name: "admin default limit", path: "/admin/audit-log", role: authdomain.RoleAdmin, wantStatus: http.StatusOK, wantLimit: 0, wantCalled: true},
		{name: "admin explicit limit", path: "/admin/audit-log?limit=20", role: authdomain.RoleAdmin, wantStatus: http.StatusOK, wantLimit: 20, wantCalled: true},
		{name: "bad limit", path: "/admin/audit-log?limit=abc", role: authdomain.RoleAdmin, wantStatus: http.StatusBadRequest},
		{name: "zero limit", path: "/admin/audit-log?limit=0", role: authdomain.RoleAdmin, wantStatus: http.StatusBadRequest},
		{name: "faculty forbidden", path: "/admin/audit-log", role: authdomain.RoleFaculty, wantStatus: http.StatusForbidden},
		{name: "anonymous", path: "/admin/audit-log", wantStatus: http.StatusUnauthorized},
		{name: "repository failure", path: "/admin/audit-log", role: authdomain.RoleAdmin, err: errors.New("db down"), wantStatus: http.StatusInternalServerError, wantCalled: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gotLimit := -1
			svc := &fakeService{
				ListRecentFunc: func(_ context.Context, limit int) ([]auditdb.Entry, error) {
					gotLimit = limit
					if tt.err != nil {
						return nil, tt.err
					}
					return []auditdb.Entry{{ID: 1, ActionType: auditevents.ActionCreateClub}}, nil
				},
			}

			rr := serve(svc, tt.path, tt.role)
			assert.Equal(t, tt.wantStatus, rr.Code)
			if !tt.wantCalled {
				assert.Empty(t, svc.trace)
				return
			}
			assert.Equal(t, tt.wantLimit, gotLimit)
			if tt.wantStatus == http.StatusOK {
				var body struct {
					Success bool            `json:"success"`
					Count   int             `json:"count"`
					Logs    []auditdb.Entry `json:"logs"`
				}
				require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
				assert.True(t, body.Success)
				assert.Equal(t, 1, body.Count)
				assert.Equal(t, auditevents.ActionCreateClub, body.Logs[0].ActionType)
			}
		})
	}
}
