package eventhandlers

import (
	"context"
	"net/http"

	eventservice "github.com/Black-And-White-Club/campus-events/app/modules/event/application"
	eventdb "github.com/Black-And-White-Club/campus-events/app/modules/event/infrastructure/repositories"
)

// ------------------------
// Fake Service
// ------------------------

type FakeService struct {
	trace []string

	RegisterFunc           func(ctx context.Context, req eventservice.RegisterRequest) (*eventservice.RegistrationResult, error)
	CancelRegistrationFunc func(ctx context.Context, eventID int64, email string) error
	MyRegistrationsFunc    func(ctx context.Context, email string) ([]eventdb.StudentRegistration, error)
	CreateEventFunc        func(ctx context.Context, headStudentID int64, req eventservice.CreateEventRequest) (*eventdb.Event, error)
	ApproveEventFunc       func(ctx context.Context, eventID, adminID int64, notes string) (*eventdb.Event, error)
	RejectEventFunc        func(ctx context.Context, eventID, adminID int64, reason string) (*eventdb.Event, error)
	ListEventsFunc         func(ctx context.Context, filter eventservice.ListFilter) ([]eventdb.EventSummary, error)
	GetEventFunc           func(ctx context.Context, eventID int64) (*eventdb.EventSummary, error)
	ExportRosterFunc       func(ctx context.Context, headStudentID, eventID int64) (*eventservice.RosterExport, error)
	MarkAttendanceFunc     func(ctx context.Context, headStudentID, eventID, registrationID int64, attended bool) error
	SaveWinnersFunc        func(ctx context.Context, headStudentID, eventID int64, winners []eventservice.WinnerInput) ([]eventdb.WinnerEntry, error)
}

func (f *FakeService) Trace() []string { return f.trace }

func (f *FakeService) record(step string) { f.trace = append(f.trace, step) }

func (f *FakeService) Register(ctx context.Context, req eventservice.RegisterRequest) (*eventservice.RegistrationResult, error) {
	f.record("Register")
	if f.RegisterFunc != nil {
		return f.RegisterFunc(ctx, req)
	}
	return &eventservice.RegistrationResult{}, nil
}

func (f *FakeService) CancelRegistration(ctx context.Context, eventID int64, email string) error {
	f.record("CancelRegistration")
	if f.CancelRegistrationFunc != nil {
		return f.CancelRegistrationFunc(ctx, eventID, email)
	}
	return nil
}

func (f *FakeService) MyRegistrations(ctx context.Context, email string) ([]eventdb.StudentRegistration, error) {
	f.record("MyRegistrations")
	if f.MyRegistrationsFunc != nil {
		return f.MyRegistrationsFunc(ctx, email)
	}
	return []eventdb.StudentRegistration{}, nil
}

func (f *FakeService) StudentRegistrations(ctx context.Context, studentID int64) ([]eventdb.StudentRegistration, error) {
	f.record("StudentRegistrations")
	return []eventdb.StudentRegistration{}, nil
}

func (f *FakeService) ListActivity(ctx context.Context, eventID int64) ([]eventdb.RegistrationActivity, error) {
	f.record("ListActivity")
	return []eventdb.RegistrationActivity{}, nil
}

func (f *FakeService) CreateEvent(ctx context.Context, headStudentID int64, req eventservice.CreateEventRequest) (*eventdb.Event, error) {
	f.record("CreateEvent")
	if f.CreateEventFunc != nil {
		return f.CreateEventFunc(ctx, headStudentID, req)
	}
	return &eventdb.Event{}, nil
}

func (f *FakeService) ApproveEvent(ctx context.Context, eventID, adminID int64, notes string) (*eventdb.Event, error) {
	f.record("ApproveEvent")
	if f.ApproveEventFunc != nil {
		return f.ApproveEventFunc(ctx, eventID, adminID, notes)
	}
	return &eventdb.Event{ID: eventID}, nil
}

func (f *FakeService) RejectEvent(ctx context.Context, eventID, adminID int64, reason string) (*eventdb.Event, error) {
	f.record("RejectEvent")
	if f.RejectEventFunc != nil {
		return f.RejectEventFunc(ctx, eventID, adminID, reason)
	}
	return &eventdb.Event{ID: eventID}, nil
}

func (f *FakeService) ListEvents(ctx context.Context, filter eventservice.ListFilter) ([]eventdb.EventSummary, error) {
	f.record("ListEvents")
	if f.ListEventsFunc != nil {
		return f.ListEventsFunc(ctx, filter)
	}
	return []eventdb.EventSummary{}, nil
}

func (f *FakeService) ListPendingEvents(ctx context.Context) ([]eventdb.EventSummary, error) {
	f.record("ListPendingEvents")
	return []eventdb.EventSummary{}, nil
}

func (f *FakeService) GetEvent(ctx context.Context, eventID int64) (*eventdb.EventSummary, error) {
	f.record("GetEvent")
	if f.GetEventFunc != nil {
		return f.GetEventFunc(ctx, eventID)
	}
	return &eventdb.EventSummary{}, nil
}

func (f *FakeService) ListVenues(ctx context.Context) ([]eventdb.Venue, error) {
	f.record("ListVenues")
	return []eventdb.Venue{}, nil
}

func (f *FakeService) Roster(ctx context.Context, headStudentID, eventID int64) ([]eventdb.RosterEntry, error) {
	f.record("Roster")
	return []eventdb.RosterEntry{}, nil
}

func (f *FakeService) ExportRoster(ctx context.Context, headStudentID, eventID int64) (*eventservice.RosterExport, error) {
	f.record("ExportRoster")
	if f.ExportRosterFunc != nil {
		return f.ExportRosterFunc(ctx, headStudentID, eventID)
	}
	return &eventservice.RosterExport{Filename: "roster.xlsx"}, nil
}

func (f *FakeService) MarkAttendance(ctx context.Context, headStudentID, eventID, registrationID int64, attended bool) error {
	f.record("MarkAttendance")
	if f.MarkAttendanceFunc != nil {
		return f.MarkAttendanceFunc(ctx, headStudentID, eventID, registrationID, attended)
	}
	return nil
}

func (f *FakeService) ListWinners(ctx context.Context, eventID int64) ([]eventdb.WinnerEntry, error) {
	f.record("ListWinners")
	return []eventdb.WinnerEntry{}, nil
}

func (f *FakeService) SaveWinners(ctx context.Context, headStudentID, eventID int64, winners []eventservice.WinnerInput) ([]eventdb.WinnerEntry, error) {
	f.record("SaveWinners")
	if f.SaveWinnersFunc != nil {
		return f.SaveWinnersFunc(ctx, headStudentID, eventID, winners)
	}
	return []eventdb.WinnerEntry{}, nil
}

func (f *FakeService) CompletePastEvents(ctx context.Context) (int, error) { return 0, nil }

func (f *FakeService) AuditCounters(ctx context.Context) ([]eventdb.CounterDrift, error) {
	return nil, nil
}

func (f *FakeService) CountEventsByStatus(ctx context.Context) ([]eventdb.StatusCount, error) {
	return nil, nil
}

func (f *FakeService) CountVenues(ctx context.Context) (int, error) { return 0, nil }

func (f *FakeService) CountActiveRegistrations(ctx context.Context) (int, error) { return 0, nil }

var _ eventservice.Service = (*FakeService)(nil)

// ------------------------
// Fake Guard
// ------------------------

// fakeGuard authenticates from an X-Test-Role header so routes can be
// exercised without tokens.
type fakeGuard struct {
	resolve func(r *http.Request) (*http.Request, bool)
}

func (g fakeGuard) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		r, ok := g.resolve(r)
		if !ok {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (g fakeGuard) OptionalAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if authed, ok := g.resolve(r); ok {
			r = authed
		}
		next.ServeHTTP(w, r)
	})
}

func (g fakeGuard) RateLimit(next http.Handler) http.Handler { return next }
