package eventservice

import (
	"context"
	"time"

	eventdomain "github.com/Black-And-White-Club/campus-events/app/modules/event/domain"
	eventdb "github.com/Black-And-White-Club/campus-events/app/modules/event/infrastructure/repositories"
	"github.com/uptrace/bun"
)

// Service is the event module's application API.
type Service interface {
	// Registration engine
	Register(ctx context.Context, req RegisterRequest) (*RegistrationResult, error)
	CancelRegistration(ctx context.Context, eventID int64, email string) error
	MyRegistrations(ctx context.Context, email string) ([]eventdb.StudentRegistration, error)
	StudentRegistrations(ctx context.Context, studentID int64) ([]eventdb.StudentRegistration, error)
	ListActivity(ctx context.Context, eventID int64) ([]eventdb.RegistrationActivity, error)

	// Approval workflow
	CreateEvent(ctx context.Context, headStudentID int64, req CreateEventRequest) (*eventdb.Event, error)
	ApproveEvent(ctx context.Context, eventID, adminID int64, notes string) (*eventdb.Event, error)
	RejectEvent(ctx context.Context, eventID, adminID int64, reason string) (*eventdb.Event, error)

	// Queries
	ListEvents(ctx context.Context, filter ListFilter) ([]eventdb.EventSummary, error)
	ListPendingEvents(ctx context.Context) ([]eventdb.EventSummary, error)
	GetEvent(ctx context.Context, eventID int64) (*eventdb.EventSummary, error)
	ListVenues(ctx context.Context) ([]eventdb.Venue, error)

	// Club-head management
	Roster(ctx context.Context, headStudentID, eventID int64) ([]eventdb.RosterEntry, error)
	ExportRoster(ctx context.Context, headStudentID, eventID int64) (*RosterExport, error)
	MarkAttendance(ctx context.Context, headStudentID, eventID, registrationID int64, attended bool) error
	ListWinners(ctx context.Context, eventID int64) ([]eventdb.WinnerEntry, error)
	SaveWinners(ctx context.Context, headStudentID, eventID int64, winners []WinnerInput) ([]eventdb.WinnerEntry, error)

	// Background jobs
	CompletePastEvents(ctx context.Context) (int, error)
	AuditCounters(ctx context.Context) ([]eventdb.CounterDrift, error)

	// Dashboard
	CountEventsByStatus(ctx context.Context) ([]eventdb.StatusCount, error)
	CountVenues(ctx context.Context) (int, error)
	CountActiveRegistrations(ctx context.Context) (int, error)
}

// ClubLookup answers membership questions owned by the club module.
type ClubLookup interface {
	// IsActiveHead reports whether the student holds an active Head
	// membership in the active club.
	IsActiveHead(ctx context.Context, db bun.IDB, studentID, clubID int64) (bool, error)
}

// RegisterRequest is a public, email-identified registration request.
type RegisterRequest struct {
	EventID int64
	Email   string
	Name    string
	Phone   string
}

// RegistrationView is the registration returned to the caller.
type RegistrationView struct {
	ID        int64                          `json:"id"`
	StudentID string                         `json:"studentId"`
	EventID   int64                          `json:"eventId"`
	Status    eventdomain.RegistrationStatus `json:"status"`
	EventName string                         `json:"eventName"`
	EventDate string                         `json:"eventDate"`
	EventTime string                         `json:"eventTime"`
}

// RegistrationResult is the outcome of a successful Register call.
type RegistrationResult struct {
	Registration RegistrationView
	Message      string
	// Reactivated is true when a cancelled row was reused.
	Reactivated bool
	Action      eventdomain.ActivityAction
}

// CreateEventRequest carries the fields of POST /events.
type CreateEventRequest struct {
	Name                 string `json:"name"`
	Description          string `json:"description"`
	EventType            string `json:"event_type"`
	EventDate            string `json:"event_date"`
	StartTime            string `json:"start_time"`
	EndTime              string `json:"end_time"`
	ClubID               int64  `json:"club_id"`
	VenueID              *int64 `json:"venue_id"`
	MaxParticipants      *int   `json:"max_participants"`
	RegistrationDeadline string `json:"registration_deadline"`
}

// ListFilter narrows the public event listing.
type ListFilter struct {
	EventType string
	ClubID    int64
}

// RosterExport is a rendered roster workbook.
type RosterExport struct {
	Filename string
	Content  []byte
}

// WinnerInput is one entry of a winners submission.
type WinnerInput struct {
	StudentID int64 `json:"student_id"`
	Position  int   `json:"position"`
}

const (
	dateLayout = time.DateOnly
	timeLayout = "15:04"
)
