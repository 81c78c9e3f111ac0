package eventdb

import (
	"context"
	"time"

	eventdomain "github.com/Black-And-White-Club/campus-events/app/modules/event/domain"
	"github.com/uptrace/bun"
)

// Repository defines the persistence contract for events, registrations,
// venues and the registration activity log.
//
// Error semantics:
//   - ErrNotFound: requested record does not exist
//   - ErrNotPending: DecideEvent matched no pending event
//   - ErrStatusChanged: UpdateRegistrationStatus saw a different current status
//   - ErrDuplicate: an insert hit a unique constraint
//   - other errors: infrastructure failures
type Repository interface {
	// Events
	CreateEvent(ctx context.Context, db bun.IDB, event *Event) error
	GetEvent(ctx context.Context, db bun.IDB, id int64) (*Event, error)
	// GetEventForUpdate row-locks the event until the transaction ends. Every
	// writer of registrations for the event takes this lock first.
	GetEventForUpdate(ctx context.Context, db bun.IDB, id int64) (*Event, error)
	GetEventSummary(ctx context.Context, db bun.IDB, id int64) (*EventSummary, error)
	ListEvents(ctx context.Context, db bun.IDB, filter EventFilter) ([]EventSummary, error)
	// DecideEvent applies an approval decision only if the event is still
	// Pending_Approval.
	DecideEvent(ctx context.Context, db bun.IDB, id int64, update DecisionUpdate) (*Event, error)
	// AdjustRegistrationCount moves current_registrations by delta and returns the new value.
	AdjustRegistrationCount(ctx context.Context, db bun.IDB, eventID int64, delta int) (int, error)
	CompletePastEvents(ctx context.Context, db bun.IDB, before time.Time) (int, error)
	FindCounterDrift(ctx context.Context, db bun.IDB) ([]CounterDrift, error)
	CountEventsByStatus(ctx context.Context, db bun.IDB) ([]StatusCount, error)

	// Venues
	ListVenues(ctx context.Context, db bun.IDB) ([]Venue, error)
	GetVenue(ctx context.Context, db bun.IDB, id int64) (*Venue, error)
	CountVenues(ctx context.Context, db bun.IDB) (int, error)
	CreateBooking(ctx context.Context, db bun.IDB, booking *VenueBooking) error
	SetBookingStatus(ctx context.Context, db bun.IDB, bookingID int64, status eventdomain.BookingStatus) error

	// Registrations
	GetRegistration(ctx context.Context, db bun.IDB, studentID, eventID int64) (*Registration, error)
	InsertRegistration(ctx context.Context, db bun.IDB, reg *Registration) error
	// UpdateRegistrationStatus moves a row from one status to another.
	// registrationTime, when non-nil, replaces registration_time.
	UpdateRegistrationStatus(ctx context.Context, db bun.IDB, id int64, from, to eventdomain.RegistrationStatus, registrationTime *time.Time) error
	CountRegistered(ctx context.Context, db bun.IDB, eventID int64) (int, error)
	CountActiveRegistrations(ctx context.Context, db bun.IDB) (int, error)
	ListStudentRegistrations(ctx context.Context, db bun.IDB, studentID int64) ([]StudentRegistration, error)
	ListRoster(ctx context.Context, db bun.IDB, eventID int64) ([]RosterEntry, error)
	SetAttendance(ctx context.Context, db bun.IDB, eventID, registrationID int64, attended bool) error

	// Activity log, append only.
	AppendActivity(ctx context.Context, db bun.IDB, entry *RegistrationActivity) error
	ListActivity(ctx context.Context, db bun.IDB, eventID int64) ([]RegistrationActivity, error)

	// Winners
	ReplaceWinners(ctx context.Context, db bun.IDB, eventID int64, winners []Winner) error
	ListWinners(ctx context.Context, db bun.IDB, eventID int64) ([]WinnerEntry, error)
}
