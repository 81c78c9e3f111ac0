package eventdb

import (
	"time"

	eventdomain "github.com/Black-And-White-Club/campus-events/app/modules/event/domain"
	"github.com/uptrace/bun"
)

// Venue is a bookable campus location.
type Venue struct {
	bun.BaseModel `bun:"table:venues,alias:v"`

	ID         int64     `bun:"id,pk,autoincrement" json:"id"`
	Name       string    `bun:"name,notnull" json:"name"`
	Location   *string   `bun:"location" json:"location,omitempty"`
	Capacity   *int      `bun:"capacity" json:"capacity,omitempty"`
	Facilities *string   `bun:"facilities" json:"facilities,omitempty"`
	IsActive   bool      `bun:"is_active,notnull,default:true" json:"is_active"`
	CreatedAt  time.Time `bun:"created_at,notnull,default:current_timestamp" json:"created_at"`
}

// VenueBooking reserves a venue for an event. Its status follows the event's
// approval decision.
type VenueBooking struct {
	bun.BaseModel `bun:"table:venue_bookings,alias:vb"`

	ID                int64                     `bun:"id,pk,autoincrement" json:"id"`
	VenueID           int64                     `bun:"venue_id,notnull" json:"venue_id"`
	ClubID            int64                     `bun:"club_id,notnull" json:"club_id"`
	BookingDate       time.Time                 `bun:"booking_date,type:date,notnull" json:"booking_date"`
	StartTime         string                    `bun:"start_time,type:time,notnull" json:"start_time"`
	EndTime           string                    `bun:"end_time,type:time,notnull" json:"end_time"`
	Purpose           *string                   `bun:"purpose" json:"purpose,omitempty"`
	Status            eventdomain.BookingStatus `bun:"status,notnull" json:"status"`
	BookedByStudentID *int64                    `bun:"booked_by_student_id" json:"booked_by_student_id,omitempty"`
	CreatedAt         time.Time                 `bun:"created_at,notnull,default:current_timestamp" json:"created_at"`
}

// Event is a club event. CurrentRegistrations is the derived count of
// Registered rows and is only written through AdjustRegistrationCount.
type Event struct {
	bun.BaseModel `bun:"table:events,alias:e"`

	ID                   int64                   `bun:"id,pk,autoincrement" json:"id"`
	Name                 string                  `bun:"name,notnull" json:"name"`
	Description          *string                 `bun:"description" json:"description,omitempty"`
	EventType            *string                 `bun:"event_type" json:"event_type,omitempty"`
	EventDate            time.Time               `bun:"event_date,type:date,notnull" json:"event_date"`
	StartTime            string                  `bun:"start_time,type:time,notnull" json:"start_time"`
	EndTime              string                  `bun:"end_time,type:time,notnull" json:"end_time"`
	ClubID               int64                   `bun:"club_id,notnull" json:"club_id"`
	VenueID              *int64                  `bun:"venue_id" json:"venue_id,omitempty"`
	BookingID            *int64                  `bun:"booking_id" json:"booking_id,omitempty"`
	MaxParticipants      *int                    `bun:"max_participants" json:"max_participants"`
	RegistrationDeadline *time.Time              `bun:"registration_deadline" json:"registration_deadline,omitempty"`
	CurrentRegistrations int                     `bun:"current_registrations,notnull,default:0" json:"current_registrations"`
	Status               eventdomain.EventStatus `bun:"status,notnull" json:"status"`
	CreatedByStudentID   *int64                  `bun:"created_by_student_id" json:"created_by_student_id,omitempty"`
	ApprovedByAdminID    *int64                  `bun:"approved_by_admin_id" json:"approved_by_admin_id,omitempty"`
	ApprovalNotes        *string                 `bun:"approval_notes" json:"approval_notes,omitempty"`
	RejectionReason      *string                 `bun:"rejection_reason" json:"rejection_reason,omitempty"`
	DecidedAt            *time.Time              `bun:"decided_at" json:"decided_at,omitempty"`
	CreatedAt            time.Time               `bun:"created_at,notnull,default:current_timestamp" json:"created_at"`
	UpdatedAt            time.Time               `bun:"updated_at,notnull,default:current_timestamp" json:"updated_at"`
}

// Registration is one student's registration for one event. Rows are never
// deleted; cancellation and reactivation change Status in place.
type Registration struct {
	bun.BaseModel `bun:"table:event_registrations,alias:r"`

	ID               int64                          `bun:"id,pk,autoincrement" json:"id"`
	StudentID        int64                          `bun:"student_id,notnull" json:"student_id"`
	EventID          int64                          `bun:"event_id,notnull" json:"event_id"`
	Status           eventdomain.RegistrationStatus `bun:"registration_status,notnull" json:"registration_status"`
	Attended         bool                           `bun:"attended,notnull,default:false" json:"attended"`
	RegistrationTime time.Time                      `bun:"registration_time,notnull" json:"registration_time"`
	UpdatedAt        time.Time                      `bun:"updated_at,notnull,default:current_timestamp" json:"updated_at"`
}

// RegistrationActivity is an append-only counter ledger entry.
type RegistrationActivity struct {
	bun.BaseModel `bun:"table:registration_activity_log,alias:ral"`

	ID         int64                      `bun:"id,pk,autoincrement" json:"id"`
	EventID    int64                      `bun:"event_id,notnull" json:"event_id"`
	StudentID  int64                      `bun:"student_id,notnull" json:"student_id"`
	ActionType eventdomain.ActivityAction `bun:"action_type,notnull" json:"action_type"`
	OldCount   int                        `bun:"old_count,notnull" json:"old_count"`
	NewCount   int                        `bun:"new_count,notnull" json:"new_count"`
	Capacity   *int                       `bun:"capacity" json:"capacity"`
	CreatedAt  time.Time                  `bun:"created_at,notnull" json:"created_at"`
}

// Winner is a podium position for an event.
type Winner struct {
	bun.BaseModel `bun:"table:event_winners,alias:w"`

	ID        int64     `bun:"id,pk,autoincrement"`
	EventID   int64     `bun:"event_id,notnull"`
	StudentID int64     `bun:"student_id,notnull"`
	Position  int       `bun:"position,notnull"`
	CreatedAt time.Time `bun:"created_at,notnull,default:current_timestamp"`
}

// EventSummary is an event joined with its club, venue and live count.
type EventSummary struct {
	Event `bun:",extend"`

	ClubName        string  `bun:"club_name" json:"club_name"`
	VenueName       *string `bun:"venue_name" json:"venue_name,omitempty"`
	RegisteredCount int     `bun:"registered_count" json:"registered_count"`
	// SpotsLeft is nil when the event has no capacity limit.
	SpotsLeft *int `bun:"-" json:"spots_left"`
}

// StudentRegistration is a student's registration with event details.
type StudentRegistration struct {
	RegistrationID   int64                          `bun:"registration_id" json:"registration_id"`
	EventID          int64                          `bun:"event_id" json:"event_id"`
	EventName        string                         `bun:"event_name" json:"event_name"`
	EventType        *string                        `bun:"event_type" json:"event_type,omitempty"`
	EventDate        time.Time                      `bun:"event_date" json:"event_date"`
	StartTime        string                         `bun:"start_time" json:"start_time"`
	EndTime          string                         `bun:"end_time" json:"end_time"`
	EventStatus      eventdomain.EventStatus        `bun:"event_status" json:"event_status"`
	Status           eventdomain.RegistrationStatus `bun:"registration_status" json:"registration_status"`
	Attended         bool                           `bun:"attended" json:"attended"`
	RegistrationTime time.Time                      `bun:"registration_time" json:"registration_time"`
	ClubName         string                         `bun:"club_name" json:"club_name"`
	VenueName        *string                        `bun:"venue_name" json:"venue_name,omitempty"`
	RegisteredCount  int                            `bun:"registered_count" json:"registered_count"`
	MaxParticipants  *int                           `bun:"max_participants" json:"max_participants"`
}

// RosterEntry is a registration with student contact details.
type RosterEntry struct {
	RegistrationID   int64                          `bun:"registration_id" json:"registration_id"`
	StudentID        int64                          `bun:"student_id" json:"student_id"`
	RollNumber       string                         `bun:"roll_number" json:"roll_number"`
	Name             string                         `bun:"name" json:"name"`
	Email            string                         `bun:"email" json:"email"`
	Phone            *string                        `bun:"phone" json:"phone,omitempty"`
	Status           eventdomain.RegistrationStatus `bun:"registration_status" json:"registration_status"`
	Attended         bool                           `bun:"attended" json:"attended"`
	RegistrationTime time.Time                      `bun:"registration_time" json:"registration_time"`
}

// WinnerEntry is a winner with student details.
type WinnerEntry struct {
	ID          int64  `bun:"id" json:"id"`
	EventID     int64  `bun:"event_id" json:"event_id"`
	StudentID   int64  `bun:"student_id" json:"student_id"`
	Position    int    `bun:"position" json:"position"`
	StudentName string `bun:"student_name" json:"student_name"`
	RollNumber  string `bun:"roll_number" json:"roll_number"`
	Email       string `bun:"email" json:"email"`
}

// CounterDrift is an event whose stored counter disagrees with its rows.
type CounterDrift struct {
	EventID int64 `bun:"event_id" json:"event_id"`
	Stored  int   `bun:"stored" json:"stored"`
	Live    int   `bun:"live" json:"live"`
}

// StatusCount is the number of events in one status.
type StatusCount struct {
	Status eventdomain.EventStatus `bun:"status" json:"status"`
	Count  int                     `bun:"count" json:"count"`
}

// EventFilter narrows ListEvents. Zero values match everything.
type EventFilter struct {
	EventType string
	ClubID    int64
	Statuses  []eventdomain.EventStatus
	// OldestFirst orders by submission time instead of event date.
	OldestFirst bool
}

// DecisionUpdate is the row change an approval decision makes.
type DecisionUpdate struct {
	Status          eventdomain.EventStatus
	AdminID         int64
	ApprovalNotes   *string
	RejectionReason *string
	At              time.Time
}
