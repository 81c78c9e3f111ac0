package eventservice

import (
	"context"
	"sort"
	"sync"
	"time"

	eventdomain "github.com/Black-And-White-Club/campus-events/app/modules/event/domain"
	eventdb "github.com/Black-And-White-Club/campus-events/app/modules/event/infrastructure/repositories"
	studentdb "github.com/Black-And-White-Club/campus-events/app/modules/student/infrastructure/repositories"
	"github.com/uptrace/bun"
)

// ------------------------
// In-memory Event Repository
// ------------------------

// memEventRepo keeps events, registrations and the activity log in memory so
// state-machine scenarios can run end to end. Func fields override a method.
type memEventRepo struct {
	mu    sync.Mutex
	trace []string

	events        map[int64]*eventdb.Event
	venues        map[int64]*eventdb.Venue
	bookings      map[int64]*eventdb.VenueBooking
	registrations map[int64]*eventdb.Registration
	activity      []eventdb.RegistrationActivity
	winners       map[int64][]eventdb.Winner
	nextID        int64

	AppendActivityFunc  func(entry *eventdb.RegistrationActivity) error
	FindCounterDriftFn  func() ([]eventdb.CounterDrift, error)
	CompletePastEventFn func(before time.Time) (int, error)
}

func newMemEventRepo() *memEventRepo {
	return &memEventRepo{
		events:        map[int64]*eventdb.Event{},
		venues:        map[int64]*eventdb.Venue{},
		bookings:      map[int64]*eventdb.VenueBooking{},
		registrations: map[int64]*eventdb.Registration{},
		winners:       map[int64][]eventdb.Winner{},
	}
}

func (m *memEventRepo) Trace() []string { return m.trace }

func (m *memEventRepo) record(step string) { m.trace = append(m.trace, step) }

func (m *memEventRepo) id() int64 {
	m.nextID++
	return m.nextID
}

func (m *memEventRepo) addEvent(e eventdb.Event) *eventdb.Event {
	m.mu.Lock()
	defer m.mu.Unlock()
	if e.ID == 0 {
		e.ID = m.id()
	}
	m.events[e.ID] = &e
	return &e
}

func (m *memEventRepo) addVenue(v eventdb.Venue) *eventdb.Venue {
	m.mu.Lock()
	defer m.mu.Unlock()
	v.ID = m.id()
	m.venues[v.ID] = &v
	return &v
}

func (m *memEventRepo) registered(eventID int64) int {
	n := 0
	for _, r := range m.registrations {
		if r.EventID == eventID && r.Status == eventdomain.StatusRegistered {
			n++
		}
	}
	return n
}

func (m *memEventRepo) CreateEvent(ctx context.Context, db bun.IDB, event *eventdb.Event) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.record("CreateEvent")
	event.ID = m.id()
	cp := *event
	m.events[event.ID] = &cp
	return nil
}

func (m *memEventRepo) GetEvent(ctx context.Context, db bun.IDB, id int64) (*eventdb.Event, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.record("GetEvent")
	e, ok := m.events[id]
	if !ok {
		return nil, eventdb.ErrNotFound
	}
	cp := *e
	return &cp, nil
}

func (m *memEventRepo) GetEventForUpdate(ctx context.Context, db bun.IDB, id int64) (*eventdb.Event, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.record("GetEventForUpdate")
	e, ok := m.events[id]
	if !ok {
		return nil, eventdb.ErrNotFound
	}
	cp := *e
	return &cp, nil
}

func (m *memEventRepo) GetEventSummary(ctx context.Context, db bun.IDB, id int64) (*eventdb.EventSummary, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.record("GetEventSummary")
	e, ok := m.events[id]
	if !ok {
		return nil, eventdb.ErrNotFound
	}
	return &eventdb.EventSummary{Event: *e, RegisteredCount: m.registered(id)}, nil
}

func (m *memEventRepo) ListEvents(ctx context.Context, db bun.IDB, filter eventdb.EventFilter) ([]eventdb.EventSummary, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.record("ListEvents")
	var out []eventdb.EventSummary
	for _, e := range m.events {
		match := len(filter.Statuses) == 0
		for _, st := range filter.Statuses {
			if e.Status == st {
				match = true
			}
		}
		if !match || (filter.ClubID != 0 && e.ClubID != filter.ClubID) {
			continue
		}
		out = append(out, eventdb.EventSummary{Event: *e, RegisteredCount: m.registered(e.ID)})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *memEventRepo) DecideEvent(ctx context.Context, db bun.IDB, id int64, update eventdb.DecisionUpdate) (*eventdb.Event, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.record("DecideEvent")
	e, ok := m.events[id]
	if !ok || e.Status != eventdomain.EventPendingApproval {
		return nil, eventdb.ErrNotPending
	}
	e.Status = update.Status
	e.ApprovedByAdminID = &update.AdminID
	e.ApprovalNotes = update.ApprovalNotes
	e.RejectionReason = update.RejectionReason
	at := update.At
	e.DecidedAt = &at
	cp := *e
	return &cp, nil
}

func (m *memEventRepo) AdjustRegistrationCount(ctx context.Context, db bun.IDB, eventID int64, delta int) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.record("AdjustRegistrationCount")
	e, ok := m.events[eventID]
	if !ok {
		return 0, eventdb.ErrNotFound
	}
	e.CurrentRegistrations += delta
	return e.CurrentRegistrations, nil
}

func (m *memEventRepo) CompletePastEvents(ctx context.Context, db bun.IDB, before time.Time) (int, error) {
	m.record("CompletePastEvents")
	if m.CompletePastEventFn != nil {
		return m.CompletePastEventFn(before)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, e := range m.events {
		if e.Status == eventdomain.EventApproved && e.EventDate.Before(before) {
			e.Status = eventdomain.EventCompleted
			n++
		}
	}
	return n, nil
}

func (m *memEventRepo) FindCounterDrift(ctx context.Context, db bun.IDB) ([]eventdb.CounterDrift, error) {
	m.record("FindCounterDrift")
	if m.FindCounterDriftFn != nil {
		return m.FindCounterDriftFn()
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []eventdb.CounterDrift
	for _, e := range m.events {
		if live := m.registered(e.ID); live != e.CurrentRegistrations {
			out = append(out, eventdb.CounterDrift{EventID: e.ID, Stored: e.CurrentRegistrations, Live: live})
		}
	}
	return out, nil
}

func (m *memEventRepo) CountEventsByStatus(ctx context.Context, db bun.IDB) ([]eventdb.StatusCount, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	counts := map[eventdomain.EventStatus]int{}
	for _, e := range m.events {
		counts[e.Status]++
	}
	var out []eventdb.StatusCount
	for st, n := range counts {
		out = append(out, eventdb.StatusCount{Status: st, Count: n})
	}
	return out, nil
}

func (m *memEventRepo) ListVenues(ctx context.Context, db bun.IDB) ([]eventdb.Venue, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []eventdb.Venue
	for _, v := range m.venues {
		if v.IsActive {
			out = append(out, *v)
		}
	}
	return out, nil
}

func (m *memEventRepo) GetVenue(ctx context.Context, db bun.IDB, id int64) (*eventdb.Venue, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.venues[id]
	if !ok {
		return nil, eventdb.ErrNotFound
	}
	cp := *v
	return &cp, nil
}

func (m *memEventRepo) CountVenues(ctx context.Context, db bun.IDB) (int, error) {
	venues, _ := m.ListVenues(ctx, db)
	return len(venues), nil
}

func (m *memEventRepo) CreateBooking(ctx context.Context, db bun.IDB, booking *eventdb.VenueBooking) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.record("CreateBooking")
	booking.ID = m.id()
	cp := *booking
	m.bookings[booking.ID] = &cp
	return nil
}

func (m *memEventRepo) SetBookingStatus(ctx context.Context, db bun.IDB, bookingID int64, status eventdomain.BookingStatus) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.record("SetBookingStatus")
	b, ok := m.bookings[bookingID]
	if !ok {
		return eventdb.ErrNotFound
	}
	b.Status = status
	return nil
}

func (m *memEventRepo) GetRegistration(ctx context.Context, db bun.IDB, studentID, eventID int64) (*eventdb.Registration, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.record("GetRegistration")
	for _, r := range m.registrations {
		if r.StudentID == studentID && r.EventID == eventID {
			cp := *r
			return &cp, nil
		}
	}
	return nil, eventdb.ErrNotFound
}

func (m *memEventRepo) InsertRegistration(ctx context.Context, db bun.IDB, reg *eventdb.Registration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.record("InsertRegistration")
	for _, r := range m.registrations {
		if r.StudentID == reg.StudentID && r.EventID == reg.EventID {
			return eventdb.ErrDuplicate
		}
	}
	reg.ID = m.id()
	cp := *reg
	m.registrations[reg.ID] = &cp
	return nil
}

func (m *memEventRepo) UpdateRegistrationStatus(ctx context.Context, db bun.IDB, id int64, from, to eventdomain.RegistrationStatus, registrationTime *time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.record("UpdateRegistrationStatus")
	r, ok := m.registrations[id]
	if !ok || r.Status != from {
		return eventdb.ErrStatusChanged
	}
	r.Status = to
	if registrationTime != nil {
		r.RegistrationTime = *registrationTime
	}
	return nil
}

func (m *memEventRepo) CountRegistered(ctx context.Context, db bun.IDB, eventID int64) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.record("CountRegistered")
	return m.registered(eventID), nil
}

func (m *memEventRepo) CountActiveRegistrations(ctx context.Context, db bun.IDB) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, r := range m.registrations {
		if r.Status.IsActive() {
			n++
		}
	}
	return n, nil
}

func (m *memEventRepo) ListStudentRegistrations(ctx context.Context, db bun.IDB, studentID int64) ([]eventdb.StudentRegistration, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.record("ListStudentRegistrations")
	var out []eventdb.StudentRegistration
	for _, r := range m.registrations {
		if r.StudentID != studentID || !r.Status.IsActive() {
			continue
		}
		e := m.events[r.EventID]
		out = append(out, eventdb.StudentRegistration{
			RegistrationID: r.ID,
			EventID:        r.EventID,
			EventName:      e.Name,
			Status:         r.Status,
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].RegistrationID < out[j].RegistrationID })
	return out, nil
}

func (m *memEventRepo) ListRoster(ctx context.Context, db bun.IDB, eventID int64) ([]eventdb.RosterEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.record("ListRoster")
	var out []eventdb.RosterEntry
	for _, r := range m.registrations {
		if r.EventID == eventID {
			out = append(out, eventdb.RosterEntry{
				RegistrationID:   r.ID,
				StudentID:        r.StudentID,
				Status:           r.Status,
				Attended:         r.Attended,
				RegistrationTime: r.RegistrationTime,
			})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].RegistrationID < out[j].RegistrationID })
	return out, nil
}

func (m *memEventRepo) SetAttendance(ctx context.Context, db bun.IDB, eventID, registrationID int64, attended bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.record("SetAttendance")
	r, ok := m.registrations[registrationID]
	if !ok || r.EventID != eventID {
		return eventdb.ErrNotFound
	}
	r.Attended = attended
	return nil
}

func (m *memEventRepo) AppendActivity(ctx context.Context, db bun.IDB, entry *eventdb.RegistrationActivity) error {
	m.record("AppendActivity")
	if m.AppendActivityFunc != nil {
		return m.AppendActivityFunc(entry)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	entry.ID = m.id()
	m.activity = append(m.activity, *entry)
	return nil
}

func (m *memEventRepo) ListActivity(ctx context.Context, db bun.IDB, eventID int64) ([]eventdb.RegistrationActivity, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []eventdb.RegistrationActivity
	for _, a := range m.activity {
		if a.EventID == eventID {
			out = append(out, a)
		}
	}
	return out, nil
}

func (m *memEventRepo) ReplaceWinners(ctx context.Context, db bun.IDB, eventID int64, winners []eventdb.Winner) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.record("ReplaceWinners")
	for i := range winners {
		winners[i].EventID = eventID
	}
	m.winners[eventID] = append([]eventdb.Winner(nil), winners...)
	return nil
}

func (m *memEventRepo) ListWinners(ctx context.Context, db bun.IDB, eventID int64) ([]eventdb.WinnerEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []eventdb.WinnerEntry
	for _, w := range m.winners[eventID] {
		out = append(out, eventdb.WinnerEntry{EventID: eventID, StudentID: w.StudentID, Position: w.Position})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Position < out[j].Position })
	return out, nil
}

// ------------------------
// In-memory Student Repository
// ------------------------

type memStudentRepo struct {
	mu       sync.Mutex
	trace    []string
	students map[string]*studentdb.Student
	nextID   int64
}

func newMemStudentRepo() *memStudentRepo {
	return &memStudentRepo{students: map[string]*studentdb.Student{}, nextID: 100}
}

func (m *memStudentRepo) record(step string) { m.trace = append(m.trace, step) }

func (m *memStudentRepo) GetByID(ctx context.Context, db bun.IDB, id int64) (*studentdb.Student, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, s := range m.students {
		if s.ID == id {
			cp := *s
			return &cp, nil
		}
	}
	return nil, studentdb.ErrNotFound
}

func (m *memStudentRepo) GetByEmail(ctx context.Context, db bun.IDB, email string) (*studentdb.Student, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.record("GetByEmail")
	s, ok := m.students[studentdb.NormalizeEmail(email)]
	if !ok {
		return nil, studentdb.ErrNotFound
	}
	cp := *s
	return &cp, nil
}

func (m *memStudentRepo) Create(ctx context.Context, db bun.IDB, student *studentdb.Student) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	student.ID = m.nextID
	student.Email = studentdb.NormalizeEmail(student.Email)
	cp := *student
	m.students[student.Email] = &cp
	return nil
}

func (m *memStudentRepo) GetOrCreateByEmail(ctx context.Context, db bun.IDB, email, name string, phone *string) (*studentdb.Student, bool, error) {
	m.record("GetOrCreateByEmail")
	if s, err := m.GetByEmail(ctx, db, email); err == nil {
		return s, false, nil
	}
	s := &studentdb.Student{StudentID: studentdb.RollNumberFromEmail(email), Name: name, Email: email, Phone: phone}
	if err := m.Create(ctx, db, s); err != nil {
		return nil, false, err
	}
	return s, true, nil
}

func (m *memStudentRepo) UpdateContact(ctx context.Context, db bun.IDB, id int64, name, phone *string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.record("UpdateContact")
	for _, s := range m.students {
		if s.ID == id {
			if name != nil {
				s.Name = *name
			}
			if phone != nil {
				s.Phone = phone
			}
			return nil
		}
	}
	return studentdb.ErrNotFound
}

func (m *memStudentRepo) SetPasswordHash(ctx context.Context, db bun.IDB, id int64, hash string) error {
	return nil
}

func (m *memStudentRepo) Count(ctx context.Context, db bun.IDB) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.students), nil
}

// ------------------------
// Fake Club Lookup
// ------------------------

type FakeClubLookup struct {
	trace []string
	// heads maps club id to the student ids heading it.
	heads map[int64][]int64

	IsActiveHeadFunc func(ctx context.Context, studentID, clubID int64) (bool, error)
}

func (f *FakeClubLookup) IsActiveHead(ctx context.Context, db bun.IDB, studentID, clubID int64) (bool, error) {
	f.trace = append(f.trace, "IsActiveHead")
	if f.IsActiveHeadFunc != nil {
		return f.IsActiveHeadFunc(ctx, studentID, clubID)
	}
	for _, id := range f.heads[clubID] {
		if id == studentID {
			return true, nil
		}
	}
	return false, nil
}
