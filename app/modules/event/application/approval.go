package eventservice

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/Black-And-White-Club/campus-events/app/modules/audit/auditevents"
	eventdomain "github.com/Black-And-White-Club/campus-events/app/modules/event/domain"
	eventdb "github.com/Black-And-White-Club/campus-events/app/modules/event/infrastructure/repositories"
	"github.com/uptrace/bun"
)

// CreateEvent submits an event for approval on behalf of a club head.
func (s *EventService) CreateEvent(ctx context.Context, headStudentID int64, req CreateEventRequest) (*eventdb.Event, error) {
	result, err := withTelemetry(s, ctx, "CreateEvent", strconv.FormatInt(req.ClubID, 10), func(ctx context.Context) (opResult[*eventdb.Event], error) {
		return runInTx(s, ctx, func(ctx context.Context, db bun.IDB) (opResult[*eventdb.Event], error) {
			return s.createEventLogic(ctx, db, headStudentID, req)
		})
	})
	return unwrap(result, err)
}

func (s *EventService) createEventLogic(ctx context.Context, db bun.IDB, headStudentID int64, req CreateEventRequest) (opResult[*eventdb.Event], error) {
	name := strings.TrimSpace(req.Name)
	if name == "" || req.EventDate == "" || req.StartTime == "" || req.EndTime == "" || req.ClubID == 0 {
		return failure[*eventdb.Event](ErrMissingEventFields), nil
	}

	isHead, err := s.clubs.IsActiveHead(ctx, db, headStudentID, req.ClubID)
	if err != nil {
		return opResult[*eventdb.Event]{}, fmt.Errorf("failed to check club head: %w", err)
	}
	if !isHead {
		return failure[*eventdb.Event](ErrNotClubHead), nil
	}

	now := s.clock.Now()
	eventDate, err := time.ParseInLocation(dateLayout, req.EventDate, now.Location())
	if err != nil {
		return failure[*eventdb.Event](ErrInvalidDate), nil
	}
	start, startOK := parseClock(req.StartTime)
	end, endOK := parseClock(req.EndTime)
	if !startOK || !endOK || end <= start {
		return failure[*eventdb.Event](ErrInvalidTime), nil
	}
	if req.MaxParticipants != nil && *req.MaxParticipants <= 0 {
		return failure[*eventdb.Event](ErrInvalidCapacity), nil
	}

	deadline, err := s.parseDeadline(req.RegistrationDeadline, now)
	if err != nil {
		return failure[*eventdb.Event](ErrInvalidDeadline), nil
	}
	if deadline != nil && deadline.After(eventDate.Add(start)) {
		return failure[*eventdb.Event](ErrDeadlineAfterEvent), nil
	}

	event := &eventdb.Event{
		Name:                 name,
		Description:          optional(req.Description),
		EventType:            optional(req.EventType),
		EventDate:            eventDate,
		StartTime:            formatClock(start),
		EndTime:              formatClock(end),
		ClubID:               req.ClubID,
		MaxParticipants:      req.MaxParticipants,
		RegistrationDeadline: deadline,
		Status:               eventdomain.EventPendingApproval,
		CreatedByStudentID:   &headStudentID,
	}

	if req.VenueID != nil {
		venue, err := s.repo.GetVenue(ctx, db, *req.VenueID)
		if err != nil {
			if errors.Is(err, eventdb.ErrNotFound) {
				return failure[*eventdb.Event](ErrVenueNotFound), nil
			}
			return opResult[*eventdb.Event]{}, err
		}
		if !venue.IsActive {
			return failure[*eventdb.Event](ErrVenueNotFound), nil
		}
		booking := &eventdb.VenueBooking{
			VenueID:           venue.ID,
			ClubID:            req.ClubID,
			BookingDate:       eventDate,
			StartTime:         event.StartTime,
			EndTime:           event.EndTime,
			Purpose:           &name,
			Status:            eventdomain.BookingPending,
			BookedByStudentID: &headStudentID,
		}
		if err := s.repo.CreateBooking(ctx, db, booking); err != nil {
			return opResult[*eventdb.Event]{}, err
		}
		event.VenueID = &venue.ID
		event.BookingID = &booking.ID
	}

	if err := s.repo.CreateEvent(ctx, db, event); err != nil {
		return opResult[*eventdb.Event]{}, err
	}
	return success(event), nil
}

// ApproveEvent approves a pending event and confirms its venue booking.
func (s *EventService) ApproveEvent(ctx context.Context, eventID, adminID int64, notes string) (*eventdb.Event, error) {
	return s.decide(ctx, "ApproveEvent", eventID, adminID, eventdomain.DecisionApprove, strings.TrimSpace(notes))
}

// RejectEvent rejects a pending event and cancels its venue booking. The
// reason is required.
func (s *EventService) RejectEvent(ctx context.Context, eventID, adminID int64, reason string) (*eventdb.Event, error) {
	return s.decide(ctx, "RejectEvent", eventID, adminID, eventdomain.DecisionReject, strings.TrimSpace(reason))
}

func (s *EventService) decide(ctx context.Context, op string, eventID, adminID int64, d eventdomain.Decision, text string) (*eventdb.Event, error) {
	var outcome eventdomain.Outcome
	result, err := withTelemetry(s, ctx, op, strconv.FormatInt(eventID, 10), func(ctx context.Context) (opResult[*eventdb.Event], error) {
		return runInTx(s, ctx, func(ctx context.Context, db bun.IDB) (opResult[*eventdb.Event], error) {
			if d == eventdomain.DecisionReject && text == "" {
				return failure[*eventdb.Event](ErrReasonRequired), nil
			}

			event, err := s.repo.GetEventForUpdate(ctx, db, eventID)
			if err != nil {
				if errors.Is(err, eventdb.ErrNotFound) {
					return failure[*eventdb.Event](ErrNotPending), nil
				}
				return opResult[*eventdb.Event]{}, err
			}

			outcome, err = eventdomain.Decide(event.Status, d, text)
			switch {
			case errors.Is(err, eventdomain.ErrReasonRequired):
				return failure[*eventdb.Event](ErrReasonRequired), nil
			case errors.Is(err, eventdomain.ErrAlreadyDecided):
				return failure[*eventdb.Event](ErrNotPending), nil
			case err != nil:
				return opResult[*eventdb.Event]{}, err
			}

			update := eventdb.DecisionUpdate{
				Status:  outcome.EventStatus,
				AdminID: adminID,
				At:      s.clock.Now().UTC(),
			}
			if d == eventdomain.DecisionReject {
				update.RejectionReason = &text
			} else {
				update.ApprovalNotes = optional(text)
			}

			decided, err := s.repo.DecideEvent(ctx, db, eventID, update)
			if err != nil {
				if errors.Is(err, eventdb.ErrNotPending) {
					return failure[*eventdb.Event](ErrNotPending), nil
				}
				return opResult[*eventdb.Event]{}, err
			}

			if decided.BookingID != nil {
				if err := s.repo.SetBookingStatus(ctx, db, *decided.BookingID, outcome.BookingStatus); err != nil {
					return opResult[*eventdb.Event]{}, err
				}
			}
			return success(decided), nil
		})
	})
	event, err := unwrap(result, err)
	if err != nil {
		return nil, err
	}

	action, description := auditevents.ActionApproveEvent, "Approved event: "+event.Name
	if d == eventdomain.DecisionReject {
		action = auditevents.ActionRejectEvent
		description = fmt.Sprintf("Rejected event: %s (%s)", event.Name, text)
	}
	s.audit.Record(ctx, auditevents.AdminActionRecorded{
		ActorID:     adminID,
		ActorRole:   "admin",
		ActionType:  action,
		TargetType:  auditevents.TargetEvent,
		TargetID:    event.ID,
		Description: description,
		OccurredAt:  s.clock.Now().UTC(),
	})
	return event, nil
}

// parseClock reads HH:MM or HH:MM:SS into an offset from midnight.
func parseClock(v string) (time.Duration, bool) {
	for _, layout := range []string{timeLayout, time.TimeOnly} {
		if t, err := time.Parse(layout, strings.TrimSpace(v)); err == nil {
			return time.Duration(t.Hour())*time.Hour + time.Duration(t.Minute())*time.Minute + time.Duration(t.Second())*time.Second, true
		}
	}
	return 0, false
}

func formatClock(d time.Duration) string {
	return time.Time{}.Add(d).Format(time.TimeOnly)
}

func optional(v string) *string {
	v = strings.TrimSpace(v)
	if v == "" {
		return nil
	}
	return &v
}
