package eventservice

import (
	"context"
	"errors"
	"strconv"

	eventdomain "github.com/Black-And-White-Club/campus-events/app/modules/event/domain"
	eventdb "github.com/Black-And-White-Club/campus-events/app/modules/event/infrastructure/repositories"
	"github.com/uptrace/bun"
)

// ListEvents returns approved and completed events.
func (s *EventService) ListEvents(ctx context.Context, filter ListFilter) ([]eventdb.EventSummary, error) {
	return s.listEvents(ctx, "ListEvents", eventdb.EventFilter{
		EventType: filter.EventType,
		ClubID:    filter.ClubID,
		Statuses:  []eventdomain.EventStatus{eventdomain.EventApproved, eventdomain.EventCompleted},
	})
}

// ListPendingEvents returns events awaiting a decision, oldest submission first.
func (s *EventService) ListPendingEvents(ctx context.Context) ([]eventdb.EventSummary, error) {
	return s.listEvents(ctx, "ListPendingEvents", eventdb.EventFilter{
		Statuses:    []eventdomain.EventStatus{eventdomain.EventPendingApproval},
		OldestFirst: true,
	})
}

func (s *EventService) listEvents(ctx context.Context, op string, filter eventdb.EventFilter) ([]eventdb.EventSummary, error) {
	result, err := withTelemetry(s, ctx, op, filter.EventType, func(ctx context.Context) (opResult[[]eventdb.EventSummary], error) {
		return read(s, ctx, func(ctx context.Context, db bun.IDB) (opResult[[]eventdb.EventSummary], error) {
			events, err := s.repo.ListEvents(ctx, db, filter)
			if err != nil {
				return opResult[[]eventdb.EventSummary]{}, err
			}
			for i := range events {
				withSpotsLeft(&events[i])
			}
			return success(nonNil(events)), nil
		})
	})
	return unwrap(result, err)
}

func withSpotsLeft(e *eventdb.EventSummary) {
	e.SpotsLeft = eventdomain.SpotsLeft(e.MaxParticipants, e.RegisteredCount)
}

func (s *EventService) GetEvent(ctx context.Context, eventID int64) (*eventdb.EventSummary, error) {
	result, err := withTelemetry(s, ctx, "GetEvent", strconv.FormatInt(eventID, 10), func(ctx context.Context) (opResult[*eventdb.EventSummary], error) {
		return read(s, ctx, func(ctx context.Context, db bun.IDB) (opResult[*eventdb.EventSummary], error) {
			event, err := s.repo.GetEventSummary(ctx, db, eventID)
			if err != nil {
				if errors.Is(err, eventdb.ErrNotFound) {
					return failure[*eventdb.EventSummary](ErrEventNotFound), nil
				}
				return opResult[*eventdb.EventSummary]{}, err
			}
			withSpotsLeft(event)
			return success(event), nil
		})
	})
	return unwrap(result, err)
}

func (s *EventService) ListVenues(ctx context.Context) ([]eventdb.Venue, error) {
	result, err := withTelemetry(s, ctx, "ListVenues", "", func(ctx context.Context) (opResult[[]eventdb.Venue], error) {
		return read(s, ctx, func(ctx context.Context, db bun.IDB) (opResult[[]eventdb.Venue], error) {
			venues, err := s.repo.ListVenues(ctx, db)
			if err != nil {
				return opResult[[]eventdb.Venue]{}, err
			}
			return success(nonNil(venues)), nil
		})
	})
	return unwrap(result, err)
}

func (s *EventService) CountEventsByStatus(ctx context.Context) ([]eventdb.StatusCount, error) {
	return s.repo.CountEventsByStatus(ctx, s.conn())
}

func (s *EventService) CountVenues(ctx context.Context) (int, error) {
	return s.repo.CountVenues(ctx, s.conn())
}

func (s *EventService) CountActiveRegistrations(ctx context.Context) (int, error) {
	return s.repo.CountActiveRegistrations(ctx, s.conn())
}

// conn returns the service connection as a bun.IDB, or nil when none is set
// so repositories fall back to their own.
func (s *EventService) conn() bun.IDB {
	if s.db == nil {
		return nil
	}
	return s.db
}
