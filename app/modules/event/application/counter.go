package eventservice

import (
	"context"
	"errors"
	"fmt"
	"time"

	eventdomain "github.com/Black-And-White-Club/campus-events/app/modules/event/domain"
	eventdb "github.com/Black-And-White-Club/campus-events/app/modules/event/infrastructure/repositories"
	"github.com/uptrace/bun"
)

// applyTransition is the only writer of registration rows, the event's
// current_registrations counter and the activity log. The caller must hold
// the event row lock in db. Any error aborts the caller's transaction, so the
// three writes land together or not at all.
//
// existing is the student's current row and must be nil when t does not
// reuse a row.
func (s *EventService) applyTransition(
	ctx context.Context,
	db bun.IDB,
	event *eventdb.Event,
	studentID int64,
	existing *eventdb.Registration,
	t eventdomain.Transition,
) (*eventdb.Registration, error) {
	now := s.clock.Now().UTC()

	var reg *eventdb.Registration
	if t.Reuses() {
		if existing == nil {
			return nil, fmt.Errorf("transition %s requires an existing registration", t.Action)
		}
		var resetTime *time.Time
		if t.From == eventdomain.StatusCancelled {
			resetTime = &now
		}
		if err := s.repo.UpdateRegistrationStatus(ctx, db, existing.ID, t.From, t.To, resetTime); err != nil {
			return nil, fmt.Errorf("failed to move registration %d to %s: %w", existing.ID, t.To, err)
		}
		reg = existing
		reg.Status = t.To
		if resetTime != nil {
			reg.RegistrationTime = now
		}
	} else {
		reg = &eventdb.Registration{
			StudentID:        studentID,
			EventID:          event.ID,
			Status:           t.To,
			RegistrationTime: now,
		}
		if err := s.repo.InsertRegistration(ctx, db, reg); err != nil {
			if errors.Is(err, eventdb.ErrDuplicate) {
				return nil, err
			}
			return nil, fmt.Errorf("failed to insert registration: %w", err)
		}
	}

	oldCount := event.CurrentRegistrations
	newCount := oldCount
	if delta := t.Delta(); delta != 0 {
		var err error
		newCount, err = s.repo.AdjustRegistrationCount(ctx, db, event.ID, delta)
		if err != nil {
			return nil, fmt.Errorf("failed to adjust registration count: %w", err)
		}
	}
	event.CurrentRegistrations = newCount

	if err := s.repo.AppendActivity(ctx, db, &eventdb.RegistrationActivity{
		EventID:    event.ID,
		StudentID:  studentID,
		ActionType: t.Action,
		OldCount:   oldCount,
		NewCount:   newCount,
		Capacity:   event.MaxParticipants,
		CreatedAt:  now,
	}); err != nil {
		return nil, fmt.Errorf("failed to append registration activity: %w", err)
	}

	return reg, nil
}
