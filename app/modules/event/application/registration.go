package eventservice

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	eventdomain "github.com/Black-And-White-Club/campus-events/app/modules/event/domain"
	eventdb "github.com/Black-And-White-Club/campus-events/app/modules/event/infrastructure/repositories"
	studentdb "github.com/Black-And-White-Club/campus-events/app/modules/student/infrastructure/repositories"
	"github.com/uptrace/bun"
)

const (
	msgRegistered   = "Successfully registered for the event"
	msgWaitlisted   = "Added to waitlist successfully"
	msgReregistered = "Successfully re-registered for the event"
)

// Register admits a student to an event, creating the student on first
// contact. The event row is locked for the whole admission so concurrent
// requests for the same event see each other's writes.
func (s *EventService) Register(ctx context.Context, req RegisterRequest) (*RegistrationResult, error) {
	result, err := withTelemetry(s, ctx, "Register", strconv.FormatInt(req.EventID, 10), func(ctx context.Context) (opResult[*RegistrationResult], error) {
		return runInTx(s, ctx, func(ctx context.Context, db bun.IDB) (opResult[*RegistrationResult], error) {
			return s.registerLogic(ctx, db, req)
		})
	})
	res, err := unwrap(result, err)
	if err != nil {
		return nil, err
	}
	if s.metrics != nil {
		s.metrics.RecordTransition(ctx, string(res.Action))
	}
	return res, nil
}

func (s *EventService) registerLogic(ctx context.Context, db bun.IDB, req RegisterRequest) (opResult[*RegistrationResult], error) {
	email := studentdb.NormalizeEmail(req.Email)
	if email == "" {
		return failure[*RegistrationResult](ErrEmailRequired), nil
	}

	event, err := s.repo.GetEventForUpdate(ctx, db, req.EventID)
	if err != nil {
		if errors.Is(err, eventdb.ErrNotFound) {
			return failure[*RegistrationResult](ErrEventNotFound), nil
		}
		return opResult[*RegistrationResult]{}, err
	}

	switch err := eventdomain.RegistrationOpen(event.Status, event.RegistrationDeadline, s.clock.Now()); {
	case errors.Is(err, eventdomain.ErrNotOpen):
		return failure[*RegistrationResult](ErrNotOpen), nil
	case errors.Is(err, eventdomain.ErrDeadlinePassed):
		return failure[*RegistrationResult](ErrDeadlinePassed), nil
	}

	student, err := s.resolveStudent(ctx, db, email, req.Name, req.Phone)
	if err != nil {
		return opResult[*RegistrationResult]{}, err
	}

	existing, err := s.repo.GetRegistration(ctx, db, student.ID, event.ID)
	switch {
	case errors.Is(err, eventdb.ErrNotFound):
		existing = nil
	case err != nil:
		return opResult[*RegistrationResult]{}, err
	}
	current := eventdomain.StatusNone
	if existing != nil {
		current = existing.Status
	}

	registered, err := s.repo.CountRegistered(ctx, db, event.ID)
	if err != nil {
		return opResult[*RegistrationResult]{}, err
	}

	t, err := eventdomain.PlanAdmission(current, event.MaxParticipants, registered)
	if errors.Is(err, eventdomain.ErrAlreadyRegistered) {
		return failure[*RegistrationResult](ErrAlreadyRegistered.WithStatus(string(current))), nil
	}
	if err != nil {
		return opResult[*RegistrationResult]{}, err
	}

	reg, err := s.applyTransition(ctx, db, event, student.ID, existing, t)
	if err != nil {
		if errors.Is(err, eventdb.ErrDuplicate) {
			return failure[*RegistrationResult](ErrAlreadyRegistered), nil
		}
		return opResult[*RegistrationResult]{}, err
	}

	res := &RegistrationResult{
		Registration: RegistrationView{
			ID:        reg.ID,
			StudentID: student.StudentID,
			EventID:   event.ID,
			Status:    reg.Status,
			EventName: event.Name,
			EventDate: event.EventDate.Format(dateLayout),
			EventTime: event.StartTime,
		},
		Reactivated: t.Reuses(),
		Action:      t.Action,
	}
	switch {
	case reg.Status == eventdomain.StatusWaitlisted:
		res.Message = msgWaitlisted
	case t.Reuses():
		res.Message = msgReregistered
	default:
		res.Message = msgRegistered
	}
	return success(res), nil
}

// resolveStudent finds or creates the student behind an email. A provided
// name or phone overwrites the stored value.
func (s *EventService) resolveStudent(ctx context.Context, db bun.IDB, email, name, phone string) (*studentdb.Student, error) {
	name = strings.TrimSpace(name)
	phone = strings.TrimSpace(phone)

	var namePtr, phonePtr *string
	if name != "" {
		namePtr = &name
	}
	if phone != "" {
		phonePtr = &phone
	}

	displayName := name
	if displayName == "" {
		displayName = studentdb.RollNumberFromEmail(email)
	}
	student, created, err := s.students.GetOrCreateByEmail(ctx, db, email, displayName, phonePtr)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve student: %w", err)
	}
	if created {
		return student, nil
	}

	if namePtr != nil || phonePtr != nil {
		if err := s.students.UpdateContact(ctx, db, student.ID, namePtr, phonePtr); err != nil {
			return nil, fmt.Errorf("failed to update student contact: %w", err)
		}
		if namePtr != nil {
			student.Name = name
		}
		if phonePtr != nil {
			student.Phone = phonePtr
		}
	}
	return student, nil
}

// CancelRegistration cancels the student's active registration. A waitlisted
// registration is never promoted as a result.
func (s *EventService) CancelRegistration(ctx context.Context, eventID int64, email string) error {
	result, err := withTelemetry(s, ctx, "CancelRegistration", strconv.FormatInt(eventID, 10), func(ctx context.Context) (opResult[eventdomain.Transition], error) {
		return runInTx(s, ctx, func(ctx context.Context, db bun.IDB) (opResult[eventdomain.Transition], error) {
			return s.cancelLogic(ctx, db, eventID, email)
		})
	})
	t, err := unwrap(result, err)
	if err != nil {
		return err
	}
	if s.metrics != nil {
		s.metrics.RecordTransition(ctx, string(t.Action))
	}
	return nil
}

func (s *EventService) cancelLogic(ctx context.Context, db bun.IDB, eventID int64, email string) (opResult[eventdomain.Transition], error) {
	email = studentdb.NormalizeEmail(email)
	if email == "" {
		return failure[eventdomain.Transition](ErrEmailRequired), nil
	}

	event, err := s.repo.GetEventForUpdate(ctx, db, eventID)
	if err != nil {
		if errors.Is(err, eventdb.ErrNotFound) {
			return failure[eventdomain.Transition](ErrEventNotFound), nil
		}
		return opResult[eventdomain.Transition]{}, err
	}

	student, err := s.students.GetByEmail(ctx, db, email)
	if err != nil {
		if errors.Is(err, studentdb.ErrNotFound) {
			return failure[eventdomain.Transition](ErrStudentNotFound), nil
		}
		return opResult[eventdomain.Transition]{}, err
	}

	existing, err := s.repo.GetRegistration(ctx, db, student.ID, event.ID)
	if err != nil {
		if errors.Is(err, eventdb.ErrNotFound) {
			return failure[eventdomain.Transition](ErrRegistrationNotFound), nil
		}
		return opResult[eventdomain.Transition]{}, err
	}

	t, err := eventdomain.PlanCancellation(existing.Status)
	if err != nil {
		return failure[eventdomain.Transition](ErrRegistrationNotFound), nil
	}

	if _, err := s.applyTransition(ctx, db, event, student.ID, existing, t); err != nil {
		return opResult[eventdomain.Transition]{}, err
	}
	return success(t), nil
}

// MyRegistrations lists the active registrations of the student behind an
// email. An unknown email yields an empty list.
func (s *EventService) MyRegistrations(ctx context.Context, email string) ([]eventdb.StudentRegistration, error) {
	email = studentdb.NormalizeEmail(email)
	if email == "" {
		return nil, ErrEmailRequired
	}
	result, err := withTelemetry(s, ctx, "MyRegistrations", email, func(ctx context.Context) (opResult[[]eventdb.StudentRegistration], error) {
		return read(s, ctx, func(ctx context.Context, db bun.IDB) (opResult[[]eventdb.StudentRegistration], error) {
			student, err := s.students.GetByEmail(ctx, db, email)
			if err != nil {
				if errors.Is(err, studentdb.ErrNotFound) {
					return success([]eventdb.StudentRegistration{}), nil
				}
				return opResult[[]eventdb.StudentRegistration]{}, err
			}
			regs, err := s.repo.ListStudentRegistrations(ctx, db, student.ID)
			if err != nil {
				return opResult[[]eventdb.StudentRegistration]{}, err
			}
			return success(nonNil(regs)), nil
		})
	})
	return unwrap(result, err)
}

// StudentRegistrations lists a student's active registrations by id.
func (s *EventService) StudentRegistrations(ctx context.Context, studentID int64) ([]eventdb.StudentRegistration, error) {
	result, err := withTelemetry(s, ctx, "StudentRegistrations", strconv.FormatInt(studentID, 10), func(ctx context.Context) (opResult[[]eventdb.StudentRegistration], error) {
		return read(s, ctx, func(ctx context.Context, db bun.IDB) (opResult[[]eventdb.StudentRegistration], error) {
			regs, err := s.repo.ListStudentRegistrations(ctx, db, studentID)
			if err != nil {
				return opResult[[]eventdb.StudentRegistration]{}, err
			}
			return success(nonNil(regs)), nil
		})
	})
	return unwrap(result, err)
}

// ListActivity returns the registration activity log for an event.
func (s *EventService) ListActivity(ctx context.Context, eventID int64) ([]eventdb.RegistrationActivity, error) {
	result, err := withTelemetry(s, ctx, "ListActivity", strconv.FormatInt(eventID, 10), func(ctx context.Context) (opResult[[]eventdb.RegistrationActivity], error) {
		return read(s, ctx, func(ctx context.Context, db bun.IDB) (opResult[[]eventdb.RegistrationActivity], error) {
			if _, err := s.repo.GetEvent(ctx, db, eventID); err != nil {
				if errors.Is(err, eventdb.ErrNotFound) {
					return failure[[]eventdb.RegistrationActivity](ErrEventNotFound), nil
				}
				return opResult[[]eventdb.RegistrationActivity]{}, err
			}
			entries, err := s.repo.ListActivity(ctx, db, eventID)
			if err != nil {
				return opResult[[]eventdb.RegistrationActivity]{}, err
			}
			return success(nonNil(entries)), nil
		})
	})
	return unwrap(result, err)
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
