package eventservice

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	eventdomain "github.com/Black-And-White-Club/campus-events/app/modules/event/domain"
	eventdb "github.com/Black-And-White-Club/campus-events/app/modules/event/infrastructure/repositories"
	"github.com/Black-And-White-Club/campus-events/app/shared/apperrors"
	"github.com/uptrace/bun"
)

var errAttendanceNotFound = apperrors.NotFound("Registration not found")

// authorizeHead loads the event and checks that the caller heads its club.
func (s *EventService) authorizeHead(ctx context.Context, db bun.IDB, headStudentID, eventID int64) (*eventdb.Event, *apperrors.Error, error) {
	event, err := s.repo.GetEvent(ctx, db, eventID)
	if err != nil {
		if errors.Is(err, eventdb.ErrNotFound) {
			return nil, ErrEventNotFound, nil
		}
		return nil, nil, err
	}
	isHead, err := s.clubs.IsActiveHead(ctx, db, headStudentID, event.ClubID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to check club head: %w", err)
	}
	if !isHead {
		return nil, ErrNotClubHead, nil
	}
	return event, nil, nil
}

// Roster lists every registration of an event for its club head.
func (s *EventService) Roster(ctx context.Context, headStudentID, eventID int64) ([]eventdb.RosterEntry, error) {
	result, err := withTelemetry(s, ctx, "Roster", strconv.FormatInt(eventID, 10), func(ctx context.Context) (opResult[[]eventdb.RosterEntry], error) {
		return read(s, ctx, func(ctx context.Context, db bun.IDB) (opResult[[]eventdb.RosterEntry], error) {
			return s.rosterLogic(ctx, db, headStudentID, eventID)
		})
	})
	return unwrap(result, err)
}

func (s *EventService) rosterLogic(ctx context.Context, db bun.IDB, headStudentID, eventID int64) (opResult[[]eventdb.RosterEntry], error) {
	if _, fail, err := s.authorizeHead(ctx, db, headStudentID, eventID); err != nil || fail != nil {
		if err != nil {
			return opResult[[]eventdb.RosterEntry]{}, err
		}
		return failure[[]eventdb.RosterEntry](fail), nil
	}
	roster, err := s.repo.ListRoster(ctx, db, eventID)
	if err != nil {
		return opResult[[]eventdb.RosterEntry]{}, err
	}
	return success(nonNil(roster)), nil
}

// ExportRoster renders the roster as an XLSX workbook.
func (s *EventService) ExportRoster(ctx context.Context, headStudentID, eventID int64) (*RosterExport, error) {
	result, err := withTelemetry(s, ctx, "ExportRoster", strconv.FormatInt(eventID, 10), func(ctx context.Context) (opResult[*RosterExport], error) {
		return read(s, ctx, func(ctx context.Context, db bun.IDB) (opResult[*RosterExport], error) {
			roster, err := s.rosterLogic(ctx, db, headStudentID, eventID)
			if err != nil {
				return opResult[*RosterExport]{}, err
			}
			if roster.IsFailure() {
				return failure[*RosterExport](*roster.Failure), nil
			}
			content, err := renderRoster(*roster.Success)
			if err != nil {
				return opResult[*RosterExport]{}, err
			}
			return success(&RosterExport{
				Filename: fmt.Sprintf("event-%d-registrations.xlsx", eventID),
				Content:  content,
			}), nil
		})
	})
	return unwrap(result, err)
}

// MarkAttendance records whether a registered student attended.
func (s *EventService) MarkAttendance(ctx context.Context, headStudentID, eventID, registrationID int64, attended bool) error {
	result, err := withTelemetry(s, ctx, "MarkAttendance", strconv.FormatInt(registrationID, 10), func(ctx context.Context) (opResult[bool], error) {
		return runInTx(s, ctx, func(ctx context.Context, db bun.IDB) (opResult[bool], error) {
			if _, fail, err := s.authorizeHead(ctx, db, headStudentID, eventID); err != nil || fail != nil {
				if err != nil {
					return opResult[bool]{}, err
				}
				return failure[bool](fail), nil
			}
			if err := s.repo.SetAttendance(ctx, db, eventID, registrationID, attended); err != nil {
				if errors.Is(err, eventdb.ErrNotFound) {
					return failure[bool](errAttendanceNotFound), nil
				}
				return opResult[bool]{}, err
			}
			return success(attended), nil
		})
	})
	_, err = unwrap(result, err)
	return err
}

// ListWinners returns an event's winners by position.
func (s *EventService) ListWinners(ctx context.Context, eventID int64) ([]eventdb.WinnerEntry, error) {
	result, err := withTelemetry(s, ctx, "ListWinners", strconv.FormatInt(eventID, 10), func(ctx context.Context) (opResult[[]eventdb.WinnerEntry], error) {
		return read(s, ctx, func(ctx context.Context, db bun.IDB) (opResult[[]eventdb.WinnerEntry], error) {
			if _, err := s.repo.GetEvent(ctx, db, eventID); err != nil {
				if errors.Is(err, eventdb.ErrNotFound) {
					return failure[[]eventdb.WinnerEntry](ErrEventNotFound), nil
				}
				return opResult[[]eventdb.WinnerEntry]{}, err
			}
			winners, err := s.repo.ListWinners(ctx, db, eventID)
			if err != nil {
				return opResult[[]eventdb.WinnerEntry]{}, err
			}
			return success(nonNil(winners)), nil
		})
	})
	return unwrap(result, err)
}

// SaveWinners replaces an event's winner list. Every winner must hold a
// Registered registration and positions must be distinct.
func (s *EventService) SaveWinners(ctx context.Context, headStudentID, eventID int64, winners []WinnerInput) ([]eventdb.WinnerEntry, error) {
	result, err := withTelemetry(s, ctx, "SaveWinners", strconv.FormatInt(eventID, 10), func(ctx context.Context) (opResult[[]eventdb.WinnerEntry], error) {
		return runInTx(s, ctx, func(ctx context.Context, db bun.IDB) (opResult[[]eventdb.WinnerEntry], error) {
			return s.saveWinnersLogic(ctx, db, headStudentID, eventID, winners)
		})
	})
	return unwrap(result, err)
}

func (s *EventService) saveWinnersLogic(ctx context.Context, db bun.IDB, headStudentID, eventID int64, winners []WinnerInput) (opResult[[]eventdb.WinnerEntry], error) {
	if fail := validateWinners(winners); fail != nil {
		return failure[[]eventdb.WinnerEntry](fail), nil
	}
	if _, fail, err := s.authorizeHead(ctx, db, headStudentID, eventID); err != nil || fail != nil {
		if err != nil {
			return opResult[[]eventdb.WinnerEntry]{}, err
		}
		return failure[[]eventdb.WinnerEntry](fail), nil
	}

	rows := make([]eventdb.Winner, 0, len(winners))
	for _, w := range winners {
		reg, err := s.repo.GetRegistration(ctx, db, w.StudentID, eventID)
		if err != nil {
			if errors.Is(err, eventdb.ErrNotFound) {
				return failure[[]eventdb.WinnerEntry](ErrWinnerNotRegistered), nil
			}
			return opResult[[]eventdb.WinnerEntry]{}, err
		}
		if reg.Status != eventdomain.StatusRegistered {
			return failure[[]eventdb.WinnerEntry](ErrWinnerNotRegistered), nil
		}
		rows = append(rows, eventdb.Winner{StudentID: w.StudentID, Position: w.Position})
	}

	if err := s.repo.ReplaceWinners(ctx, db, eventID, rows); err != nil {
		if errors.Is(err, eventdb.ErrDuplicate) {
			return failure[[]eventdb.WinnerEntry](ErrInvalidWinners), nil
		}
		return opResult[[]eventdb.WinnerEntry]{}, err
	}

	saved, err := s.repo.ListWinners(ctx, db, eventID)
	if err != nil {
		return opResult[[]eventdb.WinnerEntry]{}, err
	}
	return success(nonNil(saved)), nil
}

func validateWinners(winners []WinnerInput) *apperrors.Error {
	positions := make(map[int]struct{}, len(winners))
	students := make(map[int64]struct{}, len(winners))
	for _, w := range winners {
		if w.Position < 1 || w.StudentID <= 0 {
			return ErrInvalidWinners
		}
		if _, dup := positions[w.Position]; dup {
			return ErrInvalidWinners
		}
		if _, dup := students[w.StudentID]; dup {
			return ErrInvalidWinners
		}
		positions[w.Position] = struct{}{}
		students[w.StudentID] = struct{}{}
	}
	return nil
}
