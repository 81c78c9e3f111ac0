package clubservice

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/Black-And-White-Club/campus-events/app/modules/audit/auditevents"
	clubdb "github.com/Black-And-White-Club/campus-events/app/modules/club/infrastructure/repositories"
	studentdb "github.com/Black-And-White-Club/campus-events/app/modules/student/infrastructure/repositories"
	"github.com/Black-And-White-Club/campus-events/app/shared/apperrors"
	"github.com/uptrace/bun"
)

func id(v int64) string { return strconv.FormatInt(v, 10) }

func (s *ClubService) ListClubs(ctx context.Context) ([]clubdb.ClubSummary, error) {
	result, err := withTelemetry(s, ctx, "ListClubs", "", func(ctx context.Context) (opResult[[]clubdb.ClubSummary], error) {
		clubs, err := s.repo.ListClubs(ctx, s.conn())
		if err != nil {
			return opResult[[]clubdb.ClubSummary]{}, err
		}
		if clubs == nil {
			clubs = []clubdb.ClubSummary{}
		}
		return success(clubs), nil
	})
	return unwrap(result, err)
}

func (s *ClubService) GetClub(ctx context.Context, clubID int64) (*clubdb.ClubSummary, error) {
	result, err := withTelemetry(s, ctx, "GetClub", id(clubID), func(ctx context.Context) (opResult[*clubdb.ClubSummary], error) {
		club, err := s.repo.GetClubSummary(ctx, s.conn(), clubID)
		if errors.Is(err, clubdb.ErrNotFound) {
			return failure[*clubdb.ClubSummary](ErrClubNotFound), nil
		}
		if err != nil {
			return opResult[*clubdb.ClubSummary]{}, err
		}
		return success(club), nil
	})
	return unwrap(result, err)
}

func (s *ClubService) ListMembers(ctx context.Context, clubID int64) ([]clubdb.Member, error) {
	result, err := withTelemetry(s, ctx, "ListMembers", id(clubID), func(ctx context.Context) (opResult[[]clubdb.Member], error) {
		if _, err := s.repo.GetClubSummary(ctx, s.conn(), clubID); err != nil {
			if errors.Is(err, clubdb.ErrNotFound) {
				return failure[[]clubdb.Member](ErrClubNotFound), nil
			}
			return opResult[[]clubdb.Member]{}, err
		}
		members, err := s.repo.ListMembers(ctx, s.conn(), clubID)
		if err != nil {
			return opResult[[]clubdb.Member]{}, err
		}
		if members == nil {
			members = []clubdb.Member{}
		}
		return success(members), nil
	})
	return unwrap(result, err)
}

type joinOutcome struct {
	result    *JoinResult
	studentID int64
}

func (s *ClubService) JoinClub(ctx context.Context, clubID int64, email string) (*JoinResult, error) {
	result, err := withTelemetry(s, ctx, "JoinClub", id(clubID), func(ctx context.Context) (opResult[joinOutcome], error) {
		return runInTx(s, ctx, func(ctx context.Context, db bun.IDB) (opResult[joinOutcome], error) {
			return s.joinClubLogic(ctx, db, clubID, email)
		})
	})
	out, err := unwrap(result, err)
	if err != nil {
		return nil, err
	}
	s.record(ctx, auditevents.AdminActionRecorded{
		ActorID:     out.studentID,
		ActorRole:   "student",
		ActionType:  auditevents.ActionJoinClub,
		TargetType:  auditevents.TargetMembership,
		TargetID:    out.result.MembershipID,
		Description: "Joined club: " + out.result.ClubName,
	})
	return out.result, nil
}

func (s *ClubService) joinClubLogic(ctx context.Context, db bun.IDB, clubID int64, email string) (opResult[joinOutcome], error) {
	email = studentdb.NormalizeEmail(email)
	if email == "" {
		return failure[joinOutcome](ErrEmailRequired), nil
	}

	student, err := s.students.GetByEmail(ctx, db, email)
	if errors.Is(err, studentdb.ErrNotFound) {
		return failure[joinOutcome](ErrStudentNotFound), nil
	}
	if err != nil {
		return opResult[joinOutcome]{}, fmt.Errorf("failed to get student: %w", err)
	}

	club, res, err := s.lockActiveClub(ctx, db, clubID)
	if err != nil {
		return opResult[joinOutcome]{}, err
	}
	if res != nil {
		return failure[joinOutcome](res), nil
	}

	existing, err := s.repo.GetMembership(ctx, db, student.ID, clubID)
	switch {
	case err == nil && existing.Status == clubdb.MembershipActive:
		return failure[joinOutcome](ErrAlreadyMember), nil
	case err != nil && !errors.Is(err, clubdb.ErrNotFound):
		return opResult[joinOutcome]{}, fmt.Errorf("failed to get membership: %w", err)
	}

	m := &clubdb.Membership{StudentID: student.ID, ClubID: clubID, Role: clubdb.RoleMember}
	if err := s.repo.UpsertMembership(ctx, db, m); err != nil {
		return opResult[joinOutcome]{}, err
	}

	return success(joinOutcome{
		studentID: student.ID,
		result: &JoinResult{
			MembershipID: m.ID,
			ClubName:     club.Name,
			Message:      "Successfully joined " + club.Name,
		},
	}), nil
}

// lockActiveClub returns the locked club, or a nil club with the failure to
// report. A non-nil error is an infrastructure failure.
func (s *ClubService) lockActiveClub(ctx context.Context, db bun.IDB, clubID int64) (*clubdb.Club, *apperrors.Error, error) {
	club, err := s.repo.GetClubForUpdate(ctx, db, clubID)
	if errors.Is(err, clubdb.ErrNotFound) {
		return nil, ErrClubNotFound, nil
	}
	if err != nil {
		return nil, nil, fmt.Errorf("failed to lock club: %w", err)
	}
	if !club.IsActive {
		return nil, ErrClubNotFound, nil
	}
	return club, nil, nil
}

func (s *ClubService) CreateClub(ctx context.Context, adminID int64, req CreateClubRequest) (*clubdb.Club, error) {
	result, err := withTelemetry(s, ctx, "CreateClub", req.Name, func(ctx context.Context) (opResult[*clubdb.Club], error) {
		return runInTx(s, ctx, func(ctx context.Context, db bun.IDB) (opResult[*clubdb.Club], error) {
			name := strings.TrimSpace(req.Name)
			if name == "" {
				return failure[*clubdb.Club](ErrNameRequired), nil
			}
			club := &clubdb.Club{
				Name:                 name,
				Description:          req.Description,
				FacultyCoordinatorID: req.FacultyCoordinatorID,
				CreatedByAdminID:     &adminID,
			}
			if err := s.repo.CreateClub(ctx, db, club); err != nil {
				if f := writeFailure(err); f != nil {
					return failure[*clubdb.Club](f), nil
				}
				return opResult[*clubdb.Club]{}, err
			}
			return success(club), nil
		})
	})
	club, err := unwrap(result, err)
	if err != nil {
		return nil, err
	}
	s.record(ctx, auditevents.AdminActionRecorded{
		ActorID:     adminID,
		ActorRole:   "admin",
		ActionType:  auditevents.ActionCreateClub,
		TargetType:  auditevents.TargetClub,
		TargetID:    club.ID,
		Description: "Created club: " + club.Name,
	})
	return club, nil
}

func (s *ClubService) UpdateClub(ctx context.Context, adminID, clubID int64, req UpdateClubRequest) (*clubdb.Club, error) {
	result, err := withTelemetry(s, ctx, "UpdateClub", id(clubID), func(ctx context.Context) (opResult[*clubdb.Club], error) {
		return runInTx(s, ctx, func(ctx context.Context, db bun.IDB) (opResult[*clubdb.Club], error) {
			update := clubdb.ClubUpdate{
				Name:                 req.Name,
				Description:          req.Description,
				FacultyCoordinatorID: req.FacultyCoordinatorID,
				IsActive:             req.IsActive,
			}
			if update.Empty() {
				return failure[*clubdb.Club](ErrNoFields), nil
			}
			if update.Name != nil {
				name := strings.TrimSpace(*update.Name)
				if name == "" {
					return failure[*clubdb.Club](ErrNameRequired), nil
				}
				update.Name = &name
			}

			club, err := s.repo.UpdateClub(ctx, db, clubID, update)
			if errors.Is(err, clubdb.ErrNotFound) {
				return failure[*clubdb.Club](ErrClubNotFound), nil
			}
			if err != nil {
				if f := writeFailure(err); f != nil {
					return failure[*clubdb.Club](f), nil
				}
				return opResult[*clubdb.Club]{}, err
			}
			return success(club), nil
		})
	})
	club, err := unwrap(result, err)
	if err != nil {
		return nil, err
	}
	s.record(ctx, auditevents.AdminActionRecorded{
		ActorID:     adminID,
		ActorRole:   "admin",
		ActionType:  auditevents.ActionUpdateClub,
		TargetType:  auditevents.TargetClub,
		TargetID:    club.ID,
		Description: "Updated club information",
	})
	return club, nil
}

func (s *ClubService) DeleteClub(ctx context.Context, adminID, clubID int64) error {
	result, err := withTelemetry(s, ctx, "DeleteClub", id(clubID), func(ctx context.Context) (opResult[*clubdb.Club], error) {
		return runInTx(s, ctx, func(ctx context.Context, db bun.IDB) (opResult[*clubdb.Club], error) {
			club, err := s.repo.GetClubForUpdate(ctx, db, clubID)
			if errors.Is(err, clubdb.ErrNotFound) {
				return failure[*clubdb.Club](ErrClubNotFound), nil
			}
			if err != nil {
				return opResult[*clubdb.Club]{}, fmt.Errorf("failed to lock club: %w", err)
			}

			upcoming, err := s.repo.CountUpcomingEvents(ctx, db, clubID, s.clock.Now())
			if err != nil {
				return opResult[*clubdb.Club]{}, err
			}
			if upcoming > 0 {
				return failure[*clubdb.Club](ErrHasUpcomingEvents), nil
			}

			if err := s.repo.DeactivateClub(ctx, db, clubID); err != nil {
				return opResult[*clubdb.Club]{}, err
			}
			return success(club), nil
		})
	})
	club, err := unwrap(result, err)
	if err != nil {
		return err
	}
	s.record(ctx, auditevents.AdminActionRecorded{
		ActorID:     adminID,
		ActorRole:   "admin",
		ActionType:  auditevents.ActionDeleteClub,
		TargetType:  auditevents.TargetClub,
		TargetID:    club.ID,
		Description: "Deleted club: " + club.Name,
	})
	return nil
}

type assignOutcome struct {
	membership  *clubdb.Membership
	studentName string
	clubName    string
}

func (s *ClubService) AssignHead(ctx context.Context, adminID, clubID, studentID int64) (*clubdb.Membership, error) {
	result, err := withTelemetry(s, ctx, "AssignHead", id(clubID), func(ctx context.Context) (opResult[assignOutcome], error) {
		return runInTx(s, ctx, func(ctx context.Context, db bun.IDB) (opResult[assignOutcome], error) {
			return s.assignHeadLogic(ctx, db, adminID, clubID, studentID)
		})
	})
	out, err := unwrap(result, err)
	if err != nil {
		return nil, err
	}
	s.record(ctx, auditevents.AdminActionRecorded{
		ActorID:     adminID,
		ActorRole:   "admin",
		ActionType:  auditevents.ActionAssignClubHead,
		TargetType:  auditevents.TargetClub,
		TargetID:    clubID,
		Description: fmt.Sprintf("Assigned %s as head of %s", out.studentName, out.clubName),
	})
	return out.membership, nil
}

func (s *ClubService) assignHeadLogic(ctx context.Context, db bun.IDB, adminID, clubID, studentID int64) (opResult[assignOutcome], error) {
	if studentID <= 0 {
		return failure[assignOutcome](ErrStudentIDRequired), nil
	}

	club, res, err := s.lockActiveClub(ctx, db, clubID)
	if err != nil {
		return opResult[assignOutcome]{}, err
	}
	if res != nil {
		return failure[assignOutcome](res), nil
	}

	student, err := s.students.GetByID(ctx, db, studentID)
	if errors.Is(err, studentdb.ErrNotFound) {
		return failure[assignOutcome](ErrStudentNotFound), nil
	}
	if err != nil {
		return opResult[assignOutcome]{}, fmt.Errorf("failed to get student: %w", err)
	}

	if _, err := s.repo.DemoteHeads(ctx, db, clubID); err != nil {
		return opResult[assignOutcome]{}, err
	}
	m := &clubdb.Membership{
		StudentID:         studentID,
		ClubID:            clubID,
		Role:              clubdb.RoleHead,
		ApprovedByAdminID: &adminID,
	}
	if err := s.repo.UpsertMembership(ctx, db, m); err != nil {
		return opResult[assignOutcome]{}, err
	}
	return success(assignOutcome{membership: m, studentName: student.Name, clubName: club.Name}), nil
}

func (s *ClubService) CountClubs(ctx context.Context) (clubdb.ClubCounts, error) {
	return s.repo.CountClubs(ctx, s.conn())
}

// writeFailure maps constraint errors on club writes to domain failures.
func writeFailure(err error) *apperrors.Error {
	switch {
	case errors.Is(err, clubdb.ErrDuplicate):
		return ErrDuplicateName
	case errors.Is(err, clubdb.ErrInvalidReference):
		return ErrInvalidCoordinator
	default:
		return nil
	}
}
