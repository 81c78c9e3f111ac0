package clubservice

import (
	"context"
	"time"

	clubdb "github.com/Black-And-White-Club/campus-events/app/modules/club/infrastructure/repositories"
	studentdb "github.com/Black-And-White-Club/campus-events/app/modules/student/infrastructure/repositories"
	"github.com/uptrace/bun"
)

// ------------------------
// Fake Club Repo
// ------------------------

type FakeClubRepo struct {
	trace []string

	ListClubsFunc           func(ctx context.Context, db bun.IDB) ([]clubdb.ClubSummary, error)
	GetClubSummaryFunc      func(ctx context.Context, db bun.IDB, clubID int64) (*clubdb.ClubSummary, error)
	GetClubForUpdateFunc    func(ctx context.Context, db bun.IDB, clubID int64) (*clubdb.Club, error)
	CreateClubFunc          func(ctx context.Context, db bun.IDB, club *clubdb.Club) error
	UpdateClubFunc          func(ctx context.Context, db bun.IDB, clubID int64, update clubdb.ClubUpdate) (*clubdb.Club, error)
	DeactivateClubFunc      func(ctx context.Context, db bun.IDB, clubID int64) error
	CountUpcomingEventsFunc func(ctx context.Context, db bun.IDB, clubID int64, from time.Time) (int, error)
	ListMembersFunc         func(ctx context.Context, db bun.IDB, clubID int64) ([]clubdb.Member, error)
	GetMembershipFunc       func(ctx context.Context, db bun.IDB, studentID, clubID int64) (*clubdb.Membership, error)
	UpsertMembershipFunc    func(ctx context.Context, db bun.IDB, m *clubdb.Membership) error
	DemoteHeadsFunc         func(ctx context.Context, db bun.IDB, clubID int64) (int, error)
}

func NewFakeClubRepo() *FakeClubRepo {
	return &FakeClubRepo{trace: []string{}}
}

func (f *FakeClubRepo) record(step string) {
	f.trace = append(f.trace, step)
}

func (f *FakeClubRepo) Trace() []string {
	out := make([]string, len(f.trace))
	copy(out, f.trace)
	return out
}

func (f *FakeClubRepo) ListClubs(ctx context.Context, db bun.IDB) ([]clubdb.ClubSummary, error) {
	f.record("ListClubs")
	if f.ListClubsFunc != nil {
		return f.ListClubsFunc(ctx, db)
	}
	return nil, nil
}

func (f *FakeClubRepo) GetClubSummary(ctx context.Context, db bun.IDB, clubID int64) (*clubdb.ClubSummary, error) {
	f.record("GetClubSummary")
	if f.GetClubSummaryFunc != nil {
		return f.GetClubSummaryFunc(ctx, db, clubID)
	}
	return nil, clubdb.ErrNotFound
}

func (f *FakeClubRepo) GetClubForUpdate(ctx context.Context, db bun.IDB, clubID int64) (*clubdb.Club, error) {
	f.record("GetClubForUpdate")
	if f.GetClubForUpdateFunc != nil {
		return f.GetClubForUpdateFunc(ctx, db, clubID)
	}
	return nil, clubdb.ErrNotFound
}

func (f *FakeClubRepo) CreateClub(ctx context.Context, db bun.IDB, club *clubdb.Club) error {
	f.record("CreateClub")
	if f.CreateClubFunc != nil {
		return f.CreateClubFunc(ctx, db, club)
	}
	club.ID = 1
	club.IsActive = true
	return nil
}

func (f *FakeClubRepo) UpdateClub(ctx context.Context, db bun.IDB, clubID int64, update clubdb.ClubUpdate) (*clubdb.Club, error) {
	f.record("UpdateClub")
	if f.UpdateClubFunc != nil {
		return f.UpdateClubFunc(ctx, db, clubID, update)
	}
	return nil, clubdb.ErrNotFound
}

func (f *FakeClubRepo) DeactivateClub(ctx context.Context, db bun.IDB, clubID int64) error {
	f.record("DeactivateClub")
	if f.DeactivateClubFunc != nil {
		return f.DeactivateClubFunc(ctx, db, clubID)
	}
	return nil
}

func (f *FakeClubRepo) CountUpcomingEvents(ctx context.Context, db bun.IDB, clubID int64, from time.Time) (int, error) {
	f.record("CountUpcomingEvents")
	if f.CountUpcomingEventsFunc != nil {
		return f.CountUpcomingEventsFunc(ctx, db, clubID, from)
	}
	return 0, nil
}

func (f *FakeClubRepo) CountClubs(ctx context.Context, db bun.IDB) (clubdb.ClubCounts, error) {
	f.record("CountClubs")
	return clubdb.ClubCounts{}, nil
}

func (f *FakeClubRepo) ListMembers(ctx context.Context, db bun.IDB, clubID int64) ([]clubdb.Member, error) {
	f.record("ListMembers")
	if f.ListMembersFunc != nil {
		return f.ListMembersFunc(ctx, db, clubID)
	}
	return nil, nil
}

func (f *FakeClubRepo) GetMembership(ctx context.Context, db bun.IDB, studentID, clubID int64) (*clubdb.Membership, error) {
	f.record("GetMembership")
	if f.GetMembershipFunc != nil {
		return f.GetMembershipFunc(ctx, db, studentID, clubID)
	}
	return nil, clubdb.ErrNotFound
}

func (f *FakeClubRepo) UpsertMembership(ctx context.Context, db bun.IDB, m *clubdb.Membership) error {
	f.record("UpsertMembership")
	if f.UpsertMembershipFunc != nil {
		return f.UpsertMembershipFunc(ctx, db, m)
	}
	m.ID = 77
	m.Status = clubdb.MembershipActive
	return nil
}

func (f *FakeClubRepo) DemoteHeads(ctx context.Context, db bun.IDB, clubID int64) (int, error) {
	f.record("DemoteHeads")
	if f.DemoteHeadsFunc != nil {
		return f.DemoteHeadsFunc(ctx, db, clubID)
	}
	return 0, nil
}

func (f *FakeClubRepo) IsActiveHead(ctx context.Context, db bun.IDB, studentID, clubID int64) (bool, error) {
	f.record("IsActiveHead")
	return false, nil
}

func (f *FakeClubRepo) IsActiveHeadOfAnyClub(ctx context.Context, db bun.IDB, studentID int64) (bool, error) {
	f.record("IsActiveHeadOfAnyClub")
	return false, nil
}

var _ clubdb.Repository = (*FakeClubRepo)(nil)

// ------------------------
// Fake Student Repo
// ------------------------

type FakeStudentRepo struct {
	GetByIDFunc    func(ctx context.Context, db bun.IDB, id int64) (*studentdb.Student, error)
	GetByEmailFunc func(ctx context.Context, db bun.IDB, email string) (*studentdb.Student, error)
}

func (f *FakeStudentRepo) GetByID(ctx context.Context, db bun.IDB, id int64) (*studentdb.Student, error) {
	if f.GetByIDFunc != nil {
		return f.GetByIDFunc(ctx, db, id)
	}
	return nil, studentdb.ErrNotFound
}

func (f *FakeStudentRepo) GetByEmail(ctx context.Context, db bun.IDB, email string) (*studentdb.Student, error) {
	if f.GetByEmailFunc != nil {
		return f.GetByEmailFunc(ctx, db, email)
	}
	return nil, studentdb.ErrNotFound
}

func (f *FakeStudentRepo) Create(ctx context.Context, db bun.IDB, student *studentdb.Student) error {
	return nil
}

func (f *FakeStudentRepo) GetOrCreateByEmail(ctx context.Context, db bun.IDB, email, name string, phone *string) (*studentdb.Student, bool, error) {
	return nil, false, studentdb.ErrNotFound
}

func (f *FakeStudentRepo) UpdateContact(ctx context.Context, db bun.IDB, id int64, name, phone *string) error {
	return nil
}

func (f *FakeStudentRepo) SetPasswordHash(ctx context.Context, db bun.IDB, id int64, hash string) error {
	return nil
}

func (f *FakeStudentRepo) Count(ctx context.Context, db bun.IDB) (int, error) { return 0, nil }

var _ studentdb.Repository = (*FakeStudentRepo)(nil)
