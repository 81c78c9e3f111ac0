package clubhandlers

import (
	"context"
	"net/http"

	clubservice "github.com/Black-And-White-Club/campus-events/app/modules/club/application"
	clubdb "github.com/Black-And-White-Club/campus-events/app/modules/club/infrastructure/repositories"
)

// ------------------------
// Fake Service
// ------------------------

type FakeService struct {
	trace []string

	GetClubFunc    func(ctx context.Context, clubID int64) (*clubdb.ClubSummary, error)
	JoinClubFunc   func(ctx context.Context, clubID int64, email string) (*clubservice.JoinResult, error)
	CreateClubFunc func(ctx context.Context, adminID int64, req clubservice.CreateClubRequest) (*clubdb.Club, error)
	DeleteClubFunc func(ctx context.Context, adminID, clubID int64) error
	AssignHeadFunc func(ctx context.Context, adminID, clubID, studentID int64) (*clubdb.Membership, error)
}

func (f *FakeService) record(step string) { f.trace = append(f.trace, step) }

func (f *FakeService) Trace() []string { return f.trace }

func (f *FakeService) ListClubs(ctx context.Context) ([]clubdb.ClubSummary, error) {
	f.record("ListClubs")
	return []clubdb.ClubSummary{}, nil
}

func (f *FakeService) GetClub(ctx context.Context, clubID int64) (*clubdb.ClubSummary, error) {
	f.record("GetClub")
	if f.GetClubFunc != nil {
		return f.GetClubFunc(ctx, clubID)
	}
	return &clubdb.ClubSummary{}, nil
}

func (f *FakeService) ListMembers(ctx context.Context, clubID int64) ([]clubdb.Member, error) {
	f.record("ListMembers")
	return []clubdb.Member{}, nil
}

func (f *FakeService) JoinClub(ctx context.Context, clubID int64, email string) (*clubservice.JoinResult, error) {
	f.record("JoinClub")
	if f.JoinClubFunc != nil {
		return f.JoinClubFunc(ctx, clubID, email)
	}
	return &clubservice.JoinResult{}, nil
}

func (f *FakeService) CreateClub(ctx context.Context, adminID int64, req clubservice.CreateClubRequest) (*clubdb.Club, error) {
	f.record("CreateClub")
	if f.CreateClubFunc != nil {
		return f.CreateClubFunc(ctx, adminID, req)
	}
	return &clubdb.Club{}, nil
}

func (f *FakeService) UpdateClub(ctx context.Context, adminID, clubID int64, req clubservice.UpdateClubRequest) (*clubdb.Club, error) {
	f.record("UpdateClub")
	return &clubdb.Club{ID: clubID}, nil
}

func (f *FakeService) DeleteClub(ctx context.Context, adminID, clubID int64) error {
	f.record("DeleteClub")
	if f.DeleteClubFunc != nil {
		return f.DeleteClubFunc(ctx, adminID, clubID)
	}
	return nil
}

func (f *FakeService) AssignHead(ctx context.Context, adminID, clubID, studentID int64) (*clubdb.Membership, error) {
	f.record("AssignHead")
	if f.AssignHeadFunc != nil {
		return f.AssignHeadFunc(ctx, adminID, clubID, studentID)
	}
	return &clubdb.Membership{}, nil
}

func (f *FakeService) CountClubs(ctx context.Context) (clubdb.ClubCounts, error) {
	return clubdb.ClubCounts{}, nil
}

var _ clubservice.Service = (*FakeService)(nil)

// ------------------------
// Fake Guard
// ------------------------

type fakeGuard struct {
	resolve func(r *http.Request) (*http.Request, bool)
}

func (g fakeGuard) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		r, ok := g.resolve(r)
		if !ok {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (g fakeGuard) OptionalAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if authed, ok := g.resolve(r); ok {
			r = authed
		}
		next.ServeHTTP(w, r)
	})
}

func (g fakeGuard) RateLimit(next http.Handler) http.Handler { return next }
