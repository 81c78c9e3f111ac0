package clubservice

import (
	"context"

	clubdb "github.com/Black-And-White-Club/campus-events/app/modules/club/infrastructure/repositories"
)

// Service defines the contract for club operations.
type Service interface {
	ListClubs(ctx context.Context) ([]clubdb.ClubSummary, error)
	GetClub(ctx context.Context, clubID int64) (*clubdb.ClubSummary, error)
	ListMembers(ctx context.Context, clubID int64) ([]clubdb.Member, error)
	// JoinClub adds the student identified by email as an active Member.
	JoinClub(ctx context.Context, clubID int64, email string) (*JoinResult, error)

	CreateClub(ctx context.Context, adminID int64, req CreateClubRequest) (*clubdb.Club, error)
	UpdateClub(ctx context.Context, adminID, clubID int64, req UpdateClubRequest) (*clubdb.Club, error)
	// DeleteClub deactivates a club that has no approved or pending upcoming events.
	DeleteClub(ctx context.Context, adminID, clubID int64) error
	// AssignHead demotes the current head and makes studentID the active head.
	AssignHead(ctx context.Context, adminID, clubID, studentID int64) (*clubdb.Membership, error)

	CountClubs(ctx context.Context) (clubdb.ClubCounts, error)
}

type CreateClubRequest struct {
	Name                 string  `json:"name"`
	Description          *string `json:"description"`
	FacultyCoordinatorID *int64  `json:"faculty_coordinator_id"`
}

type UpdateClubRequest struct {
	Name                 *string `json:"name"`
	Description          *string `json:"description"`
	FacultyCoordinatorID *int64  `json:"faculty_coordinator_id"`
	IsActive             *bool   `json:"is_active"`
}

type JoinResult struct {
	MembershipID int64  `json:"id"`
	ClubName     string `json:"clubName"`
	Message      string `json:"-"`
}
