package clubdb

import (
	"context"
	"time"

	"github.com/uptrace/bun"
)

// Repository defines the contract for club persistence.
type Repository interface {
	// ListClubs returns active clubs ordered by name.
	ListClubs(ctx context.Context, db bun.IDB) ([]ClubSummary, error)
	// GetClubSummary returns one club, active or not.
	GetClubSummary(ctx context.Context, db bun.IDB, clubID int64) (*ClubSummary, error)
	// GetClubForUpdate locks the club row for the rest of the transaction.
	GetClubForUpdate(ctx context.Context, db bun.IDB, clubID int64) (*Club, error)
	CreateClub(ctx context.Context, db bun.IDB, club *Club) error
	UpdateClub(ctx context.Context, db bun.IDB, clubID int64, update ClubUpdate) (*Club, error)
	DeactivateClub(ctx context.Context, db bun.IDB, clubID int64) error
	// CountUpcomingEvents counts approved or pending events dated on or after from.
	CountUpcomingEvents(ctx context.Context, db bun.IDB, clubID int64, from time.Time) (int, error)
	CountClubs(ctx context.Context, db bun.IDB) (ClubCounts, error)

	ListMembers(ctx context.Context, db bun.IDB, clubID int64) ([]Member, error)
	GetMembership(ctx context.Context, db bun.IDB, studentID, clubID int64) (*Membership, error)
	// UpsertMembership makes the membership Active with the given role,
	// creating it when the student never belonged to the club.
	UpsertMembership(ctx context.Context, db bun.IDB, m *Membership) error
	// DemoteHeads turns the club's active head, if any, back into a member.
	DemoteHeads(ctx context.Context, db bun.IDB, clubID int64) (int, error)

	IsActiveHead(ctx context.Context, db bun.IDB, studentID, clubID int64) (bool, error)
	IsActiveHeadOfAnyClub(ctx context.Context, db bun.IDB, studentID int64) (bool, error)
}
