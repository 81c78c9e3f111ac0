package clubdb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Black-And-White-Club/campus-events/db/bundb"
	"github.com/uptrace/bun"
)

// Impl implements the Repository interface using Bun ORM.
type Impl struct {
	db bun.IDB
}

// NewRepository creates a new club repository.
func NewRepository(db bun.IDB) Repository {
	return &Impl{db: db}
}

// resolveDB returns the provided db handle, falling back to the repository's
// default connection if db is nil.
func (r *Impl) resolveDB(db bun.IDB) bun.IDB {
	if db == nil {
		return r.db
	}
	return db
}

func mapWriteError(err error, action string) error {
	switch {
	case bundb.IsUniqueViolation(err):
		return ErrDuplicate
	case bundb.IsForeignKeyViolation(err):
		return ErrInvalidReference
	default:
		return fmt.Errorf("failed to %s: %w", action, err)
	}
}

func (r *Impl) summaryQuery(db bun.IDB) *bun.SelectQuery {
	return db.NewSelect().
		Model((*ClubSummary)(nil)).
		ColumnExpr("c.*").
		ColumnExpr("fa.name AS faculty_coordinator").
		ColumnExpr("COUNT(DISTINCT cm.id) AS member_count").
		ColumnExpr("hs.name AS head_name").
		ColumnExpr("hs.email AS head_email").
		Join("LEFT JOIN staff_accounts AS fa ON fa.id = c.faculty_coordinator_id").
		Join("LEFT JOIN club_memberships AS cm ON cm.club_id = c.id AND cm.status = ?", MembershipActive).
		Join("LEFT JOIN club_memberships AS hm ON hm.club_id = c.id AND hm.role = ? AND hm.status = ?", RoleHead, MembershipActive).
		Join("LEFT JOIN students AS hs ON hs.id = hm.student_id").
		GroupExpr("c.id, fa.name, hs.name, hs.email")
}

func (r *Impl) ListClubs(ctx context.Context, db bun.IDB) ([]ClubSummary, error) {
	db = r.resolveDB(db)
	var clubs []ClubSummary
	err := r.summaryQuery(db).
		Where("c.is_active = TRUE").
		OrderExpr("c.name ASC").
		Scan(ctx, &clubs)
	if err != nil {
		return nil, fmt.Errorf("failed to list clubs: %w", err)
	}
	return clubs, nil
}

func (r *Impl) GetClubSummary(ctx context.Context, db bun.IDB, clubID int64) (*ClubSummary, error) {
	db = r.resolveDB(db)
	club := new(ClubSummary)
	err := r.summaryQuery(db).
		Where("c.id = ?", clubID).
		Scan(ctx, club)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get club: %w", err)
	}
	return club, nil
}

func (r *Impl) GetClubForUpdate(ctx context.Context, db bun.IDB, clubID int64) (*Club, error) {
	db = r.resolveDB(db)
	club := new(Club)
	err := db.NewSelect().
		Model(club).
		Where("c.id = ?", clubID).
		For("UPDATE").
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to lock club: %w", err)
	}
	return club, nil
}

func (r *Impl) CreateClub(ctx context.Context, db bun.IDB, club *Club) error {
	db = r.resolveDB(db)
	club.IsActive = true
	_, err := db.NewInsert().
		Model(club).
		Returning("*").
		Exec(ctx)
	if err != nil {
		return mapWriteError(err, "create club")
	}
	return nil
}

// UpdateClub applies the non-nil fields of update and returns the new row.
func (r *Impl) UpdateClub(ctx context.Context, db bun.IDB, clubID int64, update ClubUpdate) (*Club, error) {
	db = r.resolveDB(db)
	club := new(Club)
	q := db.NewUpdate().
		Model(club).
		Set("updated_at = ?", time.Now()).
		Where("id = ?", clubID).
		Returning("*")
	if update.Name != nil {
		q = q.Set("name = ?", *update.Name)
	}
	if update.Description != nil {
		q = q.Set("description = ?", *update.Description)
	}
	if update.FacultyCoordinatorID != nil {
		q = q.Set("faculty_coordinator_id = ?", *update.FacultyCoordinatorID)
	}
	if update.IsActive != nil {
		q = q.Set("is_active = ?", *update.IsActive)
	}

	res, err := q.Exec(ctx)
	if err != nil {
		return nil, mapWriteError(err, "update club")
	}
	if n, err := res.RowsAffected(); err != nil {
		return nil, fmt.Errorf("failed to get rows affected: %w", err)
	} else if n == 0 {
		return nil, ErrNotFound
	}
	return club, nil
}

func (r *Impl) DeactivateClub(ctx context.Context, db bun.IDB, clubID int64) error {
	db = r.resolveDB(db)
	res, err := db.NewUpdate().
		Model((*Club)(nil)).
		Set("is_active = FALSE").
		Set("updated_at = ?", time.Now()).
		Where("id = ?", clubID).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to deactivate club: %w", err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *Impl) CountUpcomingEvents(ctx context.Context, db bun.IDB, clubID int64, from time.Time) (int, error) {
	db = r.resolveDB(db)
	n, err := db.NewSelect().
		TableExpr("events AS e").
		Where("e.club_id = ?", clubID).
		Where("e.status IN (?)", bun.In([]string{"Approved", "Pending_Approval"})).
		Where("e.event_date >= ?", from.Format(time.DateOnly)).
		Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to count upcoming events: %w", err)
	}
	return n, nil
}

func (r *Impl) CountClubs(ctx context.Context, db bun.IDB) (ClubCounts, error) {
	db = r.resolveDB(db)
	var counts ClubCounts
	err := db.NewSelect().
		Model((*Club)(nil)).
		ColumnExpr("COUNT(*) AS total").
		ColumnExpr("COUNT(*) FILTER (WHERE c.is_active) AS active").
		Scan(ctx, &counts)
	if err != nil {
		return ClubCounts{}, fmt.Errorf("failed to count clubs: %w", err)
	}
	return counts, nil
}

func (r *Impl) ListMembers(ctx context.Context, db bun.IDB, clubID int64) ([]Member, error) {
	db = r.resolveDB(db)
	var members []Member
	err := db.NewSelect().
		Model((*Membership)(nil)).
		ColumnExpr("s.id, s.student_id, s.name, s.email, cm.role, cm.join_date").
		Join("JOIN students AS s ON s.id = cm.student_id").
		Where("cm.club_id = ?", clubID).
		Where("cm.status = ?", MembershipActive).
		OrderExpr("CASE cm.role WHEN ? THEN 1 ELSE 2 END, cm.join_date ASC", RoleHead).
		Scan(ctx, &members)
	if err != nil {
		return nil, fmt.Errorf("failed to list club members: %w", err)
	}
	return members, nil
}

func (r *Impl) GetMembership(ctx context.Context, db bun.IDB, studentID, clubID int64) (*Membership, error) {
	db = r.resolveDB(db)
	m := new(Membership)
	err := db.NewSelect().
		Model(m).
		Where("cm.student_id = ?", studentID).
		Where("cm.club_id = ?", clubID).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get membership: %w", err)
	}
	return m, nil
}

func (r *Impl) UpsertMembership(ctx context.Context, db bun.IDB, m *Membership) error {
	db = r.resolveDB(db)
	m.Status = MembershipActive
	_, err := db.NewInsert().
		Model(m).
		Column("student_id", "club_id", "role", "status", "approved_by_admin_id").
		On("CONFLICT (student_id, club_id) DO UPDATE").
		Set("role = EXCLUDED.role").
		Set("status = EXCLUDED.status").
		Set("approved_by_admin_id = COALESCE(EXCLUDED.approved_by_admin_id, cm.approved_by_admin_id)").
		Returning("*").
		Exec(ctx)
	if err != nil {
		return mapWriteError(err, "upsert membership")
	}
	return nil
}

func (r *Impl) DemoteHeads(ctx context.Context, db bun.IDB, clubID int64) (int, error) {
	db = r.resolveDB(db)
	res, err := db.NewUpdate().
		Model((*Membership)(nil)).
		Set("role = ?", RoleMember).
		Where("club_id = ?", clubID).
		Where("role = ?", RoleHead).
		Where("status = ?", MembershipActive).
		Exec(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to demote club heads: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return int(n), nil
}

func (r *Impl) IsActiveHead(ctx context.Context, db bun.IDB, studentID, clubID int64) (bool, error) {
	db = r.resolveDB(db)
	ok, err := r.activeHeads(db, studentID).
		Where("cm.club_id = ?", clubID).
		Exists(ctx)
	if err != nil {
		return false, fmt.Errorf("failed to check club head: %w", err)
	}
	return ok, nil
}

func (r *Impl) IsActiveHeadOfAnyClub(ctx context.Context, db bun.IDB, studentID int64) (bool, error) {
	db = r.resolveDB(db)
	ok, err := r.activeHeads(db, studentID).Exists(ctx)
	if err != nil {
		return false, fmt.Errorf("failed to check club head: %w", err)
	}
	return ok, nil
}

func (r *Impl) activeHeads(db bun.IDB, studentID int64) *bun.SelectQuery {
	return db.NewSelect().
		Model((*Membership)(nil)).
		Join("JOIN clubs AS c ON c.id = cm.club_id AND c.is_active = TRUE").
		Where("cm.student_id = ?", studentID).
		Where("cm.role = ?", RoleHead).
		Where("cm.status = ?", MembershipActive)
}
