package eventdb

import (
	"context"
	"fmt"
	"time"

	eventdomain "github.com/Black-And-White-Club/campus-events/app/modules/event/domain"
	"github.com/Black-And-White-Club/campus-events/db/bundb"
	"github.com/uptrace/bun"
)

var activeStatuses = []eventdomain.RegistrationStatus{
	eventdomain.StatusRegistered,
	eventdomain.StatusWaitlisted,
}

func (r *Impl) GetRegistration(ctx context.Context, db bun.IDB, studentID, eventID int64) (*Registration, error) {
	db = r.resolveDB(db)
	reg := new(Registration)
	err := db.NewSelect().
		Model(reg).
		Where("r.student_id = ?", studentID).
		Where("r.event_id = ?", eventID).
		Scan(ctx)
	if err != nil {
		return nil, wrapNotFound(err, "get registration")
	}
	return reg, nil
}

func (r *Impl) InsertRegistration(ctx context.Context, db bun.IDB, reg *Registration) error {
	db = r.resolveDB(db)
	reg.UpdatedAt = reg.RegistrationTime
	if _, err := db.NewInsert().Model(reg).Returning("id").Exec(ctx); err != nil {
		if bundb.IsUniqueViolation(err) {
			return ErrDuplicate
		}
		return fmt.Errorf("failed to insert registration: %w", err)
	}
	return nil
}

func (r *Impl) UpdateRegistrationStatus(ctx context.Context, db bun.IDB, id int64, from, to eventdomain.RegistrationStatus, registrationTime *time.Time) error {
	db = r.resolveDB(db)
	q := db.NewUpdate().
		Model((*Registration)(nil)).
		Set("registration_status = ?", to).
		Set("updated_at = ?", time.Now().UTC()).
		Where("id = ?", id).
		Where("registration_status = ?", from)
	if registrationTime != nil {
		q = q.Set("registration_time = ?", *registrationTime)
	}
	result, err := q.Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to update registration status: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return ErrStatusChanged
	}
	return nil
}

func (r *Impl) CountRegistered(ctx context.Context, db bun.IDB, eventID int64) (int, error) {
	db = r.resolveDB(db)
	n, err := db.NewSelect().
		Model((*Registration)(nil)).
		Where("r.event_id = ?", eventID).
		Where("r.registration_status = ?", eventdomain.StatusRegistered).
		Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to count registrations: %w", err)
	}
	return n, nil
}

// CountActiveRegistrations counts Registered and Waitlisted rows across all events.
func (r *Impl) CountActiveRegistrations(ctx context.Context, db bun.IDB) (int, error) {
	db = r.resolveDB(db)
	n, err := db.NewSelect().
		Model((*Registration)(nil)).
		Where("r.registration_status IN (?)", bun.In(activeStatuses)).
		Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to count active registrations: %w", err)
	}
	return n, nil
}

// ListStudentRegistrations returns a student's Registered and Waitlisted rows.
func (r *Impl) ListStudentRegistrations(ctx context.Context, db bun.IDB, studentID int64) ([]StudentRegistration, error) {
	db = r.resolveDB(db)
	var regs []StudentRegistration
	err := db.NewSelect().
		TableExpr("event_registrations AS r").
		ColumnExpr("r.id AS registration_id, r.event_id, r.registration_status, r.attended, r.registration_time").
		ColumnExpr("e.name AS event_name, e.event_type, e.event_date, e.start_time, e.end_time").
		ColumnExpr("e.status AS event_status, e.max_participants").
		ColumnExpr("c.name AS club_name, v.name AS venue_name").
		ColumnExpr(`(SELECT COUNT(*) FROM event_registrations r2
			WHERE r2.event_id = e.id AND r2.registration_status = ?) AS registered_count`,
			eventdomain.StatusRegistered).
		Join("JOIN events AS e ON e.id = r.event_id").
		Join("JOIN clubs AS c ON c.id = e.club_id").
		Join("LEFT JOIN venues AS v ON v.id = e.venue_id").
		Where("r.student_id = ?", studentID).
		Where("r.registration_status IN (?)", bun.In(activeStatuses)).
		OrderExpr("e.event_date ASC, e.start_time ASC").
		Scan(ctx, &regs)
	if err != nil {
		return nil, fmt.Errorf("failed to list student registrations: %w", err)
	}
	return regs, nil
}

// ListRoster returns every registration for an event, Registered first.
func (r *Impl) ListRoster(ctx context.Context, db bun.IDB, eventID int64) ([]RosterEntry, error) {
	db = r.resolveDB(db)
	var roster []RosterEntry
	err := db.NewSelect().
		TableExpr("event_registrations AS r").
		ColumnExpr("r.id AS registration_id, r.student_id, r.registration_status, r.attended, r.registration_time").
		ColumnExpr("s.student_id AS roll_number, s.name, s.email, s.phone").
		Join("JOIN students AS s ON s.id = r.student_id").
		Where("r.event_id = ?", eventID).
		OrderExpr(`CASE r.registration_status
			WHEN 'Registered' THEN 0 WHEN 'Waitlisted' THEN 1 ELSE 2 END, r.registration_time ASC`).
		Scan(ctx, &roster)
	if err != nil {
		return nil, fmt.Errorf("failed to list roster: %w", err)
	}
	return roster, nil
}

func (r *Impl) SetAttendance(ctx context.Context, db bun.IDB, eventID, registrationID int64, attended bool) error {
	db = r.resolveDB(db)
	result, err := db.NewUpdate().
		Model((*Registration)(nil)).
		Set("attended = ?", attended).
		Set("updated_at = ?", time.Now().UTC()).
		Where("id = ?", registrationID).
		Where("event_id = ?", eventID).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to set attendance: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return ErrNotFound
	}
	return nil
}

// ---------------------------------------------------------------------------
// Activity log
// ---------------------------------------------------------------------------

func (r *Impl) AppendActivity(ctx context.Context, db bun.IDB, entry *RegistrationActivity) error {
	db = r.resolveDB(db)
	if _, err := db.NewInsert().Model(entry).Returning("id").Exec(ctx); err != nil {
		return fmt.Errorf("failed to append registration activity: %w", err)
	}
	return nil
}

func (r *Impl) ListActivity(ctx context.Context, db bun.IDB, eventID int64) ([]RegistrationActivity, error) {
	db = r.resolveDB(db)
	var entries []RegistrationActivity
	err := db.NewSelect().
		Model(&entries).
		Where("ral.event_id = ?", eventID).
		Order("ral.id").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list registration activity: %w", err)
	}
	return entries, nil
}

// ---------------------------------------------------------------------------
// Winners
// ---------------------------------------------------------------------------

func (r *Impl) ReplaceWinners(ctx context.Context, db bun.IDB, eventID int64, winners []Winner) error {
	db = r.resolveDB(db)
	if _, err := db.NewDelete().Model((*Winner)(nil)).Where("event_id = ?", eventID).Exec(ctx); err != nil {
		return fmt.Errorf("failed to clear winners: %w", err)
	}
	if len(winners) == 0 {
		return nil
	}
	now := time.Now().UTC()
	for i := range winners {
		winners[i].EventID = eventID
		winners[i].CreatedAt = now
	}
	if _, err := db.NewInsert().Model(&winners).Exec(ctx); err != nil {
		if bundb.IsUniqueViolation(err) {
			return ErrDuplicate
		}
		return fmt.Errorf("failed to insert winners: %w", err)
	}
	return nil
}

func (r *Impl) ListWinners(ctx context.Context, db bun.IDB, eventID int64) ([]WinnerEntry, error) {
	db = r.resolveDB(db)
	var winners []WinnerEntry
	err := db.NewSelect().
		TableExpr("event_winners AS w").
		ColumnExpr("w.id, w.event_id, w.student_id, w.position").
		ColumnExpr("s.name AS student_name, s.student_id AS roll_number, s.email").
		Join("JOIN students AS s ON s.id = w.student_id").
		Where("w.event_id = ?", eventID).
		Order("w.position").
		Scan(ctx, &winners)
	if err != nil {
		return nil, fmt.Errorf("failed to list winners: %w", err)
	}
	return winners, nil
}
