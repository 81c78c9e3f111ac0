package eventdb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	eventdomain "github.com/Black-And-White-Club/campus-events/app/modules/event/domain"
	"github.com/uptrace/bun"
)

// Impl implements the Repository interface using Bun ORM.
type Impl struct {
	db bun.IDB
}

// NewRepository creates a new event repository.
func NewRepository(db bun.IDB) Repository {
	return &Impl{db: db}
}

func (r *Impl) resolveDB(db bun.IDB) bun.IDB {
	if db == nil {
		return r.db
	}
	return db
}

func wrapNotFound(err error, op string) error {
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	return fmt.Errorf("failed to %s: %w", op, err)
}

// summaryQuery selects events with their club, venue and live registered count.
func summaryQuery(db bun.IDB, out any) *bun.SelectQuery {
	return db.NewSelect().
		Model(out).
		ColumnExpr("e.*").
		ColumnExpr("c.name AS club_name").
		ColumnExpr("v.name AS venue_name").
		ColumnExpr(`(SELECT COUNT(*) FROM event_registrations r
			WHERE r.event_id = e.id AND r.registration_status = ?) AS registered_count`,
			eventdomain.StatusRegistered).
		Join("JOIN clubs AS c ON c.id = e.club_id").
		Join("LEFT JOIN venues AS v ON v.id = e.venue_id")
}

// ---------------------------------------------------------------------------
// Events
// ---------------------------------------------------------------------------

func (r *Impl) CreateEvent(ctx context.Context, db bun.IDB, event *Event) error {
	db = r.resolveDB(db)
	now := time.Now().UTC()
	event.CreatedAt = now
	event.UpdatedAt = now
	if _, err := db.NewInsert().Model(event).Returning("id").Exec(ctx); err != nil {
		return fmt.Errorf("failed to create event: %w", err)
	}
	return nil
}

func (r *Impl) GetEvent(ctx context.Context, db bun.IDB, id int64) (*Event, error) {
	db = r.resolveDB(db)
	event := new(Event)
	if err := db.NewSelect().Model(event).Where("e.id = ?", id).Scan(ctx); err != nil {
		return nil, wrapNotFound(err, "get event")
	}
	return event, nil
}

func (r *Impl) GetEventForUpdate(ctx context.Context, db bun.IDB, id int64) (*Event, error) {
	db = r.resolveDB(db)
	event := new(Event)
	if err := db.NewSelect().Model(event).Where("e.id = ?", id).For("UPDATE").Scan(ctx); err != nil {
		return nil, wrapNotFound(err, "lock event")
	}
	return event, nil
}

func (r *Impl) GetEventSummary(ctx context.Context, db bun.IDB, id int64) (*EventSummary, error) {
	db = r.resolveDB(db)
	summary := new(EventSummary)
	if err := summaryQuery(db, summary).Where("e.id = ?", id).Scan(ctx); err != nil {
		return nil, wrapNotFound(err, "get event summary")
	}
	return summary, nil
}

func (r *Impl) ListEvents(ctx context.Context, db bun.IDB, filter EventFilter) ([]EventSummary, error) {
	db = r.resolveDB(db)
	var events []EventSummary
	q := summaryQuery(db, &events)
	if len(filter.Statuses) > 0 {
		q = q.Where("e.status IN (?)", bun.In(filter.Statuses))
	}
	if filter.EventType != "" {
		q = q.Where("e.event_type = ?", filter.EventType)
	}
	if filter.ClubID != 0 {
		q = q.Where("e.club_id = ?", filter.ClubID)
	}
	if filter.OldestFirst {
		q = q.OrderExpr("e.created_at ASC, e.id ASC")
	} else {
		q = q.OrderExpr("e.event_date ASC, e.start_time ASC")
	}
	if err := q.Scan(ctx); err != nil {
		return nil, fmt.Errorf("failed to list events: %w", err)
	}
	return events, nil
}

func (r *Impl) DecideEvent(ctx context.Context, db bun.IDB, id int64, update DecisionUpdate) (*Event, error) {
	db = r.resolveDB(db)
	event := new(Event)
	result, err := db.NewUpdate().
		Model(event).
		Set("status = ?", update.Status).
		Set("approved_by_admin_id = ?", update.AdminID).
		Set("approval_notes = ?", update.ApprovalNotes).
		Set("rejection_reason = ?", update.RejectionReason).
		Set("decided_at = ?", update.At).
		Set("updated_at = ?", update.At).
		Where("id = ?", id).
		Where("status = ?", eventdomain.EventPendingApproval).
		Returning("*").
		Exec(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to decide event: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return nil, ErrNotPending
	}
	return event, nil
}

func (r *Impl) AdjustRegistrationCount(ctx context.Context, db bun.IDB, eventID int64, delta int) (int, error) {
	db = r.resolveDB(db)
	var count int
	err := db.NewUpdate().
		Model((*Event)(nil)).
		Set("current_registrations = current_registrations + ?", delta).
		Set("updated_at = ?", time.Now().UTC()).
		Where("id = ?", eventID).
		Returning("current_registrations").
		Scan(ctx, &count)
	if err != nil {
		return 0, wrapNotFound(err, "adjust registration count")
	}
	return count, nil
}

// CompletePastEvents moves approved events dated before the given day to Completed.
func (r *Impl) CompletePastEvents(ctx context.Context, db bun.IDB, before time.Time) (int, error) {
	db = r.resolveDB(db)
	result, err := db.NewUpdate().
		Model((*Event)(nil)).
		Set("status = ?", eventdomain.EventCompleted).
		Set("updated_at = ?", time.Now().UTC()).
		Where("status = ?", eventdomain.EventApproved).
		Where("event_date < ?", before.Format(time.DateOnly)).
		Exec(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to complete past events: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return int(rows), nil
}

func (r *Impl) FindCounterDrift(ctx context.Context, db bun.IDB) ([]CounterDrift, error) {
	db = r.resolveDB(db)
	var drift []CounterDrift
	err := db.NewSelect().
		TableExpr("events AS e").
		ColumnExpr("e.id AS event_id").
		ColumnExpr("e.current_registrations AS stored").
		ColumnExpr("COUNT(r.id) AS live").
		Join("LEFT JOIN event_registrations AS r ON r.event_id = e.id AND r.registration_status = ?", eventdomain.StatusRegistered).
		Group("e.id").
		Having("e.current_registrations <> COUNT(r.id)").
		OrderExpr("e.id").
		Scan(ctx, &drift)
	if err != nil {
		return nil, fmt.Errorf("failed to find counter drift: %w", err)
	}
	return drift, nil
}

func (r *Impl) CountEventsByStatus(ctx context.Context, db bun.IDB) ([]StatusCount, error) {
	db = r.resolveDB(db)
	var counts []StatusCount
	err := db.NewSelect().
		Model((*Event)(nil)).
		ColumnExpr("e.status AS status").
		ColumnExpr("COUNT(*) AS count").
		Group("e.status").
		OrderExpr("e.status").
		Scan(ctx, &counts)
	if err != nil {
		return nil, fmt.Errorf("failed to count events by status: %w", err)
	}
	return counts, nil
}

// ---------------------------------------------------------------------------
// Venues
// ---------------------------------------------------------------------------

func (r *Impl) ListVenues(ctx context.Context, db bun.IDB) ([]Venue, error) {
	db = r.resolveDB(db)
	var venues []Venue
	if err := db.NewSelect().Model(&venues).Where("v.is_active = TRUE").Order("v.name").Scan(ctx); err != nil {
		return nil, fmt.Errorf("failed to list venues: %w", err)
	}
	return venues, nil
}

func (r *Impl) GetVenue(ctx context.Context, db bun.IDB, id int64) (*Venue, error) {
	db = r.resolveDB(db)
	venue := new(Venue)
	if err := db.NewSelect().Model(venue).Where("v.id = ?", id).Scan(ctx); err != nil {
		return nil, wrapNotFound(err, "get venue")
	}
	return venue, nil
}

func (r *Impl) CountVenues(ctx context.Context, db bun.IDB) (int, error) {
	db = r.resolveDB(db)
	n, err := db.NewSelect().Model((*Venue)(nil)).Where("v.is_active = TRUE").Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to count venues: %w", err)
	}
	return n, nil
}

func (r *Impl) CreateBooking(ctx context.Context, db bun.IDB, booking *VenueBooking) error {
	db = r.resolveDB(db)
	booking.CreatedAt = time.Now().UTC()
	if _, err := db.NewInsert().Model(booking).Returning("id").Exec(ctx); err != nil {
		return fmt.Errorf("failed to create venue booking: %w", err)
	}
	return nil
}

func (r *Impl) SetBookingStatus(ctx context.Context, db bun.IDB, bookingID int64, status eventdomain.BookingStatus) error {
	db = r.resolveDB(db)
	result, err := db.NewUpdate().
		Model((*VenueBooking)(nil)).
		Set("status = ?", status).
		Where("id = ?", bookingID).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to set booking status: %w", err)
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
