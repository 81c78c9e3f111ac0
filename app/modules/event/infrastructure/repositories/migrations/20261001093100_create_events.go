package eventmigrations

import (
	"context"
	"fmt"

	"github.com/uptrace/bun"
)

func init() {
	Migrations.MustRegister(func(ctx context.Context, db *bun.DB) error {
		fmt.Println("Creating events table...")

		return db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
			if _, err := tx.ExecContext(ctx, `
				CREATE TABLE IF NOT EXISTS events (
					id BIGSERIAL PRIMARY KEY,
					name VARCHAR(255) NOT NULL,
					description TEXT,
					event_type VARCHAR(64),
					event_date DATE NOT NULL,
					start_time TIME NOT NULL,
					end_time TIME NOT NULL,
					club_id BIGINT NOT NULL REFERENCES clubs(id),
					venue_id BIGINT REFERENCES venues(id),
					booking_id BIGINT REFERENCES venue_bookings(id),
					max_participants INT CHECK (max_participants IS NULL OR max_participants > 0),
					registration_deadline TIMESTAMPTZ,
					current_registrations INT NOT NULL DEFAULT 0 CHECK (current_registrations >= 0),
					status VARCHAR(32) NOT NULL DEFAULT 'Pending_Approval'
						CHECK (status IN ('Pending_Approval', 'Approved', 'Rejected', 'Completed')),
					created_by_student_id BIGINT REFERENCES students(id),
					approved_by_admin_id BIGINT REFERENCES staff_accounts(id),
					approval_notes TEXT,
					rejection_reason TEXT,
					decided_at TIMESTAMPTZ,
					created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
					updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
					CHECK (end_time > start_time)
				);
			`); err != nil {
				return fmt.Errorf("failed to create events table: %w", err)
			}

			if _, err := tx.ExecContext(ctx, `
				CREATE INDEX IF NOT EXISTS idx_events_status_date ON events (status, event_date);
				CREATE INDEX IF NOT EXISTS idx_events_club ON events (club_id);
			`); err != nil {
				return fmt.Errorf("failed to create events indexes: %w", err)
			}
			return nil
		})
	}, func(ctx context.Context, db *bun.DB) error {
		fmt.Println("Dropping events table...")
		_, err := db.ExecContext(ctx, `DROP TABLE IF EXISTS events CASCADE;`)
		return err
	})
}
