package eventmigrations

import (
	"context"
	"fmt"

	"github.com/uptrace/bun"
)

func init() {
	Migrations.MustRegister(func(ctx context.Context, db *bun.DB) error {
		fmt.Println("Creating event_registrations and registration_activity_log tables...")

		return db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
			if _, err := tx.ExecContext(ctx, `
				CREATE TABLE IF NOT EXISTS event_registrations (
					id BIGSERIAL PRIMARY KEY,
					student_id BIGINT NOT NULL REFERENCES students(id),
					event_id BIGINT NOT NULL REFERENCES events(id) ON DELETE CASCADE,
					registration_status VARCHAR(16) NOT NULL
						CHECK (registration_status IN ('Registered', 'Waitlisted', 'Cancelled')),
					attended BOOLEAN NOT NULL DEFAULT FALSE,
					registration_time TIMESTAMPTZ NOT NULL DEFAULT NOW(),
					updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
					UNIQUE (student_id, event_id)
				);
			`); err != nil {
				return fmt.Errorf("failed to create event_registrations table: %w", err)
			}

			if _, err := tx.ExecContext(ctx, `
				CREATE INDEX IF NOT EXISTS idx_event_registrations_event_status
					ON event_registrations (event_id, registration_status);
			`); err != nil {
				return fmt.Errorf("failed to create event_registrations index: %w", err)
			}

			if _, err := tx.ExecContext(ctx, `
				CREATE TABLE IF NOT EXISTS registration_activity_log (
					id BIGSERIAL PRIMARY KEY,
					event_id BIGINT NOT NULL REFERENCES events(id) ON DELETE CASCADE,
					student_id BIGINT NOT NULL REFERENCES students(id),
					action_type VARCHAR(16) NOT NULL
						CHECK (action_type IN ('INSERT', 'CANCEL', 'REACTIVATE', 'WAITLIST')),
					old_count INT NOT NULL,
					new_count INT NOT NULL,
					capacity INT,
					created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
				);
			`); err != nil {
				return fmt.Errorf("failed to create registration_activity_log table: %w", err)
			}

			if _, err := tx.ExecContext(ctx, `
				CREATE INDEX IF NOT EXISTS idx_registration_activity_event
					ON registration_activity_log (event_id, id);
			`); err != nil {
				return fmt.Errorf("failed to create registration_activity_log index: %w", err)
			}
			return nil
		})
	}, func(ctx context.Context, db *bun.DB) error {
		fmt.Println("Dropping registration tables...")
		_, err := db.ExecContext(ctx, `
			DROP TABLE IF EXISTS registration_activity_log CASCADE;
			DROP TABLE IF EXISTS event_registrations CASCADE;
		`)
		return err
	})
}
