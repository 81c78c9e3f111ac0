package eventmigrations

import (
	"context"
	"fmt"

	"github.com/uptrace/bun"
)

func init() {
	Migrations.MustRegister(func(ctx context.Context, db *bun.DB) error {
		fmt.Println("Creating venues and venue_bookings tables...")

		return db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
			if _, err := tx.ExecContext(ctx, `
				CREATE TABLE IF NOT EXISTS venues (
					id BIGSERIAL PRIMARY KEY,
					name VARCHAR(255) NOT NULL UNIQUE,
					location VARCHAR(255),
					capacity INT CHECK (capacity IS NULL OR capacity > 0),
					facilities TEXT,
					is_active BOOLEAN NOT NULL DEFAULT TRUE,
					created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
				);
			`); err != nil {
				return fmt.Errorf("failed to create venues table: %w", err)
			}

			if _, err := tx.ExecContext(ctx, `
				CREATE TABLE IF NOT EXISTS venue_bookings (
					id BIGSERIAL PRIMARY KEY,
					venue_id BIGINT NOT NULL REFERENCES venues(id),
					club_id BIGINT NOT NULL REFERENCES clubs(id),
					booking_date DATE NOT NULL,
					start_time TIME NOT NULL,
					end_time TIME NOT NULL,
					purpose TEXT,
					status VARCHAR(16) NOT NULL DEFAULT 'Pending'
						CHECK (status IN ('Pending', 'Confirmed', 'Cancelled')),
					booked_by_student_id BIGINT REFERENCES students(id),
					created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
					CHECK (end_time > start_time)
				);
			`); err != nil {
				return fmt.Errorf("failed to create venue_bookings table: %w", err)
			}

			if _, err := tx.ExecContext(ctx, `
				CREATE INDEX IF NOT EXISTS idx_venue_bookings_venue_date
					ON venue_bookings (venue_id, booking_date);
			`); err != nil {
				return fmt.Errorf("failed to create venue_bookings index: %w", err)
			}
			return nil
		})
	}, func(ctx context.Context, db *bun.DB) error {
		fmt.Println("Dropping venue_bookings and venues tables...")
		_, err := db.ExecContext(ctx, `
			DROP TABLE IF EXISTS venue_bookings CASCADE;
			DROP TABLE IF EXISTS venues CASCADE;
		`)
		return err
	})
}
