package clubmigrations

import (
	"context"
	"fmt"

	"github.com/uptrace/bun"
)

func init() {
	Migrations.MustRegister(func(ctx context.Context, db *bun.DB) error {
		fmt.Println("Creating clubs and club_memberships tables...")

		return db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
			if _, err := tx.ExecContext(ctx, `
				CREATE TABLE IF NOT EXISTS clubs (
					id BIGSERIAL PRIMARY KEY,
					name VARCHAR(255) NOT NULL UNIQUE,
					description TEXT,
					faculty_coordinator_id BIGINT REFERENCES staff_accounts(id),
					created_by_admin_id BIGINT REFERENCES staff_accounts(id),
					is_active BOOLEAN NOT NULL DEFAULT TRUE,
					created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
					updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
				);
			`); err != nil {
				return fmt.Errorf("failed to create clubs table: %w", err)
			}

			if _, err := tx.ExecContext(ctx, `
				CREATE TABLE IF NOT EXISTS club_memberships (
					id BIGSERIAL PRIMARY KEY,
					student_id BIGINT NOT NULL REFERENCES students(id),
					club_id BIGINT NOT NULL REFERENCES clubs(id),
					role VARCHAR(16) NOT NULL DEFAULT 'Member' CHECK (role IN ('Member', 'Head')),
					status VARCHAR(16) NOT NULL DEFAULT 'Active' CHECK (status IN ('Active', 'Inactive')),
					approved_by_admin_id BIGINT REFERENCES staff_accounts(id),
					join_date TIMESTAMPTZ NOT NULL DEFAULT NOW(),
					UNIQUE (student_id, club_id)
				);
			`); err != nil {
				return fmt.Errorf("failed to create club_memberships table: %w", err)
			}

			// At most one active head per club.
			if _, err := tx.ExecContext(ctx, `
				CREATE UNIQUE INDEX IF NOT EXISTS idx_club_memberships_one_head
					ON club_memberships (club_id)
					WHERE role = 'Head' AND status = 'Active';
			`); err != nil {
				return fmt.Errorf("failed to create club head index: %w", err)
			}
			return nil
		})
	}, func(ctx context.Context, db *bun.DB) error {
		fmt.Println("Dropping club_memberships and clubs tables...")
		_, err := db.ExecContext(ctx, `
			DROP TABLE IF EXISTS club_memberships CASCADE;
			DROP TABLE IF EXISTS clubs CASCADE;
		`)
		return err
	})
}
