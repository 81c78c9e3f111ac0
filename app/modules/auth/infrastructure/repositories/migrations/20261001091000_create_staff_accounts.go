package authmigrations

import (
	"context"
	"fmt"

	"github.com/uptrace/bun"
)

func init() {
	Migrations.MustRegister(func(ctx context.Context, db *bun.DB) error {
		fmt.Println("Creating staff_accounts table...")

		_, err := db.ExecContext(ctx, `
			CREATE TABLE IF NOT EXISTS staff_accounts (
				id BIGSERIAL PRIMARY KEY,
				name VARCHAR(255) NOT NULL,
				email VARCHAR(255) NOT NULL UNIQUE,
				password_hash TEXT NOT NULL,
				role VARCHAR(16) NOT NULL CHECK (role IN ('admin', 'faculty')),
				department VARCHAR(128),
				is_active BOOLEAN NOT NULL DEFAULT TRUE,
				created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
			);
		`)
		if err != nil {
			return fmt.Errorf("failed to create staff_accounts table: %w", err)
		}
		return nil
	}, func(ctx context.Context, db *bun.DB) error {
		fmt.Println("Dropping staff_accounts table...")
		_, err := db.ExecContext(ctx, `DROP TABLE IF EXISTS staff_accounts CASCADE;`)
		return err
	})
}
