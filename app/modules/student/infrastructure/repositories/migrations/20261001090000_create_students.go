package studentmigrations

import (
	"context"
	"fmt"

	"github.com/uptrace/bun"
)

func init() {
	Migrations.MustRegister(func(ctx context.Context, db *bun.DB) error {
		fmt.Println("Creating students table...")

		return db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
			if _, err := tx.ExecContext(ctx, `
				CREATE TABLE IF NOT EXISTS students (
					id BIGSERIAL PRIMARY KEY,
					student_id VARCHAR(64) NOT NULL UNIQUE,
					name VARCHAR(255) NOT NULL,
					email VARCHAR(255) NOT NULL UNIQUE,
					phone VARCHAR(32),
					department VARCHAR(128),
					year_of_study INT CHECK (year_of_study BETWEEN 1 AND 6),
					password_hash TEXT,
					created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
					updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
				);
			`); err != nil {
				return fmt.Errorf("failed to create students table: %w", err)
			}
			return nil
		})
	}, func(ctx context.Context, db *bun.DB) error {
		fmt.Println("Dropping students table...")
		_, err := db.ExecContext(ctx, `DROP TABLE IF EXISTS students CASCADE;`)
		return err
	})
}
