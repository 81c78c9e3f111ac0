package eventmigrations

import (
	"context"
	"fmt"

	"github.com/uptrace/bun"
)

func init() {
	Migrations.MustRegister(func(ctx context.Context, db *bun.DB) error {
		fmt.Println("Creating event_winners table...")

		_, err := db.ExecContext(ctx, `
			CREATE TABLE IF NOT EXISTS event_winners (
				id BIGSERIAL PRIMARY KEY,
				event_id BIGINT NOT NULL REFERENCES events(id) ON DELETE CASCADE,
				student_id BIGINT NOT NULL REFERENCES students(id),
				position INT NOT NULL CHECK (position > 0),
				created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
				UNIQUE (event_id, position)
			);
		`)
		if err != nil {
			return fmt.Errorf("failed to create event_winners table: %w", err)
		}
		return nil
	}, func(ctx context.Context, db *bun.DB) error {
		fmt.Println("Dropping event_winners table...")
		_, err := db.ExecContext(ctx, `DROP TABLE IF EXISTS event_winners CASCADE;`)
		return err
	})
}
