package auditmigrations

import (
	"context"
	"fmt"

	"github.com/uptrace/bun"
)

func init() {
	Migrations.MustRegister(func(ctx context.Context, db *bun.DB) error {
		fmt.Println("Creating admin_audit_log table...")

		return db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
			if _, err := tx.ExecContext(ctx, `
				CREATE TABLE IF NOT EXISTS admin_audit_log (
					id BIGSERIAL PRIMARY KEY,
					message_id VARCHAR(64) UNIQUE,
					actor_id BIGINT NOT NULL,
					actor_role VARCHAR(32) NOT NULL,
					action_type VARCHAR(64) NOT NULL,
					target_type VARCHAR(32) NOT NULL,
					target_id BIGINT NOT NULL,
					description TEXT,
					created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
				);
			`); err != nil {
				return fmt.Errorf("failed to create admin_audit_log table: %w", err)
			}

			if _, err := tx.ExecContext(ctx, `
				CREATE INDEX IF NOT EXISTS idx_admin_audit_log_created_at
					ON admin_audit_log (created_at DESC);
			`); err != nil {
				return fmt.Errorf("failed to create admin_audit_log index: %w", err)
			}
			return nil
		})
	}, func(ctx context.Context, db *bun.DB) error {
		fmt.Println("Dropping admin_audit_log table...")
		_, err := db.ExecContext(ctx, `DROP TABLE IF EXISTS admin_audit_log CASCADE;`)
		return err
	})
}
