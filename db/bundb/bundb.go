// Package bundb opens the Postgres connection shared by every repository and
// runs the module migrations.
package bundb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"
	"github.com/uptrace/bun/migrate"

	auditmigrations "github.com/Black-And-White-Club/campus-events/app/modules/audit/infrastructure/repositories/migrations"
	authmigrations "github.com/Black-And-White-Club/campus-events/app/modules/auth/infrastructure/repositories/migrations"
	clubmigrations "github.com/Black-And-White-Club/campus-events/app/modules/club/infrastructure/repositories/migrations"
	eventmigrations "github.com/Black-And-White-Club/campus-events/app/modules/event/infrastructure/repositories/migrations"
	studentmigrations "github.com/Black-And-White-Club/campus-events/app/modules/student/infrastructure/repositories/migrations"
)

// ModuleMigrations pairs a module name with its migration set.
type ModuleMigrations struct {
	Name       string
	Migrations *migrate.Migrations
}

// Modules lists migration sets in dependency order: later modules reference
// tables created by earlier ones.
func Modules() []ModuleMigrations {
	return []ModuleMigrations{
		{Name: "student", Migrations: studentmigrations.Migrations},
		{Name: "auth", Migrations: authmigrations.Migrations},
		{Name: "club", Migrations: clubmigrations.Migrations},
		{Name: "event", Migrations: eventmigrations.Migrations},
		{Name: "audit", Migrations: auditmigrations.Migrations},
	}
}

// Open connects to Postgres and verifies the connection.
func Open(ctx context.Context, dsn string) (*bun.DB, error) {
	sqldb := sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(dsn)))
	sqldb.SetMaxOpenConns(25)
	sqldb.SetMaxIdleConns(25)
	sqldb.SetConnMaxIdleTime(5 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := sqldb.PingContext(pingCtx); err != nil {
		sqldb.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return BunDB(sqldb), nil
}

// BunDB wraps an existing pool with the Postgres dialect.
func BunDB(sqldb *sql.DB) *bun.DB {
	return bun.NewDB(sqldb, pgdialect.New())
}

// NewMigrator returns a migrator with its own bookkeeping tables so module
// histories do not interleave.
func NewMigrator(db *bun.DB, m ModuleMigrations) *migrate.Migrator {
	return migrate.NewMigrator(db, m.Migrations,
		migrate.WithTableName("bun_migrations_"+m.Name),
		migrate.WithLocksTableName("bun_migration_locks_"+m.Name),
	)
}

// MigrateAll initializes and applies every module's migrations in order.
func MigrateAll(ctx context.Context, db *bun.DB, logger *slog.Logger) error {
	for _, m := range Modules() {
		migrator := NewMigrator(db, m)
		if err := migrator.Init(ctx); err != nil {
			return fmt.Errorf("init migrations for %s: %w", m.Name, err)
		}
		group, err := migrator.Migrate(ctx)
		if err != nil {
			return fmt.Errorf("migrate %s: %w", m.Name, err)
		}
		if logger != nil && !group.IsZero() {
			logger.InfoContext(ctx, "Applied migrations", "module", m.Name, "group", group.String())
		}
	}
	return nil
}

// IsUniqueViolation reports whether err is a Postgres unique_violation.
func IsUniqueViolation(err error) bool {
	var pgErr pgdriver.Error
	return errors.As(err, &pgErr) && pgErr.Field('C') == "23505"
}

// IsForeignKeyViolation reports whether err is a Postgres foreign_key_violation.
func IsForeignKeyViolation(err error) bool {
	var pgErr pgdriver.Error
	return errors.As(err, &pgErr) && pgErr.Field('C') == "23503"
}
