// Package testutils starts the containers and seeds the data that the
// integration tests run against.
package testutils

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/Black-And-White-Club/campus-events/app/observability"
	"github.com/Black-And-White-Club/campus-events/config"
	"github.com/Black-And-White-Club/campus-events/db/bundb"
	"github.com/Black-And-White-Club/campus-events/integration_tests/containers"
	"github.com/testcontainers/testcontainers-go/modules/nats"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/uptrace/bun"
)

// TestEnvironment holds all resources needed for one integration test.
type TestEnvironment struct {
	Ctx           context.Context
	PgContainer   *postgres.PostgresContainer
	NatsContainer *nats.NATSContainer
	DB            *bun.DB
	Config        *config.Config
	Obs           observability.Observability
}

type options struct {
	withNATS bool
}

// Option configures NewTestEnvironment.
type Option func(*options)

// WithNATS also starts a NATS container and sets Config.NATS.URL.
func WithNATS() Option {
	return func(o *options) { o.withNATS = true }
}

// SkipIfShort skips container-backed tests under -short.
func SkipIfShort(t *testing.T) {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
}

// NewTestEnvironment starts Postgres, applies every module migration and
// registers cleanup on t.
func NewTestEnvironment(t *testing.T, opts ...Option) *TestEnvironment {
	t.Helper()
	SkipIfShort(t)

	var o options
	for _, opt := range opts {
		opt(&o)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	t.Cleanup(cancel)

	env := &TestEnvironment{Ctx: ctx, Obs: observability.NewTest()}

	pgContainer, dsn, err := containers.SetupPostgresContainer(ctx)
	if err != nil {
		t.Fatalf("failed to setup postgres container: %v", err)
	}
	env.PgContainer = pgContainer
	t.Cleanup(func() { _ = pgContainer.Terminate(context.Background()) })

	env.Config = &config.Config{
		Postgres: config.PostgresConfig{DSN: dsn},
		HTTP:     config.HTTPConfig{RateLimit: 1000, RateBurst: 1000},
		JWT:      config.JWTConfig{Secret: "integration-secret", DefaultTTL: time.Hour},
	}

	if o.withNATS {
		natsContainer, natsURL, err := containers.SetupNatsContainer(ctx)
		if err != nil {
			t.Fatalf("failed to setup nats container: %v", err)
		}
		env.NatsContainer = natsContainer
		env.Config.NATS.URL = natsURL
		t.Cleanup(func() { _ = natsContainer.Terminate(context.Background()) })
	}

	db, err := bundb.Open(ctx, dsn)
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	env.DB = db

	if err := bundb.MigrateAll(ctx, db, env.Obs.Logger); err != nil {
		t.Fatalf("failed to run migrations: %v", err)
	}
	return env
}

// appTables lists tables in an order TRUNCATE ... CASCADE accepts.
var appTables = []string{
	"admin_audit_log",
	"registration_activity_log",
	"event_winners",
	"event_registrations",
	"events",
	"venue_bookings",
	"venues",
	"club_memberships",
	"clubs",
	"staff_accounts",
	"students",
}

// Reset truncates every application table.
func (env *TestEnvironment) Reset(t *testing.T) {
	t.Helper()
	for _, table := range appTables {
		if _, err := env.DB.ExecContext(env.Ctx, fmt.Sprintf("TRUNCATE TABLE %s RESTART IDENTITY CASCADE", table)); err != nil {
			t.Fatalf("failed to truncate %s: %v", table, err)
		}
	}
}
