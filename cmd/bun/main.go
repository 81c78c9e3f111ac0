package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"slices"
	"strings"

	"github.com/Black-And-White-Club/campus-events/config"
	"github.com/Black-And-White-Club/campus-events/db/bundb"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/riverqueue/river/riverdriver/riverpgxv5"
	"github.com/riverqueue/river/rivermigrate"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/migrate"
	"github.com/urfave/cli/v2"
)

type moduleMigrator struct {
	name     string
	migrator *migrate.Migrator
}

func main() {
	cliApp := &cli.App{
		Name:  "bun",
		Usage: "campus-events database migrations",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "config", Value: "config.yaml", Usage: "path to the configuration file"},
		},
		Commands: []*cli.Command{
			newMultiModuleDBCommand(),
			newRiverCommand(),
		},
	}

	if err := cliApp.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func loadConfig(c *cli.Context) (*config.Config, error) {
	cfg, err := config.LoadConfig(c.String("config"))
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return cfg, nil
}

// withMigrators opens the database and hands fn the module migrators in
// dependency order.
func withMigrators(c *cli.Context, fn func(db *bun.DB, migrators []moduleMigrator) error) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	db, err := bundb.Open(c.Context, cfg.Postgres.DSN)
	if err != nil {
		return err
	}
	defer db.Close()

	modules := bundb.Modules()
	migrators := make([]moduleMigrator, 0, len(modules))
	for _, m := range modules {
		migrators = append(migrators, moduleMigrator{name: m.Name, migrator: bundb.NewMigrator(db, m)})
	}
	return fn(db, migrators)
}

func findMigrator(migrators []moduleMigrator, name string) (*migrate.Migrator, error) {
	for _, m := range migrators {
		if m.name == name {
			return m.migrator, nil
		}
	}
	return nil, fmt.Errorf("invalid module name: %q", name)
}

func newMultiModuleDBCommand() *cli.Command {
	return &cli.Command{
		Name:  "db",
		Usage: "module database migrations",
		Subcommands: []*cli.Command{
			{
				Name:  "init",
				Usage: "create migration tables",
				Action: func(c *cli.Context) error {
					return withMigrators(c, func(_ *bun.DB, migrators []moduleMigrator) error {
						for _, m := range migrators {
							fmt.Printf("Initializing migrations for module: %s\n", m.name)
							if err := m.migrator.Init(c.Context); err != nil {
								return fmt.Errorf("init %s: %w", m.name, err)
							}
						}
						return nil
					})
				},
			},
			{
				Name:  "migrate",
				Usage: "migrate database",
				Action: func(c *cli.Context) error {
					return withMigrators(c, func(_ *bun.DB, migrators []moduleMigrator) error {
						for _, m := range migrators {
							if err := m.migrator.Init(c.Context); err != nil {
								return fmt.Errorf("init %s: %w", m.name, err)
							}
							group, err := m.migrator.Migrate(c.Context)
							if err != nil {
								return fmt.Errorf("migrate %s: %w", m.name, err)
							}
							if group.IsZero() {
								fmt.Printf("No new migrations to run for module: %s\n", m.name)
							} else {
								fmt.Printf("Migrated module: %s to %s\n", m.name, group)
							}
						}
						return nil
					})
				},
			},
			{
				Name:  "rollback",
				Usage: "rollback the last migration group of every module, newest module first",
				Action: func(c *cli.Context) error {
					return withMigrators(c, func(_ *bun.DB, migrators []moduleMigrator) error {
						for _, m := range slices.Backward(migrators) {
							group, err := m.migrator.Rollback(c.Context)
							if err != nil {
								return fmt.Errorf("rollback %s: %w", m.name, err)
							}
							if group.IsZero() {
								fmt.Printf("No groups to roll back for module: %s\n", m.name)
							} else {
								fmt.Printf("Rolled back module: %s to %s\n", m.name, group)
							}
						}
						return nil
					})
				},
			},
			{
				Name:      "create_go",
				Usage:     "create Go migration",
				ArgsUsage: "<module> <name...>",
				Action: func(c *cli.Context) error {
					return withMigrators(c, func(_ *bun.DB, migrators []moduleMigrator) error {
						migrator, err := findMigrator(migrators, c.Args().First())
						if err != nil {
							return err
						}
						name := strings.Join(c.Args().Tail(), "_")
						mf, err := migrator.CreateGoMigration(c.Context, name)
						if err != nil {
							return err
						}
						fmt.Printf("Created migration for module %s: %s (%s)\n", c.Args().First(), mf.Name, mf.Path)
						return nil
					})
				},
			},
			{
				Name:  "status",
				Usage: "print migrations status",
				Action: func(c *cli.Context) error {
					return withMigrators(c, func(_ *bun.DB, migrators []moduleMigrator) error {
						for _, m := range migrators {
							ms, err := m.migrator.MigrationsWithStatus(c.Context)
							if err != nil {
								return fmt.Errorf("status %s: %w", m.name, err)
							}
							fmt.Printf("Migrations for module: %s\n", m.name)
							fmt.Printf("  %s\n", ms)
							fmt.Printf("  Applied: %s\n", ms.Applied())
							fmt.Printf("  Unapplied: %s\n", ms.Unapplied())
						}
						return nil
					})
				},
			},
		},
	}
}

func newRiverCommand() *cli.Command {
	run := func(c *cli.Context, direction rivermigrate.Direction, opts *rivermigrate.MigrateOpts) error {
		cfg, err := loadConfig(c)
		if err != nil {
			return err
		}
		return migrateRiver(c.Context, cfg.Postgres.DSN, direction, opts)
	}

	return &cli.Command{
		Name:  "river",
		Usage: "River job queue migrations",
		Subcommands: []*cli.Command{
			{
				Name:  "migrate",
				Usage: "apply all River migrations",
				Action: func(c *cli.Context) error {
					return run(c, rivermigrate.DirectionUp, nil)
				},
			},
			{
				Name:  "rollback",
				Usage: "roll back the last River migration",
				Action: func(c *cli.Context) error {
					return run(c, rivermigrate.DirectionDown, &rivermigrate.MigrateOpts{MaxSteps: 1})
				},
			},
		},
	}
}

func migrateRiver(ctx context.Context, dsn string, direction rivermigrate.Direction, opts *rivermigrate.MigrateOpts) error {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return fmt.Errorf("failed to connect pgx pool: %w", err)
	}
	defer pool.Close()

	migrator, err := rivermigrate.New(riverpgxv5.New(pool), nil)
	if err != nil {
		return fmt.Errorf("failed to create river migrator: %w", err)
	}
	res, err := migrator.Migrate(ctx, direction, opts)
	if err != nil {
		return fmt.Errorf("river migrate %s: %w", direction, err)
	}
	if len(res.Versions) == 0 {
		fmt.Println("River migrations already up to date")
	}
	for _, v := range res.Versions {
		fmt.Printf("River migration %s: version %d (%s)\n", direction, v.Version, v.Duration)
	}
	return nil
}
