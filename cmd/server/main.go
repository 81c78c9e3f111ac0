package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/Black-And-White-Club/campus-events/app"
	"github.com/Black-And-White-Club/campus-events/app/observability"
	"github.com/Black-And-White-Club/campus-events/app/observability/attr"
	"github.com/Black-And-White-Club/campus-events/config"
	"github.com/Black-And-White-Club/campus-events/db/bundb"
)

func main() {
	configFile := flag.String("config", "config.yaml", "Path to the configuration file")
	migrate := flag.Bool("migrate", false, "Apply module migrations before starting")
	flag.Parse()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	cfg, err := config.LoadConfig(*configFile)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	obs := observability.New(config.ToObsConfig(cfg))
	logger := obs.Logger
	logger.Info("Starting campus-events server")

	application, err := app.NewApp(ctx, cfg, obs)
	if err != nil {
		logger.Error("Failed to initialize app", attr.Error(err))
		os.Exit(1)
	}

	if *migrate {
		if err := bundb.MigrateAll(ctx, application.DB, logger); err != nil {
			logger.Error("Failed to apply migrations", attr.Error(err))
			application.Close(context.Background())
			os.Exit(1)
		}
	}

	if err := application.Run(ctx); err != nil {
		logger.Error("Server stopped with error", attr.Error(err))
		os.Exit(1)
	}
	logger.Info("Server stopped")
}
