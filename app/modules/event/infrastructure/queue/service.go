// Package eventqueue runs the periodic event maintenance jobs on River.
package eventqueue

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/Black-And-White-Club/campus-events/app/observability/attr"
	"github.com/Black-And-White-Club/campus-events/app/observability/metrics"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/riverqueue/river"
	"github.com/riverqueue/river/riverdriver/riverpgxv5"
)

const queueName = "event"

// Config controls the periodic schedule.
type Config struct {
	CompleteEventsEvery time.Duration
	CounterAuditEvery   time.Duration
	MaxWorkers          int
}

// Service owns the River client and its pgx pool.
type Service struct {
	client  *river.Client[pgx.Tx]
	pool    *pgxpool.Pool
	logger  *slog.Logger
	metrics metrics.OperationMetrics
}

// NewService creates a River client with the event workers and periodic jobs
// registered. River's schema must already be migrated.
func NewService(ctx context.Context, dsn string, maintenance Maintenance, cfg Config, logger *slog.Logger, m metrics.OperationMetrics) (*Service, error) {
	ctxLogger := logger.With(
		attr.String("component", "river_queue"),
		attr.String("queue", queueName),
	)

	start := time.Now()
	m.RecordOperationAttempt(ctx, "initialize_service", "river")

	// River requires pgx, not database/sql
	poolCfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		m.RecordOperationFailure(ctx, "initialize_service", "river")
		return nil, fmt.Errorf("failed to parse DSN: %w", err)
	}
	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		m.RecordOperationFailure(ctx, "initialize_service", "river")
		return nil, fmt.Errorf("failed to create pgx pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		m.RecordOperationFailure(ctx, "initialize_service", "river")
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	client, err := river.NewClient(riverpgxv5.New(pool), riverConfig(maintenance, cfg, ctxLogger))
	if err != nil {
		pool.Close()
		ctxLogger.Error("Failed to create River client", attr.Error(err))
		m.RecordOperationFailure(ctx, "initialize_service", "river")
		return nil, fmt.Errorf("failed to create River client: %w", err)
	}

	m.RecordOperationSuccess(ctx, "initialize_service", "river")
	m.RecordOperationDuration(ctx, "initialize_service", "river", time.Since(start))
	ctxLogger.Info("Event queue service initialized")

	return &Service{client: client, pool: pool, logger: ctxLogger, metrics: m}, nil
}

func riverConfig(maintenance Maintenance, cfg Config, logger *slog.Logger) *river.Config {
	workers := river.NewWorkers()
	river.AddWorker(workers, NewCompletePastEventsWorker(maintenance, logger))
	river.AddWorker(workers, NewCounterAuditWorker(maintenance, logger))

	return &river.Config{
		Logger: logger,
		Queues: map[string]river.QueueConfig{
			queueName: {MaxWorkers: max(cfg.MaxWorkers, 1)},
		},
		Workers:      workers,
		PeriodicJobs: periodicJobs(cfg),
	}
}

func periodicJobs(cfg Config) []*river.PeriodicJob {
	opts := &river.InsertOpts{Queue: queueName}
	return []*river.PeriodicJob{
		river.NewPeriodicJob(
			river.PeriodicInterval(cfg.CompleteEventsEvery),
			func() (river.JobArgs, *river.InsertOpts) { return CompletePastEventsJob{}, opts },
			&river.PeriodicJobOpts{RunOnStart: true},
		),
		river.NewPeriodicJob(
			river.PeriodicInterval(cfg.CounterAuditEvery),
			func() (river.JobArgs, *river.InsertOpts) { return CounterAuditJob{}, opts },
			&river.PeriodicJobOpts{RunOnStart: true},
		),
	}
}

// Start starts the River client.
func (s *Service) Start(ctx context.Context) error {
	s.metrics.RecordOperationAttempt(ctx, "start_service", "river")
	if err := s.client.Start(ctx); err != nil {
		s.logger.Error("Failed to start River client", attr.Error(err))
		s.metrics.RecordOperationFailure(ctx, "start_service", "river")
		return fmt.Errorf("failed to start River client: %w", err)
	}
	s.metrics.RecordOperationSuccess(ctx, "start_service", "river")
	s.logger.Info("Event queue service started")
	return nil
}

// Stop waits for running jobs to finish, then closes the pool.
func (s *Service) Stop(ctx context.Context) error {
	s.metrics.RecordOperationAttempt(ctx, "stop_service", "river")
	defer s.pool.Close()

	if err := s.client.Stop(ctx); err != nil {
		s.logger.Error("Failed to stop River client", attr.Error(err))
		s.metrics.RecordOperationFailure(ctx, "stop_service", "river")
		return fmt.Errorf("failed to stop River client: %w", err)
	}
	s.metrics.RecordOperationSuccess(ctx, "stop_service", "river")
	s.logger.Info("Event queue service stopped")
	return nil
}

// HealthCheck verifies the queue's database connection.
func (s *Service) HealthCheck(ctx context.Context) error {
	if s.client == nil {
		return fmt.Errorf("river client is nil")
	}
	if err := s.pool.Ping(ctx); err != nil {
		return fmt.Errorf("queue service health check failed: %w", err)
	}
	return nil
}
