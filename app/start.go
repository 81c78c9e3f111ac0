package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/Black-And-White-Club/campus-events/app/observability/attr"
)

const shutdownTimeout = 15 * time.Second

// Run starts the background modules and the HTTP server, then blocks until
// ctx is cancelled or the server fails. Shutdown drains HTTP first, then the
// workers, then the bus and database.
func (a *App) Run(ctx context.Context) error {
	logger := a.Observability.Logger

	a.wg.Add(2)
	go a.EventModule.Run(ctx, &a.wg)
	go a.AuditModule.Run(ctx, &a.wg)

	srv := &http.Server{
		Addr:              a.Config.HTTP.Addr,
		Handler:           a.Router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.InfoContext(ctx, "HTTP server listening", attr.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	var runErr error
	select {
	case <-ctx.Done():
		logger.Info("Shutdown signal received")
	case err := <-serverErr:
		if err != nil {
			runErr = fmt.Errorf("http server: %w", err)
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP server shutdown failed", attr.Error(err))
	}
	a.Close(shutdownCtx)
	return runErr
}

// Close stops the modules and releases the bus and database.
func (a *App) Close(ctx context.Context) {
	logger := a.Observability.Logger

	if a.EventModule != nil {
		if err := a.EventModule.Close(ctx); err != nil {
			logger.Error("Error closing event module", attr.Error(err))
		}
	}
	if a.AuditModule != nil {
		if err := a.AuditModule.Close(); err != nil {
			logger.Error("Error closing audit module", attr.Error(err))
		}
	}

	done := make(chan struct{})
	go func() {
		a.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-ctx.Done():
		logger.Warn("Timed out waiting for module goroutines")
	}

	if a.EventBus != nil {
		if err := a.EventBus.Close(); err != nil {
			logger.Error("Error closing event bus", attr.Error(err))
		}
	}
	if a.DB != nil {
		if err := a.DB.Close(); err != nil {
			logger.Error("Error closing database", attr.Error(err))
		}
	}
	logger.Info("Application stopped")
}
