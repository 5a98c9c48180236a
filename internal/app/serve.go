package app

import (
	"context"
	"fmt"

	"github.com/sevigo/apply-warden/internal/scheduler"
	"github.com/sevigo/apply-warden/internal/server"
)

// Serve runs the scheduled apply cycle together with the HTTP server until
// ctx is cancelled or the server fails.
func (a *App) Serve(ctx context.Context) error {
	sched := scheduler.New(a.cfg.Schedule.Spec, a.runOnce, a.logger)
	srv := server.NewServer(a.cfg.Server.Port, server.NewRouter(a, a, a.logger), a.logger)

	if err := sched.Start(ctx); err != nil {
		return fmt.Errorf("failed to start scheduler: %w", err)
	}

	serverErr := make(chan error, 1)
	go func() { serverErr <- srv.Start() }()

	var err error
	select {
	case <-ctx.Done():
	case err = <-serverErr:
		a.logger.Error("HTTP server stopped", "error", err)
	}

	if stopErr := srv.Stop(); stopErr != nil {
		a.logger.Error("error during HTTP server shutdown", "error", stopErr)
	}
	sched.Stop()
	a.logger.Info("apply-warden stopped")
	return err
}

func (a *App) runOnce(ctx context.Context) error {
	_, err := a.Run(ctx)
	return err
}
