package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/sevigo/apply-warden/internal/scheduler"
	"github.com/sevigo/apply-warden/internal/wire"
)

var scheduleSpec string

var scheduleCmd = &cobra.Command{
	Use:   "schedule",
	Short: "Runs now and then again on a cron schedule until interrupted",
	RunE: func(_ *cobra.Command, _ []string) error {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		app, cleanup, err := wire.InitializeCLI(ctx, configPath)
		if err != nil {
			return fmt.Errorf("failed to initialize app services: %w", err)
		}
		defer cleanup()

		spec := scheduleSpec
		if spec == "" {
			spec = app.ScheduleSpec()
		}
		sched := scheduler.New(spec, func(ctx context.Context) error {
			report, err := app.Run(ctx)
			if report != nil {
				printReport(os.Stdout, report)
			}
			return err
		}, slog.Default())

		if err := sched.Start(ctx); err != nil {
			return err
		}
		<-ctx.Done()
		sched.Stop()
		return nil
	},
}

func init() { //nolint:gochecknoinits // Cobra's init function for command registration
	scheduleCmd.Flags().StringVar(&scheduleSpec, "spec", "", `cron spec overriding schedule.spec, e.g. "@every 6h"`)
	rootCmd.AddCommand(scheduleCmd)
}
