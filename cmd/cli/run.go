package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/sevigo/apply-warden/internal/wire"
)

var runJSON bool

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Runs one pass over every search query",
	RunE: func(_ *cobra.Command, _ []string) error {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		app, cleanup, err := wire.InitializeCLI(ctx, configPath)
		if err != nil {
			return fmt.Errorf("failed to initialize app services: %w", err)
		}
		defer cleanup()

		report, runErr := app.Run(ctx)
		if report != nil {
			if runJSON {
				encoder := json.NewEncoder(os.Stdout)
				encoder.SetIndent("", "  ")
				if err := encoder.Encode(report); err != nil {
					return err
				}
			} else {
				printReport(os.Stdout, report)
			}
		}
		return runErr
	},
}

func init() { //nolint:gochecknoinits // Cobra's init function for command registration
	runCmd.Flags().BoolVar(&runJSON, "json", false, "Print the run report as JSON")
	rootCmd.AddCommand(runCmd)
}
