package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sevigo/apply-warden/internal/hh"
	"github.com/sevigo/apply-warden/internal/wire"
)

var credentialsCmd = &cobra.Command{
	Use:   "credentials",
	Short: "Manages stored account cookies",
}

var credentialsSetCmd = &cobra.Command{
	Use:     "set <account> <cookie-string>",
	Short:   "Stores cookies copied from the browser for an account",
	Example: `  warden credentials set me@example.com "hhtoken=...; _xsrf=...; hhuid=..."`,
	Args:    cobra.ExactArgs(2),
	RunE: func(_ *cobra.Command, args []string) error {
		material := hh.ParseCookies(args[1])
		if len(material) == 0 {
			return errors.New("no cookies found in the cookie string")
		}

		ctx := context.Background()
		app, cleanup, err := wire.InitializeCLI(ctx, configPath)
		if err != nil {
			return fmt.Errorf("failed to initialize app services: %w", err)
		}
		defer cleanup()

		if err := app.SetCredentials(ctx, args[0], material); err != nil {
			return fmt.Errorf("failed to store cookies: %w", err)
		}
		successColor.Printf("Stored %d cookies for %s\n", len(material), args[0])
		return nil
	},
}

func init() { //nolint:gochecknoinits // Cobra's init function for command registration
	credentialsCmd.AddCommand(credentialsSetCmd)
	rootCmd.AddCommand(credentialsCmd)
}
