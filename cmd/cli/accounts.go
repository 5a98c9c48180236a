package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/sevigo/apply-warden/internal/wire"
)

var accountsCmd = &cobra.Command{
	Use:   "accounts",
	Short: "Lists the configured accounts, their resumes and exclusions",
	RunE: func(_ *cobra.Command, _ []string) error {
		ctx := context.Background()

		app, cleanup, err := wire.InitializeCLI(ctx, configPath)
		if err != nil {
			return fmt.Errorf("failed to initialize app services: %w", err)
		}
		defer cleanup()

		views, err := app.Accounts(ctx)
		if err != nil {
			return fmt.Errorf("failed to describe accounts: %w", err)
		}

		out := os.Stdout
		titleColor.Fprintln(out, "\nAccounts")
		for i, v := range views {
			fmt.Fprintf(out, "\n%d. %s", i+1, v.Email)
			if v.HasCookies {
				successColor.Fprint(out, "  [cookies]")
			} else {
				warnColor.Fprint(out, "  [no cookies]")
			}
			if v.AppliedToday >= 0 {
				dimColor.Fprintf(out, "  applied today: %d", v.AppliedToday)
			}
			fmt.Fprintln(out)
			for j, r := range v.Resumes {
				fmt.Fprintf(out, "   resume %d: %s", j+1, r.Query)
				dimColor.Fprintf(out, "  (%s, exclusions: %s)\n", r.Hash, joinOrDash(r.Exclusions))
			}
		}
		return nil
	},
}

func init() { //nolint:gochecknoinits // Cobra's init function for command registration
	rootCmd.AddCommand(accountsCmd)
}
