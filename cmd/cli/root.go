package main

import (
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:   "warden",
	Short: "warden applies to hh.ru vacancies with a pool of accounts and resumes.",
	Long: `warden searches hh.ru for every resume query and applies with the
configured accounts in round robin, retiring an account once its daily
application limit is reached and asking for fresh cookies when a session expires.`,
	SilenceUsage: true,
}

func init() { //nolint:gochecknoinits // Cobra's init function for command registration
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "config file (default apply-warden.yml)")

	if err := viper.BindPFlag("CONFIG", rootCmd.PersistentFlags().Lookup("config")); err != nil {
		slog.Error("Error binding flag", "error", err)
		os.Exit(1)
	}
}

// initConfig lets AW_CONFIG name the config file when --config is not given.
func initConfig() {
	viper.SetEnvPrefix("AW")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()
	configPath = viper.GetString("CONFIG")
}
