package wire

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/google/wire"

	"github.com/sevigo/apply-warden/internal/app"
	"github.com/sevigo/apply-warden/internal/config"
	"github.com/sevigo/apply-warden/internal/core"
	"github.com/sevigo/apply-warden/internal/db"
	"github.com/sevigo/apply-warden/internal/hh"
	"github.com/sevigo/apply-warden/internal/logger"
	"github.com/sevigo/apply-warden/internal/reauth"
	"github.com/sevigo/apply-warden/internal/storage"
)

// BaseSet holds every provider shared by the CLI and the server.
var BaseSet = wire.NewSet(
	app.NewApp,
	config.LoadConfig,
	provideAccounts,
	provideLoggerConfig,
	provideSlogLogger,
	provideHHClient,
	wire.Bind(new(core.PostingSource), new(*hh.Client)),
	wire.Bind(new(core.ApplyAction), new(*hh.Client)),
	provideDatabase,
	provideCredentialStore,
	provideApplicationLog,
)

func provideLoggerConfig(cfg *config.Config) logger.Config {
	return cfg.Logging
}

func provideSlogLogger(cfg logger.Config) *slog.Logger {
	l := logger.NewLogger(cfg, nil)
	slog.SetDefault(l)
	return l
}

func provideAccounts(cfg *config.Config) ([]config.AccountConfig, error) {
	return config.LoadAccounts(cfg.AccountsFile)
}

func provideHHClient(cfg *config.Config, logger *slog.Logger) *hh.Client {
	return hh.NewClient(
		hh.WithBaseURL(cfg.Search.BaseURL),
		hh.WithWebsiteVersion(cfg.Search.WebsiteVersion),
		hh.WithRateLimit(cfg.Dispatch.RequestsPerSecond, 1),
		hh.WithLogger(logger),
	)
}

// provideDatabase connects to Postgres when it is enabled; otherwise it
// returns nil.
func provideDatabase(cfg *config.Config, logger *slog.Logger) (*db.DB, func(), error) {
	if !cfg.Database.Enabled {
		return nil, func() {}, nil
	}
	return db.NewDatabase(&cfg.Database, logger)
}

func provideCredentialStore(ctx context.Context, cfg *config.Config, database *db.DB) (core.CredentialStore, func(), error) {
	switch cfg.Credentials.Backend {
	case config.BackendPostgres:
		if database == nil {
			return nil, func() {}, fmt.Errorf("credentials backend %q needs the database", cfg.Credentials.Backend)
		}
		return storage.NewPostgresCredentialStore(database.DB), func() {}, nil
	case config.BackendRedis:
		rdb, cleanup, err := db.NewRedisClient(ctx, cfg.Redis.URL)
		if err != nil {
			return nil, func() {}, err
		}
		return storage.NewRedisCredentialStore(rdb, storage.WithRedisPrefix(cfg.Redis.Prefix)), cleanup, nil
	default:
		return storage.NewFileCredentialStore(cfg.Credentials.Dir), func() {}, nil
	}
}

// provideApplicationLog returns a nil interface, not a typed nil, when the
// database is disabled.
func provideApplicationLog(database *db.DB) core.ApplicationLog {
	if database == nil {
		return nil
	}
	return storage.NewApplicationLog(database.DB)
}

func providePrompt(logger *slog.Logger) core.Reauthenticator {
	return reauth.NewPrompt(os.Stdin, os.Stdout, logger)
}

func provideInbox(logger *slog.Logger) core.Reauthenticator {
	return reauth.NewInbox(logger)
}
