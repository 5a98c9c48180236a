// Hand-maintained counterpart of the injectors in wire.go. Keep the provider
// calls in sync with BaseSet when providers change.

//go:build !wireinject
// +build !wireinject

package wire

import (
	"context"
	"log/slog"

	"github.com/sevigo/apply-warden/internal/app"
	"github.com/sevigo/apply-warden/internal/config"
	"github.com/sevigo/apply-warden/internal/core"
)

// InitializeCLI wires an App that asks for expired cookies on the terminal.
func InitializeCLI(ctx context.Context, configPath string) (*app.App, func(), error) {
	return initialize(ctx, configPath, providePrompt)
}

// InitializeServer wires an App that waits for expired cookies to be posted
// to the HTTP server.
func InitializeServer(ctx context.Context, configPath string) (*app.App, func(), error) {
	return initialize(ctx, configPath, provideInbox)
}

func initialize(
	ctx context.Context,
	configPath string,
	provideReauth func(*slog.Logger) core.Reauthenticator,
) (*app.App, func(), error) {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return nil, nil, err
	}
	loggerConfig := provideLoggerConfig(cfg)
	slogLogger := provideSlogLogger(loggerConfig)

	accounts, err := provideAccounts(cfg)
	if err != nil {
		return nil, nil, err
	}
	client := provideHHClient(cfg, slogLogger)

	database, dbCleanup, err := provideDatabase(cfg, slogLogger)
	if err != nil {
		return nil, nil, err
	}
	store, storeCleanup, err := provideCredentialStore(ctx, cfg, database)
	if err != nil {
		dbCleanup()
		return nil, nil, err
	}
	history := provideApplicationLog(database)
	reauthenticator := provideReauth(slogLogger)

	application, err := app.NewApp(ctx, cfg, accounts, client, client, store, reauthenticator, history, slogLogger)
	if err != nil {
		storeCleanup()
		dbCleanup()
		return nil, nil, err
	}

	cleanup := func() {
		storeCleanup()
		dbCleanup()
	}
	return application, cleanup, nil
}
