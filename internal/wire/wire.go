//go:build wireinject
// +build wireinject

package wire

import (
	"context"

	"github.com/google/wire"

	"github.com/sevigo/apply-warden/internal/app"
)

// InitializeCLI wires an App that asks for expired cookies on the terminal.
func InitializeCLI(ctx context.Context, configPath string) (*app.App, func(), error) {
	wire.Build(BaseSet, providePrompt)
	return &app.App{}, nil, nil
}

// InitializeServer wires an App that waits for expired cookies to be posted
// to the HTTP server.
func InitializeServer(ctx context.Context, configPath string) (*app.App, func(), error) {
	wire.Build(BaseSet, provideInbox)
	return &app.App{}, nil, nil
}
