// Package app initializes and orchestrates the main components of apply-warden.
// It turns the configured accounts into credentials and pools and exposes the
// operations the CLI and the server are built from.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"maps"
	"time"

	"github.com/sevigo/apply-warden/internal/config"
	"github.com/sevigo/apply-warden/internal/core"
	"github.com/sevigo/apply-warden/internal/credential"
	"github.com/sevigo/apply-warden/internal/jobs"
	"github.com/sevigo/apply-warden/internal/pool"
	"github.com/sevigo/apply-warden/internal/storage"
)

// App holds the main application components.
type App struct {
	cfg     *config.Config
	logger  *slog.Logger
	reauth  core.Reauthenticator
	history core.ApplicationLog

	accounts    []config.AccountConfig
	credentials map[string]*credential.Credential
	refresher   *credential.Refresher
	runner      *jobs.Runner
}

// NewApp loads the stored credentials of every account and builds the
// dispatcher and runner. history may be nil.
func NewApp(
	ctx context.Context,
	cfg *config.Config,
	accounts []config.AccountConfig,
	source core.PostingSource,
	apply core.ApplyAction,
	store core.CredentialStore,
	reauth core.Reauthenticator,
	history core.ApplicationLog,
	logger *slog.Logger,
) (*App, error) {
	logger.Info("initializing apply-warden",
		"accounts", len(accounts),
		"credentials_backend", cfg.Credentials.Backend,
		"concurrency", cfg.Dispatch.Concurrency)

	a := &App{
		cfg:         cfg,
		logger:      logger,
		reauth:      reauth,
		history:     history,
		accounts:    accounts,
		credentials: make(map[string]*credential.Credential, len(accounts)),
		refresher:   credential.NewRefresher(reauth, store, cfg.Dispatch.RefreshTimeout, logger),
	}

	poolAccounts := make([]pool.Account, 0, len(accounts))
	for _, acc := range accounts {
		material, err := store.Load(ctx, acc.Email)
		switch {
		case errors.Is(err, storage.ErrCredentialNotFound):
			logger.Warn("no stored cookies, they will be requested on first use", "account", acc.Email)
		case err != nil:
			return nil, fmt.Errorf("failed to load credentials for %s: %w", acc.Email, err)
		}

		cred := credential.New(acc.Email, material)
		a.credentials[acc.Email] = cred

		resumes := make([]core.Resume, 0, len(acc.Resumes))
		for _, r := range acc.Resumes {
			resumes = append(resumes, r.Resume())
		}
		poolAccounts = append(poolAccounts, pool.Account{Credential: cred, Resumes: resumes})
	}

	dispatcher := jobs.NewDispatcher(source, apply, a.refresher, history, jobs.Config{
		Concurrency:    cfg.Dispatch.Concurrency,
		ApplyTimeout:   cfg.Dispatch.ApplyTimeout,
		RefreshWait:    cfg.Dispatch.RefreshTimeout,
		MaxAuthRetries: cfg.Dispatch.MaxAuthRetries,
	}, logger)
	a.runner = jobs.NewRunner(dispatcher, poolAccounts, cfg.Search.Order, cfg.Filters(), logger)

	logger.Info("apply-warden initialized", "queries", config.Queries(accounts))
	return a, nil
}

// Run processes every query once.
func (a *App) Run(ctx context.Context) (*jobs.Report, error) {
	return a.runner.Run(ctx)
}

// LastReport returns the report of the current or last run.
func (a *App) LastReport() *jobs.Report {
	return a.runner.LastReport()
}

// SetCredentials merges material into the account's current cookies and
// persists the result.
func (a *App) SetCredentials(ctx context.Context, accountID string, material core.Material) error {
	cred, ok := a.credentials[accountID]
	if !ok {
		return fmt.Errorf("%w: %s", core.ErrUnknownAccount, accountID)
	}
	current, _ := cred.Snapshot()
	maps.Copy(current, material)
	return a.refresher.Replace(ctx, cred, current)
}

// AccountView is one row of the accounts overview.
type AccountView struct {
	Email      string
	Resumes    []config.ResumeConfig
	HasCookies bool
	State      string
	// AppliedToday is -1 when no application log is configured.
	AppliedToday int
}

type appliedCounter interface {
	AppliedSince(ctx context.Context, since time.Time) (map[string]int, error)
}

// Accounts describes the configured accounts in file order.
func (a *App) Accounts(ctx context.Context) ([]AccountView, error) {
	var applied map[string]int
	if counter, ok := a.history.(appliedCounter); ok {
		now := time.Now()
		midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
		var err error
		if applied, err = counter.AppliedSince(ctx, midnight); err != nil {
			return nil, err
		}
	}

	views := make([]AccountView, 0, len(a.accounts))
	for _, acc := range a.accounts {
		cred := a.credentials[acc.Email]
		material, _ := cred.Snapshot()
		v := AccountView{
			Email:        acc.Email,
			Resumes:      acc.Resumes,
			HasCookies:   len(material) > 0,
			State:        cred.State().String(),
			AppliedToday: -1,
		}
		if applied != nil {
			v.AppliedToday = applied[acc.Email]
		}
		views = append(views, v)
	}
	return views, nil
}

// ScheduleSpec is the configured cron spec for periodic runs.
func (a *App) ScheduleSpec() string {
	return a.cfg.Schedule.Spec
}
