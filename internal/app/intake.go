package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/sevigo/apply-warden/internal/core"
	"github.com/sevigo/apply-warden/internal/reauth"
)

type deliverer interface {
	Deliver(accountID string, material core.Material) error
	Pending() []string
}

// Submit hands posted cookies to a pending reauthentication of the account
// when there is one, and otherwise installs them for the next attempts.
func (a *App) Submit(ctx context.Context, accountID string, material core.Material) (bool, error) {
	if _, ok := a.credentials[accountID]; !ok {
		return false, fmt.Errorf("%w: %s", core.ErrUnknownAccount, accountID)
	}
	if inbox, ok := a.reauth.(deliverer); ok {
		err := inbox.Deliver(accountID, material)
		if err == nil {
			return true, nil
		}
		if !errors.Is(err, reauth.ErrNotAwaiting) {
			return false, err
		}
	}
	if err := a.SetCredentials(ctx, accountID, material); err != nil {
		return false, err
	}
	return false, nil
}

// Pending lists the accounts whose reauthentication waits for cookies.
func (a *App) Pending() []string {
	if inbox, ok := a.reauth.(deliverer); ok {
		return inbox.Pending()
	}
	return []string{}
}
