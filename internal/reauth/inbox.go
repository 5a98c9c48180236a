package reauth

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"sync"

	"github.com/sevigo/apply-warden/internal/core"
)

// Inbox blocks a reauthentication until new material for the account is
// delivered, typically by the HTTP server.
type Inbox struct {
	logger *slog.Logger

	mu      sync.Mutex
	waiting map[string]chan core.Material
}

func NewInbox(logger *slog.Logger) *Inbox {
	return &Inbox{
		logger:  logger,
		waiting: make(map[string]chan core.Material),
	}
}

func (b *Inbox) Reauthenticate(ctx context.Context, accountID string, current core.Material) (core.Material, error) {
	ch := make(chan core.Material, 1)

	b.mu.Lock()
	if _, ok := b.waiting[accountID]; ok {
		b.mu.Unlock()
		return nil, fmt.Errorf("%w: %s", ErrAlreadyWaiting, accountID)
	}
	b.waiting[accountID] = ch
	b.mu.Unlock()

	defer func() {
		b.mu.Lock()
		delete(b.waiting, accountID)
		b.mu.Unlock()
	}()

	b.logger.Warn("session expired, waiting for new cookies to be posted", "account", accountID)
	select {
	case update := <-ch:
		return merge(current, update)
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Deliver hands material to the pending reauthentication of accountID.
// It returns ErrNotAwaiting when nobody is waiting for that account.
func (b *Inbox) Deliver(accountID string, material core.Material) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	ch, ok := b.waiting[accountID]
	if !ok {
		return fmt.Errorf("%w: %s", ErrNotAwaiting, accountID)
	}
	select {
	case ch <- material.Clone():
		return nil
	default:
		return fmt.Errorf("%w: %s", ErrDelivered, accountID)
	}
}

// Pending lists the accounts waiting for material, sorted.
func (b *Inbox) Pending() []string {
	b.mu.Lock()
	defer b.mu.Unlock()

	out := make([]string, 0, len(b.waiting))
	for id := range b.waiting {
		out = append(out, id)
	}
	slices.Sort(out)
	return out
}
