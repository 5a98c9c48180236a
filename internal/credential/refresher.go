package credential

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/sevigo/apply-warden/internal/core"
)

// DefaultRefreshTimeout bounds a single reauthentication. It is generous
// because the collaborator may wait for a human.
const DefaultRefreshTimeout = 10 * time.Minute

// Refresher runs at most one reauthentication per Credential at a time.
// Callers that need a refresh while one is in flight wait for it and then
// observe the same material.
type Refresher struct {
	reauth  core.Reauthenticator
	store   core.CredentialStore
	timeout time.Duration
	logger  *slog.Logger

	episodes atomic.Int64
}

// NewRefresher creates a Refresher. A nil store skips persistence; a
// non-positive timeout falls back to DefaultRefreshTimeout.
func NewRefresher(reauth core.Reauthenticator, store core.CredentialStore, timeout time.Duration, logger *slog.Logger) *Refresher {
	if timeout <= 0 {
		timeout = DefaultRefreshTimeout
	}
	return &Refresher{
		reauth:  reauth,
		store:   store,
		timeout: timeout,
		logger:  logger,
	}
}

// Episodes returns how many reauthentications this Refresher has started.
func (r *Refresher) Episodes() int64 { return r.episodes.Load() }

// EnsureValid returns immediately when c is Valid. When a refresh is in
// flight it blocks until that refresh completes or ctx is done; it never
// starts a refresh itself.
func (r *Refresher) EnsureValid(ctx context.Context, c *Credential) error {
	c.mu.Lock()
	ep := c.episode
	c.mu.Unlock()

	if ep == nil {
		return nil
	}
	return ep.wait(ctx)
}

// Recover is called after an attempt made with material of generation gen
// reported that authentication is required. If the material was already
// replaced since then, Recover returns at once. If a refresh is in flight, it
// joins it. Otherwise this caller moves c to Refreshing and starts the
// reauthentication in the background. Every caller, the initiator included,
// then waits for the refresh to finish or for its own ctx to end.
func (r *Refresher) Recover(ctx context.Context, c *Credential, gen uint64) error {
	c.mu.Lock()
	if c.generation != gen {
		c.mu.Unlock()
		return nil
	}
	if ep := c.episode; ep != nil {
		c.mu.Unlock()
		return ep.wait(ctx)
	}

	ep := &episode{done: make(chan struct{})}
	c.episode = ep
	c.state = StateRefreshing
	current := c.material.Clone()
	c.mu.Unlock()

	r.episodes.Add(1)
	r.logger.Info("refreshing credential", "account", c.id, "generation", gen)

	// The refresh is shared by every waiter, so it must not die with the
	// context of whichever task happened to start it.
	refreshCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), r.timeout)
	go func() {
		defer cancel()
		r.run(refreshCtx, c, ep, current, gen)
	}()

	return ep.wait(ctx)
}

// run performs one refresh episode and releases its waiters.
func (r *Refresher) run(ctx context.Context, c *Credential, ep *episode, current core.Material, gen uint64) {
	material, err := r.refresh(ctx, c.id, current)

	c.mu.Lock()
	if err == nil {
		c.material = material
		c.generation++
	}
	ep.err = err
	c.state = StateValid
	c.episode = nil
	close(ep.done)
	c.mu.Unlock()

	if err != nil {
		r.logger.Error("credential refresh failed", "account", c.id, "error", err)
		return
	}
	r.logger.Info("credential refreshed", "account", c.id, "generation", gen+1)
}

// Replace installs material supplied outside of a refresh, for example typed
// in by an operator between runs, and persists it. It fails with
// ErrRefreshPending while a refresh of c is in flight; that refresh is the
// one to feed instead.
func (r *Refresher) Replace(ctx context.Context, c *Credential, material core.Material) error {
	if len(material) == 0 {
		return ErrEmptyMaterial
	}
	c.mu.Lock()
	if c.episode != nil {
		c.mu.Unlock()
		return ErrRefreshPending
	}
	c.material = material.Clone()
	c.generation++
	gen := c.generation
	c.mu.Unlock()

	r.logger.Info("credential replaced", "account", c.id, "generation", gen)
	if r.store == nil {
		return nil
	}
	if err := r.store.Save(ctx, c.id, material); err != nil {
		return fmt.Errorf("failed to persist credential for %s: %w", c.id, err)
	}
	return nil
}

func (r *Refresher) refresh(ctx context.Context, accountID string, current core.Material) (core.Material, error) {
	material, err := r.reauth.Reauthenticate(ctx, accountID, current)
	if err != nil && errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return nil, fmt.Errorf("%w: account %s: %w", ErrRefreshTimeout, accountID, err)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: account %s: %w", ErrRefreshFailed, accountID, err)
	}
	if len(material) == 0 {
		return nil, fmt.Errorf("%w: account %s: %w", ErrRefreshFailed, accountID, ErrEmptyMaterial)
	}

	if r.store != nil {
		if err := r.store.Save(ctx, accountID, material); err != nil {
			// The new material is still usable for this run.
			r.logger.Error("failed to persist refreshed credential", "account", accountID, "error", err)
		}
	}
	return material.Clone(), nil
}

func (ep *episode) wait(ctx context.Context) error {
	select {
	case <-ep.done:
		return ep.err
	case <-ctx.Done():
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return fmt.Errorf("%w: %w", ErrRefreshTimeout, ctx.Err())
		}
		return ctx.Err()
	}
}
