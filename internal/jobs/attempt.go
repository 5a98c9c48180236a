package jobs

import (
	"context"
	"fmt"

	"github.com/sevigo/apply-warden/internal/core"
	"github.com/sevigo/apply-warden/internal/credential"
	"github.com/sevigo/apply-warden/internal/pool"
)

// applyWithRecovery makes the apply attempt and, while it reports that
// authentication is required, recovers the credential and retries the same
// posting. The number of retries is bounded by MaxAuthRetries.
// AuthRequired is never returned as a result.
func (d *Dispatcher) applyWithRecovery(ctx context.Context, pair *pool.Pair, postingID string, stats *Stats) (core.ApplyResult, error) {
	cred := pair.Credential
	for retry := 0; ; retry++ {
		if err := d.awaitCredential(ctx, cred); err != nil {
			return core.ApplyResult{}, err
		}
		if retry > 0 && pair.Exhausted() {
			return core.ApplyResult{}, ErrPairExhausted
		}

		material, gen := cred.Snapshot()
		result, err := d.attempt(ctx, material, pair.Resume, postingID)
		if err != nil {
			return core.ApplyResult{}, err
		}
		if result.Kind != core.ResultAuthRequired {
			return result, nil
		}

		stats.authRequired.Add(1)
		if retry >= d.cfg.MaxAuthRetries {
			return core.ApplyResult{}, fmt.Errorf("%w: %d retries", ErrAuthRetriesExhausted, retry)
		}
		if err := d.recoverCredential(ctx, cred, gen); err != nil {
			return core.ApplyResult{}, err
		}
	}
}

func (d *Dispatcher) attempt(ctx context.Context, material core.Material, resume core.Resume, postingID string) (core.ApplyResult, error) {
	ctx, cancel := context.WithTimeout(ctx, d.cfg.ApplyTimeout)
	defer cancel()

	result, err := d.apply.Apply(ctx, material, resume, postingID)
	if err != nil {
		return core.ApplyResult{}, fmt.Errorf("apply: %w", err)
	}
	return result, nil
}

func (d *Dispatcher) awaitCredential(ctx context.Context, cred *credential.Credential) error {
	ctx, cancel := context.WithTimeout(ctx, d.cfg.RefreshWait)
	defer cancel()
	return d.refresher.EnsureValid(ctx, cred)
}

func (d *Dispatcher) recoverCredential(ctx context.Context, cred *credential.Credential, gen uint64) error {
	ctx, cancel := context.WithTimeout(ctx, d.cfg.RefreshWait)
	defer cancel()
	return d.refresher.Recover(ctx, cred, gen)
}
