// Package jobs runs the apply cycle: for every query it pages through the
// postings and hands each one to the pair picked by the query's Selector.
package jobs

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/sevigo/apply-warden/internal/core"
	"github.com/sevigo/apply-warden/internal/credential"
	"github.com/sevigo/apply-warden/internal/pool"
)

const (
	DefaultConcurrency    = 10
	DefaultApplyTimeout   = 30 * time.Second
	DefaultMaxAuthRetries = 3
)

// Config tunes a Dispatcher. Zero values fall back to the defaults.
type Config struct {
	// Concurrency caps the postings of one page processed at the same time.
	Concurrency int
	// ApplyTimeout bounds a single apply call.
	ApplyTimeout time.Duration
	// RefreshWait bounds how long a task waits for a credential refresh.
	RefreshWait time.Duration
	// MaxAuthRetries is how many times one posting is retried after the
	// credential was refreshed.
	MaxAuthRetries int
}

func (c Config) withDefaults() Config {
	if c.Concurrency <= 0 {
		c.Concurrency = DefaultConcurrency
	}
	if c.ApplyTimeout <= 0 {
		c.ApplyTimeout = DefaultApplyTimeout
	}
	if c.RefreshWait <= 0 {
		c.RefreshWait = credential.DefaultRefreshTimeout
	}
	if c.MaxAuthRetries <= 0 {
		c.MaxAuthRetries = DefaultMaxAuthRetries
	}
	return c
}

// Job is one query of a run.
type Job struct {
	RunID   string
	Pool    *pool.Pool
	Filters core.Filters
	Stats   *Stats
}

// Dispatcher applies to the postings of a query with the pairs of its pool.
type Dispatcher struct {
	source    core.PostingSource
	apply     core.ApplyAction
	refresher *credential.Refresher
	history   core.ApplicationLog
	cfg       Config
	logger    *slog.Logger
}

// NewDispatcher creates a Dispatcher. history may be nil.
func NewDispatcher(
	source core.PostingSource,
	apply core.ApplyAction,
	refresher *credential.Refresher,
	history core.ApplicationLog,
	cfg Config,
	logger *slog.Logger,
) *Dispatcher {
	return &Dispatcher{
		source:    source,
		apply:     apply,
		refresher: refresher,
		history:   history,
		cfg:       cfg.withDefaults(),
		logger:    logger,
	}
}

// Dispatch processes every page of the job's query until the pages run out
// or the pool has no available pair left. Postings within a page run
// concurrently; the next page is fetched only after all of them finished.
// Per-posting failures never abort the query; only PostingSource errors and
// context cancellation are returned.
func (d *Dispatcher) Dispatch(ctx context.Context, job Job) error {
	if job.Stats == nil {
		job.Stats = &Stats{}
	}
	query := job.Pool.Query()
	logger := d.logger.With("run_id", job.RunID, "query", query)

	if job.Pool.IsExhausted() {
		job.Stats.poolExhausted.Store(true)
		logger.Info("no pairs available, skipping query")
		return nil
	}
	logger.Info("starting query", "available_pairs", len(job.Pool.Available()))

	pages, err := d.source.PageCount(ctx, query, job.Filters)
	if err != nil {
		return fmt.Errorf("failed to count pages for query %q: %w", query, err)
	}
	logger.Info("found pages", "pages", pages)

	for page := range pages {
		if err := ctx.Err(); err != nil {
			return err
		}
		if job.Pool.IsExhausted() {
			job.Stats.poolExhausted.Store(true)
			logger.Warn("all pairs exhausted, stopping query", "page", page)
			return nil
		}

		postings, err := d.source.Page(ctx, query, page, job.Filters)
		if err != nil {
			return fmt.Errorf("failed to fetch page %d for query %q: %w", page, query, err)
		}
		job.Stats.pagesFetched.Add(1)
		logger.Info("processing page", "page", page, "pages", pages, "postings", len(postings))

		d.processPage(ctx, job, logger, postings)
	}

	if job.Pool.IsExhausted() {
		job.Stats.poolExhausted.Store(true)
	}
	snap := job.Stats.Snapshot()
	logger.Info("query finished",
		"applied", snap.Applied,
		"excluded", snap.Excluded,
		"skipped", snap.Skipped,
		"rate_limited", snap.RateLimited,
		"failed", snap.Failed,
	)
	return ctx.Err()
}

// processPage is the page barrier: it returns when every posting task of the
// page has completed.
func (d *Dispatcher) processPage(ctx context.Context, job Job, logger *slog.Logger, postings []core.Posting) {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(d.cfg.Concurrency)
	for _, posting := range postings {
		g.Go(func() error {
			d.processPosting(gctx, job, logger, posting)
			return nil
		})
	}
	_ = g.Wait()
}

func (d *Dispatcher) processPosting(ctx context.Context, job Job, logger *slog.Logger, posting core.Posting) {
	stats := job.Stats
	stats.postings.Add(1)

	if job.Pool.Excludes(posting.Title) {
		stats.excluded.Add(1)
		logger.Debug("posting excluded", "posting_id", posting.ID, "title", posting.Title)
		return
	}
	if ctx.Err() != nil {
		stats.skipped.Add(1)
		return
	}

	pair := job.Pool.Selector().Next()
	if pair == nil {
		stats.skipped.Add(1)
		logger.Debug("no pair available for posting", "posting_id", posting.ID)
		return
	}

	logger = logger.With("pair_id", pair.ID, "account", pair.Credential.ID(), "posting_id", posting.ID)
	result, err := d.applyWithRecovery(ctx, pair, posting.ID, stats)
	if err != nil {
		if errors.Is(err, ErrPairExhausted) {
			stats.skipped.Add(1)
			logger.Debug("dropping posting, pair retired during refresh")
			return
		}
		stats.failed.Add(1)
		logger.Error("apply attempt failed", "title", posting.Title, "error", err)
		return
	}

	stats.record(result.Kind)
	d.fold(job, logger, pair, posting, result)
	d.recordAttempt(ctx, job, logger, pair, posting, result)
}

// fold applies an attempt's outcome to pool state.
func (d *Dispatcher) fold(job Job, logger *slog.Logger, pair *pool.Pair, posting core.Posting, result core.ApplyResult) {
	switch result.Kind {
	case core.ResultSuccess:
		logger.Info("applied to posting", "title", posting.Title, "resume_query", pair.Resume.Query)
	case core.ResultRateLimited:
		if job.Pool.MarkExhausted(pair.ID) {
			logger.Warn("pair reached its usage limit, retiring it for this run",
				"available_pairs", len(job.Pool.Available()))
		}
	case core.ResultRejected:
		logger.Info("posting rejected", "title", posting.Title, "reason", result.Reason)
	default:
		logger.Warn("unrecognized apply response, dropping posting", "title", posting.Title, "detail", result.Reason)
	}
}

func (d *Dispatcher) recordAttempt(ctx context.Context, job Job, logger *slog.Logger, pair *pool.Pair, posting core.Posting, result core.ApplyResult) {
	if d.history == nil {
		return
	}
	err := d.history.Record(ctx, core.Attempt{
		RunID:     job.RunID,
		Query:     job.Pool.Query(),
		PairID:    pair.ID,
		AccountID: pair.Credential.ID(),
		PostingID: posting.ID,
		Title:     posting.Title,
		Result:    result,
		At:        time.Now().UTC(),
	})
	if err != nil {
		logger.Warn("failed to record attempt", "error", err)
	}
}
