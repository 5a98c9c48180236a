package jobs

import (
	"context"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/sevigo/apply-warden/internal/core"
	"github.com/sevigo/apply-warden/internal/pool"
)

// QueryReport is the outcome of one query within a run.
type QueryReport struct {
	Query string        `json:"query"`
	Stats StatsSnapshot `json:"stats"`
	Error string        `json:"error,omitempty"`
}

// Report describes a run, finished or in progress.
type Report struct {
	RunID      string        `json:"run_id"`
	StartedAt  time.Time     `json:"started_at"`
	FinishedAt time.Time     `json:"finished_at,omitzero"`
	Queries    []QueryReport `json:"queries"`
	Total      StatsSnapshot `json:"total"`
}

// Runner drives one run: it builds fresh pools from the accounts and
// dispatches the queries one after another. Exhaustion never carries over
// from one run to the next; credentials do.
type Runner struct {
	dispatcher *Dispatcher
	accounts   []pool.Account
	order      []string
	filters    core.Filters
	logger     *slog.Logger

	mu      sync.Mutex
	current *run
}

type run struct {
	id       string
	started  time.Time
	finished time.Time
	queries  []string
	stats    map[string]*Stats
	errs     map[string]error
}

// NewRunner creates a Runner. order lists the queries to process first; any
// other query found in the accounts follows in first-seen order.
func NewRunner(dispatcher *Dispatcher, accounts []pool.Account, order []string, filters core.Filters, logger *slog.Logger) *Runner {
	return &Runner{
		dispatcher: dispatcher,
		accounts:   accounts,
		order:      order,
		filters:    filters,
		logger:     logger,
	}
}

// Run processes every query once. A query whose posting source fails is
// reported and skipped; only cancellation stops the run early.
func (r *Runner) Run(ctx context.Context) (*Report, error) {
	registry := pool.NewRegistry(r.accounts)
	queries := OrderQueries(r.order, registry.Queries())

	cur := &run{
		id:      uuid.NewString(),
		started: time.Now().UTC(),
		queries: queries,
		stats:   make(map[string]*Stats, len(queries)),
		errs:    make(map[string]error),
	}
	for _, q := range queries {
		cur.stats[q] = &Stats{}
	}
	r.mu.Lock()
	r.current = cur
	r.mu.Unlock()

	logger := r.logger.With("run_id", cur.id)
	logger.Info("starting run", "queries", queries, "pairs", len(registry.Pairs()))

	var runErr error
	for _, q := range queries {
		err := r.dispatcher.Dispatch(ctx, Job{
			RunID:   cur.id,
			Pool:    registry.Pool(q),
			Filters: r.filters,
			Stats:   cur.stats[q],
		})
		if err != nil {
			r.mu.Lock()
			cur.errs[q] = err
			r.mu.Unlock()
			if ctx.Err() != nil {
				runErr = ctx.Err()
				break
			}
			logger.Error("query failed", "query", q, "error", err)
		}
	}

	r.mu.Lock()
	cur.finished = time.Now().UTC()
	r.mu.Unlock()

	report := r.LastReport()
	logger.Info("run finished",
		"applied", report.Total.Applied,
		"rate_limited", report.Total.RateLimited,
		"failed", report.Total.Failed,
		"duration", report.FinishedAt.Sub(report.StartedAt),
	)
	return report, runErr
}

// LastReport returns the report of the current or most recent run, or nil
// when nothing ran yet.
func (r *Runner) LastReport() *Report {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.current == nil {
		return nil
	}
	cur := r.current
	report := &Report{
		RunID:      cur.id,
		StartedAt:  cur.started,
		FinishedAt: cur.finished,
		Queries:    make([]QueryReport, 0, len(cur.queries)),
	}
	for _, q := range cur.queries {
		qr := QueryReport{Query: q, Stats: cur.stats[q].Snapshot()}
		if err := cur.errs[q]; err != nil {
			qr.Error = err.Error()
		}
		report.Total = report.Total.Add(qr.Stats)
		report.Queries = append(report.Queries, qr)
	}
	return report
}

// OrderQueries returns the known queries with those listed in order first.
// Entries of order that are unknown or repeated are dropped.
func OrderQueries(order, known []string) []string {
	out := make([]string, 0, len(known))
	for _, q := range order {
		if slices.Contains(known, q) && !slices.Contains(out, q) {
			out = append(out, q)
		}
	}
	for _, q := range known {
		if !slices.Contains(out, q) {
			out = append(out, q)
		}
	}
	return out
}
