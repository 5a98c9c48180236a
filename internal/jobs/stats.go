package jobs

import (
	"sync/atomic"

	"github.com/sevigo/apply-warden/internal/core"
)

// Stats counts what happened to the postings of one query. It is updated by
// concurrent posting tasks.
type Stats struct {
	postings      atomic.Int64
	applied       atomic.Int64
	excluded      atomic.Int64
	skipped       atomic.Int64
	rateLimited   atomic.Int64
	rejected      atomic.Int64
	unknown       atomic.Int64
	authRequired  atomic.Int64
	failed        atomic.Int64
	pagesFetched  atomic.Int64
	poolExhausted atomic.Bool
}

// StatsSnapshot is a point-in-time copy of Stats.
type StatsSnapshot struct {
	Postings      int64 `json:"postings"`
	Applied       int64 `json:"applied"`
	Excluded      int64 `json:"excluded"`
	Skipped       int64 `json:"skipped"`
	RateLimited   int64 `json:"rate_limited"`
	Rejected      int64 `json:"rejected"`
	Unknown       int64 `json:"unknown"`
	AuthRequired  int64 `json:"auth_required"`
	Failed        int64 `json:"failed"`
	Pages         int64 `json:"pages"`
	PoolExhausted bool  `json:"pool_exhausted"`
}

func (s *Stats) Snapshot() StatsSnapshot {
	return StatsSnapshot{
		Postings:      s.postings.Load(),
		Applied:       s.applied.Load(),
		Excluded:      s.excluded.Load(),
		Skipped:       s.skipped.Load(),
		RateLimited:   s.rateLimited.Load(),
		Rejected:      s.rejected.Load(),
		Unknown:       s.unknown.Load(),
		AuthRequired:  s.authRequired.Load(),
		Failed:        s.failed.Load(),
		Pages:         s.pagesFetched.Load(),
		PoolExhausted: s.poolExhausted.Load(),
	}
}

func (s *Stats) record(kind core.ResultKind) {
	switch kind {
	case core.ResultSuccess:
		s.applied.Add(1)
	case core.ResultRateLimited:
		s.rateLimited.Add(1)
	case core.ResultRejected:
		s.rejected.Add(1)
	case core.ResultUnknown:
		s.unknown.Add(1)
	case core.ResultAuthRequired:
		s.authRequired.Add(1)
	}
}

// Add returns the field-wise sum of two snapshots. PoolExhausted is per
// query and is left unset.
func (s StatsSnapshot) Add(o StatsSnapshot) StatsSnapshot {
	return StatsSnapshot{
		Postings:     s.Postings + o.Postings,
		Applied:      s.Applied + o.Applied,
		Excluded:     s.Excluded + o.Excluded,
		Skipped:      s.Skipped + o.Skipped,
		RateLimited:  s.RateLimited + o.RateLimited,
		Rejected:     s.Rejected + o.Rejected,
		Unknown:      s.Unknown + o.Unknown,
		AuthRequired: s.AuthRequired + o.AuthRequired,
		Failed:       s.Failed + o.Failed,
		Pages:        s.Pages + o.Pages,
	}
}
