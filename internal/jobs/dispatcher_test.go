package jobs

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/sevigo/apply-warden/internal/core"
	"github.com/sevigo/apply-warden/internal/credential"
	"github.com/sevigo/apply-warden/internal/pool"
	"github.com/sevigo/apply-warden/mocks"
)

type pagedSource struct {
	pages     [][]core.Posting
	pageCalls atomic.Int32
}

func (s *pagedSource) PageCount(context.Context, string, core.Filters) (int, error) {
	return len(s.pages), nil
}

func (s *pagedSource) Page(_ context.Context, _ string, page int, _ core.Filters) ([]core.Posting, error) {
	s.pageCalls.Add(1)
	return s.pages[page], nil
}

type call struct {
	posting string
	resume  string
}

// scriptedApply records every call and answers with fn.
type scriptedApply struct {
	mu    sync.Mutex
	calls []call
	fn    func(material core.Material, resume core.Resume, postingID string) (core.ApplyResult, error)
}

func (a *scriptedApply) Apply(_ context.Context, material core.Material, resume core.Resume, postingID string) (core.ApplyResult, error) {
	a.mu.Lock()
	a.calls = append(a.calls, call{posting: postingID, resume: resume.Hash})
	a.mu.Unlock()
	return a.fn(material, resume, postingID)
}

func (a *scriptedApply) Calls() []call {
	a.mu.Lock()
	defer a.mu.Unlock()
	return append([]call(nil), a.calls...)
}

type reauthFunc func(ctx context.Context, id string, current core.Material) (core.Material, error)

func (f reauthFunc) Reauthenticate(ctx context.Context, id string, current core.Material) (core.Material, error) {
	return f(ctx, id, current)
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func postings(ids ...string) []core.Posting {
	out := make([]core.Posting, 0, len(ids))
	for _, id := range ids {
		out = append(out, core.Posting{ID: id, Title: "Python developer " + id})
	}
	return out
}

func twoPairPool(exclusions ...string) *pool.Pool {
	r := pool.NewRegistry([]pool.Account{
		{Credential: credential.New("p1@example.com", core.Material{"hhtoken": "t1"}), Resumes: []core.Resume{{Hash: "P1", Query: "Python", Exclusions: exclusions}}},
		{Credential: credential.New("p2@example.com", core.Material{"hhtoken": "t2"}), Resumes: []core.Resume{{Hash: "P2", Query: "Python", Exclusions: exclusions}}},
	})
	return r.Pool("Python")
}

func newTestDispatcher(source core.PostingSource, apply core.ApplyAction, reauth core.Reauthenticator, cfg Config) *Dispatcher {
	if reauth == nil {
		reauth = reauthFunc(func(context.Context, string, core.Material) (core.Material, error) {
			return nil, errors.New("unexpected reauthentication")
		})
	}
	refresher := credential.NewRefresher(reauth, nil, time.Minute, testLogger())
	return NewDispatcher(source, apply, refresher, nil, cfg, testLogger())
}

func TestDispatcher_RoundRobinAcrossPage(t *testing.T) {
	p := twoPairPool()
	source := &pagedSource{pages: [][]core.Posting{postings("A", "B", "C", "D")}}
	apply := &scriptedApply{fn: func(core.Material, core.Resume, string) (core.ApplyResult, error) {
		return core.Success(), nil
	}}
	d := newTestDispatcher(source, apply, nil, Config{Concurrency: 1})

	stats := &Stats{}
	require.NoError(t, d.Dispatch(context.Background(), Job{RunID: "r", Pool: p, Stats: stats}))

	assert.Equal(t, []call{{"A", "P1"}, {"B", "P2"}, {"C", "P1"}, {"D", "P2"}}, apply.Calls())
	assert.Equal(t, int64(4), stats.Snapshot().Applied)
	assert.False(t, p.IsExhausted())
}

func TestDispatcher_RateLimitRetiresPairAndDrainsPool(t *testing.T) {
	p := twoPairPool()
	source := &pagedSource{pages: [][]core.Posting{postings("A", "B", "C", "D")}}
	apply := &scriptedApply{fn: func(_ core.Material, resume core.Resume, postingID string) (core.ApplyResult, error) {
		if resume.Hash == "P1" && postingID == "A" {
			return core.RateLimited(), nil
		}
		if resume.Hash == "P2" && postingID == "E" {
			return core.RateLimited(), nil
		}
		return core.Success(), nil
	}}
	d := newTestDispatcher(source, apply, nil, Config{Concurrency: 1})

	stats := &Stats{}
	require.NoError(t, d.Dispatch(context.Background(), Job{Pool: p, Stats: stats}))

	assert.Equal(t, []call{{"A", "P1"}, {"B", "P2"}, {"C", "P2"}, {"D", "P2"}}, apply.Calls())
	assert.False(t, p.IsExhausted())
	assert.True(t, p.Pairs()[0].Exhausted())

	// P2 hits its limit on E; F must be skipped without an apply call.
	source.pages = [][]core.Posting{postings("E", "F")}
	require.NoError(t, d.Dispatch(context.Background(), Job{Pool: p, Stats: stats}))

	assert.Len(t, apply.Calls(), 5)
	assert.True(t, p.IsExhausted())

	snap := stats.Snapshot()
	assert.Equal(t, int64(3), snap.Applied)
	assert.Equal(t, int64(2), snap.RateLimited)
	assert.Equal(t, int64(1), snap.Skipped)
	assert.True(t, snap.PoolExhausted)
}

func TestDispatcher_StopsFetchingPagesOncePoolIsDrained(t *testing.T) {
	p := twoPairPool()
	source := &pagedSource{pages: [][]core.Posting{
		postings("A", "B", "C"),
		postings("D", "E"),
		postings("F"),
	}}
	apply := &scriptedApply{fn: func(core.Material, core.Resume, string) (core.ApplyResult, error) {
		return core.RateLimited(), nil
	}}
	d := newTestDispatcher(source, apply, nil, Config{Concurrency: 4})

	stats := &Stats{}
	require.NoError(t, d.Dispatch(context.Background(), Job{Pool: p, Stats: stats}))

	assert.Equal(t, int32(1), source.pageCalls.Load())
	assert.True(t, p.IsExhausted())
	// tasks of the first page may race their pair's retirement
	assert.LessOrEqual(t, len(apply.Calls()), 3)
	snap := stats.Snapshot()
	assert.Equal(t, int64(3), snap.Postings)
	assert.True(t, snap.PoolExhausted)
}

func TestDispatcher_SkipsQueryWhenPoolAlreadyExhausted(t *testing.T) {
	p := twoPairPool()
	p.MarkExhausted(1)
	p.MarkExhausted(2)

	ctrl := gomock.NewController(t)
	source := mocks.NewMockPostingSource(ctrl)
	apply := mocks.NewMockApplyAction(ctrl)
	// no calls expected on either collaborator

	d := newTestDispatcher(source, apply, nil, Config{})
	stats := &Stats{}
	require.NoError(t, d.Dispatch(context.Background(), Job{Pool: p, Stats: stats}))
	assert.True(t, stats.Snapshot().PoolExhausted)
}

func TestDispatcher_ExcludedPostingsNeverReachSelection(t *testing.T) {
	p := twoPairPool("QA", "data scientist")
	source := &pagedSource{pages: [][]core.Posting{{
		{ID: "1", Title: "Senior QA engineer"},
		{ID: "2", Title: "Data Scientist / Python"},
		{ID: "3", Title: "Backend Python developer"},
	}}}
	apply := &scriptedApply{fn: func(core.Material, core.Resume, string) (core.ApplyResult, error) {
		return core.Success(), nil
	}}
	d := newTestDispatcher(source, apply, nil, Config{})

	stats := &Stats{}
	require.NoError(t, d.Dispatch(context.Background(), Job{Pool: p, Stats: stats}))

	assert.Equal(t, []call{{"3", "P1"}}, apply.Calls())
	assert.Equal(t, uint64(1), p.Selector().Ticket())
	snap := stats.Snapshot()
	assert.Equal(t, int64(2), snap.Excluded)
	assert.Equal(t, int64(1), snap.Applied)
}

func TestDispatcher_RejectedAndUnknownDoNotChangePairs(t *testing.T) {
	p := twoPairPool()
	source := &pagedSource{pages: [][]core.Posting{postings("A", "B", "C")}}
	apply := &scriptedApply{fn: func(_ core.Material, _ core.Resume, postingID string) (core.ApplyResult, error) {
		switch postingID {
		case "A":
			return core.Rejected("test-required"), nil
		case "B":
			return core.Unknown("HTTP 502"), nil
		default:
			return core.ApplyResult{}, errors.New("connection reset")
		}
	}}
	d := newTestDispatcher(source, apply, nil, Config{Concurrency: 1})

	stats := &Stats{}
	require.NoError(t, d.Dispatch(context.Background(), Job{Pool: p, Stats: stats}))

	assert.Len(t, p.Available(), 2)
	snap := stats.Snapshot()
	assert.Equal(t, int64(1), snap.Rejected)
	assert.Equal(t, int64(1), snap.Unknown)
	assert.Equal(t, int64(1), snap.Failed)
}

func TestDispatcher_AuthRecoveryIsSingleFlight(t *testing.T) {
	cred := credential.New("solo@example.com", core.Material{"hhtoken": "expired"})
	p := pool.NewRegistry([]pool.Account{
		{Credential: cred, Resumes: []core.Resume{{Hash: "R", Query: "Go"}}},
	}).Pool("Go")

	var reauthCalls atomic.Int32
	reauth := reauthFunc(func(_ context.Context, _ string, current core.Material) (core.Material, error) {
		reauthCalls.Add(1)
		time.Sleep(20 * time.Millisecond)
		m := current.Clone()
		m["hhtoken"] = "fresh"
		return m, nil
	})
	apply := &scriptedApply{fn: func(material core.Material, _ core.Resume, _ string) (core.ApplyResult, error) {
		if material["hhtoken"] != "fresh" {
			return core.AuthRequired(), nil
		}
		return core.Success(), nil
	}}
	source := &pagedSource{pages: [][]core.Posting{postings("1", "2", "3", "4", "5", "6", "7", "8")}}
	d := newTestDispatcher(source, apply, reauth, Config{Concurrency: 8})

	stats := &Stats{}
	require.NoError(t, d.Dispatch(context.Background(), Job{Pool: p, Stats: stats}))

	assert.Equal(t, int32(1), reauthCalls.Load())
	snap := stats.Snapshot()
	assert.Equal(t, int64(8), snap.Applied)
	assert.Equal(t, int64(0), snap.Failed)
	assert.Positive(t, snap.AuthRequired)
	assert.False(t, p.IsExhausted())
}

func TestDispatcher_AuthRetriesAreBounded(t *testing.T) {
	p := twoPairPool()
	var reauthCalls atomic.Int32
	reauth := reauthFunc(func(_ context.Context, _ string, current core.Material) (core.Material, error) {
		reauthCalls.Add(1)
		return core.Material{"hhtoken": "still-bad"}, nil
	})
	apply := &scriptedApply{fn: func(core.Material, core.Resume, string) (core.ApplyResult, error) {
		return core.AuthRequired(), nil
	}}
	source := &pagedSource{pages: [][]core.Posting{postings("A")}}
	d := newTestDispatcher(source, apply, reauth, Config{Concurrency: 1, MaxAuthRetries: 2})

	stats := &Stats{}
	require.NoError(t, d.Dispatch(context.Background(), Job{Pool: p, Stats: stats}))

	assert.Len(t, apply.Calls(), 3)
	assert.Equal(t, int32(2), reauthCalls.Load())
	snap := stats.Snapshot()
	assert.Equal(t, int64(1), snap.Failed)
	assert.Equal(t, int64(3), snap.AuthRequired)
	assert.Len(t, p.Available(), 2)
}

func TestDispatcher_FailedRefreshDropsPosting(t *testing.T) {
	p := twoPairPool()
	reauth := reauthFunc(func(context.Context, string, core.Material) (core.Material, error) {
		return nil, errors.New("no cookies entered")
	})
	apply := &scriptedApply{fn: func(core.Material, core.Resume, string) (core.ApplyResult, error) {
		return core.AuthRequired(), nil
	}}
	source := &pagedSource{pages: [][]core.Posting{postings("A")}}
	d := newTestDispatcher(source, apply, reauth, Config{Concurrency: 1})

	stats := &Stats{}
	require.NoError(t, d.Dispatch(context.Background(), Job{Pool: p, Stats: stats}))

	assert.Len(t, apply.Calls(), 1)
	assert.Equal(t, int64(1), stats.Snapshot().Failed)
}

func TestDispatcher_RecordsAttempts(t *testing.T) {
	ctrl := gomock.NewController(t)
	history := mocks.NewMockApplicationLog(ctrl)

	p := twoPairPool()
	source := &pagedSource{pages: [][]core.Posting{postings("A")}}
	apply := &scriptedApply{fn: func(core.Material, core.Resume, string) (core.ApplyResult, error) {
		return core.Success(), nil
	}}

	history.EXPECT().Record(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, a core.Attempt) error {
		assert.Equal(t, "run-1", a.RunID)
		assert.Equal(t, "Python", a.Query)
		assert.Equal(t, 1, a.PairID)
		assert.Equal(t, "p1@example.com", a.AccountID)
		assert.Equal(t, "A", a.PostingID)
		assert.Equal(t, core.ResultSuccess, a.Result.Kind)
		return errors.New("database is down")
	})

	refresher := credential.NewRefresher(nil, nil, time.Minute, testLogger())
	d := NewDispatcher(source, apply, refresher, history, Config{}, testLogger())

	stats := &Stats{}
	require.NoError(t, d.Dispatch(context.Background(), Job{RunID: "run-1", Pool: p, Stats: stats}))
	assert.Equal(t, int64(1), stats.Snapshot().Applied)
}

func TestDispatcher_PageBarrier(t *testing.T) {
	p := twoPairPool()
	var inFlight, maxInFlight atomic.Int32
	var page0Done atomic.Int32

	source := &pagedSource{pages: [][]core.Posting{postings("A", "B", "C"), postings("D")}}
	apply := &scriptedApply{fn: func(_ core.Material, _ core.Resume, postingID string) (core.ApplyResult, error) {
		n := inFlight.Add(1)
		defer inFlight.Add(-1)
		for {
			m := maxInFlight.Load()
			if n <= m || maxInFlight.CompareAndSwap(m, n) {
				break
			}
		}
		if postingID == "D" {
			assert.Equal(t, int32(3), page0Done.Load(), "page 1 started before page 0 finished")
		} else {
			time.Sleep(10 * time.Millisecond)
			page0Done.Add(1)
		}
		return core.Success(), nil
	}}
	d := newTestDispatcher(source, apply, nil, Config{Concurrency: 2})

	require.NoError(t, d.Dispatch(context.Background(), Job{Pool: p}))
	assert.LessOrEqual(t, maxInFlight.Load(), int32(2))
	assert.Len(t, apply.Calls(), 4)
}

func TestDispatcher_PageCountErrorIsReturned(t *testing.T) {
	ctrl := gomock.NewController(t)
	source := mocks.NewMockPostingSource(ctrl)
	source.EXPECT().PageCount(gomock.Any(), "Python", gomock.Any()).Return(0, errors.New("hh.ru unreachable"))

	d := newTestDispatcher(source, mocks.NewMockApplyAction(ctrl), nil, Config{})
	err := d.Dispatch(context.Background(), Job{Pool: twoPairPool()})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "hh.ru unreachable")
}

func TestDispatcher_CancelledContextStops(t *testing.T) {
	p := twoPairPool()
	source := &pagedSource{pages: [][]core.Posting{postings("A"), postings("B")}}
	ctx, cancel := context.WithCancel(context.Background())
	apply := &scriptedApply{fn: func(core.Material, core.Resume, string) (core.ApplyResult, error) {
		cancel()
		return core.Success(), nil
	}}
	d := newTestDispatcher(source, apply, nil, Config{Concurrency: 1})

	err := d.Dispatch(ctx, Job{Pool: p})
	require.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, int32(1), source.pageCalls.Load())
}
