package pool

import (
	"sync"

	"github.com/sevigo/apply-warden/internal/core"
)

// Registry owns every Pair of a run and the Pool of each query. Pair IDs are
// assigned from 1 in account order, then resume order.
type Registry struct {
	mu      sync.RWMutex
	pools   map[string]*Pool
	queries []string
	pairs   []*Pair
}

// NewRegistry creates one Pair per (account, resume) combination.
func NewRegistry(accounts []Account) *Registry {
	r := &Registry{pools: make(map[string]*Pool)}
	for _, account := range accounts {
		for _, resume := range account.Resumes {
			r.add(account, resume)
		}
	}
	return r
}

func (r *Registry) add(account Account, resume core.Resume) {
	pair := &Pair{
		ID:         len(r.pairs) + 1,
		Credential: account.Credential,
		Resume:     resume,
	}
	r.pairs = append(r.pairs, pair)

	p, ok := r.pools[resume.Query]
	if !ok {
		p = newPool(resume.Query)
		r.pools[resume.Query] = p
		r.queries = append(r.queries, resume.Query)
	}
	p.add(pair)
}

// Pool returns the pool of a query, or nil if no resume targets it.
func (r *Registry) Pool(query string) *Pool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.pools[query]
}

// Queries returns every query in the order it was first seen.
func (r *Registry) Queries() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]string(nil), r.queries...)
}

// Pairs returns every pair in ID order.
func (r *Registry) Pairs() []*Pair {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]*Pair(nil), r.pairs...)
}

// Available returns the available pairs of a query; nil for unknown queries.
func (r *Registry) Available(query string) []*Pair {
	p := r.Pool(query)
	if p == nil {
		return nil
	}
	return p.Available()
}

// IsExhausted reports whether no pair is available for query. Unknown
// queries are treated as exhausted.
func (r *Registry) IsExhausted(query string) bool {
	p := r.Pool(query)
	if p == nil {
		return true
	}
	return p.IsExhausted()
}
