package pool

import (
	"sync"

	"github.com/sevigo/apply-warden/internal/core"
)

// Pool holds every Pair whose resume targets the same query. One mutex guards
// the exhaustion flags of its pairs and the ticket of its Selector, so a
// selection and the availability check it depends on form one critical
// section.
type Pool struct {
	query string

	mu        sync.Mutex
	pairs     []*Pair // creation order, fixed after construction
	remaining int
	selector  *Selector
}

func newPool(query string) *Pool {
	p := &Pool{query: query}
	p.selector = &Selector{pool: p}
	return p
}

func (p *Pool) add(pair *Pair) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.pairs = append(p.pairs, pair)
	p.remaining++
}

// Query returns the search query shared by all pairs in the pool.
func (p *Pool) Query() string { return p.query }

// Selector returns the pool's round-robin cursor.
func (p *Pool) Selector() *Selector { return p.selector }

// Pairs returns every pair of the pool in creation order, exhausted or not.
func (p *Pool) Pairs() []*Pair {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]*Pair(nil), p.pairs...)
}

// Available returns the pairs that are not exhausted, in creation order.
func (p *Pool) Available() []*Pair {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.availableLocked()
}

func (p *Pool) availableLocked() []*Pair {
	out := make([]*Pair, 0, p.remaining)
	for _, pair := range p.pairs {
		if !pair.exhausted.Load() {
			out = append(out, pair)
		}
	}
	return out
}

// MarkExhausted retires the pair with the given ID. It is idempotent and
// reports whether this call performed the transition, so concurrent callers
// can tell who observed it first. Unknown IDs are ignored.
func (p *Pool) MarkExhausted(pairID int) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	for _, pair := range p.pairs {
		if pair.ID != pairID {
			continue
		}
		if pair.exhausted.Load() {
			return false
		}
		pair.exhausted.Store(true)
		p.remaining--
		return true
	}
	return false
}

// IsExhausted reports whether no pair is available any more.
func (p *Pool) IsExhausted() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.remaining == 0
}

// Excludes reports whether a posting title matches the exclusion list of any
// resume in the pool. Pairs of one query normally share a list; when they do
// not, the union applies, so a title excluded by any resume never reaches
// selection.
func (p *Pool) Excludes(title string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	for _, pair := range p.pairs {
		if core.ContainsAnyFold(title, pair.Resume.Exclusions) {
			return true
		}
	}
	return false
}
