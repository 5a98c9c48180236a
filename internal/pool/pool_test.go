package pool

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sevigo/apply-warden/internal/core"
	"github.com/sevigo/apply-warden/internal/credential"
)

func newTestRegistry(t *testing.T, resumesPerQuery map[string]int, order ...string) *Registry {
	t.Helper()
	var accounts []Account
	for i, query := range order {
		for j := range resumesPerQuery[query] {
			accounts = append(accounts, Account{
				Credential: credential.New(query+string(rune('a'+i))+string(rune('a'+j)), nil),
				Resumes:    []core.Resume{{Query: query}},
			})
		}
	}
	return NewRegistry(accounts)
}

func ids(pairs []*Pair) []int {
	out := make([]int, 0, len(pairs))
	for _, p := range pairs {
		out = append(out, p.ID)
	}
	return out
}

func TestRegistry_AssignsStableIDsAndGroupsByQuery(t *testing.T) {
	shared := credential.New("shared@example.com", nil)
	other := credential.New("other@example.com", nil)
	r := NewRegistry([]Account{
		{Credential: shared, Resumes: []core.Resume{{Query: "Python"}, {Query: "Go"}}},
		{Credential: other, Resumes: []core.Resume{{Query: "Python"}}},
	})

	assert.Equal(t, []string{"Python", "Go"}, r.Queries())
	assert.Equal(t, []int{1, 2, 3}, ids(r.Pairs()))
	assert.Equal(t, []int{1, 3}, ids(r.Available("Python")))
	assert.Equal(t, []int{2}, ids(r.Available("Go")))

	// the same credential backs pairs in two pools
	assert.Same(t, r.Pool("Python").Pairs()[0].Credential, r.Pool("Go").Pairs()[0].Credential)

	assert.Nil(t, r.Pool("Rust"))
	assert.Nil(t, r.Available("Rust"))
	assert.True(t, r.IsExhausted("Rust"))
}

func TestPool_MarkExhaustedIsIdempotent(t *testing.T) {
	r := newTestRegistry(t, map[string]int{"Python": 2}, "Python")
	p := r.Pool("Python")

	assert.True(t, p.MarkExhausted(1))
	assert.False(t, p.MarkExhausted(1))
	assert.False(t, p.MarkExhausted(99))
	assert.Equal(t, []int{2}, ids(p.Available()))
	assert.False(t, p.IsExhausted())

	assert.True(t, p.MarkExhausted(2))
	assert.True(t, p.IsExhausted())
	assert.True(t, r.IsExhausted("Python"))
	assert.Empty(t, p.Available())
	assert.Len(t, p.Pairs(), 2)
}

func TestPool_ConcurrentMarkExhaustedReportsOnce(t *testing.T) {
	r := newTestRegistry(t, map[string]int{"Python": 3}, "Python")
	p := r.Pool("Python")

	var wg sync.WaitGroup
	var mu sync.Mutex
	transitions := 0
	for range 64 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if p.MarkExhausted(2) {
				mu.Lock()
				transitions++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, transitions)
	assert.Equal(t, []int{1, 3}, ids(p.Available()))
}

func TestPool_Excludes(t *testing.T) {
	r := NewRegistry([]Account{
		{Credential: credential.New("a", nil), Resumes: []core.Resume{{Query: "Python", Exclusions: []string{"QA", "Data Scientist"}}}},
		{Credential: credential.New("b", nil), Resumes: []core.Resume{{Query: "Python", Exclusions: []string{"devops"}}}},
	})
	p := r.Pool("Python")

	tests := []struct {
		title string
		want  bool
	}{
		{"Senior Python Developer", false},
		{"Python QA Automation", true},
		{"junior data scientist (python)", true},
		{"DevOps / Python", true},
		{"", false},
	}
	for _, tt := range tests {
		t.Run(tt.title, func(t *testing.T) {
			assert.Equal(t, tt.want, p.Excludes(tt.title))
		})
	}
}

func TestSelector_RoundRobin(t *testing.T) {
	r := newTestRegistry(t, map[string]int{"Python": 3}, "Python")
	sel := r.Pool("Python").Selector()

	var got []int
	for range 6 {
		got = append(got, sel.Next().ID)
	}
	assert.Equal(t, []int{1, 2, 3, 1, 2, 3}, got)
	assert.Equal(t, uint64(6), sel.Ticket())
}

func TestSelector_EachPairOnceFromAnyOffset(t *testing.T) {
	r := newTestRegistry(t, map[string]int{"Python": 4}, "Python")
	sel := r.Pool("Python").Selector()
	sel.Next() // move the ticket off zero

	seen := map[int]int{}
	for range 4 {
		seen[sel.Next().ID]++
	}
	assert.Equal(t, map[int]int{1: 1, 2: 1, 3: 1, 4: 1}, seen)
}

func TestSelector_SkipsExhaustedAndReturnsNilWhenDrained(t *testing.T) {
	r := newTestRegistry(t, map[string]int{"Python": 2}, "Python")
	p := r.Pool("Python")
	sel := p.Selector()

	require.Equal(t, 1, sel.Next().ID)
	p.MarkExhausted(1)
	for range 3 {
		assert.Equal(t, 2, sel.Next().ID)
	}
	p.MarkExhausted(2)
	assert.Nil(t, sel.Next())
	assert.True(t, p.IsExhausted())
}

func TestSelector_NeverReturnsPairExhaustedBeforeTheCall(t *testing.T) {
	r := newTestRegistry(t, map[string]int{"Python": 4}, "Python")
	p := r.Pool("Python")
	sel := p.Selector()

	var wg sync.WaitGroup
	for worker := range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range 500 {
				pair := sel.Next()
				if pair == nil {
					return
				}
				// Anything exhausted before Next was called must not come back.
				// The flag is monotone, so a pair we get must not have been
				// exhausted by this goroutine earlier.
				if (worker+i)%97 == 0 {
					p.MarkExhausted(pair.ID)
					again := sel.Next()
					if again != nil {
						assert.NotEqual(t, pair.ID, again.ID)
					}
				}
			}
		}()
	}
	wg.Wait()

	for _, pair := range p.Available() {
		assert.False(t, pair.Exhausted())
	}
}

func TestSelector_IndependentPerQuery(t *testing.T) {
	r := newTestRegistry(t, map[string]int{"Python": 2, "Go": 2}, "Python", "Go")

	assert.Equal(t, 1, r.Pool("Python").Selector().Next().ID)
	assert.Equal(t, 3, r.Pool("Go").Selector().Next().ID)
	assert.Equal(t, 2, r.Pool("Python").Selector().Next().ID)
	assert.Equal(t, 4, r.Pool("Go").Selector().Next().ID)
}
