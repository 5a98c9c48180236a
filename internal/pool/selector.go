package pool

// Selector is a round-robin cursor over a Pool's available pairs. It keeps a
// monotonically increasing ticket instead of an index into the shrinking
// available list, and it picks under the pool lock, so a pair marked
// exhausted before Next is called is never returned by it.
type Selector struct {
	pool   *Pool
	ticket uint64 // guarded by pool.mu
}

// Next returns available[ticket mod len(available)] and advances the ticket,
// or nil when the pool is exhausted.
func (s *Selector) Next() *Pair {
	s.pool.mu.Lock()
	defer s.pool.mu.Unlock()

	available := s.pool.availableLocked()
	if len(available) == 0 {
		return nil
	}
	pair := available[s.ticket%uint64(len(available))]
	s.ticket++
	return pair
}

// Ticket returns the number of selections made so far.
func (s *Selector) Ticket() uint64 {
	s.pool.mu.Lock()
	defer s.pool.mu.Unlock()
	return s.ticket
}
