// Package credential holds account credentials and coordinates their
// recovery when the remote service reports expired authentication.
package credential

import (
	"sync"

	"github.com/sevigo/apply-warden/internal/core"
)

// State is the refresh state of a Credential.
type State int

const (
	StateValid State = iota
	StateRefreshing
)

func (s State) String() string {
	if s == StateRefreshing {
		return "refreshing"
	}
	return "valid"
}

// Credential is an account identity plus its mutable authentication
// material. It is shared by every pair that references the account, so all
// access goes through its mutex. Material is only replaced by a Refresher.
type Credential struct {
	id string

	mu         sync.Mutex
	material   core.Material
	state      State
	generation uint64
	episode    *episode // non-nil while StateRefreshing
}

// New creates a Valid credential with the given material.
func New(id string, material core.Material) *Credential {
	return &Credential{
		id:       id,
		material: material.Clone(),
	}
}

// ID returns the account identity.
func (c *Credential) ID() string { return c.id }

// Snapshot returns a copy of the current material together with its
// generation. The generation changes every time a refresh succeeds, which lets
// a caller tell whether the material it failed with is still current.
func (c *Credential) Snapshot() (core.Material, uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.material.Clone(), c.generation
}

// State returns the current refresh state.
func (c *Credential) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Generation returns the number of successful refreshes so far.
func (c *Credential) Generation() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.generation
}

// episode is a one-shot broadcast: done is closed exactly once when the
// refresh finishes, and err is written before that.
type episode struct {
	done chan struct{}
	err  error
}
