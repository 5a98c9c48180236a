// Package pool groups account/resume pairs by search query and rotates them
// fairly while retiring pairs that hit their usage limit.
package pool

import (
	"sync/atomic"

	"github.com/sevigo/apply-warden/internal/core"
	"github.com/sevigo/apply-warden/internal/credential"
)

// Pair binds one Credential to one Resume. Its ID is unique and stable for
// the run. Exhaustion is one-way: once set, the flag is never cleared.
type Pair struct {
	ID         int
	Credential *credential.Credential
	Resume     core.Resume

	// written only under the owning Pool's lock
	exhausted atomic.Bool
}

// Exhausted reports whether the pair was retired. The Pool's Available
// snapshot is the authoritative view; this accessor is for logging and tests.
func (p *Pair) Exhausted() bool { return p.exhausted.Load() }

// Account is an input to NewRegistry: one credential and the resumes it may
// apply with.
type Account struct {
	Credential *credential.Credential
	Resumes    []core.Resume
}
