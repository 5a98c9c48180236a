package core

import (
	"context"
	"time"
)

// PostingSource lists postings for a query page by page. Pages are numbered
// from 0 to PageCount-1. Transient I/O retries belong to the implementation.
//
//go:generate mockgen -destination=../../mocks/mock_core.go -package=mocks . PostingSource,ApplyAction,CredentialStore,Reauthenticator,ApplicationLog
type PostingSource interface {
	PageCount(ctx context.Context, query string, filters Filters) (int, error)
	Page(ctx context.Context, query string, page int, filters Filters) ([]Posting, error)
}

// ApplyAction submits one application. A non-nil error means the request
// could not be completed at all (transport failure); every response the
// remote service gives is reported through ApplyResult instead.
type ApplyAction interface {
	Apply(ctx context.Context, material Material, resume Resume, postingID string) (ApplyResult, error)
}

// CredentialStore persists authentication material per account.
type CredentialStore interface {
	// Load returns the stored material, or an error wrapping
	// storage.ErrCredentialNotFound when nothing was saved yet.
	Load(ctx context.Context, accountID string) (Material, error)
	Save(ctx context.Context, accountID string, material Material) error
}

// Reauthenticator obtains fresh material for an account. It may block for a
// long time, for example while a human pastes new cookies.
type Reauthenticator interface {
	Reauthenticate(ctx context.Context, accountID string, current Material) (Material, error)
}

// Attempt is one recorded apply attempt.
type Attempt struct {
	RunID     string
	Query     string
	PairID    int
	AccountID string
	PostingID string
	Title     string
	Result    ApplyResult
	At        time.Time
}

// ApplicationLog records attempts for later inspection. Recording is
// best-effort: callers log failures and carry on.
type ApplicationLog interface {
	Record(ctx context.Context, attempt Attempt) error
}
