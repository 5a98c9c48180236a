package core

import "fmt"

// ResultKind classifies the outcome of a single apply attempt.
type ResultKind int

const (
	ResultSuccess ResultKind = iota
	// ResultRateLimited means the pair used for the attempt reached its
	// usage limit; the pair is retired for the rest of the run.
	ResultRateLimited
	// ResultAuthRequired means the credential's material expired.
	ResultAuthRequired
	// ResultRejected means the remote service refused this posting.
	ResultRejected
	// ResultUnknown covers malformed or unrecognized responses.
	ResultUnknown
)

func (k ResultKind) String() string {
	switch k {
	case ResultSuccess:
		return "success"
	case ResultRateLimited:
		return "rate_limited"
	case ResultAuthRequired:
		return "auth_required"
	case ResultRejected:
		return "rejected"
	case ResultUnknown:
		return "unknown"
	default:
		return fmt.Sprintf("ResultKind(%d)", int(k))
	}
}

// ApplyResult is the typed outcome of ApplyAction.Apply.
type ApplyResult struct {
	Kind   ResultKind
	Reason string
}

func Success() ApplyResult { return ApplyResult{Kind: ResultSuccess} }
func RateLimited() ApplyResult { return ApplyResult{Kind: ResultRateLimited} }
func AuthRequired() ApplyResult { return ApplyResult{Kind: ResultAuthRequired} }
func Rejected(reason string) ApplyResult { return ApplyResult{Kind: ResultRejected, Reason: reason} }
func Unknown(detail string) ApplyResult { return ApplyResult{Kind: ResultUnknown, Reason: detail} }

func (r ApplyResult) String() string {
	if r.Reason == "" {
		return r.Kind.String()
	}
	return r.Kind.String() + ": " + r.Reason
}
