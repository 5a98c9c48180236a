package jobs

import "errors"

var (
	ErrAuthRetriesExhausted = errors.New("authentication still required after maximum refresh attempts")
	ErrPairExhausted        = errors.New("pair exhausted while waiting for credential refresh")
)
