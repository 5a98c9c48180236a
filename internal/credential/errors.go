package credential

import "errors"

var (
	ErrRefreshFailed  = errors.New("credential refresh failed")
	ErrRefreshTimeout = errors.New("timed out waiting for credential refresh")
	ErrRefreshPending = errors.New("credential refresh in progress")
	ErrEmptyMaterial  = errors.New("empty credential material")
)
