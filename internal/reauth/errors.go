package reauth

import "errors"

var (
	ErrEmptyInput     = errors.New("no cookies entered")
	ErrInputClosed    = errors.New("input closed")
	ErrNotAwaiting    = errors.New("no reauthentication pending for account")
	ErrAlreadyWaiting = errors.New("reauthentication already pending for account")
	ErrDelivered      = errors.New("material already delivered for account")
)
