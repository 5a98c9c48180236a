package storage

import "errors"

var (
	ErrCredentialNotFound = errors.New("credential not found")
	ErrInvalidAccountID   = errors.New("invalid account id")
)
