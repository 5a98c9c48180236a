package hh

import "errors"

var (
	ErrVersionNotFound  = errors.New("website version not found on landing page")
	ErrNoSearchState    = errors.New("search state not found in page")
	ErrUnexpectedStatus = errors.New("unexpected HTTP status")
)
