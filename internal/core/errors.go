package core

import "errors"

var ErrUnknownAccount = errors.New("unknown account")
