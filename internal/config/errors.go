package config

import "errors"

var (
	ErrConfigNotFound = errors.New("config file not found")
	ErrConfigParsing  = errors.New("config parsing failed")
	ErrInvalidConfig  = errors.New("invalid configuration")
	ErrNoAccounts     = errors.New("no accounts configured")
)
