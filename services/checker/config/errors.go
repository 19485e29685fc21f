package config

import "errors"

var (
	errNilConfig       = errors.New("nil config")
	errInvalidEnvValue = errors.New("invalid value for environment key")
)
