package configuration

import "errors"

var (
	ErrConfiguration       = errors.New("configuration")
	ErrCantReadConfigFile  = errors.New("can't read config file")
	ErrCantParseConfigFile = errors.New("can't parse config file")
	ErrCantParseFlags      = errors.New("can't parse command line")
	ErrInvalidConfig       = errors.New("invalid configuration")
	ErrVersionRequested    = errors.New("version requested")
)
