package config

import "errors"

var (
	ErrEndpointInvalid       = errors.New("task store endpoint is invalid")
	ErrRequestTimeoutInvalid = errors.New("request timeout is invalid")
	ErrConfigFileInvalid     = errors.New("config file is invalid")
	ErrBackendInvalid        = errors.New("storage backend is invalid")
	ErrAddrMissing           = errors.New("listen address is required")
	ErrMySQLConfigInvalid    = errors.New("mysql config is invalid")
	ErrSQLitePathMissing     = errors.New("sqlite path is required")
)
