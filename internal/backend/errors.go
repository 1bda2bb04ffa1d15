package backend

import "errors"

var (
	ErrEnvironment    = errors.New("environment setup failed")
	ErrSpawn          = errors.New("backend spawn failed")
	ErrHealthCheck    = errors.New("backend failed readiness check")
	ErrAlreadyStarted = errors.New("backend already started")
)
