package service

import "errors"

var (
	// ErrServiceStopped is returned when a request arrives while the service is not running.
	ErrServiceStopped = errors.New("service is not running")
	// ErrUnknownChallenge is returned for a challenge without a loaded player table.
	ErrUnknownChallenge = errors.New("unknown challenge")
)
