package calculator

import "errors"

// Sentinel errors. The facade never returns them to callers of Calculate;
// they travel in Stats.Err and in logs.
var (
	ErrInvalidSequence = errors.New("invalid team sequence")
	ErrNilTable        = errors.New("player table is nil")
	ErrInternal        = errors.New("internal calculator failure")
)
