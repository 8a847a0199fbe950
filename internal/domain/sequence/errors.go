package sequence

import "errors"

var (
	// ErrInvalidRounds is returned when a sequence length cannot be produced.
	ErrInvalidRounds = errors.New("invalid number of rounds")
	// ErrUnknownMode is returned for a mode name that is not recognized.
	ErrUnknownMode = errors.New("unknown sequence mode")
)
