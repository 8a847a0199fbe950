package player

import "errors"

// Sentinel errors for dataset loading and challenge lookup.
var (
	ErrDataset          = errors.New("invalid player dataset")
	ErrUnknownChallenge = errors.New("unknown challenge")
)
