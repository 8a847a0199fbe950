// Package model contains domain models passed between layers.
package model

import (
	"time"

	"github.com/google/uuid"

	"github.com/sethseligman/statstack-v1-archive/internal/domain/calculator"
)

// Job is one calculation request travelling from the API to a worker.
// Teams is kept untyped so malformed input reaches the calculator, which
// answers it with the fallback result.
type Job struct {
	ID         uuid.UUID
	Challenge  string
	Teams      any
	EnqueuedAt time.Time

	// Reply receives exactly one result. It is buffered so a worker never
	// blocks on a caller that stopped waiting.
	Reply chan calculator.Result
}

// NewJob creates a job with a fresh id and reply channel.
func NewJob(challenge string, teams any) Job {
	return Job{
		ID:         uuid.New(),
		Challenge:  challenge,
		Teams:      teams,
		EnqueuedAt: time.Now(),
		Reply:      make(chan calculator.Result, 1),
	}
}

// Respond delivers the result without blocking. It reports false when a
// result was already delivered.
func (j Job) Respond(res calculator.Result) bool { //nolint:gocritic // hugeParam: Job travels by value through the queue
	select {
	case j.Reply <- res:
		return true
	default:
		return false
	}
}
