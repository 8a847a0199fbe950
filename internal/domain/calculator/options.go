package calculator

import (
	"time"

	"github.com/sethseligman/statstack-v1-archive/pkg/logger"
)

const (
	defaultDeadline         = 30 * time.Second
	defaultTimeoutThreshold = 10 * time.Millisecond
	defaultShortlistSize    = 3
)

// Clock abstracts wall-clock reads so deadline handling can be tested.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// Option configures a Calculator.
type Option func(*Calculator)

// WithDeadline sets the wall-clock budget of one optimizer run.
func WithDeadline(d time.Duration) Option {
	return func(c *Calculator) {
		if d > 0 {
			c.deadline = d
		}
	}
}

// WithTimeoutThreshold sets how close to the deadline a greedy answer must
// land to be reported as greedy-timeout.
func WithTimeoutThreshold(d time.Duration) Option {
	return func(c *Calculator) {
		if d >= 0 {
			c.threshold = d
		}
	}
}

// WithMemoization toggles the per-calculation memo cache.
func WithMemoization(enabled bool) Option {
	return func(c *Calculator) { c.memoize = enabled }
}

// WithShortlistSize sets K, the number of top players per team the
// optimizer branches on.
func WithShortlistSize(k int) Option {
	return func(c *Calculator) {
		if k > 0 {
			c.shortlist = k
		}
	}
}

// WithPriming replaces the priming rules.
func WithPriming(p Priming) Option {
	return func(c *Calculator) { c.priming = p }
}

// WithLogger sets the logger. Calculations are silent by default.
func WithLogger(l logger.Logger) Option {
	return func(c *Calculator) {
		if l != nil {
			c.log = l
		}
	}
}

// WithClock injects the time source used for deadlines.
func WithClock(clk Clock) Option {
	return func(c *Calculator) {
		if clk != nil {
			c.clock = clk
		}
	}
}
