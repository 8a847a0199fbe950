// Package calculator computes the best achievable score for a team sequence:
// each slot takes one eligible player, no player is used twice, and the sum
// of stats is maximized within a wall-clock budget.
//
// A greedy pass produces a baseline; a branch-and-bound search seeded with it
// tries to beat it. When the search cannot, the greedy answer is returned and
// classified as matched or timed out.
package calculator

import (
	"context"
	"encoding/json"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/sethseligman/statstack-v1-archive/internal/domain/player"
	"github.com/sethseligman/statstack-v1-archive/pkg/logger"
)

// ResultType classifies how a result was produced.
type ResultType string

const (
	ResultOptimized     ResultType = "optimized"
	ResultGreedyTimeout ResultType = "greedy-timeout"
	ResultGreedyMatched ResultType = "greedy-matched"
)

// Pick assigns a player to one slot. The JSON field names are kept from the
// quarterback game for every challenge.
type Pick struct {
	Team string          `json:"team"`
	QB   string          `json:"qb"`
	Wins decimal.Decimal `json:"wins"`
}

// MarshalJSON writes the stat as a bare JSON number.
func (p Pick) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Team string      `json:"team"`
		QB   string      `json:"qb"`
		Wins json.Number `json:"wins"`
	}{p.Team, p.QB, json.Number(p.Wins.String())})
}

// Stats describes the work behind a result. Not part of the wire format.
type Stats struct {
	GreedyScore decimal.Decimal
	Nodes       int64
	MemoHits    int64
	Pruned      int64
	Deferrals   int64
	Elapsed     time.Duration
	TimedOut    bool
	PrimedUsed  []string
	// Err is set when the result is the zero-score fallback.
	Err error
}

// Result is the outcome of one calculation.
type Result struct {
	MaxScore     decimal.Decimal `json:"maxScore"`
	OptimalPicks []Pick          `json:"optimalPicks"`
	UsedTimeout  bool            `json:"usedTimeout"`
	UsedGreedy   bool            `json:"usedGreedy"`
	ResultType   ResultType      `json:"resultType"`
	Stats        Stats           `json:"-"`
}

// MarshalJSON writes maxScore as a bare JSON number.
func (r Result) MarshalJSON() ([]byte, error) {
	type plain Result
	return json.Marshal(struct {
		MaxScore json.Number `json:"maxScore"`
		plain
	}{json.Number(r.MaxScore.String()), plain(r)})
}

// Fallback is the answer returned when a calculation cannot run.
func Fallback(err error) Result {
	return Result{
		MaxScore:     decimal.Zero,
		OptimalPicks: []Pick{},
		UsedTimeout:  true,
		UsedGreedy:   true,
		ResultType:   ResultGreedyTimeout,
		Stats:        Stats{Err: err},
	}
}

// Calculator computes optimal scores against one player table.
type Calculator struct {
	table *player.Table
	index *Index

	deadline  time.Duration
	threshold time.Duration
	memoize   bool
	shortlist int
	priming   Priming

	log   logger.Logger
	clock Clock
}

// New builds the player index for table and returns a Calculator that is
// safe for concurrent use.
func New(table *player.Table, opts ...Option) (*Calculator, error) {
	c := &Calculator{
		deadline:  defaultDeadline,
		threshold: defaultTimeoutThreshold,
		memoize:   true,
		shortlist: defaultShortlistSize,
		priming:   DefaultPriming(),
		log:       logger.Nop(),
		clock:     systemClock{},
	}
	for _, opt := range opts {
		opt(c)
	}
	ix, err := NewIndex(table, c.shortlist, c.priming)
	if err != nil {
		return nil, err
	}
	c.table = table
	c.index = ix
	return c, nil
}

// Challenge returns the id of the table this calculator serves.
func (c *Calculator) Challenge() string { return c.table.Challenge }

// Index exposes the read-only player index.
func (c *Calculator) Index() *Index { return c.index }

// Deadline returns the optimizer budget.
func (c *Calculator) Deadline() time.Duration { return c.deadline }

// CalculateAny accepts a decoded, untyped sequence (for example the result of
// json.Unmarshal into any) and calculates it. Anything that is not a list of
// non-blank strings yields the fallback result.
func (c *Calculator) CalculateAny(ctx context.Context, input any) Result {
	seq, err := ToSequence(input)
	if err != nil {
		c.log.Warn(ctx, "rejecting malformed sequence", logger.Error(err))
		return Fallback(err)
	}
	return c.Calculate(ctx, seq)
}

// Calculate returns the best allocation for teams. It never panics.
func (c *Calculator) Calculate(ctx context.Context, teams []string) (res Result) {
	defer func() {
		if r := recover(); r != nil {
			err := fmt.Errorf("%w: %v", ErrInternal, r)
			c.log.Error(ctx, "calculation failed", logger.Error(err))
			res = Fallback(err)
		}
	}()

	seq, err := normalize(teams)
	if err != nil {
		c.log.Warn(ctx, "rejecting malformed sequence", logger.Error(err))
		return Fallback(err)
	}
	return c.calculate(ctx, seq)
}

func (c *Calculator) calculate(ctx context.Context, seq []string) Result {
	p := c.index.newProblem(seq)
	greedy := p.greedy()
	c.log.Debug(ctx, "greedy baseline",
		logger.Int("slots", len(seq)),
		logger.String("score", fromPoints(greedy.score).String()),
	)

	start := c.clock.Now()
	e := newEngine(p, c.clock, start.Add(c.deadline), greedy.score, c.memoize)
	e.run()
	elapsed := c.clock.Now().Sub(start)

	res := Result{
		Stats: Stats{
			GreedyScore: fromPoints(greedy.score),
			Nodes:       e.stats.nodes,
			MemoHits:    e.stats.memoHits,
			Pruned:      e.stats.pruned,
			Deferrals:   e.stats.deferrals,
			Elapsed:     elapsed,
			TimedOut:    e.stats.timedOut,
		},
	}

	var refs []pickRef
	switch {
	case e.improved && e.bestScore > greedy.score:
		refs = e.bestPicks.refs()
		res.MaxScore = fromPoints(e.bestScore)
		res.ResultType = ResultOptimized
	case elapsed >= c.deadline-c.threshold:
		refs = greedy.picks
		res.MaxScore = fromPoints(greedy.score)
		res.UsedGreedy = true
		res.UsedTimeout = true
		res.ResultType = ResultGreedyTimeout
	default:
		refs = greedy.picks
		res.MaxScore = fromPoints(greedy.score)
		res.UsedGreedy = true
		res.ResultType = ResultGreedyMatched
	}
	res.OptimalPicks = p.toPicks(refs)
	for _, r := range refs {
		if pl := &c.index.players[r.player]; pl.primed {
			res.Stats.PrimedUsed = append(res.Stats.PrimedUsed, pl.name)
		}
	}

	if res.Stats.TimedOut {
		c.log.Warn(ctx, "search deadline reached",
			logger.Duration("deadline", c.deadline),
			logger.Int64("nodes", e.stats.nodes),
		)
	}
	c.log.Info(ctx, "calculation finished",
		logger.String("challenge", c.table.Challenge),
		logger.String("resultType", string(res.ResultType)),
		logger.String("greedyScore", res.Stats.GreedyScore.String()),
		logger.String("maxScore", res.MaxScore.String()),
		logger.Int64("nodes", e.stats.nodes),
		logger.Int64("memoHits", e.stats.memoHits),
		logger.Strings("primedUsed", res.Stats.PrimedUsed),
		logger.Duration("elapsed", elapsed),
	)
	return res
}

// ToSequence converts an untyped list of team identifiers into strings.
func ToSequence(input any) ([]string, error) {
	switch v := input.(type) {
	case nil:
		return nil, fmt.Errorf("%w: missing", ErrInvalidSequence)
	case []string:
		return normalize(v)
	}

	rv := reflect.ValueOf(input)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil, fmt.Errorf("%w: expected a list, got %T", ErrInvalidSequence, input)
	}
	out := make([]string, rv.Len())
	for i := range out {
		el := rv.Index(i)
		if el.Kind() == reflect.Interface {
			el = el.Elem()
		}
		if !el.IsValid() || el.Kind() != reflect.String {
			return nil, fmt.Errorf("%w: element %d is not a string", ErrInvalidSequence, i)
		}
		out[i] = el.String()
	}
	return normalize(out)
}

func normalize(teams []string) ([]string, error) {
	out := make([]string, len(teams))
	for i, t := range teams {
		out[i] = strings.TrimSpace(t)
		if out[i] == "" {
			return nil, fmt.Errorf("%w: element %d is blank", ErrInvalidSequence, i)
		}
	}
	return out, nil
}
