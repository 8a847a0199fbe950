// Package resultcache stores finished calculation results across calls.
//
// A calculation depends only on the challenge and the canonical team
// sequence, so a result computed once can be served again. Only complete
// answers are stored: anything produced under a timeout (including the
// zero-score fallback) is recomputed next time.
package resultcache

import (
	"context"
	"strings"

	"github.com/sethseligman/statstack-v1-archive/internal/domain/calculator"
	"github.com/sethseligman/statstack-v1-archive/internal/domain/team"
	"github.com/sethseligman/statstack-v1-archive/pkg/logger"
	"github.com/sethseligman/statstack-v1-archive/pkg/metrics"
)

// Store is the storage backend of a Cache.
type Store interface {
	// Get returns the result stored under key and whether it was found.
	Get(ctx context.Context, key string) (calculator.Result, bool, error)

	// Set stores res under key.
	Set(ctx context.Context, key string, res calculator.Result) error
}

// Key builds the cache key for a challenge and a team sequence.
func Key(challenge string, teams []string) string {
	canonical := make([]string, len(teams))
	for i, t := range teams {
		canonical[i] = team.Canonicalize(t)
	}
	return "optimal:" + challenge + ":" + strings.Join(canonical, "|")
}

// Cache fronts a Store. Store failures are logged and counted but never
// returned: a broken cache degrades to recomputation.
type Cache struct {
	store Store
	log   logger.Logger
}

// New creates a Cache over store.
func New(store Store, opts ...CacheOption) *Cache {
	c := &Cache{store: store, log: logger.Nop()}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Lookup returns a cached result for the sequence.
func (c *Cache) Lookup(ctx context.Context, challenge string, teams []string) (calculator.Result, bool) {
	res, ok, err := c.store.Get(ctx, Key(challenge, teams))
	if err != nil {
		metrics.RecordResultCacheError("get")
		metrics.RecordErrorByComponent("resultcache", "get")
		c.log.Warn(ctx, "result cache read failed", logger.String("challenge", challenge), logger.Error(err))
		return calculator.Result{}, false
	}
	if !ok {
		metrics.RecordResultCacheMiss()
		return calculator.Result{}, false
	}
	metrics.RecordResultCacheHit()
	return relabel(res, teams), true
}

// relabel names each pick after a slot of teams. A cached result carries the
// spelling of the request that produced it; slots are matched in order by
// canonical team so every pick lands on a distinct slot of this request.
func relabel(res calculator.Result, teams []string) calculator.Result { //nolint:gocritic // hugeParam: returned by value
	canonical := make([]string, len(teams))
	for i, t := range teams {
		canonical[i] = team.Canonicalize(t)
	}
	taken := make([]bool, len(teams))

	picks := make([]calculator.Pick, len(res.OptimalPicks))
	for i, p := range res.OptimalPicks {
		c := team.Canonicalize(p.Team)
		for j := range teams {
			if !taken[j] && canonical[j] == c {
				taken[j] = true
				p.Team = teams[j]
				break
			}
		}
		picks[i] = p
	}
	res.OptimalPicks = picks
	return res
}

// Remember stores res unless it was produced under a timeout, including a
// search that improved on greedy but ran out of time. It reports whether the
// result was stored.
func (c *Cache) Remember(ctx context.Context, challenge string, teams []string, res calculator.Result) bool { //nolint:gocritic // hugeParam: Result is stored by value
	if res.UsedTimeout || res.Stats.TimedOut || res.Stats.Err != nil {
		return false
	}
	if err := c.store.Set(ctx, Key(challenge, teams), res); err != nil {
		metrics.RecordResultCacheError("set")
		metrics.RecordErrorByComponent("resultcache", "set")
		c.log.Warn(ctx, "result cache write failed", logger.String("challenge", challenge), logger.Error(err))
		return false
	}
	return true
}
