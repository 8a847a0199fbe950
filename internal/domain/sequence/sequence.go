// Package sequence draws the ordered team lists a game is played on.
package sequence

import (
	"fmt"
	"math"
	"math/rand"
	"sync"

	"github.com/sethseligman/statstack-v1-archive/internal/domain/team"
)

const (
	maxSoftRepeats = 2
	recentWindow   = 4
	decayStart     = 6.0
	decayEnd       = 2.0
	decayRounds    = 19
	maxWeighted    = 64
)

// Generator produces team sequences. Safe for concurrent use.
type Generator struct {
	mu    sync.Mutex
	rng   *rand.Rand
	teams []string
}

// New creates a generator over the current franchises.
func New(opts ...Option) *Generator {
	g := &Generator{
		rng:   rand.New(rand.NewSource(timeSeed())), //nolint:gosec // game sequences, not secrets
		teams: team.All(),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Teams returns a copy of the team pool.
func (g *Generator) Teams() []string {
	return append([]string(nil), g.teams...)
}

// SoftRepeats shuffles the pool, keeps the first rounds teams, then copies
// one or two earlier picks over the last ones so a game sees a repeat or two,
// and shuffles again so the repeats are not always at the end.
func (g *Generator) SoftRepeats(rounds int) ([]string, error) {
	if rounds <= 0 || rounds > len(g.teams) {
		return nil, fmt.Errorf("%w: %d (pool has %d teams)", ErrInvalidRounds, rounds, len(g.teams))
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	picks := append([]string(nil), g.teams...)
	g.rng.Shuffle(len(picks), func(i, j int) { picks[i], picks[j] = picks[j], picks[i] })
	picks = picks[:rounds]

	limit := rounds - 2
	if limit > maxSoftRepeats {
		limit = maxSoftRepeats
	}
	if limit > 0 {
		repeats := 1 + g.rng.Intn(limit)
		span := rounds - repeats - 1
		for i := 0; i < repeats; i++ {
			picks[rounds-1-i] = picks[g.rng.Intn(span)]
		}
	}

	g.rng.Shuffle(len(picks), func(i, j int) { picks[i], picks[j] = picks[j], picks[i] })
	return picks, nil
}

// decayBase interpolates the recency decay from 6.0 in the first round to
// 2.0 in the last.
func decayBase(round int) float64 {
	switch {
	case round <= 0:
		return decayStart
	case round >= decayRounds:
		return decayEnd
	}
	return decayStart + (decayEnd-decayStart)*float64(round)/decayRounds
}

// Weighted draws rounds teams one at a time. Teams shown in the last four
// rounds are damped by recency and every earlier appearance halves a team's
// weight, so repeats stay possible but rare.
func (g *Generator) Weighted(rounds int) ([]string, error) {
	if rounds <= 0 || rounds > maxWeighted {
		return nil, fmt.Errorf("%w: %d (allowed 1..%d)", ErrInvalidRounds, rounds, maxWeighted)
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	picks := make([]string, 0, rounds)
	counts := make(map[string]int, len(g.teams))
	weights := make([]float64, len(g.teams))
	for round := 0; round < rounds; round++ {
		base := decayBase(round)
		total := 0.0
		for i, t := range g.teams {
			w := 1.0
			if idx := recencyIndex(picks, t); idx >= 0 {
				w = 1 / math.Pow(base, float64(idx+1))
			}
			w /= math.Pow(2, float64(counts[t]))
			weights[i] = w
			total += w
		}

		r := g.rng.Float64() * total
		chosen := len(g.teams) - 1
		for i, w := range weights {
			r -= w
			if r <= 0 {
				chosen = i
				break
			}
		}
		t := g.teams[chosen]
		picks = append(picks, t)
		counts[t]++
	}
	return picks, nil
}

// recencyIndex is 0 when t was the last pick, 1 for the one before, and so
// on within the recent window; -1 otherwise.
func recencyIndex(picks []string, t string) int {
	for i := 0; i < recentWindow && i < len(picks); i++ {
		if picks[len(picks)-1-i] == t {
			return i
		}
	}
	return -1
}
