package sequence

import (
	"math/rand"
	"time"
)

// Option applies a configuration option to the Generator.
type Option func(*Generator)

// WithSeed makes the generator deterministic.
func WithSeed(seed int64) Option {
	return func(g *Generator) {
		g.rng = rand.New(rand.NewSource(seed)) //nolint:gosec // game sequences, not secrets
	}
}

// WithTeams replaces the team pool. Empty pools are ignored.
func WithTeams(teams []string) Option {
	return func(g *Generator) {
		if len(teams) > 0 {
			g.teams = append([]string(nil), teams...)
		}
	}
}

func timeSeed() int64 { return time.Now().UnixNano() }
