package calculator

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/sethseligman/statstack-v1-archive/internal/domain/player"
)

// p builds a test player; stat is parsed from text so half values stay exact.
func p(name, stat string, teams ...string) player.Player {
	return player.Player{Name: name, Stat: decimal.RequireFromString(stat), Teams: teams}
}

func mustTable(t *testing.T, players ...player.Player) *player.Table {
	t.Helper()
	table, err := player.NewTable("test", "wins", players)
	if err != nil {
		t.Fatalf("building table: %v", err)
	}
	return table
}

func mustCalculator(t *testing.T, table *player.Table, opts ...Option) *Calculator {
	t.Helper()
	c, err := New(table, opts...)
	if err != nil {
		t.Fatalf("building calculator: %v", err)
	}
	return c
}

// stepClock advances by step on every read.
type stepClock struct {
	now  time.Time
	step time.Duration
}

func (c *stepClock) Now() time.Time {
	c.now = c.now.Add(c.step)
	return c.now
}

type panicClock struct{}

func (panicClock) Now() time.Time { panic("clock exploded") }

func pickNames(res Result) []string {
	out := make([]string, len(res.OptimalPicks))
	for i, pk := range res.OptimalPicks {
		out[i] = pk.QB
	}
	return out
}
