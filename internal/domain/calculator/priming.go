package calculator

import (
	"github.com/shopspring/decimal"
)

// Priming decides which players are "high-value and multi-team". Primed
// players may be held back from an early slot so a later one can use them.
type Priming struct {
	// MinTeams and TeamStat: a player on at least MinTeams distinct
	// franchises with a stat of at least TeamStat is primed.
	MinTeams int
	TeamStat decimal.Decimal
	// Stat primes any player at or above it.
	Stat decimal.Decimal
	// Names primes players unconditionally.
	Names []string
}

// DefaultPriming returns the thresholds tuned for the career wins table.
func DefaultPriming() Priming {
	return Priming{
		MinTeams: 3,
		TeamStat: decimal.NewFromInt(100),
		Stat:     decimal.NewFromInt(150),
		Names: []string{
			"Tom Brady", "Drew Brees", "Aaron Rodgers", "Brett Favre", "Joe Montana",
			"Peyton Manning", "John Elway", "Dan Marino", "Steve Young", "Fran Tarkenton",
			"Johnny Unitas", "Terry Bradshaw", "Warren Moon", "Jim Kelly", "Otto Graham",
		},
	}
}

func (p Priming) nameSet() map[string]struct{} {
	set := make(map[string]struct{}, len(p.Names))
	for _, n := range p.Names {
		set[n] = struct{}{}
	}
	return set
}

// primed applies the rules to one player; distinctTeams counts canonical
// franchises, so a renamed team listed twice counts once.
func (p Priming) primed(name string, stat decimal.Decimal, distinctTeams int, names map[string]struct{}) bool {
	if p.MinTeams > 0 && distinctTeams >= p.MinTeams && stat.GreaterThanOrEqual(p.TeamStat) {
		return true
	}
	if p.Stat.IsPositive() && stat.GreaterThanOrEqual(p.Stat) {
		return true
	}
	_, ok := names[name]
	return ok
}
