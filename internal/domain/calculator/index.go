package calculator

import (
	"fmt"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/sethseligman/statstack-v1-archive/internal/domain/player"
	"github.com/sethseligman/statstack-v1-archive/internal/domain/team"
)

// entry is a player as the search sees it. Ids are positions in Index.players,
// ordered by stat descending then name ascending, so a lower id always means
// a better (or tied, alphabetically earlier) player.
type entry struct {
	name   string
	stat   decimal.Decimal
	points int64    // stat in hundredths
	teams  []string // canonical, deduplicated, in listing order
	primed bool
}

func (e *entry) playsFor(canonical string) bool {
	for _, t := range e.teams {
		if t == canonical {
			return true
		}
	}
	return false
}

// Index is the read-only lookup structure built once per player table.
// It is safe for concurrent use.
type Index struct {
	players   []entry
	eligible  map[string][]int // canonical team -> ids, best first
	shortlist map[string][]int // first K of eligible
}

// toPoints converts a stat to exact hundredths.
func toPoints(d decimal.Decimal) int64 {
	return d.Shift(2).Round(0).IntPart()
}

// fromPoints converts hundredths back to a decimal.
func fromPoints(p int64) decimal.Decimal {
	return decimal.New(p, -2)
}

// NewIndex builds the index for a table with a top-k shortlist per team.
func NewIndex(table *player.Table, k int, priming Priming) (*Index, error) {
	if table == nil {
		return nil, ErrNilTable
	}
	if k <= 0 {
		return nil, fmt.Errorf("shortlist size must be positive, got %d", k)
	}

	names := priming.nameSet()
	players := make([]entry, 0, table.Len())
	for _, p := range table.Players {
		seen := make(map[string]struct{}, len(p.Teams))
		teams := make([]string, 0, len(p.Teams))
		for _, raw := range p.Teams {
			c := team.Canonicalize(raw)
			if c == "" {
				continue
			}
			if _, dup := seen[c]; dup {
				continue
			}
			seen[c] = struct{}{}
			teams = append(teams, c)
		}
		players = append(players, entry{
			name:   p.Name,
			stat:   p.Stat,
			points: toPoints(p.Stat),
			teams:  teams,
			primed: priming.primed(p.Name, p.Stat, len(teams), names),
		})
	}
	sort.SliceStable(players, func(i, j int) bool {
		if c := players[i].stat.Cmp(players[j].stat); c != 0 {
			return c > 0
		}
		return players[i].name < players[j].name
	})

	ix := &Index{
		players:   players,
		eligible:  make(map[string][]int),
		shortlist: make(map[string][]int),
	}
	for id := range players {
		for _, t := range players[id].teams {
			ix.eligible[t] = append(ix.eligible[t], id)
		}
	}
	for t, ids := range ix.eligible {
		n := k
		if n > len(ids) {
			n = len(ids)
		}
		ix.shortlist[t] = ids[:n:n]
	}
	return ix, nil
}

func (ix *Index) namesOf(ids []int) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = ix.players[id].name
	}
	return out
}

// Eligible returns every player of a team, best first.
func (ix *Index) Eligible(teamID string) []string {
	return ix.namesOf(ix.eligible[team.Canonicalize(teamID)])
}

// Shortlist returns the top-k players of a team, best first.
func (ix *Index) Shortlist(teamID string) []string {
	return ix.namesOf(ix.shortlist[team.Canonicalize(teamID)])
}

// IsPrimed reports whether the named player is primed.
func (ix *Index) IsPrimed(name string) bool {
	for i := range ix.players {
		if ix.players[i].name == name {
			return ix.players[i].primed
		}
	}
	return false
}

// Size returns the number of indexed players.
func (ix *Index) Size() int { return len(ix.players) }
