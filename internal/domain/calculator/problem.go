package calculator

import (
	"sort"

	"github.com/sethseligman/statstack-v1-archive/internal/domain/team"
)

// slot is one position of the team sequence with its candidate lists
// resolved against the index.
type slot struct {
	raw        string
	team       string
	eligible   []int // all players of the team, best first
	candidates []int // shortlist in branching order
}

// problem is the per-calculation view of a sequence. Built fresh for every
// call and never shared.
type problem struct {
	ix    *Index
	slots []slot
}

type pickRef struct {
	slot   int
	player int
}

type allocation struct {
	score int64
	picks []pickRef
}

func (ix *Index) newProblem(seq []string) *problem {
	p := &problem{ix: ix, slots: make([]slot, len(seq))}
	for i, raw := range seq {
		c := team.Canonicalize(raw)
		p.slots[i] = slot{raw: raw, team: c, eligible: ix.eligible[c]}
	}
	for i := range p.slots {
		short := ix.shortlist[p.slots[i].team]
		cands := make([]int, len(short))
		copy(cands, short)
		later := make(map[int]int, len(cands))
		for _, id := range cands {
			later[id] = p.laterSlots(id, i)
		}
		// Players useful in more of the remaining slots go first; ids already
		// encode stat desc, name asc.
		sort.SliceStable(cands, func(a, b int) bool {
			if la, lb := later[cands[a]], later[cands[b]]; la != lb {
				return la > lb
			}
			return cands[a] < cands[b]
		})
		p.slots[i].candidates = cands
	}
	return p
}

// laterSlots counts the slots after i the player is eligible for.
func (p *problem) laterSlots(id, i int) int {
	e := &p.ix.players[id]
	n := 0
	for j := i + 1; j < len(p.slots); j++ {
		if e.playsFor(p.slots[j].team) {
			n++
		}
	}
	return n
}

// greedy fills each slot in order with the best unused eligible player.
func (p *problem) greedy() allocation {
	used := newBitset(len(p.ix.players))
	var a allocation
	for i := range p.slots {
		for _, id := range p.slots[i].eligible {
			if used.has(id) {
				continue
			}
			used.set(id)
			a.score += p.ix.players[id].points
			a.picks = append(a.picks, pickRef{slot: i, player: id})
			break
		}
	}
	return a
}

func (p *problem) toPicks(refs []pickRef) []Pick {
	out := make([]Pick, 0, len(refs))
	for _, r := range refs {
		e := &p.ix.players[r.player]
		out = append(out, Pick{Team: p.slots[r.slot].raw, QB: e.name, Wins: e.stat})
	}
	return out
}
