package calculator

import (
	"encoding/binary"
	"time"
)

// pickNode is a persistent list of picks; branches share their prefix.
type pickNode struct {
	ref  pickRef
	prev *pickNode
}

// refs returns the picks in slot order.
func (n *pickNode) refs() []pickRef {
	var out []pickRef
	for ; n != nil; n = n.prev {
		out = append(out, n.ref)
	}
	for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
		out[i], out[j] = out[j], out[i]
	}
	return out
}

type memoEntry struct {
	found bool // the subtree improved the incumbent
	score int64
	picks *pickNode
}

type searchStats struct {
	nodes     int64
	memoHits  int64
	pruned    int64
	deferrals int64
	timedOut  bool
}

// engine runs one branch-and-bound search. Path state (used set, score,
// picks) travels by value through search; the engine only owns the
// incumbent, the memo table and counters.
type engine struct {
	p        *problem
	clock    Clock
	deadline time.Time

	memo   map[string]memoEntry // nil when memoization is off
	keyBuf []byte

	bestScore int64
	bestPicks *pickNode
	improved  bool

	stats searchStats
}

func newEngine(p *problem, clk Clock, deadline time.Time, seed int64, memoize bool) *engine {
	e := &engine{p: p, clock: clk, deadline: deadline, bestScore: seed}
	if memoize {
		e.memo = make(map[string]memoEntry)
	}
	return e
}

func (e *engine) run() {
	e.search(0, newBitset(len(e.p.ix.players)), 0, nil)
}

// expired polls the wall clock. Once the deadline passes the whole search
// unwinds.
func (e *engine) expired() bool {
	if !e.stats.timedOut && e.clock.Now().After(e.deadline) {
		e.stats.timedOut = true
	}
	return e.stats.timedOut
}

func (e *engine) search(i int, used bitset, score int64, picks *pickNode) {
	e.stats.nodes++
	if e.expired() {
		return
	}
	if i == len(e.p.slots) {
		if score > e.bestScore {
			e.bestScore, e.bestPicks, e.improved = score, picks, true
		}
		return
	}
	if score+e.bound(i, used) <= e.bestScore {
		e.stats.pruned++
		return
	}

	var key string
	if e.memo != nil {
		key = e.memoKey(i, used, score)
		if hit, ok := e.memo[key]; ok {
			e.stats.memoHits++
			// The subtree was already explored against an incumbent no better
			// than today's; only an entry that still beats it is adopted.
			if hit.found && hit.score > e.bestScore {
				e.bestScore, e.bestPicks, e.improved = hit.score, hit.picks, true
			}
			return
		}
	}

	before := e.bestScore
	e.branch(i, used, score, picks)

	if e.memo != nil && !e.stats.timedOut {
		e.memo[key] = memoEntry{found: e.bestScore > before, score: e.bestScore, picks: e.bestPicks}
	}
}

func (e *engine) branch(i int, used bitset, score int64, picks *pickNode) {
	cands := e.available(i, used)
	if len(cands) == 0 {
		e.search(i+1, used, score, picks)
		return
	}

	deferred := false
	for _, id := range cands {
		if !deferred && e.deferrable(i, id) {
			deferred = true
			e.stats.deferrals++
			e.search(i+1, used, score, picks)
			if e.stats.timedOut {
				return
			}
		}
		next := &pickNode{ref: pickRef{slot: i, player: id}, prev: picks}
		e.search(i+1, used.with(id), score+e.p.ix.players[id].points, next)
		if e.stats.timedOut {
			return
		}
	}
}

// available returns the unused shortlisted players of slot i, or the best
// unused player of the full eligible list when the shortlist is exhausted.
func (e *engine) available(i int, used bitset) []int {
	s := &e.p.slots[i]
	out := make([]int, 0, len(s.candidates))
	for _, id := range s.candidates {
		if !used.has(id) {
			out = append(out, id)
		}
	}
	if len(out) > 0 {
		return out
	}
	for _, id := range s.eligible {
		if !used.has(id) {
			return append(out, id)
		}
	}
	return out
}

// deferrable reports whether slot i may be left empty to keep a primed
// multi-team player for a later slot.
func (e *engine) deferrable(i, id int) bool {
	pl := &e.p.ix.players[id]
	return pl.primed &&
		len(pl.teams) > 1 &&
		len(e.p.slots)-i-1 >= 3 &&
		e.p.laterSlots(id, i) > 0
}

// bound sums, over slots i.., the best unused eligible stat. Players may be
// counted twice, which keeps the bound admissible.
func (e *engine) bound(i int, used bitset) int64 {
	var b int64
	for j := i; j < len(e.p.slots); j++ {
		for _, id := range e.p.slots[j].eligible {
			if !used.has(id) {
				b += e.p.ix.players[id].points
				break
			}
		}
	}
	return b
}

func (e *engine) memoKey(i int, used bitset, score int64) string {
	buf := e.keyBuf[:0]
	buf = binary.LittleEndian.AppendUint32(buf, uint32(i))
	buf = binary.LittleEndian.AppendUint64(buf, uint64(score))
	for _, w := range used {
		buf = binary.LittleEndian.AppendUint64(buf, w)
	}
	e.keyBuf = buf
	return string(buf)
}
