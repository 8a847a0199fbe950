// Package player holds the static player tables the calculator draws from.
package player

import (
	"fmt"
	"os"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/tidwall/gjson"
)

// Player is one entry of a challenge's player table. Immutable once loaded.
type Player struct {
	Name  string
	Stat  decimal.Decimal
	Teams []string
}

// Table is a validated, read-only player table for one challenge.
type Table struct {
	Challenge string
	StatName  string
	Players   []Player

	byName map[string]int
}

// Lookup returns the player with the given name.
func (t *Table) Lookup(name string) (Player, bool) {
	i, ok := t.byName[name]
	if !ok {
		return Player{}, false
	}
	return t.Players[i], true
}

// Len returns the number of players in the table.
func (t *Table) Len() int { return len(t.Players) }

// NewTable validates players and builds a table. Names must be unique and
// non-blank, stats non-negative and every player must list at least one team.
func NewTable(challenge, statName string, players []Player) (*Table, error) {
	t := &Table{
		Challenge: challenge,
		StatName:  statName,
		Players:   make([]Player, 0, len(players)),
		byName:    make(map[string]int, len(players)),
	}
	for i, p := range players {
		name := strings.TrimSpace(p.Name)
		if name == "" {
			return nil, fmt.Errorf("%w: player %d has no name", ErrDataset, i)
		}
		if _, dup := t.byName[name]; dup {
			return nil, fmt.Errorf("%w: duplicate player %q", ErrDataset, name)
		}
		if p.Stat.IsNegative() {
			return nil, fmt.Errorf("%w: player %q has negative stat %s", ErrDataset, name, p.Stat)
		}
		teams := make([]string, 0, len(p.Teams))
		for _, tm := range p.Teams {
			if tm = strings.TrimSpace(tm); tm != "" {
				teams = append(teams, tm)
			}
		}
		if len(teams) == 0 {
			return nil, fmt.Errorf("%w: player %q lists no teams", ErrDataset, name)
		}
		t.byName[name] = len(t.Players)
		t.Players = append(t.Players, Player{Name: name, Stat: p.Stat, Teams: teams})
	}
	return t, nil
}

// Parse decodes a JSON player table of the form
//
//	{"challenge": "qb-wins", "stat": "wins",
//	 "players": [{"name": "...", "stat": 251, "teams": ["Patriots"]}]}
//
// Stats keep their exact decimal text, so half values survive unchanged.
func Parse(data []byte) (*Table, error) {
	if !gjson.ValidBytes(data) {
		return nil, fmt.Errorf("%w: malformed JSON", ErrDataset)
	}
	doc := gjson.ParseBytes(data)

	list := doc.Get("players")
	if !list.IsArray() {
		return nil, fmt.Errorf("%w: players must be an array", ErrDataset)
	}

	var (
		players []Player
		err     error
	)
	list.ForEach(func(_, entry gjson.Result) bool {
		var p Player
		p, err = parseEntry(entry)
		if err != nil {
			return false
		}
		players = append(players, p)
		return true
	})
	if err != nil {
		return nil, err
	}

	return NewTable(doc.Get("challenge").String(), doc.Get("stat").String(), players)
}

func parseEntry(entry gjson.Result) (Player, error) {
	name := entry.Get("name")
	if name.Type != gjson.String {
		return Player{}, fmt.Errorf("%w: player name must be a string: %s", ErrDataset, entry.Raw)
	}
	stat := entry.Get("stat")
	if stat.Type != gjson.Number {
		return Player{}, fmt.Errorf("%w: stat of %q must be a number", ErrDataset, name.String())
	}
	value, err := decimal.NewFromString(stat.Raw)
	if err != nil {
		return Player{}, fmt.Errorf("%w: stat of %q: %w", ErrDataset, name.String(), err)
	}
	teamsField := entry.Get("teams")
	if !teamsField.IsArray() {
		return Player{}, fmt.Errorf("%w: teams of %q must be an array", ErrDataset, name.String())
	}
	var teams []string
	for _, tm := range teamsField.Array() {
		if tm.Type != gjson.String {
			return Player{}, fmt.Errorf("%w: team of %q must be a string", ErrDataset, name.String())
		}
		teams = append(teams, tm.String())
	}
	return Player{Name: name.String(), Stat: value, Teams: teams}, nil
}

// LoadFile reads and parses a player table from disk.
func LoadFile(path string) (*Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDataset, err)
	}
	return Parse(data)
}
