package player

import (
	"embed"
	"fmt"
	"sort"
)

//go:embed data/*.json
var datasets embed.FS

// Challenge describes one game mode and the player table behind it.
type Challenge struct {
	ID              string `json:"id"`
	Title           string `json:"title"`
	Description     string `json:"description"`
	StatName        string `json:"statName"`
	StatDisplayName string `json:"statDisplayName"`
	RoundsPerGame   int    `json:"roundsPerGame"`
	TargetScore     int    `json:"targetScore"`
	Enabled         bool   `json:"enabled"`
}

var challenges = map[string]Challenge{ //nolint:gochecknoglobals // static registry
	"qb-wins": {
		ID:              "qb-wins",
		Title:           "QB Wins Challenge",
		Description:     "Pick 20 quarterbacks. Reach 2,500 career wins. No repeats.",
		StatName:        "wins",
		StatDisplayName: "Career Wins",
		RoundsPerGame:   20,
		TargetScore:     2500,
		Enabled:         true,
	},
	"defensive-sacks": {
		ID:              "defensive-sacks",
		Title:           "Sacks Challenge",
		Description:     "Name the NFL's greatest pass rushers. Target: 1,500 career sacks.",
		StatName:        "sacks",
		StatDisplayName: "Career Sacks",
		RoundsPerGame:   20,
		TargetScore:     1500,
		Enabled:         false,
	},
}

// Challenges returns the registry sorted by id.
func Challenges() []Challenge {
	out := make([]Challenge, 0, len(challenges))
	for _, c := range challenges {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// LookupChallenge returns the registry entry for id.
func LookupChallenge(id string) (Challenge, error) {
	c, ok := challenges[id]
	if !ok {
		return Challenge{}, fmt.Errorf("%w: %q", ErrUnknownChallenge, id)
	}
	return c, nil
}

// Builtin returns the embedded player table of a challenge. Disabled
// challenges are still returned; the flag only gates the game lobby.
func Builtin(id string) (*Table, error) {
	if _, err := LookupChallenge(id); err != nil {
		return nil, err
	}
	data, err := datasets.ReadFile("data/" + id + ".json")
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrDataset, id, err)
	}
	return Parse(data)
}

// Load returns the table for a challenge, reading path when it is set and
// falling back to the embedded dataset otherwise.
func Load(id, path string) (*Table, error) {
	if path == "" {
		return Builtin(id)
	}
	if _, err := LookupChallenge(id); err != nil {
		return nil, err
	}
	t, err := LoadFile(path)
	if err != nil {
		return nil, err
	}
	if t.Challenge == "" {
		t.Challenge = id
	}
	return t, nil
}
