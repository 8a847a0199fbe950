package sequence

import (
	"fmt"
	"strings"
)

// Mode selects how a sequence is drawn.
type Mode string

const (
	// ModeSoftRepeats draws distinct teams with one or two repeats.
	ModeSoftRepeats Mode = "soft-repeats"
	// ModeWeighted draws each round independently with recency damping.
	ModeWeighted Mode = "weighted"
)

// ParseMode resolves a mode name. An empty name means ModeSoftRepeats.
func ParseMode(name string) (Mode, error) {
	switch Mode(strings.ToLower(strings.TrimSpace(name))) {
	case "", ModeSoftRepeats:
		return ModeSoftRepeats, nil
	case ModeWeighted:
		return ModeWeighted, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownMode, name)
	}
}

// Draw produces a sequence of rounds teams in the given mode.
func (g *Generator) Draw(mode Mode, rounds int) ([]string, error) {
	switch mode {
	case "", ModeSoftRepeats:
		return g.SoftRepeats(rounds)
	case ModeWeighted:
		return g.Weighted(rounds)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownMode, mode)
	}
}
