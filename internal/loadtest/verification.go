package loadtest

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/sethseligman/statstack-v1-archive/internal/domain/calculator"
	"github.com/sethseligman/statstack-v1-archive/internal/domain/team"
	"github.com/sethseligman/statstack-v1-archive/pkg/logger"
)

// verifyOutcome checks one answered request and returns what is wrong with
// it. An answer is valid when no player is used twice, every pick fills a
// distinct slot of its team, the stats add up to maxScore and the flags
// agree with resultType.
func verifyOutcome(o Outcome) []string { //nolint:gocritic // hugeParam: read-only
	var problems []string
	res := o.Result

	if len(res.OptimalPicks) > len(o.Request.Teams) {
		problems = append(problems, fmt.Sprintf("%d picks for %d slots", len(res.OptimalPicks), len(o.Request.Teams)))
	}

	slots := map[string]int{}
	for _, t := range o.Request.Teams {
		slots[team.Canonicalize(t)]++
	}
	players := map[string]bool{}
	sum := decimal.Zero
	for _, p := range res.OptimalPicks {
		if players[p.QB] {
			problems = append(problems, fmt.Sprintf("player %q reused", p.QB))
		}
		players[p.QB] = true

		canon := team.Canonicalize(p.Team)
		if slots[canon] == 0 {
			problems = append(problems, fmt.Sprintf("pick for %q matches no open slot", p.Team))
		}
		slots[canon]--
		sum = sum.Add(p.Wins)
	}
	if !sum.Equal(res.MaxScore) {
		problems = append(problems, fmt.Sprintf("picks sum to %s, maxScore is %s", sum, res.MaxScore))
	}

	switch res.ResultType {
	case calculator.ResultOptimized:
		if res.UsedGreedy || res.UsedTimeout {
			problems = append(problems, "optimized result flagged as greedy")
		}
	case calculator.ResultGreedyMatched:
		if !res.UsedGreedy || res.UsedTimeout {
			problems = append(problems, "greedy-matched flags inconsistent")
		}
	case calculator.ResultGreedyTimeout:
		if !res.UsedGreedy || !res.UsedTimeout {
			problems = append(problems, "greedy-timeout flags inconsistent")
		}
	default:
		problems = append(problems, fmt.Sprintf("unknown resultType %q", res.ResultType))
	}
	return problems
}

// verifyOutcomes checks every answered outcome and fills in its problems.
// It returns an error when any answer is invalid.
func verifyOutcomes(ctx context.Context, outcomes []Outcome, stats *Stats) error {
	logger.Get().Info(ctx, "verifying answers", logger.Int("outcomes", len(outcomes)))

	for i := range outcomes {
		if outcomes[i].Status != StatusOK || outcomes[i].Err != "" {
			continue
		}
		outcomes[i].Problems = verifyOutcome(outcomes[i])
		if len(outcomes[i].Problems) > 0 {
			stats.Invalid++
			logger.Get().Error(ctx, "invalid answer",
				logger.String("requestID", outcomes[i].Request.RequestID),
				logger.Strings("teams", outcomes[i].Request.Teams),
				logger.Strings("problems", outcomes[i].Problems),
			)
		}
	}

	if stats.Invalid > 0 {
		return fmt.Errorf("%d of %d answers failed verification", stats.Invalid, len(outcomes))
	}
	logger.Get().Info(ctx, "all answers verified")
	return nil
}
