package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/sethseligman/statstack-v1-archive/internal/domain/calculator"
)

var (
	errNoTeams     = errors.New("no teams given: pass them as arguments or with --file")
	errArgsAndFile = errors.New("use either arguments or --file, not both")
)

type calculateOutput struct {
	Result calculator.Result `json:"result"`
	Stats  *statsOutput      `json:"stats,omitempty"`
}

type statsOutput struct {
	GreedyScore string   `json:"greedyScore"`
	Nodes       int64    `json:"nodes"`
	MemoHits    int64    `json:"memoHits"`
	Pruned      int64    `json:"pruned"`
	Deferrals   int64    `json:"deferrals"`
	ElapsedMS   float64  `json:"elapsedMs"`
	TimedOut    bool     `json:"timedOut"`
	PrimedUsed  []string `json:"primedUsed,omitempty"`
	Error       string   `json:"error,omitempty"`
}

func newCalculateCmd(c *cli) *cobra.Command {
	var (
		file      string
		showStats bool
	)
	cmd := &cobra.Command{
		Use:     "calculate [team...]",
		Short:   "Compute the optimal score for a team sequence",
		Example: "optimal-score calculate Bears Packers \"Kansas City Chiefs\"\noptimal-score calculate --file teams.json --stats",
		RunE: func(cmd *cobra.Command, args []string) error {
			teams, err := readTeams(file, args)
			if err != nil {
				return err
			}

			svc, err := c.startService(cmd.Context())
			if err != nil {
				return err
			}
			defer svc.Stop()

			res, err := svc.Submit(cmd.Context(), c.cfg.DefaultChallenge, teams)
			if err != nil {
				return err
			}

			out := calculateOutput{Result: res}
			if showStats {
				out.Stats = newStatsOutput(res.Stats)
			}
			return printJSON(cmd.OutOrStdout(), out)
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "read the sequence from a JSON file")
	cmd.Flags().BoolVar(&showStats, "stats", false, "include search statistics")
	return cmd
}

// readTeams returns the arguments, or the decoded file contents. A file that
// is valid JSON but not a list of names is passed through unchanged and gets
// the zero-score fallback.
func readTeams(file string, args []string) (any, error) {
	if file == "" {
		if len(args) == 0 {
			return nil, errNoTeams
		}
		return args, nil
	}
	if len(args) > 0 {
		return nil, errArgsAndFile
	}

	data, err := os.ReadFile(file)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", file, err)
	}
	var teams any
	if err := json.Unmarshal(data, &teams); err != nil {
		return nil, fmt.Errorf("decode %s: %w", file, err)
	}
	return teams, nil
}

func newStatsOutput(s calculator.Stats) *statsOutput { //nolint:gocritic // hugeParam: read-only
	out := &statsOutput{
		GreedyScore: s.GreedyScore.String(),
		Nodes:       s.Nodes,
		MemoHits:    s.MemoHits,
		Pruned:      s.Pruned,
		Deferrals:   s.Deferrals,
		ElapsedMS:   float64(s.Elapsed.Microseconds()) / 1000,
		TimedOut:    s.TimedOut,
		PrimedUsed:  s.PrimedUsed,
	}
	if s.Err != nil {
		out.Error = s.Err.Error()
	}
	return out
}
