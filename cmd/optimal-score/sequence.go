package main

import (
	"github.com/spf13/cobra"

	"github.com/sethseligman/statstack-v1-archive/internal/domain/sequence"
)

func newSequenceCmd(c *cli) *cobra.Command {
	var (
		rounds int
		mode   string
	)
	cmd := &cobra.Command{
		Use:   "sequence",
		Short: "Generate a team sequence the way the game draws one",
		Example: "optimal-score sequence --rounds 10\n" +
			"optimal-score sequence --mode weighted --rounds 40",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			m, err := sequence.ParseMode(mode)
			if err != nil {
				return err
			}

			svc, err := c.startService(cmd.Context())
			if err != nil {
				return err
			}
			defer svc.Stop()

			teams, err := svc.Sequence(cmd.Context(), c.cfg.DefaultChallenge, rounds, m)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), map[string]any{
				"challenge": c.cfg.DefaultChallenge,
				"mode":      m,
				"teams":     teams,
			})
		},
	}
	cmd.Flags().IntVarP(&rounds, "rounds", "n", 0, "number of teams (default: the challenge's rounds per game)")
	cmd.Flags().StringVar(&mode, "mode", string(sequence.ModeSoftRepeats), "draw mode: soft-repeats or weighted")
	return cmd
}
