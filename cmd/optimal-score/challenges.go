package main

import (
	"github.com/spf13/cobra"

	"github.com/sethseligman/statstack-v1-archive/internal/domain/player"
)

func newChallengesCmd(_ *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "challenges",
		Short: "List the challenge registry",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return printJSON(cmd.OutOrStdout(), player.Challenges())
		},
	}
}
