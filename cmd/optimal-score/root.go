package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	app "github.com/sethseligman/statstack-v1-archive/internal/app"
	"github.com/sethseligman/statstack-v1-archive/internal/config"
	"github.com/sethseligman/statstack-v1-archive/pkg/logger"
)

// cli carries the state shared by the subcommands.
type cli struct {
	challenge string
	deadline  time.Duration
	logLevel  string

	cfg *config.Config
}

func newRootCmd() *cobra.Command {
	c := &cli{}
	root := &cobra.Command{
		Use:          "optimal-score",
		Short:        "Compute optimal allocation scores for team sequences",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return c.setup(cmd)
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&c.challenge, "challenge", "", "challenge id (default: configured default)")
	flags.DurationVar(&c.deadline, "deadline", 0, "search deadline (default: configured deadline)")
	flags.StringVar(&c.logLevel, "log-level", "warn", "log level written to stderr")

	root.AddCommand(
		newCalculateCmd(c),
		newSequenceCmd(c),
		newChallengesCmd(c),
	)
	return root
}

// setup sends logs to stderr so stdout stays machine readable, then loads the
// configuration and applies the flag overrides.
func (c *cli) setup(cmd *cobra.Command) error {
	if err := logger.InitWithWriter(cmd.ErrOrStderr(), "text"); err != nil {
		return err
	}
	if err := logger.SetLevelString(c.logLevel); err != nil {
		return err
	}

	cfg, err := config.Load(cmd.Context())
	if err != nil {
		return err
	}
	if c.challenge != "" {
		cfg.DefaultChallenge = c.challenge
	}
	if c.deadline > 0 {
		cfg.SearchDeadlineMS = int(c.deadline / time.Millisecond)
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	c.cfg = cfg
	return nil
}

// startService runs an in-process service with a single worker.
func (c *cli) startService(ctx context.Context) (*app.Service, error) {
	opts := append(app.OptionsFromConfig(c.cfg),
		app.WithWorkerCount(1),
		app.WithLogger(logger.Named("service")),
	)
	svc := app.New(opts...)
	if err := svc.Start(ctx); err != nil {
		return nil, fmt.Errorf("start service: %w", err)
	}
	return svc, nil
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
