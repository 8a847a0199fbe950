package loadtest

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/sethseligman/statstack-v1-archive/internal/domain/sequence"
	"github.com/sethseligman/statstack-v1-archive/pkg/logger"
)

// generateRequests draws cfg.Requests sequences, each with a fresh request id.
func generateRequests(ctx context.Context, cfg *Config, stats *Stats) ([]Request, error) {
	logger.Get().Info(ctx, "generating sequences",
		logger.Int("requests", cfg.Requests),
		logger.Int("rounds", cfg.Rounds),
		logger.String("mode", string(cfg.Mode)),
	)

	var opts []sequence.Option
	if cfg.Seed != 0 {
		opts = append(opts, sequence.WithSeed(cfg.Seed))
	}
	gen := sequence.New(opts...)

	requests := make([]Request, cfg.Requests)
	for i := range requests {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("context cancelled during generation: %w", err)
		}
		teams, err := gen.Draw(cfg.Mode, cfg.Rounds)
		if err != nil {
			return nil, fmt.Errorf("generate sequence %d: %w", i, err)
		}
		requests[i] = Request{
			RequestID: uuid.NewString(),
			Challenge: cfg.Challenge,
			Teams:     teams,
		}
	}

	stats.Generated = len(requests)
	logger.Get().Info(ctx, "generated sequences", logger.Int("count", len(requests)))
	return requests, nil
}
