package service

import (
	"github.com/shopspring/decimal"

	"github.com/sethseligman/statstack-v1-archive/internal/adapters/resultcache"
	"github.com/sethseligman/statstack-v1-archive/internal/config"
	"github.com/sethseligman/statstack-v1-archive/internal/domain/calculator"
	"github.com/sethseligman/statstack-v1-archive/pkg/logger"
)

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithWorkerCount sets the number of calculation workers.
func WithWorkerCount(count int) Option {
	return func(s *Service) {
		if count > 0 {
			s.workerCount = count
		}
	}
}

// WithQueueSize sets the maximum number of queued jobs.
func WithQueueSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.queueSize = size
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithDefaultChallenge sets the challenge used when a request names none.
func WithDefaultChallenge(id string) Option {
	return func(s *Service) {
		if id != "" {
			s.defaultChallenge = id
		}
	}
}

// WithRoundsPerGame sets the default length of generated sequences.
func WithRoundsPerGame(rounds int) Option {
	return func(s *Service) {
		if rounds > 0 {
			s.roundsPerGame = rounds
		}
	}
}

// WithDatasetFiles overrides embedded player tables per challenge id.
func WithDatasetFiles(files map[string]string) Option {
	return func(s *Service) {
		s.datasetFiles = files
	}
}

// WithCalculatorOptions appends options passed to every calculator.
func WithCalculatorOptions(opts ...calculator.Option) Option {
	return func(s *Service) {
		s.calcOpts = append(s.calcOpts, opts...)
	}
}

// WithResultStore sets the cross-call result store. A nil store disables caching.
func WithResultStore(store resultcache.Store) Option {
	return func(s *Service) {
		s.store = store
	}
}

// WithSequenceSeed makes generated sequences deterministic.
func WithSequenceSeed(seed int64) Option {
	return func(s *Service) {
		s.seed = &seed
	}
}

// OptionsFromConfig maps a loaded Config onto service options. The result
// store is not included; callers pick the backend.
func OptionsFromConfig(cfg *config.Config) []Option {
	priming := calculator.DefaultPriming()
	priming.MinTeams = cfg.PrimedMinTeams
	priming.TeamStat = decimal.NewFromFloat(cfg.PrimedTeamStat)
	priming.Stat = decimal.NewFromFloat(cfg.PrimedStat)
	if len(cfg.PrimedPlayers) > 0 {
		priming.Names = cfg.PrimedPlayers
	}

	return []Option{
		WithWorkerCount(cfg.WorkerCount),
		WithQueueSize(cfg.QueueSize),
		WithDefaultChallenge(cfg.DefaultChallenge),
		WithRoundsPerGame(cfg.RoundsPerGame),
		WithDatasetFiles(cfg.DatasetFiles),
		WithCalculatorOptions(
			calculator.WithDeadline(cfg.SearchDeadline()),
			calculator.WithTimeoutThreshold(cfg.TimeoutThreshold()),
			calculator.WithShortlistSize(cfg.ShortlistSize),
			calculator.WithMemoization(cfg.Memoization),
			calculator.WithPriming(priming),
		),
	}
}
