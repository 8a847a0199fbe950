// Package service wires the calculators, the job queue, the worker pool and
// the result cache into the dependencies required by the HTTP API.
package service

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"sort"
	"sync"
	"time"

	jobqueue "github.com/sethseligman/statstack-v1-archive/internal/adapters/mq/queue"
	workerpool "github.com/sethseligman/statstack-v1-archive/internal/adapters/mq/worker"
	"github.com/sethseligman/statstack-v1-archive/internal/adapters/resultcache"
	"github.com/sethseligman/statstack-v1-archive/internal/domain/calculator"
	"github.com/sethseligman/statstack-v1-archive/internal/domain/model"
	"github.com/sethseligman/statstack-v1-archive/internal/domain/player"
	"github.com/sethseligman/statstack-v1-archive/internal/domain/sequence"
	"github.com/sethseligman/statstack-v1-archive/pkg/logger"
	"github.com/sethseligman/statstack-v1-archive/pkg/metrics"
)

const (
	defaultChallenge = "qb-wins"
	defaultRounds    = 20
	defaultQueueSize = 1024
	stopTimeout      = 30 * time.Second
)

// Service implements the API dependencies for the score calculator.
type Service struct {
	mu sync.RWMutex

	// Core components
	calculators map[string]*calculator.Calculator
	jobQueue    jobqueue.Queue
	workerPool  *workerpool.Pool
	cache       *resultcache.Cache
	sequences   *sequence.Generator

	// Configuration
	workerCount      int
	queueSize        int
	defaultChallenge string
	roundsPerGame    int
	datasetFiles     map[string]string
	calcOpts         []calculator.Option
	store            resultcache.Store
	seed             *int64

	// State
	started   bool
	startedAt time.Time

	logger logger.Logger
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		workerCount:      runtime.NumCPU(),
		queueSize:        defaultQueueSize,
		defaultChallenge: defaultChallenge,
		roundsPerGame:    defaultRounds,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start loads the player tables, builds one calculator per challenge and
// starts the workers.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}
	if s.logger == nil {
		s.logger = logger.Get()
	}
	s.logger.Info(ctx, "starting score service...")

	calcs, err := s.buildCalculators(ctx)
	if err != nil {
		return err
	}
	if _, ok := calcs[s.defaultChallenge]; !ok {
		return fmt.Errorf("%w: default %q", ErrUnknownChallenge, s.defaultChallenge)
	}
	s.calculators = calcs

	if s.store != nil {
		s.cache = resultcache.New(s.store, resultcache.WithLogger(s.logger.Named("resultcache")))
	}

	genOpts := []sequence.Option{}
	if s.seed != nil {
		genOpts = append(genOpts, sequence.WithSeed(*s.seed))
	}
	s.sequences = sequence.New(genOpts...)

	s.jobQueue = jobqueue.NewInMemoryQueue(jobqueue.WithCapacity(s.queueSize))
	s.workerPool = workerpool.NewPool(s.workerCount, s.jobQueue, s)
	s.workerPool.Start(context.WithoutCancel(ctx))

	s.started = true
	s.startedAt = time.Now()
	s.logger.Info(ctx, "score service started",
		logger.Int("workers", s.workerPool.Size()),
		logger.Int("queueSize", s.queueSize),
		logger.Strings("challenges", s.challengeIDs()),
		logger.Bool("resultCache", s.cache != nil),
	)
	return nil
}

func (s *Service) buildCalculators(ctx context.Context) (map[string]*calculator.Calculator, error) {
	calcLog := s.logger.Named("calculator")
	calcs := make(map[string]*calculator.Calculator)
	for _, ch := range player.Challenges() {
		table, err := player.Load(ch.ID, s.datasetFiles[ch.ID])
		if err != nil {
			return nil, fmt.Errorf("load %s players: %w", ch.ID, err)
		}
		opts := append([]calculator.Option{calculator.WithLogger(calcLog)}, s.calcOpts...)
		calc, err := calculator.New(table, opts...)
		if err != nil {
			return nil, fmt.Errorf("index %s players: %w", ch.ID, err)
		}
		calcs[ch.ID] = calc
		s.logger.Info(ctx, "player table loaded",
			logger.String("challenge", ch.ID),
			logger.Int("players", table.Len()),
		)
	}
	return calcs, nil
}

// Stop closes the queue, lets the workers answer what is already queued
// and waits for them.
func (s *Service) Stop() {
	s.mu.Lock()
	if !s.started {
		s.mu.Unlock()
		return
	}
	s.started = false
	pool := s.workerPool
	s.mu.Unlock()

	ctx := context.Background()
	s.logger.Info(ctx, "stopping score service...")

	// Workers still call Solve while draining, so s.mu must not be held here.
	shutdownCtx, cancel := context.WithTimeout(ctx, stopTimeout)
	defer cancel()
	if err := pool.Shutdown(shutdownCtx); err != nil {
		s.logger.Warn(ctx, "worker pool did not drain", logger.Error(err))
	}

	s.logger.Info(ctx, "score service stopped")
}

// Solve computes one result, serving it from the result cache when possible.
// It is the worker pool's Solver. Malformed team lists are not an error: they
// produce the fallback result.
func (s *Service) Solve(ctx context.Context, challenge string, teams any) (calculator.Result, error) {
	calc, err := s.calculator(challenge)
	if err != nil {
		return calculator.Result{}, err
	}

	seq, err := calculator.ToSequence(teams)
	if err != nil {
		metrics.RecordCalculationFallback("invalid_input")
		return calc.CalculateAny(ctx, teams), nil
	}

	if s.cache != nil {
		if res, ok := s.cache.Lookup(ctx, challenge, seq); ok {
			metrics.RecordCalculation(challenge, string(res.ResultType)+"_cached", 0)
			return res, nil
		}
	}

	start := time.Now()
	res := calc.Calculate(ctx, seq)
	s.record(challenge, res, time.Since(start))

	if s.cache != nil {
		s.cache.Remember(ctx, challenge, seq, res)
	}
	return res, nil
}

func (s *Service) record(challenge string, res calculator.Result, took time.Duration) { //nolint:gocritic // hugeParam: read-only
	metrics.RecordCalculation(challenge, string(res.ResultType), float64(took.Microseconds())/1000)
	metrics.RecordSearch(res.Stats.Nodes, res.Stats.MemoHits, res.Stats.Pruned, res.Stats.Deferrals)
	if res.Stats.Err != nil {
		reason := "internal"
		if errors.Is(res.Stats.Err, calculator.ErrInvalidSequence) {
			reason = "invalid_input"
		}
		metrics.RecordCalculationFallback(reason)
		return
	}
	if res.ResultType == calculator.ResultOptimized {
		delta, _ := res.MaxScore.Sub(res.Stats.GreedyScore).Float64()
		metrics.RecordScoreImprovement(delta)
	}
}

// Submit queues a calculation and waits for its result. An empty challenge
// means the default one. It returns jobqueue.ErrQueueFull when the queue is
// at capacity, ErrServiceStopped when the service is not running and the
// context error when ctx ends first.
func (s *Service) Submit(ctx context.Context, challenge string, teams any) (calculator.Result, error) {
	s.mu.RLock()
	started, q := s.started, s.jobQueue
	if challenge == "" {
		challenge = s.defaultChallenge
	}
	_, known := s.calculators[challenge]
	s.mu.RUnlock()

	if !started {
		return calculator.Result{}, ErrServiceStopped
	}
	if !known {
		return calculator.Result{}, fmt.Errorf("%w: %q", ErrUnknownChallenge, challenge)
	}

	job := model.NewJob(challenge, teams)
	if err := q.Enqueue(ctx, job); err != nil {
		if errors.Is(err, jobqueue.ErrQueueClosed) {
			return calculator.Result{}, ErrServiceStopped
		}
		return calculator.Result{}, err
	}
	s.logger.Debug(ctx, "calculation queued",
		logger.String("jobID", job.ID.String()),
		logger.String("challenge", challenge),
	)

	select {
	case res := <-job.Reply:
		if errors.Is(res.Stats.Err, jobqueue.ErrQueueClosed) {
			return res, ErrServiceStopped
		}
		return res, nil
	case <-ctx.Done():
		return calculator.Result{}, fmt.Errorf("waiting for job %s: %w", job.ID, ctx.Err())
	}
}

// Sequence draws a team sequence for a challenge in the given mode. Zero
// rounds means the challenge's default game length.
func (s *Service) Sequence(_ context.Context, challenge string, rounds int, mode sequence.Mode) ([]string, error) {
	s.mu.RLock()
	gen, def := s.sequences, s.defaultChallenge
	s.mu.RUnlock()

	if gen == nil {
		return nil, ErrServiceStopped
	}
	if challenge == "" {
		challenge = def
	}
	ch, err := player.LookupChallenge(challenge)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrUnknownChallenge, challenge)
	}
	if rounds == 0 {
		rounds = ch.RoundsPerGame
		if rounds == 0 {
			rounds = s.roundsPerGame
		}
	}
	return gen.Draw(mode, rounds)
}

// Challenges lists the challenges the service can calculate.
func (s *Service) Challenges() []player.Challenge {
	return player.Challenges()
}

// DefaultChallenge returns the id used when a request names no challenge.
func (s *Service) DefaultChallenge() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.defaultChallenge
}

func (s *Service) calculator(challenge string) (*calculator.Calculator, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	calc, ok := s.calculators[challenge]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownChallenge, challenge)
	}
	return calc, nil
}

// challengeIDs must be called with s.mu held.
func (s *Service) challengeIDs() []string {
	ids := make([]string, 0, len(s.calculators))
	for id := range s.calculators {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := map[string]interface{}{
		"started":          s.started,
		"workerCount":      s.workerCount,
		"queueSize":        s.queueSize,
		"defaultChallenge": s.defaultChallenge,
		"resultCache":      s.cache != nil,
	}

	if s.started {
		queueLen := s.jobQueue.Len(context.Background())
		stats["queueLength"] = queueLen
		stats["challenges"] = s.challengeIDs()
		stats["uptimeSeconds"] = int64(time.Since(s.startedAt).Seconds())

		if sized, ok := s.store.(interface{ Size() int64 }); ok {
			stats["cachedResults"] = sized.Size()
		}
		if breaker, ok := s.store.(interface{ State() string }); ok {
			stats["cacheBreaker"] = breaker.State()
		}

		metrics.UpdateQueueSize(queueLen)
		metrics.UpdateWorkerCount(s.workerPool.Size())
	}
	return stats
}
