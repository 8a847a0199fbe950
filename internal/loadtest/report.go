package loadtest

import (
	"context"
	"sort"
	"time"

	"github.com/sethseligman/statstack-v1-archive/internal/domain/calculator"
	"github.com/sethseligman/statstack-v1-archive/pkg/logger"
)

// summarize fills result type counts, status counts and latency percentiles.
func summarize(outcomes []Outcome, stats *Stats) {
	stats.ByType = map[calculator.ResultType]int{}
	stats.ByStatus = map[int]int{}

	latencies := make([]time.Duration, 0, len(outcomes))
	for i := range outcomes {
		o := &outcomes[i]
		stats.ByStatus[o.Status]++
		if o.Status == StatusOK && o.Err == "" {
			stats.ByType[o.Result.ResultType]++
		}
		latencies = append(latencies, o.Latency)
	}
	if len(latencies) == 0 {
		return
	}

	sort.Slice(latencies, func(i, j int) bool { return latencies[i] < latencies[j] })
	stats.LatencyP50 = percentile(latencies, 50)
	stats.LatencyP95 = percentile(latencies, 95)
	stats.LatencyP99 = percentile(latencies, 99)
	stats.LatencyMax = latencies[len(latencies)-1]
}

// percentile uses the nearest-rank method on sorted input.
func percentile(sorted []time.Duration, p int) time.Duration {
	rank := (p*len(sorted) + PercentageMultiplier - 1) / PercentageMultiplier
	if rank < 1 {
		rank = 1
	}
	return sorted[rank-1]
}

// displayFinalStats logs the final run statistics.
func displayFinalStats(stats *Stats) {
	var successRate, requestsPerSecond float64
	if stats.Submitted > 0 {
		successRate = float64(stats.Answered) / float64(stats.Submitted) * PercentageMultiplier
	}
	if stats.Duration > 0 {
		requestsPerSecond = float64(stats.Submitted) / stats.Duration.Seconds()
	}

	logger.Get().Info(context.Background(), "final statistics",
		logger.Int("generated", stats.Generated),
		logger.Int("submitted", stats.Submitted),
		logger.Int("answered", stats.Answered),
		logger.Int("failed", stats.Failed),
		logger.Int("invalid", stats.Invalid),
		logger.Int("optimized", stats.ByType[calculator.ResultOptimized]),
		logger.Int("greedyMatched", stats.ByType[calculator.ResultGreedyMatched]),
		logger.Int("greedyTimeout", stats.ByType[calculator.ResultGreedyTimeout]),
		logger.Any("byStatus", stats.ByStatus),
		logger.Duration("p50", stats.LatencyP50),
		logger.Duration("p95", stats.LatencyP95),
		logger.Duration("p99", stats.LatencyP99),
		logger.Duration("max", stats.LatencyMax),
		logger.Duration("duration", stats.Duration),
		logger.Float64("successRate", successRate),
		logger.Float64("requestsPerSecond", requestsPerSecond),
	)
}
