package worker_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/smartystreets/goconvey/convey"

	queue "github.com/sethseligman/statstack-v1-archive/internal/adapters/mq/queue"
	worker "github.com/sethseligman/statstack-v1-archive/internal/adapters/mq/worker"
	"github.com/sethseligman/statstack-v1-archive/internal/domain/calculator"
	model "github.com/sethseligman/statstack-v1-archive/internal/domain/model"
	logging "github.com/sethseligman/statstack-v1-archive/pkg/logger"
)

// Mock implementations for testing.
type mockQueue struct {
	jobs chan queue.Job
}

func newMockQueue() *mockQueue {
	return &mockQueue{jobs: make(chan queue.Job, 10)}
}

func (mq *mockQueue) Dequeue(context.Context) <-chan queue.Job { return mq.jobs }

func (mq *mockQueue) Close() error {
	close(mq.jobs)
	return nil
}

type mockSolver struct {
	mu       sync.Mutex
	failures map[string]error
	panics   map[string]bool
	delay    time.Duration
	inFlight int32
	maxSeen  int32
	calls    int32
}

func newMockSolver() *mockSolver {
	return &mockSolver{failures: map[string]error{}, panics: map[string]bool{}}
}

func (ms *mockSolver) Solve(_ context.Context, challenge string, teams any) (calculator.Result, error) {
	atomic.AddInt32(&ms.calls, 1)
	n := atomic.AddInt32(&ms.inFlight, 1)
	defer atomic.AddInt32(&ms.inFlight, -1)
	for {
		seen := atomic.LoadInt32(&ms.maxSeen)
		if n <= seen || atomic.CompareAndSwapInt32(&ms.maxSeen, seen, n) {
			break
		}
	}
	time.Sleep(ms.delay)

	ms.mu.Lock()
	err, fails := ms.failures[challenge]
	boom := ms.panics[challenge]
	ms.mu.Unlock()

	if boom {
		panic("solver exploded")
	}
	if fails {
		return calculator.Result{}, err
	}
	list, _ := teams.([]string)
	return calculator.Result{
		MaxScore:     decimal.NewFromInt(int64(len(list))),
		OptimalPicks: []calculator.Pick{},
		ResultType:   calculator.ResultOptimized,
	}, nil
}

func await(t *testing.T, job model.Job) calculator.Result {
	t.Helper()
	select {
	case res := <-job.Reply:
		return res
	case <-time.After(time.Second):
		t.Fatal("no reply within a second")
		return calculator.Result{}
	}
}

func TestInMemoryWorker(t *testing.T) {
	convey.Convey("Given a running worker", t, func() {
		_ = logging.Init()

		q := newMockQueue()
		solver := newMockSolver()
		w := worker.NewInMemoryWorker(q, solver, worker.WithName("test-worker"))
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		go w.Run(ctx)

		convey.Convey("When a job is queued", func() {
			job := model.NewJob("qb-wins", []string{"Bears", "Lions"})
			q.jobs <- job
			res := await(t, job)

			convey.Convey("Then the solver result is delivered", func() {
				convey.So(res.ResultType, convey.ShouldEqual, calculator.ResultOptimized)
				convey.So(res.MaxScore.String(), convey.ShouldEqual, "2")
			})
		})

		convey.Convey("When the solver fails", func() {
			solver.failures["broken"] = errors.New("no table")
			job := model.NewJob("broken", []string{"Bears"})
			q.jobs <- job
			res := await(t, job)

			convey.Convey("Then the fallback is delivered", func() {
				convey.So(res.ResultType, convey.ShouldEqual, calculator.ResultGreedyTimeout)
				convey.So(res.MaxScore.IsZero(), convey.ShouldBeTrue)
				convey.So(res.Stats.Err, convey.ShouldNotBeNil)
			})
		})

		convey.Convey("When the solver panics", func() {
			solver.panics["boom"] = true
			job := model.NewJob("boom", nil)
			q.jobs <- job
			res := await(t, job)

			convey.Convey("Then the worker survives and answers", func() {
				convey.So(res.ResultType, convey.ShouldEqual, calculator.ResultGreedyTimeout)

				next := model.NewJob("qb-wins", []string{"Bears"})
				q.jobs <- next
				convey.So(await(t, next).MaxScore.String(), convey.ShouldEqual, "1")
			})
		})

		convey.Convey("When shutting down", func() {
			shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
			defer shutdownCancel()

			convey.So(w.Shutdown(shutdownCtx), convey.ShouldBeNil)

			convey.Convey("Then shutting down again is harmless", func() {
				convey.So(func() { _ = w.Shutdown(shutdownCtx) }, convey.ShouldNotPanic)
				convey.So(w.Shutdown(shutdownCtx), convey.ShouldBeNil)
			})
		})
	})
}

func TestWorkerPool(t *testing.T) {
	convey.Convey("Given a pool over a real queue", t, func() {
		_ = logging.Init()

		q := queue.NewInMemoryQueue(queue.WithCapacity(64))
		solver := newMockSolver()
		solver.delay = 20 * time.Millisecond
		pool := worker.NewPool(3, q, solver)
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		pool.Start(ctx)

		convey.Convey("When many jobs arrive at once", func() {
			jobs := make([]model.Job, 12)
			for i := range jobs {
				jobs[i] = model.NewJob("qb-wins", []string{"Bears"})
				convey.So(q.Enqueue(ctx, jobs[i]), convey.ShouldBeNil)
			}
			for _, j := range jobs {
				await(t, j)
			}

			convey.Convey("Then every job is answered by at most three workers at once", func() {
				convey.So(pool.Size(), convey.ShouldEqual, 3)
				convey.So(atomic.LoadInt32(&solver.calls), convey.ShouldEqual, 12)
				convey.So(atomic.LoadInt32(&solver.maxSeen), convey.ShouldBeLessThanOrEqualTo, 3)
			})
		})

		convey.Convey("When shutting down with jobs still queued", func() {
			pending := model.NewJob("qb-wins", []string{"Bears"})
			convey.So(q.Enqueue(ctx, pending), convey.ShouldBeNil)

			err := pool.Shutdown(context.Background())

			convey.Convey("Then queued jobs are drained first", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(await(t, pending).ResultType, convey.ShouldEqual, calculator.ResultOptimized)
				convey.So(q.IsClosed(), convey.ShouldBeTrue)
			})
		})
	})

	convey.Convey("Given a non-positive worker count", t, func() {
		_ = logging.Init()
		pool := worker.NewPool(0, newMockQueue(), newMockSolver())

		convey.Convey("Then one worker per CPU is created", func() {
			convey.So(pool.Size(), convey.ShouldBeGreaterThan, 0)
		})
	})
}
