package main

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/smartystreets/goconvey/convey"

	"github.com/sethseligman/statstack-v1-archive/internal/adapters/resultcache"
	app "github.com/sethseligman/statstack-v1-archive/internal/app"
	"github.com/sethseligman/statstack-v1-archive/internal/config"
	"github.com/sethseligman/statstack-v1-archive/internal/domain/calculator"
	"github.com/sethseligman/statstack-v1-archive/pkg/logger"
)

func init() {
	if err := logger.Init(); err != nil {
		panic(err)
	}
}

func TestMainFunction(t *testing.T) {
	convey.Convey("Given the main application", t, func() {
		convey.Convey("When testing configuration loading", func() {
			_ = os.Setenv("STATSTACK_ADDR", ":8080")
			_ = os.Setenv("STATSTACK_QUEUE_SIZE", "1000")
			_ = os.Setenv("STATSTACK_WORKER_COUNT", "4")
			defer func() {
				_ = os.Unsetenv("STATSTACK_ADDR")
				_ = os.Unsetenv("STATSTACK_QUEUE_SIZE")
				_ = os.Unsetenv("STATSTACK_WORKER_COUNT")
			}()

			convey.Convey("Then configuration should be loadable", func() {
				cfg, err := config.Load(context.Background())
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":8080")
				convey.So(cfg.QueueSize, convey.ShouldEqual, 1000)
				convey.So(cfg.WorkerCount, convey.ShouldEqual, 4)
			})
		})

		convey.Convey("When computing the write timeout", func() {
			cfg := config.New()
			cfg.SearchDeadlineMS = 45_000

			convey.Convey("Then it outlasts the search deadline", func() {
				convey.So(writeTimeout(cfg), convey.ShouldBeGreaterThan, cfg.SearchDeadline())
			})
		})
	})
}

func TestResultStoreSelection(t *testing.T) {
	convey.Convey("Given result cache settings", t, func() {
		ctx := context.Background()
		cfg := config.New()
		log := logger.Nop()

		convey.Convey("When only a size is set", func() {
			store, closeStore := newResultStore(ctx, cfg, log)
			defer closeStore()

			convey.Convey("Then a memory store is used", func() {
				_, ok := store.(*resultcache.MemoryStore)
				convey.So(ok, convey.ShouldBeTrue)
			})
		})

		convey.Convey("When the size is zero", func() {
			cfg.ResultCacheSize = 0
			store, closeStore := newResultStore(ctx, cfg, log)
			defer closeStore()

			convey.Convey("Then caching is disabled", func() {
				convey.So(store, convey.ShouldBeNil)
			})
		})

		convey.Convey("When redis is unreachable", func() {
			cfg.RedisAddr = "127.0.0.1:1"
			store, closeStore := newResultStore(ctx, cfg, log)
			defer closeStore()

			convey.Convey("Then it degrades to memory", func() {
				_, ok := store.(*resultcache.MemoryStore)
				convey.So(ok, convey.ShouldBeTrue)
			})
		})
	})
}

func TestMainApplicationIntegration(t *testing.T) {
	convey.Convey("Given the assembled HTTP application", t, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		svc := app.New(
			app.WithWorkerCount(2),
			app.WithQueueSize(16),
			app.WithResultStore(resultcache.NewMemoryStore()),
			app.WithCalculatorOptions(calculator.WithDeadline(2*time.Second)),
		)
		convey.So(svc.Start(ctx), convey.ShouldBeNil)
		defer svc.Stop()

		srv := httptest.NewServer(newMux(ctx, svc))
		defer srv.Close()

		convey.Convey("When posting a sequence", func() {
			resp, err := http.Post(srv.URL+"/optimal-score", "application/json",
				strings.NewReader(`{"teams":["Packers","Broncos","Colts"]}`))
			convey.So(err, convey.ShouldBeNil)
			defer resp.Body.Close()

			convey.Convey("Then a result is returned", func() {
				convey.So(resp.StatusCode, convey.ShouldEqual, http.StatusOK)
			})
		})

		convey.Convey("When requesting each route", func() {
			for path, want := range map[string]int{
				"/":             http.StatusOK,
				"/healthz":      http.StatusOK,
				"/metrics":      http.StatusOK,
				"/stats":        http.StatusOK,
				"/sequence":     http.StatusOK,
				"/challenges":   http.StatusOK,
				"/api-docs":     http.StatusOK,
				"/openapi.yaml": http.StatusOK,
				"/leaderboard":  http.StatusNotFound,
			} {
				resp, err := http.Get(srv.URL + path)
				convey.So(err, convey.ShouldBeNil)
				_ = resp.Body.Close()
				convey.So(resp.StatusCode, convey.ShouldEqual, want)
			}
		})
	})
}

func TestMainApplicationComponents(t *testing.T) {
	convey.Convey("Given main application components", t, func() {
		convey.Convey("When running the updaters until their context ends", func() {
			ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
			defer cancel()

			convey.So(func() { startSystemMetricsUpdater(ctx) }, convey.ShouldNotPanic)
			convey.So(func() { startServiceMetricsUpdater(ctx, app.New()) }, convey.ShouldNotPanic)
		})

		convey.Convey("When updating metrics directly", func() {
			convey.So(updateSystemMetrics, convey.ShouldNotPanic)
			convey.So(func() { updateServiceMetrics(app.New()) }, convey.ShouldNotPanic)
		})
	})
}
