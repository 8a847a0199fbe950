package resultcache_test

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	. "github.com/smartystreets/goconvey/convey"

	"github.com/sethseligman/statstack-v1-archive/internal/adapters/resultcache"
	"github.com/sethseligman/statstack-v1-archive/internal/domain/calculator"
)

func result(score int64) calculator.Result {
	return calculator.Result{
		MaxScore:     decimal.NewFromInt(score),
		OptimalPicks: []calculator.Pick{{Team: "Bears", QB: "Jim McMahon", Wins: decimal.NewFromInt(score)}},
		ResultType:   calculator.ResultOptimized,
	}
}

func TestMemoryStore(t *testing.T) {
	Convey("Given a new MemoryStore", t, func() {
		ctx := context.Background()

		Convey("When created with default options", func() {
			s := resultcache.NewMemoryStore()

			Convey("Then it should be empty", func() {
				So(s.Size(), ShouldEqual, 0)
				_, ok, err := s.Get(ctx, "missing")
				So(err, ShouldBeNil)
				So(ok, ShouldBeFalse)
			})
		})

		Convey("When a result is stored", func() {
			s := resultcache.NewMemoryStore()
			So(s.Set(ctx, "k", result(46)), ShouldBeNil)

			Convey("Then it should be returned as stored", func() {
				res, ok, err := s.Get(ctx, "k")
				So(err, ShouldBeNil)
				So(ok, ShouldBeTrue)
				So(res.MaxScore.String(), ShouldEqual, "46")
				So(res.OptimalPicks[0].QB, ShouldEqual, "Jim McMahon")
			})

			Convey("And the key is stored again", func() {
				So(s.Set(ctx, "k", result(50)), ShouldBeNil)

				Convey("Then the value is replaced without growing", func() {
					res, _, _ := s.Get(ctx, "k")
					So(res.MaxScore.String(), ShouldEqual, "50")
					So(s.Size(), ShouldEqual, 1)
				})
			})
		})

		Convey("When the bound is exceeded", func() {
			s := resultcache.NewMemoryStore(resultcache.WithMaxSize(3))
			for i := 1; i <= 5; i++ {
				So(s.Set(ctx, fmt.Sprintf("k%d", i), result(int64(i))), ShouldBeNil)
			}

			Convey("Then the oldest entries are evicted first", func() {
				So(s.Size(), ShouldEqual, 3)
				for _, gone := range []string{"k1", "k2"} {
					_, ok, _ := s.Get(ctx, gone)
					So(ok, ShouldBeFalse)
				}
				for _, kept := range []string{"k3", "k4", "k5"} {
					_, ok, _ := s.Get(ctx, kept)
					So(ok, ShouldBeTrue)
				}
			})
		})

		Convey("When unbounded", func() {
			s := resultcache.NewMemoryStore(resultcache.WithMaxSize(0))
			for i := 0; i < 200; i++ {
				So(s.Set(ctx, fmt.Sprintf("k%d", i), result(1)), ShouldBeNil)
			}

			Convey("Then nothing is evicted", func() {
				So(s.Size(), ShouldEqual, 200)
			})
		})

		Convey("When accessed concurrently", func() {
			s := resultcache.NewMemoryStore(resultcache.WithMaxSize(50))
			var wg sync.WaitGroup
			for g := 0; g < 8; g++ {
				wg.Add(1)
				go func(g int) {
					defer wg.Done()
					for i := 0; i < 100; i++ {
						key := fmt.Sprintf("g%d-%d", g, i)
						_ = s.Set(ctx, key, result(int64(i)))
						_, _, _ = s.Get(ctx, key)
					}
				}(g)
			}
			wg.Wait()

			Convey("Then the bound holds", func() {
				So(s.Size(), ShouldEqual, 50)
			})
		})
	})
}
