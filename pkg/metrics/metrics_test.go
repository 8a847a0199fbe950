package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	. "github.com/smartystreets/goconvey/convey"
)

func TestMetricsOptions(t *testing.T) {
	Convey("Given metrics options", t, func() {
		Convey("When applying them to a manager", func() {
			registry := prometheus.NewRegistry()
			m := NewManager(
				WithNamespace("test_ns"),
				WithSubsystem("test_sub"),
				WithLatencyBuckets([]float64{1, 2, 3}),
				WithConstLabels(map[string]string{"env": "test"}),
				WithPrometheusRegistry(registry),
			)

			Convey("Then the manager should carry them", func() {
				So(m.namespace, ShouldEqual, "test_ns")
				So(m.subsystem, ShouldEqual, "test_sub")
				So(m.latencyBuckets, ShouldResemble, []float64{1, 2, 3})
				So(m.constLabels["env"], ShouldEqual, "test")
			})
		})

		Convey("When passing empty values", func() {
			m := NewManager(
				WithNamespace(""),
				WithSubsystem(""),
				WithLatencyBuckets(nil),
				WithPrometheusRegistry(prometheus.NewRegistry()),
			)

			Convey("Then the defaults should stay", func() {
				So(m.namespace, ShouldEqual, "statstack")
				So(m.subsystem, ShouldEqual, "optimal_score")
				So(m.latencyBuckets, ShouldNotBeEmpty)
			})
		})
	})
}

func TestManagerRegistration(t *testing.T) {
	Convey("Given a fresh registry", t, func() {
		registry := prometheus.NewRegistry()
		m := NewManager(WithPrometheusRegistry(registry))
		m.calculations.WithLabelValues("qb-wins", "optimized").Inc()
		m.memoHits.Add(3)

		Convey("When gathering", func() {
			families, err := registry.Gather()
			So(err, ShouldBeNil)

			names := map[string]*dto.MetricFamily{}
			for _, f := range families {
				names[f.GetName()] = f
			}

			Convey("Then the namespaced collectors should be present", func() {
				So(names, ShouldContainKey, "statstack_optimal_score_calculations_total")
				So(names, ShouldContainKey, "statstack_optimal_score_memo_hits_total")
				So(names["statstack_optimal_score_memo_hits_total"].GetMetric()[0].GetCounter().GetValue(), ShouldEqual, 3)
			})
		})

		Convey("When registering a second manager on the same registry", func() {
			Convey("Then it should panic on duplicate collectors", func() {
				So(func() { NewManager(WithPrometheusRegistry(registry)) }, ShouldPanic)
			})
		})
	})
}

func TestMetricsRecording(t *testing.T) {
	Convey("Given the global recorders", t, func() {
		Convey("Then recording should not panic", func() {
			So(func() {
				RecordCalculation("qb-wins", "optimized", 12.5)
				RecordSearch(1200, 40, 300, 7)
				RecordScoreImprovement(4)
				RecordCalculationFallback("invalid_input")
				RecordResultCacheHit()
				RecordResultCacheMiss()
				RecordResultCacheError("get")
				UpdateQueueSize(2)
				UpdateQueueCapacity(128)
				RecordQueueEnqueue()
				RecordQueueDequeue()
				RecordQueueRejected("full")
				RecordQueueWait(0.4)
				UpdateWorkerCount(4)
				AddWorkerBusy(1)
				AddWorkerBusy(-1)
				RecordWorkerProcessingLatency(9)
				RecordWorkerError()
				RecordHTTPRequest("/optimal-score", "POST", "200")
				RecordHTTPRequestDuration("/optimal-score", "POST", "200", 15)
				RecordErrorByComponent("calculator", "timeout")
				RecordErrorByEndpoint("/optimal-score", "POST", "bad_request")
				UpdateSystemMemoryUsage(1 << 20)
				UpdateSystemGoroutineCount(12)
				RecordSystemGCPauseTime(0.2)
			}, ShouldNotPanic)
		})

		Convey("Then the custom registry should expose them", func() {
			RecordResultCacheHit()
			families, err := GetRegistry().Gather()
			So(err, ShouldBeNil)
			found := false
			for _, f := range families {
				if f.GetName() == "statstack_optimal_score_result_cache_hits_total" {
					found = true
				}
			}
			So(found, ShouldBeTrue)
		})
	})
}
