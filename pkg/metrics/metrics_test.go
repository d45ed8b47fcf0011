package metrics

import (
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	. "github.com/smartystreets/goconvey/convey"
)

func TestMetricsManagerCreation(t *testing.T) {
	Convey("Given metrics manager creation", t, func() {
		Convey("When creating with a private registry", func() {
			registry := prometheus.NewRegistry()
			manager := NewManager(WithPrometheusRegistry(registry))

			Convey("Then it should be created with defaults", func() {
				So(manager, ShouldNotBeNil)
				So(manager.RefreshInterval(), ShouldEqual, defaultRefreshInterval)
			})
		})

		Convey("When creating with custom options", func() {
			registry := prometheus.NewRegistry()
			manager := NewManager(
				WithNamespace("test"),
				WithSubsystem("views"),
				WithHistogramBuckets([]float64{1, 10}),
				WithRefreshInterval(5*time.Second),
				WithCustomLabels(map[string]string{"env": "test"}),
				WithPrometheusRegistry(registry),
			)

			Convey("Then collectors carry the custom names", func() {
				So(manager.RefreshInterval(), ShouldEqual, 5*time.Second)
				manager.recomputeTotal.Inc()
				families, err := registry.Gather()
				So(err, ShouldBeNil)
				found := false
				for _, f := range families {
					if f.GetName() == "test_views_recompute_total" {
						found = true
					}
				}
				So(found, ShouldBeTrue)
			})
		})
	})
}

func TestMetricsRecording(t *testing.T) {
	Convey("Given the global manager", t, func() {
		Convey("When recording recomputations", func() {
			before := testutil.ToFloat64(globalManager.recomputeTotal)
			RecordRecompute(1.5)
			RecordRecompute(2.5)

			Convey("Then the counter advances", func() {
				So(testutil.ToFloat64(globalManager.recomputeTotal)-before, ShouldEqual, 2)
			})
		})

		Convey("When recording errors and skipped rows", func() {
			RecordRecomputeError("unknown_metric")
			RecordRowsSkipped("mix", "incomplete", 3)
			RecordRowsSkipped("mix", "incomplete", 0)

			Convey("Then labelled series exist", func() {
				So(testutil.ToFloat64(globalManager.recomputeErrors.WithLabelValues("unknown_metric")), ShouldBeGreaterThanOrEqualTo, 1)
				So(testutil.ToFloat64(globalManager.rowsSkipped.WithLabelValues("mix", "incomplete")), ShouldBeGreaterThanOrEqualTo, 3)
			})
		})

		Convey("When updating gauges", func() {
			So(func() {
				UpdateViewRows("series", 42)
				UpdateLatestSeq(7)
				UpdateSnapshotCacheSize(2)
				RecordSnapshotCacheHit()
				RecordSnapshotCacheMiss()
				RecordDatasetLoad("emissions", 12)
				RecordDatasetLoadError("emissions")
				UpdateRowsKept("emissions", 100)
				UpdateQueueSize(1)
				UpdateQueueCapacity(16)
				RecordQueueEnqueue()
				RecordQueueDequeue()
				RecordQueueEnqueueError("full")
				RecordHTTPRequest("views", "GET", "200")
				RecordHTTPRequestDuration("views", "GET", "200", 3)
				RecordErrorByEndpoint("views", "GET", "client_error")
				RecordErrorByType("client_error", "medium")
				UpdateSystemMemoryUsage(1024)
				UpdateSystemGoroutineCount(10)
				RecordSystemGCPauseTime(0.3)
			}, ShouldNotPanic)

			Convey("Then values are readable", func() {
				So(testutil.ToFloat64(globalManager.viewRows.WithLabelValues("series")), ShouldEqual, 42)
				So(testutil.ToFloat64(globalManager.latestSeq), ShouldEqual, 7)
			})
		})

		Convey("When gathering the registry", func() {
			RecordRecompute(1)
			families, err := GetRegistry().Gather()

			Convey("Then carbonview metrics are exposed", func() {
				So(err, ShouldBeNil)
				names := make([]string, 0, len(families))
				for _, f := range families {
					names = append(names, f.GetName())
				}
				So(strings.Join(names, ","), ShouldContainSubstring, "carbonview_engine_recompute_total")
			})
		})
	})
}
