package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	. "github.com/smartystreets/goconvey/convey"
)

func gathered(reg *prometheus.Registry) map[string]*dto.MetricFamily {
	families, err := reg.Gather()
	So(err, ShouldBeNil)
	out := make(map[string]*dto.MetricFamily, len(families))
	for _, f := range families {
		out[f.GetName()] = f
	}
	return out
}

func TestMetricsOptions(t *testing.T) {
	Convey("Given metrics options", t, func() {
		Convey("When creating options", func() {
			namespaceOpt := WithNamespace("test-namespace")
			metricsEnabledOpt := WithMetricsEnabled(true)
			customLabelsOpt := WithCustomLabels(map[string]string{"env": "test"})
			registryOpt := WithPrometheusRegistry(prometheus.NewRegistry())

			Convey("Then they should be valid functions", func() {
				So(namespaceOpt, ShouldNotBeNil)
				So(metricsEnabledOpt, ShouldNotBeNil)
				So(customLabelsOpt, ShouldNotBeNil)
				So(registryOpt, ShouldNotBeNil)
			})
		})
	})
}

func TestMetricsManagerCreation(t *testing.T) {
	Convey("Given metrics manager creation", t, func() {
		Convey("When creating with a custom registry", func() {
			registry := prometheus.NewRegistry()
			manager := NewManager(WithPrometheusRegistry(registry))
			manager.queries.WithLabelValues("north").Inc()

			Convey("Then metrics should be registered under the default namespace", func() {
				So(manager, ShouldNotBeNil)
				So(manager.Enabled(), ShouldBeTrue)
				So(gathered(registry), ShouldContainKey, "morsel_sales_queries_total")
			})
		})

		Convey("When creating with custom options", func() {
			registry := prometheus.NewRegistry()
			manager := NewManager(
				WithNamespace("test"),
				WithMetricsEnabled(false),
				WithCustomLabels(map[string]string{"env": "test"}),
				WithPrometheusRegistry(registry),
			)
			manager.datasetRecords.Set(3)

			Convey("Then names, labels and state should follow the options", func() {
				So(manager.Enabled(), ShouldBeFalse)
				families := gathered(registry)
				So(families, ShouldContainKey, "test_sales_dataset_records")
				m := families["test_sales_dataset_records"].GetMetric()[0]
				So(m.GetGauge().GetValue(), ShouldEqual, 3)
				So(m.GetLabel()[0].GetName(), ShouldEqual, "env")
				So(m.GetLabel()[0].GetValue(), ShouldEqual, "test")
			})
		})
	})
}

func TestConfigure(t *testing.T) {
	Convey("Given the global manager", t, func() {
		defer Configure()

		Convey("When configured with a namespace and labels", func() {
			reg := Configure(WithNamespace("shop"), WithCustomLabels(map[string]string{"env": "staging"}))
			RecordQuery("north")

			Convey("Then recordings land on the new registry under the new names", func() {
				So(GetRegistry(), ShouldEqual, reg)
				families := gathered(reg)
				So(families, ShouldContainKey, "shop_sales_queries_total")
				So(families, ShouldNotContainKey, "morsel_sales_queries_total")
				labels := families["shop_sales_queries_total"].GetMetric()[0].GetLabel()
				names := make([]string, 0, len(labels))
				for _, l := range labels {
					names = append(names, l.GetName()+"="+l.GetValue())
				}
				So(names, ShouldContain, "env=staging")
				So(names, ShouldContain, "region=north")
			})
		})

		Convey("When configured disabled", func() {
			reg := Configure(WithMetricsEnabled(false))
			RecordQuery("north")
			UpdateDatasetRecords(9)

			Convey("Then nothing is recorded", func() {
				families := gathered(reg)
				So(families, ShouldNotContainKey, "morsel_sales_queries_total")
				So(families["morsel_sales_dataset_records"].GetMetric()[0].GetGauge().GetValue(), ShouldEqual, 0)
			})
		})
	})
}

func TestGlobalRecording(t *testing.T) {
	Convey("Given the global metrics registry", t, func() {
		Convey("When recording ingestion metrics", func() {
			RecordIngestRows(5, 2)
			RecordIngestSource()
			RecordIngestFailure("malformed_price")
			RecordIngestDuration(12.5)
			RecordArtifactWrite()

			Convey("Then the ingestion families should be exposed", func() {
				families := gathered(GetRegistry())
				So(families, ShouldContainKey, "morsel_sales_ingest_rows_accepted_total")
				So(families, ShouldContainKey, "morsel_sales_ingest_rows_skipped_total")
				So(families, ShouldContainKey, "morsel_sales_ingest_sources_total")
				So(families, ShouldContainKey, "morsel_sales_ingest_failures_total")
				So(families, ShouldContainKey, "morsel_sales_ingest_duration_milliseconds")
				So(families, ShouldContainKey, "morsel_sales_artifact_writes_total")
				So(families["morsel_sales_ingest_rows_accepted_total"].GetMetric()[0].GetCounter().GetValue(),
					ShouldBeGreaterThanOrEqualTo, 5)
			})
		})

		Convey("When recording query metrics", func() {
			UpdateDatasetRecords(42)
			RecordQuery("all")
			RecordRepositoryQueryLatency(0.3)
			UpdateSeriesLength("all", 7)
			RecordFigureRender("all")

			Convey("Then the query families should be exposed", func() {
				families := gathered(GetRegistry())
				So(families["morsel_sales_dataset_records"].GetMetric()[0].GetGauge().GetValue(), ShouldEqual, 42)
				So(families, ShouldContainKey, "morsel_sales_queries_total")
				So(families, ShouldContainKey, "morsel_sales_series_length")
				So(families, ShouldContainKey, "morsel_sales_figure_renders_total")
			})
		})

		Convey("When recording HTTP and error metrics", func() {
			So(func() {
				RecordHTTPRequest("/api/series", "GET", "200")
				RecordHTTPRequestDuration("/api/series", "GET", "200", 1.5)
				RecordErrorByComponent("http", "invalid_filter")
				RecordErrorByType("invalid_filter", "warning")
				RecordErrorByEndpoint("/api/series", "GET", "invalid_filter")
				RecordErrorLatency("http", "invalid_filter", 0.2)
				UpdateSystemMemoryUsage(1 << 20)
				UpdateSystemGoroutineCount(12)
				RecordSystemGCPauseTime(0.4)
			}, ShouldNotPanic)
		})
	})
}
